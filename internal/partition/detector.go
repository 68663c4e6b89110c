// Package partition detects disconnected peer topologies and applies
// single-step structural recovery strategies.
package partition

import (
	"fmt"
	"log/slog"

	"github.com/danielpatrickdp/geometric-consensus/internal/betti"
	"github.com/danielpatrickdp/geometric-consensus/internal/graph"
)

// #region duality-table
type dualMapping struct {
	to        Shape
	transform func(*graph.Graph) (*graph.Graph, error)
}

// dualities replaces a topology with the template of its polyhedral dual.
// The cube and octahedron templates carry fresh labels, so the original
// vertex identities are not preserved.
var dualities = map[Shape]dualMapping{
	ShapeCube:       {to: ShapeOctahedron, transform: func(*graph.Graph) (*graph.Graph, error) { return graph.Octahedron(), nil }},
	ShapeOctahedron: {to: ShapeCube, transform: func(*graph.Graph) (*graph.Graph, error) { return graph.Cube(), nil }},
	ShapeTetrahedron: {to: ShapeTetrahedron, transform: func(g *graph.Graph) (*graph.Graph, error) {
		return g.Relabel(func(l string) string { return "T_" + l })
	}},
}
// #endregion duality-table

// #region detector
// Detector is stateless; every call recomputes connectivity from scratch.
type Detector struct {
	logger *slog.Logger
}

// NewDetector returns a detector. A nil logger means slog.Default().
func NewDetector(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{logger: logger.With("component", "partition")}
}

// Detect reports whether the topology has more than one component. A
// topology without vertices is rejected with ErrEmptyTopology.
func (d *Detector) Detect(net Network) (Info, error) {
	if net.Topology == nil {
		return Info{}, ErrNoTopology
	}
	if net.Topology.Order() == 0 {
		return Info{}, ErrEmptyTopology
	}
	n := betti.Compute(net.Topology)
	return Info{
		Partitioned:    n.Beta0 > 1,
		PartitionCount: n.Beta0,
		Components:     betti.Components(net.Topology),
		Numbers:        n,
	}, nil
}
// #endregion detector

// #region recover
// Recover applies strategy once and re-runs detection on the result.
// Success means the recovered topology is connected. A network that is not
// partitioned succeeds immediately with zero steps.
func (d *Detector) Recover(net Network, strategy Strategy) (Recovery, error) {
	before, err := d.Detect(net)
	if err != nil {
		return Recovery{}, err
	}
	rec := Recovery{Strategy: strategy, Network: net, Before: before, After: before}

	if !before.Partitioned {
		rec.Success = true
		rec.Message = "network is not partitioned"
		return rec, nil
	}

	var topo *graph.Graph
	switch strategy {
	case StrategyDuality:
		rec.From = Classify(net.Topology)
		mapping := dualities[rec.From]
		rec.To = mapping.to
		topo, err = mapping.transform(net.Topology)
		if err != nil {
			rec.Message = fmt.Sprintf("duality recovery failed: %v", err)
			return rec, nil
		}
	case StrategyGeometricDecomposition:
		topo = net.Topology.Subgraph(func(i int, _ graph.Edge) bool { return i%2 == 0 })
	case StrategyManual:
		rec.Message = "manual recovery requires operator intervention"
		d.logger.Info("partition left for manual recovery", "components", before.PartitionCount)
		return rec, nil
	default:
		return Recovery{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	rec.Steps = 1
	rec.Network = Network{Peers: net.Peers, Topology: topo}
	rec.After, _ = d.Detect(rec.Network) // topo is non-nil

	switch {
	case rec.After.Partitioned:
		rec.Message = fmt.Sprintf("%s did not resolve partition: %d components remain", describe(rec), rec.After.PartitionCount)
	default:
		rec.Success = true
		rec.Message = fmt.Sprintf("recovered using %s", describe(rec))
	}
	d.logger.Info("partition recovery",
		"strategy", string(strategy),
		"success", rec.Success,
		"before", before.PartitionCount,
		"after", rec.After.PartitionCount,
	)
	return rec, nil
}

func describe(r Recovery) string {
	if r.Strategy == StrategyDuality {
		return fmt.Sprintf("%s -> %s duality", r.From, r.To)
	}
	return "geometric decomposition"
}
// #endregion recover
