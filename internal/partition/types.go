package partition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/geometric-consensus/internal/betti"
	"github.com/danielpatrickdp/geometric-consensus/internal/graph"
)

var (
	ErrNoTopology      = errors.New("partition: network has no topology")
	ErrEmptyTopology   = errors.New("partition: topology has no vertices")
	ErrUnknownStrategy = errors.New("partition: unknown recovery strategy")
)

// #region strategy
// Strategy names a recovery technique.
type Strategy string

const (
	StrategyDuality                Strategy = "DUALITY"
	StrategyGeometricDecomposition Strategy = "GEOMETRIC_DECOMPOSITION"
	StrategyManual                 Strategy = "MANUAL"
)

// Strategies lists every supported strategy in escalation order.
func Strategies() []Strategy {
	return []Strategy{StrategyDuality, StrategyGeometricDecomposition, StrategyManual}
}

// ParseStrategy accepts a strategy name in any case, with '-' or '_'.
func ParseStrategy(s string) (Strategy, error) {
	norm := Strategy(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_"))
	for _, st := range Strategies() {
		if st == norm {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}
// #endregion strategy

// #region shape
// Shape is a Platonic topology signature.
type Shape string

const (
	ShapeTetrahedron Shape = "TETRAHEDRON"
	ShapeCube        Shape = "CUBE"
	ShapeOctahedron  Shape = "OCTAHEDRON"
)

// Classify matches (|V|, |E|) against the polyhedral signatures:
// (4,6) tetrahedron, (6,12) octahedron, (8,12) cube. Anything else is
// treated as a cube.
func Classify(g *graph.Graph) Shape {
	switch {
	case g.Order() == 4 && g.Size() == 6:
		return ShapeTetrahedron
	case g.Order() == 6 && g.Size() == 12:
		return ShapeOctahedron
	case g.Order() == 8 && g.Size() == 12:
		return ShapeCube
	default:
		return ShapeCube
	}
}
// #endregion shape

// #region network
// Network is a peer set and the topology connecting it. Peers are carried
// through recovery untouched.
type Network struct {
	Peers    []string
	Topology *graph.Graph
}

// Info describes the connectivity of a network at one point in time.
type Info struct {
	Partitioned    bool
	PartitionCount int
	Components     [][]string
	Numbers        betti.Numbers
}

// Recovery reports one recovery attempt.
type Recovery struct {
	Success  bool
	Strategy Strategy
	Network  Network // the recovered network, or the input when nothing was applied
	Steps    int     // 0 when no transformation ran, otherwise 1
	Message  string
	From     Shape // set by duality only
	To       Shape
	Before   Info
	After    Info
}
// #endregion network
