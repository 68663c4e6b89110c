package betti

import (
	"github.com/danielpatrickdp/geometric-consensus/internal/graph"
)

// Metrics summarises the connectivity of a topology.
type Metrics struct {
	Numbers              Numbers
	Partitioned          bool
	ComponentCount       int
	LargestComponent     int
	AverageComponentSize float64
	Diameter             int // longest shortest path inside any component
}

// Connectivity computes Metrics for g.
func Connectivity(g *graph.Graph) Metrics {
	comps := ComponentIDs(g)
	m := Metrics{
		Numbers:        Compute(g),
		ComponentCount: len(comps),
		Partitioned:    len(comps) > 1,
	}
	total := 0
	for _, c := range comps {
		m.LargestComponent = max(m.LargestComponent, len(c))
		total += len(c)
	}
	if len(comps) > 0 {
		m.AverageComponentSize = float64(total) / float64(len(comps))
	}
	m.Diameter = Diameter(g)
	return m
}

// Diameter runs an unbounded BFS walk from every vertex and returns the
// greatest hop depth reached.
func Diameter(g *graph.Graph) int {
	d := 0
	for _, label := range g.Labels() {
		walk, err := g.Walk(label, 0, 0)
		if err != nil {
			continue
		}
		for _, depth := range walk.Depths {
			d = max(d, depth)
		}
	}
	return d
}
