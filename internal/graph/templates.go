package graph

import "fmt"

// #region polyhedra
// Tetrahedron returns K4 on T1..T4.
func Tetrahedron() *Graph {
	return MustNew(
		[]string{"T1", "T2", "T3", "T4"},
		[][2]string{{"T1", "T2"}, {"T1", "T3"}, {"T1", "T4"}, {"T2", "T3"}, {"T2", "T4"}, {"T3", "T4"}},
	)
}

// Octahedron returns the octahedral graph on O1..O6 (K6 minus the matching
// O1-O6, O2-O5, O3-O4).
func Octahedron() *Graph {
	return MustNew(
		[]string{"O1", "O2", "O3", "O4", "O5", "O6"},
		[][2]string{
			{"O1", "O2"}, {"O1", "O3"}, {"O1", "O4"}, {"O1", "O5"},
			{"O2", "O3"}, {"O2", "O4"}, {"O2", "O6"},
			{"O3", "O5"}, {"O3", "O6"},
			{"O4", "O5"}, {"O4", "O6"},
			{"O5", "O6"},
		},
	)
}

// Cube returns the 3-cube graph on C1..C8.
func Cube() *Graph {
	return MustNew(
		[]string{"C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8"},
		[][2]string{
			{"C1", "C2"}, {"C1", "C3"}, {"C1", "C5"},
			{"C2", "C4"}, {"C2", "C6"},
			{"C3", "C4"}, {"C3", "C7"},
			{"C4", "C8"},
			{"C5", "C6"}, {"C5", "C7"},
			{"C6", "C8"},
			{"C7", "C8"},
		},
	)
}
// #endregion polyhedra

// #region families
func numbered(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

// Empty returns n isolated vertices v0..v(n-1).
func Empty(n int) *Graph {
	return MustNew(numbered("v", n), nil)
}

// Path returns the path v0-v1-...-v(n-1).
func Path(n int) *Graph {
	var edges []Edge
	for i := 0; i+1 < n; i++ {
		edges = append(edges, Edge{i, i + 1})
	}
	g, _ := FromIDs(numbered("v", n), edges)
	return g
}

// Cycle returns the cycle on n >= 3 vertices.
func Cycle(n int) (*Graph, error) {
	if n < 3 {
		return nil, fmt.Errorf("cycle needs at least 3 vertices, got %d", n)
	}
	edges := make([]Edge, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, Edge{i, (i + 1) % n})
	}
	return FromIDs(numbered("v", n), edges)
}

// Complete returns K_n.
func Complete(n int) *Graph {
	var edges []Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, Edge{i, j})
		}
	}
	g, _ := FromIDs(numbered("v", n), edges)
	return g
}

// CompleteBipartite returns K_{m,n} with parts A0..A(m-1) and B0..B(n-1).
func CompleteBipartite(m, n int) *Graph {
	labels := append(numbered("A", m), numbered("B", n)...)
	var edges []Edge
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			edges = append(edges, Edge{i, m + j})
		}
	}
	g, _ := FromIDs(labels, edges)
	return g
}

// Union returns the disjoint union of gs. Labels must not collide.
func Union(gs ...*Graph) (*Graph, error) {
	var labels []string
	var edges []Edge
	for _, g := range gs {
		base := len(labels)
		labels = append(labels, g.labels...)
		for _, e := range g.edges {
			edges = append(edges, Edge{base + e.U, base + e.V})
		}
	}
	return FromIDs(labels, edges)
}
// #endregion families
