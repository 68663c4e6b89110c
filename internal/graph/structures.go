package graph

import (
	"fmt"
	"slices"
)

// MaxIsomorphismOrder caps the exhaustive permutation search.
const MaxIsomorphismOrder = 8

// #region complement
// Complement returns the graph on the same vertices whose edges are exactly
// the non-edges of g, enumerated in (i, j) id order with i < j.
func Complement(g *Graph) *Graph {
	var edges []Edge
	for i := 0; i < g.Order(); i++ {
		for j := i + 1; j < g.Order(); j++ {
			if !g.HasEdge(i, j) {
				edges = append(edges, Edge{i, j})
			}
		}
	}
	c, _ := FromIDs(g.labels, edges)
	return c
}

// SameEdgeSet reports whether a and b have identical labels and the same
// undirected edges, ignoring order.
func SameEdgeSet(a, b *Graph) bool {
	if a.Order() != b.Order() || a.Size() != b.Size() {
		return false
	}
	for _, l := range a.labels {
		if _, ok := b.index[l]; !ok {
			return false
		}
	}
	for _, e := range a.edges {
		u := b.index[a.labels[e.U]]
		v := b.index[a.labels[e.V]]
		if !b.HasEdge(u, v) {
			return false
		}
	}
	return true
}
// #endregion complement

// #region bipartite
// Bipartition 2-colours every component of g by BFS. It returns ok=false
// when some component contains an odd cycle.
func Bipartition(g *Graph) (colors []int, ok bool) {
	colors = make([]int, g.Order())
	for i := range colors {
		colors[i] = -1
	}
	for start := range colors {
		if colors[start] != -1 {
			continue
		}
		colors[start] = 0
		queue := []int{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range g.adj[cur] {
				switch colors[next] {
				case -1:
					colors[next] = 1 - colors[cur]
					queue = append(queue, next)
				case colors[cur]:
					return nil, false
				}
			}
		}
	}
	return colors, true
}

// IsBipartite reports whether g has no odd cycle.
func IsBipartite(g *Graph) bool {
	_, ok := Bipartition(g)
	return ok
}
// #endregion bipartite

// #region isomorphism
// Isomorphic reports whether a and b are isomorphic. Graphs above
// MaxIsomorphismOrder vertices fail with ErrSizeLimitExceeded before any
// search starts.
func Isomorphic(a, b *Graph) (bool, error) {
	if n := max(a.Order(), b.Order()); n > MaxIsomorphismOrder {
		return false, fmt.Errorf("isomorphism on %d vertices (max %d): %w", n, MaxIsomorphismOrder, ErrSizeLimitExceeded)
	}
	if a.Order() != b.Order() || a.Size() != b.Size() {
		return false, nil
	}
	if !slices.Equal(a.DegreeSequence(), b.DegreeSequence()) {
		return false, nil
	}

	n := a.Order()
	mapping := make([]int, n)
	used := make([]bool, n)

	var extend func(i int) bool
	extend = func(i int) bool {
		if i == n {
			return true
		}
		for j := 0; j < n; j++ {
			if used[j] || a.Degree(i) != b.Degree(j) {
				continue
			}
			consistent := true
			for k := 0; k < i; k++ {
				if a.HasEdge(i, k) != b.HasEdge(j, mapping[k]) {
					consistent = false
					break
				}
			}
			if !consistent {
				continue
			}
			mapping[i] = j
			used[j] = true
			if extend(i + 1) {
				return true
			}
			used[j] = false
		}
		return false
	}
	return extend(0), nil
}

// IsSelfComplementary reports whether g is isomorphic to its complement.
func IsSelfComplementary(g *Graph) (bool, error) {
	return Isomorphic(g, Complement(g))
}
// #endregion isomorphism

// #region stats
// Stats summarises the degree structure of a graph.
type Stats struct {
	Vertices      int
	Edges         int
	MinDegree     int
	MaxDegree     int
	AverageDegree float64
	Bipartite     bool
}

// Statistics computes Stats for g.
func Statistics(g *Graph) Stats {
	s := Stats{Vertices: g.Order(), Edges: g.Size(), Bipartite: IsBipartite(g)}
	if g.Order() == 0 {
		return s
	}
	seq := g.DegreeSequence()
	s.MaxDegree = seq[0]
	s.MinDegree = seq[len(seq)-1]
	s.AverageDegree = 2 * float64(g.Size()) / float64(g.Order())
	return s
}
// #endregion stats
