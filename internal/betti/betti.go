// Package betti computes connectivity invariants of undirected graphs:
// component count, cycle rank and a triangle-based void estimate.
package betti

import (
	"github.com/danielpatrickdp/geometric-consensus/internal/graph"
)

// eulerTolerance is the allowed gap between V-E+F and b0-b1+b2.
const eulerTolerance = 0.01

// #region numbers
// Numbers holds the three Betti numbers of a graph.
type Numbers struct {
	Beta0 int // connected components
	Beta1 int // independent cycles, E - V + b0
	Beta2 int // max(0, F - E + V - b0) with F = triangle count; heuristic only
}

// Compute returns the Betti numbers of g.
func Compute(g *graph.Graph) Numbers {
	b0 := len(ComponentIDs(g))
	b1 := g.Size() - g.Order() + b0
	b2 := max(0, Triangles(g)-g.Size()+g.Order()-b0)
	return Numbers{Beta0: b0, Beta1: b1, Beta2: b2}
}

// Characteristic returns b0 - b1 + b2.
func (n Numbers) Characteristic() int { return n.Beta0 - n.Beta1 + n.Beta2 }
// #endregion numbers

// #region components
// ComponentIDs labels components with an explicit-stack DFS, visiting roots
// in id order. Each component lists ids in visit order.
func ComponentIDs(g *graph.Graph) [][]int {
	visited := make([]bool, g.Order())
	var comps [][]int
	for root := 0; root < g.Order(); root++ {
		if visited[root] {
			continue
		}
		var comp []int
		stack := []int{root}
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[v] {
				continue
			}
			visited[v] = true
			comp = append(comp, v)
			for _, w := range g.Neighbors(v) {
				if !visited[w] {
					stack = append(stack, w)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// Components is ComponentIDs rendered as vertex labels.
func Components(g *graph.Graph) [][]string {
	ids := ComponentIDs(g)
	out := make([][]string, len(ids))
	for i, comp := range ids {
		out[i] = make([]string, len(comp))
		for j, v := range comp {
			out[i][j] = g.Label(v)
		}
	}
	return out
}
// #endregion components

// #region euler
// Triangles counts 3-cliques, each once.
func Triangles(g *graph.Graph) int {
	count := 0
	for _, e := range g.Edges() {
		u, v := min(e.U, e.V), max(e.U, e.V)
		for _, w := range g.Neighbors(v) {
			if w > v && g.HasEdge(u, w) {
				count++
			}
		}
	}
	return count
}

// EulerCharacteristic returns V - E + F with F the triangle count.
func EulerCharacteristic(g *graph.Graph) int {
	return g.Order() - g.Size() + Triangles(g)
}

// Consistent compares V - E + F with b0 - b1 + b2. Because b1 is exact and
// b2 is clamped at zero, the two agree exactly when g has no triangles.
func Consistent(g *graph.Graph) bool {
	diff := float64(EulerCharacteristic(g) - Compute(g).Characteristic())
	return diff < eulerTolerance && diff > -eulerTolerance
}
// #endregion euler
