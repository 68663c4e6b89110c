// Package validity decides whether a graph is an admissible consensus shape:
// cycle detection, chromatic polynomials, and acyclic orientation counts.
package validity

import "github.com/danielpatrickdp/geometric-consensus/internal/graph"

// #region has-cycle
// HasCycle reports whether the undirected graph g contains a cycle. The
// traversal ignores the edge back to a vertex's DFS parent, so a single
// undirected edge is never mistaken for a 2-cycle.
func HasCycle(g *graph.Graph) bool {
	n := g.Order()
	visited := make([]bool, n)
	parent := make([]int, n)

	type frame struct {
		id   int
		next int // index into Neighbors(id)
	}
	for root := 0; root < n; root++ {
		if visited[root] {
			continue
		}
		visited[root] = true
		parent[root] = -1
		stack := []frame{{root, 0}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			nbrs := g.Neighbors(top.id)
			if top.next == len(nbrs) {
				stack = stack[:len(stack)-1]
				continue
			}
			w := nbrs[top.next]
			top.next++
			if w == parent[top.id] {
				continue
			}
			if visited[w] {
				return true
			}
			visited[w] = true
			parent[w] = top.id
			stack = append(stack, frame{w, 0})
		}
	}
	return false
}

// Acyclic reports whether g is a forest.
func Acyclic(g *graph.Graph) bool { return !HasCycle(g) }
// #endregion has-cycle

// #region find-cycles
// FindCycles returns one simple cycle per non-tree edge of a DFS forest,
// a cycle basis of size |E| - |V| + components. Each cycle lists labels from
// the descendant endpoint up to its ancestor, without repeating the start.
func FindCycles(g *graph.Graph) [][]string {
	n := g.Order()
	depth := make([]int, n)
	parent := make([]int, n)
	for i := range depth {
		depth[i] = -1
	}

	var cycles [][]string
	var visit func(u int)
	visit = func(u int) {
		for _, w := range g.Neighbors(u) {
			switch {
			case depth[w] == -1:
				depth[w] = depth[u] + 1
				parent[w] = u
				visit(w)
			case w != parent[u] && depth[w] < depth[u]:
				cycle := []string{g.Label(u)}
				for x := parent[u]; x != w; x = parent[x] {
					cycle = append(cycle, g.Label(x))
				}
				cycles = append(cycles, append(cycle, g.Label(w)))
			}
		}
	}
	for root := 0; root < n; root++ {
		if depth[root] == -1 {
			depth[root] = 0
			parent[root] = -1
			visit(root)
		}
	}
	return cycles
}
// #endregion find-cycles
