// Package graph provides an immutable simple undirected graph stored as an
// arena: vertices are dense integer ids with a label index on the side.
package graph

import (
	"fmt"
	"sort"
)

// #region types
// Edge joins two vertex ids. Edges keep the orientation and order in which
// they were supplied; equality checks ignore orientation.
type Edge struct {
	U, V int
}

func (e Edge) key() Edge {
	if e.U > e.V {
		return Edge{e.V, e.U}
	}
	return e
}

// Graph is a simple undirected graph. It is never mutated after New returns,
// so values can be shared freely between goroutines.
type Graph struct {
	labels []string
	index  map[string]int
	adj    [][]int // sorted neighbour ids
	edges  []Edge
	set    map[Edge]struct{}
}

// WalkResult holds the vertices reached by a breadth-first walk.
type WalkResult struct {
	Labels []string // in visit order
	Depths []int    // hop count from the entry vertex
}
// #endregion types

// #region constructor
// New builds a graph from vertex labels and label pairs. Labels must be
// unique and non-empty; edges must join known, distinct vertices at most once.
func New(vertices []string, edges [][2]string) (*Graph, error) {
	g := &Graph{
		labels: make([]string, len(vertices)),
		index:  make(map[string]int, len(vertices)),
		adj:    make([][]int, len(vertices)),
		edges:  make([]Edge, 0, len(edges)),
		set:    make(map[Edge]struct{}, len(edges)),
	}
	for i, v := range vertices {
		if v == "" {
			return nil, fmt.Errorf("%w at index %d", ErrEmptyLabel, i)
		}
		if _, ok := g.index[v]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateVertex, v)
		}
		g.labels[i] = v
		g.index[v] = i
	}
	for _, pair := range edges {
		u, ok := g.index[pair[0]]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVertex, pair[0])
		}
		v, ok := g.index[pair[1]]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVertex, pair[1])
		}
		if err := g.addEdge(u, v); err != nil {
			return nil, err
		}
	}
	for _, n := range g.adj {
		sort.Ints(n)
	}
	return g, nil
}

// MustNew is New for fixed tables known to be valid.
func MustNew(vertices []string, edges [][2]string) *Graph {
	g, err := New(vertices, edges)
	if err != nil {
		panic(err)
	}
	return g
}

// FromIDs builds a graph over labels from edges given as vertex ids.
func FromIDs(labels []string, edges []Edge) (*Graph, error) {
	pairs := make([][2]string, 0, len(edges))
	for _, e := range edges {
		if e.U < 0 || e.U >= len(labels) || e.V < 0 || e.V >= len(labels) {
			return nil, fmt.Errorf("%w: edge %d-%d", ErrUnknownVertex, e.U, e.V)
		}
		pairs = append(pairs, [2]string{labels[e.U], labels[e.V]})
	}
	return New(labels, pairs)
}

func (g *Graph) addEdge(u, v int) error {
	if u == v {
		return fmt.Errorf("%w: %q", ErrSelfLoop, g.labels[u])
	}
	e := Edge{u, v}
	if _, ok := g.set[e.key()]; ok {
		return fmt.Errorf("%w: %q-%q", ErrDuplicateEdge, g.labels[u], g.labels[v])
	}
	g.set[e.key()] = struct{}{}
	g.edges = append(g.edges, e)
	g.adj[u] = append(g.adj[u], v)
	g.adj[v] = append(g.adj[v], u)
	return nil
}
// #endregion constructor

// #region accessors
// Order returns |V|.
func (g *Graph) Order() int { return len(g.labels) }

// Size returns |E|.
func (g *Graph) Size() int { return len(g.edges) }

// Labels returns a copy of the vertex labels in id order.
func (g *Graph) Labels() []string {
	out := make([]string, len(g.labels))
	copy(out, g.labels)
	return out
}

// Label returns the label of vertex id.
func (g *Graph) Label(id int) string { return g.labels[id] }

// Index returns the id for label.
func (g *Graph) Index(label string) (int, bool) {
	id, ok := g.index[label]
	return id, ok
}

// Edges returns a copy of the edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// EdgePairs returns the edges as label pairs in insertion order.
func (g *Graph) EdgePairs() [][2]string {
	out := make([][2]string, len(g.edges))
	for i, e := range g.edges {
		out[i] = [2]string{g.labels[e.U], g.labels[e.V]}
	}
	return out
}

// Neighbors returns the sorted neighbour ids of id. The slice must not be modified.
func (g *Graph) Neighbors(id int) []int { return g.adj[id] }

// Degree returns the number of neighbours of id.
func (g *Graph) Degree(id int) int { return len(g.adj[id]) }

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v int) bool {
	_, ok := g.set[Edge{u, v}.key()]
	return ok
}

// DegreeSequence returns vertex degrees sorted in descending order.
func (g *Graph) DegreeSequence() []int {
	out := make([]int, len(g.adj))
	for i, n := range g.adj {
		out[i] = len(n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// Relabel returns a copy of g with every label passed through fn.
func (g *Graph) Relabel(fn func(string) string) (*Graph, error) {
	labels := make([]string, len(g.labels))
	for i, l := range g.labels {
		labels[i] = fn(l)
	}
	return FromIDs(labels, g.edges)
}

// Subgraph returns the graph on the same vertices keeping only edges for
// which keep(index, edge) is true. Edge order is preserved.
func (g *Graph) Subgraph(keep func(i int, e Edge) bool) *Graph {
	var kept []Edge
	for i, e := range g.edges {
		if keep(i, e) {
			kept = append(kept, e)
		}
	}
	sub, _ := FromIDs(g.labels, kept) // a subset of valid edges is valid
	return sub
}
// #endregion accessors

// #region walk
// Walk performs a BFS from entry up to maxDepth hops and maxNodes vertices.
// Non-positive limits mean unbounded.
func (g *Graph) Walk(entry string, maxDepth, maxNodes int) (WalkResult, error) {
	start, ok := g.index[entry]
	if !ok {
		return WalkResult{}, fmt.Errorf("walk: %w: %q", ErrUnknownVertex, entry)
	}
	if maxDepth <= 0 {
		maxDepth = len(g.labels)
	}
	if maxNodes <= 0 {
		maxNodes = len(g.labels)
	}

	result := WalkResult{Labels: []string{entry}, Depths: []int{0}}
	visited := make([]bool, len(g.labels))
	visited[start] = true

	type queueItem struct {
		id    int
		depth int
	}
	queue := []queueItem{{start, 0}}

	for len(queue) > 0 {
		if len(result.Labels) >= maxNodes {
			break
		}
		current := queue[0]
		queue = queue[1:]
		if current.depth >= maxDepth {
			continue
		}
		for _, next := range g.adj[current.id] {
			if len(result.Labels) >= maxNodes {
				break
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			result.Labels = append(result.Labels, g.labels[next])
			result.Depths = append(result.Depths, current.depth+1)
			queue = append(queue, queueItem{next, current.depth + 1})
		}
	}
	return result, nil
}
// #endregion walk
