package graph

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomGraph returns a G(n, p) graph from a seeded source.
func randomGraph(r *rand.Rand, n int, p float64) *Graph {
	var edges []Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r.Float64() < p {
				edges = append(edges, Edge{i, j})
			}
		}
	}
	g, _ := FromIDs(numbered("v", n), edges)
	return g
}

// #region constructor
func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		vertices []string
		edges    [][2]string
		want     error
	}{
		{"empty label", []string{"a", ""}, nil, ErrEmptyLabel},
		{"duplicate vertex", []string{"a", "a"}, nil, ErrDuplicateVertex},
		{"unknown vertex", []string{"a"}, [][2]string{{"a", "b"}}, ErrUnknownVertex},
		{"self loop", []string{"a"}, [][2]string{{"a", "a"}}, ErrSelfLoop},
		{"duplicate edge", []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}}, ErrDuplicateEdge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.vertices, tt.edges)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNew_PreservesEdgeOrder(t *testing.T) {
	g, err := New([]string{"a", "b", "c"}, [][2]string{{"c", "a"}, {"a", "b"}})
	require.NoError(t, err)

	assert.Equal(t, 3, g.Order())
	assert.Equal(t, 2, g.Size())
	assert.Equal(t, [][2]string{{"c", "a"}, {"a", "b"}}, g.EdgePairs())
	assert.True(t, g.HasEdge(0, 2))
	assert.True(t, g.HasEdge(2, 0))
	assert.False(t, g.HasEdge(1, 2))
	assert.Equal(t, []int{1, 2}, g.Neighbors(0))
	assert.Equal(t, []int{2, 1, 1}, g.DegreeSequence())
}

func TestSubgraph_KeepsEvenIndices(t *testing.T) {
	sub := Cube().Subgraph(func(i int, _ Edge) bool { return i%2 == 0 })
	assert.Equal(t, 8, sub.Order())
	assert.Equal(t, 6, sub.Size())
	assert.Equal(t, [2]string{"C1", "C2"}, sub.EdgePairs()[0])
	assert.Equal(t, [2]string{"C1", "C5"}, sub.EdgePairs()[1])
}

func TestRelabel(t *testing.T) {
	g, err := Tetrahedron().Relabel(func(s string) string { return "T_" + s })
	require.NoError(t, err)
	assert.Equal(t, []string{"T_T1", "T_T2", "T_T3", "T_T4"}, g.Labels())
	assert.Equal(t, 6, g.Size())

	_, err = Tetrahedron().Relabel(func(string) string { return "x" })
	assert.ErrorIs(t, err, ErrDuplicateVertex)
}
// #endregion constructor

// #region walk
func TestWalk_Depths(t *testing.T) {
	g := Path(5)
	res, err := g.Walk("v0", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"v0", "v1", "v2", "v3", "v4"}, res.Labels)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, res.Depths)
}

func TestWalk_Limits(t *testing.T) {
	g := Path(5)
	res, err := g.Walk("v2", 1, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"v1", "v2", "v3"}, res.Labels)

	res, err = g.Walk("v0", 0, 2)
	require.NoError(t, err)
	assert.Len(t, res.Labels, 2)
}

func TestWalk_StaysInComponent(t *testing.T) {
	g, err := Union(Tetrahedron(), Octahedron())
	require.NoError(t, err)
	res, err := g.Walk("T1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, res.Labels, 4)

	_, err = g.Walk("missing", 0, 0)
	assert.ErrorIs(t, err, ErrUnknownVertex)
}
// #endregion walk

// #region complement
func TestComplement_Involution(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	graphs := []*Graph{Empty(0), Empty(4), Complete(5), Cube(), Octahedron(), CompleteBipartite(2, 3)}
	for i := 0; i < 25; i++ {
		graphs = append(graphs, randomGraph(r, 1+r.IntN(9), r.Float64()))
	}
	for i, g := range graphs {
		cc := Complement(Complement(g))
		assert.True(t, SameEdgeSet(g, cc), "graph %d", i)
	}
}

func TestComplement_EdgeCount(t *testing.T) {
	c := Complement(Cube())
	assert.Equal(t, 8*7/2-12, c.Size())
	assert.Zero(t, Complement(Complete(6)).Size())
}

func TestSameEdgeSet_IgnoresOrder(t *testing.T) {
	a := MustNew([]string{"x", "y", "z"}, [][2]string{{"x", "y"}, {"y", "z"}})
	b := MustNew([]string{"z", "y", "x"}, [][2]string{{"z", "y"}, {"y", "x"}})
	c := MustNew([]string{"x", "y", "z"}, [][2]string{{"x", "z"}, {"y", "z"}})
	assert.True(t, SameEdgeSet(a, b))
	assert.False(t, SameEdgeSet(a, c))
}
// #endregion complement

// #region bipartite
func TestIsBipartite(t *testing.T) {
	c3, _ := Cycle(3)
	c4, _ := Cycle(4)
	mixed, err := Union(c4, MustNew([]string{"x", "y", "z"}, [][2]string{{"x", "y"}, {"y", "z"}, {"z", "x"}}))
	require.NoError(t, err)

	assert.True(t, IsBipartite(Cube()))
	assert.True(t, IsBipartite(CompleteBipartite(3, 4)))
	assert.True(t, IsBipartite(Empty(3)))
	assert.False(t, IsBipartite(c3))
	assert.False(t, IsBipartite(Tetrahedron()))
	assert.False(t, IsBipartite(mixed), "odd cycle in the second component")
}
// #endregion bipartite

// #region isomorphism
func TestIsomorphic(t *testing.T) {
	c6, _ := Cycle(6)
	c3, _ := Cycle(3)
	twoTriangles, err := Union(c3, MustNew([]string{"x", "y", "z"}, [][2]string{{"x", "y"}, {"y", "z"}, {"z", "x"}}))
	require.NoError(t, err)
	prism := MustNew(
		[]string{"a", "b", "c", "d", "e", "f"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"d", "e"}, {"e", "f"}, {"f", "d"}, {"a", "d"}, {"b", "e"}, {"c", "f"}},
	)
	shuffled := MustNew(
		[]string{"C8", "C3", "C5", "C1", "C7", "C2", "C6", "C4"},
		Cube().EdgePairs(),
	)

	tests := []struct {
		name string
		a, b *Graph
		want bool
	}{
		{"cube relabelled", Cube(), shuffled, true},
		{"cycle vs two triangles", c6, twoTriangles, false},
		{"k33 vs prism", CompleteBipartite(3, 3), prism, false},
		{"different order", Path(3), Path(4), false},
		{"octahedron vs complement of 3K2", Octahedron(), Complement(MustNew(numbered("v", 6), [][2]string{{"v0", "v1"}, {"v2", "v3"}, {"v4", "v5"}})), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Isomorphic(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsomorphic_SizeLimit(t *testing.T) {
	_, err := Isomorphic(Path(9), Path(9))
	assert.ErrorIs(t, err, ErrSizeLimitExceeded)
}

func TestIsSelfComplementary(t *testing.T) {
	c5, _ := Cycle(5)
	c4, _ := Cycle(4)
	for name, tc := range map[string]struct {
		g    *Graph
		want bool
	}{
		"p4": {Path(4), true},
		"c5": {c5, true},
		"c4": {c4, false},
	} {
		got, err := IsSelfComplementary(tc.g)
		require.NoError(t, err, name)
		assert.Equal(t, tc.want, got, name)
	}
}
// #endregion isomorphism

// #region templates
func TestTemplates(t *testing.T) {
	tests := []struct {
		g        *Graph
		vertices int
		edges    int
		degree   int
	}{
		{Tetrahedron(), 4, 6, 3},
		{Octahedron(), 6, 12, 4},
		{Cube(), 8, 12, 3},
	}
	for _, tt := range tests {
		s := Statistics(tt.g)
		assert.Equal(t, tt.vertices, s.Vertices)
		assert.Equal(t, tt.edges, s.Edges)
		assert.Equal(t, tt.degree, s.MinDegree)
		assert.Equal(t, tt.degree, s.MaxDegree)
		assert.InDelta(t, float64(tt.degree), s.AverageDegree, 1e-12)
	}
}

func TestFamilies(t *testing.T) {
	_, err := Cycle(2)
	assert.Error(t, err)

	k := CompleteBipartite(2, 3)
	assert.Equal(t, 5, k.Order())
	assert.Equal(t, 6, k.Size())
	assert.Equal(t, 10, Complete(5).Size())
	assert.Equal(t, 0, Statistics(Empty(0)).Vertices)

	_, err = Union(Path(2), Path(2))
	assert.ErrorIs(t, err, ErrDuplicateVertex)
}

func Example_complement() {
	fmt.Println(Complement(Path(4)).Size())
	// Output: 3
}
// #endregion templates
