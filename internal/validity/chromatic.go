package validity

import (
	"fmt"
	"math/bits"

	"github.com/danielpatrickdp/geometric-consensus/internal/graph"
)

// Method records how a chromatic polynomial was obtained.
type Method string

const (
	MethodExact     Method = "deletion-contraction"
	MethodGreedy    Method = "greedy-approximation"
	MethodHeuristic Method = "cycle-heuristic"
)

// Chromatic pairs a polynomial with the method that produced it. Only
// MethodExact results satisfy the combinatorial identities; the other two
// are coarse stand-ins kept for larger graphs.
type Chromatic struct {
	Polynomial Polynomial
	Method     Method
}

// #region dispatch
// ChromaticPolynomial picks the method by vertex count: exact up to
// MaxExactVertices, greedy up to MaxApproxVertices, cycle heuristic beyond.
func ChromaticPolynomial(g *graph.Graph) Chromatic {
	n := g.Order()
	switch {
	case n <= MaxExactVertices:
		p, _ := ChromaticExact(g) // within the exact ceiling by construction
		return Chromatic{Polynomial: p, Method: MethodExact}
	case n <= MaxApproxVertices:
		return Chromatic{Polynomial: greedyApproximation(g), Method: MethodGreedy}
	default:
		return Chromatic{Polynomial: cycleHeuristic(g), Method: MethodHeuristic}
	}
}

// ChromaticValid evaluates the polynomial at x = -1 and reports value > 0.
// For exact results |P(-1)| counts acyclic orientations and its sign is
// (-1)^|V|, so the predicate reflects vertex parity rather than acyclicity.
func ChromaticValid(g *graph.Graph) bool {
	return ChromaticPolynomial(g).Polynomial.Evaluate(-1) > 0
}
// #endregion dispatch

// #region exact
// snapshot is an immutable bitmask view of a graph with at most
// MaxExactVertices vertices. Deletion and contraction build new snapshots,
// so recursive branches never alias each other.
type snapshot struct {
	alive uint16
	adj   [MaxExactVertices]uint16
}

// ChromaticExact computes P(G) by memoised deletion-contraction,
// P(G) = P(G - e) - P(G / e). Graphs above MaxExactVertices are rejected.
func ChromaticExact(g *graph.Graph) (Polynomial, error) {
	if g.Order() > MaxExactVertices {
		return Polynomial{}, fmt.Errorf("chromatic polynomial on %d vertices (max %d): %w",
			g.Order(), MaxExactVertices, ErrSizeLimitExceeded)
	}
	var s snapshot
	for i := 0; i < g.Order(); i++ {
		s.alive |= 1 << i
	}
	for _, e := range g.Edges() {
		s.adj[e.U] |= 1 << e.V
		s.adj[e.V] |= 1 << e.U
	}
	memo := make(map[snapshot]Polynomial)
	return deletionContraction(s, memo), nil
}

func deletionContraction(s snapshot, memo map[snapshot]Polynomial) Polynomial {
	if p, ok := memo[s]; ok {
		return p
	}
	u, v, ok := firstEdge(s)
	if !ok {
		p := monomial(bits.OnesCount16(s.alive))
		memo[s] = p
		return p
	}

	deleted := s
	deleted.adj[u] &^= 1 << v
	deleted.adj[v] &^= 1 << u

	// merge v into u
	contracted := deleted
	for w := 0; w < MaxExactVertices; w++ {
		if contracted.adj[v]&(1<<w) != 0 {
			contracted.adj[w] &^= 1 << v
			contracted.adj[w] |= 1 << u
			contracted.adj[u] |= 1 << w
		}
	}
	contracted.adj[v] = 0
	contracted.alive &^= 1 << v

	p := deletionContraction(deleted, memo).Sub(deletionContraction(contracted, memo))
	memo[s] = p
	return p
}

func firstEdge(s snapshot) (u, v int, ok bool) {
	for u = 0; u < MaxExactVertices; u++ {
		if s.alive&(1<<u) == 0 {
			continue
		}
		if higher := s.adj[u] &^ (1<<(u+1) - 1); higher != 0 {
			return u, bits.TrailingZeros16(higher), true
		}
	}
	return 0, 0, false
}
// #endregion exact

// #region approximations
// GreedyChromaticNumber colours vertices in id order with the smallest
// colour unused by already-coloured neighbours and returns the colour count.
func GreedyChromaticNumber(g *graph.Graph) int {
	colors := make([]int, g.Order())
	for i := range colors {
		colors[i] = -1
	}
	count := 0
	for v := 0; v < g.Order(); v++ {
		used := make(map[int]bool, g.Degree(v))
		for _, w := range g.Neighbors(v) {
			if colors[w] >= 0 {
				used[colors[w]] = true
			}
		}
		c := 0
		for used[c] {
			c++
		}
		colors[v] = c
		count = max(count, c+1)
	}
	return count
}

// greedyApproximation returns x^k (x-1)^(n-k) with k the greedy colour count.
func greedyApproximation(g *graph.Graph) Polynomial {
	n := g.Order()
	k := GreedyChromaticNumber(g)
	p := monomial(k)
	xMinusOne := Polynomial{Coeffs: []int64{-1, 1}}
	for i := 0; i < n-k; i++ {
		p = p.Mul(xMinusOne)
	}
	return p
}

// cycleHeuristic returns x^n for forests and x^n - n x^(n-1) otherwise.
func cycleHeuristic(g *graph.Graph) Polynomial {
	n := g.Order()
	p := monomial(n)
	if n > 0 && HasCycle(g) {
		p.Coeffs[n-1] = -int64(n)
	}
	return p
}
// #endregion approximations
