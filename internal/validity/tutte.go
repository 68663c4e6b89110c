package validity

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/geometric-consensus/internal/graph"
)

// Tutte holds integer coefficients, Coeffs[i][j] multiplying x^i y^j.
// Rows are trimmed of trailing zeros; the zero polynomial is {{0}}.
type Tutte struct {
	Coeffs [][]int64
}

func newTutte(rows [][]int64) Tutte {
	end := len(rows)
	for end > 0 && rowZero(rows[end-1]) {
		end--
	}
	if end == 0 {
		return Tutte{Coeffs: [][]int64{{0}}}
	}
	out := make([][]int64, end)
	for i := range out {
		row := rows[i]
		n := len(row)
		for n > 1 && row[n-1] == 0 {
			n--
		}
		if n == 0 {
			out[i] = []int64{0}
			continue
		}
		out[i] = append([]int64(nil), row[:n]...)
	}
	return Tutte{Coeffs: out}
}

func rowZero(row []int64) bool {
	for _, c := range row {
		if c != 0 {
			return false
		}
	}
	return true
}

// Coefficient returns the coefficient of x^i y^j.
func (t Tutte) Coefficient(i, j int) int64 {
	if i < 0 || i >= len(t.Coeffs) || j < 0 || j >= len(t.Coeffs[i]) {
		return 0
	}
	return t.Coeffs[i][j]
}

// Evaluate computes T(x, y).
func (t Tutte) Evaluate(x, y float64) float64 {
	var acc float64
	for i := len(t.Coeffs) - 1; i >= 0; i-- {
		acc = acc*x + Polynomial{Coeffs: t.Coeffs[i]}.Evaluate(y)
	}
	return acc
}

func (t Tutte) add(u Tutte) Tutte {
	rows := make([][]int64, max(len(t.Coeffs), len(u.Coeffs)))
	for _, src := range []Tutte{t, u} {
		for i, row := range src.Coeffs {
			if len(rows[i]) < len(row) {
				rows[i] = append(rows[i], make([]int64, len(row)-len(rows[i]))...)
			}
			for j, c := range row {
				rows[i][j] += c
			}
		}
	}
	return newTutte(rows)
}

func (t Tutte) mul(u Tutte) Tutte {
	rows := make([][]int64, len(t.Coeffs)+len(u.Coeffs)-1)
	for i, a := range t.Coeffs {
		for k, b := range u.Coeffs {
			need := len(a) + len(b) - 1
			if len(rows[i+k]) < need {
				rows[i+k] = append(rows[i+k], make([]int64, need-len(rows[i+k]))...)
			}
			for j, ca := range a {
				for l, cb := range b {
					rows[i+k][j+l] += ca * cb
				}
			}
		}
	}
	return newTutte(rows)
}

// Chromatic derives P(G; x) = (-1)^(V-c) x^c T(G; 1-x, 0) for a graph with
// the given order and component count.
func (t Tutte) Chromatic(order, components int) Polynomial {
	oneMinusX := Polynomial{Coeffs: []int64{1, -1}}
	power := Polynomial{Coeffs: []int64{1}}
	sum := Polynomial{Coeffs: []int64{0}}
	for i := range t.Coeffs {
		if c := t.Coefficient(i, 0); c != 0 {
			sum = sum.Add(power.Mul(Polynomial{Coeffs: []int64{c}}))
		}
		power = power.Mul(oneMinusX)
	}
	p := sum.Mul(monomial(components))
	if (order-components)%2 != 0 {
		p = p.Mul(Polynomial{Coeffs: []int64{-1}})
	}
	return p
}

func (t Tutte) String() string {
	var b strings.Builder
	for i := len(t.Coeffs) - 1; i >= 0; i-- {
		for j := len(t.Coeffs[i]) - 1; j >= 0; j-- {
			c := t.Coeffs[i][j]
			if c == 0 {
				continue
			}
			switch {
			case b.Len() == 0 && c < 0:
				b.WriteString("-")
			case b.Len() > 0 && c < 0:
				b.WriteString(" - ")
			case b.Len() > 0:
				b.WriteString(" + ")
			}
			abs := c
			if abs < 0 {
				abs = -abs
			}
			if abs != 1 || (i == 0 && j == 0) {
				fmt.Fprintf(&b, "%d", abs)
			}
			writeVar(&b, "x", i)
			writeVar(&b, "y", j)
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

func writeVar(b *strings.Builder, name string, k int) {
	switch {
	case k == 1:
		b.WriteString(name)
	case k > 1:
		fmt.Fprintf(b, "%s^%d", name, k)
	}
}

// #region tutte
// multigraph is an edge-multiplicity matrix over at most MaxTutteVertices
// vertices. Loops are never stored: contraction factors them out as powers
// of y immediately. Isolated vertices do not affect T, so the matrix alone
// is the memo key.
type multigraph [MaxTutteVertices][MaxTutteVertices]uint8

// TuttePolynomial computes T(G; x, y) by deletion-contraction over classes
// of parallel edges. For a class of k edges between u and v, with C the
// polynomial of the contracted graph:
//
//	T(G) = (x + y + ... + y^(k-1)) C                if the class is a cut
//	T(G) = T(G - class) + (1 + y + ... + y^(k-1)) C  otherwise
//
// Graphs above MaxTutteVertices are rejected.
func TuttePolynomial(g *graph.Graph) (Tutte, error) {
	if g.Order() > MaxTutteVertices {
		return Tutte{}, fmt.Errorf("tutte polynomial on %d vertices (max %d): %w",
			g.Order(), MaxTutteVertices, ErrSizeLimitExceeded)
	}
	var m multigraph
	for _, e := range g.Edges() {
		m[e.U][e.V]++
		m[e.V][e.U]++
	}
	return tutteRec(m, make(map[multigraph]Tutte)), nil
}

// ChromaticFromTutte derives the chromatic polynomial from the Tutte
// polynomial. It agrees with ChromaticExact on every graph both accept.
func ChromaticFromTutte(g *graph.Graph) (Polynomial, error) {
	t, err := TuttePolynomial(g)
	if err != nil {
		return Polynomial{}, err
	}
	return t.Chromatic(g.Order(), componentCount(g)), nil
}

// SpanningTrees returns T(1, 1), the number of spanning forests with one
// tree per component.
func SpanningTrees(g *graph.Graph) (int64, error) {
	t, err := TuttePolynomial(g)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, row := range t.Coeffs {
		for _, c := range row {
			n += c
		}
	}
	return n, nil
}

func tutteRec(m multigraph, memo map[multigraph]Tutte) Tutte {
	if t, ok := memo[m]; ok {
		return t
	}
	u, v, k, ok := m.firstClass()
	if !ok {
		t := Tutte{Coeffs: [][]int64{{1}}}
		memo[m] = t
		return t
	}

	deleted := m
	deleted[u][v], deleted[v][u] = 0, 0
	contracted := deleted.merge(u, v)
	c := tutteRec(contracted, memo)

	var t Tutte
	if !deleted.connects(u, v) {
		t = c.mul(classFactor(k, true))
	} else {
		t = tutteRec(deleted, memo).add(c.mul(classFactor(k, false)))
	}
	memo[m] = t
	return t
}

// classFactor is x + y + ... + y^(k-1) for a cut class, 1 + y + ... + y^(k-1)
// otherwise.
func classFactor(k int, cut bool) Tutte {
	ys := make([]int64, k)
	for j := range ys {
		ys[j] = 1
	}
	if !cut {
		return newTutte([][]int64{ys})
	}
	ys[0] = 0
	return newTutte([][]int64{ys, {1}})
}

func (m multigraph) firstClass() (u, v, k int, ok bool) {
	for u = 0; u < MaxTutteVertices; u++ {
		for v = u + 1; v < MaxTutteVertices; v++ {
			if m[u][v] > 0 {
				return u, v, int(m[u][v]), true
			}
		}
	}
	return 0, 0, 0, false
}

// merge folds v into u. The u-v class must already be removed.
func (m multigraph) merge(u, v int) multigraph {
	for w := 0; w < MaxTutteVertices; w++ {
		if c := m[v][w]; c > 0 {
			m[u][w] += c
			m[w][u] += c
			m[v][w], m[w][v] = 0, 0
		}
	}
	return m
}

func (m multigraph) connects(u, v int) bool {
	var seen [MaxTutteVertices]bool
	seen[u] = true
	stack := []int{u}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if x == v {
			return true
		}
		for w := 0; w < MaxTutteVertices; w++ {
			if m[x][w] > 0 && !seen[w] {
				seen[w] = true
				stack = append(stack, w)
			}
		}
	}
	return false
}

func componentCount(g *graph.Graph) int {
	seen := make([]bool, g.Order())
	count := 0
	for root := range seen {
		if seen[root] {
			continue
		}
		count++
		seen[root] = true
		stack := []int{root}
		for len(stack) > 0 {
			x := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, w := range g.Neighbors(x) {
				if !seen[w] {
					seen[w] = true
					stack = append(stack, w)
				}
			}
		}
	}
	return count
}
// #endregion tutte
