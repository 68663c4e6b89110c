package validity

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/geometric-consensus/internal/graph"
	"github.com/danielpatrickdp/geometric-consensus/internal/state"
)

// DefaultTolerance joins two coordinates in the similarity graph.
const DefaultTolerance = 0.1

var dimLabels = func() []string {
	out := make([]string, state.Dim)
	for i := range out {
		out[i] = fmt.Sprintf("dim_%d", i)
	}
	return out
}()

// SimilarityGraph has one vertex per coordinate (dim_0..dim_6) and an edge
// i-j, i < j, whenever |v_i - v_j| < tol.
func SimilarityGraph(values [state.Dim]float64, tol float64) *graph.Graph {
	var edges []graph.Edge
	for i := 0; i < state.Dim; i++ {
		for j := i + 1; j < state.Dim; j++ {
			if math.Abs(values[i]-values[j]) < tol {
				edges = append(edges, graph.Edge{U: i, V: j})
			}
		}
	}
	g, _ := graph.FromIDs(dimLabels, edges) // ids are in range and pairs unique
	return g
}

// Report is the validity verdict for one candidate state.
type Report struct {
	Acyclic        bool
	Edges          int
	Cycles         [][]string
	ChromaticAtM1  float64 // P(-1) of the similarity graph
	ChromaticValid bool
}

// Check builds the similarity graph of values and evaluates it.
func Check(values [state.Dim]float64, tol float64) Report {
	g := SimilarityGraph(values, tol)
	chrom := ChromaticPolynomial(g).Polynomial.Evaluate(-1)
	return Report{
		Acyclic:        Acyclic(g),
		Edges:          g.Size(),
		Cycles:         FindCycles(g),
		ChromaticAtM1:  chrom,
		ChromaticValid: chrom > 0,
	}
}
