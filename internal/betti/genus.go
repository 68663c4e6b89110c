package betti

import (
	"fmt"

	"github.com/danielpatrickdp/geometric-consensus/internal/graph"
)

// Surface names the orientable surface class of a genus.
type Surface string

const (
	SurfacePlanar         Surface = "PLANAR"
	SurfaceToroidal       Surface = "TOROIDAL"
	SurfaceDoubleToroidal Surface = "DOUBLE_TOROIDAL"
	SurfacePretzel        Surface = "PRETZEL"
	SurfaceHigher         Surface = "HIGHER"
)

// GenusEstimate is an Euler-bound estimate of the minimum genus.
type GenusEstimate struct {
	LowerBound int
	Surface    Surface
	Shift      int // geometric shift k = min(genus, 3)
	Embedding  string
}

// Genus sums, over components, the Euler lower bound on orientable genus:
// ceil((E - 3V + 6) / 6) in general and ceil((E - 2V + 4) / 4) for
// triangle-free components. It is exact for complete graphs K_n (n >= 3) and
// K_{3,3}, and never exceeds the true genus.
func Genus(g *graph.Graph) GenusEstimate {
	total := 0
	for _, comp := range ComponentIDs(g) {
		total += componentGenusBound(g, comp)
	}
	est := GenusEstimate{LowerBound: total, Shift: min(total, 3)}
	switch total {
	case 0:
		est.Surface, est.Embedding = SurfacePlanar, "planar embedding (no handles)"
	case 1:
		est.Surface, est.Embedding = SurfaceToroidal, "toroidal embedding (1 handle)"
	case 2:
		est.Surface, est.Embedding = SurfaceDoubleToroidal, "double-toroidal embedding (2 handles)"
	case 3:
		est.Surface, est.Embedding = SurfacePretzel, "pretzel embedding (3 handles)"
	default:
		est.Surface, est.Embedding = SurfaceHigher, fmt.Sprintf("higher genus embedding (%d handles)", total)
	}
	return est
}

func componentGenusBound(g *graph.Graph, comp []int) int {
	v := len(comp)
	if v < 3 {
		return 0
	}
	e, triangles := 0, 0
	for _, id := range comp {
		for _, w := range g.Neighbors(id) {
			if w <= id {
				continue
			}
			e++
			for _, x := range g.Neighbors(w) {
				if x > w && g.HasEdge(id, x) {
					triangles++
				}
			}
		}
	}
	if triangles == 0 {
		return ceilDiv(e-2*v+4, 4)
	}
	return ceilDiv(e-3*v+6, 6)
}

// ceilDiv returns ceil(a/b) clamped at zero, b > 0.
func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
