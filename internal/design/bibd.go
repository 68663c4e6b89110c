// Package design models the finite incidence structures behind the 7-slot
// state basis: balanced incomplete block designs and the Fano plane.
package design

import (
	"fmt"
	"slices"
)

// #region params
// Params are the parameters of a balanced incomplete block design: V points,
// B blocks of K points each, every point in R blocks and every pair of
// distinct points in Lambda blocks.
type Params struct {
	V, K, Lambda, R, B int
}

func (p Params) String() string {
	return fmt.Sprintf("(v=%d, k=%d, λ=%d, r=%d, b=%d)", p.V, p.K, p.Lambda, p.R, p.B)
}

// Validate checks the necessary conditions vr = bk and λ(v-1) = r(k-1),
// positivity, k <= v and λ < r.
func (p Params) Validate() error {
	switch {
	case p.V <= 0 || p.K <= 0 || p.Lambda <= 0 || p.R <= 0 || p.B <= 0:
		return fmt.Errorf("%w: %s: every parameter must be positive", ErrInvalidParams, p)
	case p.K > p.V:
		return fmt.Errorf("%w: %s: block size exceeds point count", ErrInvalidParams, p)
	case p.V*p.R != p.B*p.K:
		return fmt.Errorf("%w: %s: vr = %d, bk = %d", ErrInvalidParams, p, p.V*p.R, p.B*p.K)
	case p.Lambda*(p.V-1) != p.R*(p.K-1):
		return fmt.Errorf("%w: %s: λ(v-1) = %d, r(k-1) = %d", ErrInvalidParams, p, p.Lambda*(p.V-1), p.R*(p.K-1))
	case p.Lambda >= p.R:
		return fmt.Errorf("%w: %s: λ must be below r", ErrInvalidParams, p)
	}
	return nil
}

// Symmetric reports v = b, which for a BIBD forces r = k.
func (p Params) Symmetric() bool { return p.V == p.B && p.R == p.K }

// Complement returns the parameters of the design whose blocks are the
// complements of these blocks.
func (p Params) Complement() Params {
	return Params{V: p.V, K: p.V - p.K, Lambda: p.B - 2*p.R + p.Lambda, R: p.B - p.R, B: p.B}
}
// #endregion params

// #region design
// Design is a validated block design. Blocks are sorted point lists.
type Design struct {
	params     Params
	blocks     [][]int
	containing [][]int // point -> block indices
}

// NewDesign validates params and checks that blocks realise them exactly.
func NewDesign(params Params, blocks [][]int) (*Design, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(blocks) != params.B {
		return nil, fmt.Errorf("%w: %d blocks, want %d", ErrUnbalanced, len(blocks), params.B)
	}
	d := &Design{
		params:     params,
		blocks:     make([][]int, len(blocks)),
		containing: make([][]int, params.V),
	}
	for i, b := range blocks {
		block := slices.Clone(b)
		slices.Sort(block)
		block = slices.Compact(block)
		if len(block) != params.K {
			return nil, fmt.Errorf("%w: block %d has %d distinct points, want %d", ErrUnbalanced, i, len(block), params.K)
		}
		for _, pt := range block {
			if pt < 0 || pt >= params.V {
				return nil, fmt.Errorf("%w: block %d point %d", ErrOutOfRange, i, pt)
			}
			d.containing[pt] = append(d.containing[pt], i)
		}
		d.blocks[i] = block
	}
	for pt, bs := range d.containing {
		if len(bs) != params.R {
			return nil, fmt.Errorf("%w: point %d lies in %d blocks, want %d", ErrUnbalanced, pt, len(bs), params.R)
		}
	}
	for a := 0; a < params.V; a++ {
		for b := a + 1; b < params.V; b++ {
			if n := len(d.common(a, b)); n != params.Lambda {
				return nil, fmt.Errorf("%w: points %d and %d share %d blocks, want %d", ErrUnbalanced, a, b, n, params.Lambda)
			}
		}
	}
	return d, nil
}

// Cyclic develops base modulo params.V into V blocks. The result is a design
// only when base is a (v, k, λ) difference set.
func Cyclic(params Params, base []int) (*Design, error) {
	blocks := make([][]int, params.V)
	for shift := range blocks {
		block := make([]int, len(base))
		for i, pt := range base {
			block[i] = ((pt+shift)%params.V + params.V) % params.V
		}
		blocks[shift] = block
	}
	return NewDesign(params, blocks)
}

func (d *Design) Params() Params { return d.params }

// Blocks returns a copy of the block list.
func (d *Design) Blocks() [][]int {
	out := make([][]int, len(d.blocks))
	for i, b := range d.blocks {
		out[i] = slices.Clone(b)
	}
	return out
}

// BlocksContaining returns the indices of the blocks through point.
func (d *Design) BlocksContaining(point int) ([]int, error) {
	if point < 0 || point >= d.params.V {
		return nil, fmt.Errorf("%w: point %d of %d", ErrOutOfRange, point, d.params.V)
	}
	return slices.Clone(d.containing[point]), nil
}

// Connected reports whether two points share a block.
func (d *Design) Connected(a, b int) bool {
	if a < 0 || b < 0 || a >= d.params.V || b >= d.params.V {
		return false
	}
	return len(d.common(a, b)) > 0
}

func (d *Design) common(a, b int) []int {
	var out []int
	for _, i := range d.containing[a] {
		if slices.Contains(d.containing[b], i) {
			out = append(out, i)
		}
	}
	return out
}

// IncidenceMatrix returns the v×b 0/1 matrix with entry (i, j) set when
// point i lies in block j.
func (d *Design) IncidenceMatrix() [][]int {
	m := make([][]int, d.params.V)
	for i := range m {
		m[i] = make([]int, d.params.B)
		for _, j := range d.containing[i] {
			m[i][j] = 1
		}
	}
	return m
}

// Complement replaces every block by the points it misses. Fails when the
// complement parameters are degenerate (λ' = 0).
func (d *Design) Complement() (*Design, error) {
	blocks := make([][]int, len(d.blocks))
	for i, b := range d.blocks {
		for pt := 0; pt < d.params.V; pt++ {
			if !slices.Contains(b, pt) {
				blocks[i] = append(blocks[i], pt)
			}
		}
	}
	return NewDesign(d.params.Complement(), blocks)
}

// Symmetric reports whether the design has as many blocks as points.
func (d *Design) Symmetric() bool { return d.params.Symmetric() }
// #endregion design
