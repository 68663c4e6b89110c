package design

import (
	"fmt"

	"github.com/danielpatrickdp/geometric-consensus/internal/state"
)

// FanoOrder is the number of points and of lines in the Fano plane.
const FanoOrder = 7

// fanoLines is the line table of the projective plane of order 2. Point i is
// state slot i.
var fanoLines = [FanoOrder][3]int{
	{0, 1, 2},
	{0, 3, 4},
	{0, 5, 6},
	{1, 3, 5},
	{1, 4, 6},
	{2, 3, 6},
	{2, 4, 5},
}

// FanoParams are the (7, 3, 1) design parameters of the Fano plane.
var FanoParams = Params{V: 7, K: 3, Lambda: 1, R: 3, B: 7}

// #region plane
// Plane is the Fano plane with its point-line incidence indexed both ways.
type Plane struct {
	lines   [FanoOrder][3]int
	through [FanoOrder][]int // point -> lines
}

// Fano builds the plane from the fixed line table.
func Fano() *Plane {
	p := &Plane{lines: fanoLines}
	for l, pts := range p.lines {
		for _, pt := range pts {
			p.through[pt] = append(p.through[pt], l)
		}
	}
	return p
}

// Lines returns the line table.
func (p *Plane) Lines() [FanoOrder][3]int { return p.lines }

// PointsOn returns the three points of line.
func (p *Plane) PointsOn(line int) ([3]int, error) {
	if line < 0 || line >= FanoOrder {
		return [3]int{}, fmt.Errorf("%w: line %d", ErrOutOfRange, line)
	}
	return p.lines[line], nil
}

// LinesThrough returns the three lines through point.
func (p *Plane) LinesThrough(point int) ([3]int, error) {
	if point < 0 || point >= FanoOrder {
		return [3]int{}, fmt.Errorf("%w: point %d", ErrOutOfRange, point)
	}
	var out [3]int
	copy(out[:], p.through[point])
	return out, nil
}

// LineThrough returns the unique line joining two distinct points.
func (p *Plane) LineThrough(a, b int) (int, error) {
	if a < 0 || b < 0 || a >= FanoOrder || b >= FanoOrder {
		return 0, fmt.Errorf("%w: points %d, %d", ErrOutOfRange, a, b)
	}
	if a == b {
		return 0, fmt.Errorf("%w: point %d twice", ErrSamePoint, a)
	}
	for _, l := range p.through[a] {
		if p.onLine(b, l) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: points %d and %d share no line", ErrUnbalanced, a, b)
}

// Intersection returns the unique point shared by two distinct lines.
func (p *Plane) Intersection(l1, l2 int) (int, error) {
	if l1 < 0 || l2 < 0 || l1 >= FanoOrder || l2 >= FanoOrder {
		return 0, fmt.Errorf("%w: lines %d, %d", ErrOutOfRange, l1, l2)
	}
	if l1 == l2 {
		return 0, fmt.Errorf("%w: line %d twice", ErrSamePoint, l1)
	}
	for _, pt := range p.lines[l1] {
		if p.onLine(pt, l2) {
			return pt, nil
		}
	}
	return 0, fmt.Errorf("%w: lines %d and %d are disjoint", ErrUnbalanced, l1, l2)
}

// Collinear reports whether three points lie on one line.
func (p *Plane) Collinear(a, b, c int) bool {
	l, err := p.LineThrough(a, b)
	if err != nil {
		return false
	}
	return c != a && c != b && p.onLine(c, l)
}

func (p *Plane) onLine(point, line int) bool {
	for _, pt := range p.lines[line] {
		if pt == point {
			return true
		}
	}
	return false
}

// Validate checks the projective plane axioms: three points per line, three
// lines per point, one line through any two points and one point on any two
// lines.
func (p *Plane) Validate() error {
	if _, err := p.Design(); err != nil {
		return err
	}
	for l1 := 0; l1 < FanoOrder; l1++ {
		for l2 := l1 + 1; l2 < FanoOrder; l2++ {
			shared := 0
			for _, pt := range p.lines[l1] {
				if p.onLine(pt, l2) {
					shared++
				}
			}
			if shared != 1 {
				return fmt.Errorf("%w: lines %d and %d share %d points", ErrUnbalanced, l1, l2, shared)
			}
		}
	}
	return nil
}

// Design returns the plane as a (7, 3, 1) block design with lines as blocks.
func (p *Plane) Design() (*Design, error) {
	blocks := make([][]int, FanoOrder)
	for l, pts := range p.lines {
		blocks[l] = pts[:]
	}
	return NewDesign(FanoParams, blocks)
}
// #endregion plane

// #region symmetry
// PreservesLines reports whether perm is a bijection of the points that maps
// every line onto a line.
func (p *Plane) PreservesLines(perm [FanoOrder]int) bool {
	var seen [FanoOrder]bool
	for _, img := range perm {
		if img < 0 || img >= FanoOrder || seen[img] {
			return false
		}
		seen[img] = true
	}
	for _, pts := range p.lines {
		l, err := p.LineThrough(perm[pts[0]], perm[pts[1]])
		if err != nil || !p.onLine(perm[pts[2]], l) {
			return false
		}
	}
	return true
}

// Automorphisms enumerates every line-preserving permutation of the points,
// the 168 elements of PGL(3, 2), in lexicographic order.
func (p *Plane) Automorphisms() [][FanoOrder]int {
	var out [][FanoOrder]int
	var perm [FanoOrder]int
	var used [FanoOrder]bool
	var walk func(i int)
	walk = func(i int) {
		if i == FanoOrder {
			if p.PreservesLines(perm) {
				out = append(out, perm)
			}
			return
		}
		for v := 0; v < FanoOrder; v++ {
			if used[v] {
				continue
			}
			used[v], perm[i] = true, v
			walk(i + 1)
			used[v] = false
		}
	}
	walk(0)
	return out
}
// #endregion symmetry

// #region slots
// SlotLines returns the line table with points named by their state slots.
func (p *Plane) SlotLines() [FanoOrder][3]state.Slot {
	var out [FanoOrder][3]state.Slot
	for l, pts := range p.lines {
		for i, pt := range pts {
			out[l][i] = state.Slot(pt)
		}
	}
	return out
}
// #endregion slots
