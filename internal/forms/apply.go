package forms

import (
	"math"

	"github.com/danielpatrickdp/geometric-consensus/internal/state"
)

// quadrantOffsets holds the base-4 digits (least significant first) of
// i*113 mod 256 for each coordinate i. Shifting each coordinate's quadruple
// by its own offsets keeps equal inputs from mapping to equal outputs.
var quadrantOffsets = [state.Dim][4]int{
	{0, 0, 0, 0},
	{1, 0, 3, 1},
	{2, 0, 2, 3},
	{3, 0, 1, 1},
	{0, 1, 0, 3},
	{1, 1, 3, 0},
	{2, 1, 2, 2},
}

// scales maps a coordinate to its x, y, z, w quadrant before offsetting.
var scales = [4]float64{10, 7, 3, 11}

// ApplyForm maps each coordinate v_i to an integer quadruple in [0,4)^4,
// evaluates f on it, and folds the result into [0, 1) as (value mod 100)/100.
func ApplyForm(values [state.Dim]float64, f Form) [state.Dim]float64 {
	var out [state.Dim]float64
	for i, v := range values {
		var q [4]int
		for k, s := range scales {
			q[k] = (quadrant(v*s) + quadrantOffsets[i][k]) % 4
		}
		out[i] = float64(f.Value(q[0], q[1], q[2], q[3])%100) / 100
	}
	return out
}

// ApplyToState is ApplyForm lifted to State.
func ApplyToState(s state.State, f Form) state.State {
	next, _ := state.FromArray(ApplyForm(s.Values, f)) // outputs are always in [0, 1)
	return next
}

// quadrant returns floor(x) mod 4 in [0, 4). Non-finite inputs map to 0.
func quadrant(x float64) int {
	fl := math.Floor(x)
	if math.IsNaN(fl) || math.IsInf(fl, 0) {
		return 0
	}
	m := math.Mod(fl, 4)
	if m < 0 {
		m += 4
	}
	return int(m)
}
