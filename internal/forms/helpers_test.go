package forms

import "github.com/danielpatrickdp/geometric-consensus/internal/state"

func stateOf(v float64) state.State {
	s, _ := state.FromArray(uniform(v))
	return s
}
