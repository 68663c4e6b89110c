package state

import "time"

// Dim is the fixed dimension of every consensus state.
const Dim = 7

// #region state
// State is an immutable 7-dimensional point in the consensus space.
// Operations return new values; a State is never mutated after New.
type State struct {
	Values    [Dim]float64
	Basis     Basis
	CreatedAt time.Time
}

// Slice returns a copy of the coordinates as a slice.
func (s State) Slice() []float64 {
	out := make([]float64, Dim)
	copy(out, s.Values[:])
	return out
}
// #endregion state

// #region basis
// Slot names one semantic axis of the state space.
type Slot int

const (
	SlotNode       Slot = iota // scalar value
	SlotEdge                   // binary relation
	SlotGraph                  // network structure
	SlotIncidence              // point/line relation
	SlotHypergraph             // multiway relation
	SlotFunctor                // transformation
	SlotMonad                  // self reference
)

var slotNames = [Dim]string{"node", "edge", "graph", "incidence", "hypergraph", "functor", "monad"}

func (s Slot) String() string {
	if s < 0 || int(s) >= Dim {
		return "unknown"
	}
	return slotNames[s]
}

// Basis maps each coordinate index to its semantic slot. It is structural
// metadata only and never takes part in arithmetic.
type Basis [Dim]Slot

// DefaultBasis returns the standard slot layout, coordinate i -> Slot(i).
func DefaultBasis() Basis {
	var b Basis
	for i := range b {
		b[i] = Slot(i)
	}
	return b
}
// #endregion basis
