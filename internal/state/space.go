package state

import (
	"fmt"
	"math"
	"time"
)

// #region constructors
// New builds a State from exactly Dim finite values.
func New(values []float64) (State, error) {
	if len(values) != Dim {
		return State{}, fmt.Errorf("%w: got %d values, want %d", ErrDimensionMismatch, len(values), Dim)
	}
	var arr [Dim]float64
	copy(arr[:], values)
	return FromArray(arr)
}

// FromArray builds a State from a fixed-size array.
func FromArray(values [Dim]float64) (State, error) {
	s := State{Values: values, Basis: DefaultBasis(), CreatedAt: time.Now()}
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// Zero returns the origin of the state space.
func Zero() State {
	return State{Basis: DefaultBasis(), CreatedAt: time.Now()}
}

// Validate reports whether every coordinate is finite.
func (s State) Validate() error {
	for i, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: index %d (%s) = %v", ErrNonFinite, i, s.Basis[i], v)
		}
	}
	return nil
}
// #endregion constructors

// #region metric
// Distance returns the Euclidean distance between a and b.
func Distance(a, b State) float64 {
	var sum float64
	for i := range a.Values {
		d := a.Values[i] - b.Values[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// InnerProduct sums a Gaussian kernel exp(-(a_i-b_i)^2) over coordinates.
// The kernel makes the product symmetric and non-negative, with
// InnerProduct(s, s) == Dim for every s.
func InnerProduct(a, b State) float64 {
	var sum float64
	for i := range a.Values {
		d := a.Values[i] - b.Values[i]
		sum += math.Exp(-d * d)
	}
	return sum
}

// Norm returns the Euclidean norm of s.
func Norm(s State) float64 {
	var sum float64
	for _, v := range s.Values {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// IsOrthogonal reports whether the kernel inner product of a and b is
// within tol of zero. Identical states are never orthogonal.
func IsOrthogonal(a, b State, tol float64) bool {
	return math.Abs(InnerProduct(a, b)) < tol
}
// #endregion metric

// #region algebra
// Normalize scales s to unit Euclidean norm.
func Normalize(s State) (State, error) {
	n := Norm(s)
	if n == 0 {
		return State{}, ErrZeroVector
	}
	var out [Dim]float64
	for i, v := range s.Values {
		out[i] = v / n
	}
	return FromArray(out)
}

// LinearCombination returns alpha*a + beta*b. It fails if the result
// overflows to a non-finite value.
func LinearCombination(alpha float64, a State, beta float64, b State) (State, error) {
	var out [Dim]float64
	for i := range out {
		out[i] = alpha*a.Values[i] + beta*b.Values[i]
	}
	return FromArray(out)
}

// Mean averages states coordinate-wise. An empty input yields Zero.
func Mean(states []State) State {
	if len(states) == 0 {
		return Zero()
	}
	var sum [Dim]float64
	for _, s := range states {
		for i, v := range s.Values {
			sum[i] += v
		}
	}
	for i := range sum {
		sum[i] /= float64(len(states))
	}
	return State{Values: sum, Basis: DefaultBasis(), CreatedAt: time.Now()}
}
// #endregion algebra
