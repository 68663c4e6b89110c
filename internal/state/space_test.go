package state

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustState(t *testing.T, values ...float64) State {
	t.Helper()
	s, err := New(values)
	require.NoError(t, err)
	return s
}

// #region constructors
func TestNew_RejectsWrongDimension(t *testing.T) {
	_, err := New([]float64{1, 2, 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))

	_, err = New(make([]float64, 8))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestNew_RejectsNonFinite(t *testing.T) {
	_, err := New([]float64{0, 0, math.NaN(), 0, 0, 0, 0})
	assert.ErrorIs(t, err, ErrNonFinite)

	_, err = New([]float64{0, 0, 0, 0, 0, 0, math.Inf(-1)})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestNew_CopiesInput(t *testing.T) {
	in := []float64{1, 2, 3, 4, 5, 6, 7}
	s := mustState(t, in...)
	in[0] = 99
	assert.Equal(t, 1.0, s.Values[0])
	assert.Equal(t, DefaultBasis(), s.Basis)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestBasis_SlotNames(t *testing.T) {
	b := DefaultBasis()
	assert.Equal(t, "node", b[0].String())
	assert.Equal(t, "monad", b[6].String())
	assert.Equal(t, "unknown", Slot(9).String())
}
// #endregion constructors

// #region metric
func TestInnerProduct_SymmetricNonNegative(t *testing.T) {
	a := mustState(t, 0.1, -3, 2, 0, 5, 1e3, -0.5)
	b := mustState(t, 4, 0.2, -1, 7, 0, 0, 0.25)

	assert.InDelta(t, InnerProduct(a, b), InnerProduct(b, a), 1e-12)
	assert.GreaterOrEqual(t, InnerProduct(a, b), 0.0)
	assert.InDelta(t, float64(Dim), InnerProduct(a, a), 1e-12)
}

func TestDistanceAndNorm(t *testing.T) {
	a := mustState(t, 3, 4, 0, 0, 0, 0, 0)
	b := Zero()

	assert.InDelta(t, 5.0, Norm(a), 1e-12)
	assert.InDelta(t, 5.0, Distance(a, b), 1e-12)
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-12)
	assert.Zero(t, Distance(a, a))
}

func TestIsOrthogonal(t *testing.T) {
	a := mustState(t, 0, 0, 0, 0, 0, 0, 0)
	far := mustState(t, 100, 100, 100, 100, 100, 100, 100)
	assert.True(t, IsOrthogonal(a, far, 1e-10))
	assert.False(t, IsOrthogonal(a, a, 1e-10))
}
// #endregion metric

// #region algebra
func TestNormalize(t *testing.T) {
	s := mustState(t, 3, 4, 0, 0, 0, 0, 0)
	n, err := Normalize(s)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, Norm(n), 1e-12)
	assert.InDelta(t, 0.6, n.Values[0], 1e-12)
	assert.InDelta(t, 0.8, n.Values[1], 1e-12)
}

func TestNormalize_ZeroVector(t *testing.T) {
	_, err := Normalize(Zero())
	assert.ErrorIs(t, err, ErrZeroVector)
}

func TestLinearCombination(t *testing.T) {
	a := mustState(t, 1, 1, 1, 1, 1, 1, 1)
	b := mustState(t, 1, 2, 3, 4, 5, 6, 7)

	c, err := LinearCombination(2, a, -1, b)
	require.NoError(t, err)
	assert.Equal(t, [Dim]float64{1, 0, -1, -2, -3, -4, -5}, c.Values)

	big := mustState(t, math.MaxFloat64, 0, 0, 0, 0, 0, 0)
	_, err = LinearCombination(2, big, 0, b)
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestMean(t *testing.T) {
	a := mustState(t, 0, 0, 0, 0, 0, 0, 1)
	b := mustState(t, 1, 1, 1, 1, 1, 1, 1)

	m := Mean([]State{a, b})
	assert.InDeltaSlice(t, []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 1}, m.Slice(), 1e-12)
	assert.Equal(t, Zero().Values, Mean(nil).Values)
}
// #endregion algebra
