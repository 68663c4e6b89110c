package state

import "errors"

var (
	// ErrDimensionMismatch is returned when a vector does not have Dim coordinates.
	ErrDimensionMismatch = errors.New("state: dimension mismatch")

	// ErrNonFinite is returned when a coordinate is NaN or infinite.
	ErrNonFinite = errors.New("state: non-finite coordinate")

	// ErrZeroVector is returned when normalizing a vector with zero norm.
	ErrZeroVector = errors.New("state: cannot normalize zero vector")
)
