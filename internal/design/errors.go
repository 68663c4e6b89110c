package design

import "errors"

var (
	// ErrInvalidParams is returned when (v, k, λ, r, b) violate the BIBD counting conditions.
	ErrInvalidParams = errors.New("design: invalid block design parameters")

	// ErrUnbalanced is returned when a block list does not realise its parameters.
	ErrUnbalanced = errors.New("design: blocks do not form a balanced design")

	// ErrOutOfRange is returned for a point or block index outside the design.
	ErrOutOfRange = errors.New("design: index out of range")

	// ErrSamePoint is returned when two distinct points or lines are required.
	ErrSamePoint = errors.New("design: arguments must be distinct")
)
