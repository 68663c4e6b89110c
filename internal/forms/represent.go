package forms

import (
	"fmt"
	"math"
)

// #region representability
// CanRepresent reports whether n = a*x^2 + b*y^2 + c*z^2 + d*w^2 for some
// non-negative integers. The search is bounded by sqrt(n) per variable.
func CanRepresent(f Form, n int) bool {
	if n < 0 {
		return false
	}
	limit := int(math.Sqrt(float64(n))) + 1
	for x := 0; x <= limit; x++ {
		for y := 0; y <= limit; y++ {
			for z := 0; z <= limit; z++ {
				for w := 0; w <= limit; w++ {
					if f.Value(x, y, z, w) == n {
						return true
					}
				}
			}
		}
	}
	return false
}

// Representable returns the sorted positive integers <= limit that f represents.
func Representable(f Form, limit int) []int {
	var out []int
	for n := 1; n <= limit; n++ {
		if CanRepresent(f, n) {
			out = append(out, n)
		}
	}
	return out
}
// #endregion representability

// #region validation
// Validation describes why a form is or is not usable as a step form.
type Validation struct {
	Valid          bool
	Reason         string
	Family         Family
	Represents     []int // positive integers <= MaxSteps
	CannotMeetNext bool  // true when MaxSteps+1 is not representable
}

// Validate checks f against the table families and the coefficient bound.
func Validate(f Form) Validation {
	v := Validation{
		Family:         FamilyOf(f),
		Represents:     Representable(f, MaxSteps),
		CannotMeetNext: !CanRepresent(f, MaxSteps+1),
	}
	for _, c := range f {
		if c <= 0 {
			v.Reason = fmt.Sprintf("coefficient %d is not positive", c)
			return v
		}
	}
	switch {
	case IsExceptional(f):
		v.Reason = fmt.Sprintf("exceptional form (%s) cannot represent %d", f, MaxSteps+1)
	case f[3] > maxCoefficient:
		v.Reason = fmt.Sprintf("coefficient d=%d exceeds %d", f[3], maxCoefficient)
	case v.Family == FamilyNone:
		v.Reason = "form does not match a universal family"
	default:
		v.Valid = true
	}
	return v
}

// VerifyBound checks that every table form represents 1..MaxSteps and that
// the exceptional form fails at MaxSteps+1.
func VerifyBound() error {
	for _, f := range table {
		for n := 1; n <= MaxSteps; n++ {
			if !CanRepresent(f, n) {
				return fmt.Errorf("form (%s) does not represent %d", f, n)
			}
		}
	}
	if CanRepresent(Exceptional, MaxSteps+1) {
		return fmt.Errorf("exceptional form (%s) represents %d", Exceptional, MaxSteps+1)
	}
	return nil
}
// #endregion validation
