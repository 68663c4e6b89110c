// Package forms holds the immutable table of universal quaternary quadratic
// forms that drive each consensus step, and the pure transform they induce.
package forms

import "fmt"

// MaxSteps is the proven upper bound on consensus iterations.
const MaxSteps = 14

// maxCoefficient bounds d for every form in the table.
const maxCoefficient = 14

// #region form
// Form is the coefficient tuple (a, b, c, d) of a*x^2 + b*y^2 + c*z^2 + d*w^2.
type Form [4]int

func (f Form) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", f[0], f[1], f[2], f[3])
}

// Value evaluates the form at (x, y, z, w).
func (f Form) Value(x, y, z, w int) int {
	return f[0]*x*x + f[1]*y*y + f[2]*z*z + f[3]*w*w
}

// Family classifies a form by its leading coefficients.
type Family string

const (
	FamilyPrimary   Family = "primary"   // {1,1,2,d}, 2 <= d <= 14
	FamilySecondary Family = "secondary" // {1,2,4,d}, 4 <= d <= 14
	FamilyNone      Family = "none"
)

// FamilyOf reports which table family f belongs to.
func FamilyOf(f Form) Family {
	switch {
	case f[0] == 1 && f[1] == 1 && f[2] == 2 && f[3] >= 2 && f[3] <= maxCoefficient:
		return FamilyPrimary
	case f[0] == 1 && f[1] == 2 && f[2] == 4 && f[3] >= 4 && f[3] <= maxCoefficient:
		return FamilySecondary
	default:
		return FamilyNone
	}
}
// #endregion form

// #region table
// table lists the 13 primary forms followed by the 11 secondary forms.
// Only the first MaxSteps entries are reachable through FormForStep.
var table = [...]Form{
	{1, 1, 2, 2}, {1, 1, 2, 3}, {1, 1, 2, 4}, {1, 1, 2, 5},
	{1, 1, 2, 6}, {1, 1, 2, 7}, {1, 1, 2, 8}, {1, 1, 2, 9},
	{1, 1, 2, 10}, {1, 1, 2, 11}, {1, 1, 2, 12}, {1, 1, 2, 13}, {1, 1, 2, 14},
	{1, 2, 4, 4}, {1, 2, 4, 5}, {1, 2, 4, 6}, {1, 2, 4, 7},
	{1, 2, 4, 8}, {1, 2, 4, 9}, {1, 2, 4, 10}, {1, 2, 4, 11},
	{1, 2, 4, 12}, {1, 2, 4, 13}, {1, 2, 4, 14},
}

// Exceptional represents 1..14 but not 15. It never appears in the table.
var Exceptional = Form{1, 2, 5, 5}

// All returns a copy of the full table.
func All() []Form {
	out := make([]Form, len(table))
	copy(out, table[:])
	return out
}

// Primary returns the {1,1,2,d} family.
func Primary() []Form { return byFamily(FamilyPrimary) }

// Secondary returns the {1,2,4,d} family.
func Secondary() []Form { return byFamily(FamilySecondary) }

func byFamily(fam Family) []Form {
	var out []Form
	for _, f := range table {
		if FamilyOf(f) == fam {
			out = append(out, f)
		}
	}
	return out
}

// FormForStep returns the form applied at step (1-based).
func FormForStep(step int) (Form, error) {
	if step < 1 || step > MaxSteps {
		return Form{}, fmt.Errorf("%w: %d not in [1, %d]", ErrOutOfRange, step, MaxSteps)
	}
	return table[step-1], nil
}

// IsExceptional reports whether f is the reserved exceptional form.
func IsExceptional(f Form) bool {
	return f == Exceptional
}

// ValidateMaxSteps rejects step budgets above the proven bound.
func ValidateMaxSteps(n int) error {
	if n < 1 || n > MaxSteps {
		return &ConfigurationError{MaxSteps: n}
	}
	return nil
}
// #endregion table
