package validity

import (
	"fmt"
	"strings"
)

// Polynomial holds integer coefficients, Coeffs[k] multiplying x^k.
// Trailing zero coefficients are trimmed; the zero polynomial is {0}.
type Polynomial struct {
	Coeffs []int64
}

func newPolynomial(coeffs []int64) Polynomial {
	end := len(coeffs)
	for end > 1 && coeffs[end-1] == 0 {
		end--
	}
	if end == 0 {
		return Polynomial{Coeffs: []int64{0}}
	}
	out := make([]int64, end)
	copy(out, coeffs[:end])
	return Polynomial{Coeffs: out}
}

// monomial returns x^n.
func monomial(n int) Polynomial {
	c := make([]int64, n+1)
	c[n] = 1
	return Polynomial{Coeffs: c}
}

// Degree returns the highest power with a non-zero coefficient, 0 for constants.
func (p Polynomial) Degree() int { return len(p.Coeffs) - 1 }

// Evaluate computes p(x) by Horner's rule.
func (p Polynomial) Evaluate(x float64) float64 {
	var acc float64
	for k := len(p.Coeffs) - 1; k >= 0; k-- {
		acc = acc*x + float64(p.Coeffs[k])
	}
	return acc
}

// Add returns p + q.
func (p Polynomial) Add(q Polynomial) Polynomial {
	n := max(len(p.Coeffs), len(q.Coeffs))
	out := make([]int64, n)
	copy(out, p.Coeffs)
	for k, c := range q.Coeffs {
		out[k] += c
	}
	return newPolynomial(out)
}

// Sub returns p - q.
func (p Polynomial) Sub(q Polynomial) Polynomial {
	n := max(len(p.Coeffs), len(q.Coeffs))
	out := make([]int64, n)
	copy(out, p.Coeffs)
	for k, c := range q.Coeffs {
		out[k] -= c
	}
	return newPolynomial(out)
}

// Mul returns p * q.
func (p Polynomial) Mul(q Polynomial) Polynomial {
	out := make([]int64, len(p.Coeffs)+len(q.Coeffs)-1)
	for i, a := range p.Coeffs {
		for j, b := range q.Coeffs {
			out[i+j] += a * b
		}
	}
	return newPolynomial(out)
}

func (p Polynomial) String() string {
	var b strings.Builder
	for k := len(p.Coeffs) - 1; k >= 0; k-- {
		c := p.Coeffs[k]
		if c == 0 && len(p.Coeffs) > 1 {
			continue
		}
		switch {
		case b.Len() == 0 && c < 0:
			b.WriteString("-")
		case b.Len() > 0 && c < 0:
			b.WriteString(" - ")
		case b.Len() > 0:
			b.WriteString(" + ")
		}
		abs := c
		if abs < 0 {
			abs = -abs
		}
		switch {
		case k == 0:
			fmt.Fprintf(&b, "%d", abs)
		case abs != 1:
			fmt.Fprintf(&b, "%d", abs)
			fallthrough
		default:
			b.WriteString("x")
			if k > 1 {
				fmt.Fprintf(&b, "^%d", k)
			}
		}
	}
	return b.String()
}
