package eval

import (
	"github.com/danielpatrickdp/geometric-consensus/internal/forms"
	"github.com/danielpatrickdp/geometric-consensus/internal/validity"
)

// #region eval-config
// Config holds thresholds for post-round validation.
type Config struct {
	MaxSteps     int     // fail if a round reports more steps than this
	Tolerance    float64 // similarity-graph tolerance for the acyclicity check
	MinAgreement float64 // informational; a lower final agreement never fails the round
}

// DefaultConfig matches the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxSteps:     forms.MaxSteps,
		Tolerance:    validity.DefaultTolerance,
		MinAgreement: 0.5,
	}
}
// #endregion eval-config

// #region eval-metric
// Metric captures a single validation check result.
type Metric struct {
	Name  string
	Value float64
	Pass  bool
}
// #endregion eval-metric

// #region eval-report
// Report is the output of post-round validation.
type Report struct {
	Passed  bool
	Metrics []Metric
	Reason  string
}

// Metric returns the named check, if present.
func (r Report) Metric(name string) (Metric, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}
// #endregion eval-report
