package consensus

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/danielpatrickdp/geometric-consensus/internal/forms"
	"github.com/danielpatrickdp/geometric-consensus/internal/gate"
	"github.com/danielpatrickdp/geometric-consensus/internal/state"
	"github.com/danielpatrickdp/geometric-consensus/internal/validity"
)

// #region consensus-type
// Type names the polyhedral consensus rule.
type Type string

const (
	Tetrahedron Type = "TETRAHEDRON" // unanimous
	Cube        Type = "CUBE"        // simple majority
	Octahedron  Type = "OCTAHEDRON"  // five-sixths supermajority
)

var canonicalThresholds = map[Type]float64{
	Tetrahedron: 1.0,
	Cube:        0.5,
	Octahedron:  0.8333,
}

// thresholdSlack is how far a configured threshold may drift from the
// canonical value before NewEngine warns.
const thresholdSlack = 0.01

// Types lists the supported consensus types.
func Types() []Type { return []Type{Tetrahedron, Cube, Octahedron} }

// CanonicalThreshold returns the agreement threshold associated with t.
func (t Type) CanonicalThreshold() (float64, bool) {
	v, ok := canonicalThresholds[t]
	return v, ok
}

// ParseType accepts a type name in any case.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := canonicalThresholds[t]; !ok {
		return "", &ConfigurationError{Field: "type", Value: s, Reason: "unknown consensus type"}
	}
	return t, nil
}
// #endregion consensus-type

// #region config
// Config parameterises an Engine.
type Config struct {
	Type      Type
	MaxSteps  int           // 1..14
	Threshold float64       // minimum agreement in [0,1]
	Timeout   time.Duration // accepted and reported, not enforced by the loop
	Tolerance float64       // similarity-graph tolerance; 0 means validity.DefaultTolerance
}

// DefaultConfig returns the canonical configuration for t.
func DefaultConfig(t Type) Config {
	th, _ := t.CanonicalThreshold()
	return Config{
		Type:      t,
		MaxSteps:  forms.MaxSteps,
		Threshold: th,
		Timeout:   30 * time.Second,
		Tolerance: validity.DefaultTolerance,
	}
}

// Validate checks type, step budget and threshold range.
func (c Config) Validate() error {
	if _, ok := c.Type.CanonicalThreshold(); !ok {
		return &ConfigurationError{Field: "type", Value: string(c.Type), Reason: "unknown consensus type"}
	}
	if err := forms.ValidateMaxSteps(c.MaxSteps); err != nil {
		return &ConfigurationError{Field: "max_steps", Value: fmt.Sprint(c.MaxSteps), Reason: "exceeds universal form bound", Err: err}
	}
	if math.IsNaN(c.Threshold) || c.Threshold < 0 || c.Threshold > 1 {
		return &ConfigurationError{Field: "threshold", Value: fmt.Sprint(c.Threshold), Reason: "must be in [0, 1]"}
	}
	if c.Tolerance < 0 || math.IsNaN(c.Tolerance) {
		return &ConfigurationError{Field: "tolerance", Value: fmt.Sprint(c.Tolerance), Reason: "must be non-negative"}
	}
	if c.Timeout < 0 {
		return &ConfigurationError{Field: "timeout", Value: c.Timeout.String(), Reason: "must be non-negative"}
	}
	return nil
}
// #endregion config

// #region peer
// Peer is one participant's contribution to a round. State is optional.
type Peer struct {
	ID     string
	Agreed bool
	State  *state.State
}
// #endregion peer

// #region result
// Step records the gate outcome of one iteration.
type Step struct {
	Step           int
	Form           forms.Form
	Agreement      float64
	Acyclic        bool
	ChromaticValid bool
	Action         gate.Action
	Reason         string
}

// Result is a converged round.
type Result struct {
	Valid        bool
	Steps        int
	State        state.State
	Proof        Proof
	Type         Type
	Elapsed      time.Duration
	Participants int // peers that supplied a state
	Trace        []Step
}
// #endregion result
