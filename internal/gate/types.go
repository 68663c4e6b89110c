package gate

import "github.com/danielpatrickdp/geometric-consensus/internal/validity"

// #region veto-type
// VetoType enumerates hard veto categories.
type VetoType string

const (
	VetoCyclic    VetoType = "cyclic_similarity"
	VetoNonFinite VetoType = "non_finite_state"
)

// #endregion veto-type

// #region veto-signal
// VetoSignal represents a detected hard veto condition.
type VetoSignal struct {
	Type   VetoType
	Reason string
}

// #endregion veto-signal

// #region actions
// Action is the gate outcome for one candidate.
type Action string

const (
	ActionConverge Action = "converge"
	ActionContinue Action = "continue"
)

// #endregion actions

// #region gate-config
// GateConfig holds thresholds for gate decisions.
type GateConfig struct {
	Threshold float64 // minimum agreement in [0,1] to converge
	Tolerance float64 // similarity-graph edge tolerance
}

// DefaultGateConfig returns the tetrahedral threshold and the standard tolerance.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		Threshold: 1.0,
		Tolerance: validity.DefaultTolerance,
	}
}

// #endregion gate-config

// #region gate-decision
// GateDecision is the output of the gate evaluation.
type GateDecision struct {
	Action      Action
	Reason      string
	Vetoed      bool
	VetoSignals []VetoSignal // non-empty if vetoed
	Agreement   float64      // soft score, mean peer similarity in (0,1]
	Validity    validity.Report
}

// #endregion gate-decision
