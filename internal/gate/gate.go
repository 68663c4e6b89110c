package gate

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/geometric-consensus/internal/state"
	"github.com/danielpatrickdp/geometric-consensus/internal/validity"
)

// #region gate
// Gate decides whether a candidate state ends the consensus loop.
type Gate struct {
	config GateConfig
}

// NewGate creates a gate with the given configuration.
func NewGate(config GateConfig) *Gate {
	if config.Tolerance <= 0 {
		config.Tolerance = validity.DefaultTolerance
	}
	return &Gate{config: config}
}

// Evaluate checks hard vetoes first, then compares agreement with the
// threshold. references are the peer states the candidate is measured against;
// with none, agreement is 0 and only a zero threshold can pass.
func (g *Gate) Evaluate(candidate state.State, references []state.State) GateDecision {
	var vetoes []VetoSignal

	// --- Hard veto pass ---

	// 1. Candidate must be a finite point
	if err := candidate.Validate(); err != nil {
		vetoes = append(vetoes, VetoSignal{Type: VetoNonFinite, Reason: err.Error()})
	}

	// 2. Similarity graph must be a forest
	report := validity.Check(candidate.Values, g.config.Tolerance)
	if !report.Acyclic {
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoCyclic,
			Reason: fmt.Sprintf("similarity graph has %d independent cycles", len(report.Cycles)),
		})
	}

	agreement := Agreement(candidate, references)

	if len(vetoes) > 0 {
		return GateDecision{
			Action:      ActionContinue,
			Reason:      fmt.Sprintf("hard veto: %s", vetoes[0].Reason),
			Vetoed:      true,
			VetoSignals: vetoes,
			Agreement:   agreement,
			Validity:    report,
		}
	}

	// --- Soft threshold ---
	if agreement < g.config.Threshold {
		return GateDecision{
			Action:    ActionContinue,
			Reason:    fmt.Sprintf("agreement %.4f below threshold %.4f", agreement, g.config.Threshold),
			Agreement: agreement,
			Validity:  report,
		}
	}

	return GateDecision{
		Action:    ActionConverge,
		Reason:    fmt.Sprintf("passed gate: agreement=%.4f", agreement),
		Agreement: agreement,
		Validity:  report,
	}
}

// #endregion gate

// #region helpers
// Agreement is the mean of exp(-distance(candidate, r)) over references,
// 1.0 when every reference coincides with the candidate. Empty input yields 0.
func Agreement(candidate state.State, references []state.State) float64 {
	if len(references) == 0 {
		return 0
	}
	var sum float64
	for _, r := range references {
		sum += math.Exp(-state.Distance(candidate, r))
	}
	return sum / float64(len(references))
}

// #endregion helpers
