// Package eval re-checks a converged round independently of the engine that
// produced it.
package eval

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/geometric-consensus/internal/consensus"
	"github.com/danielpatrickdp/geometric-consensus/internal/validity"
)

// #region harness
// Harness runs lightweight validation on converged rounds.
type Harness struct {
	config Config
}

// NewHarness creates a harness with the given configuration.
func NewHarness(config Config) *Harness {
	return &Harness{config: config}
}

// Run validates res. Every blocking check is evaluated even after one fails,
// so the report lists all of them.
func (h *Harness) Run(res consensus.Result) Report {
	var metrics []Metric
	var failReasons []string
	check := func(m Metric, reason string) {
		metrics = append(metrics, m)
		if !m.Pass {
			failReasons = append(failReasons, reason)
		}
	}

	// 1. coordinates are finite and inside [0, 1)
	nonFinite, outOfRange := 0, 0
	for _, v := range res.State.Values {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			nonFinite++
		case v < 0 || v >= 1:
			outOfRange++
		}
	}
	check(Metric{Name: "state_finite", Value: float64(nonFinite), Pass: nonFinite == 0},
		fmt.Sprintf("%d non-finite coordinates", nonFinite))
	check(Metric{Name: "state_range", Value: float64(outOfRange), Pass: outOfRange == 0},
		fmt.Sprintf("%d coordinates outside [0, 1)", outOfRange))

	// 2. step bound
	stepsPass := res.Steps >= 1 && res.Steps <= h.config.MaxSteps
	check(Metric{Name: "steps", Value: float64(res.Steps), Pass: stepsPass},
		fmt.Sprintf("steps %d outside 1..%d", res.Steps, h.config.MaxSteps))

	// 3. proof survives a round trip and certifies the state
	proofErr := verifyProof(res)
	proofReason := "proof ok"
	if proofErr != nil {
		proofReason = proofErr.Error()
	}
	check(Metric{Name: "proof", Value: boolValue(proofErr == nil), Pass: proofErr == nil}, proofReason)

	// 4. the final state's similarity graph is a forest
	vr := validity.Check(res.State.Values, h.config.Tolerance)
	check(Metric{Name: "acyclic", Value: float64(vr.Edges), Pass: vr.Acyclic},
		fmt.Sprintf("similarity graph has %d cycles", len(vr.Cycles)))

	// 5. agreement is informational only
	agreement := 0.0
	if n := len(res.Trace); n > 0 {
		agreement = res.Trace[n-1].Agreement
	}
	metrics = append(metrics, Metric{Name: "agreement", Value: agreement, Pass: agreement >= h.config.MinAgreement})

	reason := "all checks passed"
	if len(failReasons) == 1 {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
	} else if len(failReasons) > 1 {
		reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
	}
	return Report{
		Passed:  len(failReasons) == 0,
		Metrics: metrics,
		Reason:  reason,
	}
}
// #endregion harness

// #region helpers
func verifyProof(res consensus.Result) error {
	parsed, err := consensus.ParseProof(res.Proof.String())
	if err != nil {
		return err
	}
	if parsed.Step != res.Steps {
		return fmt.Errorf("proof step %d differs from round steps %d", parsed.Step, res.Steps)
	}
	if parsed.Type != res.Type {
		return fmt.Errorf("proof type %s differs from round type %s", parsed.Type, res.Type)
	}
	return parsed.Verify(res.State)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
// #endregion helpers
