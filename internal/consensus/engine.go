// Package consensus runs the bounded geometric agreement loop: average the
// peer states, push the result through one universal form per step, and stop
// at the first candidate the gate accepts.
package consensus

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/danielpatrickdp/geometric-consensus/internal/forms"
	"github.com/danielpatrickdp/geometric-consensus/internal/gate"
	"github.com/danielpatrickdp/geometric-consensus/internal/state"
	"github.com/danielpatrickdp/geometric-consensus/internal/validity"
)

// #region engine
// Engine is safe for concurrent use; AchieveConsensus keeps all iteration
// state on its own stack.
type Engine struct {
	config Config
	gate   *gate.Gate
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine validates config and builds an engine. A threshold that differs
// from the type's canonical value is logged, not rejected. A nil logger
// means slog.Default().
func NewEngine(config Config, logger *slog.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Tolerance == 0 {
		config.Tolerance = validity.DefaultTolerance
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "consensus", "type", string(config.Type))

	if want, _ := config.Type.CanonicalThreshold(); math.Abs(config.Threshold-want) > thresholdSlack {
		logger.Warn("threshold differs from canonical value",
			"threshold", config.Threshold, "canonical", want)
	}

	return &Engine{
		config: config,
		gate:   gate.NewGate(gate.GateConfig{Threshold: config.Threshold, Tolerance: config.Tolerance}),
		logger: logger,
		now:    time.Now,
	}, nil
}

// Config returns the validated configuration.
func (e *Engine) Config() Config { return e.config }
// #endregion engine

// #region achieve
// AchieveConsensus runs at most MaxSteps iterations over peers.
//
// Each step applies the step's form to the current state and, in lockstep, to
// every peer's own trajectory; agreement compares the candidate with those
// projected peer states. A rejected candidate still becomes the baseline for
// the next step. The configured Timeout is not consulted here; callers that
// need a deadline race this call themselves.
func (e *Engine) AchieveConsensus(peers []Peer) (Result, error) {
	start := e.now()

	refs, err := validatePeers(peers)
	if err != nil {
		return Result{}, err
	}

	current := state.Mean(refs)
	if err := current.Validate(); err != nil {
		return Result{}, &InputError{Index: -1, Reason: "peer mean is not finite", Err: err}
	}

	trajectories := make([]state.State, len(refs))
	copy(trajectories, refs)

	trace := make([]Step, 0, e.config.MaxSteps)
	for step := 1; step <= e.config.MaxSteps; step++ {
		form, err := forms.FormForStep(step)
		if err != nil {
			// MaxSteps is validated at construction
			return Result{}, fmt.Errorf("step %d: %w", step, err)
		}

		candidate := forms.ApplyToState(current, form)
		for i := range trajectories {
			trajectories[i] = forms.ApplyToState(trajectories[i], form)
		}

		decision := e.gate.Evaluate(candidate, trajectories)
		trace = append(trace, Step{
			Step:           step,
			Form:           form,
			Agreement:      decision.Agreement,
			Acyclic:        decision.Validity.Acyclic,
			ChromaticValid: decision.Validity.ChromaticValid,
			Action:         decision.Action,
			Reason:         decision.Reason,
		})
		e.logger.Debug("consensus step",
			"step", step,
			"form", form.String(),
			"agreement", decision.Agreement,
			"acyclic", decision.Validity.Acyclic,
			"action", string(decision.Action),
		)

		if decision.Action == gate.ActionConverge {
			elapsed := e.now().Sub(start)
			result := Result{
				Valid:        true,
				Steps:        step,
				State:        candidate,
				Proof:        newProof(step, form, candidate, e.config.Type),
				Type:         e.config.Type,
				Elapsed:      elapsed,
				Participants: len(refs),
				Trace:        trace,
			}
			e.logger.Info("consensus reached",
				"steps", step,
				"agreement", decision.Agreement,
				"proof", result.Proof.String(),
				"elapsed", elapsed,
			)
			return result, nil
		}
		current = candidate
	}

	elapsed := e.now().Sub(start)
	e.logger.Warn("consensus not reached",
		"max_steps", e.config.MaxSteps,
		"peers", len(peers),
		"elapsed", elapsed,
	)
	return Result{}, &ConvergenceExceededError{MaxSteps: e.config.MaxSteps, Elapsed: elapsed, Trace: trace}
}
// #endregion achieve

// #region helpers
// validatePeers checks the peer set and returns the states that were supplied.
func validatePeers(peers []Peer) ([]state.State, error) {
	if len(peers) == 0 {
		return nil, &InputError{Index: -1, Reason: "at least one peer is required"}
	}
	seen := make(map[string]int, len(peers))
	var refs []state.State
	for i, p := range peers {
		if p.ID == "" {
			return nil, &InputError{Index: i, Reason: "missing id"}
		}
		if prev, ok := seen[p.ID]; ok {
			return nil, &InputError{Index: i, Reason: fmt.Sprintf("duplicate id %q (first at %d)", p.ID, prev)}
		}
		seen[p.ID] = i
		if p.State == nil {
			continue
		}
		if err := p.State.Validate(); err != nil {
			return nil, &InputError{Index: i, Reason: "invalid state", Err: err}
		}
		refs = append(refs, *p.State)
	}
	return refs, nil
}
// #endregion helpers
