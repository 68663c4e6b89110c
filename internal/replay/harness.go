// Package replay runs batches of recorded consensus rounds concurrently and
// checks each outcome against its snapshot's expectation.
package replay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/geometric-consensus/internal/consensus"
	"github.com/danielpatrickdp/geometric-consensus/internal/eval"
	"github.com/danielpatrickdp/geometric-consensus/internal/ledger"
	"github.com/danielpatrickdp/geometric-consensus/internal/snapshot"
)

// #region runner
// Runner replays rounds. It is safe for concurrent use.
type Runner struct {
	config  RunnerConfig
	harness *eval.Harness
	logger  *slog.Logger
}

// NewRunner creates a runner. A nil logger means slog.Default().
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		config:  config,
		harness: eval.NewHarness(config.Eval),
		logger:  logger.With("component", "replay"),
	}
}

// Run replays rounds with at most Workers in flight. Outcomes keep the input
// order. Rounds not started before ctx is done are marked skipped. The
// returned error is ctx's error or the first ledger failure.
func (r *Runner) Run(ctx context.Context, rounds []snapshot.RoundSnapshot) ([]Outcome, error) {
	outcomes := make([]Outcome, len(rounds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Workers)
	for i := range rounds {
		if gctx.Err() != nil {
			outcomes[i] = skipped(rounds[i].Name, gctx.Err())
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = skipped(rounds[i].Name, err)
				return nil
			}
			outcomes[i] = r.runOne(gctx, &rounds[i])
			return nil
		})
	}
	_ = g.Wait() // rounds never fail the group

	if err := r.record(outcomes); err != nil {
		return outcomes, err
	}
	return outcomes, ctx.Err()
}

func skipped(name string, err error) Outcome {
	return Outcome{Name: name, Action: ActionSkipped, Reason: err.Error(), Err: err}
}

func (r *Runner) runOne(ctx context.Context, snap *snapshot.RoundSnapshot) Outcome {
	out := Outcome{Name: snap.Name, Peers: len(snap.Peers)}

	cfg, err := snap.ToConfig()
	if err != nil {
		return r.reject(out, snap, err)
	}
	if r.config.Timeout > 0 {
		cfg.Timeout = r.config.Timeout
	}
	out.Config = cfg
	peers, err := snap.ToPeers()
	if err != nil {
		return r.reject(out, snap, err)
	}
	eng, err := consensus.NewEngine(cfg, r.logger.With("round", snap.Name))
	if err != nil {
		return r.reject(out, snap, err)
	}

	res, err := AchieveWithin(ctx, eng, peers)
	if r.config.Metrics != nil {
		r.config.Metrics.ObserveRound(cfg.Type, res, err)
	}
	out.Err = err

	var exceeded *consensus.ConvergenceExceededError
	switch {
	case err == nil:
		out.Result = res
		report := r.harness.Run(res)
		out.Eval = &report
		out.Action, out.Reason = ActionConverged, res.Proof.String()
		if !report.Passed {
			out.Action, out.Reason = ActionEvalFailed, report.Reason
		}
	case errors.As(err, &exceeded):
		out.Action, out.Reason = ActionExceeded, err.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		out.Action, out.Reason = ActionTimedOut, err.Error()
	default:
		out.Action, out.Reason = ActionRejected, err.Error()
	}

	out.Matched = matches(snap.Expect, out)
	if !out.Matched {
		r.logger.Warn("round diverged from expectation",
			"round", snap.Name,
			"action", string(out.Action),
			"steps", out.Result.Steps,
		)
	}
	return out
}

func (r *Runner) reject(out Outcome, snap *snapshot.RoundSnapshot, err error) Outcome {
	out.Action, out.Reason, out.Err = ActionRejected, err.Error(), err
	out.Matched = matches(snap.Expect, out)
	return out
}

// matches compares an outcome with the snapshot expectation. Steps are only
// compared for converged rounds with a non-zero expected step.
func matches(want *snapshot.Expectation, got Outcome) bool {
	if want == nil {
		return true
	}
	valid := got.Action == ActionConverged
	if want.Valid != valid {
		return false
	}
	return !valid || want.Steps == 0 || want.Steps == got.Result.Steps
}

// record writes every attempted round to the ledger in input order.
func (r *Runner) record(outcomes []Outcome) error {
	if r.config.Ledger == nil {
		return nil
	}
	for i := range outcomes {
		o := &outcomes[i]
		if o.Action == ActionSkipped || o.Config.Type == "" {
			continue
		}
		id, err := r.config.Ledger.RecordRound(ledger.NewRoundRecord(o.Config, o.Peers, o.Result, o.Err))
		if err != nil {
			return fmt.Errorf("record round %s: %w", o.Name, err)
		}
		o.RoundID = id
	}
	return nil
}
// #endregion runner

// #region deadline
// AchieveWithin runs eng.AchieveConsensus and gives up when ctx is done or
// the engine's configured Timeout elapses. The engine call itself is not
// interrupted; its result is discarded.
func AchieveWithin(ctx context.Context, eng *consensus.Engine, peers []consensus.Peer) (consensus.Result, error) {
	if err := ctx.Err(); err != nil {
		return consensus.Result{}, fmt.Errorf("consensus round: %w", err)
	}
	if t := eng.Config().Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	type reply struct {
		res consensus.Result
		err error
	}
	done := make(chan reply, 1)
	go func() {
		res, err := eng.AchieveConsensus(peers)
		done <- reply{res, err}
	}()

	select {
	case rep := <-done:
		return rep.res, rep.err
	case <-ctx.Done():
		return consensus.Result{}, fmt.Errorf("consensus round: %w", ctx.Err())
	}
}
// #endregion deadline

// #region summary
// Summarize computes aggregate stats from replay outcomes.
func Summarize(outcomes []Outcome, elapsed time.Duration) Summary {
	s := Summary{Total: len(outcomes), Elapsed: elapsed}
	steps := 0
	for _, o := range outcomes {
		switch o.Action {
		case ActionConverged:
			s.Converged++
			steps += o.Result.Steps
		case ActionExceeded:
			s.Exceeded++
		case ActionRejected:
			s.Rejected++
		case ActionEvalFailed:
			s.EvalFailed++
		case ActionTimedOut:
			s.TimedOut++
		case ActionSkipped:
			s.Skipped++
		}
		if o.Action != ActionSkipped && !o.Matched {
			s.Mismatches++
		}
	}
	if s.Converged > 0 {
		s.MeanSteps = float64(steps) / float64(s.Converged)
	}
	return s
}
// #endregion summary
