package replay

import (
	"time"

	"github.com/danielpatrickdp/geometric-consensus/internal/consensus"
	"github.com/danielpatrickdp/geometric-consensus/internal/eval"
	"github.com/danielpatrickdp/geometric-consensus/internal/ledger"
	"github.com/danielpatrickdp/geometric-consensus/internal/metrics"
)

// #region types
// Action is the replay verdict for one round.
type Action string

const (
	ActionConverged  Action = "converged"
	ActionExceeded   Action = "exceeded"    // ran every step without converging
	ActionRejected   Action = "rejected"    // bad configuration or peer set
	ActionEvalFailed Action = "eval_failed" // converged but failed re-validation
	ActionTimedOut   Action = "timed_out"   // deadline passed while the round ran
	ActionSkipped    Action = "skipped"     // context cancelled before start
)

// Recorder persists rounds. *ledger.Ledger satisfies it.
type Recorder interface {
	RecordRound(ledger.RoundRecord) (string, error)
}

// RunnerConfig parameterises a Runner. Ledger and Metrics are optional.
type RunnerConfig struct {
	Workers int           // concurrent rounds; values below 1 mean 1
	Timeout time.Duration // per-round deadline; zero keeps each round's own
	Eval    eval.Config
	Ledger  Recorder
	Metrics *metrics.Metrics
}

// DefaultRunnerConfig returns a four-worker runner with default eval checks.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Workers: 4,
		Eval:    eval.DefaultConfig(),
	}
}

// Outcome captures one replayed round.
type Outcome struct {
	Name    string
	Action  Action
	Reason  string
	Config  consensus.Config
	Peers   int
	Result  consensus.Result // zero unless the round converged
	Err     error            // error returned by the engine, if any
	Eval    *eval.Report     // nil unless the round converged
	Matched bool             // true when the snapshot had no expectation or it held
	RoundID string           // ledger id, when recorded
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	Total      int
	Converged  int
	Exceeded   int
	Rejected   int
	EvalFailed int
	TimedOut   int
	Skipped    int
	Mismatches int
	MeanSteps  float64 // over converged rounds
	Elapsed    time.Duration
}
// #endregion types
