package ledger

import (
	"errors"
	"time"

	"github.com/danielpatrickdp/geometric-consensus/internal/consensus"
	"github.com/danielpatrickdp/geometric-consensus/internal/partition"
	"github.com/danielpatrickdp/geometric-consensus/internal/state"
)

// #region records
// RoundRecord is one consensus attempt, converged or not.
type RoundRecord struct {
	ID            string
	ConsensusType string
	PeerCount     int
	Threshold     float64
	MaxSteps      int
	Valid         bool
	Steps         int
	State         []float64 // nil when the round did not converge
	Proof         string
	Elapsed       time.Duration
	Error         string
	CreatedAt     time.Time
	Trace         []StepRecord
}

// StepRecord is one gate evaluation inside a round.
type StepRecord struct {
	Step      int
	Form      string
	Agreement float64
	Acyclic   bool
	Action    string
	Reason    string
}

// RecoveryRecord is one partition recovery attempt.
type RecoveryRecord struct {
	ID               string
	Strategy         string
	Success          bool
	Steps            int
	Message          string
	PartitionsBefore int
	PartitionsAfter  int
	CreatedAt        time.Time
}
// #endregion records

// #region builders
// NewRoundRecord flattens the outcome of Engine.AchieveConsensus. err is the
// error returned alongside res; a ConvergenceExceededError keeps its trace.
func NewRoundRecord(cfg consensus.Config, peerCount int, res consensus.Result, err error) RoundRecord {
	rec := RoundRecord{
		ConsensusType: string(cfg.Type),
		PeerCount:     peerCount,
		Threshold:     cfg.Threshold,
		MaxSteps:      cfg.MaxSteps,
	}
	if err != nil {
		rec.Error = err.Error()
		var exceeded *consensus.ConvergenceExceededError
		if errors.As(err, &exceeded) {
			rec.Steps = len(exceeded.Trace)
			rec.Elapsed = exceeded.Elapsed
			rec.Trace = stepRecords(exceeded.Trace)
		}
		return rec
	}
	rec.Valid = res.Valid
	rec.Steps = res.Steps
	rec.State = res.State.Slice()
	rec.Proof = res.Proof.String()
	rec.Elapsed = res.Elapsed
	rec.Trace = stepRecords(res.Trace)
	return rec
}

func stepRecords(trace []consensus.Step) []StepRecord {
	out := make([]StepRecord, len(trace))
	for i, s := range trace {
		out[i] = StepRecord{
			Step:      s.Step,
			Form:      s.Form.String(),
			Agreement: s.Agreement,
			Acyclic:   s.Acyclic,
			Action:    string(s.Action),
			Reason:    s.Reason,
		}
	}
	return out
}

// NewRecoveryRecord flattens a partition.Recovery.
func NewRecoveryRecord(r partition.Recovery) RecoveryRecord {
	return RecoveryRecord{
		Strategy:         string(r.Strategy),
		Success:          r.Success,
		Steps:            r.Steps,
		Message:          r.Message,
		PartitionsBefore: r.Before.PartitionCount,
		PartitionsAfter:  r.After.PartitionCount,
	}
}
// #endregion builders

// FinalState converts a stored state back to a state.State.
func (r RoundRecord) FinalState() (state.State, bool) {
	if r.State == nil {
		return state.State{}, false
	}
	s, err := state.New(r.State)
	if err != nil {
		return state.State{}, false
	}
	return s, true
}
