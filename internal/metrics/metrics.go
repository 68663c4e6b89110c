// Package metrics exposes Prometheus instruments for consensus rounds and
// partition recovery. Every instrument is registered against the registerer
// handed to New, so tests and batch runs can use an isolated registry.
package metrics

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/danielpatrickdp/geometric-consensus/internal/consensus"
	"github.com/danielpatrickdp/geometric-consensus/internal/forms"
	"github.com/danielpatrickdp/geometric-consensus/internal/partition"
)

const namespace = "geoconsensus"

// Round outcomes.
const (
	OutcomeConverged = "converged"
	OutcomeExceeded  = "exceeded"
	OutcomeTimedOut  = "timed_out" // deadline or cancellation before the engine returned
	OutcomeRejected  = "rejected"  // configuration or input error
)

// #region metrics
// Metrics holds the registered instruments.
type Metrics struct {
	// Labels: type, outcome
	RoundsTotal *prometheus.CounterVec
	// Labels: strategy, outcome (success, failure)
	RecoveriesTotal *prometheus.CounterVec
	// Steps taken by converged rounds, one bucket per form.
	RoundSteps prometheus.Histogram
	// Components seen by the most recent detection.
	PartitionComponents prometheus.Gauge
}

// New registers every instrument with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RoundsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rounds_total",
				Help:      "Consensus rounds by consensus type and outcome",
			},
			[]string{"type", "outcome"},
		),
		RecoveriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recoveries_total",
				Help:      "Partition recovery attempts by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		RoundSteps: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "round_steps",
			Help:      "Iterations needed by converged rounds",
			Buckets:   prometheus.LinearBuckets(1, 1, forms.MaxSteps),
		}),
		PartitionComponents: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "partition_components",
			Help:      "Connected components in the last inspected topology",
		}),
	}
}
// #endregion metrics

// #region observe
// ObserveRound records the outcome of one AchieveConsensus call.
func (m *Metrics) ObserveRound(t consensus.Type, res consensus.Result, err error) {
	var exceeded *consensus.ConvergenceExceededError
	switch {
	case err == nil:
		m.RoundsTotal.WithLabelValues(string(t), OutcomeConverged).Inc()
		m.RoundSteps.Observe(float64(res.Steps))
	case errors.As(err, &exceeded):
		m.RoundsTotal.WithLabelValues(string(t), OutcomeExceeded).Inc()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		m.RoundsTotal.WithLabelValues(string(t), OutcomeTimedOut).Inc()
	default:
		m.RoundsTotal.WithLabelValues(string(t), OutcomeRejected).Inc()
	}
}

// ObserveRecovery counts one recovery attempt.
func (m *Metrics) ObserveRecovery(r partition.Recovery) {
	outcome := "failure"
	if r.Success {
		outcome = "success"
	}
	m.RecoveriesTotal.WithLabelValues(string(r.Strategy), outcome).Inc()
	m.PartitionComponents.Set(float64(r.After.PartitionCount))
}

// ObservePartition records the component count of a detection.
func (m *Metrics) ObservePartition(info partition.Info) {
	m.PartitionComponents.Set(float64(info.PartitionCount))
}
// #endregion observe

// WriteTextfile dumps g in the node-exporter textfile format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
