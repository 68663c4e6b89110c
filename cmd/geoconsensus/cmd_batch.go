package main

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/geometric-consensus/internal/eval"
	"github.com/danielpatrickdp/geometric-consensus/internal/replay"
	"github.com/danielpatrickdp/geometric-consensus/internal/snapshot"
)

// #region batch
func newBatchCmd(a *app) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "batch [rounds.yaml]",
		Short: "Replay a batch of rounds concurrently",
		Long:  `Runs every round in a batch file, compares each outcome with its recorded expectation and prints a summary. Exits non-zero when any round diverges.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rounds, err := snapshot.LoadRounds(args[0])
			if err != nil {
				return err
			}
			rc := replay.RunnerConfig{
				Workers: a.cfg.Replay.Workers,
				Timeout: a.cfg.Consensus.Timeout,
				Eval:    eval.DefaultConfig(),
				Metrics: a.metrics,
			}
			if cmd.Flags().Changed("workers") {
				rc.Workers = workers
			}
			if a.ledger != nil {
				rc.Ledger = a.ledger
			}

			start := time.Now()
			outcomes, err := replay.NewRunner(rc, a.logger).Run(cmd.Context(), rounds)
			summary := replay.Summarize(outcomes, time.Since(start))
			printOutcomes(outcomes)
			printSummary(summary)
			if err != nil {
				return err
			}
			if summary.Mismatches > 0 {
				return fmt.Errorf("%d of %d rounds diverged from expectation", summary.Mismatches, summary.Total)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent rounds (overrides replay.workers)")
	return cmd
}

func printOutcomes(outcomes []replay.Outcome) {
	data := pterm.TableData{{"round", "action", "steps", "match", "detail"}}
	for _, o := range outcomes {
		data = append(data, []string{
			o.Name,
			string(o.Action),
			fmt.Sprint(o.Result.Steps),
			yesNo(o.Matched),
			o.Reason,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printSummary(s replay.Summary) {
	pterm.DefaultSection.Println("Summary")
	_ = pterm.DefaultTable.WithData(pterm.TableData{
		{"total", fmt.Sprint(s.Total)},
		{"converged", fmt.Sprint(s.Converged)},
		{"exceeded", fmt.Sprint(s.Exceeded)},
		{"rejected", fmt.Sprint(s.Rejected)},
		{"eval failed", fmt.Sprint(s.EvalFailed)},
		{"timed out", fmt.Sprint(s.TimedOut)},
		{"skipped", fmt.Sprint(s.Skipped)},
		{"mismatches", fmt.Sprint(s.Mismatches)},
		{"mean steps", fmt.Sprintf("%.2f", s.MeanSteps)},
		{"elapsed", s.Elapsed.String()},
	}).Render()
}
// #endregion batch
