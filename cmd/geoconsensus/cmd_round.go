package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/geometric-consensus/internal/consensus"
	"github.com/danielpatrickdp/geometric-consensus/internal/eval"
	"github.com/danielpatrickdp/geometric-consensus/internal/ledger"
	"github.com/danielpatrickdp/geometric-consensus/internal/replay"
	"github.com/danielpatrickdp/geometric-consensus/internal/snapshot"
)

// #region round
func newRoundCmd(a *app) *cobra.Command {
	var (
		typ       string
		threshold float64
		maxSteps  int
		export    string
	)
	cmd := &cobra.Command{
		Use:   "round [snapshot.yaml]",
		Short: "Run one consensus round from a snapshot",
		Long:  `Loads a round snapshot, runs it under the configured timeout, re-validates the result and records it in the ledger when one is configured. Flags override the snapshot's consensus section.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := snapshot.LoadRound(args[0])
			if err != nil {
				return err
			}
			cfg, err := snap.ToConfig()
			if err != nil {
				return err
			}
			cfg.Timeout = a.cfg.Consensus.Timeout
			if cmd.Flags().Changed("type") {
				if cfg.Type, err = consensus.ParseType(typ); err != nil {
					return err
				}
				cfg.Threshold, _ = cfg.Type.CanonicalThreshold()
			}
			if cmd.Flags().Changed("threshold") {
				cfg.Threshold = threshold
			}
			if cmd.Flags().Changed("max-steps") {
				cfg.MaxSteps = maxSteps
			}

			peers, err := snap.ToPeers()
			if err != nil {
				return err
			}
			if export != "" {
				if err := exportRound(export, snap.Name, cfg, peers); err != nil {
					return err
				}
			}

			eng, err := consensus.NewEngine(cfg, a.logger)
			if err != nil {
				return err
			}
			res, runErr := replay.AchieveWithin(cmd.Context(), eng, peers)
			a.metrics.ObserveRound(cfg.Type, res, runErr)

			if a.ledger != nil {
				id, err := a.ledger.RecordRound(ledger.NewRoundRecord(cfg, len(peers), res, runErr))
				if err != nil {
					return err
				}
				pterm.Info.Printfln("recorded round %s", id)
			}

			var exceeded *consensus.ConvergenceExceededError
			switch {
			case runErr == nil:
				printTrace(res.Trace)
				printResult(res, eval.NewHarness(eval.DefaultConfig()).Run(res))
				return nil
			case errors.As(runErr, &exceeded):
				printTrace(exceeded.Trace)
				pterm.Warning.Printfln("no consensus after %d steps (%s)", exceeded.MaxSteps, exceeded.Elapsed)
			}
			return runErr
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "consensus type: tetrahedron, cube or octahedron")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "agreement threshold in [0, 1]")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step budget, at most 14")
	cmd.Flags().StringVar(&export, "export", "", "write the effective round snapshot to this path")
	return cmd
}

func exportRound(path, name string, cfg consensus.Config, peers []consensus.Peer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return snapshot.Write(f, snapshot.NewRoundSnapshot(name, cfg, peers))
}
// #endregion round

// #region output
func printTrace(trace []consensus.Step) {
	data := pterm.TableData{{"step", "form", "agreement", "acyclic", "chromatic", "action"}}
	for _, s := range trace {
		data = append(data, []string{
			fmt.Sprint(s.Step),
			s.Form.String(),
			fmt.Sprintf("%.4f", s.Agreement),
			yesNo(s.Acyclic),
			yesNo(s.ChromaticValid),
			string(s.Action),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printResult(res consensus.Result, report eval.Report) {
	pterm.DefaultSection.Println("Consensus reached")
	pterm.Info.Printfln("state: %v", res.State.Values)
	pterm.Info.Printfln("steps: %d  participants: %d  elapsed: %s", res.Steps, res.Participants, res.Elapsed)
	pterm.DefaultBox.WithTitle("proof").Println(res.Proof.String())
	if report.Passed {
		pterm.Success.Println(report.Reason)
	} else {
		pterm.Error.Println(report.Reason)
	}
}

func yesNo(b bool) string {
	if b {
		return pterm.LightGreen("yes")
	}
	return pterm.LightRed("no")
}
// #endregion output
