package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// #region history
func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent rounds and recoveries from the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := a.requireLedger()
			if err != nil {
				return err
			}
			rounds, err := l.RecentRounds(limit)
			if err != nil {
				return err
			}
			pterm.DefaultSection.Println("Rounds")
			data := pterm.TableData{{"id", "type", "peers", "valid", "steps", "created", "proof / error"}}
			for _, r := range rounds {
				detail := r.Proof
				if r.Error != "" {
					detail = r.Error
				}
				data = append(data, []string{
					r.ID, r.ConsensusType, fmt.Sprint(r.PeerCount), yesNo(r.Valid),
					fmt.Sprint(r.Steps), r.CreatedAt.Format("2006-01-02 15:04:05"), detail,
				})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return err
			}

			recoveries, err := l.Recoveries(limit)
			if err != nil {
				return err
			}
			pterm.DefaultSection.Println("Recoveries")
			data = pterm.TableData{{"id", "strategy", "success", "components", "message"}}
			for _, r := range recoveries {
				data = append(data, []string{
					r.ID, r.Strategy, yesNo(r.Success),
					fmt.Sprintf("%d -> %d", r.PartitionsBefore, r.PartitionsAfter), r.Message,
				})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "rows to show")
	cmd.AddCommand(newHistoryShowCmd(a))
	return cmd
}

func newHistoryShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [round-id]",
		Short: "Show one recorded round with its step trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.requireLedger()
			if err != nil {
				return err
			}
			r, err := l.Round(args[0])
			if err != nil {
				return err
			}
			pterm.DefaultSection.Printfln("Round %s", r.ID)
			pterm.Info.Printfln("type %s, threshold %.4f, max steps %d, %d peers", r.ConsensusType, r.Threshold, r.MaxSteps, r.PeerCount)
			if s, ok := r.FinalState(); ok {
				pterm.Info.Printfln("state: %v", s.Values)
			}
			data := pterm.TableData{{"step", "form", "agreement", "acyclic", "action", "reason"}}
			for _, s := range r.Trace {
				data = append(data, []string{
					fmt.Sprint(s.Step), s.Form, fmt.Sprintf("%.4f", s.Agreement), yesNo(s.Acyclic), s.Action, s.Reason,
				})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return err
			}
			if r.Proof != "" {
				pterm.DefaultBox.WithTitle("proof").Println(r.Proof)
			}
			return nil
		},
	}
}
// #endregion history
