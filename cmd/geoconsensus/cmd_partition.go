package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/geometric-consensus/internal/betti"
	"github.com/danielpatrickdp/geometric-consensus/internal/ledger"
	"github.com/danielpatrickdp/geometric-consensus/internal/partition"
	"github.com/danielpatrickdp/geometric-consensus/internal/snapshot"
	"github.com/danielpatrickdp/geometric-consensus/internal/validity"
)

// #region partition
func newPartitionCmd(a *app) *cobra.Command {
	var (
		strategy string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "partition [network.yaml]",
		Short: "Detect and recover a partitioned peer topology",
		Long:  `Reports the Betti numbers and genus estimate of a topology and, when it is partitioned, runs the configured recovery strategy or the full escalation chain.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := snapshot.LoadNetwork(args[0])
			if err != nil {
				return err
			}
			net, err := ns.ToNetwork()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("strategy") {
				a.cfg.Partition.Strategy = strings.ReplaceAll(strings.ToUpper(strategy), "-", "_")
			}
			chain, err := a.cfg.RecoveryChain()
			if err != nil {
				return err
			}

			det := partition.NewDetector(a.logger)
			info, err := det.Detect(net)
			if err != nil {
				return err
			}
			a.metrics.ObservePartition(info)
			printTopology(net, info)
			if !info.Partitioned {
				pterm.Success.Println("network is connected")
				return nil
			}

			plan, err := partition.NewPlanner(det, chain...).Plan(net)
			if err != nil {
				return err
			}
			for _, rec := range plan.Attempts {
				a.metrics.ObserveRecovery(rec)
				if a.ledger != nil {
					if _, err := a.ledger.RecordRecovery(ledger.NewRecoveryRecord(rec)); err != nil {
						return err
					}
				}
			}
			printPlan(plan)

			if !plan.Resolved {
				return fmt.Errorf("partition not recovered: %s", plan.Final().Message)
			}
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				return snapshot.Write(f, snapshot.NewNetworkSnapshot(ns.Name+"-recovered", plan.Final().Network))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "auto, duality, geometric-decomposition or manual (overrides partition.strategy)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the recovered network snapshot to this path")
	return cmd
}

func printTopology(net partition.Network, info partition.Info) {
	g := net.Topology
	m := betti.Connectivity(g)
	genus := betti.Genus(g)
	pterm.DefaultSection.Println("Topology")
	_ = pterm.DefaultTable.WithData(pterm.TableData{
		{"vertices", fmt.Sprint(g.Order())},
		{"edges", fmt.Sprint(g.Size())},
		{"shape", string(partition.Classify(g))},
		{"betti", fmt.Sprintf("b0=%d b1=%d b2=%d", info.Numbers.Beta0, info.Numbers.Beta1, info.Numbers.Beta2)},
		{"euler consistent", yesNo(betti.Consistent(g))},
		{"largest component", fmt.Sprint(m.LargestComponent)},
		{"diameter", fmt.Sprint(m.Diameter)},
		{"genus", fmt.Sprintf(">= %d (%s)", genus.LowerBound, genus.Surface)},
	}).Render()
	if g.Order() <= validity.MaxTutteVertices {
		if t, err := validity.TuttePolynomial(g); err == nil {
			pterm.Info.Printfln("tutte: %s", t)
			pterm.Info.Printfln("spanning forests: %.0f, acyclic orientations: %.0f", t.Evaluate(1, 1), t.Evaluate(2, 0))
		}
	}
	for i, c := range info.Components {
		pterm.Info.Printfln("component %d: %s", i+1, strings.Join(c, ", "))
	}
}

func printPlan(plan partition.Plan) {
	pterm.DefaultSection.Println("Recovery")
	data := pterm.TableData{{"strategy", "success", "steps", "components", "message"}}
	for _, r := range plan.Attempts {
		data = append(data, []string{
			string(r.Strategy),
			yesNo(r.Success),
			fmt.Sprint(r.Steps),
			fmt.Sprintf("%d -> %d", r.Before.PartitionCount, r.After.PartitionCount),
			r.Message,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
// #endregion partition
