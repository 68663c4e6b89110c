package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/geometric-consensus/internal/design"
)

// #region design
func newDesignCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "design",
		Short: "Show the Fano plane over the state slots and its block designs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plane := design.Fano()
			if err := plane.Validate(); err != nil {
				pterm.Error.Println(err)
				return err
			}

			data := pterm.TableData{{"line", "points", "slots"}}
			slotLines := plane.SlotLines()
			for l, pts := range plane.Lines() {
				names := make([]string, len(pts))
				for i, s := range slotLines[l] {
					names[i] = s.String()
				}
				data = append(data, []string{
					fmt.Sprint(l),
					fmt.Sprint(pts),
					strings.Join(names, ", "),
				})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return err
			}

			d, err := plane.Design()
			if err != nil {
				return err
			}
			c, err := d.Complement()
			if err != nil {
				return err
			}
			_ = pterm.DefaultTable.WithData(pterm.TableData{
				{"design", d.Params().String()},
				{"symmetric", yesNo(d.Symmetric())},
				{"complement", c.Params().String()},
				{"automorphisms", fmt.Sprint(len(plane.Automorphisms()))},
			}).Render()
			pterm.Success.Println("Fano plane axioms hold")
			return nil
		},
	}
}
// #endregion design
