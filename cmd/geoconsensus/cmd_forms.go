package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/geometric-consensus/internal/forms"
)

// #region forms
func newFormsCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forms",
		Short: "List the step forms and verify the representation bound",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data := pterm.TableData{{"step", "form", "family", "represents 1..14", "represents 15"}}
			for i, f := range forms.All() {
				data = append(data, []string{
					fmt.Sprint(i + 1),
					f.String(),
					string(forms.FamilyOf(f)),
					yesNo(len(forms.Representable(f, forms.MaxSteps)) == forms.MaxSteps),
					yesNo(forms.CanRepresent(f, forms.MaxSteps+1)),
				})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return err
			}

			v := forms.Validate(forms.Exceptional)
			missing := missingUpTo(forms.Exceptional, forms.MaxSteps+1)
			pterm.Info.Printfln("exceptional form (%s): %s; misses %s", forms.Exceptional, v.Reason, missing)

			if err := forms.VerifyBound(); err != nil {
				pterm.Error.Println(err)
				return err
			}
			pterm.Success.Printfln("every step form represents 1..%d", forms.MaxSteps)
			return nil
		},
	}
}

func missingUpTo(f forms.Form, limit int) string {
	var out []string
	for n := 1; n <= limit; n++ {
		if !forms.CanRepresent(f, n) {
			out = append(out, fmt.Sprint(n))
		}
	}
	return strings.Join(out, ", ")
}
// #endregion forms
