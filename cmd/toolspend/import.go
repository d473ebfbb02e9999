package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/ToolSpend/internal/core"
)

func newImportCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "import <file.csv|sheet-url>",
		Short: "Import a CSV file or Google Sheet and print its KPIs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()
			result, err := runImport(cmd.Context(), svc, args[0])
			if err != nil {
				var rejected *core.ImportRejectedError
				if errors.As(err, &rejected) && rejected.Result != nil {
					fmt.Fprintf(out, "import rejected: %d of %d rows valid\n",
						len(rejected.Result.Parse.Records), rejected.Result.TotalRows)
					printMessages(out, rejected.Result)
				}
				return userError(err)
			}

			d := svc.Dashboard()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Result *core.ImportResult `json:"result"`
					KPIs   core.KPIs          `json:"kpis"`
					Alerts []core.Alert       `json:"alerts"`
				}{result, d.KPIs.Rounded(), d.Alerts})
			}

			fmt.Fprintf(out, "imported %d of %d rows (%s)\n",
				len(result.Parse.Records), result.TotalRows, result.ImportID)
			printMessages(out, result)
			printKPIs(out, d)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func printKPIs(w io.Writer, d core.Dashboard) {
	k := d.KPIs
	fmt.Fprintf(w, "\nTotal monthly:    $%s\n", core.MoneyString(k.TotalMonthly))
	fmt.Fprintf(w, "Total yearly:     $%s\n", core.MoneyString(k.TotalYearly))
	fmt.Fprintf(w, "Avg Guna honesty: %s\n", core.MoneyString(k.AverageHonesty))
	fmt.Fprintf(w, "Tools:            %d (%d need, %d want)\n", k.TotalTools, k.NeedCount, k.WantCount)
	if k.OverBudgetCount > 0 {
		fmt.Fprintf(w, "Over budget:      %d\n", k.OverBudgetCount)
	}
	for _, alert := range d.Alerts {
		fmt.Fprintf(w, "[%s] %s: %s\n", alert.Severity, alert.Title, alert.Description)
	}
}
