// Factors command for the yardstick CLI.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var factorsCmd = &cobra.Command{
	Use:   "factors",
	Short: "List registered conversion factors",
	Long: `Factors displays the cross-dimension conversion factors in the
catalog, keyed by their quotient dimension.

Example:
  yardstick factors
  yardstick factors --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openCatalog()
		if err != nil {
			fmt.Fprintln(os.Stderr, "factors:", err)
			os.Exit(exitSysError)
		}
		defer st.Close()

		recs, err := st.Factors()
		if err != nil {
			fail("factors", err)
		}

		rows := make([]factorRow, 0, len(recs))
		for _, rec := range recs {
			rows = append(rows, factorRow{
				Quotient: rec.Quotient,
				Value:    rec.Value,
				Unit:     rec.UnitName,
			})
		}

		if flagJSON {
			if err := printJSON(rows); err != nil {
				fmt.Fprintln(os.Stderr, "factors:", err)
				os.Exit(exitSysError)
			}
			return nil
		}

		printFactorTable(rows)
		return nil
	},
}

// factorRow is one factors entry in both table and JSON output.
type factorRow struct {
	Quotient string `json:"quotient"`
	Value    string `json:"value"`
	Unit     string `json:"unit"`
}

// printFactorTable prints factors in a human-readable table format.
func printFactorTable(rows []factorRow) {
	if len(rows) == 0 {
		fmt.Println("No conversion factors registered.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "QUOTIENT\tVALUE\tUNIT")
	fmt.Fprintln(w, "--------\t-----\t----")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Quotient, r.Value, r.Unit)
	}
	w.Flush()

	output := sb.String()
	for _, line := range strings.Split(output, "\n") {
		fmt.Println(strings.TrimRight(line, " "))
	}

	fmt.Printf("Total: %d factor(s)\n", len(rows))
}
