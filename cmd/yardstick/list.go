// List command for the yardstick CLI.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finmetrics/yardstick/internal/catalog"
)

var listKind string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List unit definitions",
	Long: `List displays the unit definitions in the catalog.

Use --kind to filter by definition kind.

Example:
  yardstick list
  yardstick list --kind derived
  yardstick list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listKind, "kind", "", "filter by kind (primary, derived, offset, complex)")
}

// unitRow is one list entry in both table and JSON output.
type unitRow struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Dimension string `json:"dimension"`
	Ratio     string `json:"ratio"`
}

func runList(cmd *cobra.Command, args []string) error {
	if listKind != "" {
		switch listKind {
		case catalog.KindPrimary, catalog.KindDerived, catalog.KindOffset, catalog.KindComplex:
		default:
			fmt.Fprintf(os.Stderr, "invalid kind %q (valid: primary, derived, offset, complex)\n", listKind)
			os.Exit(exitUserError)
		}
	}

	st, sys, err := openSystem()
	if err != nil {
		fmt.Fprintln(os.Stderr, "list:", err)
		os.Exit(exitSysError)
	}
	defer st.Close()

	recs, err := st.Units()
	if err != nil {
		fail("list", err)
	}

	rows := make([]unitRow, 0, len(recs))
	for _, rec := range recs {
		if listKind != "" && rec.Kind != listKind {
			continue
		}
		row := unitRow{Name: rec.Name, Kind: rec.Kind, Dimension: rec.Dimension}
		if u, ok := sys.Lookup(rec.Name); ok {
			row.Dimension = u.Dimension().String()
			row.Ratio = u.Ratio().String()
		}
		rows = append(rows, row)
	}

	if flagJSON {
		if err := printJSON(rows); err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitSysError)
		}
		return nil
	}

	printUnitTable(rows)
	return nil
}

// printUnitTable prints units in a human-readable table format.
func printUnitTable(rows []unitRow) {
	if len(rows) == 0 {
		fmt.Println("No units defined.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "NAME\tKIND\tDIMENSION\tRATIO")
	fmt.Fprintln(w, "----\t----\t---------\t-----")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Kind, r.Dimension, r.Ratio)
	}
	w.Flush()

	// Print output, trimming trailing whitespace from each line.
	output := sb.String()
	for _, line := range strings.Split(output, "\n") {
		fmt.Println(strings.TrimRight(line, " "))
	}

	fmt.Printf("Total: %d unit(s)\n", len(rows))
}
