// Convert command for the yardstick CLI.
package main

import (
	"fmt"
	"os"

	"github.com/govalues/decimal"
	"github.com/spf13/cobra"

	"github.com/finmetrics/yardstick/pkg/units"
)

var convertCmd = &cobra.Command{
	Use:   "convert <value> <from> <to>",
	Short: "Convert a value between units",
	Long: `Convert expresses a value of one unit in another unit.

Units are looked up by exact name in the catalog; append _diff to an offset
unit's name for its difference unit. Conversions across dimensions use the
registered conversion factors.

Example:
  yardstick convert 2 kilometre metre
  yardstick convert 0 celsius kelvin
  yardstick convert 10 kilogram usd`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := decimal.Parse(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid value %q: %s\n", args[0], err)
			os.Exit(exitUserError)
		}

		st, sys, err := openSystem()
		if err != nil {
			fmt.Fprintln(os.Stderr, "convert:", err)
			os.Exit(exitSysError)
		}
		defer st.Close()

		from, err := resolveUnit(sys, args[1])
		if err != nil {
			fail("convert", err)
		}
		to, err := resolveUnit(sys, args[2])
		if err != nil {
			fail("convert", err)
		}

		q, err := units.NewQuantity(value, from)
		if err != nil {
			fail("convert", err)
		}
		result, err := q.To(to)
		if err != nil {
			fail("convert", err)
		}

		if flagJSON {
			out := map[string]string{
				"value": result.Value().String(),
				"unit":  result.Unit().Name(),
			}
			if err := printJSON(out); err != nil {
				fmt.Fprintln(os.Stderr, "convert:", err)
				os.Exit(exitSysError)
			}
			return nil
		}

		fmt.Printf("%s %s = %s\n", value, from.Name(), result)
		return nil
	},
}
