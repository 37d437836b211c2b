// Show command for the yardstick CLI.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/finmetrics/yardstick/internal/catalog"
	"github.com/finmetrics/yardstick/pkg/units"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Display a unit with full details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, sys, err := openSystem()
		if err != nil {
			fmt.Fprintln(os.Stderr, "show:", err)
			os.Exit(exitSysError)
		}
		defer st.Close()

		u, err := resolveUnit(sys, args[0])
		if err != nil {
			fail("show", err)
		}

		// The stored definition adds fields the live unit no longer carries,
		// such as the base the ratio was declared against. Difference units
		// have no stored definition of their own.
		rec, recErr := st.Unit(u.Name())

		if flagJSON {
			details := map[string]any{
				"name":      u.Name(),
				"kind":      unitKind(u),
				"dimension": u.Dimension().String(),
				"ratio":     u.Ratio().String(),
			}
			switch t := u.(type) {
			case *units.DerivedUnit:
				details["primary"] = t.Primary().Name()
			case *units.OffsetDerivedUnit:
				details["primary"] = t.Primary().Name()
				details["offset"] = t.Offset().String()
			case *units.DiffDerivedUnit:
				details["origin"] = t.Origin().Name()
			case *units.ComplexUnit:
				details["scale"] = t.Scale().String()
				details["components"] = componentRecords(t.Components())
			}
			if recErr == nil {
				if rec.Base != "" {
					details["base"] = rec.Base
				}
				details["created_at"] = rec.CreatedAt.Format(time.RFC3339)
			}
			if err := printJSON(details); err != nil {
				fmt.Fprintln(os.Stderr, "show:", err)
				os.Exit(exitSysError)
			}
			return nil
		}

		fmt.Printf("Name:       %s\n", u.Name())
		fmt.Printf("Kind:       %s\n", unitKind(u))
		fmt.Printf("Dimension:  %s\n", u.Dimension())
		fmt.Printf("Ratio:      %s\n", u.Ratio())
		switch t := u.(type) {
		case *units.DerivedUnit:
			fmt.Printf("Primary:    %s\n", t.Primary().Name())
		case *units.OffsetDerivedUnit:
			fmt.Printf("Primary:    %s\n", t.Primary().Name())
			fmt.Printf("Offset:     %s\n", t.Offset())
		case *units.DiffDerivedUnit:
			fmt.Printf("Origin:     %s\n", t.Origin().Name())
		case *units.ComplexUnit:
			fmt.Printf("Scale:      %s\n", t.Scale())
			fmt.Printf("Components: %s\n", componentArgs(t.Components()))
		}
		if recErr == nil {
			if rec.Base != "" {
				fmt.Printf("Base:       %s\n", rec.Base)
			}
			fmt.Printf("Created:    %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

// componentRecords converts live components to their stored form for JSON
// output.
func componentRecords(comps []units.Component) []catalog.ComponentRecord {
	recs := make([]catalog.ComponentRecord, len(comps))
	for i, c := range comps {
		recs[i] = catalog.ComponentRecord{Unit: c.Unit.Name(), Power: c.Power}
	}
	return recs
}

// componentArgs formats components the way define complex accepts them.
func componentArgs(comps []units.Component) string {
	parts := make([]string, len(comps))
	for i, c := range comps {
		parts[i] = fmt.Sprintf("%s:%d", c.Unit.Name(), c.Power)
	}
	return strings.Join(parts, " ")
}
