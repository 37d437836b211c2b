// Define commands for the yardstick CLI.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/govalues/decimal"
	"github.com/spf13/cobra"

	"github.com/finmetrics/yardstick/internal/catalog"
	"github.com/finmetrics/yardstick/pkg/units"
)

var defineCmd = &cobra.Command{
	Use:   "define",
	Short: "Define a new unit or conversion factor",
	Long: `Define validates a new definition by constructing it into the loaded
unit system, then persists it to the catalog.`,
}

var defineScale string

func init() {
	defineCmd.AddCommand(definePrimaryCmd)
	defineCmd.AddCommand(defineDerivedCmd)
	defineCmd.AddCommand(defineOffsetCmd)
	defineCmd.AddCommand(defineComplexCmd)
	defineCmd.AddCommand(defineFactorCmd)

	defineComplexCmd.Flags().StringVar(&defineScale, "scale", "1", "positive scale applied to the composite")
}

var definePrimaryCmd = &cobra.Command{
	Use:   "primary <name> <dimension>",
	Short: "Define the canonical unit of a dimension",
	Long: `Define primary registers the canonical unit of a dimension. Every
other unit of that dimension converts through it.

The dimension is a signature such as "length" or "length*time^-1". Each
dimension has exactly one primary unit.

Example:
  yardstick define primary metre length`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		st, sys, err := openSystem()
		if err != nil {
			fmt.Fprintln(os.Stderr, "define primary:", err)
			os.Exit(exitSysError)
		}
		defer st.Close()

		dim, err := units.ParseDimension(args[1])
		if err != nil {
			fail("define primary", err)
		}
		u, err := sys.NewPrimary(name, dim)
		if err != nil {
			fail("define primary", err)
		}

		id, err := st.SaveUnit(catalog.UnitRecord{
			Name:      name,
			Kind:      catalog.KindPrimary,
			Dimension: u.Dimension().String(),
		})
		if err != nil {
			fail("define primary", err)
		}

		printDefined(catalog.KindPrimary, name, id)
		return nil
	},
}

var defineDerivedCmd = &cobra.Command{
	Use:   "derived <name> <base> <ratio>",
	Short: "Define a derived unit as a ratio of a base unit",
	Long: `Define derived registers a unit worth ratio times an existing base
unit. The base may itself be derived; the stored definition keeps the base
as written, while the live unit folds to the dimension's primary.

Example:
  yardstick define derived kilometre metre 1000
  yardstick define derived hour minute 60`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, baseName, ratioStr := args[0], args[1], args[2]

		st, sys, err := openSystem()
		if err != nil {
			fmt.Fprintln(os.Stderr, "define derived:", err)
			os.Exit(exitSysError)
		}
		defer st.Close()

		base, err := resolveUnit(sys, baseName)
		if err != nil {
			fail("define derived", err)
		}
		ratio, err := decimal.Parse(ratioStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid ratio %q: %s\n", ratioStr, err)
			os.Exit(exitUserError)
		}

		u, err := sys.NewDerived(name, base, ratio)
		if err != nil {
			fail("define derived", err)
		}

		id, err := st.SaveUnit(catalog.UnitRecord{
			Name:      name,
			Kind:      catalog.KindDerived,
			Dimension: u.Dimension().String(),
			Base:      baseName,
			Ratio:     ratioStr,
		})
		if err != nil {
			fail("define derived", err)
		}

		printDefined(catalog.KindDerived, name, id)
		return nil
	},
}

var defineOffsetCmd = &cobra.Command{
	Use:   "offset <name> <base> <ratio> <offset>",
	Short: "Define an offset unit over a base unit",
	Long: `Define offset registers a unit whose conversion to the base adds an
offset before applying the ratio. Offset units cannot take part in
multiplication or division; their _diff companion can.

Example:
  yardstick define offset celsius kelvin 1 273.15`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, baseName, ratioStr, offsetStr := args[0], args[1], args[2], args[3]

		st, sys, err := openSystem()
		if err != nil {
			fmt.Fprintln(os.Stderr, "define offset:", err)
			os.Exit(exitSysError)
		}
		defer st.Close()

		base, err := resolveUnit(sys, baseName)
		if err != nil {
			fail("define offset", err)
		}
		ratio, err := decimal.Parse(ratioStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid ratio %q: %s\n", ratioStr, err)
			os.Exit(exitUserError)
		}
		offset, err := decimal.Parse(offsetStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid offset %q: %s\n", offsetStr, err)
			os.Exit(exitUserError)
		}

		u, err := sys.NewOffset(name, base, ratio, offset)
		if err != nil {
			fail("define offset", err)
		}

		id, err := st.SaveUnit(catalog.UnitRecord{
			Name:      name,
			Kind:      catalog.KindOffset,
			Dimension: u.Dimension().String(),
			Base:      baseName,
			Ratio:     ratioStr,
			Offset:    offsetStr,
		})
		if err != nil {
			fail("define offset", err)
		}

		printDefined(catalog.KindOffset, name, id)
		return nil
	},
}

var defineComplexCmd = &cobra.Command{
	Use:   "complex <name> <unit[:power]>...",
	Short: "Define a named composite unit",
	Long: `Define complex registers a named composite built from existing units.

Each component is a unit name with an optional integer power separated by a
colon; a bare name means power 1. Use --scale for composites that carry a
multiplier, such as a hectare (10000 metre:2).

Example:
  yardstick define complex metre_per_second metre second:-1
  yardstick define complex hectare metre:2 --scale 10000`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		st, sys, err := openSystem()
		if err != nil {
			fmt.Fprintln(os.Stderr, "define complex:", err)
			os.Exit(exitSysError)
		}
		defer st.Close()

		comps := make([]units.Component, 0, len(args)-1)
		recs := make([]catalog.ComponentRecord, 0, len(args)-1)
		for _, arg := range args[1:] {
			compName, power, err := parseComponent(arg)
			if err != nil {
				fmt.Fprintln(os.Stderr, "define complex:", err)
				os.Exit(exitUserError)
			}
			u, err := resolveUnit(sys, compName)
			if err != nil {
				fail("define complex", err)
			}
			comps = append(comps, units.Component{Unit: u, Power: power})
			recs = append(recs, catalog.ComponentRecord{Unit: compName, Power: power})
		}

		scale, err := decimal.Parse(defineScale)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid scale %q: %s\n", defineScale, err)
			os.Exit(exitUserError)
		}

		u, err := buildComplex(sys, name, comps, scale)
		if err != nil {
			fail("define complex", err)
		}

		rec := catalog.UnitRecord{
			Name:       name,
			Kind:       catalog.KindComplex,
			Dimension:  u.Dimension().String(),
			Components: recs,
		}
		if scale.Cmp(decimal.One) != 0 {
			rec.Scale = defineScale
		}
		id, err := st.SaveUnit(rec)
		if err != nil {
			fail("define complex", err)
		}

		printDefined(catalog.KindComplex, name, id)
		return nil
	},
}

var defineFactorCmd = &cobra.Command{
	Use:   "factor <value> <unit>",
	Short: "Register a cross-dimension conversion factor",
	Long: `Define factor registers a quantity that bridges dimensions, such as
a price of 3 usd per kilogram. The factor's quotient is the unit's dimension;
registering a second factor for the same quotient replaces the first.

Example:
  yardstick define factor 3 usd_per_kilogram`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		valueStr, unitName := args[0], args[1]

		st, sys, err := openSystem()
		if err != nil {
			fmt.Fprintln(os.Stderr, "define factor:", err)
			os.Exit(exitSysError)
		}
		defer st.Close()

		value, err := decimal.Parse(valueStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid value %q: %s\n", valueStr, err)
			os.Exit(exitUserError)
		}

		u, err := resolveUnit(sys, unitName)
		if err != nil {
			fail("define factor", err)
		}

		q, err := units.NewQuantity(value, u)
		if err != nil {
			fail("define factor", err)
		}
		if err := sys.RegisterConversionFactor(q); err != nil {
			fail("define factor", err)
		}

		quotient := u.Dimension().String()
		id, err := st.SaveFactor(catalog.FactorRecord{
			Quotient: quotient,
			Value:    valueStr,
			UnitName: unitName,
		})
		if err != nil {
			fail("define factor", err)
		}

		if flagJSON {
			out := map[string]string{
				"quotient": quotient,
				"value":    valueStr,
				"unit":     unitName,
				"id":       id,
			}
			if err := printJSON(out); err != nil {
				fmt.Fprintln(os.Stderr, "define factor:", err)
				os.Exit(exitSysError)
			}
			return nil
		}

		fmt.Printf("Registered factor: %s %s (quotient %s)\n", valueStr, unitName, quotient)
		return nil
	},
}

// parseComponent splits "metre:-1" into unit name and power. A bare name
// means power 1.
func parseComponent(arg string) (string, int, error) {
	name, powerStr, found := strings.Cut(arg, ":")
	if !found {
		return name, 1, nil
	}
	power, err := strconv.Atoi(powerStr)
	if err != nil || name == "" {
		return "", 0, fmt.Errorf("invalid component %q (expected unit or unit:power)", arg)
	}
	return name, power, nil
}

// buildComplex constructs the composite in the live system, routing scaled
// composites through the quantity constructor.
func buildComplex(sys *units.UnitSystem, name string, comps []units.Component, scale decimal.Decimal) (*units.ComplexUnit, error) {
	if scale.Cmp(decimal.One) == 0 {
		return sys.NewComplex(name, comps...)
	}
	inner, err := sys.NewComplex("", comps...)
	if err != nil {
		return nil, err
	}
	q, err := units.NewQuantity(scale, inner)
	if err != nil {
		return nil, err
	}
	return sys.NewComplexFromQuantity(name, q)
}

// printDefined reports a successful definition in the selected output mode.
func printDefined(kind, name, id string) {
	if flagJSON {
		if err := printJSON(map[string]string{"name": name, "kind": kind, "id": id}); err != nil {
			fmt.Fprintln(os.Stderr, "define:", err)
			os.Exit(exitSysError)
		}
		return
	}
	fmt.Printf("Defined %s: %s\n", kind, name)
}
