// Shared helpers for yardstick CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/finmetrics/yardstick/internal/catalog"
	"github.com/finmetrics/yardstick/pkg/units"
)

// openCatalog resolves the data directory and opens the catalog store. The
// caller must defer store.Close().
func openCatalog() (*catalog.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	st, err := catalog.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return st, nil
}

// openSystem opens the catalog and materializes the unit system from its
// definitions. The caller must defer store.Close().
func openSystem() (*catalog.Store, *units.UnitSystem, error) {
	st, err := openCatalog()
	if err != nil {
		return nil, nil, err
	}

	sys := units.NewUnitSystem(configSystemName)
	if err := catalog.Load(st, sys); err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("load unit system: %w", err)
	}
	return st, sys, nil
}

// resolveUnit looks a unit up by exact name, understanding the _diff suffix
// for offset units' difference companions.
func resolveUnit(sys *units.UnitSystem, name string) (units.Unit, error) {
	u, ok := sys.Resolve(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", catalog.ErrUnitNotFound, name)
	}
	return u, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// unitKind names the concrete kind of a unit for display.
func unitKind(u units.Unit) string {
	switch u.(type) {
	case *units.PrimaryUnit:
		return catalog.KindPrimary
	case *units.DerivedUnit:
		return catalog.KindDerived
	case *units.OffsetDerivedUnit:
		return catalog.KindOffset
	case *units.DiffDerivedUnit:
		return "diff"
	case *units.ComplexUnit:
		return catalog.KindComplex
	default:
		return "unknown"
	}
}

// userErrors lists the sentinels that indicate bad input rather than a
// system failure, for exit-code mapping.
var userErrors = []error{
	catalog.ErrUnitNotFound,
	catalog.ErrUnitExists,
	catalog.ErrUnitInUse,
	catalog.ErrInvalidRecord,
	units.ErrNilUnit,
	units.ErrNotMultiplicative,
	units.ErrSystemMismatch,
	units.ErrInvalidName,
	units.ErrInvalidDimension,
	units.ErrNameConflict,
	units.ErrDuplicateName,
	units.ErrInvalidRatio,
	units.ErrInvalidScale,
	units.ErrInvalidBaseUnit,
	units.ErrNoComponents,
	units.ErrNoConversionFactor,
}

// isUserError reports whether err wraps one of the user-error sentinels.
func isUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// fail prints a prefixed error to stderr and exits with the exit code the
// error class maps to.
func fail(prefix string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, err)
	if isUserError(err) {
		os.Exit(exitUserError)
	}
	os.Exit(exitSysError)
}
