// This file rebuilds a unit system from persisted definitions on startup.
package catalog

import (
	"fmt"
	"strings"

	"github.com/govalues/decimal"

	"github.com/finmetrics/yardstick/pkg/units"
)

// Load builds every stored unit and conversion factor into sys. Definitions
// may reference each other regardless of creation order: records whose base
// or components are not registered yet are retried after the rest of the
// pass, until a full pass makes no progress.
func Load(st *Store, sys *units.UnitSystem) error {
	pending, err := st.Units()
	if err != nil {
		return err
	}

	for len(pending) > 0 {
		var stuck []UnitRecord
		for _, rec := range pending {
			built, err := buildUnit(sys, rec)
			if err != nil {
				return fmt.Errorf("building unit %q: %w", rec.Name, err)
			}
			if !built {
				stuck = append(stuck, rec)
			}
		}
		if len(stuck) == len(pending) {
			names := make([]string, len(stuck))
			for i, rec := range stuck {
				names[i] = rec.Name
			}
			return fmt.Errorf("%w: %s", ErrUnresolvable, strings.Join(names, ", "))
		}
		pending = stuck
	}

	factors, err := st.Factors()
	if err != nil {
		return err
	}
	for _, rec := range factors {
		if err := registerFactor(sys, rec); err != nil {
			return fmt.Errorf("registering factor for %s: %w", rec.Quotient, err)
		}
	}
	return nil
}

// buildUnit constructs one definition in sys. It returns false without an
// error when a referenced unit is not registered yet.
func buildUnit(sys *units.UnitSystem, rec UnitRecord) (bool, error) {
	switch rec.Kind {
	case KindPrimary:
		dim, err := units.ParseDimension(rec.Dimension)
		if err != nil {
			return false, err
		}
		if _, err := sys.NewPrimary(rec.Name, dim); err != nil {
			return false, err
		}
		return true, nil

	case KindDerived:
		base, ok := sys.Resolve(rec.Base)
		if !ok {
			return false, nil
		}
		ratio, err := parseDecimal(rec.Ratio, "ratio")
		if err != nil {
			return false, err
		}
		if _, err := sys.NewDerived(rec.Name, base, ratio); err != nil {
			return false, err
		}
		return true, nil

	case KindOffset:
		base, ok := sys.Resolve(rec.Base)
		if !ok {
			return false, nil
		}
		ratio, err := parseDecimal(rec.Ratio, "ratio")
		if err != nil {
			return false, err
		}
		offset, err := parseDecimal(rec.Offset, "offset")
		if err != nil {
			return false, err
		}
		if _, err := sys.NewOffset(rec.Name, base, ratio, offset); err != nil {
			return false, err
		}
		return true, nil

	case KindComplex:
		comps := make([]units.Component, 0, len(rec.Components))
		for _, c := range rec.Components {
			u, ok := sys.Resolve(c.Unit)
			if !ok {
				return false, nil
			}
			comps = append(comps, units.Component{Unit: u, Power: c.Power})
		}

		scale := decimal.One
		if rec.Scale != "" {
			var err error
			scale, err = parseDecimal(rec.Scale, "scale")
			if err != nil {
				return false, err
			}
		}

		if scale.Cmp(decimal.One) == 0 {
			if _, err := sys.NewComplex(rec.Name, comps...); err != nil {
				return false, err
			}
			return true, nil
		}

		// A scaled composite routes through a quantity over the anonymous
		// component product, which keeps the component list intact.
		inner, err := sys.NewComplex("", comps...)
		if err != nil {
			return false, err
		}
		q, err := units.NewQuantity(scale, inner)
		if err != nil {
			return false, err
		}
		if _, err := sys.NewComplexFromQuantity(rec.Name, q); err != nil {
			return false, err
		}
		return true, nil

	default:
		return false, fmt.Errorf("%w: unknown kind %q", ErrInvalidRecord, rec.Kind)
	}
}

func registerFactor(sys *units.UnitSystem, rec FactorRecord) error {
	u, ok := sys.Resolve(rec.UnitName)
	if !ok {
		return fmt.Errorf("factor unit %q: %w", rec.UnitName, ErrUnitNotFound)
	}
	value, err := parseDecimal(rec.Value, "value")
	if err != nil {
		return err
	}
	q, err := units.NewQuantity(value, u)
	if err != nil {
		return err
	}
	return sys.RegisterConversionFactor(q)
}

func parseDecimal(s, field string) (decimal.Decimal, error) {
	d, err := decimal.Parse(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: bad %s %q", ErrInvalidRecord, field, s)
	}
	return d, nil
}
