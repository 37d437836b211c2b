package units

import (
	"fmt"

	"github.com/govalues/decimal"
)

// PrimaryUnit is the canonical unit of its dimension: the unit every other
// unit of that dimension expresses its ratio against. A system holds exactly
// one per dimension.
type PrimaryUnit struct {
	baseUnit
	name string
	dim  Dimension
}

func (u *PrimaryUnit) Name() string         { return u.name }
func (u *PrimaryUnit) String() string       { return u.name }
func (u *PrimaryUnit) Dimension() Dimension { return u.dim }

// Ratio is 1 by definition.
func (u *PrimaryUnit) Ratio() decimal.Decimal { return decimal.One }

func (u *PrimaryUnit) multiplicative() bool { return true }

func (u *PrimaryUnit) components(power int) []Component {
	return []Component{{Unit: u, Power: power}}
}

func (u *PrimaryUnit) powTerms(power int) []Component {
	return u.components(power)
}

// Convert re-expresses a value of this unit in to.
func (u *PrimaryUnit) Convert(value decimal.Decimal, to Unit) (decimal.Decimal, error) {
	return convert(u, value, to)
}

// doConvert handles same-dimension targets. A primary unit only knows how to
// feed units defined against it; anything else arriving here is a corrupt
// registry, not a caller mistake.
func (u *PrimaryUnit) doConvert(value decimal.Decimal, to Unit) (decimal.Decimal, error) {
	switch t := to.(type) {
	case *DerivedUnit:
		out, err := value.Quo(t.ratio)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("converting %s to %s: %w", u, to, err)
		}
		return out, nil
	case *DiffDerivedUnit:
		out, err := value.Quo(t.Ratio())
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("converting %s to %s: %w", u, to, err)
		}
		return out, nil
	case *OffsetDerivedUnit:
		scaled, err := value.Quo(t.ratio)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("converting %s to %s: %w", u, to, err)
		}
		out, err := scaled.Sub(t.offset)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("converting %s to %s: %w", u, to, err)
		}
		return out, nil
	default:
		panic(fmt.Sprintf("units: cannot convert primary unit %s to %s", u, to))
	}
}
