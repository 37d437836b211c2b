package units

import (
	"fmt"

	"github.com/govalues/decimal"

	"github.com/finmetrics/yardstick/internal/lazy"
)

// DerivedUnit is a pure rescaling of its dimension's primary unit: one of it
// is worth ratio primaries. The stored primary is always a PrimaryUnit;
// deriving from another derived unit folds the ratios together at
// construction.
type DerivedUnit struct {
	baseUnit
	name    *lazy.Value[string]
	primary *PrimaryUnit
	ratio   decimal.Decimal
}

func (u *DerivedUnit) Name() string   { return u.name.Get() }
func (u *DerivedUnit) String() string { return u.Name() }

// Primary returns the canonical unit this unit is scaled against.
func (u *DerivedUnit) Primary() *PrimaryUnit { return u.primary }

func (u *DerivedUnit) Dimension() Dimension   { return u.primary.dim }
func (u *DerivedUnit) Ratio() decimal.Decimal { return u.ratio }

func (u *DerivedUnit) multiplicative() bool { return true }

func (u *DerivedUnit) components(power int) []Component {
	return []Component{{Unit: u, Power: power}}
}

func (u *DerivedUnit) powTerms(power int) []Component {
	return u.components(power)
}

func (u *DerivedUnit) explicitName() string {
	if u.name.Explicit() {
		return u.name.Get()
	}
	return ""
}

// Convert re-expresses a value of this unit in to.
func (u *DerivedUnit) Convert(value decimal.Decimal, to Unit) (decimal.Decimal, error) {
	return convert(u, value, to)
}

func (u *DerivedUnit) doConvert(value decimal.Decimal, to Unit) (decimal.Decimal, error) {
	scaled, err := value.Mul(u.ratio)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %s to %s: %w", u, to, err)
	}
	if to == u.primary {
		return scaled, nil
	}
	return u.primary.doConvert(scaled, to)
}

// OffsetDerivedUnit is an affine unit: a value v means (v+offset)*ratio
// primaries. The zero point moves, so the unit cannot participate in
// products or quotients; differences on its scale use Diff.
type OffsetDerivedUnit struct {
	baseUnit
	name    *lazy.Value[string]
	primary *PrimaryUnit
	ratio   decimal.Decimal
	offset  decimal.Decimal
}

func (u *OffsetDerivedUnit) Name() string   { return u.name.Get() }
func (u *OffsetDerivedUnit) String() string { return u.Name() }

// Primary returns the canonical unit this unit is scaled against.
func (u *OffsetDerivedUnit) Primary() *PrimaryUnit { return u.primary }

func (u *OffsetDerivedUnit) Dimension() Dimension   { return u.primary.dim }
func (u *OffsetDerivedUnit) Ratio() decimal.Decimal { return u.ratio }

// Offset returns the additive shift applied before scaling.
func (u *OffsetDerivedUnit) Offset() decimal.Decimal { return u.offset }

// Diff returns the unit of differences on this scale: same ratio, no
// offset, safe in products. Interned on first use, so repeated calls return
// the same unit.
func (u *OffsetDerivedUnit) Diff() *DiffDerivedUnit {
	return u.sys.getOrCreateDiff(u)
}

func (u *OffsetDerivedUnit) multiplicative() bool { return false }

func (u *OffsetDerivedUnit) components(power int) []Component {
	return []Component{{Unit: u, Power: power}}
}

func (u *OffsetDerivedUnit) powTerms(power int) []Component {
	return u.components(power)
}

func (u *OffsetDerivedUnit) explicitName() string {
	if u.name.Explicit() {
		return u.name.Get()
	}
	return ""
}

// Convert re-expresses a value of this unit in to.
func (u *OffsetDerivedUnit) Convert(value decimal.Decimal, to Unit) (decimal.Decimal, error) {
	return convert(u, value, to)
}

func (u *OffsetDerivedUnit) doConvert(value decimal.Decimal, to Unit) (decimal.Decimal, error) {
	shifted, err := value.Add(u.offset)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %s to %s: %w", u, to, err)
	}
	scaled, err := shifted.Mul(u.ratio)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %s to %s: %w", u, to, err)
	}
	if to == u.primary {
		return scaled, nil
	}
	return u.primary.doConvert(scaled, to)
}

// DiffDerivedUnit measures differences on an offset unit's scale. It shares
// the offset unit's ratio but not its zero point, which makes it
// multiplicative: a temperature gradient in celsius_diff per metre is
// meaningful where one in celsius is not.
type DiffDerivedUnit struct {
	baseUnit
	name   *lazy.Value[string]
	offset *OffsetDerivedUnit
}

func (u *DiffDerivedUnit) Name() string   { return u.name.Get() }
func (u *DiffDerivedUnit) String() string { return u.Name() }

// Primary returns the canonical unit this unit is scaled against.
func (u *DiffDerivedUnit) Primary() *PrimaryUnit { return u.offset.primary }

// Origin returns the offset unit whose differences this unit measures.
func (u *DiffDerivedUnit) Origin() *OffsetDerivedUnit { return u.offset }

func (u *DiffDerivedUnit) Dimension() Dimension   { return u.offset.primary.dim }
func (u *DiffDerivedUnit) Ratio() decimal.Decimal { return u.offset.ratio }

func (u *DiffDerivedUnit) multiplicative() bool { return true }

func (u *DiffDerivedUnit) components(power int) []Component {
	return []Component{{Unit: u, Power: power}}
}

func (u *DiffDerivedUnit) powTerms(power int) []Component {
	return u.components(power)
}

// Convert re-expresses a value of this unit in to.
func (u *DiffDerivedUnit) Convert(value decimal.Decimal, to Unit) (decimal.Decimal, error) {
	return convert(u, value, to)
}

func (u *DiffDerivedUnit) doConvert(value decimal.Decimal, to Unit) (decimal.Decimal, error) {
	scaled, err := value.Mul(u.offset.ratio)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %s to %s: %w", u, to, err)
	}
	if to == u.offset.primary {
		return scaled, nil
	}
	return u.offset.primary.doConvert(scaled, to)
}
