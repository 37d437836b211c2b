package units

import (
	"fmt"

	"github.com/govalues/decimal"

	"github.com/finmetrics/yardstick/internal/lazy"
)

// ComplexUnit is a product of units raised to integer exponents, optionally
// scaled: 3*kilogram/metre**2. Dimension and ratio are reduced from the
// components at construction. An unnamed, unscaled composite is transparent
// to the algebra and dissolves into its parts when multiplied further; a
// named or scaled one is opaque and participates as a single term.
type ComplexUnit struct {
	baseUnit
	name  *lazy.Value[string]
	comps []Component
	scale decimal.Decimal
	dim   Dimension
	ratio decimal.Decimal
}

func (u *ComplexUnit) Name() string   { return u.name.Get() }
func (u *ComplexUnit) String() string { return u.Name() }

func (u *ComplexUnit) Dimension() Dimension   { return u.dim }
func (u *ComplexUnit) Ratio() decimal.Decimal { return u.ratio }

// Scale returns the numeric prefix on the component product.
func (u *ComplexUnit) Scale() decimal.Decimal { return u.scale }

// Components returns the ordered component list.
func (u *ComplexUnit) Components() []Component {
	return append([]Component(nil), u.comps...)
}

func (u *ComplexUnit) multiplicative() bool { return true }

func (u *ComplexUnit) components(power int) []Component {
	if u.name.Explicit() || u.scale.Cmp(decimal.One) != 0 {
		return []Component{{Unit: u, Power: power}}
	}
	return scaleComponents(u.comps, power)
}

// powTerms exponentiates the stored components directly, named or not. The
// scale does not survive exponentiation.
func (u *ComplexUnit) powTerms(power int) []Component {
	return scaleComponents(u.comps, power)
}

func (u *ComplexUnit) explicitName() string {
	if u.name.Explicit() {
		return u.name.Get()
	}
	return ""
}

// Convert re-expresses a value of this unit in to.
func (u *ComplexUnit) Convert(value decimal.Decimal, to Unit) (decimal.Decimal, error) {
	return convert(u, value, to)
}

func (u *ComplexUnit) doConvert(value decimal.Decimal, to Unit) (decimal.Decimal, error) {
	scaled, err := value.Mul(u.ratio)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %s to %s: %w", u, to, err)
	}
	out, err := scaled.Quo(to.Ratio())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %s to %s: %w", u, to, err)
	}
	return out, nil
}

func scaleComponents(comps []Component, power int) []Component {
	out := make([]Component, len(comps))
	for i, t := range comps {
		out[i] = Component{Unit: t.Unit, Power: t.Power * power}
	}
	return out
}
