package units

import (
	"fmt"
	"strings"

	"github.com/govalues/decimal"
)

// Unit is one scale of measurement: a named point on a Dimension with a
// known relationship to that dimension's canonical (primary) unit.
//
// Units are immutable and interned by their owning UnitSystem. Within one
// system, equal construction keys yield the identical object, so comparing
// units with == is the intended equality.
type Unit interface {
	fmt.Stringer

	// Name returns the explicit name when one was given, otherwise a
	// synthesized one (for example "1000*metre" or "metre/second").
	Name() string

	// Dimension returns what kind of quantity the unit measures.
	Dimension() Dimension

	// Ratio returns the multiplicative factor relating one of this unit to
	// the dimension's primary unit. It is 1 for primary units.
	Ratio() decimal.Decimal

	// Convert expresses value, denominated in this unit, in the target
	// unit. Same-dimension conversions route through the shared primary
	// unit; cross-dimension conversions consult the owning system's
	// conversion factors and fail with ErrNoConversionFactor when none is
	// registered.
	Convert(value decimal.Decimal, to Unit) (decimal.Decimal, error)

	// components decomposes the unit into multiplicative factors for Mul
	// and Div; powTerms is the decomposition used by Pow.
	components(power int) []Component
	powTerms(power int) []Component

	// doConvert handles the same-dimension leg of Convert.
	doConvert(value decimal.Decimal, to Unit) (decimal.Decimal, error)

	multiplicative() bool
	system() *UnitSystem
	unitID() uint64
}

// Component is one base unit with its integer exponent inside a composite
// unit.
type Component struct {
	Unit  Unit
	Power int
}

// baseUnit carries the identity fields shared by every unit variant.
type baseUnit struct {
	sys *UnitSystem
	id  uint64
}

func (b baseUnit) system() *UnitSystem { return b.sys }
func (b baseUnit) unitID() uint64      { return b.id }

// convert is the conversion algorithm shared by all variants.
//
// Identity returns the value untouched. Equal dimensions delegate to the
// variant's doConvert. Different dimensions look up a conversion factor for
// the dimension quotient to/from, multiply the value by the factor, and
// recurse from the intermediate unit from*factor.Unit() toward the target.
func convert(from Unit, value decimal.Decimal, to Unit) (decimal.Decimal, error) {
	if to == nil {
		return decimal.Decimal{}, fmt.Errorf("converting %s: %w", from, ErrNilUnit)
	}
	if to == from {
		return value, nil
	}
	if from.system() != to.system() {
		return decimal.Decimal{}, fmt.Errorf("converting %s to %s: %w", from, to, ErrSystemMismatch)
	}
	if from.Dimension() == to.Dimension() {
		return from.doConvert(value, to)
	}

	quotient := to.Dimension().Div(from.Dimension())
	factor, ok := from.system().ConversionFactor(quotient)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf(
			"cannot convert %s (%s) to %s (%s): %w for quotient %s",
			from, from.Dimension(), to, to.Dimension(), ErrNoConversionFactor, quotient)
	}
	bridged, err := value.Mul(factor.Value())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("applying conversion factor %s: %w", factor, err)
	}
	intermediate, err := Mul(from, factor.Unit())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("bridging %s to %s: %w", from, to, err)
	}
	return intermediate.Convert(bridged, to)
}

// Mul returns the product of two units as a composite. Both operands must be
// multiplicative and owned by the same UnitSystem.
func Mul(a, b Unit) (*ComplexUnit, error) {
	if a == nil || b == nil {
		return nil, ErrNilUnit
	}
	if a.system() != b.system() {
		return nil, fmt.Errorf("%s * %s: %w", a, b, ErrSystemMismatch)
	}
	terms := mergeComponents(b.components(1), a.components(1))
	return a.system().newComplex("", terms, decimal.One)
}

// Div returns the quotient of two units as a composite.
func Div(a, b Unit) (*ComplexUnit, error) {
	if a == nil || b == nil {
		return nil, ErrNilUnit
	}
	if a.system() != b.system() {
		return nil, fmt.Errorf("%s / %s: %w", a, b, ErrSystemMismatch)
	}
	terms := mergeComponents(b.components(-1), a.components(1))
	return a.system().newComplex("", terms, decimal.One)
}

// Pow raises a unit to an integer power. Composite units scale every stored
// component exponent by n; all other units become a single component raised
// to n.
func Pow(u Unit, n int) (*ComplexUnit, error) {
	if u == nil {
		return nil, ErrNilUnit
	}
	return u.system().newComplex("", u.powTerms(n), decimal.One)
}

// mergeComponents folds src into dst, preserving first-seen order and
// summing exponents of identical base units. Exponents that cancel to zero
// keep their entry: the composite stays keyed (and named) by the full merge
// history, matching the interning rules.
func mergeComponents(dst, src []Component) []Component {
	out := append([]Component(nil), dst...)
	for _, s := range src {
		merged := false
		for i := range out {
			if out[i].Unit == s.Unit {
				out[i].Power += s.Power
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, s)
		}
	}
	return out
}

// buildComponentName synthesizes the canonical composite name: positive
// exponents form the numerator (joined by '*', literal "1" when empty),
// negative exponents the '/'-prefixed denominator, and a non-unit scale is
// prefixed as "{scale}*".
func buildComponentName(scale decimal.Decimal, comps []Component) string {
	var b strings.Builder
	if scale.Cmp(decimal.One) != 0 {
		b.WriteString(scale.String())
		b.WriteByte('*')
	}

	var up, down []string
	for _, c := range comps {
		switch {
		case c.Power == 1:
			up = append(up, c.Unit.Name())
		case c.Power > 1:
			up = append(up, fmt.Sprintf("%s**%d", c.Unit.Name(), c.Power))
		case c.Power == -1:
			down = append(down, c.Unit.Name())
		case c.Power < 0:
			down = append(down, fmt.Sprintf("%s**%d", c.Unit.Name(), -c.Power))
		}
	}

	if len(up) == 0 {
		b.WriteByte('1')
	} else {
		b.WriteString(strings.Join(up, "*"))
	}
	if len(down) > 0 {
		b.WriteByte('/')
		b.WriteString(strings.Join(down, "*"))
	}
	return b.String()
}

// canonical trims trailing zeros so numerically equal decimals produce
// identical interning keys and synthesized names.
func canonical(d decimal.Decimal) decimal.Decimal {
	return d.Trim(0)
}

// powDecimal raises d to an integer power with exact multiplication,
// inverting once at the end for negative exponents.
func powDecimal(d decimal.Decimal, n int) (decimal.Decimal, error) {
	if n == 0 {
		return decimal.One, nil
	}
	abs := n
	if abs < 0 {
		abs = -abs
	}
	out := d
	for i := 1; i < abs; i++ {
		var err error
		out, err = out.Mul(d)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("raising %s to power %d: %w", d, n, err)
		}
	}
	if n < 0 {
		inv, err := out.Inv()
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("raising %s to power %d: %w", d, n, err)
		}
		return inv, nil
	}
	return out, nil
}
