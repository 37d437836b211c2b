package units

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/govalues/decimal"

	"github.com/finmetrics/yardstick/internal/lazy"
)

// UnitSystem is the interning registry for one system of units and the sole
// construction path for Unit values. Every factory method computes a
// canonical key, returns the already-interned unit when the key is known,
// and otherwise registers a new one. Lookup-or-insert is a single critical
// section, so one system may be shared across goroutines.
//
// The system also holds the cross-dimension conversion factors and an index
// of explicitly named units.
type UnitSystem struct {
	name string

	mu        sync.RWMutex
	seq       uint64
	primaries map[Dimension]*PrimaryUnit
	derived   map[derivedKey]Unit
	complexes map[string]*ComplexUnit
	factors   map[Dimension]Quantity
	byName    map[string]Unit
	units     []Unit
}

// derivedKind discriminates the key shapes sharing the derived table.
type derivedKind uint8

const (
	kindDerived derivedKind = iota + 1
	kindOffset
	kindDiff
)

// derivedKey identifies a derived, offset, or diff unit. base is the primary
// unit for derived and offset keys, and the originating offset unit for diff
// keys. ratio and offset are canonical decimal strings, empty when the kind
// does not carry them.
type derivedKey struct {
	kind   derivedKind
	base   Unit
	ratio  string
	offset string
}

// NewUnitSystem returns an empty unit system.
func NewUnitSystem(name string) *UnitSystem {
	return &UnitSystem{
		name:      name,
		primaries: make(map[Dimension]*PrimaryUnit),
		derived:   make(map[derivedKey]Unit),
		complexes: make(map[string]*ComplexUnit),
		factors:   make(map[Dimension]Quantity),
		byName:    make(map[string]Unit),
	}
}

// Name returns the system's name.
func (s *UnitSystem) Name() string {
	return s.name
}

// newBase allocates the next unit identity. Callers hold s.mu.
func (s *UnitSystem) newBase() baseUnit {
	s.seq++
	return baseUnit{sys: s, id: s.seq}
}

// checkHitName enforces the naming rule when an interning lookup hits: a
// non-empty requested name must match the unit's explicit name.
func checkHitName(requested, existing string) error {
	switch {
	case requested == "" || requested == existing:
		return nil
	case existing == "":
		return fmt.Errorf("unit interned without a name, requested %q: %w", requested, ErrNameConflict)
	default:
		return fmt.Errorf("unit named %q, requested %q: %w", existing, requested, ErrNameConflict)
	}
}

// claimName indexes an explicit name for a unit about to be registered.
// Callers hold s.mu.
func (s *UnitSystem) claimName(name string, u Unit) error {
	if name == "" {
		return nil
	}
	if _, taken := s.byName[name]; taken {
		return fmt.Errorf("name %q: %w", name, ErrDuplicateName)
	}
	s.byName[name] = u
	return nil
}

// NewPrimary returns the canonical unit for dim, creating it on first call.
// Exactly one primary unit exists per dimension; a repeat call with the same
// name returns it, and a repeat call with a different name fails with
// ErrNameConflict.
func (s *UnitSystem) NewPrimary(name string, dim Dimension) (*PrimaryUnit, error) {
	if name == "" {
		return nil, fmt.Errorf("primary unit for %s needs a name: %w", dim, ErrInvalidName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.primaries[dim]; ok {
		if err := checkHitName(name, p.name); err != nil {
			return nil, fmt.Errorf("primary unit for %s: %w", dim, err)
		}
		return p, nil
	}

	p := &PrimaryUnit{name: name, dim: dim}
	if err := s.claimName(name, p); err != nil {
		return nil, err
	}
	p.baseUnit = s.newBase()
	s.primaries[dim] = p
	s.units = append(s.units, p)
	return p, nil
}

// Primary returns the interned primary unit for dim, if any.
func (s *UnitSystem) Primary(dim Dimension) (*PrimaryUnit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.primaries[dim]
	return p, ok
}

// foldBase reduces a base unit to its primary, folding derived ratios into
// ratio so stored primaries are always PrimaryUnits.
func (s *UnitSystem) foldBase(base Unit, ratio decimal.Decimal) (*PrimaryUnit, decimal.Decimal, error) {
	if base == nil {
		return nil, decimal.Decimal{}, ErrNilUnit
	}
	if base.system() != s {
		return nil, decimal.Decimal{}, fmt.Errorf("base unit %s: %w", base, ErrSystemMismatch)
	}
	if ratio.Sign() <= 0 {
		return nil, decimal.Decimal{}, fmt.Errorf("ratio %s: %w", ratio, ErrInvalidRatio)
	}

	switch b := base.(type) {
	case *PrimaryUnit:
		return b, canonical(ratio), nil
	case *DerivedUnit:
		folded, err := ratio.Mul(b.ratio)
		if err != nil {
			return nil, decimal.Decimal{}, fmt.Errorf("folding ratio through %s: %w", b, err)
		}
		return b.primary, canonical(folded), nil
	case *DiffDerivedUnit:
		folded, err := ratio.Mul(b.Ratio())
		if err != nil {
			return nil, decimal.Decimal{}, fmt.Errorf("folding ratio through %s: %w", b, err)
		}
		return b.offset.primary, canonical(folded), nil
	default:
		return nil, decimal.Decimal{}, fmt.Errorf("cannot derive from %s: %w", base, ErrInvalidBaseUnit)
	}
}

// NewDerived returns the unit worth ratio times base, interned by the
// (primary, ratio) pair after flattening base to its primary unit. base must
// be a primary, derived, or diff unit and ratio must be positive. The name
// is optional; when empty it is synthesized as "{ratio}*{primary}".
func (s *UnitSystem) NewDerived(name string, base Unit, ratio decimal.Decimal) (*DerivedUnit, error) {
	primary, folded, err := s.foldBase(base, ratio)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := derivedKey{kind: kindDerived, base: primary, ratio: folded.String()}
	if u, ok := s.derived[key]; ok {
		d := u.(*DerivedUnit)
		if err := checkHitName(name, d.explicitName()); err != nil {
			return nil, err
		}
		return d, nil
	}

	d := &DerivedUnit{primary: primary, ratio: folded}
	if name != "" {
		d.name = lazy.Of(name)
	} else {
		d.name = lazy.Deferred(func() string {
			return d.ratio.String() + "*" + d.primary.name
		})
	}
	if err := s.claimName(name, d); err != nil {
		return nil, err
	}
	d.baseUnit = s.newBase()
	s.derived[key] = d
	s.units = append(s.units, d)
	return d, nil
}

// NewDerivedFromQuantity builds a derived unit from a quantity: the value is
// the ratio and the quantity's unit is the base (1000 metres makes a
// kilometre).
func (s *UnitSystem) NewDerivedFromQuantity(name string, q Quantity) (*DerivedUnit, error) {
	if q.unit == nil {
		return nil, ErrNilUnit
	}
	return s.NewDerived(name, q.unit, q.value)
}

// NewOffset returns the affine unit with the given ratio and additive
// offset, interned by (primary, ratio, offset) after flattening base. Offset
// units are non-multiplicative; deltas on the scale use the unit's Diff
// companion.
func (s *UnitSystem) NewOffset(name string, base Unit, ratio, offset decimal.Decimal) (*OffsetDerivedUnit, error) {
	primary, folded, err := s.foldBase(base, ratio)
	if err != nil {
		return nil, err
	}
	offset = canonical(offset)

	s.mu.Lock()
	defer s.mu.Unlock()

	key := derivedKey{kind: kindOffset, base: primary, ratio: folded.String(), offset: offset.String()}
	if u, ok := s.derived[key]; ok {
		o := u.(*OffsetDerivedUnit)
		if err := checkHitName(name, o.explicitName()); err != nil {
			return nil, err
		}
		return o, nil
	}

	o := &OffsetDerivedUnit{primary: primary, ratio: folded, offset: offset}
	if name != "" {
		o.name = lazy.Of(name)
	} else {
		o.name = lazy.Deferred(func() string {
			return o.ratio.String() + "*" + o.primary.name
		})
	}
	if err := s.claimName(name, o); err != nil {
		return nil, err
	}
	o.baseUnit = s.newBase()
	s.derived[key] = o
	s.units = append(s.units, o)
	return o, nil
}

// getOrCreateDiff interns the 1:1 difference companion of an offset unit.
func (s *UnitSystem) getOrCreateDiff(o *OffsetDerivedUnit) *DiffDerivedUnit {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := derivedKey{kind: kindDiff, base: o}
	if u, ok := s.derived[key]; ok {
		return u.(*DiffDerivedUnit)
	}

	d := &DiffDerivedUnit{baseUnit: s.newBase(), offset: o}
	d.name = lazy.Deferred(func() string {
		return d.offset.Name() + "_diff"
	})
	s.derived[key] = d
	s.units = append(s.units, d)
	return d
}

// NewComplex builds (or returns the interned) composite unit from explicit
// components. The name is optional; when empty it is synthesized from the
// components. Every component must be multiplicative.
func (s *UnitSystem) NewComplex(name string, terms ...Component) (*ComplexUnit, error) {
	return s.newComplex(name, terms, decimal.One)
}

// NewComplexFromQuantity builds a composite whose scale is the quantity's
// value and whose components come from the quantity's unit (2.5 metres makes
// the unit "2.5*metre").
func (s *UnitSystem) NewComplexFromQuantity(name string, q Quantity) (*ComplexUnit, error) {
	if q.unit == nil {
		return nil, ErrNilUnit
	}
	if q.unit.system() != s {
		return nil, fmt.Errorf("quantity unit %s: %w", q.unit, ErrSystemMismatch)
	}
	return s.newComplex(name, q.unit.components(1), q.value)
}

// newComplex interns a composite unit by its ordered (component, exponent)
// sequence plus the scale when it is not exactly 1.
func (s *UnitSystem) newComplex(name string, terms []Component, scale decimal.Decimal) (*ComplexUnit, error) {
	if len(terms) == 0 {
		return nil, ErrNoComponents
	}
	if scale.Sign() <= 0 {
		return nil, fmt.Errorf("scale %s: %w", scale, ErrInvalidScale)
	}
	for _, t := range terms {
		if t.Unit == nil {
			return nil, ErrNilUnit
		}
		if t.Unit.system() != s {
			return nil, fmt.Errorf("component %s: %w", t.Unit, ErrSystemMismatch)
		}
		if !t.Unit.multiplicative() {
			return nil, fmt.Errorf("component %s: %w", t.Unit, ErrNotMultiplicative)
		}
	}
	scale = canonical(scale)

	dim, ratio, err := reduceComponents(terms, scale)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := complexKey(terms, scale)
	if c, ok := s.complexes[key]; ok {
		if err := checkHitName(name, c.explicitName()); err != nil {
			return nil, err
		}
		return c, nil
	}

	c := &ComplexUnit{
		comps: append([]Component(nil), terms...),
		scale: scale,
		dim:   dim,
		ratio: ratio,
	}
	if name != "" {
		c.name = lazy.Of(name)
	} else {
		c.name = lazy.Deferred(func() string {
			return buildComponentName(c.scale, c.comps)
		})
	}
	if err := s.claimName(name, c); err != nil {
		return nil, err
	}
	c.baseUnit = s.newBase()
	s.complexes[key] = c
	s.units = append(s.units, c)
	return c, nil
}

// complexKey encodes the ordered component identities, exponents, and scale.
func complexKey(terms []Component, scale decimal.Decimal) string {
	var b strings.Builder
	for _, t := range terms {
		b.WriteString(strconv.FormatUint(t.Unit.unitID(), 10))
		b.WriteByte('^')
		b.WriteString(strconv.Itoa(t.Power))
		b.WriteByte('|')
	}
	if scale.Cmp(decimal.One) != 0 {
		b.WriteByte('@')
		b.WriteString(scale.String())
	}
	return b.String()
}

// reduceComponents derives a composite's dimension and ratio: the product of
// every component's dimension and ratio raised to its exponent, the ratio
// additionally multiplied by scale.
func reduceComponents(terms []Component, scale decimal.Decimal) (Dimension, decimal.Decimal, error) {
	dim := Dimensionless
	ratio := scale
	for _, t := range terms {
		dim = dim.Mul(t.Unit.Dimension().Pow(t.Power))

		part, err := powDecimal(t.Unit.Ratio(), t.Power)
		if err != nil {
			return Dimension{}, decimal.Decimal{}, err
		}
		ratio, err = ratio.Mul(part)
		if err != nil {
			return Dimension{}, decimal.Decimal{}, fmt.Errorf("reducing composite ratio: %w", err)
		}
	}
	return dim, canonical(ratio), nil
}

// RegisterConversionFactor stores a cross-dimension bridge: converting a
// value from dimension D toward dimension D multiplied by the factor unit's
// dimension multiplies the value by the factor value and routes through the
// factor unit. One factor is kept per dimension quotient (last registration
// wins); inverse factors are not derived automatically.
func (s *UnitSystem) RegisterConversionFactor(factor Quantity) error {
	if factor.unit == nil {
		return ErrNilUnit
	}
	if factor.unit.system() != s {
		return fmt.Errorf("factor unit %s: %w", factor.unit, ErrSystemMismatch)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.factors[factor.unit.Dimension()] = factor
	return nil
}

// ConversionFactor returns the registered bridge for a dimension quotient.
func (s *UnitSystem) ConversionFactor(quotient Dimension) (Quantity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.factors[quotient]
	return q, ok
}

// Lookup returns the unit registered under an explicit name.
func (s *UnitSystem) Lookup(name string) (Unit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byName[name]
	return u, ok
}

// Resolve returns the unit known by name. Unlike Lookup it also resolves
// the synthesized names of diff companions: "celsius_diff" reaches (creating
// it on first access) the diff unit of the offset unit named "celsius".
func (s *UnitSystem) Resolve(name string) (Unit, bool) {
	if u, ok := s.Lookup(name); ok {
		return u, true
	}
	if base, found := strings.CutSuffix(name, "_diff"); found {
		if u, ok := s.Lookup(base); ok {
			if o, isOffset := u.(*OffsetDerivedUnit); isOffset {
				return o.Diff(), true
			}
		}
	}
	return nil, false
}

// Units returns every interned unit in registration order.
func (s *UnitSystem) Units() []Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Unit(nil), s.units...)
}

// Factors returns every registered conversion factor, ordered by dimension
// quotient.
func (s *UnitSystem) Factors() []Quantity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Quantity, 0, len(s.factors))
	for _, q := range s.factors {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].unit.Dimension().String() < out[j].unit.Dimension().String()
	})
	return out
}
