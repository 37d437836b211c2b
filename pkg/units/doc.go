// Package units implements an interned unit-of-measure algebra and
// conversion engine.
//
// A UnitSystem owns every unit it creates: the factory methods intern units
// by construction key, so two requests for the same unit return the same
// pointer and unit equality is plain ==. The hierarchy covers canonical
// (primary) units, ratio-derived units, affine offset scales with their
// difference companions, and composite units built with Mul, Div, and Pow.
//
// Values convert between units of the same dimension by routing through the
// shared primary unit, and across dimensions through conversion factors
// registered on the system. All arithmetic uses exact decimals
// (github.com/govalues/decimal); conversions never round beyond what the
// decimal operations themselves require.
package units
