package units

import "errors"

// Standard errors returned by unit construction and conversion.
var (
	// ErrNilUnit indicates a nil unit operand in the public API.
	ErrNilUnit = errors.New("nil unit")

	// ErrNotMultiplicative indicates an offset unit used in algebraic
	// composition. Offset scales have no meaningful product or power; use
	// the unit's Diff companion instead.
	ErrNotMultiplicative = errors.New("unit is not multiplicative")

	// ErrSystemMismatch indicates an operation mixing units owned by
	// different unit systems.
	ErrSystemMismatch = errors.New("units belong to different unit systems")

	// ErrInvalidName indicates an empty or malformed unit name where an
	// explicit name is required.
	ErrInvalidName = errors.New("invalid unit name")

	// ErrInvalidDimension indicates an empty or malformed dimension name.
	ErrInvalidDimension = errors.New("invalid dimension name")

	// ErrNameConflict indicates a construction call that hit an interned
	// unit but requested a different name for it.
	ErrNameConflict = errors.New("conflicting name for interned unit")

	// ErrDuplicateName indicates an explicit name already registered for a
	// different unit in the same system.
	ErrDuplicateName = errors.New("unit name already registered")

	// ErrInvalidRatio indicates a zero or negative ratio.
	ErrInvalidRatio = errors.New("ratio must be positive")

	// ErrInvalidScale indicates a zero or negative composite scale.
	ErrInvalidScale = errors.New("scale must be positive")

	// ErrInvalidBaseUnit indicates a derived or offset unit constructed on
	// a base that cannot be reduced to a primary unit.
	ErrInvalidBaseUnit = errors.New("invalid base unit")

	// ErrNoComponents indicates a composite unit constructed with no
	// components.
	ErrNoComponents = errors.New("composite unit has no components")

	// ErrNoConversionFactor indicates a cross-dimension conversion with no
	// registered factor for the dimension quotient. This is the one
	// conversion failure callers are expected to handle.
	ErrNoConversionFactor = errors.New("no conversion factor registered")
)
