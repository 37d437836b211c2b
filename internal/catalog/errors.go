package catalog

import "errors"

var (
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("catalog is closed")

	// ErrUnitNotFound is returned when no unit with the requested name exists.
	ErrUnitNotFound = errors.New("unit not found")

	// ErrUnitExists is returned when defining a unit under a taken name.
	ErrUnitExists = errors.New("unit already defined")

	// ErrUnitInUse is returned when deleting a unit that other definitions
	// reference.
	ErrUnitInUse = errors.New("unit is referenced by other definitions")

	// ErrInvalidRecord is returned when a persisted definition cannot be
	// interpreted.
	ErrInvalidRecord = errors.New("invalid unit record")

	// ErrUnresolvable is returned when persisted definitions reference units
	// that cannot be built in any order.
	ErrUnresolvable = errors.New("unit definitions cannot be resolved")
)
