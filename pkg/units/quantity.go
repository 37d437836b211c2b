package units

import (
	"github.com/govalues/decimal"
)

// Quantity pairs a numeric value with the unit it is measured in. The zero
// Quantity has no unit and is not usable; construct through NewQuantity.
type Quantity struct {
	value decimal.Decimal
	unit  Unit
}

// NewQuantity returns value measured in unit.
func NewQuantity(value decimal.Decimal, unit Unit) (Quantity, error) {
	if unit == nil {
		return Quantity{}, ErrNilUnit
	}
	return Quantity{value: value, unit: unit}, nil
}

// Value returns the numeric magnitude.
func (q Quantity) Value() decimal.Decimal { return q.value }

// Unit returns the unit of measure.
func (q Quantity) Unit() Unit { return q.unit }

// To re-expresses the quantity in another unit.
func (q Quantity) To(to Unit) (Quantity, error) {
	if q.unit == nil {
		return Quantity{}, ErrNilUnit
	}
	out, err := q.unit.Convert(q.value, to)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{value: out, unit: to}, nil
}

// String renders "value unit", e.g. "2.5 kilometre".
func (q Quantity) String() string {
	if q.unit == nil {
		return q.value.String()
	}
	return q.value.String() + " " + q.unit.Name()
}
