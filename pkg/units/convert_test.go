// Unit tests for conversion routing: same-dimension paths through the shared
// primary unit, offset arithmetic, and cross-dimension factor bridging.
package units

import (
	"testing"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertSameDimension(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		from  Unit
		to    Unit
		value string
		want  string
	}{
		{"derived to primary", f.kilometre, f.metre, "2", "2000"},
		{"primary to derived", f.metre, f.kilometre, "2000", "2"},
		{"derived to derived through the primary", f.hour, f.minute, "3", "180"},
		{"derived to derived scaling down", f.centimetre, f.kilometre, "200000", "2"},
		{"fractional values", f.kilometre, f.metre, "0.5", "500"},
		{"offset to primary", f.celsius, f.kelvin, "0", "273.15"},
		{"primary to offset", f.kelvin, f.celsius, "273.15", "0"},
		{"offset boiling point", f.celsius, f.kelvin, "100", "373.15"},
		{"negative offset values", f.celsius, f.kelvin, "-40", "233.15"},
		{"diff to primary uses ratio only", f.celsius.Diff(), f.kelvin, "5", "5"},
		{"primary to diff", f.kelvin, f.celsius.Diff(), "5", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Convert(decimal.MustParse(tt.value), tt.to)
			require.NoError(t, err)
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestConvertIdentity(t *testing.T) {
	f := newFixture(t)

	v := decimal.MustParse("123.456")
	got, err := f.kilometre.Convert(v, f.kilometre)
	require.NoError(t, err)
	assert.Equal(t, v, got, "identity conversion returns the value untouched")
}

func TestConvertRoundTrip(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		a, b  Unit
		value string
	}{
		{"metre and kilometre", f.metre, f.kilometre, "123.456"},
		{"celsius and kelvin", f.celsius, f.kelvin, "36.6"},
		{"minute and hour", f.minute, f.hour, "90"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := decimal.MustParse(tt.value)
			there, err := tt.a.Convert(v, tt.b)
			require.NoError(t, err)
			back, err := tt.b.Convert(there, tt.a)
			require.NoError(t, err)
			assertDecimal(t, tt.value, back)
		})
	}
}

func TestConvertOffsetFromDerived(t *testing.T) {
	f := newFixture(t)

	// 0.1 decakelvin = 1 kelvin = -272.15 celsius.
	deca, err := f.sys.NewDerived("decakelvin", f.kelvin, decimal.MustParse("10"))
	require.NoError(t, err)

	got, err := deca.Convert(decimal.MustParse("0.1"), f.celsius)
	require.NoError(t, err)
	assertDecimal(t, "-272.15", got)
}

func TestConvertComplex(t *testing.T) {
	f := newFixture(t)

	mps, err := Div(f.metre, f.second)
	require.NoError(t, err)
	cmps, err := Div(f.centimetre, f.second)
	require.NoError(t, err)

	t.Run("complex to complex scales by the ratio quotient", func(t *testing.T) {
		got, err := mps.Convert(decimal.MustParse("2"), cmps)
		require.NoError(t, err)
		assertDecimal(t, "200", got)
	})

	t.Run("complex to a named scaled composite", func(t *testing.T) {
		area, err := Mul(f.metre, f.metre)
		require.NoError(t, err)
		hectare, err := f.sys.NewComplexFromQuantity("hectare", mustQuantity(t, "10000", area))
		require.NoError(t, err)

		got, err := area.Convert(decimal.MustParse("25000"), hectare)
		require.NoError(t, err)
		assertDecimal(t, "2.5", got)
	})
}

func TestConvertCrossDimension(t *testing.T) {
	f := newFixture(t)

	usdPerKg, err := Div(f.usd, f.kilogram)
	require.NoError(t, err)
	require.NoError(t, f.sys.RegisterConversionFactor(mustQuantity(t, "3", usdPerKg)))

	t.Run("factor bridges mass to price", func(t *testing.T) {
		got, err := f.kilogram.Convert(decimal.MustParse("10"), f.usd)
		require.NoError(t, err)
		assertDecimal(t, "30", got)
	})

	t.Run("factor applies after same-dimension scaling", func(t *testing.T) {
		// 2000 grams = 2 kilograms = 6 usd.
		got, err := f.gram.Convert(decimal.MustParse("2000"), f.usd)
		require.NoError(t, err)
		assertDecimal(t, "6", got)
	})

	t.Run("missing factor fails with both units named", func(t *testing.T) {
		_, err := f.metre.Convert(decimal.MustParse("1"), f.second)
		require.ErrorIs(t, err, ErrNoConversionFactor)
		assert.Contains(t, err.Error(), "metre")
		assert.Contains(t, err.Error(), "second")
	})
}

func TestConvertGuards(t *testing.T) {
	f := newFixture(t)

	t.Run("nil target", func(t *testing.T) {
		_, err := f.metre.Convert(decimal.One, nil)
		assert.ErrorIs(t, err, ErrNilUnit)
	})

	t.Run("units from different systems never mix", func(t *testing.T) {
		other := NewUnitSystem("imperial")
		foot, err := other.NewPrimary("foot", MustDimension("length"))
		require.NoError(t, err)

		_, err = f.metre.Convert(decimal.One, foot)
		assert.ErrorIs(t, err, ErrSystemMismatch)
	})

	t.Run("primary conversion to an unrelated unit panics", func(t *testing.T) {
		wrapped, err := Pow(f.metre, 1)
		require.NoError(t, err)

		assert.Panics(t, func() {
			_, _ = f.metre.Convert(decimal.One, wrapped)
		})
	})
}

func mustQuantity(t *testing.T, value string, u Unit) Quantity {
	t.Helper()
	q, err := NewQuantity(decimal.MustParse(value), u)
	require.NoError(t, err)
	return q
}
