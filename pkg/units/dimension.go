package units

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Dimension identifies what kind of quantity a unit measures (length, time,
// price, ...) independent of any scale. It is a pure value type: equality is
// structural, values are usable as map keys, and the zero value is the
// dimensionless Dimension.
//
// Internally a Dimension is a canonical signature of sorted base^exponent
// terms, so equal dimensions always compare equal with ==.
type Dimension struct {
	sig string
}

// Dimensionless is the empty dimension, the zero value of Dimension.
var Dimensionless = Dimension{}

// dimTerm is one base dimension and its exponent within a signature.
type dimTerm struct {
	base string
	exp  int
}

// NewDimension returns the base dimension with the given name. Names must be
// non-empty and free of the signature separators '*', '^', '/', and
// whitespace.
func NewDimension(name string) (Dimension, error) {
	if name == "" {
		return Dimension{}, fmt.Errorf("empty dimension name: %w", ErrInvalidDimension)
	}
	if strings.ContainsAny(name, "*^/ \t\r\n") {
		return Dimension{}, fmt.Errorf("dimension name %q contains reserved characters: %w", name, ErrInvalidDimension)
	}
	return Dimension{sig: name}, nil
}

// MustDimension is NewDimension that panics on error.
func MustDimension(name string) Dimension {
	d, err := NewDimension(name)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDimension parses a canonical signature back into a Dimension: base
// names joined by '*', each optionally raised with '^' and an integer
// exponent. "1" and the empty string parse as Dimensionless.
func ParseDimension(s string) (Dimension, error) {
	if s == "" || s == "1" {
		return Dimensionless, nil
	}

	d := Dimensionless
	for _, part := range strings.Split(s, "*") {
		base, expStr, found := strings.Cut(part, "^")
		exp := 1
		if found {
			var err error
			exp, err = strconv.Atoi(expStr)
			if err != nil {
				return Dimension{}, fmt.Errorf("dimension term %q: %w", part, ErrInvalidDimension)
			}
		}
		b, err := NewDimension(base)
		if err != nil {
			return Dimension{}, err
		}
		d = d.Mul(b.Pow(exp))
	}
	return d, nil
}

// terms decodes the signature into its (base, exponent) list.
func (d Dimension) terms() []dimTerm {
	if d.sig == "" {
		return nil
	}
	parts := strings.Split(d.sig, "*")
	ts := make([]dimTerm, 0, len(parts))
	for _, p := range parts {
		base, expStr, found := strings.Cut(p, "^")
		exp := 1
		if found {
			exp, _ = strconv.Atoi(expStr)
		}
		ts = append(ts, dimTerm{base: base, exp: exp})
	}
	return ts
}

// encodeTerms builds the canonical signature: zero exponents dropped, terms
// sorted by base name, exponent 1 printed bare.
func encodeTerms(ts []dimTerm) Dimension {
	kept := make([]dimTerm, 0, len(ts))
	for _, t := range ts {
		if t.exp != 0 {
			kept = append(kept, t)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].base < kept[j].base })

	var b strings.Builder
	for i, t := range kept {
		if i > 0 {
			b.WriteByte('*')
		}
		b.WriteString(t.base)
		if t.exp != 1 {
			b.WriteByte('^')
			b.WriteString(strconv.Itoa(t.exp))
		}
	}
	return Dimension{sig: b.String()}
}

// mergeDimTerms folds src exponents, scaled by mult, into dst by base name.
func mergeDimTerms(dst, src []dimTerm, mult int) []dimTerm {
	for _, s := range src {
		merged := false
		for i := range dst {
			if dst[i].base == s.base {
				dst[i].exp += s.exp * mult
				merged = true
				break
			}
		}
		if !merged {
			dst = append(dst, dimTerm{base: s.base, exp: s.exp * mult})
		}
	}
	return dst
}

// Mul returns the product of two dimensions.
func (d Dimension) Mul(o Dimension) Dimension {
	return encodeTerms(mergeDimTerms(d.terms(), o.terms(), 1))
}

// Div returns the quotient of two dimensions.
func (d Dimension) Div(o Dimension) Dimension {
	return encodeTerms(mergeDimTerms(d.terms(), o.terms(), -1))
}

// Pow returns the dimension raised to an integer power. Pow(0) is
// Dimensionless.
func (d Dimension) Pow(n int) Dimension {
	ts := d.terms()
	for i := range ts {
		ts[i].exp *= n
	}
	return encodeTerms(ts)
}

// IsDimensionless reports whether d is the empty dimension.
func (d Dimension) IsDimensionless() bool {
	return d.sig == ""
}

// String renders the canonical signature. The dimensionless Dimension
// renders as "1".
func (d Dimension) String() string {
	if d.sig == "" {
		return "1"
	}
	return d.sig
}
