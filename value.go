package pfdigest

import (
	"math"
	"strconv"
	"strings"
)

// Value is an optional float64. The zero Value is None, which is distinct
// from an explicit zero: sums skip it and ratios involving it are None.
type Value struct {
	f  float64
	ok bool
}

// None is the undefined Value.
var None = Value{}

// V returns a defined Value, or None for NaN and infinities.
func V(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return None
	}
	return Value{f: f, ok: true}
}

// Get returns the float and whether it is defined.
func (v Value) Get() (float64, bool) { return v.f, v.ok }

// Valid reports whether v is defined.
func (v Value) Valid() bool { return v.ok }

// Or returns the float, or def when v is None.
func (v Value) Or(def float64) float64 {
	if !v.ok {
		return def
	}
	return v.f
}

// String renders None as an empty string.
func (v Value) String() string {
	if !v.ok {
		return ""
	}
	return strconv.FormatFloat(v.f, 'f', -1, 64)
}

// Add returns v+w, None if either is None.
func (v Value) Add(w Value) Value {
	if !v.ok || !w.ok {
		return None
	}
	return V(v.f + w.f)
}

// Sub returns v-w, None if either is None.
func (v Value) Sub(w Value) Value {
	if !v.ok || !w.ok {
		return None
	}
	return V(v.f - w.f)
}

// Mul returns v*w, None if either is None.
func (v Value) Mul(w Value) Value {
	if !v.ok || !w.ok {
		return None
	}
	return V(v.f * w.f)
}

// Div returns v/w, None if either is None or w is zero.
func (v Value) Div(w Value) Value {
	if !v.ok || !w.ok || w.f == 0 {
		return None
	}
	return V(v.f / w.f)
}

// Sum adds the defined values, skipping None. The result is None only when
// no value is defined.
func Sum(values ...Value) Value {
	var (
		s  float64
		ok bool
	)
	for _, v := range values {
		if v.ok {
			s += v.f
			ok = true
		}
	}
	if !ok {
		return None
	}
	return V(s)
}

// Defined returns the floats of the defined values, in order.
func Defined(values []Value) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v.ok {
			out = append(out, v.f)
		}
	}
	return out
}

// blanks are cell contents that carry no value.
var blanks = map[string]bool{"": true, "-": true, "nan": true, "NaN": true}

// ParseValue normalizes a raw export cell into a Value.
//
// Surrounding whitespace and quotes are trimmed and thousands separators
// removed; "(1,234.56)" reads as -1234.56. Blanks ("", "-", "nan", "NaN")
// and anything that fails to parse are None.
func ParseValue(raw string) Value {
	s := strings.Trim(strings.TrimSpace(raw), `"'`)
	s = strings.TrimSpace(s)
	if blanks[s] {
		return None
	}
	s = strings.ReplaceAll(s, ",", "")
	if len(s) > 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.TrimSpace(s[1:len(s)-1])
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return None
	}
	return V(f)
}

// ParseValueOr is like ParseValue but returns def for None.
func ParseValueOr(raw string, def float64) float64 {
	return ParseValue(raw).Or(def)
}

// Row is a raw record of text cells.
type Row []string

// Text returns the trimmed cell i, or "" when the row is too short.
func (r Row) Text(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

// Value returns cell i normalized by ParseValue; a missing cell is None.
func (r Row) Value(i int) Value {
	if i < 0 || i >= len(r) {
		return None
	}
	return ParseValue(r[i])
}
