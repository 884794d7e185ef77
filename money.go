package pfdigest

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an amount in a given currency, kept exact as a decimal.
type Money struct {
	value decimal.Decimal // major unit value
	cur   string
}

// M returns an amount of money in currency cur.
func M[T float64 | int | int64 | decimal.Decimal](value T, cur string) Money {
	switch v := any(value).(type) {
	case float64:
		return Money{value: decimal.NewFromFloat(v), cur: cur}
	case int:
		return Money{value: decimal.NewFromInt(int64(v)), cur: cur}
	case int64:
		return Money{value: decimal.NewFromInt(v), cur: cur}
	case decimal.Decimal:
		return Money{value: v, cur: cur}
	}
	return Money{cur: cur}
}

// ValidCurrency reports whether code is a known ISO 4217 currency.
func ValidCurrency(code string) bool { return money.GetCurrency(code) != nil }

// currency returns the full currency definition, never nil.
func (m Money) currency() money.Currency {
	return *money.New(0, m.cur).Currency()
}

// String formats the amount with the currency's symbol and fraction digits.
func (m Money) String() string {
	cur := m.currency()
	minor := m.value.Shift(int32(cur.Fraction)).RoundBank(0)
	return cur.Formatter().Format(minor.IntPart())
}

func (m Money) Currency() string           { return m.cur }
func (m Money) Decimal() decimal.Decimal   { return m.value }
func (m Money) AsFloat() float64           { return m.value.InexactFloat64() }
func (m Money) Value() Value               { return V(m.AsFloat()) }
func (m Money) IsZero() bool               { return m.value.IsZero() }
func (m Money) Neg() Money                 { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) MulRate(rate float64) Money { return Money{value: m.value.Mul(decimal.NewFromFloat(rate)), cur: m.cur} }

func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// Ratio returns m/n, None when n is zero.
func (m Money) Ratio(n Money) Value {
	cur(m, n)
	if n.value.IsZero() {
		return None
	}
	return V(m.value.Div(n.value).InexactFloat64())
}

// cur makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + " != " + b.cur)
	}
	return a.cur
}

// Percent is a percentage value, 12.5 meaning 12.5%.
type Percent float64

func (p Percent) String() string { return decimal.NewFromFloat(float64(p)).StringFixedBank(2) + "%" }

// SignedString renders p with an explicit sign, and zero as "-".
func (p Percent) SignedString() string {
	s := decimal.NewFromFloat(float64(p)).StringFixedBank(2)
	switch {
	case s == "0.00" || s == "-0.00":
		return "-"
	case p > 0:
		return "+" + s + "%"
	default:
		return s + "%"
	}
}
