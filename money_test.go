package pfdigest

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		in   Money
		want string
	}{
		{M(1234.5, "USD"), "$1,234.50"},
		{M(10, "CAD"), "$10.00"},
		{M(-3.456, "USD"), "-$3.46"},
		{M(decimal.RequireFromString("0.125"), "USD"), "$0.12"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.in.String(); got != tc.want {
				t.Errorf("Money.String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	a := M(100, "CAD")
	if got := a.Add(M(0.5, "CAD")).AsFloat(); got != 100.5 {
		t.Errorf("Add() = %v, want 100.5", got)
	}
	if got := a.MulRate(1.35).AsFloat(); got != 135 {
		t.Errorf("MulRate(1.35) = %v, want 135", got)
	}
	if got := M(25, "CAD").Ratio(a); got != V(0.25) {
		t.Errorf("Ratio() = %v, want 0.25", got)
	}
	if got := a.Ratio(M(0, "CAD")); got.Valid() {
		t.Errorf("Ratio(0) = %v, want None", got)
	}
	if got := a.Add(Money{}).Currency(); got != "CAD" {
		t.Errorf("Add(zero).Currency() = %q, want CAD", got)
	}
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Add() with mismatched currencies did not panic")
		}
	}()
	M(1, "CAD").Add(M(1, "USD"))
}

func TestValidCurrency(t *testing.T) {
	for code, want := range map[string]bool{"CAD": true, "USD": true, "EUR": true, "XXZ": false, "": false} {
		if got := ValidCurrency(code); got != want {
			t.Errorf("ValidCurrency(%q) = %v, want %v", code, got, want)
		}
	}
}

func TestPercent(t *testing.T) {
	testCases := []struct {
		in           Percent
		want, signed string
	}{
		{12.345, "12.34%", "+12.34%"},
		{-0.5, "-0.50%", "-0.50%"},
		{0, "0.00%", "-"},
	}
	for _, tc := range testCases {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("Percent(%v).String() = %q, want %q", float64(tc.in), got, tc.want)
		}
		if got := tc.in.SignedString(); got != tc.signed {
			t.Errorf("Percent(%v).SignedString() = %q, want %q", float64(tc.in), got, tc.signed)
		}
	}
}
