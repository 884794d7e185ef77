package pfdigest

import "testing"

func TestSettings_AccountType(t *testing.T) {
	s := DefaultSettings()
	testCases := map[string]string{
		"TFSA":     "TFSA",
		" tfsa ":   "TFSA",
		"RRSP":     "RRSP",
		"margin":   "Margin",
		"U1234567": "Other",
		"":         "Other",
	}
	for in, want := range testCases {
		if got := s.AccountType(in); got != want {
			t.Errorf("AccountType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSettings_Country(t *testing.T) {
	s := DefaultSettings()
	testCases := map[string]string{
		"CAD": "Canada",
		"cad": "Canada",
		"USD": "United States",
		"EUR": "United States",
	}
	for in, want := range testCases {
		if got := s.Country(in); got != want {
			t.Errorf("Country(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUpperKeys(t *testing.T) {
	in := map[string]string{"margin": "lower", "Margin": "title", "MARGIN": "upper", " tfsa ": "TFSA"}
	// map order varies between runs, the winner must not.
	for range 20 {
		got := UpperKeys(in)
		if len(got) != 2 || got["MARGIN"] != "upper" || got["TFSA"] != "TFSA" {
			t.Fatalf("UpperKeys(%v) = %v, want map[MARGIN:upper TFSA:TFSA]", in, got)
		}
	}
}

func TestSettings_AccountTypeCaseCollision(t *testing.T) {
	s := DefaultSettings()
	s.AccountTypes = UpperKeys(map[string]string{"rrsp": "Retirement", "RRSP": "RRSP"})
	for range 20 {
		if got := s.AccountType("Rrsp"); got != "RRSP" {
			t.Fatalf("AccountType(%q) = %q, want %q", "Rrsp", got, "RRSP")
		}
	}
}
