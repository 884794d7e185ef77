package pfdigest

import (
	"maps"
	"slices"
	"strings"
)

// Settings are the knobs of the digest assemblers.
type Settings struct {
	ReportingCurrency string
	Risk              RiskParams
	PortfolioAccount  string // account id of the portfolio in the benchmark comparison
	BenchmarkAccount  string
	Top, Bottom       int
	MilestoneStep     float64
	AccountTypes      map[string]string // upper-cased transaction account to account type
	Countries         map[string]string // upper-cased position currency to country
	DefaultCountry    string

	NetWorth   *Classifier
	Cashflow   *Classifier
	Instrument *Classifier
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		ReportingCurrency: "CAD",
		Risk:              DefaultRiskParams,
		PortfolioAccount:  "Consolidated",
		BenchmarkAccount:  "SPXTR",
		Top:               25,
		Bottom:            10,
		MilestoneStep:     100000,
		AccountTypes:      map[string]string{"TFSA": "TFSA", "RRSP": "RRSP", "MARGIN": "Margin"},
		Countries:         map[string]string{"CAD": "Canada"},
		DefaultCountry:    "United States",
		NetWorth:          NetWorthClassifier(),
		Cashflow:          CashflowClassifier(),
		Instrument:        InstrumentClassifier(),
	}
}

// AccountType maps a raw account label to its account type, "Other" when unknown.
func (s Settings) AccountType(account string) string {
	if t, ok := s.AccountTypes[strings.ToUpper(strings.TrimSpace(account))]; ok {
		return t
	}
	return "Other"
}

// Country returns the country of a position's currency.
func (s Settings) Country(currency string) string {
	if c, ok := s.Countries[strings.ToUpper(strings.TrimSpace(currency))]; ok {
		return c
	}
	return s.DefaultCountry
}

// UpperKeys returns m with upper-cased keys, as AccountTypes and Countries
// expect them. When keys differ only by case, the one sorting first wins,
// so an upper-case spelling is preferred.
func UpperKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		u := strings.ToUpper(strings.TrimSpace(k))
		if _, ok := out[u]; !ok {
			out[u] = m[k]
		}
	}
	return out
}

// marketValueColumn is the name of the market value column in the reporting currency.
func (s Settings) marketValueColumn() string { return "marketValue_" + s.ReportingCurrency }
