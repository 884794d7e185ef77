package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rishirsv/pfdigest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pfd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	s := c.Settings()
	want := pfdigest.DefaultSettings()
	assert.Equal(t, want.ReportingCurrency, s.ReportingCurrency)
	assert.Equal(t, want.Risk, s.Risk)
	assert.Equal(t, want.PortfolioAccount, s.PortfolioAccount)
	assert.Equal(t, want.BenchmarkAccount, s.BenchmarkAccount)
	assert.Equal(t, want.Top, s.Top)
	assert.Equal(t, want.Bottom, s.Bottom)
	assert.Equal(t, want.MilestoneStep, s.MilestoneStep)
	assert.Equal(t, want.AccountTypes, s.AccountTypes)
	assert.Equal(t, want.Countries, s.Countries)
	assert.Equal(t, want.DefaultCountry, s.DefaultCountry)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "portfolio.csv", c.Sources().Portfolio)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
inputs:
  portfolio: data/pa.csv
reporting_currency: usd
risk:
  risk_free_rate: 0.04
ranking:
  top: 5
countries:
  usd: United States
account_types:
  Joint: Joint
  joint: ignored
rules:
  - classifier: networth
    keyword: Kraken
    category: cryptoVal
  - classifier: cashflow
    keyword: rebate
    field: 0
    category: fees
`)
	t.Setenv("PFD_OUTPUT_DIR", "out")
	t.Setenv("PFD_MILESTONE_STEP", "50000")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data/pa.csv", c.Inputs.Portfolio)
	assert.Equal(t, "transactions.csv", c.Inputs.Transactions)
	assert.Equal(t, "USD", c.ReportingCurrency)
	assert.Equal(t, "out", c.OutputDir)

	s := c.Settings()
	assert.Equal(t, 0.04, s.Risk.RiskFreeRate)
	assert.Equal(t, 12, s.Risk.PeriodsPerYear)
	assert.Equal(t, 5, s.Top)
	assert.Equal(t, 10, s.Bottom)
	assert.Equal(t, 50000.0, s.MilestoneStep)
	assert.Equal(t, "Canada", s.Country("cad"))
	assert.Equal(t, "United States", s.Country("USD"))
	assert.Equal(t, "Joint", s.AccountType("JOINT"))
	assert.Equal(t, "Margin", s.AccountType("margin"), "defaults are kept")

	assert.Equal(t, pfdigest.CryptoVal, s.NetWorth.Classify("Kraken", ""))
	assert.Equal(t, pfdigest.Fees, s.Cashflow.Classify("Rebate", ""))
	assert.Equal(t, pfdigest.OtherFlow, s.Cashflow.Classify("Transfer", "rebate"))
	assert.Equal(t, pfdigest.OtherVal, pfdigest.DefaultSettings().NetWorth.Classify("Kraken", ""), "defaults are not modified")
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{"bad yaml", "ranking: [", nil},
		{"unknown currency", "reporting_currency: XYZ", nil},
		{"negative top", "ranking:\n  top: -1", nil},
		{"bad log level", "log:\n  level: loud", nil},
		{"unknown classifier", "rules:\n  - classifier: x\n    keyword: a\n    category: fees", nil},
		{"foreign category", "rules:\n  - classifier: cashflow\n    keyword: a\n    category: cryptoVal", nil},
		{"bad env rate", "", map[string]string{"PFD_RISK_FREE_RATE": "lots"}},
		{"env rate out of range", "", map[string]string{"PFD_RISK_FREE_RATE": "2"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_NoFile(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "CAD", c.ReportingCurrency)
}
