// Package config loads the pfd configuration: a YAML file, an optional
// .env file and PFD_* environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rishirsv/pfdigest"
)

// Config is the full configuration of a run.
type Config struct {
	Inputs struct {
		Portfolio    string `yaml:"portfolio" default:"portfolio.csv"`
		Transactions string `yaml:"transactions" default:"transactions.csv"`
		NetWorth     string `yaml:"networth" default:"networth.csv"`
	} `yaml:"inputs"`
	OutputDir         string `yaml:"output_dir" default:"." validate:"required"`
	ReportingCurrency string `yaml:"reporting_currency" default:"CAD" validate:"required,len=3,currency"`

	Risk struct {
		RiskFreeRate   float64 `yaml:"risk_free_rate" default:"0.03" validate:"gte=0,lt=1"`
		PeriodsPerYear int     `yaml:"periods_per_year" default:"12" validate:"gt=0"`
	} `yaml:"risk"`
	Accounts struct {
		Portfolio string `yaml:"portfolio" default:"Consolidated" validate:"required"`
		Benchmark string `yaml:"benchmark" default:"SPXTR" validate:"required"`
	} `yaml:"accounts"`
	Ranking struct {
		Top    int `yaml:"top" default:"25" validate:"gte=0"`
		Bottom int `yaml:"bottom" default:"10" validate:"gte=0"`
	} `yaml:"ranking"`
	MilestoneStep  float64           `yaml:"milestone_step" default:"100000" validate:"gt=0"`
	AccountTypes   map[string]string `yaml:"account_types" default:"{\"TFSA\":\"TFSA\",\"RRSP\":\"RRSP\",\"Margin\":\"Margin\"}"`
	Countries      map[string]string `yaml:"countries" default:"{\"CAD\":\"Canada\"}"`
	DefaultCountry string            `yaml:"default_country" default:"United States" validate:"required"`
	Rules          []Rule            `yaml:"rules" validate:"dive"`

	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stderr"`
	} `yaml:"log"`
	Narrator struct {
		Model string `yaml:"model" default:"gemini-2.5-pro" validate:"required"`
	} `yaml:"narrator"`
	Archive string `yaml:"archive"`
}

// Rule is an extra classification rule, evaluated before the built-in ones.
type Rule struct {
	Classifier string `yaml:"classifier" validate:"oneof=networth cashflow instrument"`
	Keyword    string `yaml:"keyword" validate:"required"`
	Field      *int   `yaml:"field" validate:"omitempty,gte=0"` // restricts the match to one field
	Category   string `yaml:"category" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return pfdigest.ValidCurrency(fl.Field().String())
	})
	return v
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &c
}

// Load reads the configuration. An empty path uses the defaults. A .env
// file in the working directory, if present, is loaded into the process
// environment before the PFD_* overrides are applied.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// applyEnv overrides the configuration with PFD_* variables.
func (c *Config) applyEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"PFD_PORTFOLIO":          &c.Inputs.Portfolio,
		"PFD_TRANSACTIONS":       &c.Inputs.Transactions,
		"PFD_NETWORTH":           &c.Inputs.NetWorth,
		"PFD_OUTPUT_DIR":         &c.OutputDir,
		"PFD_REPORTING_CURRENCY": &c.ReportingCurrency,
		"PFD_PORTFOLIO_ACCOUNT":  &c.Accounts.Portfolio,
		"PFD_BENCHMARK_ACCOUNT":  &c.Accounts.Benchmark,
		"PFD_LOG_LEVEL":          &c.Log.Level,
		"PFD_LOG_FORMAT":         &c.Log.Format,
		"PFD_NARRATOR_MODEL":     &c.Narrator.Model,
		"PFD_ARCHIVE":            &c.Archive,
	}
	for k, p := range strs {
		if v := getenv(k); v != "" {
			*p = v
		}
	}
	if v := getenv("PFD_RISK_FREE_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PFD_RISK_FREE_RATE: %w", err)
		}
		c.Risk.RiskFreeRate = f
	}
	if v := getenv("PFD_MILESTONE_STEP"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PFD_MILESTONE_STEP: %w", err)
		}
		c.MilestoneStep = f
	}
	return nil
}

// Validate checks field constraints and that every extra rule targets a
// category of its classifier.
func (c *Config) Validate() error {
	c.ReportingCurrency = strings.ToUpper(c.ReportingCurrency)
	if err := validate.Struct(c); err != nil {
		return err
	}
	s := pfdigest.DefaultSettings()
	for i, r := range c.Rules {
		if cl := classifier(&s, r.Classifier); !cl.Has(pfdigest.Category(r.Category)) {
			return fmt.Errorf("rules[%d]: category %q is not one of %v", i, r.Category, cl.Categories)
		}
	}
	return nil
}

// Settings returns the assembler settings described by c.
func (c *Config) Settings() pfdigest.Settings {
	s := pfdigest.DefaultSettings()
	s.ReportingCurrency = c.ReportingCurrency
	s.Risk = pfdigest.RiskParams{RiskFreeRate: c.Risk.RiskFreeRate, PeriodsPerYear: c.Risk.PeriodsPerYear}
	s.PortfolioAccount = c.Accounts.Portfolio
	s.BenchmarkAccount = c.Accounts.Benchmark
	s.Top, s.Bottom = c.Ranking.Top, c.Ranking.Bottom
	s.MilestoneStep = c.MilestoneStep
	s.AccountTypes = pfdigest.UpperKeys(c.AccountTypes)
	s.Countries = pfdigest.UpperKeys(c.Countries)
	s.DefaultCountry = c.DefaultCountry

	extra := map[string][]pfdigest.Rule{}
	for _, r := range c.Rules {
		match := pfdigest.AnyContains(r.Keyword)
		if r.Field != nil {
			match = pfdigest.FieldContains(*r.Field, r.Keyword)
		}
		extra[r.Classifier] = append(extra[r.Classifier], pfdigest.Rule{Match: match, Category: pfdigest.Category(r.Category)})
	}
	for name, rules := range extra {
		p := classifier(&s, name)
		*p = *p.With(rules...)
	}
	return s
}

// Sources returns the input paths.
func (c *Config) Sources() pfdigest.Sources {
	return pfdigest.Sources{
		Portfolio:    c.Inputs.Portfolio,
		Transactions: c.Inputs.Transactions,
		NetWorth:     c.Inputs.NetWorth,
	}
}

func classifier(s *pfdigest.Settings, name string) *pfdigest.Classifier {
	switch name {
	case "cashflow":
		return s.Cashflow
	case "instrument":
		return s.Instrument
	default:
		return s.NetWorth
	}
}
