// Package pfdigest turns broker and personal-finance CSV exports into
// normalized digest tables.
//
// Three exports are understood:
//   - an Interactive Brokers PortfolioAnalyst report (see package ibkr),
//     which feeds the performance, allocation and position digests;
//   - a transaction history, which feeds the quarterly cashflow digest;
//   - a wide net-worth sheet with one column per month, which feeds the
//     net-worth digest.
//
// Raw cells are normalized into optional values (see [Value]) and rows are
// mapped to categories by ordered rule lists (see [Classifier]). Monthly
// series are accumulated per category (see [Aggregate]) before the derived
// metrics are computed: period returns, rolling deviation, regression
// alpha and beta, Sharpe and Sortino ratios, drawdowns and milestones.
//
// Every digest is returned as a [Table], the only shape handed to the
// writers in encode.go and encode_xlsx.go.
package pfdigest

import "errors"

var (
	// ErrMissingInput is returned when an input export does not exist.
	ErrMissingInput = errors.New("missing input file")
	// ErrMissingSection is returned when a required section of an export is absent.
	ErrMissingSection = errors.New("missing section")
)
