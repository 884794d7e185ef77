package pfdigest

import (
	"context"
	"fmt"
	"slices"

	"github.com/rishirsv/pfdigest/date"
	"github.com/rishirsv/pfdigest/ibkr"
	"github.com/rs/zerolog"
)

// Sections of the export used by the performance digest.
const (
	BenchmarkSection = "Historical Performance Benchmark Comparison"
	StatsSection     = "Key Statistics"
)

// Horizon is a reporting window of the benchmark comparison.
type Horizon struct {
	Label string // column label in the export
	Short string // label in the digest
	Long  bool   // one year or more, carries the risk statistics
}

// Horizons in digest order.
var Horizons = []Horizon{
	{"MTD", "MTD", false},
	{"QTD", "QTD", false},
	{"YTD", "YTD", false},
	{"1 Year", "1Y", true},
	{"3 Year", "3Y", true},
	{"5 Year", "5Y", true},
	{"10 Year", "10Y", true},
	{"Since Inception", "ITD", true},
}

// MonthlyReturn is one month of the benchmark comparison, as fractions.
type MonthlyReturn struct {
	Month     date.Date
	Portfolio Value
	Benchmark Value
}

// PerformanceInput is what the performance digest reads from an export.
type PerformanceInput struct {
	Portfolio map[string]Value // horizon label to return, in percent
	Benchmark map[string]Value
	Monthly   []MonthlyReturn
	EndingNAV Value
}

// PerformancePeriodRecord is one horizon of the performance digest.
// Risk is only set on horizons of one year or more.
type PerformancePeriodRecord struct {
	Period         string
	NavStart       Value
	NavEnd         Value
	Return         Value // percent
	Benchmark      Value // percent
	Outperformance Value // percentage points
	Risk           RiskStats
}

// ReadPerformance extracts the period returns, the monthly history and the
// ending NAV of an export.
func ReadPerformance(ctx context.Context, sections ibkr.Sections, s Settings) (PerformanceInput, error) {
	in := PerformanceInput{Portfolio: map[string]Value{}, Benchmark: map[string]Value{}}
	sec := sections.Get(BenchmarkSection)
	if sec == nil {
		return in, fmt.Errorf("%w: %q", ErrMissingSection, BenchmarkSection)
	}
	log := zerolog.Ctx(ctx)

	if b := sec.Find("MTD"); b != nil {
		account := max(b.Index("Account", "Benchmark", "Name"), 0)
		for _, cells := range b.Rows {
			row := Row(cells)
			var target map[string]Value
			switch row.Text(account) {
			case s.PortfolioAccount:
				target = in.Portfolio
			case s.BenchmarkAccount:
				target = in.Benchmark
			default:
				continue
			}
			for _, h := range Horizons {
				if i := b.Index(h.Label, h.Short); i >= 0 && i < len(row) {
					target[h.Label] = row.Value(i)
				}
			}
		}
	} else {
		log.Warn().Str("section", BenchmarkSection).Msg("no period table found")
	}

	for _, b := range sec.Blocks {
		bench := b.Index(s.BenchmarkAccount)
		if bench < 0 {
			bench = 2
		}
		port := b.Index(s.PortfolioAccount)
		for _, cells := range b.Rows {
			row := Row(cells)
			on, err := date.ParseMonth(row.Text(0))
			if err != nil {
				continue
			}
			p := port
			if p < 0 {
				p = len(row) - 1
			}
			in.Monthly = append(in.Monthly, MonthlyReturn{
				Month:     on,
				Portfolio: row.Value(p).Div(V(100)),
				Benchmark: row.Value(bench).Div(V(100)),
			})
		}
	}
	slices.SortStableFunc(in.Monthly, func(a, b MonthlyReturn) int { return a.Month.Compare(b.Month) })

	if st := sections.Get(StatsSection); st != nil {
		for _, b := range st.Blocks {
			if i := b.Index("EndingNAV", "Ending NAV"); i >= 0 {
				for _, cells := range b.Rows {
					in.EndingNAV = Row(cells).Value(i)
				}
			}
		}
	}
	if !in.EndingNAV.Valid() {
		log.Warn().Str("section", StatsSection).Msg("no ending NAV found")
	}
	return in, nil
}

// Performance builds one record per horizon present for both the portfolio
// and the benchmark. The risk statistics are computed once from the whole
// monthly history and copied onto every horizon of one year or more.
func Performance(in PerformanceInput, s Settings) []PerformancePeriodRecord {
	monthly := slices.Clone(in.Monthly)
	slices.SortStableFunc(monthly, func(a, b MonthlyReturn) int { return a.Month.Compare(b.Month) })
	returns := make([]Value, len(monthly))
	bench := make([]Value, len(monthly))
	for i, m := range monthly {
		returns[i], bench[i] = m.Portfolio, m.Benchmark
	}
	risk := NewRiskStats(returns, bench, s.Risk)

	var out []PerformancePeriodRecord
	for _, h := range Horizons {
		ret, ok := in.Portfolio[h.Label]
		if !ok {
			continue
		}
		spy, ok := in.Benchmark[h.Label]
		if !ok {
			continue
		}
		r := PerformancePeriodRecord{
			Period:         h.Short,
			NavEnd:         in.EndingNAV,
			NavStart:       in.EndingNAV.Div(V(1).Add(ret.Div(V(100)))),
			Return:         ret,
			Benchmark:      spy,
			Outperformance: ret.Sub(spy),
		}
		if h.Long {
			r.Risk = risk
		}
		out = append(out, r)
	}
	return out
}

// PerformanceTable renders performance records.
func PerformanceTable(records []PerformancePeriodRecord) *Table {
	t := NewTable(PerformanceDigest, "IBKR Performance Digest",
		Column{"period", KindText},
		Column{"navStart", KindMoney},
		Column{"navEnd", KindMoney},
		Column{"return_pct", KindRatio},
		Column{"alpha_vs_SPY", KindRatio},
		Column{"beta_vs_SPY", KindRatio},
		Column{"sharpe", KindRatio},
		Column{"sortino", KindRatio},
		Column{"stdev", KindRatio},
		Column{"max_drawdown_pct", KindRatio},
		Column{"benchmark_SPY_return", KindRatio},
		Column{"outperformance_pct", KindRatio},
	)
	for _, r := range records {
		t.Append(
			Text(r.Period),
			Num(r.NavStart),
			Num(r.NavEnd),
			Num(r.Return),
			Num(r.Risk.Alpha),
			Num(r.Risk.Beta),
			Num(r.Risk.Sharpe),
			Num(r.Risk.Sortino),
			Num(r.Risk.StdDev),
			Num(r.Risk.MaxDrawdown),
			Num(r.Benchmark),
			Num(r.Outperformance),
		)
	}
	return t
}
