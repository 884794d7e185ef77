package pfdigest

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rishirsv/pfdigest/ibkr"
	"github.com/rs/zerolog"
)

// PositionSection is the export section listing open positions.
const PositionSection = "Open Position Summary"

// PositionRecord is one held instrument, valued in the reporting currency.
type PositionRecord struct {
	Ticker         string
	Description    string
	Sector         string
	Currency       string
	InstrumentType string
	AssetClass     Category
	Country        string
	AccountType    string
	Quantity       float64
	MarketValue    Money   // reporting currency
	CostBasis      Money   // reporting currency
	UnrealizedPnL  float64 // native currency
	NativeCost     float64 // native currency
	FXRate         float64
	Aggregate      bool // true for TOTAL_<CLASS> rows
}

// WeightedPosition is a position with its share of the portfolio.
type WeightedPosition struct {
	PositionRecord
	Weight            float64 // percent of the portfolio total
	UnrealizedGainPct float64
	Return12m         float64
	Contribution      float64 // percentage points of the total return
}

// RankedPosition is a position of the top/bottom ranking.
type RankedPosition struct {
	Rank int
	WeightedPosition
}

// positionColumns locate the cells of a position row. The fallbacks are
// the positions in the standard PortfolioAnalyst layout.
var positionColumns = []struct {
	key      string
	fallback int
	aliases  []string
}{
	{"label", 0, []string{"Date"}},
	{"instrument", 1, []string{"FinancialInstrument", "Financial Instrument", "Instrument Type", "Asset Class"}},
	{"currency", 2, []string{"Currency"}},
	{"symbol", 3, []string{"Symbol", "Ticker"}},
	{"description", 4, []string{"Description"}},
	{"sector", 5, []string{"Sector"}},
	{"quantity", 6, []string{"Quantity"}},
	{"value", 8, []string{"Value", "Market Value", "MarketValue"}},
	{"cost", 9, []string{"Cost Basis", "CostBasis"}},
	{"pnl", 10, []string{"Unrealized P&L", "UnrealizedP&L", "Unrealized PnL"}},
	{"fx", 11, []string{"FXRateToBase", "FX Rate To Base", "FX Rate", "FXRate"}},
}

// minPositionCells is the number of cells up to the unrealized P&L.
const minPositionCells = 11

// ReadPositions extracts the open positions of an export. Total rows are
// ignored; rows that are too short are skipped and counted.
func ReadPositions(ctx context.Context, sections ibkr.Sections, s Settings) ([]PositionRecord, int, error) {
	sec := sections.Get(PositionSection)
	if sec == nil {
		return nil, 0, fmt.Errorf("%w: %q", ErrMissingSection, PositionSection)
	}
	log := zerolog.Ctx(ctx)

	var (
		records []PositionRecord
		skipped int
	)
	for _, b := range sec.Blocks {
		col := make(map[string]int, len(positionColumns))
		for _, c := range positionColumns {
			if i := b.Index(c.aliases...); i >= 0 {
				col[c.key] = i
			} else {
				col[c.key] = c.fallback
			}
		}
		for _, cells := range b.Rows {
			row := Row(cells)
			if strings.EqualFold(row.Text(col["label"]), "Total") {
				continue
			}
			if len(row) < minPositionCells {
				log.Warn().Str("section", PositionSection).Int("cells", len(row)).Msg("skipping short position row")
				skipped++
				continue
			}
			records = append(records, newPositionRecord(row, col, s))
		}
	}
	return records, skipped, nil
}

func newPositionRecord(row Row, col map[string]int, s Settings) PositionRecord {
	symbol := row.Text(col["symbol"])
	if symbol == "" {
		symbol = "CASH"
	}
	desc := row.Text(col["description"])
	if desc == "" {
		desc = symbol
	}
	sector := row.Text(col["sector"])
	if sector == "" {
		sector = "Cash"
	}
	currency := strings.ToUpper(row.Text(col["currency"]))
	fx := row.Value(col["fx"]).Or(1)
	if currency == s.ReportingCurrency {
		fx = 1
	}
	instrument := row.Text(col["instrument"])
	return PositionRecord{
		Ticker:         symbol,
		Description:    desc,
		Sector:         sector,
		Currency:       currency,
		InstrumentType: instrument,
		AssetClass:     s.Instrument.Classify(instrument),
		Country:        s.Country(currency),
		AccountType:    "All",
		Quantity:       row.Value(col["quantity"]).Or(0),
		MarketValue:    M(row.Value(col["value"]).Or(0), s.ReportingCurrency).MulRate(fx),
		CostBasis:      M(row.Value(col["cost"]).Or(0), s.ReportingCurrency).MulRate(fx),
		UnrealizedPnL:  row.Value(col["pnl"]).Or(0),
		NativeCost:     row.Value(col["cost"]).Or(0),
		FXRate:         fx,
	}
}

// Weights values each position against the portfolio total and returns
// them sorted by weight, largest first. Weights are zero when the total is
// zero, and so is the unrealized gain of a position without cost basis.
// Without per-security history the 12 month return is approximated by the
// unrealized gain.
func Weights(records []PositionRecord) []WeightedPosition {
	var total Money
	for _, r := range records {
		total = total.Add(r.MarketValue)
	}
	out := make([]WeightedPosition, len(records))
	for i, r := range records {
		w := WeightedPosition{PositionRecord: r}
		w.Weight = r.MarketValue.Ratio(total).Mul(V(100)).Or(0)
		w.UnrealizedGainPct = V(r.UnrealizedPnL).Div(V(r.NativeCost)).Mul(V(100)).Or(0)
		w.Return12m = w.UnrealizedGainPct
		w.Contribution = w.Weight * w.Return12m / 100
		out[i] = w
	}
	slices.SortStableFunc(out, func(a, b WeightedPosition) int { return cmp.Compare(b.Weight, a.Weight) })
	return out
}

// AggregateByClass returns one TOTAL_<CLASS> row per asset class, in order
// of first appearance in positions, summing market values and weights.
func AggregateByClass(positions []WeightedPosition) []WeightedPosition {
	var (
		order []Category
		sums  = map[Category]*WeightedPosition{}
	)
	for _, p := range positions {
		if p.Aggregate {
			continue
		}
		agg, ok := sums[p.AssetClass]
		if !ok {
			name := string(p.AssetClass)
			agg = &WeightedPosition{PositionRecord: PositionRecord{
				Ticker:      "TOTAL_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_")),
				Description: "Total " + name,
				Sector:      "Aggregate",
				AssetClass:  Category("Total_" + name),
				Country:     "Multiple",
				AccountType: "All",
				MarketValue: M(0, p.MarketValue.Currency()),
				Aggregate:   true,
			}}
			sums[p.AssetClass] = agg
			order = append(order, p.AssetClass)
		}
		agg.MarketValue = agg.MarketValue.Add(p.MarketValue)
		agg.Weight += p.Weight
	}
	out := make([]WeightedPosition, 0, len(order))
	for _, c := range order {
		out = append(out, *sums[c])
	}
	return out
}

// RankTopBottom keeps the top best and bottom worst positions by 12 month
// return, drops duplicate tickers keeping the first occurrence and ranks
// the union from 1.
func RankTopBottom(positions []WeightedPosition, top, bottom int) []RankedPosition {
	byReturn := func(a, b WeightedPosition) int { return cmp.Compare(a.Return12m, b.Return12m) }

	desc := slices.Clone(positions)
	slices.SortStableFunc(desc, func(a, b WeightedPosition) int { return byReturn(b, a) })
	asc := slices.Clone(positions)
	slices.SortStableFunc(asc, byReturn)

	top, bottom = min(max(top, 0), len(desc)), min(max(bottom, 0), len(asc))
	candidates := append(desc[:top:top], asc[:bottom]...)

	seen := make(map[string]bool, len(candidates))
	out := make([]RankedPosition, 0, len(candidates))
	for _, p := range candidates {
		if seen[p.Ticker] {
			continue
		}
		seen[p.Ticker] = true
		out = append(out, RankedPosition{Rank: len(out) + 1, WeightedPosition: p})
	}
	return out
}
