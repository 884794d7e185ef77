package pfdigest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rishirsv/pfdigest/ibkr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const positionsExport = `Open Position Summary,MetaInfo,Open Position Summary
Open Position Summary,Header,Date,FinancialInstrument,Currency,Symbol,Description,Sector,Quantity,ClosePrice,Value,CostBasis,UnrealizedP&L,FXRateToBase
Open Position Summary,Data,2025-06-30,Stocks,USD,AAPL,Apple Inc,Technology,10,200,"2,000",1500,500,1.35
Open Position Summary,Data,2025-06-30,Stocks,CAD,RY,Royal Bank,Financials,20,150,3000,3000,0,
Open Position Summary,Data,2025-06-30,Bonds,USD,TLT,,,5,90,450,500,-50,1.35
Open Position Summary,Data,2025-06-30,Cash,CAD,,,,1000,1,1000,0,0,1
Open Position Summary,Data,Total,,,,,,,,"6,450",,,
Open Position Summary,Data,2025-06-30,Stocks,USD,BAD
`

func readTestPositions(t *testing.T) ([]PositionRecord, int) {
	t.Helper()
	ss, err := ibkr.Parse(strings.NewReader(positionsExport))
	require.NoError(t, err)
	recs, skipped, err := ReadPositions(context.Background(), ss, DefaultSettings())
	require.NoError(t, err)
	return recs, skipped
}

func TestReadPositions(t *testing.T) {
	recs, skipped := readTestPositions(t)
	require.Len(t, recs, 4)
	assert.Equal(t, 1, skipped)

	aapl := recs[0]
	assert.Equal(t, "AAPL", aapl.Ticker)
	assert.Equal(t, ClassEquity, aapl.AssetClass)
	assert.Equal(t, "United States", aapl.Country)
	assert.InDelta(t, 2700.0, aapl.MarketValue.AsFloat(), 1e-9)
	assert.InDelta(t, 2025.0, aapl.CostBasis.AsFloat(), 1e-9)
	assert.Equal(t, "CAD", aapl.MarketValue.Currency())

	ry := recs[1]
	assert.Equal(t, 1.0, ry.FXRate, "fx is forced to 1 for the reporting currency")
	assert.Equal(t, "Canada", ry.Country)

	tlt := recs[2]
	assert.Equal(t, "TLT", tlt.Description, "description falls back to the symbol")
	assert.Equal(t, "Cash", tlt.Sector, "sector falls back to Cash")
	assert.Equal(t, ClassFixedIncome, tlt.AssetClass)

	cash := recs[3]
	assert.Equal(t, "CASH", cash.Ticker)
	assert.Equal(t, ClassCash, cash.AssetClass)
}

func TestReadPositions_MissingSection(t *testing.T) {
	_, _, err := ReadPositions(context.Background(), ibkr.Sections{}, DefaultSettings())
	assert.ErrorIs(t, err, ErrMissingSection)
}

func TestWeights(t *testing.T) {
	recs, _ := readTestPositions(t)
	ws := Weights(recs)
	require.Len(t, ws, 4)

	// 3000 + 2700 + 1000 + 607.5 = 7307.5, sorted by weight.
	assert.Equal(t, []string{"RY", "AAPL", "CASH", "TLT"}, tickers(ws))
	assert.InDelta(t, 3000/7307.5*100, ws[0].Weight, 1e-9)

	var sum float64
	for _, w := range ws {
		sum += w.Weight
	}
	assert.InDelta(t, 100, sum, 1e-9)

	aapl := ws[1]
	assert.InDelta(t, 500.0/1500*100, aapl.UnrealizedGainPct, 1e-9)
	assert.Equal(t, aapl.UnrealizedGainPct, aapl.Return12m)
	assert.InDelta(t, aapl.Weight*aapl.Return12m/100, aapl.Contribution, 1e-12)

	assert.Equal(t, 0.0, ws[2].UnrealizedGainPct, "zero cost basis gives a zero gain")
}

func TestWeights_ZeroTotal(t *testing.T) {
	ws := Weights([]PositionRecord{
		{Ticker: "A", MarketValue: M(0, "CAD")},
		{Ticker: "B", MarketValue: M(0, "CAD")},
	})
	for _, w := range ws {
		assert.Equal(t, 0.0, w.Weight, "weight of %s", w.Ticker)
	}
}

func TestAggregateByClass(t *testing.T) {
	recs, _ := readTestPositions(t)
	ws := Weights(recs)
	aggs := AggregateByClass(ws)

	require.Len(t, aggs, 3)
	assert.Equal(t, []string{"TOTAL_EQUITY", "TOTAL_CASH", "TOTAL_FIXED_INCOME"}, tickers(aggs))

	eq := aggs[0]
	assert.True(t, eq.Aggregate)
	assert.Equal(t, "Total Equity", eq.Description)
	assert.Equal(t, "Aggregate", eq.Sector)
	assert.Equal(t, "Multiple", eq.Country)
	assert.Equal(t, Category("Total_Equity"), eq.AssetClass)
	assert.InDelta(t, 5700.0, eq.MarketValue.AsFloat(), 1e-9)

	var sum float64
	for _, a := range aggs {
		sum += a.Weight
	}
	assert.InDelta(t, 100, sum, 1e-9, "aggregate weights sum to 100")
}

func TestRankTopBottom(t *testing.T) {
	testCases := []struct {
		n, top, bottom int
		want           int
	}{
		{30, 25, 10, 30},
		{40, 25, 10, 35},
		{5, 25, 10, 5},
		{0, 25, 10, 0},
		{12, 3, 2, 5},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("n=%d", tc.n), func(t *testing.T) {
			ps := make([]WeightedPosition, tc.n)
			for i := range ps {
				ps[i].Ticker = fmt.Sprintf("T%02d", i)
				ps[i].Return12m = float64((i*7)%tc.n) - 3
			}
			got := RankTopBottom(ps, tc.top, tc.bottom)
			require.Len(t, got, tc.want)

			seen := map[string]bool{}
			for i, r := range got {
				assert.Equal(t, i+1, r.Rank)
				assert.False(t, seen[r.Ticker], "duplicate ticker %s", r.Ticker)
				seen[r.Ticker] = true
			}
			if len(got) > 1 {
				assert.GreaterOrEqual(t, got[0].Return12m, got[1].Return12m, "best return first")
			}
		})
	}
}

func TestRankTopBottom_StableTies(t *testing.T) {
	ps := []WeightedPosition{
		{PositionRecord: PositionRecord{Ticker: "A"}, Return12m: 1},
		{PositionRecord: PositionRecord{Ticker: "B"}, Return12m: 1},
		{PositionRecord: PositionRecord{Ticker: "C"}, Return12m: 5},
	}
	got := RankTopBottom(ps, 2, 2)
	var names []string
	for _, r := range got {
		names = append(names, r.Ticker)
	}
	assert.Equal(t, []string{"C", "A", "B"}, names)
}

func tickers(ws []WeightedPosition) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Ticker
	}
	return out
}
