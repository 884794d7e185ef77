package pfdigest

import (
	"context"
	"strings"

	"github.com/rishirsv/pfdigest/date"
	"github.com/rs/zerolog"
)

// Layout of a net-worth sheet.
const (
	netWorthHeaderRow = 1 // row holding the Mon//YY period tokens
	netWorthFirstRow  = 3 // first asset row
	netWorthMaxLabels = 3 // leading cells searched for name and description
)

// NetWorthRecord is one month of the net-worth digest.
type NetWorthRecord struct {
	PeriodRow
	CryptoPct         Value
	MoM               Value
	YoY               Value
	Rolling12mReturn  Value
	Rolling12mStdDev  Value
	MaxDrawdownToDate Value
	Milestone         bool
}

// NetWorthObservations unpivots a wide net-worth sheet into one
// observation per asset and month. Summary rows are excluded and blank or
// unreadable cells contribute nothing.
func NetWorthObservations(ctx context.Context, grid [][]string, c *Classifier) []Observation {
	if len(grid) <= netWorthHeaderRow {
		return nil
	}
	log := zerolog.Ctx(ctx)

	type period struct {
		col int
		on  date.Date
	}
	var periods []period
	for i, cell := range grid[netWorthHeaderRow] {
		if !strings.Contains(cell, "//") {
			continue
		}
		on, err := date.ParseMonthToken(cell)
		if err != nil {
			log.Warn().Str("token", cell).Err(err).Msg("ignoring period column")
			continue
		}
		periods = append(periods, period{i, on})
	}
	if len(periods) == 0 {
		log.Warn().Msg("no period column found in net worth sheet")
		return nil
	}
	labels := min(periods[0].col, netWorthMaxLabels)

	var obs []Observation
	for _, cells := range grid[min(netWorthFirstRow, len(grid)):] {
		row := Row(cells)
		var name, desc string
		for i := 0; i < labels; i++ {
			if v := row.Text(i); v != "" {
				if name == "" {
					name = v
				} else if desc == "" {
					desc = v
				}
			}
		}
		if name == "" || c.IsExcluded(name) {
			continue
		}
		cat := c.Classify(name, desc)
		for _, p := range periods {
			if v, ok := row.Value(p.col).Get(); ok {
				obs = append(obs, Observation{Date: p.on, Category: cat, Value: v})
			}
		}
	}
	return obs
}

// NetWorth derives the monthly metrics of aggregated rows: crypto share,
// month and year over year changes, rolling 12 month deviation, drawdown
// and milestone crossings.
func NetWorth(rows []PeriodRow, s Settings) []NetWorthRecord {
	SortRows(rows)
	totals := Totals(rows)
	mom := PctChange(totals, 1)
	yoy := PctChange(totals, 12)
	stdev := RollingStdDev(mom, 12)
	mdd := MaxDrawdownToDate(Drawdowns(mom))
	milestones := Milestones(totals, s.MilestoneStep)
	cryptos := CategorySeries(rows, CryptoVal)

	out := make([]NetWorthRecord, len(rows))
	for i, r := range rows {
		crypto := cryptos[i].Div(totals[i])
		if r.Total == 0 {
			crypto = V(0)
		}
		out[i] = NetWorthRecord{
			PeriodRow:         r,
			CryptoPct:         crypto,
			MoM:               mom[i],
			YoY:               yoy[i],
			Rolling12mReturn:  yoy[i],
			Rolling12mStdDev:  stdev[i],
			MaxDrawdownToDate: mdd[i],
			Milestone:         milestones[i],
		}
	}
	return out
}

// NetWorthTable renders net-worth records.
func NetWorthTable(records []NetWorthRecord) *Table {
	t := NewTable(NetWorthDigest, "Net Worth Digest",
		Column{"date", KindText},
		Column{"totalNW", KindMoney},
		Column{"cryptoVal", KindMoney},
		Column{"cryptoPct", KindRatio},
		Column{"equitiesVal", KindMoney},
		Column{"fixedIncomeVal", KindMoney},
		Column{"cashVal", KindMoney},
		Column{"otherVal", KindMoney},
		Column{"MoM_pct", KindRatio},
		Column{"YoY_pct", KindRatio},
		Column{"rolling_12m_return", KindRatio},
		Column{"rolling_12m_stdev", KindRatio},
		Column{"max_drawdown_to_date", KindRatio},
		Column{"milestone_flag", KindBool},
	)
	for _, r := range records {
		t.Append(
			Text(r.Date.String()),
			Float(r.Total),
			Float(r.Values[CryptoVal]),
			Num(r.CryptoPct),
			Float(r.Values[EquitiesVal]),
			Float(r.Values[FixedIncomeVal]),
			Float(r.Values[CashVal]),
			Float(r.Values[OtherVal]),
			Num(r.MoM),
			Num(r.YoY),
			Num(r.Rolling12mReturn),
			Num(r.Rolling12mStdDev),
			Num(r.MaxDrawdownToDate),
			Bool(r.Milestone),
		)
	}
	return t
}
