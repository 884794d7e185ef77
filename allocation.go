package pfdigest

// AllocationTable lists every position by weight, followed by one
// aggregate row per asset class.
func AllocationTable(records []PositionRecord, s Settings) *Table {
	t := NewTable(AllocationDigest, "IBKR Allocation Digest",
		Column{"ticker", KindText},
		Column{"securityName", KindText},
		Column{"sector", KindText},
		Column{"accountType", KindText},
		Column{s.marketValueColumn(), KindMoney},
		Column{"weight_pct", KindRatio},
		Column{"unrealized_gain_pct", KindRatio},
		Column{"dividendYield", KindRatio},
		Column{"country", KindText},
		Column{"assetClass", KindText},
	)
	ws := Weights(records)
	for _, w := range append(ws, AggregateByClass(ws)...) {
		gain := Float(w.UnrealizedGainPct)
		if w.Aggregate {
			gain = Blank()
		}
		t.Append(
			Text(w.Ticker),
			Text(w.Description),
			Text(w.Sector),
			Text(w.AccountType),
			Num(w.MarketValue.Value()),
			Float(w.Weight),
			gain,
			Blank(), // not available in the export
			Text(w.Country),
			Text(string(w.AssetClass)),
		)
	}
	return t
}

// PositionTable lists the best and worst positions by 12 month return.
func PositionTable(records []PositionRecord, s Settings) *Table {
	t := NewTable(PositionDigest, "IBKR Position Digest",
		Column{"rank", KindInt},
		Column{"ticker", KindText},
		Column{"securityName", KindText},
		Column{"accountType", KindText},
		Column{s.marketValueColumn(), KindMoney},
		Column{"weight_pct", KindRatio},
		Column{"12m_return_pct", KindRatio},
		Column{"unrealized_gain_pct", KindRatio},
		Column{"contribution_to_total_return_pct", KindRatio},
	)
	for _, r := range RankTopBottom(Weights(records), s.Top, s.Bottom) {
		t.Append(
			Int(r.Rank),
			Text(r.Ticker),
			Text(r.Description),
			Text(r.AccountType),
			Num(r.MarketValue.Value()),
			Float(r.Weight),
			Float(r.Return12m),
			Float(r.UnrealizedGainPct),
			Float(r.Contribution),
		)
	}
	return t
}
