package pfdigest

import (
	"cmp"
	"slices"

	"github.com/rishirsv/pfdigest/date"
)

// CashflowRecord sums the flows of one account type over one quarter.
type CashflowRecord struct {
	Year        int
	Quarter     int
	AccountType string
	Deposits    float64
	Withdrawals float64
	Dividends   float64
	Interest    float64
	Fees        float64
	NetCashflow float64
}

type cashflowKey struct {
	quarter date.Range
	account string
}

// Cashflows groups transactions by year, quarter and account type. A
// transaction without amount counts as zero. Groups holding only
// unclassified flows still produce a zero row.
func Cashflows(txs []Transaction, s Settings) []CashflowRecord {
	groups := make(map[cashflowKey]*CashflowRecord)
	for _, tx := range txs {
		k := cashflowKey{date.NewRange(tx.Date, date.Quarterly), s.AccountType(tx.Account)}
		r, ok := groups[k]
		if !ok {
			r = &CashflowRecord{Year: k.quarter.From.Year(), Quarter: k.quarter.From.Quarter(), AccountType: k.account}
			groups[k] = r
		}
		amount := tx.Amount.Or(0)
		switch s.Cashflow.Classify(tx.Type, tx.Description) {
		case Deposits:
			r.Deposits += amount
		case Withdrawals:
			r.Withdrawals += amount
		case Dividends:
			r.Dividends += amount
		case Interest:
			r.Interest += amount
		case Fees:
			r.Fees += amount
		}
	}

	out := make([]CashflowRecord, 0, len(groups))
	for _, r := range groups {
		r.NetCashflow = r.Deposits + r.Withdrawals + r.Dividends + r.Interest + r.Fees
		out = append(out, *r)
	}
	slices.SortFunc(out, func(a, b CashflowRecord) int {
		return cmp.Or(
			cmp.Compare(a.Year, b.Year),
			cmp.Compare(a.Quarter, b.Quarter),
			cmp.Compare(a.AccountType, b.AccountType),
		)
	})
	return out
}

// CashflowTable renders cashflow records.
func CashflowTable(records []CashflowRecord) *Table {
	t := NewTable(CashflowDigest, "IBKR Cashflow Digest",
		Column{"year", KindInt},
		Column{"quarter", KindInt},
		Column{"accountType", KindText},
		Column{"deposits", KindMoney},
		Column{"withdrawals", KindMoney},
		Column{"dividends", KindMoney},
		Column{"interest", KindMoney},
		Column{"fees", KindMoney},
		Column{"netCashflow", KindMoney},
	)
	for _, r := range records {
		t.Append(
			Int(r.Year),
			Int(r.Quarter),
			Text(r.AccountType),
			Float(r.Deposits),
			Float(r.Withdrawals),
			Float(r.Dividends),
			Float(r.Interest),
			Float(r.Fees),
			Float(r.NetCashflow),
		)
	}
	return t
}
