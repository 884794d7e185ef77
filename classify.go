package pfdigest

import (
	"slices"
	"strings"
)

// Category is a semantic bucket a row is classified into.
type Category string

// Net-worth asset categories.
const (
	CashVal        Category = "cashVal"
	CryptoVal      Category = "cryptoVal"
	EquitiesVal    Category = "equitiesVal"
	FixedIncomeVal Category = "fixedIncomeVal"
	OtherVal       Category = "otherVal"
)

// Cashflow categories.
const (
	Deposits    Category = "deposits"
	Withdrawals Category = "withdrawals"
	Dividends   Category = "dividends"
	Interest    Category = "interest"
	Fees        Category = "fees"
	OtherFlow   Category = "other"
)

// Instrument asset classes.
const (
	ClassCash        Category = "Cash"
	ClassEquity      Category = "Equity"
	ClassFixedIncome Category = "Fixed Income"
	ClassCrypto      Category = "Crypto"
)

// Predicate reports whether a row, given as its identifying fields, matches.
type Predicate func(fields []string) bool

// AnyContains matches when any field contains keyword, case-insensitively.
func AnyContains(keyword string) Predicate {
	kw := strings.ToLower(keyword)
	return func(fields []string) bool {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), kw) {
				return true
			}
		}
		return false
	}
}

// FieldContains matches when field i contains keyword, case-insensitively.
// A missing field never matches.
func FieldContains(i int, keyword string) Predicate {
	kw := strings.ToLower(keyword)
	return func(fields []string) bool {
		return i >= 0 && i < len(fields) && strings.Contains(strings.ToLower(fields[i]), kw)
	}
}

// Equals matches when any field equals value, ignoring case and surrounding spaces.
func Equals(value string) Predicate {
	return func(fields []string) bool {
		for _, f := range fields {
			if strings.EqualFold(strings.TrimSpace(f), value) {
				return true
			}
		}
		return false
	}
}

// Rule assigns Category to the rows matched by Match.
type Rule struct {
	Match    Predicate
	Category Category
}

// Classifier maps rows to exactly one category of a closed set.
// Rules are evaluated in order and the first match wins.
type Classifier struct {
	Rules      []Rule
	Default    Category
	Categories []Category // closed set, in output order
	Excluded   []string   // summary labels that never produce observations
}

// Classify returns the category of the first matching rule, or Default.
func (c *Classifier) Classify(fields ...string) Category {
	for _, r := range c.Rules {
		if r.Match(fields) {
			return r.Category
		}
	}
	return c.Default
}

// IsExcluded reports whether label is one of the summary labels.
func (c *Classifier) IsExcluded(label string) bool {
	label = strings.TrimSpace(label)
	return slices.ContainsFunc(c.Excluded, func(x string) bool { return strings.EqualFold(x, label) })
}

// Has reports whether cat belongs to the classifier's closed set.
func (c *Classifier) Has(cat Category) bool { return slices.Contains(c.Categories, cat) }

// With returns a copy of c with rules evaluated before the existing ones.
func (c *Classifier) With(rules ...Rule) *Classifier {
	x := *c
	x.Rules = append(slices.Clone(rules), c.Rules...)
	return &x
}

// keywords builds one AnyContains rule per keyword.
func keywords(cat Category, kws ...string) []Rule {
	rules := make([]Rule, 0, len(kws))
	for _, kw := range kws {
		rules = append(rules, Rule{Match: AnyContains(kw), Category: cat})
	}
	return rules
}

// NetWorthClassifier classifies net-worth rows by asset name or description.
func NetWorthClassifier() *Classifier {
	var rules []Rule
	rules = append(rules, keywords(CashVal, "Bank accounts", "line of credit", "Savings account")...)
	rules = append(rules, keywords(EquitiesVal, "Margin", "TFSA", "RRSP", "IKBR")...)
	rules = append(rules, keywords(FixedIncomeVal, "Manulife RPP")...)
	rules = append(rules, keywords(EquitiesVal, "Wealthsimple FHSA")...)
	rules = append(rules, keywords(CryptoVal, "Phantom Wallet", "Blue Wallet", "Cryptocurrency")...)
	return &Classifier{
		Rules:      rules,
		Default:    OtherVal,
		Categories: []Category{CryptoVal, EquitiesVal, FixedIncomeVal, CashVal, OtherVal},
		Excluded:   []string{"", "Subtotal", "Total", "Net Worth", "NW YTD %", "NW YoY", "Crypto % NW"},
	}
}

// CashflowClassifier classifies transactions given as (type, description).
// Fees match on the type field only, commissions on either field.
func CashflowClassifier() *Classifier {
	var rules []Rule
	rules = append(rules, keywords(Deposits, "deposit")...)
	rules = append(rules, keywords(Withdrawals, "withdrawal")...)
	rules = append(rules, keywords(Dividends, "dividend")...)
	rules = append(rules, keywords(Interest, "interest")...)
	rules = append(rules,
		Rule{Match: AnyContains("commission"), Category: Fees},
		Rule{Match: FieldContains(0, "fee"), Category: Fees},
	)
	return &Classifier{
		Rules:      rules,
		Default:    OtherFlow,
		Categories: []Category{Deposits, Withdrawals, Dividends, Interest, Fees, OtherFlow},
	}
}

// InstrumentClassifier maps an instrument type to an asset class.
func InstrumentClassifier() *Classifier {
	var rules []Rule
	rules = append(rules, keywords(ClassCash, "cash")...)
	rules = append(rules, keywords(ClassFixedIncome, "bond", "fixed")...)
	rules = append(rules, keywords(ClassCrypto, "crypto")...)
	return &Classifier{
		Rules:      rules,
		Default:    ClassEquity,
		Categories: []Category{ClassEquity, ClassFixedIncome, ClassCash, ClassCrypto},
	}
}
