package pfdigest

import (
	"slices"

	"github.com/rishirsv/pfdigest/date"
)

// Observation is one categorized value of one row at one date.
type Observation struct {
	Date     date.Date
	Category Category
	Value    float64
}

// PeriodRow holds the per-category totals of a single period. Every
// category of the closed set is present, zero-filled.
type PeriodRow struct {
	Date   date.Date
	Values map[Category]float64
	Total  float64
}

// Aggregate groups observations into one PeriodRow per distinct date, in
// ascending order. Values sharing a (date, category) pair are summed and
// observations of a category outside categories are dropped.
func Aggregate(categories []Category, obs []Observation) []PeriodRow {
	series := make(map[Category]*date.History[float64], len(categories))
	histories := make([]*date.History[float64], 0, len(categories))
	for _, c := range categories {
		h := new(date.History[float64])
		series[c] = h
		histories = append(histories, h)
	}
	for _, o := range obs {
		if h, ok := series[o.Category]; ok {
			h.AppendAdd(o.Date, o.Value)
		}
	}

	var rows []PeriodRow
	for on := range date.Iterate(histories...) {
		row := PeriodRow{Date: on, Values: make(map[Category]float64, len(categories))}
		for _, c := range categories {
			v, _ := series[c].Get(on)
			row.Values[c] = v
			row.Total += v
		}
		rows = append(rows, row)
	}
	return rows
}

// SortRows sorts rows in ascending chronological order, in place.
func SortRows(rows []PeriodRow) {
	slices.SortStableFunc(rows, func(a, b PeriodRow) int { return a.Date.Compare(b.Date) })
}

// Totals returns the Total of each row as a defined Value series.
func Totals(rows []PeriodRow) []Value {
	out := make([]Value, len(rows))
	for i, r := range rows {
		out[i] = V(r.Total)
	}
	return out
}

// CategorySeries returns the values of one category as a defined Value
// series. Rows missing the category count as zero.
func CategorySeries(rows []PeriodRow, c Category) []Value {
	out := make([]Value, len(rows))
	for i, r := range rows {
		out[i] = V(r.Values[c])
	}
	return out
}
