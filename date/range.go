package date

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// NewRange returns the calendar period containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

