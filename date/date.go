// Package date provides a day-granularity Date type and a chronological
// History accumulator used to build monthly and quarterly series.
package date

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02"

// readFormats are the permissive layouts accepted by Parse, tried in order.
var readFormats = []string{
	"2006-1-2",
	"2006/1/2",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"20060102",
	"1/2/2006",
	"Jan 2, 2006",
	"2-Jan-2006",
}

// Date represents a date with day-level granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// Quarter returns the calendar quarter (1 to 4) of the date.
func (d Date) Quarter() int { return int(d.m-1)/3 + 1 }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after x.
func (d Date) Compare(x Date) int { return d.time().Compare(x.time()) }

// AddMonths returns the date n months later, normalized.
func (d Date) AddMonths(n int) Date { return New(d.y, d.m+time.Month(n), d.d) }

// String format the date in its standard format.
func (d Date) String() string { return d.time().Format(DateFormat) }

// Format formats the date using a time layout.
func (d Date) Format(layout string) string { return d.time().Format(layout) }

// StartOf returns the first day of the period containing d.
func (d Date) StartOf(p Period) Date {
	switch p {
	case Monthly:
		return New(d.y, d.m, 1)
	case Quarterly:
		return New(d.y, time.Month((d.Quarter()-1)*3+1), 1)
	default:
		return d
	}
}

// EndOf returns the last day of the period containing d.
func (d Date) EndOf(p Period) Date {
	switch p {
	case Monthly:
		return New(d.y, d.m+1, 0)
	case Quarterly:
		return New(d.y, time.Month(d.Quarter()*3+1), 0)
	default:
		return d
	}
}

// Parse parses a Date from a string. It is lenient and accepts formats like
// "2025-7-1", "2025/07/01", "20250701" or "7/1/2025".
func Parse(str string) (Date, error) {
	str = strings.TrimSpace(str)
	for _, layout := range readFormats {
		if on, err := time.Parse(layout, str); err == nil {
			return New(on.Date()), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q want format %q", str, DateFormat)
}

// ParseMonth parses a month label such as "202401", "2024-01" or "2024/1"
// into the first day of that month. A full date is accepted too and maps
// to the first day of its month.
func ParseMonth(str string) (Date, error) {
	s := strings.TrimSpace(str)
	if d, ok := parseYearMonth(s); ok {
		return d, nil
	}
	if d, err := Parse(s); err == nil {
		return d.StartOf(Monthly), nil
	}
	return Date{}, fmt.Errorf("invalid month %q want format YYYYMM or YYYY-MM", str)
}

func parseYearMonth(s string) (Date, bool) {
	var ys, ms string
	switch {
	case len(s) == 6 && !strings.ContainsAny(s, "-/"):
		ys, ms = s[:4], s[4:]
	case len(s) >= 6 && len(s) <= 7 && (s[4] == '-' || s[4] == '/'):
		ys, ms = s[:4], s[5:]
	default:
		return Date{}, false
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return Date{}, false
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 1 || m > 12 {
		return Date{}, false
	}
	return New(y, time.Month(m), 1), true
}

var monthAbbr = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseMonthToken parses the compact "Mon//YY" period token used by
// net-worth exports (e.g. "Jul//18") into the first day of that month.
// An unknown month abbreviation maps to January and a two digit year is
// read in the 2000s.
func ParseMonthToken(tok string) (Date, error) {
	mon, yr, ok := strings.Cut(strings.TrimSpace(tok), "//")
	if !ok {
		return Date{}, fmt.Errorf("invalid period token %q want format Mon//YY", tok)
	}
	if len(yr) == 2 {
		yr = "20" + yr
	}
	y, err := strconv.Atoi(yr)
	if err != nil {
		return Date{}, fmt.Errorf("invalid period token %q: %w", tok, err)
	}
	m, ok := monthAbbr[strings.ToLower(strings.TrimSpace(mon))]
	if !ok {
		m = time.January
	}
	return New(y, m, 1), nil
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	v, err := Parse(str)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	str := d.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
