package pfdigest

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Kind tells how a column is rounded and rendered.
type Kind int

const (
	KindText  Kind = iota
	KindInt        // whole numbers, e.g. year and rank
	KindBool       // True/False
	KindMoney      // currency amounts, 2 decimals
	KindRatio      // ratios and percentages, 4 decimals
)

// places returns the rounding precision of numeric kinds.
func (k Kind) places() int32 {
	if k == KindMoney {
		return 2
	}
	return 4
}

// Column is a named, typed digest column.
type Column struct {
	Name string
	Kind Kind
}

type cellKind int

const (
	cellBlank cellKind = iota
	cellText
	cellInt
	cellBool
	cellNum
)

// Cell is a single digest value: a string, an integer, a bool, a Value or blank.
type Cell struct {
	kind cellKind
	s    string
	i    int
	b    bool
	v    Value
}

func Text(s string) Cell   { return Cell{kind: cellText, s: s} }
func Int(i int) Cell       { return Cell{kind: cellInt, i: i} }
func Bool(b bool) Cell     { return Cell{kind: cellBool, b: b} }
func Num(v Value) Cell     { return Cell{kind: cellNum, v: v} }
func Float(f float64) Cell { return Num(V(f)) }
func Blank() Cell          { return Cell{} }

// Value returns the numeric value of the cell, None for non numeric cells.
func (c Cell) Value() Value {
	switch c.kind {
	case cellNum:
		return c.v
	case cellInt:
		return V(float64(c.i))
	default:
		return None
	}
}

// IsTrue reports whether the cell is a true bool.
func (c Cell) IsTrue() bool { return c.kind == cellBool && c.b }

// String renders the cell the way it is written to CSV: None and blanks
// are empty, bools are True/False.
func (c Cell) String() string {
	switch c.kind {
	case cellText:
		return c.s
	case cellInt:
		return strconv.Itoa(c.i)
	case cellBool:
		if c.b {
			return "True"
		}
		return "False"
	case cellNum:
		f, ok := c.v.Get()
		if !ok {
			return ""
		}
		return decimal.NewFromFloat(f).String()
	default:
		return ""
	}
}

func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case cellText:
		return json.Marshal(c.s)
	case cellInt:
		return json.Marshal(c.i)
	case cellBool:
		return json.Marshal(c.b)
	case cellNum:
		if f, ok := c.v.Get(); ok {
			return json.Marshal(f)
		}
	}
	return []byte("null"), nil
}

// Round rounds v to places decimals with banker's rounding on its decimal
// representation. Rounding an already rounded value is a no-op.
func Round(v Value, places int32) Value {
	f, ok := v.Get()
	if !ok {
		return None
	}
	return V(decimal.NewFromFloat(f).RoundBank(places).InexactFloat64())
}

// Table is a named digest: typed columns and rows of cells.
type Table struct {
	Name    string
	Title   string
	Columns []Column
	Rows    [][]Cell
	Skipped int // malformed input rows ignored while building
}

// NewTable returns an empty table.
func NewTable(name, title string, columns ...Column) *Table {
	return &Table{Name: name, Title: title, Columns: columns}
}

// Append adds a row, rounding numeric cells to their column precision.
// It panics when the number of cells does not match the columns.
func (t *Table) Append(cells ...Cell) *Table {
	if len(cells) != len(t.Columns) {
		panic(fmt.Sprintf("table %s: got %d cells, want %d", t.Name, len(cells), len(t.Columns)))
	}
	row := make([]Cell, len(cells))
	for i, c := range cells {
		if k := t.Columns[i].Kind; c.kind == cellNum && (k == KindMoney || k == KindRatio) {
			c.v = Round(c.v, k.places())
		}
		row[i] = c
	}
	t.Rows = append(t.Rows, row)
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Header returns the column names.
func (t *Table) Header() []string {
	h := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		h[i] = c.Name
	}
	return h
}

// Col returns the index of the named column, or -1.
func (t *Table) Col(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Get returns the cell of row i in the named column, blank if absent.
func (t *Table) Get(i int, name string) Cell {
	j := t.Col(name)
	if i < 0 || i >= len(t.Rows) || j < 0 {
		return Blank()
	}
	return t.Rows[i][j]
}

// Records returns the header followed by every row rendered as text.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Header())
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, c := range row {
			rec[i] = c.String()
		}
		out = append(out, rec)
	}
	return out
}

// MarshalJSON encodes the table with each row as an object whose fields
// follow the column order.
func (t *Table) MarshalJSON() ([]byte, error) {
	rows := make([]json.RawMessage, 0, len(t.Rows))
	for _, row := range t.Rows {
		var w jsonObjectWriter
		for i, c := range row {
			w.Append(t.Columns[i].Name, c)
		}
		raw, err := w.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Name, err)
		}
		rows = append(rows, raw)
	}
	var w jsonObjectWriter
	w.Append("name", t.Name)
	w.Append("title", t.Title)
	w.Append("columns", t.Header())
	w.Optional("skipped", t.Skipped)
	w.Append("rows", rows)
	return w.MarshalJSON()
}
