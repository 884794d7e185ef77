package pfdigest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// EncodeXLSX writes a run as a workbook with one sheet per digest, named
// after the digest. Each sheet starts with the column header.
func EncodeXLSX(w io.Writer, r *Run) error {
	f := excelize.NewFile()
	defer f.Close()

	if len(r.Digests) == 0 {
		return fmt.Errorf("run %s has no digest", r.ID)
	}
	for i, t := range r.Digests {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), t.Name); err != nil {
				return fmt.Errorf("naming sheet %s: %w", t.Name, err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", t.Name, err)
		}
		if err := writeSheet(f, t); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Portfolio digests",
		Created: r.Generated.UTC().Format("2006-01-02T15:04:05Z"),
	}); err != nil {
		return fmt.Errorf("setting workbook properties: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// WriteXLSX writes the workbook of a run to path.
func WriteXLSX(path string, r *Run) error {
	return writeAtomic(path, func(w io.Writer) error { return EncodeXLSX(w, r) })
}

func writeSheet(f *excelize.File, t *Table) error {
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return fmt.Errorf("writing header of %s: %w", t.Name, err)
	}
	for i, row := range t.Rows {
		values := make([]any, len(row))
		for j, c := range row {
			values[j] = c.sheetValue()
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.Name, cell, &values); err != nil {
			return fmt.Errorf("writing row %d of %s: %w", i+1, t.Name, err)
		}
	}
	return nil
}

// sheetValue is the typed value stored in a workbook cell; nil leaves it empty.
func (c Cell) sheetValue() any {
	switch c.kind {
	case cellText:
		return c.s
	case cellInt:
		return c.i
	case cellBool:
		return c.b
	case cellNum:
		if f, ok := c.v.Get(); ok {
			return f
		}
	}
	return nil
}
