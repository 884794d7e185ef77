// Package ibkr splits an Interactive Brokers PortfolioAnalyst CSV export into
// named sections of header/data blocks.
//
// Every line of such an export starts with the section name and a row type:
//
//	Key Statistics,MetaInfo,...
//	Key Statistics,Header,BeginningNAV,EndingNAV,...
//	Key Statistics,Data,100000,123456,...
//
// A MetaInfo row starts a section, a Header row starts a block inside the
// current section and Data rows attach to the latest header.
package ibkr

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row types of an export line.
const (
	MetaInfo = "MetaInfo"
	Header   = "Header"
	Data     = "Data"
)

// Block is a header row and the data rows that follow it.
type Block struct {
	Header []string
	Rows   [][]string
}

// normalize folds case and drops spaces so that "Cost Basis" matches "CostBasis".
func normalize(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// Index returns the position of the first header cell matching any of the
// names, compared case-insensitively and ignoring spaces, or -1.
func (b *Block) Index(names ...string) int {
	for _, n := range names {
		n = normalize(n)
		for i, h := range b.Header {
			if normalize(h) == n {
				return i
			}
		}
	}
	return -1
}

// Has reports whether the header contains a cell matching name.
func (b *Block) Has(name string) bool { return b.Index(name) >= 0 }

// Section is a named part of the export.
type Section struct {
	Name   string
	Blocks []*Block
}

// Find returns the first block whose header contains every name, or nil.
func (s *Section) Find(names ...string) *Block {
	for _, b := range s.Blocks {
		ok := true
		for _, n := range names {
			ok = ok && b.Has(n)
		}
		if ok {
			return b
		}
	}
	return nil
}

// Rows returns the data rows of every block, in file order.
func (s *Section) Rows() [][]string {
	var rows [][]string
	for _, b := range s.Blocks {
		rows = append(rows, b.Rows...)
	}
	return rows
}

// Sections maps section names to their content.
type Sections map[string]*Section

// Get returns the named section, or nil.
func (ss Sections) Get(name string) *Section { return ss[name] }

// Parse reads a whole export. Lines with fewer than two cells and data rows
// without a preceding header are ignored.
func Parse(r io.Reader) (Sections, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	sections := make(Sections)
	var (
		current *Section
		block   *Block
	)
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading export line %d: %w", line, err)
		}
		if len(record) < 2 {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(record[0], "\ufeff"))
		kind := strings.TrimSpace(record[1])
		cells := make([]string, len(record)-2)
		for i, c := range record[2:] {
			cells[i] = strings.TrimSpace(c)
		}

		if kind == MetaInfo || current == nil || current.Name != name {
			current = sections[name]
			if current == nil {
				current = &Section{Name: name}
				sections[name] = current
			}
			block = nil
		}
		switch kind {
		case Header:
			block = &Block{Header: cells}
			current.Blocks = append(current.Blocks, block)
		case Data:
			if block != nil {
				block.Rows = append(block.Rows, cells)
			}
		}
	}
	return sections, nil
}
