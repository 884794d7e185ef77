package pfdigest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rishirsv/pfdigest/date"
	"github.com/rishirsv/pfdigest/ibkr"
	"github.com/rs/zerolog"
)

// This file decodes the flat and wide CSV exports consumed by the digests.

// openInput opens an input export, reporting a missing file as ErrMissingInput.
func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}

// DecodePortfolioFile reads a PortfolioAnalyst export from disk.
func DecodePortfolioFile(path string) (ibkr.Sections, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ss, err := ibkr.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing portfolio export %s: %w", path, err)
	}
	return ss, nil
}

// DecodeGrid reads a CSV with rows of any length.
func DecodeGrid(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}

// Transaction is one line of a transaction history.
type Transaction struct {
	Date        date.Date
	Account     string
	Type        string
	Description string
	Amount      Value
}

// transactionColumns are the header names of a transaction export.
var transactionColumns = map[string][]string{
	"date":        {"Date"},
	"account":     {"Account"},
	"type":        {"Transaction Type", "Type"},
	"description": {"Description"},
	"amount":      {"Net Amount", "Amount"},
}

// DecodeTransactions reads a transaction history whose first row is a
// header. Rows with an unreadable date are skipped, logged and counted.
func DecodeTransactions(ctx context.Context, r io.Reader) ([]Transaction, int, error) {
	grid, err := DecodeGrid(r)
	if err != nil {
		return nil, 0, fmt.Errorf("reading transactions: %w", err)
	}
	if len(grid) == 0 {
		return nil, 0, nil
	}
	header := &ibkr.Block{Header: grid[0]}
	col := make(map[string]int, len(transactionColumns))
	for key, names := range transactionColumns {
		col[key] = header.Index(names...)
	}
	if col["date"] < 0 || col["amount"] < 0 {
		return nil, 0, fmt.Errorf("transactions header %q lacks Date or Net Amount", grid[0])
	}

	log := zerolog.Ctx(ctx)
	var (
		txs     []Transaction
		skipped int
	)
	for i, cells := range grid[1:] {
		row := Row(cells)
		if len(strings.Join(row, "")) == 0 {
			continue
		}
		on, err := date.Parse(row.Text(col["date"]))
		if err != nil {
			log.Warn().Int("line", i+2).Err(err).Msg("skipping transaction")
			skipped++
			continue
		}
		txs = append(txs, Transaction{
			Date:        on,
			Account:     row.Text(col["account"]),
			Type:        row.Text(col["type"]),
			Description: row.Text(col["description"]),
			Amount:      row.Value(col["amount"]),
		})
	}
	return txs, skipped, nil
}

// DecodeTransactionsFile reads a transaction history from disk.
func DecodeTransactionsFile(ctx context.Context, path string) ([]Transaction, int, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return DecodeTransactions(ctx, f)
}

// DecodeNetWorthFile reads a wide net-worth sheet from disk.
func DecodeNetWorthFile(path string) ([][]string, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	grid, err := DecodeGrid(f)
	if err != nil {
		return nil, fmt.Errorf("reading net worth sheet %s: %w", path, err)
	}
	return grid, nil
}
