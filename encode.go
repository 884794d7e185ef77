package pfdigest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// fileNames are the output file names of each digest.
var fileNames = map[string]string{
	PerformanceDigest: "PF_IBKR_Performance_Digest.csv",
	AllocationDigest:  "PF_IBKR_Allocation_Digest.csv",
	PositionDigest:    "PF_IBKR_Position_Digest.csv",
	CashflowDigest:    "PF_Cashflow_Digest.csv",
	NetWorthDigest:    "PF_NetWorth_Digest.csv",
}

// FileName returns the CSV file name of a digest.
func FileName(digest string) string {
	if n, ok := fileNames[digest]; ok {
		return n
	}
	return "PF_" + digest + ".csv"
}

// EncodeCSV writes a table as CSV preceded by a title line
// "# <Title> - Generated: YYYY-MM-DD HH:MM:SS".
func EncodeCSV(w io.Writer, t *Table, generated time.Time) error {
	if _, err := fmt.Fprintf(w, "# %s - Generated: %s\n", t.Title, generated.Format(GeneratedLayout)); err != nil {
		return fmt.Errorf("writing title of %s: %w", t.Name, err)
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("writing %s: %w", t.Name, err)
	}
	return nil
}

// WriteCSV writes a table into dir under its digest file name and returns
// the path written. The file is written to a temporary sibling first and
// renamed into place, so a failure never leaves a partial digest behind.
func WriteCSV(dir string, t *Table, generated time.Time) (string, error) {
	path := filepath.Join(dir, FileName(t.Name))
	err := writeAtomic(path, func(w io.Writer) error { return EncodeCSV(w, t, generated) })
	if err != nil {
		return "", err
	}
	return path, nil
}

// WriteRun writes every digest of a run into dir.
func WriteRun(dir string, r *Run) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	var paths []string
	for _, t := range r.Digests {
		p, err := WriteCSV(dir, t, r.Generated)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// writeAtomic calls write on a temporary file next to path and renames it
// onto path when write succeeds.
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if err = write(f); err != nil {
		return err
	}
	// CreateTemp opens files 0600; digests are meant to be shared.
	if err = f.Chmod(0o644); err != nil {
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
