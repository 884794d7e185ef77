package pfdigest

import (
	"context"
	"fmt"
	"time"

	"github.com/rishirsv/pfdigest/ibkr"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Digest names, also used as subcommand and sheet names.
const (
	PerformanceDigest = "performance"
	AllocationDigest  = "allocation"
	PositionDigest    = "positions"
	CashflowDigest    = "cashflow"
	NetWorthDigest    = "networth"
)

// Digests lists every digest in output order.
var Digests = []string{PerformanceDigest, AllocationDigest, PositionDigest, CashflowDigest, NetWorthDigest}

// Sources are the paths of the exports a run reads.
type Sources struct {
	Portfolio    string
	Transactions string
	NetWorth     string
}

// Build reads the export the named digest depends on and assembles it.
func Build(ctx context.Context, name string, src Sources, s Settings) (*Table, error) {
	log := zerolog.Ctx(ctx).With().Str("digest", name).Logger()
	ctx = log.WithContext(ctx)

	var (
		t   *Table
		err error
	)
	switch name {
	case PerformanceDigest, AllocationDigest, PositionDigest:
		t, err = buildPortfolio(ctx, name, src.Portfolio, s)
	case CashflowDigest:
		t, err = buildCashflow(ctx, src.Transactions, s)
	case NetWorthDigest:
		t, err = buildNetWorth(ctx, src.NetWorth, s)
	default:
		return nil, fmt.Errorf("unknown digest %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s digest: %w", name, err)
	}
	log.Info().Int("rows", t.Len()).Int("skipped", t.Skipped).Msg("digest built")
	return t, nil
}

func buildPortfolio(ctx context.Context, name, path string, s Settings) (*Table, error) {
	sections, err := DecodePortfolioFile(path)
	if err != nil {
		return nil, err
	}
	return BuildPortfolio(ctx, name, sections, s)
}

// BuildPortfolio assembles one of the digests fed by a PortfolioAnalyst export.
func BuildPortfolio(ctx context.Context, name string, sections ibkr.Sections, s Settings) (*Table, error) {
	if name == PerformanceDigest {
		in, err := ReadPerformance(ctx, sections, s)
		if err != nil {
			return nil, err
		}
		return PerformanceTable(Performance(in, s)), nil
	}

	records, skipped, err := ReadPositions(ctx, sections, s)
	if err != nil {
		return nil, err
	}
	var t *Table
	switch name {
	case AllocationDigest:
		t = AllocationTable(records, s)
	case PositionDigest:
		t = PositionTable(records, s)
	default:
		return nil, fmt.Errorf("%q is not a portfolio digest", name)
	}
	t.Skipped = skipped
	return t, nil
}

func buildCashflow(ctx context.Context, path string, s Settings) (*Table, error) {
	txs, skipped, err := DecodeTransactionsFile(ctx, path)
	if err != nil {
		return nil, err
	}
	t := CashflowTable(Cashflows(txs, s))
	t.Skipped = skipped
	return t, nil
}

func buildNetWorth(ctx context.Context, path string, s Settings) (*Table, error) {
	grid, err := DecodeNetWorthFile(path)
	if err != nil {
		return nil, err
	}
	rows := Aggregate(s.NetWorth.Categories, NetWorthObservations(ctx, grid, s.NetWorth))
	return NetWorthTable(NetWorth(rows, s)), nil
}

// BuildAll builds the named digests concurrently, all of them when no name
// is given. The first failure cancels the others. Tables are returned in
// the order of names.
func BuildAll(ctx context.Context, src Sources, s Settings, names ...string) ([]*Table, error) {
	if len(names) == 0 {
		names = Digests
	}
	tables := make([]*Table, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := Build(ctx, name, src, s)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// Run is the outcome of one invocation: an id, a generation time and the
// digests produced.
type Run struct {
	ID        string
	Generated time.Time
	Digests   []*Table
}

// GeneratedLayout is the timestamp layout of the CSV title lines.
const GeneratedLayout = "2006-01-02 15:04:05"

// Digest returns the table with the given name, or nil.
func (r *Run) Digest(name string) *Table {
	for _, t := range r.Digests {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Skipped returns the total of malformed rows ignored across digests.
func (r *Run) Skipped() int {
	n := 0
	for _, t := range r.Digests {
		n += t.Skipped
	}
	return n
}

// MarshalJSON encodes the run with its digests keyed by name.
func (r *Run) MarshalJSON() ([]byte, error) {
	var digests jsonObjectWriter
	for _, t := range r.Digests {
		digests.Append(t.Name, t)
	}
	raw, err := digests.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var w jsonObjectWriter
	w.Append("id", r.ID)
	w.Append("generated", r.Generated.Format(GeneratedLayout))
	w.Optional("skipped", r.Skipped())
	w.Raw("digests", raw)
	return w.MarshalJSON()
}
