package pfdigest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestSources writes every test export into a temporary directory.
func writeTestSources(t *testing.T) Sources {
	t.Helper()
	dir := t.TempDir()
	src := Sources{
		Portfolio:    filepath.Join(dir, "portfolio.csv"),
		Transactions: filepath.Join(dir, "transactions.csv"),
		NetWorth:     filepath.Join(dir, "networth.csv"),
	}
	require.NoError(t, os.WriteFile(src.Portfolio, []byte(performanceExport+positionsExport), 0o644))
	require.NoError(t, os.WriteFile(src.Transactions, []byte(transactionsExport), 0o644))
	require.NoError(t, os.WriteFile(src.NetWorth, []byte(netWorthExport), 0o644))
	return src
}

func TestBuild(t *testing.T) {
	src := writeTestSources(t)
	testCases := []struct {
		name    string
		title   string
		skipped int
	}{
		{PerformanceDigest, "IBKR Performance Digest", 0},
		{AllocationDigest, "IBKR Allocation Digest", 1},
		{PositionDigest, "IBKR Position Digest", 1},
		{CashflowDigest, "IBKR Cashflow Digest", 1},
		{NetWorthDigest, "Net Worth Digest", 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tb, err := Build(context.Background(), tc.name, src, DefaultSettings())
			require.NoError(t, err)
			assert.Equal(t, tc.name, tb.Name)
			assert.Equal(t, tc.title, tb.Title)
			assert.Equal(t, tc.skipped, tb.Skipped)
			assert.NotZero(t, tb.Len())
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	src := writeTestSources(t)
	_, err := Build(context.Background(), "nope", src, DefaultSettings())
	assert.Error(t, err)

	src.NetWorth = filepath.Join(t.TempDir(), "missing.csv")
	_, err = Build(context.Background(), NetWorthDigest, src, DefaultSettings())
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.ErrorContains(t, err, "networth digest")
}

func TestBuildAll(t *testing.T) {
	src := writeTestSources(t)
	tables, err := BuildAll(context.Background(), src, DefaultSettings())
	require.NoError(t, err)
	require.Len(t, tables, len(Digests))
	for i, name := range Digests {
		assert.Equal(t, name, tables[i].Name)
	}

	tables, err = BuildAll(context.Background(), src, DefaultSettings(), NetWorthDigest, PerformanceDigest)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, NetWorthDigest, tables[0].Name)
	assert.Equal(t, PerformanceDigest, tables[1].Name)
}

func TestBuildAll_FirstFailure(t *testing.T) {
	src := writeTestSources(t)
	src.Transactions = filepath.Join(t.TempDir(), "missing.csv")
	_, err := BuildAll(context.Background(), src, DefaultSettings(), Digests...)
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestRun_MarshalJSON(t *testing.T) {
	tb := testTable()
	tb.Append(Text("a"), Int(1), Float(2), Num(None), Bool(true))
	tb.Skipped = 2
	r := &Run{ID: "r1", Generated: time.Date(2025, 7, 1, 8, 30, 0, 0, time.UTC), Digests: []*Table{tb}}

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	var got struct {
		ID        string                     `json:"id"`
		Generated string                     `json:"generated"`
		Skipped   int                        `json:"skipped"`
		Digests   map[string]json.RawMessage `json:"digests"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "r1", got.ID)
	assert.Equal(t, "2025-07-01 08:30:00", got.Generated)
	assert.Equal(t, 2, got.Skipped)
	assert.Contains(t, got.Digests, "demo")
	assert.Same(t, tb, r.Digest("demo"))
	assert.Nil(t, r.Digest("other"))
}
