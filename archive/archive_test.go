package archive

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/rishirsv/pfdigest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) (*Archive, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	a, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a, path
}

func testRun(id string, generated time.Time, rows int) *pfdigest.Run {
	tb := pfdigest.NewTable(pfdigest.CashflowDigest, "IBKR Cashflow Digest", pfdigest.Column{Name: "year", Kind: pfdigest.KindInt})
	for i := range rows {
		tb.Append(pfdigest.Int(2020 + i))
	}
	tb.Skipped = 1
	return &pfdigest.Run{ID: id, Generated: generated, Digests: []*pfdigest.Table{tb}}
}

func TestArchive_SaveAndList(t *testing.T) {
	ctx := context.Background()
	a, _ := openTest(t)
	t0 := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, a.Save(ctx, testRun("old", t0, 2)))
	require.NoError(t, a.Save(ctx, testRun("new", t0.Add(time.Hour), 3)))

	runs, err := a.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, RunInfo{ID: "new", Generated: t0.Add(time.Hour), Digests: 1, Rows: 3, Skipped: 1}, runs[0])
	assert.Equal(t, "old", runs[1].ID)

	runs, err = a.Runs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestArchive_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	a, _ := openTest(t)
	now := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, a.Save(ctx, testRun("r", now, 1)))
	require.NoError(t, a.Save(ctx, testRun("r", now, 4)))

	runs, err := a.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 4, runs[0].Rows)
}

func TestArchive_Load(t *testing.T) {
	ctx := context.Background()
	a, path := openTest(t)
	now := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, a.Save(ctx, testRun("first", now, 1)))
	require.NoError(t, a.Save(ctx, testRun("second", now.Add(time.Minute), 2)))

	raw, err := a.Load(ctx, "first")
	require.NoError(t, err)
	var got struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "first", got.ID)

	raw, err = a.Load(ctx, "")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "second", got.ID)

	_, err = a.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	// Reopening an existing archive keeps its content.
	require.NoError(t, a.Close())
	b, err := Open(ctx, path)
	require.NoError(t, err)
	defer b.Close()
	runs, err := b.Runs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
