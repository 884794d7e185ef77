package pfdigest

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestEncodeXLSX(t *testing.T) {
	first := testTable()
	first.Append(Text("a"), Int(2024), Float(1234.5), Float(0.25), Bool(true))
	second := NewTable("other", "Other Digest", Column{"n", KindInt})
	second.Append(Int(7))

	var buf bytes.Buffer
	require.NoError(t, EncodeXLSX(&buf, &Run{ID: "r", Generated: testGenerated, Digests: []*Table{first, second}}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"demo", "other"}, f.GetSheetList())

	rows, err := f.GetRows("demo")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"label", "year", "amount", "ratio", "flag"}, rows[0])
	assert.Equal(t, "a", rows[1][0])
	assert.Equal(t, "2024", rows[1][1])
	assert.Equal(t, "1234.5", rows[1][2])
	assert.Equal(t, "0.25", rows[1][3])
	assert.Equal(t, "TRUE", rows[1][4])

	rows, err = f.GetRows("other")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"n"}, {"7"}}, rows)
}

func TestEncodeXLSX_EmptyRun(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, EncodeXLSX(&buf, &Run{ID: "empty"}))
}

func TestWriteXLSX(t *testing.T) {
	tb := testTable()
	tb.Append(Text("a"), Int(1), Num(None), Float(0.5), Bool(false))
	path := filepath.Join(t.TempDir(), "digests.xlsx")
	require.NoError(t, WriteXLSX(path, &Run{ID: "r", Generated: testGenerated, Digests: []*Table{tb}}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("demo", "B2")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
	v, err = f.GetCellValue("demo", "C2")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}
