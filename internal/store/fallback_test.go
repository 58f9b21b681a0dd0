package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmbook/backend/internal/table"
)

func TestFallbackReadAbsentFileIsEmpty(t *testing.T) {
	f := NewFallbackStore(filepath.Join(t.TempDir(), "missing.csv"))

	raw, err := f.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, raw.Columns)
	assert.Empty(t, raw.Rows)
}

func TestFallbackWriteReadRoundTrip(t *testing.T) {
	f := NewFallbackStore(filepath.Join(t.TempDir(), "records.csv"))

	in := table.Raw{
		Columns: table.CanonicalColumns(),
		Rows: []map[string]string{
			{
				table.ColDate: "2024-03-01", table.ColType: table.TypeFeedInput,
				table.ColCategory: "Layers", table.ColItem: "Starter",
				table.ColQuantity: "50", table.ColUnit: "kg",
			},
			{
				table.ColDate: "2024-03-02", table.ColType: table.TypeProfit,
				table.ColCategory: "Layers", table.ColItem: "Eggs Sold",
				table.ColQuantity: "12", table.ColUnit: "crates",
				table.ColProfitPerUnit: "10", table.ColTotalProfit: "120",
			},
		},
	}
	require.NoError(t, f.WriteAll(in))

	out, err := f.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, table.CanonicalColumns(), out.Columns)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, "2024-03-01", out.Rows[0][table.ColDate])
	assert.Equal(t, "", out.Rows[0][table.ColAmount])
	assert.Equal(t, "120", out.Rows[1][table.ColTotalProfit])
}

func TestFallbackWriteCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "records.csv")
	f := NewFallbackStore(path)

	err := f.WriteAll(table.Raw{Columns: []string{"Date"}, Rows: []map[string]string{{"Date": "2024-01-01"}}})
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFallbackHeaderOnlyFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Type,Amount\n"), 0o644))

	raw, err := NewFallbackStore(path).ReadAll()
	require.NoError(t, err)
	assert.Empty(t, raw.Rows)
}

func TestFallbackPadsShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Type,Amount\n2024-03-01,expenditure\n"), 0o644))

	raw, err := NewFallbackStore(path).ReadAll()
	require.NoError(t, err)
	require.Len(t, raw.Rows, 1)
	assert.Equal(t, "expenditure", raw.Rows[0]["Type"])
	assert.Equal(t, "", raw.Rows[0]["Amount"])
}
