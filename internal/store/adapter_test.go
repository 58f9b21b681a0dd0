package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmbook/backend/internal/sheet"
	"farmbook/backend/internal/table"
)

type fakeWorksheet struct {
	raw       table.Raw
	readErr   error
	appendErr error
	updateErr error

	appended [][]string
	updated  map[int][]string
}

func (w *fakeWorksheet) ReadAll(ctx context.Context) (table.Raw, error) {
	return w.raw, w.readErr
}

func (w *fakeWorksheet) AppendRow(ctx context.Context, values []string) error {
	if w.appendErr != nil {
		return w.appendErr
	}
	w.appended = append(w.appended, values)
	return nil
}

func (w *fakeWorksheet) UpdateRow(ctx context.Context, sheetRow int, values []string) error {
	if w.updateErr != nil {
		return w.updateErr
	}
	if w.updated == nil {
		w.updated = make(map[int][]string)
	}
	w.updated[sheetRow] = values
	return nil
}

type fakeOpener struct {
	ws      *fakeWorksheet
	openErr error
}

func (o *fakeOpener) Open(ctx context.Context, sheetID string) (sheet.Worksheet, error) {
	if o.openErr != nil {
		return nil, o.openErr
	}
	return o.ws, nil
}

func remoteRaw() table.Raw {
	return table.Raw{
		Columns: []string{"Date", "Type", "Amount"},
		Rows: []map[string]string{
			{"Date": "2024-03-01", "Type": "expenditure", "Amount": "40"},
		},
	}
}

func seededFallback(t *testing.T, rows []map[string]string) *FallbackStore {
	t.Helper()
	f := NewFallbackStore(filepath.Join(t.TempDir(), "records.csv"))
	require.NoError(t, f.WriteAll(table.Raw{Columns: table.CanonicalColumns(), Rows: rows}))
	return f
}

func row(date, kind string) map[string]string {
	return map[string]string{table.ColDate: date, table.ColType: kind}
}

func TestReadAllPrefersRemote(t *testing.T) {
	fallback := seededFallback(t, []map[string]string{row("1999-01-01", "profit")})
	a := NewAdapter(&fakeOpener{ws: &fakeWorksheet{raw: remoteRaw()}}, "sheet-1", fallback, false)

	raw, notices := a.ReadAll(context.Background())
	assert.Empty(t, notices)
	require.Len(t, raw.Rows, 1)
	assert.Equal(t, "2024-03-01", raw.Rows[0]["Date"])
}

func TestReadAllFallsBackWhenRemoteFails(t *testing.T) {
	fallback := seededFallback(t, []map[string]string{row("2024-03-02", "profit")})
	a := NewAdapter(&fakeOpener{openErr: errors.New("dial timeout")}, "sheet-1", fallback, false)

	raw, notices := a.ReadAll(context.Background())
	require.Len(t, raw.Rows, 1)
	assert.Equal(t, "2024-03-02", raw.Rows[0][table.ColDate])
	require.Len(t, notices, 2)
	assert.Contains(t, notices[0], "remote store unavailable")
	assert.Contains(t, notices[1], "local fallback store")
}

func TestReadAllFallsBackWhenRemoteEmpty(t *testing.T) {
	fallback := seededFallback(t, []map[string]string{row("2024-03-02", "profit")})
	a := NewAdapter(&fakeOpener{ws: &fakeWorksheet{}}, "sheet-1", fallback, false)

	raw, notices := a.ReadAll(context.Background())
	require.Len(t, raw.Rows, 1)
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0], "local fallback store")
}

func TestReadAllNoFallbackConfigured(t *testing.T) {
	a := NewAdapter(&fakeOpener{openErr: errors.New("no token")}, "sheet-1", nil, false)

	raw, notices := a.ReadAll(context.Background())
	assert.Empty(t, raw.Rows)
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0], "remote store unavailable")
}

func TestAppendRemoteOnly(t *testing.T) {
	ws := &fakeWorksheet{}
	fallback := NewFallbackStore(filepath.Join(t.TempDir(), "records.csv"))
	a := NewAdapter(&fakeOpener{ws: ws}, "sheet-1", fallback, false)

	values := []string{"2024-03-05", "profit", "Layers", "Eggs Sold", "12", "crates", "", "10", "120"}
	res := a.Append(context.Background(), values)

	assert.True(t, res.OK)
	assert.Empty(t, res.Notices)
	require.Len(t, ws.appended, 1)
	assert.Equal(t, values, ws.appended[0])

	// mirror is off, so nothing lands locally
	raw, err := fallback.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, raw.Rows)
}

func TestAppendMirrorsToFallback(t *testing.T) {
	ws := &fakeWorksheet{}
	fallback := NewFallbackStore(filepath.Join(t.TempDir(), "records.csv"))
	a := NewAdapter(&fakeOpener{ws: ws}, "sheet-1", fallback, true)

	res := a.Append(context.Background(), []string{"2024-03-05", "profit"})
	assert.True(t, res.OK)
	assert.Empty(t, res.Notices)

	raw, err := fallback.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, table.CanonicalColumns(), raw.Columns)
	require.Len(t, raw.Rows, 1)
	assert.Equal(t, "profit", raw.Rows[0][table.ColType])
}

func TestAppendFallsBackWhenRemoteRejectsWrite(t *testing.T) {
	ws := &fakeWorksheet{appendErr: errors.New("quota exceeded")}
	fallback := NewFallbackStore(filepath.Join(t.TempDir(), "records.csv"))
	a := NewAdapter(&fakeOpener{ws: ws}, "sheet-1", fallback, false)

	res := a.Append(context.Background(), []string{"2024-03-05", "expenditure", "", "", "", "", "80", "", ""})
	assert.True(t, res.OK)
	require.Len(t, res.Notices, 2)
	assert.Contains(t, res.Notices[0], "remote store write failed")
	assert.Contains(t, res.Notices[1], "local fallback store only")

	raw, err := fallback.ReadAll()
	require.NoError(t, err)
	require.Len(t, raw.Rows, 1)
	assert.Equal(t, "80", raw.Rows[0][table.ColAmount])
}

func TestAppendFailsWhenBothDestinationsUnavailable(t *testing.T) {
	a := NewAdapter(&fakeOpener{openErr: errors.New("no token")}, "sheet-1", nil, false)

	res := a.Append(context.Background(), []string{"2024-03-05", "profit"})
	assert.False(t, res.OK)
	require.Len(t, res.Notices, 1)
	assert.Contains(t, res.Notices[0], "remote store unavailable")
}

func TestUpdateWritesRemoteAndFallbackRow(t *testing.T) {
	ws := &fakeWorksheet{}
	fallback := seededFallback(t, []map[string]string{
		row("2024-03-01", "profit"),
		row("2024-03-02", "profit"),
		row("2024-03-03", "profit"),
	})
	a := NewAdapter(&fakeOpener{ws: ws}, "sheet-1", fallback, false)

	values := []string{"2024-03-09", "expenditure", "Goats", "Dewormer", "", "", "80", "", ""}
	res := a.Update(context.Background(), 3, values)

	assert.True(t, res.OK)
	assert.Empty(t, res.Notices)
	assert.Equal(t, values, ws.updated[3])

	raw, err := fallback.ReadAll()
	require.NoError(t, err)
	require.Len(t, raw.Rows, 3)
	assert.Equal(t, "2024-03-01", raw.Rows[0][table.ColDate])
	assert.Equal(t, "2024-03-09", raw.Rows[1][table.ColDate])
	assert.Equal(t, "80", raw.Rows[1][table.ColAmount])
	assert.Equal(t, "2024-03-03", raw.Rows[2][table.ColDate])
}

func TestUpdateSkipsFallbackRowOutOfRange(t *testing.T) {
	ws := &fakeWorksheet{}
	fallback := seededFallback(t, []map[string]string{row("2024-03-01", "profit")})
	a := NewAdapter(&fakeOpener{ws: ws}, "sheet-1", fallback, false)

	res := a.Update(context.Background(), 12, []string{"2024-03-09", "profit"})
	assert.True(t, res.OK)
	require.Len(t, res.Notices, 1)
	assert.Contains(t, res.Notices[0], "fallback update skipped")

	raw, err := fallback.ReadAll()
	require.NoError(t, err)
	require.Len(t, raw.Rows, 1)
	assert.Equal(t, "2024-03-01", raw.Rows[0][table.ColDate])
}

func TestUpdateSucceedsOnFallbackAloneWhenRemoteDown(t *testing.T) {
	fallback := seededFallback(t, []map[string]string{
		row("2024-03-01", "profit"),
		row("2024-03-02", "profit"),
	})
	a := NewAdapter(&fakeOpener{openErr: errors.New("dial timeout")}, "sheet-1", fallback, false)

	res := a.Update(context.Background(), 2, []string{"2024-03-08", "expenditure"})
	assert.True(t, res.OK)
	require.Len(t, res.Notices, 1)
	assert.Contains(t, res.Notices[0], "remote store unavailable")

	raw, err := fallback.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", raw.Rows[0][table.ColDate])
	assert.Equal(t, "2024-03-02", raw.Rows[1][table.ColDate])
}
