// Package store reconciles reads and writes across the two record
// destinations: the remote spreadsheet and the optional local CSV fallback.
// Neither destination is authoritative over the other; writes succeed when
// either destination accepts them and notices name whichever one did not.
package store

import (
	"context"
	"fmt"

	"farmbook/backend/internal/sheet"
	"farmbook/backend/internal/table"
)

// RemoteOpener constructs a worksheet handle on demand, matching how the
// sheet client binds per operation. Nil when the remote side is unconfigured.
type RemoteOpener interface {
	Open(ctx context.Context, sheetID string) (sheet.Worksheet, error)
}

type Adapter struct {
	remote   RemoteOpener
	sheetID  string
	fallback *FallbackStore
	mirror   bool
}

// WriteResult reports a dual-destination write: overall success is the OR of
// the per-destination outcomes, with notices naming any failed destination.
type WriteResult struct {
	OK      bool     `json:"ok"`
	Notices []string `json:"notices,omitempty"`
}

// NewAdapter wires the two destinations. remote may be nil (client
// construction failed), fallback may be nil (feature disabled); mirror makes
// every successful remote append also land in the fallback file.
func NewAdapter(remote RemoteOpener, sheetID string, fallback *FallbackStore, mirror bool) *Adapter {
	return &Adapter{remote: remote, sheetID: sheetID, fallback: fallback, mirror: mirror}
}

func (a *Adapter) openRemote(ctx context.Context) (sheet.Worksheet, error) {
	if a.remote == nil {
		return nil, fmt.Errorf("remote store is not configured")
	}
	return a.remote.Open(ctx, a.sheetID)
}

// ReadAll produces the raw rows for normalization. The remote store is tried
// first; when it is unavailable or empty and a fallback is enabled, the
// fallback rows are used instead. Both empty means an empty set, which is a
// normal reportable state, never an error.
func (a *Adapter) ReadAll(ctx context.Context) (table.Raw, []string) {
	var notices []string

	ws, err := a.openRemote(ctx)
	if err == nil {
		raw, readErr := ws.ReadAll(ctx)
		if readErr == nil && len(raw.Rows) > 0 {
			return raw, nil
		}
		if readErr != nil {
			notices = append(notices, fmt.Sprintf("remote store read failed: %v", readErr))
		}
	} else {
		notices = append(notices, fmt.Sprintf("remote store unavailable: %v", err))
	}

	if a.fallback == nil {
		return table.Raw{}, notices
	}

	raw, err := a.fallback.ReadAll()
	if err != nil {
		notices = append(notices, fmt.Sprintf("local fallback read failed: %v", err))
		return table.Raw{}, notices
	}
	if len(raw.Rows) > 0 {
		notices = append(notices, "records served from the local fallback store")
	}
	return raw, notices
}

// Append writes one row, given in canonical column order, to the remote
// store, falling through to (or mirroring into) the local fallback.
func (a *Adapter) Append(ctx context.Context, values []string) WriteResult {
	res := WriteResult{}

	remoteOK := false
	ws, err := a.openRemote(ctx)
	if err == nil {
		if appendErr := ws.AppendRow(ctx, values); appendErr == nil {
			remoteOK = true
		} else {
			res.Notices = append(res.Notices, fmt.Sprintf("remote store write failed: %v", appendErr))
		}
	} else {
		res.Notices = append(res.Notices, fmt.Sprintf("remote store unavailable: %v", err))
	}

	fallbackOK := false
	if a.fallback != nil && (!remoteOK || a.mirror) {
		if err := a.appendFallback(values); err != nil {
			res.Notices = append(res.Notices, fmt.Sprintf("local fallback write failed: %v", err))
		} else {
			fallbackOK = true
			if !remoteOK {
				res.Notices = append(res.Notices, "record saved to the local fallback store only")
			}
		}
	}

	res.OK = remoteOK || fallbackOK
	return res
}

// appendFallback is a read-modify-write: existing rows are loaded, columns
// aligned by union, the new row concatenated, and the whole file rewritten.
func (a *Adapter) appendFallback(values []string) error {
	existing, err := a.fallback.ReadAll()
	if err != nil {
		return err
	}

	columns := append([]string(nil), existing.Columns...)
	if len(columns) == 0 {
		columns = table.CanonicalColumns()
	} else {
		present := make(map[string]bool, len(columns))
		for _, c := range columns {
			present[c] = true
		}
		for _, c := range table.CanonicalColumns() {
			if !present[c] {
				columns = append(columns, c)
			}
		}
	}

	row := make(map[string]string, len(columns))
	for i, col := range table.CanonicalColumns() {
		if i < len(values) {
			row[col] = values[i]
		}
	}

	existing.Columns = columns
	existing.Rows = append(existing.Rows, row)
	return a.fallback.WriteAll(existing)
}

// Update overwrites the row at the given 1-based sheet address (logical
// index + 2: one for 1-based addressing, one for the header row) in the
// remote store, and mirrors the change into the fallback when enabled. The
// address scheme assumes the table has not shifted since the last read;
// there is no versioning check.
func (a *Adapter) Update(ctx context.Context, sheetRow int, values []string) WriteResult {
	res := WriteResult{}

	remoteOK := false
	ws, err := a.openRemote(ctx)
	if err == nil {
		if updateErr := ws.UpdateRow(ctx, sheetRow, values); updateErr == nil {
			remoteOK = true
		} else {
			res.Notices = append(res.Notices, fmt.Sprintf("remote store update failed: %v", updateErr))
		}
	} else {
		res.Notices = append(res.Notices, fmt.Sprintf("remote store unavailable: %v", err))
	}

	fallbackOK := false
	if a.fallback != nil {
		ok, err := a.updateFallback(sheetRow-2, values)
		switch {
		case err != nil:
			res.Notices = append(res.Notices, fmt.Sprintf("local fallback update failed: %v", err))
		case !ok:
			res.Notices = append(res.Notices, "local fallback has no row at that position; fallback update skipped")
		default:
			fallbackOK = true
		}
	}

	res.OK = remoteOK || fallbackOK
	return res
}

func (a *Adapter) updateFallback(index int, values []string) (bool, error) {
	existing, err := a.fallback.ReadAll()
	if err != nil {
		return false, err
	}
	if index < 0 || index >= len(existing.Rows) {
		return false, nil
	}

	row := existing.Rows[index]
	for i, col := range table.CanonicalColumns() {
		if i < len(values) {
			row[col] = values[i]
		}
	}
	present := make(map[string]bool, len(existing.Columns))
	for _, c := range existing.Columns {
		present[c] = true
	}
	for _, c := range table.CanonicalColumns() {
		if !present[c] {
			existing.Columns = append(existing.Columns, c)
		}
	}

	return true, a.fallback.WriteAll(existing)
}
