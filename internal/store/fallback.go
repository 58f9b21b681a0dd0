package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"farmbook/backend/internal/table"
)

// FallbackStore is the local flat-file destination: one CSV with a header
// row, rewritten whole on every write.
type FallbackStore struct {
	path string
}

func NewFallbackStore(path string) *FallbackStore {
	return &FallbackStore{path: path}
}

// ReadAll loads the fallback file. An absent file is an empty row set, not
// an error.
func (f *FallbackStore) ReadAll() (table.Raw, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return table.Raw{}, nil
		}
		return table.Raw{}, fmt.Errorf("fallback read failed: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	lines, err := reader.ReadAll()
	if err != nil {
		return table.Raw{}, fmt.Errorf("fallback parse failed: %w", err)
	}
	if len(lines) < 2 {
		return table.Raw{}, nil
	}

	headers := lines[0]
	rows := make([]map[string]string, 0, len(lines)-1)
	for _, cells := range lines[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return table.Raw{Columns: append([]string(nil), headers...), Rows: rows}, nil
}

// WriteAll overwrites the fallback file with the given table, creating the
// parent directory if needed.
func (f *FallbackStore) WriteAll(raw table.Raw) error {
	if dir := filepath.Dir(f.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("fallback mkdir failed: %w", err)
		}
	}
	file, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("fallback write failed: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(raw.Columns); err != nil {
		return fmt.Errorf("fallback write failed: %w", err)
	}
	for _, row := range raw.Rows {
		cells := make([]string, len(raw.Columns))
		for i, col := range raw.Columns {
			cells[i] = row[col]
		}
		if err := writer.Write(cells); err != nil {
			return fmt.Errorf("fallback write failed: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
