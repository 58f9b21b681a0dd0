package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"
)

func (s *Server) handleExportRecords(w http.ResponseWriter, r *http.Request) {
	view := s.loadRecords(r.Context())
	if len(view.Records) == 0 {
		respondJSON(w, http.StatusNotFound, map[string]any{
			"error":   "no records available to export",
			"notices": view.Notices,
		})
		return
	}

	filename := "farm_records_" + s.now().Format("20060102_150405")
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))) {
	case "csv":
		if err := writeCSVExport(w, filename, view); err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to write csv export"})
		}
	default:
		if err := writeXLSXExport(w, filename, view); err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to write excel export"})
		}
	}
}

func writeCSVExport(w http.ResponseWriter, filename string, view canonicalView) error {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".csv"))

	cw := csv.NewWriter(w)
	if err := cw.Write(view.Columns); err != nil {
		return err
	}
	for _, rec := range view.Records {
		row := rec.Row()
		cells := make([]string, len(view.Columns))
		for i, col := range view.Columns {
			cells[i] = row[col]
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

const exportSheetName = "Farm Records"

func writeXLSXExport(w http.ResponseWriter, filename string, view canonicalView) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4CAF50"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	widths := make([]int, len(view.Columns))
	for i, col := range view.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheetName, cell, col); err != nil {
			return err
		}
		widths[i] = len(col)
	}
	if len(view.Columns) > 0 {
		last, err := excelize.CoordinatesToCellName(len(view.Columns), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(exportSheetName, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for rowIdx, rec := range view.Records {
		row := rec.Row()
		for colIdx, col := range view.Columns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			value := row[col]
			if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
				return err
			}
			if len(value) > widths[colIdx] {
				widths[colIdx] = len(value)
			}
		}
	}

	for i := range view.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(exportSheetName, name, name, float64(widths[i]+2)); err != nil {
			return err
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".xlsx"))
	return f.Write(w)
}
