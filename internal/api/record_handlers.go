package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"farmbook/backend/internal/table"
)

// canonicalView is the result of one full read pipeline pass: adapter read,
// schema normalization, type coercion. Recomputed on every request; the
// canonical table is never cached.
type canonicalView struct {
	Columns []string
	Records []table.Record
	Notices []string
	DateErr bool
}

func (s *Server) loadRecords(ctx context.Context) canonicalView {
	raw, notices := s.store.ReadAll(ctx)
	if len(raw.Rows) == 0 {
		return canonicalView{Columns: []string{}, Records: []table.Record{}, Notices: notices}
	}

	normalized, normNotices := table.Normalize(raw)
	notices = append(notices, normNotices...)

	records, coerceNotices, err := table.Coerce(normalized)
	notices = append(notices, coerceNotices...)
	if err != nil {
		if errors.Is(err, table.ErrMissingDateColumn) {
			notices = append(notices, "failed to establish a valid Date column; reports cannot be generated")
			return canonicalView{Columns: []string{}, Records: []table.Record{}, Notices: notices, DateErr: true}
		}
		notices = append(notices, err.Error())
		return canonicalView{Columns: []string{}, Records: []table.Record{}, Notices: notices}
	}

	columns := append(table.CanonicalColumns(), normalized.ExtraColumns()...)
	return canonicalView{Columns: columns, Records: records, Notices: notices}
}

func (v canonicalView) rows() []map[string]string {
	out := make([]map[string]string, 0, len(v.Records))
	for _, r := range v.Records {
		out = append(out, r.Row())
	}
	return out
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view := s.loadRecords(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"stats":   table.Statistics(view.Records),
		"notices": view.Notices,
	})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	view := s.loadRecords(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"columns": view.Columns,
		"records": view.rows(),
		"notices": view.Notices,
	})
}

type recordInput struct {
	RecordType    string `json:"recordType"`
	Category      string `json:"category"`
	Item          string `json:"item"`
	Quantity      string `json:"quantity"`
	Amount        string `json:"amount"`
	ProfitPerUnit string `json:"profitPerUnit"`
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var in recordInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	rec, errMsg := s.buildRecord(in)
	if errMsg != "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	res := s.store.Append(r.Context(), rec.Values())
	if !res.OK {
		respondJSON(w, http.StatusBadGateway, map[string]any{
			"error":   "failed to save record to any destination",
			"notices": res.Notices,
		})
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"ok":      true,
		"record":  rec.Row(),
		"notices": res.Notices,
	})
}

// buildRecord validates caller input and assembles the canonical record.
// Invalid numeric input is rejected here, before anything reaches the store
// adapter; no partial record is ever persisted.
func (s *Server) buildRecord(in recordInput) (table.Record, string) {
	rec := table.Record{
		Date:     s.now(),
		Category: strings.TrimSpace(in.Category),
		Item:     strings.TrimSpace(in.Item),
	}
	if rec.Category == "" || rec.Item == "" {
		return table.Record{}, "category and item are required"
	}

	switch strings.ToLower(strings.TrimSpace(in.RecordType)) {
	case "feed":
		rec.Type = table.TypeFeedInput
		qty, ok := parseDecimalField(strings.TrimSpace(in.Quantity), true)
		if !ok {
			return table.Record{}, "invalid feed quantity: enter a number"
		}
		rec.Quantity = qty
		rec.Unit = "kg"
	case "expenditure":
		rec.Type = table.TypeExpenditure
		amount, ok := parseDecimalField(strings.TrimSpace(in.Amount), true)
		if !ok {
			return table.Record{}, "invalid expenditure amount: enter a number"
		}
		rec.Amount = amount
	case "profit":
		rec.Type = table.TypeProfit
		qty, ok := parseDecimalField(strings.TrimSpace(in.Quantity), true)
		if !ok {
			return table.Record{}, "invalid quantity sold: enter a number"
		}
		ppu, ok := parseDecimalField(strings.TrimSpace(in.ProfitPerUnit), true)
		if !ok {
			return table.Record{}, "invalid profit per unit: enter a number"
		}
		rec.Quantity = qty
		rec.ProfitPerUnit = ppu
		rec.TotalProfit = qty.Mul(ppu)
		rec.Unit = profitUnit(rec.Item)
	default:
		return table.Record{}, "invalid record type"
	}
	return rec, ""
}

func profitUnit(item string) string {
	switch {
	case strings.Contains(item, "Eggs"):
		return "crates"
	case strings.Contains(item, "Birds"):
		return "birds"
	default:
		return "units"
	}
}

type recordUpdateInput struct {
	Date          string `json:"date"`
	Type          string `json:"type"`
	Category      string `json:"category"`
	Item          string `json:"item"`
	Quantity      string `json:"quantity"`
	Unit          string `json:"unit"`
	Amount        string `json:"amount"`
	ProfitPerUnit string `json:"profitPerUnit"`
	TotalProfit   string `json:"totalProfit"`
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid record index"})
		return
	}

	view := s.loadRecords(r.Context())
	if index >= len(view.Records) {
		respondJSON(w, http.StatusNotFound, map[string]any{"error": "record not found", "notices": view.Notices})
		return
	}

	var in recordUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	rec, errMsg := buildReplacement(in)
	if errMsg != "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	// Logical index + 2: one for 1-based sheet addressing, one for the
	// header row the remote store reserves.
	res := s.store.Update(r.Context(), index+2, rec.Values())
	if !res.OK {
		respondJSON(w, http.StatusBadGateway, map[string]any{
			"error":   "failed to update record in any destination",
			"notices": res.Notices,
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"record":  rec.Row(),
		"notices": res.Notices,
	})
}

func buildReplacement(in recordUpdateInput) (table.Record, string) {
	date, ok := table.ParseDate(in.Date)
	if !ok {
		return table.Record{}, "invalid date"
	}

	rec := table.Record{
		Date:     date,
		Type:     strings.TrimSpace(in.Type),
		Category: strings.TrimSpace(in.Category),
		Item:     strings.TrimSpace(in.Item),
		Unit:     strings.TrimSpace(in.Unit),
	}
	if rec.Type == "" {
		return table.Record{}, "type is required"
	}

	fields := []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"quantity", in.Quantity, &rec.Quantity},
		{"amount", in.Amount, &rec.Amount},
		{"profit per unit", in.ProfitPerUnit, &rec.ProfitPerUnit},
		{"total profit", in.TotalProfit, &rec.TotalProfit},
	}
	for _, f := range fields {
		d, ok := parseDecimalField(strings.TrimSpace(f.value), false)
		if !ok {
			return table.Record{}, "invalid number for " + f.name + ": enter a valid number"
		}
		*f.dst = d
	}

	if !rec.Quantity.IsZero() && !rec.ProfitPerUnit.IsZero() {
		rec.TotalProfit = rec.Quantity.Mul(rec.ProfitPerUnit)
	}
	return rec, ""
}
