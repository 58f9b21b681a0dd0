package api

import (
	"net/http"

	"farmbook/backend/internal/table"
)

func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	view := s.loadRecords(r.Context())
	report := table.WeeklyReport(view.Records, s.now())
	s.respondReport(w, view, report)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	view := s.loadRecords(r.Context())
	report := table.MonthlyReport(view.Records, s.now())
	s.respondReport(w, view, report)
}

func (s *Server) respondReport(w http.ResponseWriter, view canonicalView, report table.PeriodReport) {
	rows := make([]map[string]string, 0, len(report.Records))
	for _, rec := range report.Records {
		rows = append(rows, rec.Row())
	}

	payload := map[string]any{
		"label":             report.Label,
		"start":             report.Start.Format("2006-01-02"),
		"end":               report.End.Format("2006-01-02"),
		"total_profit":      report.TotalProfit,
		"total_expenditure": report.TotalExpenditure,
		"records":           rows,
		"notices":           view.Notices,
	}
	if view.DateErr {
		payload["error"] = "reports cannot be generated without a valid Date column"
	}
	respondJSON(w, http.StatusOK, payload)
}
