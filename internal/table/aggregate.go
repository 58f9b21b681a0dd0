package table

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Stats holds the running dashboard totals. Field names mirror what the
// dashboard template keys on.
type Stats struct {
	TotalFeedsKg          decimal.Decimal `json:"total_feeds_kg"`
	TotalExpenditure      decimal.Decimal `json:"total_expenditure"`
	TotalProfit           decimal.Decimal `json:"total_profit"`
	LayersEggsSoldCrates  decimal.Decimal `json:"layers_eggs_sold_crates"`
	BroilersBirdsSold     decimal.Decimal `json:"broilers_birds_sold"`
	GoatsSold             decimal.Decimal `json:"goats_sold"`
	SheepSold             decimal.Decimal `json:"sheep_sold"`
}

// Statistics computes the running totals over the coerced table. An empty
// record set yields all zeros, never an error. Category and item matching is
// case-sensitive exact equality.
func Statistics(records []Record) Stats {
	var s Stats
	for _, r := range records {
		switch r.Type {
		case TypeFeedInput:
			s.TotalFeedsKg = s.TotalFeedsKg.Add(r.Quantity)
		case TypeExpenditure:
			s.TotalExpenditure = s.TotalExpenditure.Add(r.Amount)
		case TypeProfit:
			s.TotalProfit = s.TotalProfit.Add(r.TotalProfit)
		}
	}
	s.LayersEggsSoldCrates = soldQuantity(records, "Layers", "Eggs Sold")
	s.BroilersBirdsSold = soldQuantity(records, "Broilers", "Birds Sold")
	s.GoatsSold = soldQuantity(records, "Goats", "Goat Meat")
	s.SheepSold = soldQuantity(records, "Sheep", "Sheep Meat")
	return s
}

func soldQuantity(records []Record, category, item string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.Type == TypeProfit && r.Category == category && r.Item == item {
			total = total.Add(r.Quantity)
		}
	}
	return total
}

// PeriodReport is a date-bounded slice of the table with its two headline
// totals re-derived over the span.
type PeriodReport struct {
	Label            string          `json:"label"`
	Start            time.Time       `json:"start"`
	End              time.Time       `json:"end"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	TotalExpenditure decimal.Decimal `json:"total_expenditure"`
	Records          []Record        `json:"-"`
}

// WeeklyReport bounds the table to the Monday–Sunday week containing now.
func WeeklyReport(records []Record, now time.Time) PeriodReport {
	today := dateOnly(now)
	start := today.AddDate(0, 0, -mondayOffset(today.Weekday()))
	end := start.AddDate(0, 0, 6)
	label := fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	return periodReport(records, label, start, end)
}

// MonthlyReport bounds the table to the calendar month containing now.
func MonthlyReport(records []Record, now time.Time) PeriodReport {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, -1)
	return periodReport(records, now.Format("January 2006"), start, end)
}

func periodReport(records []Record, label string, start, end time.Time) PeriodReport {
	report := PeriodReport{
		Label:            label,
		Start:            start,
		End:              end,
		TotalProfit:      decimal.Zero,
		TotalExpenditure: decimal.Zero,
		Records:          make([]Record, 0),
	}
	for _, r := range records {
		d := dateOnly(r.Date)
		if d.Before(dateOnly(start)) || d.After(dateOnly(end)) {
			continue
		}
		report.Records = append(report.Records, r)
		switch r.Type {
		case TypeProfit:
			report.TotalProfit = report.TotalProfit.Add(r.TotalProfit)
		case TypeExpenditure:
			report.TotalExpenditure = report.TotalExpenditure.Add(r.Amount)
		}
	}
	return report
}

func mondayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
