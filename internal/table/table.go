package table

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canonical column names in their fixed display order. Every normalized table
// exposes exactly these columns first, in this order.
const (
	ColDate          = "Date"
	ColType          = "Type"
	ColCategory      = "Category"
	ColItem          = "Item"
	ColQuantity      = "Quantity"
	ColUnit          = "Unit"
	ColAmount        = "Amount"
	ColProfitPerUnit = "Profit Per Unit"
	ColTotalProfit   = "Total Profit"
)

func CanonicalColumns() []string {
	return []string{
		ColDate, ColType, ColCategory, ColItem, ColQuantity,
		ColUnit, ColAmount, ColProfitPerUnit, ColTotalProfit,
	}
}

// Record type tags as stored in the Type column.
const (
	TypeFeedInput   = "feed_input"
	TypeExpenditure = "expenditure"
	TypeProfit      = "profit"
)

// Raw is an unnormalized row set as it comes back from a backing store.
// Columns carries the header order; map keys alone cannot.
type Raw struct {
	Columns []string
	Rows    []map[string]string
}

// Table is a normalized row set: canonical columns first, any unmapped extra
// columns after, all values still strings.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

func (t Table) hasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Record is one fully coerced row of the canonical table.
type Record struct {
	Date          time.Time
	Type          string
	Category      string
	Item          string
	Quantity      decimal.Decimal
	Unit          string
	Amount        decimal.Decimal
	ProfitPerUnit decimal.Decimal
	TotalProfit   decimal.Decimal
	Extra         map[string]string
}

// Values renders the record in canonical column order, ready for a row write.
// Zero numeric fields render blank, matching how unused fields are stored.
func (r Record) Values() []string {
	return []string{
		r.Date.Format("2006-01-02"),
		r.Type,
		r.Category,
		r.Item,
		formatDecimal(r.Quantity),
		r.Unit,
		formatDecimal(r.Amount),
		formatDecimal(r.ProfitPerUnit),
		formatDecimal(r.TotalProfit),
	}
}

// Row renders the record as a display map keyed by canonical column names,
// with extra columns carried through.
func (r Record) Row() map[string]string {
	row := map[string]string{
		ColDate:          r.Date.Format("2006-01-02"),
		ColType:          r.Type,
		ColCategory:      r.Category,
		ColItem:          r.Item,
		ColQuantity:      formatDecimal(r.Quantity),
		ColUnit:          r.Unit,
		ColAmount:        formatDecimal(r.Amount),
		ColProfitPerUnit: formatDecimal(r.ProfitPerUnit),
		ColTotalProfit:   formatDecimal(r.TotalProfit),
	}
	for k, v := range r.Extra {
		row[k] = v
	}
	return row
}

func formatDecimal(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
