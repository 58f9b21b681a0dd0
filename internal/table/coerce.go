package table

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMissingDateColumn reports that the coerced table has no usable dates:
// either the Date column was absent or every row carried an unparseable date.
// Reports cannot be generated without dates.
var ErrMissingDateColumn = errors.New("no usable Date column in record table")

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2 Jan 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseDate tries each accepted layout in turn.
func ParseDate(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, v); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// ParseNumber coerces a loosely typed cell into a decimal. Blank or
// unparseable values become exactly zero so aggregation sums stay defined;
// "absent" and "zero" are deliberately conflated. Thousands separators are
// stripped first.
func ParseNumber(value string) decimal.Decimal {
	v := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Coerce converts a normalized table into typed records. Rows whose Date
// fails to parse are removed before any numeric coercion runs; if nothing
// survives, or the Date column is missing outright, ErrMissingDateColumn is
// returned alongside an empty record set.
func Coerce(t Table) ([]Record, []string, error) {
	if t.Empty() {
		return nil, nil, nil
	}
	if !t.hasColumn(ColDate) {
		return nil, nil, ErrMissingDateColumn
	}

	extras := make([]string, 0)
	canonical := make(map[string]bool, 9)
	for _, c := range CanonicalColumns() {
		canonical[c] = true
	}
	for _, c := range t.Columns {
		if !canonical[c] {
			extras = append(extras, c)
		}
	}

	records := make([]Record, 0, len(t.Rows))
	dropped := 0
	for _, row := range t.Rows {
		date, ok := ParseDate(row[ColDate])
		if !ok {
			dropped++
			continue
		}
		rec := Record{
			Date:          date,
			Type:          row[ColType],
			Category:      row[ColCategory],
			Item:          row[ColItem],
			Quantity:      ParseNumber(row[ColQuantity]),
			Unit:          row[ColUnit],
			Amount:        ParseNumber(row[ColAmount]),
			ProfitPerUnit: ParseNumber(row[ColProfitPerUnit]),
			TotalProfit:   ParseNumber(row[ColTotalProfit]),
		}
		if len(extras) > 0 {
			rec.Extra = make(map[string]string, len(extras))
			for _, c := range extras {
				rec.Extra[c] = row[c]
			}
		}
		records = append(records, rec)
	}

	var notices []string
	if dropped > 0 {
		notices = append(notices, fmt.Sprintf(
			"%d record(s) removed because their Date value was invalid or empty", dropped))
	}
	if len(records) == 0 {
		return nil, notices, ErrMissingDateColumn
	}
	return records, notices, nil
}

// ExtraColumns lists the non-canonical columns of a normalized table, in
// table order. Used to rebuild display tables after coercion.
func (t Table) ExtraColumns() []string {
	canonical := make(map[string]bool, 9)
	for _, c := range CanonicalColumns() {
		canonical[c] = true
	}
	out := make([]string, 0)
	for _, c := range t.Columns {
		if !canonical[c] {
			out = append(out, c)
		}
	}
	return out
}
