package table

import (
	"fmt"
	"strings"
)

// columnVariants maps each canonical column to the raw header spellings it
// accepts, lower-cased with spaces stripped, in priority order.
var columnVariants = map[string][]string{
	ColDate:          {"date", "recorddate", "transactiondate", "timestamp"},
	ColType:          {"type", "recordtype", "recordkind", "transactiontype"},
	ColCategory:      {"category", "itemcategory", "classification"},
	ColItem:          {"item", "description", "product", "detail"},
	ColQuantity:      {"quantity", "qty", "amountbought", "amountsold"},
	ColUnit:          {"unit", "uom", "measure"},
	ColAmount:        {"amount", "expenditureamount", "cost", "totalcost", "value"},
	ColProfitPerUnit: {"profitperunit", "ppu", "unitprofit", "priceperunit"},
	ColTotalProfit:   {"totalprofit", "profit", "netsales", "revenue"},
}

// criticalColumns are the canonical columns reporting cannot do without. When
// one of these had to be synthesized blank, the caller is warned.
var criticalColumns = []string{ColDate, ColType, ColAmount, ColTotalProfit}

func normalizeHeader(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "")
}

// Normalize maps a raw row set onto the canonical schema: matched raw columns
// are renamed, missing canonical columns are synthesized blank, and unclaimed
// raw columns are preserved after the canonical ones in encounter order.
// Row order and row count are preserved. A zero-row input yields a zero-row
// table with no columns synthesized.
func Normalize(raw Raw) (Table, []string) {
	if len(raw.Rows) == 0 {
		return Table{}, nil
	}

	// First raw column per normalized spelling wins the lookup slot.
	lookup := make(map[string]string, len(raw.Columns))
	for _, col := range raw.Columns {
		key := normalizeHeader(col)
		if _, exists := lookup[key]; !exists {
			lookup[key] = col
		}
	}

	claimed := make(map[string]string) // canonical name -> raw column
	taken := make(map[string]bool)     // raw columns already consumed
	for _, canonical := range CanonicalColumns() {
		for _, variant := range columnVariants[canonical] {
			rawCol, ok := lookup[variant]
			if !ok || taken[rawCol] {
				continue
			}
			claimed[canonical] = rawCol
			taken[rawCol] = true
			break
		}
	}

	columns := CanonicalColumns()
	for _, col := range raw.Columns {
		if !taken[col] {
			columns = append(columns, col)
		}
	}

	rows := make([]map[string]string, 0, len(raw.Rows))
	for _, rawRow := range raw.Rows {
		row := make(map[string]string, len(columns))
		for _, canonical := range CanonicalColumns() {
			if rawCol, ok := claimed[canonical]; ok {
				row[canonical] = rawRow[rawCol]
			} else {
				row[canonical] = ""
			}
		}
		for _, col := range raw.Columns {
			if !taken[col] {
				row[col] = rawRow[col]
			}
		}
		rows = append(rows, row)
	}

	t := Table{Columns: columns, Rows: rows}

	var notices []string
	for _, critical := range criticalColumns {
		if _, ok := claimed[critical]; ok {
			continue
		}
		if t.uniformlyBlank(critical) {
			notices = append(notices, fmt.Sprintf(
				"column %q was not found in the backing store and has been added as a placeholder; report data for it may be missing (accepted spellings include %q)",
				critical, columnVariants[critical][0]))
		}
	}
	return t, notices
}

func (t Table) uniformlyBlank(column string) bool {
	for _, row := range t.Rows {
		if strings.TrimSpace(row[column]) != "" {
			return false
		}
	}
	return true
}
