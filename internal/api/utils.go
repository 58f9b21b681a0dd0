package api

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
)

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

// parseDecimalField validates one numeric form field. Required fields must
// parse; optional blank fields come back as zero.
func parseDecimalField(value string, required bool) (decimal.Decimal, bool) {
	if value == "" {
		if required {
			return decimal.Zero, false
		}
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
