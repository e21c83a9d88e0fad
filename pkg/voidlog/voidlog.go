// Package voidlog correlates internal-theft suspects with POS void-log
// entries. It is an investigative aid: its output annotates findings and
// never feeds back into scores.
package voidlog

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Record is one void-log line exported from the POS system.
type Record struct {
	StoreID       string  `json:"store_id"`
	TransactionID string  `json:"transaction_id"`
	ProductID     string  `json:"product_id"`
	ProductName   string  `json:"product_name,omitempty"`
	CategoryPath  string  `json:"category_path,omitempty"`
	UnitPrice     float64 `json:"unit_price"`
	Qty           float64 `json:"qty"`
	Amount        float64 `json:"amount"`
	// VoidedAt is the raw export timestamp; formats vary by POS version.
	VoidedAt string `json:"voided_at"`
}

// Request carries one suspect to correlate. All inputs travel in the
// request; the correlator holds no state between calls.
type Request struct {
	StoreID      string
	ProductID    string
	CategoryPath string
	AuditDate    time.Time
	WindowDays   int
	PriceFloor   float64 // gate for the same-category fallback search
}

// Match is one correlated void entry.
type Match struct {
	Record   Record    `json:"record"`
	VoidedAt time.Time `json:"voided_at"`
	Register string    `json:"register,omitempty"`
	Fallback bool      `json:"fallback"` // matched by category, not product
}

// Correlation is the result of a lookup.
type Correlation struct {
	Matches []Match `json:"matches"`
	Message string  `json:"message,omitempty"` // set when nothing correlated
}

// POS exports have produced several date shapes over the years; try them in
// order of how common they are.
var dateLayouts = []string{"02.01.2006", "2006-01-02", "02/01/2006"}

// maxMatches bounds how many correlated voids are reported per suspect.
const maxMatches = 3

// ParseVoidDate parses a void-log timestamp, trying each known layout.
func ParseVoidDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if idx := strings.IndexByte(raw, ' '); idx > 0 {
		raw = raw[:idx] // drop a trailing time-of-day component
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RegisterOf extracts the register number embedded in a transaction ID.
func RegisterOf(transactionID string) string {
	if len(transactionID) >= 6 {
		return transactionID[4:6]
	}
	return ""
}

// Correlate finds void entries that could explain a suspect's shortage:
// voids of the same product in the same store within the lookback window,
// most recent first. When the product itself never appears, it falls back
// to same-category products above the price floor.
func Correlate(req Request, records []Record) Correlation {
	if req.WindowDays <= 0 {
		req.WindowDays = 15
	}
	windowStart := req.AuditDate.AddDate(0, 0, -req.WindowDays)

	var direct, fallback []Match
	for _, rec := range records {
		if rec.StoreID != req.StoreID {
			continue
		}
		voidedAt, ok := ParseVoidDate(rec.VoidedAt)
		if !ok {
			continue
		}
		if voidedAt.Before(windowStart) || voidedAt.After(req.AuditDate) {
			continue
		}

		m := Match{Record: rec, VoidedAt: voidedAt, Register: RegisterOf(rec.TransactionID)}
		switch {
		case rec.ProductID == req.ProductID:
			direct = append(direct, m)
		case req.CategoryPath != "" && rec.CategoryPath == req.CategoryPath && rec.UnitPrice >= req.PriceFloor:
			m.Fallback = true
			fallback = append(fallback, m)
		}
	}

	byRecency := func(ms []Match) {
		sort.Slice(ms, func(i, j int) bool { return ms[i].VoidedAt.After(ms[j].VoidedAt) })
	}

	if len(direct) > 0 {
		byRecency(direct)
		if len(direct) > maxMatches {
			direct = direct[:maxMatches]
		}
		return Correlation{Matches: direct}
	}
	if len(fallback) > 0 {
		byRecency(fallback)
		if len(fallback) > maxMatches {
			fallback = fallback[:maxMatches]
		}
		return Correlation{Matches: fallback}
	}
	return Correlation{
		Message: fmt.Sprintf("no correlated void found for product %s within %d days of %s",
			req.ProductID, req.WindowDays, req.AuditDate.Format("2006-01-02")),
	}
}
