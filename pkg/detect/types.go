// Package detect implements the Shelfguard audit pattern detectors.
// Each detector independently evaluates one store's reconstructed counts and
// produces an explainable, evidence-backed raw score.
package detect

import (
	"math"

	"github.com/shelfguard/shelfguard/pkg/inventory"
)

// Detector is the interface that all pattern detectors implement.
type Detector interface {
	// Key returns the machine-readable rule identifier.
	Key() string
	// Name returns the human-readable rule name.
	Name() string
	// Evaluate computes the detector's raw score and findings for one store.
	Evaluate(view *inventory.StoreView) Result
}

// Result is the output of a single detector run against one store.
type Result struct {
	Key      string    `json:"key"`       // machine key: "internal_theft"
	Name     string    `json:"name"`      // human name: "Internal theft candidates"
	RawScore float64   `json:"raw_score"` // 0-100, scaled by the rule weight later
	Severity Severity  `json:"severity"`
	Findings []Finding `json:"findings"`
}

// Severity indicates how concerning a finding is.
type Severity string

const (
	SeverityVeryHigh Severity = "VERY_HIGH"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

// Finding is a single piece of concrete evidence backing a raw score.
type Finding struct {
	StoreID      string   `json:"store_id"`
	ProductID    string   `json:"product_id,omitempty"`
	ProductName  string   `json:"product_name,omitempty"`
	CategoryPath string   `json:"category_path,omitempty"`
	PeriodID     string   `json:"period_id,omitempty"`
	Severity     Severity `json:"severity"`
	Summary      string   `json:"summary"`          // human-readable explanation
	Qty          float64  `json:"qty,omitempty"`    // primary quantity evidence
	Amount       float64  `json:"amount,omitempty"` // monetary evidence
}

// clamp100 caps a raw score at the 0-100 scale.
func clamp100(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

// balanceEpsilon is the tolerance below which a quantity or amount is
// treated as balanced (zero).
const balanceEpsilon = 0.01
