// Package scoring implements the Shelfguard store risk scoring engine.
// It converts detector raw scores into weighted contributions and produces
// explainable, evidence-backed store scorecards.
package scoring

import (
	"github.com/shelfguard/shelfguard/pkg/config"
	"github.com/shelfguard/shelfguard/pkg/detect"
)

// Scorecard is the complete scoring output for one store.
// Immutable once computed.
type Scorecard struct {
	StoreID        string         `json:"store_id"`
	Manager        string         `json:"manager,omitempty"`
	Region         string         `json:"region,omitempty"`
	Periods        []string       `json:"periods,omitempty"`
	SalesTotal     float64        `json:"sales_total"`
	TotalScore     float64        `json:"total_score"` // 0-100
	Classification Classification `json:"classification"`
	Breakdown      []RuleScore    `json:"breakdown"`
	TopRules       []string       `json:"top_rules"` // up to 3 rule keys by contribution
	Diagnosis      string         `json:"diagnosis"`
}

// RuleScore is one rule's weighted result on a scorecard.
type RuleScore struct {
	Key             string           `json:"key"`
	Name            string           `json:"name"`
	RawScore        float64          `json:"raw_score"`        // detector output, 0-100
	MaxContribution float64          `json:"max_contribution"` // rule weight
	Contribution    float64          `json:"contribution"`     // raw/100 * weight
	Severity        detect.Severity  `json:"severity"`
	Findings        []detect.Finding `json:"findings,omitempty"`
	// Degraded marks a detector that failed at runtime. It contributes
	// nothing; the rest of the scorecard stands.
	Degraded bool `json:"degraded,omitempty"`
}

// Classification buckets a store by its total score.
type Classification string

const (
	ClassCritical Classification = "CRITICAL"
	ClassRisky    Classification = "RISKY"
	ClassCaution  Classification = "CAUTION"
	ClassClean    Classification = "CLEAN"
)

// Classify maps a total score to a classification using the configured
// cutoffs.
func Classify(score float64, cutoffs config.CutoffConfig) Classification {
	switch {
	case score >= cutoffs.Critical:
		return ClassCritical
	case score >= cutoffs.Risky:
		return ClassRisky
	case score >= cutoffs.Caution:
		return ClassCaution
	default:
		return ClassClean
	}
}
