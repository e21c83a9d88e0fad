package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shelfguard/shelfguard/pkg/config"
	"github.com/shelfguard/shelfguard/pkg/detect"
	"github.com/shelfguard/shelfguard/pkg/inventory"
)

// Engine runs all configured detectors against a store view and produces a
// Scorecard.
type Engine struct {
	detectors []detect.Detector
	weights   map[string]float64
	cutoffs   config.CutoffConfig
}

// NewEngine creates a scoring engine with the given detectors and the
// weights and cutoffs from the configuration.
func NewEngine(cfg *config.Config, detectors ...detect.Detector) *Engine {
	return &Engine{
		detectors: detectors,
		weights:   cfg.Scoring.Weights,
		cutoffs:   cfg.Scoring.Cutoffs,
	}
}

// ScoreStore evaluates all detectors against one store. A detector that
// panics is recorded as degraded and contributes zero; one broken rule must
// never take down the store's card.
func (e *Engine) ScoreStore(view *inventory.StoreView) (*Scorecard, error) {
	if view == nil {
		return nil, fmt.Errorf("store view is nil")
	}

	card := &Scorecard{
		StoreID:    view.StoreID,
		Manager:    view.Manager,
		Region:     view.Region,
		Periods:    view.Periods(),
		SalesTotal: view.SalesTotal,
	}

	var sumContribution, sumWeight float64
	for _, d := range e.detectors {
		weight, ok := e.weights[d.Key()]
		if !ok {
			continue // unweighted rules don't participate
		}
		sumWeight += weight

		result, failed := evaluateSafely(d, view)
		rs := RuleScore{
			Key:             d.Key(),
			Name:            d.Name(),
			MaxContribution: weight,
			Severity:        detect.SeverityInfo,
		}
		if failed {
			rs.Degraded = true
		} else {
			rs.RawScore = result.RawScore
			rs.Severity = result.Severity
			rs.Findings = result.Findings
			rs.Contribution = result.RawScore / 100 * weight
		}
		sumContribution += rs.Contribution
		card.Breakdown = append(card.Breakdown, rs)
	}

	if sumWeight > 0 {
		card.TotalScore = math.Min(100, sumContribution/sumWeight*100)
	}
	card.Classification = Classify(card.TotalScore, e.cutoffs)
	card.TopRules = topRules(card.Breakdown, 3)
	card.Diagnosis = diagnose(card)
	return card, nil
}

// evaluateSafely isolates a detector run so a panic in one rule cannot
// abort the store.
func evaluateSafely(d detect.Detector, view *inventory.StoreView) (result detect.Result, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			result = detect.Result{Key: d.Key(), Name: d.Name()}
			failed = true
		}
	}()
	return d.Evaluate(view), false
}

// topRules returns the keys of the n largest positive contributions.
func topRules(breakdown []RuleScore, n int) []string {
	sorted := make([]RuleScore, len(breakdown))
	copy(sorted, breakdown)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Contribution > sorted[j].Contribution
	})

	var keys []string
	for _, rs := range sorted {
		if rs.Contribution <= 0 {
			break
		}
		keys = append(keys, rs.Key)
		if len(keys) == n {
			break
		}
	}
	return keys
}

// diagnose writes the one-sentence human summary for a scorecard.
func diagnose(card *Scorecard) string {
	if len(card.TopRules) == 0 {
		return "No significant risk patterns detected."
	}

	names := make(map[string]string, len(card.Breakdown))
	for _, rs := range card.Breakdown {
		names[rs.Key] = rs.Name
	}
	var parts []string
	for _, key := range card.TopRules {
		parts = append(parts, names[key])
	}

	var lead string
	switch card.Classification {
	case ClassCritical:
		lead = "Critical risk"
	case ClassRisky:
		lead = "Elevated risk"
	case ClassCaution:
		lead = "Moderate risk"
	default:
		lead = "Low risk"
	}

	if len(parts) == 1 {
		return fmt.Sprintf("%s driven by %s.", lead, parts[0])
	}
	return fmt.Sprintf("%s driven by %s and %s.",
		lead, strings.Join(parts[:len(parts)-1], ", "), parts[len(parts)-1])
}
