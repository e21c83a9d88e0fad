package detect

import (
	"fmt"

	"github.com/shelfguard/shelfguard/pkg/inventory"
)

// CountDisciplineDetector measures whether perishable categories are being
// counted as often as the audit calendar expects. A store that never counts
// its produce section cannot surface loss there.
type CountDisciplineDetector struct {
	Groups []string // category keywords defining the perishable scope
}

func (d *CountDisciplineDetector) Key() string  { return "count_discipline" }
func (d *CountDisciplineDetector) Name() string { return "Count discipline" }

// Weighting between never-counted and under-counted products, and the bonus
// applied when the entire scope went uncounted.
const (
	disciplineZeroWeight = 0.65
	disciplineMissWeight = 0.35
	disciplineZeroBonus  = 15
	disciplineMaxCounts  = 4
)

func (d *CountDisciplineDetector) Evaluate(view *inventory.StoreView) Result {
	result := Result{Key: d.Key(), Name: d.Name(), Severity: SeverityInfo}
	keywords := foldAll(d.Groups)

	// Observed genuine counts per scope product. A row only counts as a
	// performed count when something was actually tallied.
	observed := make(map[inventory.SeriesKey]int)
	names := make(map[inventory.SeriesKey]string)
	maxIndex := 0
	for i := range view.Rows {
		row := &view.Rows[i]
		if !containsAny(Fold(row.CategoryPath), keywords) {
			continue
		}
		sk := row.Series()
		if _, ok := observed[sk]; !ok {
			observed[sk] = 0
			names[sk] = row.ProductName
		}
		if row.CountQty > 0 {
			observed[sk]++
		}
		if row.CountIndex > maxIndex {
			maxIndex = row.CountIndex
		}
	}
	if len(observed) == 0 {
		return result
	}

	expected := maxIndex
	if expected > disciplineMaxCounts {
		expected = disciplineMaxCounts
	}
	if expected < 1 {
		expected = 1
	}

	var zero, missed int
	for sk, n := range observed {
		switch {
		case n == 0:
			zero++
			result.Findings = append(result.Findings, Finding{
				StoreID:     view.StoreID,
				ProductID:   sk.ProductID,
				ProductName: names[sk],
				PeriodID:    sk.PeriodID,
				Severity:    SeverityHigh,
				Summary:     "perishable product never counted this period",
			})
		case n < expected:
			missed++
		}
	}

	total := float64(len(observed))
	r0 := float64(zero) / total
	rmiss := float64(missed) / total

	raw := 100 * (disciplineZeroWeight*r0 + disciplineMissWeight*rmiss)
	if zero == len(observed) {
		raw += disciplineZeroBonus
	}
	result.RawScore = clamp100(raw)

	switch {
	case r0 >= 0.5:
		result.Severity = SeverityHigh
	case result.RawScore > 0:
		result.Severity = SeverityMedium
	}
	if result.RawScore > 0 {
		result.Findings = append(result.Findings, Finding{
			StoreID:  view.StoreID,
			Severity: result.Severity,
			Summary: fmt.Sprintf("%d of %d perishable products never counted, %d under-counted (expected %d counts)",
				zero, len(observed), missed, expected),
			Qty: float64(zero + missed),
		})
	}
	return result
}
