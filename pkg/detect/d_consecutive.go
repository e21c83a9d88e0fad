package detect

import (
	"fmt"
	"sort"

	"github.com/shelfguard/shelfguard/pkg/inventory"
)

// ConsecutiveLossDetector flags products whose selected loss counter stays
// below a floor across two adjacent count indexes. It is the shared
// machinery behind the chronic shortage and chronic shrinkage rules; the
// counter under inspection is a field selector, not a hard-coded column.
type ConsecutiveLossDetector struct {
	RuleKey  string
	RuleName string
	Floor    float64 // per-count loss threshold, negative
	Field    func(*inventory.Delta) float64
}

// NewChronicShortageDetector watches the per-count variance amount.
func NewChronicShortageDetector(floor float64) *ConsecutiveLossDetector {
	return &ConsecutiveLossDetector{
		RuleKey:  "chronic_shortage",
		RuleName: "Chronic consecutive shortage",
		Floor:    floor,
		Field:    func(d *inventory.Delta) float64 { return d.VarianceAmount },
	}
}

// NewChronicShrinkageDetector watches the per-count shrinkage amount.
func NewChronicShrinkageDetector(floor float64) *ConsecutiveLossDetector {
	return &ConsecutiveLossDetector{
		RuleKey:  "chronic_shrinkage",
		RuleName: "Chronic consecutive shrinkage",
		Floor:    floor,
		Field:    func(d *inventory.Delta) float64 { return d.ShrinkageAmount },
	}
}

func (d *ConsecutiveLossDetector) Key() string  { return d.RuleKey }
func (d *ConsecutiveLossDetector) Name() string { return d.RuleName }

func (d *ConsecutiveLossDetector) Evaluate(view *inventory.StoreView) Result {
	result := Result{Key: d.Key(), Name: d.Name(), Severity: SeverityInfo}

	series := make(map[inventory.SeriesKey][]*inventory.Delta)
	var order []inventory.SeriesKey
	for i := range view.Rows {
		row := &view.Rows[i]
		sk := row.Series()
		if _, ok := series[sk]; !ok {
			order = append(order, sk)
		}
		series[sk] = append(series[sk], row)
	}

	flagged := 0
	for _, sk := range order {
		rows := series[sk]
		sort.Slice(rows, func(i, j int) bool { return rows[i].CountIndex < rows[j].CountIndex })

		for i := 1; i < len(rows); i++ {
			prev, cur := rows[i-1], rows[i]
			// A gap in count indexes is not adjacency.
			if cur.CountIndex != prev.CountIndex+1 {
				continue
			}
			if d.Field(prev) < d.Floor && d.Field(cur) < d.Floor {
				flagged++
				result.Findings = append(result.Findings, Finding{
					StoreID:     view.StoreID,
					ProductID:   sk.ProductID,
					ProductName: cur.ProductName,
					PeriodID:    sk.PeriodID,
					Severity:    SeverityHigh,
					Summary: fmt.Sprintf("loss %.0f then %.0f across counts %d-%d",
						d.Field(prev), d.Field(cur), prev.CountIndex, cur.CountIndex),
					Amount: d.Field(prev) + d.Field(cur),
				})
				break // one flag per product
			}
		}
	}

	result.RawScore = clamp100(10 * float64(flagged))
	if flagged > 0 {
		result.Severity = SeverityHigh
	}
	return result
}
