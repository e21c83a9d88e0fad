package detect

import (
	"fmt"
	"math"

	"github.com/shelfguard/shelfguard/pkg/inventory"
)

// ShrinkManipulationDetector flags products where shrinkage is written off
// while the variance counters move in the opposite direction: booking loss
// as shrinkage while the count shows a surplus hides where stock went.
type ShrinkManipulationDetector struct{}

func (d *ShrinkManipulationDetector) Key() string  { return "shrink_manipulation" }
func (d *ShrinkManipulationDetector) Name() string { return "Shrinkage manipulation" }

func (d *ShrinkManipulationDetector) Evaluate(view *inventory.StoreView) Result {
	result := Result{Key: d.Key(), Name: d.Name(), Severity: SeverityInfo}

	type agg struct {
		name       string
		netVar     float64
		suspicious bool // some count wrote shrinkage against a surplus
	}
	byProduct := make(map[inventory.SeriesKey]*agg)
	var order []inventory.SeriesKey

	for i := range view.Rows {
		row := &view.Rows[i]
		sk := row.Series()
		a, ok := byProduct[sk]
		if !ok {
			a = &agg{name: row.ProductName}
			byProduct[sk] = a
			order = append(order, sk)
		}
		a.netVar += row.NetVarianceAmount()
		if row.ShrinkageAmount < 0 && row.VarianceAmount+row.PartialAmount > 0 {
			a.suspicious = true
		}
	}

	flagged := 0
	for _, sk := range order {
		a := byProduct[sk]
		if !a.suspicious {
			continue
		}
		// If the variance balances out over the period it was a timing
		// artifact, not manipulation.
		if math.Abs(a.netVar) <= balanceEpsilon {
			continue
		}
		flagged++
		result.Findings = append(result.Findings, Finding{
			StoreID:     view.StoreID,
			ProductID:   sk.ProductID,
			ProductName: a.name,
			PeriodID:    sk.PeriodID,
			Severity:    SeverityMedium,
			Summary:     fmt.Sprintf("shrinkage written against count surplus, period net %.2f", a.netVar),
			Amount:      a.netVar,
		})
	}

	result.RawScore = clamp100(10 * float64(flagged))
	if flagged > 0 {
		result.Severity = SeverityMedium
	}
	return result
}
