package detect

import (
	"fmt"
	"math"
	"sort"

	"github.com/shelfguard/shelfguard/pkg/inventory"
)

// RepeatCountDetector flags products whose consecutive counts report the
// exact same positive quantity. Stock moves between counts; identical
// repeated figures suggest the shelf was never recounted.
type RepeatCountDetector struct{}

func (d *RepeatCountDetector) Key() string  { return "repeat_count" }
func (d *RepeatCountDetector) Name() string { return "Repeated identical counts" }

func (d *RepeatCountDetector) Evaluate(view *inventory.StoreView) Result {
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

		run := 1
		best := 1
		for i := 1; i < len(rows); i++ {
			prev, cur := rows[i-1], rows[i]
			if cur.CountQty > 0 && math.Abs(cur.CountQty-prev.CountQty) < balanceEpsilon {
				run++
				if run > best {
					best = run
				}
			} else {
				run = 1
			}
		}
		if best >= 2 {
			flagged++
			result.Findings = append(result.Findings, Finding{
				StoreID:     view.StoreID,
				ProductID:   sk.ProductID,
				ProductName: rows[0].ProductName,
				PeriodID:    sk.PeriodID,
				Severity:    SeverityLow,
				Summary:     fmt.Sprintf("same quantity %.0f reported in %d consecutive counts", rows[len(rows)-1].CountQty, best),
				Qty:         float64(best),
			})
		}
	}

	result.RawScore = clamp100(5 * float64(flagged))
	if flagged > 0 {
		result.Severity = SeverityLow
	}
	return result
}
