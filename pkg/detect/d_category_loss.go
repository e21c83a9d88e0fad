package detect

import (
	"fmt"
	"math"
	"sort"

	"github.com/shelfguard/shelfguard/pkg/inventory"
)

// CategoryLossDetector aggregates net loss over a regulated product category
// (tobacco by default). Matching runs on the category path only, never the
// product name, after diacritic folding; exclusion keywords carve out
// look-alike categories.
type CategoryLossDetector struct {
	Keywords []string
	Excludes []string
}

func (d *CategoryLossDetector) Key() string  { return "category_loss" }
func (d *CategoryLossDetector) Name() string { return "Regulated category shortage" }

// Line count above which the store-level raw score saturates.
const categoryLineSaturation = 5

func (d *CategoryLossDetector) Evaluate(view *inventory.StoreView) Result {
	result := Result{Key: d.Key(), Name: d.Name(), Severity: SeverityInfo}
	keywords := foldAll(d.Keywords)
	excludes := foldAll(d.Excludes)

	type agg struct {
		name   string
		netQty float64
		netAmt float64
	}
	byProduct := make(map[inventory.SeriesKey]*agg)
	var order []inventory.SeriesKey

	for i := range view.Rows {
		row := &view.Rows[i]
		folded := Fold(row.CategoryPath)
		if !containsAny(folded, keywords) || containsAny(folded, excludes) {
			continue
		}
		sk := row.Series()
		a, ok := byProduct[sk]
		if !ok {
			a = &agg{name: row.ProductName}
			byProduct[sk] = a
			order = append(order, sk)
		}
		a.netQty += row.NetVarianceQty()
		a.netAmt += row.NetVarianceAmount()
	}
	if len(byProduct) == 0 {
		return result
	}

	var totalQty, totalAmt float64
	var shortLines []inventory.SeriesKey
	for _, sk := range order {
		a := byProduct[sk]
		totalQty += a.netQty
		totalAmt += a.netAmt
		if a.netAmt < -balanceEpsilon {
			shortLines = append(shortLines, sk)
		}
	}

	// Only a net category shortage is reportable; a surplus or balance is not.
	if totalAmt >= -balanceEpsilon {
		return result
	}

	sort.Slice(shortLines, func(i, j int) bool {
		return byProduct[shortLines[i]].netAmt < byProduct[shortLines[j]].netAmt
	})
	for _, sk := range shortLines {
		a := byProduct[sk]
		result.Findings = append(result.Findings, Finding{
			StoreID:     view.StoreID,
			ProductID:   sk.ProductID,
			ProductName: a.name,
			PeriodID:    sk.PeriodID,
			Severity:    SeverityHigh,
			Summary:     fmt.Sprintf("category line short %.1f units (%.2f)", math.Abs(a.netQty), a.netAmt),
			Qty:         a.netQty,
			Amount:      a.netAmt,
		})
	}
	// Synthetic total line closes the report.
	result.Findings = append(result.Findings, Finding{
		StoreID:  view.StoreID,
		Severity: SeverityHigh,
		Summary:  fmt.Sprintf("TOTAL: category net %.1f units / %.2f across %d lines", totalQty, totalAmt, len(shortLines)),
		Qty:      totalQty,
		Amount:   totalAmt,
	})

	if len(shortLines) > categoryLineSaturation {
		result.RawScore = 100
	} else {
		result.RawScore = clamp100(20 * float64(len(shortLines)))
	}
	result.Severity = SeverityHigh
	return result
}
