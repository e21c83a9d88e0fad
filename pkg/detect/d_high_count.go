package detect

import (
	"fmt"

	"github.com/shelfguard/shelfguard/pkg/inventory"
)

// HighCountDetector flags single counts of implausibly large quantities.
// Bulk produce sold loose legitimately counts high, so products matching the
// exception keywords use the higher bulk floor.
type HighCountDetector struct {
	Floor        float64
	BulkFloor    float64
	BulkKeywords []string // matched against folded product names
}

func (d *HighCountDetector) Key() string  { return "high_count" }
func (d *HighCountDetector) Name() string { return "Implausibly high counts" }

func (d *HighCountDetector) Evaluate(view *inventory.StoreView) Result {
	result := Result{Key: d.Key(), Name: d.Name(), Severity: SeverityInfo}
	keywords := foldAll(d.BulkKeywords)

	n := 0
	for i := range view.Rows {
		row := &view.Rows[i]
		qty := row.CountQty
		floor := d.Floor
		if containsAny(Fold(row.ProductName), keywords) {
			floor = d.BulkFloor
		}
		if qty < floor {
			continue
		}
		n++
		result.Findings = append(result.Findings, Finding{
			StoreID:     view.StoreID,
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			PeriodID:    row.PeriodID,
			Severity:    SeverityMedium,
			Summary:     fmt.Sprintf("count %d recorded %.0f units in one pass", row.CountIndex, qty),
			Qty:         qty,
		})
	}

	result.RawScore = clamp100(5 * float64(n))
	if n > 0 {
		result.Severity = SeverityMedium
	}
	return result
}
