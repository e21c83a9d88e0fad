package detect

import (
	"fmt"
	"math"

	"github.com/shelfguard/shelfguard/pkg/family"
	"github.com/shelfguard/shelfguard/pkg/inventory"
)

// FamilyLossDetector groups product variants into families and separates
// code-confusion noise from families that are genuinely short.
type FamilyLossDetector struct{}

func (d *FamilyLossDetector) Key() string  { return "family_loss" }
func (d *FamilyLossDetector) Name() string { return "Product family net loss" }

func (d *FamilyLossDetector) Evaluate(view *inventory.StoreView) Result {
	result := Result{Key: d.Key(), Name: d.Name(), Severity: SeverityInfo}

	type agg struct {
		name  string
		group string
		net   float64
	}
	byProduct := make(map[string]*agg)
	var order []string
	for i := range view.Rows {
		row := &view.Rows[i]
		a, ok := byProduct[row.ProductID]
		if !ok {
			a = &agg{name: row.ProductName, group: row.ProductGroup}
			byProduct[row.ProductID] = a
			order = append(order, row.ProductID)
		}
		a.net += row.NetVarianceQty()
	}

	inputs := make([]family.Input, 0, len(order))
	for _, id := range order {
		a := byProduct[id]
		inputs = append(inputs, family.Input{
			ProductID:   id,
			ProductName: a.name,
			Group:       a.group,
			NetQty:      a.net,
		})
	}

	shortages := 0
	for _, f := range family.GroupProducts(inputs) {
		var severity Severity
		var summary string
		switch f.Class {
		case family.ClassNetShortage:
			shortages++
			severity = SeverityMedium
			summary = fmt.Sprintf("family short %.1f units across %d variants", math.Abs(f.NetQty), len(f.Members))
		case family.ClassCodeConfusion:
			severity = SeverityLow
			summary = fmt.Sprintf("variant code confusion, net %.1f across %d variants", f.NetQty, len(f.Members))
		default:
			severity = SeverityLow
			summary = fmt.Sprintf("family surplus %.1f units across %d variants", f.NetQty, len(f.Members))
		}
		result.Findings = append(result.Findings, Finding{
			StoreID:     view.StoreID,
			ProductName: f.Key,
			Severity:    severity,
			Summary:     summary,
			Qty:         f.NetQty,
		})
	}

	result.RawScore = clamp100(10 * float64(shortages))
	if shortages > 0 {
		result.Severity = SeverityMedium
	}
	return result
}
