package detect

import (
	"fmt"
	"math"
	"sort"

	"github.com/shelfguard/shelfguard/pkg/inventory"
)

// CheckoutActivityDetector watches a fixed set of checkout-lane impulse
// products (gum, candy, lighters). These move through the register
// constantly; net movement excludes prior-period corrections because only
// in-period register activity matters. A surplus is the stronger signal:
// extra stock at the lane means sales rung on the wrong code, a classic
// sweethearting cover.
type CheckoutActivityDetector struct {
	ProductIDs []string
}

func (d *CheckoutActivityDetector) Key() string  { return "checkout_activity" }
func (d *CheckoutActivityDetector) Name() string { return "Checkout-lane activity" }

// Store-level bands on the summed absolute net quantity.
const (
	checkoutBandHigh = 20.0
	checkoutBandMid  = 10.0
)

func (d *CheckoutActivityDetector) Evaluate(view *inventory.StoreView) Result {
	result := Result{Key: d.Key(), Name: d.Name(), Severity: SeverityInfo}
	if len(d.ProductIDs) == 0 {
		return result
	}

	lane := make(map[string]bool, len(d.ProductIDs))
	for _, id := range d.ProductIDs {
		lane[id] = true
	}

	type agg struct {
		id     string
		name   string
		netQty float64
		netAmt float64
	}
	byProduct := make(map[string]*agg)
	var order []string
	for i := range view.Rows {
		row := &view.Rows[i]
		if !lane[row.ProductID] {
			continue
		}
		a, ok := byProduct[row.ProductID]
		if !ok {
			a = &agg{id: row.ProductID, name: row.ProductName}
			byProduct[row.ProductID] = a
			order = append(order, row.ProductID)
		}
		// Prior-period corrections deliberately excluded.
		a.netQty += row.VarianceQty + row.PartialQty
		a.netAmt += row.VarianceAmount + row.PartialAmount
	}

	var flagged []*agg
	var totalAbs float64
	anySurplus := false
	for _, id := range order {
		a := byProduct[id]
		if math.Abs(a.netQty) <= balanceEpsilon {
			continue
		}
		flagged = append(flagged, a)
		totalAbs += math.Abs(a.netQty)
		if a.netQty > 0 {
			anySurplus = true
		}
	}
	if len(flagged) == 0 {
		return result
	}

	// Surpluses first, largest movement first within each sign.
	sort.Slice(flagged, func(i, j int) bool {
		si, sj := flagged[i].netQty > 0, flagged[j].netQty > 0
		if si != sj {
			return si
		}
		return math.Abs(flagged[i].netQty) > math.Abs(flagged[j].netQty)
	})

	for _, a := range flagged {
		severity := SeverityMedium
		direction := "short"
		if a.netQty > 0 {
			severity = SeverityHigh
			direction = "surplus"
		}
		result.Findings = append(result.Findings, Finding{
			StoreID:     view.StoreID,
			ProductID:   a.id,
			ProductName: a.name,
			Severity:    severity,
			Summary:     fmt.Sprintf("checkout product %s %.1f units (%.2f)", direction, math.Abs(a.netQty), a.netAmt),
			Qty:         a.netQty,
			Amount:      a.netAmt,
		})
	}

	switch {
	case totalAbs > checkoutBandHigh:
		result.RawScore = 100
	case totalAbs > checkoutBandMid:
		result.RawScore = 60
	default:
		result.RawScore = 30
	}
	if anySurplus {
		result.Severity = SeverityHigh
	} else {
		result.Severity = SeverityMedium
	}
	return result
}
