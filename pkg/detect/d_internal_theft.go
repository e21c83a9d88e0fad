package detect

import (
	"fmt"
	"math"
	"sort"

	"github.com/shelfguard/shelfguard/pkg/inventory"
)

// InternalTheftDetector flags products whose shortage is suspiciously close
// to the quantity voided at the register: high-priced items where the net
// shortage nearly matches the voided count suggest voided-then-taken goods.
type InternalTheftDetector struct {
	PriceFloor float64 // only screen products at or above this unit price
}

func (d *InternalTheftDetector) Key() string  { return "internal_theft" }
func (d *InternalTheftDetector) Name() string { return "Internal theft candidates" }

// Residual tiers. A residual is how far the net shortage sits from the
// voided quantity; the closer to zero, the stronger the signal.
const (
	theftResidualExact = balanceEpsilon
	theftResidualHigh  = 2.0
	theftResidualMed   = 5.0
	theftResidualLow   = 10.0
)

type theftCandidate struct {
	productID   string
	productName string
	category    string
	periodID    string
	net         float64
	voided      float64
	residual    float64
	tier        Severity
}

func (d *InternalTheftDetector) Evaluate(view *inventory.StoreView) Result {
	result := Result{Key: d.Key(), Name: d.Name(), Severity: SeverityInfo}

	type agg struct {
		name     string
		category string
		net      float64
		voided   float64
	}
	byProduct := make(map[inventory.SeriesKey]*agg)
	var order []inventory.SeriesKey

	for i := range view.Rows {
		row := &view.Rows[i]
		if row.UnitPrice < d.PriceFloor {
			continue
		}
		sk := row.Series()
		a, ok := byProduct[sk]
		if !ok {
			a = &agg{name: row.ProductName, category: row.CategoryPath}
			byProduct[sk] = a
			order = append(order, sk)
		}
		a.net += row.NetVarianceQty()
		a.voided += row.VoidedQty
	}

	var candidates []theftCandidate
	var exact int
	for _, sk := range order {
		a := byProduct[sk]
		if math.Abs(a.net) <= balanceEpsilon {
			continue // balanced, nothing missing
		}
		if a.net >= 0 || math.Abs(a.voided) <= balanceEpsilon {
			continue
		}
		// Voided-line quantities carry the same sign as the variance in POS
		// exports: a residual near zero means the shortage is fully explained
		// by voids.
		residual := math.Abs(a.net - a.voided)

		var tier Severity
		switch {
		case residual <= theftResidualExact:
			tier = SeverityVeryHigh
			exact++
		case residual <= theftResidualHigh:
			tier = SeverityHigh
		case residual <= theftResidualMed:
			tier = SeverityMedium
		case residual <= theftResidualLow:
			tier = SeverityLow
		default:
			continue
		}
		candidates = append(candidates, theftCandidate{
			productID:   sk.ProductID,
			productName: a.name,
			category:    a.category,
			periodID:    sk.PeriodID,
			net:         a.net,
			voided:      a.voided,
			residual:    residual,
			tier:        tier,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].residual < candidates[j].residual
	})

	for _, c := range candidates {
		result.Findings = append(result.Findings, Finding{
			StoreID:      view.StoreID,
			ProductID:    c.productID,
			ProductName:  c.productName,
			CategoryPath: c.category,
			PeriodID:     c.periodID,
			Severity:     c.tier,
			Summary: fmt.Sprintf("shortage %.1f vs voided %.1f (residual %.2f)",
				math.Abs(c.net), math.Abs(c.voided), c.residual),
			Qty: c.residual,
		})
	}

	result.RawScore = clamp100(2*float64(len(candidates)) + 8*float64(exact))
	switch {
	case exact > 0:
		result.Severity = SeverityVeryHigh
	case len(candidates) > 0:
		result.Severity = SeverityHigh
	}
	return result
}
