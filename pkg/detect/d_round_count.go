package detect

import (
	"fmt"
	"math"

	"github.com/shelfguard/shelfguard/pkg/inventory"
)

// RoundCountDetector measures how often counted quantities land on multiples
// of five. Honest counts scatter; eyeballed ones cluster on round numbers.
type RoundCountDetector struct{}

func (d *RoundCountDetector) Key() string  { return "round_count" }
func (d *RoundCountDetector) Name() string { return "Round-number counts" }

// Proportion bands for the share of round counts among positive counts.
const (
	roundBandHigh = 0.35
	roundBandMid  = 0.20
	roundBandLow  = 0.10
)

func (d *RoundCountDetector) Evaluate(view *inventory.StoreView) Result {
	result := Result{Key: d.Key(), Name: d.Name(), Severity: SeverityInfo}

	var positive, round int
	for i := range view.Rows {
		qty := view.Rows[i].CountQty
		if qty <= 0 {
			continue
		}
		positive++
		if math.Mod(qty, 5) < balanceEpsilon {
			round++
		}
	}
	if positive == 0 {
		return result
	}

	p := float64(round) / float64(positive)
	switch {
	case p > roundBandHigh:
		result.RawScore = 100
		result.Severity = SeverityHigh
	case p > roundBandMid:
		result.RawScore = 62.5
		result.Severity = SeverityMedium
	case p > roundBandLow:
		result.RawScore = 25
		result.Severity = SeverityLow
	}

	if result.RawScore > 0 {
		result.Findings = append(result.Findings, Finding{
			StoreID:  view.StoreID,
			Severity: result.Severity,
			Summary:  fmt.Sprintf("%.0f%% of positive counts are multiples of five (%d of %d)", p*100, round, positive),
			Qty:      p,
		})
	}
	return result
}
