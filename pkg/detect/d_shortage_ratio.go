package detect

import (
	"fmt"

	"github.com/shelfguard/shelfguard/pkg/inventory"
)

// ShortageRatioDetector compares a store's loss-to-sales ratio against its
// region baseline. The baseline comes from the scoring engine, which sees
// every store; the detector itself stays per-store.
type ShortageRatioDetector struct {
	// RegionRatio returns the baseline loss ratio for a region, or 0 when
	// no baseline is known (detector then stays silent).
	RegionRatio func(region string) float64
}

func (d *ShortageRatioDetector) Key() string  { return "shortage_ratio" }
func (d *ShortageRatioDetector) Name() string { return "Loss ratio vs region" }

// Interpolation anchors: multiples of the region baseline mapped to raw
// scores. Linear between anchors.
var shortageRatioAnchors = []struct {
	multiple float64
	raw      float64
}{
	{0.5, 0},
	{1.0, 20},
	{1.5, 45},
	{2.0, 70},
	{2.5, 100},
}

// LossRatio is a store's absolute combined variance and shrinkage over sales.
func LossRatio(view *inventory.StoreView) float64 {
	if view.SalesTotal <= 0 {
		return 0
	}
	var loss float64
	for i := range view.Rows {
		loss += view.Rows[i].VarianceAmount + view.Rows[i].ShrinkageAmount
	}
	if loss > 0 {
		return 0
	}
	return -loss / view.SalesTotal
}

func (d *ShortageRatioDetector) Evaluate(view *inventory.StoreView) Result {
	result := Result{Key: d.Key(), Name: d.Name(), Severity: SeverityInfo}
	if d.RegionRatio == nil {
		return result
	}
	baseline := d.RegionRatio(view.Region)
	if baseline <= 0 {
		return result
	}

	ratio := LossRatio(view)
	multiple := ratio / baseline
	result.RawScore = interpolateRatio(multiple)
	if result.RawScore == 0 {
		return result
	}

	switch {
	case result.RawScore >= 70:
		result.Severity = SeverityHigh
	case result.RawScore >= 45:
		result.Severity = SeverityMedium
	default:
		result.Severity = SeverityLow
	}
	result.Findings = append(result.Findings, Finding{
		StoreID:  view.StoreID,
		Severity: result.Severity,
		Summary: fmt.Sprintf("loss ratio %.2f%% is %.1fx the region baseline %.2f%%",
			ratio*100, multiple, baseline*100),
		Qty: multiple,
	})
	return result
}

func interpolateRatio(multiple float64) float64 {
	anchors := shortageRatioAnchors
	if multiple <= anchors[0].multiple {
		return anchors[0].raw
	}
	last := anchors[len(anchors)-1]
	if multiple >= last.multiple {
		return last.raw
	}
	for i := 1; i < len(anchors); i++ {
		lo, hi := anchors[i-1], anchors[i]
		if multiple <= hi.multiple {
			t := (multiple - lo.multiple) / (hi.multiple - lo.multiple)
			return lo.raw + t*(hi.raw-lo.raw)
		}
	}
	return last.raw
}
