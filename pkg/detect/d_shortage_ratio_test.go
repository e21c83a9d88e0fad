package detect_test

import (
	"math"
	"testing"

	"github.com/shelfguard/shelfguard/pkg/detect"
	"github.com/shelfguard/shelfguard/pkg/inventory"
)

func lossView(sales, varianceAmt, shrinkageAmt float64) *inventory.StoreView {
	return &inventory.StoreView{
		StoreID:    "S1",
		Region:     "EGE",
		SalesTotal: sales,
		Rows: []inventory.Delta{
			{Event: inventory.Event{
				StoreID: "S1", ProductID: "P1", PeriodID: "2024-05", CountIndex: 1,
				VarianceAmount:  varianceAmt,
				ShrinkageAmount: shrinkageAmt,
			}},
		},
	}
}

func TestLossRatio(t *testing.T) {
	if got := detect.LossRatio(lossView(1000, -80, -20)); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("LossRatio = %f, want 0.1", got)
	}
	if got := detect.LossRatio(lossView(0, -80, -20)); got != 0 {
		t.Errorf("zero sales must give ratio 0, got %f", got)
	}
	if got := detect.LossRatio(lossView(1000, 50, 10)); got != 0 {
		t.Errorf("net surplus must give ratio 0, got %f", got)
	}
}

func TestShortageRatio_SilentWithoutBaseline(t *testing.T) {
	view := lossView(1000, -200, 0)

	d := &detect.ShortageRatioDetector{}
	if result := d.Evaluate(view); result.RawScore != 0 || len(result.Findings) != 0 {
		t.Errorf("nil baseline func must stay silent, got %+v", result)
	}

	d = &detect.ShortageRatioDetector{RegionRatio: func(string) float64 { return 0 }}
	if result := d.Evaluate(view); result.RawScore != 0 || len(result.Findings) != 0 {
		t.Errorf("zero baseline must stay silent, got %+v", result)
	}
}

func TestShortageRatio_AnchorInterpolation(t *testing.T) {
	// Region baseline 5%: the store's loss ratio is swept across multiples
	// of it.
	d := &detect.ShortageRatioDetector{RegionRatio: func(string) float64 { return 0.05 }}

	cases := []struct {
		lossAmt float64 // against sales of 1000
		want    float64
	}{
		{-25, 0},      // 0.5x baseline
		{-50, 20},     // 1.0x
		{-62.5, 32.5}, // 1.25x, midway between anchors
		{-75, 45},     // 1.5x
		{-100, 70},    // 2.0x
		{-125, 100},   // 2.5x
		{-300, 100},   // saturated
	}
	for _, tc := range cases {
		result := d.Evaluate(lossView(1000, tc.lossAmt, 0))
		if math.Abs(result.RawScore-tc.want) > 1e-9 {
			t.Errorf("loss %.1f: raw = %f, want %f", tc.lossAmt, result.RawScore, tc.want)
		}
	}
}

func TestShortageRatio_SeverityAndFinding(t *testing.T) {
	d := &detect.ShortageRatioDetector{RegionRatio: func(region string) float64 {
		if region != "EGE" {
			return 0
		}
		return 0.05
	}}

	result := d.Evaluate(lossView(1000, -100, 0))
	if result.Severity != detect.SeverityHigh {
		t.Errorf("2x baseline severity = %s, want HIGH", result.Severity)
	}
	if len(result.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(result.Findings))
	}
	if math.Abs(result.Findings[0].Qty-2.0) > 1e-9 {
		t.Errorf("finding qty (multiple) = %f, want 2.0", result.Findings[0].Qty)
	}
}
