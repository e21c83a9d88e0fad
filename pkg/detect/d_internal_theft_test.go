package detect_test

import (
	"testing"

	"github.com/shelfguard/shelfguard/pkg/detect"
	"github.com/shelfguard/shelfguard/pkg/inventory"
)

func theftRow(product string, price, varianceQty, voidedQty float64) inventory.Delta {
	return inventory.Delta{Event: inventory.Event{
		StoreID:     "S1",
		ProductID:   product,
		PeriodID:    "2024-05",
		CountIndex:  1,
		UnitPrice:   price,
		VarianceQty: varianceQty,
		VoidedQty:   voidedQty,
	}}
}

func TestInternalTheft_ResidualTiers(t *testing.T) {
	// Voided quantities arrive negative, same sign as the variance.
	tests := []struct {
		name     string
		shortage float64 // negative net variance qty
		voided   float64
		wantTier detect.Severity
		flagged  bool
	}{
		{name: "exact match", shortage: -5, voided: -5, wantTier: detect.SeverityVeryHigh, flagged: true},
		{name: "residual 1", shortage: -5, voided: -4, wantTier: detect.SeverityHigh, flagged: true},
		{name: "residual 4", shortage: -5, voided: -9, wantTier: detect.SeverityMedium, flagged: true},
		{name: "residual 6", shortage: -5, voided: -11, wantTier: detect.SeverityLow, flagged: true},
		{name: "residual 15", shortage: -5, voided: -20, flagged: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := &detect.InternalTheftDetector{PriceFloor: 100}
			view := &inventory.StoreView{
				StoreID: "S1",
				Rows:    []inventory.Delta{theftRow("P1", 150, tc.shortage, tc.voided)},
			}
			result := d.Evaluate(view)

			if !tc.flagged {
				if len(result.Findings) != 0 {
					t.Fatalf("expected no findings, got %d", len(result.Findings))
				}
				return
			}
			if len(result.Findings) != 1 {
				t.Fatalf("expected 1 finding, got %d", len(result.Findings))
			}
			if result.Findings[0].Severity != tc.wantTier {
				t.Errorf("expected tier %s, got %s", tc.wantTier, result.Findings[0].Severity)
			}
		})
	}
}

func TestInternalTheft_SkipsCheapAndBalanced(t *testing.T) {
	d := &detect.InternalTheftDetector{PriceFloor: 100}
	view := &inventory.StoreView{
		StoreID: "S1",
		Rows: []inventory.Delta{
			theftRow("CHEAP", 20, -6, -6),   // below price floor
			theftRow("BAL", 150, 0, -6),     // balanced
			theftRow("SURPLUS", 150, 6, -6), // positive net
			theftRow("NOVOID", 150, -6, 0),  // nothing voided
		},
	}
	result := d.Evaluate(view)
	if len(result.Findings) != 0 {
		t.Errorf("expected no findings, got %d", len(result.Findings))
	}
	if result.RawScore != 0 {
		t.Errorf("expected raw score 0, got %f", result.RawScore)
	}
}

func TestInternalTheft_RawScore(t *testing.T) {
	// Two suspects, one of them exact: 2*2 + 8*1 = 12.
	d := &detect.InternalTheftDetector{PriceFloor: 100}
	view := &inventory.StoreView{
		StoreID: "S1",
		Rows: []inventory.Delta{
			theftRow("P1", 150, -6, -6), // exact
			theftRow("P2", 150, -9, -6), // residual 3
		},
	}
	result := d.Evaluate(view)
	if result.RawScore != 12 {
		t.Errorf("expected raw score 12, got %f", result.RawScore)
	}
	if result.Severity != detect.SeverityVeryHigh {
		t.Errorf("expected VERY_HIGH severity, got %s", result.Severity)
	}
	// Exact match sorts first.
	if result.Findings[0].ProductID != "P1" {
		t.Errorf("expected exact match first, got %s", result.Findings[0].ProductID)
	}
}

func TestInternalTheft_AggregatesAcrossCounts(t *testing.T) {
	// -2 then -4 across counts with 6 voided total: exact at product level.
	r1 := theftRow("P1", 150, -2, -4)
	r2 := theftRow("P1", 150, -4, -2)
	r2.CountIndex = 2
	d := &detect.InternalTheftDetector{PriceFloor: 100}
	result := d.Evaluate(&inventory.StoreView{StoreID: "S1", Rows: []inventory.Delta{r1, r2}})

	if len(result.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(result.Findings))
	}
	if result.Findings[0].Severity != detect.SeverityVeryHigh {
		t.Errorf("expected VERY_HIGH from aggregated counts, got %s", result.Findings[0].Severity)
	}
}
