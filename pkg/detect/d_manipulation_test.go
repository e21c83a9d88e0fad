package detect_test

import (
	"math"
	"testing"

	"github.com/shelfguard/shelfguard/pkg/detect"
	"github.com/shelfguard/shelfguard/pkg/inventory"
)

func manipRow(product string, index int, varAmt, shrinkAmt float64) inventory.Delta {
	return inventory.Delta{Event: inventory.Event{
		StoreID:         "S1",
		ProductID:       product,
		ProductName:     product,
		PeriodID:        "2024-05",
		CountIndex:      index,
		VarianceAmount:  varAmt,
		ShrinkageAmount: shrinkAmt,
	}}
}

func TestShrinkManipulation_FlagsShrinkAgainstSurplus(t *testing.T) {
	d := &detect.ShrinkManipulationDetector{}
	result := d.Evaluate(&inventory.StoreView{
		StoreID: "S1",
		Rows: []inventory.Delta{
			manipRow("P1", 1, 30, -50),
		},
	})

	if result.RawScore != 10 {
		t.Errorf("expected raw 10 for one flagged product, got %f", result.RawScore)
	}
	if result.Severity != detect.SeverityMedium {
		t.Errorf("expected MEDIUM, got %s", result.Severity)
	}
	if len(result.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(result.Findings))
	}
	if math.Abs(result.Findings[0].Amount-30) > 1e-9 {
		t.Errorf("finding amount = %f, want 30", result.Findings[0].Amount)
	}
}

func TestShrinkManipulation_BalancedPeriodIsTimingArtifact(t *testing.T) {
	d := &detect.ShrinkManipulationDetector{}
	// Count 1 writes shrinkage against a surplus, count 2 reverses the
	// variance. The period nets to zero: no manipulation.
	result := d.Evaluate(&inventory.StoreView{
		StoreID: "S1",
		Rows: []inventory.Delta{
			manipRow("P1", 1, 10, -50),
			manipRow("P1", 2, -10, 0),
		},
	})
	if result.RawScore != 0 || len(result.Findings) != 0 {
		t.Errorf("balanced period must not be flagged, got %+v", result)
	}
}

func TestShrinkManipulation_ShrinkAgainstShortageIsNormal(t *testing.T) {
	d := &detect.ShrinkManipulationDetector{}
	result := d.Evaluate(&inventory.StoreView{
		StoreID: "S1",
		Rows: []inventory.Delta{
			manipRow("P1", 1, -30, -50),
		},
	})
	if result.RawScore != 0 || len(result.Findings) != 0 {
		t.Errorf("shrinkage on a shortage is legitimate write-off, got %+v", result)
	}
}

func TestShrinkManipulation_RawScalesPerProduct(t *testing.T) {
	d := &detect.ShrinkManipulationDetector{}
	result := d.Evaluate(&inventory.StoreView{
		StoreID: "S1",
		Rows: []inventory.Delta{
			manipRow("P1", 1, 20, -40),
			manipRow("P2", 1, 15, -25),
			manipRow("P3", 1, 5, -10),
		},
	})
	if result.RawScore != 30 {
		t.Errorf("expected raw 30 for three flagged products, got %f", result.RawScore)
	}
	if len(result.Findings) != 3 {
		t.Errorf("expected 3 findings, got %d", len(result.Findings))
	}
}
