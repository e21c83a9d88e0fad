package detect_test

import (
	"testing"

	"github.com/shelfguard/shelfguard/pkg/detect"
	"github.com/shelfguard/shelfguard/pkg/inventory"
)

func lossRow(product string, idx int, variance, shrinkage float64) inventory.Delta {
	return inventory.Delta{Event: inventory.Event{
		StoreID:         "S1",
		ProductID:       product,
		PeriodID:        "2024-05",
		CountIndex:      idx,
		VarianceAmount:  variance,
		ShrinkageAmount: shrinkage,
	}}
}

func TestConsecutiveLoss_AdjacentCountsFlag(t *testing.T) {
	d := detect.NewChronicShortageDetector(-500)
	view := &inventory.StoreView{
		StoreID: "S1",
		Rows: []inventory.Delta{
			lossRow("P1", 1, -800, 0),
			lossRow("P1", 2, -650, 0),
		},
	}
	result := d.Evaluate(view)
	if len(result.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(result.Findings))
	}
	if result.RawScore != 10 {
		t.Errorf("expected raw score 10, got %f", result.RawScore)
	}
}

func TestConsecutiveLoss_GapIsNotAdjacent(t *testing.T) {
	// Indexes 1 and 3 both breach the floor, but index 2 is missing:
	// no adjacency, no flag.
	d := detect.NewChronicShortageDetector(-500)
	view := &inventory.StoreView{
		StoreID: "S1",
		Rows: []inventory.Delta{
			lossRow("P1", 1, -800, 0),
			lossRow("P1", 3, -650, 0),
		},
	}
	result := d.Evaluate(view)
	if len(result.Findings) != 0 {
		t.Errorf("expected no findings across index gap, got %d", len(result.Findings))
	}
	if result.RawScore != 0 {
		t.Errorf("expected raw score 0, got %f", result.RawScore)
	}
}

func TestConsecutiveLoss_OneBreachIsNotChronic(t *testing.T) {
	d := detect.NewChronicShortageDetector(-500)
	view := &inventory.StoreView{
		StoreID: "S1",
		Rows: []inventory.Delta{
			lossRow("P1", 1, -800, 0),
			lossRow("P1", 2, -100, 0),
		},
	}
	result := d.Evaluate(view)
	if len(result.Findings) != 0 {
		t.Errorf("expected no findings for single breach, got %d", len(result.Findings))
	}
}

func TestConsecutiveLoss_FlagsOncePerProduct(t *testing.T) {
	d := detect.NewChronicShortageDetector(-500)
	view := &inventory.StoreView{
		StoreID: "S1",
		Rows: []inventory.Delta{
			lossRow("P1", 1, -800, 0),
			lossRow("P1", 2, -650, 0),
			lossRow("P1", 3, -900, 0),
		},
	}
	result := d.Evaluate(view)
	if len(result.Findings) != 1 {
		t.Errorf("expected 1 finding per product, got %d", len(result.Findings))
	}
}

func TestConsecutiveLoss_ShrinkageVariant(t *testing.T) {
	// The shrinkage instantiation must ignore variance movement entirely.
	d := detect.NewChronicShrinkageDetector(-500)
	view := &inventory.StoreView{
		StoreID: "S1",
		Rows: []inventory.Delta{
			lossRow("P1", 1, -9000, -600),
			lossRow("P1", 2, -9000, -550),
			lossRow("P2", 1, -9000, 0),
			lossRow("P2", 2, -9000, 0),
		},
	}
	result := d.Evaluate(view)
	if len(result.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(result.Findings))
	}
	if result.Findings[0].ProductID != "P1" {
		t.Errorf("expected P1 flagged, got %s", result.Findings[0].ProductID)
	}
}
