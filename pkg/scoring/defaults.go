package scoring

import (
	"github.com/shelfguard/shelfguard/pkg/config"
	"github.com/shelfguard/shelfguard/pkg/detect"
	"github.com/shelfguard/shelfguard/pkg/inventory"
)

// DefaultDetectors returns the standard detector battery wired with the
// configured thresholds. regionRatio supplies the loss-ratio baseline per
// region; pass nil to disable the shortage-ratio rule.
func DefaultDetectors(det config.DetectionConfig, regionRatio func(region string) float64) []detect.Detector {
	return []detect.Detector{
		&detect.InternalTheftDetector{PriceFloor: det.PriceFloor},
		&detect.ShortageRatioDetector{RegionRatio: regionRatio},
		&detect.CountDisciplineDetector{Groups: det.DisciplineGroups},
		detect.NewChronicShortageDetector(det.LossFloor),
		detect.NewChronicShrinkageDetector(det.LossFloor),
		&detect.ShrinkManipulationDetector{},
		&detect.CategoryLossDetector{Keywords: det.CategoryKeywords, Excludes: det.CategoryExcludes},
		&detect.CheckoutActivityDetector{ProductIDs: det.CheckoutProducts},
		&detect.HighCountDetector{
			Floor:        det.HighCountFloor,
			BulkFloor:    det.BulkCountFloor,
			BulkKeywords: det.BulkNameKeywords,
		},
		&detect.FamilyLossDetector{},
		&detect.RepeatCountDetector{},
		&detect.RoundCountDetector{},
	}
}

// RegionBaselines computes each region's aggregate loss-to-sales ratio
// across the given stores. Stores without sales contribute nothing.
func RegionBaselines(views []*inventory.StoreView) map[string]float64 {
	type totals struct{ loss, sales float64 }
	byRegion := make(map[string]*totals)

	for _, v := range views {
		t, ok := byRegion[v.Region]
		if !ok {
			t = &totals{}
			byRegion[v.Region] = t
		}
		for i := range v.Rows {
			t.loss += v.Rows[i].VarianceAmount + v.Rows[i].ShrinkageAmount
		}
		t.sales += v.SalesTotal
	}

	baselines := make(map[string]float64, len(byRegion))
	for region, t := range byRegion {
		if t.sales > 0 && t.loss < 0 {
			baselines[region] = -t.loss / t.sales
		}
	}
	return baselines
}

// ScoreViews is the full scoring pipeline over a set of store views:
// region baselines, default detectors, one scorecard per store.
func ScoreViews(cfg *config.Config, views []*inventory.StoreView) ([]*Scorecard, error) {
	baselines := RegionBaselines(views)
	ratio := func(region string) float64 { return baselines[region] }

	engine := NewEngine(cfg, DefaultDetectors(cfg.Detection, ratio)...)
	cards := make([]*Scorecard, 0, len(views))
	for _, v := range views {
		card, err := engine.ScoreStore(v)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}
