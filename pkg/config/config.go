// Package config handles loading and managing Shelfguard configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for Shelfguard.
type Config struct {
	Detection DetectionConfig `yaml:"detection"`
	Scoring   ScoringConfig   `yaml:"scoring"`
}

// DetectionConfig holds detector thresholds. Every value here is a named
// replacement for a constant that used to live inline in the detection
// rules; domain owners review changes to the defaults.
type DetectionConfig struct {
	// PriceFloor is the unit price (TL) above which a product is screened
	// for internal theft and void correlation.
	PriceFloor float64 `yaml:"price_floor"`

	// LossFloor is the per-count loss amount below which a count registers
	// for the chronic consecutive-loss detectors. Negative.
	LossFloor float64 `yaml:"loss_floor"`

	// HighCountFloor flags a single count at or above this quantity.
	// Bulk produce exceptions use BulkCountFloor instead.
	HighCountFloor   float64  `yaml:"high_count_floor"`
	BulkCountFloor   float64  `yaml:"bulk_count_floor"`
	BulkNameKeywords []string `yaml:"bulk_name_keywords"`

	// VoidWindowDays bounds the void-log correlation lookback.
	VoidWindowDays int `yaml:"void_window_days"`

	// Regulated-category matching. Keywords are compared against folded
	// category path segments, never product names.
	CategoryKeywords []string `yaml:"category_keywords"`
	CategoryExcludes []string `yaml:"category_excludes"`

	// DisciplineGroups are the perishable category keywords that define the
	// count-discipline scope.
	DisciplineGroups []string `yaml:"discipline_groups"`

	// CheckoutProducts is the chain-specific set of checkout-lane product
	// codes. Empty disables the checkout-activity detector.
	CheckoutProducts []string `yaml:"checkout_products"`
}

// ScoringConfig controls rule weights and classification cutoffs.
type ScoringConfig struct {
	// Weights maps rule keys to their maximum score contribution.
	Weights map[string]float64 `yaml:"weights"`
	Cutoffs CutoffConfig       `yaml:"cutoffs"`
}

// CutoffConfig holds the classification boundaries on the 0-100 total.
type CutoffConfig struct {
	Critical float64 `yaml:"critical"`
	Risky    float64 `yaml:"risky"`
	Caution  float64 `yaml:"caution"`
}

// Rule keys shared between detectors, weights, and scorecards.
const (
	RuleInternalTheft      = "internal_theft"
	RuleShortageRatio      = "shortage_ratio"
	RuleCountDiscipline    = "count_discipline"
	RuleChronicShortage    = "chronic_shortage"
	RuleChronicShrinkage   = "chronic_shrinkage"
	RuleHighCount          = "high_count"
	RuleRepeatCount        = "repeat_count"
	RuleRoundCount         = "round_count"
	RuleShrinkManipulation = "shrink_manipulation"
	RuleCategoryLoss       = "category_loss"
	RuleCheckoutActivity   = "checkout_activity"
	RuleFamilyLoss         = "family_loss"
)

// DefaultConfig returns a Config with the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Detection: DetectionConfig{
			PriceFloor:       100,
			LossFloor:        -500,
			HighCountFloor:   50,
			BulkCountFloor:   200,
			BulkNameKeywords: []string{"PATATES", "SOGAN", "KARPUZ", "KAVUN"},
			VoidWindowDays:   15,
			CategoryKeywords: []string{"SIGARA", "TUTUN"},
			CategoryExcludes: []string{"MAKARON"},
			DisciplineGroups: []string{"MEYVE", "SEBZ", "ET", "TAVUK", "EKMEK"},
			CheckoutProducts: defaultCheckoutProducts,
		},
		Scoring: ScoringConfig{
			Weights: map[string]float64{
				RuleInternalTheft:      200,
				RuleShortageRatio:      30,
				RuleCountDiscipline:    15,
				RuleChronicShortage:    15,
				RuleChronicShrinkage:   10,
				RuleShrinkManipulation: 10,
				RuleCategoryLoss:       10,
				RuleCheckoutActivity:   10,
				RuleHighCount:          5,
				RuleFamilyLoss:         5,
				RuleRepeatCount:        3,
				RuleRoundCount:         2,
			},
			Cutoffs: CutoffConfig{Critical: 60, Risky: 40, Caution: 20},
		},
	}
}

// Load reads a config file from the given path and merges it onto the
// defaults. If the file does not exist, it returns the default config.
// Unknown or non-positive weight entries fall back to their defaults rather
// than aborting: a broken entry for one rule must not take down the run.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	mergeDetection(&cfg.Detection, &loaded.Detection)
	mergeScoring(&cfg.Scoring, &loaded.Scoring)
	return cfg, nil
}

func mergeDetection(dst, src *DetectionConfig) {
	if src.PriceFloor > 0 {
		dst.PriceFloor = src.PriceFloor
	}
	if src.LossFloor < 0 {
		dst.LossFloor = src.LossFloor
	}
	if src.HighCountFloor > 0 {
		dst.HighCountFloor = src.HighCountFloor
	}
	if src.BulkCountFloor > 0 {
		dst.BulkCountFloor = src.BulkCountFloor
	}
	if len(src.BulkNameKeywords) > 0 {
		dst.BulkNameKeywords = src.BulkNameKeywords
	}
	if src.VoidWindowDays > 0 {
		dst.VoidWindowDays = src.VoidWindowDays
	}
	if len(src.CategoryKeywords) > 0 {
		dst.CategoryKeywords = src.CategoryKeywords
	}
	if len(src.CategoryExcludes) > 0 {
		dst.CategoryExcludes = src.CategoryExcludes
	}
	if len(src.DisciplineGroups) > 0 {
		dst.DisciplineGroups = src.DisciplineGroups
	}
	if len(src.CheckoutProducts) > 0 {
		dst.CheckoutProducts = src.CheckoutProducts
	}
}

func mergeScoring(dst, src *ScoringConfig) {
	for key, w := range src.Weights {
		if _, known := dst.Weights[key]; known && w > 0 {
			dst.Weights[key] = w
		}
	}
	if src.Cutoffs.Critical > 0 {
		dst.Cutoffs.Critical = src.Cutoffs.Critical
	}
	if src.Cutoffs.Risky > 0 {
		dst.Cutoffs.Risky = src.Cutoffs.Risky
	}
	if src.Cutoffs.Caution > 0 {
		dst.Cutoffs.Caution = src.Cutoffs.Caution
	}
}

// FindConfigFile looks for .shelfguard/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".shelfguard", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
