// Package inventory defines the core audit data model for Shelfguard.
// These types are the shared vocabulary across all modules.
// Changes to this file require review from all teams.
package inventory

import (
	"sort"
	"time"
)

// Event is a single perpetual-inventory count row as reported by a store.
// Counter fields are running totals within (store, product, period) across
// count indexes. Events are immutable once ingested.
type Event struct {
	StoreID    string `json:"store_id"`
	ProductID  string `json:"product_id"`
	PeriodID   string `json:"period_id"`   // normalized to YYYY-MM
	CountIndex int    `json:"count_index"` // 1-based position within the period

	ProductName  string `json:"product_name,omitempty"`
	CategoryPath string `json:"category_path,omitempty"`
	ProductGroup string `json:"product_group,omitempty"`
	Manager      string `json:"manager,omitempty"`
	Region       string `json:"region,omitempty"`

	UnitPrice float64 `json:"unit_price"`

	// Running totals.
	VarianceAmount  float64 `json:"variance_amount"`
	VarianceQty     float64 `json:"variance_qty"`
	ShrinkageAmount float64 `json:"shrinkage_amount"`
	ShrinkageQty    float64 `json:"shrinkage_qty"`
	CountQty        float64 `json:"count_qty"`
	SalesAmount     float64 `json:"sales_amount"`
	VoidedQty       float64 `json:"voided_qty"`

	// Point-in-time adjustments carried on the row (not cumulative).
	PartialQty          float64 `json:"partial_qty"`
	PartialAmount       float64 `json:"partial_amount"`
	PriorVarianceQty    float64 `json:"prior_variance_qty"`
	PriorVarianceAmount float64 `json:"prior_variance_amount"`

	CountedAt time.Time `json:"counted_at,omitzero"`
}

// Key is the identity key of an event. Ingest is idempotent on this key.
type Key struct {
	StoreID    string
	ProductID  string
	PeriodID   string
	CountIndex int
}

// Key returns the event's identity key.
func (e *Event) Key() Key {
	return Key{StoreID: e.StoreID, ProductID: e.ProductID, PeriodID: e.PeriodID, CountIndex: e.CountIndex}
}

// SeriesKey identifies a counter series: every count index of one product
// in one store and period.
type SeriesKey struct {
	StoreID   string
	ProductID string
	PeriodID  string
}

// Series returns the event's counter series key.
func (e *Event) Series() SeriesKey {
	return SeriesKey{StoreID: e.StoreID, ProductID: e.ProductID, PeriodID: e.PeriodID}
}

// Delta carries one count with its counters converted from running totals to
// per-count increments. Identity, descriptive, and point-in-time fields are
// copied from the source event unchanged; the counter fields hold the
// increment attributable to this count index alone.
type Delta struct {
	Event
}

// NetVarianceQty is the combined quantity movement for one count:
// variance plus partial count plus prior-period correction.
func (d *Delta) NetVarianceQty() float64 {
	return d.VarianceQty + d.PartialQty + d.PriorVarianceQty
}

// NetVarianceAmount is the combined amount movement for one count.
func (d *Delta) NetVarianceAmount() float64 {
	return d.VarianceAmount + d.PartialAmount + d.PriorVarianceAmount
}

// StoreView is every reconstructed delta for one store, the unit of work
// for detectors and scoring.
type StoreView struct {
	StoreID string  `json:"store_id"`
	Manager string  `json:"manager,omitempty"`
	Region  string  `json:"region,omitempty"`
	Rows    []Delta `json:"rows"` // ordered by product, period, count index

	// SalesTotal is the store's sales over the analyzed periods, taken from
	// the final running total of each series. Used for rollup weighting.
	SalesTotal float64 `json:"sales_total"`
}

// Periods returns the distinct period IDs present in the view, sorted.
func (v *StoreView) Periods() []string {
	seen := make(map[string]bool)
	var periods []string
	for i := range v.Rows {
		p := v.Rows[i].PeriodID
		if !seen[p] {
			seen[p] = true
			periods = append(periods, p)
		}
	}
	sort.Strings(periods)
	return periods
}
