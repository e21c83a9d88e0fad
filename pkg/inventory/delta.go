package inventory

import (
	"sort"
	"strings"
)

// NormalizePeriod reduces a period identifier to YYYY-MM. Inputs may arrive
// as full dates (YYYY-MM-DD) from upstream exports.
func NormalizePeriod(period string) string {
	period = strings.TrimSpace(period)
	if len(period) >= 7 && period[4] == '-' {
		return period[:7]
	}
	return period
}

// Reconstruct converts a candidate event's running totals into per-count
// increments given its predecessor (the event with the greatest count index
// strictly below the candidate's, in the same series). A nil predecessor
// means the candidate is the first count: the increment is the running total
// itself.
func Reconstruct(prev *Event, candidate Event) Delta {
	d := Delta{Event: candidate}
	d.PeriodID = NormalizePeriod(candidate.PeriodID)
	if prev == nil {
		return d
	}
	d.VarianceAmount = candidate.VarianceAmount - prev.VarianceAmount
	d.VarianceQty = candidate.VarianceQty - prev.VarianceQty
	d.ShrinkageAmount = candidate.ShrinkageAmount - prev.ShrinkageAmount
	d.ShrinkageQty = candidate.ShrinkageQty - prev.ShrinkageQty
	d.CountQty = candidate.CountQty - prev.CountQty
	d.SalesAmount = candidate.SalesAmount - prev.SalesAmount
	d.VoidedQty = candidate.VoidedQty - prev.VoidedQty
	return d
}

// BuildDeltas reconstructs per-count increments for a batch of events.
// Duplicate identity keys are dropped (first occurrence wins), so replaying
// an ingest is harmless. Count indexes within a series need not be
// contiguous: the predecessor is whichever lower index exists.
func BuildDeltas(events []Event) []Delta {
	// Dedupe on identity key, normalizing periods first so that
	// "2024-05-13" and "2024-05" refer to the same series.
	seen := make(map[Key]bool, len(events))
	unique := make([]Event, 0, len(events))
	for _, e := range events {
		e.PeriodID = NormalizePeriod(e.PeriodID)
		k := e.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, e)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		a, b := &unique[i], &unique[j]
		if a.StoreID != b.StoreID {
			return a.StoreID < b.StoreID
		}
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		if a.PeriodID != b.PeriodID {
			return a.PeriodID < b.PeriodID
		}
		return a.CountIndex < b.CountIndex
	})

	deltas := make([]Delta, 0, len(unique))
	var prev *Event
	for i := range unique {
		e := unique[i]
		if prev != nil && prev.Series() != e.Series() {
			prev = nil
		}
		deltas = append(deltas, Reconstruct(prev, e))
		prev = &unique[i]
	}
	return deltas
}

// BuildStoreViews groups reconstructed deltas by store. Store sales come
// from the final running total of each series, not the increments, so a
// partially counted series still reports full sales.
func BuildStoreViews(events []Event) []*StoreView {
	deltas := BuildDeltas(events)

	// Final running sales total per series.
	type seriesSales struct {
		index int
		sales float64
	}
	finals := make(map[SeriesKey]seriesSales)
	for _, e := range events {
		e.PeriodID = NormalizePeriod(e.PeriodID)
		sk := e.Series()
		if cur, ok := finals[sk]; !ok || e.CountIndex > cur.index {
			finals[sk] = seriesSales{index: e.CountIndex, sales: e.SalesAmount}
		}
	}

	views := make(map[string]*StoreView)
	for _, d := range deltas {
		v, ok := views[d.StoreID]
		if !ok {
			v = &StoreView{StoreID: d.StoreID, Manager: d.Manager, Region: d.Region}
			views[d.StoreID] = v
		}
		if v.Manager == "" {
			v.Manager = d.Manager
		}
		if v.Region == "" {
			v.Region = d.Region
		}
		v.Rows = append(v.Rows, d)
	}
	for sk, fs := range finals {
		if v, ok := views[sk.StoreID]; ok {
			v.SalesTotal += fs.sales
		}
	}

	out := make([]*StoreView, 0, len(views))
	for _, v := range views {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StoreID < out[j].StoreID })
	return out
}
