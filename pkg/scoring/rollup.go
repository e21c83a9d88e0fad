package scoring

import "sort"

// RollupRow aggregates the scorecards of one management group.
type RollupRow struct {
	Group         string  `json:"group"`
	Stores        int     `json:"stores"`
	WeightedScore float64 `json:"weighted_score"`
	SalesTotal    float64 `json:"sales_total"`
	CriticalCount int     `json:"critical_count"`
	RiskyCount    int     `json:"risky_count"`
}

// RollupByManager aggregates scorecards per store manager.
func RollupByManager(cards []*Scorecard) []RollupRow {
	return rollupBy(cards, func(c *Scorecard) string { return c.Manager })
}

// RollupByRegion aggregates scorecards per region.
func RollupByRegion(cards []*Scorecard) []RollupRow {
	return rollupBy(cards, func(c *Scorecard) string { return c.Region })
}

// rollupBy groups scorecards and weights each group's score by store sales:
// a risky high-volume store matters more than a risky kiosk. Groups without
// any sales fall back to the simple mean. Critical/risky counts stay
// unweighted.
func rollupBy(cards []*Scorecard, key func(*Scorecard) string) []RollupRow {
	type agg struct {
		row      RollupRow
		weighted float64
		plain    float64
	}
	groups := make(map[string]*agg)
	var order []string

	for _, c := range cards {
		g := key(c)
		a, ok := groups[g]
		if !ok {
			a = &agg{row: RollupRow{Group: g}}
			groups[g] = a
			order = append(order, g)
		}
		a.row.Stores++
		a.row.SalesTotal += c.SalesTotal
		a.weighted += c.TotalScore * c.SalesTotal
		a.plain += c.TotalScore
		switch c.Classification {
		case ClassCritical:
			a.row.CriticalCount++
		case ClassRisky:
			a.row.RiskyCount++
		}
	}

	rows := make([]RollupRow, 0, len(groups))
	for _, g := range order {
		a := groups[g]
		if a.row.SalesTotal > 0 {
			a.row.WeightedScore = a.weighted / a.row.SalesTotal
		} else if a.row.Stores > 0 {
			a.row.WeightedScore = a.plain / float64(a.row.Stores)
		}
		rows = append(rows, a.row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].WeightedScore != rows[j].WeightedScore {
			return rows[i].WeightedScore > rows[j].WeightedScore
		}
		return rows[i].Group < rows[j].Group
	})
	return rows
}
