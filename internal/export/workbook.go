// Package export builds downloadable audit workbooks from scorecards and
// archives them in blob storage.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shelfguard/shelfguard/pkg/scoring"
)

// Report is a generated workbook ready for download or archival.
type Report struct {
	ID          string
	GeneratedAt time.Time
	Content     []byte
}

// Filename returns the canonical download name for the report.
func (r *Report) Filename() string {
	return fmt.Sprintf("shelfguard-%s-%s.zip", r.GeneratedAt.Format("20060102"), r.ID)
}

// NewReport builds a workbook from the given scorecards. The workbook is a
// zip archive of CSV sheets: a store summary, the full findings list, and
// manager and region rollups.
func NewReport(cards []*scoring.Scorecard) (*Report, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	sheets := []struct {
		name  string
		write func(*csv.Writer) error
	}{
		{"summary.csv", func(w *csv.Writer) error { return writeSummary(w, cards) }},
		{"findings.csv", func(w *csv.Writer) error { return writeFindings(w, cards) }},
		{"rollup_manager.csv", func(w *csv.Writer) error {
			return writeRollup(w, "manager", scoring.RollupByManager(cards))
		}},
		{"rollup_region.csv", func(w *csv.Writer) error {
			return writeRollup(w, "region", scoring.RollupByRegion(cards))
		}},
	}

	for _, sheet := range sheets {
		f, err := zw.Create(sheet.name)
		if err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sheet.name, err)
		}
		cw := csv.NewWriter(f)
		if err := sheet.write(cw); err != nil {
			return nil, fmt.Errorf("write sheet %s: %w", sheet.name, err)
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return nil, fmt.Errorf("flush sheet %s: %w", sheet.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close workbook: %w", err)
	}
	return &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Content:     buf.Bytes(),
	}, nil
}

func writeSummary(w *csv.Writer, cards []*scoring.Scorecard) error {
	header := []string{
		"store_id", "manager", "region", "periods", "sales_total",
		"total_score", "classification", "top_rules", "diagnosis",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, c := range cards {
		row := []string{
			c.StoreID,
			c.Manager,
			c.Region,
			strings.Join(c.Periods, " "),
			formatAmount(c.SalesTotal),
			formatAmount(c.TotalScore),
			string(c.Classification),
			strings.Join(c.TopRules, " "),
			c.Diagnosis,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeFindings(w *csv.Writer, cards []*scoring.Scorecard) error {
	header := []string{
		"store_id", "rule", "severity", "product_id", "product_name",
		"period", "qty", "amount", "summary",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, c := range cards {
		for _, rs := range c.Breakdown {
			for _, f := range rs.Findings {
				row := []string{
					c.StoreID,
					rs.Key,
					string(f.Severity),
					f.ProductID,
					f.ProductName,
					f.PeriodID,
					formatAmount(f.Qty),
					formatAmount(f.Amount),
					f.Summary,
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeRollup(w *csv.Writer, groupLabel string, rows []scoring.RollupRow) error {
	header := []string{groupLabel, "stores", "weighted_score", "sales_total", "critical", "risky"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{
			r.Group,
			strconv.Itoa(r.Stores),
			formatAmount(r.WeightedScore),
			formatAmount(r.SalesTotal),
			strconv.Itoa(r.CriticalCount),
			strconv.Itoa(r.RiskyCount),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
