package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"testing"

	"github.com/shelfguard/shelfguard/pkg/detect"
	"github.com/shelfguard/shelfguard/pkg/scoring"
)

func sampleCards() []*scoring.Scorecard {
	return []*scoring.Scorecard{
		{
			StoreID:        "S1",
			Manager:        "mgr-a",
			Region:         "north",
			Periods:        []string{"2024-05"},
			SalesTotal:     1000,
			TotalScore:     40,
			Classification: scoring.ClassRisky,
			Breakdown: []scoring.RuleScore{
				{
					Key:          "internal_theft",
					Name:         "Internal theft pattern",
					Contribution: 140,
					Findings: []detect.Finding{
						{
							StoreID: "S1", ProductID: "P1", ProductName: "VISKI 70 CL",
							PeriodID: "2024-05", Severity: detect.SeverityVeryHigh,
							Qty: -6, Amount: -900,
							Summary: "VISKI 70 CL: shortage 6 matches 6 voided units",
						},
					},
				},
			},
			TopRules:  []string{"internal_theft"},
			Diagnosis: "Elevated risk driven by Internal theft pattern.",
		},
		{
			StoreID:        "S2",
			Manager:        "mgr-b",
			Region:         "north",
			SalesTotal:     3000,
			TotalScore:     8,
			Classification: scoring.ClassClean,
		},
	}
}

func readSheet(t *testing.T, zr *zip.Reader, name string) [][]string {
	t.Helper()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		return rows
	}
	t.Fatalf("sheet %s not found", name)
	return nil
}

func TestNewReportWorkbookLayout(t *testing.T) {
	rep, err := NewReport(sampleCards())
	if err != nil {
		t.Fatalf("NewReport: %v", err)
	}
	if rep.ID == "" {
		t.Error("expected a report ID")
	}
	if !strings.HasSuffix(rep.Filename(), ".zip") {
		t.Errorf("unexpected filename %s", rep.Filename())
	}

	zr, err := zip.NewReader(bytes.NewReader(rep.Content), int64(len(rep.Content)))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}

	want := []string{"summary.csv", "findings.csv", "rollup_manager.csv", "rollup_region.csv"}
	if len(zr.File) != len(want) {
		t.Fatalf("expected %d sheets, got %d", len(want), len(zr.File))
	}
	for i, name := range want {
		if zr.File[i].Name != name {
			t.Errorf("sheet %d: expected %s, got %s", i, name, zr.File[i].Name)
		}
	}
}

func TestNewReportSummarySheet(t *testing.T) {
	rep, err := NewReport(sampleCards())
	if err != nil {
		t.Fatalf("NewReport: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(rep.Content), int64(len(rep.Content)))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}

	rows := readSheet(t, zr, "summary.csv")
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 stores, got %d rows", len(rows))
	}
	if rows[0][0] != "store_id" {
		t.Errorf("unexpected header %v", rows[0])
	}
	s1 := rows[1]
	if s1[0] != "S1" || s1[6] != "RISKY" {
		t.Errorf("unexpected summary row %v", s1)
	}
	if s1[5] != "40.00" {
		t.Errorf("expected total 40.00, got %s", s1[5])
	}
}

func TestNewReportFindingsSheet(t *testing.T) {
	rep, err := NewReport(sampleCards())
	if err != nil {
		t.Fatalf("NewReport: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(rep.Content), int64(len(rep.Content)))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}

	rows := readSheet(t, zr, "findings.csv")
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 finding, got %d rows", len(rows))
	}
	f := rows[1]
	if f[0] != "S1" || f[1] != "internal_theft" || f[3] != "P1" {
		t.Errorf("unexpected finding row %v", f)
	}
}

func TestNewReportRollupSheet(t *testing.T) {
	rep, err := NewReport(sampleCards())
	if err != nil {
		t.Fatalf("NewReport: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(rep.Content), int64(len(rep.Content)))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}

	// Region rollup: one north group covering both stores,
	// sales-weighted (40*1000 + 8*3000)/4000 = 16.
	rows := readSheet(t, zr, "rollup_region.csv")
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 region, got %d rows", len(rows))
	}
	r := rows[1]
	if r[0] != "north" || r[1] != "2" {
		t.Errorf("unexpected rollup row %v", r)
	}
	if r[2] != "16.00" {
		t.Errorf("expected weighted score 16.00, got %s", r[2])
	}
}
