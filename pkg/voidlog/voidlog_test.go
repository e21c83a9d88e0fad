package voidlog_test

import (
	"testing"
	"time"

	"github.com/shelfguard/shelfguard/pkg/voidlog"
)

func auditDate(t *testing.T) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", "2024-05-20")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func rec(store, txn, product, date string) voidlog.Record {
	return voidlog.Record{
		StoreID:       store,
		TransactionID: txn,
		ProductID:     product,
		VoidedAt:      date,
		Qty:           1,
	}
}

func TestParseVoidDate_Layouts(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"18.05.2024", "2024-05-18", true},
		{"2024-05-18", "2024-05-18", true},
		{"18/05/2024", "2024-05-18", true},
		{"18.05.2024 14:32", "2024-05-18", true}, // time-of-day dropped
		{"May 18 2024", "", false},
	}
	for _, tc := range cases {
		got, ok := voidlog.ParseVoidDate(tc.raw)
		if ok != tc.ok {
			t.Errorf("ParseVoidDate(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
			continue
		}
		if ok && got.Format("2006-01-02") != tc.want {
			t.Errorf("ParseVoidDate(%q) = %s, want %s", tc.raw, got.Format("2006-01-02"), tc.want)
		}
	}
}

func TestRegisterOf(t *testing.T) {
	if got := voidlog.RegisterOf("2024070012345"); got != "07" {
		t.Errorf("expected register 07, got %q", got)
	}
	if got := voidlog.RegisterOf("abc"); got != "" {
		t.Errorf("expected empty register for short id, got %q", got)
	}
}

func TestCorrelate_DirectMatchesMostRecentFirst(t *testing.T) {
	req := voidlog.Request{
		StoreID:    "S1",
		ProductID:  "P1",
		AuditDate:  auditDate(t),
		WindowDays: 15,
	}
	records := []voidlog.Record{
		rec("S1", "2024010001", "P1", "10.05.2024"),
		rec("S1", "2024020002", "P1", "18.05.2024"),
		rec("S1", "2024030003", "P1", "14.05.2024"),
		rec("S1", "2024040004", "P1", "16.05.2024"),
		rec("S2", "2024050005", "P1", "18.05.2024"), // wrong store
	}

	c := voidlog.Correlate(req, records)
	if len(c.Matches) != 3 {
		t.Fatalf("expected top 3 matches, got %d", len(c.Matches))
	}
	want := []string{"18.05.2024", "16.05.2024", "14.05.2024"}
	for i, m := range c.Matches {
		if m.Record.VoidedAt != want[i] {
			t.Errorf("match %d: expected %s, got %s", i, want[i], m.Record.VoidedAt)
		}
		if m.Fallback {
			t.Errorf("match %d: direct match marked as fallback", i)
		}
	}
	if c.Matches[0].Register != "02" {
		t.Errorf("expected register 02, got %q", c.Matches[0].Register)
	}
}

func TestCorrelate_WindowExcludesOldAndFutureVoids(t *testing.T) {
	req := voidlog.Request{
		StoreID:    "S1",
		ProductID:  "P1",
		AuditDate:  auditDate(t),
		WindowDays: 15,
	}
	records := []voidlog.Record{
		rec("S1", "2024010001", "P1", "01.05.2024"), // 19 days before, outside
		rec("S1", "2024020002", "P1", "25.05.2024"), // after the audit
	}
	c := voidlog.Correlate(req, records)
	if len(c.Matches) != 0 {
		t.Fatalf("expected no matches outside window, got %d", len(c.Matches))
	}
	if c.Message == "" {
		t.Error("expected a no-match message")
	}
}

func TestCorrelate_CategoryFallback(t *testing.T) {
	req := voidlog.Request{
		StoreID:      "S1",
		ProductID:    "P1",
		CategoryPath: "ICKI/VISKI",
		AuditDate:    auditDate(t),
		WindowDays:   15,
		PriceFloor:   100,
	}
	cheap := rec("S1", "2024010001", "P9", "18.05.2024")
	cheap.CategoryPath = "ICKI/VISKI"
	cheap.UnitPrice = 40
	pricey := rec("S1", "2024020002", "P8", "17.05.2024")
	pricey.CategoryPath = "ICKI/VISKI"
	pricey.UnitPrice = 350

	c := voidlog.Correlate(req, []voidlog.Record{cheap, pricey})
	if len(c.Matches) != 1 {
		t.Fatalf("expected 1 fallback match, got %d", len(c.Matches))
	}
	if !c.Matches[0].Fallback {
		t.Error("expected fallback flag set")
	}
	if c.Matches[0].Record.ProductID != "P8" {
		t.Errorf("expected pricey same-category product, got %s", c.Matches[0].Record.ProductID)
	}
}

func TestCorrelate_DirectBeatsFallback(t *testing.T) {
	req := voidlog.Request{
		StoreID:      "S1",
		ProductID:    "P1",
		CategoryPath: "ICKI/VISKI",
		AuditDate:    auditDate(t),
		WindowDays:   15,
		PriceFloor:   100,
	}
	direct := rec("S1", "2024010001", "P1", "12.05.2024")
	sibling := rec("S1", "2024020002", "P8", "18.05.2024")
	sibling.CategoryPath = "ICKI/VISKI"
	sibling.UnitPrice = 350

	c := voidlog.Correlate(req, []voidlog.Record{direct, sibling})
	if len(c.Matches) != 1 || c.Matches[0].Record.ProductID != "P1" {
		t.Fatalf("expected only the direct match, got %+v", c.Matches)
	}
}
