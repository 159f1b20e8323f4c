package riskrange

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/riskrange/date"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLatestFileUsesEmbeddedDate(t *testing.T) {
	dir := t.TempDir()
	// written last, so it has the freshest mtime, but its embedded date is older
	writeFile(t, dir, "ranks_2025-08-22.csv", "report_date,rank,symbol,name\n")
	writeFile(t, dir, "ranks_2025-08-15.csv", "report_date,rank,symbol,name\n")
	writeFile(t, dir, "ranks_draft.csv", "report_date,rank,symbol,name\n") // undated, ignored

	name, err := latestFile(dir, "ranks_*.csv")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(name) != "ranks_2025-08-22.csv" {
		t.Errorf("latestFile = %q want ranks_2025-08-22.csv", filepath.Base(name))
	}
}

func TestLatestFileEmptyDir(t *testing.T) {
	if _, err := latestFile(t.TempDir(), "ranks_*.csv"); err == nil {
		t.Error("latestFile on an empty dir must fail")
	}
}

const trendHeader = "report_date,symbol,description,position_type,trend_low,trend_high,recent_price,asset_class\n"

func TestLoadTrendReports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "trend_ranges_2025-08-14.csv", trendHeader+
		"2025-08-14,AAAU,Gold ETF,LONG,23.0,25.0,24.0,COMMODITIES\n"+
		"2025-08-14,XLU,Utilities,LONG,80.0,84.0,82.0,EQUITIES\n")
	writeFile(t, dir, "trend_ranges_2025-08-21.csv", trendHeader+
		"2025-08-21,AAAU,Gold ETF,LONG,23.5,25.5,24.5,COMMODITIES\n")

	s, err := LoadTrendReports(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := s.LatestDate(), date.New(2025, 8, 21); got != want {
		t.Errorf("LatestDate() = %v want %v", got, want)
	}

	// XLU dropped out of the latest report: it is a closed position.
	latest := s.Latest()
	if len(latest) != 1 || latest[0].Symbol != "AAAU" || latest[0].TrendLow != 23.5 {
		t.Errorf("Latest() = %v want the single 2025-08-21 AAAU row", latest)
	}

	// mid-week days see the report in force, not the next one
	row, ok := s.AsOf("AAAU", date.New(2025, 8, 18))
	if !ok || row.TrendLow != 23.0 {
		t.Errorf("AsOf(AAAU, 08-18) = %v, %v want the 2025-08-14 row", row, ok)
	}
	if _, ok := s.AsOf("AAAU", date.New(2025, 8, 13)); ok {
		t.Error("AsOf before the first report must report absence")
	}
}

func TestLoadTrendReportsEmpty(t *testing.T) {
	if _, err := LoadTrendReports(t.TempDir()); err == nil {
		t.Error("LoadTrendReports with no report files must fail")
	}
}

func TestLoadRanks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ranks_2025-08-20.csv", "report_date,rank,symbol,name\n"+
		"2025-08-20,9,AAAU,Goldman Physical Gold\n")
	writeFile(t, dir, "ranks_2025-08-21.csv", "report_date,rank,symbol,name\n"+
		"2025-08-21,1,AAAU,Goldman Physical Gold\n"+
		"2025-08-21,2,XLU,Utilities Select\n")

	ranks, err := LoadRanks(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranks) != 2 {
		t.Fatalf("LoadRanks returned %d rows want 2", len(ranks))
	}
	if r := ranks["AAAU"]; r.Rank != 1 || r.ReportDate != date.New(2025, 8, 21) {
		t.Errorf("ranks[AAAU] = %+v want rank 1 from the 2025-08-21 list", r)
	}
}

func TestLoadReferenceRanges(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "reference_ranges.csv", "date,symbol,trend,trade_low,trade_high,prev_close\n"+
		"2025-08-20,GOLD,BULLISH,2380.0,2440.0,2410.0\n"+
		"2025-08-21,GOLD,BULLISH,2390.0,2450.0,2420.0\n"+
		"2025-08-21,UST30Y,BEARISH,4.5,4.8,4.6\n")

	s, err := LoadReferenceRanges(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d want 3", s.Len())
	}
	if got := s.Symbols(); len(got) != 2 || got[0] != "GOLD" || got[1] != "UST30Y" {
		t.Errorf("Symbols() = %v want [GOLD UST30Y]", got)
	}

	if _, ok := s.Get("GOLD", date.New(2025, 8, 22)); ok {
		t.Error("Get must be an exact-day lookup")
	}
	// a weekend day carries the last published row
	row, ok := s.AsOf("GOLD", date.New(2025, 8, 23))
	if !ok || row.TradeLow != 2390.0 {
		t.Errorf("AsOf(GOLD, 08-23) = %v, %v want the 2025-08-21 row", row, ok)
	}
}

func TestLoadReferenceRangesMissingFile(t *testing.T) {
	s, err := LoadReferenceRanges(filepath.Join(t.TempDir(), "reference_ranges.csv"))
	if err != nil {
		t.Fatalf("missing feed file must yield an empty series, got: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d want 0", s.Len())
	}
}

func TestLoadTrendReportsBadRow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "trend_ranges_2025-08-21.csv", trendHeader+
		"2025-08-21,AAAU,Gold ETF,LONG,not-a-number,25.5,24.5,COMMODITIES\n")
	if _, err := LoadTrendReports(dir); err == nil {
		t.Error("a malformed numeric cell must fail the load")
	}
}
