package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/riskrange"
	"github.com/etnz/riskrange/date"
)

func fptr(v float64) *float64 { return &v }

func TestPositionsMarkdown(t *testing.T) {
	rank := 1
	got := PositionsMarkdown([]riskrange.Position{
		{
			Symbol: "AAAU", Position: riskrange.Long, ReportDate: date.New(2025, 8, 21),
			TrendLow: 40, TrendHigh: 60, Rank: &rank, RefSymbol: "GOLD",
			PCurrent: fptr(50), PTradeLow: fptr(45), PTradeHigh: fptr(55),
			TrendPctFromLow: fptr(25),
		},
		{
			Symbol: "BUXX", Position: riskrange.Long, ReportDate: date.New(2025, 8, 21),
			TrendLow: 20, TrendHigh: 30, PCurrent: fptr(25),
		},
	})

	for _, want := range []string{
		"# Positions on 2025-08-21",
		"| AAAU | LONG | 1 | $40.00 .. $60.00 | $50.00 | $45.00 .. $55.00 | +25.0% | - |",
		"| BUXX | LONG | - |",
		"Without reference coverage: BUXX.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report misses %q:\n%s", want, got)
		}
	}
}

func TestSummaryMarkdown(t *testing.T) {
	got := SummaryMarkdown(riskrange.RunSummary{
		On:         date.New(2025, 8, 22),
		ReportDate: date.New(2025, 8, 21),
		Positions:  3, Ranked: 1, Translated: 2,
		MissingMappings: []string{"BUXX"},
	})
	for _, want := range []string{
		"# Run Summary on 2025-08-22",
		"| Positions | 3 |",
		"## Missing mappings",
		"- BUXX",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report misses %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "## Unresolved prices") {
		t.Error("empty sections must be omitted")
	}
}

func TestSeriesMarkdown(t *testing.T) {
	got := SeriesMarkdown("AAAU", []riskrange.SeriesPoint{
		{On: date.New(2025, 8, 11), Symbol: "AAAU", TrendLow: fptr(40), TrendHigh: fptr(60), Price: fptr(50.5)},
		{On: date.New(2025, 8, 12), Symbol: "AAAU"},
	})
	for _, want := range []string{
		"# Daily Series AAAU",
		"| 2025-08-11 | $40.00 .. $60.00 | - | $50.50 |",
		"| 2025-08-12 | - | - | - |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report misses %q:\n%s", want, got)
		}
	}
}
