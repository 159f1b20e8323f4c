// Package renderer turns pipeline reports into markdown for terminal display.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/riskrange"
)

// PositionsMarkdown renders the merged positions as a markdown report.
func PositionsMarkdown(positions []riskrange.Position) string {
	var b strings.Builder
	if len(positions) == 0 {
		b.WriteString("# Positions\n\nNo position in the latest weekly report.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "# Positions on %s\n\n", positions[0].ReportDate)

	rows := make([][]string, 0, len(positions))
	for _, p := range positions {
		rows = append(rows, []string{
			p.Symbol,
			string(p.Position),
			optInt(p.Rank),
			usd(p.TrendLow) + " .. " + usd(p.TrendHigh),
			optUSD(p.PCurrent),
			tradeRange(p.PTradeLow, p.PTradeHigh),
			optPct(p.TrendPctFromLow),
			optPct(p.TrendPctFromHigh),
		})
	}
	table(&b, []string{"Symbol", "Side", "Rank", "Trend Range", "Price", "Trade Range", "From Low", "From High"}, rows)

	var uncovered []string
	for _, p := range positions {
		if p.RefSymbol == "" {
			uncovered = append(uncovered, p.Symbol)
		}
	}
	if len(uncovered) > 0 {
		fmt.Fprintf(&b, "\nWithout reference coverage: %s.\n", strings.Join(uncovered, ", "))
	}
	return b.String()
}

func tradeRange(low, high *float64) string {
	if low == nil || high == nil {
		return "-"
	}
	return usd(*low) + " .. " + usd(*high)
}

// SummaryMarkdown renders the run summary as a markdown report.
func SummaryMarkdown(s riskrange.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Run Summary on %s\n\n", s.On)
	fmt.Fprintf(&b, "Weekly report: %s\n\n", s.ReportDate)

	table(&b, []string{"Metric", "Count"}, [][]string{
		{"Positions", fmt.Sprintf("%d", s.Positions)},
		{"Ranked", fmt.Sprintf("%d", s.Ranked)},
		{"Translated trade ranges", fmt.Sprintf("%d", s.Translated)},
		{"Missing mappings", fmt.Sprintf("%d", len(s.MissingMappings))},
		{"Uncovered references", fmt.Sprintf("%d", len(s.UncoveredRefs))},
		{"Unresolved prices", fmt.Sprintf("%d", len(s.UnresolvedSymbols))},
	})

	section := func(title string, symbols []string) {
		if len(symbols) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n## %s\n\n", title)
		for _, symbol := range symbols {
			fmt.Fprintf(&b, "- %s\n", symbol)
		}
	}
	section("Missing mappings", s.MissingMappings)
	section("Uncovered references", s.UncoveredRefs)
	section("Unresolved prices", s.UnresolvedSymbols)
	return b.String()
}

// SeriesMarkdown renders one symbol's daily series as a markdown report.
func SeriesMarkdown(symbol string, points []riskrange.SeriesPoint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily Series %s\n\n", symbol)

	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			p.On.String(),
			tradeRange(p.TrendLow, p.TrendHigh),
			tradeRange(p.PTradeLow, p.PTradeHigh),
			optUSD(p.Price),
		})
	}
	table(&b, []string{"Date", "Trend Range", "Trade Range", "Price"}, rows)
	return b.String()
}
