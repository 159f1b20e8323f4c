// Package cmd implements the CLI application driving the range pipeline.
package cmd

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/riskrange"
	"github.com/etnz/riskrange/date"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on
// the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&fetchCmd{}, "prices")
	c.Register(&backfillCmd{}, "prices")

	c.Register(&mergeCmd{}, "reports")
	c.Register(&seriesCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

var cacheFile = flag.String("cache-file", "prices.csv", "Path to the price cache table (CSV format)")
var mappingFile = flag.String("mapping-file", "mappings.yaml", "Path to the symbol proxy-mapping artifact")
var trendDir = flag.String("trend-dir", "reports", "Directory holding the dated weekly trend_ranges_*.csv files")
var ranksDir = flag.String("ranks-dir", "reports", "Directory holding the dated ranks_*.csv files")
var refsFile = flag.String("refs-file", "reference_ranges.csv", "Path to the reference trading-range feed table")
var outDir = flag.String("out-dir", "out", "Directory receiving the exported CSV tables")

// OpenCache opens the app price cache table.
func OpenCache() (*riskrange.PriceCache, error) {
	return riskrange.OpenPriceCache(*cacheFile)
}

// Providers returns the price gateway chain, primary first.
func Providers() riskrange.Chain {
	return riskrange.Chain{riskrange.NewFMPFetcher(), riskrange.NewYahooFetcher()}
}

// inputs bundles the loaded report tables.
type inputs struct {
	trends   *riskrange.TrendSeries
	ranks    map[string]riskrange.Rank
	mappings *riskrange.MappingTable
	refs     *riskrange.ReferenceSeries
}

// loadInputs loads the weekly reports, ranks, mapping artifact and reference
// feed from the app paths. A missing rank list is a warning, not a failure:
// rank is a left-joined optional.
func loadInputs() (in inputs, err error) {
	in.trends, err = riskrange.LoadTrendReports(*trendDir)
	if err != nil {
		return in, err
	}
	in.ranks, err = riskrange.LoadRanks(*ranksDir)
	if err != nil {
		log.Printf("warning, no rank list: %v", err)
		in.ranks, err = map[string]riskrange.Rank{}, nil
	}
	in.mappings, err = riskrange.LoadMappings(*mappingFile)
	if err != nil {
		return in, err
	}
	in.refs, err = riskrange.LoadReferenceRanges(*refsFile)
	return in, err
}

// universe returns the symbols to price: every held symbol plus every mapped
// reference symbol, deduplicated.
func (in inputs) universe() []string {
	seen := make(map[string]bool)
	var symbols []string
	add := func(symbol string) {
		if symbol != "" && !seen[symbol] {
			seen[symbol] = true
			symbols = append(symbols, symbol)
		}
	}
	for _, row := range in.trends.Latest() {
		add(row.Symbol)
		if m, ok := in.mappings.Get(row.Symbol); ok {
			add(m.RSym)
		}
	}
	return symbols
}

// runMerge resolves prices over the lookback window and merges the sources
// into positions.
func runMerge(days int) ([]riskrange.Position, riskrange.FetchReport, error) {
	in, err := loadInputs()
	if err != nil {
		return nil, riskrange.FetchReport{}, err
	}
	cache, err := OpenCache()
	if err != nil {
		return nil, riskrange.FetchReport{}, err
	}

	today := date.Today()
	rows, report, err := cache.Resolve(Providers(), in.universe(), date.LastDays(today, days))
	if err != nil {
		return nil, report, err
	}

	positions := riskrange.Merge(today, in.trends, in.ranks, in.mappings, in.refs, riskrange.LatestCloses(rows))
	return positions, report, nil
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when the renderer fails.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// fail reports a command error on stderr.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
