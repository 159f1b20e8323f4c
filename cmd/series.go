package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/riskrange"
	"github.com/etnz/riskrange/date"
	"github.com/etnz/riskrange/renderer"
	"github.com/google/subcommands"
)

type seriesCmd struct {
	days   int
	export bool
}

func (*seriesCmd) Name() string { return "series" }
func (*seriesCmd) Synopsis() string {
	return "build daily forward-filled range series"
}
func (*seriesCmd) Usage() string {
	return `rrs series [-days <n>] [-export] [symbol...]

  Expands the weekly trend ranges onto a daily axis over the lookback window,
  forward-filling each day with the report in force, joined with the
  reference range and close price of that exact day. Without arguments it
  builds every symbol of the latest weekly report; a single symbol is also
  rendered in the terminal.

Usage Examples:
# One symbol, printed.
$ rrs series AAAU

# Quarter-long series for the whole book, exported.
$ rrs series -days 90 -export

`
}

func (c *seriesCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 90, "Lookback window length in calendar days.")
	f.BoolVar(&c.export, "export", false, "Write one series_<symbol>.csv per symbol to the output directory.")
}

func (c *seriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := loadInputs()
	if err != nil {
		return fail(err)
	}

	symbols := f.Args()
	if len(symbols) == 0 {
		for _, row := range in.trends.Latest() {
			symbols = append(symbols, row.Symbol)
		}
	}

	cache, err := OpenCache()
	if err != nil {
		return fail(err)
	}
	window := date.LastDays(date.Today(), c.days)
	if _, _, err := cache.Resolve(Providers(), symbols, window); err != nil {
		return fail(err)
	}

	if c.export {
		if err := os.MkdirAll(*outDir, 0755); err != nil {
			return fail(err)
		}
	}
	for _, symbol := range symbols {
		points := riskrange.BuildDailySeries(symbol, window, in.trends, in.mappings, in.refs, cache.History(symbol))
		if c.export {
			name, err := riskrange.ExportSeries(*outDir, symbol, points)
			if err != nil {
				return fail(err)
			}
			fmt.Fprintf(os.Stderr, "wrote %s\n", name)
		}
		if len(symbols) == 1 {
			printMarkdown(renderer.SeriesMarkdown(symbol, points))
		}
	}
	return subcommands.ExitSuccess
}
