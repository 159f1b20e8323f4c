package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/riskrange"
	"github.com/etnz/riskrange/date"
	"github.com/etnz/riskrange/renderer"
	"github.com/google/subcommands"
)

type summaryCmd struct {
	days int
}

func (*summaryCmd) Name() string { return "summary" }
func (*summaryCmd) Synopsis() string {
	return "show what the pipeline run produced and what it could not"
}
func (*summaryCmd) Usage() string {
	return `rrs summary [-days <n>]

  Runs the merge and reports aggregate counts: positions, ranked symbols,
  translated trade ranges, and the symbols left without mapping, reference
  coverage or prices.

`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 7, "Lookback window for current prices, in calendar days.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Println("no arguments expected")
		return subcommands.ExitUsageError
	}

	positions, report, err := runMerge(c.days)
	if err != nil {
		return fail(err)
	}

	s := riskrange.Summarize(date.Today(), positions, report)
	s.Log()
	printMarkdown(renderer.SummaryMarkdown(s))
	return subcommands.ExitSuccess
}
