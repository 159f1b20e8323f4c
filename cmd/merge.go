package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/riskrange"
	"github.com/etnz/riskrange/renderer"
	"github.com/google/subcommands"
)

type mergeCmd struct {
	days   int
	export bool
}

func (*mergeCmd) Name() string { return "merge" }
func (*mergeCmd) Synopsis() string {
	return "merge the weekly report, ranks, mappings and reference ranges into positions"
}
func (*mergeCmd) Usage() string {
	return `rrs merge [-days <n>] [-export]

  Builds one enriched position per symbol of the latest weekly report: rank,
  proxy mapping, latest reference range, current prices and the range
  translated into the symbol's own coordinates. With -export the table is
  also written to the output directory.

Usage Examples:
# Review the current positions in the terminal.
$ rrs merge

# Produce positions_<report date>.csv for downstream tooling.
$ rrs merge -export

`
}

func (c *mergeCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 7, "Lookback window for current prices, in calendar days.")
	f.BoolVar(&c.export, "export", false, "Also write the enriched CSV table to the output directory.")
}

func (c *mergeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Println("no arguments expected")
		return subcommands.ExitUsageError
	}

	positions, _, err := runMerge(c.days)
	if err != nil {
		return fail(err)
	}

	if c.export {
		if err := os.MkdirAll(*outDir, 0755); err != nil {
			return fail(err)
		}
		name, err := riskrange.ExportPositions(*outDir, positions)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", name)
	}

	printMarkdown(renderer.PositionsMarkdown(positions))
	return subcommands.ExitSuccess
}
