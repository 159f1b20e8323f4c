package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/riskrange/date"
	"github.com/google/subcommands"
)

type fetchCmd struct {
	days int
}

func (*fetchCmd) Name() string { return "fetch" }
func (*fetchCmd) Synopsis() string {
	return "fetch daily close prices into the price cache"
}
func (*fetchCmd) Usage() string {
	return `rrs fetch [-days <n>] [symbol...]

  Resolves daily close prices for the given symbols over the lookback window,
  from the cache first and from the provider chain for the missing days, and
  persists the result. Without arguments it prices the whole universe of the
  latest weekly report and its mapped reference symbols.

Usage Examples:
# Fill the cache for the current universe.
$ rrs fetch

# Price two symbols over the last quarter.
$ rrs fetch -days 90 AAAU TLT

`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 30, "Lookback window length in calendar days.")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	symbols := f.Args()
	if len(symbols) == 0 {
		in, err := loadInputs()
		if err != nil {
			return fail(err)
		}
		symbols = in.universe()
	}

	cache, err := OpenCache()
	if err != nil {
		return fail(err)
	}
	rows, report, err := cache.Resolve(Providers(), symbols, date.LastDays(date.Today(), c.days))
	if err != nil {
		return fail(err)
	}

	fmt.Printf("%d prices (%d cached, %d fetched), %d cells missing\n",
		len(rows), report.Hits, report.Fetched, len(report.Missing))
	if len(report.UnresolvedSymbols) > 0 {
		fmt.Printf("no price at all for: %v\n", report.UnresolvedSymbols)
	}
	return subcommands.ExitSuccess
}
