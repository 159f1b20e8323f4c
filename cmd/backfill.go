package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/etnz/riskrange"
	"github.com/etnz/riskrange/date"
	"github.com/google/subcommands"
)

type backfillCmd struct{}

func (*backfillCmd) Name() string { return "backfill" }
func (*backfillCmd) Synopsis() string {
	return "overwrite one settled day of the price cache"
}
func (*backfillCmd) Usage() string {
	return `rrs backfill <symbol> <date> <price>

  Writes a corrected close price for a settled (date, symbol) cell, replacing
  whatever the cache holds. The regular fetch path never rewrites settled
  history; this command is the explicit correction for a bad provider value.
  A date whose session is still open is rejected.

Usage Examples:
# Correct a stock-split artifact.
$ rrs backfill AAAU 2025-08-21 24.53

`
}

func (c *backfillCmd) SetFlags(f *flag.FlagSet) {}

func (c *backfillCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Println("expected: <symbol> <date> <price>")
		return subcommands.ExitUsageError
	}
	symbol := f.Arg(0)
	on, err := date.Parse(f.Arg(1))
	if err != nil {
		return fail(err)
	}
	price, err := strconv.ParseFloat(f.Arg(2), 64)
	if err != nil {
		return fail(fmt.Errorf("invalid price %q: %w", f.Arg(2), err))
	}

	cache, err := OpenCache()
	if err != nil {
		return fail(err)
	}
	kept, rejected := cache.Backfill([]riskrange.CachedPrice{{On: on, Symbol: symbol, Price: price}})
	if rejected > 0 {
		return fail(fmt.Errorf("the %s session is not closed yet, today's price is tentative", on))
	}
	if err := cache.Save(); err != nil {
		return fail(err)
	}
	fmt.Printf("backfilled %d row: %s %s %v\n", kept, symbol, on, price)
	return subcommands.ExitSuccess
}
