package riskrange

import (
	"fmt"
	"log"

	"github.com/etnz/riskrange/date"
)

// A Fetcher returns best-effort daily close prices for a set of symbols over
// an inclusive date span. It may silently omit symbols or dates it cannot
// resolve (non-trading days, delisted symbols); absence is not an error.
type Fetcher interface {
	Name() string
	Daily(symbols []string, span date.Range) ([]CachedPrice, error)
}

// FetchReport aggregates what a Resolve pass could and could not serve.
// Failures are counted, never raised per-row.
type FetchReport struct {
	Hits    int // cells served from the cache
	Fetched int // cells freshly fetched and merged
	Missing []CacheKey
	// UnresolvedSymbols are requested symbols with no price at all in the window.
	UnresolvedSymbols []string
}

// Chain composes fetchers in priority order: each provider only sees the
// symbols that earlier providers returned nothing for. A failing provider is
// logged and skipped, its symbols handed to the next one.
type Chain []Fetcher

// Name implements Fetcher.
func (c Chain) Name() string { return "chain" }

// Daily implements Fetcher by delegating to each provider in turn.
func (c Chain) Daily(symbols []string, span date.Range) ([]CachedPrice, error) {
	if len(c) == 0 {
		return nil, fmt.Errorf("no price providers configured")
	}

	var rows []CachedPrice
	remaining := symbols
	for _, f := range c {
		if len(remaining) == 0 {
			break
		}
		got, err := f.Daily(remaining, span)
		if err != nil {
			log.Printf("provider %s failed for %d symbols (trying next): %v", f.Name(), len(remaining), err)
			continue
		}
		rows = append(rows, got...)

		served := make(map[string]bool, len(got))
		for _, row := range got {
			served[row.Symbol] = true
		}
		var next []string
		for _, symbol := range remaining {
			if !served[symbol] {
				next = append(next, symbol)
			}
		}
		remaining = next
	}
	return rows, nil
}
