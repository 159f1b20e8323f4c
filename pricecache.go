package riskrange

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/etnz/riskrange/date"
)

// This file persists daily close prices in a single flat CSV table keyed by
// (date, symbol). The whole table is loaded into an in-memory per-symbol
// index, mutated, and rewritten atomically (temp file + rename). The system
// runs as a single process, so "last successful run wins" is the only crash
// guarantee required.
//
// The central invariant: a price observed for "today" while the trading
// session is still open is tentative and must never reach the historical
// record. Put discards such rows and Get pretends not to have them, so the
// next caller re-fetches.

// CacheKey identifies one cell of the price table.
type CacheKey struct {
	On     date.Date
	Symbol string
}

// PriceCache is a durable (date, symbol) -> close price table.
type PriceCache struct {
	path   string
	prices map[string]*date.History[float64]

	now func() time.Time // replaced in tests to pin the session clock
}

// NewPriceCache returns an empty cache that will persist to path.
func NewPriceCache(path string) *PriceCache {
	return &PriceCache{
		path:   path,
		prices: make(map[string]*date.History[float64]),
		now:    time.Now,
	}
}

// OpenPriceCache loads the cache table from disk. A missing file yields an
// empty cache.
func OpenPriceCache(path string) (*PriceCache, error) {
	c := NewPriceCache(path)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil // empty cache
		}
		return nil, fmt.Errorf("cannot open price cache %q: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse error in price cache %q: %w", path, err)
	}
	for i, rec := range records {
		if i == 0 {
			continue // header
		}
		if len(rec) != 3 {
			return nil, fmt.Errorf("parse error %s:%d: want 3 columns, got %d", path, i+1, len(rec))
		}
		on, err := date.Parse(rec[0])
		if err != nil {
			return nil, fmt.Errorf("parse error %s:%d: %w", path, i+1, err)
		}
		price, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("parse error %s:%d: invalid price %q: %w", path, i+1, rec[2], err)
		}
		c.history(rec[1]).Append(on, price)
	}
	return c, nil
}

// history returns the per-symbol series, creating it on first use.
func (c *PriceCache) history(symbol string) *date.History[float64] {
	h, ok := c.prices[symbol]
	if !ok {
		h = new(date.History[float64])
		c.prices[symbol] = h
	}
	return h
}

// Len returns the number of (date, symbol) cells stored.
func (c *PriceCache) Len() int {
	n := 0
	for _, h := range c.prices {
		n += h.Len()
	}
	return n
}

// History returns the stored close series for a symbol, empty if unknown.
func (c *PriceCache) History(symbol string) *date.History[float64] {
	if h, ok := c.prices[symbol]; ok {
		return h
	}
	return new(date.History[float64])
}

// Get looks up every (date, symbol) cell in the cartesian product of symbols
// and the inclusive window, splitting it into found rows and missing keys.
//
// A stored value for today is treated as absent while today's session is
// still open, even if an earlier call of the same session persisted one:
// the caller must re-fetch.
func (c *PriceCache) Get(symbols []string, window date.Range) (found []CachedPrice, missing []CacheKey) {
	at := c.now()
	today := sessionDate(at)
	closed := IsSessionClosed(at)

	for _, symbol := range symbols {
		h := c.prices[symbol]
		for day := range window.Days() {
			if h != nil {
				if price, ok := h.Get(day); ok {
					if day == today && !closed {
						// tentative intraday value, pretend it is not there
						missing = append(missing, CacheKey{day, symbol})
						continue
					}
					found = append(found, CachedPrice{On: day, Symbol: symbol, Price: price})
					continue
				}
			}
			missing = append(missing, CacheKey{day, symbol})
		}
	}
	return found, missing
}

// Put merges freshly fetched rows into the in-memory table.
//
// Rows for settled dates are always kept; re-putting an identical row is a
// no-op and a new value for a settled (date, symbol) key overwrites the old
// one (backfill corrections). Rows for today are kept only if today's
// session is already closed; otherwise they are discarded and the next
// caller re-fetches. Returns how many rows were kept and discarded.
//
// Call Save to persist the merge.
func (c *PriceCache) Put(rows []CachedPrice) (kept, discarded int) {
	at := c.now()
	today := sessionDate(at)
	closed := IsSessionClosed(at)

	for _, row := range rows {
		if row.On == today && !closed {
			discarded++
			continue
		}
		c.history(row.Symbol).Append(row.On, row.Price)
		kept++
	}
	if discarded > 0 {
		log.Printf("price-cache discarded %d tentative rows for open session on %s", discarded, today)
	}
	return kept, discarded
}

// Backfill overwrites settled-day rows regardless of what is already stored.
// It is the explicit, separately-authorized correction path: rows for a
// still-open today are rejected here too, returned as the second value.
func (c *PriceCache) Backfill(rows []CachedPrice) (kept, rejected int) {
	// Same session gate as Put; the difference is intent, Backfill callers
	// knowingly rewrite settled history.
	return c.Put(rows)
}

// Save rewrites the whole table to disk, sorted by date then symbol, through
// a temp file renamed over the target.
func (c *PriceCache) Save() error {
	symbols := make([]string, 0, len(c.prices))
	histories := make([]date.History[float64], 0, len(c.prices))
	for symbol := range c.prices {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	for _, symbol := range symbols {
		histories = append(histories, *c.prices[symbol])
	}

	tmp := c.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("persist error: cannot create file %q: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "symbol", "price"}); err != nil {
		f.Close()
		return fmt.Errorf("persist error: cannot write to %q: %w", tmp, err)
	}
	for day := range date.Iterate(histories...) {
		for i, symbol := range symbols {
			if price, ok := histories[i].Get(day); ok {
				rec := []string{day.String(), symbol, strconv.FormatFloat(price, 'g', -1, 64)}
				if err := w.Write(rec); err != nil {
					f.Close()
					return fmt.Errorf("persist error: cannot write to %q: %w", tmp, err)
				}
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("persist error: cannot write to %q: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("persist error: cannot close %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("persist error: cannot rename %q over %q: %w", tmp, c.path, err)
	}
	return nil
}

// Resolve returns the best available close price for every cell of the
// requested window: cache hits first, then a single grouped gateway call for
// the missing cells, persisting whatever is eligible.
//
// A gateway failure never aborts the run; unresolved cells are reported in
// the FetchReport and simply stay absent.
func (c *PriceCache) Resolve(f Fetcher, symbols []string, window date.Range) ([]CachedPrice, FetchReport, error) {
	found, missing := c.Get(symbols, window)
	report := FetchReport{Hits: len(found)}

	result := append([]CachedPrice(nil), found...)

	if len(missing) > 0 {
		// Group the missing cells by symbol and fetch each symbol's full
		// needed span in one gateway pass.
		span, missingSymbols := missingSpan(missing)
		missingSet := make(map[CacheKey]bool, len(missing))
		for _, key := range missing {
			missingSet[key] = true
		}

		fetched, err := f.Daily(missingSymbols, span)
		if err != nil {
			// Degrade: what the gateway could not serve is a gap, not a failure.
			log.Printf("fetch error (recorded as misses): %v", err)
		}

		var fresh []CachedPrice
		for _, row := range fetched {
			// Keep only cells we actually miss, so a provider returning a
			// wider span cannot silently rewrite settled cached values.
			if missingSet[CacheKey{row.On, row.Symbol}] {
				fresh = append(fresh, row)
				delete(missingSet, CacheKey{row.On, row.Symbol})
			}
		}
		report.Fetched = len(fresh)

		if len(fresh) > 0 {
			c.Put(fresh)
			if err := c.Save(); err != nil {
				return nil, report, err
			}
			result = append(result, fresh...)
		}

		for key := range missingSet {
			report.Missing = append(report.Missing, key)
		}
	}

	report.UnresolvedSymbols = unresolvedSymbols(symbols, result)
	if n := len(report.UnresolvedSymbols); n > 0 {
		log.Printf("prices unresolved for %d symbols: %v", n, report.UnresolvedSymbols)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].On != result[j].On {
			return result[i].On.Before(result[j].On)
		}
		return result[i].Symbol < result[j].Symbol
	})
	return result, report, nil
}

// missingSpan returns the full date span covering the missing cells and the
// sorted set of symbols involved.
func missingSpan(missing []CacheKey) (date.Range, []string) {
	span := date.Range{From: missing[0].On, To: missing[0].On}
	set := make(map[string]bool)
	for _, key := range missing {
		if key.On.Before(span.From) {
			span.From = key.On
		}
		if key.On.After(span.To) {
			span.To = key.On
		}
		set[key.Symbol] = true
	}
	symbols := make([]string, 0, len(set))
	for symbol := range set {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return span, symbols
}

// unresolvedSymbols returns requested symbols for which not a single row was
// resolved, sorted.
func unresolvedSymbols(symbols []string, rows []CachedPrice) []string {
	resolved := make(map[string]bool, len(symbols))
	for _, row := range rows {
		resolved[row.Symbol] = true
	}
	var out []string
	for _, symbol := range symbols {
		if !resolved[symbol] {
			out = append(out, symbol)
		}
	}
	sort.Strings(out)
	return out
}
