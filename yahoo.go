package riskrange

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/riskrange/date"
)

// Yahoo Finance chart provider, the fallback price source. It needs no API
// key, which makes it the catch-all for symbols the primary cannot resolve.

// YahooFetcher fetches daily close prices from the Yahoo Finance chart API.
type YahooFetcher struct {
	Client *http.Client
}

// NewYahooFetcher returns a fetcher with a daily-expiring response cache.
func NewYahooFetcher() *YahooFetcher { return &YahooFetcher{Client: dailyClient()} }

// Name implements Fetcher.
func (f *YahooFetcher) Name() string { return "yahoo" }

// Daily implements Fetcher. The chart API serves one symbol per request; a
// symbol that fails is skipped and simply missing from the result.
func (f *YahooFetcher) Daily(symbols []string, span date.Range) ([]CachedPrice, error) {
	var rows []CachedPrice
	for _, symbol := range symbols {
		got, err := f.daily(symbol, span)
		if err != nil {
			log.Printf("yahoo: no data for %q: %v", symbol, err)
			continue
		}
		rows = append(rows, got...)
	}
	return rows, nil
}

func (f *YahooFetcher) daily(symbol string, span date.Range) ([]CachedPrice, error) {
	// the chart API takes unix bounds; the upper one is exclusive.
	from := unixMidnight(span.From)
	to := unixMidnight(span.To.Add(1))
	addr := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d", symbol, from, to)

	var jobj any
	if err := jwget(f.Client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("error in wget %q: %w", symbol, err)
	}

	timestamps, err := jfloats(jobj, "$.chart.result[0].timestamp")
	if err != nil {
		return nil, err
	}
	closes, err := jfloats(jobj, "$.chart.result[0].indicators.quote[0].close")
	if err != nil {
		return nil, err
	}
	if len(timestamps) != len(closes) {
		return nil, fmt.Errorf("chart for %q has %d timestamps but %d closes", symbol, len(timestamps), len(closes))
	}

	var rows []CachedPrice
	for i, ts := range timestamps {
		if closes[i] == nil {
			continue // half-day or suspended session, yahoo pads with null
		}
		on := date.New(time.Unix(int64(*ts), 0).UTC().Date())
		if span.Contains(on) {
			rows = append(rows, CachedPrice{On: on, Symbol: symbol, Price: *closes[i]})
		}
	}
	return rows, nil
}

// unixMidnight returns the unix time of midnight UTC on the given day.
func unixMidnight(d date.Date) int64 {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Unix()
}

// jfloats extracts a list of optional numbers from a parsed JSON document.
func jfloats(jobj any, path string) ([]*float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %q: not a list: %v", path, jval)
	}
	out := make([]*float64, 0, len(jlist))
	for _, jv := range jlist {
		if v, ok := jv.(float64); ok {
			out = append(out, &v)
		} else {
			out = append(out, nil) // null entries mark days without a close
		}
	}
	return out, nil
}
