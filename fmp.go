package riskrange

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/etnz/riskrange/date"
)

// Financial Modeling Prep provider, the primary price source.

const fmpAPIKeyEnv = "FMP_API_KEY"

var fmpAPIFlag = flag.String("fmp-api-key", "", "Financial Modeling Prep API key for fetching daily close prices.\n If missing it will read the environment variable \""+fmpAPIKeyEnv+"\".")

func fmpAPIKey() string {
	if *fmpAPIFlag == "" {
		*fmpAPIFlag = os.Getenv(fmpAPIKeyEnv)
	}
	return *fmpAPIFlag
}

// FMPFetcher fetches daily close prices from financialmodelingprep.com.
type FMPFetcher struct {
	Client *http.Client
}

// NewFMPFetcher returns a fetcher with a daily-expiring response cache.
func NewFMPFetcher() *FMPFetcher { return &FMPFetcher{Client: dailyClient()} }

// Name implements Fetcher.
func (f *FMPFetcher) Name() string { return "fmp" }

// fmpBatchSize limits symbols per request, per the API's batch quote limit.
const fmpBatchSize = 100

// Daily implements Fetcher using the historical-price-full endpoint.
func (f *FMPFetcher) Daily(symbols []string, span date.Range) ([]CachedPrice, error) {
	apiKey := fmpAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("FMP API key is not set. Use -fmp-api-key flag or %s environment variable", fmpAPIKeyEnv)
	}

	// https://financialmodelingprep.com/api/v3/historical-price-full/AAAU,QQQ?from=...&to=...
	// single-symbol requests return the object directly, batches wrap it in
	// "historicalStockList".
	type jday struct {
		Date  date.Date `json:"date"`
		Close float64   `json:"close"`
	}
	type jsymbol struct {
		Symbol     string `json:"symbol"`
		Historical []jday `json:"historical"`
	}
	type jpayload struct {
		jsymbol
		List []jsymbol `json:"historicalStockList"`
	}

	var rows []CachedPrice
	for start := 0; start < len(symbols); start += fmpBatchSize {
		batch := symbols[start:min(start+fmpBatchSize, len(symbols))]
		addr := fmt.Sprintf("https://financialmodelingprep.com/api/v3/historical-price-full/%s?from=%s&to=%s&apikey=%s",
			strings.Join(batch, ","), span.From, span.To, apiKey)

		var payload jpayload
		if err := jwget(f.Client, addr, &payload); err != nil {
			// a failing batch is a gap for its symbols, not a fatal condition
			log.Printf("fmp: batch of %d symbols failed: %v", len(batch), err)
			continue
		}

		list := payload.List
		if len(list) == 0 && payload.Symbol != "" {
			list = []jsymbol{payload.jsymbol}
		}
		for _, sym := range list {
			for _, day := range sym.Historical {
				if span.Contains(day.Date) {
					rows = append(rows, CachedPrice{On: day.Date, Symbol: sym.Symbol, Price: day.Close})
				}
			}
		}
	}
	return rows, nil
}
