package riskrange

import "github.com/etnz/riskrange/date"

// This file defines the records exchanged between the pipeline stages.
// Fields that can legitimately be absent (no mapping, no price, no reference
// coverage) are pointers; a nil pointer is "absent", never zero.

// CachedPrice is one close price for one symbol on one calendar day.
type CachedPrice struct {
	On     date.Date `json:"on"`
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
}

// PositionType tells whether the weekly report holds the symbol long or short.
type PositionType string

const (
	Long  PositionType = "LONG"
	Short PositionType = "SHORT"
)

// TrendRange is one row of the weekly trend-range report. Each weekly report
// supersedes the previous one for the same symbol; only the latest report
// describes the current state.
type TrendRange struct {
	ReportDate  date.Date
	Symbol      string
	Description string
	Position    PositionType
	TrendLow    float64
	TrendHigh   float64
	RecentPrice float64
	AssetClass  string
}

// Rank is one row of the daily rank list.
type Rank struct {
	ReportDate date.Date
	Symbol     string
	Rank       int
	Name       string
}

// ReferenceRange is one row of the third-party daily trading-range feed,
// expressed in the reference symbol's own price coordinates. The series is
// append-only; historical rows are never altered.
type ReferenceRange struct {
	On        date.Date
	Symbol    string
	TradeLow  float64
	TradeHigh float64
	PrevClose float64
	Trend     string
}

// Position is the merged view of one held symbol: the latest weekly trend
// range joined with rank, proxy mapping, latest reference range, current
// prices and the translated trade range. It is rebuilt on every run and never
// persisted incrementally.
type Position struct {
	Symbol      string
	Description string
	Position    PositionType
	AssetClass  string
	ReportDate  date.Date

	TrendLow    float64
	TrendHigh   float64
	RecentPrice float64

	Rank     *int
	RankDate date.Date

	RefSymbol  string // empty when the symbol has no reference coverage
	ProxyKind  ProxyKind
	Inverted   bool
	Confidence Confidence

	RefDate   date.Date
	TradeLow  *float64
	TradeHigh *float64
	PrevClose *float64
	RefTrend  string

	PCurrent *float64
	RCurrent *float64

	PTradeLow  *float64
	PTradeHigh *float64

	// Percent distances of the current price from each range bound.
	TrendPctFromLow   *float64
	TrendPctFromHigh  *float64
	TradePctFromLow   *float64
	TradePctFromHigh  *float64
	PTradePctFromLow  *float64
	PTradePctFromHigh *float64
}

// SeriesPoint is one day of the per-symbol output series: the forward-filled
// weekly trend range, the translated trade range for that exact day, and the
// best available close price.
type SeriesPoint struct {
	On         date.Date
	Symbol     string
	TrendLow   *float64
	TrendHigh  *float64
	PTradeLow  *float64
	PTradeHigh *float64
	Price      *float64
}

// f64 returns a pointer holding v, for optional record fields.
func f64(v float64) *float64 { return &v }
