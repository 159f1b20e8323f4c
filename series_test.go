package riskrange

import (
	"strings"
	"testing"

	"github.com/etnz/riskrange/date"
)

func TestBuildDailySeriesForwardFill(t *testing.T) {
	trends := NewTrendSeries()
	trends.Add(TrendRange{ReportDate: date.New(2025, 8, 10), Symbol: "AAAU", TrendLow: 40, TrendHigh: 60, RecentPrice: 49})
	trends.Add(TrendRange{ReportDate: date.New(2025, 8, 17), Symbol: "AAAU", TrendLow: 42, TrendHigh: 62, RecentPrice: 51})

	mappings, err := DecodeMappings("fixture", strings.NewReader("mappings:\n  - p_sym: AAAU\n"))
	if err != nil {
		t.Fatal(err)
	}

	window := date.NewRange(date.New(2025, 8, 8), date.New(2025, 8, 18))
	points := BuildDailySeries("AAAU", window, trends, mappings, NewReferenceSeries(), new(date.History[float64]))
	if len(points) != 11 {
		t.Fatalf("series has %d points want 11", len(points))
	}
	byDay := make(map[date.Date]SeriesPoint, len(points))
	for _, p := range points {
		byDay[p.On] = p
	}

	// before the first report nothing is known
	if p := byDay[date.New(2025, 8, 9)]; p.TrendLow != nil || p.Price != nil {
		t.Errorf("2025-08-09 = %+v want empty point", p)
	}
	// the 08-10 report holds through 08-16...
	checkOptional(t, "2025-08-16 TrendLow", byDay[date.New(2025, 8, 16)].TrendLow, f64(40))
	// ...and is superseded on 08-17
	checkOptional(t, "2025-08-17 TrendLow", byDay[date.New(2025, 8, 17)].TrendLow, f64(42))
	checkOptional(t, "2025-08-18 TrendHigh", byDay[date.New(2025, 8, 18)].TrendHigh, f64(62))
}

func TestBuildDailySeriesPriceFallback(t *testing.T) {
	trends := NewTrendSeries()
	trends.Add(TrendRange{ReportDate: date.New(2025, 8, 10), Symbol: "AAAU", TrendLow: 40, TrendHigh: 60, RecentPrice: 49})
	mappings, err := DecodeMappings("fixture", strings.NewReader("mappings:\n  - p_sym: AAAU\n"))
	if err != nil {
		t.Fatal(err)
	}

	closes := new(date.History[float64])
	closes.Append(date.New(2025, 8, 11), 50.5)

	window := date.NewRange(date.New(2025, 8, 11), date.New(2025, 8, 12))
	points := BuildDailySeries("AAAU", window, trends, mappings, NewReferenceSeries(), closes)

	// a cached close wins, a day without one carries the weekly recent price
	checkOptional(t, "2025-08-11 Price", points[0].Price, f64(50.5))
	checkOptional(t, "2025-08-12 Price", points[1].Price, f64(49))
}

func TestBuildDailySeriesExactDayReferenceJoin(t *testing.T) {
	trends := NewTrendSeries()
	trends.Add(TrendRange{ReportDate: date.New(2025, 8, 10), Symbol: "AAAU", TrendLow: 40, TrendHigh: 60, RecentPrice: 50})
	mappings, err := DecodeMappings("fixture", strings.NewReader(
		"mappings:\n  - p_sym: AAAU\n    r_sym: GOLD\n    proxy_kind: tracker\n"))
	if err != nil {
		t.Fatal(err)
	}
	refs := NewReferenceSeries()
	refs.Add(ReferenceRange{On: date.New(2025, 8, 11), Symbol: "GOLD", TradeLow: 90, TradeHigh: 110, PrevClose: 100})

	window := date.NewRange(date.New(2025, 8, 11), date.New(2025, 8, 12))
	points := BuildDailySeries("AAAU", window, trends, mappings, refs, new(date.History[float64]))

	// on the published day prev_close is the reference price: 90/100*50, 110/100*50
	checkOptional(t, "2025-08-11 PTradeLow", points[0].PTradeLow, f64(45))
	checkOptional(t, "2025-08-11 PTradeHigh", points[0].PTradeHigh, f64(55))
	// the next day has no feed row, the range does not forward-fill
	if points[1].PTradeLow != nil || points[1].PTradeHigh != nil {
		t.Errorf("2025-08-12 trade range = %v..%v want absent", deref(points[1].PTradeLow), deref(points[1].PTradeHigh))
	}
}
