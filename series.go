package riskrange

import "github.com/etnz/riskrange/date"

// This file expands the weekly trend ranges onto a daily axis. Weekly values
// are stepwise-constant: each day carries the most recent report dated at or
// before it. Reference ranges and closes, which are daily feeds, join on the
// exact day only, so a quiet feed leaves gaps instead of inventing values.

// BuildDailySeries returns one point per day of the window for one portfolio
// symbol.
//
// The close price is the cached close for that exact day, falling back to the
// in-force weekly report's recent price. The translated trade range uses the
// reference row published exactly that day, with its prev_close as the
// reference price. Days before the first weekly report carry no values.
func BuildDailySeries(symbol string, window date.Range, trends *TrendSeries, mappings *MappingTable, refs *ReferenceSeries, closes *date.History[float64]) []SeriesPoint {
	mapping, mapped := mappings.Get(symbol)

	points := make([]SeriesPoint, 0, window.Len())
	for day := range window.Days() {
		point := SeriesPoint{On: day, Symbol: symbol}

		weekly, inForce := trends.AsOf(symbol, day)
		if inForce {
			point.TrendLow = f64(weekly.TrendLow)
			point.TrendHigh = f64(weekly.TrendHigh)
		}

		if close, ok := closes.Get(day); ok {
			point.Price = f64(close)
		} else if inForce {
			point.Price = f64(weekly.RecentPrice)
		}

		if mapped && mapping.HasReference() {
			if ref, ok := refs.Get(mapping.RSym, day); ok {
				point.PTradeLow, point.PTradeHigh = TranslateRange(
					f64(ref.TradeLow), f64(ref.TradeHigh), f64(ref.PrevClose), point.Price, mapping.Inverted)
			}
		}

		points = append(points, point)
	}
	return points
}
