package riskrange

import "github.com/etnz/riskrange/date"

// This file joins the four sources into one Position per held symbol. Every
// join is a left join from the latest weekly report: a missing rank, mapping
// or reference row leaves fields absent, it never drops the symbol, and no
// symbol outside the weekly report is ever fabricated.

// LatestCloses indexes resolved price rows by symbol, keeping the most recent
// close for each.
func LatestCloses(rows []CachedPrice) map[string]float64 {
	latest := make(map[string]date.Date)
	closes := make(map[string]float64)
	for _, row := range rows {
		if on, ok := latest[row.Symbol]; ok && row.On.Before(on) {
			continue
		}
		latest[row.Symbol] = row.On
		closes[row.Symbol] = row.Price
	}
	return closes
}

// Merge builds one Position per symbol of the latest weekly report, as seen
// on the given day. closes carries the most recent resolved close per symbol,
// portfolio and reference symbols alike; missing entries fall back to the
// weekly recent price (portfolio side) and the reference prev_close
// (reference side).
func Merge(on date.Date, trends *TrendSeries, ranks map[string]Rank, mappings *MappingTable, refs *ReferenceSeries, closes map[string]float64) []Position {
	rows := trends.Latest()
	positions := make([]Position, 0, len(rows))
	for _, row := range rows {
		p := Position{
			Symbol:      row.Symbol,
			Description: row.Description,
			Position:    row.Position,
			AssetClass:  row.AssetClass,
			ReportDate:  row.ReportDate,
			TrendLow:    row.TrendLow,
			TrendHigh:   row.TrendHigh,
			RecentPrice: row.RecentPrice,
		}

		if r, ok := ranks[row.Symbol]; ok {
			rank := r.Rank
			p.Rank = &rank
			p.RankDate = r.ReportDate
		}

		if close, ok := closes[row.Symbol]; ok {
			p.PCurrent = f64(close)
		} else {
			// stale but better than nothing: the weekly report's own price
			p.PCurrent = f64(row.RecentPrice)
		}

		if m, ok := mappings.Get(row.Symbol); ok && m.HasReference() {
			p.RefSymbol = m.RSym
			p.ProxyKind = m.ProxyKind
			p.Inverted = m.Inverted
			p.Confidence = m.Confidence

			if ref, ok := refs.AsOf(m.RSym, on); ok {
				p.RefDate = ref.On
				p.RefTrend = ref.Trend
				p.TradeLow = f64(ref.TradeLow)
				p.TradeHigh = f64(ref.TradeHigh)
				p.PrevClose = f64(ref.PrevClose)

				if close, ok := closes[m.RSym]; ok {
					p.RCurrent = f64(close)
				} else {
					p.RCurrent = f64(ref.PrevClose)
				}

				p.PTradeLow, p.PTradeHigh = TranslateRange(p.TradeLow, p.TradeHigh, p.RCurrent, p.PCurrent, m.Inverted)
			}
		}

		p.TrendPctFromLow = pctFrom(p.PCurrent, f64(row.TrendLow))
		p.TrendPctFromHigh = pctFrom(p.PCurrent, f64(row.TrendHigh))
		p.TradePctFromLow = pctFrom(p.RCurrent, p.TradeLow)
		p.TradePctFromHigh = pctFrom(p.RCurrent, p.TradeHigh)
		p.PTradePctFromLow = pctFrom(p.PCurrent, p.PTradeLow)
		p.PTradePctFromHigh = pctFrom(p.PCurrent, p.PTradeHigh)

		positions = append(positions, p)
	}
	return positions
}
