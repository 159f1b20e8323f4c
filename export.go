package riskrange

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// This file writes the pipeline outputs as flat CSV tables for downstream
// tooling (spreadsheets, plotting). Absent optional fields become empty cells,
// never a fabricated zero.

var enrichedHeader = []string{
	"symbol", "description", "position_type", "asset_class", "report_date",
	"trend_low", "trend_high", "recent_price",
	"rank", "rank_date",
	"r_sym", "proxy_kind", "inverted", "confidence",
	"ref_date", "trade_low", "trade_high", "prev_close", "ref_trend",
	"p_current", "r_current", "p_trade_low", "p_trade_high",
	"trend_pct_from_low", "trend_pct_from_high",
	"trade_pct_from_low", "trade_pct_from_high",
	"p_trade_pct_from_low", "p_trade_pct_from_high",
}

// cell formats an optional float, empty when absent.
func cell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// WritePositions writes the enriched positions table.
func WritePositions(w io.Writer, positions []Position) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(enrichedHeader); err != nil {
		return err
	}
	for _, p := range positions {
		rank, rankDate := "", ""
		if p.Rank != nil {
			rank = strconv.Itoa(*p.Rank)
			rankDate = p.RankDate.String()
		}
		refDate := ""
		if !p.RefDate.IsZero() {
			refDate = p.RefDate.String()
		}
		rec := []string{
			p.Symbol, p.Description, string(p.Position), p.AssetClass, p.ReportDate.String(),
			cell(f64(p.TrendLow)), cell(f64(p.TrendHigh)), cell(f64(p.RecentPrice)),
			rank, rankDate,
			p.RefSymbol, string(p.ProxyKind), strconv.FormatBool(p.Inverted), string(p.Confidence),
			refDate, cell(p.TradeLow), cell(p.TradeHigh), cell(p.PrevClose), p.RefTrend,
			cell(p.PCurrent), cell(p.RCurrent), cell(p.PTradeLow), cell(p.PTradeHigh),
			cell(p.TrendPctFromLow), cell(p.TrendPctFromHigh),
			cell(p.TradePctFromLow), cell(p.TradePctFromHigh),
			cell(p.PTradePctFromLow), cell(p.PTradePctFromHigh),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var seriesHeader = []string{"date", "symbol", "trend_low", "trend_high", "p_trade_low", "p_trade_high", "price"}

// WriteSeries writes one symbol's daily series table.
func WriteSeries(w io.Writer, points []SeriesPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(seriesHeader); err != nil {
		return err
	}
	for _, p := range points {
		rec := []string{
			p.On.String(), p.Symbol,
			cell(p.TrendLow), cell(p.TrendHigh),
			cell(p.PTradeLow), cell(p.PTradeHigh),
			cell(p.Price),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// exportFile writes a table through fn into dir/name, atomically.
func exportFile(dir, name string, fn func(io.Writer) error) error {
	path := filepath.Join(dir, name)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("export error: cannot create %q: %w", tmp, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("export error: cannot write %q: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export error: cannot close %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("export error: cannot rename %q over %q: %w", tmp, path, err)
	}
	return nil
}

// ExportPositions writes the enriched positions table to
// dir/positions_<report date>.csv.
func ExportPositions(dir string, positions []Position) (string, error) {
	name := "positions.csv"
	if len(positions) > 0 {
		name = fmt.Sprintf("positions_%s.csv", positions[0].ReportDate)
	}
	err := exportFile(dir, name, func(w io.Writer) error { return WritePositions(w, positions) })
	return name, err
}

// ExportSeries writes one symbol's daily series to dir/series_<symbol>.csv.
func ExportSeries(dir, symbol string, points []SeriesPoint) (string, error) {
	name := fmt.Sprintf("series_%s.csv", symbol)
	err := exportFile(dir, name, func(w io.Writer) error { return WriteSeries(w, points) })
	return name, err
}
