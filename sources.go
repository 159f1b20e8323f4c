package riskrange

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/etnz/riskrange/date"
)

// This file loads the upstream report tables. The external parsers drop dated
// CSV files in per-feed directories (trend_ranges_2025-08-21.csv and so on);
// "latest" always means the date embedded in the file name, never mtime, so a
// re-parsed old report cannot masquerade as the current one.

var fileDatePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

// fileDate extracts the date embedded in a report file name.
func fileDate(name string) (date.Date, bool) {
	m := fileDatePattern.FindString(filepath.Base(name))
	if m == "" {
		return date.Date{}, false
	}
	d, err := date.Parse(m)
	if err != nil {
		return date.Date{}, false
	}
	return d, true
}

// latestFile returns the file matching glob whose embedded date is the most
// recent. Files without an embedded date are ignored.
func latestFile(dir, glob string) (string, error) {
	names, err := filepath.Glob(filepath.Join(dir, glob))
	if err != nil {
		return "", fmt.Errorf("invalid pattern %q: %w", glob, err)
	}
	var best string
	var bestDate date.Date
	for _, name := range names {
		d, ok := fileDate(name)
		if !ok {
			continue
		}
		if best == "" || bestDate.Before(d) {
			best, bestDate = name, d
		}
	}
	if best == "" {
		return "", fmt.Errorf("no dated %q file in %q", glob, dir)
	}
	return best, nil
}

// readTable reads a CSV file and returns one map per row, keyed by header.
func readTable(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse error in %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("format error in %q: missing header row", path)
	}
	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("parse error %s:%d: want %d columns, got %d", path, i+2, len(header), len(rec))
		}
		row := make(map[string]string, len(header))
		for j, col := range header {
			row[col] = rec[j]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// rowReader decodes one table row field by field, keeping the first error.
type rowReader struct {
	path string
	line int
	row  map[string]string
	err  error
}

func (r *rowReader) str(col string) string {
	if r.err != nil {
		return ""
	}
	v, ok := r.row[col]
	if !ok {
		r.err = fmt.Errorf("format error %s:%d: missing column %q", r.path, r.line, col)
	}
	return v
}

func (r *rowReader) date(col string) date.Date {
	s := r.str(col)
	if r.err != nil {
		return date.Date{}
	}
	d, err := date.Parse(s)
	if err != nil {
		r.err = fmt.Errorf("parse error %s:%d: column %q: %w", r.path, r.line, col, err)
	}
	return d
}

func (r *rowReader) float(col string) float64 {
	s := r.str(col)
	if r.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.err = fmt.Errorf("parse error %s:%d: column %q: invalid number %q", r.path, r.line, col, s)
	}
	return v
}

func (r *rowReader) int(col string) int {
	s := r.str(col)
	if r.err != nil {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		r.err = fmt.Errorf("parse error %s:%d: column %q: invalid integer %q", r.path, r.line, col, s)
	}
	return v
}

// TrendSeries is the weekly trend-range history, one series per symbol. The
// latest report is the current portfolio; older reports only feed the daily
// forward fill.
type TrendSeries struct {
	reports map[string]*date.History[TrendRange]
	latest  date.Date
}

// NewTrendSeries returns an empty series.
func NewTrendSeries() *TrendSeries {
	return &TrendSeries{reports: make(map[string]*date.History[TrendRange])}
}

// Add records one weekly row. Within the same report date the last row wins.
func (s *TrendSeries) Add(t TrendRange) {
	h, ok := s.reports[t.Symbol]
	if !ok {
		h = new(date.History[TrendRange])
		s.reports[t.Symbol] = h
	}
	h.Append(t.ReportDate, t)
	if s.latest.Before(t.ReportDate) {
		s.latest = t.ReportDate
	}
}

// LatestDate returns the date of the most recent weekly report.
func (s *TrendSeries) LatestDate() date.Date { return s.latest }

// Latest returns the rows of the most recent weekly report, sorted by symbol.
// A symbol absent from the latest report is a closed position and not listed.
func (s *TrendSeries) Latest() []TrendRange {
	var rows []TrendRange
	for _, h := range s.reports {
		if t, ok := h.Get(s.latest); ok {
			rows = append(rows, t)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Symbol < rows[j].Symbol })
	return rows
}

// AsOf returns the weekly row in force on the given day: the row of the most
// recent report dated at or before it.
func (s *TrendSeries) AsOf(symbol string, day date.Date) (TrendRange, bool) {
	h, ok := s.reports[symbol]
	if !ok {
		return TrendRange{}, false
	}
	return h.AsOf(day)
}

// LoadTrendReports loads every dated weekly report in dir, oldest first, so
// the per-symbol histories cover the whole forward-fill window.
func LoadTrendReports(dir string) (*TrendSeries, error) {
	names, err := filepath.Glob(filepath.Join(dir, "trend_ranges_*.csv"))
	if err != nil {
		return nil, fmt.Errorf("invalid trend report pattern: %w", err)
	}
	s := NewTrendSeries()
	for _, name := range names {
		if _, ok := fileDate(name); !ok {
			continue
		}
		rows, err := readTable(name)
		if err != nil {
			return nil, err
		}
		for i, row := range rows {
			r := &rowReader{path: name, line: i + 2, row: row}
			t := TrendRange{
				ReportDate:  r.date("report_date"),
				Symbol:      r.str("symbol"),
				Description: r.str("description"),
				Position:    PositionType(r.str("position_type")),
				TrendLow:    r.float("trend_low"),
				TrendHigh:   r.float("trend_high"),
				RecentPrice: r.float("recent_price"),
				AssetClass:  r.str("asset_class"),
			}
			if r.err != nil {
				return nil, r.err
			}
			s.Add(t)
		}
	}
	if s.latest.IsZero() {
		return nil, fmt.Errorf("no trend report found in %q", dir)
	}
	return s, nil
}

// LoadRanks loads the most recent dated rank list in dir, indexed by symbol.
func LoadRanks(dir string) (map[string]Rank, error) {
	name, err := latestFile(dir, "ranks_*.csv")
	if err != nil {
		return nil, err
	}
	rows, err := readTable(name)
	if err != nil {
		return nil, err
	}
	ranks := make(map[string]Rank, len(rows))
	for i, row := range rows {
		r := &rowReader{path: name, line: i + 2, row: row}
		rank := Rank{
			ReportDate: r.date("report_date"),
			Rank:       r.int("rank"),
			Symbol:     r.str("symbol"),
			Name:       r.str("name"),
		}
		if r.err != nil {
			return nil, r.err
		}
		ranks[rank.Symbol] = rank
	}
	return ranks, nil
}

// ReferenceSeries is the append-only third-party range feed, one daily series
// per reference symbol.
type ReferenceSeries struct {
	ranges map[string]*date.History[ReferenceRange]
}

// NewReferenceSeries returns an empty series.
func NewReferenceSeries() *ReferenceSeries {
	return &ReferenceSeries{ranges: make(map[string]*date.History[ReferenceRange])}
}

// Add records one reference row. Re-adding the same (symbol, date) overwrites.
func (s *ReferenceSeries) Add(r ReferenceRange) {
	h, ok := s.ranges[r.Symbol]
	if !ok {
		h = new(date.History[ReferenceRange])
		s.ranges[r.Symbol] = h
	}
	h.Append(r.On, r)
}

// Len returns the number of rows stored.
func (s *ReferenceSeries) Len() int {
	n := 0
	for _, h := range s.ranges {
		n += h.Len()
	}
	return n
}

// Symbols returns the covered reference symbols, sorted.
func (s *ReferenceSeries) Symbols() []string {
	symbols := make([]string, 0, len(s.ranges))
	for symbol := range s.ranges {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Get returns the row published exactly on the given day.
func (s *ReferenceSeries) Get(symbol string, day date.Date) (ReferenceRange, bool) {
	h, ok := s.ranges[symbol]
	if !ok {
		return ReferenceRange{}, false
	}
	return h.Get(day)
}

// AsOf returns the most recent row published at or before the given day.
func (s *ReferenceSeries) AsOf(symbol string, day date.Date) (ReferenceRange, bool) {
	h, ok := s.ranges[symbol]
	if !ok {
		return ReferenceRange{}, false
	}
	return h.AsOf(day)
}

// LoadReferenceRanges loads the full reference feed table. A missing file
// yields an empty series: symbols simply carry no reference coverage.
func LoadReferenceRanges(path string) (*ReferenceSeries, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewReferenceSeries(), nil
	}
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	s := NewReferenceSeries()
	for i, row := range rows {
		r := &rowReader{path: path, line: i + 2, row: row}
		ref := ReferenceRange{
			On:        r.date("date"),
			Symbol:    r.str("symbol"),
			Trend:     r.str("trend"),
			TradeLow:  r.float("trade_low"),
			TradeHigh: r.float("trade_high"),
			PrevClose: r.float("prev_close"),
		}
		if r.err != nil {
			return nil, r.err
		}
		s.Add(ref)
	}
	return s, nil
}
