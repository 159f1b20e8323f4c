package riskrange

import (
	"log"

	"github.com/etnz/riskrange/date"
)

// RunSummary aggregates what one pipeline run produced and what it could not.
type RunSummary struct {
	On         date.Date
	ReportDate date.Date

	Positions  int // symbols in the latest weekly report
	Ranked     int // positions that joined a rank
	Translated int // positions with a translated trade range

	// MissingMappings lists held symbols without reference coverage in the
	// mapping table.
	MissingMappings []string
	// UncoveredRefs lists mapped symbols whose reference had no published row.
	UncoveredRefs []string
	// UnresolvedSymbols lists symbols the price gateway could not serve.
	UnresolvedSymbols []string
}

// Summarize builds the run summary from the merged positions and the price
// fetch report.
func Summarize(on date.Date, positions []Position, fetched FetchReport) RunSummary {
	s := RunSummary{On: on, Positions: len(positions), UnresolvedSymbols: fetched.UnresolvedSymbols}
	for _, p := range positions {
		s.ReportDate = p.ReportDate
		if p.Rank != nil {
			s.Ranked++
		}
		if p.PTradeLow != nil {
			s.Translated++
		}
		switch {
		case p.RefSymbol == "":
			s.MissingMappings = append(s.MissingMappings, p.Symbol)
		case p.TradeLow == nil:
			s.UncoveredRefs = append(s.UncoveredRefs, p.Symbol)
		}
	}
	return s
}

// Log writes the one-line run summary.
func (s RunSummary) Log() {
	log.Printf("run %s: report %s, %d positions, %d ranked, %d translated, %d unmapped, %d uncovered, %d unresolved",
		s.On, s.ReportDate, s.Positions, s.Ranked, s.Translated,
		len(s.MissingMappings), len(s.UncoveredRefs), len(s.UnresolvedSymbols))
}
