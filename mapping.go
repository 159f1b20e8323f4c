package riskrange

import (
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// This file loads the static proxy-mapping artifact: one entry per portfolio
// symbol resolving it to the reference symbol whose published trading range
// stands in for it. The table is loaded once per run and read-only after.

// ProxyKind classifies how a reference symbol stands in for a portfolio symbol.
type ProxyKind string

const (
	// KindIdentical means the reference symbol is the portfolio symbol itself.
	KindIdentical ProxyKind = "identical"
	// KindTracker means the portfolio symbol tracks the reference (e.g. an
	// ETF versus the index or commodity it follows).
	KindTracker ProxyKind = "tracker"
	// KindInverse means the pair moves in opposite directions (e.g. a bond
	// price ETF versus the yield it is economically the inverse of). Entries
	// of this kind carry inverted: true.
	KindInverse ProxyKind = "inverse"
)

// Confidence grades how reliable a proxy relationship is considered.
type Confidence string

const (
	High   Confidence = "high"
	Medium Confidence = "medium"
	Low    Confidence = "low"
)

// Mapping resolves one portfolio symbol to its reference symbol.
// An empty RSym means the symbol has no reference coverage.
type Mapping struct {
	PSym       string     `yaml:"p_sym"`
	RSym       string     `yaml:"r_sym,omitempty"`
	ProxyKind  ProxyKind  `yaml:"proxy_kind,omitempty"`
	Inverted   bool       `yaml:"inverted,omitempty"`
	Confidence Confidence `yaml:"confidence,omitempty"`
	Notes      string     `yaml:"notes,omitempty"`
}

// HasReference reports whether the mapping resolves to a reference symbol.
func (m Mapping) HasReference() bool { return m.RSym != "" }

// MappingTable holds all mappings indexed by portfolio symbol.
type MappingTable struct {
	mappings []Mapping
	index    map[string]Mapping
}

// Len returns the number of mappings in the table.
func (t *MappingTable) Len() int { return len(t.mappings) }

// Get returns the mapping for a portfolio symbol.
func (t *MappingTable) Get(psym string) (Mapping, bool) {
	m, ok := t.index[psym]
	return m, ok
}

// All returns the mappings in artifact order.
func (t *MappingTable) All() []Mapping { return t.mappings }

// DecodeMappings parses the YAML mapping artifact.
// filename is for error messages only.
func DecodeMappings(filename string, r io.Reader) (*MappingTable, error) {
	// jdoc mirrors the artifact structure: a single "mappings" list.
	type jdoc struct {
		Mappings []Mapping `yaml:"mappings"`
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read mapping file %q: %w", filename, err)
	}
	var doc jdoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("format error in %q: %w", filename, err)
	}

	t := &MappingTable{index: make(map[string]Mapping)}
	for _, m := range doc.Mappings {
		if m.PSym == "" {
			return nil, fmt.Errorf("format error in %q: mapping entry without p_sym", filename)
		}
		if _, dup := t.index[m.PSym]; dup {
			log.Printf("format error in %q: symbol %q is mapped twice, keeping the first entry", filename, m.PSym)
			continue
		}
		t.mappings = append(t.mappings, m)
		t.index[m.PSym] = m
	}
	return t, nil
}

// LoadMappings reads the mapping artifact from disk. A missing file yields an
// empty table: symbols simply carry no reference coverage.
func LoadMappings(path string) (*MappingTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &MappingTable{index: make(map[string]Mapping)}, nil
		}
		return nil, fmt.Errorf("cannot open mapping file %q: %w", path, err)
	}
	defer f.Close()
	return DecodeMappings(path, f)
}
