package riskrange

import (
	"strings"
	"testing"
)

const mappingFixture = `
mappings:
  - p_sym: AAAU
    r_sym: GOLD
    proxy_kind: tracker
    confidence: high
    notes: physical gold ETF against spot gold
  - p_sym: TLT
    r_sym: UST30Y
    proxy_kind: inverse
    inverted: true
    confidence: medium
    notes: bond price ETF against the 30y yield
  - p_sym: BUXX
    confidence: low
    notes: money market, no reference coverage
`

func TestDecodeMappings(t *testing.T) {
	table, err := DecodeMappings("mapping.yaml", strings.NewReader(mappingFixture))
	if err != nil {
		t.Fatalf("DecodeMappings returned error: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("Len() = %d want 3", table.Len())
	}

	m, ok := table.Get("AAAU")
	if !ok || m.RSym != "GOLD" || m.ProxyKind != KindTracker || m.Inverted {
		t.Errorf("Get(AAAU) = %+v, %v", m, ok)
	}

	m, ok = table.Get("TLT")
	if !ok || !m.Inverted || m.Confidence != Medium {
		t.Errorf("Get(TLT) = %+v, %v want inverted medium-confidence mapping", m, ok)
	}

	m, ok = table.Get("BUXX")
	if !ok || m.HasReference() {
		t.Errorf("Get(BUXX) = %+v, %v want mapping without reference", m, ok)
	}

	if _, ok := table.Get("QQQ"); ok {
		t.Errorf("Get(QQQ) found an unmapped symbol")
	}
}

func TestDecodeMappingsDuplicate(t *testing.T) {
	doc := `
mappings:
  - p_sym: QQQ
    r_sym: NDX
  - p_sym: QQQ
    r_sym: COMPQ
`
	table, err := DecodeMappings("mapping.yaml", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeMappings returned error: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("Len() = %d want 1 (duplicate dropped)", table.Len())
	}
	if m, _ := table.Get("QQQ"); m.RSym != "NDX" {
		t.Errorf("Get(QQQ).RSym = %q want first entry %q", m.RSym, "NDX")
	}
}

func TestDecodeMappingsRejectsMissingPSym(t *testing.T) {
	if _, err := DecodeMappings("mapping.yaml", strings.NewReader("mappings:\n  - r_sym: GOLD\n")); err == nil {
		t.Fatal("DecodeMappings accepted an entry without p_sym")
	}
}
