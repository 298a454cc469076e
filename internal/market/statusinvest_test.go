package market

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestParseBRNumber(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"8,50", 8.5, false},
		{"1.234,56", 1234.56, false},
		{"12,40%", 12.4, false},
		{"0,95", 0.95, false},
		{"-", 0, true},
		{"--", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseBRNumber(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseBRNumber(%q) expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseBRNumber(%q) failed: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseBRNumber(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

const indicatorHTML = `
<html><body>
<div class="indicator-today-container">
  <div title="P/L"><strong class="value">6,80</strong></div>
  <div title="P/VP"><strong class="value">1,20</strong></div>
  <div title="ROE"><strong class="value">18,50</strong></div>
  <div title="DY"><strong class="value">12,40</strong></div>
  <div title="Dív. líquida/EBITDA"><strong class="value">1,50</strong></div>
  <div title="M. Líquida"><strong class="value">22,30</strong></div>
  <div title="Vazio"><strong class="value">-</strong></div>
</div>
</body></html>`

func TestScrapeIndicators(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(indicatorHTML))
	if err != nil {
		t.Fatalf("Failed to parse fixture: %v", err)
	}

	got := scrapeIndicators(doc)

	want := map[string]float64{
		"p/l":                 6.8,
		"p/vp":                1.2,
		"roe":                 18.5,
		"dy":                  12.4,
		"dív. líquida/ebitda": 1.5,
		"m. líquida":          22.3,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("indicator %q = %v, want %v", k, got[k], v)
		}
	}
	if _, ok := got["vazio"]; ok {
		t.Error("Empty indicator should be skipped")
	}
}
