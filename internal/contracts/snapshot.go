package contracts

import "time"

// Region identifies the market an instrument trades in.
type Region string

const (
	RegionBR Region = "BR"
	RegionUS Region = "US"
)

// FinancialSnapshot carries the market data and fundamentals for one
// instrument, as delivered by the data provider. A snapshot with Price 0 and
// empty fundamentals means the provider had nothing for the symbol; the
// analysis layer tolerates that.
type FinancialSnapshot struct {
	Symbol        string       `json:"symbol"`
	Region        Region       `json:"region"`
	Name          string       `json:"name"`
	LongName      string       `json:"long_name,omitempty"`
	Currency      string       `json:"currency,omitempty"`
	Exchange      string       `json:"exchange,omitempty"`
	Price         float64      `json:"price"`
	PreviousClose float64      `json:"previous_close"`
	Change1D      float64      `json:"change_1d"` // percent vs previous close
	Change1Y      float64      `json:"change_1y"` // percent vs one year ago
	Fundamentals  Fundamentals `json:"fundamentals"`
	FetchedAt     time.Time    `json:"fetched_at"`
}

// Fundamentals holds the named ratios used by valuation and scoring.
// ROE, DividendYield, margins, and growth are decimals (0.18 = 18%).
// A nil DebtToEBITDA means the ratio is unknown; zero values elsewhere mean
// the same and never contribute to the score.
type Fundamentals struct {
	PE            float64  `json:"pe"`
	PB            float64  `json:"pb"`
	ROE           float64  `json:"roe"`
	DividendYield float64  `json:"dividend_yield"`
	DebtToEBITDA  *float64 `json:"debt_to_ebitda,omitempty"`
	NetMargin     float64  `json:"net_margin,omitempty"`
	EBITDAMargin  float64  `json:"ebitda_margin,omitempty"`
	RevenueGrowth float64  `json:"revenue_growth,omitempty"`
}

// IsStale reports whether the snapshot is older than maxAge.
func (s *FinancialSnapshot) IsStale(now time.Time, maxAge time.Duration) bool {
	return s.FetchedAt.IsZero() || now.Sub(s.FetchedAt) > maxAge
}

// HasPrice reports whether the provider delivered a usable quote.
func (s *FinancialSnapshot) HasPrice() bool {
	return s.Price > 0
}
