package contracts

import "time"

// IndexQuote is a market index level with daily change.
type IndexQuote struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
	Change float64 `json:"change"` // percent
}

// CurrencyQuote is an exchange rate with daily change.
type CurrencyQuote struct {
	Name   string  `json:"name"`
	Rate   float64 `json:"rate"`
	Change float64 `json:"change"` // percent
}

// MarketOverview is the aggregate market picture used by the /api/market
// endpoint and the newsletter summary.
type MarketOverview struct {
	Indices    []IndexQuote    `json:"indices"`
	Currencies []CurrencyQuote `json:"currencies"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
