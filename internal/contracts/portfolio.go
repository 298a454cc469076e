package contracts

import (
	"sort"
	"time"
)

// MaxPortfolioSize is the hard cap on portfolio members.
const MaxPortfolioSize = 10

// MinBrazilianStocks is the domestic quota: when at least this many BR
// candidates exist, the composed portfolio carries at least this many.
const MinBrazilianStocks = 7

// Portfolio is a full snapshot of the selected watchlist. It is rebuilt
// wholesale on every update cycle, never patched incrementally.
type Portfolio struct {
	Stocks     []StockAnalysis `json:"stocks"`
	LastUpdate time.Time       `json:"last_update"`
	TotalScore int             `json:"total_score"`
}

// Count returns the number of members.
func (p *Portfolio) Count() int {
	return len(p.Stocks)
}

// CountRegion returns the number of members from the given region.
func (p *Portfolio) CountRegion(region Region) int {
	count := 0
	for i := range p.Stocks {
		if p.Stocks[i].Region() == region {
			count++
		}
	}
	return count
}

// GetStock finds a member by symbol.
func (p *Portfolio) GetStock(symbol string) (*StockAnalysis, bool) {
	for i := range p.Stocks {
		if p.Stocks[i].Symbol() == symbol {
			return &p.Stocks[i], true
		}
	}
	return nil, false
}

// Favorites returns the members flagged as opportunities, sorted by
// potential descending.
func (p *Portfolio) Favorites() []StockAnalysis {
	favorites := make([]StockAnalysis, 0)
	for i := range p.Stocks {
		if p.Stocks[i].Evaluation.IsOpportunity {
			favorites = append(favorites, p.Stocks[i])
		}
	}

	sort.SliceStable(favorites, func(i, j int) bool {
		return favorites[i].Estimate.Potential > favorites[j].Estimate.Potential
	})

	return favorites
}
