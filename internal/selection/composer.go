// Package selection composes the model portfolio from analyzed candidates.
package selection

import (
	"sort"
	"time"

	"github.com/clearview/vista/backend/internal/contracts"
)

// Compose builds a portfolio from the candidate pool. Candidates are
// ranked by score descending (symbol ascending on ties), the top ten are
// taken, and Brazilian candidates left outside then displace US members
// until the domestic quota of seven is met or no candidates remain. The
// quota is best effort: a thin domestic pool never blocks composition.
func Compose(candidates []contracts.StockAnalysis, now time.Time) *contracts.Portfolio {
	ranked := make([]contracts.StockAnalysis, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score() != ranked[j].Score() {
			return ranked[i].Score() > ranked[j].Score()
		}
		return ranked[i].Symbol() < ranked[j].Symbol()
	})

	size := contracts.MaxPortfolioSize
	if len(ranked) < size {
		size = len(ranked)
	}
	selected := make([]contracts.StockAnalysis, size)
	copy(selected, ranked[:size])

	brCount := 0
	for i := range selected {
		if selected[i].Region() == contracts.RegionBR {
			brCount++
		}
	}

	// Walk the leftover Brazilian candidates in rank order, each one
	// displacing the lowest-ranked US member still present.
	for _, candidate := range ranked[size:] {
		if brCount >= contracts.MinBrazilianStocks {
			break
		}
		if candidate.Region() != contracts.RegionBR {
			continue
		}
		for i := len(selected) - 1; i >= 0; i-- {
			if selected[i].Region() == contracts.RegionUS {
				selected[i] = candidate
				brCount++
				break
			}
		}
	}

	portfolio := &contracts.Portfolio{
		Stocks:     selected,
		LastUpdate: now,
	}
	for i := range selected {
		portfolio.TotalScore += selected[i].Score()
	}
	return portfolio
}
