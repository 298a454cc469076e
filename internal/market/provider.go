// Package market supplies financial snapshots and the market overview.
package market

import (
	"context"
	"errors"

	"github.com/clearview/vista/backend/internal/contracts"
)

// ErrNotFound is returned when a provider has no data for a symbol.
var ErrNotFound = errors.New("market: symbol not found")

// Provider fetches a fundamentals snapshot for one symbol.
type Provider interface {
	Fetch(ctx context.Context, symbol string, region contracts.Region) (*contracts.FinancialSnapshot, error)
}

// OverviewProvider supplies index and currency quotes.
type OverviewProvider interface {
	Overview(ctx context.Context) (*contracts.MarketOverview, error)
}

// DefaultWatchlist returns the monitored symbols for a region.
func DefaultWatchlist(region contracts.Region) []string {
	switch region {
	case contracts.RegionBR:
		return []string{
			"PETR4", "VALE3", "ITUB4", "BBDC4", "ABEV3",
			"WEGE3", "RENT3", "BBAS3", "EGIE3", "TAEE11",
		}
	case contracts.RegionUS:
		return []string{
			"AAPL", "MSFT", "AMZN", "GOOGL", "META",
			"TSLA", "NVDA", "BRK-B", "JPM", "JNJ",
		}
	default:
		return nil
	}
}
