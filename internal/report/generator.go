// Package report produces analyst-voiced text for reports, summaries
// and the daily newsletter.
package report

import (
	"context"
	"errors"

	"github.com/clearview/vista/backend/internal/contracts"
)

// ErrUnavailable signals that the AI collaborator could not answer and
// the caller should fall back to the template generator.
var ErrUnavailable = errors.New("report: generator unavailable")

// TextGenerator writes the natural-language pieces of the product.
type TextGenerator interface {
	// StockReport writes a full analysis of one stock.
	StockReport(ctx context.Context, analysis *contracts.StockAnalysis) (string, error)

	// MarketSummary writes the day-in-review section of the newsletter.
	MarketSummary(ctx context.Context, overview *contracts.MarketOverview, portfolio *contracts.Portfolio, news []contracts.NewsItem) (string, error)
}

// Fallback chains a primary generator with a backup that takes over on
// any primary error.
type Fallback struct {
	Primary TextGenerator
	Backup  TextGenerator
}

// StockReport implements TextGenerator.
func (f *Fallback) StockReport(ctx context.Context, analysis *contracts.StockAnalysis) (string, error) {
	if f.Primary != nil {
		if text, err := f.Primary.StockReport(ctx, analysis); err == nil {
			return text, nil
		}
	}
	return f.Backup.StockReport(ctx, analysis)
}

// MarketSummary implements TextGenerator.
func (f *Fallback) MarketSummary(ctx context.Context, overview *contracts.MarketOverview, portfolio *contracts.Portfolio, news []contracts.NewsItem) (string, error) {
	if f.Primary != nil {
		if text, err := f.Primary.MarketSummary(ctx, overview, portfolio, news); err == nil {
			return text, nil
		}
	}
	return f.Backup.MarketSummary(ctx, overview, portfolio, news)
}
