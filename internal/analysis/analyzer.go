package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/internal/market"
	"github.com/clearview/vista/backend/internal/selection"
	"github.com/clearview/vista/backend/internal/store"
	"github.com/clearview/vista/backend/internal/valuation"
	"github.com/clearview/vista/backend/pkg/logger"
)

const rebuildTimeout = 10 * time.Minute

// Service runs the analysis cycle over the watchlists and serves the
// persisted results.
type Service struct {
	provider market.Provider
	store    store.Store
	log      *logger.Logger
	now      func() time.Time

	rebuildMu sync.Mutex
}

// NewService wires the analyzer.
func NewService(provider market.Provider, st store.Store, log *logger.Logger) *Service {
	return &Service{
		provider: provider,
		store:    st,
		log:      log,
		now:      time.Now,
	}
}

// AnalyzeStock fetches a snapshot and scores it. A symbol the provider
// does not know yields an empty snapshot rather than an error, so one
// missing stock never aborts a cycle.
func (s *Service) AnalyzeStock(ctx context.Context, symbol string, region contracts.Region) (*contracts.StockAnalysis, error) {
	snap, err := s.provider.Fetch(ctx, symbol, region)
	if err != nil {
		if errors.Is(err, market.ErrNotFound) {
			s.log.WithField("symbol", symbol).Warn("Symbol not found, recording empty snapshot")
			snap = &contracts.FinancialSnapshot{Symbol: symbol, Region: region, FetchedAt: s.now()}
		} else {
			return nil, fmt.Errorf("failed to fetch %s: %w", symbol, err)
		}
	}

	est := valuation.Estimate(snap)
	ev := Evaluate(snap, est)

	return &contracts.StockAnalysis{
		Snapshot:   *snap,
		Estimate:   est,
		Evaluation: ev,
	}, nil
}

// RebuildPortfolio analyzes every watchlist symbol, recomposes the
// portfolio and persists both documents. Only one rebuild runs at a
// time; concurrent callers block until the running one finishes.
func (s *Service) RebuildPortfolio(ctx context.Context) (*contracts.Portfolio, error) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()
	return s.rebuild(ctx)
}

func (s *Service) rebuild(ctx context.Context) (*contracts.Portfolio, error) {
	started := s.now()
	var analyses []contracts.StockAnalysis

	for _, region := range []contracts.Region{contracts.RegionBR, contracts.RegionUS} {
		for _, symbol := range market.DefaultWatchlist(region) {
			analysis, err := s.AnalyzeStock(ctx, symbol, region)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				s.log.WithError(err).WithField("symbol", symbol).Warn("Analysis failed, skipping symbol")
				continue
			}
			analyses = append(analyses, *analysis)
		}
	}

	if len(analyses) == 0 {
		return nil, fmt.Errorf("no symbols could be analyzed")
	}

	portfolio := selection.Compose(analyses, s.now())

	if err := s.store.Put(ctx, store.KeyStocks, analyses); err != nil {
		return nil, fmt.Errorf("failed to persist analyses: %w", err)
	}
	if err := s.store.Put(ctx, store.KeyPortfolio, portfolio); err != nil {
		return nil, fmt.Errorf("failed to persist portfolio: %w", err)
	}

	s.log.WithFields(map[string]interface{}{
		"analyzed":    len(analyses),
		"selected":    portfolio.Count(),
		"total_score": portfolio.TotalScore,
		"elapsed":     s.now().Sub(started).String(),
	}).Info("Portfolio rebuilt")

	return portfolio, nil
}

// RebuildAsync kicks off a rebuild in the background. Returns false
// when one is already running.
func (s *Service) RebuildAsync() bool {
	if !s.rebuildMu.TryLock() {
		return false
	}
	go func() {
		defer s.rebuildMu.Unlock()
		ctx, cancel := context.WithTimeout(context.Background(), rebuildTimeout)
		defer cancel()
		if _, err := s.rebuild(ctx); err != nil {
			s.log.WithError(err).Error("Background rebuild failed")
		}
	}()
	return true
}

// Portfolio loads the current portfolio.
func (s *Service) Portfolio(ctx context.Context) (*contracts.Portfolio, error) {
	var p contracts.Portfolio
	if err := s.store.Get(ctx, store.KeyPortfolio, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Stocks loads every analyzed stock from the last cycle.
func (s *Service) Stocks(ctx context.Context) ([]contracts.StockAnalysis, error) {
	var stocks []contracts.StockAnalysis
	if err := s.store.Get(ctx, store.KeyStocks, &stocks); err != nil {
		return nil, err
	}
	return stocks, nil
}

// Stock returns the analysis for one symbol, analyzing on demand when
// the symbol was not part of the last cycle.
func (s *Service) Stock(ctx context.Context, symbol string) (*contracts.StockAnalysis, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	stocks, err := s.Stocks(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	for i := range stocks {
		if stocks[i].Symbol() == symbol {
			return &stocks[i], nil
		}
	}

	return s.AnalyzeStock(ctx, symbol, inferRegion(symbol))
}

// RefreshStock re-analyzes one symbol, bypassing the persisted cycle.
func (s *Service) RefreshStock(ctx context.Context, symbol string) (*contracts.StockAnalysis, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	return s.AnalyzeStock(ctx, symbol, inferRegion(symbol))
}

// Favorites returns the opportunity-flagged members of the portfolio.
func (s *Service) Favorites(ctx context.Context) ([]contracts.StockAnalysis, error) {
	p, err := s.Portfolio(ctx)
	if err != nil {
		return nil, err
	}
	return p.Favorites(), nil
}

// Search filters analyzed stocks by symbol or name substring.
func (s *Service) Search(ctx context.Context, query string) ([]contracts.StockAnalysis, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []contracts.StockAnalysis{}, nil
	}

	stocks, err := s.Stocks(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []contracts.StockAnalysis{}, nil
		}
		return nil, err
	}

	matches := make([]contracts.StockAnalysis, 0)
	for i := range stocks {
		symbol := strings.ToLower(stocks[i].Symbol())
		name := strings.ToLower(stocks[i].Snapshot.Name)
		if strings.Contains(symbol, query) || strings.Contains(name, query) {
			matches = append(matches, stocks[i])
		}
	}
	return matches, nil
}

// inferRegion guesses the region of a symbol outside the watchlists.
// B3 tickers end in a digit (PETR4, TAEE11), US tickers do not.
func inferRegion(symbol string) contracts.Region {
	for _, region := range []contracts.Region{contracts.RegionBR, contracts.RegionUS} {
		for _, known := range market.DefaultWatchlist(region) {
			if known == symbol {
				return region
			}
		}
	}
	if len(symbol) > 0 && unicode.IsDigit(rune(symbol[len(symbol)-1])) {
		return contracts.RegionBR
	}
	return contracts.RegionUS
}
