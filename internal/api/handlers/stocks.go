package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clearview/vista/backend/internal/analysis"
	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/internal/report"
	"github.com/clearview/vista/backend/internal/store"
	"github.com/clearview/vista/backend/pkg/logger"
)

// StockHandler serves the stock analysis and portfolio endpoints.
type StockHandler struct {
	analyzer  *analysis.Service
	generator report.TextGenerator
	logger    *logger.Logger
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(analyzer *analysis.Service, generator report.TextGenerator, log *logger.Logger) *StockHandler {
	return &StockHandler{
		analyzer:  analyzer,
		generator: generator,
		logger:    log,
	}
}

// List returns every stock analyzed in the last cycle.
// GET /api/stocks
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.analyzer.Stocks(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondData(w, http.StatusOK, []contracts.StockAnalysis{})
			return
		}
		h.logger.WithError(err).Error("Failed to load analyzed stocks")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve stocks")
		return
	}

	respondData(w, http.StatusOK, stocks)
}

// Get returns one stock, analyzing on demand when it was not part of
// the last cycle.
// GET /api/stock/{symbol}
func (h *StockHandler) Get(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	stock, err := h.analyzer.Stock(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to analyze stock")
		respondError(w, http.StatusInternalServerError, "Failed to analyze stock")
		return
	}

	respondData(w, http.StatusOK, stock)
}

// Search filters analyzed stocks by symbol or company name.
// GET /api/search?q=petr
func (h *StockHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	matches, err := h.analyzer.Search(r.Context(), query)
	if err != nil {
		h.logger.WithError(err).WithField("query", query).Error("Search failed")
		respondError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	respondData(w, http.StatusOK, matches)
}

// Favorites returns the opportunity-flagged portfolio members.
// GET /api/favorites
func (h *StockHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.analyzer.Favorites(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondData(w, http.StatusOK, []contracts.StockAnalysis{})
			return
		}
		h.logger.WithError(err).Error("Failed to load favorites")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve favorites")
		return
	}

	respondData(w, http.StatusOK, favorites)
}

// Report writes a natural-language analysis of one stock.
// GET /api/report/{symbol}?refresh=true
func (h *StockHandler) Report(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := mux.Vars(r)["symbol"]
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	var stock *contracts.StockAnalysis
	var err error
	if r.URL.Query().Get("refresh") == "true" {
		stock, err = h.analyzer.RefreshStock(ctx, symbol)
	} else {
		stock, err = h.analyzer.Stock(ctx, symbol)
	}
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to analyze stock for report")
		respondError(w, http.StatusInternalServerError, "Failed to analyze stock")
		return
	}

	text, err := h.generator.StockReport(ctx, stock)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to generate report")
		respondError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"symbol": stock.Symbol(),
		"report": text,
	})
}

// Portfolio returns the current recommended portfolio.
// GET /api/portfolio
func (h *StockHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.analyzer.Portfolio(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Portfolio not built yet")
			return
		}
		h.logger.WithError(err).Error("Failed to load portfolio")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve portfolio")
		return
	}

	respondData(w, http.StatusOK, portfolio)
}

// Rebuild starts a background portfolio rebuild. Only one rebuild runs
// at a time; a second request while one is in flight gets 409.
// POST /api/portfolio/rebuild
func (h *StockHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	if !h.analyzer.RebuildAsync() {
		respondError(w, http.StatusConflict, "A rebuild is already running")
		return
	}

	respondMessage(w, http.StatusAccepted, "Portfolio rebuild started")
}
