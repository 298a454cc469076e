package handlers

import (
	"net/http"
	"strconv"

	"github.com/clearview/vista/backend/internal/market"
	"github.com/clearview/vista/backend/internal/news"
	"github.com/clearview/vista/backend/pkg/logger"
)

const defaultNewsLimit = 10

// MarketHandler serves the market overview and news endpoints.
type MarketHandler struct {
	overview market.OverviewProvider
	news     *news.Service
	logger   *logger.Logger
}

// NewMarketHandler creates a new market handler.
func NewMarketHandler(overview market.OverviewProvider, newsSvc *news.Service, log *logger.Logger) *MarketHandler {
	return &MarketHandler{
		overview: overview,
		news:     newsSvc,
		logger:   log,
	}
}

// Overview returns the index and currency quotes.
// GET /api/market
func (h *MarketHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.overview.Overview(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch market overview")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve market overview")
		return
	}

	respondData(w, http.StatusOK, overview)
}

// News returns the classified news feed.
// GET /api/news?language=pt-br&limit=10
func (h *MarketHandler) News(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")

	limit := defaultNewsLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	feed, err := h.news.Feed(r.Context(), language, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load news feed")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve news")
		return
	}

	respondData(w, http.StatusOK, feed)
}
