package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/clearview/vista/backend/internal/api/handlers"
	"github.com/clearview/vista/backend/internal/notify"
	"github.com/clearview/vista/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(
	stocks *handlers.StockHandler,
	marketH *handlers.MarketHandler,
	newsletter *handlers.NewsletterHandler,
	alertsH *handlers.AlertHandler,
	hub *notify.Hub,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Websocket notifications
	if hub != nil {
		r.Handle("/ws", hub)
	}

	api := r.PathPrefix("/api").Subrouter()

	// Stock analysis endpoints
	api.HandleFunc("/stocks", stocks.List).Methods("GET")
	api.HandleFunc("/stock/{symbol}", stocks.Get).Methods("GET")
	api.HandleFunc("/search", stocks.Search).Methods("GET")
	api.HandleFunc("/favorites", stocks.Favorites).Methods("GET")
	api.HandleFunc("/report/{symbol}", stocks.Report).Methods("GET")

	// Portfolio endpoints
	api.HandleFunc("/portfolio", stocks.Portfolio).Methods("GET")
	api.HandleFunc("/portfolio/rebuild", stocks.Rebuild).Methods("POST")

	// Market and news endpoints
	api.HandleFunc("/market", marketH.Overview).Methods("GET")
	api.HandleFunc("/news", marketH.News).Methods("GET")

	// Newsletter subscription
	api.HandleFunc("/newsletter/subscribe", newsletter.Subscribe).Methods("POST")
	api.HandleFunc("/newsletter/subscribe", newsletter.Unsubscribe).Methods("DELETE")

	// Alerts and notification inbox
	api.HandleFunc("/alerts", alertsH.Create).Methods("POST")
	api.HandleFunc("/alerts", alertsH.List).Methods("GET")
	api.HandleFunc("/alerts/{id}", alertsH.Update).Methods("PUT")
	api.HandleFunc("/alerts/{id}", alertsH.Delete).Methods("DELETE")
	api.HandleFunc("/notifications", alertsH.Notifications).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "clearview-vista-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"status":  "error",
						"message": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
