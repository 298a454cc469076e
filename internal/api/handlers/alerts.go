package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clearview/vista/backend/internal/alerts"
	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/internal/notify"
	"github.com/clearview/vista/backend/pkg/logger"
)

// AlertHandler serves the alert CRUD and notification inbox endpoints.
type AlertHandler struct {
	alerts     *alerts.Service
	dispatcher *notify.Dispatcher
	logger     *logger.Logger
}

// NewAlertHandler creates a new alert handler.
func NewAlertHandler(alertSvc *alerts.Service, dispatcher *notify.Dispatcher, log *logger.Logger) *AlertHandler {
	return &AlertHandler{
		alerts:     alertSvc,
		dispatcher: dispatcher,
		logger:     log,
	}
}

type createAlertRequest struct {
	UserID string                `json:"user_id"`
	Kind   contracts.AlertKind   `json:"type"`
	Params contracts.AlertParams `json:"params"`
}

type updateAlertRequest struct {
	Params *contracts.AlertParams `json:"params,omitempty"`
	Active *bool                  `json:"active,omitempty"`
}

// Create registers a new alert.
// POST /api/alerts
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	alert, err := h.alerts.Create(r.Context(), req.UserID, req.Kind, req.Params)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondData(w, http.StatusCreated, alert)
}

// List returns the alerts of one user, or all alerts when no user_id
// is given.
// GET /api/alerts?user_id=user-1
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	list, err := h.alerts.List(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list alerts")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve alerts")
		return
	}

	respondData(w, http.StatusOK, list)
}

// Update changes the params or the active flag of an alert.
// PUT /api/alerts/{id}
func (h *AlertHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	alert, err := h.alerts.Update(r.Context(), id, req.Params, req.Active)
	if err != nil {
		if errors.Is(err, alerts.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Alert not found")
			return
		}
		h.logger.WithError(err).WithField("alert_id", id).Error("Failed to update alert")
		respondError(w, http.StatusInternalServerError, "Failed to update alert")
		return
	}

	respondData(w, http.StatusOK, alert)
}

// Delete removes an alert.
// DELETE /api/alerts/{id}
func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.alerts.Delete(r.Context(), id); err != nil {
		if errors.Is(err, alerts.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Alert not found")
			return
		}
		h.logger.WithError(err).WithField("alert_id", id).Error("Failed to delete alert")
		respondError(w, http.StatusInternalServerError, "Failed to delete alert")
		return
	}

	respondMessage(w, http.StatusOK, "Alert deleted")
}

// Notifications returns the notification inbox of one user, or the
// full history when no user_id is given.
// GET /api/notifications?user_id=user-1
func (h *AlertHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	history, err := h.dispatcher.History(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load notification history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve notifications")
		return
	}

	respondData(w, http.StatusOK, history)
}
