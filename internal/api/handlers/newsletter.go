package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clearview/vista/backend/internal/subscribers"
	"github.com/clearview/vista/backend/pkg/logger"
)

// NewsletterHandler serves the newsletter subscription endpoints.
type NewsletterHandler struct {
	subscribers *subscribers.Service
	logger      *logger.Logger
}

// NewNewsletterHandler creates a new newsletter handler.
func NewNewsletterHandler(subSvc *subscribers.Service, log *logger.Logger) *NewsletterHandler {
	return &NewsletterHandler{
		subscribers: subSvc,
		logger:      log,
	}
}

type subscribeRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Subscribe adds a newsletter subscriber.
// POST /api/newsletter/subscribe
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	sub, err := h.subscribers.Add(r.Context(), req.Email, req.Name, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, subscribers.ErrInvalidEmail):
			respondError(w, http.StatusBadRequest, "Invalid email address")
		case errors.Is(err, subscribers.ErrAlreadySubscribed):
			respondError(w, http.StatusConflict, "Email is already subscribed")
		default:
			h.logger.WithError(err).Error("Failed to add subscriber")
			respondError(w, http.StatusInternalServerError, "Failed to subscribe")
		}
		return
	}

	respondData(w, http.StatusCreated, sub)
}

// Unsubscribe deactivates a newsletter subscriber.
// DELETE /api/newsletter/subscribe
func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.subscribers.Remove(r.Context(), req.Email); err != nil {
		if errors.Is(err, subscribers.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Email is not subscribed")
			return
		}
		h.logger.WithError(err).Error("Failed to remove subscriber")
		respondError(w, http.StatusInternalServerError, "Failed to unsubscribe")
		return
	}

	respondMessage(w, http.StatusOK, "Unsubscribed")
}
