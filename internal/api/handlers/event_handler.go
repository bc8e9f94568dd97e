package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/isdelr/articlehub-be/internal/apperrors"
	"github.com/isdelr/articlehub-be/internal/services"
)

const defaultEventLimit = 20

// EventHandler handles HTTP requests related to system events.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetRecent handles the request to get recent activity/events.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, r, fmt.Errorf("limit must be an integer: %w", apperrors.ErrInvalidInput))
			return
		}
		limit = n
	}

	events, err := h.service.GetRecentEvents(r.Context(), limit)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}
