package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/articlehub-be/internal/apperrors"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    any    `json:"message"`
	Path       string `json:"path"`
	RequestID  string `json:"requestId,omitempty"`
	Timestamp  string `json:"timestamp"`
}

var errorKinds = []error{
	apperrors.ErrUnauthenticated,
	apperrors.ErrForbidden,
	apperrors.ErrNotFound,
	apperrors.ErrConflict,
	apperrors.ErrInvalidInput,
	apperrors.ErrTooManyRequests,
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// WriteError maps err to its status and writes the error envelope. Internal
// errors are logged and their detail is never sent to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.StatusCode(err)
	requestID := middleware.GetReqID(r.Context())

	var message any
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		message = verr.Messages
	case status == http.StatusInternalServerError:
		log.Error().Err(err).Str("request_id", requestID).Str("path", r.URL.Path).Msg("Unhandled error")
		message = "Internal server error"
	default:
		message = publicMessage(err, status)
	}

	respondJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
		Path:       r.URL.Path,
		RequestID:  requestID,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// publicMessage strips the trailing error kind from a wrapped error, so
// "article with ID x: not found" is shown as "article with ID x".
func publicMessage(err error, status int) string {
	msg := err.Error()
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			msg = strings.TrimSuffix(msg, kind.Error())
			msg = strings.TrimSuffix(msg, ": ")
			break
		}
	}
	if msg == "" {
		return http.StatusText(status)
	}
	return msg
}
