// Package apperrors holds the error kinds shared by the stores, services and
// HTTP handlers. Callers wrap a kind with context using fmt.Errorf("...: %w")
// and classify with errors.Is.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated means the caller presented no token, or a token that
	// failed verification. The fix is to log in again.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the caller is authenticated but lacks a required role.
	ErrForbidden = errors.New("forbidden")

	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidInput    = errors.New("invalid input")
	ErrTooManyRequests = errors.New("too many requests")
	ErrInternal        = errors.New("internal error")
)

// StatusCode maps an error to the HTTP status it should be reported with.
// Anything that is not one of the known kinds is treated as internal.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// IsInternal reports whether err would be surfaced as a 500.
func IsInternal(err error) bool {
	return err != nil && StatusCode(err) == http.StatusInternalServerError
}
