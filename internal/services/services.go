// Package services holds the business operations behind the HTTP handlers.
// Services talk to persistence only through the repository interfaces.
package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/isdelr/articlehub-be/internal/apperrors"
)

// requireID checks that id is a well-formed uuid. A malformed id cannot name
// any stored row, so it is reported as not found.
func requireID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s with ID %s: %w", kind, id, apperrors.ErrNotFound)
	}
	return nil
}

func strPtr(s string) *string { return &s }
