package api

import (
	"fmt"

	"github.com/isdelr/articlehub-be/internal/apperrors"
)

var errRouteNotFound = fmt.Errorf("route not found: %w", apperrors.ErrNotFound)
