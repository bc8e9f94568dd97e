// Package pagination turns validated page/sort/filter requests into SQL
// fragments and computes the metadata returned with every listing.
package pagination

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/isdelr/articlehub-be/internal/apperrors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Params is a page request. Once Validate has passed, the builder trusts it.
type Params struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Meta describes where a page sits in the full result set.
type Meta struct {
	Page            int  `json:"page"`
	Limit           int  `json:"limit"`
	Total           int  `json:"total"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// Page is the envelope for paginated listings.
type Page[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// FromQuery reads page, limit, sortBy and sortOrder from a query string,
// applying defaults for absent values, and validates the result against the
// sortable field names.
func FromQuery(q url.Values, sortable []string) (Params, error) {
	p := Params{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    strings.TrimSpace(q.Get("sortBy")),
		SortOrder: SortDesc,
	}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Params{}, fmt.Errorf("page must be an integer: %w", apperrors.ErrInvalidInput)
		}
		p.Page = n
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Params{}, fmt.Errorf("limit must be an integer: %w", apperrors.ErrInvalidInput)
		}
		p.Limit = n
	}
	if raw := q.Get("sortOrder"); raw != "" {
		p.SortOrder = strings.ToLower(raw)
	}

	if err := p.Validate(sortable); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate checks the preconditions the query builder relies on.
func (p Params) Validate(sortable []string) error {
	if p.Page < 1 {
		return fmt.Errorf("page must not be less than 1: %w", apperrors.ErrInvalidInput)
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d: %w", MaxLimit, apperrors.ErrInvalidInput)
	}
	if p.Page > math.MaxInt/p.Limit {
		return fmt.Errorf("page must not be greater than %d: %w", math.MaxInt/p.Limit, apperrors.ErrInvalidInput)
	}
	if p.SortOrder != SortAsc && p.SortOrder != SortDesc {
		return fmt.Errorf("sortOrder must be one of asc, desc: %w", apperrors.ErrInvalidInput)
	}
	if p.SortBy != "" && !contains(sortable, p.SortBy) {
		return fmt.Errorf("sortBy must be one of %s: %w", strings.Join(sortable, ", "), apperrors.ErrInvalidInput)
	}
	return nil
}

// Offset is the number of rows skipped before this page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// NewMeta computes page metadata for a result set of total rows.
func NewMeta(p Params, total int) Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Meta{
		Page:            p.Page,
		Limit:           p.Limit,
		Total:           total,
		TotalPages:      totalPages,
		HasNextPage:     p.Page < totalPages,
		HasPreviousPage: p.Page > 1,
	}
}

// NewPage wraps items with their metadata, never encoding a null data array.
func NewPage[T any](items []T, p Params, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Data: items, Meta: NewMeta(p, total)}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
