package pagination

import (
	"math"
	"net/url"
	"strconv"
	"testing"

	"github.com/isdelr/articlehub-be/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sortable = []string{"createdAt", "title"}

func TestNewMeta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		page  int
		limit int
		total int
		want  Meta
	}{
		{"last page", 3, 10, 25, Meta{Page: 3, Limit: 10, Total: 25, TotalPages: 3, HasNextPage: false, HasPreviousPage: true}},
		{"first page", 1, 10, 25, Meta{Page: 1, Limit: 10, Total: 25, TotalPages: 3, HasNextPage: true, HasPreviousPage: false}},
		{"middle page", 2, 10, 25, Meta{Page: 2, Limit: 10, Total: 25, TotalPages: 3, HasNextPage: true, HasPreviousPage: true}},
		{"exact fit", 2, 5, 10, Meta{Page: 2, Limit: 5, Total: 10, TotalPages: 2, HasNextPage: false, HasPreviousPage: true}},
		{"empty", 1, 10, 0, Meta{Page: 1, Limit: 10, Total: 0, TotalPages: 0, HasNextPage: false, HasPreviousPage: false}},
		{"past the end", 5, 10, 25, Meta{Page: 5, Limit: 10, Total: 25, TotalPages: 3, HasNextPage: false, HasPreviousPage: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMeta(Params{Page: tt.page, Limit: tt.limit, SortOrder: SortDesc}, tt.total)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOffset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Params{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, Params{Page: 3, Limit: 10}.Offset())

	// The largest accepted page still yields a non-negative offset.
	last := Params{Page: math.MaxInt / 100, Limit: 100, SortOrder: SortDesc}
	require.NoError(t, last.Validate(sortable))
	assert.GreaterOrEqual(t, last.Offset(), 0)
}

func TestFromQuery_Defaults(t *testing.T) {
	t.Parallel()

	p, err := FromQuery(url.Values{}, sortable)
	require.NoError(t, err)
	assert.Equal(t, Params{Page: 1, Limit: 10, SortOrder: SortDesc}, p)
}

func TestFromQuery_Explicit(t *testing.T) {
	t.Parallel()

	q := url.Values{"page": {"2"}, "limit": {"5"}, "sortBy": {"title"}, "sortOrder": {"ASC"}}
	p, err := FromQuery(q, sortable)
	require.NoError(t, err)
	assert.Equal(t, Params{Page: 2, Limit: 5, SortBy: "title", SortOrder: SortAsc}, p)
}

func TestFromQuery_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string]url.Values{
		"page zero":       {"page": {"0"}},
		"page not number": {"page": {"two"}},
		"limit zero":      {"limit": {"0"}},
		"limit too large": {"limit": {"101"}},
		"bad order":       {"sortOrder": {"sideways"}},
		"unknown sort":    {"sortBy": {"password_hash"}},
		"offset overflow": {"page": {strconv.Itoa(math.MaxInt)}, "limit": {"100"}},
		"page past bound": {"page": {strconv.Itoa(math.MaxInt/10 + 1)}},
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromQuery(q, sortable)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestNewPage_NeverNullData(t *testing.T) {
	t.Parallel()

	page := NewPage[string](nil, Params{Page: 1, Limit: 10}, 0)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
}
