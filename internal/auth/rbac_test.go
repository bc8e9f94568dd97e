package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/isdelr/articlehub-be/internal/models"
)

func TestAuthorize(t *testing.T) {
	admin, editor, reader := models.RoleAdmin, models.RoleEditor, models.RoleReader

	tests := []struct {
		name     string
		required []models.Role
		held     []models.Role
		want     bool
	}{
		{"empty required allows", nil, nil, true},
		{"empty required allows holder", nil, []models.Role{reader}, true},
		{"single match", []models.Role{admin}, []models.Role{admin}, true},
		{"any of matches second", []models.Role{admin, editor}, []models.Role{editor}, true},
		{"no overlap", []models.Role{admin, editor}, []models.Role{reader}, false},
		{"nothing held", []models.Role{reader}, nil, false},
		{"extra roles held", []models.Role{reader}, []models.Role{admin, reader}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.required, tt.held))
		})
	}
}

// Authorize must agree with set intersection for every combination of roles.
func TestAuthorize_MatchesIntersection(t *testing.T) {
	subsets := func() [][]models.Role {
		var out [][]models.Role
		for mask := 0; mask < 1<<len(models.AllRoles); mask++ {
			var s []models.Role
			for i, r := range models.AllRoles {
				if mask&(1<<i) != 0 {
					s = append(s, r)
				}
			}
			out = append(out, s)
		}
		return out
	}()

	for _, required := range subsets {
		for _, held := range subsets {
			want := len(required) == 0
			for _, r := range required {
				for _, h := range held {
					want = want || r == h
				}
			}
			assert.Equal(t, want, Authorize(required, held), "required=%v held=%v", required, held)
		}
	}
}

func TestRequirement(t *testing.T) {
	assert.True(t, Public().IsPublic())
	assert.False(t, Authenticated().IsPublic())
	assert.Equal(t, "any of ADMIN,EDITOR", AnyOf(models.RoleAdmin, models.RoleEditor).String())
	assert.Equal(t, "undeclared", Requirement{}.String())
	assert.Panics(t, func() { AnyOf() })
}
