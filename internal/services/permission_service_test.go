package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/articlehub-be/internal/apperrors"
	"github.com/isdelr/articlehub-be/internal/models"
)

func TestPermissionService_GrantAndRevoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.register(t, "Admin", "admin@x.com", models.RoleAdmin)
	u := f.register(t, "Maria", "maria@x.com")

	grant, err := f.permissions.Grant(ctx, admin.ID, u.ID, "EDITOR")
	require.NoError(t, err)
	assert.Equal(t, u.ID, grant.UserID)

	_, err = f.permissions.Grant(ctx, admin.ID, u.ID, "EDITOR")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	var n int
	require.NoError(t, f.db.QueryRow("SELECT COUNT(*) FROM user_permissions WHERE user_id = ?", u.ID).Scan(&n))
	assert.Equal(t, 1, n)

	require.NoError(t, f.permissions.Revoke(ctx, admin.ID, u.ID, "EDITOR"))
	assert.ErrorIs(t, f.permissions.Revoke(ctx, admin.ID, u.ID, "EDITOR"), apperrors.ErrNotFound)
}

func TestPermissionService_UnknownTargets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Maria", "maria@x.com")

	_, err := f.permissions.Grant(ctx, u.ID, u.ID, "SUPERUSER")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.permissions.Grant(ctx, u.ID, "8d0c54a4-9f3b-4a44-9c1b-0c5a5d1f2e3a", "READER")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.permissions.Grant(ctx, u.ID, "bogus", "READER")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPermissionService_ListPermissions(t *testing.T) {
	f := newFixture(t)
	perms, err := f.permissions.ListPermissions(context.Background())
	require.NoError(t, err)
	assert.Len(t, perms, len(models.AllRoles))
}
