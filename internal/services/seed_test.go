package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/articlehub-be/internal/database"
	"github.com/isdelr/articlehub-be/internal/models"
)

func TestSeedAdmin_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, SeedAdmin(ctx, f.db, database.SQLite, f.hasher, "admin@example.com", "Admin@123"))
	}

	var users, grants int
	require.NoError(t, f.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&users))
	require.NoError(t, f.db.QueryRow("SELECT COUNT(*) FROM user_permissions").Scan(&grants))
	assert.Equal(t, 1, users)
	assert.Equal(t, 1, grants)

	res, err := f.auth.Login(ctx, "admin@example.com", "Admin@123")
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleAdmin}, res.User.Roles())
}

func TestSeedAdmin_PromotesExistingUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Existing", "root@x.com", models.RoleReader)

	require.NoError(t, SeedAdmin(ctx, f.db, database.SQLite, f.hasher, "root@x.com", "ignored"))

	got, err := f.users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.Role{models.RoleAdmin, models.RoleReader}, got.Roles())

	_, err = f.auth.Login(ctx, "root@x.com", "secret1")
	assert.NoError(t, err, "existing password is kept")
}
