package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/articlehub-be/internal/database"
	"github.com/isdelr/articlehub-be/internal/models"
)

// newTestDB opens a migrated in-memory SQLite database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.New(ctx, database.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db, database.SQLite))
	return db
}

// stepClock makes every stamp one second later than the previous one so
// ordering by timestamp is deterministic.
func stepClock(t *testing.T) {
	t.Helper()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	orig := now
	tick := 0
	now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	t.Cleanup(func() { now = orig })
}

func createUser(t *testing.T, repo *UserRepository, name, email string) models.User {
	t.Helper()
	u := models.User{ID: uuid.NewString(), Name: name, Email: email, PasswordHash: "hash-" + name}
	require.NoError(t, repo.Create(context.Background(), &u))
	return u
}

func TestPlaceholders(t *testing.T) {
	require.Equal(t, "", placeholders(0))
	require.Equal(t, "?", placeholders(1))
	require.Equal(t, "?,?,?", placeholders(3))
}
