package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/isdelr/articlehub-be/internal/auth"
	"github.com/isdelr/articlehub-be/internal/database"
	"github.com/isdelr/articlehub-be/internal/models"
	"github.com/isdelr/articlehub-be/internal/repository"
)

// recordingEvents captures recorded events in memory.
type recordingEvents struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *recordingEvents) Record(_ context.Context, eventType, level, message string, actorID, subjectID *string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, models.Event{Type: eventType, Level: level, Message: message, ActorID: actorID, SubjectID: subjectID})
}

func (r *recordingEvents) GetRecentEvents(context.Context, int) ([]models.Event, error) { return nil, nil }

func (r *recordingEvents) Prune(context.Context, time.Duration) (int64, error) { return 0, nil }

func (r *recordingEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	db          *sql.DB
	hasher      *PasswordHasher
	tokens      *auth.TokenService
	events      *recordingEvents
	users       *UserService
	auth        *AuthService
	permissions *PermissionService
	articles    *ArticleService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.New(ctx, database.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db, database.SQLite))

	hasher, err := NewPasswordHasher(bcrypt.MinCost, 2)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService("0123456789abcdef0123456789abcdef", time.Hour, "articlehub")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db, database.SQLite)
	permRepo := repository.NewPermissionRepository(db, database.SQLite)
	articleRepo := repository.NewArticleRepository(db, database.SQLite)
	events := &recordingEvents{}

	return &fixture{
		db:          db,
		hasher:      hasher,
		tokens:      tokens,
		events:      events,
		users:       NewUserService(userRepo, hasher, events),
		auth:        NewAuthService(userRepo, hasher, tokens, events),
		permissions: NewPermissionService(permRepo, events),
		articles:    NewArticleService(articleRepo, events),
	}
}

func (f *fixture) register(t *testing.T, name, email string, roles ...models.Role) models.User {
	t.Helper()
	ctx := context.Background()
	u, err := f.users.Register(ctx, name, email, "secret1")
	require.NoError(t, err)
	for _, r := range roles {
		_, err := f.permissions.Grant(ctx, u.ID, u.ID, string(r))
		require.NoError(t, err)
	}
	return u
}
