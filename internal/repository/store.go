// Package repository implements the persistence collaborators over
// database/sql. Every store works on a database.DBTX so it can be bound to
// the shared pool or to a transaction.
package repository

import (
	"context"
	"time"

	"github.com/isdelr/articlehub-be/internal/models"
	"github.com/isdelr/articlehub-be/internal/pagination"
)

// UserStore persists users. Reads include the user's granted permissions.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, filter models.UserFilter, params pagination.Params) ([]models.User, int, error)
	Update(ctx context.Context, id string, update models.UserUpdate) (models.User, error)
	Delete(ctx context.Context, id string) error
}

// PermissionStore persists permissions and their grants.
type PermissionStore interface {
	FindByName(ctx context.Context, name models.Role) (models.Permission, error)
	ListAll(ctx context.Context) ([]models.Permission, error)
	ListForUser(ctx context.Context, userID string) ([]models.Permission, error)
	Grant(ctx context.Context, userID, permissionID string) error
	Revoke(ctx context.Context, userID, permissionID string) error
}

// ArticleStore persists articles. Reads embed the creator projection.
type ArticleStore interface {
	Create(ctx context.Context, article *models.Article) error
	FindByID(ctx context.Context, id string) (models.Article, error)
	FindMany(ctx context.Context, filter models.ArticleFilter, params pagination.Params) ([]models.Article, int, error)
	Update(ctx context.Context, id string, update models.ArticleUpdate) (models.Article, error)
	Delete(ctx context.Context, id string) error
}

// EventStore persists audit events.
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	ListRecent(ctx context.Context, limit int) ([]models.Event, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// now is the clock used for created_at/updated_at stamps.
var now = func() time.Time { return time.Now().UTC() }

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '?')
	}
	return string(b)
}
