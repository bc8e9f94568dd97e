package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/articlehub-be/internal/apperrors"
	"github.com/isdelr/articlehub-be/internal/database"
	"github.com/isdelr/articlehub-be/internal/models"
	"github.com/isdelr/articlehub-be/internal/pagination"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func TestUserRepository_FindByID_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, database.Postgres)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*name,.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("u-1").
		WillReturnError(errors.New("db down"))

	_, err := repo.FindByID(context.Background(), "u-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.False(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestUserRepository_List_CountError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, database.Postgres)

	mock.ExpectQuery(`(?s)^SELECT COUNT\(\*\) FROM users WHERE LOWER\(name\) LIKE \$1`).
		WithArgs("%ali%").
		WillReturnError(errors.New("timeout"))

	_, _, err := repo.List(context.Background(), models.UserFilter{Name: "ali"}, pagination.Params{Page: 1, Limit: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count users")
}

func TestArticleRepository_FindMany_RebindsPagingArgs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArticleRepository(db, database.Postgres)

	mock.ExpectQuery(`(?s)^SELECT COUNT\(\*\) FROM articles a WHERE a\.creator_id = \$1$`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`(?s)WHERE a\.creator_id = \$1 ORDER BY a\.created_at DESC, a\.id DESC LIMIT \$2 OFFSET \$3$`).
		WithArgs("u-1", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "creator_id", "created_at", "updated_at", "uid", "name", "email"}))

	got, total, err := repo.FindMany(context.Background(), models.ArticleFilter{AuthorID: "u-1"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, got)
}

func TestArticleRepository_Delete_ResultError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArticleRepository(db, database.Postgres)

	mock.ExpectExec(`^DELETE FROM articles WHERE id = \$1$`).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewErrorResult(errors.New("no rows info")))

	err := repo.Delete(context.Background(), "a1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rows info")
}

func TestEventRepository_Create_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db, database.Postgres)

	mock.ExpectExec(`^INSERT INTO events`).
		WillReturnError(errors.New("disk full"))

	err := repo.Create(context.Background(), &models.Event{ID: "e1", Type: "t", Level: "info", Message: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert event")
}
