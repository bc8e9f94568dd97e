package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/articlehub-be/internal/apperrors"
	"github.com/isdelr/articlehub-be/internal/database"
	"github.com/isdelr/articlehub-be/internal/models"
	"github.com/isdelr/articlehub-be/internal/pagination"
)

func TestArticleRepository_CreateEmbedsCreator(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db, database.SQLite)
	articles := NewArticleRepository(db, database.SQLite)

	alice := createUser(t, users, "Alice", "alice@example.com")
	a := models.Article{ID: "a1", Title: "Hello", Content: "World", CreatorID: alice.ID}
	require.NoError(t, articles.Create(ctx, &a))

	assert.Equal(t, models.ArticleCreator{ID: alice.ID, Name: "Alice", Email: "alice@example.com"}, a.Creator)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)

	got, err := articles.FindByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, alice.ID, got.Creator.ID)
}

func TestArticleRepository_CreateUnknownCreator(t *testing.T) {
	db := newTestDB(t)
	articles := NewArticleRepository(db, database.SQLite)

	err := articles.Create(context.Background(), &models.Article{ID: "a1", Title: "T", Content: "C", CreatorID: "ghost"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestArticleRepository_FindMany(t *testing.T) {
	stepClock(t)
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db, database.SQLite)
	articles := NewArticleRepository(db, database.SQLite)

	alice := createUser(t, users, "Alice", "alice@example.com")
	bob := createUser(t, users, "Bob", "bob@example.com")
	for i := 1; i <= 12; i++ {
		creator := alice.ID
		if i%2 == 0 {
			creator = bob.ID
		}
		a := models.Article{ID: fmt.Sprintf("a%02d", i), Title: fmt.Sprintf("Go tip %02d", i), Content: "body", CreatorID: creator}
		require.NoError(t, articles.Create(ctx, &a))
	}

	page, total, err := articles.FindMany(ctx, models.ArticleFilter{}, pagination.Params{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, page, 5)
	// newest first by default
	assert.Equal(t, "a07", page[0].ID)

	last, _, err := articles.FindMany(ctx, models.ArticleFilter{}, pagination.Params{Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, last, 2)

	beyond, total, err := articles.FindMany(ctx, models.ArticleFilter{}, pagination.Params{Page: 9, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	assert.Empty(t, beyond)

	byBob, total, err := articles.FindMany(ctx, models.ArticleFilter{AuthorID: bob.ID},
		pagination.Params{Page: 1, Limit: 10, SortBy: "title", SortOrder: pagination.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	require.Len(t, byBob, 6)
	assert.Equal(t, "Go tip 02", byBob[0].Title)
	for _, a := range byBob {
		assert.Equal(t, "Bob", a.Creator.Name)
	}

	titled, total, err := articles.FindMany(ctx, models.ArticleFilter{Title: "tip 1"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, titled, 3)
}

func TestArticleRepository_UpdateAndDelete(t *testing.T) {
	stepClock(t)
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db, database.SQLite)
	articles := NewArticleRepository(db, database.SQLite)

	alice := createUser(t, users, "Alice", "alice@example.com")
	a := models.Article{ID: "a1", Title: "Old", Content: "Body", CreatorID: alice.ID}
	require.NoError(t, articles.Create(ctx, &a))

	title := "New"
	updated, err := articles.Update(ctx, "a1", models.ArticleUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "Body", updated.Content)
	assert.Equal(t, alice.ID, updated.CreatorID)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	_, err = articles.Update(ctx, "missing", models.ArticleUpdate{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, articles.Delete(ctx, "a1"))
	_, err = articles.FindByID(ctx, "a1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, articles.Delete(ctx, "a1"), apperrors.ErrNotFound)
}

func TestArticleRepository_FindMany_FoldsNonASCII(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db, database.SQLite)
	articles := NewArticleRepository(db, database.SQLite)

	alice := createUser(t, users, "Ärzte Ölund", "alice@example.com")
	for i, title := range []string{"Über Äpfel", "Straße", "plain"} {
		a := models.Article{ID: fmt.Sprintf("a%d", i), Title: title, Content: "body", CreatorID: alice.ID}
		require.NoError(t, articles.Create(ctx, &a))
	}

	first := pagination.Params{Page: 1, Limit: 10}
	for _, q := range []string{"über", "ÜBER", "äpfel", "BER"} {
		got, total, err := articles.FindMany(ctx, models.ArticleFilter{Title: q}, first)
		require.NoError(t, err)
		assert.Equal(t, 1, total, q)
		require.Len(t, got, 1, q)
		assert.Equal(t, "Über Äpfel", got[0].Title)
	}

	found, total, err := users.List(ctx, models.UserFilter{Name: "öLUND"}, first)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, found, 1)
	assert.Equal(t, alice.ID, found[0].ID)
}
