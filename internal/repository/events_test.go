package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/articlehub-be/internal/database"
	"github.com/isdelr/articlehub-be/internal/models"
)

func TestEventRepository_ListAndPrune(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	events := NewEventRepository(db, database.SQLite)

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fresh := old.Add(48 * time.Hour)
	subject := "a1"

	require.NoError(t, events.Create(ctx, &models.Event{ID: "e1", Type: "article.create", Level: "info", Message: "old", CreatedAt: old}))
	require.NoError(t, events.Create(ctx, &models.Event{ID: "e2", Type: "article.delete", Level: "info", Message: "fresh", SubjectID: &subject, CreatedAt: fresh}))

	got, err := events.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e2", got[0].ID)
	require.NotNil(t, got[0].SubjectID)
	assert.Equal(t, "a1", *got[0].SubjectID)
	assert.Nil(t, got[1].ActorID)

	n, err := events.DeleteOlderThan(ctx, old.Add(24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err = events.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e2", got[0].ID)
}
