package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/articlehub-be/internal/database"
	"github.com/isdelr/articlehub-be/internal/models"
)

// EventRepository is the SQL EventStore.
type EventRepository struct {
	db      database.DBTX
	dialect database.Dialect
}

// NewEventRepository creates an EventRepository bound to db.
func NewEventRepository(db database.DBTX, dialect database.Dialect) *EventRepository {
	return &EventRepository{db: db, dialect: dialect}
}

// Create logs a new event to the database.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now()
	}
	event.CreatedAt = event.CreatedAt.UTC()
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		"INSERT INTO events (id, type, level, message, actor_id, subject_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)"),
		event.ID, event.Type, event.Level, event.Message, event.ActorID, event.SubjectID, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListRecent retrieves the most recent events, newest first.
func (r *EventRepository) ListRecent(ctx context.Context, limit int) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(
		"SELECT id, type, level, message, actor_id, subject_id, created_at FROM events ORDER BY created_at DESC, id DESC LIMIT ?"), limit)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Type, &e.Level, &e.Message, &e.ActorID, &e.SubjectID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// DeleteOlderThan prunes events created before the cutoff and reports how many went.
func (r *EventRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind("DELETE FROM events WHERE created_at < ?"), before.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.RowsAffected()
}
