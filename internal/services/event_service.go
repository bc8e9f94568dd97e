package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/articlehub-be/internal/apperrors"
	"github.com/isdelr/articlehub-be/internal/models"
	"github.com/isdelr/articlehub-be/internal/repository"
)

// Event types written by the services.
const (
	EventUserRegistered    = "user.register"
	EventUserUpdated       = "user.update"
	EventUserDeleted       = "user.delete"
	EventPermissionGranted = "user.permission.grant"
	EventPermissionRevoked = "user.permission.revoke"
	EventArticleCreated    = "article.create"
	EventArticleUpdated    = "article.update"
	EventArticleDeleted    = "article.delete"
	EventLoginFailed       = "auth.login.failed"
)

const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// MaxEventLimit caps how many events one listing returns.
const MaxEventLimit = 200

// EventPublisher receives every recorded event, e.g. to push it to
// websocket subscribers.
type EventPublisher interface {
	Publish(event models.Event)
}

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	Record(ctx context.Context, eventType, level, message string, actorID, subjectID *string)
	GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error)
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// EventService records the audit trail of mutations.
type EventService struct {
	store     repository.EventStore
	publisher EventPublisher
}

// NewEventService creates a new EventService. publisher may be nil.
func NewEventService(store repository.EventStore, publisher EventPublisher) *EventService {
	return &EventService{store: store, publisher: publisher}
}

// Record stores an event and publishes it. Failures are logged and never
// fail the mutation being audited.
func (s *EventService) Record(ctx context.Context, eventType, level, message string, actorID, subjectID *string) {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		ActorID:   actorID,
		SubjectID: subjectID,
	}

	if err := s.store.Create(ctx, &event); err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to record event")
		return
	}
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}

// GetRecentEvents retrieves the most recent events, newest first.
func (s *EventService) GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	if limit <= 0 || limit > MaxEventLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d: %w", MaxEventLimit, apperrors.ErrInvalidInput)
	}
	events, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

// Prune deletes events older than retention.
func (s *EventService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	return s.store.DeleteOlderThan(ctx, time.Now().Add(-retention))
}
