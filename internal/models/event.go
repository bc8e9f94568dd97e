package models

import "time"

// Event represents an audited mutation or system notice.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "article.create", "user.permission.grant"
	Level     string    `json:"level"` // e.g., "info", "warn", "error"
	Message   string    `json:"message"`
	ActorID   *string   `json:"actorId,omitempty"`   // Nil for anonymous or system events
	SubjectID *string   `json:"subjectId,omitempty"` // ID of the entity the event is about
	CreatedAt time.Time `json:"createdAt"`
}
