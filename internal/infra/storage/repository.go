// Package storage provides the persistence layer for the crisis
// server. It implements the repository pattern to keep the domain
// packages free of database concerns.
package storage

import (
	"context"
	"time"
)

// StoredEvent mirrors the in-memory session event for persistence.
// The domain packages do NOT import this; the adapter converts.
type StoredEvent struct {
	ID        string                 `json:"id" db:"id"`
	SessionID string                 `json:"session_id" db:"session_id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	Actor     string                 `json:"actor" db:"actor"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	Day       int                    `json:"day" db:"day"`
	Slot      int                    `json:"slot" db:"slot"`
}

// EventRepository defines the interface for event persistence.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event StoredEvent) error

	// GetBySessionID retrieves all events for one session, for replay.
	GetBySessionID(ctx context.Context, sessionID string) ([]StoredEvent, error)

	// GetByEventType retrieves all events of a specific type.
	GetByEventType(ctx context.Context, sessionID string, eventType string) ([]StoredEvent, error)

	// GetByDay retrieves all events from a specific in-game day.
	GetByDay(ctx context.Context, sessionID string, day int) ([]StoredEvent, error)
}

// SessionSummary is the durable row for one playthrough, kept current
// as the session progresses so past runs can be listed without replay.
type SessionSummary struct {
	SessionID      string    `json:"session_id" db:"session_id"`
	Role           string    `json:"role" db:"role"`
	Crisis         string    `json:"crisis" db:"crisis"`
	State          string    `json:"state" db:"state"`
	Day            int       `json:"day" db:"day"`
	Slot           int       `json:"slot" db:"slot"`
	Score          float64   `json:"score" db:"score"`
	Band           string    `json:"band" db:"band"`
	Outcome        string    `json:"outcome" db:"outcome"`
	SecretRevealed bool      `json:"secret_revealed" db:"secret_revealed"`
	EvidenceCount  int       `json:"evidence_count" db:"evidence_count"`
	LastUpdated    time.Time `json:"last_updated" db:"last_updated"`
}

// SessionRepository defines the interface for session summaries.
type SessionRepository interface {
	// Upsert updates or inserts a session summary.
	Upsert(ctx context.Context, summary SessionSummary) error

	// GetBySessionID retrieves one session's summary.
	GetBySessionID(ctx context.Context, sessionID string) (*SessionSummary, error)

	// List retrieves the most recent sessions, newest first.
	List(ctx context.Context, limit int) ([]SessionSummary, error)
}
