// Package events provides the append-only chronicle of a session.
// Every mutation the engine performs lands here, so the final recap
// can be rebuilt from the log alone.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a session event.
type EventType string

const (
	EventTypeSessionStart     EventType = "SESSION_START"
	EventTypeResourceAcquired EventType = "RESOURCE_ACQUIRED"
	EventTypeResourceTransfer EventType = "RESOURCE_TRANSFER"
	EventTypePreparation      EventType = "PREPARATION"
	EventTypeEvidenceFound    EventType = "EVIDENCE_FOUND"
	EventTypeRandomEvent      EventType = "RANDOM_EVENT"
	EventTypeTimeAdvance      EventType = "TIME_ADVANCE"
	EventTypeSecretRevealed   EventType = "SECRET_REVEALED"
	EventTypeSessionResolved  EventType = "SESSION_RESOLVED"
)

// GameEvent is an immutable record of something that happened in a
// session. Payload carries the event-specific struct.
type GameEvent struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	Actor     string      `json:"actor"` // role id, or "world" for random events
	Payload   interface{} `json:"payload"`
	Day       int         `json:"day"`
	Slot      int         `json:"slot"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log for one session.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
// A nil persister keeps the log memory-only.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.events = append(el.events, event)

	if el.persister != nil {
		// Write through to durable storage off the hot path.
		go func(e GameEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// GetByType returns all events of one category, in append order.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// GetByDay returns all events that occurred on a specific game day.
func (el *EventLog) GetByDay(day int) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Day == day {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns a copy of the full history, for recaps and state
// reconstruction.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	out := make([]GameEvent, len(el.events))
	copy(out, el.events)
	return out
}

// Len returns the number of appended events.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
