package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kingdom-crisis/server/internal/events"
	"github.com/kingdom-crisis/server/internal/platform/metrics"
)

// writeTimeout bounds a single event write so a stuck database never
// blocks the write-through goroutines indefinitely.
const writeTimeout = 5 * time.Second

// EventPersister adapts an EventRepository to the event log's
// write-through interface.
type EventPersister struct {
	repo EventRepository
}

func NewEventPersister(repo EventRepository) *EventPersister {
	return &EventPersister{repo: repo}
}

// Append converts and stores one session event, recording write
// latency and failures on the metrics collector.
func (p *EventPersister) Append(event events.GameEvent) error {
	payload := make(map[string]interface{})
	if event.Payload != nil {
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("failed to flatten payload: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	start := time.Now()
	err := p.repo.Append(ctx, StoredEvent{
		ID:        event.ID,
		SessionID: event.SessionID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		Actor:     event.Actor,
		Payload:   payload,
		Day:       event.Day,
		Slot:      event.Slot,
	})
	metrics.Get().RecordEventWrite(time.Since(start), err)
	return err
}
