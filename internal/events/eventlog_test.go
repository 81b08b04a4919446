package events

import (
	"testing"
	"time"
)

func makeEvent(t EventType, day, slot int) GameEvent {
	return GameEvent{
		ID:        GenerateEventID(),
		SessionID: "test-session",
		Timestamp: time.Now(),
		Type:      t,
		Actor:     "king",
		Day:       day,
		Slot:      slot,
	}
}

func TestAppendAndReplayPreservesOrder(t *testing.T) {
	log := NewEventLog(nil)
	log.Append(makeEvent(EventTypeSessionStart, 1, 0))
	log.Append(makeEvent(EventTypeResourceAcquired, 1, 0))
	log.Append(makeEvent(EventTypeTimeAdvance, 1, 1))

	got := log.Replay()
	if len(got) != 3 {
		t.Fatalf("replay returned %d events, want 3", len(got))
	}
	want := []EventType{EventTypeSessionStart, EventTypeResourceAcquired, EventTypeTimeAdvance}
	for i, e := range got {
		if e.Type != want[i] {
			t.Errorf("event %d has type %v, want %v", i, e.Type, want[i])
		}
	}
}

func TestReplayReturnsCopy(t *testing.T) {
	log := NewEventLog(nil)
	log.Append(makeEvent(EventTypeSessionStart, 1, 0))

	snap := log.Replay()
	snap[0].Type = EventTypeSessionResolved

	if log.Replay()[0].Type != EventTypeSessionStart {
		t.Error("mutating a replay slice leaked into the log")
	}
}

func TestGetByTypeAndDay(t *testing.T) {
	log := NewEventLog(nil)
	log.Append(makeEvent(EventTypeRandomEvent, 1, 2))
	log.Append(makeEvent(EventTypeRandomEvent, 3, 7))
	log.Append(makeEvent(EventTypePreparation, 3, 8))

	if got := log.GetByType(EventTypeRandomEvent); len(got) != 2 {
		t.Errorf("GetByType(RANDOM_EVENT) returned %d events, want 2", len(got))
	}
	if got := log.GetByDay(3); len(got) != 2 {
		t.Errorf("GetByDay(3) returned %d events, want 2", len(got))
	}
	if got := log.GetByDay(5); got != nil {
		t.Errorf("GetByDay(5) returned %v, want nil", got)
	}
}

type recordingPersister struct {
	ch chan GameEvent
}

func (p *recordingPersister) Append(e GameEvent) error {
	p.ch <- e
	return nil
}

func TestWriteThroughToPersister(t *testing.T) {
	p := &recordingPersister{ch: make(chan GameEvent, 1)}
	log := NewEventLog(p)
	log.Append(makeEvent(EventTypeEvidenceFound, 2, 4))

	select {
	case e := <-p.ch:
		if e.Type != EventTypeEvidenceFound {
			t.Errorf("persisted type %v, want EVIDENCE_FOUND", e.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("persister never received the event")
	}
}

func TestGenerateEventIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateEventID()
		if seen[id] {
			t.Fatalf("duplicate event id %q", id)
		}
		seen[id] = true
	}
}
