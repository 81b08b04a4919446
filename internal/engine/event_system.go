package engine

import (
	"fmt"
	"time"

	"github.com/kingdom-crisis/server/internal/domain/role"
	"github.com/kingdom-crisis/server/internal/domain/rules"
	"github.com/kingdom-crisis/server/internal/events"
	"github.com/kingdom-crisis/server/internal/platform/logger"
)

// RandomEventPayload records a fired random event on the event log.
type RandomEventPayload struct {
	EventID    string         `json:"event_id"`
	Name       string         `json:"name"`
	Deltas     map[string]int `json:"deltas"`
	EvidenceID string         `json:"evidence_id,omitempty"`
	Chance     float64        `json:"chance"`
}

// RandomEventSystem rolls for world events on each time advance. The
// fire probability ramps up across the timeline; fired events apply
// resource deltas and may surface free evidence.
type RandomEventSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

func NewRandomEventSystem(el *events.EventLog, log *logger.Logger) *RandomEventSystem {
	return &RandomEventSystem{eventLog: el, logger: log}
}

// Roll makes the event check for the session's current slot. It
// returns the applied event, or nil when nothing fired. By default the
// pool is consumed without replacement; Config.AllowRepeatEvents keeps
// fired events in the pool.
func (res *RandomEventSystem) Roll(s *Session, cfg Config) *AppliedEvent {
	chance := cfg.EventChance(s.Slot)
	if s.rng.Float64() >= chance {
		return nil
	}
	if len(s.eventPool) == 0 {
		// Every event has already fired; the roll fizzles.
		return nil
	}

	idx := s.rng.Intn(len(s.eventPool))
	tmpl := s.eventPool[idx]
	if !cfg.AllowRepeatEvents {
		s.eventPool = append(s.eventPool[:idx], s.eventPool[idx+1:]...)
	}

	// Only deltas naming resources the role owns land; the recorded
	// delta is what actually changed after clamping.
	deltas := make(map[string]int)
	for resName, delta := range tmpl.Effects {
		r := role.Resource(resName)
		if !s.Role.Owns(r) {
			continue
		}
		before := s.Resources[r]
		s.Resources[r] = rules.ClampResource(before + delta)
		if applied := s.Resources[r] - before; applied != 0 {
			deltas[resName] = applied
		}
	}

	applied := AppliedEvent{
		EventID:     tmpl.ID,
		Name:        tmpl.Name,
		Description: tmpl.Description,
		Deltas:      deltas,
		Day:         cfg.Day(s.Slot),
		Slot:        s.Slot,
	}

	// An evidence grant draws from the named tier if anything is left.
	if tmpl.GrantTier != "" {
		tier := role.Tier(tmpl.GrantTier)
		if pool := s.evidencePools[tier]; len(pool) > 0 {
			pick := s.rng.Intn(len(pool))
			item := pool[pick]
			s.evidencePools[tier] = append(pool[:pick], pool[pick+1:]...)
			s.Evidence = append(s.Evidence, item)
			applied.EvidenceID = item.ID
		}
	}

	s.Events = append(s.Events, applied)

	res.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		SessionID: s.ID,
		Timestamp: time.Now(),
		Type:      events.EventTypeRandomEvent,
		Actor:     "world",
		Payload: RandomEventPayload{
			EventID:    tmpl.ID,
			Name:       tmpl.Name,
			Deltas:     deltas,
			EvidenceID: applied.EvidenceID,
			Chance:     chance,
		},
		Day:  applied.Day,
		Slot: applied.Slot,
	})
	res.logger.Event(string(events.EventTypeRandomEvent), "world",
		fmt.Sprintf("%s at slot %d (chance %.2f)", tmpl.Name, s.Slot, chance))
	return &applied
}
