// Package engine is the game-state and resolution core: one session at
// a time, a fixed 21-slot timeline, and a programmatic action API
// where every mutation either fully applies or fails with a typed
// error and no effects.
package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/kingdom-crisis/server/internal/content"
	"github.com/kingdom-crisis/server/internal/domain/crisis"
	"github.com/kingdom-crisis/server/internal/domain/role"
	"github.com/kingdom-crisis/server/internal/events"
	"github.com/kingdom-crisis/server/internal/platform/logger"
)

// Engine wires the event log and content library to the game systems
// and serializes all mutations on one session.
type Engine struct {
	mu       sync.Mutex
	eventLog *events.EventLog
	logger   *logger.Logger
	library  *content.Library
	config   Config
	rng      *rand.Rand

	// Sub-systems
	resourceSystem      *ResourceSystem
	preparationSystem   *PreparationSystem
	investigationSystem *InvestigationSystem
	randomEventSystem   *RandomEventSystem

	session *Session
}

// NewEngine builds an engine around a validated content library. The
// rng is the single source of randomness for the whole session; seed
// it for reproducible runs.
func NewEngine(lib *content.Library, cfg Config, rng *rand.Rand, eventLog *events.EventLog, log *logger.Logger) *Engine {
	e := &Engine{
		eventLog: eventLog,
		logger:   log,
		library:  lib,
		config:   cfg,
		rng:      rng,

		resourceSystem:      NewResourceSystem(eventLog, log),
		preparationSystem:   NewPreparationSystem(eventLog, log),
		investigationSystem: NewInvestigationSystem(eventLog, log),
		randomEventSystem:   NewRandomEventSystem(eventLog, log),
	}
	e.session = newSession(rng)
	return e
}

// LoadContent loads and validates the embedded content library,
// wrapping any validation failure as a configuration error.
func LoadContent() (*content.Library, error) {
	lib, err := content.Load()
	if err != nil {
		return nil, newError(KindConfiguration, "%v", err)
	}
	return lib, nil
}

// SessionStartPayload records the assignment on the event log.
type SessionStartPayload struct {
	Role   string `json:"role"`
	Crisis string `json:"crisis"`
}

// Begin assigns the session's role and crisis at random and moves it
// to InProgress. Only legal once, from RoleAssignment.
func (e *Engine) Begin() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s.State != StateRoleAssignment {
		return e.snapshotLocked(), newError(KindInvalidState, "session already started (state %s)", s.State)
	}

	r := role.AssignRole(e.rng)
	c := crisis.Assign(e.rng)
	s.assign(r, c, e.library, e.config)

	e.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		SessionID: s.ID,
		Timestamp: time.Now(),
		Type:      events.EventTypeSessionStart,
		Actor:     string(r.Role),
		Payload:   SessionStartPayload{Role: string(r.Role), Crisis: string(c)},
		Day:       1,
		Slot:      0,
	})
	e.logger.Info(fmt.Sprintf("[SESSION] started: role=%s crisis=%s", r.Role, c))
	return e.snapshotLocked(), nil
}

// BeginAs is Begin with a fixed role and crisis, for simulations and
// tests that need a specific pairing.
func (e *Engine) BeginAs(r role.Role, c crisis.Crisis) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s.State != StateRoleAssignment {
		return e.snapshotLocked(), newError(KindInvalidState, "session already started (state %s)", s.State)
	}
	data, ok := role.Get(r)
	if !ok {
		return e.snapshotLocked(), newError(KindInvalidAction, "unknown role %q", r)
	}
	if !crisis.Valid(c) {
		return e.snapshotLocked(), newError(KindInvalidAction, "unknown crisis %q", c)
	}
	s.assign(data, c, e.library, e.config)

	e.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		SessionID: s.ID,
		Timestamp: time.Now(),
		Type:      events.EventTypeSessionStart,
		Actor:     string(r),
		Payload:   SessionStartPayload{Role: string(r), Crisis: string(c)},
		Day:       1,
		Slot:      0,
	})
	return e.snapshotLocked(), nil
}

// requireInProgress gates every gameplay mutation.
func (e *Engine) requireInProgress() error {
	switch e.session.State {
	case StateInProgress:
		return nil
	case StateRoleAssignment:
		return newError(KindInvalidState, "session has not started")
	default:
		return newError(KindInvalidState, "session is resolved")
	}
}

// Acquire adds a raw amount to one resource.
func (e *Engine) Acquire(res role.Resource, amount int) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireInProgress(); err != nil {
		return e.snapshotLocked(), err
	}
	if err := e.resourceSystem.Acquire(e.session, e.config, res, amount); err != nil {
		return e.snapshotLocked(), err
	}
	return e.snapshotLocked(), nil
}

// PerformAcquisition executes a named acquisition action.
func (e *Engine) PerformAcquisition(actionID string) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireInProgress(); err != nil {
		return e.snapshotLocked(), err
	}
	if err := e.resourceSystem.PerformAcquisition(e.session, e.config, actionID); err != nil {
		return e.snapshotLocked(), err
	}
	return e.snapshotLocked(), nil
}

// Transfer converts between two owned resources at the pair's rate.
func (e *Engine) Transfer(from, to role.Resource, amount int) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireInProgress(); err != nil {
		return e.snapshotLocked(), err
	}
	if err := e.resourceSystem.Transfer(e.session, e.config, from, to, amount); err != nil {
		return e.snapshotLocked(), err
	}
	return e.snapshotLocked(), nil
}

// Prepare executes a preparation action against the session's crisis.
func (e *Engine) Prepare(actionID string) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireInProgress(); err != nil {
		return e.snapshotLocked(), err
	}
	if err := e.preparationSystem.Prepare(e.session, e.config, actionID); err != nil {
		return e.snapshotLocked(), err
	}
	return e.snapshotLocked(), nil
}

// Investigate draws one evidence item through a role method.
func (e *Engine) Investigate(methodID string) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireInProgress(); err != nil {
		return e.snapshotLocked(), err
	}
	if err := e.investigationSystem.Investigate(e.session, e.config, methodID); err != nil {
		return e.snapshotLocked(), err
	}
	return e.snapshotLocked(), nil
}

// SecretPayload records a secret reveal on the event log.
type SecretPayload struct {
	SecretID string `json:"secret_id"`
	Name     string `json:"name"`
}

// RevealSecret confesses the role's personal secret. Once revealed it
// stays revealed; a second call is an invalid action.
func (e *Engine) RevealSecret() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireInProgress(); err != nil {
		return e.snapshotLocked(), err
	}
	s := e.session
	if s.SecretRevealed {
		return e.snapshotLocked(), newError(KindInvalidAction, "secret %s is already revealed", s.Role.Secret.ID)
	}
	s.SecretRevealed = true
	e.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		SessionID: s.ID,
		Timestamp: time.Now(),
		Type:      events.EventTypeSecretRevealed,
		Actor:     string(s.Role.Role),
		Payload:   SecretPayload{SecretID: s.Role.Secret.ID, Name: s.Role.Secret.Name},
		Day:       e.config.Day(s.Slot),
		Slot:      s.Slot,
	})
	return e.snapshotLocked(), nil
}

// AdvancePayload records a time advance on the event log.
type AdvancePayload struct {
	FromSlot int    `json:"from_slot"`
	ToSlot   int    `json:"to_slot"`
	Day      int    `json:"day"`
	SlotName string `json:"slot_name"`
	Fired    string `json:"fired,omitempty"`
}

// Advance moves time forward one slot. The random event roll for the
// slot being left happens first, so every slot gets exactly one roll.
// The advance out of the final slot resolves the session; advancing a
// resolved session fails with an invalid state error.
func (e *Engine) Advance() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireInProgress(); err != nil {
		return e.snapshotLocked(), err
	}
	s := e.session

	fired := e.randomEventSystem.Roll(s, e.config)
	from := s.Slot
	s.Slot++

	payload := AdvancePayload{
		FromSlot: from,
		ToSlot:   s.Slot,
		Day:      e.config.Day(s.Slot),
		SlotName: e.config.SlotName(s.Slot),
	}
	if fired != nil {
		payload.Fired = fired.EventID
	}
	e.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		SessionID: s.ID,
		Timestamp: time.Now(),
		Type:      events.EventTypeTimeAdvance,
		Actor:     string(s.Role.Role),
		Payload:   payload,
		Day:       payload.Day,
		Slot:      s.Slot,
	})

	if s.Slot >= e.config.TotalSlots() {
		e.resolveLocked()
	}
	return e.snapshotLocked(), nil
}

// ResolutionPayload records the session outcome on the event log.
type ResolutionPayload struct {
	Score   float64 `json:"score"`
	Band    string  `json:"band"`
	Outcome string  `json:"outcome"`
}

func (e *Engine) resolveLocked() {
	s := e.session
	s.State = StateResolved
	band := e.config.BandOf(s.Score)
	outcome := content.OutcomeForBand(band)

	e.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		SessionID: s.ID,
		Timestamp: time.Now(),
		Type:      events.EventTypeSessionResolved,
		Actor:     string(s.Role.Role),
		Payload:   ResolutionPayload{Score: s.Score, Band: string(band), Outcome: outcome},
		Day:       e.config.TotalDays,
		Slot:      s.Slot,
	})
	e.logger.Info(fmt.Sprintf("[SESSION] resolved: score=%.2f band=%s outcome=%s", s.Score, band, outcome))
}

// Snapshot returns the current read model.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	return e.session.snapshot(e.config, e.library)
}

// AvailableActions describes what the session's role can do, for
// clients that render menus.
type AvailableActions struct {
	Acquisition   []role.AcquisitionAction   `json:"acquisition"`
	Investigation []role.InvestigationMethod `json:"investigation"`
	Preparation   []crisis.PreparationAction `json:"preparation"`
}

// Actions returns the role's full action tables. Empty before Begin.
func (e *Engine) Actions() AvailableActions {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.State == StateRoleAssignment {
		return AvailableActions{}
	}
	return AvailableActions{
		Acquisition:   e.session.Role.Acquisition,
		Investigation: e.session.Role.Methods,
		Preparation:   e.preparationSystem.Actions(e.session),
	}
}

// GetEventLog exposes the log for recap building and observers.
func (e *Engine) GetEventLog() *events.EventLog {
	return e.eventLog
}
