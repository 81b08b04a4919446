package engine

import (
	"fmt"
	"time"

	"github.com/kingdom-crisis/server/internal/domain/role"
	"github.com/kingdom-crisis/server/internal/domain/rules"
	"github.com/kingdom-crisis/server/internal/events"
	"github.com/kingdom-crisis/server/internal/platform/logger"
)

// AcquisitionPayload records an acquisition action on the event log.
type AcquisitionPayload struct {
	ActionID string         `json:"action_id"`
	Name     string         `json:"name"`
	Gains    map[string]int `json:"gains"`
	Costs    map[string]int `json:"costs"`
}

// TransferPayload records a resource conversion on the event log.
type TransferPayload struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Requested int     `json:"requested"`
	Credited  int     `json:"credited"`
	Rate      float64 `json:"rate"`
}

// ResourceSystem handles acquisition and conversion of role resources.
// Every mutation is all-or-nothing: costs are verified in full before
// anything changes.
type ResourceSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

func NewResourceSystem(el *events.EventLog, log *logger.Logger) *ResourceSystem {
	return &ResourceSystem{eventLog: el, logger: log}
}

// Acquire adds a raw amount to one of the session's resources. It is
// the primitive under PerformAcquisition and event effects.
func (rs *ResourceSystem) Acquire(s *Session, cfg Config, res role.Resource, amount int) error {
	if amount <= 0 {
		return newError(KindInvalidAction, "acquire amount must be positive, got %d", amount)
	}
	if !s.Role.Owns(res) {
		return newError(KindInvalidAction, "resource %s does not belong to role %s", res, s.Role.Role)
	}
	s.credit(map[role.Resource]int{res: amount})

	rs.append(s, cfg, events.EventTypeResourceAcquired, AcquisitionPayload{
		Gains: map[string]int{string(res): amount},
	})
	return nil
}

// PerformAcquisition executes a named action from the role's
// acquisition table: costs out, gains in, atomically.
func (rs *ResourceSystem) PerformAcquisition(s *Session, cfg Config, actionID string) error {
	action, ok := s.Role.AcquisitionByID(actionID)
	if !ok {
		return newError(KindInvalidAction, "role %s has no acquisition action %q", s.Role.Role, actionID)
	}
	if !s.canAfford(action.Cost) {
		return newError(KindInsufficientResources, "cannot afford %s", action.Name)
	}
	s.deduct(action.Cost)
	s.credit(action.Gain)

	rs.append(s, cfg, events.EventTypeResourceAcquired, AcquisitionPayload{
		ActionID: action.ID,
		Name:     action.Name,
		Gains:    stringKeys(action.Gain),
		Costs:    stringKeys(action.Cost),
	})
	rs.logger.Info(fmt.Sprintf("[RESOURCE] %s performed %s", s.Role.Role, action.Name))
	return nil
}

// Transfer converts amount from one owned resource into another at the
// pair's cost rate. The credited amount is floored, so conversion
// always rounds against the player.
func (rs *ResourceSystem) Transfer(s *Session, cfg Config, from, to role.Resource, amount int) error {
	if amount <= 0 {
		return newError(KindInvalidAction, "transfer amount must be positive, got %d", amount)
	}
	if from == to {
		return newError(KindInvalidAction, "cannot transfer %s into itself", from)
	}
	if !s.Role.Owns(from) || !s.Role.Owns(to) {
		return newError(KindInvalidAction, "transfer %s -> %s uses a resource outside role %s", from, to, s.Role.Role)
	}
	if s.Resources[from] < amount {
		return newError(KindInsufficientResources, "have %d %s, need %d", s.Resources[from], from, amount)
	}

	rate := rules.TransferRateWithDefault(from, to, cfg.DefaultTransferRate)
	credited := rules.Convert(amount, rate)
	s.deduct(map[role.Resource]int{from: amount})
	s.credit(map[role.Resource]int{to: credited})

	rs.append(s, cfg, events.EventTypeResourceTransfer, TransferPayload{
		From:      string(from),
		To:        string(to),
		Requested: amount,
		Credited:  credited,
		Rate:      rate,
	})
	rs.logger.Info(fmt.Sprintf("[RESOURCE] transfer %d %s -> %d %s", amount, from, credited, to))
	return nil
}

func (rs *ResourceSystem) append(s *Session, cfg Config, t events.EventType, payload interface{}) {
	rs.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		SessionID: s.ID,
		Timestamp: time.Now(),
		Type:      t,
		Actor:     string(s.Role.Role),
		Payload:   payload,
		Day:       cfg.Day(s.Slot),
		Slot:      s.Slot,
	})
}

func stringKeys(m map[role.Resource]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}
