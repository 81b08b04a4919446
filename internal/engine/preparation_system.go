package engine

import (
	"fmt"
	"time"

	"github.com/kingdom-crisis/server/internal/domain/crisis"
	"github.com/kingdom-crisis/server/internal/domain/rules"
	"github.com/kingdom-crisis/server/internal/events"
	"github.com/kingdom-crisis/server/internal/platform/logger"
)

// PreparationPayload records a preparation action on the event log.
type PreparationPayload struct {
	ActionID     string         `json:"action_id"`
	Name         string         `json:"name"`
	Costs        map[string]int `json:"costs"`
	Contribution float64        `json:"contribution"`
	Score        float64        `json:"score"`
	Band         rules.Band     `json:"band"`
}

// PreparationSystem applies crisis preparation actions and tracks the
// session's effectiveness score.
type PreparationSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

func NewPreparationSystem(el *events.EventLog, log *logger.Logger) *PreparationSystem {
	return &PreparationSystem{eventLog: el, logger: log}
}

// Actions returns the fixed table of preparation actions for the
// session's role against its crisis.
func (ps *PreparationSystem) Actions(s *Session) []crisis.PreparationAction {
	return crisis.Preparations(s.Role.Role, s.Crisis)
}

// Prepare executes one action from the table: the cost is deducted and
// the action's contribution, adjusted for investment depth, is added
// to the score. The score is clamped to [0, 1].
func (ps *PreparationSystem) Prepare(s *Session, cfg Config, actionID string) error {
	action, ok := crisis.PreparationByID(s.Role.Role, actionID)
	if !ok {
		return newError(KindInvalidAction, "role %s has no preparation action %q", s.Role.Role, actionID)
	}
	if action.Crisis != s.Crisis {
		return newError(KindInvalidAction, "%s targets crisis %s, session faces %s", action.Name, action.Crisis, s.Crisis)
	}
	if !s.canAfford(action.Cost) {
		return newError(KindInsufficientResources, "cannot afford %s", action.Name)
	}

	// Adjustment reads the pool before the deduction: thin reserves
	// penalize the action that drains them.
	contribution := rules.InvestmentAdjustment(action.Contribution, action.Cost, s.Resources)
	s.deduct(action.Cost)
	s.Score = rules.Clamp01(s.Score + contribution)

	record := PreparationRecord{
		ActionID:     action.ID,
		Name:         action.Name,
		Contribution: contribution,
		Day:          cfg.Day(s.Slot),
		Slot:         s.Slot,
	}
	s.Preparations = append(s.Preparations, record)

	ps.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		SessionID: s.ID,
		Timestamp: time.Now(),
		Type:      events.EventTypePreparation,
		Actor:     string(s.Role.Role),
		Payload: PreparationPayload{
			ActionID:     action.ID,
			Name:         action.Name,
			Costs:        stringKeys(action.Cost),
			Contribution: contribution,
			Score:        s.Score,
			Band:         cfg.BandOf(s.Score),
		},
		Day:  record.Day,
		Slot: record.Slot,
	})
	ps.logger.Info(fmt.Sprintf("[PREPARATION] %s: %s (+%.2f, score %.2f)", s.Role.Role, action.Name, contribution, s.Score))
	return nil
}
