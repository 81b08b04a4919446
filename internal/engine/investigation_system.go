package engine

import (
	"fmt"
	"time"

	"github.com/kingdom-crisis/server/internal/content"
	"github.com/kingdom-crisis/server/internal/domain/role"
	"github.com/kingdom-crisis/server/internal/events"
	"github.com/kingdom-crisis/server/internal/platform/logger"
)

// EvidencePayload records a discovered evidence item on the event log.
type EvidencePayload struct {
	MethodID string               `json:"method_id"`
	Tier     string               `json:"tier"`
	Item     content.EvidenceItem `json:"item"`
	Costs    map[string]int       `json:"costs"`
}

// InvestigationSystem draws evidence from the crisis pools through the
// role's investigation methods. Draws are without replacement; each
// item can surface once per session.
type InvestigationSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

func NewInvestigationSystem(el *events.EventLog, log *logger.Logger) *InvestigationSystem {
	return &InvestigationSystem{eventLog: el, logger: log}
}

// Methods returns the role's investigation methods.
func (is *InvestigationSystem) Methods(s *Session) []role.InvestigationMethod {
	return s.Role.Methods
}

// Investigate draws one item uniformly from the remaining items across
// every tier the method can reach. Validation order: unknown method,
// then affordability, then exhaustion; nothing is mutated on failure.
func (is *InvestigationSystem) Investigate(s *Session, cfg Config, methodID string) error {
	method, ok := s.Role.MethodByID(methodID)
	if !ok {
		return newError(KindInvalidAction, "role %s has no investigation method %q", s.Role.Role, methodID)
	}
	if !s.canAfford(method.Cost) {
		return newError(KindInsufficientResources, "cannot afford %s", method.Name)
	}

	total := 0
	for _, tier := range method.Access {
		total += s.remainingEvidence(tier)
	}
	if total == 0 {
		return newError(KindEvidenceExhausted, "no evidence left in tiers reachable by %s", method.Name)
	}

	// Uniform draw over the union of the eligible tiers' remaining
	// items, so a scarce tier is picked in proportion to what is left.
	idx := s.rng.Intn(total)
	var (
		drawn     content.EvidenceItem
		drawnTier role.Tier
	)
	for _, tier := range method.Access {
		pool := s.evidencePools[tier]
		if idx < len(pool) {
			drawn = pool[idx]
			drawnTier = tier
			s.evidencePools[tier] = append(pool[:idx], pool[idx+1:]...)
			break
		}
		idx -= len(pool)
	}

	s.deduct(method.Cost)
	s.Evidence = append(s.Evidence, drawn)

	is.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		SessionID: s.ID,
		Timestamp: time.Now(),
		Type:      events.EventTypeEvidenceFound,
		Actor:     string(s.Role.Role),
		Payload: EvidencePayload{
			MethodID: method.ID,
			Tier:     string(drawnTier),
			Item:     drawn,
			Costs:    stringKeys(method.Cost),
		},
		Day:  cfg.Day(s.Slot),
		Slot: s.Slot,
	})
	is.logger.Info(fmt.Sprintf("[INVESTIGATION] %s found %s (%s tier)", s.Role.Role, drawn.ID, drawnTier))
	return nil
}
