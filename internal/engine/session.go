package engine

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/kingdom-crisis/server/internal/content"
	"github.com/kingdom-crisis/server/internal/domain/crisis"
	"github.com/kingdom-crisis/server/internal/domain/role"
	"github.com/kingdom-crisis/server/internal/domain/rules"
)

// State is the session lifecycle phase.
type State string

const (
	StateRoleAssignment State = "ROLE_ASSIGNMENT"
	StateInProgress     State = "IN_PROGRESS"
	StateResolved       State = "RESOLVED"
)

// PreparationRecord is one completed preparation action.
type PreparationRecord struct {
	ActionID     string  `json:"action_id"`
	Name         string  `json:"name"`
	Contribution float64 `json:"contribution"`
	Day          int     `json:"day"`
	Slot         int     `json:"slot"`
}

// AppliedEvent is one random event that fired, with the deltas that
// actually landed on the role's resources.
type AppliedEvent struct {
	EventID     string         `json:"event_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Deltas      map[string]int `json:"deltas"`
	EvidenceID  string         `json:"evidence_id,omitempty"`
	Day         int            `json:"day"`
	Slot        int            `json:"slot"`
}

// Session is the complete mutable state of one playthrough. All access
// goes through the Engine, which serializes mutations.
type Session struct {
	ID     string
	State  State
	Role   role.Data
	Crisis crisis.Crisis

	Resources map[role.Resource]int
	Slot      int
	Score     float64

	Preparations   []PreparationRecord
	Evidence       []content.EvidenceItem
	Events         []AppliedEvent
	SecretRevealed bool

	// Remaining draw pools, consumed without replacement.
	evidencePools map[role.Tier][]content.EvidenceItem
	eventPool     []content.EventTemplate

	rng *rand.Rand
}

// newSession builds an unassigned session. Role, crisis, and pools are
// filled in by Engine.Begin.
func newSession(rng *rand.Rand) *Session {
	return &Session{
		ID:    uuid.NewString(),
		State: StateRoleAssignment,
		rng:   rng,
	}
}

// assign gives the session its role and crisis and initializes every
// pool from the content library.
func (s *Session) assign(r role.Data, c crisis.Crisis, lib *content.Library, cfg Config) {
	s.Role = r
	s.Crisis = c
	s.State = StateInProgress
	s.Resources = make(map[role.Resource]int, len(r.Starting))
	for res := range r.Starting {
		s.Resources[res] = cfg.StartingValue
	}
	s.evidencePools = map[role.Tier][]content.EvidenceItem{
		role.TierLow:    lib.EvidencePool(c, role.TierLow),
		role.TierMedium: lib.EvidencePool(c, role.TierMedium),
		role.TierHigh:   lib.EvidencePool(c, role.TierHigh),
	}
	s.eventPool = lib.EventsFor(c)
}

// canAfford reports whether every cost can be paid from the current
// pool. Costs are checked before anything is deducted, so a failed
// action never has partial effects.
func (s *Session) canAfford(cost map[role.Resource]int) bool {
	for res, c := range cost {
		if s.Resources[res] < c {
			return false
		}
	}
	return true
}

// deduct applies a cost the caller has already verified affordable.
func (s *Session) deduct(cost map[role.Resource]int) {
	for res, c := range cost {
		s.Resources[res] = rules.ClampResource(s.Resources[res] - c)
	}
}

// credit applies gains, clamping each resource.
func (s *Session) credit(gain map[role.Resource]int) {
	for res, g := range gain {
		s.Resources[res] = rules.ClampResource(s.Resources[res] + g)
	}
}

// remainingEvidence counts the items left in one tier.
func (s *Session) remainingEvidence(tier role.Tier) int {
	return len(s.evidencePools[tier])
}

// Snapshot is the read model handed back after every operation and
// pushed to observers.
type Snapshot struct {
	SessionID    string                 `json:"session_id"`
	State        State                  `json:"state"`
	Role         string                 `json:"role"`
	RoleName     string                 `json:"role_name"`
	Crisis       string                 `json:"crisis"`
	Day          int                    `json:"day"`
	SlotName     string                 `json:"slot_name"`
	Slot         int                    `json:"slot"`
	Act          string                 `json:"act"`
	Narrative    string                 `json:"narrative,omitempty"`
	Resources    map[string]int         `json:"resources"`
	Score        float64                `json:"score"`
	Band         rules.Band             `json:"band"`
	Secret       SecretSnapshot         `json:"secret"`
	Evidence     []content.EvidenceItem `json:"evidence"`
	Preparations []PreparationRecord    `json:"preparations"`
	Events       []AppliedEvent         `json:"events"`
	EvidenceLeft map[string]int         `json:"evidence_left"`
}

// SecretSnapshot exposes the role's personal secret. The description
// stays hidden until the secret is revealed.
type SecretSnapshot struct {
	Name        string `json:"name"`
	Revealed    bool   `json:"revealed"`
	Description string `json:"description,omitempty"`
}

// snapshot builds the read model for the current state.
func (s *Session) snapshot(cfg Config, lib *content.Library) Snapshot {
	resources := make(map[string]int, len(s.Resources))
	for res, v := range s.Resources {
		resources[string(res)] = v
	}
	day := cfg.Day(s.Slot)

	snap := Snapshot{
		SessionID: s.ID,
		State:     s.State,
		Role:      string(s.Role.Role),
		RoleName:  s.Role.Name,
		Crisis:    string(s.Crisis),
		Day:       day,
		SlotName:  cfg.SlotName(s.Slot),
		Slot:      s.Slot,
		Act:       cfg.Act(day),
		Resources: resources,
		Score:     s.Score,
		Band:      cfg.BandOf(s.Score),
		Secret: SecretSnapshot{
			Name:     s.Role.Secret.Name,
			Revealed: s.SecretRevealed,
		},
		Evidence:     append([]content.EvidenceItem(nil), s.Evidence...),
		Preparations: append([]PreparationRecord(nil), s.Preparations...),
		Events:       append([]AppliedEvent(nil), s.Events...),
		EvidenceLeft: map[string]int{
			string(role.TierLow):    s.remainingEvidence(role.TierLow),
			string(role.TierMedium): s.remainingEvidence(role.TierMedium),
			string(role.TierHigh):   s.remainingEvidence(role.TierHigh),
		},
	}
	if s.SecretRevealed {
		snap.Secret.Description = s.Role.Secret.Description
	}
	if s.State == StateInProgress && lib != nil {
		snap.Narrative = lib.DayNarrative(day, s.Role.Role)
	}
	return snap
}
