package engine

import (
	"github.com/kingdom-crisis/server/internal/content"
	"github.com/kingdom-crisis/server/internal/domain/rules"
)

// Recap is the final report for a resolved session: who you were, what
// you faced, what you found, what you did, and how it ended.
type Recap struct {
	SessionID  string `json:"session_id"`
	Role       string `json:"role"`
	RoleName   string `json:"role_name"`
	Crisis     string `json:"crisis"`
	CrisisName string `json:"crisis_name"`

	Score   float64    `json:"score"`
	Band    rules.Band `json:"band"`
	Outcome string     `json:"outcome"`

	EndingTitle string `json:"ending_title"`
	EndingText  string `json:"ending_text"`

	Secret         string `json:"secret"`
	SecretRevealed bool   `json:"secret_revealed"`

	FinalResources map[string]int         `json:"final_resources"`
	Evidence       []content.EvidenceItem `json:"evidence"`
	Preparations   []PreparationRecord    `json:"preparations"`
	Events         []AppliedEvent         `json:"events"`

	ActionCount   int `json:"action_count"`
	EvidenceCount int `json:"evidence_count"`
	EventCount    int `json:"event_count"`
}

// Recap builds the final report. It is only meaningful once the
// session is resolved; calling it earlier is an invalid state.
func (e *Engine) Recap() (Recap, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s.State != StateResolved {
		return Recap{}, newError(KindInvalidState, "session is not resolved (state %s)", s.State)
	}

	band := e.config.BandOf(s.Score)
	outcome := content.OutcomeForBand(band)
	ending := e.library.Ending(s.Crisis, outcome)

	resources := make(map[string]int, len(s.Resources))
	for res, v := range s.Resources {
		resources[string(res)] = v
	}

	return Recap{
		SessionID:  s.ID,
		Role:       string(s.Role.Role),
		RoleName:   s.Role.Name,
		Crisis:     string(s.Crisis),
		CrisisName: e.library.Crisis(s.Crisis).Name,

		Score:   s.Score,
		Band:    band,
		Outcome: outcome,

		EndingTitle: ending.Title,
		EndingText:  e.library.Text(s.Role.Role, s.Crisis, band),

		Secret:         s.Role.Secret.Name,
		SecretRevealed: s.SecretRevealed,

		FinalResources: resources,
		Evidence:       append([]content.EvidenceItem(nil), s.Evidence...),
		Preparations:   append([]PreparationRecord(nil), s.Preparations...),
		Events:         append([]AppliedEvent(nil), s.Events...),

		ActionCount:   len(s.Preparations),
		EvidenceCount: len(s.Evidence),
		EventCount:    len(s.Events),
	}, nil
}
