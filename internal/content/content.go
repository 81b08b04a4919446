// Package content loads the narrative data the engine runs on: the
// per-crisis evidence pools, the ending texts, the random event pool,
// and the daily narration. Everything is embedded; Load validates the
// whole library before the engine is allowed to start.
package content

import (
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingdom-crisis/server/internal/domain/crisis"
	"github.com/kingdom-crisis/server/internal/domain/role"
	"github.com/kingdom-crisis/server/internal/domain/rules"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Minimum evidence items per tier. Low is plentiful, High is scarce.
const (
	MinLowEvidence    = 20
	MinMediumEvidence = 15
	MinHighEvidence   = 10
)

// EvidenceItem is one discoverable piece of evidence.
type EvidenceItem struct {
	ID          string `yaml:"id" json:"id"`
	Text        string `yaml:"text" json:"text"`
	Reliability string `yaml:"reliability" json:"reliability"`
	Source      string `yaml:"source" json:"source"`
	Location    string `yaml:"location" json:"location"`
}

// Ending is the resolution text for one crisis outcome.
type Ending struct {
	Title string            `yaml:"title"`
	Text  string            `yaml:"text"`
	Roles map[string]string `yaml:"roles"`
}

// Outcome identifiers, keyed off the final preparation band.
const (
	OutcomeKingdomSaved    = "kingdom_saved"
	OutcomePartialRecovery = "partial_recovery"
	OutcomeKingdomFalls    = "kingdom_falls"
)

var outcomes = []string{OutcomeKingdomSaved, OutcomePartialRecovery, OutcomeKingdomFalls}

// OutcomeForBand maps a preparation band to its crisis outcome.
func OutcomeForBand(b rules.Band) string {
	switch b {
	case rules.BandHigh:
		return OutcomeKingdomSaved
	case rules.BandMedium:
		return OutcomePartialRecovery
	default:
		return OutcomeKingdomFalls
	}
}

// CrisisContent is one crisis document: its evidence pools and endings.
type CrisisContent struct {
	ID          string                    `yaml:"id"`
	Name        string                    `yaml:"name"`
	Description string                    `yaml:"description"`
	Evidence    map[string][]EvidenceItem `yaml:"evidence"`
	Endings     map[string]Ending         `yaml:"endings"`
}

// EventTemplate is one entry of the random event pool. Effects name
// resources with integer deltas; only deltas for resources the active
// role owns are applied. GrantTier optionally names an evidence tier
// the event pulls a free item from. Crises optionally restricts the
// event to specific crises.
type EventTemplate struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Type        string         `yaml:"type"`
	Effects     map[string]int `yaml:"effects"`
	GrantTier   string         `yaml:"grant_tier"`
	Crises      []string       `yaml:"crises"`
}

type eventsDoc struct {
	Events []EventTemplate `yaml:"events"`
}

type daysDoc struct {
	Days map[string]map[string]string `yaml:"days"`
}

// Library is the validated, immutable content set.
type Library struct {
	crises map[crisis.Crisis]*CrisisContent
	events []EventTemplate
	days   map[int]map[role.Role]string
}

// Load parses and validates the embedded content. Any structural gap
// (missing crisis file, short evidence tier, incomplete endings,
// malformed event) fails the load.
func Load() (*Library, error) {
	lib := &Library{
		crises: make(map[crisis.Crisis]*CrisisContent),
		days:   make(map[int]map[role.Role]string),
	}

	entries, err := fs.ReadDir(dataFS, "data")
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		raw, err := dataFS.ReadFile("data/" + name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		switch {
		case name == "events.yaml":
			var doc eventsDoc
			if err := yaml.Unmarshal(raw, &doc); err != nil {
				return nil, fmt.Errorf("parse %s: %w", name, err)
			}
			lib.events = doc.Events
		case name == "days.yaml":
			var doc daysDoc
			if err := yaml.Unmarshal(raw, &doc); err != nil {
				return nil, fmt.Errorf("parse %s: %w", name, err)
			}
			for key, byRole := range doc.Days {
				day, err := strconv.Atoi(strings.TrimPrefix(key, "day_"))
				if err != nil {
					return nil, fmt.Errorf("%s: bad day key %q", name, key)
				}
				lib.days[day] = make(map[role.Role]string, len(byRole))
				for r, text := range byRole {
					lib.days[day][role.Role(r)] = text
				}
			}
		default:
			var doc CrisisContent
			if err := yaml.Unmarshal(raw, &doc); err != nil {
				return nil, fmt.Errorf("parse %s: %w", name, err)
			}
			lib.crises[crisis.Crisis(doc.ID)] = &doc
		}
	}

	if err := lib.validate(); err != nil {
		return nil, err
	}
	return lib, nil
}

func (l *Library) validate() error {
	for _, c := range crisis.All {
		doc, ok := l.crises[c]
		if !ok {
			return fmt.Errorf("content: no document for crisis %s", c)
		}
		minima := map[string]int{
			string(role.TierLow):    MinLowEvidence,
			string(role.TierMedium): MinMediumEvidence,
			string(role.TierHigh):   MinHighEvidence,
		}
		for tier, min := range minima {
			items := doc.Evidence[tier]
			if len(items) < min {
				return fmt.Errorf("content: crisis %s tier %s has %d evidence items, needs %d",
					c, tier, len(items), min)
			}
			for _, item := range items {
				if item.ID == "" || item.Text == "" {
					return fmt.Errorf("content: crisis %s tier %s has an item missing id or text", c, tier)
				}
			}
		}
		for _, outcome := range outcomes {
			ending, ok := doc.Endings[outcome]
			if !ok || ending.Text == "" {
				return fmt.Errorf("content: crisis %s missing ending %s", c, outcome)
			}
			for _, r := range role.All {
				if ending.Roles[string(r)] == "" {
					return fmt.Errorf("content: crisis %s ending %s missing role text for %s", c, outcome, r)
				}
			}
		}
	}

	if len(l.events) == 0 {
		return fmt.Errorf("content: empty random event pool")
	}
	for _, ev := range l.events {
		if ev.ID == "" || ev.Name == "" {
			return fmt.Errorf("content: event missing id or name")
		}
		if len(ev.Effects) == 0 && ev.GrantTier == "" {
			return fmt.Errorf("content: event %s has no effects and no evidence grant", ev.ID)
		}
		if ev.GrantTier != "" {
			switch role.Tier(ev.GrantTier) {
			case role.TierLow, role.TierMedium, role.TierHigh:
			default:
				return fmt.Errorf("content: event %s grants unknown tier %q", ev.ID, ev.GrantTier)
			}
		}
		for _, c := range ev.Crises {
			if !crisis.Valid(crisis.Crisis(c)) {
				return fmt.Errorf("content: event %s names unknown crisis %q", ev.ID, c)
			}
		}
	}

	for day := 1; day <= 7; day++ {
		for _, r := range role.All {
			if l.days[day][r] == "" {
				return fmt.Errorf("content: missing day %d narrative for %s", day, r)
			}
		}
	}
	return nil
}

// Crisis returns the content document for a crisis.
func (l *Library) Crisis(c crisis.Crisis) *CrisisContent {
	return l.crises[c]
}

// EvidencePool returns a fresh copy of one tier's evidence items, so
// each session can consume its pool independently.
func (l *Library) EvidencePool(c crisis.Crisis, tier role.Tier) []EvidenceItem {
	src := l.crises[c].Evidence[string(tier)]
	out := make([]EvidenceItem, len(src))
	copy(out, src)
	return out
}

// EventsFor returns the random events valid for a crisis: the
// unrestricted pool plus any events that name the crisis.
func (l *Library) EventsFor(c crisis.Crisis) []EventTemplate {
	var out []EventTemplate
	for _, ev := range l.events {
		if len(ev.Crises) == 0 {
			out = append(out, ev)
			continue
		}
		for _, cc := range ev.Crises {
			if crisis.Crisis(cc) == c {
				out = append(out, ev)
				break
			}
		}
	}
	return out
}

// Text returns the resolution narrative for a role facing a crisis,
// given the final preparation band: the shared ending text followed by
// the role-specific impact line.
func (l *Library) Text(r role.Role, c crisis.Crisis, b rules.Band) string {
	ending := l.crises[c].Endings[OutcomeForBand(b)]
	return ending.Text + "\n\n" + ending.Roles[string(r)]
}

// Ending returns the full ending document for a crisis outcome.
func (l *Library) Ending(c crisis.Crisis, outcome string) Ending {
	return l.crises[c].Endings[outcome]
}

// DayNarrative returns the narration shown to a role at the start of a
// day, or "" for days outside 1..7.
func (l *Library) DayNarrative(day int, r role.Role) string {
	return l.days[day][r]
}
