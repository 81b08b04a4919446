package content

import (
	"strings"
	"testing"

	"github.com/kingdom-crisis/server/internal/domain/crisis"
	"github.com/kingdom-crisis/server/internal/domain/role"
	"github.com/kingdom-crisis/server/internal/domain/rules"
)

func TestLoadValidatesCleanly(t *testing.T) {
	if _, err := Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
}

func TestEvidenceTierMinima(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	minima := map[role.Tier]int{
		role.TierLow:    MinLowEvidence,
		role.TierMedium: MinMediumEvidence,
		role.TierHigh:   MinHighEvidence,
	}
	for _, c := range crisis.All {
		for tier, min := range minima {
			pool := lib.EvidencePool(c, tier)
			if len(pool) < min {
				t.Errorf("%s/%s has %d items, want at least %d", c, tier, len(pool), min)
			}
		}
	}
}

func TestEvidenceIDsUniquePerCrisis(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range crisis.All {
		seen := map[string]bool{}
		for _, tier := range []role.Tier{role.TierLow, role.TierMedium, role.TierHigh} {
			for _, item := range lib.EvidencePool(c, tier) {
				if seen[item.ID] {
					t.Errorf("%s: duplicate evidence id %s", c, item.ID)
				}
				seen[item.ID] = true
			}
		}
	}
}

func TestEvidencePoolReturnsIndependentCopies(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	a := lib.EvidencePool(crisis.FamineCascade, role.TierLow)
	a[0].Text = "mutated"
	b := lib.EvidencePool(crisis.FamineCascade, role.TierLow)
	if b[0].Text == "mutated" {
		t.Error("mutating a returned pool leaked into the library")
	}
}

func TestTextCoversEveryRoleCrisisBand(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range crisis.All {
		for _, r := range role.All {
			for _, b := range []rules.Band{rules.BandHigh, rules.BandMedium, rules.BandLow} {
				text := lib.Text(r, c, b)
				if strings.TrimSpace(text) == "" {
					t.Errorf("empty narrative for %s/%s/%s", r, c, b)
				}
			}
		}
	}
}

func TestOutcomeForBand(t *testing.T) {
	if got := OutcomeForBand(rules.BandHigh); got != OutcomeKingdomSaved {
		t.Errorf("high band outcome = %s", got)
	}
	if got := OutcomeForBand(rules.BandMedium); got != OutcomePartialRecovery {
		t.Errorf("medium band outcome = %s", got)
	}
	if got := OutcomeForBand(rules.BandLow); got != OutcomeKingdomFalls {
		t.Errorf("low band outcome = %s", got)
	}
}

func TestEventsForRespectsCrisisFilter(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	hasEvent := func(events []EventTemplate, id string) bool {
		for _, ev := range events {
			if ev.ID == id {
				return true
			}
		}
		return false
	}

	cultPool := lib.EventsFor(crisis.CultUprising)
	if !hasEvent(cultPool, "religious_tension") {
		t.Error("cult_uprising pool missing religious_tension")
	}
	faminePool := lib.EventsFor(crisis.FamineCascade)
	if hasEvent(faminePool, "religious_tension") {
		t.Error("famine_cascade pool should not contain religious_tension")
	}
	if !hasEvent(faminePool, "market_crash") {
		t.Error("famine_cascade pool missing unrestricted market_crash")
	}
}

func TestEventEffectsNameRealResources(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	owned := map[string]bool{}
	for _, d := range role.Registry {
		for res := range d.Starting {
			owned[string(res)] = true
		}
	}
	for _, ev := range lib.EventsFor(crisis.FamineCascade) {
		for res := range ev.Effects {
			if !owned[res] {
				t.Errorf("event %s names unknown resource %q", ev.ID, res)
			}
		}
	}
}

func TestDayNarrativesComplete(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	for day := 1; day <= 7; day++ {
		for _, r := range role.All {
			if lib.DayNarrative(day, r) == "" {
				t.Errorf("missing narrative for day %d role %s", day, r)
			}
		}
	}
	if lib.DayNarrative(8, role.King) != "" {
		t.Error("day 8 should have no narrative")
	}
}
