package crisis

import (
	"math/rand"
	"testing"

	"github.com/kingdom-crisis/server/internal/domain/role"
)

func TestEveryRoleCrisisPairHasThreeActions(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range role.All {
		for _, c := range All {
			actions := Preparations(r, c)
			if len(actions) != 3 {
				t.Fatalf("%s/%s has %d preparation actions, want 3", r, c, len(actions))
			}
			for _, a := range actions {
				if seen[a.ID] {
					t.Errorf("duplicate preparation id %s", a.ID)
				}
				seen[a.ID] = true
				if a.Role != r || a.Crisis != c {
					t.Errorf("%s tagged %s/%s, table says %s/%s", a.ID, a.Role, a.Crisis, r, c)
				}
				if a.Name == "" {
					t.Errorf("%s has no name", a.ID)
				}
			}
		}
	}
	if len(seen) != 72 {
		t.Errorf("total preparation actions = %d, want 72", len(seen))
	}
}

func TestPreparationCostAndContributionLadder(t *testing.T) {
	actions := Preparations(role.King, FamineCascade)

	wantContribution := []float64{0.8, 0.6, 0.4}
	wantPrimary := []int{30, 20, 10}
	wantSecondary := []int{20, 15, 10}

	for i, a := range actions {
		if a.Contribution != wantContribution[i] {
			t.Errorf("level %d contribution = %v, want %v", i+1, a.Contribution, wantContribution[i])
		}
		if got := a.Cost[role.Treasury]; got != wantPrimary[i] {
			t.Errorf("level %d primary cost = %d, want %d", i+1, got, wantPrimary[i])
		}
		if got := a.Cost[role.FoodReserves]; got != wantSecondary[i] {
			t.Errorf("level %d secondary cost = %d, want %d", i+1, got, wantSecondary[i])
		}
	}
}

func TestPreparationByID(t *testing.T) {
	a, ok := PreparationByID(role.Spy, "spy_cult_infiltration")
	if !ok {
		t.Fatal("spy_cult_infiltration not found")
	}
	if a.Crisis != CultUprising || a.Level != LevelHigh {
		t.Errorf("got crisis %s level %v", a.Crisis, a.Level)
	}

	if _, ok := PreparationByID(role.King, "spy_cult_infiltration"); ok {
		t.Error("king resolved a spy action id")
	}
	if _, ok := PreparationByID(role.King, "nonsense"); ok {
		t.Error("unknown id resolved")
	}
}

func TestAssignReturnsValidCrisis(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	counts := make(map[Crisis]int)
	for i := 0; i < 800; i++ {
		c := Assign(rng)
		if !Valid(c) {
			t.Fatalf("Assign returned invalid crisis %q", c)
		}
		counts[c]++
	}
	for _, c := range All {
		if counts[c] == 0 {
			t.Errorf("crisis %s never assigned in 800 draws", c)
		}
	}
}
