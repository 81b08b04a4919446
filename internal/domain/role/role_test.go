package role

import (
	"math/rand"
	"testing"
)

func TestRegistryShape(t *testing.T) {
	for _, r := range All {
		d, ok := Get(r)
		if !ok {
			t.Fatalf("role %s missing from registry", r)
		}
		if len(d.Starting) != 4 {
			t.Errorf("%s owns %d resources, want 4", r, len(d.Starting))
		}
		for res, v := range d.Starting {
			if v != StartingValue {
				t.Errorf("%s starting %s = %d, want %d", r, res, v, StartingValue)
			}
		}
		if len(d.Acquisition) != 5 {
			t.Errorf("%s has %d acquisition actions, want 5", r, len(d.Acquisition))
		}
		if len(d.Methods) != 2 {
			t.Errorf("%s has %d investigation methods, want 2", r, len(d.Methods))
		}
		if d.Secret.ID == "" || d.Secret.Description == "" {
			t.Errorf("%s has incomplete secret", r)
		}
	}
}

func TestActionsTouchOnlyOwnedResources(t *testing.T) {
	for _, r := range All {
		d, _ := Get(r)
		for _, a := range d.Acquisition {
			for res := range a.Gain {
				if !d.Owns(res) {
					t.Errorf("%s gains foreign resource %s", a.ID, res)
				}
			}
			for res := range a.Cost {
				if !d.Owns(res) {
					t.Errorf("%s costs foreign resource %s", a.ID, res)
				}
			}
		}
		for _, m := range d.Methods {
			if len(m.Access) == 0 {
				t.Errorf("method %s reaches no tiers", m.ID)
			}
			for res := range m.Cost {
				if !d.Owns(res) {
					t.Errorf("method %s costs foreign resource %s", m.ID, res)
				}
			}
		}
	}
}

func TestActionIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range All {
		d, _ := Get(r)
		for _, a := range d.Acquisition {
			if seen[a.ID] {
				t.Errorf("duplicate action id %s", a.ID)
			}
			seen[a.ID] = true
		}
		for _, m := range d.Methods {
			if seen[m.ID] {
				t.Errorf("duplicate method id %s", m.ID)
			}
			seen[m.ID] = true
		}
	}
}

func TestLookups(t *testing.T) {
	d, _ := Get(Spy)

	if _, ok := d.AcquisitionByID("spy_black_market_deals"); !ok {
		t.Error("spy_black_market_deals not found")
	}
	if _, ok := d.AcquisitionByID("king_tax_collection"); ok {
		t.Error("spy resolved a king action")
	}

	m, ok := d.MethodByID("spy_network_intelligence")
	if !ok {
		t.Fatal("spy_network_intelligence not found")
	}
	if len(m.Access) != 3 {
		t.Errorf("network intelligence reaches %d tiers, want all 3", len(m.Access))
	}

	if d.Owns(Treasury) {
		t.Error("spy owns treasury")
	}
	if !d.Owns(CoverIdentity) {
		t.Error("spy does not own cover_identity")
	}
}

func TestAssignRoleCoversAllRoles(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	counts := make(map[Role]int)
	for i := 0; i < 300; i++ {
		counts[AssignRole(rng).Role]++
	}
	for _, r := range All {
		if counts[r] == 0 {
			t.Errorf("role %s never assigned in 300 draws", r)
		}
	}
}
