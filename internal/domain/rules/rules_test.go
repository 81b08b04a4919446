package rules

import (
	"testing"

	"github.com/kingdom-crisis/server/internal/domain/role"
)

func TestConvertFloorsAgainstThePlayer(t *testing.T) {
	cases := []struct {
		amount int
		rate   float64
		want   int
	}{
		{10, 0.10, 9},
		{15, 0.10, 13}, // 13.5 floors to 13
		{1, 0.10, 0},
		{100, 0.20, 80},
		{7, 0.15, 5}, // 5.95 floors to 5
		{0, 0.10, 0},
	}
	for _, c := range cases {
		if got := Convert(c.amount, c.rate); got != c.want {
			t.Errorf("Convert(%d, %v) = %d, want %d", c.amount, c.rate, got, c.want)
		}
	}
}

func TestTransferRatePricedPairsBothDirections(t *testing.T) {
	if r := TransferRate(role.Treasury, role.NobleSupport); r != 0.20 {
		t.Errorf("treasury->noble rate = %v, want 0.20", r)
	}
	if r := TransferRate(role.NobleSupport, role.Treasury); r != 0.20 {
		t.Errorf("noble->treasury rate = %v, want 0.20", r)
	}
	if r := TransferRate(role.PersonalFunds, role.TroopLoyalty); r != 0.15 {
		t.Errorf("funds->loyalty rate = %v, want 0.15", r)
	}
}

func TestTransferRateUnpricedPairFallsBackToDefault(t *testing.T) {
	// food_reserves <-> public_trust is not in the priced table
	if r := TransferRate(role.FoodReserves, role.PublicTrust); r != DefaultTransferRate {
		t.Errorf("unpriced pair rate = %v, want %v", r, DefaultTransferRate)
	}
}

func TestBandOfThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  Band
	}{
		{1.0, BandHigh},
		{0.9, BandHigh},
		{0.89, BandMedium},
		{0.6, BandMedium},
		{0.59, BandLow},
		{0.0, BandLow},
	}
	for _, c := range cases {
		if got := BandOf(c.score); got != c.want {
			t.Errorf("BandOf(%v) = %v, want %v", c.score, got, c.want)
		}
	}
}

func TestBandMonotonicOverScore(t *testing.T) {
	rank := map[Band]int{BandLow: 0, BandMedium: 1, BandHigh: 2}
	prev := BandLow
	for s := 0.0; s <= 1.0; s += 0.01 {
		b := BandOf(s)
		if rank[b] < rank[prev] {
			t.Fatalf("band regressed from %v to %v at score %v", prev, b, s)
		}
		prev = b
	}
}

func TestEventChanceRamp(t *testing.T) {
	const last = 20
	if got := EventChance(0, last); got != BaseEventChance {
		t.Errorf("slot 0 chance = %v, want %v", got, BaseEventChance)
	}
	if got := EventChance(last, last); got != MaxEventChance {
		t.Errorf("slot %d chance = %v, want %v", last, got, MaxEventChance)
	}
	if got := EventChance(last+5, last); got != MaxEventChance {
		t.Errorf("past-end chance = %v, want %v", got, MaxEventChance)
	}
	prev := 0.0
	for s := 0; s <= last; s++ {
		c := EventChance(s, last)
		if c < prev {
			t.Fatalf("chance decreased at slot %d: %v < %v", s, c, prev)
		}
		if c < BaseEventChance || c > MaxEventChance {
			t.Fatalf("chance out of range at slot %d: %v", s, c)
		}
		prev = c
	}
	// midpoint sanity: slot 10 of 20 sits halfway up the ramp
	mid := EventChance(10, last)
	want := BaseEventChance + (MaxEventChance-BaseEventChance)*0.5
	if diff := mid - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("midpoint chance = %v, want %v", mid, want)
	}
}

func TestClampResource(t *testing.T) {
	if got := ClampResource(-5); got != 0 {
		t.Errorf("ClampResource(-5) = %d", got)
	}
	if got := ClampResource(150); got != 100 {
		t.Errorf("ClampResource(150) = %d", got)
	}
	if got := ClampResource(42); got != 42 {
		t.Errorf("ClampResource(42) = %d", got)
	}
}

func TestInvestmentAdjustmentBonusAndPenalty(t *testing.T) {
	cost := map[role.Resource]int{role.Treasury: 30, role.FoodReserves: 20}

	// flush reserves: full investment bonus, no penalty
	rich := map[role.Resource]int{role.Treasury: 100, role.FoodReserves: 100}
	if got := InvestmentAdjustment(0.8, cost, rich); got != 1.0 {
		t.Errorf("rich adjustment = %v, want 1.0 (0.8 + 0.2 capped)", got)
	}

	// thin reserves on both resources: two 0.1 penalties
	poor := map[role.Resource]int{role.Treasury: 31, role.FoodReserves: 21}
	got := InvestmentAdjustment(0.8, cost, poor)
	want := 0.8 + 0.2 - 0.2
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("poor adjustment = %v, want %v", got, want)
	}
}

func TestInvestmentAdjustmentClamped(t *testing.T) {
	cost := map[role.Resource]int{role.Treasury: 10}
	broke := map[role.Resource]int{role.Treasury: 10}
	if got := InvestmentAdjustment(0.0, cost, broke); got != 0.0 {
		t.Errorf("adjustment below zero not clamped: %v", got)
	}
}
