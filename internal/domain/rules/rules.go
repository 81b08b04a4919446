// Package rules holds the pure balance calculations: transfer
// conversion, effectiveness banding, and the random event ramp.
// No state, no side effects.
package rules

import (
	"math"

	"github.com/kingdom-crisis/server/internal/domain/role"
)

// Resource bounds. Every resource value is clamped into this range
// after any mutation.
const (
	MinResource = 0
	MaxResource = 100
)

// DefaultTransferRate is the conversion cost applied to intra-role
// transfers with no specific price.
const DefaultTransferRate = 0.10

// pair keys the priced transfer table. Rates apply in both directions.
type pair struct {
	from, to role.Resource
}

// Priced transfers per role: the cheap, mid, and expensive pair.
var transferRates = map[pair]float64{
	{role.Treasury, role.FoodReserves}: 0.10,
	{role.Treasury, role.PublicTrust}:  0.15,
	{role.Treasury, role.NobleSupport}: 0.20,

	{role.PersonalFunds, role.Health}:       0.10,
	{role.PersonalFunds, role.TroopLoyalty}: 0.15,
	{role.PersonalFunds, role.SoldierCount}: 0.20,

	{role.CoverIdentity, role.NetworkContacts}: 0.10,
	{role.CoverIdentity, role.CovertFunds}:     0.15,
	{role.CoverIdentity, role.Intelligence}:    0.20,
}

// TransferRate returns the conversion cost rate for moving value from
// one resource to another. Unpriced pairs use DefaultTransferRate.
func TransferRate(from, to role.Resource) float64 {
	return TransferRateWithDefault(from, to, DefaultTransferRate)
}

// TransferRateWithDefault is TransferRate with a caller-supplied
// fallback for unpriced pairs.
func TransferRateWithDefault(from, to role.Resource, def float64) float64 {
	if r, ok := transferRates[pair{from, to}]; ok {
		return r
	}
	if r, ok := transferRates[pair{to, from}]; ok {
		return r
	}
	return def
}

// Convert returns the amount credited to the destination when `amount`
// is deducted from the source at the given cost rate. The credited
// amount is floored, so the cost rounds against the player.
func Convert(amount int, rate float64) int {
	return int(math.Floor(float64(amount) * (1 - rate)))
}

// Clamp01 clamps an effectiveness score into [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampResource clamps a resource value into [MinResource, MaxResource].
func ClampResource(v int) int {
	if v < MinResource {
		return MinResource
	}
	if v > MaxResource {
		return MaxResource
	}
	return v
}

// Band is the qualitative reading of a preparation score.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// Banding thresholds for the preparation score.
const (
	HighThreshold   = 0.9
	MediumThreshold = 0.6
)

// BandOf maps a clamped effectiveness score to its band.
func BandOf(score float64) Band {
	switch {
	case score >= HighThreshold:
		return BandHigh
	case score >= MediumThreshold:
		return BandMedium
	default:
		return BandLow
	}
}

// Event ramp endpoints: the fire chance rises linearly from BaseEventChance
// at slot 0 to MaxEventChance at the final slot.
const (
	BaseEventChance = 0.05
	MaxEventChance  = 0.40
)

// EventChance returns the random event fire probability for a slot
// index in [0, lastSlot]. Slots past the end saturate at the maximum.
func EventChance(slot, lastSlot int) float64 {
	if slot <= 0 {
		return BaseEventChance
	}
	if slot >= lastSlot {
		return MaxEventChance
	}
	return BaseEventChance + (MaxEventChance-BaseEventChance)*float64(slot)/float64(lastSlot)
}

// InvestmentAdjustment tunes a preparation action's base contribution
// by how much the player invested and how thin their reserves are.
// Total cost grants up to +0.2; each cost resource held below 150% of
// its cost subtracts 0.1. The result is clamped to [0, 1].
func InvestmentAdjustment(base float64, cost map[role.Resource]int, available map[role.Resource]int) float64 {
	total := 0
	for _, c := range cost {
		total += c
	}
	bonus := math.Min(0.2, float64(total)/100.0)

	penalty := 0.0
	for res, c := range cost {
		if float64(available[res]) < float64(c)*1.5 {
			penalty += 0.1
		}
	}
	return Clamp01(base + bonus - penalty)
}
