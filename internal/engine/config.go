package engine

import "github.com/kingdom-crisis/server/internal/domain/rules"

// Config collects every balance tunable in one injectable table.
// DefaultConfig matches the shipped game; tests override single
// fields to probe edge behavior.
type Config struct {
	TotalDays     int
	SlotsPerDay   int
	StartingValue int

	// Transfer conversion cost applied to unpriced intra-role pairs.
	DefaultTransferRate float64

	// Preparation banding thresholds.
	HighThreshold   float64
	MediumThreshold float64

	// Random event ramp endpoints across the timeline.
	BaseEventChance float64
	MaxEventChance  float64

	// AllowRepeatEvents switches the random event pool from
	// without-replacement (default) to with-replacement.
	AllowRepeatEvents bool
}

// DefaultConfig returns the standard 7-day, 21-slot configuration.
func DefaultConfig() Config {
	return Config{
		TotalDays:           7,
		SlotsPerDay:         3,
		StartingValue:       50,
		DefaultTransferRate: rules.DefaultTransferRate,
		HighThreshold:       rules.HighThreshold,
		MediumThreshold:     rules.MediumThreshold,
		BaseEventChance:     rules.BaseEventChance,
		MaxEventChance:      rules.MaxEventChance,
	}
}

// TotalSlots is the number of advances a session takes to resolve.
func (c Config) TotalSlots() int {
	return c.TotalDays * c.SlotsPerDay
}

// BandOf maps a clamped preparation score to its band using the
// configured thresholds.
func (c Config) BandOf(score float64) rules.Band {
	switch {
	case score >= c.HighThreshold:
		return rules.BandHigh
	case score >= c.MediumThreshold:
		return rules.BandMedium
	default:
		return rules.BandLow
	}
}

// EventChance returns the fire probability for a slot under the
// configured ramp.
func (c Config) EventChance(slot int) float64 {
	last := c.TotalSlots() - 1
	if slot <= 0 {
		return c.BaseEventChance
	}
	if slot >= last {
		return c.MaxEventChance
	}
	return c.BaseEventChance + (c.MaxEventChance-c.BaseEventChance)*float64(slot)/float64(last)
}
