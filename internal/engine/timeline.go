package engine

// Slot names within a day, in order.
const (
	SlotMorning   = "morning"
	SlotAfternoon = "afternoon"
	SlotEvening   = "evening"
)

var slotNames = []string{SlotMorning, SlotAfternoon, SlotEvening}

// Narrative acts derived from the day.
const (
	ActI        = "Act I"
	ActII       = "Act II"
	ActIII      = "Act III"
	ActEpilogue = "Epilogue"
)

// Day converts a slot index to its 1-based day. A slot index equal to
// the total (a resolved session) still reports the final day.
func (c Config) Day(slot int) int {
	day := slot/c.SlotsPerDay + 1
	if day > c.TotalDays {
		day = c.TotalDays
	}
	return day
}

// SlotName returns the name of the slot within its day.
func (c Config) SlotName(slot int) string {
	if slot >= c.TotalSlots() {
		return SlotEvening
	}
	return slotNames[slot%c.SlotsPerDay]
}

// Act returns the narrative act for a day: days 1-2 are Act I, 3-4
// Act II, 5-6 Act III, and the final day the Epilogue.
func (c Config) Act(day int) string {
	switch {
	case day >= c.TotalDays:
		return ActEpilogue
	case day >= 5:
		return ActIII
	case day >= 3:
		return ActII
	default:
		return ActI
	}
}
