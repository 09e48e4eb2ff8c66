package roster

// Entry is one occupied roster place: a player id carrying exactly one
// assigned slot tag.
type Entry struct {
	PlayerID string
	Slot     Slot
}

// SlotCounts tallies occupancy per slot for a team's current roster.
func SlotCounts(entries []Entry) map[Slot]int {
	counts := make(map[Slot]int, len(AllSlots))
	for _, entry := range entries {
		counts[entry.Slot]++
	}

	return counts
}

// Find returns the index of the entry holding playerID, or -1.
func Find(entries []Entry, playerID string) int {
	for idx := range entries {
		if entries[idx].PlayerID == playerID {
			return idx
		}
	}

	return -1
}
