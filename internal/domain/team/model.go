package team

import (
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/roster"
)

// Team is one participant in a tournament: a user's fantasy side with its
// ordered roster and weekly pickup purse. At most one team exists per
// (user, tournament) pair.
type Team struct {
	ID             string
	TournamentID   string
	UserID         string
	Name           string
	Entries        []roster.Entry
	PickupsUsed    int
	PickupsResetAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.TournamentID == "" {
		return fmt.Errorf("team tournament id is required")
	}
	if t.UserID == "" {
		return fmt.Errorf("team user id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.PickupsUsed < 0 {
		return fmt.Errorf("team pickups used cannot be negative")
	}

	for _, entry := range t.Entries {
		if entry.PlayerID == "" {
			return fmt.Errorf("roster entry player id is required")
		}
		if _, ok := roster.AllSlots[entry.Slot]; !ok {
			return fmt.Errorf("invalid roster slot: %s", entry.Slot)
		}
	}

	return t.validateSlotCapacity()
}

func (t Team) validateSlotCapacity() error {
	counts := roster.SlotCounts(t.Entries)
	for slot, occupied := range counts {
		capacity, bounded := roster.Capacity(slot)
		if !bounded {
			continue
		}
		if occupied > capacity {
			return fmt.Errorf("slot %s over capacity: %d/%d", slot, occupied, capacity)
		}
	}

	return nil
}

// SlotCounts tallies the team's current occupancy per slot.
func (t Team) SlotCounts() map[roster.Slot]int {
	return roster.SlotCounts(t.Entries)
}

// HasPlayer reports whether the player already occupies a roster entry.
func (t Team) HasPlayer(playerID string) bool {
	return roster.Find(t.Entries, playerID) >= 0
}
