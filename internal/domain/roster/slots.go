package roster

import (
	"errors"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
)

var (
	ErrNoSlotAvailable    = errors.New("no compatible roster slot available")
	ErrSlotFull           = errors.New("roster slot is full")
	ErrSlotIncompatible   = errors.New("player position is not compatible with slot")
	ErrUnknownSlot        = errors.New("unknown roster slot")
	ErrPlayerNotOnRoster  = errors.New("player is not on the roster")
	ErrPlayerOnRoster     = errors.New("player is already on the roster")
	ErrPickupLimitReached = errors.New("weekly pickup limit reached")
)

// Slot is a labelled roster position with a fixed capacity and a
// position-compatibility rule.
type Slot string

const (
	SlotBatters Slot = "batters"
	SlotKeepers Slot = "keepers"
	SlotBowlers Slot = "bowlers"
	SlotFlex    Slot = "flex"
	SlotBench   Slot = "bench"
)

var AllSlots = map[Slot]struct{}{
	SlotBatters: {},
	SlotKeepers: {},
	SlotBowlers: {},
	SlotFlex:    {},
	SlotBench:   {},
}

const (
	CapacityBatters = 5
	CapacityKeepers = 1
	CapacityBowlers = 5
	CapacityFlex    = 1
)

// Capacity returns the slot's player capacity. The bench is the overflow pool
// and reports bounded=false.
func Capacity(slot Slot) (capacity int, bounded bool) {
	switch slot {
	case SlotBatters:
		return CapacityBatters, true
	case SlotKeepers:
		return CapacityKeepers, true
	case SlotBowlers:
		return CapacityBowlers, true
	case SlotFlex:
		return CapacityFlex, true
	default:
		return 0, false
	}
}

// compatibleSlots lists each position's legal active slots in preference
// order: primary slots first, the shared flex slot last, so flex stays open
// for positions with no other eligible slot.
var compatibleSlots = map[player.Position][]Slot{
	player.PositionBatter:     {SlotBatters, SlotFlex},
	player.PositionKeeper:     {SlotKeepers, SlotBatters, SlotFlex},
	player.PositionBowler:     {SlotBowlers, SlotFlex},
	player.PositionAllrounder: {SlotBatters, SlotBowlers, SlotFlex},
}

// CanPlace reports whether a player of the given position may legally occupy
// the slot. The bench accepts every position.
func CanPlace(position player.Position, slot Slot) bool {
	if slot == SlotBench {
		_, known := player.AllPositions[position]
		return known
	}

	for _, candidate := range compatibleSlots[position] {
		if candidate == slot {
			return true
		}
	}

	return false
}

// BestSlot returns the first compatible active slot with room under its
// capacity, following the position's preference order. It reports false when
// every compatible slot is at capacity; the bench is never selected here, it
// is the unassigned pool rather than a draft destination.
func BestSlot(position player.Position, counts map[Slot]int) (Slot, bool) {
	for _, slot := range compatibleSlots[position] {
		capacity, bounded := Capacity(slot)
		if !bounded {
			continue
		}
		if counts[slot] < capacity {
			return slot, true
		}
	}

	return "", false
}
