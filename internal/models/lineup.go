package models

// Slot identifies a roster slot in the weekly lineup
type Slot string

const (
	SlotQB   Slot = "QB"
	SlotRB   Slot = "RB"
	SlotWR   Slot = "WR"
	SlotTE   Slot = "TE"
	SlotFlex Slot = "FLEX"
)

// SlotOrder is the display and fill-priority order for lineup slots
var SlotOrder = []Slot{SlotQB, SlotRB, SlotWR, SlotTE, SlotFlex}

// SlotCapacities defines the fixed capacity of each lineup slot
var SlotCapacities = map[Slot]int{
	SlotQB:   1,
	SlotRB:   2,
	SlotWR:   2,
	SlotTE:   1,
	SlotFlex: 1,
}

// Lineup maps each slot to its assigned players, ordered by projection
type Lineup map[Slot][]EnhancedPlayer

// NewLineup creates an empty lineup with all slots present
func NewLineup() Lineup {
	l := make(Lineup, len(SlotOrder))
	for _, slot := range SlotOrder {
		l[slot] = nil
	}
	return l
}

// HasCapacity reports whether the slot can accept another player
func (l Lineup) HasCapacity(slot Slot) bool {
	return len(l[slot]) < SlotCapacities[slot]
}

// Assign places a player in the slot. Returns false if the slot is full.
func (l Lineup) Assign(slot Slot, player EnhancedPlayer) bool {
	if !l.HasCapacity(slot) {
		return false
	}
	l[slot] = append(l[slot], player)
	return true
}

// TotalAssigned returns the number of players across all slots
func (l Lineup) TotalAssigned() int {
	total := 0
	for _, players := range l {
		total += len(players)
	}
	return total
}

// TotalProjected returns the sum of assigned players' projections
func (l Lineup) TotalProjected() float64 {
	total := 0.0
	for _, players := range l {
		for _, p := range players {
			total += p.Projection
		}
	}
	return total
}
