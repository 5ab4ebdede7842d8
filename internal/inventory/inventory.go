// Package inventory owns the bounded item slots and the overflow holding
// area (pending item plus FIFO queue).
package inventory

import (
	"errors"
	"fmt"

	"github.com/xtding233/order-gacha/internal/advisory"
	"github.com/xtding233/order-gacha/internal/gacha"
	"github.com/xtding233/order-gacha/internal/game"
)

var (
	ErrIndexOutOfRange = errors.New("slot index out of range")
	ErrNoPending       = errors.New("no pending item")
	ErrEmptySlot       = errors.New("slot is empty")
)

// NoSelection is the Selected value when no source slot is picked.
const NoSelection = -1

// Rules are the stage facts inventory decisions depend on.
type Rules struct {
	Ladder game.Ladder
	Stage  game.StageConfig
}

// Inventory is a fixed-length slot array; nil entries are free slots and
// new items take the lowest free index.
type Inventory struct {
	Slots    []*game.Item `json:"slots"`
	Pending  *game.Item   `json:"pendingItem"`
	Queue    []*game.Item `json:"pendingQueue"`
	Selected int          `json:"selectedSlot"`
}

// New returns an empty inventory with the given capacity.
func New(capacity int) *Inventory {
	if capacity < 0 {
		capacity = 0
	}
	return &Inventory{Slots: make([]*game.Item, capacity), Selected: NoSelection}
}

// Reset empties everything and resizes to capacity.
func (inv *Inventory) Reset(capacity int) {
	*inv = *New(capacity)
}

// Capacity is the number of slots.
func (inv *Inventory) Capacity() int { return len(inv.Slots) }

// Count is the number of occupied slots.
func (inv *Inventory) Count() int {
	n := 0
	for _, it := range inv.Slots {
		if it != nil {
			n++
		}
	}
	return n
}

// Held is every item the player owns, holding area included.
func (inv *Inventory) Held() int {
	n := inv.Count() + len(inv.Queue)
	if inv.Pending != nil {
		n++
	}
	return n
}

// FreeSlot returns the lowest empty index or -1.
func (inv *Inventory) FreeSlot() int {
	for i, it := range inv.Slots {
		if it == nil {
			return i
		}
	}
	return -1
}

// Blocked reports whether the holding area must be resolved first.
func (inv *Inventory) Blocked() bool {
	return inv.Pending != nil || len(inv.Queue) > 0
}

// At returns the item in slot i.
func (inv *Inventory) At(i int) (*game.Item, error) {
	if i < 0 || i >= len(inv.Slots) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return inv.Slots[i], nil
}

// Has reports whether an item with the given name sits in a slot.
func (inv *Inventory) Has(name string) bool {
	for _, it := range inv.Slots {
		if it != nil && it.Name == name {
			return true
		}
	}
	return false
}

func (inv *Inventory) distinctNames() int {
	seen := make(map[string]bool)
	for _, it := range inv.Slots {
		if it != nil {
			seen[it.Name] = true
		}
	}
	return len(seen)
}

// Clone returns a deep copy.
func (inv *Inventory) Clone() *Inventory {
	c := &Inventory{
		Slots:    make([]*game.Item, len(inv.Slots)),
		Pending:  inv.Pending.Clone(),
		Selected: inv.Selected,
	}
	for i, it := range inv.Slots {
		c.Slots[i] = it.Clone()
	}
	for _, it := range inv.Queue {
		c.Queue = append(c.Queue, it.Clone())
	}
	return c
}

// Stamp gives a freshly created item its decay budget while entropy is on.
func (r Rules) Stamp(it *game.Item) *game.Item {
	if it != nil && r.Stage.Mechanics.Entropy {
		d := r.Stage.DecayStart()
		it.Decay = &d
	}
	return it
}

// Mergeable reports whether a and b are the same kind for synthesis: same
// name and tier, neither sterile or spoiled, and the tier not mythic or at
// the top of the ladder.
func (r Rules) Mergeable(a, b *game.Item) bool {
	if a == nil || b == nil || a == b {
		return false
	}
	if a.Name != b.Name || a.Rarity.ID != b.Rarity.ID {
		return false
	}
	if a.Sterile || b.Sterile || a.Spoiled() || b.Spoiled() {
		return false
	}
	return a.Rarity.ID != gacha.Mythic && !r.Ladder.IsCeiling(a.Rarity.ID)
}

// CanSynthesize checks the stage gates for merging two items of tier id:
// the synthesis mechanic must be on and the next tier must have weight in
// the stage. Mythic is exempt from the weight check.
func (r Rules) CanSynthesize(tier string) (game.RarityTier, error) {
	if !r.Stage.Mechanics.Synthesis {
		return game.RarityTier{}, advisory.New(advisory.CodeSynthesisLocked, "synthesis is not unlocked in this stage")
	}
	next, ok := r.Ladder.Next(tier)
	if !ok {
		return game.RarityTier{}, advisory.WithMetadata(advisory.CodeRarityLocked, "nothing above this tier",
			map[string]string{"tier": tier})
	}
	if next.ID != gacha.Mythic && !r.Stage.Unlocked(next.ID) {
		return game.RarityTier{}, advisory.WithMetadata(advisory.CodeRarityLocked,
			fmt.Sprintf("%s items cannot be made in this stage", next.Name),
			map[string]string{"tier": next.ID})
	}
	return next, nil
}

// Overloaded reports whether it would push the distinct-name count past
// the specialization cap.
func (inv *Inventory) Overloaded(it *game.Item, r Rules) bool {
	if !r.Stage.Mechanics.Specialization {
		return false
	}
	return !inv.Has(it.Name) && inv.distinctNames() >= r.Stage.NameCap()
}

// Remove empties the given slots and returns what was there.
func (inv *Inventory) Remove(indices []int) []*game.Item {
	var out []*game.Item
	for _, i := range indices {
		if i < 0 || i >= len(inv.Slots) || inv.Slots[i] == nil {
			continue
		}
		out = append(out, inv.Slots[i])
		inv.Slots[i] = nil
	}
	return out
}

// Age ticks the decay of every slotted item down by one (floor 0).
func (inv *Inventory) Age() {
	for _, it := range inv.Slots {
		if it != nil && it.Decay != nil && *it.Decay > 0 {
			*it.Decay--
		}
	}
}
