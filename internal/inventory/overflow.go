package inventory

import (
	"fmt"

	"github.com/xtding233/order-gacha/internal/game"
)

// Receive routes incoming items in arrival order. An item overloading the
// specialization cap is flagged and held; otherwise it takes the lowest
// free slot unless the holding area is in use, in which case it queues
// behind what is already waiting.
func (inv *Inventory) Receive(items []*game.Item, r Rules) []Outcome {
	out := make([]Outcome, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if inv.Overloaded(it, r) {
			it.Overload = true
		}
		slot := inv.FreeSlot()
		if it.Overload || slot < 0 || inv.Blocked() {
			inv.hold(it)
			out = append(out, Outcome{Action: ActionHeld, Slot: NoSelection, Item: it})
			continue
		}
		inv.Slots[slot] = it
		out = append(out, Outcome{Action: ActionPlaced, Slot: slot, Item: it})
	}
	inv.Settle()
	return out
}

func (inv *Inventory) hold(it *game.Item) {
	if inv.Pending == nil && len(inv.Queue) == 0 {
		inv.Pending = it
		inv.Selected = NoSelection
		return
	}
	inv.Queue = append(inv.Queue, it)
}

// Settle promotes queued items while nothing is pending: into a free slot
// when one exists, otherwise (or when overload-flagged) into Pending.
func (inv *Inventory) Settle() []*game.Item {
	var promoted []*game.Item
	for inv.Pending == nil && len(inv.Queue) > 0 {
		next := inv.Queue[0]
		inv.Queue = inv.Queue[1:]
		promoted = append(promoted, next)
		if slot := inv.FreeSlot(); slot >= 0 && !next.Overload {
			inv.Slots[slot] = next
			continue
		}
		inv.Pending = next
		inv.Selected = NoSelection
	}
	if len(inv.Queue) == 0 {
		inv.Queue = nil
	}
	return promoted
}

// ResolvePending applies the pending item to slot i. An overload-flagged
// item bulk-clears every slotted item sharing the clicked item's name,
// refunding them, and then takes a slot. Otherwise the pending item
// synthesizes with a matching item, fills an empty slot, or replaces the
// occupant with a refund.
func (inv *Inventory) ResolvePending(i int, r Rules) (Outcome, error) {
	if inv.Pending == nil {
		return Outcome{}, ErrNoPending
	}
	target, err := inv.At(i)
	if err != nil {
		return Outcome{}, err
	}
	p := inv.Pending

	var o Outcome
	switch {
	case p.Overload:
		if target == nil {
			return Outcome{}, fmt.Errorf("bulk clear: %w", ErrEmptySlot)
		}
		o = Outcome{Action: ActionBulkCleared}
		for idx, it := range inv.Slots {
			if it != nil && it.Name == target.Name {
				o.Removed = append(o.Removed, it)
				o.Refund += it.Rarity.RecycleValue
				inv.Slots[idx] = nil
			}
		}
		p.Overload = false
		o.Slot = inv.FreeSlot()
		inv.Slots[o.Slot] = p
		o.Item = p

	case target == nil:
		inv.Slots[i] = p
		o = Outcome{Action: ActionPlaced, Slot: i, Item: p}

	case r.Mergeable(p, target):
		next, err := r.CanSynthesize(target.Rarity.ID)
		if err != nil {
			return Outcome{}, err
		}
		up := r.Stamp(target.WithRarity(next))
		inv.Slots[i] = up
		o = Outcome{Action: ActionSynthesized, Slot: i, Item: up, Removed: []*game.Item{p, target}}

	default:
		inv.Slots[i] = p
		o = Outcome{Action: ActionReplaced, Slot: i, Item: p, Removed: []*game.Item{target}, Refund: target.Rarity.RecycleValue}
	}

	inv.Pending = nil
	o.Promoted = inv.Settle()
	return o, nil
}

// Discard drops the pending item for its recycle value.
func (inv *Inventory) Discard() (Outcome, error) {
	if inv.Pending == nil {
		return Outcome{}, ErrNoPending
	}
	p := inv.Pending
	inv.Pending = nil
	o := Outcome{Action: ActionDiscarded, Slot: NoSelection, Removed: []*game.Item{p}, Refund: p.Rarity.RecycleValue}
	o.Promoted = inv.Settle()
	return o, nil
}
