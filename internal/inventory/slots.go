package inventory

import "github.com/xtding233/order-gacha/internal/game"

// Click handles the manual two-click interaction while nothing is pending.
// The first click selects an occupied source slot; the second click on
// another slot synthesizes, swaps or moves, and always clears the selection.
func (inv *Inventory) Click(i int, r Rules) (Outcome, error) {
	target, err := inv.At(i)
	if err != nil {
		return Outcome{}, err
	}
	src := inv.Selected
	if src == NoSelection {
		if target == nil {
			return Outcome{Action: ActionNone, Slot: i}, nil
		}
		inv.Selected = i
		return Outcome{Action: ActionSelected, Slot: i, Item: target}, nil
	}
	inv.Selected = NoSelection
	if src == i {
		return Outcome{Action: ActionDeselected, Slot: i}, nil
	}

	source := inv.Slots[src]
	switch {
	case source == nil:
		return Outcome{Action: ActionNone, Slot: i}, nil

	case r.Mergeable(source, target):
		next, err := r.CanSynthesize(source.Rarity.ID)
		if err != nil {
			return Outcome{}, err
		}
		up := r.Stamp(target.WithRarity(next))
		inv.Slots[i] = up
		inv.Slots[src] = nil
		return Outcome{Action: ActionSynthesized, Slot: i, Item: up, Removed: []*game.Item{source, target}}, nil

	case target != nil:
		inv.Slots[i], inv.Slots[src] = source, target
		return Outcome{Action: ActionSwapped, Slot: i, Item: source}, nil

	default:
		inv.Slots[i], inv.Slots[src] = source, nil
		return Outcome{Action: ActionMoved, Slot: i, Item: source}, nil
	}
}
