package inventory

import "github.com/xtding233/order-gacha/internal/game"

// Action is what a slot interaction ended up doing.
type Action int

const (
	ActionNone Action = iota
	ActionPlaced
	ActionHeld
	ActionSelected
	ActionDeselected
	ActionSynthesized
	ActionSwapped
	ActionMoved
	ActionReplaced
	ActionBulkCleared
	ActionDiscarded
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionPlaced:
		return "placed"
	case ActionHeld:
		return "held"
	case ActionSelected:
		return "selected"
	case ActionDeselected:
		return "deselected"
	case ActionSynthesized:
		return "synthesized"
	case ActionSwapped:
		return "swapped"
	case ActionMoved:
		return "moved"
	case ActionReplaced:
		return "replaced"
	case ActionBulkCleared:
		return "bulk_cleared"
	case ActionDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// MarshalText renders the action by name.
func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// Outcome reports the effect of one interaction.
type Outcome struct {
	Action   Action       `json:"action"`
	Slot     int          `json:"slot"`
	Item     *game.Item   `json:"item,omitempty"`     // item now in Slot
	Removed  []*game.Item `json:"removed,omitempty"`  // destroyed or displaced items
	Refund   int          `json:"refund,omitempty"`   // gold owed to the player
	Promoted []*game.Item `json:"promoted,omitempty"` // queue items that moved on afterwards
}
