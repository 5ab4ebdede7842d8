package engine

import (
	"fmt"

	"github.com/xtding233/order-gacha/internal/advisory"
	"github.com/xtding233/order-gacha/internal/game"
)

// EventType represents the type of session event.
type EventType int

const (
	// EventAdvisory is a rule violation shown to the player.
	EventAdvisory EventType = iota
	// EventSkillTriggered is emitted when a held skill changes an outcome.
	EventSkillTriggered
	// EventItemReceived is emitted for every item a draw hands out.
	EventItemReceived
	// EventOrderCompleted is emitted per order a submission completes.
	EventOrderCompleted
	// EventRecycled is emitted when items are recycled or refunded.
	EventRecycled
	// EventStageUnlocked carries the next stage's unlock descriptions.
	EventStageUnlocked
	// EventVictory is emitted once the final mainline order is completed.
	EventVictory
	// EventSkillOffered is emitted when skill candidates are offered.
	EventSkillOffered
	// EventConfigReplaced is emitted after a config swap resets the session.
	EventConfigReplaced
)

// String returns a human-readable representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventAdvisory:
		return "advisory"
	case EventSkillTriggered:
		return "skill_triggered"
	case EventItemReceived:
		return "item_received"
	case EventOrderCompleted:
		return "order_completed"
	case EventRecycled:
		return "recycled"
	case EventStageUnlocked:
		return "stage_unlocked"
	case EventVictory:
		return "victory"
	case EventSkillOffered:
		return "skill_offered"
	case EventConfigReplaced:
		return "config_replaced"
	default:
		return "unknown"
	}
}

// MarshalText renders the event type by name.
func (t EventType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText parses an event type name produced by MarshalText.
func (t *EventType) UnmarshalText(b []byte) error {
	for c := EventAdvisory; c <= EventConfigReplaced; c++ {
		if c.String() == string(b) {
			*t = c
			return nil
		}
	}
	return fmt.Errorf("unknown event type %q", b)
}

// Event is one entry of the session log. Transports drain it after every
// intent to drive toasts and modals.
type Event struct {
	Seq      int           `json:"seq"`
	Type     EventType     `json:"type"`
	Message  string        `json:"message,omitempty"`
	Code     advisory.Code `json:"code,omitempty"`
	Skill    string        `json:"skill,omitempty"`
	Amount   int           `json:"amount,omitempty"`
	Currency game.Currency `json:"currency,omitempty"`
	Item     *game.Item    `json:"item,omitempty"`
	Stage    int           `json:"stage,omitempty"`
	Unlocks  []string      `json:"unlocks,omitempty"`
	Options  []string      `json:"options,omitempty"` // offered skill ids
}

// maxEvents bounds the undrained log; the oldest entries go first.
const maxEvents = 256

type eventLog struct {
	seq    int
	events []Event
}

func (l *eventLog) add(e Event) {
	l.seq++
	e.Seq = l.seq
	if len(l.events) == maxEvents {
		l.events = append(l.events[:0], l.events[1:]...)
	}
	l.events = append(l.events, e)
}

func (l *eventLog) drain() []Event {
	out := l.events
	l.events = nil
	return out
}
