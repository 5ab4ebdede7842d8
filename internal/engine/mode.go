package engine

import "fmt"

// Mode is the single interaction state of a session. Every intent checks
// it instead of a combination of flags.
type Mode int

const (
	ModeIdle Mode = iota
	ModeSubmitting
	ModeRecycling
	ModeAwaitingChoice
	ModeResolvingOverflow
	ModeShowingModal
	ModeChoosingSkill
	ModeFinished
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeSubmitting:
		return "submitting"
	case ModeRecycling:
		return "recycling"
	case ModeAwaitingChoice:
		return "awaiting_choice"
	case ModeResolvingOverflow:
		return "resolving_overflow"
	case ModeShowingModal:
		return "showing_modal"
	case ModeChoosingSkill:
		return "choosing_skill"
	case ModeFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// MarshalText renders the mode by name.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText parses a mode name produced by MarshalText.
func (m *Mode) UnmarshalText(b []byte) error {
	for c := ModeIdle; c <= ModeFinished; c++ {
		if c.String() == string(b) {
			*m = c
			return nil
		}
	}
	return fmt.Errorf("unknown mode %q", b)
}

// ChoiceKind is the interaction affix that opened an AwaitingChoice mode.
type ChoiceKind string

const (
	ChoicePrecise  ChoiceKind = "precise"
	ChoiceTargeted ChoiceKind = "targeted"
	ChoiceTradeIn  ChoiceKind = "trade_in"
)

// ModalKind is what a ShowingModal mode displays.
type ModalKind string

const (
	ModalReward  ModalKind = "reward"
	ModalStageUp ModalKind = "stage_up"
	ModalVictory ModalKind = "victory"
)
