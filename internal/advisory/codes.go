// Package advisory holds the rule violations a player can trigger. They are
// recovered at the intent handler and surfaced as user-visible advisories.
package advisory

import "google.golang.org/grpc/codes"

// Code is a machine-readable advisory code.
type Code string

const (
	CodeUnknown Code = "UNKNOWN"

	// Economy
	CodeInsufficientGold    Code = "INSUFFICIENT_GOLD"
	CodeInsufficientTickets Code = "INSUFFICIENT_TICKETS"

	// Inventory
	CodeSynthesisLocked    Code = "SYNTHESIS_LOCKED"
	CodeRarityLocked       Code = "RARITY_LOCKED"
	CodeMainlineItemLocked Code = "MAINLINE_ITEM_LOCKED"

	// Orders
	CodeRefreshLocked    Code = "REFRESH_LOCKED"
	CodeNoRefreshesLeft  Code = "NO_REFRESHES_LEFT"
	CodeNothingSatisfied Code = "NOTHING_SATISFIED"
	CodeNothingSelected  Code = "NOTHING_SELECTED"

	// Skills
	CodeSkillSlotsFull  Code = "SKILL_SLOTS_FULL"
	CodeSkillNotOffered Code = "SKILL_NOT_OFFERED"

	// Input
	CodeConfigRejected Code = "CONFIG_REJECTED"
	CodeInvalidChoice  Code = "INVALID_CHOICE"
)

// GRPCCode maps advisory codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - bad input
	case CodeConfigRejected,
		CodeInvalidChoice,
		CodeSkillNotOffered:
		return codes.InvalidArgument

	// ResourceExhausted - the player cannot afford it
	case CodeInsufficientGold,
		CodeInsufficientTickets,
		CodeNoRefreshesLeft,
		CodeSkillSlotsFull:
		return codes.ResourceExhausted

	// FailedPrecondition - state doesn't allow operation
	case CodeSynthesisLocked,
		CodeRarityLocked,
		CodeMainlineItemLocked,
		CodeRefreshLocked,
		CodeNothingSatisfied,
		CodeNothingSelected:
		return codes.FailedPrecondition

	default:
		return codes.Internal
	}
}
