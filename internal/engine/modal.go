package engine

import (
	"log/slog"

	"github.com/xtding233/order-gacha/internal/advisory"
	"github.com/xtding233/order-gacha/internal/game"
	"github.com/xtding233/order-gacha/internal/inventory"
	"github.com/xtding233/order-gacha/internal/skill"
)

// CloseModal dismisses the open modal. A reward modal hands its item to
// the inventory, a stage modal opens the skill offer and the victory
// modal ends the session.
func (s *Session) CloseModal() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("close_modal", ModeShowingModal); err != nil {
		return err
	}
	m := s.modal
	s.modal = nil
	s.mode = ModeIdle

	switch m.Kind {
	case ModalReward:
		s.finishDraw([]*game.Item{m.Item})
	case ModalStageUp:
		s.offerSkills()
	case ModalVictory:
		s.mode = ModeFinished
	}
	return nil
}

func (s *Session) offerSkills() {
	s.offer = skill.Offer(s.progress, s.cfg.EnabledSkillIDs, s.skills, s.rng)
	if len(s.offer) == 0 {
		return
	}
	s.mode = ModeChoosingSkill
	ids := make([]string, len(s.offer))
	for i, d := range s.offer {
		ids[i] = d.ID
	}
	s.events.add(Event{Type: EventSkillOffered, Stage: s.progress, Options: ids})
}

// ChooseSkill takes an offered skill into a free slot. An empty id skips
// the offer.
func (s *Session) ChooseSkill(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("choose_skill", ModeChoosingSkill); err != nil {
		return err
	}
	if id == "" {
		s.closeOffer()
		return nil
	}
	if !s.offered(id) {
		return s.advise(notOffered(id))
	}
	next, err := s.skills.With(id)
	if err != nil {
		return s.advise(err)
	}
	s.skills = next
	s.log.Info("skill acquired", slog.String("skill", id))
	s.closeOffer()
	return nil
}

// ReplaceSkill swaps a held skill for an offered one.
func (s *Session) ReplaceSkill(oldID, newID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("replace_skill", ModeChoosingSkill); err != nil {
		return err
	}
	if !s.offered(newID) {
		return s.advise(notOffered(newID))
	}
	next, err := s.skills.Replace(oldID, newID)
	if err != nil {
		return s.advise(err)
	}
	s.skills = next
	s.log.Info("skill replaced", slog.String("old", oldID), slog.String("new", newID))
	s.closeOffer()
	return nil
}

func (s *Session) offered(id string) bool {
	for _, d := range s.offer {
		if d.ID == id {
			return true
		}
	}
	return false
}

func (s *Session) closeOffer() {
	s.offer = nil
	s.mode = ModeIdle
	s.settle()
}

func notOffered(id string) error {
	return advisory.WithMetadata(advisory.CodeSkillNotOffered, "that skill is not on offer", map[string]string{"skill": id})
}

// CancelSelection backs out of a selection mode. Leaving a targeted choice
// refunds its cost; a precise choice is already paid for and must be
// picked. In idle mode it clears the manual slot selection.
func (s *Session) CancelSelection() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.mode {
	case ModeSubmitting, ModeRecycling:
		s.selection = nil
		s.mode = ModeIdle
	case ModeAwaitingChoice:
		c := s.choice
		if c.Kind == ChoicePrecise {
			return s.blocked("cancel_selection")
		}
		if c.Paid {
			s.credit(c.Quote.Currency, c.Quote.Final)
		}
		s.closeChoice()
	case ModeIdle:
		if s.inv.Selected == inventory.NoSelection {
			return s.blocked("cancel_selection")
		}
		s.inv.Selected = inventory.NoSelection
	default:
		return s.blocked("cancel_selection")
	}
	s.settle()
	return nil
}
