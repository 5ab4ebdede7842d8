package engine

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/xtding233/order-gacha/internal/game"
	"github.com/xtding233/order-gacha/internal/inventory"
	"github.com/xtding233/order-gacha/internal/order"
)

// ClickSlot routes a click on inventory slot i by mode: it resolves the
// pending item, toggles the slot in a submit/recycle selection, picks the
// trade-in item, or drives the manual select/synthesize/swap/move flow.
func (s *Session) ClickSlot(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("click_slot", ModeIdle, ModeResolvingOverflow, ModeSubmitting, ModeRecycling, ModeAwaitingChoice); err != nil {
		return err
	}
	if err := s.slotIndex(i); err != nil {
		return err
	}

	switch s.mode {
	case ModeResolvingOverflow:
		o, err := s.inv.ResolvePending(i, s.rules())
		if err != nil {
			return s.advise(err)
		}
		s.refund(o)
		s.settle()
		return nil

	case ModeSubmitting, ModeRecycling:
		if s.inv.Slots[i] == nil {
			return nil
		}
		if k := slices.Index(s.selection, i); k >= 0 {
			s.selection = slices.Delete(s.selection, k, k+1)
		} else {
			s.selection = append(s.selection, i)
		}
		return nil

	case ModeAwaitingChoice:
		if s.choice.Kind != ChoiceTradeIn {
			return s.blocked("click_slot")
		}
		return s.tradeIn(i)
	}

	o, err := s.inv.Click(i, s.rules())
	if err != nil {
		return s.advise(err)
	}
	if o.Action == inventory.ActionSynthesized {
		s.log.Debug("synthesized", slog.String("item", o.Item.Name), slog.String("tier", o.Item.Rarity.ID))
	}
	s.settle()
	return nil
}

// DiscardPending drops the pending item for its recycle value.
func (s *Session) DiscardPending() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("discard_pending", ModeResolvingOverflow); err != nil {
		return err
	}
	o, err := s.inv.Discard()
	if errors.Is(err, inventory.ErrNoPending) {
		s.settle()
		return nil
	}
	if err != nil {
		return err
	}
	s.refund(o)
	s.settle()
	return nil
}

// refund credits what an overflow resolution gave back.
func (s *Session) refund(o inventory.Outcome) {
	if o.Refund == 0 {
		return
	}
	s.gold += o.Refund
	s.events.add(Event{Type: EventRecycled, Amount: o.Refund, Currency: game.Gold, Message: o.Action.String()})
}

// ToggleSubmitMode enters or leaves submit mode. Switching from recycle
// mode clears the selection.
func (s *Session) ToggleSubmitMode() error {
	return s.toggleSelectMode("toggle_submit", ModeSubmitting)
}

// ToggleRecycleMode enters or leaves recycle mode.
func (s *Session) ToggleRecycleMode() error {
	return s.toggleSelectMode("toggle_recycle", ModeRecycling)
}

func (s *Session) toggleSelectMode(intent string, target Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require(intent, ModeIdle, ModeSubmitting, ModeRecycling); err != nil {
		return err
	}
	s.selection = nil
	s.inv.Selected = inventory.NoSelection
	if s.mode == target {
		s.mode = ModeIdle
	} else {
		s.mode = target
	}
	return nil
}

// SelectForOrder adds to the submit selection the best unused slots that
// cover an order. mainline picks the mainline order and ignores index.
func (s *Session) SelectForOrder(index int, mainline bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("select_for_order", ModeSubmitting); err != nil {
		return err
	}
	o, err := s.orderAt(index, mainline)
	if err != nil {
		return err
	}
	s.selection = append(s.selection, order.AutoSelect(o, s.inv.Slots, s.selection)...)
	return nil
}
