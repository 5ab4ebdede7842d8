package engine

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/xtding233/order-gacha/internal/advisory"
	"github.com/xtding233/order-gacha/internal/game"
	"github.com/xtding233/order-gacha/internal/order"
	"github.com/xtding233/order-gacha/internal/pricing"
	"github.com/xtding233/order-gacha/internal/skill"
)

func (s *Session) orderAt(index int, mainline bool) (*game.Order, error) {
	if mainline {
		if s.mainline == nil {
			return nil, fmt.Errorf("mainline order: %w", ErrIndexOutOfRange)
		}
		return s.mainline, nil
	}
	if index < 0 || index >= len(s.orders) {
		return nil, fmt.Errorf("order %d: %w", index, ErrIndexOutOfRange)
	}
	return s.orders[index], nil
}

func (s *Session) evalContext() order.Context {
	return order.Context{
		Held:    s.skills,
		Gold:    s.gold,
		Ladder:  s.ladder(),
		Bonuses: s.cfg.Global.SkillBonuses,
	}
}

// ConfirmSubmission completes every order the selection satisfies, taking
// orders in display order with the mainline order last. Consumed slots are
// emptied, rewards credited and completed normal orders replaced. A
// completed mainline order advances the stage.
func (s *Session) ConfirmSubmission() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("confirm_submission", ModeSubmitting); err != nil {
		return err
	}
	if len(s.selection) == 0 {
		return s.advise(advisory.New(advisory.CodeNothingSelected, "select items to submit"))
	}
	results := order.Commit(s.orders, s.mainline, s.inv.Slots, s.selection, s.evalContext())
	if len(results) == 0 {
		return s.advise(advisory.New(advisory.CodeNothingSatisfied, "the selection does not complete any order"))
	}

	var consumed []int
	mainlineDone := false
	universe := s.cfg.NormalItems(s.stage())
	for _, r := range results {
		consumed = append(consumed, r.Slots...)
		s.credit(r.RewardType, r.FinalReward)
		s.events.add(Event{Type: EventOrderCompleted, Amount: r.FinalReward, Currency: r.RewardType, Message: r.OrderID})
		if r.SamePool {
			s.skillEvent(skill.OCD, "reward doubled")
		}
		if r.Relief > 0 {
			s.skillEvent(skill.PovertyRelief, fmt.Sprintf("+%d", r.Relief))
		}
		for _, p := range r.Extras {
			s.payout(p)
		}
		if r.IsMainline {
			mainlineDone = true
			continue
		}
		s.orders[r.OrderIndex] = order.Generate(universe, s.stage(), s.ladder(), s.skills, s.rng)
	}
	slices.Sort(consumed)
	s.inv.Remove(consumed)
	s.skillSt = skill.OnOrderComplete(s.skills, s.skillSt)

	s.log.Info("orders completed",
		slog.Int("count", len(results)),
		slog.Bool("mainline", mainlineDone),
		slog.Int("gold", s.gold),
		slog.Int("tickets", s.tickets))

	s.selection = nil
	s.mode = ModeIdle
	if mainlineDone {
		s.advanceStage()
		return nil
	}
	s.pools = s.generatePools()
	s.settle()
	return nil
}

// ConfirmRecycle destroys the selected items for their recycle value.
func (s *Session) ConfirmRecycle() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("confirm_recycle", ModeRecycling); err != nil {
		return err
	}
	if len(s.selection) == 0 {
		return s.advise(advisory.New(advisory.CodeNothingSelected, "select items to recycle"))
	}
	value := order.RecycleValue(s.inv.Slots, s.selection)
	removed := s.inv.Remove(s.selection)
	s.gold += value
	s.events.add(Event{Type: EventRecycled, Amount: value, Currency: game.Gold, Message: fmt.Sprintf("%d items", len(removed))})

	tiers := make([]game.RarityTier, 0, len(removed))
	for _, it := range removed {
		tiers = append(tiers, it.Rarity)
	}
	if p, ok := skill.AlchemyBonus(s.skills, tiers, s.cfg.Global.SkillBonuses, s.rng); ok {
		s.payout(p)
	}

	s.selection = nil
	s.mode = ModeIdle
	s.settle()
	return nil
}

// RefreshAllOrders regenerates every normal order for refreshCost gold.
func (s *Session) RefreshAllOrders() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("refresh_all_orders", ModeIdle); err != nil {
		return err
	}
	st := s.stage()
	if !st.Mechanics.Refresh {
		return s.advise(advisory.New(advisory.CodeRefreshLocked, "order refresh is not unlocked in this stage"))
	}
	cost := s.cfg.Global.RefreshCost
	if s.gold < cost {
		return s.advise(insufficient(pricing.Quote{Currency: game.Gold, Base: cost, Final: cost}, s.gold, s.tickets))
	}
	s.gold -= cost
	s.orders = order.GenerateAll(&s.cfg, st, s.skills, s.rng)
	return nil
}

// RefreshOrder replaces one normal order, spending one of its refreshes.
func (s *Session) RefreshOrder(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("refresh_order", ModeIdle); err != nil {
		return err
	}
	old, err := s.orderAt(index, false)
	if err != nil {
		return err
	}
	st := s.stage()
	if !st.Mechanics.Refresh {
		return s.advise(advisory.New(advisory.CodeRefreshLocked, "order refresh is not unlocked in this stage"))
	}
	if old.RemainingRefreshes <= 0 {
		return s.advise(advisory.New(advisory.CodeNoRefreshesLeft, "this order has no refreshes left"))
	}
	next := order.Generate(s.cfg.NormalItems(st), st, s.ladder(), s.skills, s.rng)
	next.RemainingRefreshes = old.RemainingRefreshes - 1
	if skill.TimeFrozen(s.skills, s.rng) {
		next.RemainingRefreshes = old.RemainingRefreshes
		s.skillEvent(skill.TimeFreeze, "refresh not consumed")
	}
	s.orders[index] = next
	return nil
}

// advanceStage moves to the next stage after a mainline completion:
// victory past the last stage, otherwise the hard reset and a stage modal
// that leads into a skill offer.
func (s *Session) advanceStage() {
	s.progress++
	if s.progress >= len(s.cfg.Stages) {
		s.mainline = nil
		s.modal = &Modal{Kind: ModalVictory, Stage: s.progress}
		s.mode = ModeShowingModal
		s.events.add(Event{Type: EventVictory, Stage: s.progress})
		s.log.Info("victory", slog.String("session", s.id), slog.Int("draws", s.drawCount))
		return
	}

	st := s.stage()
	s.resetStage(0)
	s.modal = &Modal{Kind: ModalStageUp, Stage: s.progress, Title: st.Name, Unlocks: append([]string(nil), st.Unlocks...)}
	s.mode = ModeShowingModal
	s.events.add(Event{Type: EventStageUnlocked, Stage: s.progress, Message: st.Name, Unlocks: st.Unlocks})
	s.log.Info("stage unlocked", slog.String("session", s.id), slog.Int("stage", s.progress), slog.String("name", st.Name))
}
