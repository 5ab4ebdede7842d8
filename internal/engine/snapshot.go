package engine

import (
	"github.com/xtding233/order-gacha/internal/game"
	"github.com/xtding233/order-gacha/internal/inventory"
	"github.com/xtding233/order-gacha/internal/order"
	"github.com/xtding233/order-gacha/internal/pricing"
	"github.com/xtding233/order-gacha/internal/skill"
)

// Snapshot is a read-only copy of the session plus the derived views the
// presentation layer renders.
type Snapshot struct {
	SessionID  string               `json:"sessionId"`
	Mode       Mode                 `json:"mode"`
	Progress   int                  `json:"mainlineProgress"`
	StageCount int                  `json:"stageCount"`
	Stage      game.StageConfig     `json:"stage"`
	Gold       int                  `json:"gold"`
	Tickets    int                  `json:"tickets"`
	DrawCount  int                  `json:"drawCount"`
	Inventory  *inventory.Inventory `json:"inventory"`
	Pools      []*game.Pool         `json:"activePools"`
	Quotes     []pricing.Quote      `json:"quotes"` // aligned with Pools
	Orders     []*game.Order        `json:"orders"`
	Mainline   *game.Order          `json:"mainlineOrder"`
	Skills     skill.Set            `json:"skills"`
	SkillState skill.State          `json:"skillState"`
	Choice     *Choice              `json:"choice,omitempty"`
	Modal      *Modal               `json:"modal,omitempty"`
	SkillOffer []skill.Definition   `json:"skillOffer,omitempty"`
	Selection  []int                `json:"selection,omitempty"`

	Satisfiable   []order.Result `json:"satisfiableOrders,omitempty"`
	RecycleValue  int            `json:"recycleValue"`
	SelectedNames []string       `json:"selectedNames,omitempty"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID:  s.id,
		Mode:       s.mode,
		Progress:   s.progress,
		StageCount: len(s.cfg.Stages),
		Stage:      s.stage(),
		Gold:       s.gold,
		Tickets:    s.tickets,
		DrawCount:  s.drawCount,
		Inventory:  s.inv.Clone(),
		Mainline:   s.mainline.Clone(),
		Skills:     append(skill.Set(nil), s.skills...),
		SkillState: s.skillSt,
		SkillOffer: append([]skill.Definition(nil), s.offer...),
		Selection:  append([]int(nil), s.selection...),
	}
	for _, p := range s.pools {
		snap.Pools = append(snap.Pools, clonePool(p))
		snap.Quotes = append(snap.Quotes, pricing.QuoteDraw(p, s.skills, s.gold))
	}
	for _, o := range s.orders {
		snap.Orders = append(snap.Orders, o.Clone())
	}
	if s.choice != nil {
		c := *s.choice
		c.Items = nil
		for _, it := range s.choice.Items {
			c.Items = append(c.Items, it.Clone())
		}
		c.Templates = append([]game.ItemTemplate(nil), s.choice.Templates...)
		snap.Choice = &c
	}
	if s.modal != nil {
		m := *s.modal
		m.Item = s.modal.Item.Clone()
		snap.Modal = &m
	}

	if len(s.selection) > 0 {
		snap.RecycleValue = order.RecycleValue(s.inv.Slots, s.selection)
		snap.SelectedNames = order.SelectedNames(s.inv.Slots, s.selection)
	}
	if s.mode == ModeSubmitting {
		snap.Satisfiable = order.Evaluate(s.orders, s.mainline, s.inv.Slots, s.selection, s.evalContext())
	}
	return snap
}

// DrainEvents returns and clears the events logged since the last drain.
func (s *Session) DrainEvents() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events.drain()
}
