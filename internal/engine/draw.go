package engine

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/xtding233/order-gacha/internal/advisory"
	"github.com/xtding233/order-gacha/internal/gacha"
	"github.com/xtding233/order-gacha/internal/game"
	"github.com/xtding233/order-gacha/internal/pricing"
	"github.com/xtding233/order-gacha/internal/skill"
)

// Draw-shape constants.
const (
	FragmentedCount    = 3
	PreciseCandidates  = 2
	TradeInUpgradeRate = 0.05
	AffixTradeIn       = "trade_in"
)

// fillerTiers is the mainline-pool consolation tier by progress; later
// stages use epic.
var fillerTiers = []string{gacha.Common, gacha.Uncommon, gacha.Rare}

// Draw spends currency on the pool with the given id. Interaction affixes
// open a choice instead of handing out items directly; a mainline pool
// shows its drop in a reward modal.
func (s *Session) Draw(poolID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("draw", ModeIdle); err != nil {
		return err
	}
	p, err := s.findPool(poolID)
	if err != nil {
		return err
	}
	q := pricing.QuoteDraw(p, s.skills, s.gold)
	if !q.Affordable(s.gold, s.tickets) {
		return s.advise(insufficient(q, s.gold, s.tickets))
	}
	for _, id := range q.Discounts {
		s.skillEvent(id, fmt.Sprintf("cost %d -> %d", q.Base, q.Final))
	}
	s.log.Debug("draw", slog.String("pool", p.ID), slog.String("affix", p.AffixID()), slog.Int("cost", q.Final))
	// lucky_7 reads the balance before payment
	gold := s.gold

	if p.Type == game.PoolMainline {
		s.credit(q.Currency, -q.Final)
		it := s.rollMainline(p)
		s.modal = &Modal{Kind: ModalReward, Item: it, Title: it.Name}
		s.mode = ModeShowingModal
		return nil
	}

	switch p.AffixID() {
	case AffixTradeIn:
		s.choice = &Choice{Kind: ChoiceTradeIn, PoolID: p.ID, Quote: q, pool: p}
		s.mode = ModeAwaitingChoice
		return nil
	case pricing.AffixPrecise:
		s.credit(q.Currency, -q.Final)
		c := &Choice{Kind: ChoicePrecise, PoolID: p.ID, Quote: q, Paid: true, pool: p}
		for _, tpl := range gacha.Sample(p.Items, PreciseCandidates, s.rng) {
			c.Items = append(c.Items, s.rollItem(p, tpl, "", gold))
		}
		s.choice = c
		s.mode = ModeAwaitingChoice
		return nil
	case pricing.AffixTargeted:
		s.credit(q.Currency, -q.Final)
		s.choice = &Choice{Kind: ChoiceTargeted, PoolID: p.ID, Quote: q, Paid: true, pool: p, gold: gold,
			Templates: append([]game.ItemTemplate(nil), p.Items...)}
		s.mode = ModeAwaitingChoice
		return nil
	}

	s.credit(q.Currency, -q.Final)
	n := 1
	if p.AffixID() == gacha.AffixFragmented {
		n = FragmentedCount
	}
	if s.skillSt.NextDrawExtraItem {
		n++
		s.skillEvent(skill.AutoRestock, "extra item")
	}
	items := make([]*game.Item, 0, n)
	for range n {
		tpl, ok := gacha.Pick(p.Items, s.rng)
		if !ok {
			break
		}
		items = append(items, s.rollItem(p, tpl, p.AffixID(), gold))
	}
	s.finishDraw(items)
	return nil
}

// SelectChoice resolves an open choice. For precise and targeted draws
// index picks a candidate or template; for trade_in it is the inventory
// slot to trade away.
func (s *Session) SelectChoice(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require("select_choice", ModeAwaitingChoice); err != nil {
		return err
	}
	c := s.choice
	switch c.Kind {
	case ChoicePrecise:
		if index < 0 || index >= len(c.Items) {
			return s.advise(invalidChoice(index))
		}
		it := c.Items[index]
		s.closeChoice()
		s.finishDraw([]*game.Item{it})
	case ChoiceTargeted:
		if index < 0 || index >= len(c.Templates) {
			return s.advise(invalidChoice(index))
		}
		it := s.rollItem(c.pool, c.Templates[index], "", c.gold)
		s.closeChoice()
		s.finishDraw([]*game.Item{it})
	case ChoiceTradeIn:
		return s.tradeIn(index)
	}
	return nil
}

// tradeIn consumes the item in slot i and hands out another template of
// the pool at the same tier, occasionally one tier up (never to mythic).
func (s *Session) tradeIn(i int) error {
	if err := s.slotIndex(i); err != nil {
		return err
	}
	old := s.inv.Slots[i]
	if old == nil {
		return s.advise(advisory.New(advisory.CodeInvalidChoice, "pick an item to trade in"))
	}
	if old.IsMainlineItem {
		return s.advise(advisory.New(advisory.CodeMainlineItemLocked, "mainline items cannot be traded in"))
	}
	c := s.choice
	if !c.Quote.Affordable(s.gold, s.tickets) {
		return s.advise(insufficient(c.Quote, s.gold, s.tickets))
	}

	var options []game.ItemTemplate
	for _, tpl := range c.pool.Items {
		if tpl.Name != old.Name {
			options = append(options, tpl)
		}
	}
	if len(options) == 0 {
		options = c.pool.Items
	}
	tpl, _ := gacha.Pick(options, s.rng)

	tier := old.Rarity
	if next, ok := s.ladder().Next(tier.ID); ok && next.ID != gacha.Mythic && gacha.Chance(TradeInUpgradeRate, s.rng) {
		tier = next
	}
	it := s.newItem(c.pool, tpl, tier)
	it.Sterile = old.Sterile

	s.credit(c.Quote.Currency, -c.Quote.Final)
	s.inv.Remove([]int{i})
	s.closeChoice()
	s.finishDraw([]*game.Item{it})
	return nil
}

func (s *Session) closeChoice() {
	s.choice = nil
	s.mode = ModeIdle
}

// rollItem creates one drawn item of tpl from pool p. gold is the balance
// held before the draw was paid.
func (s *Session) rollItem(p *game.Pool, tpl game.ItemTemplate, affix string, gold int) *game.Item {
	opts := skill.RollOptions(s.skills, s.skillSt, affix, gold)
	tier := s.ladder().MustFind(gacha.RollRarity(s.stage().RarityWeights, opts, s.rng))
	it := s.newItem(p, tpl, tier)
	it.Sterile = affix == gacha.AffixHardened
	return it
}

func (s *Session) newItem(p *game.Pool, tpl game.ItemTemplate, tier game.RarityTier) *game.Item {
	return s.rules().Stamp(&game.Item{
		UID:      game.NewUID(),
		Name:     tpl.Name,
		Icon:     tpl.Icon,
		PoolID:   p.DefinitionID,
		PoolName: p.Name,
		Rarity:   tier,
	})
}

// rollMainline resolves a mainline pool: the mythic target with the drop
// rate, otherwise a filler item from a random unlocked pool at the stage's
// filler tier, sometimes upgraded to legendary.
func (s *Session) rollMainline(p *game.Pool) *game.Item {
	g := s.cfg.Global
	if p.Target != nil && gacha.Chance(g.MainlineDropRate, s.rng) {
		it := s.newItem(p, game.ItemTemplate{Name: p.Target.Name, Icon: p.Target.Icon}, s.ladder().MustFind(gacha.Mythic))
		it.IsMainlineItem = true
		for _, d := range s.cfg.Pools {
			if d.ID == p.Target.PoolID {
				it.PoolName = d.Name
			}
		}
		return it
	}

	st := s.stage()
	tierID := gacha.Epic
	if s.progress < len(fillerTiers) {
		tierID = fillerTiers[max(s.progress, 0)]
	}
	if gacha.Chance(g.MainlineFillerLegendaryRate, s.rng) {
		tierID = gacha.Legendary
	}
	def, _ := gacha.Pick(s.cfg.UnlockedPools(st), s.rng)
	tpl, _ := gacha.Pick(st.Truncate(def.Items), s.rng)
	src := &game.Pool{DefinitionID: def.ID, Name: def.Name}
	return s.newItem(src, tpl, s.ladder().MustFind(tierID))
}

// finishDraw is the bookkeeping every completed draw shares: entropy
// aging, inventory routing, skill state, negotiator and a pool refresh.
func (s *Session) finishDraw(items []*game.Item) {
	if s.stage().Mechanics.Entropy {
		s.inv.Age()
	}
	for _, o := range s.inv.Receive(items, s.rules()) {
		s.events.add(Event{Type: EventItemReceived, Item: o.Item.Clone(), Message: o.Action.String()})
	}

	tiers := make([]string, 0, len(items))
	drawn := make([]game.RarityTier, 0, len(items))
	for _, it := range items {
		tiers = append(tiers, it.Rarity.ID)
		drawn = append(drawn, it.Rarity)
	}
	var armed bool
	s.skillSt, armed = skill.AfterDraw(s.skills, s.skillSt, tiers)
	if armed {
		s.skillEvent(skill.ConsolationPrize, "next draw is rare or better")
	}
	if skill.NegotiatorTriggered(s.skills, drawn) {
		for _, o := range s.orders {
			o.RemainingRefreshes++
		}
		s.skillEvent(skill.Negotiator, "+1 refresh on every order")
	}

	s.drawCount++
	s.pools = s.generatePools()
	s.settle()
}

func insufficient(q pricing.Quote, gold, tickets int) error {
	code, have := advisory.CodeInsufficientGold, gold
	if q.Currency == game.Ticket {
		code, have = advisory.CodeInsufficientTickets, tickets
	}
	return advisory.WithMetadata(code, fmt.Sprintf("not enough %s: need %d, have %d", q.Currency, q.Final, have),
		map[string]string{"cost": strconv.Itoa(q.Final), "balance": strconv.Itoa(have)})
}

func invalidChoice(index int) error {
	return advisory.WithMetadata(advisory.CodeInvalidChoice, "no such option",
		map[string]string{"index": strconv.Itoa(index)})
}
