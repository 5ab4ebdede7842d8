package engine

import (
	"fmt"
	"slices"

	"github.com/xtding233/order-gacha/internal/gacha"
	"github.com/xtding233/order-gacha/internal/game"
	"github.com/xtding233/order-gacha/internal/pricing"
)

// ActivePools is how many draw offers are shown at once.
const ActivePools = 3

// generatePools builds the active offers: an optional mainline pool plus
// normal pools sampled by weight without replacement, in shuffled order.
// Normal pool ids are "<definition>#<slot>" so an unchanged slot keeps its id.
func (s *Session) generatePools() []*game.Pool {
	st := s.stage()
	var out []*game.Pool
	if mp := s.mainlinePool(st); mp != nil {
		out = append(out, mp)
	}

	defs := s.cfg.UnlockedPools(st)
	w := make([]float64, len(defs))
	for i, d := range defs {
		w[i] = d.EffectiveWeight()
	}
	picked := gacha.WeightedSample(w, ActivePools-len(out), s.rng)
	affixes := s.drawAffixes(st, len(picked))
	for n, i := range picked {
		d := defs[i]
		var affix *game.AffixDefinition
		if n < len(affixes) {
			affix = affixes[n]
		}
		out = append(out, &game.Pool{
			DefinitionID: d.ID,
			Name:         d.Name,
			Icon:         d.Icon,
			Type:         game.PoolNormal,
			Items:        st.Truncate(d.Items),
			Weight:       d.EffectiveWeight(),
			Currency:     d.Currency,
			Cost:         pricing.BaseCost(st, affix, s.rng),
			Affix:        affix,
		})
	}

	gacha.Shuffle(out, s.rng)
	for i, p := range out {
		if p.Type == game.PoolNormal {
			p.ID = fmt.Sprintf("%s#%d", p.DefinitionID, i)
		}
	}
	return out
}

// drawAffixes assigns n affixes without replacement, starting over only
// once the table is exhausted. Nil when the stage has no affixes.
func (s *Session) drawAffixes(st game.StageConfig, n int) []*game.AffixDefinition {
	table := s.cfg.Affixes
	if !st.Mechanics.Affixes || len(table) == 0 {
		return nil
	}
	out := make([]*game.AffixDefinition, 0, n)
	var left []int
	for len(out) < n {
		if len(left) == 0 {
			left = make([]int, len(table))
			for i := range left {
				left[i] = i
			}
		}
		w := make([]float64, len(left))
		for i, idx := range left {
			w[i] = table[idx].Weight
		}
		k := gacha.WeightedIndex(w, s.rng)
		if k < 0 {
			k = gacha.IntN(s.rng, len(left))
		}
		a := table[left[k]]
		out = append(out, &a)
		left = slices.Delete(left, k, k+1)
	}
	return out
}

// mainlineTarget is the first mainline item from the current progress on
// that the player does not already hold.
func (s *Session) mainlineTarget() (game.MainlineItem, bool) {
	for i := max(s.progress, 0); i < len(s.cfg.MainlineItems); i++ {
		if m := s.cfg.MainlineItems[i]; !s.owns(m.Name) {
			return m, true
		}
	}
	return game.MainlineItem{}, false
}

// mainlinePool offers the mainline target when the player can pay for it
// and the stage's mainline chance hits.
func (s *Session) mainlinePool(st game.StageConfig) *game.Pool {
	g := s.cfg.Global
	if s.tickets < g.MainlinePoolCost {
		return nil
	}
	target, ok := s.mainlineTarget()
	if !ok || !gacha.Chance(st.MainlineChanceOr(g), s.rng) {
		return nil
	}
	return &game.Pool{
		ID:           "mainline:" + target.ID,
		DefinitionID: target.PoolID,
		Name:         target.Name,
		Icon:         target.Icon,
		Type:         game.PoolMainline,
		Items:        []game.ItemTemplate{{Name: target.Name, Icon: target.Icon}},
		Weight:       1,
		Currency:     game.Ticket,
		Cost:         g.MainlinePoolCost,
		Target:       &target,
	}
}

func (s *Session) findPool(id string) (*game.Pool, error) {
	for _, p := range s.pools {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("pool %q: %w", id, ErrUnknownPool)
}

func clonePool(p *game.Pool) *game.Pool {
	c := *p
	c.Items = append([]game.ItemTemplate(nil), p.Items...)
	if p.Affix != nil {
		a := *p.Affix
		c.Affix = &a
	}
	if p.Target != nil {
		t := *p.Target
		c.Target = &t
	}
	return &c
}
