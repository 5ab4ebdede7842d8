package pricing

import (
	"github.com/xtding233/order-gacha/internal/gacha"
	"github.com/xtding233/order-gacha/internal/game"
	"github.com/xtding233/order-gacha/internal/skill"
)

// Affix keys whose pools vip_discount applies to.
const (
	AffixPrecise  = "precise"
	AffixTargeted = "targeted"
)

// Quote is the resolved cost of one draw from a pool.
type Quote struct {
	Currency  game.Currency `json:"currency"`
	Base      int           `json:"base"`
	Final     int           `json:"final"`
	Discounts []string      `json:"discounts,omitempty"` // skill ids that lowered the price
}

// BaseCost resolves a normal pool's listed cost when pools regenerate:
// the affix cost if one is attached, else the stage's fixed price, else a
// uniform roll in the stage price range under variable pricing, else 1.
func BaseCost(st game.StageConfig, affix *game.AffixDefinition, rng gacha.RandomSource) int {
	if affix != nil {
		return affix.Cost
	}
	if st.FixedPrice != nil {
		return *st.FixedPrice
	}
	if st.Mechanics.VariablePrice {
		lo, hi := st.PriceBounds()
		return lo + gacha.IntN(rng, hi-lo+1)
	}
	return 1
}

// QuoteDraw applies skill discounts to a pool's listed cost. Discounts only
// touch gold pools: calculated takes 2 off while gold is below 10 (floor 1)
// and vip_discount takes 1 off precise/targeted pools (floor 0). Both may
// apply.
func QuoteDraw(p *game.Pool, held skill.Set, gold int) Quote {
	q := Quote{Currency: p.Currency, Base: p.Cost, Final: p.Cost}
	if p.Currency != game.Gold {
		return q
	}
	if held.Has(skill.Calculated) && gold < skill.CalculatedGoldLimit {
		q.Final = max(1, q.Final-2)
		q.Discounts = append(q.Discounts, skill.Calculated)
	}
	if a := p.AffixID(); held.Has(skill.VIPDiscount) && (a == AffixPrecise || a == AffixTargeted) {
		q.Final = max(0, q.Final-1)
		q.Discounts = append(q.Discounts, skill.VIPDiscount)
	}
	return q
}

// Affordable reports whether the balances cover the quote.
func (q Quote) Affordable(gold, tickets int) bool {
	switch q.Currency {
	case game.Ticket:
		return tickets >= q.Final
	default:
		return gold >= q.Final
	}
}
