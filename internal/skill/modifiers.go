package skill

import (
	"github.com/xtding233/order-gacha/internal/gacha"
	"github.com/xtding233/order-gacha/internal/game"
)

// Thresholds and odds of the modifiers that are not document-configurable.
const (
	NegotiatorMinBonus   = 0.4
	AlchemyMinBonus      = 0.2
	AlchemyChance        = 0.15
	CutCornersChance     = 0.20
	TimeFreezeChance     = 0.20
	PovertyGoldThreshold = 5
	CalculatedGoldLimit  = 10
	BigOrderSize         = 4
)

// Payout is a flat skill bonus credited on top of a reward.
type Payout struct {
	Skill    string        `json:"skill"`
	Amount   int           `json:"amount"`
	Currency game.Currency `json:"currency"`
}

// RollOptions builds the rarity roll inputs shifted by held skills.
func RollOptions(held Set, st State, affix string, gold int) gacha.RollOptions {
	return gacha.RollOptions{
		Affix:          affix,
		Gold:           gold,
		Lucky7:         held.Has(Lucky7),
		GuaranteedRare: st.NextDrawGuaranteedRare,
	}
}

// NegotiatorTriggered reports whether any drawn tier grants +1 refresh to
// every active order.
func NegotiatorTriggered(held Set, drawn []game.RarityTier) bool {
	if !held.Has(Negotiator) {
		return false
	}
	for _, r := range drawn {
		if r.Bonus >= NegotiatorMinBonus {
			return true
		}
	}
	return false
}

// ApplyCutCorners applies the post-roll requirement count reduction (floor 1).
func ApplyCutCorners(held Set, count int, rng gacha.RandomSource) int {
	if held.Has(CutCorners) && count > 1 && gacha.Chance(CutCornersChance, rng) {
		return count - 1
	}
	return count
}

// TimeFrozen reports whether a single-order refresh keeps its budget.
func TimeFrozen(held Set, rng gacha.RandomSource) bool {
	return held.Has(TimeFreeze) && gacha.Chance(TimeFreezeChance, rng)
}

// SamePoolDoubles reports whether the reward multiplier doubles: ocd held and every
// requirement of a multi-requirement order shares one pool.
func SamePoolDoubles(held Set, reqs []game.Requirement) bool {
	if !held.Has(OCD) || len(reqs) < 2 {
		return false
	}
	for _, r := range reqs[1:] {
		if r.PoolID != reqs[0].PoolID {
			return false
		}
	}
	return true
}

// PovertyBonus returns the flat bonus added after the multiplier when
// a gold order completes while the balance is low.
func PovertyBonus(held Set, gold int, rewardType game.Currency, b game.SkillBonuses) (Payout, bool) {
	if !held.Has(PovertyRelief) || gold >= PovertyGoldThreshold || rewardType != game.Gold {
		return Payout{}, false
	}
	return Payout{Skill: PovertyRelief, Amount: b.PovertyRelief.Amount, Currency: currencyOr(b.PovertyRelief.Currency, game.Gold)}, true
}

// OrderBonuses returns the big/hard order payouts for one completed order.
func OrderBonuses(held Set, reqs []game.Requirement, ladder game.Ladder, b game.SkillBonuses) []Payout {
	var out []Payout
	if held.Has(BigOrderExpert) && len(reqs) == BigOrderSize {
		out = append(out, Payout{Skill: BigOrderExpert, Amount: b.BigOrder.Amount, Currency: currencyOr(b.BigOrder.Currency, game.Ticket)})
	}
	if held.Has(HardOrderExpert) {
		floor := ladder.Index(b.HardOrderTier)
		for _, r := range reqs {
			if floor >= 0 && ladder.Index(r.RequiredRarity.ID) >= floor {
				out = append(out, Payout{Skill: HardOrderExpert, Amount: b.HardOrder.Amount, Currency: currencyOr(b.HardOrder.Currency, game.Ticket)})
				break
			}
		}
	}
	return out
}

// AlchemyBonus rolls the recycle bonus once per qualifying tier.
func AlchemyBonus(held Set, recycled []game.RarityTier, b game.SkillBonuses, rng gacha.RandomSource) (Payout, bool) {
	if !held.Has(Alchemy) {
		return Payout{}, false
	}
	hits := 0
	for _, r := range recycled {
		if r.Bonus >= AlchemyMinBonus && gacha.Chance(AlchemyChance, rng) {
			hits++
		}
	}
	if hits == 0 {
		return Payout{}, false
	}
	return Payout{Skill: Alchemy, Amount: hits * b.Alchemy.Amount, Currency: currencyOr(b.Alchemy.Currency, game.Ticket)}, true
}

func currencyOr(c, def game.Currency) game.Currency {
	if c == "" {
		return def
	}
	return c
}
