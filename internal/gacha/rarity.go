package gacha

// Tier ids of the fixed rarity order. Mythic is never rolled here; it is
// reserved for mainline drops.
const (
	Common    = "common"
	Uncommon  = "uncommon"
	Rare      = "rare"
	Epic      = "epic"
	Legendary = "legendary"
	Mythic    = "mythic"
)

// Affix keys that change how a rarity is rolled.
const (
	AffixHardened   = "hardened"
	AffixPurified   = "purified"
	AffixVolatile   = "volatile"
	AffixFragmented = "fragmented"
)

// RollableTiers is the order weights are walked in.
var RollableTiers = []string{Common, Uncommon, Rare, Epic, Legendary}

// RollOptions carries everything besides stage weights that shifts a roll.
type RollOptions struct {
	Affix          string
	Gold           int
	Lucky7         bool // lucky_7 held; only bites when Gold ends in 7
	GuaranteedRare bool // one-shot flag from skill state
}

// RollRarity resolves one tier id from stage weights (need not sum to 1).
// Affix overrides win over the guaranteed-rare flag, which wins over the
// weighted roll. All-zero weights fall back to common.
func RollRarity(weights map[string]float64, opts RollOptions, rng RandomSource) string {
	if rng == nil {
		rng = DefaultRNG()
	}
	unlocked := func(id string) bool { return weights[id] > 0 }

	switch opts.Affix {
	case AffixHardened, AffixPurified:
		switch {
		case unlocked(Legendary):
			r := rng.Float64()
			if r < 0.67 {
				return Rare
			}
			if r < 0.97 {
				return Epic
			}
			return Legendary
		case unlocked(Epic):
			if rng.Float64() < 0.7 {
				return Rare
			}
			return Epic
		case unlocked(Rare):
			return Rare
		}
		return Uncommon
	case AffixVolatile:
		if unlocked(Legendary) && rng.Float64() >= 0.92 {
			return Legendary
		}
		return Common
	case AffixFragmented:
		return Common
	}

	if opts.GuaranteedRare {
		var open, high []string
		for _, id := range RollableTiers {
			if !unlocked(id) {
				continue
			}
			open = append(open, id)
			if id == Rare || id == Epic || id == Legendary {
				high = append(high, id)
			}
		}
		if len(high) > 0 {
			return high[IntN(rng, len(high))]
		}
		if len(open) > 0 {
			return open[len(open)-1]
		}
		return Common
	}

	w := make([]float64, len(RollableTiers))
	for i, id := range RollableTiers {
		w[i] = weights[id]
		if id == Legendary && opts.Lucky7 && opts.Gold%10 == 7 {
			w[i] *= 2
		}
	}
	i := WeightedIndex(w, rng)
	if i < 0 {
		return Common
	}
	return RollableTiers[i]
}

// RollRequirement picks a required tier for an order requirement. Only the
// plain weighted walk applies; no affix or skill shifts it.
func RollRequirement(weights map[string]float64, rng RandomSource) string {
	return RollRarity(weights, RollOptions{}, rng)
}
