package game

import (
	"strconv"

	"github.com/xtding233/order-gacha/internal/gacha"
)

// Fallbacks for optional stage fields.
const (
	DefaultOrderCount        = 3
	DefaultFallbackReward    = 15
	DefaultMainlineReqCount  = 2
	DefaultMainlineReqRarity = gacha.Epic
	DefaultDecayUses         = 5
	DefaultSpecializationCap = 7
	DefaultOrderRefreshes    = 2
)

var defaultBaseRewards = map[int]int{1: 5, 2: 7, 3: 10, 4: 15}

// Ladder returns the rarity tiers as a Ladder.
func (c Config) Ladder() Ladder { return Ladder(c.Rarity) }

// Stage returns the stage for a progress level. Levels past the end clamp
// to the last stage; negative levels clamp to the first.
func (c *Config) Stage(progress int) StageConfig {
	if len(c.Stages) == 0 {
		return StageConfig{}
	}
	if progress < 0 {
		progress = 0
	}
	if progress >= len(c.Stages) {
		progress = len(c.Stages) - 1
	}
	return c.Stages[progress]
}

// SkillEnabled reports whether the document allows a skill to be offered.
func (c *Config) SkillEnabled(id string) bool {
	for _, s := range c.EnabledSkillIDs {
		if s == id {
			return true
		}
	}
	return false
}

// UnlockedPools returns pools[0:allowedPoolCount).
func (c *Config) UnlockedPools(st StageConfig) []PoolDefinition {
	n := st.AllowedPoolCount
	if n > len(c.Pools) {
		n = len(c.Pools)
	}
	if n < 0 {
		n = 0
	}
	return c.Pools[:n]
}

// NormalItems is the item universe of a stage: every unlocked pool's
// templates truncated to poolSize.
func (c *Config) NormalItems(st StageConfig) []Candidate {
	var out []Candidate
	for _, p := range c.UnlockedPools(st) {
		for _, it := range st.Truncate(p.Items) {
			out = append(out, Candidate{ItemTemplate: it, PoolID: p.ID, PoolName: p.Name})
		}
	}
	return out
}

// EffectiveWeight is the selection weight with the default of 1.
func (p PoolDefinition) EffectiveWeight() float64 {
	if p.Weight == nil {
		return 1
	}
	return *p.Weight
}

// Truncate exposes at most PoolSize templates.
func (s StageConfig) Truncate(items []ItemTemplate) []ItemTemplate {
	if s.PoolSize >= 0 && len(items) > s.PoolSize {
		return items[:s.PoolSize]
	}
	return items
}

// RequirementWeights falls back from orderRarityWeights to rarityWeights.
func (s StageConfig) RequirementWeights() map[string]float64 {
	if len(s.OrderRarityWeights) > 0 {
		return s.OrderRarityWeights
	}
	return s.RarityWeights
}

// CountWeight returns the weight for an order size.
func (s StageConfig) CountWeight(n int) float64 {
	return s.OrderCountWeights[strconv.Itoa(n)]
}

// BaseRewardFor returns the pre-multiplier reward for an order size:
// stage table, then the built-in table, then DefaultFallbackReward.
func (s StageConfig) BaseRewardFor(count int) int {
	if v, ok := s.BaseRewards[strconv.Itoa(count)]; ok {
		return v
	}
	if v, ok := defaultBaseRewards[count]; ok {
		return v
	}
	return DefaultFallbackReward
}

// RewardCurrency is the currency normal orders pay in (default gold).
func (s StageConfig) RewardCurrency() Currency {
	if s.OrderRewardType == "" {
		return Gold
	}
	return s.OrderRewardType
}

// Unlocked reports whether a rollable tier has positive weight.
func (s StageConfig) Unlocked(tier string) bool {
	return s.RarityWeights[tier] > 0
}

// StartingGold falls back to the global initial gold.
func (s StageConfig) StartingGold(g Global) int {
	if s.InitialGold != nil {
		return *s.InitialGold
	}
	return g.InitialGold
}

// MainlineChanceOr falls back to the global mainline chance.
func (s StageConfig) MainlineChanceOr(g Global) float64 {
	if s.MainlineChance != nil {
		return *s.MainlineChance
	}
	return g.MainlineChance
}

// MainlineRequirementCount defaults to DefaultMainlineReqCount.
func (s StageConfig) MainlineRequirementCount() int {
	if s.MainlineReqCount > 0 {
		return s.MainlineReqCount
	}
	return DefaultMainlineReqCount
}

// MainlineRequirementTier defaults to epic.
func (s StageConfig) MainlineRequirementTier() string {
	if s.MainlineReqRarity != "" {
		return s.MainlineReqRarity
	}
	return DefaultMainlineReqRarity
}

// DecayStart is how many draws an item survives under entropy.
func (s StageConfig) DecayStart() int {
	if s.DecayUses > 0 {
		return s.DecayUses
	}
	return DefaultDecayUses
}

// NameCap is the specialization cap on distinct item names.
func (s StageConfig) NameCap() int {
	if s.SpecializationCap > 0 {
		return s.SpecializationCap
	}
	return DefaultSpecializationCap
}

// PriceBounds returns the volatility price range, defaulting to [1,1].
func (s StageConfig) PriceBounds() (lo, hi int) {
	lo, hi = 1, 1
	if len(s.PriceRange) >= 1 && s.PriceRange[0] > 0 {
		lo = s.PriceRange[0]
		hi = lo
	}
	if len(s.PriceRange) >= 2 && s.PriceRange[1] >= lo {
		hi = s.PriceRange[1]
	}
	return lo, hi
}
