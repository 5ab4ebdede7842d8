// Package order builds orders and evaluates selections against them.
package order

import (
	"math"

	"github.com/xtding233/order-gacha/internal/gacha"
	"github.com/xtding233/order-gacha/internal/game"
	"github.com/xtding233/order-gacha/internal/skill"
)

// OrderSizes are the requirement counts orderCountWeights can pick.
var OrderSizes = []int{2, 3, 4}

// ceilReward rounds up while ignoring float noise such as 10*1.2.
func ceilReward(v float64) int {
	return int(math.Ceil(v - 1e-9))
}

// RequirementCount draws the order size from the stage weights, falling
// back to game.DefaultOrderCount when every weight is zero.
func RequirementCount(st game.StageConfig, rng gacha.RandomSource) int {
	w := make([]float64, len(OrderSizes))
	for i, n := range OrderSizes {
		w[i] = st.CountWeight(n)
	}
	i := gacha.WeightedIndex(w, rng)
	if i < 0 {
		return game.DefaultOrderCount
	}
	return OrderSizes[i]
}

// Generate builds a normal order from the stage's item universe.
func Generate(universe []game.Candidate, st game.StageConfig, ladder game.Ladder, held skill.Set, rng gacha.RandomSource) *game.Order {
	count := skill.ApplyCutCorners(held, RequirementCount(st, rng), rng)

	picked := gacha.Sample(universe, count, rng)
	reqs := make([]game.Requirement, 0, len(picked))
	total := 0.0
	for _, c := range picked {
		tier := ladder.MustFind(gacha.RollRequirement(st.RequirementWeights(), rng))
		total += tier.Bonus
		reqs = append(reqs, game.Requirement{
			Name:           c.Name,
			Icon:           c.Icon,
			PoolID:         c.PoolID,
			PoolName:       c.PoolName,
			RequiredRarity: tier,
		})
	}

	return &game.Order{
		ID:                 game.NewUID(),
		Requirements:       reqs,
		BaseReward:         ceilReward(float64(st.BaseRewardFor(len(reqs))) * (1 + total)),
		RewardType:         st.RewardCurrency(),
		RemainingRefreshes: game.DefaultOrderRefreshes,
	}
}

// GenerateAll fills every order slot of the stage.
func GenerateAll(cfg *game.Config, st game.StageConfig, held skill.Set, rng gacha.RandomSource) []*game.Order {
	universe := cfg.NormalItems(st)
	out := make([]*game.Order, st.OrderSlots)
	for i := range out {
		out[i] = Generate(universe, st, cfg.Ladder(), held, rng)
	}
	return out
}

// GenerateMainline builds the progression order for a progress level. It
// returns nil once every mainline item has been used up. Each requirement
// comes from a different unlocked pool and demands the stage's mainline tier.
func GenerateMainline(progress int, cfg *game.Config, st game.StageConfig, rng gacha.RandomSource) *game.Order {
	if progress < 0 || progress >= len(cfg.MainlineItems) {
		return nil
	}
	tier := cfg.Ladder().MustFind(st.MainlineRequirementTier())
	pools := gacha.Sample(cfg.UnlockedPools(st), st.MainlineRequirementCount(), rng)

	reqs := make([]game.Requirement, 0, len(pools))
	for _, p := range pools {
		it, ok := gacha.Pick(st.Truncate(p.Items), rng)
		if !ok {
			continue
		}
		reqs = append(reqs, game.Requirement{
			Name:           it.Name,
			Icon:           it.Icon,
			PoolID:         p.ID,
			PoolName:       p.Name,
			RequiredRarity: tier,
		})
	}
	return &game.Order{
		ID:           "mainline-" + game.NewUID(),
		Requirements: reqs,
		RewardType:   game.None,
		IsMainline:   true,
		Level:        progress + 1,
	}
}
