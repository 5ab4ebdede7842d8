package game_test

import (
	"testing"

	"github.com/xtding233/order-gacha/internal/game"
)

func TestStageClamp(t *testing.T) {
	cfg := game.DefaultConfig()
	if got := cfg.Stage(99).ID; got != 4 {
		t.Fatalf("Stage(99).ID = %d, want 4", got)
	}
	if got := cfg.Stage(-1).ID; got != 0 {
		t.Fatalf("Stage(-1).ID = %d, want 0", got)
	}
}

func TestStageFallbacks(t *testing.T) {
	g := game.Global{InitialGold: 30, MainlineChance: 0.5}
	var s game.StageConfig
	s.RarityWeights = map[string]float64{"common": 1}

	if w := s.RequirementWeights(); w["common"] != 1 {
		t.Fatalf("orderRarityWeights should fall back to rarityWeights")
	}
	s.OrderRarityWeights = map[string]float64{"rare": 1}
	if w := s.RequirementWeights(); w["rare"] != 1 || w["common"] != 0 {
		t.Fatalf("orderRarityWeights override ignored")
	}

	tests := []struct {
		count int
		want  int
	}{{1, 5}, {2, 7}, {3, 10}, {4, 15}, {5, 15}}
	for _, tt := range tests {
		if got := s.BaseRewardFor(tt.count); got != tt.want {
			t.Errorf("BaseRewardFor(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
	s.BaseRewards = map[string]int{"2": 20}
	if got := s.BaseRewardFor(2); got != 20 {
		t.Errorf("stage baseRewards ignored: %d", got)
	}

	if s.StartingGold(g) != 30 || s.MainlineChanceOr(g) != 0.5 {
		t.Fatalf("global fallbacks not used")
	}
	gold, chance := 3, 0.9
	s.InitialGold, s.MainlineChance = &gold, &chance
	if s.StartingGold(g) != 3 || s.MainlineChanceOr(g) != 0.9 {
		t.Fatalf("stage overrides not used")
	}

	if s.RewardCurrency() != game.Gold {
		t.Fatalf("reward currency default should be gold")
	}
	if s.MainlineRequirementCount() != 2 || s.MainlineRequirementTier() != "epic" {
		t.Fatalf("mainline requirement defaults wrong")
	}
	if s.DecayStart() != 5 || s.NameCap() != 7 {
		t.Fatalf("entropy/specialization defaults wrong")
	}
	if lo, hi := s.PriceBounds(); lo != 1 || hi != 1 {
		t.Fatalf("PriceBounds default = [%d,%d]", lo, hi)
	}
	s.PriceRange = []int{2, 5}
	if lo, hi := s.PriceBounds(); lo != 2 || hi != 5 {
		t.Fatalf("PriceBounds = [%d,%d]", lo, hi)
	}
}

func TestNormalItemsTruncation(t *testing.T) {
	cfg := game.DefaultConfig()
	items := cfg.NormalItems(cfg.Stage(0))
	// 3 pools × poolSize 3
	if len(items) != 9 {
		t.Fatalf("len = %d, want 9", len(items))
	}
	if items[0].PoolID != "fruit" || items[3].PoolID != "medicine" {
		t.Fatalf("unexpected ordering: %+v", items[:4])
	}
}

func TestLadder(t *testing.T) {
	l := game.DefaultConfig().Ladder()
	next, ok := l.Next("legendary")
	if !ok || next.ID != "mythic" {
		t.Fatalf("Next(legendary) = %v,%v", next.ID, ok)
	}
	if _, ok := l.Next("mythic"); ok {
		t.Fatal("mythic has no next tier")
	}
	if !l.IsCeiling("mythic") || l.IsCeiling("epic") {
		t.Fatal("IsCeiling wrong")
	}
	if l.MustFind("nope").ID != "common" {
		t.Fatal("MustFind should fall back to the lowest tier")
	}
}
