package pricing_test

import (
	"testing"

	"github.com/xtding233/order-gacha/internal/gacha"
	"github.com/xtding233/order-gacha/internal/game"
	"github.com/xtding233/order-gacha/internal/pricing"
	"github.com/xtding233/order-gacha/internal/skill"
)

func intp(v int) *int { return &v }

func TestBaseCost(t *testing.T) {
	affix := &game.AffixDefinition{ID: "targeted", Cost: 4}
	tests := []struct {
		name  string
		stage game.StageConfig
		affix *game.AffixDefinition
		rng   gacha.RandomSource
		want  int
	}{
		{"affix wins", game.StageConfig{FixedPrice: intp(1)}, affix, nil, 4},
		{"fixed price", game.StageConfig{FixedPrice: intp(3)}, nil, nil, 3},
		{"null price without volatility", game.StageConfig{}, nil, nil, 1},
		{"volatility low", game.StageConfig{PriceRange: []int{2, 5}, Mechanics: game.Mechanics{VariablePrice: true}}, nil, &gacha.Scripted{Values: []float64{0}}, 2},
		{"volatility high", game.StageConfig{PriceRange: []int{2, 5}, Mechanics: game.Mechanics{VariablePrice: true}}, nil, &gacha.Scripted{Values: []float64{0.99}}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pricing.BaseCost(tt.stage, tt.affix, tt.rng); got != tt.want {
				t.Fatalf("BaseCost = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestQuoteDrawDiscounts(t *testing.T) {
	precise := &game.AffixDefinition{ID: pricing.AffixPrecise, Cost: 2}
	tests := []struct {
		name  string
		pool  game.Pool
		held  skill.Set
		gold  int
		final int
	}{
		{"no skills", game.Pool{Currency: game.Gold, Cost: 3}, nil, 5, 3},
		{"calculated floor 1", game.Pool{Currency: game.Gold, Cost: 2}, skill.NewSet(skill.Calculated), 9, 1},
		{"calculated needs low gold", game.Pool{Currency: game.Gold, Cost: 3}, skill.NewSet(skill.Calculated), 10, 3},
		{"vip on precise", game.Pool{Currency: game.Gold, Cost: 2, Affix: precise}, skill.NewSet(skill.VIPDiscount), 50, 1},
		{"vip ignores other affixes", game.Pool{Currency: game.Gold, Cost: 2, Affix: &game.AffixDefinition{ID: "hardened", Cost: 2}}, skill.NewSet(skill.VIPDiscount), 50, 2},
		{"both stack to zero", game.Pool{Currency: game.Gold, Cost: 2, Affix: precise}, skill.NewSet(skill.Calculated, skill.VIPDiscount), 3, 0},
		{"ticket pools untouched", game.Pool{Currency: game.Ticket, Cost: 10}, skill.NewSet(skill.Calculated), 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := pricing.QuoteDraw(&tt.pool, tt.held, tt.gold)
			if q.Final != tt.final {
				t.Fatalf("Final = %d, want %d (discounts %v)", q.Final, tt.final, q.Discounts)
			}
		})
	}
}

func TestQuoteAffordable(t *testing.T) {
	q := pricing.Quote{Currency: game.Ticket, Final: 10}
	if q.Affordable(100, 9) || !q.Affordable(0, 10) {
		t.Fatal("ticket quote checks tickets")
	}
	q = pricing.Quote{Currency: game.Gold, Final: 3}
	if q.Affordable(2, 100) || !q.Affordable(3, 0) {
		t.Fatal("gold quote checks gold")
	}
}
