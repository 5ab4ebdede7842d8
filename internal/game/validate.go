package game

import (
	"fmt"
	"strings"

	"github.com/xtding233/order-gacha/internal/gacha"
)

// Validate checks semantic constraints of a normalized Config.
func Validate(cfg Config) error {
	var errs []string

	// rarity ladder
	if len(cfg.Rarity) == 0 {
		errs = append(errs, "rarity must not be empty")
	}
	seen := make(map[string]bool)
	for i, r := range cfg.Rarity {
		if r.ID == "" {
			errs = append(errs, fmt.Sprintf("rarity[%d].id is required", i))
		}
		if seen[r.ID] {
			errs = append(errs, fmt.Sprintf("rarity[%d].id %q is duplicated", i, r.ID))
		}
		seen[r.ID] = true
		if r.Bonus < 0 {
			errs = append(errs, fmt.Sprintf("rarity[%d].bonus must be >= 0", i))
		}
		if r.RecycleValue < 0 {
			errs = append(errs, fmt.Sprintf("rarity[%d].recycleValue must be >= 0", i))
		}
		if i > 0 && r.Bonus <= cfg.Rarity[i-1].Bonus {
			errs = append(errs, fmt.Sprintf("rarity[%d].bonus must be greater than rarity[%d].bonus", i, i-1))
		}
	}
	if len(cfg.Rarity) > 0 && cfg.Rarity[0].ID != gacha.Common {
		errs = append(errs, "rarity[0] must be common")
	}

	// pools
	if len(cfg.Pools) == 0 {
		errs = append(errs, "pools must not be empty")
	}
	for i, p := range cfg.Pools {
		if p.ID == "" {
			errs = append(errs, fmt.Sprintf("pools[%d].id is required", i))
		}
		if len(p.Items) == 0 {
			errs = append(errs, fmt.Sprintf("pools[%d].items must not be empty", i))
		}
		if p.Weight != nil && *p.Weight < 0 {
			errs = append(errs, fmt.Sprintf("pools[%d].weight must be >= 0", i))
		}
		switch p.Currency {
		case Gold, Ticket:
		default:
			errs = append(errs, fmt.Sprintf("pools[%d].currency must be gold or ticket", i))
		}
	}

	// affixes
	for i, a := range cfg.Affixes {
		if a.ID == "" {
			errs = append(errs, fmt.Sprintf("affixes[%d].id is required", i))
		}
		if a.Cost < 0 {
			errs = append(errs, fmt.Sprintf("affixes[%d].cost must be >= 0", i))
		}
		if a.Weight < 0 {
			errs = append(errs, fmt.Sprintf("affixes[%d].weight must be >= 0", i))
		}
	}

	// stages
	if len(cfg.Stages) == 0 {
		errs = append(errs, "stages must not be empty")
	}
	for i, s := range cfg.Stages {
		if s.InventorySize <= 0 {
			errs = append(errs, fmt.Sprintf("stages[%d].inventorySize must be >= 1", i))
		}
		if s.OrderSlots < 0 {
			errs = append(errs, fmt.Sprintf("stages[%d].orderSlots must be >= 0", i))
		}
		if s.PoolSize <= 0 {
			errs = append(errs, fmt.Sprintf("stages[%d].poolSize must be >= 1", i))
		}
		if s.AllowedPoolCount <= 0 {
			errs = append(errs, fmt.Sprintf("stages[%d].allowedPoolCount must be >= 1", i))
		}
		if s.FixedPrice != nil && *s.FixedPrice < 0 {
			errs = append(errs, fmt.Sprintf("stages[%d].fixedPrice must be >= 0", i))
		}
		for _, m := range []struct {
			name string
			w    map[string]float64
		}{{"rarityWeights", s.RarityWeights}, {"orderRarityWeights", s.OrderRarityWeights}} {
			for id, w := range m.w {
				if w < 0 {
					errs = append(errs, fmt.Sprintf("stages[%d].%s.%s must be >= 0", i, m.name, id))
				}
				if id == gacha.Mythic && w > 0 {
					errs = append(errs, fmt.Sprintf("stages[%d].%s.mythic must be 0", i, m.name))
				}
			}
		}
		for k, w := range s.OrderCountWeights {
			if k != "2" && k != "3" && k != "4" {
				errs = append(errs, fmt.Sprintf("stages[%d].orderCountWeights key %q must be 2, 3 or 4", i, k))
			}
			if w < 0 {
				errs = append(errs, fmt.Sprintf("stages[%d].orderCountWeights.%s must be >= 0", i, k))
			}
		}
		if len(s.PriceRange) > 2 {
			errs = append(errs, fmt.Sprintf("stages[%d].priceRange must have at most 2 entries", i))
		}
	}

	// global
	g := cfg.Global
	if g.RefreshCost < 0 {
		errs = append(errs, "global.refreshCost must be >= 0")
	}
	if g.InitialGold < 0 || g.InitialTickets < 0 {
		errs = append(errs, "global.initialGold and global.initialTickets must be >= 0")
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"mainlineChance", g.MainlineChance},
		{"mainlineDropRate", g.MainlineDropRate},
		{"mainlineFillerLegendaryRate", g.MainlineFillerLegendaryRate},
	} {
		if p.v < 0 || p.v > 1 {
			errs = append(errs, fmt.Sprintf("global.%s must be in [0,1]", p.name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
