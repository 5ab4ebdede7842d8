// resolve.go
package game

// Global defaults used when the document leaves a knob out.
const (
	DefaultRefreshCost                 = 5
	DefaultInitialGold                 = 30
	DefaultInitialTickets              = 0
	DefaultMainlineChance              = 0.5
	DefaultMainlineDropRate            = 0.3
	DefaultMainlineFillerLegendaryRate = 0.1
	DefaultMainlinePoolCost            = 10
)

// DefaultSkillBonuses is the payout table used when global.skillBonuses is absent.
var DefaultSkillBonuses = SkillBonuses{
	PovertyRelief: SkillBonus{Amount: 10, Currency: Gold},
	BigOrder:      SkillBonus{Amount: 10, Currency: Ticket},
	HardOrder:     SkillBonus{Amount: 15, Currency: Ticket},
	HardOrderTier: "epic",
	Alchemy:       SkillBonus{Amount: 5, Currency: Ticket},
}

// Resolver turns a document into the config the engine runs on.
type Resolver interface {
	// Resolve returns the merged RawConfig and its normalized Config.
	Resolve() (RawConfig, Config, error)
}

// Normalize fills every optional field with its default and returns the
// engine-facing Config. It does not validate.
func Normalize(raw RawConfig) Config {
	cfg := Config{
		Rarity:          append([]RarityTier(nil), raw.Rarity...),
		Pools:           make([]PoolDefinition, len(raw.Pools)),
		Stages:          append([]StageConfig(nil), raw.Stages...),
		Affixes:         append([]AffixDefinition(nil), raw.Affixes...),
		EnabledSkillIDs: append([]string(nil), raw.EnabledSkillIDs...),
		MainlineItems:   append([]MainlineItem(nil), raw.MainlineItems...),
		Global:          normalizeGlobal(raw.Global),
	}
	for i, p := range raw.Pools {
		if p.Currency == "" {
			p.Currency = Gold
		}
		if p.Type == "" {
			p.Type = string(PoolNormal)
		}
		cfg.Pools[i] = p
	}
	return cfg
}

func normalizeGlobal(g *RawGlobal) Global {
	out := Global{
		RefreshCost:                 DefaultRefreshCost,
		InitialGold:                 DefaultInitialGold,
		InitialTickets:              DefaultInitialTickets,
		MainlineChance:              DefaultMainlineChance,
		MainlineDropRate:            DefaultMainlineDropRate,
		MainlineFillerLegendaryRate: DefaultMainlineFillerLegendaryRate,
		MainlinePoolCost:            DefaultMainlinePoolCost,
		SkillBonuses:                DefaultSkillBonuses,
	}
	if g == nil {
		return out
	}
	if g.RefreshCost != nil {
		out.RefreshCost = *g.RefreshCost
	}
	if g.InitialGold != nil {
		out.InitialGold = *g.InitialGold
	}
	if g.InitialTickets != nil {
		out.InitialTickets = *g.InitialTickets
	}
	if g.MainlineChance != nil {
		out.MainlineChance = *g.MainlineChance
	}
	if g.MainlineDropRate != nil {
		out.MainlineDropRate = *g.MainlineDropRate
	}
	if g.MainlineFillerLegendaryRate != nil {
		out.MainlineFillerLegendaryRate = *g.MainlineFillerLegendaryRate
	}
	if g.MainlinePoolCost != nil {
		out.MainlinePoolCost = *g.MainlinePoolCost
	}
	if g.SkillBonuses != nil {
		out.SkillBonuses = *g.SkillBonuses
		if out.SkillBonuses.HardOrderTier == "" {
			out.SkillBonuses.HardOrderTier = DefaultSkillBonuses.HardOrderTier
		}
	}
	return out
}
