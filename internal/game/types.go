// types.go
package game

// Raw config loaded from YAML (or JSON); mirrors the document schema.
// Top-level sections are nil when absent so a partial document can be
// layered over the default one.
type RawConfig struct {
	Rarity          []RarityTier      `yaml:"rarity,omitempty" json:"rarity,omitempty"`
	Pools           []PoolDefinition  `yaml:"pools,omitempty" json:"pools,omitempty"`
	Stages          []StageConfig     `yaml:"stages,omitempty" json:"stages,omitempty"`
	Affixes         []AffixDefinition `yaml:"affixes,omitempty" json:"affixes,omitempty"`
	EnabledSkillIDs []string          `yaml:"enabledSkillIds,omitempty" json:"enabledSkillIds,omitempty"`
	MainlineItems   []MainlineItem    `yaml:"mainlineItems,omitempty" json:"mainlineItems,omitempty"`
	Global          *RawGlobal        `yaml:"global,omitempty" json:"global,omitempty"`
}

// RawGlobal holds the optional global knobs; nil means "inherit".
type RawGlobal struct {
	RefreshCost                 *int          `yaml:"refreshCost,omitempty" json:"refreshCost,omitempty"`
	InitialGold                 *int          `yaml:"initialGold,omitempty" json:"initialGold,omitempty"`
	InitialTickets              *int          `yaml:"initialTickets,omitempty" json:"initialTickets,omitempty"`
	MainlineChance              *float64      `yaml:"mainlineChance,omitempty" json:"mainlineChance,omitempty"`
	MainlineDropRate            *float64      `yaml:"mainlineDropRate,omitempty" json:"mainlineDropRate,omitempty"`
	MainlineFillerLegendaryRate *float64      `yaml:"mainlineFillerLegendaryRate,omitempty" json:"mainlineFillerLegendaryRate,omitempty"`
	MainlinePoolCost            *int          `yaml:"mainlinePoolCost,omitempty" json:"mainlinePoolCost,omitempty"`
	SkillBonuses                *SkillBonuses `yaml:"skillBonuses,omitempty" json:"skillBonuses,omitempty"`
}

// RarityTier is one rung of the fixed rarity ladder.
type RarityTier struct {
	ID           string  `yaml:"id" json:"id"`
	Name         string  `yaml:"name" json:"name"`
	Bonus        float64 `yaml:"bonus" json:"bonus"`
	RecycleValue int     `yaml:"recycleValue" json:"recycleValue"`
	Prob         float64 `yaml:"prob,omitempty" json:"prob,omitempty"` // display only
}

// ItemTemplate is an item a pool can hand out.
type ItemTemplate struct {
	Name string `yaml:"name" json:"name"`
	Icon string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// PoolDefinition is a pool category in the document.
type PoolDefinition struct {
	ID       string         `yaml:"id" json:"id"`
	Name     string         `yaml:"name" json:"name"`
	Type     string         `yaml:"type,omitempty" json:"type,omitempty"`
	Weight   *float64       `yaml:"weight,omitempty" json:"weight,omitempty"` // nil => 1
	Currency Currency       `yaml:"currency,omitempty" json:"currency,omitempty"`
	Icon     string         `yaml:"icon,omitempty" json:"icon,omitempty"`
	Items    []ItemTemplate `yaml:"items" json:"items"`
}

// AffixDefinition is one entry of the affix table.
type AffixDefinition struct {
	ID     string  `yaml:"id" json:"id"`
	Name   string  `yaml:"name" json:"name"`
	Desc   string  `yaml:"desc,omitempty" json:"desc,omitempty"`
	Type   string  `yaml:"type,omitempty" json:"type,omitempty"` // "passive" | "interaction"
	Weight float64 `yaml:"weight" json:"weight"`
	Cost   int     `yaml:"cost" json:"cost"`
}

// Mechanics are the per-stage feature flags.
type Mechanics struct {
	Refresh        bool `yaml:"refresh" json:"refresh"`
	Affixes        bool `yaml:"affixes" json:"affixes"`
	Synthesis      bool `yaml:"synthesis" json:"synthesis"`
	VariablePrice  bool `yaml:"variablePrice" json:"variablePrice"`
	Entropy        bool `yaml:"entropy,omitempty" json:"entropy,omitempty"`
	Specialization bool `yaml:"specialization,omitempty" json:"specialization,omitempty"`
}

// StageConfig is one difficulty stage; its index is the progress level.
type StageConfig struct {
	ID               int    `yaml:"id" json:"id"`
	Name             string `yaml:"name" json:"name"`
	Desc             string `yaml:"desc,omitempty" json:"desc,omitempty"`
	InventorySize    int    `yaml:"inventorySize" json:"inventorySize"`
	OrderSlots       int    `yaml:"orderSlots" json:"orderSlots"`
	PoolSize         int    `yaml:"poolSize" json:"poolSize"`
	AllowedPoolCount int    `yaml:"allowedPoolCount" json:"allowedPoolCount"`
	FixedPrice       *int   `yaml:"fixedPrice" json:"fixedPrice"` // nil => variable pricing
	PriceRange       []int  `yaml:"priceRange,omitempty" json:"priceRange,omitempty"`

	RarityWeights      map[string]float64 `yaml:"rarityWeights" json:"rarityWeights"`
	OrderRarityWeights map[string]float64 `yaml:"orderRarityWeights,omitempty" json:"orderRarityWeights,omitempty"`
	OrderCountWeights  map[string]float64 `yaml:"orderCountWeights,omitempty" json:"orderCountWeights,omitempty"` // "2".."4"
	BaseRewards        map[string]int     `yaml:"baseRewards,omitempty" json:"baseRewards,omitempty"`
	OrderRewardType    Currency           `yaml:"orderRewardType,omitempty" json:"orderRewardType,omitempty"`

	InitialGold       *int     `yaml:"initialGold,omitempty" json:"initialGold,omitempty"`
	MainlineChance    *float64 `yaml:"mainlineChance,omitempty" json:"mainlineChance,omitempty"`
	MainlineReqCount  int      `yaml:"mainlineReqCount,omitempty" json:"mainlineReqCount,omitempty"`
	MainlineReqRarity string   `yaml:"mainlineReqRarity,omitempty" json:"mainlineReqRarity,omitempty"`

	DecayUses         int `yaml:"decayUses,omitempty" json:"decayUses,omitempty"`
	SpecializationCap int `yaml:"specializationCap,omitempty" json:"specializationCap,omitempty"`

	Mechanics Mechanics `yaml:"mechanics" json:"mechanics"`
	Unlocks   []string  `yaml:"unlocks,omitempty" json:"unlocks,omitempty"`
}

// SkillBonus is a flat payout in one currency.
type SkillBonus struct {
	Amount   int      `yaml:"amount" json:"amount"`
	Currency Currency `yaml:"currency" json:"currency"`
}

// SkillBonuses holds the flat skill payouts that have varied between
// balance passes; none of them is hardcoded in the engine.
type SkillBonuses struct {
	PovertyRelief SkillBonus `yaml:"povertyRelief" json:"povertyRelief"`
	BigOrder      SkillBonus `yaml:"bigOrder" json:"bigOrder"`
	HardOrder     SkillBonus `yaml:"hardOrder" json:"hardOrder"`
	HardOrderTier string     `yaml:"hardOrderTier" json:"hardOrderTier"`
	Alchemy       SkillBonus `yaml:"alchemy" json:"alchemy"`
}

// MainlineItem is a progression target obtainable from mainline pools.
type MainlineItem struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Icon   string `yaml:"icon,omitempty" json:"icon,omitempty"`
	PoolID string `yaml:"poolId" json:"poolId"`
	Desc   string `yaml:"desc,omitempty" json:"desc,omitempty"`
}

// Global is the normalized global section.
type Global struct {
	RefreshCost                 int          `json:"refreshCost"`
	InitialGold                 int          `json:"initialGold"`
	InitialTickets              int          `json:"initialTickets"`
	MainlineChance              float64      `json:"mainlineChance"`
	MainlineDropRate            float64      `json:"mainlineDropRate"`
	MainlineFillerLegendaryRate float64      `json:"mainlineFillerLegendaryRate"`
	MainlinePoolCost            int          `json:"mainlinePoolCost"`
	SkillBonuses                SkillBonuses `json:"skillBonuses"`
}

// Config is the normalized document the engine runs on.
type Config struct {
	Rarity          []RarityTier      `json:"rarity"`
	Pools           []PoolDefinition  `json:"pools"`
	Stages          []StageConfig     `json:"stages"`
	Affixes         []AffixDefinition `json:"affixes"`
	EnabledSkillIDs []string          `json:"enabledSkillIds"`
	MainlineItems   []MainlineItem    `json:"mainlineItems"`
	Global          Global            `json:"global"`
}
