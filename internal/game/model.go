package game

import "github.com/google/uuid"

// Currency a pool costs or an order pays in.
type Currency string

const (
	Gold   Currency = "gold"
	Ticket Currency = "ticket"
	None   Currency = "none"
)

// PoolType distinguishes ordinary category pools from mainline pools.
type PoolType string

const (
	PoolNormal   PoolType = "normal"
	PoolMainline PoolType = "mainline"
)

// NewUID returns a fresh item/order identifier.
func NewUID() string { return uuid.NewString() }

// Item is one owned (or offered) item instance.
type Item struct {
	UID            string     `json:"uid"`
	Name           string     `json:"name"`
	Icon           string     `json:"icon,omitempty"`
	PoolID         string     `json:"poolId"`
	PoolName       string     `json:"poolName"`
	Rarity         RarityTier `json:"rarity"`
	Sterile        bool       `json:"sterile,omitempty"`
	Decay          *int       `json:"decay,omitempty"` // only set while entropy is active
	IsMainlineItem bool       `json:"isMainlineItem,omitempty"`
	Overload       bool       `json:"overload,omitempty"` // held back by the specialization cap
}

// Clone returns a deep copy.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	c := *it
	if it.Decay != nil {
		d := *it.Decay
		c.Decay = &d
	}
	return &c
}

// WithRarity returns a new instance at another tier with a fresh uid.
func (it *Item) WithRarity(r RarityTier) *Item {
	c := it.Clone()
	c.Rarity = r
	c.UID = NewUID()
	return c
}

// Spoiled reports whether the item's decay has run out.
func (it *Item) Spoiled() bool {
	return it != nil && it.Decay != nil && *it.Decay <= 0
}

// Candidate is an item template together with the pool it belongs to.
type Candidate struct {
	ItemTemplate
	PoolID   string `json:"poolId"`
	PoolName string `json:"poolName"`
}

// Requirement is one line of an order.
type Requirement struct {
	Name           string     `json:"name"`
	Icon           string     `json:"icon,omitempty"`
	PoolID         string     `json:"poolId"`
	PoolName       string     `json:"poolName"`
	RequiredRarity RarityTier `json:"requiredRarity"`
}

// Order is a standing request for items.
type Order struct {
	ID                 string        `json:"id"`
	Requirements       []Requirement `json:"requirements"`
	BaseReward         int           `json:"baseReward"`
	RewardType         Currency      `json:"rewardType"`
	RemainingRefreshes int           `json:"remainingRefreshes"`
	IsMainline         bool          `json:"isMainline"`
	Level              int           `json:"level,omitempty"`
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Requirements = append([]Requirement(nil), o.Requirements...)
	return &c
}

// Pool is one of the active draw offers.
type Pool struct {
	ID           string           `json:"id"`
	DefinitionID string           `json:"definitionId"`
	Name         string           `json:"name"`
	Icon         string           `json:"icon,omitempty"`
	Type         PoolType         `json:"type"`
	Items        []ItemTemplate   `json:"items"`
	Weight       float64          `json:"weight"`
	Currency     Currency         `json:"currency"`
	Cost         int              `json:"cost"`
	Affix        *AffixDefinition `json:"affix,omitempty"`
	Target       *MainlineItem    `json:"target,omitempty"`
}

// AffixID returns the affix key or "".
func (p *Pool) AffixID() string {
	if p == nil || p.Affix == nil {
		return ""
	}
	return p.Affix.ID
}

// Ladder is the rarity ladder in its fixed order.
type Ladder []RarityTier

// Index returns the position of id or -1.
func (l Ladder) Index(id string) int {
	for i, r := range l {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the tier with the given id.
func (l Ladder) Find(id string) (RarityTier, bool) {
	if i := l.Index(id); i >= 0 {
		return l[i], true
	}
	return RarityTier{}, false
}

// MustFind returns the tier or the lowest tier when id is unknown.
func (l Ladder) MustFind(id string) RarityTier {
	if r, ok := l.Find(id); ok {
		return r
	}
	if len(l) > 0 {
		return l[0]
	}
	return RarityTier{ID: id}
}

// Next returns the tier right above id; ok is false at the ceiling.
func (l Ladder) Next(id string) (RarityTier, bool) {
	i := l.Index(id)
	if i < 0 || i+1 >= len(l) {
		return RarityTier{}, false
	}
	return l[i+1], true
}

// IsCeiling reports whether id is the top of the ladder.
func (l Ladder) IsCeiling(id string) bool {
	return len(l) > 0 && l[len(l)-1].ID == id
}
