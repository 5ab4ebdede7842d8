package order

import (
	"slices"
	"sort"

	"github.com/xtding233/order-gacha/internal/game"
	"github.com/xtding233/order-gacha/internal/skill"
)

// MainlineIndex marks the mainline order in a Result.
const MainlineIndex = -1

// Context carries what reward computation reads besides the hand.
type Context struct {
	Held    skill.Set
	Gold    int // balance before the reward is credited
	Ladder  game.Ladder
	Bonuses game.SkillBonuses
}

// Result is one satisfiable order and what completing it pays.
type Result struct {
	OrderIndex  int            `json:"orderIndex"` // MainlineIndex for the mainline order
	IsMainline  bool           `json:"isMainline"`
	OrderID     string         `json:"orderId"`
	RewardType  game.Currency  `json:"rewardType"`
	Multiplier  float64        `json:"multiplier"`
	SamePool    bool           `json:"samePool,omitempty"`
	FinalReward int            `json:"finalReward"` // ceil(base*multiplier) plus poverty relief
	Relief      int            `json:"relief,omitempty"`
	Extras      []skill.Payout `json:"extras,omitempty"` // order-expert payouts, credited separately
	Slots       []int          `json:"slots"`            // inventory slots the order consumes
	ReqCount    int            `json:"reqCount"`
}

type handItem struct {
	slot int
	item *game.Item
}

// hand groups selected items by name, each group best-first.
type hand map[string][]handItem

func newHand(slots []*game.Item, selected []int) hand {
	h := make(hand)
	seen := make(map[int]bool, len(selected))
	for _, idx := range selected {
		if idx < 0 || idx >= len(slots) || seen[idx] {
			continue
		}
		seen[idx] = true
		it := slots[idx]
		if it == nil || it.Spoiled() {
			continue
		}
		h[it.Name] = append(h[it.Name], handItem{slot: idx, item: it})
	}
	for _, g := range h {
		sort.SliceStable(g, func(i, j int) bool { return g[i].item.Rarity.Bonus > g[j].item.Rarity.Bonus })
	}
	return h
}

func (h hand) clone() hand {
	c := make(hand, len(h))
	for k, v := range h {
		c[k] = append([]handItem(nil), v...)
	}
	return c
}

// take assigns the order's requirements from h. Requirements are served
// hardest first, each with the best remaining item of its name, which finds
// an assignment whenever one exists. h is consumed only on success.
func (h hand) take(o *game.Order) ([]handItem, bool) {
	work := h.clone()
	order := make([]int, len(o.Requirements))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return o.Requirements[order[a]].RequiredRarity.Bonus > o.Requirements[order[b]].RequiredRarity.Bonus
	})

	used := make([]handItem, 0, len(order))
	for _, ri := range order {
		req := o.Requirements[ri]
		group := work[req.Name]
		if len(group) == 0 || group[0].item.Rarity.Bonus < req.RequiredRarity.Bonus {
			return nil, false
		}
		used = append(used, group[0])
		work[req.Name] = group[1:]
	}
	for k, v := range work {
		h[k] = v
	}
	return used, true
}

func (c Context) price(o *game.Order, index int, used []handItem) Result {
	sum := 0.0
	slots := make([]int, 0, len(used))
	for _, u := range used {
		sum += u.item.Rarity.Bonus
		slots = append(slots, u.slot)
	}
	slices.Sort(slots)

	mult := 1 + sum
	same := skill.SamePoolDoubles(c.Held, o.Requirements)
	if same {
		mult *= 2
	}
	r := Result{
		OrderIndex:  index,
		IsMainline:  o.IsMainline,
		OrderID:     o.ID,
		RewardType:  o.RewardType,
		Multiplier:  mult,
		SamePool:    same,
		FinalReward: ceilReward(float64(o.BaseReward) * mult),
		Slots:       slots,
		ReqCount:    len(o.Requirements),
	}
	r.Extras = skill.OrderBonuses(c.Held, o.Requirements, c.Ladder, c.Bonuses)
	if p, ok := skill.PovertyBonus(c.Held, c.Gold, o.RewardType, c.Bonuses); ok {
		if p.Currency == o.RewardType {
			r.FinalReward += p.Amount
			r.Relief = p.Amount
		} else {
			r.Extras = append(r.Extras, p)
		}
	}
	return r
}

// Evaluate lists every order the selection could satisfy on its own. Each
// order is checked against a fresh copy of the hand; nothing is mutated.
func Evaluate(orders []*game.Order, mainline *game.Order, slots []*game.Item, selected []int, c Context) []Result {
	if len(selected) == 0 {
		return nil
	}
	h := newHand(slots, selected)
	var out []Result
	check := func(o *game.Order, idx int) {
		if o == nil {
			return
		}
		if used, ok := h.clone().take(o); ok {
			out = append(out, c.price(o, idx, used))
		}
	}
	for i, o := range orders {
		check(o, i)
	}
	check(mainline, MainlineIndex)
	return out
}

// Commit resolves which orders a confirmed submission completes. Orders are
// taken in display order (mainline last) from one shared hand, so an item
// is never counted twice; the union of Result.Slots is what to remove.
func Commit(orders []*game.Order, mainline *game.Order, slots []*game.Item, selected []int, c Context) []Result {
	h := newHand(slots, selected)
	var out []Result
	commit := func(o *game.Order, idx int) {
		if o == nil {
			return
		}
		if used, ok := h.take(o); ok {
			out = append(out, c.price(o, idx, used))
		}
	}
	for i, o := range orders {
		commit(o, i)
	}
	commit(mainline, MainlineIndex)
	return out
}

// RecycleValue sums the refund of the selected slots.
func RecycleValue(slots []*game.Item, selected []int) int {
	total := 0
	for _, idx := range selected {
		if idx >= 0 && idx < len(slots) && slots[idx] != nil {
			total += slots[idx].Rarity.RecycleValue
		}
	}
	return total
}

// SelectedNames lists the item names of the selected slots.
func SelectedNames(slots []*game.Item, selected []int) []string {
	var out []string
	for _, idx := range selected {
		if idx >= 0 && idx < len(slots) && slots[idx] != nil {
			out = append(out, slots[idx].Name)
		}
	}
	return out
}

// AutoSelect returns the slots to add so the selection covers o. Already
// selected matching slots are reused first; missing requirements take the
// best unselected matching slot.
func AutoSelect(o *game.Order, slots []*game.Item, selected []int) []int {
	if o == nil {
		return nil
	}
	spare := append([]int(nil), selected...)
	taken := make(map[int]bool, len(selected))
	for _, idx := range selected {
		taken[idx] = true
	}
	fits := func(it *game.Item, req game.Requirement) bool {
		return it != nil && !it.Spoiled() && it.Name == req.Name && it.Rarity.Bonus >= req.RequiredRarity.Bonus
	}

	var add []int
	for _, req := range o.Requirements {
		reused := false
		for i, idx := range spare {
			if idx >= 0 && idx < len(slots) && fits(slots[idx], req) {
				spare = append(spare[:i], spare[i+1:]...)
				reused = true
				break
			}
		}
		if reused {
			continue
		}
		best := -1
		for idx, it := range slots {
			if taken[idx] || !fits(it, req) {
				continue
			}
			if best < 0 || it.Rarity.Bonus > slots[best].Rarity.Bonus {
				best = idx
			}
		}
		if best >= 0 {
			taken[best] = true
			add = append(add, best)
		}
	}
	return add
}
