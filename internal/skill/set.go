package skill

import (
	"github.com/xtding233/order-gacha/internal/advisory"
	"github.com/xtding233/order-gacha/internal/gacha"
)

// MaxHeld is how many skills a player can hold at once.
const MaxHeld = 3

// OfferSize is how many candidates a skill offer shows.
const OfferSize = 3

// Set is the ordered list of held skill ids. Methods never mutate the
// receiver; they return a new Set.
type Set []string

// NewSet keeps the known, distinct ids in order, up to MaxHeld.
func NewSet(ids ...string) Set {
	var s Set
	for _, id := range ids {
		if len(s) == MaxHeld {
			break
		}
		if _, ok := Lookup(id); !ok || s.Has(id) {
			continue
		}
		s = append(s, id)
	}
	return s
}

// Has reports whether id is held.
func (s Set) Has(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Full reports whether no slot is free.
func (s Set) Full() bool { return len(s) >= MaxHeld }

// With returns the set with id appended.
func (s Set) With(id string) (Set, error) {
	if s.Has(id) {
		return s, advisory.New(advisory.CodeInvalidChoice, "skill already held")
	}
	if s.Full() {
		return s, advisory.New(advisory.CodeSkillSlotsFull, "skill slots are full")
	}
	out := append(Set(nil), s...)
	return append(out, id), nil
}

// Replace swaps oldID for newID in place, keeping the order.
func (s Set) Replace(oldID, newID string) (Set, error) {
	if s.Has(newID) {
		return s, advisory.New(advisory.CodeInvalidChoice, "skill already held")
	}
	out := append(Set(nil), s...)
	for i, v := range out {
		if v == oldID {
			out[i] = newID
			return out, nil
		}
	}
	return s, advisory.WithMetadata(advisory.CodeInvalidChoice, "skill to replace is not held",
		map[string]string{"skill": oldID})
}

// Eligible lists catalogue skills that may be offered at progress: enabled
// by the document, not held, and not gated above progress.
func Eligible(progress int, enabled []string, held Set) []Definition {
	on := make(map[string]bool, len(enabled))
	for _, id := range enabled {
		on[id] = true
	}
	var out []Definition
	for _, d := range Catalogue {
		if !on[d.ID] || held.Has(d.ID) || d.MinProgress > progress {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Offer draws up to OfferSize distinct eligible skills.
func Offer(progress int, enabled []string, held Set, rng gacha.RandomSource) []Definition {
	return gacha.Sample(Eligible(progress, enabled, held), OfferSize, rng)
}
