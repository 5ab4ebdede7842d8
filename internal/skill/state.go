package skill

import "github.com/xtding233/order-gacha/internal/gacha"

// ConsolationThreshold is the all-common draw streak that arms consolation_prize.
const ConsolationThreshold = 5

// State is the ephemeral per-session skill bookkeeping.
type State struct {
	ConsecutiveCommons     int  `json:"consecutiveCommons"`
	NextDrawGuaranteedRare bool `json:"nextDrawGuaranteedRare"`
	NextDrawExtraItem      bool `json:"nextDrawExtraItem"`
}

// AfterDraw settles one completed draw: both one-shot flags are consumed
// and the all-common streak is advanced. It reports whether
// consolation_prize armed the guaranteed-rare flag.
func AfterDraw(held Set, st State, tiers []string) (State, bool) {
	allCommon := true
	for _, t := range tiers {
		if t != gacha.Common {
			allCommon = false
			break
		}
	}
	threshold := 0
	if held.Has(ConsolationPrize) {
		threshold = ConsolationThreshold
	}
	streak := gacha.NewPitySystem(threshold, st.ConsecutiveCommons)
	fired := streak.Record(allCommon)

	return State{
		ConsecutiveCommons:     streak.Count,
		NextDrawGuaranteedRare: fired,
	}, fired
}

// OnOrderComplete arms the flags granted by auto_restock and turn_fortune.
func OnOrderComplete(held Set, st State) State {
	if held.Has(AutoRestock) {
		st.NextDrawExtraItem = true
	}
	if held.Has(TurnFortune) {
		st.NextDrawGuaranteedRare = true
	}
	return st
}
