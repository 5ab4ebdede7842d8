package gacha

// PitySystem counts consecutive misses and fires once the threshold is
// reached. Unlike a classic hard pity it does not force the hit itself: the
// caller turns Record's true return into whatever guarantee it grants.
type PitySystem struct {
	Pity  int // threshold of consecutive misses
	Count int // misses since last hit or trigger
}

// NewPitySystem creates a counter with the given threshold and starting count.
func NewPitySystem(pity, count int) *PitySystem {
	if count < 0 {
		count = 0
	}
	return &PitySystem{Pity: pity, Count: count}
}

// Record registers one draw outcome.
// - A hit resets Count to 0.
// - A miss increments Count; reaching Pity resets Count and returns true.
// - Pity <= 0 never triggers.
func (ps *PitySystem) Record(miss bool) bool {
	if !miss {
		ps.Count = 0
		return false
	}
	ps.Count++
	if ps.Pity > 0 && ps.Count >= ps.Pity {
		ps.Count = 0
		return true
	}
	return false
}
