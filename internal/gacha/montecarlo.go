package gacha

import (
	"math"
	"sort"
)

// SimParams describes the roll mechanics for one simulation run.
type SimParams struct {
	Weights map[string]float64 // stage rarity weights
	Options RollOptions        // affix / lucky_7 / gold used on every roll
	Target  string             // tier counted as a hit for GoalFirstHit
	// MaxDraws caps a single GoalFirstHit trial so unreachable targets end.
	// <= 0 defaults to 10000.
	MaxDraws int
}

// Stats summarizes simulation results.
type Stats struct {
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	// Capped counts trials that hit MaxDraws without reaching the target.
	Capped int
	// Optional: raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	// mean
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)
	stddev := math.Sqrt(variance)

	// percentiles
	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 {
			return float64(cp[0])
		}
		if p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  stddev,
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// drawsUntil returns the number of rolls until Target appears, or MaxDraws.
func drawsUntil(p SimParams, rng RandomSource) (int, bool) {
	limit := p.MaxDraws
	if limit <= 0 {
		limit = 10000
	}
	for draws := 1; draws <= limit; draws++ {
		if RollRarity(p.Weights, p.Options, rng) == p.Target {
			return draws, true
		}
	}
	return limit, false
}

// RunMonteCarlo repeats first-hit trials and returns summary stats.
func RunMonteCarlo(p SimParams, trials int, rng RandomSource) Stats {
	if trials <= 0 {
		return Stats{}
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	samples := make([]int, trials)
	capped := 0
	for i := 0; i < trials; i++ {
		v, ok := drawsUntil(p, rng)
		if !ok {
			capped++
		}
		samples[i] = v
	}
	st := calcStats(samples)
	st.Capped = capped
	return st
}

// TierFrequencies rolls n times and returns the observed share per tier id.
func TierFrequencies(p SimParams, n int, rng RandomSource) map[string]float64 {
	out := make(map[string]float64)
	if n <= 0 {
		return out
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	counts := make(map[string]int)
	for i := 0; i < n; i++ {
		counts[RollRarity(p.Weights, p.Options, rng)]++
	}
	for id, c := range counts {
		out[id] = float64(c) / float64(n)
	}
	return out
}
