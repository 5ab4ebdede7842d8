package gacha

// WeightedIndex picks an index with probability weights[i] / sum(weights).
// Non-positive weights are never picked. Returns -1 when no weight is positive.
//
// The draw is uniform in [0, total); tiers are walked in order, accumulating
// weight until the draw value is covered.
func WeightedIndex(weights []float64, rng RandomSource) int {
	total := 0.0
	last := -1
	for i, w := range weights {
		if w > 0 {
			total += w
			last = i
		}
	}
	if last < 0 {
		return -1
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	r := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if r < acc {
			return i
		}
	}
	// float rounding on the last bucket
	return last
}

// WeightedSample draws k distinct indices without replacement, each step
// weighted by the remaining weights. Fewer than k indices are returned when
// the positive-weight candidates run out.
func WeightedSample(weights []float64, k int, rng RandomSource) []int {
	if k <= 0 {
		return nil
	}
	remaining := append([]float64(nil), weights...)
	out := make([]int, 0, k)
	for len(out) < k {
		i := WeightedIndex(remaining, rng)
		if i < 0 {
			break
		}
		out = append(out, i)
		remaining[i] = 0
	}
	return out
}

// SampleIndices draws k distinct indices uniformly from [0, n) using a
// partial Fisher-Yates shuffle. k is clamped to n.
func SampleIndices(n, k int, rng RandomSource) []int {
	if n <= 0 || k <= 0 {
		return nil
	}
	if k > n {
		k = n
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + IntN(rng, n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}

// Sample returns k distinct elements of items chosen uniformly.
func Sample[T any](items []T, k int, rng RandomSource) []T {
	picked := SampleIndices(len(items), k, rng)
	out := make([]T, 0, len(picked))
	for _, i := range picked {
		out = append(out, items[i])
	}
	return out
}

// Pick returns one uniform element; ok is false for an empty slice.
func Pick[T any](items []T, rng RandomSource) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[IntN(rng, len(items))], true
}

// Shuffle permutes items in place.
func Shuffle[T any](items []T, rng RandomSource) {
	for i := len(items) - 1; i > 0; i-- {
		j := IntN(rng, i+1)
		items[i], items[j] = items[j], items[i]
	}
}
