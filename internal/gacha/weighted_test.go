package gacha_test

import (
	"testing"

	"github.com/xtding233/order-gacha/internal/gacha"
)

func TestWeightedIndexSkipsZero(t *testing.T) {
	rng := gacha.NewSeededRNG(7)
	w := []float64{0, 3, 0, 1}
	for i := 0; i < 1000; i++ {
		got := gacha.WeightedIndex(w, rng)
		if got != 1 && got != 3 {
			t.Fatalf("picked zero-weight index %d", got)
		}
	}
	if got := gacha.WeightedIndex([]float64{0, 0}, rng); got != -1 {
		t.Fatalf("all-zero weights = %d, want -1", got)
	}
}

func TestWeightedIndexBoundaries(t *testing.T) {
	w := []float64{1, 1}
	if got := gacha.WeightedIndex(w, &gacha.Scripted{Values: []float64{0.49}}); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
	if got := gacha.WeightedIndex(w, &gacha.Scripted{Values: []float64{0.5}}); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
}

func TestWeightedSampleDistinct(t *testing.T) {
	rng := gacha.NewSeededRNG(3)
	for trial := 0; trial < 200; trial++ {
		got := gacha.WeightedSample([]float64{1, 2, 0, 4}, 3, rng)
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		seen := map[int]bool{}
		for _, i := range got {
			if i == 2 {
				t.Fatal("zero weight sampled")
			}
			if seen[i] {
				t.Fatalf("duplicate index %d in %v", i, got)
			}
			seen[i] = true
		}
	}
	if got := gacha.WeightedSample([]float64{1, 0}, 2, rng); len(got) != 1 {
		t.Fatalf("expected exhaustion after 1 pick, got %v", got)
	}
}

func TestSampleIndicesDistinct(t *testing.T) {
	rng := gacha.NewSeededRNG(9)
	got := gacha.SampleIndices(5, 10, rng)
	if len(got) != 5 {
		t.Fatalf("k should clamp to n; got %d", len(got))
	}
	seen := map[int]bool{}
	for _, i := range got {
		if i < 0 || i >= 5 || seen[i] {
			t.Fatalf("bad sample %v", got)
		}
		seen[i] = true
	}
}
