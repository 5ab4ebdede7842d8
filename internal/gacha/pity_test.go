package gacha_test

import (
	"testing"

	"github.com/xtding233/order-gacha/internal/gacha"
)

func TestPitySystem(t *testing.T) {
	ps := gacha.NewPitySystem(5, 0)

	// first 4 misses should not trigger
	for i := 0; i < 4; i++ {
		if ps.Record(true) {
			t.Fatalf("should not trigger before pity, i=%d", i)
		}
	}
	// the 5th miss triggers
	if !ps.Record(true) {
		t.Fatalf("expected trigger at 5th miss")
	}
	if ps.Count != 0 {
		t.Fatalf("count should reset after trigger; got %d", ps.Count)
	}
}

func TestPityHitResets(t *testing.T) {
	ps := gacha.NewPitySystem(3, 2)
	if ps.Record(false) {
		t.Fatal("hit must not trigger")
	}
	if ps.Count != 0 {
		t.Fatalf("count = %d, want 0", ps.Count)
	}
}

func TestPityDisabledKeepsCounting(t *testing.T) {
	ps := gacha.NewPitySystem(0, 0)
	for i := 0; i < 10; i++ {
		if ps.Record(true) {
			t.Fatal("disabled pity must never trigger")
		}
	}
	if ps.Count != 10 {
		t.Fatalf("count = %d, want 10", ps.Count)
	}
	// enabling later fires on the next miss
	ps.Pity = 5
	if !ps.Record(true) {
		t.Fatal("expected trigger once threshold is set below count")
	}
}
