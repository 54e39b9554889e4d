package rng

import (
	"testing"

	"pgregory.net/rapid"
)

func TestRngDeterministic(t *testing.T) {
	a := New(0x12345678)
	b := New(0x12345678)
	for i := 0; i < 100; i++ {
		if a.RandRaw() != b.RandRaw() {
			t.Fatalf("divergence at draw %d", i)
		}
	}
}

func TestRandIntBounds(t *testing.T) {
	r := New(1)
	for i := 0; i < 1000; i++ {
		v := r.RandInt(7)
		if v >= 7 {
			t.Fatalf("RandInt(7) returned %d", v)
		}
	}
}

func TestRandIntZeroNeverPanics(t *testing.T) {
	r := New(1)
	if got := r.RandInt(0); got != 0 {
		t.Fatalf("RandInt(0) = %d, want 0", got)
	}
}

func TestRandIndexWeightAllZero(t *testing.T) {
	r := New(42)
	_, ok := r.RandIndexWeight([]uint32{0, 0, 0})
	if ok {
		t.Fatal("expected ok=false for all-zero weights")
	}
	_, ok = r.RandIndexWeight(nil)
	if ok {
		t.Fatal("expected ok=false for empty weights")
	}
}

func TestRandIndexWeightDistributionSanity(t *testing.T) {
	r := New(7)
	weights := []uint32{1, 0, 9}
	counts := make([]int, len(weights))
	for i := 0; i < 10000; i++ {
		idx, ok := r.RandIndexWeight(weights)
		if !ok {
			t.Fatal("unexpected ok=false")
		}
		counts[idx]++
	}
	if counts[1] != 0 {
		t.Fatalf("zero-weight index was chosen %d times", counts[1])
	}
	if counts[2] < counts[0] {
		t.Fatalf("heavier weight chosen less often: %v", counts)
	}
}

func TestRandSwapsPreservesMultiset(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Uint32().Draw(t, "seed")
		n := rapid.IntRange(0, 20).Draw(t, "n")
		v := make([]int, n)
		for i := range v {
			v[i] = i
		}
		before := append([]int(nil), v...)
		RandSwaps(New(seed), v)
		seen := make(map[int]bool, n)
		for _, x := range v {
			seen[x] = true
		}
		for _, x := range before {
			if !seen[x] {
				t.Fatalf("element %d lost during RandSwaps", x)
			}
		}
	})
}

func TestRandBacksNOnlyTouchesTail(t *testing.T) {
	r := New(99)
	v := []int{0, 1, 2, 3, 4, 5}
	head := append([]int(nil), v[:4]...)
	RandBacksN(r, v, 2)
	for i, want := range head {
		if v[i] != want {
			t.Fatalf("RandBacksN touched head element %d: got %d want %d", i, v[i], want)
		}
	}
}
