package primes

import "testing"

func TestBelowSmall(t *testing.T) {
	want := []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47,
		53, 59, 61, 67, 71, 73, 79, 83, 89, 97}
	got := Below(100)
	if len(got) != len(want) {
		t.Fatalf("primes below 100: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("prime %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBelowBounds(t *testing.T) {
	if got := Below(2); len(got) != 0 {
		t.Fatalf("below 2: got %v, want empty", got)
	}
	if got := Below(3); len(got) != 1 || got[0] != 2 {
		t.Fatalf("below 3: got %v, want [2]", got)
	}
	// 97 is prime, so the strict bound must exclude it at exactly 97.
	got := Below(97)
	if got[len(got)-1] != 89 {
		t.Fatalf("below 97 ends at %d, want 89", got[len(got)-1])
	}
}

func TestBelowCount(t *testing.T) {
	if got := len(Below(10000)); got != 1229 {
		t.Fatalf("pi(10000): got %d, want 1229", got)
	}
	if got := len(Below(1000000)); got != 78498 {
		t.Fatalf("pi(1000000): got %d, want 78498", got)
	}
}

func TestEachEarlyStop(t *testing.T) {
	var seen []uint64
	Each(1000, func(p uint64) bool {
		seen = append(seen, p)
		return len(seen) < 4
	})
	if len(seen) != 4 || seen[3] != 7 {
		t.Fatalf("early stop: got %v, want first four primes", seen)
	}
}
