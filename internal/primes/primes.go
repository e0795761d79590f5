package primes

// Package primes enumerates small primes for the factoring stages. The sieve
// is a plain odd-only Eratosthenes; every bound used in this repository stays
// below a few million, where segmented sieving buys nothing.

import "math"

// Each calls fn on every prime strictly below limit, in increasing order,
// stopping early when fn returns false.
func Each(limit uint64, fn func(uint64) bool) {
	if limit > 2 && !fn(2) {
		return
	}
	if limit <= 3 {
		return
	}
	// composite[i] marks the odd number 2i+3.
	n := (limit - 2) / 2
	composite := make([]bool, n)
	for i := uint64(0); i < n; i++ {
		if composite[i] {
			continue
		}
		p := 2*i + 3
		if !fn(p) {
			return
		}
		for j := (p*p - 3) / 2; j < n; j += p {
			composite[j] = true
		}
	}
}

// Below returns all primes strictly below limit, in increasing order.
func Below(limit uint64) []uint64 {
	out := make([]uint64, 0, approxCount(limit))
	Each(limit, func(p uint64) bool {
		out = append(out, p)
		return true
	})
	return out
}

// approxCount overshoots pi(limit) a little so Below rarely grows its slice.
func approxCount(limit uint64) int {
	if limit < 17 {
		return 8
	}
	l := float64(limit)
	return int(l/(math.Log(l)-1.2)) + 8
}
