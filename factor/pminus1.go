package factor

import (
	"errors"
	"math/big"
	"time"

	"smoothlog/internal/primes"
	"smoothlog/measure"
)

var (
	// ErrNoFactor means the scan exhausted its bound without a nontrivial
	// factor. Whether to retry with a larger bound is the caller's choice.
	ErrNoFactor = errors.New("factor: no factor found within bound")
	// ErrBudget means the deadline expired before the bound was exhausted.
	ErrBudget = errors.New("factor: time budget exhausted")
)

// PMinus1Opts bounds a single Pollard p-1 attempt.
type PMinus1Opts struct {
	// Bound is the smoothness bound B. For every prime p < B the accumulator
	// is raised to the largest power of p below B.
	Bound uint64
	// Deadline, when non-zero, aborts the scan between prime steps.
	Deadline time.Time
}

// PollardPMinus1 looks for a nontrivial factor d of n with 1 < d < n by
// exploiting a prime factor p of n whose predecessor p-1 is B-smooth. Bound
// exhaustion returns ErrNoFactor, as do the degenerate runs where the
// accumulator collapses to 0 or 1 or the gcd jumps straight to n (all of n's
// factors hit at once). The scan is deterministic for fixed inputs.
func PollardPMinus1(n *big.Int, opts PMinus1Opts) (*big.Int, error) {
	if n.Cmp(big.NewInt(4)) < 0 {
		return nil, ErrNoFactor
	}
	if n.Bit(0) == 0 {
		return big.NewInt(2), nil
	}

	a := big.NewInt(2)
	e := new(big.Int)
	am1 := new(big.Int)
	g := new(big.Int)

	var (
		found    *big.Int
		deadline bool
		steps    int64
	)
	primes.Each(opts.Bound, func(p uint64) bool {
		if !opts.Deadline.IsZero() && time.Now().After(opts.Deadline) {
			deadline = true
			return false
		}
		steps++
		// Largest pk = p^(k-1) < B folds the whole multiplicity p can have
		// in a B-smooth predecessor into one exponentiation.
		pk := p
		for pk <= (opts.Bound-1)/p {
			pk *= p
		}
		a.Exp(a, e.SetUint64(pk), n)
		if a.Sign() == 0 || a.Cmp(one) == 0 {
			return false
		}
		g.GCD(nil, nil, am1.Sub(a, one), n)
		if g.Cmp(one) > 0 {
			if g.Cmp(n) < 0 {
				found = new(big.Int).Set(g)
			}
			return false
		}
		return true
	})
	if measure.Enabled {
		measure.Global.Add("factor/pminus1/prime_steps", steps)
	}

	switch {
	case found != nil:
		return found, nil
	case deadline:
		return nil, ErrBudget
	default:
		return nil, ErrNoFactor
	}
}
