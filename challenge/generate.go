package challenge

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"smoothlog/internal/primes"
	"smoothlog/measure"

	"github.com/tuneinsight/lattigo/v5/utils/factorization"
)

// GenOpts steers instance generation. Bits is the target modulus width; each
// prime is built around half of it. Bound caps every prime factor of p-1 and
// q-1, which is exactly what makes the instance fall to Pollard's p-1.
type GenOpts struct {
	Bits  int
	Bound uint64
	Flag  string
	Base  *big.Int // nil means 3, the base the puzzle family fixes
	// MaxTrials caps prime-candidate attempts before giving up.
	// Zero means DefaultGenTrials.
	MaxTrials int
}

const DefaultGenTrials = 1 << 14

var errNoSmoothPrime = errors.New("challenge: smooth prime search exhausted its trial budget")

// Generate fabricates an instance: two distinct smooth primes p and q with
// every factor of p-1 and q-1 below opts.Bound, n = p*q, and
// c = base^m mod n where m encodes opts.Flag. Randomness is drawn from rnd so
// callers can pin instances for reproduction.
func Generate(opts GenOpts, rnd io.Reader) (Challenge, Secret, error) {
	if opts.Bits < 16 {
		return Challenge{}, Secret{}, fmt.Errorf("challenge: modulus width %d too small, need at least 16 bits", opts.Bits)
	}
	if opts.Bound < 5 {
		return Challenge{}, Secret{}, fmt.Errorf("challenge: smoothness bound %d too small, need at least 5", opts.Bound)
	}
	if opts.Flag == "" {
		return Challenge{}, Secret{}, errors.New("challenge: empty flag")
	}
	base := opts.Base
	if base == nil {
		base = big.NewInt(3)
	}
	m := EncodeFlag(opts.Flag)
	if m.BitLen() >= opts.Bits-8 {
		return Challenge{}, Secret{}, fmt.Errorf("challenge: flag needs %d bits but the modulus only has %d", m.BitLen(), opts.Bits)
	}

	pool := primes.Below(opts.Bound)
	trials := opts.MaxTrials
	if trials == 0 {
		trials = DefaultGenTrials
	}

	half := opts.Bits / 2
	for budget := trials; budget > 0; {
		p, used, err := smoothPrime(rnd, half, pool, budget)
		budget -= used
		if err != nil {
			return Challenge{}, Secret{}, err
		}
		q, used, err := smoothPrime(rnd, half, pool, budget)
		budget -= used
		if err != nil {
			return Challenge{}, Secret{}, err
		}
		if p.Cmp(q) == 0 {
			continue
		}
		n := new(big.Int).Mul(p, q)
		if new(big.Int).GCD(nil, nil, base, n).Cmp(one) != 0 {
			continue
		}
		// m must stay below the group exponent or the flag cannot be
		// recovered from the discrete log.
		if m.Cmp(lambda(p, q)) >= 0 {
			continue
		}
		c := new(big.Int).Exp(base, m, n)
		return Challenge{N: n, C: c}, Secret{P: p, Q: q}, nil
	}
	return Challenge{}, Secret{}, errNoSmoothPrime
}

// smoothPrime searches for a prime of roughly bits width whose predecessor is
// a product of pool primes: accumulate random pool primes onto 2 until the
// width is reached, then test the successor. Returns the trials consumed.
func smoothPrime(rnd io.Reader, bits int, pool []uint64, maxTrials int) (*big.Int, int, error) {
	poolLen := big.NewInt(int64(len(pool)))
	f := new(big.Int)
	for trial := 1; trial <= maxTrials; trial++ {
		acc := big.NewInt(2)
		for acc.BitLen() < bits-1 {
			i, err := rand.Int(rnd, poolLen)
			if err != nil {
				return nil, trial, fmt.Errorf("challenge: drawing prime factor: %w", err)
			}
			acc.Mul(acc, f.SetUint64(pool[i.Int64()]))
		}
		cand := new(big.Int).Add(acc, one)
		if factorization.IsPrime(cand) {
			if measure.Enabled {
				measure.Global.Add("challenge/gen/prime_trials", int64(trial))
			}
			return cand, trial, nil
		}
	}
	return nil, maxTrials, errNoSmoothPrime
}

func lambda(p, q *big.Int) *big.Int {
	p1 := new(big.Int).Sub(p, one)
	q1 := new(big.Int).Sub(q, one)
	g := new(big.Int).GCD(nil, nil, p1, q1)
	l := new(big.Int).Mul(p1, q1)
	return l.Div(l, g)
}
