package factor

import (
	"math/big"

	"smoothlog/internal/primes"
	"smoothlog/measure"

	"github.com/tuneinsight/lattigo/v5/utils/factorization"
)

// BySmallPrimes trial-divides m by every prime up to and including maxPrime,
// accumulating prime-power factors and stopping early once the running
// remainder reaches 1 or is proven prime. A prime leftover is a genuine
// factor and joins the list; a composite leftover stays in Remainder. Either
// way Product() == m.
func BySmallPrimes(m *big.Int, maxPrime uint64) Factorization {
	f := New(m)
	if m.Cmp(one) <= 0 {
		return f
	}
	r := f.Remainder
	q, rem, pb := new(big.Int), new(big.Int), new(big.Int)
	var divisions int64
	primes.Each(maxPrime+1, func(p uint64) bool {
		pb.SetUint64(p)
		var k uint
		for {
			q.QuoRem(r, pb, rem)
			divisions++
			if rem.Sign() != 0 {
				break
			}
			r.Set(q)
			k++
		}
		if k > 0 {
			f.add(pb, k)
		}
		if r.Cmp(one) == 0 {
			return false
		}
		// q = floor(r/p) from the failed division. q < p bounds r below
		// p*(p+1), and any composite that small has a prime factor <= p,
		// all of which are gone. r is prime.
		if q.Cmp(pb) < 0 {
			f.add(r, 1)
			r.SetInt64(1)
			return false
		}
		return true
	})
	if measure.Enabled {
		measure.Global.Add("factor/trial/divisions", divisions)
	}
	if r.Cmp(one) > 0 && factorization.IsPrime(r) {
		f.add(r, 1)
		r.SetInt64(1)
	}
	return f
}

// ByKnownPrimes factors m over an already known prime set, leaving anything
// else in the remainder. Useful when m divides a number whose factorization
// is in hand, e.g. a tightened element order dividing lambda.
func ByKnownPrimes(m *big.Int, known []PrimePower) Factorization {
	f := New(m)
	if m.Cmp(one) <= 0 {
		return f
	}
	r := f.Remainder
	q, rem := new(big.Int), new(big.Int)
	for _, pp := range known {
		var k uint
		for {
			q.QuoRem(r, pp.Prime, rem)
			if rem.Sign() != 0 {
				break
			}
			r.Set(q)
			k++
		}
		if k > 0 {
			f.add(pp.Prime, k)
		}
		if r.Cmp(one) == 0 {
			break
		}
	}
	return f
}

// SplitRemainder tries to finish an incomplete factorization by pulling
// factors out of the composite remainder with Pollard rho, then ECM.
// Remainders wider than maxBits are left alone rather than risking an
// open-ended search. The input is not mutated and Product is preserved.
func SplitRemainder(f Factorization, maxBits int) Factorization {
	if f.Complete() {
		return f
	}
	out := Factorization{
		Factors:   append([]PrimePower(nil), f.Factors...),
		Remainder: big.NewInt(1),
	}
	stack := []*big.Int{new(big.Int).Set(f.Remainder)}
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch {
		case m.Cmp(one) <= 0:
			continue
		case factorization.IsPrime(m):
			out.add(m, 1)
			continue
		case m.BitLen() > maxBits:
			out.Remainder.Mul(out.Remainder, m)
			continue
		}
		d := factorization.GetFactorPollardRho(m)
		if !splits(d, m) {
			d = factorization.GetFactorECM(m)
		}
		if !splits(d, m) {
			out.Remainder.Mul(out.Remainder, m)
			continue
		}
		if measure.Enabled {
			measure.Global.Add("factor/split/pulled", 1)
		}
		stack = append(stack, d, new(big.Int).Div(m, d))
	}
	return out
}

func splits(d, m *big.Int) bool {
	return d != nil && d.Cmp(one) > 0 && d.Cmp(m) < 0
}
