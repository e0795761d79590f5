package dlog

import (
	"fmt"
	"math/big"

	"smoothlog/factor"
	"smoothlog/group"
)

// SplitOpts configures the per-prime solves in SolveSplit. Zero values
// select defaults.
type SplitOpts struct {
	MaxPrime  uint64 // trial division bound for p-1 and q-1
	SplitBits int    // width cap for auxiliary remainder splitting
	TableCap  uint64 // per-subgroup baby-step table cap
	RhoBudget uint64 // per-subgroup collision-walk budget
}

func (o SplitOpts) maxPrime() uint64 {
	if o.MaxPrime == 0 {
		return 1 << 16
	}
	return o.MaxPrime
}

func (o SplitOpts) splitBits() int {
	if o.SplitBits == 0 {
		return 64
	}
	return o.SplitBits
}

// SolveSplit recovers the exponent by solving g^x == h modulo each prime of
// the pair separately and recombining. The two element orders are never
// coprime (p-1 and q-1 are both even), so recombination goes through the
// general congruence solver; the answer is valid modulo their lcm, which is
// returned alongside it.
func SolveSplit(g, h *big.Int, m group.Modulus, o SplitOpts) (*big.Int, *big.Int, error) {
	xp, mp, err := solveModPrime(g, h, m.P, o)
	if err != nil {
		return nil, nil, fmt.Errorf("dlog: solve mod p: %w", err)
	}
	xq, mq, err := solveModPrime(g, h, m.Q, o)
	if err != nil {
		return nil, nil, fmt.Errorf("dlog: solve mod q: %w", err)
	}
	x, lcm, err := CRTPairAny(xp, mp, xq, mq)
	if err != nil {
		return nil, nil, err
	}
	if !Verify(g, x, m.N, h) {
		return nil, nil, ErrVerifyMismatch
	}
	return x, lcm, nil
}

// solveModPrime solves the projection of the problem modulo one prime p,
// over the exact order of g there. The residue comes back with the modulus
// it is valid for.
func solveModPrime(g, h, p *big.Int, o SplitOpts) (*big.Int, *big.Int, error) {
	gp := new(big.Int).Mod(g, p)
	hp := new(big.Int).Mod(h, p)
	ord0 := new(big.Int).Sub(p, one)

	f := factor.BySmallPrimes(ord0, o.maxPrime())
	if !f.Complete() {
		f = factor.SplitRemainder(f, o.splitBits())
	}
	if !f.Complete() {
		return nil, nil, fmt.Errorf("%w: predecessor residual %v", ErrIncompleteOrder, f.Remainder)
	}

	ord, err := group.MultiplicativeOrder(gp, p, ord0, f)
	if err != nil {
		return nil, nil, err
	}
	fo := factor.ByKnownPrimes(ord, f.Factors)

	s := Solver{N: p, TableCap: o.TableCap, RhoBudget: o.RhoBudget}
	part, err := s.SolveSmooth(gp, hp, fo, ord)
	if err != nil {
		return nil, nil, err
	}
	return part.X, part.Modulus, nil
}
