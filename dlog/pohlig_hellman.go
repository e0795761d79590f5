package dlog

import (
	"fmt"
	"math/big"
	"os"

	"smoothlog/factor"
)

// Partial is the combiner's answer: the exponent X modulo Modulus. Complete
// says whether Modulus covers the requested order or only its factored part;
// an incomplete answer comes back together with ErrIncompleteOrder so it can
// never be mistaken for full recovery.
type Partial struct {
	X        *big.Int
	Modulus  *big.Int
	Complete bool
}

// SolveSmooth recovers x with g^x == h (mod s.N) by Pohlig-Hellman: one
// subgroup solve per prime power of the order factorization f, then CRT
// recombination. f must multiply out to order (remainder included), and
// order must annihilate g.
//
// With a complete f the result is an x in [0, order) verified against h
// before being returned; when order is the exact order of g it is the only
// one. With an unfactored remainder the solve
// covers only the factored part and returns Partial{Complete: false}
// alongside ErrIncompleteOrder; there is no partial credit for individual
// failed subgroups, since a missing residue makes recombination impossible.
func (s Solver) SolveSmooth(g, h *big.Int, f factor.Factorization, order *big.Int) (Partial, error) {
	n := s.N
	if order == nil || order.Sign() <= 0 {
		return Partial{}, fmt.Errorf("dlog: order must be positive")
	}
	g = new(big.Int).Mod(g, n)
	h = new(big.Int).Mod(h, n)
	if new(big.Int).GCD(nil, nil, g, n).Cmp(one) != 0 {
		return Partial{}, ErrNotCoprime
	}
	if f.Product().Cmp(order) != 0 {
		return Partial{}, fmt.Errorf("dlog: factorization %v does not multiply to the order", f)
	}

	// Trivial group: the only candidate is 0, no subgroup work needed.
	if order.Cmp(one) == 0 {
		if !Verify(g, big.NewInt(0), n, h) {
			return Partial{}, ErrVerifyMismatch
		}
		return Partial{X: big.NewInt(0), Modulus: big.NewInt(1), Complete: true}, nil
	}

	residues := make([]Residue, 0, len(f.Factors))
	exp, ge, he := new(big.Int), new(big.Int), new(big.Int)
	for _, pp := range f.Factors {
		pe := pp.Value()
		exp.Div(order, pe)
		ge.Exp(g, exp, n)
		he.Exp(h, exp, n)
		x, err := s.SolveSubgroup(ge, he, pe)
		if err != nil {
			return Partial{}, fmt.Errorf("%w (%v^%d): %w", ErrSubgroupSolve, pp.Prime, pp.Exp, err)
		}
		dbg(os.Stderr, "[dlog] subgroup %v^%d: x == %v\n", pp.Prime, pp.Exp, x)
		residues = append(residues, Residue{R: x, M: pe})
	}

	x, mod, err := CRTCombine(residues)
	if err != nil {
		return Partial{}, err
	}

	if !f.Complete() {
		p := Partial{X: x, Modulus: mod}
		return p, fmt.Errorf("%w: residual %v unfactored, answer valid mod %v",
			ErrIncompleteOrder, f.Remainder, mod)
	}
	if !Verify(g, x, n, h) {
		return Partial{}, ErrVerifyMismatch
	}
	return Partial{X: x, Modulus: mod, Complete: true}, nil
}

// SolveSubgroup dispatches one bounded solve: baby-step giant-step while the
// table fits the cap, Pollard rho past it.
func (s Solver) SolveSubgroup(g, h, order *big.Int) (*big.Int, error) {
	if ceilSqrt(order).Cmp(new(big.Int).SetUint64(s.tableCap())) <= 0 {
		return s.BabyStepGiantStep(g, h, order)
	}
	return s.PollardRho(g, h, order)
}
