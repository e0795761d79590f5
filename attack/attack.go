package attack

// Package attack drives the full pipeline against a handout instance: factor
// n with Pollard's p-1 over escalating bounds, derive and factor the group
// exponent, tighten it to the exact order of the base, run the subgroup
// solver and gate the answer through verification. Retry policy lives here;
// the primitives underneath stay stateless.

import (
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"smoothlog/challenge"
	"smoothlog/dlog"
	"smoothlog/factor"
	"smoothlog/group"
	"smoothlog/prof"
)

// Mode selects how the recovered factors are used.
type Mode int

const (
	// ModeDiscreteLog solves c = base^x mod n for x.
	ModeDiscreteLog Mode = iota
	// ModeRSA treats Base as a public exponent and inverts it over phi,
	// for instances where c = m^e mod n hides the flag as m.
	ModeRSA
)

// DefaultBounds is the escalation ladder for Pollard's p-1.
var DefaultBounds = []uint64{1 << 12, 1 << 16, 1 << 20}

const (
	// DefaultOrderPrimeBound caps trial division of the group exponent.
	DefaultOrderPrimeBound = 1 << 16
	// DefaultSplitRemBits caps how wide a residual cofactor the order
	// factorizer will hand to the ECM/rho splitters.
	DefaultSplitRemBits = 64
)

// Options steers a run. The zero value solves a discrete log with base 3 and
// the package defaults.
type Options struct {
	Base            *big.Int // nil means 3
	Bounds          []uint64 // Pollard p-1 ladder; nil means DefaultBounds
	OrderPrimeBound uint64
	SplitRemBits    int
	TableCap        uint64
	RhoBudget       uint64
	Deadline        time.Time
	Mode            Mode
}

// Result reports a finished run. X is the recovered exponent (or message in
// ModeRSA) and is valid modulo Order; Complete is false when part of the
// group order resisted factorization and X is therefore only a residue.
type Result struct {
	X         *big.Int
	P, Q      *big.Int
	Order     *big.Int
	OrderBits int
	Complete  bool
	Stages    []prof.Entry
}

// Flag renders X as flag text.
func (r Result) Flag() string {
	return challenge.DecodeFlag(r.X)
}

var one = big.NewInt(1)

// Run executes the pipeline. When the order factorization is incomplete the
// partial Result is returned together with an error wrapping
// dlog.ErrIncompleteOrder, mirroring how the solver itself reports it.
func Run(ch challenge.Challenge, opts Options) (Result, error) {
	base := opts.Base
	if base == nil {
		base = big.NewInt(3)
	}
	if new(big.Int).GCD(nil, nil, base, ch.N).Cmp(one) != 0 {
		return Result{}, fmt.Errorf("attack: base %v shares a factor with n", base)
	}

	bounds := opts.Bounds
	if len(bounds) == 0 {
		bounds = DefaultBounds
	}
	p, err := factorModulus(ch.N, bounds, opts.Deadline)
	if err != nil {
		return Result{}, err
	}
	m, err := group.NewModulus(ch.N, p)
	if err != nil {
		return Result{}, fmt.Errorf("attack: factor %v rejected: %w", p, err)
	}
	log.Printf("[factor] n = p*q with p=%d bits, q=%d bits", m.P.BitLen(), m.Q.BitLen())

	res := Result{P: m.P, Q: m.Q}

	if opts.Mode == ModeRSA {
		start := time.Now()
		x, err := m.RSADecrypt(ch.C, base)
		if err != nil {
			return Result{}, fmt.Errorf("attack: rsa inversion: %w", err)
		}
		if new(big.Int).Exp(x, base, m.N).Cmp(new(big.Int).Mod(ch.C, m.N)) != 0 {
			return Result{}, fmt.Errorf("attack: rsa round trip: %w", dlog.ErrVerifyMismatch)
		}
		prof.Track(start, "attack/rsa_decrypt")
		res.X = x
		res.Complete = true
		res.Stages = prof.SnapshotAndReset()
		return res, nil
	}

	// Search runs over lambda, the tight exponent of the group. Phi would
	// also annihilate every element but can be much larger.
	lam := m.Lambda()

	start := time.Now()
	opb := opts.OrderPrimeBound
	if opb == 0 {
		opb = DefaultOrderPrimeBound
	}
	f := factor.BySmallPrimes(lam, opb)
	if !f.Complete() {
		bits := opts.SplitRemBits
		if bits == 0 {
			bits = DefaultSplitRemBits
		}
		f = factor.SplitRemainder(f, bits)
	}
	prof.Track(start, "attack/order_factor")
	log.Printf("[order] lambda: %d bits, %s", lam.BitLen(), f)

	start = time.Now()
	ord, err := group.MultiplicativeOrder(base, m.N, lam, f)
	if err != nil {
		return Result{}, fmt.Errorf("attack: order of base: %w", err)
	}
	fOrd := factor.ByKnownPrimes(ord, f.Factors)
	prof.Track(start, "attack/order_reduce")
	log.Printf("[order] base has order of %d bits", ord.BitLen())

	start = time.Now()
	s := dlog.Solver{N: m.N, TableCap: opts.TableCap, RhoBudget: opts.RhoBudget}
	part, err := s.SolveSmooth(base, ch.C, fOrd, ord)
	prof.Track(start, "attack/dlog")
	if err != nil && !errors.Is(err, dlog.ErrIncompleteOrder) {
		return Result{}, fmt.Errorf("attack: discrete log: %w", err)
	}

	res.X = part.X
	res.Order = part.Modulus
	res.OrderBits = part.Modulus.BitLen()
	res.Complete = part.Complete
	if !part.Complete {
		log.Printf("[dlog] order only partially factored, answer valid mod %d-bit modulus", res.OrderBits)
	} else if !dlog.Verify(base, part.X, m.N, ch.C) {
		return Result{}, fmt.Errorf("attack: %w", dlog.ErrVerifyMismatch)
	}
	res.Stages = prof.SnapshotAndReset()
	return res, err
}

// factorModulus walks the bound ladder until Pollard's p-1 pulls a factor.
func factorModulus(n *big.Int, bounds []uint64, deadline time.Time) (*big.Int, error) {
	defer prof.Track(time.Now(), "attack/pminus1")
	for _, b := range bounds {
		p, err := factor.PollardPMinus1(n, factor.PMinus1Opts{Bound: b, Deadline: deadline})
		if err == nil {
			log.Printf("[factor] pollard p-1 hit at bound %d", b)
			return p, nil
		}
		if errors.Is(err, factor.ErrNoFactor) {
			log.Printf("[factor] bound %d exhausted, escalating", b)
			continue
		}
		return nil, fmt.Errorf("attack: pollard p-1: %w", err)
	}
	return nil, fmt.Errorf("attack: all %d bounds exhausted: %w", len(bounds), factor.ErrNoFactor)
}
