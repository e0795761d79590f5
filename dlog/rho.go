package dlog

import (
	"errors"
	"fmt"
	"math/big"

	"smoothlog/measure"
)

var errRetry = errors.New("dlog: retry")

// PollardRho finds x in [0, order) with g^x == h (mod s.N) by Floyd cycle
// detection over the usual three-way partition walk. It keeps no table, so
// it covers subgroups whose baby-step table would exceed the cap. The total
// walk across restarts is bounded by the rho budget; exhaustion returns
// ErrNotFound. Collisions that carry no information restart the walk from a
// fresh deterministic point, so runs are reproducible.
func (s Solver) PollardRho(g, h, order *big.Int) (*big.Int, error) {
	n := s.N
	if order == nil || order.Sign() <= 0 {
		return nil, fmt.Errorf("dlog: order must be positive")
	}
	g = new(big.Int).Mod(g, n)
	h = new(big.Int).Mod(h, n)
	if new(big.Int).GCD(nil, nil, g, n).Cmp(one) != 0 {
		return nil, ErrNotCoprime
	}
	if h.Cmp(one) == 0 {
		return big.NewInt(0), nil
	}

	budget := s.rhoBudget()
	// A healthy walk collides within a few multiples of sqrt(order); past
	// that a fresh start point beats pushing the same cycle further.
	perWalk := budget
	if sq := ceilSqrt(order); sq.IsUint64() {
		if w := sq.Uint64(); w < (budget-64)/16 {
			perWalk = 16*w + 64
		}
	}

	var used uint64
	if measure.Enabled {
		defer func() { measure.Global.Add("dlog/rho/steps", int64(used)) }()
	}
	for seed := int64(1); used < budget; seed++ {
		steps := perWalk
		if rem := budget - used; steps > rem {
			steps = rem
		}
		x, walked, err := s.rhoWalk(g, h, order, seed, steps)
		used += walked
		if err == nil {
			return x, nil
		}
		if !errors.Is(err, errRetry) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

// rhoState is one walker: x == g^a * h^b at every step.
type rhoState struct {
	x, a, b *big.Int
}

func (st *rhoState) step(n, g, h, order, scratch *big.Int) {
	switch scratch.Mod(st.x, three).Int64() {
	case 0:
		st.x.Mul(st.x, g).Mod(st.x, n)
		st.a.Add(st.a, one)
		if st.a.Cmp(order) >= 0 {
			st.a.Sub(st.a, order)
		}
	case 1:
		st.x.Mul(st.x, st.x).Mod(st.x, n)
		st.a.Lsh(st.a, 1).Mod(st.a, order)
		st.b.Lsh(st.b, 1).Mod(st.b, order)
	default:
		st.x.Mul(st.x, h).Mod(st.x, n)
		st.b.Add(st.b, one)
		if st.b.Cmp(order) >= 0 {
			st.b.Sub(st.b, order)
		}
	}
}

func (s Solver) rhoWalk(g, h, order *big.Int, seed int64, maxSteps uint64) (*big.Int, uint64, error) {
	a0 := new(big.Int).Mod(big.NewInt(seed), order)
	b0 := new(big.Int).Mod(big.NewInt(seed+1), order)
	x0 := new(big.Int).Exp(g, a0, s.N)
	x0.Mul(x0, new(big.Int).Exp(h, b0, s.N)).Mod(x0, s.N)

	tort := &rhoState{x: new(big.Int).Set(x0), a: new(big.Int).Set(a0), b: new(big.Int).Set(b0)}
	hare := &rhoState{x: new(big.Int).Set(x0), a: new(big.Int).Set(a0), b: new(big.Int).Set(b0)}
	t1, t2 := new(big.Int), new(big.Int)

	for w := uint64(1); w <= maxSteps; w++ {
		tort.step(s.N, g, h, order, t1)
		hare.step(s.N, g, h, order, t2)
		hare.step(s.N, g, h, order, t2)
		if tort.x.Cmp(hare.x) == 0 {
			x, err := solveCollision(g, h, order, s.N, tort, hare)
			return x, w, err
		}
	}
	return nil, maxSteps, errRetry
}

// solveCollision turns g^a1 h^b1 == g^a2 h^b2 into
// a1 - a2 == x * (b2 - b1) (mod order) and solves for x. When the step
// difference shares a gcd d with the order, the congruence pins x only
// modulo order/d; each of the d lifts is checked and the first that
// reproduces h wins. Large d is treated as a failed collision.
func solveCollision(g, h, order, n *big.Int, tort, hare *rhoState) (*big.Int, error) {
	da := new(big.Int).Sub(tort.a, hare.a)
	da.Mod(da, order)
	db := new(big.Int).Sub(hare.b, tort.b)
	db.Mod(db, order)
	if db.Sign() == 0 {
		return nil, errRetry
	}
	d := new(big.Int).GCD(nil, nil, db, order)
	if new(big.Int).Mod(da, d).Sign() != 0 {
		return nil, errRetry
	}
	if !d.IsUint64() || d.Uint64() > 4096 {
		return nil, errRetry
	}
	ordRed := new(big.Int).Div(order, d)
	inv := new(big.Int).ModInverse(new(big.Int).Div(db, d), ordRed)
	if inv == nil {
		return nil, errRetry
	}
	cand := new(big.Int).Div(da, d)
	cand.Mul(cand, inv).Mod(cand, ordRed)
	for k := uint64(0); k < d.Uint64(); k++ {
		if cand.Cmp(order) < 0 && Verify(g, cand, n, h) {
			return cand, nil
		}
		cand.Add(cand, ordRed)
	}
	return nil, errRetry
}
