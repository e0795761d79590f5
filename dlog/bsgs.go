package dlog

import (
	"fmt"
	"math/big"
	"os"

	"smoothlog/measure"
)

// BabyStepGiantStep finds x in [0, order) with g^x == h (mod s.N), trading
// ceil(sqrt(order)) table entries against as many giant steps. The table is
// the memory-bound phase: when it would exceed the cap the solve fails with
// ErrTableTooLarge before allocating anything. Table hits at or above order
// are wraparounds of the subgroup period and are discarded; only a hit that
// lands in range and reproduces h is returned. A base sharing a factor with
// the modulus is ErrNotCoprime, since the giant step needs g^m invertible.
func (s Solver) BabyStepGiantStep(g, h, order *big.Int) (*big.Int, error) {
	n := s.N
	if order == nil || order.Sign() <= 0 {
		return nil, fmt.Errorf("dlog: order must be positive")
	}
	g = new(big.Int).Mod(g, n)
	h = new(big.Int).Mod(h, n)
	if new(big.Int).GCD(nil, nil, g, n).Cmp(one) != 0 {
		return nil, ErrNotCoprime
	}

	m := ceilSqrt(order)
	if m.Cmp(new(big.Int).SetUint64(s.tableCap())) > 0 {
		return nil, fmt.Errorf("%w: need %v entries", ErrTableTooLarge, m)
	}
	steps := m.Uint64()

	// Baby steps: g^j -> j, keeping the first j per element. When the base's
	// true period is below m the later duplicates must not shadow the small
	// indexes, or in-range solutions get lost.
	table := make(map[[16]byte]uint64, steps)
	e := big.NewInt(1)
	e.Mod(e, n)
	for j := uint64(0); j < steps; j++ {
		k := elemKey(e)
		if _, ok := table[k]; !ok {
			table[k] = j
		}
		e.Mul(e, g).Mod(e, n)
	}
	if measure.Enabled {
		measure.Global.Add("dlog/bsgs/table_entries", int64(steps))
	}

	// Giant steps: gamma = h * ((g^m)^-1)^i, scanning i = 0..m inclusive so
	// the windows cover [0, m*(m+1)) >= order.
	gm := new(big.Int).Exp(g, m, n)
	giant := gm.ModInverse(gm, n)
	gamma := new(big.Int).Set(h)
	var walked int64
	for i := uint64(0); i <= steps; i++ {
		walked++
		if j, ok := table[elemKey(gamma)]; ok {
			x := new(big.Int).SetUint64(i)
			x.Mul(x, m).Add(x, new(big.Int).SetUint64(j))
			if x.Cmp(order) < 0 && Verify(g, x, n, h) {
				if measure.Enabled {
					measure.Global.Add("dlog/bsgs/giant_steps", walked)
				}
				return x, nil
			}
			dbg(os.Stderr, "[dlog] bsgs: discarding hit i=%d j=%d outside order %v\n", i, j, order)
		}
		gamma.Mul(gamma, giant).Mod(gamma, n)
	}
	if measure.Enabled {
		measure.Global.Add("dlog/bsgs/giant_steps", walked)
	}
	return nil, ErrNotFound
}
