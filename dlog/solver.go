package dlog

import (
	"math/big"

	"golang.org/x/crypto/sha3"
)

const (
	// DefaultTableCap bounds baby-step tables to about a million entries,
	// past which building the table dominates the solve.
	DefaultTableCap = 1 << 20
	// DefaultRhoBudget caps collision-walk iterations for subgroups whose
	// table would not fit.
	DefaultRhoBudget = 1 << 26
)

var (
	one   = big.NewInt(1)
	three = big.NewInt(3)
)

// Solver fixes the group modulus and the resource caps for subgroup solves.
// A zero cap selects the package default, so Solver{N: n} is ready to use.
type Solver struct {
	N         *big.Int
	TableCap  uint64
	RhoBudget uint64
}

func (s Solver) tableCap() uint64 {
	if s.TableCap == 0 {
		return DefaultTableCap
	}
	return s.TableCap
}

func (s Solver) rhoBudget() uint64 {
	if s.RhoBudget == 0 {
		return DefaultRhoBudget
	}
	return s.RhoBudget
}

// elemKey compresses a group element to a fixed-width table key so the baby
// table's footprint does not grow with the modulus size.
func elemKey(x *big.Int) [16]byte {
	var out [16]byte
	h := sha3.NewShake256()
	_, _ = h.Write(x.Bytes())
	_, _ = h.Read(out[:])
	return out
}

func ceilSqrt(x *big.Int) *big.Int {
	s := new(big.Int).Sqrt(x)
	if new(big.Int).Mul(s, s).Cmp(x) < 0 {
		s.Add(s, one)
	}
	return s
}
