package factor

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

var one = big.NewInt(1)

// PrimePower is a single prime-power divisor of a factored integer.
type PrimePower struct {
	Prime *big.Int
	Exp   uint
}

// Value returns Prime^Exp.
func (pp PrimePower) Value() *big.Int {
	return new(big.Int).Exp(pp.Prime, new(big.Int).SetUint64(uint64(pp.Exp)), nil)
}

// Factorization is a possibly partial factorization. Factors stay sorted by
// prime, ascending, and whatever could not be resolved stays in Remainder, so
// Product reproduces the original input whether or not the factorization is
// complete. Downstream code must check Complete before trusting it as full.
type Factorization struct {
	Factors   []PrimePower
	Remainder *big.Int
}

// New returns the trivial factorization of m: everything in the remainder.
func New(m *big.Int) Factorization {
	return Factorization{Remainder: new(big.Int).Set(m)}
}

// Complete reports whether no unfactored remainder is left.
func (f Factorization) Complete() bool {
	return f.Remainder.Cmp(one) == 0
}

// Product multiplies the factorization back together.
func (f Factorization) Product() *big.Int {
	out := new(big.Int).Set(f.Remainder)
	for _, pp := range f.Factors {
		out.Mul(out, pp.Value())
	}
	return out
}

// FactoredPart returns the product of the prime powers alone, leaving the
// remainder out. For a complete factorization this equals Product.
func (f Factorization) FactoredPart() *big.Int {
	out := big.NewInt(1)
	for _, pp := range f.Factors {
		out.Mul(out, pp.Value())
	}
	return out
}

// add folds p^k into the factor list, merging with an existing entry for p.
// The prime is copied, so callers may reuse their argument.
func (f *Factorization) add(p *big.Int, k uint) {
	for i := range f.Factors {
		if f.Factors[i].Prime.Cmp(p) == 0 {
			f.Factors[i].Exp += k
			return
		}
	}
	f.Factors = append(f.Factors, PrimePower{Prime: new(big.Int).Set(p), Exp: k})
	sort.Slice(f.Factors, func(i, j int) bool {
		return f.Factors[i].Prime.Cmp(f.Factors[j].Prime) < 0
	})
}

// String renders e.g. "2^4 * 3 * 541"; an unfactored remainder is appended
// in brackets, e.g. "2^4 * [9409]".
func (f Factorization) String() string {
	var b strings.Builder
	for i, pp := range f.Factors {
		if i > 0 {
			b.WriteString(" * ")
		}
		if pp.Exp == 1 {
			fmt.Fprintf(&b, "%v", pp.Prime)
		} else {
			fmt.Fprintf(&b, "%v^%d", pp.Prime, pp.Exp)
		}
	}
	if !f.Complete() {
		if len(f.Factors) > 0 {
			b.WriteString(" * ")
		}
		fmt.Fprintf(&b, "[%v]", f.Remainder)
	}
	if b.Len() == 0 {
		return "1"
	}
	return b.String()
}
