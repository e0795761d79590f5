package dlog

import "math/big"

// Verify reports whether g^x mod n equals h mod n. It is pure and is the
// sole acceptance gate for candidate exponents; modular equality leaves no
// room for tolerance.
func Verify(g, x, n, h *big.Int) bool {
	lhs := new(big.Int).Exp(g, x, n)
	rhs := new(big.Int).Mod(h, n)
	return lhs.Cmp(rhs) == 0
}

// BruteForce scans exponents from 0 up to bound. It exists for tiny windows
// and for cross-checking tests; the solver never substitutes it for a failed
// combine.
func BruteForce(g, h, n, bound *big.Int) (*big.Int, error) {
	g = new(big.Int).Mod(g, n)
	h = new(big.Int).Mod(h, n)
	acc := new(big.Int).Mod(one, n)
	for x := new(big.Int); x.Cmp(bound) < 0; x.Add(x, one) {
		if acc.Cmp(h) == 0 {
			return new(big.Int).Set(x), nil
		}
		acc.Mul(acc, g).Mod(acc, n)
	}
	return nil, ErrNotFound
}
