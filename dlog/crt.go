package dlog

import "math/big"

// Residue is one congruence x == R (mod M).
type Residue struct {
	R, M *big.Int
}

// CRTPair solves x == r1 (mod m1), x == r2 (mod m2) for coprime moduli via
// the extended Euclidean algorithm, returning the unique x in [0, m1*m2).
// Non-coprime moduli are ErrCRTConflict: the combiner only ever feeds
// distinct prime powers, so hitting it means a broken factorization, not a
// condition to retry.
func CRTPair(r1, m1, r2, m2 *big.Int) (*big.Int, error) {
	g, u := new(big.Int), new(big.Int)
	g.GCD(u, nil, m1, m2)
	if g.Cmp(one) != 0 {
		return nil, ErrCRTConflict
	}
	// u*m1 == 1 (mod m2), so x = r1 + m1*((r2-r1)*u mod m2).
	t := new(big.Int).Sub(r2, r1)
	t.Mul(t, u).Mod(t, m2)
	x := new(big.Int).Mul(m1, t)
	x.Add(x, r1)
	return x.Mod(x, new(big.Int).Mul(m1, m2)), nil
}

// CRTCombine folds the congruences iteratively, starting from x == 0 (mod 1),
// and returns the solution together with the combined modulus.
func CRTCombine(rs []Residue) (*big.Int, *big.Int, error) {
	x := big.NewInt(0)
	mod := big.NewInt(1)
	for _, cr := range rs {
		nx, err := CRTPair(x, mod, cr.R, cr.M)
		if err != nil {
			return nil, nil, err
		}
		x = nx
		mod = new(big.Int).Mul(mod, cr.M)
	}
	return x, mod, nil
}

// CRTPairAny solves the pair of congruences when the moduli may share a
// factor. The system is solvable exactly when gcd(m1, m2) divides r2 - r1,
// and then the answer is unique modulo lcm(m1, m2), which is returned
// alongside it. Unsatisfiable pairs are ErrCRTConflict.
func CRTPairAny(r1, m1, r2, m2 *big.Int) (*big.Int, *big.Int, error) {
	g, u := new(big.Int), new(big.Int)
	g.GCD(u, nil, m1, m2)
	quo, rem := new(big.Int).QuoRem(new(big.Int).Sub(r2, r1), g, new(big.Int))
	if rem.Sign() != 0 {
		return nil, nil, ErrCRTConflict
	}
	// u*m1 == g (mod m2) gives u*(m1/g) == 1 (mod m2/g), so t = quo*u
	// solves (m1/g)*t == quo (mod m2/g) and x = r1 + m1*t.
	m2g := new(big.Int).Div(m2, g)
	t := quo.Mul(quo, u)
	t.Mod(t, m2g)
	lcm := new(big.Int).Mul(m1, m2g)
	x := new(big.Int).Mul(m1, t)
	x.Add(x, r1).Mod(x, lcm)
	return x, lcm, nil
}
