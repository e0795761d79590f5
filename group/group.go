package group

// Package group models the multiplicative group (Z/nZ)* for a semiprime
// modulus n = p*q: the two Euler orders, exact element orders, and the
// phi-based inversion used for fixed public exponents.

import (
	"fmt"
	"math/big"

	"smoothlog/factor"

	"github.com/tuneinsight/lattigo/v5/utils/factorization"
)

var one = big.NewInt(1)

// Modulus is a semiprime working modulus together with its prime split.
type Modulus struct {
	N, P, Q *big.Int
}

// NewModulus builds the pair from n and one prime factor p, validating that
// the cofactor is a distinct prime. Inputs are copied.
func NewModulus(n, p *big.Int) (Modulus, error) {
	if n == nil || p == nil || p.Sign() <= 0 {
		return Modulus{}, fmt.Errorf("group: modulus and factor must be positive")
	}
	q, r := new(big.Int).QuoRem(n, p, new(big.Int))
	if r.Sign() != 0 {
		return Modulus{}, fmt.Errorf("group: p does not divide n")
	}
	if p.Cmp(q) == 0 {
		return Modulus{}, fmt.Errorf("group: p and q must differ")
	}
	if !factorization.IsPrime(p) {
		return Modulus{}, fmt.Errorf("group: p is not prime")
	}
	if !factorization.IsPrime(q) {
		return Modulus{}, fmt.Errorf("group: q is not prime")
	}
	return Modulus{N: new(big.Int).Set(n), P: new(big.Int).Set(p), Q: q}, nil
}

// Phi returns (p-1)(q-1), the Euler totient of n. Inverting a public
// exponent must happen mod Phi; Lambda is not enough for that.
func (m Modulus) Phi() *big.Int {
	pm1 := new(big.Int).Sub(m.P, one)
	qm1 := new(big.Int).Sub(m.Q, one)
	return pm1.Mul(pm1, qm1)
}

// Lambda returns lcm(p-1, q-1), the exponent of (Z/nZ)*. It divides Phi and
// is the tight bound for discrete-log search.
func (m Modulus) Lambda() *big.Int {
	pm1 := new(big.Int).Sub(m.P, one)
	qm1 := new(big.Int).Sub(m.Q, one)
	g := new(big.Int).GCD(nil, nil, pm1, qm1)
	return pm1.Mul(pm1, qm1.Div(qm1, g))
}

// RSADecrypt inverts the public exponent e over Phi and returns c^d mod n.
func (m Modulus) RSADecrypt(c, e *big.Int) (*big.Int, error) {
	d := new(big.Int).ModInverse(e, m.Phi())
	if d == nil {
		return nil, fmt.Errorf("group: exponent %v is not invertible mod phi", e)
	}
	return d.Exp(c, d, m.N), nil
}

// MultiplicativeOrder reduces lam, a known annihilating exponent of g modulo
// n (g^lam == 1), to the exact order of g by dividing out primes of lam's
// factorization f while the power stays 1. With an incomplete f the result
// is still annihilating, just not necessarily minimal, since only known
// primes can be removed.
func MultiplicativeOrder(g, n, lam *big.Int, f factor.Factorization) (*big.Int, error) {
	if new(big.Int).GCD(nil, nil, g, n).Cmp(one) != 0 {
		return nil, fmt.Errorf("group: base not coprime to modulus")
	}
	if new(big.Int).Exp(g, lam, n).Cmp(one) != 0 {
		return nil, fmt.Errorf("group: exponent does not annihilate base")
	}
	ord := new(big.Int).Set(lam)
	q, r, e := new(big.Int), new(big.Int), new(big.Int)
	for _, pp := range f.Factors {
		for i := uint(0); i < pp.Exp; i++ {
			q.QuoRem(ord, pp.Prime, r)
			if r.Sign() != 0 {
				break
			}
			if e.Exp(g, q, n).Cmp(one) != 0 {
				break
			}
			ord.Set(q)
		}
	}
	return ord, nil
}
