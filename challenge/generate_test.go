package challenge

import (
	"math/big"
	mrand "math/rand"
	"testing"

	"smoothlog/factor"
	"smoothlog/group"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	rnd := mrand.New(mrand.NewSource(1))
	opts := GenOpts{Bits: 128, Bound: 2048, Flag: "flag{ok}"}
	ch, sec, err := Generate(opts, rnd)
	require.NoError(t, err)

	// NewModulus re-checks p*q == n, distinctness and primality.
	m, err := group.NewModulus(ch.N, sec.P)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Q.Cmp(sec.Q))

	// Both predecessors factor completely below the bound, which is the
	// whole point of the instance.
	p1 := new(big.Int).Sub(sec.P, big.NewInt(1))
	q1 := new(big.Int).Sub(sec.Q, big.NewInt(1))
	assert.True(t, factor.BySmallPrimes(p1, opts.Bound).Complete())
	assert.True(t, factor.BySmallPrimes(q1, opts.Bound).Complete())

	// c is base^m with the default base 3.
	want := new(big.Int).Exp(big.NewInt(3), EncodeFlag(opts.Flag), ch.N)
	assert.Equal(t, 0, ch.C.Cmp(want))
}

func TestGenerateDeterministic(t *testing.T) {
	opts := GenOpts{Bits: 96, Bound: 1024, Flag: "dl{x}"}
	a, _, err := Generate(opts, mrand.New(mrand.NewSource(7)))
	require.NoError(t, err)
	b, _, err := Generate(opts, mrand.New(mrand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, 0, a.N.Cmp(b.N))
	assert.Equal(t, 0, a.C.Cmp(b.C))
}

func TestGenerateRejects(t *testing.T) {
	rnd := mrand.New(mrand.NewSource(1))

	_, _, err := Generate(GenOpts{Bits: 8, Bound: 64, Flag: "x"}, rnd)
	assert.ErrorContains(t, err, "too small")

	_, _, err = Generate(GenOpts{Bits: 64, Bound: 2, Flag: "x"}, rnd)
	assert.ErrorContains(t, err, "bound")

	_, _, err = Generate(GenOpts{Bits: 64, Bound: 64, Flag: ""}, rnd)
	assert.ErrorContains(t, err, "empty flag")

	// 9 bytes of flag cannot hide under a 64-bit modulus.
	_, _, err = Generate(GenOpts{Bits: 64, Bound: 64, Flag: "aaaaaaaaa"}, rnd)
	assert.ErrorContains(t, err, "bits")
}
