package dlog

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	g, n := big.NewInt(2), big.NewInt(15)
	assert.True(t, Verify(g, big.NewInt(3), n, big.NewInt(8)))
	assert.False(t, Verify(g, big.NewInt(3), n, big.NewInt(7)))

	// Verification is a pure read: inputs survive and repeat calls agree.
	x := big.NewInt(3)
	h := big.NewInt(8)
	first := Verify(g, x, n, h)
	second := Verify(g, x, n, h)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(3), x.Int64())
	assert.Equal(t, int64(8), h.Int64())
}

func TestVerifyLargerModulus(t *testing.T) {
	g, n := big.NewInt(2), big.NewInt(1189)
	h := new(big.Int).Exp(g, big.NewInt(97), n)
	assert.True(t, Verify(g, big.NewInt(97), n, h))
	assert.False(t, Verify(g, big.NewInt(96), n, h))
}

func TestBruteForce(t *testing.T) {
	n := big.NewInt(15)
	x, err := BruteForce(big.NewInt(2), big.NewInt(8), n, big.NewInt(10))
	require.NoError(t, err)
	assert.Equal(t, int64(3), x.Int64())

	// 7 is not a power of 2 modulo 15.
	_, err = BruteForce(big.NewInt(2), big.NewInt(7), n, big.NewInt(10))
	require.ErrorIs(t, err, ErrNotFound)
}
