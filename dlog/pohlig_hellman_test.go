package dlog

import (
	"math/big"
	"testing"

	"smoothlog/factor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveSmoothKnownCase(t *testing.T) {
	s := Solver{N: big.NewInt(15)}
	f := factor.BySmallPrimes(big.NewInt(8), 2)
	require.True(t, f.Complete())

	part, err := s.SolveSmooth(big.NewInt(2), big.NewInt(8), f, big.NewInt(8))
	require.NoError(t, err)
	assert.Equal(t, int64(3), part.X.Int64())
	assert.Equal(t, int64(8), part.Modulus.Int64())
	assert.True(t, part.Complete)
}

func TestSolveSmoothExhaustive(t *testing.T) {
	s := Solver{N: big.NewInt(15)}
	g := big.NewInt(2) // order 4 modulo 15
	ord := big.NewInt(4)
	f := factor.BySmallPrimes(ord, 2)
	for x := int64(0); x < 4; x++ {
		h := new(big.Int).Exp(g, big.NewInt(x), s.N)
		part, err := s.SolveSmooth(g, h, f, ord)
		require.NoError(t, err, "x=%d", x)
		assert.Equal(t, x, part.X.Int64(), "x=%d", x)
		assert.True(t, part.Complete)
	}
}

func TestSolveSmoothTrivialOrder(t *testing.T) {
	s := Solver{N: big.NewInt(15)}
	f := factor.New(big.NewInt(1))

	part, err := s.SolveSmooth(big.NewInt(1), big.NewInt(1), f, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, int64(0), part.X.Int64())
	assert.Equal(t, int64(1), part.Modulus.Int64())
	assert.True(t, part.Complete)

	_, err = s.SolveSmooth(big.NewInt(1), big.NewInt(2), f, big.NewInt(1))
	require.ErrorIs(t, err, ErrVerifyMismatch)
}

func TestSolveSmoothIncompleteOrder(t *testing.T) {
	s := Solver{N: big.NewInt(1189)}
	g := big.NewInt(2) // order 140 = 2^2 * 5 * 7
	h := new(big.Int).Exp(g, big.NewInt(97), s.N)

	// Only the power of 2 is pulled out; 35 stays behind as remainder.
	f := factor.BySmallPrimes(big.NewInt(140), 2)
	require.False(t, f.Complete())
	require.Equal(t, int64(35), f.Remainder.Int64())

	part, err := s.SolveSmooth(g, h, f, big.NewInt(140))
	require.ErrorIs(t, err, ErrIncompleteOrder)
	assert.Equal(t, int64(1), part.X.Int64()) // 97 mod 4
	assert.Equal(t, int64(4), part.Modulus.Int64())
	assert.False(t, part.Complete)
}

func TestSolveSmoothSubgroupFailure(t *testing.T) {
	s := Solver{N: big.NewInt(1189)}
	// 3 has order 56 modulo 1189, so 140 does not annihilate it and no
	// congruence for the target can exist in the order-4 subgroup.
	f := factor.BySmallPrimes(big.NewInt(140), 10)
	require.True(t, f.Complete())

	_, err := s.SolveSmooth(big.NewInt(2), big.NewInt(3), f, big.NewInt(140))
	require.ErrorIs(t, err, ErrSubgroupSolve)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSolveSmoothNotCoprime(t *testing.T) {
	s := Solver{N: big.NewInt(15)}
	f := factor.BySmallPrimes(big.NewInt(4), 2)
	_, err := s.SolveSmooth(big.NewInt(5), big.NewInt(5), f, big.NewInt(4))
	require.ErrorIs(t, err, ErrNotCoprime)
}

func TestSolveSmoothFactorizationMismatch(t *testing.T) {
	s := Solver{N: big.NewInt(15)}
	f := factor.BySmallPrimes(big.NewInt(4), 2)
	_, err := s.SolveSmooth(big.NewInt(2), big.NewInt(8), f, big.NewInt(8))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSubgroupSolve)
}

func TestSolveSubgroupFallsBackToRho(t *testing.T) {
	// ceil(sqrt(140)) = 12 exceeds the table cap, forcing the rho path.
	s := Solver{N: big.NewInt(1189), TableCap: 4}
	g := big.NewInt(2)
	h := new(big.Int).Exp(g, big.NewInt(97), s.N)
	x, err := s.SolveSubgroup(g, h, big.NewInt(140))
	require.NoError(t, err)
	assert.Equal(t, int64(97), x.Int64())
}
