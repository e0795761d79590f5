package dlog

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRhoAgreesWithBSGS(t *testing.T) {
	s := Solver{N: big.NewInt(1189)}
	ord := big.NewInt(140) // exact order of 2, so solutions are unique
	for _, x := range []int64{1, 5, 97, 139} {
		h := new(big.Int).Exp(big.NewInt(2), big.NewInt(x), s.N)
		got, err := s.PollardRho(big.NewInt(2), h, ord)
		require.NoError(t, err, "x=%d", x)
		assert.Equal(t, x, got.Int64())

		bs, err := s.BabyStepGiantStep(big.NewInt(2), h, ord)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Cmp(bs))
	}
}

func TestRhoTrivialTarget(t *testing.T) {
	s := Solver{N: big.NewInt(1189)}
	got, err := s.PollardRho(big.NewInt(2), big.NewInt(1), big.NewInt(140))
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Int64())
}

func TestRhoNotCoprime(t *testing.T) {
	s := Solver{N: big.NewInt(15)}
	_, err := s.PollardRho(big.NewInt(5), big.NewInt(5), big.NewInt(4))
	require.ErrorIs(t, err, ErrNotCoprime)
}

func TestRhoUnsolvable(t *testing.T) {
	// 3 has order 3 modulo 13 and 2 is not one of {1, 3, 9}: every
	// collision candidate fails verification until the budget runs out.
	s := Solver{N: big.NewInt(13), RhoBudget: 1 << 12}
	_, err := s.PollardRho(big.NewInt(3), big.NewInt(2), big.NewInt(3))
	require.ErrorIs(t, err, ErrNotFound)
}
