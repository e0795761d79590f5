package dlog

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBSGSSmallGroup(t *testing.T) {
	// 2 has order 4 modulo 15.
	s := Solver{N: big.NewInt(15)}
	for x := int64(0); x < 4; x++ {
		h := new(big.Int).Exp(big.NewInt(2), big.NewInt(x), s.N)
		got, err := s.BabyStepGiantStep(big.NewInt(2), h, big.NewInt(4))
		require.NoError(t, err, "x=%d", x)
		assert.Equal(t, x, got.Int64())
	}
}

func TestBSGSLargerSubgroup(t *testing.T) {
	// 2 has order 140 modulo 1189 = 29*41, so solutions are unique.
	s := Solver{N: big.NewInt(1189)}
	ord := big.NewInt(140)
	for _, x := range []int64{0, 1, 11, 97, 139} {
		h := new(big.Int).Exp(big.NewInt(2), big.NewInt(x), s.N)
		got, err := s.BabyStepGiantStep(big.NewInt(2), h, ord)
		require.NoError(t, err, "x=%d", x)
		assert.Equal(t, x, got.Int64())
	}
}

func TestBSGSOutOfWindowHit(t *testing.T) {
	// 2 generates all of (Z/13Z)* and 2^5 = 6, but the declared window is
	// [0, 3). The giant sweep wraps around and hits x = 5; it must be
	// discarded rather than returned.
	s := Solver{N: big.NewInt(13)}
	_, err := s.BabyStepGiantStep(big.NewInt(2), big.NewInt(6), big.NewInt(3))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBSGSShadowedIndex(t *testing.T) {
	// 11 has order 2 modulo 15, well below the table size for a declared
	// order of 8, so the baby table sees the same element repeatedly. The
	// first index must win or 0 stops being reachable.
	s := Solver{N: big.NewInt(15)}
	got, err := s.BabyStepGiantStep(big.NewInt(11), big.NewInt(1), big.NewInt(8))
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Int64())
}

func TestBSGSNotCoprime(t *testing.T) {
	s := Solver{N: big.NewInt(15)}
	_, err := s.BabyStepGiantStep(big.NewInt(5), big.NewInt(5), big.NewInt(4))
	require.ErrorIs(t, err, ErrNotCoprime)
}

func TestBSGSTableCap(t *testing.T) {
	// order 140 needs ceil(sqrt(140)) = 12 entries.
	s := Solver{N: big.NewInt(1189), TableCap: 8}
	_, err := s.BabyStepGiantStep(big.NewInt(2), big.NewInt(2), big.NewInt(140))
	require.ErrorIs(t, err, ErrTableTooLarge)
}

func TestBSGSTrivialOrder(t *testing.T) {
	s := Solver{N: big.NewInt(15)}
	got, err := s.BabyStepGiantStep(big.NewInt(2), big.NewInt(1), big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Int64())

	_, err = s.BabyStepGiantStep(big.NewInt(2), big.NewInt(2), big.NewInt(1))
	require.ErrorIs(t, err, ErrNotFound)
}
