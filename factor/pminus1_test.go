package factor

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1189 = 29 * 41 with 29-1 = 2^2*7 and 41-1 = 2^3*5, both 11-smooth.
func TestPollardPMinus1Smooth(t *testing.T) {
	n := big.NewInt(1189)
	d, err := PollardPMinus1(n, PMinus1Opts{Bound: 11})
	require.NoError(t, err)
	assert.Equal(t, int64(41), d.Int64(), "41-1 = 2^3*5 is exhausted first")

	// Round trip: any reported factor must be nontrivial and divide n.
	assert.Equal(t, 0, new(big.Int).Mod(n, d).Sign())
	assert.Equal(t, 1, d.Cmp(big.NewInt(1)))
	assert.Equal(t, -1, d.Cmp(n))
}

func TestPollardPMinus1BoundTooSmall(t *testing.T) {
	// With B=5 the accumulator exponent misses both 7 (from 29-1) and
	// 5 (only 2^2 and 3 fold in below 5), so the scan must come up empty.
	_, err := PollardPMinus1(big.NewInt(1189), PMinus1Opts{Bound: 5})
	require.ErrorIs(t, err, ErrNoFactor)

	// The caller-side retry with a larger bound then succeeds.
	d, err := PollardPMinus1(big.NewInt(1189), PMinus1Opts{Bound: 11})
	require.NoError(t, err)
	assert.Equal(t, 0, new(big.Int).Mod(big.NewInt(1189), d).Sign())
}

// 29893 = 167 * 179; 167-1 = 2*83 and 179-1 = 2*89 both carry a prime above
// the bound, so the method structurally cannot find a factor and must say so
// rather than return something wrong.
func TestPollardPMinus1NonSmooth(t *testing.T) {
	d, err := PollardPMinus1(big.NewInt(29893), PMinus1Opts{Bound: 50})
	require.ErrorIs(t, err, ErrNoFactor)
	assert.Nil(t, d)
}

// 97 is prime and 96 = 2^5*3 is 100-smooth, so the accumulator reaches 1 and
// the gcd degenerates to n exactly. That is bound failure, not a factor.
func TestPollardPMinus1PrimeInput(t *testing.T) {
	d, err := PollardPMinus1(big.NewInt(97), PMinus1Opts{Bound: 100})
	require.ErrorIs(t, err, ErrNoFactor)
	assert.Nil(t, d)
}

func TestPollardPMinus1EvenModulus(t *testing.T) {
	d, err := PollardPMinus1(big.NewInt(1189*2), PMinus1Opts{Bound: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.Int64())
}

func TestPollardPMinus1Deadline(t *testing.T) {
	opts := PMinus1Opts{Bound: 1 << 20, Deadline: time.Now().Add(-time.Second)}
	_, err := PollardPMinus1(big.NewInt(29893), opts)
	require.ErrorIs(t, err, ErrBudget)
	assert.False(t, errors.Is(err, ErrNoFactor))
}
