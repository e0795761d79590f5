package challenge

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteParseRoundTrip(t *testing.T) {
	ch := Challenge{N: big.NewInt(1189), C: big.NewInt(1000)}
	var buf bytes.Buffer
	_, err := ch.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "n = 4a5\nc = 3e8\n", buf.String())

	back, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, back.N.Cmp(ch.N))
	assert.Equal(t, 0, back.C.Cmp(ch.C))
}

func TestParseVariants(t *testing.T) {
	in := strings.Join([]string{
		"# instance handout",
		"",
		"N = 0x4A5",
		"base = 3",
		"c=3E8",
	}, "\n")
	ch, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, int64(1189), ch.N.Int64())
	assert.Equal(t, int64(1000), ch.C.Int64())
}

func TestParseMissingKeys(t *testing.T) {
	_, err := Parse(strings.NewReader("n = 4a5\n"))
	require.ErrorContains(t, err, "missing c")

	_, err = Parse(strings.NewReader(""))
	require.ErrorContains(t, err, "missing n")
}

func TestParseRejects(t *testing.T) {
	cases := []string{
		"n = zz\nc = 1\n",       // not hex
		"n = 4a5\nc = 4a5\n",    // c == n
		"n = 4a5\nc = 0\n",      // c == 0
		"n = 1\nc = 1\n",        // n too small
	}
	for _, in := range cases {
		_, err := Parse(strings.NewReader(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output.txt")

	ch := Challenge{N: big.NewInt(1189), C: big.NewInt(97)}
	require.NoError(t, ch.WriteFile(path))
	back, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, back.N.Cmp(ch.N))
	assert.Equal(t, 0, back.C.Cmp(ch.C))

	spath := filepath.Join(dir, "secret.txt")
	sec := Secret{P: big.NewInt(29), Q: big.NewInt(41)}
	require.NoError(t, sec.WriteFile(spath))
	raw, err := os.ReadFile(spath)
	require.NoError(t, err)
	assert.Equal(t, "p = 1d\nq = 29\n", string(raw))
}

func TestFlagCodec(t *testing.T) {
	m := EncodeFlag("flag{ok}")
	assert.Equal(t, "flag{ok}", DecodeFlag(m))

	// Control bytes vanish on decode; only printable ASCII survives.
	noisy := EncodeFlag("\x01hi\x7f")
	assert.Equal(t, "hi", DecodeFlag(noisy))
}

func TestExtractBraced(t *testing.T) {
	got, ok := ExtractBraced("noise picoCTF{smooth_sailing} tail", "picoCTF")
	require.True(t, ok)
	assert.Equal(t, "picoCTF{smooth_sailing}", got)

	got, ok = ExtractBraced("x{}", "x")
	require.True(t, ok)
	assert.Equal(t, "x{}", got)

	_, ok = ExtractBraced("picoCTF{unterminated", "picoCTF")
	assert.False(t, ok)

	_, ok = ExtractBraced("nothing here", "picoCTF")
	assert.False(t, ok)
}
