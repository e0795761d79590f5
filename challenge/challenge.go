package challenge

// Package challenge reads, writes and fabricates instances of the smooth-group
// discrete log puzzle: a composite n = p*q, a fixed public base and a value
// c = base^m mod n hiding an encoded flag m. The on-disk format is the
// two-line text file such challenges hand out ("n = <hex>", "c = <hex>").

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
)

var one = big.NewInt(1)

// Challenge is the public side of an instance.
type Challenge struct {
	N *big.Int
	C *big.Int
}

// Secret holds the generator-side factors. Solvers never need it; it exists so
// a generated instance can be checked without re-running the attack.
type Secret struct {
	P *big.Int
	Q *big.Int
}

// Parse reads the handout format: one "n = <hex>" line and one "c = <hex>"
// line, in any order. Keys are case-insensitive, hex values may carry an 0x
// prefix, blank lines and unknown keys are skipped.
func Parse(r io.Reader) (Challenge, error) {
	var ch Challenge
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		val := strings.TrimSpace(parts[1])
		switch strings.ToLower(strings.TrimSpace(parts[0])) {
		case "n":
			v, err := parseHex(val)
			if err != nil {
				return Challenge{}, err
			}
			ch.N = v
		case "c":
			v, err := parseHex(val)
			if err != nil {
				return Challenge{}, err
			}
			ch.C = v
		}
	}
	if err := sc.Err(); err != nil {
		return Challenge{}, err
	}
	if ch.N == nil {
		return Challenge{}, errors.New("challenge: missing n")
	}
	if ch.C == nil {
		return Challenge{}, errors.New("challenge: missing c")
	}
	if ch.N.Cmp(one) <= 0 {
		return Challenge{}, errors.New("challenge: modulus must exceed 1")
	}
	if ch.C.Sign() <= 0 || ch.C.Cmp(ch.N) >= 0 {
		return Challenge{}, errors.New("challenge: ciphertext outside (0, n)")
	}
	return ch, nil
}

func parseHex(s string) (*big.Int, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("challenge: bad hex value %q", s)
	}
	return v, nil
}

// ReadFile parses a handout file.
func ReadFile(path string) (Challenge, error) {
	f, err := os.Open(path)
	if err != nil {
		return Challenge{}, err
	}
	defer f.Close()
	return Parse(f)
}

// WriteTo emits the same format Parse accepts.
func (ch Challenge) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "n = %x\nc = %x\n", ch.N, ch.C)
	return int64(n), err
}

// WriteFile writes the instance to path.
func (ch Challenge) WriteFile(path string) error {
	var buf bytes.Buffer
	if _, err := ch.WriteTo(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// WriteTo emits the factors as "p = <hex>" and "q = <hex>" lines.
func (s Secret) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "p = %x\nq = %x\n", s.P, s.Q)
	return int64(n), err
}

// WriteFile writes the factors to path.
func (s Secret) WriteFile(path string) error {
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

// EncodeFlag packs a flag string into the integer the generator exponentiates
// with, big-endian byte order.
func EncodeFlag(s string) *big.Int {
	return new(big.Int).SetBytes([]byte(s))
}

// DecodeFlag renders a recovered exponent as text. Bytes outside printable
// ASCII are dropped, so a truncated or partially wrong exponent still shows
// whatever flag text it carries.
func DecodeFlag(x *big.Int) string {
	var b strings.Builder
	for _, c := range x.Bytes() {
		if c >= 0x20 && c <= 0x7e {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ExtractBraced scans s for the window prefix{...} and returns it with the
// braces included. Reports false when no complete window exists.
func ExtractBraced(s, prefix string) (string, bool) {
	i := strings.Index(s, prefix+"{")
	if i < 0 {
		return "", false
	}
	j := strings.Index(s[i:], "}")
	if j < 0 {
		return "", false
	}
	return s[i : i+j+1], true
}
