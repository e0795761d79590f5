package main

import (
	crand "crypto/rand"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/big"
	mrand "math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"smoothlog/attack"
	"smoothlog/challenge"
	"smoothlog/dlog"
	"smoothlog/factor"
	"smoothlog/group"
	"smoothlog/measure"
	"smoothlog/prof"
)

func usage() {
	fmt.Println(`usage: smoothlog <gen|solve|factor|dlog|verify> [options]

Subcommands:
  gen      Generate an instance with smooth p-1 and q-1 and write the handout
           Flags:
             -bits   <int>     modulus width in bits (default: 256)
             -bound  <uint>    smoothness bound for p-1, q-1 (default: 65536)
             -flag   <string>  flag text to hide (required)
             -base   <int>     public base (default: 3)
             -seed   <int>     deterministic instance for a fixed seed (0 = crypto random)
             -o      <path>    handout file, '-' for stdout (default: output.txt)
             -secret <path>    also write p and q (default: not written)

  solve    Run the full attack against a handout file
           Flags:
             -in          <path>    handout file (default: output.txt)
             -base        <int>     public base, or e in rsa mode (default: 3)
             -bounds      <csv>     pollard p-1 bound ladder (default: 4096,65536,1048576)
             -order-bound <uint>    trial division bound for the group exponent
             -split-bits  <int>     max cofactor width handed to rho/ecm splitting
             -table-cap   <uint>    baby-step table entry cap
             -rho-budget  <uint>    pollard rho iteration cap
             -timeout     <dur>     overall deadline, e.g. 30s (default: none)
             -mode        <dlog|rsa> recover a discrete log or invert e over phi
             -pattern     <string>  flag pattern to extract (default: picoCTF)
           Output (stdout):
             p, q, order bits, x, decoded flag, stage timings

  factor   Pollard p-1 only: -n <int> -bound <uint> -timeout <dur>

  dlog     Solve with a known factor, skipping Pollard: -n -c -p -base
           plus -order-bound -split-bits -table-cap -rho-budget

  verify   Check base^x against c: -n -c -x -base`)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "gen":
		runGen(os.Args[2:])
	case "solve":
		runSolve(os.Args[2:])
	case "factor":
		runFactor(os.Args[2:])
	case "dlog":
		runDlog(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	default:
		usage()
	}
}

// parseBig accepts decimal, 0x-prefixed hex, or bare hex.
func parseBig(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty number")
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if v, ok := new(big.Int).SetString(s[2:], 16); ok {
			return v, nil
		}
		return nil, fmt.Errorf("invalid hex number %q", s)
	}
	if v, ok := new(big.Int).SetString(s, 10); ok {
		return v, nil
	}
	if v, ok := new(big.Int).SetString(s, 16); ok {
		return v, nil
	}
	return nil, fmt.Errorf("cannot read %q as decimal or hex", s)
}

func parseBounds(csv string) ([]uint64, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, nil
	}
	var out []uint64
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		b, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bound %q: %w", part, err)
		}
		out = append(out, b)
	}
	return out, nil
}

func mustBig(name, val string) *big.Int {
	v, err := parseBig(val)
	if err != nil {
		log.Fatalf("-%s: %v", name, err)
	}
	return v
}

func runGen(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	bits := fs.Int("bits", 256, "modulus width in bits")
	bound := fs.Uint64("bound", 1<<16, "smoothness bound for p-1 and q-1")
	flagText := fs.String("flag", "", "flag text to hide (required)")
	baseStr := fs.String("base", "3", "public base")
	seed := fs.Int64("seed", 0, "deterministic instance for a fixed seed (0 = crypto random)")
	out := fs.String("o", "output.txt", "handout file, '-' for stdout")
	secret := fs.String("secret", "", "also write p and q to this path")
	fs.Parse(args)

	if *flagText == "" {
		log.Fatalf("gen: -flag is required")
	}
	var rnd io.Reader = crand.Reader
	if *seed != 0 {
		rnd = mrand.New(mrand.NewSource(*seed))
	}
	opts := challenge.GenOpts{
		Bits:  *bits,
		Bound: *bound,
		Flag:  *flagText,
		Base:  mustBig("base", *baseStr),
	}
	ch, sec, err := challenge.Generate(opts, rnd)
	if err != nil {
		log.Fatalf("gen: %v", err)
	}

	if *out == "-" {
		if _, err := ch.WriteTo(os.Stdout); err != nil {
			log.Fatalf("gen: %v", err)
		}
	} else {
		if err := ch.WriteFile(*out); err != nil {
			log.Fatalf("gen: %v", err)
		}
		fmt.Printf("instance written to %s (n: %d bits)\n", *out, ch.N.BitLen())
	}
	if *secret != "" {
		if err := sec.WriteFile(*secret); err != nil {
			log.Fatalf("gen: %v", err)
		}
		fmt.Printf("factors written to %s\n", *secret)
	}
	if measure.Enabled {
		measure.Global.Dump()
	}
}

func runSolve(args []string) {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	in := fs.String("in", "output.txt", "handout file")
	baseStr := fs.String("base", "3", "public base, or e in rsa mode")
	boundsCSV := fs.String("bounds", "", "pollard p-1 bound ladder, comma separated")
	orderBound := fs.Uint64("order-bound", 0, "trial division bound for the group exponent")
	splitBits := fs.Int("split-bits", 0, "max cofactor width handed to rho/ecm splitting")
	tableCap := fs.Uint64("table-cap", 0, "baby-step table entry cap")
	rhoBudget := fs.Uint64("rho-budget", 0, "pollard rho iteration cap")
	timeout := fs.Duration("timeout", 0, "overall deadline (0 = none)")
	mode := fs.String("mode", "dlog", "dlog|rsa")
	pattern := fs.String("pattern", "picoCTF", "flag pattern to extract ('' = print raw)")
	fs.Parse(args)

	ch, err := challenge.ReadFile(*in)
	if err != nil {
		log.Fatalf("solve: %v", err)
	}
	bounds, err := parseBounds(*boundsCSV)
	if err != nil {
		log.Fatalf("solve: %v", err)
	}
	opts := attack.Options{
		Base:            mustBig("base", *baseStr),
		Bounds:          bounds,
		OrderPrimeBound: *orderBound,
		SplitRemBits:    *splitBits,
		TableCap:        *tableCap,
		RhoBudget:       *rhoBudget,
	}
	if *timeout > 0 {
		opts.Deadline = time.Now().Add(*timeout)
	}
	switch *mode {
	case "dlog":
		opts.Mode = attack.ModeDiscreteLog
	case "rsa":
		opts.Mode = attack.ModeRSA
	default:
		log.Fatalf("solve: unknown mode %q", *mode)
	}

	res, err := attack.Run(ch, opts)
	partial := errors.Is(err, dlog.ErrIncompleteOrder)
	if err != nil && !partial {
		log.Fatalf("solve: %v", err)
	}

	fmt.Printf("p = %x\n", res.P)
	fmt.Printf("q = %x\n", res.Q)
	if res.Order != nil {
		fmt.Printf("order: %d bits\n", res.OrderBits)
	}
	fmt.Printf("x = %x\n", res.X)
	if partial {
		fmt.Printf("WARNING: %v\n", err)
		fmt.Printf("the exponent above is only a residue, not the full answer\n")
	}
	printFlag(res.Flag(), *pattern)
	prof.Report(os.Stdout, res.Stages)
	if measure.Enabled {
		measure.Global.Dump()
	}
}

func printFlag(text, pattern string) {
	if pattern != "" {
		if windowed, ok := challenge.ExtractBraced(text, pattern); ok {
			fmt.Printf("flag: %s\n", windowed)
			return
		}
	}
	fmt.Printf("flag (raw): %q\n", text)
}

func runFactor(args []string) {
	fs := flag.NewFlagSet("factor", flag.ExitOnError)
	nStr := fs.String("n", "", "modulus to factor (required)")
	bound := fs.Uint64("bound", 1<<16, "smoothness bound")
	timeout := fs.Duration("timeout", 0, "deadline (0 = none)")
	fs.Parse(args)

	if *nStr == "" {
		log.Fatalf("factor: -n is required")
	}
	n := mustBig("n", *nStr)
	opts := factor.PMinus1Opts{Bound: *bound}
	if *timeout > 0 {
		opts.Deadline = time.Now().Add(*timeout)
	}
	p, err := factor.PollardPMinus1(n, opts)
	if err != nil {
		log.Fatalf("factor: %v", err)
	}
	q := new(big.Int).Div(n, p)
	fmt.Printf("p = %x\n", p)
	fmt.Printf("q = %x\n", q)
	if measure.Enabled {
		measure.Global.Dump()
	}
}

func runDlog(args []string) {
	fs := flag.NewFlagSet("dlog", flag.ExitOnError)
	nStr := fs.String("n", "", "modulus (required)")
	cStr := fs.String("c", "", "target value (required)")
	pStr := fs.String("p", "", "known prime factor of n (required)")
	baseStr := fs.String("base", "3", "public base")
	orderBound := fs.Uint64("order-bound", 0, "trial division bound for p-1 and q-1")
	splitBits := fs.Int("split-bits", 0, "max cofactor width handed to rho/ecm splitting")
	tableCap := fs.Uint64("table-cap", 0, "baby-step table entry cap")
	rhoBudget := fs.Uint64("rho-budget", 0, "pollard rho iteration cap")
	fs.Parse(args)

	if *nStr == "" || *cStr == "" || *pStr == "" {
		log.Fatalf("dlog: -n, -c and -p are required")
	}
	m, err := group.NewModulus(mustBig("n", *nStr), mustBig("p", *pStr))
	if err != nil {
		log.Fatalf("dlog: %v", err)
	}
	base := mustBig("base", *baseStr)
	c := mustBig("c", *cStr)

	x, mod, err := dlog.SolveSplit(base, c, m, dlog.SplitOpts{
		MaxPrime:  *orderBound,
		SplitBits: *splitBits,
		TableCap:  *tableCap,
		RhoBudget: *rhoBudget,
	})
	if err != nil {
		log.Fatalf("dlog: %v", err)
	}
	fmt.Printf("x = %x\n", x)
	fmt.Printf("valid modulo %x (%d bits)\n", mod, mod.BitLen())
	printFlag(challenge.DecodeFlag(x), "")
	if measure.Enabled {
		measure.Global.Dump()
	}
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	nStr := fs.String("n", "", "modulus (required)")
	cStr := fs.String("c", "", "target value (required)")
	xStr := fs.String("x", "", "candidate exponent (required)")
	baseStr := fs.String("base", "3", "public base")
	fs.Parse(args)

	if *nStr == "" || *cStr == "" || *xStr == "" {
		log.Fatalf("verify: -n, -c and -x are required")
	}
	n := mustBig("n", *nStr)
	c := mustBig("c", *cStr)
	x := mustBig("x", *xStr)
	base := mustBig("base", *baseStr)
	if !dlog.Verify(base, x, n, c) {
		log.Fatalf("verify failed: %v^%v != %v (mod %v)", base, x, c, n)
	}
	fmt.Println("verified")
}
