// Command simrun executes a program.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"simplicity/config"
	"simplicity/env"
	"simplicity/log"
	"simplicity/log/rotation"
	"simplicity/metrics"
	"simplicity/protocol/dag"
	"simplicity/protocol/jets/jettest"
	"simplicity/protocol/value"
	"simplicity/protocol/verify"
)

const help = `Usage: simrun [flags] [program.cbor]

Command simrun reads a program in wire format from the named file,
or from stdin if no file is given, runs it on the input given by
-input, and prints its output to stdout.

The input is a string of bits, either binary digits ("0110")
or hex digits after 0x ("0x6f"). Its length must be the width of
the program's source type. It defaults to no bits, which suits
programs whose source type is the unit type.

To write one of the built-in sample programs instead:

	simrun -emit not >not.cbor
	simrun -input 1 not.cbor

Exit code 0 indicates success.
Exit code 1 indicates the program failed.
Exit code 2 indicates a usage, I/O or internal error.

Flags:
`

var (
	flagC       = flag.String("c", "", "read configuration from `file`")
	flagEngine  = flag.String("engine", "", "engine: bitmachine, interp or both")
	flagTail    = flag.Bool("tail", false, "use tail-optimized expansion")
	flagT       = flag.Bool("t", false, "log every executed instruction")
	flagInput   = flag.String("input", "", "program input `bits`")
	flagStats   = flag.Bool("stats", false, "print run and sharing statistics to stderr")
	flagVersion = flag.Uint("version", 0, "environment version seen by the version jet")
	flagEmit    = flag.String("emit", "", "write the named sample program to stdout and exit")
)

var (
	logFile = env.String("SIMPLICITY_LOGFILE", "")
	logSize = env.Int("SIMPLICITY_LOGSIZE", 5e6)
	logKeep = env.Int("SIMPLICITY_LOGCOUNT", 9)
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, help)
		flag.PrintDefaults()
	}
	flag.Parse()
	env.Parse()

	if *flagEmit != "" {
		os.Exit(emit(*flagEmit))
	}
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	log.SetOutput(os.Stderr)
	var f *rotation.File
	if *logFile != "" {
		f = rotation.Create(*logFile, *logSize, *logKeep)
		log.SetOutput(f)
	}

	ctx := log.WithRunID(context.Background())
	code := 2
	func() {
		defer log.RecoverAndLogError(ctx)
		code = run(ctx)
	}()
	if f != nil {
		f.Close()
	}
	os.Exit(code)
}

func run(ctx context.Context) int {
	cfg, err := config.Load(*flagC)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "engine":
			cfg.Engine = *flagEngine
		case "tail":
			cfg.Tail = *flagTail
		case "t":
			cfg.Trace = *flagT
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	data, err := readProgram()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	prog, err := dag.Decode(data, jettest.Catalog())
	if err != nil {
		fmt.Fprintln(os.Stderr, "decoding program:", err)
		return 2
	}
	bits, err := parseBits(*flagInput)
	if err != nil {
		fmt.Fprintln(os.Stderr, "-input:", err)
		return 2
	}
	input, err := value.FromBits(bits, prog.Source())
	if err != nil {
		fmt.Fprintf(os.Stderr, "-input: %s for source type %s\n", err, prog.Source())
		return 2
	}

	ctx = verify.WithEnv(ctx, &jettest.Env{Version: uint32(*flagVersion)})
	res, err := verify.Execute(ctx, prog, input, cfg)
	if *flagStats {
		printStats(os.Stderr, prog, res)
	}
	switch {
	case err == nil:
		fmt.Println(res.Output)
		return 0
	case res.Outcome.ProgramFailure():
		fmt.Fprintf(os.Stderr, "program failed (%s): %s\n", res.Outcome, err)
		return 1
	}
	log.Error(ctx, err, "run")
	fmt.Fprintln(os.Stderr, "error:", err)
	return 2
}

func readProgram() ([]byte, error) {
	if flag.NArg() == 0 {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(flag.Arg(0))
}

// parseBits parses a binary string, or a hex string prefixed with 0x.
// Each hex digit gives four bits, so odd lengths are allowed.
func parseBits(s string) ([]bool, error) {
	var bits []bool
	if h, ok := strings.CutPrefix(s, "0x"); ok {
		n := 4 * len(h)
		if len(h)%2 == 1 {
			h += "0"
		}
		b, err := hex.DecodeString(h)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			bits = append(bits, b[i/8]&(0x80>>uint(i%8)) != 0)
		}
		return bits, nil
	}
	for _, c := range s {
		switch c {
		case '0', '1':
			bits = append(bits, c == '1')
		default:
			return nil, fmt.Errorf("bad bit %q", c)
		}
	}
	return bits, nil
}

func printStats(w io.Writer, prog *dag.Node, res verify.Result) {
	sh := dag.Stats(prog)
	fmt.Fprintf(w, "program %s: %d nodes, %d unique\n", prog.CMR(), sh.Nodes, sh.Unique)
	fmt.Fprintf(w, "run: %s in %s, %d steps, depth %d\n", res.Outcome, res.Elapsed.Round(time.Microsecond), res.Steps, res.MaxDepth)
	for _, s := range metrics.Snapshot() {
		fmt.Fprintf(w, "%s: %d runs, steps mean %.1f p50 %d p99 %d max %d, depth max %d\n",
			s.Engine, s.Runs, s.StepsMean, s.StepsP50, s.StepsP99, s.StepsMax, s.DepthMax)
	}
}
