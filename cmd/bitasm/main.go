// Command bitasm runs a Bit Machine instruction listing.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"simplicity/protocol/bitmachine"
)

const help = `Usage: bitasm [-in bits] [-out n] [-t] <listing

Command bitasm reads Bit Machine instructions from stdin,
one or more per line separated by ';', and executes them
on a machine whose read stack holds the -in bits and whose
write stack holds an empty frame of -out bits. It then
prints both stacks. A '#' starts a comment.

	echo 'copy(2); moveFrame()' | bitasm -in 10 -out 2

Exit code 0 indicates success.
Exit code 1 indicates an instruction failed.
Exit code 2 indicates a usage, syntax or I/O error.

Flags:
`

var (
	flagIn  = flag.String("in", "", "initial input frame, as binary digits")
	flagOut = flag.Int("out", 0, "width of the initial output frame")
	flagT   = flag.Bool("t", false, "print the machine after every instruction")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, help)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 0 || *flagOut < 0 {
		flag.Usage()
		os.Exit(2)
	}

	var in []bool
	for _, c := range *flagIn {
		if c != '0' && c != '1' {
			fmt.Fprintf(os.Stderr, "-in: bad bit %q\n", c)
			os.Exit(2)
		}
		in = append(in, c == '1')
	}

	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	prog, err := bitmachine.Assemble(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	m := bitmachine.NewWithInput(in, *flagOut)
	for i, inst := range prog {
		if err := m.Exec(inst); err != nil {
			fmt.Fprintf(os.Stderr, "instruction %d, %s: %s\n", i+1, inst, err)
			fmt.Println(m)
			os.Exit(1)
		}
		if *flagT {
			fmt.Fprintf(os.Stderr, "%s\n%s\n", inst, m)
		}
	}
	fmt.Println(m)
}
