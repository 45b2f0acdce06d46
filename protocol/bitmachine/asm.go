package bitmachine

import (
	"strconv"
	"strings"
	"unicode"

	"simplicity/errors"
)

type opInfo struct {
	name  string
	parse func(arg string) (Instruction, error)
}

func noArg(inst Instruction) func(string) (Instruction, error) {
	return func(arg string) (Instruction, error) {
		if arg != "" {
			return nil, errors.WithDetailf(ErrSyntax, "unexpected argument %q", arg)
		}
		return inst, nil
	}
}

func countArg(mk func(int) Instruction) func(string) (Instruction, error) {
	return func(arg string) (Instruction, error) {
		if arg == "" || strings.IndexFunc(arg, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			return nil, errors.WithDetailf(ErrSyntax, "bad count %q", arg)
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, errors.WithDetailf(ErrSyntax, "bad count %q", arg)
		}
		return mk(n), nil
	}
}

var ops = []opInfo{
	{"newFrame", countArg(func(n int) Instruction { return NewFrame{n} })},
	{"moveFrame", noArg(MoveFrame{})},
	{"dropFrame", noArg(DropFrame{})},
	{"write", func(arg string) (Instruction, error) {
		switch arg {
		case "true":
			return Write{true}, nil
		case "false":
			return Write{false}, nil
		}
		return nil, errors.WithDetailf(ErrSyntax, "bad bit %q", arg)
	}},
	{"skip", countArg(func(n int) Instruction { return Skip{n} })},
	{"copy", countArg(func(n int) Instruction { return Copy{n} })},
	{"fwd", countArg(func(n int) Instruction { return Fwd{n} })},
	{"bwd", countArg(func(n int) Instruction { return Bwd{n} })},
	{"writeString", func(arg string) (Instruction, error) {
		var bits []bool
		for _, c := range arg {
			switch c {
			case '0':
				bits = append(bits, false)
			case '1':
				bits = append(bits, true)
			default:
				return nil, errors.WithDetailf(ErrSyntax, "bad bit string %q", arg)
			}
		}
		return WriteString{bits}, nil
	}},
}

var opsByName = make(map[string]opInfo)

func init() {
	for _, op := range ops {
		opsByName[op.name] = op
	}
}

// Parse parses the text form of a single instruction,
// as produced by its String method.
func Parse(s string) (Instruction, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return nil, errors.WithDetailf(ErrSyntax, "%q is not of the form name(args)", s)
	}
	op, ok := opsByName[s[:open]]
	if !ok {
		return nil, errors.WithDetailf(ErrSyntax, "unknown instruction %q", s[:open])
	}
	inst, err := op.parse(s[open+1 : len(s)-1])
	return inst, errors.Wrapf(err, "parsing %s", s)
}

// Assemble parses a listing of instructions separated by
// whitespace or semicolons. A # starts a comment that runs
// to the end of the line.
func Assemble(src string) ([]Instruction, error) {
	var insts []Instruction
	for lineno, line := range strings.Split(src, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ';' || unicode.IsSpace(r)
		})
		for _, f := range fields {
			inst, err := Parse(f)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineno+1)
			}
			insts = append(insts, inst)
		}
	}
	return insts, nil
}

// Disassemble formats insts one per line.
func Disassemble(insts []Instruction) string {
	var b strings.Builder
	for _, inst := range insts {
		b.WriteString(inst.String())
		b.WriteByte('\n')
	}
	return b.String()
}
