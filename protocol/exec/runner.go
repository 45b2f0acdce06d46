package exec

import (
	"fmt"

	"simplicity/errors"
	"simplicity/protocol/bitmachine"
	"simplicity/protocol/dag"
	"simplicity/protocol/value"
)

type mode uint8

const (
	plain mode = iota
	tail
)

// A task is a pending instruction (inst != nil)
// or a node to expand in the given mode.
type task struct {
	inst bitmachine.Instruction
	node *dag.Node
	mode mode
}

// Runner executes one program on one Bit Machine.
// A Runner is not safe for concurrent use.
type Runner struct {
	root  *dag.Node
	m     *bitmachine.Machine
	tasks []task // tasks[len(tasks)-1] is next

	tail     bool
	traceOp  func(bitmachine.Instruction, *bitmachine.Machine)
	maxSteps uint64

	steps uint64
	err   error
}

// Option configures a Runner.
type Option func(*Runner)

// Tail selects tail-optimized expansion.
func Tail(on bool) Option {
	return func(r *Runner) { r.tail = on }
}

// TraceOp registers f to be called after each executed instruction.
func TraceOp(f func(bitmachine.Instruction, *bitmachine.Machine)) Option {
	return func(r *Runner) { r.traceOp = f }
}

// MaxSteps makes the run fail with ErrStepLimit instead of
// executing more than n instructions. Zero means no limit.
func MaxSteps(n uint64) Option {
	return func(r *Runner) { r.maxSteps = n }
}

// NewRunner returns a runner for root over m. The top of m's read
// stack must hold the program input and the top of its write stack
// an empty frame for the output. When the run completes, the output
// frame has moved to the top of the read stack and the input frame
// has been dropped.
func NewRunner(root *dag.Node, m *bitmachine.Machine, opts ...Option) *Runner {
	r := &Runner{root: root, m: m}
	for _, o := range opts {
		o(r)
	}
	if r.tail {
		r.push(bitmachine.MoveFrame{})
		r.tasks = append(r.tasks, task{node: root, mode: tail})
	} else {
		r.push(bitmachine.MoveFrame{}, bitmachine.DropFrame{})
		r.tasks = append(r.tasks, task{node: root, mode: plain})
	}
	return r
}

// push pushes instructions so that they run in reverse order:
// the last one given runs first.
func (r *Runner) push(insts ...bitmachine.Instruction) {
	for _, inst := range insts {
		r.tasks = append(r.tasks, task{inst: inst})
	}
}

// Machine returns the machine the runner drives.
func (r *Runner) Machine() *bitmachine.Machine { return r.m }

// Steps returns the number of instructions executed so far.
func (r *Runner) Steps() uint64 { return r.steps }

// Done reports whether the run has finished, successfully or not.
func (r *Runner) Done() bool { return r.err != nil || len(r.tasks) == 0 }

// Err returns the error that ended the run, if any.
func (r *Runner) Err() error { return r.err }

// Step expands pending nodes until one instruction has executed,
// and returns that instruction. It returns nil, nil once the run
// is complete. After an error, Step keeps returning that error.
func (r *Runner) Step() (bitmachine.Instruction, error) {
	if r.err != nil {
		return nil, r.err
	}
	for len(r.tasks) > 0 {
		t := r.tasks[len(r.tasks)-1]
		r.tasks = r.tasks[:len(r.tasks)-1]
		if t.inst == nil {
			if err := r.expand(t.node, t.mode); err != nil {
				r.err = err
				return nil, err
			}
			continue
		}
		if r.maxSteps > 0 && r.steps >= r.maxSteps {
			r.err = errors.WithDetailf(ErrStepLimit, "limit %d", r.maxSteps)
			return nil, r.err
		}
		if err := r.m.Exec(t.inst); err != nil {
			r.err = errors.Wrapf(err, "executing %s", t.inst)
			return nil, r.err
		}
		r.steps++
		if r.traceOp != nil {
			r.traceOp(t.inst, r.m)
		}
		return t.inst, nil
	}
	return nil, nil
}

// Run steps until the run is complete.
func (r *Runner) Run() error {
	for !r.Done() {
		if _, err := r.Step(); err != nil {
			return err
		}
	}
	return r.err
}

// Output decodes the output frame of a completed run.
func (r *Runner) Output() (*value.Value, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.tasks) > 0 {
		return nil, ErrNotDone
	}
	out := r.m.ReadStack().Element(0)
	v, err := value.Decode(out, r.root.Target())
	return v, errors.Wrap(err, "decoding output")
}

// expand pushes the template for n in mode md.
// Every template keeps tail(n) ≡ plain(n); dropFrame.
// So in tail mode Iden drops after its copy, and Comp runs its left
// child in tail mode too, releasing its input frame before moveFrame.
func (r *Runner) expand(n *dag.Node, md mode) error {
	var (
		src = n.Source()
		in  []task // template, in execution order
	)
	inst := func(i bitmachine.Instruction) { in = append(in, task{inst: i}) }
	sub := func(c *dag.Node, m mode) { in = append(in, task{node: c, mode: m}) }
	dropIfTail := func() {
		if md == tail {
			inst(bitmachine.DropFrame{})
		}
	}

	switch n.Kind() {
	case dag.KindUnit:
		dropIfTail()
	case dag.KindIden:
		inst(bitmachine.Copy{N: src.Width()})
		dropIfTail()
	case dag.KindInjL:
		inst(bitmachine.Write{Bit: false})
		inst(bitmachine.Skip{N: n.Target().PadLeft()})
		sub(n.Left(), md)
	case dag.KindInjR:
		inst(bitmachine.Write{Bit: true})
		inst(bitmachine.Skip{N: n.Target().PadRight()})
		sub(n.Left(), md)
	case dag.KindTake:
		sub(n.Left(), md)
	case dag.KindDrop:
		w := src.Left().Width()
		inst(bitmachine.Fwd{N: w})
		sub(n.Left(), md)
		if md == plain {
			inst(bitmachine.Bwd{N: w})
		}
	case dag.KindComp:
		inst(bitmachine.NewFrame{Width: n.Left().Target().Width()})
		sub(n.Left(), md)
		inst(bitmachine.MoveFrame{})
		sub(n.Right(), md)
		if md == plain {
			inst(bitmachine.DropFrame{})
		}
	case dag.KindPair:
		sub(n.Left(), plain)
		sub(n.Right(), md)
	case dag.KindCase, dag.KindAssertL, dag.KindAssertR:
		bit, err := r.m.Peek()
		if err != nil {
			return errors.Wrapf(err, "peeking for %s", n.Kind())
		}
		sum := src.Left()
		branch, pad := n.Left(), sum.PadLeft()
		if bit {
			branch, pad = n.Right(), sum.PadRight()
		}
		if branch == nil {
			return errors.WithData(ErrPrunedBranch, "cmr", n.Hidden())
		}
		inst(bitmachine.Fwd{N: 1 + pad})
		sub(branch, md)
		if md == plain {
			inst(bitmachine.Bwd{N: 1 + pad})
		}
	case dag.KindDisconnect:
		s, t := n.Left(), n.Right()
		b, c := s.Target().Left().Width(), s.Target().Right().Width()
		inst(bitmachine.NewFrame{Width: 256 + src.Width()})
		inst(bitmachine.WriteString{Bits: cmrBits(t.CMR())})
		inst(bitmachine.Copy{N: src.Width()})
		dropIfTail()
		inst(bitmachine.MoveFrame{})
		inst(bitmachine.NewFrame{Width: b + c})
		sub(s, tail)
		inst(bitmachine.MoveFrame{})
		inst(bitmachine.Copy{N: b})
		inst(bitmachine.Fwd{N: b})
		sub(t, tail)
	case dag.KindWitness, dag.KindWord:
		inst(bitmachine.WriteString{Bits: n.Value().Bits()})
		dropIfTail()
	case dag.KindFail:
		return errors.WithData(ErrFailNode, "token", n.Token())
	case dag.KindJet:
		return errors.WithDetailf(ErrJetsNotSupported, "jet %s", n.Jet().Name)
	default:
		panic(fmt.Sprintf("exec: unknown kind %d", uint8(n.Kind())))
	}

	for i := len(in) - 1; i >= 0; i-- {
		r.tasks = append(r.tasks, in[i])
	}
	return nil
}

func cmrBits(c dag.CMR) []bool {
	bits := make([]bool, 8*len(c))
	for i := range bits {
		bits[i] = c[i/8]&(0x80>>uint(i%8)) != 0
	}
	return bits
}

// Run executes root on input and returns its output.
func Run(root *dag.Node, input *value.Value, opts ...Option) (*value.Value, error) {
	if !input.Type().Equal(root.Source()) {
		return nil, errors.WithDetailf(ErrInputType, "input %s, source %s", input.Type(), root.Source())
	}
	m := bitmachine.NewWithInput(input.Bits(), root.Target().Width())
	r := NewRunner(root, m, opts...)
	if err := r.Run(); err != nil {
		return nil, err
	}
	return r.Output()
}
