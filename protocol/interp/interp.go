// Package interp evaluates programs directly on values,
// without the Bit Machine.
//
// It serves as an oracle for the machine: for any program and
// input, Run and exec.Run agree on the output or on the kind of
// failure. Unlike the machine, the interpreter runs jets.
package interp

import (
	"fmt"

	"simplicity/errors"
	"simplicity/protocol/dag"
	"simplicity/protocol/jets"
	"simplicity/protocol/value"
)

var (
	// ErrAssertionFailed is returned when an assertion selects its
	// pruned branch. Its "cmr" data item holds that branch's root.
	ErrAssertionFailed = errors.New("assertion failed")

	// ErrFailNode is returned when a Fail node is reached.
	// Its "token" data item holds the node's token.
	ErrFailNode = errors.New("fail node reached")

	// ErrWrongType means a value did not have the shape its node
	// requires. Checked programs never cause it.
	ErrWrongType = errors.New("value has wrong type")

	ErrStepLimit = errors.New("step limit exceeded")
)

type op uint8

const (
	opEval    op = iota // evaluate node on in, push the result
	opInjL              // pop v, push injl v
	opInjR              // pop v, push injr v
	opThen              // pop v, evaluate node on v
	opPair              // pop b, pop a, push (a, b)
	opDisjoin           // pop (b, c), push b, evaluate node on c
)

type work struct {
	op   op
	node *dag.Node
	in   *value.Value
}

// Interpreter evaluates programs. Its zero value has no
// environment and no step limit. An Interpreter is not safe
// for concurrent use, but may run many programs in sequence.
type Interpreter struct {
	env      jets.Env
	maxSteps uint64
	poll     func() error

	steps    uint64
	maxDepth int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// Env sets the environment handle passed to jets.
func Env(e jets.Env) Option {
	return func(it *Interpreter) { it.env = e }
}

// MaxSteps limits each run to n node evaluations. Zero means no limit.
func MaxSteps(n uint64) Option {
	return func(it *Interpreter) { it.maxSteps = n }
}

// Poll registers f to be called once every PollInterval
// evaluations. A non-nil error from f ends the run with that error.
func Poll(f func() error) Option {
	return func(it *Interpreter) { it.poll = f }
}

// PollInterval is the number of evaluations between calls
// to a function registered with Poll.
const PollInterval = 1024

func New(opts ...Option) *Interpreter {
	it := new(Interpreter)
	for _, o := range opts {
		o(it)
	}
	return it
}

// Steps returns the number of nodes evaluated by the last run.
func (it *Interpreter) Steps() uint64 { return it.steps }

// MaxDepth returns the largest combined height of the work list and
// value stack seen during the last run.
func (it *Interpreter) MaxDepth() int { return it.maxDepth }

// Run evaluates root on input.
func Run(root *dag.Node, input *value.Value, opts ...Option) (*value.Value, error) {
	return New(opts...).Run(root, input)
}

// Run evaluates root on input.
func (it *Interpreter) Run(root *dag.Node, input *value.Value) (*value.Value, error) {
	it.steps, it.maxDepth = 0, 0
	if !input.Type().Equal(root.Source()) {
		return nil, errors.WithDetailf(ErrWrongType, "input %s, source %s", input.Type(), root.Source())
	}

	todo := []work{{op: opEval, node: root, in: input}}
	var vals []*value.Value
	pop := func() *value.Value {
		v := vals[len(vals)-1]
		vals = vals[:len(vals)-1]
		return v
	}

	for len(todo) > 0 {
		if d := len(todo) + len(vals); d > it.maxDepth {
			it.maxDepth = d
		}
		w := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		switch w.op {
		case opInjL:
			vals = append(vals, value.InjectLeft(w.node.Target(), pop()))
			continue
		case opInjR:
			vals = append(vals, value.InjectRight(w.node.Target(), pop()))
			continue
		case opThen:
			todo = append(todo, work{op: opEval, node: w.node, in: pop()})
			continue
		case opPair:
			b := pop()
			vals = append(vals, value.Pair(pop(), b))
			continue
		case opDisjoin:
			bc := pop()
			if bc.Shape() != value.ProductShape {
				return nil, wrongType(w.node, bc)
			}
			b, c := bc.Split()
			vals = append(vals, b)
			todo = append(todo, work{op: opPair}, work{op: opEval, node: w.node.Right(), in: c})
			continue
		}

		if it.maxSteps > 0 && it.steps >= it.maxSteps {
			return nil, errors.WithDetailf(ErrStepLimit, "limit %d", it.maxSteps)
		}
		it.steps++
		if it.poll != nil && it.steps%PollInterval == 0 {
			if err := it.poll(); err != nil {
				return nil, err
			}
		}

		n, v := w.node, w.in
		switch n.Kind() {
		case dag.KindUnit:
			vals = append(vals, value.Unit())
		case dag.KindIden:
			vals = append(vals, v)
		case dag.KindInjL:
			todo = append(todo, work{op: opInjL, node: n}, work{op: opEval, node: n.Left(), in: v})
		case dag.KindInjR:
			todo = append(todo, work{op: opInjR, node: n}, work{op: opEval, node: n.Left(), in: v})
		case dag.KindTake, dag.KindDrop:
			if v.Shape() != value.ProductShape {
				return nil, wrongType(n, v)
			}
			a, b := v.Split()
			if n.Kind() == dag.KindDrop {
				a = b
			}
			todo = append(todo, work{op: opEval, node: n.Left(), in: a})
		case dag.KindComp:
			todo = append(todo, work{op: opThen, node: n.Right()}, work{op: opEval, node: n.Left(), in: v})
		case dag.KindPair:
			todo = append(todo,
				work{op: opPair},
				work{op: opEval, node: n.Right(), in: v},
				work{op: opEval, node: n.Left(), in: v},
			)
		case dag.KindCase, dag.KindAssertL, dag.KindAssertR:
			if v.Shape() != value.ProductShape {
				return nil, wrongType(n, v)
			}
			ab, c := v.Split()
			var branch *dag.Node
			switch ab.Shape() {
			case value.LeftShape:
				branch = n.Left()
			case value.RightShape:
				branch = n.Right()
			default:
				return nil, wrongType(n, v)
			}
			if branch == nil {
				return nil, errors.WithData(ErrAssertionFailed, "cmr", n.Hidden())
			}
			todo = append(todo, work{op: opEval, node: branch, in: value.Pair(ab.Inner(), c)})
		case dag.KindDisconnect:
			t := n.Right()
			in := value.Pair(cmrWord(t.CMR()), v)
			todo = append(todo, work{op: opDisjoin, node: n}, work{op: opEval, node: n.Left(), in: in})
		case dag.KindWitness, dag.KindWord:
			vals = append(vals, n.Value())
		case dag.KindFail:
			return nil, errors.WithData(ErrFailNode, "token", n.Token())
		case dag.KindJet:
			out, err := jets.Exec(n.Jet(), v, it.env)
			if err != nil {
				return nil, err
			}
			vals = append(vals, out)
		default:
			panic(fmt.Sprintf("interp: unknown kind %d", uint8(n.Kind())))
		}
	}

	if len(vals) != 1 {
		panic(fmt.Sprintf("interp: %d values left on the stack", len(vals)))
	}
	return vals[0], nil
}

func wrongType(n *dag.Node, v *value.Value) error {
	return errors.WithDetailf(ErrWrongType, "%s given %s", n, v)
}

// cmrWord returns c as a value of type 2^256.
func cmrWord(c dag.CMR) *value.Value {
	bits := make([]bool, 8*len(c))
	for i := range bits {
		bits[i] = c[i/8]&(0x80>>uint(i%8)) != 0
	}
	return value.Word(bits)
}
