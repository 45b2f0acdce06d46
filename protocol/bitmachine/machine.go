package bitmachine

import (
	"fmt"
	"strings"

	"simplicity/errors"
)

// Machine is a Bit Machine: a read stack and a write stack of frames.
// A Machine is not safe for concurrent use.
type Machine struct {
	// In each stack, stack[len(stack)-1] is the top frame.
	read  []*Frame
	write []*Frame

	maxDepth int
}

// New returns a machine whose read and write stacks
// each hold a single zero-bit frame.
func New() *Machine {
	m := &Machine{
		read:  []*Frame{MakeFrame(0)},
		write: []*Frame{MakeFrame(0)},
	}
	m.noteDepth()
	return m
}

// NewWithInput returns a machine whose read stack holds a frame
// containing input, with its cursor at 0, and whose write stack
// holds an empty frame of outWidth bits.
func NewWithInput(input []bool, outWidth int) *Machine {
	in := MakeFrame(len(input))
	in.WriteBits(input) // fits by construction
	in.Reset()
	m := &Machine{
		read:  []*Frame{in},
		write: []*Frame{MakeFrame(outWidth)},
	}
	m.noteDepth()
	return m
}

func (m *Machine) noteDepth() {
	if d := len(m.read) + len(m.write); d > m.maxDepth {
		m.maxDepth = d
	}
}

// MaxDepth returns the largest combined height
// of the two stacks seen so far.
func (m *Machine) MaxDepth() int { return m.maxDepth }

func (m *Machine) readTop() (*Frame, error) {
	if len(m.read) == 0 {
		return nil, errors.WithDetail(ErrStackUnderflow, "read stack is empty")
	}
	return m.read[len(m.read)-1], nil
}

func (m *Machine) writeTop() (*Frame, error) {
	if len(m.write) == 0 {
		return nil, errors.WithDetail(ErrStackUnderflow, "write stack is empty")
	}
	return m.write[len(m.write)-1], nil
}

// NewFrame pushes a fresh n-bit frame onto the write stack.
func (m *Machine) NewFrame(n int) {
	m.write = append(m.write, MakeFrame(n))
	m.noteDepth()
}

// MoveFrame pops the finished top of the write stack,
// rewinds it, and pushes it onto the read stack.
func (m *Machine) MoveFrame() error {
	f, err := m.writeTop()
	if err != nil {
		return err
	}
	if !f.IsFinished() {
		return errors.WithDetailf(ErrMoveUnfinishedFrame, "cursor at %d of %d", f.Cursor(), f.Len())
	}
	m.write = m.write[:len(m.write)-1]
	f.Reset()
	m.read = append(m.read, f)
	return nil
}

// DropFrame discards the top of the read stack.
func (m *Machine) DropFrame() error {
	if _, err := m.readTop(); err != nil {
		return err
	}
	m.read[len(m.read)-1] = nil
	m.read = m.read[:len(m.read)-1]
	return nil
}

// Write writes bit to the top of the write stack.
func (m *Machine) Write(bit bool) error {
	f, err := m.writeTop()
	if err != nil {
		return err
	}
	return f.Write(bit)
}

// WriteBits writes bits to the top of the write stack.
func (m *Machine) WriteBits(bits []bool) error {
	f, err := m.writeTop()
	if err != nil {
		return err
	}
	return f.WriteBits(bits)
}

// Skip advances the cursor of the top of the write stack.
func (m *Machine) Skip(n int) error {
	f, err := m.writeTop()
	if err != nil {
		return err
	}
	return f.AdvanceCursor(n)
}

// Copy copies n bits from the read-stack top
// to the write-stack top.
func (m *Machine) Copy(n int) error {
	src, err := m.readTop()
	if err != nil {
		return err
	}
	dst, err := m.writeTop()
	if err != nil {
		return err
	}
	return src.CopyTo(dst, n)
}

// Fwd advances the cursor of the read-stack top.
func (m *Machine) Fwd(n int) error {
	f, err := m.readTop()
	if err != nil {
		return err
	}
	return f.AdvanceCursor(n)
}

// Bwd retracts the cursor of the read-stack top.
func (m *Machine) Bwd(n int) error {
	f, err := m.readTop()
	if err != nil {
		return err
	}
	return f.RetractCursor(n)
}

// Peek returns the bit under the cursor of the read-stack top.
func (m *Machine) Peek() (bool, error) {
	f, err := m.readTop()
	if err != nil {
		return false, err
	}
	if f.IsFinished() {
		return false, errors.WithDetailf(ErrFrameEOF, "peek at end of %d-bit frame", f.Len())
	}
	return f.Peek(), nil
}

// Exec executes one instruction.
func (m *Machine) Exec(inst Instruction) error {
	switch inst := inst.(type) {
	case NewFrame:
		m.NewFrame(inst.Width)
		return nil
	case MoveFrame:
		return m.MoveFrame()
	case DropFrame:
		return m.DropFrame()
	case Write:
		return m.Write(inst.Bit)
	case Skip:
		return m.Skip(inst.N)
	case Copy:
		return m.Copy(inst.N)
	case Fwd:
		return m.Fwd(inst.N)
	case Bwd:
		return m.Bwd(inst.N)
	case WriteString:
		return m.WriteBits(inst.Bits)
	}
	panic(fmt.Sprintf("bitmachine: unknown instruction %T", inst))
}

// Stack is a read-only view of a frame stack.
// Element 0 is the top.
type Stack interface {
	Len() int
	Element(n int) *Frame
}

type stackView []*Frame

func (s stackView) Len() int { return len(s) }

// Element returns a copy of the frame n places below the top.
func (s stackView) Element(n int) *Frame {
	return s[len(s)-1-n].Clone()
}

// ReadStack returns a view of the read stack.
func (m *Machine) ReadStack() Stack { return stackView(m.read) }

// WriteStack returns a view of the write stack.
func (m *Machine) WriteStack() Stack { return stackView(m.write) }

// Equal reports whether m and o hold identical stacks.
func (m *Machine) Equal(o *Machine) bool {
	return framesEqual(m.read, o.read) && framesEqual(m.write, o.write)
}

func framesEqual(a, b []*Frame) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// String renders both stacks, bottom first.
func (m *Machine) String() string {
	var b strings.Builder
	b.WriteString("read:")
	for _, f := range m.read {
		b.WriteString(" [" + f.String() + "]")
	}
	b.WriteString("\nwrite:")
	for _, f := range m.write {
		b.WriteString(" [" + f.String() + "]")
	}
	return b.String()
}
