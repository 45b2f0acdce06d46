package bitmachine

import (
	"strconv"
	"strings"
)

// Instruction is one of NewFrame, MoveFrame, DropFrame, Write,
// Skip, Copy, Fwd, Bwd and WriteString. The set is closed.
type Instruction interface {
	String() string
	isInstruction()
}

// NewFrame pushes a fresh frame of Width bits onto the write stack.
type NewFrame struct{ Width int }

// MoveFrame moves the finished write-stack top to the read stack.
type MoveFrame struct{}

// DropFrame discards the read-stack top.
type DropFrame struct{}

// Write writes one bit to the write-stack top.
type Write struct{ Bit bool }

// Skip advances the write-stack top's cursor by N bits.
type Skip struct{ N int }

// Copy copies N bits from the read-stack top to the write-stack top.
type Copy struct{ N int }

// Fwd advances the read-stack top's cursor by N bits.
type Fwd struct{ N int }

// Bwd retracts the read-stack top's cursor by N bits.
type Bwd struct{ N int }

// WriteString writes Bits to the write-stack top.
type WriteString struct{ Bits []bool }

func (NewFrame) isInstruction()    {}
func (MoveFrame) isInstruction()   {}
func (DropFrame) isInstruction()   {}
func (Write) isInstruction()       {}
func (Skip) isInstruction()        {}
func (Copy) isInstruction()        {}
func (Fwd) isInstruction()         {}
func (Bwd) isInstruction()         {}
func (WriteString) isInstruction() {}

func (i NewFrame) String() string { return "newFrame(" + strconv.Itoa(i.Width) + ")" }
func (MoveFrame) String() string  { return "moveFrame()" }
func (DropFrame) String() string  { return "dropFrame()" }
func (i Write) String() string    { return "write(" + strconv.FormatBool(i.Bit) + ")" }
func (i Skip) String() string     { return "skip(" + strconv.Itoa(i.N) + ")" }
func (i Copy) String() string     { return "copy(" + strconv.Itoa(i.N) + ")" }
func (i Fwd) String() string      { return "fwd(" + strconv.Itoa(i.N) + ")" }
func (i Bwd) String() string      { return "bwd(" + strconv.Itoa(i.N) + ")" }
func (i WriteString) String() string {
	var b strings.Builder
	b.WriteString("writeString(")
	for _, x := range i.Bits {
		if x {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	b.WriteByte(')')
	return b.String()
}
