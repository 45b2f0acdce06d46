package bitmachine

import (
	"strings"

	"simplicity/errors"
)

// Frame is a fixed-capacity bit buffer with a cursor
// in [0, Len()].
type Frame struct {
	data   []byte
	n      int
	cursor int
}

// MakeFrame returns a zeroed frame of n bits with its cursor at 0.
func MakeFrame(n int) *Frame {
	if n < 0 {
		panic("bitmachine: negative frame size")
	}
	return &Frame{data: make([]byte, (n+7)/8), n: n}
}

// FrameOver returns a frame of n bits backed by buf,
// which must hold at least n bits. The frame does not
// clear buf.
func FrameOver(buf []byte, n int) *Frame {
	if n < 0 || len(buf)*8 < n {
		panic("bitmachine: frame buffer too small")
	}
	return &Frame{data: buf, n: n}
}

// Len returns the capacity of f in bits.
func (f *Frame) Len() int { return f.n }

// Cursor returns the current cursor position.
func (f *Frame) Cursor() int { return f.cursor }

// IsFinished reports whether the cursor is at the end of f.
func (f *Frame) IsFinished() bool { return f.cursor == f.n }

// Reset moves the cursor back to 0.
func (f *Frame) Reset() { f.cursor = 0 }

func (f *Frame) get(i int) bool {
	return f.data[i/8]&(0x80>>uint(i%8)) != 0
}

func (f *Frame) set(i int, bit bool) {
	if bit {
		f.data[i/8] |= 0x80 >> uint(i%8)
	} else {
		f.data[i/8] &^= 0x80 >> uint(i%8)
	}
}

// Write stores bit at the cursor and advances it.
func (f *Frame) Write(bit bool) error {
	if f.cursor >= f.n {
		return errors.WithDetailf(ErrFrameEOF, "write at %d in %d-bit frame", f.cursor, f.n)
	}
	f.set(f.cursor, bit)
	f.cursor++
	return nil
}

// WriteBits writes every bit of bits, or none of them
// if they do not fit.
func (f *Frame) WriteBits(bits []bool) error {
	if len(bits) > f.n-f.cursor {
		return errors.WithDetailf(ErrFrameEOF, "write of %d bits at %d in %d-bit frame", len(bits), f.cursor, f.n)
	}
	for _, b := range bits {
		f.set(f.cursor, b)
		f.cursor++
	}
	return nil
}

// Peek returns the bit at the cursor without moving it.
// It returns false for a finished frame.
func (f *Frame) Peek() bool {
	if f.cursor >= f.n {
		return false
	}
	return f.get(f.cursor)
}

// ReadBit returns the bit at the cursor and advances past it.
func (f *Frame) ReadBit() (bool, error) {
	if f.cursor >= f.n {
		return false, errors.WithDetailf(ErrFrameEOF, "read at %d in %d-bit frame", f.cursor, f.n)
	}
	b := f.get(f.cursor)
	f.cursor++
	return b, nil
}

// AdvanceCursor moves the cursor n bits forward.
func (f *Frame) AdvanceCursor(n int) error {
	if n < 0 || n > f.n-f.cursor {
		return errors.WithDetailf(ErrFrameEOF, "advance by %d at %d in %d-bit frame", n, f.cursor, f.n)
	}
	f.cursor += n
	return nil
}

// RetractCursor moves the cursor n bits back.
func (f *Frame) RetractCursor(n int) error {
	if n < 0 || n > f.cursor {
		return errors.WithDetailf(ErrFrameEOF, "retract by %d at %d in %d-bit frame", n, f.cursor, f.n)
	}
	f.cursor -= n
	return nil
}

// CopyTo copies n bits from f's cursor to dst's cursor,
// advancing dst's cursor by n. f's cursor does not move.
// Both frames must have n bits left.
func (f *Frame) CopyTo(dst *Frame, n int) error {
	if n < 0 || n > dst.n-dst.cursor {
		return errors.WithDetailf(ErrFrameEOF, "copy of %d bits to %d in %d-bit frame", n, dst.cursor, dst.n)
	}
	if n > f.n-f.cursor {
		return errors.WithDetailf(ErrFrameEOF, "copy of %d bits from %d in %d-bit frame", n, f.cursor, f.n)
	}
	for i := 0; i < n; i++ {
		dst.set(dst.cursor+i, f.get(f.cursor+i))
	}
	dst.cursor += n
	return nil
}

// Bits returns the full contents of f, independent of the cursor.
func (f *Frame) Bits() []bool {
	bits := make([]bool, f.n)
	for i := range bits {
		bits[i] = f.get(i)
	}
	return bits
}

// Clone returns a copy of f that shares no storage with it.
func (f *Frame) Clone() *Frame {
	g := &Frame{data: make([]byte, len(f.data)), n: f.n, cursor: f.cursor}
	copy(g.data, f.data)
	return g
}

// Equal reports whether f and g have the same capacity,
// cursor and contents.
func (f *Frame) Equal(g *Frame) bool {
	if f.n != g.n || f.cursor != g.cursor {
		return false
	}
	for i := 0; i < f.n; i++ {
		if f.get(i) != g.get(i) {
			return false
		}
	}
	return true
}

// String renders the contents of f with ^ marking the cursor.
func (f *Frame) String() string {
	var b strings.Builder
	for i := 0; i <= f.n; i++ {
		if i == f.cursor {
			b.WriteByte('^')
		}
		if i < f.n {
			if f.get(i) {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
	}
	return b.String()
}
