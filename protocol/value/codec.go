package value

import (
	"fmt"

	"simplicity/errors"
	"simplicity/protocol/types"
)

// BitWriter is a destination for padded encodings.
// AdvanceCursor skips padding bits, leaving them as they are.
type BitWriter interface {
	Write(bit bool) error
	AdvanceCursor(n int) error
}

// BitReader is a source of padded encodings.
type BitReader interface {
	ReadBit() (bool, error)
	AdvanceCursor(n int) error
}

// Encode writes the padded encoding of v to w.
// A left value is written as a 0 tag, PadLeft padding bits,
// then the injected value; a right value likewise with a 1 tag
// and PadRight; a product as its components in order.
func Encode(w BitWriter, v *Value) error {
	work := []*Value{v}
	for len(work) > 0 {
		x := work[len(work)-1]
		work = work[:len(work)-1]
		switch x.shape {
		case UnitShape:
		case LeftShape:
			if err := w.Write(false); err != nil {
				return err
			}
			if err := w.AdvanceCursor(x.ty.PadLeft()); err != nil {
				return err
			}
			work = append(work, x.a)
		case RightShape:
			if err := w.Write(true); err != nil {
				return err
			}
			if err := w.AdvanceCursor(x.ty.PadRight()); err != nil {
				return err
			}
			work = append(work, x.a)
		case ProductShape:
			work = append(work, x.b, x.a)
		default:
			panic(fmt.Sprintf("value: unknown shape %d", x.shape))
		}
	}
	return nil
}

// Bits returns the padded encoding of v, with zero padding.
// Its length is always v.Type().Width().
func (v *Value) Bits() []bool {
	w := &sliceWriter{bits: make([]bool, 0, v.ty.Width())}
	Encode(w, v) // sliceWriter never fails
	return w.bits
}

type sliceWriter struct {
	bits []bool
}

func (w *sliceWriter) Write(bit bool) error {
	w.bits = append(w.bits, bit)
	return nil
}

func (w *sliceWriter) AdvanceCursor(n int) error {
	for i := 0; i < n; i++ {
		w.bits = append(w.bits, false)
	}
	return nil
}

type decodeOp uint8

const (
	opDecode decodeOp = iota
	opLeft
	opRight
	opPair
)

type decodeTask struct {
	op decodeOp
	ty *types.Type
}

// Decode reads a value of type ty from r,
// skipping over padding bits.
func Decode(r BitReader, ty *types.Type) (*Value, error) {
	var (
		tasks = []decodeTask{{opDecode, ty}}
		vals  []*Value
	)
	for len(tasks) > 0 {
		t := tasks[len(tasks)-1]
		tasks = tasks[:len(tasks)-1]
		switch t.op {
		case opDecode:
			switch t.ty.Kind() {
			case types.UnitKind:
				vals = append(vals, unit)
			case types.SumKind:
				bit, err := r.ReadBit()
				if err != nil {
					return nil, errors.Wrapf(err, "reading tag of %s", t.ty)
				}
				if bit {
					err = r.AdvanceCursor(t.ty.PadRight())
					tasks = append(tasks, decodeTask{opRight, t.ty}, decodeTask{opDecode, t.ty.Right()})
				} else {
					err = r.AdvanceCursor(t.ty.PadLeft())
					tasks = append(tasks, decodeTask{opLeft, t.ty}, decodeTask{opDecode, t.ty.Left()})
				}
				if err != nil {
					return nil, errors.Wrapf(err, "skipping padding of %s", t.ty)
				}
			case types.ProductKind:
				tasks = append(tasks,
					decodeTask{opPair, t.ty},
					decodeTask{opDecode, t.ty.Right()},
					decodeTask{opDecode, t.ty.Left()},
				)
			default:
				panic(fmt.Sprintf("value: unknown type kind %d", t.ty.Kind()))
			}
		case opLeft, opRight:
			inner := vals[len(vals)-1]
			shape := LeftShape
			if t.op == opRight {
				shape = RightShape
			}
			vals[len(vals)-1] = &Value{ty: t.ty, shape: shape, a: inner}
		case opPair:
			a, b := vals[len(vals)-2], vals[len(vals)-1]
			vals = vals[:len(vals)-1]
			vals[len(vals)-1] = &Value{ty: t.ty, shape: ProductShape, a: a, b: b}
		}
	}
	return vals[0], nil
}

// FromBits decodes a value of type ty from exactly the bits given.
func FromBits(bits []bool, ty *types.Type) (*Value, error) {
	r := &sliceReader{bits: bits}
	v, err := Decode(r, ty)
	if err != nil {
		return nil, err
	}
	if r.pos != len(bits) {
		return nil, errors.WithDetailf(ErrTrailingBits, "%d of %d bits used", r.pos, len(bits))
	}
	return v, nil
}

type sliceReader struct {
	bits []bool
	pos  int
}

func (r *sliceReader) ReadBit() (bool, error) {
	if r.pos >= len(r.bits) {
		return false, ErrShortInput
	}
	b := r.bits[r.pos]
	r.pos++
	return b, nil
}

func (r *sliceReader) AdvanceCursor(n int) error {
	if n > len(r.bits)-r.pos {
		return ErrShortInput
	}
	r.pos += n
	return nil
}
