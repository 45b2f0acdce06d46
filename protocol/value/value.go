// Package value implements typed data values and their
// padded bit encoding.
//
// A Value is unit, a product of two values, or a left or right
// injection of a value. Every value carries its type, so a left
// injection knows the type of the absent right summand and the
// encoding needs no outside context.
package value

import (
	"fmt"
	"strings"

	"simplicity/errors"
	"simplicity/protocol/types"
)

// Shape is the outermost constructor of a value.
type Shape uint8

const (
	UnitShape Shape = iota
	LeftShape
	RightShape
	ProductShape
)

func (s Shape) String() string {
	switch s {
	case UnitShape:
		return "unit"
	case LeftShape:
		return "left"
	case RightShape:
		return "right"
	case ProductShape:
		return "product"
	}
	return fmt.Sprintf("shape(%d)", uint8(s))
}

var (
	ErrTrailingBits = errors.New("trailing bits after value")
	ErrShortInput   = errors.New("input ended inside value")
)

// Value is an immutable typed value.
type Value struct {
	ty    *types.Type
	shape Shape
	a, b  *Value
}

var unit = &Value{ty: types.Unit(), shape: UnitShape}

// Unit returns the unit value.
func Unit() *Value { return unit }

// Left returns the left injection of v into v.Type() + right.
func Left(v *Value, right *types.Type) *Value {
	return &Value{ty: types.Sum(v.ty, right), shape: LeftShape, a: v}
}

// Right returns the right injection of v into left + v.Type().
func Right(left *types.Type, v *Value) *Value {
	return &Value{ty: types.Sum(left, v.ty), shape: RightShape, a: v}
}

// InjectLeft returns the left injection of v into sum type ty.
// It panics if ty is not a sum whose left operand is v's type.
func InjectLeft(ty *types.Type, v *Value) *Value {
	if ty.Kind() != types.SumKind || !ty.Left().Equal(v.ty) {
		panic(fmt.Sprintf("value: cannot inject %s into left of %s", v.ty, ty))
	}
	return &Value{ty: ty, shape: LeftShape, a: v}
}

// InjectRight returns the right injection of v into sum type ty.
func InjectRight(ty *types.Type, v *Value) *Value {
	if ty.Kind() != types.SumKind || !ty.Right().Equal(v.ty) {
		panic(fmt.Sprintf("value: cannot inject %s into right of %s", v.ty, ty))
	}
	return &Value{ty: ty, shape: RightShape, a: v}
}

// Pair returns the product value (a, b).
func Pair(a, b *Value) *Value {
	return &Value{ty: types.Product(a.ty, b.ty), shape: ProductShape, a: a, b: b}
}

// Type returns the type of v.
func (v *Value) Type() *types.Type { return v.ty }

// Shape returns the outermost constructor of v.
func (v *Value) Shape() Shape { return v.shape }

// IsLeft reports whether v is a left injection.
func (v *Value) IsLeft() bool { return v.shape == LeftShape }

// IsRight reports whether v is a right injection.
func (v *Value) IsRight() bool { return v.shape == RightShape }

// Inner returns the injected value of a left or right value.
func (v *Value) Inner() *Value {
	if v.shape != LeftShape && v.shape != RightShape {
		panic(fmt.Sprintf("value: Inner of %s value", v.shape))
	}
	return v.a
}

// Split returns the components of a product value.
func (v *Value) Split() (a, b *Value) {
	if v.shape != ProductShape {
		panic(fmt.Sprintf("value: Split of %s value", v.shape))
	}
	return v.a, v.b
}

// Equal reports whether v and w are the same value of the same type.
func (v *Value) Equal(w *Value) bool {
	type pair struct{ x, y *Value }
	work := []pair{{v, w}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		if p.x == p.y {
			continue
		}
		if p.x == nil || p.y == nil || p.x.shape != p.y.shape || !p.x.ty.Equal(p.y.ty) {
			return false
		}
		switch p.x.shape {
		case LeftShape, RightShape:
			work = append(work, pair{p.x.a, p.y.a})
		case ProductShape:
			work = append(work, pair{p.x.a, p.y.a}, pair{p.x.b, p.y.b})
		}
	}
	return true
}

// String renders v as (), L(v), R(v) or (a, b).
// Words of four or more bits are rendered in hex,
// single bits as 0b0 and 0b1.
func (v *Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v *Value) write(b *strings.Builder) {
	if n, ok := v.ty.WordLog(); ok {
		bits := v.Bits()
		if n < 2 {
			b.WriteString("0b")
			for _, x := range bits {
				b.WriteByte(digit(x))
			}
			return
		}
		b.WriteString("0x")
		for i := 0; i < len(bits); i += 4 {
			var d byte
			for _, x := range bits[i : i+4] {
				d <<= 1
				if x {
					d |= 1
				}
			}
			b.WriteByte("0123456789abcdef"[d])
		}
		return
	}
	switch v.shape {
	case UnitShape:
		b.WriteString("()")
	case LeftShape:
		b.WriteString("L(")
		v.a.write(b)
		b.WriteByte(')')
	case RightShape:
		b.WriteString("R(")
		v.a.write(b)
		b.WriteByte(')')
	case ProductShape:
		b.WriteByte('(')
		v.a.write(b)
		b.WriteString(", ")
		v.b.write(b)
		b.WriteByte(')')
	default:
		panic(fmt.Sprintf("value: unknown shape %d", v.shape))
	}
}

func digit(x bool) byte {
	if x {
		return '1'
	}
	return '0'
}
