// Package types implements the type model of programs:
// finite binary trees built from unit, sum and product,
// each with a fixed width in bits.
//
// Types are immutable and shared freely; construct them
// with Unit, Sum, Product and TwoN.
package types

import (
	"fmt"
	"strings"

	"simplicity/math/checked"
)

// Kind is the outermost constructor of a type.
type Kind uint8

const (
	UnitKind Kind = iota
	SumKind
	ProductKind
)

func (k Kind) String() string {
	switch k {
	case UnitKind:
		return "unit"
	case SumKind:
		return "sum"
	case ProductKind:
		return "product"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MaxWordLog is the largest n accepted by TwoN.
const MaxWordLog = 8

// MaxWidth is the largest width, in bits, of a type read from
// an encoded program. A frame of this width takes 2 MiB.
const MaxWidth = 1 << 24

// Type is an immutable type tree.
type Type struct {
	kind        Kind
	left, right *Type
	width       int
	word        int // n if the type is TwoN(n), else -1
}

var (
	unit  = &Type{kind: UnitKind, word: -1}
	words [MaxWordLog + 1]*Type
)

func init() {
	words[0] = Sum(unit, unit)
	for n := 1; n <= MaxWordLog; n++ {
		words[n] = Product(words[n-1], words[n-1])
	}
}

// Unit returns the unit type, of width 0.
func Unit() *Type { return unit }

// Sum returns the tagged union of a and b.
// Its width is one tag bit plus the wider of a and b.
func Sum(a, b *Type) *Type {
	w, ok := checked.AddInt(1, checked.MaxInt(a.width, b.width))
	if !ok {
		panic(checked.ErrOverflow)
	}
	t := &Type{kind: SumKind, left: a, right: b, width: w, word: -1}
	if a == unit && b == unit {
		t.word = 0
	}
	return t
}

// Product returns the pair type of a and b.
func Product(a, b *Type) *Type {
	w, ok := checked.AddInt(a.width, b.width)
	if !ok {
		panic(checked.ErrOverflow)
	}
	t := &Type{kind: ProductKind, left: a, right: b, width: w, word: -1}
	if a.word >= 0 && a.word == b.word {
		t.word = a.word + 1
	}
	return t
}

// Bit returns the one-bit type 1 + 1.
func Bit() *Type { return words[0] }

// TwoN returns the type of words of 2^n bits.
// It panics if n is outside [0, MaxWordLog].
func TwoN(n int) *Type {
	if n < 0 || n > MaxWordLog {
		panic(fmt.Sprintf("types: word size 2^%d out of range", n))
	}
	return words[n]
}

// Kind returns the outermost constructor of t.
func (t *Type) Kind() Kind { return t.kind }

// Left returns the left operand of a sum or product, or nil.
func (t *Type) Left() *Type { return t.left }

// Right returns the right operand of a sum or product, or nil.
func (t *Type) Right() *Type { return t.right }

// Width is the number of bits in the padded encoding
// of any value of type t.
func (t *Type) Width() int { return t.width }

// PadLeft is the number of padding bits between the tag
// and a left value of sum type t.
func (t *Type) PadLeft() int {
	t.mustSum()
	return t.width - 1 - t.left.width
}

// PadRight is the number of padding bits between the tag
// and a right value of sum type t.
func (t *Type) PadRight() int {
	t.mustSum()
	return t.width - 1 - t.right.width
}

func (t *Type) mustSum() {
	if t.kind != SumKind {
		panic(fmt.Sprintf("types: padding of non-sum type %s", t))
	}
}

// WordLog reports n if t is structurally TwoN(n).
func (t *Type) WordLog() (n int, ok bool) {
	return t.word, t.word >= 0
}

// Equal reports whether t and u are structurally equal.
func (t *Type) Equal(u *Type) bool {
	type pair struct{ a, b *Type }
	work := []pair{{t, u}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		if p.a == p.b {
			continue
		}
		if p.a == nil || p.b == nil {
			return false
		}
		if p.a.kind != p.b.kind || p.a.width != p.b.width || p.a.word != p.b.word {
			return false
		}
		if p.a.kind != UnitKind {
			work = append(work, pair{p.a.left, p.b.left}, pair{p.a.right, p.b.right})
		}
	}
	return true
}

// String renders t as 1, 2, 2^n, (A + B) or (A × B).
func (t *Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Type) write(b *strings.Builder) {
	if n, ok := t.WordLog(); ok {
		if n == 0 {
			b.WriteString("2")
		} else {
			fmt.Fprintf(b, "2^%d", 1<<uint(n))
		}
		return
	}
	switch t.kind {
	case UnitKind:
		b.WriteString("1")
	case SumKind:
		b.WriteByte('(')
		t.left.write(b)
		b.WriteString(" + ")
		t.right.write(b)
		b.WriteByte(')')
	case ProductKind:
		b.WriteByte('(')
		t.left.write(b)
		b.WriteString(" × ")
		t.right.write(b)
		b.WriteByte(')')
	default:
		panic(fmt.Sprintf("types: unknown kind %d", t.kind))
	}
}
