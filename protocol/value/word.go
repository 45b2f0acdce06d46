package value

import (
	"fmt"

	"github.com/holiman/uint256"

	"simplicity/protocol/types"
)

var (
	zeroBit = InjectLeft(types.Bit(), unit)
	oneBit  = InjectRight(types.Bit(), unit)
)

// Bit returns the one-bit value: R(()) for true, L(()) for false.
func Bit(b bool) *Value {
	if b {
		return oneBit
	}
	return zeroBit
}

// Word returns the value of type TwoN(n) whose encoding is bits,
// most significant bit first. It panics unless len(bits) is 2^n
// for some n in [0, types.MaxWordLog].
func Word(bits []bool) *Value {
	n := wordLog(len(bits))
	if n < 0 {
		panic(fmt.Sprintf("value: %d bits is not a word size", len(bits)))
	}
	level := make([]*Value, len(bits))
	for i, b := range bits {
		level[i] = Bit(b)
	}
	for k := 1; k <= n; k++ {
		ty := types.TwoN(k)
		next := make([]*Value, len(level)/2)
		for i := range next {
			next[i] = &Value{ty: ty, shape: ProductShape, a: level[2*i], b: level[2*i+1]}
		}
		level = next
	}
	return level[0]
}

func wordLog(width int) int {
	for n := 0; n <= types.MaxWordLog; n++ {
		if width == 1<<uint(n) {
			return n
		}
	}
	return -1
}

func uintBits(x uint64, width int) []bool {
	bits := make([]bool, width)
	for i := range bits {
		bits[width-1-i] = x&(1<<uint(i)) != 0
	}
	return bits
}

// U8 returns x as a value of type 2^8.
func U8(x uint8) *Value { return Word(uintBits(uint64(x), 8)) }

// U16 returns x as a value of type 2^16.
func U16(x uint16) *Value { return Word(uintBits(uint64(x), 16)) }

// U32 returns x as a value of type 2^32.
func U32(x uint32) *Value { return Word(uintBits(uint64(x), 32)) }

// U64 returns x as a value of type 2^64.
func U64(x uint64) *Value { return Word(uintBits(x, 64)) }

// FromUint256 returns the low 2^n bits of x
// as a value of type TwoN(n).
func FromUint256(n int, x *uint256.Int) *Value {
	width := types.TwoN(n).Width()
	b := x.Bytes32()
	bits := make([]bool, width)
	for i := range bits {
		pos := 256 - width + i
		bits[i] = b[pos/8]&(0x80>>uint(pos%8)) != 0
	}
	return Word(bits)
}

// AsBool returns the bit held by a value of type 2.
func AsBool(v *Value) (bool, bool) {
	if n, ok := v.ty.WordLog(); !ok || n != 0 {
		return false, false
	}
	return v.shape == RightShape, true
}

// AsUint64 returns the number held by a word value
// of at most 64 bits.
func AsUint64(v *Value) (uint64, bool) {
	if _, ok := v.ty.WordLog(); !ok || v.ty.Width() > 64 {
		return 0, false
	}
	var x uint64
	for _, b := range v.Bits() {
		x <<= 1
		if b {
			x |= 1
		}
	}
	return x, true
}

// AsUint256 returns the number held by any word value.
func AsUint256(v *Value) (*uint256.Int, bool) {
	if _, ok := v.ty.WordLog(); !ok {
		return nil, false
	}
	bits := v.Bits()
	buf := make([]byte, 32)
	off := 256 - len(bits)
	for i, b := range bits {
		if b {
			pos := off + i
			buf[pos/8] |= 0x80 >> uint(pos%8)
		}
	}
	return new(uint256.Int).SetBytes(buf), true
}
