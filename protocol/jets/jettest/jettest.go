// Package jettest provides a small catalog of sample jets
// for tests and command-line experiments.
package jettest

import (
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"

	"simplicity/protocol/bitmachine"
	"simplicity/protocol/jets"
	"simplicity/protocol/types"
)

// Env is the environment understood by the Version jet.
type Env struct {
	Version uint32
}

var (
	word32  = types.TwoN(5)
	word256 = types.TwoN(8)

	// Not negates a bit.
	Not = jets.New("not", types.Bit(), types.Bit(), func(dst, src *bitmachine.Frame, _ jets.Env) bool {
		b, _ := src.ReadBit()
		return dst.Write(!b) == nil
	})

	// Add32 adds two 32-bit words, returning (carry, sum).
	Add32 = jets.New("add32", types.Product(word32, word32), types.Product(types.Bit(), word32),
		func(dst, src *bitmachine.Frame, _ jets.Env) bool {
			a := readUint(src, 32)
			b := readUint(src, 32)
			sum := a + b
			return dst.Write(sum>>32 != 0) == nil && writeUint(dst, sum, 32)
		})

	// Eq256 compares two 256-bit words.
	Eq256 = jets.New("eq256", types.Product(word256, word256), types.Bit(),
		func(dst, src *bitmachine.Frame, _ jets.Env) bool {
			a := readUint256(src)
			b := readUint256(src)
			return dst.Write(a.Eq(b)) == nil
		})

	// SHA3 hashes a 256-bit word with SHA3-256.
	SHA3 = jets.New("sha3_256", word256, word256, func(dst, src *bitmachine.Frame, _ jets.Env) bool {
		in := readBytes(src, 32)
		sum := sha3.Sum256(in)
		return writeBytes(dst, sum[:])
	})

	// Version returns the Version field of an Env.
	// It fails for any other environment.
	Version = jets.New("version", types.Unit(), word32, func(dst, _ *bitmachine.Frame, env jets.Env) bool {
		e, ok := env.(*Env)
		if !ok {
			return false
		}
		return writeUint(dst, uint64(e.Version), 32)
	})

	// Fail always fails.
	Fail = jets.New("fail", types.Unit(), types.Unit(), func(_, _ *bitmachine.Frame, _ jets.Env) bool {
		return false
	})

	// Lazy claims success without writing its one-bit result.
	Lazy = jets.New("lazy", types.Unit(), types.Bit(), func(_, _ *bitmachine.Frame, _ jets.Env) bool {
		return true
	})
)

// Catalog returns a registry holding every sample jet.
func Catalog() *jets.Registry {
	return jets.NewRegistry(Not, Add32, Eq256, SHA3, Version, Fail, Lazy)
}

func readUint(f *bitmachine.Frame, width int) uint64 {
	var x uint64
	for i := 0; i < width; i++ {
		b, _ := f.ReadBit()
		x <<= 1
		if b {
			x |= 1
		}
	}
	return x
}

func writeUint(f *bitmachine.Frame, x uint64, width int) bool {
	for i := width - 1; i >= 0; i-- {
		if f.Write(x&(1<<uint(i)) != 0) != nil {
			return false
		}
	}
	return true
}

func readBytes(f *bitmachine.Frame, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(readUint(f, 8))
	}
	return b
}

func writeBytes(f *bitmachine.Frame, b []byte) bool {
	for _, x := range b {
		if !writeUint(f, uint64(x), 8) {
			return false
		}
	}
	return true
}

func readUint256(f *bitmachine.Frame) *uint256.Int {
	return new(uint256.Int).SetBytes(readBytes(f, 32))
}
