// Package bufpool is a freelist for the byte slices that back
// bit buffers handed to native builtins.
package bufpool

import (
	"sync"
	"sync/atomic"
)

var (
	pool = &sync.Pool{New: func() interface{} { return new([]byte) }}
	live int64
)

// Get returns a zeroed slice large enough to hold nbits bits.
// It is like make([]byte, (nbits+7)/8) except it uses the free list.
// The caller must call Put when finished with the returned slice,
// and the slice must not escape the caller after that.
func Get(nbits int) []byte {
	if nbits < 0 {
		panic("bufpool: negative size")
	}
	n := (nbits + 7) / 8
	p := pool.Get().(*[]byte)
	b := *p
	if cap(b) < n {
		b = make([]byte, n)
	} else {
		b = b[:n]
		for i := range b {
			b[i] = 0
		}
	}
	atomic.AddInt64(&live, 1)
	return b
}

// Put adds b to the freelist.
func Put(b []byte) {
	atomic.AddInt64(&live, -1)
	b = b[:0]
	pool.Put(&b)
}

// Live reports the number of slices returned by Get
// that have not yet been returned with Put.
func Live() int64 {
	return atomic.LoadInt64(&live)
}

