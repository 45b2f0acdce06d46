// Package sha3pool is a freelist for SHA3-256 hash objects.
package sha3pool

import (
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"
)

var pool256 = &sync.Pool{New: func() interface{} { return sha3.New256() }}

// Get256 returns an initialized SHA3-256 hash ready to use.
// The caller should call Put256 when finished with the returned object.
func Get256() hash.Hash {
	return pool256.Get().(hash.Hash)
}

// Put256 resets h and puts it in the freelist.
func Put256(h hash.Hash) {
	h.Reset()
	pool256.Put(h)
}

// Sum256 uses a SHA3-256 hash from the freelist to write
// the concatenation of parts into out.
func Sum256(out []byte, parts ...[]byte) {
	h := Get256()
	defer Put256(h)
	for _, p := range parts {
		h.Write(p)
	}
	h.Sum(out[:0])
}
