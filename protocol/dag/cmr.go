package dag

import (
	"encoding/hex"
	"fmt"

	"simplicity/crypto/sha3pool"
)

// CMR is a commitment root: a digest that identifies a node
// by its structure, independent of types and witness data.
type CMR [32]byte

func (c CMR) String() string { return hex.EncodeToString(c[:]) }

// ParseCMR parses the hex form produced by String.
func ParseCMR(s string) (CMR, error) {
	var c CMR
	b, err := hex.DecodeString(s)
	if err != nil {
		return c, err
	}
	if len(b) != len(c) {
		return c, fmt.Errorf("cmr: %d bytes, want %d", len(b), len(c))
	}
	copy(c[:], b)
	return c, nil
}

// commit computes the commitment root of n from its kind,
// its children's roots and its payload.
func commit(n *Node) CMR {
	h := sha3pool.Get256()
	defer sha3pool.Put256(h)
	tag := n.kind
	if tag == KindAssertL || tag == KindAssertR {
		tag = KindCase
	}
	h.Write([]byte("simplicity/cmr/" + tag.String()))
	h.Write([]byte{0})

	switch n.kind {
	case KindUnit, KindIden, KindWitness:
	case KindInjL, KindInjR, KindTake, KindDrop:
		h.Write(n.left.cmr[:])
	case KindComp, KindCase, KindPair:
		h.Write(n.left.cmr[:])
		h.Write(n.right.cmr[:])
	case KindAssertL:
		h.Write(n.left.cmr[:])
		h.Write(n.hidden[:])
	case KindAssertR:
		h.Write(n.hidden[:])
		h.Write(n.right.cmr[:])
	case KindDisconnect:
		h.Write(n.left.cmr[:])
	case KindFail:
		h.Write(n.token[:])
	case KindJet:
		h.Write(n.jet.CMR[:])
	case KindWord:
		h.Write([]byte(n.value.Type().String()))
		h.Write([]byte{0})
		h.Write(packBits(n.value.Bits()))
	default:
		panic(fmt.Sprintf("dag: unknown kind %d", uint8(n.kind)))
	}

	var c CMR
	h.Sum(c[:0])
	return c
}

// packBits packs bits most significant first, zero padded.
func packBits(bits []bool) []byte {
	b := make([]byte, (len(bits)+7)/8)
	for i, x := range bits {
		if x {
			b[i/8] |= 0x80 >> uint(i%8)
		}
	}
	return b
}

func unpackBits(b []byte, n int) ([]bool, bool) {
	if len(b) != (n+7)/8 {
		return nil, false
	}
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = b[i/8]&(0x80>>uint(i%8)) != 0
	}
	for i := n; i < len(b)*8; i++ {
		if b[i/8]&(0x80>>uint(i%8)) != 0 {
			return nil, false
		}
	}
	return bits, true
}
