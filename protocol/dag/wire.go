package dag

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"simplicity/errors"
	"simplicity/math/checked"
	"simplicity/protocol/jets"
	"simplicity/protocol/types"
	"simplicity/protocol/value"
)

// WireVersion is the version of the encoding written by Encode.
const WireVersion = 1

var (
	ErrMalformed  = errors.New("malformed program encoding")
	ErrUnknownJet = errors.New("unknown jet")
)

// Programs are encoded as canonical CBOR holding two tables in
// post order: types and nodes. Every entry refers only to earlier
// entries of its table, so decoding cannot produce a cycle. The
// last node is the root.
type wireProgram struct {
	Version int        `cbor:"1,keyasint"`
	Types   []wireType `cbor:"2,keyasint"`
	Nodes   []wireNode `cbor:"3,keyasint"`
}

type wireType struct {
	_    struct{} `cbor:",toarray"`
	Kind uint8
	L, R int
}

type wireNode struct {
	_        struct{} `cbor:",toarray"`
	Kind     uint8
	Src, Tgt int
	L, R     int    // node indexes, -1 if absent
	Value    []byte // packed bits: Witness, Word
	Token    []byte // Fail
	Jet      string // Jet
	Hidden   []byte // AssertL, AssertR
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("dag: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// Encode serializes the program rooted at root.
// Shared nodes are written once.
func Encode(root *Node) ([]byte, error) {
	var (
		p       = wireProgram{Version: WireVersion}
		typeIdx = make(map[*types.Type]int)
		nodeIdx = make(map[*Node]int)
	)
	addType := func(t *types.Type) int {
		type entry struct {
			t        *types.Type
			expanded bool
		}
		stack := []entry{{t: t}}
		for len(stack) > 0 {
			e := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, ok := typeIdx[e.t]; ok {
				continue
			}
			if e.t.Kind() == types.UnitKind || e.expanded {
				w := wireType{Kind: uint8(e.t.Kind())}
				if e.t.Kind() != types.UnitKind {
					w.L, w.R = typeIdx[e.t.Left()], typeIdx[e.t.Right()]
				}
				typeIdx[e.t] = len(p.Types)
				p.Types = append(p.Types, w)
				continue
			}
			stack = append(stack, entry{e.t, true}, entry{t: e.t.Right()}, entry{t: e.t.Left()})
		}
		return typeIdx[t]
	}
	ref := func(n *Node) int {
		if n == nil {
			return -1
		}
		return nodeIdx[n]
	}

	Walk(root, func(n *Node) error {
		w := wireNode{
			Kind: uint8(n.kind),
			Src:  addType(n.source),
			Tgt:  addType(n.target),
			L:    ref(n.left),
			R:    ref(n.right),
		}
		switch n.kind {
		case KindWitness, KindWord:
			w.Value = packBits(n.value.Bits())
		case KindFail:
			w.Token = append([]byte(nil), n.token[:]...)
		case KindJet:
			w.Jet = n.jet.Name
		case KindAssertL, KindAssertR:
			w.Hidden = append([]byte(nil), n.hidden[:]...)
		}
		nodeIdx[n] = len(p.Nodes)
		p.Nodes = append(p.Nodes, w)
		return nil
	})
	return encMode.Marshal(&p)
}

// Decode parses a program written by Encode, resolving jets by
// name in reg, and checks it with Check.
func Decode(data []byte, reg *jets.Registry) (*Node, error) {
	var p wireProgram
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, errors.Sub(ErrMalformed, err)
	}
	if p.Version != WireVersion {
		return nil, errors.WithDetailf(ErrMalformed, "version %d, want %d", p.Version, WireVersion)
	}
	if len(p.Nodes) == 0 {
		return nil, errors.WithDetail(ErrMalformed, "no nodes")
	}

	tys := make([]*types.Type, len(p.Types))
	for i, w := range p.Types {
		switch types.Kind(w.Kind) {
		case types.UnitKind:
			tys[i] = types.Unit()
		case types.SumKind, types.ProductKind:
			if w.L < 0 || w.L >= i || w.R < 0 || w.R >= i {
				return nil, errors.WithDetailf(ErrMalformed, "type %d refers forward", i)
			}
			l, r := tys[w.L], tys[w.R]
			var (
				width int
				ok    bool
			)
			if types.Kind(w.Kind) == types.SumKind {
				width, ok = checked.AddInt(1, checked.MaxInt(l.Width(), r.Width()))
			} else {
				width, ok = checked.AddInt(l.Width(), r.Width())
			}
			if !ok || width > types.MaxWidth {
				return nil, errors.WithDetailf(ErrMalformed, "type %d is wider than %d bits", i, types.MaxWidth)
			}
			if types.Kind(w.Kind) == types.SumKind {
				tys[i] = types.Sum(l, r)
			} else {
				tys[i] = types.Product(l, r)
			}
		default:
			return nil, errors.WithDetailf(ErrMalformed, "type %d has kind %d", i, w.Kind)
		}
	}
	ty := func(i int) (*types.Type, bool) {
		if i < 0 || i >= len(tys) {
			return nil, false
		}
		return tys[i], true
	}

	nodes := make([]*Node, len(p.Nodes))
	for i, w := range p.Nodes {
		k := Kind(w.Kind)
		if !k.Valid() {
			return nil, errors.WithDetailf(ErrMalformed, "node %d has kind %d", i, w.Kind)
		}
		n := &Node{kind: k}
		var ok1, ok2 bool
		n.source, ok1 = ty(w.Src)
		n.target, ok2 = ty(w.Tgt)
		if !ok1 || !ok2 {
			return nil, errors.WithDetailf(ErrMalformed, "node %d has a bad type index", i)
		}
		child := func(j int) (*Node, error) {
			if j == -1 {
				return nil, nil
			}
			if j < 0 || j >= i {
				return nil, errors.WithDetailf(ErrMalformed, "node %d refers to node %d", i, j)
			}
			return nodes[j], nil
		}
		var err error
		if n.left, err = child(w.L); err != nil {
			return nil, err
		}
		if n.right, err = child(w.R); err != nil {
			return nil, err
		}
		if err := checkShape(n); err != nil {
			return nil, errors.WithDetailf(err, "node %d", i)
		}

		switch k {
		case KindWitness, KindWord:
			bits, ok := unpackBits(w.Value, n.target.Width())
			if !ok {
				return nil, errors.WithDetailf(ErrMalformed, "node %d value is not %d bits", i, n.target.Width())
			}
			n.value, err = value.FromBits(bits, n.target)
			if err != nil {
				return nil, errors.Sub(ErrMalformed, errors.Wrapf(err, "node %d value", i))
			}
		case KindFail:
			if len(w.Token) != len(n.token) {
				return nil, errors.WithDetailf(ErrMalformed, "node %d token is %d bytes", i, len(w.Token))
			}
			copy(n.token[:], w.Token)
		case KindJet:
			j, ok := reg.Lookup(w.Jet)
			if !ok {
				return nil, errors.WithDetailf(ErrUnknownJet, "node %d: %q", i, w.Jet)
			}
			n.jet = j
		case KindAssertL, KindAssertR:
			if len(w.Hidden) != len(n.hidden) {
				return nil, errors.WithDetailf(ErrMalformed, "node %d hidden root is %d bytes", i, len(w.Hidden))
			}
			copy(n.hidden[:], w.Hidden)
		}
		nodes[i] = finish(n)
	}

	root := nodes[len(nodes)-1]
	if err := Check(root); err != nil {
		return nil, err
	}
	return root, nil
}

// checkShape verifies that n has exactly the children its kind requires.
func checkShape(n *Node) error {
	var wantL, wantR bool
	switch n.kind.Children() {
	case 1:
		wantL = n.kind != KindAssertR
		wantR = n.kind == KindAssertR
	case 2:
		wantL, wantR = true, true
	}
	if (n.left != nil) != wantL || (n.right != nil) != wantR {
		return errors.WithDetailf(ErrMalformed, "%s with wrong children", n.kind)
	}
	return nil
}
