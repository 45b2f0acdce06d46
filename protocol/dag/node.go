package dag

import (
	"fmt"

	"simplicity/protocol/jets"
	"simplicity/protocol/types"
	"simplicity/protocol/value"
)

// FailToken is the opaque payload of a Fail node.
type FailToken [64]byte

// Node is an immutable program node.
type Node struct {
	kind           Kind
	source, target *types.Type
	left, right    *Node

	value  *value.Value // Witness, Word
	token  FailToken    // Fail
	jet    *jets.Jet    // Jet
	hidden CMR          // AssertL, AssertR

	cmr CMR
}

func (n *Node) Kind() Kind          { return n.kind }
func (n *Node) Source() *types.Type { return n.source }
func (n *Node) Target() *types.Type { return n.target }
func (n *Node) Left() *Node         { return n.left }
func (n *Node) Right() *Node        { return n.right }
func (n *Node) Value() *value.Value { return n.value }
func (n *Node) Token() FailToken    { return n.token }
func (n *Node) Jet() *jets.Jet      { return n.jet }
func (n *Node) CMR() CMR            { return n.cmr }

// Hidden returns the commitment root of the pruned branch
// of an AssertL or AssertR node.
func (n *Node) Hidden() CMR { return n.hidden }

func (n *Node) String() string {
	return fmt.Sprintf("%s: %s -> %s", n.kind, n.source, n.target)
}

func mustEqual(k Kind, what string, got, want *types.Type) {
	if !got.Equal(want) {
		panic(fmt.Sprintf("dag: %s: %s is %s, want %s", k, what, got, want))
	}
}

func mustKind(k Kind, what string, t *types.Type, tk types.Kind) {
	if t.Kind() != tk {
		panic(fmt.Sprintf("dag: %s: %s is %s, want a %s", k, what, t, tk))
	}
}

func finish(n *Node) *Node {
	n.cmr = commit(n)
	return n
}

// Unit returns unit: A -> 1.
func Unit(a *types.Type) *Node {
	return finish(&Node{kind: KindUnit, source: a, target: types.Unit()})
}

// Iden returns iden: A -> A.
func Iden(a *types.Type) *Node {
	return finish(&Node{kind: KindIden, source: a, target: a})
}

// InjL returns injl t: A -> B + C for t: A -> B.
func InjL(t *Node, c *types.Type) *Node {
	return finish(&Node{kind: KindInjL, source: t.source, target: types.Sum(t.target, c), left: t})
}

// InjR returns injr t: A -> B + C for t: A -> C.
func InjR(t *Node, b *types.Type) *Node {
	return finish(&Node{kind: KindInjR, source: t.source, target: types.Sum(b, t.target), left: t})
}

// Take returns take t: A × B -> C for t: A -> C.
func Take(t *Node, b *types.Type) *Node {
	return finish(&Node{kind: KindTake, source: types.Product(t.source, b), target: t.target, left: t})
}

// Drop returns drop t: A × B -> C for t: B -> C.
func Drop(a *types.Type, t *Node) *Node {
	return finish(&Node{kind: KindDrop, source: types.Product(a, t.source), target: t.target, left: t})
}

// Comp returns comp s t: A -> C for s: A -> B and t: B -> C.
func Comp(s, t *Node) *Node {
	mustEqual(KindComp, "source of right", t.source, s.target)
	return finish(&Node{kind: KindComp, source: s.source, target: t.target, left: s, right: t})
}

// Case returns case s t: (A + B) × C -> D
// for s: A × C -> D and t: B × C -> D.
func Case(s, t *Node) *Node {
	mustKind(KindCase, "source of left", s.source, types.ProductKind)
	mustKind(KindCase, "source of right", t.source, types.ProductKind)
	mustEqual(KindCase, "context of right", t.source.Right(), s.source.Right())
	mustEqual(KindCase, "target of right", t.target, s.target)
	src := types.Product(types.Sum(s.source.Left(), t.source.Left()), s.source.Right())
	return finish(&Node{kind: KindCase, source: src, target: s.target, left: s, right: t})
}

// AssertL returns assertl s h: (A + B) × C -> D for s: A × C -> D,
// where h is the commitment root of the pruned right branch.
func AssertL(s *Node, hidden CMR, b *types.Type) *Node {
	mustKind(KindAssertL, "source of left", s.source, types.ProductKind)
	src := types.Product(types.Sum(s.source.Left(), b), s.source.Right())
	return finish(&Node{kind: KindAssertL, source: src, target: s.target, left: s, hidden: hidden})
}

// AssertR returns assertr h t: (A + B) × C -> D for t: B × C -> D,
// where h is the commitment root of the pruned left branch.
func AssertR(hidden CMR, t *Node, a *types.Type) *Node {
	mustKind(KindAssertR, "source of right", t.source, types.ProductKind)
	src := types.Product(types.Sum(a, t.source.Left()), t.source.Right())
	return finish(&Node{kind: KindAssertR, source: src, target: t.target, right: t, hidden: hidden})
}

// Pair returns pair s t: A -> B × C for s: A -> B and t: A -> C.
func Pair(s, t *Node) *Node {
	mustEqual(KindPair, "source of right", t.source, s.source)
	return finish(&Node{kind: KindPair, source: s.source, target: types.Product(s.target, t.target), left: s, right: t})
}

// Disconnect returns disconnect s t: A -> B × D
// for s: 2^256 × A -> B × C and t: C -> D.
func Disconnect(s, t *Node) *Node {
	mustKind(KindDisconnect, "source of left", s.source, types.ProductKind)
	mustEqual(KindDisconnect, "left of source of left", s.source.Left(), types.TwoN(8))
	mustKind(KindDisconnect, "target of left", s.target, types.ProductKind)
	mustEqual(KindDisconnect, "source of right", t.source, s.target.Right())
	return finish(&Node{
		kind:   KindDisconnect,
		source: s.source.Right(),
		target: types.Product(s.target.Left(), t.target),
		left:   s,
		right:  t,
	})
}

// Witness returns a node A -> B producing the constant v of type B.
func Witness(a *types.Type, v *value.Value) *Node {
	return finish(&Node{kind: KindWitness, source: a, target: v.Type(), value: v})
}

// Fail returns a node A -> B that always fails with token.
func Fail(a, b *types.Type, token FailToken) *Node {
	return finish(&Node{kind: KindFail, source: a, target: b, token: token})
}

// Jet returns a node invoking the native builtin j.
func Jet(j *jets.Jet) *Node {
	return finish(&Node{kind: KindJet, source: j.Source, target: j.Target, jet: j})
}

// Word returns a node 1 -> B producing the constant v of type B.
func Word(v *value.Value) *Node {
	return finish(&Node{kind: KindWord, source: types.Unit(), target: v.Type(), value: v})
}

// children returns the non-nil children of n, left first.
func (n *Node) children() []*Node {
	switch n.kind {
	case KindUnit, KindIden, KindWitness, KindFail, KindJet, KindWord:
		return nil
	case KindInjL, KindInjR, KindTake, KindDrop, KindAssertL:
		return []*Node{n.left}
	case KindAssertR:
		return []*Node{n.right}
	case KindComp, KindCase, KindPair, KindDisconnect:
		return []*Node{n.left, n.right}
	}
	panic(fmt.Sprintf("dag: unknown kind %d", uint8(n.kind)))
}
