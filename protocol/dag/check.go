package dag

import (
	"simplicity/errors"
	"simplicity/protocol/types"
)

// ErrTypeMismatch is returned by Check for a node whose arrow
// does not fit its children.
var ErrTypeMismatch = errors.New("node type mismatch")

// Check verifies that every node reachable from root has an
// arrow consistent with its children and payload.
func Check(root *Node) error {
	return Walk(root, checkNode)
}

func checkNode(n *Node) error {
	bad := func(format string, args ...interface{}) error {
		return errors.WithData(
			errors.WithDetailf(ErrTypeMismatch, n.kind.String()+": "+format, args...),
			"cmr", n.cmr,
		)
	}
	eq := func(got, want *types.Type) bool { return got != nil && want != nil && got.Equal(want) }
	isProduct := func(t *types.Type) bool { return t != nil && t.Kind() == types.ProductKind }
	isSum := func(t *types.Type) bool { return t != nil && t.Kind() == types.SumKind }

	if n.source == nil || n.target == nil {
		return bad("missing type")
	}
	for _, c := range n.children() {
		if c == nil {
			return bad("missing child")
		}
	}

	switch n.kind {
	case KindUnit:
		if n.target.Kind() != types.UnitKind {
			return bad("target %s is not unit", n.target)
		}
	case KindIden:
		if !eq(n.source, n.target) {
			return bad("%s -> %s", n.source, n.target)
		}
	case KindInjL, KindInjR:
		t := n.left
		if !isSum(n.target) || !eq(t.source, n.source) {
			return bad("%s -> %s over %s", n.source, n.target, t)
		}
		inner := n.target.Left()
		if n.kind == KindInjR {
			inner = n.target.Right()
		}
		if !eq(t.target, inner) {
			return bad("child target %s, want %s", t.target, inner)
		}
	case KindTake, KindDrop:
		t := n.left
		if !isProduct(n.source) || !eq(t.target, n.target) {
			return bad("%s -> %s over %s", n.source, n.target, t)
		}
		part := n.source.Left()
		if n.kind == KindDrop {
			part = n.source.Right()
		}
		if !eq(t.source, part) {
			return bad("child source %s, want %s", t.source, part)
		}
	case KindComp:
		s, t := n.left, n.right
		if !eq(s.source, n.source) || !eq(s.target, t.source) || !eq(t.target, n.target) {
			return bad("%s ; %s for %s -> %s", s, t, n.source, n.target)
		}
	case KindCase, KindAssertL, KindAssertR:
		if !isProduct(n.source) || !isSum(n.source.Left()) {
			return bad("source %s is not (A + B) × C", n.source)
		}
		sum, ctx := n.source.Left(), n.source.Right()
		if n.left != nil {
			if !eq(n.left.source, types.Product(sum.Left(), ctx)) || !eq(n.left.target, n.target) {
				return bad("left branch %s", n.left)
			}
		}
		if n.right != nil {
			if !eq(n.right.source, types.Product(sum.Right(), ctx)) || !eq(n.right.target, n.target) {
				return bad("right branch %s", n.right)
			}
		}
	case KindPair:
		s, t := n.left, n.right
		if !eq(s.source, n.source) || !eq(t.source, n.source) || !eq(n.target, types.Product(s.target, t.target)) {
			return bad("%s, %s for %s -> %s", s, t, n.source, n.target)
		}
	case KindDisconnect:
		s, t := n.left, n.right
		if !eq(s.source, types.Product(types.TwoN(8), n.source)) {
			return bad("left source %s", s.source)
		}
		if !isProduct(s.target) || !eq(t.source, s.target.Right()) {
			return bad("left target %s, right source %s", s.target, t.source)
		}
		if !eq(n.target, types.Product(s.target.Left(), t.target)) {
			return bad("target %s", n.target)
		}
	case KindWitness, KindWord:
		if n.value == nil || !eq(n.value.Type(), n.target) {
			return bad("value does not have type %s", n.target)
		}
		if n.kind == KindWord && n.source.Kind() != types.UnitKind {
			return bad("source %s is not unit", n.source)
		}
	case KindFail:
	case KindJet:
		if n.jet == nil || !eq(n.jet.Source, n.source) || !eq(n.jet.Target, n.target) {
			return bad("jet arrow does not match %s -> %s", n.source, n.target)
		}
	default:
		return bad("unknown kind")
	}
	return nil
}
