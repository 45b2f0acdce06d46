package dag

import "simplicity/protocol/types"

// NewUnchecked builds a node without checking its arrow,
// so tests can produce programs that Check must reject.
func NewUnchecked(k Kind, source, target *types.Type, left, right *Node) *Node {
	return finish(&Node{kind: k, source: source, target: target, left: left, right: right})
}
