package dag

import "simplicity/math/checked"

type walkEntry struct {
	n        *Node
	expanded bool
}

// Walk calls fn on every distinct node reachable from root,
// children before parents, visiting each shared node once.
// It stops at the first error from fn.
func Walk(root *Node, fn func(*Node) error) error {
	seen := make(map[*Node]bool)
	stack := []walkEntry{{n: root}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.expanded {
			if err := fn(e.n); err != nil {
				return err
			}
			continue
		}
		if seen[e.n] {
			continue
		}
		seen[e.n] = true
		stack = append(stack, walkEntry{n: e.n, expanded: true})
		cs := e.n.children()
		for i := len(cs) - 1; i >= 0; i-- {
			if !seen[cs[i]] {
				stack = append(stack, walkEntry{n: cs[i]})
			}
		}
	}
	return nil
}

// WalkTree is like Walk but treats the program as a tree,
// calling fn once per path to each node. Its cost grows with
// the expanded tree, which can be exponential in the number
// of distinct nodes.
func WalkTree(root *Node, fn func(*Node) error) error {
	stack := []walkEntry{{n: root}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.expanded {
			if err := fn(e.n); err != nil {
				return err
			}
			continue
		}
		stack = append(stack, walkEntry{n: e.n, expanded: true})
		cs := e.n.children()
		for i := len(cs) - 1; i >= 0; i-- {
			stack = append(stack, walkEntry{n: cs[i]})
		}
	}
	return nil
}

// Sharing describes how much a program benefits from sharing.
type Sharing struct {
	// Nodes is the size of the program expanded as a tree,
	// saturating at the maximum uint64.
	Nodes uint64
	// Unique is the number of distinct nodes.
	Unique int
}

// Stats returns the sharing statistics of the program rooted
// at root without expanding it.
func Stats(root *Node) Sharing {
	var s Sharing
	size := make(map[*Node]uint64)
	Walk(root, func(n *Node) error {
		s.Unique++
		total := uint64(1)
		for _, c := range n.children() {
			var ok bool
			if total, ok = checked.AddUint64(total, size[c]); !ok {
				total = ^uint64(0)
			}
		}
		size[n] = total
		return nil
	})
	s.Nodes = size[root]
	return s
}
