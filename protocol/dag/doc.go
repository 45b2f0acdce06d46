/*
Package dag implements programs: immutable, typed combinator
expressions in which a node may be shared by several parents.

Each node has a source type and a target type, a Kind, and the
children its kind requires. Constructors check that the arrows
of their children fit together and panic if they do not; a
program decoded from bytes is checked with Check instead.

Every node carries a commitment root (CMR), a SHA3-256 digest
of its kind and its children's roots. Pruned branches of
AssertL and AssertR are represented only by their roots, and
an assertion commits exactly as the Case it was pruned from.
*/
package dag
