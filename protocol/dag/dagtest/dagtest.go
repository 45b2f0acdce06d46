// Package dagtest generates random well-typed programs and
// values for property tests.
package dagtest

import (
	"math/rand"

	"simplicity/protocol/dag"
	"simplicity/protocol/types"
	"simplicity/protocol/value"
)

// Gen is a seeded generator of types, values and programs.
// A Gen is not safe for concurrent use.
type Gen struct {
	r *rand.Rand

	// Fail enables Fail nodes and assertions with pruned branches.
	Fail bool

	shared map[string][]*dag.Node
}

// New returns a generator seeded with seed.
func New(seed int64) *Gen {
	return &Gen{
		r:      rand.New(rand.NewSource(seed)),
		shared: make(map[string][]*dag.Node),
	}
}

// Intn exposes the generator's source for callers
// that need further random choices.
func (g *Gen) Intn(n int) int { return g.r.Intn(n) }

// Type returns a random type of nesting depth at most depth.
func (g *Gen) Type(depth int) *types.Type {
	if depth <= 0 {
		if g.r.Intn(3) == 0 {
			return types.Unit()
		}
		return types.Bit()
	}
	switch g.r.Intn(5) {
	case 0:
		return types.Unit()
	case 1:
		return types.Bit()
	case 2:
		return types.Sum(g.Type(depth-1), g.Type(depth-1))
	case 3:
		return types.Product(g.Type(depth-1), g.Type(depth-1))
	default:
		return types.TwoN(g.r.Intn(3))
	}
}

// Value returns a random value of type t.
func (g *Gen) Value(t *types.Type) *value.Value {
	switch t.Kind() {
	case types.UnitKind:
		return value.Unit()
	case types.SumKind:
		if g.r.Intn(2) == 0 {
			return value.InjectLeft(t, g.Value(t.Left()))
		}
		return value.InjectRight(t, g.Value(t.Right()))
	default:
		return value.Pair(g.Value(t.Left()), g.Value(t.Right()))
	}
}

// Token returns a random fail token.
func (g *Gen) Token() dag.FailToken {
	var tok dag.FailToken
	g.r.Read(tok[:])
	return tok
}

// CMR returns a random commitment root.
func (g *Gen) CMR() dag.CMR {
	var c dag.CMR
	g.r.Read(c[:])
	return c
}

// Program returns a random jet-free program from src to tgt
// with combinator nesting at most depth. Subprograms with equal
// arrows are sometimes shared.
func (g *Gen) Program(src, tgt *types.Type, depth int) *dag.Node {
	key := src.String() + "->" + tgt.String()
	if prev := g.shared[key]; len(prev) > 0 && g.r.Intn(4) == 0 {
		return prev[g.r.Intn(len(prev))]
	}
	n := g.program(src, tgt, depth)
	g.shared[key] = append(g.shared[key], n)
	return n
}

func (g *Gen) program(src, tgt *types.Type, depth int) *dag.Node {
	var options []func() *dag.Node
	leaf := func(f func() *dag.Node) { options = append(options, f) }

	leaf(func() *dag.Node { return dag.Witness(src, g.Value(tgt)) })
	if tgt.Kind() == types.UnitKind {
		leaf(func() *dag.Node { return dag.Unit(src) })
	}
	if src.Equal(tgt) {
		leaf(func() *dag.Node { return dag.Iden(src) })
	}
	if src.Kind() == types.UnitKind {
		leaf(func() *dag.Node { return dag.Word(g.Value(tgt)) })
	}
	if g.Fail && g.r.Intn(8) == 0 {
		leaf(func() *dag.Node { return dag.Fail(src, tgt, g.Token()) })
	}
	if depth <= 0 {
		return options[g.r.Intn(len(options))]()
	}

	d := depth - 1
	if tgt.Kind() == types.SumKind {
		options = append(options,
			func() *dag.Node { return dag.InjL(g.Program(src, tgt.Left(), d), tgt.Right()) },
			func() *dag.Node { return dag.InjR(g.Program(src, tgt.Right(), d), tgt.Left()) },
		)
	}
	if tgt.Kind() == types.ProductKind {
		options = append(options, func() *dag.Node {
			return dag.Pair(g.Program(src, tgt.Left(), d), g.Program(src, tgt.Right(), d))
		}, func() *dag.Node {
			// disconnect s t with s: 2^256 × src -> B × C and t: C -> D
			c := g.Type(1)
			s := g.Program(types.Product(types.TwoN(8), src), types.Product(tgt.Left(), c), d)
			return dag.Disconnect(s, g.Program(c, tgt.Right(), d))
		})
	}
	if src.Kind() == types.ProductKind {
		options = append(options,
			func() *dag.Node { return dag.Take(g.Program(src.Left(), tgt, d), src.Right()) },
			func() *dag.Node { return dag.Drop(src.Left(), g.Program(src.Right(), tgt, d)) },
		)
		if sum := src.Left(); sum.Kind() == types.SumKind {
			ctx := src.Right()
			options = append(options, func() *dag.Node {
				return g.branch(sum, ctx, tgt, d)
			})
		}
	}
	options = append(options, func() *dag.Node {
		mid := g.Type(2)
		return dag.Comp(g.Program(src, mid, d), g.Program(mid, tgt, d))
	}, func() *dag.Node {
		// compute a discriminant, then branch on it
		sum := types.Sum(g.Type(1), g.Type(1))
		scrut := dag.Pair(g.Program(src, sum, d), dag.Iden(src))
		return dag.Comp(scrut, g.branch(sum, src, tgt, d))
	})
	return options[g.r.Intn(len(options))]()
}

// branch returns a case or assertion (A + B) × C -> D.
func (g *Gen) branch(sum, ctx, tgt *types.Type, d int) *dag.Node {
	left := func() *dag.Node { return g.Program(types.Product(sum.Left(), ctx), tgt, d) }
	right := func() *dag.Node { return g.Program(types.Product(sum.Right(), ctx), tgt, d) }
	if g.Fail {
		switch g.r.Intn(4) {
		case 0:
			return dag.AssertL(left(), g.CMR(), sum.Right())
		case 1:
			return dag.AssertR(g.CMR(), right(), sum.Left())
		}
	}
	return dag.Case(left(), right())
}
