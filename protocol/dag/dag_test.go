package dag_test

import (
	"testing"

	"simplicity/errors"
	"simplicity/protocol/dag"
	"simplicity/protocol/dag/dagtest"
	"simplicity/protocol/jets/jettest"
	"simplicity/protocol/types"
	"simplicity/protocol/value"
)

var (
	one = types.Unit()
	two = types.Bit()
)

// notProgram is case (injr unit) (injl unit) over 2 × 1,
// with the unit node shared by both branches.
func notProgram() *dag.Node {
	u := dag.Unit(types.Product(one, one))
	return dag.Case(dag.InjR(u, one), dag.InjL(u, one))
}

func TestKinds(t *testing.T) {
	names := make(map[string]bool)
	for _, k := range dag.Kinds() {
		if !k.Valid() {
			t.Errorf("%d is not valid", k)
		}
		if names[k.String()] {
			t.Errorf("duplicate name %s", k)
		}
		names[k.String()] = true
		if c := k.Children(); c < 0 || c > 2 {
			t.Errorf("%s has %d children", k, c)
		}
	}
	if len(names) != 16 {
		t.Errorf("%d kinds want 16", len(names))
	}
	if dag.Kind(16).Valid() {
		t.Error("kind 16 is valid")
	}
}

// everyKind returns one node of each kind.
func everyKind() []*dag.Node {
	var tok dag.FailToken
	tok[0] = 7
	s := dag.Take(dag.Iden(one), one)
	return []*dag.Node{
		dag.Unit(two),
		dag.Iden(two),
		dag.InjL(dag.Iden(one), one),
		dag.InjR(dag.Iden(one), one),
		dag.Take(dag.Iden(two), one),
		dag.Drop(one, dag.Iden(two)),
		dag.Comp(dag.Iden(two), dag.Unit(two)),
		dag.Case(s, s),
		dag.AssertL(s, s.CMR(), one),
		dag.AssertR(s.CMR(), s, one),
		dag.Pair(dag.Iden(two), dag.Unit(two)),
		dag.Disconnect(dag.Drop(types.TwoN(8), dag.Pair(dag.Iden(two), dag.Iden(two))), dag.Unit(two)),
		dag.Witness(one, value.Bit(true)),
		dag.Fail(one, two, tok),
		dag.Jet(jettest.Not),
		dag.Word(value.U8(9)),
	}
}

func TestEveryKind(t *testing.T) {
	nodes := everyKind()
	if len(nodes) != len(dag.Kinds()) {
		t.Fatalf("%d sample nodes for %d kinds", len(nodes), len(dag.Kinds()))
	}
	roots := make(map[dag.CMR]dag.Kind)
	for i, n := range nodes {
		if n.Kind() != dag.Kind(i) {
			t.Errorf("sample %d has kind %s", i, n.Kind())
		}
		if err := dag.Check(n); err != nil {
			t.Errorf("Check(%s): %v", n, err)
		}
		if k, ok := roots[n.CMR()]; ok && n.Kind() != dag.KindAssertL && n.Kind() != dag.KindAssertR {
			t.Errorf("%s and %s share a commitment root", n.Kind(), k)
		}
		roots[n.CMR()] = n.Kind()
	}
}

func TestArrows(t *testing.T) {
	cases := []struct {
		n        *dag.Node
		src, tgt string
	}{
		{notProgram(), "(2 × 1)", "2"},
		{dag.InjL(dag.Iden(two), one), "2", "(2 + 1)"},
		{dag.Drop(types.TwoN(3), dag.Iden(two)), "(2^8 × 2)", "2"},
		{dag.Word(value.U16(1)), "1", "2^16"},
		{everyKind()[dag.KindDisconnect], "2", "(2 × 1)"},
	}
	for _, c := range cases {
		if got := c.n.Source().String(); got != c.src {
			t.Errorf("%s source = %s want %s", c.n.Kind(), got, c.src)
		}
		if got := c.n.Target().String(); got != c.tgt {
			t.Errorf("%s target = %s want %s", c.n.Kind(), got, c.tgt)
		}
	}
}

func TestConstructorPanics(t *testing.T) {
	cases := []struct {
		name string
		fn   func()
	}{
		{"comp mismatch", func() { dag.Comp(dag.Iden(two), dag.Iden(one)) }},
		{"pair mismatch", func() { dag.Pair(dag.Iden(two), dag.Iden(one)) }},
		{"case non-product", func() { dag.Case(dag.Iden(two), dag.Iden(two)) }},
		{"disconnect without 2^256", func() { dag.Disconnect(dag.Iden(types.Product(two, two)), dag.Iden(two)) }},
	}
	for _, c := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s did not panic", c.name)
				}
			}()
			c.fn()
		}()
	}
}

func TestAssertCommitsAsCase(t *testing.T) {
	c := notProgram()
	l := dag.AssertL(c.Left(), c.Right().CMR(), one)
	r := dag.AssertR(c.Left().CMR(), c.Right(), one)
	if l.CMR() != c.CMR() {
		t.Errorf("assertl root %s want %s", l.CMR(), c.CMR())
	}
	if r.CMR() != c.CMR() {
		t.Errorf("assertr root %s want %s", r.CMR(), c.CMR())
	}
	if !l.Source().Equal(c.Source()) || !r.Source().Equal(c.Source()) {
		t.Errorf("assertion sources %s, %s want %s", l.Source(), r.Source(), c.Source())
	}
}

func TestCMRIgnoresWitnessData(t *testing.T) {
	a := dag.Witness(one, value.U8(1))
	b := dag.Witness(two, value.U32(2))
	if a.CMR() != b.CMR() {
		t.Error("witness roots depend on their values")
	}
	if dag.Word(value.U8(1)).CMR() == dag.Word(value.U8(2)).CMR() {
		t.Error("word roots ignore their values")
	}
	d1 := dag.Disconnect(dag.Drop(types.TwoN(8), dag.Pair(dag.Iden(two), dag.Iden(two))), dag.Unit(two))
	d2 := dag.Disconnect(dag.Drop(types.TwoN(8), dag.Pair(dag.Iden(two), dag.Iden(two))), dag.Iden(two))
	if d1.CMR() != d2.CMR() {
		t.Error("disconnect root depends on its right branch")
	}
}

func TestParseCMR(t *testing.T) {
	c := notProgram().CMR()
	got, err := dag.ParseCMR(c.String())
	if err != nil || got != c {
		t.Errorf("ParseCMR(%s) = %s, %v", c, got, err)
	}
	if _, err := dag.ParseCMR("abcd"); err == nil {
		t.Error("ParseCMR accepted a short root")
	}
}

func TestCheckRejects(t *testing.T) {
	cases := []struct {
		name string
		n    *dag.Node
	}{
		{"iden changes type", dag.NewUnchecked(dag.KindIden, two, one, nil, nil)},
		{"comp mismatch", dag.NewUnchecked(dag.KindComp, two, two, dag.Iden(two), dag.Iden(one))},
		{"unit to bit", dag.NewUnchecked(dag.KindUnit, one, two, nil, nil)},
		{"pair target", dag.NewUnchecked(dag.KindPair, two, two, dag.Iden(two), dag.Iden(two))},
		{"case of non-sum", dag.NewUnchecked(dag.KindCase, types.Product(two, one), two, dag.Iden(two), dag.Iden(two))},
		{"nested", dag.Comp(dag.Iden(two), dag.NewUnchecked(dag.KindTake, two, two, dag.Iden(two), nil))},
	}
	for _, c := range cases {
		err := dag.Check(c.n)
		if errors.Root(err) != dag.ErrTypeMismatch {
			t.Errorf("%s: err = %v want ErrTypeMismatch", c.name, err)
		}
	}
}

func TestCheckGenerated(t *testing.T) {
	g := dagtest.New(1)
	g.Fail = true
	for i := 0; i < 50; i++ {
		src, tgt := g.Type(2), g.Type(2)
		n := g.Program(src, tgt, 4)
		if err := dag.Check(n); err != nil {
			t.Fatalf("generated program %d: %v", i, err)
		}
	}
}
