package main

import (
	"fmt"
	"os"
	"sort"

	"simplicity/protocol/dag"
	"simplicity/protocol/jets/jettest"
	"simplicity/protocol/types"
)

var (
	one = types.Unit()
	two = types.Bit()
)

// samples are small programs for trying out the tools.
var samples = map[string]func() *dag.Node{
	"iden": func() *dag.Node { return dag.Iden(two) },

	// 2 -> 2
	"not": func() *dag.Node {
		u := dag.Unit(types.Product(one, one))
		return dag.Comp(
			dag.Pair(dag.Iden(two), dag.Unit(two)),
			dag.Case(dag.InjR(u, one), dag.InjL(u, one)),
		)
	},

	// 2 × 2 -> 2
	"and": func() *dag.Node {
		return dag.Case(
			dag.InjL(dag.Unit(types.Product(one, two)), one),
			dag.Drop(one, dag.Iden(two)),
		)
	},

	// 2^256 -> 2^256, using a jet
	"sha3": func() *dag.Node { return dag.Jet(jettest.SHA3) },

	// 1 -> 2^32, reads the environment
	"version": func() *dag.Node { return dag.Jet(jettest.Version) },
}

func emit(name string) int {
	mk, ok := samples[name]
	if !ok {
		var names []string
		for n := range samples {
			names = append(names, n)
		}
		sort.Strings(names)
		fmt.Fprintf(os.Stderr, "unknown sample %q; have %v\n", name, names)
		return 2
	}
	data, err := dag.Encode(mk())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	os.Stdout.Write(data)
	return 0
}
