package dag

import "fmt"

// Kind is a combinator. The set of kinds is closed.
type Kind uint8

const (
	KindUnit Kind = iota
	KindIden
	KindInjL
	KindInjR
	KindTake
	KindDrop
	KindComp
	KindCase
	KindAssertL
	KindAssertR
	KindPair
	KindDisconnect
	KindWitness
	KindFail
	KindJet
	KindWord

	numKinds
)

type kindInfo struct {
	name     string
	children int // number of child nodes
}

var kinds = [numKinds]kindInfo{
	KindUnit:       {"unit", 0},
	KindIden:       {"iden", 0},
	KindInjL:       {"injl", 1},
	KindInjR:       {"injr", 1},
	KindTake:       {"take", 1},
	KindDrop:       {"drop", 1},
	KindComp:       {"comp", 2},
	KindCase:       {"case", 2},
	KindAssertL:    {"assertl", 1},
	KindAssertR:    {"assertr", 1},
	KindPair:       {"pair", 2},
	KindDisconnect: {"disconnect", 2},
	KindWitness:    {"witness", 0},
	KindFail:       {"fail", 0},
	KindJet:        {"jet", 0},
	KindWord:       {"word", 0},
}

// Kinds returns every kind in order.
func Kinds() []Kind {
	ks := make([]Kind, numKinds)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool { return k < numKinds }

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kinds[k].name
}

// Children returns the number of child nodes of kind k.
func (k Kind) Children() int {
	if !k.Valid() {
		panic(fmt.Sprintf("dag: invalid kind %d", uint8(k)))
	}
	return kinds[k].children
}
