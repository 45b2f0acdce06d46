package testutil

import "testing"

type word struct {
	bits []bool
	memo *string
}

func (w word) Equal(o word) bool {
	if len(w.bits) != len(o.bits) {
		return false
	}
	for i := range w.bits {
		if w.bits[i] != o.bits[i] {
			return false
		}
	}
	return true
}

type ring struct {
	n    int
	next *ring
}

func newRing() *ring {
	a := &ring{n: 1}
	a.next = &ring{n: 2, next: a}
	return a
}

func TestDeepEqual(t *testing.T) {
	type s struct {
		a int
		b string
	}
	memo := "cached"

	cases := []struct {
		a, b interface{}
		want bool
	}{
		{1, 1, true},
		{1, 2, false},
		{nil, nil, true},
		{nil, []byte{}, true},
		{nil, []byte{1}, false},
		{[]byte{1}, []byte{1}, true},
		{[]byte{1}, []byte{2}, false},
		{[]byte{1}, []byte{1, 2}, false},
		{[]byte{1}, []string{"1"}, false},
		{[3]byte{}, [4]byte{}, false},
		{[3]byte{1}, [3]byte{1, 0, 0}, true},
		{s{}, s{}, true},
		{s{a: 1}, s{}, false},
		{s{b: "foo"}, s{}, false},
		{"foo", "foo", true},
		{"foo", "bar", false},
		{"foo", nil, false},
		{word{bits: []bool{true}}, word{bits: []bool{true}, memo: &memo}, true},
		{word{bits: []bool{true}}, word{bits: []bool{false}}, false},
		{[]word{{bits: []bool{true}}}, []word{{bits: []bool{true}, memo: &memo}}, true},
		{map[string]interface{}{"cmr": [2]byte{1}}, map[string]interface{}{"cmr": [2]byte{1}}, true},
		{map[string]interface{}{"cmr": [2]byte{1}}, map[string]interface{}{"cmr": [2]byte{2}}, false},
		{map[string]interface{}{}, nil, true},
		{newRing(), newRing(), true},
	}

	for i, c := range cases {
		got := DeepEqual(c.a, c.b)
		if got != c.want {
			t.Errorf("case %d: got %v want %v", i, got, c.want)
		}
	}
}
