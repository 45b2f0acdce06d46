package main

import (
	"testing"

	"simplicity/protocol/dag"
	"simplicity/protocol/exec"
	"simplicity/protocol/jets/jettest"
	"simplicity/protocol/value"
	"simplicity/testutil"
)

func TestParseBits(t *testing.T) {
	cases := []struct {
		in      string
		want    []bool
		wantErr bool
	}{
		{"", nil, false},
		{"101", []bool{true, false, true}, false},
		{"0x5", []bool{false, true, false, true}, false},
		{"0xA0", []bool{true, false, true, false, false, false, false, false}, false},
		{"12", nil, true},
		{"0xff01", []bool{
			true, true, true, true, true, true, true, true,
			false, false, false, false, false, false, false, true,
		}, false},
		{"0x", nil, false},
		{"0xg", nil, true},
		{"0x5g", nil, true},
		{"0x\u00e9", nil, true},
	}
	for _, c := range cases {
		got, err := parseBits(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("parseBits(%q) error %v", c.in, err)
			continue
		}
		if !c.wantErr && !testutil.DeepEqual(got, c.want) {
			t.Errorf("parseBits(%q) = %v want %v", c.in, got, c.want)
		}
	}
}

func TestSamples(t *testing.T) {
	for name, mk := range samples {
		prog := mk()
		if err := dag.Check(prog); err != nil {
			t.Errorf("%s: %v", name, err)
		}
		data, err := dag.Encode(prog)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		got, err := dag.Decode(data, jettest.Catalog())
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got.CMR() != prog.CMR() {
			t.Errorf("%s: decoded root %s want %s", name, got.CMR(), prog.CMR())
		}
	}
}

func TestAnd(t *testing.T) {
	and := samples["and"]()
	for _, a := range []bool{false, true} {
		for _, b := range []bool{false, true} {
			out, err := exec.Run(and, value.Pair(value.Bit(a), value.Bit(b)))
			if err != nil {
				testutil.FatalErr(t, err)
			}
			if got, _ := value.AsBool(out); got != (a && b) {
				t.Errorf("and(%v, %v) = %v", a, b, got)
			}
		}
	}
}
