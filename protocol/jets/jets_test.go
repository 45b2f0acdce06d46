package jets_test

import (
	"testing"

	"golang.org/x/crypto/sha3"

	"simplicity/errors"
	"simplicity/protocol/bitmachine"
	"simplicity/protocol/jets"
	"simplicity/protocol/jets/jettest"
	"simplicity/protocol/types"
	"simplicity/protocol/value"
)

func TestExec(t *testing.T) {
	digest := sha3.Sum256(make([]byte, 32))
	var digestBits []bool
	for _, b := range digest {
		for i := 7; i >= 0; i-- {
			digestBits = append(digestBits, b&(1<<uint(i)) != 0)
		}
	}

	cases := []struct {
		name string
		jet  *jets.Jet
		in   *value.Value
		env  jets.Env
		want *value.Value
	}{
		{"not 0", jettest.Not, value.Bit(false), nil, value.Bit(true)},
		{"not 1", jettest.Not, value.Bit(true), nil, value.Bit(false)},
		{
			"add32",
			jettest.Add32,
			value.Pair(value.U32(3), value.U32(4)),
			nil,
			value.Pair(value.Bit(false), value.U32(7)),
		},
		{
			"add32 carry",
			jettest.Add32,
			value.Pair(value.U32(0xffffffff), value.U32(2)),
			nil,
			value.Pair(value.Bit(true), value.U32(1)),
		},
		{
			"eq256",
			jettest.Eq256,
			value.Pair(value.Word(make([]bool, 256)), value.Word(make([]bool, 256))),
			nil,
			value.Bit(true),
		},
		{"sha3", jettest.SHA3, value.Word(make([]bool, 256)), nil, value.Word(digestBits)},
		{"version", jettest.Version, value.Unit(), &jettest.Env{Version: 9}, value.U32(9)},
	}
	for _, c := range cases {
		got, err := jets.Exec(c.jet, c.in, c.env)
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("%s = %s want %s", c.name, got, c.want)
		}
		if n := jets.Live(); n != 0 {
			t.Errorf("%s: %d frames live after return", c.name, n)
		}
	}
}

func TestExecFailure(t *testing.T) {
	cases := []struct {
		name    string
		jet     *jets.Jet
		in      *value.Value
		env     jets.Env
		wantErr error
	}{
		{"explicit failure", jettest.Fail, value.Unit(), nil, jets.ErrJetFailed},
		{"unfinished output", jettest.Lazy, value.Unit(), nil, jets.ErrJetFailed},
		{"missing env", jettest.Version, value.Unit(), nil, jets.ErrJetFailed},
		{"wrong type", jettest.Not, value.U8(1), nil, jets.ErrWidth},
	}
	for _, c := range cases {
		got, err := jets.Exec(c.jet, c.in, c.env)
		if errors.Root(err) != c.wantErr {
			t.Errorf("%s: err = %v want %v", c.name, err, c.wantErr)
		}
		if got != nil {
			t.Errorf("%s: result %s on failure", c.name, got)
		}
		if n := jets.Live(); n != 0 {
			t.Errorf("%s: %d frames live after return", c.name, n)
		}
	}
}

func TestExecPanicReleases(t *testing.T) {
	boom := jets.New("boom", types.Bit(), types.Bit(), func(_, _ *bitmachine.Frame, _ jets.Env) bool {
		panic("native fault")
	})
	func() {
		defer func() { recover() }()
		jets.Exec(boom, value.Bit(true), nil)
	}()
	if n := jets.Live(); n != 0 {
		t.Errorf("%d frames live after panic", n)
	}
}

func TestRegistry(t *testing.T) {
	r := jettest.Catalog()
	j, ok := r.Lookup("add32")
	if !ok || j != jettest.Add32 {
		t.Fatalf("Lookup(add32) = %v, %v", j, ok)
	}
	if _, ok := r.Lookup("mul32"); ok {
		t.Error("Lookup(mul32) succeeded")
	}
	if err := r.Register(jettest.Not); errors.Root(err) != jets.ErrDuplicate {
		t.Errorf("Register duplicate err = %v", err)
	}
	names := r.Names()
	if len(names) != 7 || names[0] != "add32" {
		t.Errorf("Names = %v", names)
	}
}

func TestCMRDistinct(t *testing.T) {
	seen := make(map[[32]byte]string)
	for _, j := range []*jets.Jet{jettest.Not, jettest.Add32, jettest.Eq256, jettest.SHA3, jettest.Version, jettest.Fail, jettest.Lazy} {
		if other, ok := seen[j.CMR]; ok {
			t.Errorf("%s and %s share a commitment root", j.Name, other)
		}
		seen[j.CMR] = j.Name
	}
}
