package errors

import (
	"errors"
	"reflect"
	"testing"
)

func TestWrap(t *testing.T) {
	err := errors.New("0")
	err1 := Wrap(err, "1")
	err2 := Wrap(err1, "2")
	err3 := Wrap(err2)

	if got := Root(err1); got != err {
		t.Fatalf("Root(%v)=%v want %v", err1, got, err)
	}

	if got := Root(err2); got != err {
		t.Fatalf("Root(%v)=%v want %v", err2, got, err)
	}

	if err2.Error() != "2: 1: 0" {
		t.Fatalf("err msg = %s want '2: 1: 0'", err2.Error())
	}

	if err3.Error() != "2: 1: 0" {
		t.Fatalf("err msg = %s want '2: 1: 0'", err3.Error())
	}
}

func TestWrapNil(t *testing.T) {
	var err error

	if Wrap(err, "1") != nil {
		t.Fatal("wrapping nil error should yield nil")
	}
	if WithData(err, "k", 1) != nil {
		t.Fatal("WithData on nil error should yield nil")
	}
}

func TestWrapf(t *testing.T) {
	err := errors.New("0")
	err1 := Wrapf(err, "frame %d of %d", 1, 2)
	if err1.Error() != "frame 1 of 2: 0" {
		t.Fatalf("err msg = %s want 'frame 1 of 2: 0'", err1.Error())
	}
}

func TestDetail(t *testing.T) {
	root := New("frame eof")
	err := WithDetailf(root, "write at %d", 8)
	err = WithDetail(err, "newFrame(8)")
	if got, want := Detail(err), "write at 8; newFrame(8)"; got != want {
		t.Errorf("Detail = %q want %q", got, want)
	}
	if Root(err) != root {
		t.Errorf("Root = %v want %v", Root(err), root)
	}
	if !Is(err, root) {
		t.Error("Is(err, root) = false want true")
	}
}

func TestData(t *testing.T) {
	root := New("pruned branch")
	err := WithData(root, "cmr", "abcd")
	err = WithData(Wrap(err, "case"), "step", 3)
	want := map[string]interface{}{"cmr": "abcd", "step": 3}
	if got := Data(err); !reflect.DeepEqual(got, want) {
		t.Errorf("Data = %v want %v", got, want)
	}
	if len(Stack(err)) == 0 {
		t.Error("expected a stack trace")
	}
}

func TestSub(t *testing.T) {
	x := errors.New("x")
	y := errors.New("y")

	cases := []struct{ root, err, want error }{
		{nil, nil, nil},
		{x, nil, nil},
		{nil, y, nil},
		{x, y, x},
		{x, Wrap(y, "w"), x},
	}

	for _, test := range cases {
		got := Sub(test.root, test.err)
		if Root(got) != test.want {
			t.Errorf("Root(Sub(%v, %v)) = %v, want %v", test.root, test.err, Root(got), test.want)
		}
		if test.want != nil && len(Stack(got)) == 0 {
			t.Errorf("Sub(%v, %v) has no stack", test.root, test.err)
		}
	}
}
