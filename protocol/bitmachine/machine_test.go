package bitmachine

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"simplicity/errors"
)

func TestNew(t *testing.T) {
	m := New()
	if m.ReadStack().Len() != 1 || m.WriteStack().Len() != 1 {
		t.Fatalf("stacks = %d, %d want 1, 1", m.ReadStack().Len(), m.WriteStack().Len())
	}
	if m.ReadStack().Element(0).Len() != 0 {
		t.Error("initial read frame is not empty")
	}
}

func TestIdentityCopy(t *testing.T) {
	m := NewWithInput([]bool{false, false}, 2)
	if err := m.Exec(Copy{2}); err != nil {
		t.Fatal(err)
	}
	out := m.WriteStack().Element(0)
	if !out.IsFinished() {
		t.Fatalf("output %s not finished", out)
	}
	if got := out.Bits(); got[0] || got[1] {
		t.Errorf("output = %v want [false false]", got)
	}
}

func TestExec(t *testing.T) {
	cases := []struct {
		name    string
		prog    []Instruction
		wantErr error
		want    string
	}{{
		name: "write and move",
		prog: []Instruction{NewFrame{3}, Write{true}, Skip{1}, Write{true}, MoveFrame{}},
		want: "read: [^] [^101]\nwrite: [^]",
	}, {
		name: "copy from read top",
		prog: []Instruction{
			NewFrame{2}, WriteString{[]bool{true, false}}, MoveFrame{},
			NewFrame{4}, Copy{2}, Fwd{1}, Copy{1}, Bwd{1}, Copy{1}, MoveFrame{},
		},
		want: "read: [^] [^10] [^1001]\nwrite: [^]",
	}, {
		name:    "move unfinished",
		prog:    []Instruction{NewFrame{1}, MoveFrame{}},
		wantErr: ErrMoveUnfinishedFrame,
	}, {
		name:    "write past end",
		prog:    []Instruction{Write{true}},
		wantErr: ErrFrameEOF,
	}, {
		name:    "drop too many",
		prog:    []Instruction{DropFrame{}, DropFrame{}},
		wantErr: ErrStackUnderflow,
	}, {
		name:    "bwd before start",
		prog:    []Instruction{Bwd{1}},
		wantErr: ErrFrameEOF,
	}}
	for _, c := range cases {
		m := New()
		var err error
		for _, inst := range c.prog {
			if err = m.Exec(inst); err != nil {
				break
			}
		}
		if errors.Root(err) != c.wantErr {
			t.Errorf("%s: err = %v want %v\n%s", c.name, err, c.wantErr, spew.Sdump(m))
			continue
		}
		if c.wantErr == nil && m.String() != c.want {
			t.Errorf("%s: got\n%s\nwant\n%s", c.name, m, c.want)
		}
	}
}

func TestPeek(t *testing.T) {
	m := NewWithInput([]bool{false, true}, 0)
	b, err := m.Peek()
	if err != nil || b {
		t.Fatalf("Peek = %v, %v want false, nil", b, err)
	}
	m.Fwd(1)
	if b, _ := m.Peek(); !b {
		t.Error("Peek after fwd = false want true")
	}
	m.Fwd(1)
	if _, err := m.Peek(); errors.Root(err) != ErrFrameEOF {
		t.Errorf("Peek at end err = %v", err)
	}
}

func TestStackViewIsCopy(t *testing.T) {
	m := New()
	m.NewFrame(1)
	f := m.WriteStack().Element(0)
	f.Write(true)
	if m.WriteStack().Element(0).Cursor() != 0 {
		t.Error("Element returned the live frame")
	}
}

func TestMaxDepth(t *testing.T) {
	m := New()
	m.NewFrame(0)
	m.NewFrame(0)
	m.MoveFrame()
	m.DropFrame()
	if m.MaxDepth() != 4 {
		t.Errorf("MaxDepth = %d want 4", m.MaxDepth())
	}
}
