package bitmachine

import (
	"testing"

	"simplicity/errors"
	"simplicity/testutil"
)

var sampleInstructions = []Instruction{
	NewFrame{42},
	NewFrame{0},
	MoveFrame{},
	DropFrame{},
	Write{true},
	Write{false},
	Skip{3},
	Copy{2},
	Fwd{1},
	Bwd{1},
	WriteString{[]bool{true, false, true}},
	WriteString{},
}

func TestParseRoundTrip(t *testing.T) {
	for _, inst := range sampleInstructions {
		s := inst.String()
		got, err := Parse(s)
		if err != nil {
			t.Errorf("Parse(%q): %v", s, err)
			continue
		}
		if !testutil.DeepEqual(got, inst) {
			t.Errorf("Parse(%q) = %#v want %#v", s, got, inst)
		}
		if got.String() != s {
			t.Errorf("Parse(%q).String() = %q", s, got.String())
		}
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		inst Instruction
		want string
	}{
		{NewFrame{42}, "newFrame(42)"},
		{Write{true}, "write(true)"},
		{WriteString{[]bool{true, false, true}}, "writeString(101)"},
		{MoveFrame{}, "moveFrame()"},
	}
	for _, c := range cases {
		if got := c.inst.String(); got != c.want {
			t.Errorf("String() = %q want %q", got, c.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"newFrame",
		"newFrame()",
		"newFrame(-1)",
		"newFrame(+1)",
		"newFrame(1",
		"moveFrame(1)",
		"write(1)",
		"writeString(102)",
		"jump(3)",
		"skip(99999999999999999999999)",
	} {
		if _, err := Parse(s); errors.Root(err) != ErrSyntax {
			t.Errorf("Parse(%q) err = %v want ErrSyntax", s, err)
		}
	}
}

func TestAssemble(t *testing.T) {
	src := `
# identity over two bits
newFrame(2); copy(2)
moveFrame()   dropFrame()
`
	got, err := Assemble(src)
	if err != nil {
		t.Fatal(err)
	}
	want := []Instruction{NewFrame{2}, Copy{2}, MoveFrame{}, DropFrame{}}
	if !testutil.DeepEqual(got, want) {
		t.Fatalf("Assemble = %v want %v", got, want)
	}

	back, err := Assemble(Disassemble(sampleInstructions))
	if err != nil {
		t.Fatal(err)
	}
	if !testutil.DeepEqual(back, sampleInstructions) {
		t.Errorf("Assemble(Disassemble(x)) = %v want %v", back, sampleInstructions)
	}

	if _, err := Assemble("copy(1)\nbogus()"); errors.Root(err) != ErrSyntax {
		t.Errorf("Assemble bad listing err = %v", err)
	}
}
