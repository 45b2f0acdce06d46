package log

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func setTestLogWriter(w io.Writer) func() {
	mu.Lock()
	old := output
	output = w
	mu.Unlock()

	return func() {
		mu.Lock()
		output = old
		mu.Unlock()
	}
}

func TestWrite(t *testing.T) {
	examples := []struct {
		keyvals []interface{}
		want    []string
	}{
		// Basic example
		{
			keyvals: []interface{}{"engine", "bit machine"},
			want: []string{
				"runid=unknown_run_id",
				"at=log_test.go:",
				"t=",
				`engine="bit machine"`,
			},
		},

		// Duplicate keys
		{
			keyvals: []interface{}{"step", 1, "step", 2},
			want: []string{
				"runid=unknown_run_id",
				"step=1",
				"step=2",
			},
		},

		// Zero log params
		{
			keyvals: nil,
			want: []string{
				"runid=unknown_run_id",
				"at=log_test.go:",
				"t=",
			},
		},

		// Odd number of log params
		{
			keyvals: []interface{}{"k1", "v1", "k2"},
			want: []string{
				"k1=v1",
				"k2=",
				`log-error="odd number of log params"`,
			},
		},
	}

	for i, ex := range examples {
		t.Log("Example", i)

		buf := new(bytes.Buffer)
		reset := setTestLogWriter(buf)

		Write(context.Background(), ex.keyvals...)

		got := buf.String()
		for _, w := range ex.want {
			if !strings.Contains(got, w) {
				t.Errorf("Result did not contain string:\ngot:  %s\nwant: %s", got, w)
			}
		}

		reset()
	}
}

func TestWriteRunID(t *testing.T) {
	buf := new(bytes.Buffer)
	reset := setTestLogWriter(buf)
	defer reset()

	ctx := WithRunID(context.Background())
	id := RunID(ctx)
	if id == UnknownRunID || len(id) != 36 {
		t.Fatalf("RunID = %q, want a uuid", id)
	}
	if other := RunID(WithRunID(context.Background())); other == id {
		t.Errorf("two runs share id %s", id)
	}

	Write(ctx)

	if got, want := buf.String(), "runid="+id; !strings.Contains(got, want) {
		t.Errorf("Result did not contain string:\ngot:  %s\nwant: %s", got, want)
	}
}

func TestWith(t *testing.T) {
	buf := new(bytes.Buffer)
	reset := setTestLogWriter(buf)
	defer reset()

	ctx := With(WithRunID(context.Background()), "engine", "bitmachine")
	ctx = With(ctx, "program", "ab cd", "odd")
	Write(ctx, "step", 3)
	Write(context.Background(), "step", 4)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines want 2:\n%s", len(lines), buf)
	}
	want := ` engine=bitmachine program="ab cd" odd= step=3`
	if !strings.HasSuffix(lines[0], want) {
		t.Errorf("got  %s\nwant suffix %s", lines[0], want)
	}
	if strings.Contains(lines[1], "engine=") {
		t.Errorf("fields leaked into unrelated entry: %s", lines[1])
	}
}

func TestWriteStack(t *testing.T) {
	buf := new(bytes.Buffer)
	reset := setTestLogWriter(buf)
	defer reset()

	Write(context.Background(), KeyMessage, "panic", KeyStack, []byte("goroutine 1"))

	got := buf.String()
	if !strings.HasSuffix(got, "message=panic\ngoroutine 1\n") {
		t.Errorf("got %q", got)
	}
}

func TestMessagef(t *testing.T) {
	buf := new(bytes.Buffer)
	reset := setTestLogWriter(buf)
	defer reset()

	Messagef(context.Background(), "run %d finished", 0)

	got := buf.String()
	want := []string{
		"at=log_test.go:",
		`message="run 0 finished"`,
	}

	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("Result did not contain string:\ngot:  %s\nwant: %s", got, w)
		}
	}
}

func TestError(t *testing.T) {
	buf := new(bytes.Buffer)
	reset := setTestLogWriter(buf)
	defer reset()

	Error(context.Background(), errors.New("boo"), "failure x ", 0)

	got := buf.String()
	want := []string{
		"at=log_test.go:",
		`error="failure x 0: boo"`,
	}

	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("Result did not contain string:\ngot:  %s\nwant: %s", got, w)
		}
	}
}

func TestFormatKey(t *testing.T) {
	examples := []struct {
		key  interface{}
		want string
	}{
		{"hello", "hello"},
		{"hello world", "hello-world"},
		{"", "?"},
		{true, "true"},
		{"a b\"c\nd;e\tf龜g", "a-b-c-d-e-f龜g"},
	}

	for _, ex := range examples {
		got := formatKey(ex.key)
		if got != ex.want {
			t.Errorf("formatKey(%#v) = %q want %q", ex.key, got, ex.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	examples := []struct {
		value interface{}
		want  string
	}{
		{"hello", "hello"},
		{"hello world", `"hello world"`},
		{1.5, "1.5"},
		{true, "true"},
		{errors.New("frame eof"), `"frame eof"`},
		{[]byte{'a', 'b', 'c'}, `"[97 98 99]"`},
		{"a b\"c\nd;e\tf龜g", `"a b\"c\nd;e\tf龜g"`},
	}

	for _, ex := range examples {
		got := formatValue(ex.value)
		if got != ex.want {
			t.Errorf("formatValue(%#v) = %q want %q", ex.value, got, ex.want)
		}
	}
}
