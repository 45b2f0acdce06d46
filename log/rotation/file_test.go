package rotation

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRotate(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "simrun.log")
	f := Create(base, 10, 2)

	for _, line := range []string{"runid=a\n", "runid=b\n", "runid=c\n"} {
		if _, err := f.Write([]byte(line)); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		want string
	}{
		{base, "runid=c\n"},
		{base + ".1", "runid=b\n"},
		{base + ".2", "runid=a\n"},
	}
	for _, c := range cases {
		got, err := os.ReadFile(c.name)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != c.want {
			t.Errorf("%s = %q want %q", filepath.Base(c.name), got, c.want)
		}
	}
}

func TestPartialLine(t *testing.T) {
	base := filepath.Join(t.TempDir(), "simrun.log")
	f := Create(base, 1<<10, 1)
	f.Write([]byte("runid="))
	if _, err := os.Stat(base); !os.IsNotExist(err) {
		t.Fatalf("partial line was written early (stat err %v)", err)
	}
	f.Write([]byte("x\n"))
	f.Close()
	got, err := os.ReadFile(base)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "runid=x\n" {
		t.Errorf("got %q want %q", got, "runid=x\n")
	}
}
