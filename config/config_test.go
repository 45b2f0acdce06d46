package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"simplicity/errors"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "simplicity.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Engine != EngineBitMachine {
		t.Errorf("Engine = %q want %q", c.Engine, EngineBitMachine)
	}
	if c.MaxSteps != DefaultMaxSteps {
		t.Errorf("MaxSteps = %d want %d", c.MaxSteps, DefaultMaxSteps)
	}
	if c.Workers < 1 {
		t.Errorf("Workers = %d want >= 1", c.Workers)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
engine = "both"
tail = true
max-steps = 5000
timeout = "250ms"
workers = 3
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Engine:   EngineBoth,
		Tail:     true,
		MaxSteps: 5000,
		Timeout:  Duration{250 * time.Millisecond},
		Workers:  3,
		Path:     path,
	}
	if *c != want {
		t.Errorf("Load = %+v want %+v", *c, want)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, `
engine = "both"
workers = 3
`)
	t.Setenv("SIMPLICITY_ENGINE", "interp")
	t.Setenv("SIMPLICITY_TIMEOUT", "2s")
	t.Setenv("SIMPLICITY_MAX_STEPS", "0")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Engine != EngineInterp {
		t.Errorf("Engine = %q want interp", c.Engine)
	}
	if c.Workers != 3 {
		t.Errorf("Workers = %d want 3 from file", c.Workers)
	}
	if c.Timeout.Duration != 2*time.Second {
		t.Errorf("Timeout = %s want 2s", c.Timeout)
	}
	if c.MaxSteps != 0 {
		t.Errorf("MaxSteps = %d want 0", c.MaxSteps)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		env     [2]string
		wantErr error
	}{
		{"unknown engine", `engine = "abacus"`, [2]string{}, ErrInvalid},
		{"zero workers", `workers = 0`, [2]string{}, ErrInvalid},
		{"unknown key", `engines = "interp"`, [2]string{}, ErrInvalid},
		{"bad env", ``, [2]string{"SIMPLICITY_WORKERS", "many"}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.env[0] != "" {
				t.Setenv(c.env[0], c.env[1])
			}
			_, err := Load(writeFile(t, c.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if c.wantErr != nil && errors.Root(err) != c.wantErr {
				t.Errorf("err = %v want root %v", err, c.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !os.IsNotExist(errors.Root(err)) {
		t.Errorf("err = %v want not-exist", err)
	}
}
