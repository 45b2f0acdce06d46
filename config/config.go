// Package config loads run configuration for the verification
// driver and command-line tools.
//
// Values come from three layers, later layers winning:
// built-in defaults, a TOML file, and SIMPLICITY_* environment
// variables. Command-line flags are applied by the caller on top.
package config

import (
	"os"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"

	"simplicity/env"
	"simplicity/errors"
)

// Engine names.
const (
	EngineBitMachine = "bitmachine"
	EngineInterp     = "interp"
	EngineBoth       = "both"
)

// ErrInvalid is returned for configurations that fail Validate.
var ErrInvalid = errors.New("invalid configuration")

// DefaultMaxSteps bounds a single run when no limit is configured.
const DefaultMaxSteps = 1 << 24

// Duration is a time.Duration written in TOML as a string
// such as "250ms" or "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config controls how programs are executed.
type Config struct {
	// Engine selects the evaluator: bitmachine, interp, or both
	// (run both and compare).
	Engine string `toml:"engine"`

	// Tail selects tail-optimized expansion on the bit machine.
	Tail bool `toml:"tail"`

	// MaxSteps bounds the number of steps in one run.
	// Zero means unbounded.
	MaxSteps uint64 `toml:"max-steps"`

	// Timeout bounds the wall-clock time of one run.
	// Zero means no deadline beyond the caller's context.
	Timeout Duration `toml:"timeout"`

	// Trace logs every executed instruction.
	Trace bool `toml:"trace"`

	// Workers bounds concurrent runs in batch verification.
	Workers int `toml:"workers"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine:   EngineBitMachine,
		MaxSteps: DefaultMaxSteps,
		Workers:  runtime.NumCPU(),
	}
}

// Load builds a configuration from defaults, the TOML file at path
// (skipped if path is empty), and the environment.
// Unknown keys in the file are an error.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, errors.WithDetailf(ErrInvalid, "%s: unknown key %s", path, undec[0])
		}
		c.Path = path
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	set := env.NewSet()
	set.StringVar(&c.Engine, "SIMPLICITY_ENGINE", c.Engine)
	set.BoolVar(&c.Tail, "SIMPLICITY_TAIL", c.Tail)
	set.Uint64Var(&c.MaxSteps, "SIMPLICITY_MAX_STEPS", c.MaxSteps)
	set.DurationVar(&c.Timeout.Duration, "SIMPLICITY_TIMEOUT", c.Timeout.Duration)
	set.IntVar(&c.Workers, "SIMPLICITY_WORKERS", c.Workers)
	return errors.Wrap(set.Parse(), "environment")
}

// Validate reports ErrInvalid with detail if c is unusable.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineBitMachine, EngineInterp, EngineBoth:
	default:
		return errors.WithDetailf(ErrInvalid, "unknown engine %q", c.Engine)
	}
	if c.Workers < 1 {
		return errors.WithDetailf(ErrInvalid, "workers must be at least 1, got %d", c.Workers)
	}
	if c.Timeout.Duration < 0 {
		return errors.WithDetailf(ErrInvalid, "negative timeout %s", c.Timeout.Duration)
	}
	return nil
}
