// Package env provides a convenient way to convert environment
// variables into Go data. It is similar in design to package
// flag: variables are registered on a Set and assigned when the
// Set is parsed.
package env

import (
	"context"
	"os"
	"strconv"
	"time"

	"simplicity/errors"
	"simplicity/log"
)

// A Set is a collection of registered environment variables.
// The zero value is ready to use.
type Set struct {
	funcs []func() error
}

// NewSet returns an empty Set.
func NewSet() *Set { return new(Set) }

// CommandLine is the default set used by the package-level functions.
var CommandLine = NewSet()

func (s *Set) add(name string, parse func(string) error) {
	s.funcs = append(s.funcs, func() error {
		v := os.Getenv(name)
		if v == "" {
			return nil
		}
		err := parse(v)
		return errors.WithDetailf(err, "env var %s=%q", name, v)
	})
}

// IntVar defines an int var with the specified
// name and default value. The argument p points
// to an int variable in which to store the
// value of the environment var.
func (s *Set) IntVar(p *int, name string, value int) {
	*p = value
	s.add(name, func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*p = n
		return nil
	})
}

// Uint64Var defines a uint64 var with the specified
// name and default value.
func (s *Set) Uint64Var(p *uint64, name string, value uint64) {
	*p = value
	s.add(name, func(v string) error {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return err
		}
		*p = n
		return nil
	})
}

// BoolVar defines a bool var with the specified
// name and default value. Parsing uses strconv.ParseBool.
func (s *Set) BoolVar(p *bool, name string, value bool) {
	*p = value
	s.add(name, func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*p = b
		return nil
	})
}

// DurationVar defines a time.Duration var with the specified
// name and default value. Parsing uses time.ParseDuration.
func (s *Set) DurationVar(p *time.Duration, name string, value time.Duration) {
	*p = value
	s.add(name, func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*p = d
		return nil
	})
}

// StringVar defines a string with the
// specified name and default value.
func (s *Set) StringVar(p *string, name string, value string) {
	*p = value
	s.add(name, func(v string) error {
		*p = v
		return nil
	})
}

// Parse assigns every registered variable that is present
// in the environment. It keeps going after a bad value
// and returns the first error it saw.
func (s *Set) Parse() error {
	var first error
	for _, f := range s.funcs {
		if err := f(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Int returns a new int pointer registered on CommandLine.
// When Parse is called,
// env var name will be parsed
// and the resulting value
// will be assigned to the returned location.
func Int(name string, value int) *int {
	p := new(int)
	CommandLine.IntVar(p, name, value)
	return p
}

// String returns a new string pointer registered on CommandLine.
func String(name string, value string) *string {
	p := new(string)
	CommandLine.StringVar(p, name, value)
	return p
}

// Parse parses the variables registered on CommandLine.
// If any values cannot be parsed,
// Parse logs the error and exits the process with status 1.
func Parse() {
	if err := CommandLine.Parse(); err != nil {
		log.Fatal(context.Background(), log.KeyError, err)
	}
}
