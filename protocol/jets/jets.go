// Package jets is the bridge to native builtins ("jets").
//
// A jet is an opaque function over bit frames. Exec marshals a
// Value into a pooled input frame sized to the jet's source type,
// hands the jet an output frame sized to its target type, and
// decodes the result. Both frames are released on every path.
package jets

import (
	"sort"

	"simplicity/crypto/sha3pool"
	"simplicity/encoding/bufpool"
	"simplicity/errors"
	"simplicity/protocol/bitmachine"
	"simplicity/protocol/types"
	"simplicity/protocol/value"
)

var (
	ErrJetFailed = errors.New("jet failed")
	ErrWidth     = errors.New("jet argument has wrong type")
	ErrDuplicate = errors.New("duplicate jet name")
)

// Env is the environment handle passed verbatim to every jet.
type Env interface{}

// Func is a native builtin. It reads its argument from src,
// whose cursor starts at 0, writes its result to dst, and
// reports whether it succeeded. It must not retain either frame.
type Func func(dst, src *bitmachine.Frame, env Env) bool

// Jet describes a native builtin.
type Jet struct {
	Name   string
	Source *types.Type
	Target *types.Type
	CMR    [32]byte
	Fn     Func
}

// New returns a jet whose commitment root is derived from
// its name and arrow.
func New(name string, source, target *types.Type, fn Func) *Jet {
	j := &Jet{Name: name, Source: source, Target: target, Fn: fn}
	sha3pool.Sum256(j.CMR[:],
		[]byte("simplicity/jet/"+name),
		[]byte{0},
		[]byte(source.String()+"->"+target.String()),
	)
	return j
}

func (j *Jet) String() string {
	return j.Name + ": " + j.Source.String() + " -> " + j.Target.String()
}

// Exec runs j on v.
func Exec(j *Jet, v *value.Value, env Env) (*value.Value, error) {
	if !v.Type().Equal(j.Source) {
		return nil, errors.WithDetailf(ErrWidth, "jet %s takes %s, got %s", j.Name, j.Source, v.Type())
	}

	inBuf := bufpool.Get(j.Source.Width())
	defer bufpool.Put(inBuf)
	in := bitmachine.FrameOver(inBuf, j.Source.Width())
	if err := value.Encode(in, v); err != nil {
		return nil, errors.Wrapf(err, "encoding argument of jet %s", j.Name)
	}
	in.Reset()

	outBuf := bufpool.Get(j.Target.Width())
	defer bufpool.Put(outBuf)
	out := bitmachine.FrameOver(outBuf, j.Target.Width())

	if !j.Fn(out, in, env) {
		return nil, errors.Wrapf(ErrJetFailed, "jet %s", j.Name)
	}
	if !out.IsFinished() {
		return nil, errors.Wrapf(ErrJetFailed, "jet %s", j.Name)
	}
	out.Reset()
	res, err := value.Decode(out, j.Target)
	return res, errors.Wrapf(err, "decoding result of jet %s", j.Name)
}

// Live reports the number of jet frames currently acquired.
func Live() int64 { return bufpool.Live() }

// Registry maps jet names to jets.
type Registry struct {
	byName map[string]*Jet
}

// NewRegistry returns a registry holding jets.
// It panics on duplicate names.
func NewRegistry(jets ...*Jet) *Registry {
	r := &Registry{byName: make(map[string]*Jet)}
	for _, j := range jets {
		if err := r.Register(j); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds j to r.
func (r *Registry) Register(j *Jet) error {
	if _, ok := r.byName[j.Name]; ok {
		return errors.WithDetailf(ErrDuplicate, "jet %s", j.Name)
	}
	r.byName[j.Name] = j
	return nil
}

// Lookup returns the jet with the given name.
func (r *Registry) Lookup(name string) (*Jet, bool) {
	if r == nil {
		return nil, false
	}
	j, ok := r.byName[name]
	return j, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
