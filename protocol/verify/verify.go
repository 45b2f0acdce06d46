// Package verify drives program runs on behalf of callers:
// it applies configured bounds, logs and records each run,
// compares the two engines, and verifies batches of programs
// concurrently.
package verify

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"simplicity/config"
	"simplicity/errors"
	"simplicity/log"
	"simplicity/metrics"
	"simplicity/protocol/bitmachine"
	"simplicity/protocol/dag"
	"simplicity/protocol/exec"
	"simplicity/protocol/interp"
	"simplicity/protocol/jets"
	"simplicity/protocol/value"
)

var (
	// ErrUnexpected is returned when a run panics.
	ErrUnexpected = errors.New("unexpected error")

	// ErrMismatch is returned by CrossCheck when the engines disagree.
	ErrMismatch = errors.New("engines disagree")

	ErrUnknownEngine = errors.New("unknown engine")
)

// pollSteps is how many machine instructions run
// between checks of the context.
const pollSteps = 1024

func init() {
	// Trace lines point at the runner step that executed the instruction.
	log.SkipFunc("simplicity/protocol/verify.tracer.func1")
}

func tracer(ctx context.Context) func(bitmachine.Instruction, *bitmachine.Machine) {
	return func(inst bitmachine.Instruction, m *bitmachine.Machine) {
		log.Write(ctx, "inst", inst, "read", m.ReadStack().Len(), "write", m.WriteStack().Len())
	}
}

// Result describes one finished run.
type Result struct {
	Engine   string
	Output   *value.Value // nil unless Outcome is Success
	Outcome  Outcome
	Steps    uint64
	MaxDepth int
	Elapsed  time.Duration
}

type envKey struct{}

// WithEnv returns a copy of ctx carrying the environment
// handle passed to jets.
func WithEnv(ctx context.Context, env jets.Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

func envFrom(ctx context.Context) jets.Env {
	return ctx.Value(envKey{})
}

// Execute runs prog on input with the engine named by cfg.Engine.
// For config.EngineBoth it behaves like CrossCheck.
// The returned error is the run's failure, if any;
// Result is filled in either way.
func Execute(ctx context.Context, prog *dag.Node, input *value.Value, cfg *config.Config) (Result, error) {
	if log.RunID(ctx) == log.UnknownRunID {
		ctx = log.WithRunID(ctx)
	}
	if cfg.Engine == config.EngineBoth {
		return CrossCheck(ctx, prog, input, cfg)
	}
	if cfg.Timeout.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout.Duration)
		defer cancel()
	}

	ctx = log.With(ctx, "engine", cfg.Engine, "program", prog.CMR())
	log.Write(ctx, "event", "start", "tail", cfg.Tail, "max-steps", cfg.MaxSteps)
	start := time.Now()
	res, err := protect(func() (Result, error) {
		switch cfg.Engine {
		case config.EngineBitMachine:
			return runMachine(ctx, prog, input, cfg)
		case config.EngineInterp:
			return runInterp(ctx, prog, input, cfg)
		}
		return Result{}, errors.WithDetailf(ErrUnknownEngine, "engine %q", cfg.Engine)
	})
	res.Engine = cfg.Engine
	res.Elapsed = time.Since(start)
	res.Outcome = Classify(err)
	if err != nil {
		res.Output = nil
	}

	metrics.RecordRun(res.Engine, res.Steps, res.MaxDepth, string(res.Outcome))
	keyvals := []interface{}{
		"event", "finish",
		"outcome", res.Outcome,
		"steps", res.Steps,
		"depth", res.MaxDepth,
		"elapsed", res.Elapsed,
	}
	if res.Outcome == Defect {
		keyvals = append(keyvals, log.KeyError, err)
	} else if err != nil {
		keyvals = append(keyvals, "reason", errors.Root(err))
		if d := errors.Detail(err); d != "" {
			keyvals = append(keyvals, "detail", d)
		}
	}
	log.Write(ctx, keyvals...)
	return res, err
}

// protect runs f, turning a panic into ErrUnexpected.
func protect(f func() (Result, error)) (res Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.WithDetail(ErrUnexpected, fmt.Sprint(p))
		}
	}()
	return f()
}

func runMachine(ctx context.Context, prog *dag.Node, input *value.Value, cfg *config.Config) (Result, error) {
	if !input.Type().Equal(prog.Source()) {
		return Result{}, errors.WithDetailf(exec.ErrInputType, "input %s, source %s", input.Type(), prog.Source())
	}
	opts := []exec.Option{exec.Tail(cfg.Tail), exec.MaxSteps(cfg.MaxSteps)}
	if cfg.Trace {
		opts = append(opts, exec.TraceOp(tracer(ctx)))
	}
	m := bitmachine.NewWithInput(input.Bits(), prog.Target().Width())
	r := exec.NewRunner(prog, m, opts...)

	var err error
	for !r.Done() {
		if r.Steps()%pollSteps == 0 {
			if err = ctx.Err(); err != nil {
				err = errors.Wrapf(err, "after %d steps", r.Steps())
				break
			}
		}
		if _, err = r.Step(); err != nil {
			break
		}
	}
	res := Result{Steps: r.Steps(), MaxDepth: m.MaxDepth()}
	if err != nil {
		return res, err
	}
	res.Output, err = r.Output()
	return res, err
}

func runInterp(ctx context.Context, prog *dag.Node, input *value.Value, cfg *config.Config) (Result, error) {
	it := interp.New(
		interp.Env(envFrom(ctx)),
		interp.MaxSteps(cfg.MaxSteps),
		interp.Poll(ctx.Err),
	)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	out, err := it.Run(prog, input)
	return Result{Output: out, Steps: it.Steps(), MaxDepth: it.MaxDepth()}, err
}

// CrossCheck runs prog on input with both engines concurrently
// and compares their outcomes. The returned Result carries the
// interpreter's output and the machine's step count. If the
// engines disagree, the error's root is ErrMismatch. A program
// the machine cannot run because it uses jets is not a mismatch,
// and neither is an engine stopped by a step limit or the context:
// the bound is reported instead.
func CrossCheck(ctx context.Context, prog *dag.Node, input *value.Value, cfg *config.Config) (Result, error) {
	if log.RunID(ctx) == log.UnknownRunID {
		ctx = log.WithRunID(ctx)
	}
	var (
		mres, ires Result
		merr, ierr error
	)
	g, gctx := errgroup.WithContext(ctx)
	run := func(engine string, res *Result, rerr *error) func() error {
		return func() error {
			c := *cfg
			c.Engine = engine
			*res, *rerr = Execute(gctx, prog, input, &c)
			if res.Outcome == Defect {
				return *rerr
			}
			return nil
		}
	}
	g.Go(run(config.EngineBitMachine, &mres, &merr))
	g.Go(run(config.EngineInterp, &ires, &ierr))
	if err := g.Wait(); err != nil {
		return Result{Engine: config.EngineBoth, Outcome: Defect}, err
	}

	res := ires
	res.Engine = config.EngineBoth
	res.Steps = mres.Steps
	res.MaxDepth = max(mres.MaxDepth, ires.MaxDepth)
	res.Elapsed = max(mres.Elapsed, ires.Elapsed)
	switch {
	case mres.Outcome == Unsupported || ires.Outcome.bounded():
		return res, ierr
	case mres.Outcome.bounded():
		res.Outcome, res.Output = mres.Outcome, nil
		return res, merr
	}
	if mres.Outcome != ires.Outcome {
		res.Outcome = Defect
		return res, errors.WithDetailf(ErrMismatch, "bitmachine %s (%v), interp %s (%v)", mres.Outcome, merr, ires.Outcome, ierr)
	}
	if mres.Outcome == Success && !mres.Output.Equal(ires.Output) {
		res.Outcome = Defect
		return res, errors.WithDetailf(ErrMismatch, "bitmachine output %s, interp output %s", mres.Output, ires.Output)
	}
	return res, ierr
}

// Job is one program to verify in a batch.
type Job struct {
	Name  string
	Prog  *dag.Node
	Input *value.Value
	Env   jets.Env
}

// JobResult is the result of one batch job.
type JobResult struct {
	Job    *Job
	Result Result
	Err    error
}

// Batch verifies jobs concurrently, running at most cfg.Workers
// at a time, and returns one result per job in job order.
// Program failures are reported per job; the returned error is
// non-nil only if ctx ended before every job started.
func Batch(ctx context.Context, jobs []*Job, cfg *config.Config) ([]JobResult, error) {
	results := make([]JobResult, len(jobs))
	var g errgroup.Group
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			g.Wait()
			return results, errors.Wrapf(err, "batch stopped at job %d of %d", i, len(jobs))
		}
		g.Go(func() error {
			jctx := log.WithRunID(ctx)
			if job.Env != nil {
				jctx = WithEnv(jctx, job.Env)
			}
			res, err := Execute(jctx, job.Prog, job.Input, cfg)
			results[i] = JobResult{Job: job, Result: res, Err: err}
			return nil
		})
	}
	g.Wait()

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	log.Messagef(ctx, "batch of %d jobs finished, %d failed", len(jobs), failed)
	return results, nil
}
