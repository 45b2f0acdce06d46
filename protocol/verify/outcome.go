package verify

import (
	"context"

	"simplicity/errors"
	"simplicity/protocol/exec"
	"simplicity/protocol/interp"
	"simplicity/protocol/jets"
)

// Outcome classifies how a run ended.
type Outcome string

const (
	Success     Outcome = "success"
	FailNode    Outcome = "fail"        // a Fail node was reached
	Assertion   Outcome = "assertion"   // an assertion selected its pruned branch
	JetFailed   Outcome = "jet_failed"  // a jet reported failure
	Unsupported Outcome = "unsupported" // the engine cannot run the program
	StepLimit   Outcome = "step_limit"
	Canceled    Outcome = "canceled" // deadline or cancellation
	Defect      Outcome = "defect"   // a bug in the program or the engine
)

// Classify maps the error returned by a run onto an Outcome.
func Classify(err error) Outcome {
	switch errors.Root(err) {
	case nil:
		return Success
	case exec.ErrFailNode, interp.ErrFailNode:
		return FailNode
	case exec.ErrPrunedBranch, interp.ErrAssertionFailed:
		return Assertion
	case jets.ErrJetFailed:
		return JetFailed
	case exec.ErrJetsNotSupported:
		return Unsupported
	case exec.ErrStepLimit, interp.ErrStepLimit:
		return StepLimit
	case context.Canceled, context.DeadlineExceeded:
		return Canceled
	}
	return Defect
}

// ProgramFailure reports whether o is a failure of the program
// itself or of a caller-imposed bound, as opposed to a defect.
func (o Outcome) ProgramFailure() bool {
	switch o {
	case FailNode, Assertion, JetFailed, Unsupported, StepLimit, Canceled:
		return true
	}
	return false
}

// bounded reports whether o means the run was stopped
// by a caller-imposed bound before it finished.
func (o Outcome) bounded() bool {
	return o == StepLimit || o == Canceled
}
