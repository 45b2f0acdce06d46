package exec

import "simplicity/errors"

var (
	// ErrPrunedBranch is returned when an assertion selects the
	// branch that was pruned from the program. Its "cmr" data
	// item holds the pruned branch's commitment root.
	ErrPrunedBranch = errors.New("pruned branch selected")

	// ErrFailNode is returned when a Fail node is reached.
	// Its "token" data item holds the node's token.
	ErrFailNode = errors.New("fail node reached")

	ErrJetsNotSupported = errors.New("jets are not supported by the bit machine")
	ErrStepLimit        = errors.New("step limit exceeded")
	ErrInputType        = errors.New("input does not match program source type")
	ErrNotDone          = errors.New("program has not finished")
)
