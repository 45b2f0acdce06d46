package bitmachine

import "simplicity/errors"

var (
	ErrFrameEOF            = errors.New("frame cursor out of bounds")
	ErrMoveUnfinishedFrame = errors.New("move of unfinished frame")
	ErrStackUnderflow      = errors.New("frame stack underflow")
	ErrSyntax              = errors.New("instruction syntax error")
)
