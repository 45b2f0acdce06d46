/*
Package exec runs programs on the Bit Machine.

A Runner expands a program into Bit Machine instructions while
it executes them: Case and the assertions peek at the read frame
to decide which branch to expand, so the instruction stream
cannot be computed ahead of time. Pending work is kept on an
explicit stack of entries, each either an instruction ready to
run or a node to expand, so deeply nested programs do not grow
the Go stack.

Each node expands in one of two modes. A node expanded in tail
mode behaves exactly like the same node in plain mode followed
by dropFrame: the frame it reads from is released as soon as it
is no longer needed instead of at the end of the enclosing
composition. Both modes leave identical final stacks and report
identical failures.
*/
package exec
