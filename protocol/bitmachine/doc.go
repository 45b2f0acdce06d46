/*
Package bitmachine implements the Bit Machine: two stacks of
fixed-size bit frames and the nine instructions that act on them.

Positional writes (Write, WriteString, Skip and the destination
of Copy) act on the top of the write stack. Positional reads
(Peek, Fwd, Bwd and the source of Copy) act on the top of the
read stack. A frame moves from the write stack to the read stack
only once it is finished, that is, once its cursor has reached
its capacity.

Every instruction has a canonical text form, name(args):

	newFrame(42)
	moveFrame()
	dropFrame()
	write(true)
	skip(3)
	copy(2)
	fwd(1)
	bwd(1)
	writeString(101)

Parse reads one instruction back from its String form;
Assemble and Disassemble handle whole listings.
*/
package bitmachine
