package vm

import (
	"github.com/monkeylang/monkey/code"
	"github.com/monkeylang/monkey/objects"
)

// Frame is the per-call record of the virtual machine: the closure being
// executed, the instruction pointer into its body, and the base pointer
// locating local slot 0 on the data stack. The VM maintains a bounded
// stack of frames; pushing past the bound is a frame overflow error.
type Frame struct {
	cl          *objects.Closure // The closure whose body is executing
	ip          int              // Instruction pointer into the closure's body
	basePointer int              // Data-stack index of local slot 0
}

// NewFrame creates a frame for a closure about to be called. The
// instruction pointer starts at -1 because the dispatch loop increments
// before fetching.
func NewFrame(cl *objects.Closure, basePointer int) *Frame {
	return &Frame{
		cl:          cl,
		ip:          -1,
		basePointer: basePointer,
	}
}

// Instructions returns the bytecode body the frame is executing.
func (f *Frame) Instructions() code.Instructions {
	return f.cl.Fn.Instructions
}
