package compiler

import (
	"github.com/monkeylang/monkey/code"
	"github.com/monkeylang/monkey/objects"
)

// currentInstructions returns the instruction buffer of the scope being
// compiled.
func (c *Compiler) currentInstructions() code.Instructions {
	return c.scopes[c.scopeIndex].instructions
}

// addConstant appends an object to the constants pool and returns its
// index. The pool is append-only, so indices handed out stay stable.
func (c *Compiler) addConstant(obj objects.MonkeyObject) int {
	c.constants = append(c.constants, obj)
	return len(c.constants) - 1
}

// emit encodes an instruction into the current scope and returns its
// starting position.
func (c *Compiler) emit(op code.Opcode, operands ...int) int {
	ins := code.Make(op, operands...)
	pos := len(c.currentInstructions())
	c.scopes[c.scopeIndex].instructions = append(c.currentInstructions(), ins...)

	c.setLastInstruction(op, pos)
	return pos
}

// setLastInstruction shifts the last/previous instruction trackers.
func (c *Compiler) setLastInstruction(op code.Opcode, pos int) {
	previous := c.scopes[c.scopeIndex].lastInstruction
	last := EmittedInstruction{Opcode: op, Position: pos}

	c.scopes[c.scopeIndex].previousInstruction = previous
	c.scopes[c.scopeIndex].lastInstruction = last
}

// lastInstructionIs reports whether the most recently emitted instruction
// in the current scope has the given opcode.
func (c *Compiler) lastInstructionIs(op code.Opcode) bool {
	if len(c.currentInstructions()) == 0 {
		return false
	}
	return c.scopes[c.scopeIndex].lastInstruction.Opcode == op
}

// removeLastInstruction drops the most recently emitted instruction,
// restoring the previous one as last. Used to strip the trailing Pop of a
// branch or program tail.
func (c *Compiler) removeLastInstruction() {
	last := c.scopes[c.scopeIndex].lastInstruction
	previous := c.scopes[c.scopeIndex].previousInstruction

	c.scopes[c.scopeIndex].instructions = c.currentInstructions()[:last.Position]
	c.scopes[c.scopeIndex].lastInstruction = previous
}

// replaceInstruction overwrites bytes in place. Only instructions of the
// same length replace each other.
func (c *Compiler) replaceInstruction(pos int, newInstruction []byte) {
	ins := c.currentInstructions()
	for i := 0; i < len(newInstruction); i++ {
		ins[pos+i] = newInstruction[i]
	}
}

// replaceLastPopWithReturn rewrites a function body's trailing Pop into
// ReturnValue, turning the body's last expression into its return value.
func (c *Compiler) replaceLastPopWithReturn() {
	lastPos := c.scopes[c.scopeIndex].lastInstruction.Position
	newInstruction := code.Make(code.OpReturnValue)

	c.replaceInstruction(lastPos, newInstruction)
	c.scopes[c.scopeIndex].lastInstruction.Opcode = code.OpReturnValue
}

// changeOperand back-patches the operand of a previously emitted jump.
func (c *Compiler) changeOperand(opPos int, operand int) {
	op := code.Opcode(c.currentInstructions()[opPos])
	newInstruction := code.Make(op, operand)

	c.replaceInstruction(opPos, newInstruction)
}

// enterScope pushes a fresh compilation scope and symbol table for a
// function body.
func (c *Compiler) enterScope() {
	scope := CompilationScope{
		instructions:        code.Instructions{},
		lastInstruction:     EmittedInstruction{},
		previousInstruction: EmittedInstruction{},
	}
	c.scopes = append(c.scopes, scope)
	c.scopeIndex++

	c.symbolTable = NewEnclosedSymbolTable(c.symbolTable)
}

// leaveScope pops the current compilation scope, returning its
// instructions, and restores the enclosing symbol table.
func (c *Compiler) leaveScope() code.Instructions {
	instructions := c.currentInstructions()

	c.scopes = c.scopes[:len(c.scopes)-1]
	c.scopeIndex--

	c.symbolTable = c.symbolTable.Outer

	return instructions
}

// pushLoop opens a loop frame in the current scope and returns it.
func (c *Compiler) pushLoop(start int) *loopFrame {
	loop := &loopFrame{start: start}
	c.scopes[c.scopeIndex].loops = append(c.scopes[c.scopeIndex].loops, loop)
	return loop
}

// popLoop closes the innermost loop frame of the current scope.
func (c *Compiler) popLoop() {
	loops := c.scopes[c.scopeIndex].loops
	c.scopes[c.scopeIndex].loops = loops[:len(loops)-1]
}

// currentLoop returns the innermost open loop of the current scope, or nil
// when no loop encloses the code being compiled.
func (c *Compiler) currentLoop() *loopFrame {
	loops := c.scopes[c.scopeIndex].loops
	if len(loops) == 0 {
		return nil
	}
	return loops[len(loops)-1]
}
