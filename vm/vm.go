// Package vm implements the bytecode virtual machine for Monkey.
//
// The VM is a stack-based interpreter and the final stage of the compiled
// execution pipeline:
//
//	Source -> Lexer -> Parser -> AST -> Compiler -> Bytecode -> VM
//
// Architecture:
//
//  1. Data stack: holds intermediate values during computation (bounded)
//  2. Frame stack: one frame per active call (bounded)
//  3. Globals array: storage for global bindings (bounded)
//  4. Constants pool: read-only literals from the bytecode
//  5. Builtins registry: read-only, addressed by index
//
// The main loop fetches the current frame's next opcode, dispatches on it,
// and advances. Most operations pop their operands and push one result,
// which keeps the dispatch loop tight and uniform; operator dispatch
// inspects the operands' type tags directly rather than going through
// per-type methods.
//
// Every operation either completes, leaving a new stack state, or
// produces a runtime error that halts execution and is returned to the
// caller. Overflowing the data stack or the frame stack is an error, not
// a crash. A finished program leaves exactly one value above the initial
// stack mark; Result reads it.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/monkeylang/monkey/code"
	"github.com/monkeylang/monkey/compiler"
	"github.com/monkeylang/monkey/objects"
	"github.com/monkeylang/monkey/std"
)

const (
	// StackSize bounds the data stack.
	StackSize = 2048
	// GlobalsSize bounds the globals array.
	GlobalsSize = 65536
	// MaxFrames bounds the frame stack, and with it recursion depth.
	MaxFrames = 1024
)

// VM executes compiled bytecode.
type VM struct {
	constants []objects.MonkeyObject // Read-only constants pool

	stack []objects.MonkeyObject // Data stack
	sp    int                    // Next free stack slot; top of stack is stack[sp-1]

	globals []objects.MonkeyObject // Global bindings, indexed by SetGlobal/GetGlobal

	frames      []*Frame // Frame stack
	framesIndex int      // Next free frame slot

	writer io.Writer // Output writer handed to builtins (default: os.Stdout)
}

// New creates a VM for a compiled program. The whole program runs as an
// implicit zero-argument closure in the bottom frame.
func New(bytecode *compiler.Bytecode) *VM {
	mainFn := &objects.CompiledFunction{Instructions: bytecode.Instructions}
	mainClosure := &objects.Closure{Fn: mainFn}
	mainFrame := NewFrame(mainClosure, 0)

	frames := make([]*Frame, MaxFrames)
	frames[0] = mainFrame

	return &VM{
		constants:   bytecode.Constants,
		stack:       make([]objects.MonkeyObject, StackSize),
		sp:          0,
		globals:     make([]objects.MonkeyObject, GlobalsSize),
		frames:      frames,
		framesIndex: 1,
		writer:      os.Stdout,
	}
}

// NewWithGlobalsStore creates a VM that shares an existing globals array.
// The REPL uses this to keep global bindings alive across input lines.
func NewWithGlobalsStore(bytecode *compiler.Bytecode, globals []objects.MonkeyObject) *VM {
	vm := New(bytecode)
	vm.globals = globals
	return vm
}

// NewGlobalsStore allocates a globals array of the VM's fixed size.
func NewGlobalsStore() []objects.MonkeyObject {
	return make([]objects.MonkeyObject, GlobalsSize)
}

// SetWriter redirects the output of puts. Tests capture it; the REPL
// writes through its own writer.
func (vm *VM) SetWriter(w io.Writer) {
	vm.writer = w
}

// Result returns the value a finished program left on the stack.
func (vm *VM) Result() objects.MonkeyObject {
	if vm.sp == 0 {
		return objects.NULL
	}
	return vm.stack[vm.sp-1]
}

// currentFrame returns the frame whose body is executing.
func (vm *VM) currentFrame() *Frame {
	return vm.frames[vm.framesIndex-1]
}

// pushFrame installs a new call frame.
func (vm *VM) pushFrame(f *Frame) error {
	if vm.framesIndex >= MaxFrames {
		return fmt.Errorf("ERROR: frame overflow")
	}
	vm.frames[vm.framesIndex] = f
	vm.framesIndex++
	return nil
}

// popFrame removes and returns the top call frame.
func (vm *VM) popFrame() *Frame {
	vm.framesIndex--
	return vm.frames[vm.framesIndex]
}

// push places an object on the data stack.
func (vm *VM) push(obj objects.MonkeyObject) error {
	if vm.sp >= StackSize {
		return fmt.Errorf("ERROR: stack overflow")
	}
	vm.stack[vm.sp] = obj
	vm.sp++
	return nil
}

// pop removes and returns the top of the data stack.
func (vm *VM) pop() objects.MonkeyObject {
	obj := vm.stack[vm.sp-1]
	vm.sp--
	return obj
}

// isTruthy implements the language's truthiness rule: false and null are
// falsy, everything else is truthy.
func isTruthy(obj objects.MonkeyObject) bool {
	switch obj := obj.(type) {
	case *objects.Boolean:
		return obj.Value
	case *objects.Null:
		return false
	default:
		return true
	}
}

// Run executes the loaded bytecode to completion or to the first runtime
// error.
func (vm *VM) Run() error {
	var ip int
	var ins code.Instructions
	var op code.Opcode

	for vm.currentFrame().ip < len(vm.currentFrame().Instructions())-1 {
		vm.currentFrame().ip++

		ip = vm.currentFrame().ip
		ins = vm.currentFrame().Instructions()
		op = code.Opcode(ins[ip])

		switch op {
		case code.OpConstant:
			constIndex := code.ReadUint16(ins[ip+1:])
			vm.currentFrame().ip += 2
			if err := vm.push(vm.constants[constIndex]); err != nil {
				return err
			}

		case code.OpTrue:
			if err := vm.push(objects.TRUE); err != nil {
				return err
			}
		case code.OpFalse:
			if err := vm.push(objects.FALSE); err != nil {
				return err
			}
		case code.OpNull:
			if err := vm.push(objects.NULL); err != nil {
				return err
			}

		case code.OpAdd, code.OpSub, code.OpMul, code.OpDiv, code.OpMod:
			if err := vm.executeArithmeticOperation(op); err != nil {
				return err
			}

		case code.OpEqual:
			right := vm.pop()
			left := vm.pop()
			if err := vm.push(objects.BooleanFor(objects.Equals(left, right))); err != nil {
				return err
			}
		case code.OpNotEqual:
			right := vm.pop()
			left := vm.pop()
			if err := vm.push(objects.BooleanFor(!objects.Equals(left, right))); err != nil {
				return err
			}
		case code.OpGreaterThan, code.OpGreaterEqual:
			if err := vm.executeComparisonOperation(op); err != nil {
				return err
			}

		case code.OpAnd:
			pos := int(code.ReadUint16(ins[ip+1:]))
			vm.currentFrame().ip += 2
			if !isTruthy(vm.stack[vm.sp-1]) {
				// keep the falsy left operand as the result
				vm.currentFrame().ip = pos - 1
			} else {
				vm.pop()
			}
		case code.OpOr:
			pos := int(code.ReadUint16(ins[ip+1:]))
			vm.currentFrame().ip += 2
			if isTruthy(vm.stack[vm.sp-1]) {
				// keep the truthy left operand as the result
				vm.currentFrame().ip = pos - 1
			} else {
				vm.pop()
			}

		case code.OpBang:
			operand := vm.pop()
			if err := vm.push(objects.BooleanFor(!isTruthy(operand))); err != nil {
				return err
			}
		case code.OpMinus:
			operand := vm.pop()
			integer, ok := operand.(*objects.Integer)
			if !ok {
				return fmt.Errorf("ERROR: unknown operator: -%s", operand.GetType())
			}
			if err := vm.push(&objects.Integer{Value: -integer.Value}); err != nil {
				return err
			}

		case code.OpPop:
			vm.pop()

		case code.OpJump:
			pos := int(code.ReadUint16(ins[ip+1:]))
			vm.currentFrame().ip = pos - 1
		case code.OpJumpNotTruthy:
			pos := int(code.ReadUint16(ins[ip+1:]))
			vm.currentFrame().ip += 2
			condition := vm.pop()
			if !isTruthy(condition) {
				vm.currentFrame().ip = pos - 1
			}

		case code.OpSetGlobal:
			globalIndex := code.ReadUint16(ins[ip+1:])
			vm.currentFrame().ip += 2
			vm.globals[globalIndex] = vm.pop()
		case code.OpGetGlobal:
			globalIndex := code.ReadUint16(ins[ip+1:])
			vm.currentFrame().ip += 2
			if err := vm.push(vm.globals[globalIndex]); err != nil {
				return err
			}

		case code.OpSetLocal:
			localIndex := code.ReadUint8(ins[ip+1:])
			vm.currentFrame().ip += 1
			frame := vm.currentFrame()
			vm.stack[frame.basePointer+int(localIndex)] = vm.pop()
		case code.OpGetLocal:
			localIndex := code.ReadUint8(ins[ip+1:])
			vm.currentFrame().ip += 1
			frame := vm.currentFrame()
			if err := vm.push(vm.stack[frame.basePointer+int(localIndex)]); err != nil {
				return err
			}

		case code.OpGetBuiltin:
			builtinIndex := code.ReadUint8(ins[ip+1:])
			vm.currentFrame().ip += 1
			if err := vm.push(std.Builtins[builtinIndex]); err != nil {
				return err
			}

		case code.OpGetFree:
			freeIndex := code.ReadUint8(ins[ip+1:])
			vm.currentFrame().ip += 1
			currentClosure := vm.currentFrame().cl
			if err := vm.push(currentClosure.Free[freeIndex]); err != nil {
				return err
			}

		case code.OpCurrentClosure:
			if err := vm.push(vm.currentFrame().cl); err != nil {
				return err
			}

		case code.OpArray:
			numElements := int(code.ReadUint16(ins[ip+1:]))
			vm.currentFrame().ip += 2

			array := vm.buildArray(vm.sp-numElements, vm.sp)
			vm.sp = vm.sp - numElements
			if err := vm.push(array); err != nil {
				return err
			}

		case code.OpHash:
			numSlots := int(code.ReadUint16(ins[ip+1:]))
			vm.currentFrame().ip += 2

			hash, err := vm.buildHash(vm.sp-numSlots, vm.sp)
			if err != nil {
				return err
			}
			vm.sp = vm.sp - numSlots
			if err := vm.push(hash); err != nil {
				return err
			}

		case code.OpIndex:
			index := vm.pop()
			left := vm.pop()
			if err := vm.executeIndexOperation(left, index); err != nil {
				return err
			}

		case code.OpCall:
			numArgs := int(code.ReadUint8(ins[ip+1:]))
			vm.currentFrame().ip += 1
			if err := vm.executeCall(numArgs); err != nil {
				return err
			}

		case code.OpReturnValue:
			returnValue := vm.pop()

			frame := vm.popFrame()
			if vm.framesIndex == 0 {
				// a top-level return: the program is done
				vm.sp = 0
				return vm.push(returnValue)
			}
			vm.sp = frame.basePointer - 1

			if err := vm.push(returnValue); err != nil {
				return err
			}

		case code.OpReturn:
			frame := vm.popFrame()
			if vm.framesIndex == 0 {
				vm.sp = 0
				return vm.push(objects.NULL)
			}
			vm.sp = frame.basePointer - 1

			if err := vm.push(objects.NULL); err != nil {
				return err
			}

		case code.OpClosure:
			constIndex := int(code.ReadUint16(ins[ip+1:]))
			numFree := int(code.ReadUint8(ins[ip+3:]))
			vm.currentFrame().ip += 3

			if err := vm.pushClosure(constIndex, numFree); err != nil {
				return err
			}

		default:
			return fmt.Errorf("ERROR: unknown opcode %d", op)
		}
	}

	return nil
}
