package vm

import (
	"fmt"

	"github.com/monkeylang/monkey/code"
	"github.com/monkeylang/monkey/objects"
	"github.com/monkeylang/monkey/std"
)

// opLiteral maps arithmetic and comparison opcodes back to their source
// operators, for error messages that match the evaluator's wording.
var opLiteral = map[code.Opcode]string{
	code.OpAdd:          "+",
	code.OpSub:          "-",
	code.OpMul:          "*",
	code.OpDiv:          "/",
	code.OpMod:          "%",
	code.OpGreaterThan:  ">",
	code.OpGreaterEqual: ">=",
}

// executeArithmeticOperation implements OpAdd through OpMod: integer
// arithmetic, string concatenation for OpAdd, and the evaluator's error
// wording for everything else.
func (vm *VM) executeArithmeticOperation(op code.Opcode) error {
	right := vm.pop()
	left := vm.pop()

	switch {
	case left.GetType() == objects.IntegerType && right.GetType() == objects.IntegerType:
		return vm.executeIntegerArithmetic(op, left.(*objects.Integer), right.(*objects.Integer))
	case left.GetType() == objects.StringType && right.GetType() == objects.StringType:
		if op != code.OpAdd {
			return fmt.Errorf("ERROR: unknown operator: string %s string", opLiteral[op])
		}
		return vm.push(&objects.String{Value: left.(*objects.String).Value + right.(*objects.String).Value})
	case left.GetType() != right.GetType():
		return fmt.Errorf("ERROR: type mismatch: %s %s %s", left.GetType(), opLiteral[op], right.GetType())
	default:
		return fmt.Errorf("ERROR: unknown operator: %s %s %s", left.GetType(), opLiteral[op], right.GetType())
	}
}

// executeIntegerArithmetic performs integer arithmetic with truncating
// division and division/modulo-by-zero errors.
func (vm *VM) executeIntegerArithmetic(op code.Opcode, left, right *objects.Integer) error {
	var result int64

	switch op {
	case code.OpAdd:
		result = left.Value + right.Value
	case code.OpSub:
		result = left.Value - right.Value
	case code.OpMul:
		result = left.Value * right.Value
	case code.OpDiv:
		if right.Value == 0 {
			return fmt.Errorf("ERROR: division by zero")
		}
		result = left.Value / right.Value
	case code.OpMod:
		if right.Value == 0 {
			return fmt.Errorf("ERROR: modulo by zero")
		}
		result = left.Value % right.Value
	default:
		return fmt.Errorf("ERROR: unknown operator: int %s int", opLiteral[op])
	}

	return vm.push(&objects.Integer{Value: result})
}

// executeComparisonOperation implements OpGreaterThan and OpGreaterEqual.
// Ordering is integer-only; less-than variants arrive here with operands
// already swapped by the compiler.
func (vm *VM) executeComparisonOperation(op code.Opcode) error {
	right := vm.pop()
	left := vm.pop()

	leftInt, leftOk := left.(*objects.Integer)
	rightInt, rightOk := right.(*objects.Integer)
	if !leftOk || !rightOk {
		if left.GetType() != right.GetType() {
			return fmt.Errorf("ERROR: type mismatch: %s %s %s", left.GetType(), opLiteral[op], right.GetType())
		}
		return fmt.Errorf("ERROR: unknown operator: %s %s %s", left.GetType(), opLiteral[op], right.GetType())
	}

	if op == code.OpGreaterThan {
		return vm.push(objects.BooleanFor(leftInt.Value > rightInt.Value))
	}
	return vm.push(objects.BooleanFor(leftInt.Value >= rightInt.Value))
}

// buildArray collects stack slots into an array object.
func (vm *VM) buildArray(startIndex, endIndex int) objects.MonkeyObject {
	elements := make([]objects.MonkeyObject, endIndex-startIndex)
	for i := startIndex; i < endIndex; i++ {
		elements[i-startIndex] = vm.stack[i]
	}
	return &objects.Array{Elements: elements}
}

// buildHash collects alternating key/value stack slots into a hash,
// preserving their left-to-right source order as the hash's insertion
// order. A non-hashable key is a runtime error.
func (vm *VM) buildHash(startIndex, endIndex int) (objects.MonkeyObject, error) {
	hash := objects.NewHash()

	for i := startIndex; i < endIndex; i += 2 {
		key := vm.stack[i]
		value := vm.stack[i+1]

		hashable, ok := key.(objects.Hashable)
		if !ok {
			return nil, fmt.Errorf("ERROR: unusable as hash key: %s", key.GetType())
		}
		hash.Set(hashable, value)
	}

	return hash, nil
}

// executeIndexOperation implements container[key]: arrays take integer
// keys and yield null out of range, hashes take hashable keys and yield
// null for missing entries, and anything else is an error.
func (vm *VM) executeIndexOperation(left, index objects.MonkeyObject) error {
	switch container := left.(type) {
	case *objects.Array:
		idx, ok := index.(*objects.Integer)
		if !ok {
			return fmt.Errorf("ERROR: array index must be int, got %s", index.GetType())
		}
		if idx.Value < 0 || idx.Value >= int64(len(container.Elements)) {
			return vm.push(objects.NULL)
		}
		return vm.push(container.Elements[idx.Value])

	case *objects.Hash:
		key, ok := index.(objects.Hashable)
		if !ok {
			return fmt.Errorf("ERROR: unusable as hash key: %s", index.GetType())
		}
		value, found := container.Get(key)
		if !found {
			return vm.push(objects.NULL)
		}
		return vm.push(value)

	default:
		return fmt.Errorf("ERROR: index operator not supported: %s", left.GetType())
	}
}

// executeCall dispatches OpCall on the callable sitting numArgs slots
// below the top of the stack.
func (vm *VM) executeCall(numArgs int) error {
	callee := vm.stack[vm.sp-1-numArgs]

	switch callee := callee.(type) {
	case *objects.Closure:
		return vm.callClosure(callee, numArgs)
	case *std.Builtin:
		return vm.callBuiltin(callee, numArgs)
	default:
		return fmt.Errorf("ERROR: not a function: %s", callee.GetType())
	}
}

// callClosure arity-checks and installs a new frame whose base pointer
// locates the first argument, then reserves the callee's local slots.
func (vm *VM) callClosure(cl *objects.Closure, numArgs int) error {
	if numArgs != cl.Fn.NumParameters {
		return fmt.Errorf("ERROR: wrong number of arguments: want %d, got %d",
			cl.Fn.NumParameters, numArgs)
	}

	frame := NewFrame(cl, vm.sp-numArgs)
	if err := vm.pushFrame(frame); err != nil {
		return err
	}

	newSp := frame.basePointer + cl.Fn.NumLocals
	if newSp >= StackSize {
		return fmt.Errorf("ERROR: stack overflow")
	}
	vm.sp = newSp

	return nil
}

// callBuiltin pops the arguments, invokes the intrinsic with the VM's
// writer, and pushes the result in place of callee and arguments. An
// error object from the intrinsic halts execution, matching the
// evaluator's error short-circuiting.
func (vm *VM) callBuiltin(builtin *std.Builtin, numArgs int) error {
	args := vm.stack[vm.sp-numArgs : vm.sp]

	result := builtin.Callback(vm.writer, args...)
	vm.sp = vm.sp - numArgs - 1

	if errObj, ok := result.(*objects.Error); ok {
		return fmt.Errorf("%s", errObj.Message)
	}

	return vm.push(result)
}

// pushClosure wraps a compiled function constant with its captured free
// variables, popped from the stack in capture order.
func (vm *VM) pushClosure(constIndex, numFree int) error {
	constant := vm.constants[constIndex]
	fn, ok := constant.(*objects.CompiledFunction)
	if !ok {
		return fmt.Errorf("ERROR: not a function constant: %s", constant.GetType())
	}

	free := make([]objects.MonkeyObject, numFree)
	for i := 0; i < numFree; i++ {
		free[i] = vm.stack[vm.sp-numFree+i]
	}
	vm.sp = vm.sp - numFree

	return vm.push(&objects.Closure{Fn: fn, Free: free})
}
