// Package compiler transforms AST nodes into bytecode instructions.
//
// The compiler traverses the tree produced by the parser and emits
// instructions for the virtual machine, filling a constants pool along the
// way. It maintains a stack of compilation scopes — one per function body
// being compiled — and each scope tracks its last two emitted instructions
// to support peephole fixups: rewriting a trailing Pop inside an if branch
// so the branch yields a value, and converting a function body's trailing
// Pop into ReturnValue.
//
// Variable resolution goes through symbol tables that mirror the
// evaluator's scope chain: globals, frame locals, captured free variables,
// the builtin registry, and the implicit self-reference of named function
// literals. Free variables are replayed onto the stack before the Closure
// instruction so the VM can capture them.
//
// break and continue are resolved per enclosing loop: continue compiles to
// a backward jump to the condition, break to a forward jump collected in
// the loop's patch list and back-patched at the loop end. Either one
// outside a loop is a compile-time error, as is an undefined identifier.
package compiler

import (
	"fmt"

	"github.com/monkeylang/monkey/code"
	"github.com/monkeylang/monkey/objects"
	"github.com/monkeylang/monkey/parser"
	"github.com/monkeylang/monkey/std"
)

// placeholder operand for jumps that get back-patched later
const pendingJump = 9999

// Compiler compiles an AST into bytecode instructions and manages the
// compilation state.
type Compiler struct {
	// constants holds the constant values encountered during compilation.
	// The pool is append-only and indices are stable.
	constants []objects.MonkeyObject

	// symbolTable manages variable bindings for the scope being compiled.
	symbolTable *SymbolTable

	// scopes is the stack of per-function compilation scopes.
	scopes     []CompilationScope
	scopeIndex int
}

// Bytecode is the compiler's output: the main instruction stream and the
// constants pool. The VM treats both as read-only.
type Bytecode struct {
	Instructions code.Instructions
	Constants    []objects.MonkeyObject
}

// EmittedInstruction records one emitted instruction and where it starts,
// for the peephole fixups.
type EmittedInstruction struct {
	Opcode   code.Opcode
	Position int
}

// loopFrame tracks one lexically enclosing while loop during compilation:
// where its condition starts (the continue target) and the break jumps
// waiting to be patched to the loop end.
type loopFrame struct {
	start  int   // instruction offset of the condition
	breaks []int // positions of break's Jump instructions
}

// CompilationScope represents a single layer of compilation: the
// instruction buffer of one function body (or the program top level),
// metadata about the two most recently emitted instructions, and the
// stack of loops currently open in this scope. Loops do not cross function
// boundaries: a break inside a nested function literal does not see the
// enclosing function's loops.
type CompilationScope struct {
	instructions        code.Instructions
	lastInstruction     EmittedInstruction
	previousInstruction EmittedInstruction
	loops               []*loopFrame
}

// New creates a new compiler with an empty global scope and the builtin
// registry predefined in the symbol table.
func New() *Compiler {
	symbolTable := NewSymbolTable()
	for i, b := range std.Builtins {
		symbolTable.DefineBuiltin(i, b.Name)
	}

	mainScope := CompilationScope{
		instructions:        code.Instructions{},
		lastInstruction:     EmittedInstruction{},
		previousInstruction: EmittedInstruction{},
	}

	return &Compiler{
		constants:   []objects.MonkeyObject{},
		symbolTable: symbolTable,
		scopes:      []CompilationScope{mainScope},
		scopeIndex:  0,
	}
}

// NewWithState creates a compiler that continues from an existing symbol
// table and constants pool. The REPL uses this to keep bindings and
// constants alive across input lines.
func NewWithState(s *SymbolTable, constants []objects.MonkeyObject) *Compiler {
	compiler := New()
	compiler.symbolTable = s
	compiler.constants = constants
	return compiler
}

// SymbolTable exposes the compiler's global symbol table for state reuse.
func (c *Compiler) SymbolTable() *SymbolTable {
	return c.symbolTable
}

// Constants exposes the constants pool for state reuse.
func (c *Compiler) Constants() []objects.MonkeyObject {
	return c.constants
}

// Bytecode returns the compiled program.
func (c *Compiler) Bytecode() *Bytecode {
	return &Bytecode{
		Instructions: c.currentInstructions(),
		Constants:    c.constants,
	}
}

// Compile walks a node and emits its instructions. For a RootNode it
// compiles the whole program and then fixes up the tail so that a finished
// program leaves exactly one value on the VM's stack: the final Pop is
// stripped when the last statement produced a value, and Null is pushed
// when it didn't.
func (c *Compiler) Compile(node parser.Node) error {
	switch node := node.(type) {
	case *parser.RootNode:
		for _, stmt := range node.Statements {
			if err := c.compileStatement(stmt); err != nil {
				return err
			}
		}
		if c.lastInstructionIs(code.OpPop) {
			c.removeLastInstruction()
		} else {
			c.emit(code.OpNull)
		}
		return nil

	case *parser.IntegerLiteralExpressionNode:
		integer := &objects.Integer{Value: node.Value}
		c.emit(code.OpConstant, c.addConstant(integer))
		return nil

	case *parser.BooleanLiteralExpressionNode:
		if node.Value {
			c.emit(code.OpTrue)
		} else {
			c.emit(code.OpFalse)
		}
		return nil

	case *parser.StringLiteralExpressionNode:
		str := &objects.String{Value: node.Value}
		c.emit(code.OpConstant, c.addConstant(str))
		return nil

	case *parser.IdentifierExpressionNode:
		symbol, ok := c.symbolTable.Resolve(node.Name)
		if !ok {
			return fmt.Errorf("undefined variable %s", node.Name)
		}
		c.loadSymbol(symbol)
		return nil

	case *parser.UnaryExpressionNode:
		return c.compileUnaryExpression(node)

	case *parser.BinaryExpressionNode:
		return c.compileBinaryExpression(node)

	case *parser.IfExpressionNode:
		return c.compileIfExpression(node)

	case *parser.FunctionLiteralNode:
		return c.compileFunctionLiteral(node)

	case *parser.CallExpressionNode:
		if err := c.Compile(node.Callee); err != nil {
			return err
		}
		for _, arg := range node.Args {
			if err := c.Compile(arg); err != nil {
				return err
			}
		}
		c.emit(code.OpCall, len(node.Args))
		return nil

	case *parser.ArrayExpressionNode:
		for _, el := range node.Elements {
			if err := c.Compile(el); err != nil {
				return err
			}
		}
		c.emit(code.OpArray, len(node.Elements))
		return nil

	case *parser.HashExpressionNode:
		for i := range node.Keys {
			if err := c.Compile(node.Keys[i]); err != nil {
				return err
			}
			if err := c.Compile(node.Values[i]); err != nil {
				return err
			}
		}
		c.emit(code.OpHash, len(node.Keys)*2)
		return nil

	case *parser.IndexExpressionNode:
		if err := c.Compile(node.Left); err != nil {
			return err
		}
		if err := c.Compile(node.Index); err != nil {
			return err
		}
		c.emit(code.OpIndex)
		return nil

	case *parser.LetStatementNode:
		return c.compileLetStatement(node)

	case *parser.ReturnStatementNode:
		if err := c.Compile(node.Expr); err != nil {
			return err
		}
		c.emit(code.OpReturnValue)
		return nil

	case *parser.WhileStatementNode:
		return c.compileWhileStatement(node)

	case *parser.BreakStatementNode:
		loop := c.currentLoop()
		if loop == nil {
			return fmt.Errorf("break outside loop")
		}
		pos := c.emit(code.OpJump, pendingJump)
		loop.breaks = append(loop.breaks, pos)
		return nil

	case *parser.ContinueStatementNode:
		loop := c.currentLoop()
		if loop == nil {
			return fmt.Errorf("continue outside loop")
		}
		c.emit(code.OpJump, loop.start)
		return nil

	default:
		return fmt.Errorf("unknown node type %T", node)
	}
}

// compileStatement compiles one statement. A bare expression at statement
// position gets its value popped; dedicated statements manage the stack
// themselves.
func (c *Compiler) compileStatement(stmt parser.StatementNode) error {
	if expr, ok := stmt.(parser.ExpressionNode); ok {
		if err := c.Compile(expr); err != nil {
			return err
		}
		c.emit(code.OpPop)
		return nil
	}
	return c.Compile(stmt)
}

// compileUnaryExpression compiles !x and -x.
func (c *Compiler) compileUnaryExpression(node *parser.UnaryExpressionNode) error {
	if err := c.Compile(node.Right); err != nil {
		return err
	}

	switch node.Operator {
	case "!":
		c.emit(code.OpBang)
	case "-":
		c.emit(code.OpMinus)
	default:
		return fmt.Errorf("unknown operator %s", node.Operator)
	}
	return nil
}

// compileBinaryExpression compiles infix operations.
//
// < and <= compile by swapping operand order and emitting the greater-than
// variants. && and || compile to conditional jumps so the right operand
// only runs when the left doesn't decide the result, and the expression's
// value is the last evaluated operand.
func (c *Compiler) compileBinaryExpression(node *parser.BinaryExpressionNode) error {
	switch node.Operator {
	case "<", "<=":
		if err := c.Compile(node.Right); err != nil {
			return err
		}
		if err := c.Compile(node.Left); err != nil {
			return err
		}
		if node.Operator == "<" {
			c.emit(code.OpGreaterThan)
		} else {
			c.emit(code.OpGreaterEqual)
		}
		return nil

	case "&&", "||":
		if err := c.Compile(node.Left); err != nil {
			return err
		}
		var shortCircuitPos int
		if node.Operator == "&&" {
			shortCircuitPos = c.emit(code.OpAnd, pendingJump)
		} else {
			shortCircuitPos = c.emit(code.OpOr, pendingJump)
		}
		if err := c.Compile(node.Right); err != nil {
			return err
		}
		c.changeOperand(shortCircuitPos, len(c.currentInstructions()))
		return nil
	}

	if err := c.Compile(node.Left); err != nil {
		return err
	}
	if err := c.Compile(node.Right); err != nil {
		return err
	}

	switch node.Operator {
	case "+":
		c.emit(code.OpAdd)
	case "-":
		c.emit(code.OpSub)
	case "*":
		c.emit(code.OpMul)
	case "/":
		c.emit(code.OpDiv)
	case "%":
		c.emit(code.OpMod)
	case ">":
		c.emit(code.OpGreaterThan)
	case ">=":
		c.emit(code.OpGreaterEqual)
	case "==":
		c.emit(code.OpEqual)
	case "!=":
		c.emit(code.OpNotEqual)
	default:
		return fmt.Errorf("unknown operator %s", node.Operator)
	}
	return nil
}

// compileIfExpression compiles a conditional so that exactly one value is
// on the stack afterwards, whichever branch ran. A missing else pushes
// null.
func (c *Compiler) compileIfExpression(node *parser.IfExpressionNode) error {
	if err := c.Compile(node.Condition); err != nil {
		return err
	}

	jumpNotTruthyPos := c.emit(code.OpJumpNotTruthy, pendingJump)

	if err := c.compileBranch(node.Consequence); err != nil {
		return err
	}

	jumpPos := c.emit(code.OpJump, pendingJump)
	c.changeOperand(jumpNotTruthyPos, len(c.currentInstructions()))

	if node.Alternative == nil {
		c.emit(code.OpNull)
	} else {
		if err := c.compileBranch(node.Alternative); err != nil {
			return err
		}
	}

	c.changeOperand(jumpPos, len(c.currentInstructions()))
	return nil
}

// compileBranch compiles an if branch as a value: the branch's trailing
// Pop is stripped so the last expression's value survives, and a branch
// that produced no value (empty, or ending in a binding or loop) pushes
// null instead. A branch ending in a return needs nothing after it.
func (c *Compiler) compileBranch(block *parser.BlockStatementNode) error {
	if len(block.Statements) == 0 {
		c.emit(code.OpNull)
		return nil
	}

	for _, stmt := range block.Statements {
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
	}

	if c.lastInstructionIs(code.OpPop) {
		c.removeLastInstruction()
	} else if !c.lastInstructionIs(code.OpReturnValue) && !c.lastInstructionIs(code.OpReturn) {
		c.emit(code.OpNull)
	}
	return nil
}

// compileLetStatement compiles the bound expression and stores it through
// the symbol table. The symbol is reserved before compiling the expression
// only when it is a function literal, to enable recursion; otherwise after,
// which forbids forward uses like let x = x.
func (c *Compiler) compileLetStatement(node *parser.LetStatementNode) error {
	_, isFunctionLiteral := node.Expr.(*parser.FunctionLiteralNode)

	var symbol Symbol
	if isFunctionLiteral {
		symbol = c.symbolTable.Define(node.Identifier.Name)
	}

	if err := c.Compile(node.Expr); err != nil {
		return err
	}

	if !isFunctionLiteral {
		symbol = c.symbolTable.Define(node.Identifier.Name)
	}

	if symbol.Scope == GlobalScope {
		c.emit(code.OpSetGlobal, symbol.Index)
	} else {
		c.emit(code.OpSetLocal, symbol.Index)
	}
	return nil
}

// compileWhileStatement compiles a loop. The condition's offset is the
// continue target; break jumps collect in the loop frame and patch to the
// end. The loop leaves nothing on the stack.
func (c *Compiler) compileWhileStatement(node *parser.WhileStatementNode) error {
	start := len(c.currentInstructions())
	loop := c.pushLoop(start)

	if err := c.Compile(node.Condition); err != nil {
		return err
	}
	endJumpPos := c.emit(code.OpJumpNotTruthy, pendingJump)

	for _, stmt := range node.Body.Statements {
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
	}

	c.emit(code.OpJump, start)

	end := len(c.currentInstructions())
	c.changeOperand(endJumpPos, end)
	for _, breakPos := range loop.breaks {
		c.changeOperand(breakPos, end)
	}

	c.popLoop()
	return nil
}

// compileFunctionLiteral compiles a function body in its own scope, fixes
// up its implicit return, and emits the Closure instruction with the
// captured free variables replayed onto the stack.
func (c *Compiler) compileFunctionLiteral(node *parser.FunctionLiteralNode) error {
	c.enterScope()

	if node.Name != "" {
		c.symbolTable.DefineFunctionName(node.Name)
	}

	for _, param := range node.Params {
		c.symbolTable.Define(param.Name)
	}

	for _, stmt := range node.Body.Statements {
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
	}

	// a body whose last statement produced a value returns that value;
	// one that produced none returns null
	if c.lastInstructionIs(code.OpPop) {
		c.replaceLastPopWithReturn()
	}
	if !c.lastInstructionIs(code.OpReturnValue) {
		c.emit(code.OpReturn)
	}

	freeSymbols := c.symbolTable.FreeSymbols
	numLocals := c.symbolTable.numDefinitions
	instructions := c.leaveScope()

	for _, s := range freeSymbols {
		c.loadSymbol(s)
	}

	compiledFn := &objects.CompiledFunction{
		Instructions:  instructions,
		NumLocals:     numLocals,
		NumParameters: len(node.Params),
	}
	c.emit(code.OpClosure, c.addConstant(compiledFn), len(freeSymbols))
	return nil
}

// loadSymbol emits the load instruction matching a symbol's scope.
func (c *Compiler) loadSymbol(s Symbol) {
	switch s.Scope {
	case GlobalScope:
		c.emit(code.OpGetGlobal, s.Index)
	case LocalScope:
		c.emit(code.OpGetLocal, s.Index)
	case BuiltinScope:
		c.emit(code.OpGetBuiltin, s.Index)
	case FreeScope:
		c.emit(code.OpGetFree, s.Index)
	case FunctionScope:
		c.emit(code.OpCurrentClosure)
	}
}
