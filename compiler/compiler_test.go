package compiler

import (
	"fmt"
	"testing"

	"github.com/monkeylang/monkey/code"
	"github.com/monkeylang/monkey/objects"
	"github.com/monkeylang/monkey/parser"
)

// compilerTestCase pairs a source snippet with the exact bytecode it
// should produce. Note that compiling a whole program strips the final
// Pop (or appends Null), so a finished program leaves its value on the
// stack.
type compilerTestCase struct {
	input                string
	expectedConstants    []interface{}
	expectedInstructions []code.Instructions
}

func parse(t *testing.T, input string) *parser.RootNode {
	t.Helper()
	par := parser.NewParser(input)
	root := par.Parse()
	if par.HasErrors() {
		t.Fatalf("parse errors for %q: %v", input, par.Errors)
	}
	return root
}

func concatInstructions(s []code.Instructions) code.Instructions {
	out := code.Instructions{}
	for _, ins := range s {
		out = append(out, ins...)
	}
	return out
}

func runCompilerTests(t *testing.T, tests []compilerTestCase) {
	t.Helper()

	for _, tt := range tests {
		root := parse(t, tt.input)

		compiler := New()
		if err := compiler.Compile(root); err != nil {
			t.Fatalf("input %q: compile error: %s", tt.input, err)
		}

		bytecode := compiler.Bytecode()

		expected := concatInstructions(tt.expectedInstructions)
		if bytecode.Instructions.String() != expected.String() {
			t.Errorf("input %q: wrong instructions.\nwant:\n%s\ngot:\n%s",
				tt.input, expected.String(), bytecode.Instructions.String())
		}

		if err := testConstants(tt.expectedConstants, bytecode.Constants); err != nil {
			t.Errorf("input %q: %s", tt.input, err)
		}
	}
}

func testConstants(expected []interface{}, actual []objects.MonkeyObject) error {
	if len(expected) != len(actual) {
		return fmt.Errorf("wrong number of constants: want %d, got %d", len(expected), len(actual))
	}

	for i, constant := range expected {
		switch constant := constant.(type) {
		case int:
			integer, ok := actual[i].(*objects.Integer)
			if !ok {
				return fmt.Errorf("constant %d: not an integer: %T", i, actual[i])
			}
			if integer.Value != int64(constant) {
				return fmt.Errorf("constant %d: want %d, got %d", i, constant, integer.Value)
			}
		case string:
			str, ok := actual[i].(*objects.String)
			if !ok {
				return fmt.Errorf("constant %d: not a string: %T", i, actual[i])
			}
			if str.Value != constant {
				return fmt.Errorf("constant %d: want %q, got %q", i, constant, str.Value)
			}
		case []code.Instructions:
			fn, ok := actual[i].(*objects.CompiledFunction)
			if !ok {
				return fmt.Errorf("constant %d: not a function: %T", i, actual[i])
			}
			expectedIns := concatInstructions(constant)
			if fn.Instructions.String() != expectedIns.String() {
				return fmt.Errorf("constant %d: wrong instructions.\nwant:\n%s\ngot:\n%s",
					i, expectedIns.String(), fn.Instructions.String())
			}
		}
	}
	return nil
}

// TestCompiler_IntegerArithmetic covers arithmetic and the stripped
// program-final Pop.
func TestCompiler_IntegerArithmetic(t *testing.T) {
	tests := []compilerTestCase{
		{
			input:             "1 + 2",
			expectedConstants: []interface{}{1, 2},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpAdd),
			},
		},
		{
			input:             "1; 2",
			expectedConstants: []interface{}{1, 2},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpPop),
				code.Make(code.OpConstant, 1),
			},
		},
		{
			input:             "1 - 2",
			expectedConstants: []interface{}{1, 2},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpSub),
			},
		},
		{
			input:             "1 * 2",
			expectedConstants: []interface{}{1, 2},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpMul),
			},
		},
		{
			input:             "2 / 1",
			expectedConstants: []interface{}{2, 1},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpDiv),
			},
		},
		{
			input:             "5 % 3",
			expectedConstants: []interface{}{5, 3},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpMod),
			},
		},
		{
			input:             "-1",
			expectedConstants: []interface{}{1},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpMinus),
			},
		},
	}
	runCompilerTests(t, tests)
}

// TestCompiler_BooleanExpressions covers comparisons, including the
// operand swap for the less-than variants.
func TestCompiler_BooleanExpressions(t *testing.T) {
	tests := []compilerTestCase{
		{
			input:             "true",
			expectedConstants: []interface{}{},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpTrue),
			},
		},
		{
			input:             "1 > 2",
			expectedConstants: []interface{}{1, 2},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpGreaterThan),
			},
		},
		{
			input:             "1 >= 2",
			expectedConstants: []interface{}{1, 2},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpGreaterEqual),
			},
		},
		{
			// less-than swaps its operands and reuses greater-than
			input:             "1 < 2",
			expectedConstants: []interface{}{2, 1},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpGreaterThan),
			},
		},
		{
			input:             "1 <= 2",
			expectedConstants: []interface{}{2, 1},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpGreaterEqual),
			},
		},
		{
			input:             "1 == 2",
			expectedConstants: []interface{}{1, 2},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpEqual),
			},
		},
		{
			input:             "true != false",
			expectedConstants: []interface{}{},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpTrue),
				code.Make(code.OpFalse),
				code.Make(code.OpNotEqual),
			},
		},
		{
			input:             "!true",
			expectedConstants: []interface{}{},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpTrue),
				code.Make(code.OpBang),
			},
		},
	}
	runCompilerTests(t, tests)
}

// TestCompiler_LogicalOperators covers the short-circuit jump encoding.
func TestCompiler_LogicalOperators(t *testing.T) {
	tests := []compilerTestCase{
		{
			// 0000 OpTrue; 0001 OpAnd 5; 0004 OpFalse
			input:             "true && false",
			expectedConstants: []interface{}{},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpTrue),
				code.Make(code.OpAnd, 5),
				code.Make(code.OpFalse),
			},
		},
		{
			input:             "true || false",
			expectedConstants: []interface{}{},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpTrue),
				code.Make(code.OpOr, 5),
				code.Make(code.OpFalse),
			},
		},
	}
	runCompilerTests(t, tests)
}

// TestCompiler_Conditionals covers branch compilation, the stripped
// branch Pop, the implicit Null alternative, and back-patched jumps.
func TestCompiler_Conditionals(t *testing.T) {
	tests := []compilerTestCase{
		{
			// 0000 OpTrue; 0001 OpJumpNotTruthy 10; 0004 OpConstant 0;
			// 0007 OpJump 11; 0010 OpNull; 0011 OpPop; 0012 OpConstant 1
			input:             "if (true) { 10 }; 3333;",
			expectedConstants: []interface{}{10, 3333},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpTrue),
				code.Make(code.OpJumpNotTruthy, 10),
				code.Make(code.OpConstant, 0),
				code.Make(code.OpJump, 11),
				code.Make(code.OpNull),
				code.Make(code.OpPop),
				code.Make(code.OpConstant, 1),
			},
		},
		{
			// 0000 OpTrue; 0001 OpJumpNotTruthy 10; 0004 OpConstant 0;
			// 0007 OpJump 13; 0010 OpConstant 1; 0013 OpPop; 0014 OpConstant 2
			input:             "if (true) { 10 } else { 20 }; 3333;",
			expectedConstants: []interface{}{10, 20, 3333},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpTrue),
				code.Make(code.OpJumpNotTruthy, 10),
				code.Make(code.OpConstant, 0),
				code.Make(code.OpJump, 13),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpPop),
				code.Make(code.OpConstant, 2),
			},
		},
		{
			// a branch ending in a binding pushes Null as its value
			// 0000 OpTrue; 0001 OpJumpNotTruthy 14; 0004 OpConstant 0;
			// 0007 OpSetGlobal 0; 0010 OpNull; 0011 OpJump 15; 0014 OpNull
			input:             "if (true) { let x = 1 }",
			expectedConstants: []interface{}{1},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpTrue),
				code.Make(code.OpJumpNotTruthy, 14),
				code.Make(code.OpConstant, 0),
				code.Make(code.OpSetGlobal, 0),
				code.Make(code.OpNull),
				code.Make(code.OpJump, 15),
				code.Make(code.OpNull),
			},
		},
	}
	runCompilerTests(t, tests)
}

// TestCompiler_GlobalLetStatements covers globals and same-slot
// shadowing.
func TestCompiler_GlobalLetStatements(t *testing.T) {
	tests := []compilerTestCase{
		{
			input:             "let one = 1; let two = 2;",
			expectedConstants: []interface{}{1, 2},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpSetGlobal, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpSetGlobal, 1),
				code.Make(code.OpNull),
			},
		},
		{
			input:             "let one = 1; one;",
			expectedConstants: []interface{}{1},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpSetGlobal, 0),
				code.Make(code.OpGetGlobal, 0),
			},
		},
		{
			// shadowing reuses slot 0, so the loop-style rebinding works
			input:             "let a = 1; let a = 2; a;",
			expectedConstants: []interface{}{1, 2},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpSetGlobal, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpSetGlobal, 0),
				code.Make(code.OpGetGlobal, 0),
			},
		},
	}
	runCompilerTests(t, tests)
}

// TestCompiler_StringsArraysHashes covers composite literal compilation.
func TestCompiler_StringsArraysHashes(t *testing.T) {
	tests := []compilerTestCase{
		{
			input:             `"monkey"`,
			expectedConstants: []interface{}{"monkey"},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
			},
		},
		{
			input:             `"mon" + "key"`,
			expectedConstants: []interface{}{"mon", "key"},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpAdd),
			},
		},
		{
			input:             "[]",
			expectedConstants: []interface{}{},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpArray, 0),
			},
		},
		{
			input:             "[1, 2, 3]",
			expectedConstants: []interface{}{1, 2, 3},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpConstant, 2),
				code.Make(code.OpArray, 3),
			},
		},
		{
			input:             "{}",
			expectedConstants: []interface{}{},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpHash, 0),
			},
		},
		{
			input:             "{1: 2, 3: 4}",
			expectedConstants: []interface{}{1, 2, 3, 4},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpConstant, 2),
				code.Make(code.OpConstant, 3),
				code.Make(code.OpHash, 4),
			},
		},
		{
			input:             "[1, 2][0]",
			expectedConstants: []interface{}{1, 2, 0},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpArray, 2),
				code.Make(code.OpConstant, 2),
				code.Make(code.OpIndex),
			},
		},
	}
	runCompilerTests(t, tests)
}

// TestCompiler_Functions covers function literals, implicit returns, and
// calls.
func TestCompiler_Functions(t *testing.T) {
	tests := []compilerTestCase{
		{
			input: "fn() { return 5 + 10 }",
			expectedConstants: []interface{}{
				5, 10,
				[]code.Instructions{
					code.Make(code.OpConstant, 0),
					code.Make(code.OpConstant, 1),
					code.Make(code.OpAdd),
					code.Make(code.OpReturnValue),
				},
			},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 2, 0),
			},
		},
		{
			// the trailing Pop of the body becomes ReturnValue
			input: "fn() { 5 + 10 }",
			expectedConstants: []interface{}{
				5, 10,
				[]code.Instructions{
					code.Make(code.OpConstant, 0),
					code.Make(code.OpConstant, 1),
					code.Make(code.OpAdd),
					code.Make(code.OpReturnValue),
				},
			},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 2, 0),
			},
		},
		{
			input: "fn() { }",
			expectedConstants: []interface{}{
				[]code.Instructions{
					code.Make(code.OpReturn),
				},
			},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 0, 0),
			},
		},
		{
			input: "fn() { 24 }();",
			expectedConstants: []interface{}{
				24,
				[]code.Instructions{
					code.Make(code.OpConstant, 0),
					code.Make(code.OpReturnValue),
				},
			},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 1, 0),
				code.Make(code.OpCall, 0),
			},
		},
		{
			input: "let oneArg = fn(a) { a }; oneArg(24);",
			expectedConstants: []interface{}{
				[]code.Instructions{
					code.Make(code.OpGetLocal, 0),
					code.Make(code.OpReturnValue),
				},
				24,
			},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 0, 0),
				code.Make(code.OpSetGlobal, 0),
				code.Make(code.OpGetGlobal, 0),
				code.Make(code.OpConstant, 1),
				code.Make(code.OpCall, 1),
			},
		},
	}
	runCompilerTests(t, tests)
}

// TestCompiler_LetStatementScopes covers globals captured in functions
// and function-local bindings.
func TestCompiler_LetStatementScopes(t *testing.T) {
	tests := []compilerTestCase{
		{
			input: "let num = 55; fn() { num }",
			expectedConstants: []interface{}{
				55,
				[]code.Instructions{
					code.Make(code.OpGetGlobal, 0),
					code.Make(code.OpReturnValue),
				},
			},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),
				code.Make(code.OpSetGlobal, 0),
				code.Make(code.OpClosure, 1, 0),
			},
		},
		{
			input: "fn() { let num = 55; num }",
			expectedConstants: []interface{}{
				55,
				[]code.Instructions{
					code.Make(code.OpConstant, 0),
					code.Make(code.OpSetLocal, 0),
					code.Make(code.OpGetLocal, 0),
					code.Make(code.OpReturnValue),
				},
			},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 1, 0),
			},
		},
	}
	runCompilerTests(t, tests)
}

// TestCompiler_Builtins covers registry-indexed builtin loads.
func TestCompiler_Builtins(t *testing.T) {
	tests := []compilerTestCase{
		{
			input:             "len([]); push([], 1)",
			expectedConstants: []interface{}{1},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpGetBuiltin, 0),
				code.Make(code.OpArray, 0),
				code.Make(code.OpCall, 1),
				code.Make(code.OpPop),
				code.Make(code.OpGetBuiltin, 4),
				code.Make(code.OpArray, 0),
				code.Make(code.OpConstant, 0),
				code.Make(code.OpCall, 2),
			},
		},
		{
			input:             "fn() { len([]) }",
			expectedConstants: []interface{}{
				[]code.Instructions{
					code.Make(code.OpGetBuiltin, 0),
					code.Make(code.OpArray, 0),
					code.Make(code.OpCall, 1),
					code.Make(code.OpReturnValue),
				},
			},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 0, 0),
			},
		},
	}
	runCompilerTests(t, tests)
}

// TestCompiler_Closures covers free-variable capture across nesting
// levels.
func TestCompiler_Closures(t *testing.T) {
	tests := []compilerTestCase{
		{
			input: "fn(a) { fn(b) { a + b } }",
			expectedConstants: []interface{}{
				[]code.Instructions{
					code.Make(code.OpGetFree, 0),
					code.Make(code.OpGetLocal, 0),
					code.Make(code.OpAdd),
					code.Make(code.OpReturnValue),
				},
				[]code.Instructions{
					code.Make(code.OpGetLocal, 0),
					code.Make(code.OpClosure, 0, 1),
					code.Make(code.OpReturnValue),
				},
			},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 1, 0),
			},
		},
		{
			input: "fn(a) { fn(b) { fn(c) { a + b + c } } }",
			expectedConstants: []interface{}{
				[]code.Instructions{
					code.Make(code.OpGetFree, 0),
					code.Make(code.OpGetFree, 1),
					code.Make(code.OpAdd),
					code.Make(code.OpGetLocal, 0),
					code.Make(code.OpAdd),
					code.Make(code.OpReturnValue),
				},
				[]code.Instructions{
					code.Make(code.OpGetFree, 0),
					code.Make(code.OpGetLocal, 0),
					code.Make(code.OpClosure, 0, 2),
					code.Make(code.OpReturnValue),
				},
				[]code.Instructions{
					code.Make(code.OpGetLocal, 0),
					code.Make(code.OpClosure, 1, 1),
					code.Make(code.OpReturnValue),
				},
			},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 2, 0),
			},
		},
	}
	runCompilerTests(t, tests)
}

// TestCompiler_RecursiveFunctions covers the CurrentClosure
// self-reference.
func TestCompiler_RecursiveFunctions(t *testing.T) {
	tests := []compilerTestCase{
		{
			input: "let countDown = fn(x) { countDown(x - 1) }; countDown(1);",
			expectedConstants: []interface{}{
				1,
				[]code.Instructions{
					code.Make(code.OpCurrentClosure),
					code.Make(code.OpGetLocal, 0),
					code.Make(code.OpConstant, 0),
					code.Make(code.OpSub),
					code.Make(code.OpCall, 1),
					code.Make(code.OpReturnValue),
				},
				1,
			},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpClosure, 1, 0),
				code.Make(code.OpSetGlobal, 0),
				code.Make(code.OpGetGlobal, 0),
				code.Make(code.OpConstant, 2),
				code.Make(code.OpCall, 1),
			},
		},
	}
	runCompilerTests(t, tests)
}

// TestCompiler_WhileLoops covers the loop jump structure, break, and
// continue.
func TestCompiler_WhileLoops(t *testing.T) {
	tests := []compilerTestCase{
		{
			// 0000 OpTrue; 0001 OpJumpNotTruthy 10; 0004 OpJump 10 (break);
			// 0007 OpJump 0; 0010 OpNull (program value)
			input:             "while (true) { break }",
			expectedConstants: []interface{}{},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpTrue),
				code.Make(code.OpJumpNotTruthy, 10),
				code.Make(code.OpJump, 10),
				code.Make(code.OpJump, 0),
				code.Make(code.OpNull),
			},
		},
		{
			// 0000 OpTrue; 0001 OpJumpNotTruthy 10; 0004 OpJump 0 (continue);
			// 0007 OpJump 0; 0010 OpNull
			input:             "while (true) { continue }",
			expectedConstants: []interface{}{},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpTrue),
				code.Make(code.OpJumpNotTruthy, 10),
				code.Make(code.OpJump, 0),
				code.Make(code.OpJump, 0),
				code.Make(code.OpNull),
			},
		},
		{
			// the counter loop: condition reads the same global the body
			// rebinds, because shadowing reuses the slot
			input:             "let i = 0; while (i < 3) { let i = i + 1 }",
			expectedConstants: []interface{}{0, 3, 1},
			expectedInstructions: []code.Instructions{
				code.Make(code.OpConstant, 0),   // 0000
				code.Make(code.OpSetGlobal, 0),  // 0003
				code.Make(code.OpConstant, 1),   // 0006 (3, swapped for <)
				code.Make(code.OpGetGlobal, 0),  // 0009
				code.Make(code.OpGreaterThan),   // 0012
				code.Make(code.OpJumpNotTruthy, 29), // 0013
				code.Make(code.OpGetGlobal, 0),  // 0016
				code.Make(code.OpConstant, 2),   // 0019
				code.Make(code.OpAdd),           // 0022
				code.Make(code.OpSetGlobal, 0),  // 0023
				code.Make(code.OpJump, 6),       // 0026
				code.Make(code.OpNull),          // 0029
			},
		},
	}
	runCompilerTests(t, tests)
}

// TestCompiler_Errors covers compile-time failures.
func TestCompiler_Errors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"foobar", "undefined variable foobar"},
		{"let x = x", "undefined variable x"},
		{"break", "break outside loop"},
		{"continue", "continue outside loop"},
		{"while (true) { fn() { break } }", "break outside loop"},
		{"fn() { continue }", "continue outside loop"},
	}

	for _, tt := range tests {
		root := parse(t, tt.input)
		compiler := New()
		err := compiler.Compile(root)
		if err == nil {
			t.Errorf("input %q: expected compile error %q, got none", tt.input, tt.expected)
			continue
		}
		if err.Error() != tt.expected {
			t.Errorf("input %q: expected error %q, got %q", tt.input, tt.expected, err.Error())
		}
	}
}

// TestCompiler_NewWithState verifies symbol table and constants carry
// across compilers, the way the REPL drives them.
func TestCompiler_NewWithState(t *testing.T) {
	first := New()
	if err := first.Compile(parse(t, "let x = 41")); err != nil {
		t.Fatalf("compile error: %s", err)
	}

	second := NewWithState(first.SymbolTable(), first.Constants())
	if err := second.Compile(parse(t, "x + 1")); err != nil {
		t.Fatalf("compile error with shared state: %s", err)
	}
}
