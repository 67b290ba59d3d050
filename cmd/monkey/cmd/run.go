package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/monkeylang/monkey/compiler"
	"github.com/monkeylang/monkey/eval"
	"github.com/monkeylang/monkey/lexer"
	"github.com/monkeylang/monkey/parser"
	"github.com/monkeylang/monkey/printer"
)

var (
	redColor    = color.New(color.FgRed)
	yellowColor = color.New(color.FgYellow)
)

// parseSource parses a program and reports every collected parse error to
// standard error. A nil return means the program did not parse cleanly.
func parseSource(src string) *parser.RootNode {
	par := parser.NewParser(src)
	root := par.Parse()
	if par.HasErrors() {
		for _, msg := range par.Errors {
			redColor.Fprintf(os.Stderr, "[PARSE ERROR] %s\n", msg)
		}
		return nil
	}
	return root
}

// runInterpreter evaluates the program with the tree-walking evaluator and
// prints the program's value. puts output goes to standard output as the
// program runs.
func runInterpreter(src string) error {
	root := parseSource(src)
	if root == nil {
		return fmt.Errorf("parsing failed")
	}

	evaluator := eval.NewEvaluator()
	evaluator.SetWriter(os.Stdout)
	result := evaluator.Eval(root)
	if eval.IsError(result) {
		redColor.Fprintf(os.Stderr, "[RUNTIME ERROR] %s\n", result.ToString())
		return fmt.Errorf("runtime error")
	}

	yellowColor.Fprintf(os.Stdout, "%s\n", result.ToString())
	return nil
}

// runCompilerDump compiles the program and prints the bytecode
// disassembly followed by the constants pool. Compiled function constants
// print their own disassembly, indented.
func runCompilerDump(src string) error {
	root := parseSource(src)
	if root == nil {
		return fmt.Errorf("parsing failed")
	}

	comp := compiler.New()
	if err := comp.Compile(root); err != nil {
		redColor.Fprintf(os.Stderr, "[COMPILE ERROR] %s\n", err)
		return fmt.Errorf("compilation failed")
	}

	bytecode := comp.Bytecode()
	fmt.Print(compiler.Disassemble(bytecode))
	return nil
}

// runParserDump parses the program and prints the formatted AST.
func runParserDump(src string) error {
	root := parseSource(src)
	if root == nil {
		return fmt.Errorf("parsing failed")
	}

	fmt.Print(printer.Format(root))
	return nil
}

// runLexerDump prints the token stream, one "line: literal:type" line per
// token: the token's source line, then the "literal:type" form the lexer's
// Print debugging helper uses.
func runLexerDump(src string) error {
	lex := lexer.NewLexer(src)
	for _, tok := range lex.ConsumeTokens() {
		fmt.Printf("%d: %s:%v\n", tok.Line, tok.Literal, tok.Type)
	}
	return nil
}
