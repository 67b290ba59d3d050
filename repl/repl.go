// Package repl implements the Read-Eval-Print Loop for the Monkey
// interpreter. The REPL provides an interactive environment where users
// can:
//   - enter Monkey code line by line
//   - see immediate results of their code execution
//   - navigate command history using arrow keys
//   - receive colored feedback for different types of output
//
// Each line runs through the full compiled pipeline (parse, compile, VM).
// The symbol table, constants pool, and globals array persist across
// lines, so bindings made on one line are visible on the next.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/monkeylang/monkey/compiler"
	"github.com/monkeylang/monkey/objects"
	"github.com/monkeylang/monkey/parser"
	"github.com/monkeylang/monkey/std"
	"github.com/monkeylang/monkey/vm"
)

// Color definitions for REPL output:
// - blueColor: decorative lines and separators
// - yellowColor: expression results and version info
// - redColor: error messages
// - greenColor: banner
// - cyanColor: informational messages and instructions
var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl represents the Read-Eval-Print Loop instance. It encapsulates the
// visual configuration and the cross-line execution state.
type Repl struct {
	Banner  string // ASCII art banner displayed at startup
	Version string // Version string of the interpreter
	Line    string // Separator line for visual formatting
	License string // Software license information
	Prompt  string // Command prompt shown to the user (e.g., ">> ")

	constants   []objects.MonkeyObject
	globals     []objects.MonkeyObject
	symbolTable *compiler.SymbolTable
}

// NewRepl creates and initializes a new REPL instance with empty
// cross-line state.
func NewRepl(banner, version, line, license, prompt string) *Repl {
	symbolTable := compiler.NewSymbolTable()
	for i, b := range std.Builtins {
		symbolTable.DefineBuiltin(i, b.Name)
	}

	return &Repl{
		Banner:  banner,
		Version: version,
		Line:    line,
		License: license,
		Prompt:  prompt,

		constants:   []objects.MonkeyObject{},
		globals:     vm.NewGlobalsStore(),
		symbolTable: symbolTable,
	}
}

// PrintBannerInfo displays the welcome banner and usage instructions.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintln(writer, "Version: "+r.Version+" | License: "+r.License)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanColor.Fprintf(writer, "%s\n", "Welcome to Monkey!")
	cyanColor.Fprintf(writer, "%s\n", "Type your code and press enter")
	cyanColor.Fprintf(writer, "%s\n", "Type '.exit' to quit")
	cyanColor.Fprintf(writer, "%s\n", "Use up/down arrows to navigate command history")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// Start begins the REPL main loop:
//  1. displays the welcome banner
//  2. sets up readline for line editing and history
//  3. enters the read-compile-run-print loop
//  4. processes user input until '.exit' or EOF (Ctrl+D)
//
// Errors from any pipeline stage print without killing the session, so
// users can correct mistakes and try again.
func (r *Repl) Start(reader io.Reader, writer io.Writer) {
	r.PrintBannerInfo(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			// EOF or error occurred (e.g., Ctrl+D pressed)
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		line = strings.Trim(line, " \n\t\r")
		if line == "" {
			continue
		}
		if line == ".exit" {
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		rl.SaveHistory(line)
		r.executeWithRecovery(writer, line)
	}
}

// executeWithRecovery runs one input line through the pipeline, printing
// the result or the first error encountered. A panic is caught so a bug
// in the pipeline cannot take the session down.
func (r *Repl) executeWithRecovery(writer io.Writer, line string) {
	defer func() {
		if rec := recover(); rec != nil {
			redColor.Fprintf(writer, "[PANIC] %v\n", rec)
		}
	}()

	par := parser.NewParser(line)
	root := par.Parse()
	if par.HasErrors() {
		for _, msg := range par.Errors {
			redColor.Fprintf(writer, "[PARSE ERROR] %s\n", msg)
		}
		return
	}

	comp := compiler.NewWithState(r.symbolTable, r.constants)
	if err := comp.Compile(root); err != nil {
		redColor.Fprintf(writer, "[COMPILE ERROR] %s\n", err)
		return
	}
	bytecode := comp.Bytecode()
	r.constants = bytecode.Constants

	machine := vm.NewWithGlobalsStore(bytecode, r.globals)
	machine.SetWriter(writer)
	if err := machine.Run(); err != nil {
		redColor.Fprintf(writer, "[RUNTIME ERROR] %s\n", err)
		return
	}

	yellowColor.Fprintf(writer, "%s\n", machine.Result().ToString())
}
