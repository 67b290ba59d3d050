// Package cmd implements the monkey CLI: the REPL, the file runner, and
// the pipeline inspection modes.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monkeylang/monkey/repl"
)

// Version information (set by build flags)
var Version = "0.1.0-dev"

// mode selects which pipeline artifact a file run emits.
var mode string

// PROMPT is the command prompt displayed in REPL mode
const PROMPT = ">> "

// LINE is a separator line used for visual formatting in the REPL
const LINE = "----------------------------------------------------------------"

// BANNER is the ASCII art logo displayed when starting the REPL
const BANNER = `
  __  __             _
 |  \/  | ___  _ __ | | _____ _   _
 | |\/| |/ _ \| '_ \| |/ / _ \ | | |
 | |  | | (_) | | | |   <  __/ |_| |
 |_|  |_|\___/|_| |_|_|\_\___|\__, |
                              |___/
`

var rootCmd = &cobra.Command{
	Use:   "monkey [file]",
	Short: "Monkey interpreter and compiler",
	Long: `monkey runs programs written in the Monkey programming language —
a small, dynamically-typed, C-syntax language with first-class
functions, closures, integers, booleans, strings, arrays, and hashes.

Without arguments, monkey starts an interactive REPL. With a file
argument it runs the file; the --mode flag selects which pipeline
artifact to emit instead of running:

  interpreter   evaluate the program and print its value (default)
  compiler      compile the program and print bytecode disassembly
  parser        parse the program and print the formatted AST
  lexer         print the token stream

Examples:
  # Start the REPL
  monkey

  # Run a script
  monkey script.monkey

  # Inspect the bytecode the compiler produces
  monkey script.monkey --mode compiler

  # Inspect the token stream
  monkey script.monkey --mode lexer`,
	Args:    cobra.MaximumNArgs(1),
	Version: Version,
	RunE:    runMonkey,
	// diagnostics are printed where they happen; cobra only reports
	// usage errors
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVar(&mode, "mode", "interpreter",
		"pipeline artifact to emit: interpreter, compiler, parser, or lexer")
}

// runMonkey dispatches between REPL mode (no file argument) and file mode.
func runMonkey(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		repler := repl.NewRepl(BANNER, Version, LINE, "MIT", PROMPT)
		repler.Start(os.Stdin, os.Stdout)
		return nil
	}

	fileName := args[0]
	src, err := os.ReadFile(fileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not read %s: %v\n", fileName, err)
		return err
	}

	switch mode {
	case "interpreter":
		return runInterpreter(string(src))
	case "compiler":
		return runCompilerDump(string(src))
	case "parser":
		return runParserDump(string(src))
	case "lexer":
		return runLexerDump(string(src))
	default:
		err := fmt.Errorf("unknown mode: %s (use interpreter, compiler, parser, or lexer)", mode)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
}
