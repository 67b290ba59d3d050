// Package cmd implements the monkeyfmt CLI: the canonical source
// formatter for Monkey programs.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monkeylang/monkey/parser"
	"github.com/monkeylang/monkey/printer"
)

// fmtRewrite selects overwriting the source file instead of printing to
// standard output.
var fmtRewrite bool

var rootCmd = &cobra.Command{
	Use:   "monkeyfmt <file>",
	Short: "Format Monkey source files",
	Long: `monkeyfmt formats Monkey source code using the AST-driven formatter.

The formatter reads Monkey source code, parses it, and pretty-prints it
back with canonical formatting: 4-space indentation, one statement per
line, and canonical operator spacing. Formatting is idempotent.

Examples:
  # Format to stdout
  monkeyfmt script.monkey

  # Overwrite the file with its formatted version
  monkeyfmt -r script.monkey`,
	Args:          cobra.ExactArgs(1),
	RunE:          runFmt,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVarP(&fmtRewrite, "rewrite", "r", false,
		"overwrite the file with formatted source instead of printing")
}

// runFmt parses and formats one file. Parse errors go to standard error
// and leave the file untouched.
func runFmt(cmd *cobra.Command, args []string) error {
	fileName := args[0]
	src, err := os.ReadFile(fileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not read %s: %v\n", fileName, err)
		return err
	}

	par := parser.NewParser(string(src))
	root := par.Parse()
	if par.HasErrors() {
		for _, msg := range par.Errors {
			fmt.Fprintf(os.Stderr, "[PARSE ERROR] %s\n", msg)
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(par.Errors))
	}

	formatted := printer.Format(root)

	if fmtRewrite {
		info, err := os.Stat(fileName)
		if err != nil {
			return err
		}
		if err := os.WriteFile(fileName, []byte(formatted), info.Mode().Perm()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: could not write %s: %v\n", fileName, err)
			return err
		}
		return nil
	}

	fmt.Print(formatted)
	return nil
}
