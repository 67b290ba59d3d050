package compiler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/monkeylang/monkey/objects"
)

// Disassemble renders compiled bytecode for human inspection: the main
// instruction stream followed by the constants pool, with compiled
// function constants disassembled inline and indented. The compiler
// inspection mode of the CLI prints this.
func Disassemble(b *Bytecode) string {
	var out bytes.Buffer

	out.WriteString(b.Instructions.String())

	if len(b.Constants) == 0 {
		return out.String()
	}

	out.WriteString("\nConstants:\n")
	for i, constant := range b.Constants {
		switch constant := constant.(type) {
		case *objects.CompiledFunction:
			fmt.Fprintf(&out, "%d: %s\n", i, constant.ToObject())
			for _, line := range strings.Split(strings.TrimRight(constant.Instructions.String(), "\n"), "\n") {
				fmt.Fprintf(&out, "    %s\n", line)
			}
		default:
			fmt.Fprintf(&out, "%d: %s\n", i, constant.ToObject())
		}
	}

	return out.String()
}
