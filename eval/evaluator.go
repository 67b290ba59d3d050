// Package eval implements the tree-walking evaluator for Monkey.
//
// The evaluator walks the AST produced by the parser, resolving names
// against a chain of lexical scopes and producing runtime objects. It is
// one of the language's two execution backends; the other is the bytecode
// compiler plus VM. The two agree on observable behavior except for the
// ordering comparisons < and <=: the VM evaluates their right operand first
// and reports their errors as > or >= with the operand types swapped.
package eval

import (
	"fmt"
	"io"
	"os"

	"github.com/monkeylang/monkey/objects"
	"github.com/monkeylang/monkey/parser"
	"github.com/monkeylang/monkey/scope"
	"github.com/monkeylang/monkey/std"
)

// Evaluator holds the state for evaluating Monkey AST nodes: the current
// scope, the builtin registry, and the output writer used by puts.
type Evaluator struct {
	Par      *parser.Parser          // Parser instance, for diagnostics (may be nil)
	Scp      *scope.Scope            // Current scope for variable bindings
	Builtins map[string]*std.Builtin // Builtin functions by name
	Writer   io.Writer               // Output writer for puts (default: os.Stdout)
}

// NewEvaluator creates and initializes a new Evaluator with a fresh global
// scope, the full builtin registry, and stdout as the output writer.
//
// Example usage:
//
//	ev := NewEvaluator()
//	result := ev.Eval(parser.NewParser(src).Parse())
func NewEvaluator() *Evaluator {
	ev := &Evaluator{
		Par:      nil,
		Scp:      scope.NewScope(nil),
		Builtins: make(map[string]*std.Builtin),
		Writer:   os.Stdout,
	}
	for _, builtin := range std.Builtins {
		ev.Builtins[builtin.Name] = builtin
	}
	return ev
}

// SetWriter redirects the output of puts to any io.Writer. This is used by
// tests to capture output and by the REPL to write through its own writer.
func (e *Evaluator) SetWriter(w io.Writer) {
	e.Writer = w
}

// SetParser assigns a parser instance to the evaluator for diagnostics.
func (e *Evaluator) SetParser(p *parser.Parser) {
	e.Par = p
}

// CreateError builds a Monkey error object. Once produced, an error
// propagates up through all enclosing evaluations unchanged.
func (e *Evaluator) CreateError(format string, args ...interface{}) *objects.Error {
	return &objects.Error{Message: fmt.Sprintf(format, args...)}
}

// IsError reports whether the object is a runtime error.
func IsError(obj objects.MonkeyObject) bool {
	if obj == nil {
		return false
	}
	return obj.GetType() == objects.ErrorType
}

// IsTruthy implements the language's truthiness rule: false and null are
// falsy, every other value (including 0 and "") is truthy.
func IsTruthy(obj objects.MonkeyObject) bool {
	switch obj := obj.(type) {
	case *objects.Boolean:
		return obj.Value
	case *objects.Null:
		return false
	default:
		return true
	}
}

// UnwrapReturnValue strips the return sentinel at a function or program
// boundary, yielding the carried value.
func UnwrapReturnValue(obj objects.MonkeyObject) objects.MonkeyObject {
	if rv, ok := obj.(*objects.ReturnValue); ok {
		return rv.Value
	}
	return obj
}
