// Package function defines the tree-walking function object: a function
// literal paired with the scope it was defined in. It lives in its own
// package (rather than objects) because it references both the AST and the
// scope chain, and the scope package already depends on objects.
package function

import (
	"bytes"

	"github.com/monkeylang/monkey/objects"
	"github.com/monkeylang/monkey/parser"
	"github.com/monkeylang/monkey/scope"
)

// Function represents a closure in the tree-walking evaluator: the
// parameter list and body from the function literal plus the scope that
// was current at definition time. Calls bind arguments positionally in a
// fresh scope extending Scp, which is what gives the evaluator lexical
// capture.
type Function struct {
	Name   string                             // Optional name hint from let (diagnostics, recursion)
	Params []*parser.IdentifierExpressionNode // Parameter names, in order
	Body   *parser.BlockStatementNode         // The function body
	Scp    *scope.Scope                       // The defining scope, captured by reference
}

// GetType returns the type of the Function object.
func (f *Function) GetType() objects.MonkeyType {
	return objects.FunctionType
}

// ToString returns an opaque placeholder for the function.
func (f *Function) ToString() string {
	return "<fn>"
}

// ToObject returns a detailed representation showing the signature.
func (f *Function) ToObject() string {
	var out bytes.Buffer
	out.WriteString("fn")
	if f.Name != "" {
		out.WriteString(" " + f.Name)
	}
	out.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(p.Name)
	}
	out.WriteString(")")
	return out.String()
}
