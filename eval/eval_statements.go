package eval

import (
	"github.com/monkeylang/monkey/objects"
	"github.com/monkeylang/monkey/parser"
)

// evalStatements evaluates a sequence of statements in order, with early
// termination:
//   - an error stops evaluation immediately and propagates,
//   - a return sentinel propagates through nested blocks without executing
//     further statements,
//   - break and continue sentinels do the same until a loop handles them.
//
// The sequence's value is the value of its last statement, or null when
// the sequence is empty.
func (e *Evaluator) evalStatements(statements []parser.StatementNode) objects.MonkeyObject {
	var result objects.MonkeyObject = objects.NULL

	for _, stmt := range statements {
		result = e.Eval(stmt)

		switch result.GetType() {
		case objects.ErrorType, objects.ReturnType, objects.BreakType, objects.ContinueType:
			return result
		}
	}

	return result
}

// evalBlockStatement evaluates a block's statements in the current scope.
// Blocks do not open a fresh scope; only function calls do. A let inside a
// loop body therefore rebinds in the scope the loop runs in, which is what
// lets a while counter advance.
func (e *Evaluator) evalBlockStatement(n *parser.BlockStatementNode) objects.MonkeyObject {
	return e.evalStatements(n.Statements)
}

// evalLetStatement evaluates the bound expression and binds it in the
// current scope. A name already bound in this scope is rebound
// (shadowing replaces the binding in the current frame). The statement's
// value is null, matching the bytecode backend where a binding leaves
// nothing on the stack.
func (e *Evaluator) evalLetStatement(n *parser.LetStatementNode) objects.MonkeyObject {
	val := e.Eval(n.Expr)
	if IsError(val) {
		return val
	}

	e.Scp.Bind(n.Identifier.Name, val)
	return objects.NULL
}

// evalReturnStatement wraps the returned value in the return sentinel,
// which block evaluation propagates and function application unwraps.
func (e *Evaluator) evalReturnStatement(n *parser.ReturnStatementNode) objects.MonkeyObject {
	val := e.Eval(n.Expr)
	if IsError(val) {
		return val
	}
	return &objects.ReturnValue{Value: val}
}

// evalIfExpression evaluates the branch whose condition is truthy.
// A missing else yields null.
func (e *Evaluator) evalIfExpression(n *parser.IfExpressionNode) objects.MonkeyObject {
	condition := e.Eval(n.Condition)
	if IsError(condition) {
		return condition
	}

	if IsTruthy(condition) {
		return e.evalBlockStatement(n.Consequence)
	}
	if n.Alternative != nil {
		return e.evalBlockStatement(n.Alternative)
	}
	return objects.NULL
}
