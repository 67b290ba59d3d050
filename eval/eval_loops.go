package eval

import (
	"github.com/monkeylang/monkey/objects"
	"github.com/monkeylang/monkey/parser"
)

// evalWhileStatement repeatedly evaluates the body while the condition is
// truthy. The body runs in the current scope, so lets inside it rebind
// the enclosing bindings and the condition observes the updates.
//
// A break sentinel leaves the loop; a continue sentinel skips to the next
// condition check. Errors and return sentinels propagate out of the loop.
// The loop's value is null.
func (e *Evaluator) evalWhileStatement(n *parser.WhileStatementNode) objects.MonkeyObject {
	for {
		condition := e.Eval(n.Condition)
		if IsError(condition) {
			return condition
		}
		if !IsTruthy(condition) {
			break
		}

		result := e.evalBlockStatement(n.Body)
		switch result.GetType() {
		case objects.ErrorType, objects.ReturnType:
			return result
		case objects.BreakType:
			return objects.NULL
		case objects.ContinueType:
			continue
		}
	}

	return objects.NULL
}
