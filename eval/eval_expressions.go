package eval

import (
	"github.com/monkeylang/monkey/function"
	"github.com/monkeylang/monkey/objects"
	"github.com/monkeylang/monkey/parser"
	"github.com/monkeylang/monkey/scope"
	"github.com/monkeylang/monkey/std"
)

// Eval is the central dispatch of the tree-walking evaluator. It inspects
// the node's concrete type and delegates to the matching evaluation rule.
//
// The program's value is the value of its last statement, or null for an
// empty program. Return sentinels unwrap at the program boundary; a break
// or continue that escapes all loops is a runtime error.
func (e *Evaluator) Eval(n parser.Node) objects.MonkeyObject {
	switch n := n.(type) {
	case *parser.RootNode:
		result := e.evalStatements(n.Statements)
		switch result.GetType() {
		case objects.BreakType:
			return e.CreateError("ERROR: break outside loop")
		case objects.ContinueType:
			return e.CreateError("ERROR: continue outside loop")
		}
		return UnwrapReturnValue(result)

	case *parser.IntegerLiteralExpressionNode:
		return &objects.Integer{Value: n.Value}
	case *parser.BooleanLiteralExpressionNode:
		return objects.BooleanFor(n.Value)
	case *parser.StringLiteralExpressionNode:
		return &objects.String{Value: n.Value}

	case *parser.IdentifierExpressionNode:
		return e.evalIdentifierExpression(n)
	case *parser.UnaryExpressionNode:
		return e.evalUnaryExpression(n)
	case *parser.BinaryExpressionNode:
		return e.evalBinaryExpression(n)
	case *parser.IfExpressionNode:
		return e.evalIfExpression(n)
	case *parser.FunctionLiteralNode:
		return &function.Function{
			Name:   n.Name,
			Params: n.Params,
			Body:   n.Body,
			Scp:    e.Scp, // capture the defining scope by reference
		}
	case *parser.CallExpressionNode:
		return e.evalCallExpression(n)
	case *parser.ArrayExpressionNode:
		return e.evalArrayExpression(n)
	case *parser.HashExpressionNode:
		return e.evalHashExpression(n)
	case *parser.IndexExpressionNode:
		return e.evalIndexExpression(n)

	case *parser.LetStatementNode:
		return e.evalLetStatement(n)
	case *parser.ReturnStatementNode:
		return e.evalReturnStatement(n)
	case *parser.BlockStatementNode:
		return e.evalBlockStatement(n)
	case *parser.WhileStatementNode:
		return e.evalWhileStatement(n)
	case *parser.BreakStatementNode:
		return objects.BREAK
	case *parser.ContinueStatementNode:
		return objects.CONTINUE

	default:
		return objects.NULL
	}
}

// evalIdentifierExpression resolves a name against the scope chain, then
// against the builtin registry. An unresolvable name is a runtime error.
func (e *Evaluator) evalIdentifierExpression(n *parser.IdentifierExpressionNode) objects.MonkeyObject {
	if obj, ok := e.Scp.LookUp(n.Name); ok {
		return obj
	}
	if builtin, ok := e.Builtins[n.Name]; ok {
		return builtin
	}
	return e.CreateError("ERROR: identifier not found: %s", n.Name)
}

// evalUnaryExpression evaluates !x and -x.
func (e *Evaluator) evalUnaryExpression(n *parser.UnaryExpressionNode) objects.MonkeyObject {
	right := e.Eval(n.Right)
	if IsError(right) {
		return right
	}

	switch n.Operator {
	case "!":
		return objects.BooleanFor(!IsTruthy(right))
	case "-":
		integer, ok := right.(*objects.Integer)
		if !ok {
			return e.CreateError("ERROR: unknown operator: -%s", right.GetType())
		}
		return &objects.Integer{Value: -integer.Value}
	default:
		return e.CreateError("ERROR: unknown operator: %s%s", n.Operator, right.GetType())
	}
}

// evalBinaryExpression evaluates infix operations. The short-circuit
// logical operators are handled before the right operand is evaluated;
// everything else evaluates both sides first.
func (e *Evaluator) evalBinaryExpression(n *parser.BinaryExpressionNode) objects.MonkeyObject {
	// && and || short-circuit: the result is the last evaluated operand,
	// not a coerced boolean.
	if n.Operator == "&&" || n.Operator == "||" {
		left := e.Eval(n.Left)
		if IsError(left) {
			return left
		}
		if n.Operator == "&&" && !IsTruthy(left) {
			return left
		}
		if n.Operator == "||" && IsTruthy(left) {
			return left
		}
		return e.Eval(n.Right)
	}

	left := e.Eval(n.Left)
	if IsError(left) {
		return left
	}
	right := e.Eval(n.Right)
	if IsError(right) {
		return right
	}

	// == and != are defined on any two values: structural equality within
	// the same variant, never equal across variants.
	switch n.Operator {
	case "==":
		return objects.BooleanFor(objects.Equals(left, right))
	case "!=":
		return objects.BooleanFor(!objects.Equals(left, right))
	}

	switch {
	case left.GetType() == objects.IntegerType && right.GetType() == objects.IntegerType:
		return e.evalIntegerBinaryExpression(n.Operator, left.(*objects.Integer), right.(*objects.Integer))
	case left.GetType() == objects.StringType && right.GetType() == objects.StringType:
		return e.evalStringBinaryExpression(n.Operator, left.(*objects.String), right.(*objects.String))
	case left.GetType() != right.GetType():
		return e.CreateError("ERROR: type mismatch: %s %s %s", left.GetType(), n.Operator, right.GetType())
	default:
		return e.CreateError("ERROR: unknown operator: %s %s %s", left.GetType(), n.Operator, right.GetType())
	}
}

// evalIntegerBinaryExpression implements arithmetic and ordering on
// integers. Division truncates toward zero; division or modulo by zero is
// a runtime error.
func (e *Evaluator) evalIntegerBinaryExpression(operator string, left, right *objects.Integer) objects.MonkeyObject {
	switch operator {
	case "+":
		return &objects.Integer{Value: left.Value + right.Value}
	case "-":
		return &objects.Integer{Value: left.Value - right.Value}
	case "*":
		return &objects.Integer{Value: left.Value * right.Value}
	case "/":
		if right.Value == 0 {
			return e.CreateError("ERROR: division by zero")
		}
		return &objects.Integer{Value: left.Value / right.Value}
	case "%":
		if right.Value == 0 {
			return e.CreateError("ERROR: modulo by zero")
		}
		return &objects.Integer{Value: left.Value % right.Value}
	case "<":
		return objects.BooleanFor(left.Value < right.Value)
	case ">":
		return objects.BooleanFor(left.Value > right.Value)
	case "<=":
		return objects.BooleanFor(left.Value <= right.Value)
	case ">=":
		return objects.BooleanFor(left.Value >= right.Value)
	default:
		return e.CreateError("ERROR: unknown operator: int %s int", operator)
	}
}

// evalStringBinaryExpression implements string operations: only
// concatenation; comparisons beyond ==/!= are integer-only.
func (e *Evaluator) evalStringBinaryExpression(operator string, left, right *objects.String) objects.MonkeyObject {
	if operator != "+" {
		return e.CreateError("ERROR: unknown operator: string %s string", operator)
	}
	return &objects.String{Value: left.Value + right.Value}
}

// evalCallExpression evaluates the callee, then the arguments left to
// right, then applies. Errors short-circuit at each step.
func (e *Evaluator) evalCallExpression(n *parser.CallExpressionNode) objects.MonkeyObject {
	callee := e.Eval(n.Callee)
	if IsError(callee) {
		return callee
	}

	args := make([]objects.MonkeyObject, 0, len(n.Args))
	for _, argNode := range n.Args {
		arg := e.Eval(argNode)
		if IsError(arg) {
			return arg
		}
		args = append(args, arg)
	}

	return e.CallFunction(callee, args...)
}

// CallFunction applies a callable object to already-evaluated arguments.
// Functions bind parameters positionally in a fresh scope extending the
// captured one; builtins receive the evaluator's writer.
func (e *Evaluator) CallFunction(callee objects.MonkeyObject, args ...objects.MonkeyObject) objects.MonkeyObject {
	switch callee := callee.(type) {
	case *function.Function:
		return e.applyFunction(callee, args)
	case *std.Builtin:
		return callee.Callback(e.Writer, args...)
	default:
		return e.CreateError("ERROR: not a function: %s", callee.GetType())
	}
}

// applyFunction installs a per-call scope over the function's captured
// scope, binds the parameters, evaluates the body, and unwraps the return
// sentinel at the function boundary. A break or continue escaping the body
// is a runtime error.
func (e *Evaluator) applyFunction(fn *function.Function, args []objects.MonkeyObject) objects.MonkeyObject {
	if len(args) != len(fn.Params) {
		return e.CreateError("ERROR: wrong number of arguments: want %d, got %d",
			len(fn.Params), len(args))
	}

	callScope := scope.NewScope(fn.Scp)
	for i, param := range fn.Params {
		callScope.Bind(param.Name, args[i])
	}

	prev := e.Scp
	e.Scp = callScope
	result := e.Eval(fn.Body)
	e.Scp = prev

	switch result.GetType() {
	case objects.BreakType:
		return e.CreateError("ERROR: break outside loop")
	case objects.ContinueType:
		return e.CreateError("ERROR: continue outside loop")
	}

	return UnwrapReturnValue(result)
}

// evalArrayExpression evaluates array elements left to right.
func (e *Evaluator) evalArrayExpression(n *parser.ArrayExpressionNode) objects.MonkeyObject {
	elements := make([]objects.MonkeyObject, 0, len(n.Elements))
	for _, elNode := range n.Elements {
		el := e.Eval(elNode)
		if IsError(el) {
			return el
		}
		elements = append(elements, el)
	}
	return &objects.Array{Elements: elements}
}

// evalHashExpression evaluates hash entries in source order, which becomes
// the hash's observable insertion order. Keys must be hashable.
func (e *Evaluator) evalHashExpression(n *parser.HashExpressionNode) objects.MonkeyObject {
	hash := objects.NewHash()

	for i := range n.Keys {
		key := e.Eval(n.Keys[i])
		if IsError(key) {
			return key
		}
		hashable, ok := key.(objects.Hashable)
		if !ok {
			return e.CreateError("ERROR: unusable as hash key: %s", key.GetType())
		}

		value := e.Eval(n.Values[i])
		if IsError(value) {
			return value
		}

		hash.Set(hashable, value)
	}

	return hash
}

// evalIndexExpression evaluates container[key]. Arrays take integer keys
// and yield null out of range; hashes take hashable keys and yield null
// for missing entries; anything else is a runtime error.
func (e *Evaluator) evalIndexExpression(n *parser.IndexExpressionNode) objects.MonkeyObject {
	left := e.Eval(n.Left)
	if IsError(left) {
		return left
	}
	index := e.Eval(n.Index)
	if IsError(index) {
		return index
	}

	switch container := left.(type) {
	case *objects.Array:
		idx, ok := index.(*objects.Integer)
		if !ok {
			return e.CreateError("ERROR: array index must be int, got %s", index.GetType())
		}
		if idx.Value < 0 || idx.Value >= int64(len(container.Elements)) {
			return objects.NULL
		}
		return container.Elements[idx.Value]

	case *objects.Hash:
		key, ok := index.(objects.Hashable)
		if !ok {
			return e.CreateError("ERROR: unusable as hash key: %s", index.GetType())
		}
		value, ok := container.Get(key)
		if !ok {
			return objects.NULL
		}
		return value

	default:
		return e.CreateError("ERROR: index operator not supported: %s", left.GetType())
	}
}
