// Package printer implements the canonical source formatter: a pure
// AST-to-text printer driven by the parser's NodeVisitor interface.
//
// The output is canonical and the printer is idempotent: formatting its
// own output reproduces the same bytes. Rules:
//   - 4-space indentation, one statement per line at the top level
//   - block bodies indented one level; the opening brace ends the header
//     line and the closing brace sits on its own line, except that else
//     follows the closing brace on the same line
//   - one space around binary operators, none after prefix operators;
//     parentheses appear exactly where precedence requires them
//   - hash entries, array elements, call arguments, and function
//     parameters are comma-space separated on a single line
package printer

import (
	"bytes"
	"strconv"

	"github.com/monkeylang/monkey/lexer"
	"github.com/monkeylang/monkey/parser"
)

// atomPriority marks expressions that never need parentheses around them:
// literals, identifiers, calls, indexing, and the block-carrying
// expressions (if, fn). It compares above every operator priority.
const atomPriority = 200

// Printer renders an AST back to canonical source text. It implements
// parser.NodeVisitor; each Visit method renders its node at statement
// context, while expression nesting goes through printExpression with the
// surrounding precedence.
type Printer struct {
	Buf    bytes.Buffer // Accumulated output
	Indent int          // Current indentation depth, in levels
}

// New creates a Printer.
func New() *Printer {
	return &Printer{}
}

// Format renders a whole program to canonical source text.
func Format(root *parser.RootNode) string {
	p := New()
	root.Accept(p)
	return p.Buf.String()
}

// indentSize is the number of spaces per indentation level.
const indentSize = 4

// writeIndent writes the current indentation.
func (p *Printer) writeIndent() {
	for i := 0; i < p.Indent*indentSize; i++ {
		p.Buf.WriteByte(' ')
	}
}

// write appends literal text to the output.
func (p *Printer) write(s string) {
	p.Buf.WriteString(s)
}

// VisitRootNode renders the program: one statement per line at the top
// level.
func (p *Printer) VisitRootNode(node parser.RootNode) {
	for _, stmt := range node.Statements {
		p.writeIndent()
		p.printStatement(stmt)
		p.write("\n")
	}
}

// printStatement renders one statement at the current indentation. The
// caller has already written the indent.
func (p *Printer) printStatement(stmt parser.StatementNode) {
	switch s := stmt.(type) {
	case *parser.LetStatementNode:
		p.write("let " + s.Identifier.Name + " = ")
		p.printExpression(s.Expr, parser.MINIMUM_PRIORITY)
		p.write(";")
	case *parser.ReturnStatementNode:
		p.write("return ")
		p.printExpression(s.Expr, parser.MINIMUM_PRIORITY)
		p.write(";")
	case *parser.WhileStatementNode:
		p.write("while (")
		p.printExpression(s.Condition, parser.MINIMUM_PRIORITY)
		p.write(") ")
		p.printBlock(s.Body)
	case *parser.BreakStatementNode:
		p.write("break;")
	case *parser.ContinueStatementNode:
		p.write("continue;")
	case parser.ExpressionNode:
		p.printExpression(s, parser.MINIMUM_PRIORITY)
		// statements ending in a block read without a terminator
		if _, isIf := s.(*parser.IfExpressionNode); !isIf {
			p.write(";")
		}
	}
}

// printBlock renders a braced statement list: opening brace on the
// current line, each statement indented one level on its own line, and
// the closing brace back at the enclosing indentation.
func (p *Printer) printBlock(block *parser.BlockStatementNode) {
	p.write("{")
	if len(block.Statements) == 0 {
		p.write("}")
		return
	}
	p.write("\n")
	p.Indent++
	for _, stmt := range block.Statements {
		p.writeIndent()
		p.printStatement(stmt)
		p.write("\n")
	}
	p.Indent--
	p.writeIndent()
	p.write("}")
}

// operatorPriority returns the precedence of a binary operator. Operator
// literals double as their token types, so the parser's priority table
// answers directly.
func operatorPriority(operator string) int {
	if priority, ok := parser.PRIORITY_MAP[lexer.TokenType(operator)]; ok {
		return priority
	}
	return parser.MINIMUM_PRIORITY
}

// printExpression renders an expression inline. parentPriority is the
// precedence of the surrounding construct; the expression wraps itself in
// parentheses exactly when its own precedence binds looser, so the
// printed text reparses to the identical tree.
func (p *Printer) printExpression(expr parser.ExpressionNode, parentPriority int) {
	switch e := expr.(type) {
	case *parser.IntegerLiteralExpressionNode:
		p.write(strconv.FormatInt(e.Value, 10))
	case *parser.BooleanLiteralExpressionNode:
		p.write(strconv.FormatBool(e.Value))
	case *parser.StringLiteralExpressionNode:
		p.write("\"" + e.Value + "\"")
	case *parser.IdentifierExpressionNode:
		p.write(e.Name)

	case *parser.UnaryExpressionNode:
		wrap := parser.PREFIX_PRIORITY < parentPriority
		if wrap {
			p.write("(")
		}
		p.write(e.Operator)
		p.printExpression(e.Right, parser.PREFIX_PRIORITY)
		if wrap {
			p.write(")")
		}

	case *parser.BinaryExpressionNode:
		priority := operatorPriority(e.Operator)
		wrap := priority < parentPriority
		if wrap {
			p.write("(")
		}
		// binary operators are left-associative: the left child renders
		// unwrapped at equal precedence, the right child wraps
		p.printExpression(e.Left, priority)
		p.write(" " + e.Operator + " ")
		p.printExpression(e.Right, priority+1)
		if wrap {
			p.write(")")
		}

	case *parser.IfExpressionNode:
		p.write("if (")
		p.printExpression(e.Condition, parser.MINIMUM_PRIORITY)
		p.write(") ")
		p.printBlock(e.Consequence)
		if e.Alternative != nil {
			p.write(" else ")
			p.printBlock(e.Alternative)
		}

	case *parser.FunctionLiteralNode:
		p.write("fn(")
		for i, param := range e.Params {
			if i > 0 {
				p.write(", ")
			}
			p.write(param.Name)
		}
		p.write(") ")
		p.printBlock(e.Body)

	case *parser.CallExpressionNode:
		p.printExpression(e.Callee, parser.CALL_PRIORITY)
		p.write("(")
		for i, arg := range e.Args {
			if i > 0 {
				p.write(", ")
			}
			p.printExpression(arg, parser.MINIMUM_PRIORITY)
		}
		p.write(")")

	case *parser.ArrayExpressionNode:
		p.write("[")
		for i, el := range e.Elements {
			if i > 0 {
				p.write(", ")
			}
			p.printExpression(el, parser.MINIMUM_PRIORITY)
		}
		p.write("]")

	case *parser.HashExpressionNode:
		p.write("{")
		for i := range e.Keys {
			if i > 0 {
				p.write(", ")
			}
			p.printExpression(e.Keys[i], parser.MINIMUM_PRIORITY)
			p.write(": ")
			p.printExpression(e.Values[i], parser.MINIMUM_PRIORITY)
		}
		p.write("}")

	case *parser.IndexExpressionNode:
		p.printExpression(e.Left, parser.INDEX_PRIORITY)
		p.write("[")
		p.printExpression(e.Index, parser.MINIMUM_PRIORITY)
		p.write("]")
	}
}

// The remaining methods satisfy parser.NodeVisitor so a Printer can be
// handed anywhere a visitor is expected; each renders its node at the
// printer's current position.

func (p *Printer) VisitIntegerLiteralExpressionNode(node parser.IntegerLiteralExpressionNode) {
	p.printExpression(&node, parser.MINIMUM_PRIORITY)
}

func (p *Printer) VisitBooleanLiteralExpressionNode(node parser.BooleanLiteralExpressionNode) {
	p.printExpression(&node, parser.MINIMUM_PRIORITY)
}

func (p *Printer) VisitStringLiteralExpressionNode(node parser.StringLiteralExpressionNode) {
	p.printExpression(&node, parser.MINIMUM_PRIORITY)
}

func (p *Printer) VisitIdentifierExpressionNode(node parser.IdentifierExpressionNode) {
	p.printExpression(&node, parser.MINIMUM_PRIORITY)
}

func (p *Printer) VisitUnaryExpressionNode(node parser.UnaryExpressionNode) {
	p.printExpression(&node, parser.MINIMUM_PRIORITY)
}

func (p *Printer) VisitBinaryExpressionNode(node parser.BinaryExpressionNode) {
	p.printExpression(&node, parser.MINIMUM_PRIORITY)
}

func (p *Printer) VisitIfExpressionNode(node parser.IfExpressionNode) {
	p.printExpression(&node, parser.MINIMUM_PRIORITY)
}

func (p *Printer) VisitFunctionLiteralNode(node parser.FunctionLiteralNode) {
	p.printExpression(&node, parser.MINIMUM_PRIORITY)
}

func (p *Printer) VisitCallExpressionNode(node parser.CallExpressionNode) {
	p.printExpression(&node, parser.MINIMUM_PRIORITY)
}

func (p *Printer) VisitArrayExpressionNode(node parser.ArrayExpressionNode) {
	p.printExpression(&node, parser.MINIMUM_PRIORITY)
}

func (p *Printer) VisitHashExpressionNode(node parser.HashExpressionNode) {
	p.printExpression(&node, parser.MINIMUM_PRIORITY)
}

func (p *Printer) VisitIndexExpressionNode(node parser.IndexExpressionNode) {
	p.printExpression(&node, parser.MINIMUM_PRIORITY)
}

func (p *Printer) VisitLetStatementNode(node parser.LetStatementNode) {
	p.printStatement(&node)
}

func (p *Printer) VisitReturnStatementNode(node parser.ReturnStatementNode) {
	p.printStatement(&node)
}

func (p *Printer) VisitBlockStatementNode(node parser.BlockStatementNode) {
	p.printBlock(&node)
}

func (p *Printer) VisitWhileStatementNode(node parser.WhileStatementNode) {
	p.printStatement(&node)
}

func (p *Printer) VisitBreakStatementNode(node parser.BreakStatementNode) {
	p.printStatement(&node)
}

func (p *Printer) VisitContinueStatementNode(node parser.ContinueStatementNode) {
	p.printStatement(&node)
}
