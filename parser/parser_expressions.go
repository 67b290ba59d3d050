package parser

import (
	"github.com/monkeylang/monkey/lexer"
)

// parseExpression is the heart of the Pratt parser. It consumes one prefix
// construct and then keeps folding infix constructs into the left-hand side
// for as long as the lookahead token binds tighter than the caller's
// precedence.
func (par *Parser) parseExpression(precedence int) ExpressionNode {
	unaryFn, ok := par.UnaryFuncs[par.CurrToken.Type]
	if !ok {
		par.createError("line %d: no prefix parse function for '%s'",
			par.CurrToken.Line, par.CurrToken.Type)
		return nil
	}

	left := unaryFn()
	if left == nil {
		return nil
	}

	for par.NextToken.Type != lexer.SEMICOLON_DELIM && precedence < par.nextPrecedence() {
		binaryFn, ok := par.BinaryFuncs[par.NextToken.Type]
		if !ok {
			return left
		}
		par.advance()
		left = binaryFn(left)
		if left == nil {
			return nil
		}
	}

	return left
}

// parseExpressionStatement parses a bare expression at statement position.
// A trailing semicolon is optional and consumed when present.
func (par *Parser) parseExpressionStatement() StatementNode {
	expr := par.parseExpression(MINIMUM_PRIORITY)
	if expr == nil {
		return nil
	}

	if par.NextToken.Type == lexer.SEMICOLON_DELIM {
		par.advance()
	}

	return expr
}

// parseIdentifierExpression parses a user-defined name.
func (par *Parser) parseIdentifierExpression() ExpressionNode {
	return &IdentifierExpressionNode{
		Token: par.CurrToken,
		Name:  par.CurrToken.Literal,
	}
}

// parseUnaryExpression parses a prefix operation: !x or -x.
// The operand is parsed at PREFIX_PRIORITY, which makes prefix operators
// right-associative: --a parses as -(-a).
func (par *Parser) parseUnaryExpression() ExpressionNode {
	node := &UnaryExpressionNode{
		Token:    par.CurrToken,
		Operator: par.CurrToken.Literal,
	}

	par.advance()
	node.Right = par.parseExpression(PREFIX_PRIORITY)
	if node.Right == nil {
		return nil
	}

	return node
}

// parseBinaryExpression parses an infix operation. The right operand is
// parsed at the operator's own precedence, which makes binary operators
// left-associative.
func (par *Parser) parseBinaryExpression(left ExpressionNode) ExpressionNode {
	node := &BinaryExpressionNode{
		Token:    par.CurrToken,
		Operator: par.CurrToken.Literal,
		Left:     left,
	}

	precedence := par.currPrecedence()
	par.advance()
	node.Right = par.parseExpression(precedence)
	if node.Right == nil {
		return nil
	}

	return node
}

// parseGroupedExpression parses a parenthesized expression: (a + b).
// The parentheses only steer precedence; no node survives them.
func (par *Parser) parseGroupedExpression() ExpressionNode {
	par.advance()

	expr := par.parseExpression(MINIMUM_PRIORITY)
	if expr == nil {
		return nil
	}

	if !par.expectNext(lexer.RIGHT_PAREN) {
		return nil
	}

	return expr
}

// parseIfExpression parses a conditional with an optional else branch:
//
//	if (cond) { consequence } else { alternative }
func (par *Parser) parseIfExpression() ExpressionNode {
	node := &IfExpressionNode{Token: par.CurrToken}

	if !par.expectNext(lexer.LEFT_PAREN) {
		return nil
	}
	par.advance()

	node.Condition = par.parseExpression(MINIMUM_PRIORITY)
	if node.Condition == nil {
		return nil
	}

	if !par.expectNext(lexer.RIGHT_PAREN) {
		return nil
	}
	if !par.expectNext(lexer.LEFT_BRACE) {
		return nil
	}

	node.Consequence = par.parseBlockStatement()
	if node.Consequence == nil {
		return nil
	}

	if par.NextToken.Type == lexer.ELSE_KEY {
		par.advance()
		if !par.expectNext(lexer.LEFT_BRACE) {
			return nil
		}
		node.Alternative = par.parseBlockStatement()
		if node.Alternative == nil {
			return nil
		}
	}

	return node
}

// parseCallExpression parses a function call on an already-parsed callee.
func (par *Parser) parseCallExpression(callee ExpressionNode) ExpressionNode {
	node := &CallExpressionNode{
		Token:  par.CurrToken,
		Callee: callee,
	}

	node.Args = par.parseExpressionList(lexer.RIGHT_PAREN)
	if node.Args == nil {
		return nil
	}

	return node
}

// parseIndexExpression parses container indexing on an already-parsed
// container expression: arr[i].
func (par *Parser) parseIndexExpression(left ExpressionNode) ExpressionNode {
	node := &IndexExpressionNode{
		Token: par.CurrToken,
		Left:  left,
	}

	par.advance()
	node.Index = par.parseExpression(MINIMUM_PRIORITY)
	if node.Index == nil {
		return nil
	}

	if !par.expectNext(lexer.RIGHT_BRACKET) {
		return nil
	}

	return node
}

// parseExpressionList parses a comma-separated expression list up to the
// given closing token. Used for call arguments and array literals.
// Trailing commas are not permitted. Returns nil on error; an empty list
// parses to an empty (non-nil) slice.
func (par *Parser) parseExpressionList(closer lexer.TokenType) []ExpressionNode {
	list := make([]ExpressionNode, 0)

	if par.NextToken.Type == closer {
		par.advance()
		return list
	}

	par.advance()
	first := par.parseExpression(MINIMUM_PRIORITY)
	if first == nil {
		return nil
	}
	list = append(list, first)

	for par.NextToken.Type == lexer.COMMA_DELIM {
		par.advance()
		par.advance()
		next := par.parseExpression(MINIMUM_PRIORITY)
		if next == nil {
			return nil
		}
		list = append(list, next)
	}

	if !par.expectNext(closer) {
		return nil
	}

	return list
}
