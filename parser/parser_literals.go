package parser

import (
	"strconv"

	"github.com/monkeylang/monkey/lexer"
)

// parseIntegerLiteral parses a decimal integer literal into an int64.
// Digits that overflow int64 are a parse error.
func (par *Parser) parseIntegerLiteral() ExpressionNode {
	value, err := strconv.ParseInt(par.CurrToken.Literal, 10, 64)
	if err != nil {
		par.createError("line %d: could not parse '%s' as integer",
			par.CurrToken.Line, par.CurrToken.Literal)
		return nil
	}

	return &IntegerLiteralExpressionNode{
		Token: par.CurrToken,
		Value: value,
	}
}

// parseBooleanLiteral parses true or false.
func (par *Parser) parseBooleanLiteral() ExpressionNode {
	return &BooleanLiteralExpressionNode{
		Token: par.CurrToken,
		Value: par.CurrToken.Type == lexer.TRUE_KEY,
	}
}

// parseStringLiteral parses a string literal. The token's literal already
// holds the body between the quotes, verbatim.
func (par *Parser) parseStringLiteral() ExpressionNode {
	return &StringLiteralExpressionNode{
		Token: par.CurrToken,
		Value: par.CurrToken.Literal,
	}
}

// parseFunctionLiteral parses a function literal:
//
//	fn(<param>, ...) { <body> }
func (par *Parser) parseFunctionLiteral() ExpressionNode {
	node := &FunctionLiteralNode{Token: par.CurrToken}

	if !par.expectNext(lexer.LEFT_PAREN) {
		return nil
	}

	node.Params = par.parseFunctionParams()
	if node.Params == nil {
		return nil
	}

	if !par.expectNext(lexer.LEFT_BRACE) {
		return nil
	}

	node.Body = par.parseBlockStatement()
	if node.Body == nil {
		return nil
	}

	return node
}

// parseFunctionParams parses the comma-separated parameter names of a
// function literal. The current token is the opening parenthesis on entry
// and the closing one on exit. Returns nil on error; a parameterless
// function yields an empty (non-nil) slice.
func (par *Parser) parseFunctionParams() []*IdentifierExpressionNode {
	params := make([]*IdentifierExpressionNode, 0)

	if par.NextToken.Type == lexer.RIGHT_PAREN {
		par.advance()
		return params
	}

	if !par.expectNext(lexer.IDENTIFIER_ID) {
		return nil
	}
	params = append(params, &IdentifierExpressionNode{
		Token: par.CurrToken,
		Name:  par.CurrToken.Literal,
	})

	for par.NextToken.Type == lexer.COMMA_DELIM {
		par.advance()
		if !par.expectNext(lexer.IDENTIFIER_ID) {
			return nil
		}
		params = append(params, &IdentifierExpressionNode{
			Token: par.CurrToken,
			Name:  par.CurrToken.Literal,
		})
	}

	if !par.expectNext(lexer.RIGHT_PAREN) {
		return nil
	}

	return params
}

// parseArrayLiteral parses an array literal: [e1, e2, ...].
func (par *Parser) parseArrayLiteral() ExpressionNode {
	node := &ArrayExpressionNode{Token: par.CurrToken}

	node.Elements = par.parseExpressionList(lexer.RIGHT_BRACKET)
	if node.Elements == nil {
		return nil
	}

	return node
}

// parseHashLiteral parses a hash literal: {k1: v1, k2: v2, ...}.
// Keys and values may be arbitrary expressions; whether a key is hashable
// is a runtime question. Trailing commas are not permitted.
func (par *Parser) parseHashLiteral() ExpressionNode {
	node := &HashExpressionNode{
		Token:  par.CurrToken,
		Keys:   make([]ExpressionNode, 0),
		Values: make([]ExpressionNode, 0),
	}

	for par.NextToken.Type != lexer.RIGHT_BRACE {
		par.advance()
		key := par.parseExpression(MINIMUM_PRIORITY)
		if key == nil {
			return nil
		}

		if !par.expectNext(lexer.COLON_DELIM) {
			return nil
		}
		par.advance()

		value := par.parseExpression(MINIMUM_PRIORITY)
		if value == nil {
			return nil
		}

		node.Keys = append(node.Keys, key)
		node.Values = append(node.Values, value)

		if par.NextToken.Type != lexer.RIGHT_BRACE {
			if !par.expectNext(lexer.COMMA_DELIM) {
				return nil
			}
			// a comma must introduce another entry
			if par.NextToken.Type == lexer.RIGHT_BRACE {
				par.createError("line %d: trailing comma in hash literal", par.CurrToken.Line)
				return nil
			}
		}
	}

	if !par.expectNext(lexer.RIGHT_BRACE) {
		return nil
	}

	return node
}
