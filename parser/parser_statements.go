package parser

import (
	"github.com/monkeylang/monkey/lexer"
)

// parseLetStatement parses a let binding:
//
//	let <identifier> = <expression>;
//
// When the bound expression is a function literal, the identifier is
// recorded on the literal as a name hint. The hint drives recursive
// self-reference compilation and diagnostics; the binding itself is done
// by the backends.
func (par *Parser) parseLetStatement() StatementNode {
	node := &LetStatementNode{Token: par.CurrToken}

	if !par.expectNext(lexer.IDENTIFIER_ID) {
		return nil
	}
	node.Identifier = &IdentifierExpressionNode{
		Token: par.CurrToken,
		Name:  par.CurrToken.Literal,
	}

	if !par.expectNext(lexer.ASSIGN_OP) {
		return nil
	}
	par.advance()

	node.Expr = par.parseExpression(MINIMUM_PRIORITY)
	if node.Expr == nil {
		return nil
	}

	if fl, ok := node.Expr.(*FunctionLiteralNode); ok {
		fl.Name = node.Identifier.Name
	}

	if par.NextToken.Type == lexer.SEMICOLON_DELIM {
		par.advance()
	}

	return node
}

// parseReturnStatement parses a return statement:
//
//	return <expression>;
func (par *Parser) parseReturnStatement() StatementNode {
	node := &ReturnStatementNode{Token: par.CurrToken}

	par.advance()
	node.Expr = par.parseExpression(MINIMUM_PRIORITY)
	if node.Expr == nil {
		return nil
	}

	if par.NextToken.Type == lexer.SEMICOLON_DELIM {
		par.advance()
	}

	return node
}

// parseBlockStatement parses a braced statement list. The current token is
// the opening brace on entry and the closing brace on exit.
func (par *Parser) parseBlockStatement() *BlockStatementNode {
	node := &BlockStatementNode{
		Token:      par.CurrToken,
		Statements: make([]StatementNode, 0),
	}

	par.advance()
	for par.CurrToken.Type != lexer.RIGHT_BRACE && par.CurrToken.Type != lexer.EOF_TYPE {
		stmt := par.parseStatement()
		if stmt != nil {
			node.Statements = append(node.Statements, stmt)
		} else {
			par.synchronize()
			if par.CurrToken.Type == lexer.RIGHT_BRACE {
				return node
			}
		}
		par.advance()
	}

	if par.CurrToken.Type != lexer.RIGHT_BRACE {
		par.createError("line %d: expected '}' to close block, got '%s'",
			par.CurrToken.Line, par.CurrToken.Type)
		return nil
	}

	return node
}

// parseWhileStatement parses a while loop:
//
//	while (<condition>) { <body> }
//
// A trailing semicolon is optional and consumed when present.
func (par *Parser) parseWhileStatement() StatementNode {
	node := &WhileStatementNode{Token: par.CurrToken}

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

	node.Body = par.parseBlockStatement()
	if node.Body == nil {
		return nil
	}

	if par.NextToken.Type == lexer.SEMICOLON_DELIM {
		par.advance()
	}

	return node
}

// parseBreakStatement parses a break statement. Whether a loop encloses it
// is checked downstream, not by the grammar.
func (par *Parser) parseBreakStatement() StatementNode {
	node := &BreakStatementNode{Token: par.CurrToken}

	if par.NextToken.Type == lexer.SEMICOLON_DELIM {
		par.advance()
	}

	return node
}

// parseContinueStatement parses a continue statement.
func (par *Parser) parseContinueStatement() StatementNode {
	node := &ContinueStatementNode{Token: par.CurrToken}

	if par.NextToken.Type == lexer.SEMICOLON_DELIM {
		par.advance()
	}

	return node
}
