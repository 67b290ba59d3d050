// Package parser implements a Pratt parser (top-down operator precedence
// parser) for the Monkey programming language, along with the AST node
// definitions the rest of the pipeline consumes.
//
// The parser converts the lexer's token stream into an Abstract Syntax
// Tree. It handles:
//   - Expressions (binary, unary, literals, identifiers, calls, indexing)
//   - Statements (let bindings, return, while/break/continue, blocks)
//   - Function literals with closures and an optional let name hint
//   - Operator precedence and associativity
//
// Key Features:
//   - Pratt parsing algorithm for efficient expression parsing
//   - C-style operator precedence
//   - Error collection (doesn't stop on the first error); on a statement
//     that fails to parse, the parser recovers at the next statement
//     boundary (semicolon or brace) and keeps going
//
// The parser is total: every token stream produces a RootNode plus a
// (possibly nonempty) error list. Consumers decide whether to proceed.
package parser

import (
	"fmt"

	"github.com/monkeylang/monkey/lexer"
)

// unaryParseFunction parses a construct that begins an expression:
// a literal, an identifier, a prefix operator, a grouped expression, ...
type unaryParseFunction func() ExpressionNode

// binaryParseFunction parses a construct that continues an expression:
// an infix operator, a call, an index. It receives the already-parsed
// left-hand side.
type binaryParseFunction func(left ExpressionNode) ExpressionNode

// Parser represents the parser state and configuration. It maintains all
// the information needed to parse Monkey source code into an AST.
type Parser struct {
	Lex       lexer.Lexer // Lexer instance for tokenizing source code
	CurrToken lexer.Token // Current token being processed
	NextToken lexer.Token // Next token (for lookahead)

	// Function maps for Pratt parsing. These maps associate token types
	// with their parsing functions.
	UnaryFuncs  map[lexer.TokenType]unaryParseFunction  // Prefix operators and literals
	BinaryFuncs map[lexer.TokenType]binaryParseFunction // Infix operators

	// Collect parsing errors instead of stopping at the first one.
	// This allows reporting multiple errors in a single parse.
	Errors []string
}

// NewParser creates and initializes a new Parser instance for the given
// source code. This is the main entry point for creating a parser.
//
// The parser is ready to use immediately after creation.
// Call Parse() to begin parsing the source code.
func NewParser(src string) *Parser {
	// Create a lexer for the source code
	lex := lexer.NewLexer(src)

	// Create the parser with the lexer
	par := &Parser{
		Lex: lex,
	}

	// Initialize all parser state (maps, tokens, etc.)
	par.init()

	return par
}

// init initializes the parser's internal state: the Pratt function maps,
// the error list, and the initial two-token lookahead. The registrations
// below establish the grammar of the language.
func (par *Parser) init() {
	par.UnaryFuncs = make(map[lexer.TokenType]unaryParseFunction)
	par.BinaryFuncs = make(map[lexer.TokenType]binaryParseFunction)
	par.Errors = make([]string, 0)

	// Register unary/prefix parsing functions.
	// These handle tokens that can start an expression.

	// Literals: 42, true, false, "hello"
	par.registerUnaryFuncs(par.parseIntegerLiteral, lexer.INT_LIT)
	par.registerUnaryFuncs(par.parseBooleanLiteral, lexer.TRUE_KEY, lexer.FALSE_KEY)
	par.registerUnaryFuncs(par.parseStringLiteral, lexer.STRING_LIT)

	// Identifiers: variable names, function names
	par.registerUnaryFuncs(par.parseIdentifierExpression, lexer.IDENTIFIER_ID)

	// Prefix operators: !x, -x
	par.registerUnaryFuncs(par.parseUnaryExpression, lexer.NOT_OP, lexer.MINUS_OP)

	// Grouped expressions: (expr)
	par.registerUnaryFuncs(par.parseGroupedExpression, lexer.LEFT_PAREN)

	// Conditionals: if (cond) { ... } else { ... }
	par.registerUnaryFuncs(par.parseIfExpression, lexer.IF_KEY)

	// Function literals: fn(params) { body }
	par.registerUnaryFuncs(par.parseFunctionLiteral, lexer.FN_KEY)

	// Composite literals: [1, 2], {"one": 1}
	par.registerUnaryFuncs(par.parseArrayLiteral, lexer.LEFT_BRACKET)
	par.registerUnaryFuncs(par.parseHashLiteral, lexer.LEFT_BRACE)

	// Register binary/infix parsing functions.
	// These handle operators that appear between two expressions.

	// Arithmetic operators: +, -, *, /, %
	par.registerBinaryFuncs(par.parseBinaryExpression,
		lexer.PLUS_OP, lexer.MINUS_OP, lexer.MUL_OP, lexer.DIV_OP, lexer.MOD_OP)

	// Comparison operators: ==, !=, <, >, <=, >=
	par.registerBinaryFuncs(par.parseBinaryExpression,
		lexer.EQ_OP, lexer.NE_OP, lexer.LT_OP, lexer.GT_OP, lexer.LE_OP, lexer.GE_OP)

	// Short-circuit logical operators: &&, ||
	par.registerBinaryFuncs(par.parseBinaryExpression, lexer.AND_OP, lexer.OR_OP)

	// Postfix-like operators: call and index
	par.registerBinaryFuncs(par.parseCallExpression, lexer.LEFT_PAREN)
	par.registerBinaryFuncs(par.parseIndexExpression, lexer.LEFT_BRACKET)

	// Prime the two-token lookahead
	par.advance()
	par.advance()
}

// registerUnaryFuncs registers one prefix parselet for several token types.
func (par *Parser) registerUnaryFuncs(fn unaryParseFunction, types ...lexer.TokenType) {
	for _, t := range types {
		par.UnaryFuncs[t] = fn
	}
}

// registerBinaryFuncs registers one infix parselet for several token types.
func (par *Parser) registerBinaryFuncs(fn binaryParseFunction, types ...lexer.TokenType) {
	for _, t := range types {
		par.BinaryFuncs[t] = fn
	}
}

// advance moves the token window one token forward.
func (par *Parser) advance() {
	par.CurrToken = par.NextToken
	par.NextToken = par.Lex.NextToken()
}

// Parse consumes statements until EOF and returns the program's root node.
// Errors encountered along the way accumulate in par.Errors; after a failed
// statement the parser recovers at the next statement boundary and keeps
// parsing, so the returned program may be partial.
func (par *Parser) Parse() *RootNode {
	root := &RootNode{
		Statements: make([]StatementNode, 0),
	}

	for par.CurrToken.Type != lexer.EOF_TYPE {
		stmt := par.parseStatement()
		if stmt != nil {
			root.Statements = append(root.Statements, stmt)
		} else {
			par.synchronize()
		}
		par.advance()
	}

	return root
}

// parseStatement dispatches on the current token to the statement parsers.
// Anything that is not a dedicated statement keyword parses as an
// expression statement.
func (par *Parser) parseStatement() StatementNode {
	switch par.CurrToken.Type {
	case lexer.LET_KEY:
		return par.parseLetStatement()
	case lexer.RETURN_KEY:
		return par.parseReturnStatement()
	case lexer.WHILE_KEY:
		return par.parseWhileStatement()
	case lexer.BREAK_KEY:
		return par.parseBreakStatement()
	case lexer.CONTINUE_KEY:
		return par.parseContinueStatement()
	case lexer.ILLEGAL_TYPE:
		par.createError("line %d: illegal token '%s'", par.CurrToken.Line, par.CurrToken.Literal)
		return nil
	default:
		return par.parseExpressionStatement()
	}
}

// synchronize skips tokens until the next statement boundary (a semicolon
// or a brace), so one malformed statement doesn't cascade into a wall of
// follow-on errors.
func (par *Parser) synchronize() {
	for par.CurrToken.Type != lexer.EOF_TYPE {
		switch par.CurrToken.Type {
		case lexer.SEMICOLON_DELIM, lexer.RIGHT_BRACE, lexer.LEFT_BRACE:
			return
		}
		par.advance()
	}
}

// expectNext checks that the next token has the wanted type. On success it
// advances onto that token and returns true; on failure it records an error
// and returns false, leaving the window untouched.
func (par *Parser) expectNext(wanted lexer.TokenType) bool {
	if par.NextToken.Type == wanted {
		par.advance()
		return true
	}
	par.createError("line %d: expected next token to be '%s', got '%s'",
		par.NextToken.Line, wanted, par.NextToken.Type)
	return false
}

// createError appends a formatted message to the parser's error list.
func (par *Parser) createError(format string, args ...interface{}) {
	par.Errors = append(par.Errors, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any parse errors were recorded.
func (par *Parser) HasErrors() bool {
	return len(par.Errors) > 0
}
