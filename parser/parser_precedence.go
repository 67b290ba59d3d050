package parser

import "github.com/monkeylang/monkey/lexer"

// Operator precedence constants (following C-based language standards).
// Higher number = higher precedence (binds tighter).
//
// Precedence Hierarchy (lowest to highest):
//  1. Logical OR
//  2. Logical AND
//  3. Equality operators
//  4. Relational operators
//  5. Additive operators
//  6. Multiplicative operators
//  7. Unary/Prefix operators
//  8. Call operator (postfix)
//  9. Index operator (postfix)
//
// Example: in "a + b * c", multiplication has higher precedence than
// addition, so it's parsed as "a + (b * c)" rather than "(a + b) * c".
// Prefix operators are right-associative; everything else is
// left-associative.
const (
	MINIMUM_PRIORITY = 0 // Base priority for starting expression parsing

	// Logical OR: ||
	// Example: a || b || c is parsed left-to-right
	OR_PRIORITY = 40

	// Logical AND: &&
	// Example: a && b has higher precedence than a || b
	AND_PRIORITY = 50

	// Equality operators: == !=
	// Example: a == b && c == d is parsed as (a == b) && (c == d)
	EQUALITY_PRIORITY = 90

	// Relational operators: < > <= >=
	// Example: a < b == c < d is parsed as (a < b) == (c < d)
	RELATIONAL_PRIORITY = 100

	// Additive operators: + -
	// Example: a + b - c is parsed left-to-right
	PLUS_PRIORITY = 120

	// Multiplicative operators: * / %
	// Example: a * b / c is parsed left-to-right
	MUL_PRIORITY = 130

	// Unary/Prefix operators: ! -
	// Example: !a, -b; --a is parsed as -(-a)
	PREFIX_PRIORITY = 140

	// Call operator (postfix)
	// Example: add(1, 2)[0] calls before indexing
	CALL_PRIORITY = 150

	// Index operator (highest, postfix)
	// Example: -arr[0] is parsed as -(arr[0])
	INDEX_PRIORITY = 160
)

// PRIORITY_MAP maps infix-capable token types to their precedence level.
// Tokens absent from the map get MINIMUM_PRIORITY, which stops the Pratt
// loop from consuming them.
var PRIORITY_MAP = map[lexer.TokenType]int{
	lexer.OR_OP:  OR_PRIORITY,
	lexer.AND_OP: AND_PRIORITY,

	lexer.EQ_OP: EQUALITY_PRIORITY,
	lexer.NE_OP: EQUALITY_PRIORITY,

	lexer.LT_OP: RELATIONAL_PRIORITY,
	lexer.GT_OP: RELATIONAL_PRIORITY,
	lexer.LE_OP: RELATIONAL_PRIORITY,
	lexer.GE_OP: RELATIONAL_PRIORITY,

	lexer.PLUS_OP:  PLUS_PRIORITY,
	lexer.MINUS_OP: PLUS_PRIORITY,

	lexer.MUL_OP: MUL_PRIORITY,
	lexer.DIV_OP: MUL_PRIORITY,
	lexer.MOD_OP: MUL_PRIORITY,

	lexer.LEFT_PAREN:   CALL_PRIORITY,
	lexer.LEFT_BRACKET: INDEX_PRIORITY,
}

// getPrecedence returns the infix precedence for a token type.
func getPrecedence(tokenType lexer.TokenType) int {
	if priority, ok := PRIORITY_MAP[tokenType]; ok {
		return priority
	}
	return MINIMUM_PRIORITY
}

// currPrecedence returns the precedence of the current token.
func (par *Parser) currPrecedence() int {
	return getPrecedence(par.CurrToken.Type)
}

// nextPrecedence returns the precedence of the lookahead token.
func (par *Parser) nextPrecedence() int {
	return getPrecedence(par.NextToken.Type)
}
