package lexer

// isWhitespace reports whether the byte is ASCII whitespace:
// space, tab, newline, or carriage return.
func isWhitespace(curr byte) bool {
	return curr == ' ' || curr == '\t' || curr == '\n' || curr == '\r'
}

// isNumeric reports whether the byte is an ASCII decimal digit.
func isNumeric(curr byte) bool {
	return curr >= '0' && curr <= '9'
}

// isAlpha reports whether the byte may start an identifier:
// an ASCII letter or underscore.
func isAlpha(curr byte) bool {
	return (curr >= 'a' && curr <= 'z') || (curr >= 'A' && curr <= 'Z') || curr == '_'
}

// isAlphanumeric reports whether the byte may continue an identifier.
func isAlphanumeric(curr byte) bool {
	return isAlpha(curr) || isNumeric(curr)
}

// readStringLiteral consumes a double-quoted string literal and returns its
// token. The opening quote has already been seen at the current position.
// String contents are taken verbatim; there is no escape processing.
//
// An unterminated string (EOF before the closing quote) yields an ILLEGAL
// token whose literal is the unterminated remainder, attached to the line
// the string started on.
func readStringLiteral(lex *Lexer) Token {
	startLine := lex.Line
	lex.Advance() // consume the opening quote
	start := lex.Pos
	for lex.Pos < len(lex.Src) && lex.Src[lex.Pos] != '"' {
		lex.Advance()
	}
	if lex.Pos >= len(lex.Src) {
		// never saw the closing quote
		return NewTokenWithMetadata(ILLEGAL_TYPE, lex.Src[start:], startLine)
	}
	body := lex.Src[start:lex.Pos]
	lex.Advance() // consume the closing quote
	return NewTokenWithMetadata(STRING_LIT, body, startLine)
}

// readNumber consumes a run of decimal digits and returns an integer token.
// Monkey has no floating-point numbers, so a '.' after the digits is left
// for the next scan (where it becomes an illegal token).
func readNumber(lex *Lexer) Token {
	start := lex.Pos
	for lex.Pos < len(lex.Src) && isNumeric(lex.Src[lex.Pos]) {
		lex.Advance()
	}
	return NewTokenWithMetadata(INT_LIT, lex.Src[start:lex.Pos], lex.Line)
}

// readIdentifier consumes an identifier ([A-Za-z_][A-Za-z0-9_]*) and
// classifies it as a keyword or a user-defined identifier via lookupIdent.
func readIdentifier(lex *Lexer) Token {
	start := lex.Pos
	for lex.Pos < len(lex.Src) && isAlphanumeric(lex.Src[lex.Pos]) {
		lex.Advance()
	}
	literal := lex.Src[start:lex.Pos]
	return NewTokenWithMetadata(lookupIdent(literal), literal, lex.Line)
}
