package lox

// Lexer turns source text into tokens on demand. Tokens reference the source
// by offset; nothing is buffered beyond the token being scanned.
type Lexer struct {
	source string

	start   int
	current int

	line      int
	tokenLine int

	comments bool
}

// NewLexer returns a lexer positioned at the start of source.
func NewLexer(source string) *Lexer {
	return &Lexer{source: source, line: 1}
}

// newCommentLexer returns a lexer that reports line comments as TokenComment
// instead of skipping them.
func newCommentLexer(source string) *Lexer {
	l := NewLexer(source)
	l.comments = true
	return l
}

// Source returns the text being scanned.
func (l *Lexer) Source() string { return l.source }

// Lexeme returns the text of tok.
func (l *Lexer) Lexeme(tok Token) string { return tok.Text(l.source) }

// NextToken scans and returns the next token. Once the end of input is
// reached every further call returns TokenEOF.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	l.start = l.current
	l.tokenLine = l.line
	if l.atEnd() {
		return l.makeToken(TokenEOF)
	}

	c := l.advance()
	switch c {
	case '(':
		return l.makeToken(TokenLeftParen)
	case ')':
		return l.makeToken(TokenRightParen)
	case '{':
		return l.makeToken(TokenLeftBrace)
	case '}':
		return l.makeToken(TokenRightBrace)
	case ',':
		return l.makeToken(TokenComma)
	case '.':
		return l.makeToken(TokenDot)
	case '-':
		return l.makeToken(TokenMinus)
	case '+':
		return l.makeToken(TokenPlus)
	case ';':
		return l.makeToken(TokenSemicolon)
	case '*':
		return l.makeToken(TokenStar)
	case '/':
		if l.comments && l.match('/') {
			l.skipComment()
			return l.makeToken(TokenComment)
		}
		return l.makeToken(TokenSlash)
	case '!':
		if l.match('=') {
			return l.makeToken(TokenBangEqual)
		}
		return l.makeToken(TokenBang)
	case '=':
		if l.match('=') {
			return l.makeToken(TokenEqualEqual)
		}
		return l.makeToken(TokenEqual)
	case '<':
		if l.match('=') {
			return l.makeToken(TokenLessEqual)
		}
		return l.makeToken(TokenLess)
	case '>':
		if l.match('=') {
			return l.makeToken(TokenGreaterEqual)
		}
		return l.makeToken(TokenGreater)
	case '"':
		return l.readString()
	}

	switch {
	case isDigit(c):
		return l.readNumber()
	case isAlpha(c):
		return l.readIdentifier()
	}
	return l.errorToken("unknown token")
}

func (l *Lexer) atEnd() bool {
	return l.current >= len(l.source)
}

func (l *Lexer) advance() byte {
	c := l.source[l.current]
	l.current++
	return c
}

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *Lexer) match(expected byte) bool {
	if l.atEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++
	return true
}

func (l *Lexer) makeToken(tt TokenType) Token {
	return Token{Type: tt, Start: l.start, Length: l.current - l.start, Line: l.tokenLine}
}

func (l *Lexer) errorToken(message string) Token {
	tok := l.makeToken(TokenError)
	tok.Message = message
	return tok
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.current++
		case '\n':
			l.line++
			l.current++
		case '/':
			if l.comments || l.peekNext() != '/' {
				return
			}
			l.skipComment()
		default:
			return
		}
	}
}

// skipComment consumes through the end of the line, leaving the newline for
// skipWhitespace so the line counter stays in one place.
func (l *Lexer) skipComment() {
	for !l.atEnd() && l.peek() != '\n' {
		l.current++
	}
}

func (l *Lexer) readString() Token {
	for !l.atEnd() && l.peek() != '"' {
		if l.peek() == '\n' {
			l.line++
		}
		l.current++
	}
	if l.atEnd() {
		return l.errorToken("unterminated string")
	}
	l.current++ // closing quote

	// The lexeme is the content between the quotes.
	return Token{Type: TokenString, Start: l.start + 1, Length: l.current - l.start - 2, Line: l.tokenLine}
}

func (l *Lexer) readNumber() Token {
	for isDigit(l.peek()) {
		l.current++
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.current++
		for isDigit(l.peek()) {
			l.current++
		}
	}
	return l.makeToken(TokenNumber)
}

func (l *Lexer) readIdentifier() Token {
	for isAlpha(l.peek()) || isDigit(l.peek()) {
		l.current++
	}
	return l.makeToken(lookupIdent(l.source[l.start:l.current]))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Column returns the 1-based column of offset within source.
func Column(source string, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	col := 1
	for i := offset - 1; i >= 0; i-- {
		if source[i] == '\n' {
			break
		}
		col++
	}
	return col
}
