package lox

import "strings"

type formatter struct {
	source string
	b      strings.Builder

	// open is set while the current output line has no newline yet;
	// atLineStart means the next token starts a fresh line.
	open        bool
	atLineStart bool
	wrote       bool
	lastLine    int

	prev      Token
	prevUnary bool
}

// Format rewrites source with canonical spacing: one statement per line,
// single spaces around binary operators, none after unary operators or
// inside parentheses. Comments are kept and runs of blank lines collapse to
// one. Source that does not lex is returned as a *CompileError.
func Format(source string) (string, error) {
	f := &formatter{source: source, atLineStart: true}
	l := newCommentLexer(source)
	for {
		tok := l.NextToken()
		switch tok.Type {
		case TokenEOF:
			if f.open {
				f.b.WriteByte('\n')
			}
			return f.b.String(), nil
		case TokenError:
			return "", newCompileError(source, tok, tok.Message)
		case TokenComment:
			f.comment(tok)
		default:
			f.token(tok)
		}
	}
}

// comment keeps a comment on the line it trailed, otherwise gives it a line
// of its own. Either way the comment ends the output line.
func (f *formatter) comment(tok Token) {
	if f.wrote && tok.Line == f.lastLine {
		f.b.WriteByte(' ')
	} else {
		f.newLine(tok)
	}
	f.b.WriteString(strings.TrimRight(tok.Text(f.source), " \t\r"))
	f.open = true
	f.wrote = true
	f.atLineStart = true
	f.lastLine = tok.Line
	f.prev = Token{Type: TokenSemicolon}
	f.prevUnary = false
}

func (f *formatter) token(tok Token) {
	if f.atLineStart {
		f.newLine(tok)
	} else if f.needSpace(tok) {
		f.b.WriteByte(' ')
	}

	text := tok.Text(f.source)
	if tok.Type == TokenString {
		f.b.WriteString(`"` + text + `"`)
	} else {
		f.b.WriteString(text)
	}
	f.open = true
	f.wrote = true
	f.atLineStart = tok.Type == TokenSemicolon
	f.lastLine = tok.Line + strings.Count(text, "\n")

	f.prevUnary = (tok.Type == TokenMinus || tok.Type == TokenBang) && !endsOperand(f.prev)
	f.prev = tok
}

func (f *formatter) needSpace(tok Token) bool {
	switch {
	case f.prevUnary:
		return false
	case f.prev.Type == TokenLeftParen, f.prev.Type == TokenDot:
		return false
	case tok.Type == TokenRightParen, tok.Type == TokenSemicolon, tok.Type == TokenComma, tok.Type == TokenDot:
		return false
	case tok.Type == TokenLeftParen && f.prev.Type == TokenIdentifier:
		return false
	}
	return true
}

// newLine terminates the open output line and keeps a single empty line where
// the source had one or more before tok.
func (f *formatter) newLine(tok Token) {
	if f.open {
		f.b.WriteByte('\n')
		f.open = false
	}
	if f.wrote && tok.Line > f.lastLine+1 {
		f.b.WriteByte('\n')
	}
	f.atLineStart = false
}

// endsOperand reports whether tok can close an operand, which makes a
// following '-' a binary operator.
func endsOperand(tok Token) bool {
	switch tok.Type {
	case TokenNumber, TokenString, TokenIdentifier, TokenRightParen,
		TokenTrue, TokenFalse, TokenNil, TokenThis, TokenSuper:
		return true
	}
	return false
}
