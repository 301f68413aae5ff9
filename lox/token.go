package lox

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	TokenError TokenType = "ERROR"
	TokenEOF   TokenType = "EOF"

	TokenLeftParen  TokenType = "("
	TokenRightParen TokenType = ")"
	TokenLeftBrace  TokenType = "{"
	TokenRightBrace TokenType = "}"
	TokenComma      TokenType = ","
	TokenDot        TokenType = "."
	TokenMinus      TokenType = "-"
	TokenPlus       TokenType = "+"
	TokenSemicolon  TokenType = ";"
	TokenSlash      TokenType = "/"
	TokenStar       TokenType = "*"

	TokenBang         TokenType = "!"
	TokenBangEqual    TokenType = "!="
	TokenEqual        TokenType = "="
	TokenEqualEqual   TokenType = "=="
	TokenGreater      TokenType = ">"
	TokenGreaterEqual TokenType = ">="
	TokenLess         TokenType = "<"
	TokenLessEqual    TokenType = "<="

	TokenIdentifier TokenType = "IDENTIFIER"
	TokenString     TokenType = "STRING"
	TokenNumber     TokenType = "NUMBER"

	TokenAnd    TokenType = "AND"
	TokenClass  TokenType = "CLASS"
	TokenElse   TokenType = "ELSE"
	TokenFalse  TokenType = "FALSE"
	TokenFor    TokenType = "FOR"
	TokenFun    TokenType = "FUN"
	TokenIf     TokenType = "IF"
	TokenNil    TokenType = "NIL"
	TokenOr     TokenType = "OR"
	TokenPrint  TokenType = "PRINT"
	TokenReturn TokenType = "RETURN"
	TokenSuper  TokenType = "SUPER"
	TokenThis   TokenType = "THIS"
	TokenTrue   TokenType = "TRUE"
	TokenVar    TokenType = "VAR"
	TokenWhile  TokenType = "WHILE"

	// TokenComment is only produced by the comment-preserving lexer.
	TokenComment TokenType = "COMMENT"
)

// Token is a span of the source with its lexical category. The lexeme is not
// copied; use Lexer.Lexeme or Token.Text to read it.
type Token struct {
	Type   TokenType
	Start  int
	Length int
	Line   int

	// Message describes the problem for TokenError tokens.
	Message string
}

// Text returns the token's lexeme within source.
func (t Token) Text(source string) string {
	end := t.Start + t.Length
	if t.Start < 0 || end > len(source) || t.Start > end {
		return ""
	}
	return source[t.Start:end]
}

// IsKeyword reports whether the token is one of the reserved words.
func (t Token) IsKeyword() bool {
	switch t.Type {
	case TokenAnd, TokenClass, TokenElse, TokenFalse, TokenFor, TokenFun, TokenIf, TokenNil,
		TokenOr, TokenPrint, TokenReturn, TokenSuper, TokenThis, TokenTrue, TokenVar, TokenWhile:
		return true
	}
	return false
}

// Keywords lists the reserved words in lexical order.
func Keywords() []string {
	return []string{
		"and", "class", "else", "false", "for", "fun", "if", "nil",
		"or", "print", "return", "super", "this", "true", "var", "while",
	}
}

func lookupIdent(ident string) TokenType {
	switch ident {
	case "and":
		return TokenAnd
	case "class":
		return TokenClass
	case "else":
		return TokenElse
	case "false":
		return TokenFalse
	case "for":
		return TokenFor
	case "fun":
		return TokenFun
	case "if":
		return TokenIf
	case "nil":
		return TokenNil
	case "or":
		return TokenOr
	case "print":
		return TokenPrint
	case "return":
		return TokenReturn
	case "super":
		return TokenSuper
	case "this":
		return TokenThis
	case "true":
		return TokenTrue
	case "var":
		return TokenVar
	case "while":
		return TokenWhile
	}
	return TokenIdentifier
}

func tokenLabel(tok Token, source string) string {
	switch tok.Type {
	case TokenEOF:
		return "end of input"
	case TokenError:
		return "invalid token"
	case TokenIdentifier:
		return "identifier '" + tok.Text(source) + "'"
	case TokenNumber:
		return "number " + tok.Text(source)
	case TokenString:
		return "string"
	}
	if tok.IsKeyword() {
		return "'" + tok.Text(source) + "'"
	}
	return "'" + string(tok.Type) + "'"
}
