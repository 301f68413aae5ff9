package lox

import "strconv"

// compiler is a single-pass parser that emits bytecode as it recognises
// each construct. It holds one token of look-ahead.
type compiler struct {
	lexer  *Lexer
	source string

	previous Token
	current  Token

	chunk *Chunk
}

func newCompiler(source string) *compiler {
	return &compiler{
		lexer:  NewLexer(source),
		source: source,
		chunk:  NewChunk(),
	}
}

// Compile translates a program of statements into a chunk. The first error
// stops compilation and no chunk is returned.
func Compile(source string) (*Chunk, error) {
	c := newCompiler(source)
	if err := c.advance(); err != nil {
		return nil, err
	}
	for c.current.Type != TokenEOF {
		if err := c.statement(); err != nil {
			return nil, err
		}
	}
	return c.chunk, nil
}

// CompileExpression translates a single expression followed by the end of
// input. The chunk ends with RETURN, leaving the value in VM.Result.
func CompileExpression(source string) (*Chunk, error) {
	c := newCompiler(source)
	if err := c.advance(); err != nil {
		return nil, err
	}
	if err := c.expression(); err != nil {
		return nil, err
	}
	if c.current.Type != TokenEOF {
		return nil, c.errorAt(c.current, "expect end of expression")
	}
	c.emitOp(OpReturn, c.previous.Line)
	return c.chunk, nil
}

func (c *compiler) advance() error {
	c.previous = c.current
	c.current = c.lexer.NextToken()
	if c.current.Type == TokenError {
		return c.errorAt(c.current, c.current.Message)
	}
	return nil
}

func (c *compiler) consume(tt TokenType, message string) error {
	if c.current.Type != tt {
		return c.errorAt(c.current, message)
	}
	return c.advance()
}

func (c *compiler) match(tt TokenType) (bool, error) {
	if c.current.Type != tt {
		return false, nil
	}
	return true, c.advance()
}

func (c *compiler) statement() error {
	isPrint, err := c.match(TokenPrint)
	if err != nil {
		return err
	}
	if isPrint {
		return c.printStatement()
	}
	return c.expressionStatement()
}

func (c *compiler) printStatement() error {
	line := c.previous.Line
	if err := c.expression(); err != nil {
		return err
	}
	if err := c.consume(TokenSemicolon, "expect ';' after value"); err != nil {
		return err
	}
	c.emitOp(OpPrint, line)
	return nil
}

func (c *compiler) expressionStatement() error {
	if err := c.expression(); err != nil {
		return err
	}
	if err := c.consume(TokenSemicolon, "expect ';' after expression"); err != nil {
		return err
	}
	c.emitOp(OpPop, c.previous.Line)
	return nil
}

func (c *compiler) expression() error {
	return c.parsePrecedence(precAssignment)
}

// parsePrecedence compiles an expression whose operators bind at least as
// tightly as prec.
func (c *compiler) parsePrecedence(prec precedence) error {
	if err := c.advance(); err != nil {
		return err
	}
	prefix := getRule(c.previous.Type).prefix
	if prefix == ruleNone {
		return c.errorAt(c.previous, "expect expression")
	}
	if err := c.apply(prefix); err != nil {
		return err
	}

	for {
		rule := getRule(c.current.Type)
		if rule.infix == ruleNone || rule.prec < prec {
			return nil
		}
		if err := c.advance(); err != nil {
			return err
		}
		if err := c.apply(rule.infix); err != nil {
			return err
		}
	}
}

func (c *compiler) apply(kind ruleKind) error {
	switch kind {
	case ruleGrouping:
		return c.grouping()
	case ruleUnary:
		return c.unary()
	case ruleBinary:
		return c.binary()
	case ruleNumber:
		return c.number()
	case ruleString:
		return c.emitConstant(NewString(c.previous.Text(c.source)), c.previous.Line)
	case ruleLiteral:
		return c.literal()
	default:
		return c.errorAt(c.previous, "expect expression")
	}
}

func (c *compiler) grouping() error {
	if err := c.expression(); err != nil {
		return err
	}
	return c.consume(TokenRightParen, "expect ')' after expression")
}

func (c *compiler) unary() error {
	op := c.previous
	if err := c.parsePrecedence(precUnary); err != nil {
		return err
	}
	if op.Type == TokenMinus {
		c.emitOp(OpNegate, op.Line)
	} else {
		c.emitOp(OpNot, op.Line)
	}
	return nil
}

// binary compiles the right operand one level tighter than the operator so
// that chains of the same operator associate to the left.
func (c *compiler) binary() error {
	op := c.previous
	rule := getRule(op.Type)
	if err := c.parsePrecedence(rule.prec + 1); err != nil {
		return err
	}
	for _, code := range binaryOps[op.Type] {
		c.emitOp(code, op.Line)
	}
	return nil
}

func (c *compiler) number() error {
	n, err := strconv.ParseFloat(c.previous.Text(c.source), 64)
	if err != nil {
		return c.errorAt(c.previous, "invalid number literal")
	}
	return c.emitConstant(NewNumber(n), c.previous.Line)
}

// literal loads true, false and nil through the constant pool like any other
// literal.
func (c *compiler) literal() error {
	var v Value
	switch c.previous.Type {
	case TokenTrue:
		v = NewBool(true)
	case TokenFalse:
		v = NewBool(false)
	default:
		v = NewNil()
	}
	return c.emitConstant(v, c.previous.Line)
}

func (c *compiler) emitOp(op Opcode, line int) {
	c.chunk.EmitOp(op, line)
}

func (c *compiler) emitConstant(v Value, line int) error {
	if len(c.chunk.Constants) >= maxConstants {
		return c.errorAt(c.previous, "too many constants in one chunk")
	}
	idx := c.chunk.AddConstant(v)
	c.chunk.EmitOp(OpConstant, line)
	c.chunk.Emit(byte(idx), line)
	return nil
}
