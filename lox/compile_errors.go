package lox

import (
	"fmt"
	"strconv"
	"strings"
)

// CompileError is the first malformed construct found in a program.
type CompileError struct {
	Message string
	Line    int
	Column  int
	// Near is a description of the offending token, such as "end of input".
	Near string

	source string
}

func (e *CompileError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "compile error at line %d: %s", e.Line, e.Message)
	if e.Near != "" {
		fmt.Fprintf(&b, " (near %s)", e.Near)
	}
	if frame := formatCodeFrame(e.source, e.Line, e.Column); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

func (c *compiler) errorAt(tok Token, message string) error {
	return newCompileError(c.source, tok, message)
}

func newCompileError(source string, tok Token, message string) *CompileError {
	err := &CompileError{
		Message: message,
		Line:    tok.Line,
		Column:  Column(source, tok.Start),
		source:  source,
	}
	if tok.Type != TokenError {
		err.Near = tokenLabel(tok, source)
	}
	return err
}

func formatCodeFrame(source string, line, column int) string {
	if source == "" || line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}

	lineText := strings.TrimRight(lines[line-1], "\r")
	if column <= 0 {
		column = 1
	}
	if column > len(lineText)+1 {
		column = len(lineText) + 1
	}

	lineLabel := strconv.Itoa(line)
	gutterPad := strings.Repeat(" ", len(lineLabel))
	caretPad := strings.Repeat(" ", column-1)

	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		line,
		column,
		lineLabel,
		lineText,
		gutterPad,
		caretPad,
	)
}
