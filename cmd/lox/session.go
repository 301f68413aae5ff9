package main

import (
	"bytes"
	"strings"

	"github.com/mgomes/lox/lox"
)

// session evaluates REPL input. Input ending in ';' runs as a program and
// yields what it printed; anything else is evaluated as one expression and
// yields its value.
type session struct {
	stackLimit int

	// lastChunk is the bytecode of the most recent input that compiled.
	lastChunk *lox.Chunk
}

func newSession(cfg *fileConfig) *session {
	return &session{stackLimit: cfg.Run.StackLimit}
}

func (s *session) eval(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if strings.HasSuffix(input, ";") {
		return s.runStatements(input)
	}
	return s.evalExpression(input)
}

func (s *session) runStatements(input string) (string, bool) {
	chunk, err := lox.Compile(input)
	if err != nil {
		return err.Error(), true
	}
	s.lastChunk = chunk

	var out bytes.Buffer
	vm := lox.NewVM(chunk, lox.Config{Stdout: &out, Stderr: &out, StackLimit: s.stackLimit})
	runErr := vm.Run()
	printed := strings.TrimRight(out.String(), "\n")
	if runErr != nil {
		if printed != "" {
			return printed + "\n" + runErr.Error(), true
		}
		return runErr.Error(), true
	}
	return printed, false
}

func (s *session) evalExpression(input string) (string, bool) {
	chunk, err := lox.CompileExpression(input)
	if err != nil {
		return err.Error(), true
	}
	s.lastChunk = chunk

	vm := lox.NewVM(chunk, lox.Config{StackLimit: s.stackLimit})
	if err := vm.Run(); err != nil {
		return err.Error(), true
	}
	return vm.Result().String(), false
}

// disassembly renders the last compiled input, or "" when nothing has
// compiled yet.
func (s *session) disassembly() string {
	if s.lastChunk == nil {
		return ""
	}
	return strings.TrimRight(s.lastChunk.Disassemble("input"), "\n")
}

// completions returns the keywords that extend the last word of input.
func completions(input string) (string, []string) {
	words := strings.Fields(input)
	if len(words) == 0 || strings.HasSuffix(input, " ") {
		return "", nil
	}
	lastWord := words[len(words)-1]

	var matches []string
	for _, kw := range lox.Keywords() {
		if strings.HasPrefix(kw, lastWord) && kw != lastWord {
			matches = append(matches, kw)
		}
	}
	return lastWord, matches
}
