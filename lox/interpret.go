package lox

import (
	"fmt"
	"io"
	"os"
)

// DefaultStackLimit bounds the operand stack when Config.StackLimit is unset.
const DefaultStackLimit = 256

// Config controls where a VM writes and how much stack it may use.
type Config struct {
	Stdout     io.Writer
	Stderr     io.Writer
	StackLimit int
	// Trace logs the stack and each instruction before it runs, at debug
	// level on the "lox.vm" logger.
	Trace bool
}

func (cfg Config) withDefaults() Config {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	if cfg.StackLimit <= 0 {
		cfg.StackLimit = DefaultStackLimit
	}
	return cfg
}

// InterpretResult is the outcome of compiling and running a program.
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

func (r InterpretResult) String() string {
	switch r {
	case InterpretOK:
		return "ok"
	case InterpretCompileError:
		return "compile error"
	case InterpretRuntimeError:
		return "runtime error"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// Interpret compiles source and runs it. Compile and runtime errors are
// written to cfg.Stderr.
func Interpret(source string, cfg Config) InterpretResult {
	cfg = cfg.withDefaults()
	chunk, err := Compile(source)
	if err != nil {
		fmt.Fprintln(cfg.Stderr, err)
		return InterpretCompileError
	}
	return NewVM(chunk, cfg).Interpret()
}

// Eval compiles a single expression and returns its value.
func Eval(source string, cfg Config) (Value, error) {
	chunk, err := CompileExpression(source)
	if err != nil {
		return NewNil(), err
	}
	vm := NewVM(chunk, cfg)
	if err := vm.Run(); err != nil {
		return NewNil(), err
	}
	return vm.Result(), nil
}
