package lox

import (
	"errors"
	"fmt"
)

var (
	ErrStackUnderflow = errors.New("vm: stack underflow")
	ErrStackOverflow  = errors.New("vm: stack overflow")
	ErrBadBytecode    = errors.New("vm: malformed bytecode")
)

// RuntimeError stops execution at the instruction whose type check failed.
type RuntimeError struct {
	Message string
	Line    int
	Offset  int
	Op      Opcode

	err error
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("runtime error at line %d: %s", e.Line, e.Message)
	}
	return "runtime error: " + e.Message
}

// Unwrap exposes the sentinel for bytecode faults such as stack
// underflow; type errors unwrap to nil.
func (e *RuntimeError) Unwrap() error {
	return e.err
}

func (vm *VM) errorf(format string, args ...any) error {
	return &RuntimeError{
		Message: fmt.Sprintf(format, args...),
		Line:    vm.chunk.LineAt(vm.opStart),
		Offset:  vm.opStart,
		Op:      vm.op,
	}
}

func (vm *VM) fault(sentinel error, format string, args ...any) error {
	err := vm.errorf(format, args...).(*RuntimeError)
	err.err = sentinel
	return err
}
