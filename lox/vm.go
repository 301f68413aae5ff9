package lox

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"
)

// VM executes one chunk on its own operand stack. The chunk is never
// modified, so several VMs may share it.
type VM struct {
	chunk  *Chunk
	config Config
	log    commonlog.Logger

	ip    int
	stack []Value

	// op and opStart identify the instruction being executed.
	op      Opcode
	opStart int

	result Value
}

// NewVM prepares a VM for chunk.
func NewVM(chunk *Chunk, cfg Config) *VM {
	cfg = cfg.withDefaults()
	return &VM{
		chunk:  chunk,
		config: cfg,
		log:    commonlog.GetLogger("lox.vm"),
		stack:  make([]Value, 0, min(cfg.StackLimit, DefaultStackLimit)),
	}
}

// Result returns the value most recently discarded by POP or RETURN. For a
// chunk built by CompileExpression this is the expression's value.
func (vm *VM) Result() Value { return vm.result }

// StackDepth returns the number of values on the operand stack.
func (vm *VM) StackDepth() int { return len(vm.stack) }

// Interpret runs the chunk and reports the outcome as a status, writing any
// runtime error to the configured Stderr.
func (vm *VM) Interpret() InterpretResult {
	if err := vm.Run(); err != nil {
		fmt.Fprintln(vm.config.Stderr, err)
		return InterpretRuntimeError
	}
	return InterpretOK
}

// Run executes from the first instruction until the end of the code or a
// RETURN. Failures are returned as *RuntimeError.
func (vm *VM) Run() error {
	vm.ip = 0
	vm.stack = vm.stack[:0]
	vm.result = NewNil()
	if vm.chunk == nil {
		return &RuntimeError{Message: "no chunk to run", err: ErrBadBytecode}
	}

	trace := vm.config.Trace && vm.log.AllowLevel(commonlog.Debug)
	for vm.ip < len(vm.chunk.Code) {
		if trace {
			vm.trace()
		}
		vm.opStart = vm.ip
		vm.op = Opcode(vm.readByte())

		info, ok := vm.op.Info()
		if !ok {
			return vm.fault(ErrBadBytecode, "unknown opcode 0x%02x", byte(vm.op))
		}
		if len(vm.stack) < info.Pops {
			return vm.fault(ErrStackUnderflow, "%s needs %d operand(s), stack has %d", info.Name, info.Pops, len(vm.stack))
		}
		if len(vm.stack)+info.StackEffect() > vm.config.StackLimit {
			return vm.fault(ErrStackOverflow, "stack limit %d exceeded", vm.config.StackLimit)
		}
		if err := vm.check(); err != nil {
			return err
		}

		halt, err := vm.execute()
		if err != nil {
			return err
		}
		if halt {
			return nil
		}
	}
	return nil
}

// check enforces the type preconditions of the current opcode by peeking at
// its operands. Nothing is popped when it fails.
func (vm *VM) check() error {
	switch vm.op {
	case OpNegate:
		if v := vm.peek(0); !v.IsNumber() {
			return vm.errorf("operand must be a number, got %s", v.Kind())
		}
	case OpAdd:
		left, right := vm.peek(1), vm.peek(0)
		numbers := left.IsNumber() && right.IsNumber()
		strs := left.IsString() && right.IsString()
		if !numbers && !strs {
			return vm.errorf("operands must be two numbers or two strings, got %s and %s", left.Kind(), right.Kind())
		}
	case OpSubtract, OpMultiply, OpDivide, OpGreater, OpLess:
		left, right := vm.peek(1), vm.peek(0)
		if !left.IsNumber() || !right.IsNumber() {
			return vm.errorf("operands must be numbers, got %s and %s", left.Kind(), right.Kind())
		}
	}
	return nil
}

func (vm *VM) execute() (bool, error) {
	switch vm.op {
	case OpConstant:
		v, err := vm.readConstant()
		if err != nil {
			return false, err
		}
		vm.push(v)
	case OpAdd:
		right := vm.pop()
		left := vm.pop()
		if left.IsString() {
			vm.push(NewString(left.AsString() + right.AsString()))
		} else {
			vm.push(NewNumber(left.AsNumber() + right.AsNumber()))
		}
	case OpSubtract, OpMultiply, OpDivide:
		right := vm.pop().AsNumber()
		left := vm.pop().AsNumber()
		vm.push(NewNumber(arithmetic(vm.op, left, right)))
	case OpGreater:
		right := vm.pop().AsNumber()
		left := vm.pop().AsNumber()
		vm.push(NewBool(left > right))
	case OpLess:
		right := vm.pop().AsNumber()
		left := vm.pop().AsNumber()
		vm.push(NewBool(left < right))
	case OpEqual:
		right := vm.pop()
		left := vm.pop()
		vm.push(NewBool(left.Equal(right)))
	case OpNegate:
		vm.push(NewNumber(-vm.pop().AsNumber()))
	case OpNot:
		vm.push(NewBool(vm.pop().IsFalsey()))
	case OpPrint:
		if _, err := fmt.Fprintln(vm.config.Stdout, vm.pop().String()); err != nil {
			return false, vm.errorf("print: %v", err)
		}
	case OpPop:
		vm.result = vm.pop()
	case OpReturn:
		vm.result = vm.pop()
		return true, nil
	case OpDefineVar, OpGetVar, OpSetVar:
		name, err := vm.readConstant()
		if err != nil {
			return false, err
		}
		return false, vm.errorf("variables are not supported (%s %s)", vm.op, name)
	}
	return false, nil
}

func arithmetic(op Opcode, left, right float64) float64 {
	switch op {
	case OpSubtract:
		return left - right
	case OpMultiply:
		return left * right
	default:
		// Division by zero yields ±Inf or NaN.
		return left / right
	}
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readConstant() (Value, error) {
	if vm.ip >= len(vm.chunk.Code) {
		return Value{}, vm.fault(ErrBadBytecode, "truncated operand for %s", vm.op)
	}
	idx := int(vm.readByte())
	if idx >= len(vm.chunk.Constants) {
		return Value{}, vm.fault(ErrBadBytecode, "constant index %d out of range (%d constants)", idx, len(vm.chunk.Constants))
	}
	return vm.chunk.Constants[idx], nil
}

func (vm *VM) push(v Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() Value {
	top := len(vm.stack) - 1
	v := vm.stack[top]
	vm.stack = vm.stack[:top]
	return v
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) trace() {
	var b strings.Builder
	b.WriteString("          ")
	for _, v := range vm.stack {
		fmt.Fprintf(&b, "[ %s ]", v.String())
	}
	instr, _ := vm.chunk.DisassembleInstruction(vm.ip)
	vm.log.Debugf("%s\n%s", b.String(), instr)
}
