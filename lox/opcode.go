package lox

import "fmt"

// Opcode is the one-byte tag that starts every instruction.
type Opcode byte

const (
	OpConstant  Opcode = iota // push constants[operand]
	OpAdd                     // numbers add, strings concatenate
	OpSubtract
	OpMultiply
	OpDivide
	OpEqual
	OpGreater
	OpLess
	OpNegate
	OpNot
	OpReturn // discard top and halt
	OpPrint
	OpDefineVar // reserved, operand is the name constant
	OpGetVar    // reserved
	OpSetVar    // reserved
	OpPop
)

// OpcodeInfo describes an opcode's encoding and its fixed effect on the
// operand stack.
type OpcodeInfo struct {
	Name         string
	OperandBytes int
	Pops         int
	Pushes       int
}

// StackEffect is the net change in stack depth after the instruction runs.
func (i OpcodeInfo) StackEffect() int { return i.Pushes - i.Pops }

var opcodeTable = [...]OpcodeInfo{
	OpConstant:  {"CONSTANT", 1, 0, 1},
	OpAdd:       {"ADD", 0, 2, 1},
	OpSubtract:  {"SUBTRACT", 0, 2, 1},
	OpMultiply:  {"MULTIPLY", 0, 2, 1},
	OpDivide:    {"DIVIDE", 0, 2, 1},
	OpEqual:     {"EQUAL", 0, 2, 1},
	OpGreater:   {"GREATER", 0, 2, 1},
	OpLess:      {"LESS", 0, 2, 1},
	OpNegate:    {"NEGATE", 0, 1, 1},
	OpNot:       {"NOT", 0, 1, 1},
	OpReturn:    {"RETURN", 0, 1, 0},
	OpPrint:     {"PRINT", 0, 1, 0},
	OpDefineVar: {"DEFINE_VAR", 1, 1, 0},
	OpGetVar:    {"GET_VAR", 1, 0, 1},
	OpSetVar:    {"SET_VAR", 1, 1, 1},
	OpPop:       {"POP", 0, 1, 0},
}

// Info returns the metadata for op. ok is false for bytes that are not
// opcodes.
func (op Opcode) Info() (OpcodeInfo, bool) {
	if int(op) >= len(opcodeTable) {
		return OpcodeInfo{}, false
	}
	return opcodeTable[op], true
}

func (op Opcode) String() string {
	if info, ok := op.Info(); ok {
		return info.Name
	}
	return fmt.Sprintf("UNKNOWN(0x%02x)", byte(op))
}
