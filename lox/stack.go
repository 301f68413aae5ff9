package lox

import "fmt"

// StackReport is the result of statically walking a chunk with the fixed
// stack effect of every opcode.
type StackReport struct {
	Instructions []Instruction
	// Depths[i] is the stack depth after Instructions[i] runs.
	Depths     []int
	MaxDepth   int
	FinalDepth int
}

// VerifyError locates a malformed instruction found by VerifyStack.
type VerifyError struct {
	Offset  int
	Line    int
	Message string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("bytecode error at offset %04d (line %d): %s", e.Offset, e.Line, e.Message)
}

// VerifyStack checks that no instruction can run with too few operands and
// that every constant operand is in range. The walk is linear because the
// instruction set has no jumps.
func VerifyStack(c *Chunk) (StackReport, error) {
	instructions, stopped := c.Instructions()
	report := StackReport{Instructions: instructions, Depths: make([]int, 0, len(instructions))}

	depth := 0
	for _, ins := range instructions {
		info, _ := ins.Op.Info()
		if depth < info.Pops {
			return report, &VerifyError{
				Offset:  ins.Offset,
				Line:    ins.Line,
				Message: fmt.Sprintf("%s needs %d operand(s), stack has %d", info.Name, info.Pops, depth),
			}
		}
		if info.OperandBytes == 1 && ins.Operand >= len(c.Constants) {
			return report, &VerifyError{
				Offset:  ins.Offset,
				Line:    ins.Line,
				Message: fmt.Sprintf("constant index %d out of range (%d constants)", ins.Operand, len(c.Constants)),
			}
		}
		depth += info.StackEffect()
		if depth > report.MaxDepth {
			report.MaxDepth = depth
		}
		report.Depths = append(report.Depths, depth)
	}

	if stopped < len(c.Code) {
		op := Opcode(c.Code[stopped])
		msg := "truncated operand for " + op.String()
		if _, ok := op.Info(); !ok {
			msg = fmt.Sprintf("unknown opcode 0x%02x", byte(op))
		}
		return report, &VerifyError{Offset: stopped, Line: c.LineAt(stopped), Message: msg}
	}

	report.FinalDepth = depth
	return report, nil
}
