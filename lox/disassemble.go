package lox

import (
	"fmt"
	"strings"
)

// Disassemble renders every instruction in code order under a "== name =="
// header. Each line shows the offset, the source line (or "|" when it repeats
// the previous byte's line), the mnemonic, and for constant-bearing
// instructions the pool index and the constant.
func (c *Chunk) Disassemble(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		text, next := c.DisassembleInstruction(offset)
		b.WriteString(text)
		b.WriteByte('\n')
		offset = next
	}
	return b.String()
}

// DisassembleInstruction renders the instruction at offset and returns the
// offset of the next one.
func (c *Chunk) DisassembleInstruction(offset int) (string, int) {
	if offset < 0 || offset >= len(c.Code) {
		return fmt.Sprintf("%04d <out of range>", offset), offset + 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%04d ", offset)
	if offset > 0 && c.LineAt(offset) == c.LineAt(offset-1) {
		b.WriteString("   | ")
	} else {
		fmt.Fprintf(&b, "%4d ", c.LineAt(offset))
	}

	op := Opcode(c.Code[offset])
	info, ok := op.Info()
	if !ok {
		fmt.Fprintf(&b, "unknown opcode 0x%02x", byte(op))
		return b.String(), offset + 1
	}
	if info.OperandBytes == 0 {
		b.WriteString(info.Name)
		return b.String(), offset + 1
	}
	return c.constantInstruction(&b, info.Name, offset)
}

func (c *Chunk) constantInstruction(b *strings.Builder, name string, offset int) (string, int) {
	if offset+1 >= len(c.Code) {
		fmt.Fprintf(b, "%-16s <truncated>", name)
		return b.String(), len(c.Code)
	}
	idx := int(c.Code[offset+1])
	if idx >= len(c.Constants) {
		fmt.Fprintf(b, "%-16s %4d <bad constant>", name, idx)
		return b.String(), offset + 2
	}
	fmt.Fprintf(b, "%-16s %4d '%s'", name, idx, c.Constants[idx].String())
	return b.String(), offset + 2
}
