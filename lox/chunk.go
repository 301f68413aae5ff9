package lox

// maxConstants is the size of the constant pool addressable by a one-byte
// operand.
const maxConstants = 256

// Chunk is a compiled unit: the instruction stream, one source line per code
// byte, and the constant pool indexed from CONSTANT operands. A chunk is
// built by the compiler and only read afterwards.
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []Value
}

// NewChunk returns an empty chunk.
func NewChunk() *Chunk {
	return &Chunk{}
}

// Emit appends one instruction or operand byte produced from source line.
func (c *Chunk) Emit(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// EmitOp appends an opcode byte.
func (c *Chunk) EmitOp(op Opcode, line int) {
	c.Emit(byte(op), line)
}

// AddConstant appends v to the constant pool and returns its index. Equal
// values are not shared; each call takes a new slot.
func (c *Chunk) AddConstant(v Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// Len returns the number of code bytes.
func (c *Chunk) Len() int { return len(c.Code) }

// LineAt returns the source line recorded for the code byte at offset, or 0
// when offset is outside the chunk.
func (c *Chunk) LineAt(offset int) int {
	if offset < 0 || offset >= len(c.Lines) {
		return 0
	}
	return c.Lines[offset]
}

// Instruction is one decoded instruction.
type Instruction struct {
	Offset  int
	Op      Opcode
	Operand int
	Line    int
}

// Instructions decodes the code stream in order. Decoding stops at the first
// unknown opcode or truncated operand; the returned offset is where it stopped.
func (c *Chunk) Instructions() ([]Instruction, int) {
	var out []Instruction
	offset := 0
	for offset < len(c.Code) {
		op := Opcode(c.Code[offset])
		info, ok := op.Info()
		if !ok || offset+info.OperandBytes >= len(c.Code) {
			return out, offset
		}
		ins := Instruction{Offset: offset, Op: op, Line: c.LineAt(offset)}
		if info.OperandBytes == 1 {
			ins.Operand = int(c.Code[offset+1])
		}
		out = append(out, ins)
		offset += 1 + info.OperandBytes
	}
	return out, offset
}

