package lox

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

func evalValue(t *testing.T, source string) Value {
	t.Helper()
	v, err := Eval(source, Config{})
	if err != nil {
		t.Fatalf("%q: eval failed: %v", source, err)
	}
	return v
}

func runtimeErr(t *testing.T, err error) *RuntimeError {
	t.Helper()
	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RuntimeError, got %T (%v)", err, err)
	}
	return rerr
}

func interpretCapture(source string, cfg Config) (InterpretResult, string, string) {
	var stdout, stderr bytes.Buffer
	cfg.Stdout = &stdout
	cfg.Stderr = &stderr
	result := Interpret(source, cfg)
	return result, stdout.String(), stderr.String()
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		source string
		want   float64
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"(-1 + 2) * 3 - -4", 7},
		{"10 - 2 - 3", 5},
		{"8 / 4 / 2", 1},
		{"-(3)", -3},
		{"--3", 3},
		{"0.1 + 0.2", 0.30000000000000004},
	}
	for _, tt := range tests {
		if got := evalValue(t, tt.source); !got.IsNumber() || got.AsNumber() != tt.want {
			t.Fatalf("%q: expected %v, got %s %v", tt.source, tt.want, got.Kind(), got)
		}
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	if got := evalValue(t, "1 / 0").AsNumber(); !math.IsInf(got, 1) {
		t.Fatalf("expected +Inf, got %v", got)
	}
	if got := evalValue(t, "-1 / 0").AsNumber(); !math.IsInf(got, -1) {
		t.Fatalf("expected -Inf, got %v", got)
	}
	if got := evalValue(t, "0 / 0").AsNumber(); !math.IsNaN(got) {
		t.Fatalf("expected NaN, got %v", got)
	}
}

func TestEvalComparisonsAndLogic(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"1 < 2", true},
		{"2 < 1", false},
		{"2 <= 2", true},
		{"3 <= 2", false},
		{"2 >= 2", true},
		{"1 >= 2", false},
		{"3 > 2", true},
		{"1 == 1", true},
		{"1 != 1", false},
		{"nil == nil", true},
		{"nil == false", false},
		{"0 == false", false},
		{"\"a\" == \"a\"", true},
		{"\"a\" != \"b\"", true},
		{"1 == \"1\"", false},
		{"!nil", true},
		{"!0", true},
		{"!1", false},
		{"!\"\"", false},
		{"!true == false", true},
		{"1 < 2 == true", true},
	}
	for _, tt := range tests {
		got := evalValue(t, tt.source)
		if !got.IsBool() || got.AsBool() != tt.want {
			t.Fatalf("%q: expected %v, got %s %v", tt.source, tt.want, got.Kind(), got)
		}
	}
}

func TestEvalStringConcatenation(t *testing.T) {
	got := evalValue(t, `"foo" + "bar" + ""`)
	if !got.IsString() || got.AsString() != "foobar" {
		t.Fatalf("expected foobar, got %s %v", got.Kind(), got)
	}
}

func TestEvalLiterals(t *testing.T) {
	if !evalValue(t, "nil").IsNil() {
		t.Fatalf("expected nil")
	}
	if !evalValue(t, "true").AsBool() {
		t.Fatalf("expected true")
	}
	if got := evalValue(t, "42").AsNumber(); got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
}

func TestRuntimeTypeErrors(t *testing.T) {
	tests := []struct {
		source  string
		message string
		op      Opcode
	}{
		{`-"a"`, "operand must be a number, got string", OpNegate},
		{"-nil", "operand must be a number, got nil", OpNegate},
		{`1 + "a"`, "operands must be two numbers or two strings, got number and string", OpAdd},
		{"true + true", "operands must be two numbers or two strings, got bool and bool", OpAdd},
		{`"a" - "b"`, "operands must be numbers, got string and string", OpSubtract},
		{"nil * 2", "operands must be numbers, got nil and number", OpMultiply},
		{"1 / false", "operands must be numbers, got number and bool", OpDivide},
		{"1 < nil", "operands must be numbers, got number and nil", OpLess},
		{`"a" > "b"`, "operands must be numbers, got string and string", OpGreater},
		{"true <= 1", "operands must be numbers, got bool and number", OpGreater},
		{"1 >= true", "operands must be numbers, got number and bool", OpLess},
	}
	for _, tt := range tests {
		_, err := Eval(tt.source, Config{})
		rerr := runtimeErr(t, err)
		if rerr.Message != tt.message {
			t.Fatalf("%q: expected %q, got %q", tt.source, tt.message, rerr.Message)
		}
		if rerr.Op != tt.op {
			t.Fatalf("%q: expected failing op %s, got %s", tt.source, tt.op, rerr.Op)
		}
		if rerr.Line != 1 {
			t.Fatalf("%q: expected line 1, got %d", tt.source, rerr.Line)
		}
		if errors.Unwrap(rerr) != nil {
			t.Fatalf("%q: type errors should not wrap a sentinel", tt.source)
		}
	}
}

func TestInterpretPrintsValues(t *testing.T) {
	source := strings.Join([]string{
		"print 1 + 2;",
		`print "x" + "y";`,
		"print nil;",
		"print !true;",
		"print 2.5;",
		"print 1 / 0;",
		"print 1 == 1;",
	}, "\n")
	result, stdout, stderr := interpretCapture(source, Config{})
	if result != InterpretOK {
		t.Fatalf("expected ok, got %s (%s)", result, stderr)
	}
	want := "3\nxy\nnil\nfalse\n2.5\ninf\ntrue\n"
	if stdout != want {
		t.Fatalf("expected output %q, got %q", want, stdout)
	}
	if stderr != "" {
		t.Fatalf("expected no stderr, got %q", stderr)
	}
}

func TestInterpretCompileError(t *testing.T) {
	result, stdout, stderr := interpretCapture("print 1;\nprint (1;", Config{})
	if result != InterpretCompileError {
		t.Fatalf("expected compile error, got %s", result)
	}
	if stdout != "" {
		t.Fatalf("nothing should run after a compile error, got %q", stdout)
	}
	if !strings.HasPrefix(stderr, "compile error at line 2: expect ')' after expression") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestInterpretRuntimeErrorHalts(t *testing.T) {
	result, stdout, stderr := interpretCapture("print 1;\n-true;\nprint 2;", Config{})
	if result != InterpretRuntimeError {
		t.Fatalf("expected runtime error, got %s", result)
	}
	if stdout != "1\n" {
		t.Fatalf("expected only the first print, got %q", stdout)
	}
	if stderr != "runtime error at line 2: operand must be a number, got bool\n" {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestInterpretResultString(t *testing.T) {
	if InterpretOK.String() != "ok" || InterpretCompileError.String() != "compile error" ||
		InterpretRuntimeError.String() != "runtime error" {
		t.Fatalf("unexpected result names")
	}
}

func TestExpressionStatementsLeaveStackEmpty(t *testing.T) {
	chunk, err := Compile("1; 2 + 3; \"s\";")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	vm := NewVM(chunk, Config{})
	if err := vm.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if vm.StackDepth() != 0 {
		t.Fatalf("expected empty stack, got depth %d", vm.StackDepth())
	}
	if got := vm.Result().AsString(); got != "s" {
		t.Fatalf("expected last discarded value s, got %q", got)
	}
}

func TestReturnHaltsExecution(t *testing.T) {
	c := NewChunk()
	first := c.AddConstant(NewNumber(1))
	second := c.AddConstant(NewNumber(2))
	c.EmitOp(OpConstant, 1)
	c.Emit(byte(first), 1)
	c.EmitOp(OpReturn, 1)
	c.EmitOp(OpConstant, 2)
	c.Emit(byte(second), 2)
	c.EmitOp(OpPrint, 2)

	var stdout bytes.Buffer
	vm := NewVM(c, Config{Stdout: &stdout})
	if err := vm.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected nothing printed after RETURN, got %q", stdout.String())
	}
	if vm.Result().AsNumber() != 1 {
		t.Fatalf("expected result 1, got %v", vm.Result())
	}
}

func TestMalformedChunks(t *testing.T) {
	tests := []struct {
		name      string
		code      []byte
		constants []Value
		sentinel  error
		message   string
	}{
		{"underflow", []byte{byte(OpAdd)}, nil, ErrStackUnderflow, "ADD needs 2 operand(s), stack has 0"},
		{"pop underflow", []byte{byte(OpPop)}, nil, ErrStackUnderflow, "POP needs 1 operand(s), stack has 0"},
		{"truncated", []byte{byte(OpConstant)}, nil, ErrBadBytecode, "truncated operand for CONSTANT"},
		{"bad constant", []byte{byte(OpConstant), 3}, []Value{NewNil()}, ErrBadBytecode, "constant index 3 out of range (1 constants)"},
		{"unknown opcode", []byte{0xee}, nil, ErrBadBytecode, "unknown opcode 0xee"},
	}
	for _, tt := range tests {
		c := &Chunk{Code: tt.code, Lines: make([]int, len(tt.code)), Constants: tt.constants}
		for i := range c.Lines {
			c.Lines[i] = 7
		}
		err := NewVM(c, Config{}).Run()
		rerr := runtimeErr(t, err)
		if !errors.Is(err, tt.sentinel) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.sentinel, err)
		}
		if rerr.Message != tt.message {
			t.Fatalf("%s: expected %q, got %q", tt.name, tt.message, rerr.Message)
		}
		if rerr.Line != 7 || rerr.Offset != 0 {
			t.Fatalf("%s: expected location line 7 offset 0, got %d/%d", tt.name, rerr.Line, rerr.Offset)
		}
	}
}

func TestRunWithoutChunk(t *testing.T) {
	err := NewVM(nil, Config{}).Run()
	if !errors.Is(err, ErrBadBytecode) {
		t.Fatalf("expected ErrBadBytecode, got %v", err)
	}
	if err.Error() != "runtime error: no chunk to run" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestReservedVariableOpcodes(t *testing.T) {
	for _, op := range []Opcode{OpDefineVar, OpGetVar, OpSetVar} {
		c := NewChunk()
		name := c.AddConstant(NewString("x"))
		value := c.AddConstant(NewNumber(1))
		c.EmitOp(OpConstant, 1)
		c.Emit(byte(value), 1)
		c.EmitOp(op, 1)
		c.Emit(byte(name), 1)

		err := NewVM(c, Config{}).Run()
		rerr := runtimeErr(t, err)
		want := "variables are not supported (" + op.String() + " x)"
		if rerr.Message != want {
			t.Fatalf("%s: expected %q, got %q", op, want, rerr.Message)
		}
	}
}

func TestStackLimit(t *testing.T) {
	_, err := Eval("1 + (2 + (3 + 4))", Config{StackLimit: 3})
	if !errors.Is(err, ErrStackOverflow) {
		t.Fatalf("expected stack overflow, got %v", err)
	}
	if runtimeErr(t, err).Message != "stack limit 3 exceeded" {
		t.Fatalf("unexpected message %q", err)
	}
	v, err := Eval("1 + (2 + (3 + 4))", Config{StackLimit: 4})
	if err != nil {
		t.Fatalf("expected limit 4 to fit, got %v", err)
	}
	if v.AsNumber() != 10 {
		t.Fatalf("expected 10, got %v", v)
	}
}

func TestDeepNestingWithinDefaultLimit(t *testing.T) {
	depth := DefaultStackLimit - 1
	source := strings.Repeat("(1 + ", depth) + "1" + strings.Repeat(")", depth)
	v, err := Eval(source, Config{})
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if v.AsNumber() != float64(depth+1) {
		t.Fatalf("expected %d, got %v", depth+1, v)
	}
}

func TestVMDoesNotMutateChunk(t *testing.T) {
	chunk, err := Compile("print (1 + 2) * -3;\n\"a\" + \"b\";")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	code := append([]byte(nil), chunk.Code...)
	lines := append([]int(nil), chunk.Lines...)
	constants := append([]Value(nil), chunk.Constants...)

	var stdout bytes.Buffer
	if err := NewVM(chunk, Config{Stdout: &stdout}).Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !bytes.Equal(code, chunk.Code) {
		t.Fatalf("code changed")
	}
	for i := range lines {
		if lines[i] != chunk.Lines[i] {
			t.Fatalf("lines changed")
		}
	}
	for i := range constants {
		if !constants[i].Equal(chunk.Constants[i]) {
			t.Fatalf("constant %d changed", i)
		}
	}
}

func TestVMRerun(t *testing.T) {
	chunk, err := Compile("print 1 + 1;")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	var stdout bytes.Buffer
	vm := NewVM(chunk, Config{Stdout: &stdout})
	for i := 0; i < 2; i++ {
		if result := vm.Interpret(); result != InterpretOK {
			t.Fatalf("run %d: expected ok, got %s", i, result)
		}
	}
	if stdout.String() != "2\n2\n" {
		t.Fatalf("expected two runs of output, got %q", stdout.String())
	}
}

func TestVMTraceRuns(t *testing.T) {
	var stdout bytes.Buffer
	result := Interpret("print -(1 + 2);", Config{Stdout: &stdout, Trace: true})
	if result != InterpretOK {
		t.Fatalf("expected ok, got %s", result)
	}
	if stdout.String() != "-3\n" {
		t.Fatalf("trace must not change program output, got %q", stdout.String())
	}
}

func TestLanguageProperties(t *testing.T) {
	if got := evalValue(t, "2 - 3 - 4").AsNumber(); got != -5 {
		t.Fatalf("subtraction must associate left, got %v", got)
	}
	lowered := evalValue(t, "5 <= 3")
	negated := evalValue(t, "!(5 > 3)")
	if !lowered.Equal(negated) || lowered.AsBool() {
		t.Fatalf("expected 5 <= 3 and !(5 > 3) to both be false, got %v and %v", lowered, negated)
	}
	if evalValue(t, "5 != 5").AsBool() {
		t.Fatalf("expected 5 != 5 to be false")
	}
	if !evalValue(t, `"str" + "ing" == "string"`).AsBool() {
		t.Fatalf("expected concatenation to compare equal")
	}
	if _, err := Eval(`"a" + 1`, Config{}); err == nil {
		t.Fatalf("expected runtime error for string plus number")
	}
	if _, err := Eval(`"abc`, Config{}); err == nil || !strings.Contains(err.Error(), "unterminated string") {
		t.Fatalf("expected unterminated string compile error, got %v", err)
	}
}

func TestNumericLiteralStatementsLeaveStackEmpty(t *testing.T) {
	for _, literal := range []string{"0", "1", "42", "3.25", "123456", "0.5"} {
		chunk, err := Compile(literal + ";")
		if err != nil {
			t.Fatalf("%s: compile failed: %v", literal, err)
		}
		if len(chunk.Constants) != 1 || chunk.Constants[0].String() != literal {
			t.Fatalf("%s: expected the literal in the constant pool, got %v", literal, chunk.Constants)
		}
		vm := NewVM(chunk, Config{})
		if err := vm.Run(); err != nil {
			t.Fatalf("%s: run failed: %v", literal, err)
		}
		if vm.StackDepth() != 0 {
			t.Fatalf("%s: expected empty stack, got %d", literal, vm.StackDepth())
		}
	}
}
