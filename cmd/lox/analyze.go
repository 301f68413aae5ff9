package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/mgomes/lox/lox"
)

type lintWarning struct {
	Line    int
	Offset  int
	Message string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("lox analyze: script path required")
	}

	scriptPath := remaining[0]
	source, err := readScript(scriptPath)
	if err != nil {
		return err
	}
	chunk, err := lox.Compile(source)
	if err != nil {
		return fmt.Errorf("analysis compile failed: %w", err)
	}

	report, err := lox.VerifyStack(chunk)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	fmt.Printf("%s: %d instruction(s), %d constant(s), max stack depth %d\n",
		scriptPath, len(report.Instructions), len(chunk.Constants), report.MaxDepth)

	warnings := analyzeChunkWarnings(report)
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := warning.Line
		if line <= 0 {
			line = 1
		}
		fmt.Printf("%s:%d: %s (offset %04d)\n", scriptPath, line, warning.Message, warning.Offset)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

// analyzeChunkWarnings flags every expression statement. Its value is
// computed and popped; only a runtime error can make it observable.
func analyzeChunkWarnings(report lox.StackReport) []lintWarning {
	warnings := make([]lintWarning, 0)
	for _, ins := range report.Instructions {
		if ins.Op != lox.OpPop {
			continue
		}
		warnings = append(warnings, lintWarning{
			Line:    ins.Line,
			Offset:  ins.Offset,
			Message: "value of expression statement is discarded",
		})
	}
	if report.FinalDepth != 0 {
		warnings = append(warnings, lintWarning{
			Message: fmt.Sprintf("program leaves %d value(s) on the stack", report.FinalDepth),
		})
	}
	return warnings
}
