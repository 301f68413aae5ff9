package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgomes/lox/lox"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

// Exit codes follow sysexits: data errors for bad programs, software errors
// for programs that fail while running.
const (
	exitCompileError = 65
	exitRuntimeError = 70
)

var log = commonlog.GetLogger("lox.cli")

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var compileErr *lox.CompileError
	if errors.As(err, &compileErr) {
		return exitCompileError
	}
	var runtimeErr *lox.RuntimeError
	if errors.As(err, &runtimeErr) {
		return exitRuntimeError
	}
	return 1
}

func runCLI(args []string) error {
	fs := flag.NewFlagSet("lox", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	configPath := fs.String("config", "", "read settings from this file instead of searching for "+configFileName)
	verbosity := fs.Int("v", -1, "log verbosity (0 notice, 1 info, 2 debug)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	cfg, err := resolveConfig(*configPath)
	if err != nil {
		return err
	}
	if *verbosity >= 0 {
		cfg.Log.Verbosity = *verbosity
	}
	configureLogging(cfg.Log, 0)
	if cfg.Path != "" {
		log.Infof("using config %s", cfg.Path)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return replCommand(nil, cfg)
	}
	switch rest[0] {
	case "run":
		return runCommand(rest[1:], cfg)
	case "disasm":
		return disasmCommand(rest[1:])
	case "analyze":
		return analyzeCommand(rest[1:])
	case "fmt":
		return fmtCommand(rest[1:])
	case "repl":
		return replCommand(rest[1:], cfg)
	case "lsp":
		return runLSP()
	case "help", "-h", "--help":
		printUsage()
		return nil
	}
	if len(rest) == 1 && filepath.Ext(rest[0]) == ".lox" {
		return runCommand(rest, cfg)
	}
	return usageError()
}

func resolveConfig(path string) (*fileConfig, error) {
	if path != "" {
		return loadConfig(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return &fileConfig{}, nil
	}
	return findConfig(wd)
}

// configureLogging starts the commonlog backend at the configured verbosity,
// raised to at least minVerbosity.
func configureLogging(cfg logSection, minVerbosity int) {
	verbosity := max(cfg.Verbosity, minVerbosity)
	var path *string
	if cfg.File != "" {
		path = &cfg.File
	}
	commonlog.Configure(verbosity, path)
}

func runCommand(args []string, cfg *fileConfig) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	trace := fs.Bool("trace", cfg.Run.Trace, "log the stack and each instruction before it executes")
	checkOnly := fs.Bool("check", false, "only compile the program without executing")
	stackLimit := fs.Int("stack-limit", cfg.Run.StackLimit, "maximum operand stack depth (0 for the default)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("lox run: script path required")
	}

	source, err := readScript(remaining[0])
	if err != nil {
		return err
	}
	chunk, err := lox.Compile(source)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	log.Debugf("compiled %s: %d bytes, %d constants", remaining[0], chunk.Len(), len(chunk.Constants))
	if *checkOnly {
		return nil
	}

	if *trace {
		configureLogging(cfg.Log, 2)
	}
	vm := lox.NewVM(chunk, lox.Config{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		StackLimit: *stackLimit,
		Trace:      *trace,
	})
	if err := vm.Run(); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}

func disasmCommand(args []string) error {
	fs := flag.NewFlagSet("disasm", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("lox disasm: script path required")
	}

	source, err := readScript(remaining[0])
	if err != nil {
		return err
	}
	chunk, err := lox.Compile(source)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	fmt.Print(chunk.Disassemble(filepath.Base(remaining[0])))
	return nil
}

func readScript(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(input), nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [-config file] [-v n] <command> [flags] [args]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run [-trace] [-check] [-stack-limit n] <script>")
	fmt.Fprintln(os.Stderr, "    compile and execute a program")
	fmt.Fprintln(os.Stderr, "  disasm <script>")
	fmt.Fprintln(os.Stderr, "    print the compiled bytecode")
	fmt.Fprintln(os.Stderr, "  analyze <script>")
	fmt.Fprintln(os.Stderr, "    check stack usage and report statements with no effect")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] <paths...>")
	fmt.Fprintln(os.Stderr, "    format .lox files")
	fmt.Fprintln(os.Stderr, "  repl [-mode tui|line]")
	fmt.Fprintln(os.Stderr, "    start an interactive session (the default with no command)")
	fmt.Fprintln(os.Stderr, "  lsp")
	fmt.Fprintln(os.Stderr, "    serve diagnostics and completion over stdio")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
