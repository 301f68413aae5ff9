package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

const (
	linePrompt = "> "
	lineBanner = "lox: enter an expression or statements ending in ';'; :help for commands"
)

// prompter is the part of *liner.State the line REPL needs.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func runLineREPL(cfg *fileConfig) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		lastWord, matches := completions(line)
		prefix := strings.TrimSuffix(line, lastWord)
		out := make([]string, len(matches))
		for i, m := range matches {
			out[i] = prefix + m
		}
		return out
	})

	histPath := cfg.historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(histPath)
			if err != nil {
				replLog.Warningf("cannot save history to %s: %s", histPath, err)
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	fmt.Println(lineBanner)
	return lineREPL(ln, newSession(cfg), os.Stdout, os.Stderr)
}

// lineREPL reads inputs until end of input or :quit. Ctrl-C abandons the
// current line only.
func lineREPL(p prompter, s *session, stdout, stderr io.Writer) error {
	for {
		line, err := p.Prompt(linePrompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout)
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		p.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			switch strings.Fields(input)[0] {
			case ":quit", ":q":
				return nil
			case ":dis", ":d":
				if listing := s.disassembly(); listing != "" {
					fmt.Fprintln(stdout, listing)
				} else {
					fmt.Fprintln(stdout, "nothing compiled yet")
				}
			case ":help", ":h":
				fmt.Fprintln(stdout, ":dis   show bytecode of the last input")
				fmt.Fprintln(stdout, ":quit  exit")
			default:
				fmt.Fprintf(stderr, "unknown command %s, type :help\n", input)
			}
			continue
		}

		output, isErr := s.eval(input)
		switch {
		case isErr:
			fmt.Fprintln(stderr, output)
		case output != "":
			fmt.Fprintln(stdout, output)
		}
	}
}
