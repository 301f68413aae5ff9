package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const configFileName = ".lox.toml"

// fileConfig is the contents of a .lox.toml file. Command-line flags take
// precedence over every value here.
type fileConfig struct {
	Run  runSection  `toml:"run"`
	REPL replSection `toml:"repl"`
	Log  logSection  `toml:"log"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

type runSection struct {
	Trace      bool `toml:"trace"`
	StackLimit int  `toml:"stack_limit"`
}

type replSection struct {
	Mode    string `toml:"mode"`
	History string `toml:"history"`
}

type logSection struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// loadConfig parses the config file at path. Unknown keys are rejected so
// that typos do not silently fall back to defaults.
func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var cfg fileConfig
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown key(s) %s", path, strings.Join(keys, ", "))
	}

	cfg.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// findConfig walks up from startDir looking for .lox.toml. When none is
// found the zero config is returned.
func findConfig(startDir string) (*fileConfig, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, configFileName)
		if _, err := os.Stat(path); err == nil {
			return loadConfig(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return &fileConfig{}, nil
		}
		dir = parent
	}
}

func (c *fileConfig) validate() error {
	switch c.REPL.Mode {
	case "", replModeTUI, replModeLine:
	default:
		return fmt.Errorf("repl.mode must be %q or %q, got %q", replModeTUI, replModeLine, c.REPL.Mode)
	}
	if c.Run.StackLimit < 0 {
		return fmt.Errorf("run.stack_limit must not be negative, got %d", c.Run.StackLimit)
	}
	return nil
}

// historyPath resolves the line-mode history file. Relative paths are taken
// from the config file's directory; the default lives in the home directory.
func (c *fileConfig) historyPath() string {
	path := c.REPL.History
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, ".lox_history")
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	if !filepath.IsAbs(path) && c.Path != "" {
		return filepath.Join(filepath.Dir(c.Path), path)
	}
	return path
}
