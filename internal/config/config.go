// Package config loads the optional .blockfmt.toml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ezerfernandes/blockfmt/internal/format"
	"github.com/ezerfernandes/blockfmt/internal/grammar"
)

// FileName is the configuration file looked up from the working directory.
const FileName = ".blockfmt.toml"

// Config is the merged configuration of a run.
type Config struct {
	Formatter string          `toml:"formatter"`
	Shell     bool            `toml:"shell"`
	Timeout   string          `toml:"timeout"`
	Lang      string          `toml:"lang"`
	Include   []string        `toml:"include"`
	Exclude   []string        `toml:"exclude"`
	Jobs      int             `toml:"jobs"`
	Grammars  []GrammarConfig `toml:"grammar"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
}

// GrammarConfig declares an extra block grammar.
type GrammarConfig struct {
	Label  string `toml:"label"`
	Start  string `toml:"start"`
	Finish string `toml:"finish"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Formatter: format.DefaultCommand,
		Lang:      grammar.DefaultLang,
		Include:   []string{"*.md", "*.markdown", "*_test.go"},
		Exclude:   []string{".git", "vendor", "node_modules"},
		Jobs:      1,
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return "", false, nil
}

// Load returns the defaults overlaid with the file at path. Keys absent from
// the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Discover loads the file found from startDir, or the defaults if none exists.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}

	if !ok {
		return Default(), nil
	}

	return Load(path)
}

// Validate checks the values that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	if len(strings.TrimSpace(c.Formatter)) == 0 {
		return errors.New("formatter must not be empty")
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}

	_, err := c.Registry()

	return err
}

// TimeoutDuration parses Timeout; empty means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if len(c.Timeout) == 0 {
		return 0, nil
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}

	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: negative", c.Timeout)
	}

	return d, nil
}

// Registry returns the built-in grammars followed by the configured ones.
func (c *Config) Registry() (grammar.Registry, error) {
	extra := make([]grammar.Grammar, len(c.Grammars))
	for i, g := range c.Grammars {
		extra[i] = grammar.Grammar{Start: g.Start, Finish: g.Finish, Label: g.Label}
	}

	return grammar.Builtin(c.Lang).With(extra...)
}

// NewFormatter builds the formatter gateway described by the configuration.
func (c *Config) NewFormatter() (format.Formatter, error) {
	timeout, err := c.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	if c.Shell {
		sh, err := format.NewShell(c.Formatter, timeout)
		if err != nil {
			return nil, err
		}

		return sh, nil
	}

	command, err := format.NewCommand(c.Formatter, timeout)
	if err != nil {
		return nil, err
	}

	return command, nil
}
