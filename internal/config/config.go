// Package config loads parens.toml, the optional per-directory settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the settings file looked up from the working directory upwards.
const FileName = "parens.toml"

type Config struct {
	Limits Limits `toml:"limits"`
	REPL   REPL   `toml:"repl"`
	Output Output `toml:"output"`
	Cache  Cache  `toml:"cache"`

	// Path is the file the settings came from; empty for defaults.
	Path string `toml:"-"`
}

type Limits struct {
	MaxDepth       int `toml:"max_depth"`        // 0 — без ограничения
	MaxTokenLength int `toml:"max_token_length"` // 0 — без ограничения
}

type REPL struct {
	Prompt  string `toml:"prompt"`
	History string `toml:"history"`
}

type Output struct {
	Color  string `toml:"color"`  // auto|on|off
	Format string `toml:"format"` // pretty|json|short
}

type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

var (
	colorModes    = []string{"auto", "on", "off"}
	outputFormats = []string{"pretty", "json", "short"}
)

// Default returns the settings used when no parens.toml exists.
func Default() Config {
	return Config{
		Limits: Limits{MaxDepth: 512, MaxTokenLength: 4096},
		REPL:   REPL{Prompt: "> ", History: "~/.parens_history"},
		Output: Output{Color: "auto", Format: "pretty"},
	}
}

// Find walks up from startDir to locate parens.toml.
func Find(startDir string) (path string, ok bool, err error) {
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

// Discover finds and loads parens.toml starting at startDir, falling back to
// Default when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.Limits.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("[limits].max_depth must be >= 0, got %d", c.Limits.MaxDepth))
	}
	if c.Limits.MaxTokenLength < 0 {
		errs = append(errs, fmt.Errorf("[limits].max_token_length must be >= 0, got %d", c.Limits.MaxTokenLength))
	}
	if !slices.Contains(colorModes, c.Output.Color) {
		errs = append(errs, fmt.Errorf("[output].color must be one of %s, got %q", strings.Join(colorModes, "|"), c.Output.Color))
	}
	if !slices.Contains(outputFormats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("[output].format must be one of %s, got %q", strings.Join(outputFormats, "|"), c.Output.Format))
	}
	return errors.Join(errs...)
}

// HistoryPath expands a leading "~" in the REPL history path. Empty means
// history is disabled.
func (c Config) HistoryPath() (string, error) {
	return expandHome(c.REPL.History)
}

// CacheDir returns the configured cache directory or <user cache>/parens.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return expandHome(c.Cache.Dir)
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user cache dir: %w", err)
	}
	return filepath.Join(base, "parens"), nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
