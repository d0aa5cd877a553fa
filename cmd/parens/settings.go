package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"parens/internal/config"
	"parens/internal/driver"
	"parens/internal/prof"
)

// settings are the parens.toml values with command-line overrides applied.
type settings struct {
	cfg            config.Config
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	diagFormat     string
}

type settingsKey struct{}

func settingsFrom(cmd *cobra.Command) *settings {
	if s, ok := cmd.Context().Value(settingsKey{}).(*settings); ok {
		return s
	}
	return &settings{cfg: config.Default(), maxDiagnostics: driver.DefaultMaxDiagnostics, diagFormat: "pretty"}
}

func setupCommand(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, settingsKey{}, s))

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		cleanup()
		return err
	}
	teardown = func() {
		stopProfiling()
		cleanup()
	}
	return nil
}

func setupProfiling(cmd *cobra.Command) (func(), error) {
	r := flagReader{set: cmd.Root().PersistentFlags()}
	opts := prof.Options{
		CPUProfile: r.str("cpuprofile"),
		MemProfile: r.str("memprofile"),
		ExecTrace:  r.str("exec-trace"),
	}
	if r.err != nil {
		return nil, r.err
	}
	if !opts.Enabled() {
		return func() {}, nil
	}
	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "prof: %v\n", err)
		}
	}, nil
}

// teardown releases what setupCommand acquired; main calls it once.
var teardown = func() {}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Root().PersistentFlags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	s := &settings{cfg: cfg, diagFormat: cfg.Output.Format}

	colorMode := cfg.Output.Color
	if flags.Changed("color") {
		if colorMode, err = flags.GetString("color"); err != nil {
			return nil, fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	if s.color, err = resolveColor(colorMode); err != nil {
		return nil, err
	}

	if flags.Changed("diagnostics-format") {
		if s.diagFormat, err = flags.GetString("diagnostics-format"); err != nil {
			return nil, fmt.Errorf("failed to get diagnostics-format flag: %w", err)
		}
	}
	switch s.diagFormat {
	case "pretty", "json", "short":
	default:
		return nil, fmt.Errorf("invalid --diagnostics-format %q (expected pretty|json|short)", s.diagFormat)
	}

	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return s, nil
}

func resolveColor(mode string) (bool, error) {
	return autoSwitch("color", mode, os.Stderr)
}

// autoSwitch parses an auto|on|off flag value; auto asks whether tty is a
// terminal.
func autoSwitch(flag, value string, tty *os.File) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return isTerminal(tty), nil
	}
	return false, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// driverOptions translates settings into pipeline options.
func (s *settings) driverOptions() driver.Options {
	opts := driver.DefaultOptions()
	opts.MaxDiagnostics = s.maxDiagnostics
	opts.MaxDepth = s.cfg.Limits.MaxDepth
	opts.MaxTokenLength = s.cfg.Limits.MaxTokenLength
	return opts
}
