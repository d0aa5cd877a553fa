package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"parens/internal/diag"
	"parens/internal/diagfmt"
	"parens/internal/driver"
	"parens/internal/source"
)

var evalCmd = &cobra.Command{
	Use:   "eval [file|dir]",
	Short: "Evaluate a program or every *.lisp file of a directory",
	Long: `Eval tokenizes, parses and evaluates programs and prints their values.
Given a directory, every *.lisp file inside it is evaluated in parallel and
the results are printed in path order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().String("format", "pretty", "value format (pretty|json)")
	evalCmd.Flags().StringP("expr", "e", "", "program text to use instead of a file")
	evalCmd.Flags().IntP("jobs", "j", 0, "parallel workers for directories (0 = GOMAXPROCS)")
	evalCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	evalCmd.Flags().Bool("cache", false, "reuse results of unchanged files (default from parens.toml)")
}

// dirValueJSON is one line of `eval --format json <dir>` output.
type dirValueJSON struct {
	File  string               `json:"file"`
	OK    bool                 `json:"ok"`
	Value *diagfmt.ValueOutput `json:"value,omitempty"`
	Error string               `json:"error,omitempty"`
}

func runEval(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	opts := s.driverOptions()
	if opts.Cache, err = openCache(cmd, s); err != nil {
		return err
	}

	if len(args) == 1 {
		if st, statErr := os.Stat(args[0]); statErr == nil && st.IsDir() {
			return evalDir(cmd, s, args[0], format, opts)
		}
	}

	res, err := loadInput(cmd, args, opts)
	if err != nil {
		return err
	}
	if res.OK() {
		if err := printValue(cmd.OutOrStdout(), res, format, s.color); err != nil {
			return err
		}
	}
	return s.finish(cmd.ErrOrStderr(), res)
}

func evalDir(cmd *cobra.Command, s *settings, dir, format string, opts driver.Options) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	opts.Jobs = jobs

	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	useTUI, err := autoSwitch("ui", uiValue, os.Stdout)
	if err != nil {
		return err
	}

	var (
		fs      *source.FileSet
		results []driver.DirResult
	)
	if useTUI && !s.quiet && format == "pretty" {
		files, listErr := driver.ListSources(dir)
		if listErr != nil {
			return listErr
		}
		fs, results, err = runDirWithUI(cmd.Context(), "eval", dir, files, opts)
	} else {
		fs, results, err = driver.RunDir(cmd.Context(), dir, opts)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	merged := diag.NewBag(s.maxDiagnostics)
	failed := false
	for _, r := range results {
		name, relErr := source.RelativePath(r.Path, dir)
		if relErr != nil {
			name = r.Path
		}
		merged.Merge(r.Bag)
		if !r.OK() {
			failed = true
		}
		if err := printDirValue(out, name, r.Result, format, s.color); err != nil {
			return err
		}
		if s.timings && !s.quiet {
			fmt.Fprintf(stderr, "%s ", name)
			fmt.Fprint(stderr, r.Timing.String())
		}
	}
	if err := s.printDiagnostics(stderr, merged, fs); err != nil {
		return err
	}
	if failed {
		return errReported
	}
	return nil
}

func printValue(w io.Writer, res *driver.Result, format string, colored bool) error {
	if format == "json" {
		return diagfmt.FormatValueJSON(w, res.Value)
	}
	return diagfmt.FormatValue(w, res.Value, colored)
}

func printDirValue(w io.Writer, name string, res *driver.Result, format string, colored bool) error {
	if format == "json" {
		line := dirValueJSON{File: name, OK: res.OK()}
		if res.OK() {
			v := diagfmt.BuildValueOutput(res.Value)
			line.Value = &v
		} else {
			line.Error = res.Err.Error()
		}
		return json.NewEncoder(w).Encode(line)
	}
	if !res.OK() {
		_, err := fmt.Fprintf(w, "%s: error\n", name)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s: ", name); err != nil {
		return err
	}
	return diagfmt.FormatValue(w, res.Value, colored)
}

// openCache returns the result cache when --cache or [cache].enabled asks for it.
func openCache(cmd *cobra.Command, s *settings) (*driver.DiskCache, error) {
	enabled := s.cfg.Cache.Enabled
	if cmd.Flags().Changed("cache") {
		var err error
		if enabled, err = cmd.Flags().GetBool("cache"); err != nil {
			return nil, fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	if !enabled {
		return nil, nil
	}
	dir, err := s.cfg.CacheDir()
	if err != nil {
		return nil, err
	}
	return driver.OpenDiskCache(dir)
}
