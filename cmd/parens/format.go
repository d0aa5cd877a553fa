package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"parens/internal/driver"
	"parens/internal/format"
	"parens/internal/source"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <path> [path...]",
	Short: "Format programs in canonical layout",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "check if files are properly formatted")
	fmtCmd.Flags().String("format", "text", "output format (text|json)")
	fmtCmd.Flags().Bool("stdout", false, "print formatted code to stdout instead of rewriting files")
	fmtCmd.Flags().Int("width", 80, "maximum line width before a list is wrapped")
	fmtCmd.Flags().Int("indent", 2, "indent of wrapped arguments")
}

type fmtResult struct {
	Path      string
	Formatted []byte
	Changed   bool
	Err       error
}

func runFmt(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	writeToStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	var opt format.Options
	if opt.MaxWidth, err = cmd.Flags().GetInt("width"); err != nil {
		return err
	}
	if opt.IndentWidth, err = cmd.Flags().GetInt("indent"); err != nil {
		return err
	}

	if writeToStdout && check {
		return fmt.Errorf("fmt: --stdout cannot be used with --check")
	}
	if writeToStdout && outputFormat != "text" {
		return fmt.Errorf("fmt: --stdout is only supported with text output")
	}
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("fmt: unsupported output format %q", outputFormat)
	}

	results := formatPaths(args, opt, !check && !writeToStdout)

	out := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	var hasErrors, hasChanges bool
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
		}
		if res.Changed {
			hasChanges = true
		}
	}

	switch {
	case outputFormat == "json":
		if err := renderFmtJSON(out, results, check); err != nil {
			return err
		}
	case writeToStdout:
		for _, res := range results {
			if res.Err != nil {
				fmt.Fprintf(stderr, "fmt: %s: %v\n", res.Path, res.Err)
				continue
			}
			if _, err := out.Write(res.Formatted); err != nil {
				return err
			}
		}
	default:
		for _, res := range results {
			switch {
			case res.Err != nil:
				fmt.Fprintf(stderr, "fmt: %s: %v\n", res.Path, res.Err)
			case res.Changed && check:
				if !s.quiet {
					fmt.Fprintln(out, res.Path)
				}
			case res.Changed && !s.quiet:
				fmt.Fprintf(out, "reformatted %s\n", res.Path)
			}
		}
	}

	if hasErrors {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if check && hasChanges {
		return fmt.Errorf("fmt: formatting changes required")
	}
	return nil
}

// formatPaths formats files and *.lisp files of directories in path order.
func formatPaths(paths []string, opt format.Options, write bool) []fmtResult {
	results := make([]fmtResult, 0, len(paths))
	for _, path := range expandSourcePaths(paths, &results) {
		results = append(results, formatOne(path, opt, write))
	}
	return results
}

func expandSourcePaths(paths []string, failures *[]fmtResult) []string {
	var files []string
	for _, path := range paths {
		st, err := os.Stat(path)
		if err != nil {
			*failures = append(*failures, fmtResult{Path: path, Err: err})
			continue
		}
		if !st.IsDir() {
			files = append(files, path)
			continue
		}
		listed, err := driver.ListSources(path)
		if err != nil {
			*failures = append(*failures, fmtResult{Path: path, Err: err})
			continue
		}
		files = append(files, listed...)
	}
	return files
}

func formatOne(path string, opt format.Options, write bool) fmtResult {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return fmtResult{Path: path, Err: err}
	}
	file := fs.Get(id)
	formatted, err := format.Source(file, opt)
	if err != nil {
		var d diagnoser
		if errors.As(err, &d) {
			err = fmt.Errorf("%s (%s)", err, d.Diagnostic().Code.ID())
		}
		return fmtResult{Path: path, Err: err}
	}
	res := fmtResult{Path: path, Formatted: formatted, Changed: !bytes.Equal(formatted, file.Content)}
	if res.Changed && write {
		mode := os.FileMode(0o644)
		if info, statErr := os.Stat(path); statErr == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(path, formatted, mode); err != nil {
			res.Err = err
		}
	}
	return res
}

func renderFmtJSON(w io.Writer, results []fmtResult, check bool) error {
	type jsonResult struct {
		Path     string `json:"path"`
		Changed  bool   `json:"changed"`
		Error    string `json:"error,omitempty"`
		CheckRun bool   `json:"check"`
	}

	payload := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{Path: res.Path, Changed: res.Changed, CheckRun: check}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		payload = append(payload, jr)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
