package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"parens/internal/diag"
	"parens/internal/diagfmt"
	"parens/internal/driver"
	"parens/internal/source"
)

// printDiagnostics writes bag in the configured diagnostics format.
func (s *settings) printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	switch s.diagFormat {
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeAuto,
			Max:              s.maxDiagnostics,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
	case "short":
		_, err := fmt.Fprintln(w, diag.FormatShortDiagnostics(bag.Items(), fs, true))
		return err
	default:
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     s.color,
			Context:   2,
			PathMode:  diagfmt.PathModeAuto,
			ShowNotes: true,
			ShowFixes: true,
		})
		if n := bag.Overflow(); n > 0 {
			fmt.Fprintf(w, "... %d more diagnostics not shown (--max-diagnostics)\n", n)
		}
		return nil
	}
}

// finish prints diagnostics and timings of res and maps failure to errReported.
func (s *settings) finish(stderr io.Writer, res *driver.Result) error {
	if err := s.printDiagnostics(stderr, res.Bag, res.FileSet); err != nil {
		return err
	}
	if s.timings && !s.quiet {
		fmt.Fprint(stderr, res.Timing.String())
	}
	if res.Err != nil || res.Bag.HasErrors() {
		return errReported
	}
	return nil
}

// loadInput runs the pipeline over either the file in args or the --expr text.
func loadInput(cmd *cobra.Command, args []string, opts driver.Options) (*driver.Result, error) {
	expr, err := cmd.Flags().GetString("expr")
	if err != nil {
		return nil, fmt.Errorf("failed to get expr flag: %w", err)
	}
	switch {
	case expr != "" && len(args) > 0:
		return nil, fmt.Errorf("--expr and a file argument are mutually exclusive")
	case expr != "":
		return driver.RunSource(cmd.Context(), "<expr>", []byte(expr), opts), nil
	case len(args) == 1:
		return driver.RunFile(cmd.Context(), args[0], opts)
	default:
		return nil, fmt.Errorf("expected a file argument or --expr")
	}
}

// diagnoser is implemented by lexer, parser and runtime errors.
type diagnoser interface {
	error
	Diagnostic() diag.Diagnostic
}
