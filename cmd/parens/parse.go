package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parens/internal/diagfmt"
	"parens/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Print the syntax tree of a program",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|tree|sexpr)")
	parseCmd.Flags().StringP("expr", "e", "", "program text to use instead of a file")
}

func runParse(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "tree", "sexpr":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, json, tree or sexpr)", format)
	}

	opts := s.driverOptions()
	opts.Until = driver.StageParse
	res, err := loadInput(cmd, args, opts)
	if err != nil {
		return err
	}

	if res.Expr != nil {
		out := cmd.OutOrStdout()
		switch format {
		case "json":
			err = diagfmt.FormatASTJSON(out, res.Expr)
		case "tree":
			err = diagfmt.FormatASTTree(out, res.Expr)
		case "sexpr":
			err = diagfmt.FormatASTSexpr(out, res.Expr)
		default:
			err = diagfmt.FormatASTPretty(out, res.Expr, res.FileSet)
		}
		if err != nil {
			return fmt.Errorf("failed to print syntax tree: %w", err)
		}
	}
	return s.finish(cmd.ErrOrStderr(), res)
}
