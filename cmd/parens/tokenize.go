package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parens/internal/diagfmt"
	"parens/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [file]",
	Short: "Print the tokens of a program",
	Long: `Tokenize splits a program into parentheses, atoms and string literals.
Tokens read before a lexical error are still printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().StringP("expr", "e", "", "program text to use instead of a file")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	opts := s.driverOptions()
	opts.Until = driver.StageTokenize
	res, err := loadInput(cmd, args, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatTokensJSON(out, res.Tokens)
	} else {
		err = diagfmt.FormatTokensPretty(out, res.Tokens, res.FileSet)
	}
	if err != nil {
		return fmt.Errorf("failed to print tokens: %w", err)
	}
	return s.finish(cmd.ErrOrStderr(), res)
}
