package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"parens/internal/driver"
	"parens/internal/fix"
	"parens/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [file]",
	Short: "Apply suggested fixes such as a missing ')'",
	Long: `Fix tokenizes and parses a program and applies the edits suggested by its
diagnostics. Files are rewritten in place unless --dry-run is given; the
fixed text of --expr programs is always printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().StringP("expr", "e", "", "program text to use instead of a file")
	fixCmd.Flags().Bool("dry-run", false, "print fixed sources instead of writing them")
}

func runFix(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}

	opts := s.driverOptions()
	opts.Until = driver.StageParse
	res, err := loadInput(cmd, args, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	applied, err := fix.Apply(res.FileSet, res.Bag.Items(), fix.ApplyOptions{DryRun: dryRun})
	if errors.Is(err, fix.ErrNoFixes) {
		if !s.quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), "no applicable fixes")
		}
		return s.finish(cmd.ErrOrStderr(), res)
	}
	if err != nil {
		return err
	}

	for _, a := range applied.Applied {
		if !s.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "fixed %s: %s (%s)\n", a.PrimaryPath, a.Title, a.Code.ID())
		}
	}
	for _, sk := range applied.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %s\n", sk.Title, sk.Reason)
	}
	for _, ch := range applied.FileChanges {
		if dryRun || res.File.Flags&source.FileVirtual != 0 {
			fmt.Fprintln(out, string(ch.Content))
		}
	}
	return nil
}
