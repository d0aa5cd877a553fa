package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parens/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Read and evaluate single-line programs interactively",
	Args:  cobra.NoArgs,
	RunE:  runREPL,
}

func init() {
	replCmd.Flags().String("prompt", "", "prompt text (default from parens.toml)")
	replCmd.Flags().Int("trace-ring", 512, "events kept for :trace (0 disables)")
}

func runREPL(cmd *cobra.Command, _ []string) error {
	s := settingsFrom(cmd)

	prompt := s.cfg.REPL.Prompt
	if cmd.Flags().Changed("prompt") {
		var err error
		if prompt, err = cmd.Flags().GetString("prompt"); err != nil {
			return fmt.Errorf("failed to get prompt flag: %w", err)
		}
	}
	ringSize, err := cmd.Flags().GetInt("trace-ring")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring flag: %w", err)
	}
	history, err := s.cfg.HistoryPath()
	if err != nil {
		return err
	}

	return repl.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), repl.Options{
		Prompt:      prompt,
		HistoryPath: history,
		Color:       s.color,
		Driver:      s.driverOptions(),
		TraceSize:   ringSize,
	})
}
