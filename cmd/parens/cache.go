package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parens/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the evaluation cache",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, err := settingsFrom(cmd).cfg.CacheDir()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := settingsFrom(cmd)
		dir, err := s.cfg.CacheDir()
		if err != nil {
			return err
		}
		c, err := driver.OpenDiskCache(dir)
		if err != nil {
			return err
		}
		if err := c.DropAll(); err != nil {
			return fmt.Errorf("failed to clean cache: %w", err)
		}
		if !s.quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "cache cleaned: %s\n", c.Dir())
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheDirCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
}
