package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"parens/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show parens build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		info := version.Current()
		out := cmd.OutOrStdout()

		switch strings.ToLower(format) {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		case "pretty":
			colored := settingsFrom(cmd).color && isTerminal(os.Stdout)
			fmt.Fprintln(out, info.Colored(colored))
			return nil
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		}
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}
