package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"parens/internal/version"
)

// errReported означает, что ошибка уже напечатана как диагностика.
var errReported = errors.New("diagnostics reported")

var rootCmd = &cobra.Command{
	Use:   "parens",
	Short: "S-expression tokenizer, parser and evaluator",
	Long: `parens reads single-expression programs such as (+ 1 (* 2 3)),
tokenizes, parses and evaluates them, and reports errors with source spans.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setupCommand,
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.String("diagnostics-format", "pretty", "diagnostics format (pretty|json|short)")
	flags.String("config", "", "path to parens.toml (default: search upwards from the working directory)")
	flags.String("trace", "", "write trace events to a file ('-' for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "ring buffer capacity for --trace-mode ring|both")
	flags.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 disables)")
	flags.String("cpuprofile", "", "write a CPU profile to this file")
	flags.String("memprofile", "", "write a heap profile to this file on exit")
	flags.String("exec-trace", "", "write a runtime execution trace to this file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	// PostRun не вызывается при ошибке, поэтому трассировку закрываем здесь
	teardown()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
