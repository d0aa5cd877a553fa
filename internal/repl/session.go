// Package repl implements the interactive read-eval-print loop.
package repl

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"parens/internal/diagfmt"
	"parens/internal/driver"
	"parens/internal/trace"
	"parens/internal/vm"
)

// Banner is printed once when the loop starts.
const Banner = "Enter a single line program"

type Options struct {
	Prompt      string
	HistoryPath string // пусто — история не сохраняется
	Color       bool
	Driver      driver.Options

	// TraceSize is the ring capacity backing :trace; 0 disables it.
	TraceSize int
}

// Session evaluates REPL lines one by one. Every line is an independent
// program; nothing carries over except the last result for :diag and :trace.
type Session struct {
	opts  Options
	ev    *vm.Evaluator
	ring  *trace.RingTracer
	last  *driver.Result
	lines int
}

func NewSession(opts Options) *Session {
	// каждая строка REPL вычисляется заново, кэш результатов не нужен
	opts.Driver.Cache = nil
	s := &Session{
		opts: opts,
		ev:   vm.New(vm.Options{Builtins: opts.Driver.Builtins}),
	}
	if opts.TraceSize > 0 {
		s.ring = trace.NewRingTracer(opts.TraceSize, trace.LevelDebug)
	}
	return s
}

// Eval handles one input line and returns what should be printed, without
// the trailing newline. quit reports a :quit command.
func (s *Session) Eval(ctx context.Context, line string) (out string, quit bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}
	if strings.HasPrefix(trimmed, ":") {
		return s.command(ctx, trimmed)
	}

	res := s.run(ctx, line)
	if res.Err != nil {
		return s.paint(color.FgRed, res.Err.Error()), false
	}
	var buf bytes.Buffer
	if err := diagfmt.FormatValue(&buf, res.Value, s.opts.Color); err != nil {
		return err.Error(), false
	}
	return strings.TrimSuffix(buf.String(), "\n"), false
}

func (s *Session) run(ctx context.Context, src string) *driver.Result {
	s.lines++
	if s.ring != nil {
		s.ring.Reset()
		ctx = trace.WithTracer(ctx, s.ring)
	}
	res := driver.RunSource(ctx, fmt.Sprintf("<repl:%d>", s.lines), []byte(src), s.opts.Driver)
	s.last = res
	return res
}

func (s *Session) command(ctx context.Context, cmd string) (string, bool) {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(name) {
	case ":quit", ":q":
		return "", true
	case ":help", ":h":
		return s.help(), false
	case ":tokens":
		return s.inspect(ctx, arg, func(buf *bytes.Buffer, res *driver.Result) error {
			return diagfmt.FormatTokensPretty(buf, res.Tokens, res.FileSet)
		}), false
	case ":ast":
		return s.inspect(ctx, arg, func(buf *bytes.Buffer, res *driver.Result) error {
			return diagfmt.FormatASTPretty(buf, res.Expr, res.FileSet)
		}), false
	case ":tree":
		return s.inspect(ctx, arg, func(buf *bytes.Buffer, res *driver.Result) error {
			return diagfmt.FormatASTTree(buf, res.Expr)
		}), false
	case ":diag":
		return s.diagnostics(), false
	case ":trace":
		return s.traceDump(), false
	default:
		return fmt.Sprintf("unknown command %q. Type :help for a list.", name), false
	}
}

// inspect runs src and prints an intermediate artifact. Tokens are shown
// up to the first lexer error; the AST needs a successful parse.
func (s *Session) inspect(ctx context.Context, src string, render func(*bytes.Buffer, *driver.Result) error) string {
	if src == "" {
		return "usage: :tokens|:ast|:tree <program>"
	}
	res := s.run(ctx, src)
	var buf bytes.Buffer
	if len(res.Tokens) > 0 {
		if err := render(&buf, res); err != nil {
			buf.Reset()
		}
	}
	if res.Err != nil {
		buf.WriteString(s.paint(color.FgRed, res.Err.Error()))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func (s *Session) help() string {
	var b strings.Builder
	b.WriteString("commands:\n")
	b.WriteString("  :tokens <program>  show tokens\n")
	b.WriteString("  :ast <program>     show the expression tree\n")
	b.WriteString("  :tree <program>    draw the expression tree\n")
	b.WriteString("  :diag              explain the last error\n")
	if s.ring != nil {
		b.WriteString("  :trace             show the trace of the last line\n")
	}
	b.WriteString("  :quit              exit\n")
	b.WriteString("builtins:\n")
	for _, name := range s.ev.Names() {
		b.WriteString("  " + name)
		if bi, ok := s.ev.Lookup(name); ok && bi.Doc != "" {
			b.WriteString("  " + bi.Doc)
		}
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (s *Session) diagnostics() string {
	if s.last == nil || s.last.Bag.Len() == 0 {
		return "no diagnostics"
	}
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, s.last.Bag, s.last.FileSet, diagfmt.PrettyOpts{
		Color:     s.opts.Color,
		ShowNotes: true,
		ShowFixes: true,
	})
	return strings.TrimSuffix(buf.String(), "\n")
}

func (s *Session) traceDump() string {
	if s.ring == nil {
		return "tracing is disabled"
	}
	var buf bytes.Buffer
	if err := s.ring.Dump(&buf, trace.FormatText); err != nil {
		return err.Error()
	}
	if buf.Len() == 0 {
		return "no trace events"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func (s *Session) paint(attr color.Attribute, msg string) string {
	c := color.New(attr)
	if s.opts.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(msg)
}
