package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// Run prints the banner and serves lines from in until EOF, :quit or ctx
// cancellation. Line editing and history are used only when both in and out
// are terminals; otherwise lines are read plainly and no prompt is printed.
func Run(ctx context.Context, in io.Reader, out io.Writer, opts Options) error {
	s := NewSession(opts)
	fmt.Fprintln(out, Banner)
	if isTerminal(in) && isTerminal(out) {
		return s.runLiner(ctx, out)
	}
	return s.runPlain(ctx, in, out)
}

func (s *Session) runPlain(ctx context.Context, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, quit := s.Eval(ctx, sc.Text())
		if text != "" {
			fmt.Fprintln(out, text)
		}
		if quit {
			return nil
		}
	}
	return sc.Err()
}

func (s *Session) runLiner(ctx context.Context, out io.Writer) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	s.loadHistory(ln)
	defer s.saveHistory(ln)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := ln.Prompt(s.opts.Prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			// ctrl+c сбрасывает строку, но не выходит
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(out)
			return nil
		case err != nil:
			return fmt.Errorf("read line: %w", err)
		}

		text, quit := s.Eval(ctx, line)
		if text != "" {
			fmt.Fprintln(out, text)
		}
		if quit {
			return nil
		}
		if line != "" {
			ln.AppendHistory(line)
		}
	}
}

// История — best-effort: ошибки чтения и записи игнорируются.
func (s *Session) loadHistory(ln *liner.State) {
	if s.opts.HistoryPath == "" {
		return
	}
	if f, err := os.Open(s.opts.HistoryPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
}

func (s *Session) saveHistory(ln *liner.State) {
	if s.opts.HistoryPath == "" {
		return
	}
	if f, err := os.Create(s.opts.HistoryPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
