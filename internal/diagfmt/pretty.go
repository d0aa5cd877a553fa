package diagfmt

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"parens/internal/diag"
	"parens/internal/source"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

type palette struct {
	location func(string, ...any) string
	err      func(string, ...any) string
	warn     func(string, ...any) string
	info     func(string, ...any) string
	gutter   func(string, ...any) string
	note     func(string, ...any) string
	help     func(string, ...any) string
}

func newPalette(enabled bool) palette {
	return palette{
		location: painter(enabled, color.Bold),
		err:      painter(enabled, color.FgRed, color.Bold),
		warn:     painter(enabled, color.FgYellow, color.Bold),
		info:     painter(enabled, color.FgCyan, color.Bold),
		gutter:   painter(enabled, color.FgBlue),
		note:     painter(enabled, color.FgCyan),
		help:     painter(enabled, color.FgGreen),
	}
}

func (p palette) severity(sev diag.Severity) func(string, ...any) string {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, pal)
	}
}

// PrettyDiagnostic prints a single diagnostic.
func PrettyDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	prettyOne(w, d, fs, opts, newPalette(opts.Color))
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	sevPaint := pal.severity(d.Severity)
	f, ok := fs.Lookup(d.Primary.File)
	if !ok {
		fmt.Fprintf(w, "%s %s: %s\n", sevPaint("%s", strings.ToUpper(d.Severity.String())), d.Code.ID(), d.Message)
		return
	}

	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s %s %s\n",
		pal.location("%s:%d:%d:", displayPath(f, fs, opts.PathMode), start.Line, start.Col),
		sevPaint("%s %s:", strings.ToUpper(d.Severity.String()), d.Code.ID()),
		d.Message,
	)
	writeSnippet(w, f, fs, d.Primary, int(opts.Context), sevPaint, pal)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf, ok := fs.Lookup(n.Span.File)
			if !ok {
				fmt.Fprintf(w, "  %s %s\n", pal.note("note:"), n.Msg)
				continue
			}
			pos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note("note:"), displayPath(nf, fs, opts.PathMode), pos.Line, pos.Col, n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", pal.help("help:"), fix.Title)
			for _, edit := range fix.Edits {
				preview, err := buildFixEditPreview(fs, edit)
				if err != nil {
					continue
				}
				for _, line := range preview.before {
					fmt.Fprintf(w, "    %s %s\n", pal.note("-"), line)
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "    %s %s\n", pal.help("+"), line)
				}
			}
		}
	}
}

// writeSnippet prints context lines, the primary line and a caret underline
// aligned by display width.
func writeSnippet(w io.Writer, f *source.File, fs *source.FileSet, sp source.Span, context int, mark func(string, ...any) string, pal palette) {
	start, end := fs.Resolve(sp)
	first := max(1, int(start.Line)-context)
	gutterWidth := len(fmt.Sprint(start.Line))

	for ln := first; ln <= int(start.Line); ln++ {
		fmt.Fprintf(w, "%s %s\n", pal.gutter("%*d |", gutterWidth, ln), f.GetLine(uint32(ln)))
	}

	line := f.GetLine(start.Line)
	col := min(int(start.Col)-1, len(line))
	var width int
	if end.Line == start.Line {
		width = runewidth.StringWidth(line[col:min(int(end.Col)-1, len(line))])
	} else {
		width = runewidth.StringWidth(line[col:])
	}
	width = max(width, 1)

	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", pal.gutter("%*s |", gutterWidth, ""), caretPadding(line[:col]), mark("%s", underline))
}

// caretPadding keeps tabs and replaces every other rune by spaces of its display width.
func caretPadding(prefix string) string {
	var sb strings.Builder
	for len(prefix) > 0 {
		r, size := utf8.DecodeRuneInString(prefix)
		prefix = prefix[size:]
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}
