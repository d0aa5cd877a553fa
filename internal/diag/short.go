package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"parens/internal/source"
)

// shortLine is one "<sev> <CODE> <path>:<line>:<col> <message>" record.
type shortLine struct {
	sev, code, path string
	pos             source.LineCol
	msg             string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.pos.Line, l.pos.Col, l.msg)
}

// FormatShortDiagnostics renders one line per diagnostic (and per note when
// includeNotes is set), sorted by path and position. The CLI short format
// and the golden tests both use it; the result has no trailing newline.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	var lines []shortLine
	for _, d := range diags {
		code := d.Code.ID()
		primary := locate(fs, d.Primary)
		primary.sev, primary.code, primary.msg = sevWord(d.Severity), code, oneLine(d.Message)
		lines = append(lines, primary)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if _, ok := fs.Lookup(n.Span.File); !ok {
				continue
			}
			note := locate(fs, n.Span)
			note.sev, note.code, note.msg = "note", code, oneLine(n.Msg)
			lines = append(lines, note)
		}
	}
	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			strings.Compare(a.path, b.path),
			cmp.Compare(a.pos.Line, b.pos.Line),
			cmp.Compare(a.pos.Col, b.pos.Col),
		)
	})

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

// locate fills path and position; spans outside every file (I/O errors)
// render as "<unknown>:0:0".
func locate(fs *source.FileSet, sp source.Span) shortLine {
	f, ok := fs.Lookup(sp.File)
	if !ok {
		return shortLine{path: "<unknown>"}
	}
	path := filepath.ToSlash(f.FormatPath("relative", fs.BaseDir()))
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return shortLine{path: path, pos: f.Position(sp.Start)}
}

func sevWord(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	}
	return "info"
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ")

// oneLine folds a multi-line message onto a single line.
func oneLine(msg string) string {
	return strings.TrimSpace(newlines.Replace(msg))
}
