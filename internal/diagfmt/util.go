package diagfmt

import (
	"fmt"

	"parens/internal/source"

	"github.com/fatih/color"
)

// formatSpan formats a source.Span into a string.
// If fs is non-nil, it resolves the span to start and end positions and returns "startLine:startCol-endLine:endCol".
// If fs is nil, it returns "span(start-end)".
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil {
		if _, ok := fs.Lookup(span.File); ok {
			start, end := fs.Resolve(span)
			return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
		}
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	baseDir := ""
	if mode == PathModeRelative {
		baseDir = fs.BaseDir()
	}
	return f.FormatPath(mode.String(), baseDir)
}

// painter returns a Sprintf-like function that colours only when enabled,
// regardless of what fatih/color detected for the process.
func painter(enabled bool, attrs ...color.Attribute) func(format string, a ...any) string {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintfFunc()
}
