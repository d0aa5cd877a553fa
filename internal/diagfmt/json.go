package diagfmt

import (
	"encoding/json"
	"io"
	"strings"

	"parens/internal/diag"
	"parens/internal/source"
)

// Location is a span as machine-readable output reports it. Line and column
// fields stay zero unless positions were requested.
type Location struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteOutput struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

type EditOutput struct {
	Location Location `json:"location"`
	NewText  string   `json:"new_text"`

	// строки до и после правки, только с IncludePreviews
	BeforeLines []string `json:"before_lines,omitempty"`
	AfterLines  []string `json:"after_lines,omitempty"`
}

type FixOutput struct {
	Title string       `json:"title"`
	Edits []EditOutput `json:"edits,omitempty"`
}

type DiagnosticOutput struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location Location     `json:"location"`
	Notes    []NoteOutput `json:"notes,omitempty"`
	Fixes    []FixOutput  `json:"fixes,omitempty"`
}

// Report is the top-level JSON document for --diagnostics-format json.
type Report struct {
	Diagnostics []DiagnosticOutput `json:"diagnostics"`
	Count       int                `json:"count"`
	// сколько записей отрезано JSONOpts.Max
	Omitted int `json:"omitted,omitempty"`
}

type reportBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (b reportBuilder) location(sp source.Span) Location {
	f, known := b.fs.Lookup(sp.File)
	loc := Location{File: displayPath(f, b.fs, b.opts.PathMode), StartByte: sp.Start, EndByte: sp.End}
	if known && b.opts.IncludePositions {
		start, end := b.fs.Resolve(sp)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (b reportBuilder) edit(e diag.FixEdit) EditOutput {
	out := EditOutput{Location: b.location(e.Span), NewText: e.NewText}
	if b.opts.IncludePreviews {
		if p, err := buildFixEditPreview(b.fs, e); err == nil {
			out.BeforeLines, out.AfterLines = p.before, p.after
		}
	}
	return out
}

func (b reportBuilder) diagnostic(d diag.Diagnostic) DiagnosticOutput {
	out := DiagnosticOutput{
		Severity: strings.ToLower(d.Severity.String()),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: b.location(d.Primary),
	}
	if b.opts.IncludeNotes {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, NoteOutput{Message: n.Msg, Location: b.location(n.Span)})
		}
	}
	if b.opts.IncludeFixes {
		for _, fix := range d.Fixes {
			fo := FixOutput{Title: fix.Title}
			for _, e := range fix.Edits {
				fo.Edits = append(fo.Edits, b.edit(e))
			}
			out.Fixes = append(out.Fixes, fo)
		}
	}
	return out
}

// BuildReport converts bag without serializing it.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	items := bag.Items()
	var omitted int
	if opts.Max > 0 && len(items) > opts.Max {
		omitted = len(items) - opts.Max
		items = items[:opts.Max]
	}
	b := reportBuilder{fs: fs, opts: opts}
	rep := Report{Diagnostics: make([]DiagnosticOutput, 0, len(items)), Omitted: omitted}
	for _, d := range items {
		rep.Diagnostics = append(rep.Diagnostics, b.diagnostic(d))
	}
	rep.Count = len(rep.Diagnostics)
	return rep
}

// JSON writes the indented report for bag.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
