package diag

import (
	"testing"

	"parens/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	file := fs.AddVirtual("repl", []byte("(+ 1\n  (foo)\n"))

	diags := []Diagnostic{
		NewError(VMUnboundIdentifier, source.Span{File: file, Start: 8, End: 11}, "unbound identifier 'foo'"),
		NewError(SynUnclosedParen, source.At(file, 13), "expected RightParen\nbut found EOF").
			WithNote(source.Span{File: file, Start: 0, End: 1}, "list opened here"),
	}

	// ноты сортируются вместе с основными записями по позиции
	expected := "note SYN2006 repl:1:1 list opened here\n" +
		"error VM3001 repl:2:4 unbound identifier 'foo'\n" +
		"error SYN2006 repl:3:1 expected RightParen but found EOF"

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	if got := FormatShortDiagnostics(nil, fs, true); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
