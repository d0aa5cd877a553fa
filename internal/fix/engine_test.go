package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"parens/internal/diag"
	"parens/internal/source"
)

func insertAt(id source.FileID, off uint32, text string) diag.Fix {
	return diag.Fix{Title: "insert " + text, Edits: []diag.FixEdit{{Span: source.At(id, off), NewText: text}}}
}

func TestApplyDryRunOnVirtualFile(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<expr>", []byte("(+ 1 (* 2 3"))
	diags := []diag.Diagnostic{
		{Code: diag.SynUnclosedParen, Message: "unclosed", Primary: source.At(id, 11), Fixes: []diag.Fix{insertAt(id, 11, ")")}},
		{Code: diag.SynUnclosedParen, Message: "unclosed", Primary: source.At(id, 5), Fixes: []diag.Fix{
			{Title: "replace", Edits: []diag.FixEdit{{Span: source.Span{File: id, Start: 6, End: 7}, NewText: "+"}}},
		}},
	}

	res, err := Apply(fs, diags, ApplyOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 || len(res.Skipped) != 0 {
		t.Fatalf("applied %d, skipped %+v", len(res.Applied), res.Skipped)
	}
	want := []FileChange{{Path: "<expr>", EditCount: 2, Content: []byte("(+ 1 (+ 2 3)")}}
	if diff := cmp.Diff(want, res.FileChanges); diff != "" {
		t.Fatalf("file changes mismatch (-want +got):\n%s", diff)
	}
}

func TestApplySkipsConflicts(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<expr>", []byte("(+ 1"))
	d := diag.Diagnostic{Code: diag.SynUnclosedParen, Primary: source.At(id, 4), Fixes: []diag.Fix{
		insertAt(id, 4, ")"),
		insertAt(id, 4, "))"),
		{Title: "empty"},
	}}

	res, err := Apply(fs, []diag.Diagnostic{d}, ApplyOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(res.FileChanges[0].Content); got != "(+ 1)" {
		t.Fatalf("content = %q", got)
	}
	reasons := make([]string, 0, len(res.Skipped))
	for _, s := range res.Skipped {
		reasons = append(reasons, s.Reason)
	}
	want := []string{"fix has no edits", "conflicts with previously applied edits in <expr>"}
	if diff := cmp.Diff(want, reasons); diff != "" {
		t.Fatalf("skip reasons mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyWritesFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.lisp")
	if err := os.WriteFile(path, []byte("(* 2 (+ 1 1)"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	d := diag.Diagnostic{Code: diag.SynUnclosedParen, Primary: source.At(id, 12), Fixes: []diag.Fix{insertAt(id, 12, ")")}}
	if _, err := Apply(fs, []diag.Diagnostic{d}, ApplyOptions{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "(* 2 (+ 1 1))" {
		t.Fatalf("file content = %q", got)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestApplyWithoutFixes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<expr>", []byte("(foo)"))
	_, err := Apply(fs, []diag.Diagnostic{{Code: diag.VMUnboundIdentifier, Primary: source.Span{File: id, Start: 1, End: 4}}}, ApplyOptions{})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
}

func TestSpansConflict(t *testing.T) {
	sp := func(s, e uint32) source.Span { return source.Span{Start: s, End: e} }
	tests := []struct {
		a, b source.Span
		want bool
	}{
		{sp(2, 2), sp(2, 2), true},
		{sp(2, 2), sp(3, 3), false},
		{sp(2, 2), sp(1, 4), true},
		{sp(1, 1), sp(1, 4), false},
		{sp(1, 3), sp(3, 5), false},
		{sp(1, 4), sp(3, 5), true},
	}
	for _, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("spansConflict(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
