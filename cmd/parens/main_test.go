package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs the CLI with fresh flag values and returns stdout and stderr.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.ExecuteContext(context.Background())
	teardown()
	return out.String(), errOut.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestEvalExpr(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"eval", "-e", "(+ 1 (* 2 3))"}, "7\n"},
		{[]string{"eval", "-e", "*"}, "#<builtin *>\n"},
		{[]string{"eval", "--format", "json", "-e", "(- 5)"}, `{"kind":"integer","int":-5,"print":"-5"}` + "\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.want {
				t.Errorf("stdout = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestEvalReportsDiagnostics(t *testing.T) {
	out, errOut, err := execute(t, "--diagnostics-format", "short", "eval", "-e", "(foo 1)")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}
	if !strings.Contains(errOut, "VM3001") || !strings.Contains(errOut, "<expr>:1:2") {
		t.Errorf("stderr = %q, want VM3001 at <expr>:1:2", errOut)
	}
}

func TestEvalDir(t *testing.T) {
	dir := t.TempDir()
	for name, src := range map[string]string{
		"a.lisp": "(+ 1 2)",
		"b.lisp": "(* 2 (- 10 4))",
		"c.txt":  "ignored",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out, _, err := execute(t, "eval", "--ui", "off", "-j", "2", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "a.lisp: 3\nb.lisp: 12\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestTokenizeAndParse(t *testing.T) {
	out, _, err := execute(t, "tokenize", "-e", "(+ 1)")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if got := strings.Count(out, "\n"); got != 5 {
		t.Errorf("tokenize printed %d lines, want 5 (EOF included):\n%s", got, out)
	}

	out, _, err = execute(t, "parse", "--format", "sexpr", "-e", "(+ 1 (* 2 3))")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if want := "(+ 1 (* 2 3))\n"; out != want {
		t.Errorf("parse stdout = %q, want %q", out, want)
	}
}

func TestParseDoesNotEvaluate(t *testing.T) {
	if _, _, err := execute(t, "parse", "-e", "(foo)"); err != nil {
		t.Fatalf("parse of an unbound call failed: %v", err)
	}
}

func TestInputValidation(t *testing.T) {
	if _, _, err := execute(t, "eval"); err == nil || !strings.Contains(err.Error(), "--expr") {
		t.Errorf("missing input: err = %v", err)
	}
	if _, _, err := execute(t, "eval", "--format", "xml", "-e", "1"); err == nil {
		t.Error("expected an error for --format xml")
	}
	if _, _, err := execute(t, "--color", "sometimes", "eval", "-e", "1"); err == nil {
		t.Error("expected an error for --color sometimes")
	}
}

func TestConfigLimits(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "parens.toml")
	if err := os.WriteFile(cfg, []byte("[limits]\nmax_depth = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, errOut, err := execute(t, "--config", cfg, "--diagnostics-format", "short", "eval", "-e", "(+ (+ (+ 1)))")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if !strings.Contains(errOut, "SYN2303") {
		t.Errorf("stderr = %q, want SYN2303", errOut)
	}
}

func TestReplPlain(t *testing.T) {
	resetFlags(rootCmd)
	rootCmd.SetIn(strings.NewReader("(+ 2 2)\n:quit\n"))
	defer rootCmd.SetIn(nil)
	out, _, err := execute(t, "repl")
	if err != nil {
		t.Fatalf("repl: %v", err)
	}
	if want := "Enter a single line program\n4\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, `"version": "`) {
		t.Errorf("stdout = %q, want a version field", out)
	}
}

func TestFixExpr(t *testing.T) {
	out, errOut, err := execute(t, "fix", "-e", "(+ 1 (* 2 3)")
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if want := "(+ 1 (* 2 3))\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
	if !strings.Contains(errOut, "insert ')'") {
		t.Errorf("stderr = %q, want the applied fix title", errOut)
	}
}

func TestFixFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.lisp")
	if err := os.WriteFile(path, []byte("(* 2 (+ 1 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, "fix", path); err != nil {
		t.Fatalf("fix: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// одна правка за запуск: закрывается только внутренний список
	if string(got) != "(* 2 (+ 1 1)" {
		t.Fatalf("file content = %q", got)
	}
	out, _, err := execute(t, "eval", path)
	if !errors.Is(err, errReported) || out != "" {
		t.Fatalf("eval after one fix: out=%q err=%v", out, err)
	}
}

func TestFmtCheckAndWrite(t *testing.T) {
	dir := t.TempDir()
	messy := filepath.Join(dir, "messy.lisp")
	clean := filepath.Join(dir, "clean.lisp")
	if err := os.WriteFile(messy, []byte("(  + 1\n  2 )"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(clean, []byte("(* 2 3)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "fmt", "--check", dir)
	if err == nil || !strings.Contains(err.Error(), "formatting changes required") {
		t.Fatalf("check: err = %v", err)
	}
	if out != messy+"\n" {
		t.Errorf("check stdout = %q, want only the messy file", out)
	}

	if _, _, err := execute(t, "fmt", dir); err != nil {
		t.Fatalf("fmt: %v", err)
	}
	got, err := os.ReadFile(messy)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "(+ 1 2)\n" {
		t.Errorf("formatted content = %q", got)
	}
	if _, _, err := execute(t, "fmt", "--check", dir); err != nil {
		t.Errorf("check after fmt: %v", err)
	}
}

func TestFixAndFmtKeepRawBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raw.lisp")
	// BOM, decomposed é and CRLF inside the literal
	raw := "\xEF\xBB\xBF(list \"e\u0301\r\nx\" 1"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, "fix", path); err != nil {
		t.Fatalf("fix: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := raw + ")"; string(got) != want {
		t.Fatalf("fixed content = %q, want %q", got, want)
	}

	// уже отформатировано: BOM, CRLF и литерал остаются как есть
	if err := os.WriteFile(path, []byte(raw+")\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, "fmt", "--check", dir); err != nil {
		t.Fatalf("fmt --check: %v", err)
	}
	if _, _, err := execute(t, "fmt", dir); err != nil {
		t.Fatalf("fmt: %v", err)
	}
	if got, err = os.ReadFile(path); err != nil {
		t.Fatal(err)
	}
	if want := raw + ")\r\n"; string(got) != want {
		t.Fatalf("formatted content = %q, want %q", got, want)
	}
}
