package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"parens/internal/parser"
)

func writeSources(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRunDirOrderedResults(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"b.lisp":       "(+ 1",
		"a.lisp":       "(+ 1 2)",
		"sub/c.lisp":   "(* 2 3)",
		"notes.txt":    "(ignored)",
		"sub/d.lisp":   "(- 10 4 1)",
		"sub/e.lisp.x": "(ignored)",
	})

	var (
		mu     sync.Mutex
		status = map[string]Status{}
	)
	opts := DefaultOptions()
	opts.Jobs = 2
	opts.Progress = SinkFunc(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		status[ev.File] = ev.Status
	})

	_, results, err := RunDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatalf("RunDir: %v", err)
	}

	var got []string
	for _, r := range results {
		rel, _ := filepath.Rel(dir, r.Path)
		got = append(got, filepath.ToSlash(rel))
	}
	if diff := cmp.Diff([]string{"a.lisp", "b.lisp", "sub/c.lisp", "sub/d.lisp"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	if results[0].Value.Int != 3 || results[2].Value.Int != 6 || results[3].Value.Int != 5 {
		t.Fatalf("unexpected values: %s %s %s", results[0].Value, results[2].Value, results[3].Value)
	}
	if !errors.Is(results[1].Err, parser.ErrParse) {
		t.Fatalf("b.lisp: expected parse error, got %v", results[1].Err)
	}

	want := map[string]Status{
		results[0].Path: StatusDone,
		results[1].Path: StatusError,
		results[2].Path: StatusDone,
		results[3].Path: StatusDone,
	}
	if diff := cmp.Diff(want, status); diff != "" {
		t.Fatalf("final statuses mismatch (-want +got):\n%s", diff)
	}
}

func TestRunDirEmpty(t *testing.T) {
	fs, results, err := RunDir(context.Background(), t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if fs == nil || len(results) != 0 {
		t.Fatalf("expected empty result set, got %d", len(results))
	}
}

func TestRunDirMissing(t *testing.T) {
	if _, _, err := RunDir(context.Background(), filepath.Join(t.TempDir(), "nope"), DefaultOptions()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestRunDirCancelled(t *testing.T) {
	dir := writeSources(t, map[string]string{"a.lisp": "(+ 1 2)"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := RunDir(ctx, dir, DefaultOptions()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
