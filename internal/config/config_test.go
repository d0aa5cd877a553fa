package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "[limits]\nmax_depth = 16\n\n[repl]\nprompt = \"λ \"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := Default()
	want.Limits.MaxDepth = 16
	want.REPL.Prompt = "λ "
	want.Path = path
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverWithoutFileUsesDefaults(t *testing.T) {
	// в корне ФС parens.toml быть не должно; ищем из пустого каталога без предков с файлом
	dir := t.TempDir()
	path, ok, err := Find(dir)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Skipf("found unrelated %s above temp dir", path)
	}
	cfg, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "[limits]\nmax_dpth = 3\n", "unknown keys: limits.max_dpth"},
		{"unknown table", "[colors]\nx = 1\n", "colors.x"},
		{"bad toml", "[limits\n", "failed to parse TOML"},
		{"negative depth", "[limits]\nmax_depth = -1\n", "[limits].max_depth must be >= 0"},
		{"bad color", "[output]\ncolor = \"always\"\n", `[output].color must be one of auto|on|off, got "always"`},
		{"bad format", "[output]\nformat = \"xml\"\n", "[output].format must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	got, err := cfg.HistoryPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".parens_history"); got != want {
		t.Fatalf("HistoryPath = %q, want %q", got, want)
	}

	cfg.REPL.History = ""
	if got, _ := cfg.HistoryPath(); got != "" {
		t.Fatalf("empty history must stay empty, got %q", got)
	}

	cfg.Cache.Dir = "~/cache"
	if got, _ := cfg.CacheDir(); got != filepath.Join(home, "cache") {
		t.Fatalf("CacheDir = %q", got)
	}

	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "xdg"))
	cfg.Cache.Dir = ""
	if got, _ := cfg.CacheDir(); got != filepath.Join(home, "xdg", "parens") {
		t.Fatalf("default CacheDir = %q", got)
	}
}
