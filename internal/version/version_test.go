package version

import (
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"bare", Info{Version: "0.1.0-dev"}, "parens 0.1.0-dev"},
		{"commit", Info{Version: "1.2.3", GitCommit: "1234567890abcdef1234"}, "parens 1.2.3 (1234567890ab)"},
		{"full", Info{Version: "1.2.3", GitCommit: "abc123", BuildDate: "2024-01-15"}, "parens 1.2.3 (abc123, 2024-01-15)"},
		{"date only", Info{Version: "2.0.0", BuildDate: "2024-01-15T10:30:00Z"}, "parens 2.0.0 (2024-01-15T10:30:00Z)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.info.Colored(false); got != tt.want {
				t.Fatalf("Colored(false) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCurrentReflectsOverrides(t *testing.T) {
	orig := Current()
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = orig.Version, orig.GitCommit, orig.BuildDate
	})

	Version, GitCommit, BuildDate = "9.9.9", "deadbeef", "2025-01-01"
	if got := Current(); got != (Info{Version: "9.9.9", GitCommit: "deadbeef", BuildDate: "2025-01-01"}) {
		t.Fatalf("Current() = %+v", got)
	}
}

func TestColoredKeepsDigits(t *testing.T) {
	got := Info{Version: "1.2.3-rc.1"}.Colored(true)
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected escape codes in %q", got)
	}
	if !strings.HasSuffix(got, "-rc.1") {
		t.Fatalf("suffix must be kept: %q", got)
	}
	plain := stripANSI(got)
	if plain != "parens 1.2.3-rc.1" {
		t.Fatalf("stripped = %q", plain)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
