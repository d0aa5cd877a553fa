package source

import (
	"testing"
)

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "disjoint spans",
			a:        Span{File: 1, Start: 2, End: 4},
			b:        Span{File: 1, Start: 8, End: 10},
			expected: Span{File: 1, Start: 2, End: 10},
		},
		{
			name:     "nested span",
			a:        Span{File: 1, Start: 0, End: 10},
			b:        Span{File: 1, Start: 3, End: 4},
			expected: Span{File: 1, Start: 0, End: 10},
		},
		{
			name:     "different files keep receiver",
			a:        Span{File: 1, Start: 5, End: 6},
			b:        Span{File: 2, Start: 0, End: 20},
			expected: Span{File: 1, Start: 5, End: 6},
		},
		{
			name:     "zero-width at end",
			a:        Span{File: 0, Start: 0, End: 1},
			b:        At(0, 7),
			expected: Span{File: 0, Start: 0, End: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestSpan_EmptyLenOffsets(t *testing.T) {
	sp := Span{Start: 6, End: 8}
	if sp.Empty() {
		t.Fatal("span [6:8] must not be empty")
	}
	if sp.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", sp.Len())
	}
	if sp.Offsets() != "[6:8]" {
		t.Fatalf("Offsets() = %q", sp.Offsets())
	}
	if !At(0, 3).Empty() {
		t.Fatal("At() must produce zero-width span")
	}
	if !sp.Contains(6) || sp.Contains(8) {
		t.Fatal("Contains must be half-open")
	}
}
