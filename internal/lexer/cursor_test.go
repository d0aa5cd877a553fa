package lexer

import (
	"testing"
	"unicode/utf8"

	"parens/internal/source"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.lisp", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a(λ" → a, (, λ, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a(λ"))

	if cursor.EOF() {
		t.Fatal("Expected not EOF at start")
	}
	if b := cursor.Bump(); b != 'a' {
		t.Fatalf("Expected bump 'a', got %c", b)
	}
	if !cursor.Eat('(') {
		t.Fatal("Expected Eat('(') to succeed")
	}
	if cursor.Eat(')') {
		t.Fatal("Eat must not consume a mismatching byte")
	}

	r, sz := cursor.PeekRune()
	if r != 'λ' || sz != 2 {
		t.Fatalf("PeekRune = %q/%d, want λ/2", r, sz)
	}
	mark := cursor.Mark()
	cursor.BumpRune()
	if sp := cursor.SpanFrom(mark); sp.Start != 2 || sp.End != 4 {
		t.Fatalf("SpanFrom = %s, want [2:4]", sp.Offsets())
	}

	if !cursor.EOF() {
		t.Fatal("Expected EOF at end")
	}
	if b := cursor.Bump(); b != 0 {
		t.Fatalf("Bump at EOF must return 0, got %d", b)
	}
	if r, sz := cursor.PeekRune(); r != utf8.RuneError || sz != 0 {
		t.Fatalf("PeekRune at EOF = %q/%d", r, sz)
	}
}

func TestInvalidUTF8AdvancesOneByte(t *testing.T) {
	cursor := NewCursor(createFile("\xffa"))
	r, sz := cursor.PeekRune()
	if r != utf8.RuneError || sz != 1 {
		t.Fatalf("PeekRune = %q/%d, want RuneError/1", r, sz)
	}
	cursor.BumpRune()
	if cursor.Off != 1 {
		t.Fatalf("Off = %d, want 1", cursor.Off)
	}
}
