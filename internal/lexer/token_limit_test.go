package lexer

import (
	"strings"
	"testing"

	"parens/internal/diag"
	"parens/internal/token"
)

func TestTokenTooLongTriggersDiagnosticAndStops(t *testing.T) {
	content := "(" + strings.Repeat("a", DefaultMaxTokenLength+1) + " b)"
	bag := diag.NewBag(4)
	lx := New(createFile(content), Options{
		Reporter:       &diag.BagReporter{Bag: bag},
		MaxTokenLength: DefaultMaxTokenLength,
	})

	var kinds []token.Kind
	var gotErr error
	for tok, err := range lx.All() {
		kinds = append(kinds, tok.Kind)
		gotErr = err
	}
	if gotErr == nil {
		t.Fatal("expected error for long token")
	}
	// Лексер останавливается на первой ошибке.
	if len(kinds) != 2 || kinds[1] != token.Invalid {
		t.Fatalf("expected [LeftParen Invalid], got %v", kinds)
	}
	if !bag.HasErrors() {
		t.Fatalf("expected diagnostics for long token")
	}
	if code := bag.Items()[0].Code; code != diag.LexTokenTooLong {
		t.Fatalf("expected LexTokenTooLong, got %v", code)
	}
}

func TestTokenAtLimitAllowed(t *testing.T) {
	tests := []struct {
		content string
		kind    token.Kind
	}{
		{strings.Repeat("b", 8), token.Atom},
		{`"` + strings.Repeat("s", 6) + `"`, token.StringLit},
	}
	for _, tt := range tests {
		toks, err := New(createFile(tt.content), Options{MaxTokenLength: 8}).Tokenize()
		if err != nil {
			t.Fatalf("did not expect error for %q, got %v", tt.content, err)
		}
		if toks[0].Kind != tt.kind {
			t.Fatalf("expected %v token, got %v", tt.kind, toks[0].Kind)
		}
	}

	_, err := New(createFile(`"`+strings.Repeat("s", 7)+`"`), Options{MaxTokenLength: 8}).Tokenize()
	if err == nil {
		t.Fatal("expected error for string over the limit")
	}
}

func TestZeroLimitMeansUnlimited(t *testing.T) {
	content := strings.Repeat("z", DefaultMaxTokenLength*2)
	if _, err := New(createFile(content), Options{}).Tokenize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
