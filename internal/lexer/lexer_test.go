package lexer_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"parens/internal/diag"
	"parens/internal/lexer"
	"parens/internal/source"
	"parens/internal/token"

	"github.com/google/go-cmp/cmp"
)

func newLexer(content string, opts lexer.Options) *lexer.Lexer {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.lisp", []byte(content))
	return lexer.New(fs.Get(id), opts)
}

func tokenize(t *testing.T, content string) []token.Token {
	t.Helper()
	toks, err := newLexer(content, lexer.Options{}).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error for %q: %v", content, err)
	}
	return toks
}

func sp(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func TestWhitespaceOnlyYieldsEOF(t *testing.T) {
	inputs := []string{"", " ", "\t\n\r ", "   \n"}
	for _, in := range inputs {
		toks := tokenize(t, in)
		want := []token.Token{token.New(token.EOF, sp(uint32(len(in)), uint32(len(in))))}
		if diff := cmp.Diff(want, toks); diff != "" {
			t.Errorf("tokenize(%q) mismatch (-want +got):\n%s", in, diff)
		}
	}
}

func TestSimpleList(t *testing.T) {
	want := []token.Token{
		token.New(token.LParen, sp(0, 1)),
		token.WithValue(token.Atom, sp(1, 2), "+"),
		token.WithValue(token.Atom, sp(3, 4), "2"),
		token.WithValue(token.Atom, sp(5, 6), "3"),
		token.New(token.RParen, sp(6, 7)),
		token.New(token.EOF, sp(7, 7)),
	}
	if diff := cmp.Diff(want, tokenize(t, "(+ 2 3)")); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kinds []token.Kind
	}{
		{"nested", "(first (list 1 (+ 2 3) 9))", []token.Kind{
			token.LParen, token.Atom, token.LParen, token.Atom, token.Atom,
			token.LParen, token.Atom, token.Atom, token.Atom, token.RParen,
			token.Atom, token.RParen, token.RParen, token.EOF,
		}},
		{"adjacent parens", ")(", []token.Kind{token.RParen, token.LParen, token.EOF}},
		{"quote inside atom", `a"b`, []token.Kind{token.Atom, token.EOF}},
		{"string then atom", `"x"y`, []token.Kind{token.StringLit, token.Atom, token.EOF}},
		{"trailing whitespace", "1   \n", []token.Kind{token.Atom, token.EOF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := tokenize(t, tt.input)
			got := make([]token.Kind, len(toks))
			for i, tok := range toks {
				got[i] = tok.Kind
			}
			if diff := cmp.Diff(tt.kinds, got); diff != "" {
				t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStringKeepsEscapesVerbatim(t *testing.T) {
	toks := tokenize(t, `(list "fun chars ) (\" blah")`)
	if len(toks) != 5 {
		t.Fatalf("expected 5 tokens, got %d: %v", len(toks), toks)
	}
	str := toks[2]
	if str.Kind != token.StringLit {
		t.Fatalf("expected string token, got %v", str.Kind)
	}
	if want := `fun chars ) (\" blah`; str.Value != want {
		t.Fatalf("literal = %q, want %q", str.Value, want)
	}
	if str.Span != sp(6, 28) {
		t.Fatalf("span = %s, want [6:28]", str.Span.Offsets())
	}
	if toks[3].Kind != token.RParen {
		t.Fatalf("expected RightParen after string, got %v", toks[3].Kind)
	}
}

func TestEmptyStringLiteral(t *testing.T) {
	toks := tokenize(t, `""`)
	if toks[0].Kind != token.StringLit || !toks[0].HasValue || toks[0].Value != "" {
		t.Fatalf("unexpected token %v", toks[0])
	}
}

func TestUnicodeSpansAreByteOffsets(t *testing.T) {
	toks := tokenize(t, "(λ ü)")
	want := []source.Span{sp(0, 1), sp(1, 3), sp(4, 6), sp(6, 7), sp(7, 7)}
	for i, tok := range toks {
		if tok.Span != want[i] {
			t.Errorf("token %d span = %s, want %s", i, tok.Span.Offsets(), want[i].Offsets())
		}
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		code    diag.Code
		span    source.Span
		message string
	}{
		{
			name:    "unterminated string",
			input:   `(+ " )`,
			code:    diag.LexUnterminatedString,
			span:    sp(3, 6),
			message: `tried to consume past end of input, expected '"' at [3:6]`,
		},
		{
			name:    "unterminated escape",
			input:   `"abc\`,
			code:    diag.LexUnterminatedEscape,
			span:    sp(0, 5),
			message: `unterminated escape sequence, expected '"' at [0:5]`,
		},
		{
			name:    "escaped closing quote",
			input:   `"abc\"`,
			code:    diag.LexUnterminatedString,
			span:    sp(0, 6),
			message: `tried to consume past end of input, expected '"' at [0:6]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := newLexer(tt.input, lexer.Options{}).Tokenize()
			if err == nil {
				t.Fatalf("expected error, got tokens %v", toks)
			}
			if !errors.Is(err, lexer.ErrLex) {
				t.Fatalf("error %v does not match ErrLex", err)
			}
			var lexErr *lexer.Error
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected *lexer.Error, got %T", err)
			}
			if lexErr.Code != tt.code {
				t.Errorf("code = %v, want %v", lexErr.Code.ID(), tt.code.ID())
			}
			if lexErr.Span != tt.span {
				t.Errorf("span = %s, want %s", lexErr.Span.Offsets(), tt.span.Offsets())
			}
			if err.Error() != tt.message {
				t.Errorf("message = %q, want %q", err.Error(), tt.message)
			}
		})
	}
}

func TestReporterReceivesError(t *testing.T) {
	bag := diag.NewBag(4)
	_, err := newLexer(`"open`, lexer.Options{Reporter: &diag.BagReporter{Bag: bag}}).Tokenize()
	if err == nil {
		t.Fatal("expected error")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
}

func TestAllIsLazyAndRestartable(t *testing.T) {
	lx := newLexer("(a b c)", lexer.Options{})

	var first []token.Token
	for tok, err := range lx.All() {
		if err != nil {
			t.Fatal(err)
		}
		first = append(first, tok)
		if len(first) == 2 {
			break
		}
	}
	if len(first) != 2 || first[1].Value != "a" {
		t.Fatalf("unexpected prefix %v", first)
	}

	full, err := lx.Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	again, err := lx.Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(full, again); diff != "" {
		t.Fatalf("second pass differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first, full[:2]); diff != "" {
		t.Fatalf("lazy prefix differs:\n%s", diff)
	}
}

func TestSharedLexerConcurrent(t *testing.T) {
	lx := newLexer(strings.Repeat("(+ 1 (* 2 3)) ", 50), lexer.Options{})
	want, err := lx.Tokenize()
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := lx.Tokenize()
			if err != nil {
				errs <- err.Error()
				return
			}
			if diff := cmp.Diff(want, got); diff != "" {
				errs <- diff
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestLastTokenIsSingleEOF(t *testing.T) {
	inputs := []string{"", "a", "(((", ")))", `"s" 1 (x)`, "\n\n("}
	for _, in := range inputs {
		toks := tokenize(t, in)
		for i, tok := range toks {
			if tok.IsEOF() != (i == len(toks)-1) {
				t.Fatalf("tokenize(%q): EOF at position %d of %d", in, i, len(toks))
			}
			if tok.Span.End < tok.Span.Start {
				t.Fatalf("tokenize(%q): inverted span %s", in, tok.Span.Offsets())
			}
		}
	}
}
