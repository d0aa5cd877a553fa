package fuzztests

import (
	"errors"
	"testing"

	"parens/internal/diag"
	"parens/internal/lexer"
	"parens/internal/source"
	"parens/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.lisp", input))

		bag := diag.NewBag(64)
		toks, err := lexer.New(file, lexer.Options{Reporter: &diag.BagReporter{Bag: bag}, MaxTokenLength: 4096}).Tokenize()
		if err != nil {
			if !errors.Is(err, lexer.ErrLex) {
				t.Fatalf("lexer error of unexpected type: %v", err)
			}
			if bag.Len() != 1 {
				t.Fatalf("lexer error reported %d diagnostics, want 1", bag.Len())
			}
			return
		}
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream does not end with EOF: %v", toks)
		}
		var prev uint32
		for _, tok := range toks {
			if tok.Span.Start < prev || tok.Span.End < tok.Span.Start {
				t.Fatalf("token %v out of order (previous end %d)", tok, prev)
			}
			prev = tok.Span.End
		}
	})
}
