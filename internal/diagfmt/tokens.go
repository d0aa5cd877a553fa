package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"parens/internal/source"
	"parens/internal/token"
)

type TokenOutput struct {
	Kind  string      `json:"kind"`
	Value *string     `json:"value,omitempty"`
	Span  source.Span `json:"span"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%3d: %-10s", i+1, tok.Kind); err != nil {
			return err
		}
		if tok.HasValue {
			fmt.Fprintf(w, " %q", tok.Value)
		}
		fmt.Fprintf(w, " %s %s\n", tok.Span.Offsets(), formatSpan(tok.Span, fs))
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{Kind: tok.Kind.String(), Span: tok.Span}
		if tok.HasValue {
			out.Value = &tok.Value
		}
		output = append(output, out)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
