package token

import (
	"fmt"

	"parens/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind     Kind
	Span     source.Span
	Value    string
	HasValue bool
}

// New builds a token without a value (parens, EOF).
func New(kind Kind, sp source.Span) Token {
	return Token{Kind: kind, Span: sp}
}

// WithValue builds an Atom or StringLit token.
func WithValue(kind Kind, sp source.Span, value string) Token {
	return Token{Kind: kind, Span: sp, Value: value, HasValue: true}
}

// IsEOF reports whether the token marks the end of input.
func (t Token) IsEOF() bool { return t.Kind == EOF }

// IsParen reports whether the token is '(' or ')'.
func (t Token) IsParen() bool { return t.Kind == LParen || t.Kind == RParen }

func (t Token) String() string {
	if t.HasValue {
		return fmt.Sprintf("%s(%q) at %s", t.Kind, t.Value, t.Span.Offsets())
	}
	return fmt.Sprintf("%s at %s", t.Kind, t.Span.Offsets())
}
