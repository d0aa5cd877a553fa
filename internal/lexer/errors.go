package lexer

import (
	"errors"
	"fmt"

	"parens/internal/diag"
	"parens/internal/source"
)

// ErrLex matches every *Error via errors.Is.
var ErrLex = errors.New("lex error")

// Error is a tokenization failure anchored at a source span.
type Error struct {
	Code  diag.Code
	Span  source.Span
	Msg   string
	Notes []diag.Note
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s", e.Msg, e.Span.Offsets())
}

func (e *Error) Is(target error) bool {
	return target == ErrLex
}

// Diagnostic converts the error into a diag.Diagnostic.
func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.NewError(e.Code, e.Span, e.Msg)
	d.Notes = append(d.Notes, e.Notes...)
	return d
}
