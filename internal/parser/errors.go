package parser

import (
	"errors"
	"fmt"

	"parens/internal/diag"
	"parens/internal/source"
)

// ErrParse matches every *Error via errors.Is.
var ErrParse = errors.New("parse error")

// Error is a parse failure anchored at the offending token.
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
	return target == ErrParse
}

// Diagnostic converts the error into a diag.Diagnostic. An unclosed list
// also carries a fix inserting the missing ')'.
func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.NewError(e.Code, e.Span, e.Msg)
	d.Notes = append(d.Notes, e.Notes...)
	if e.Code == diag.SynUnclosedParen {
		d = d.WithFix("insert ')'", diag.FixEdit{Span: e.Span, NewText: ")"})
	}
	return d
}
