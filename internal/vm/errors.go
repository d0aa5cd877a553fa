package vm

import (
	"errors"
	"fmt"

	"parens/internal/diag"
	"parens/internal/source"
)

// ErrRuntime matches every *Error via errors.Is.
var ErrRuntime = errors.New("runtime error")

// Frame is one builtin invocation on the path to a failure.
type Frame struct {
	Name string
	Span source.Span
}

// Error is an evaluation failure. Backtrace lists the enclosing builtin
// calls from innermost to outermost.
type Error struct {
	Code      diag.Code
	Span      source.Span
	Msg       string
	Backtrace []Frame
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s", e.Msg, e.Span.Offsets())
}

func (e *Error) Is(target error) bool {
	return target == ErrRuntime
}

// Diagnostic converts the error into a diag.Diagnostic; every backtrace
// frame becomes a note.
func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.NewError(e.Code, e.Span, e.Msg)
	for _, f := range e.Backtrace {
		d = d.WithNote(f.Span, fmt.Sprintf("in call to '%s'", f.Name))
	}
	return d
}
