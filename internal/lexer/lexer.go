package lexer

import (
	"fmt"
	"iter"

	"parens/internal/diag"
	"parens/internal/source"
	"parens/internal/token"
)

// Lexer holds immutable configuration for tokenizing one file.
// All position state lives in a scanner created per call, so a Lexer
// may be shared between goroutines.
type Lexer struct {
	file *source.File
	opts Options
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{file: file, opts: opts}
}

// scanner — состояние одного прохода по файлу.
type scanner struct {
	cursor Cursor
	opts   *Options
	done   bool
}

// All returns a lazy token sequence. The sequence ends after the EOF token
// or after the first error; each range over it starts from offset zero.
func (lx *Lexer) All() iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		s := scanner{cursor: NewCursor(lx.file), opts: &lx.opts}
		for !s.done {
			tok, err := s.next()
			if err != nil {
				lx.report(err)
				yield(tok, err)
				return
			}
			if !yield(tok, nil) {
				return
			}
		}
	}
}

// Tokenize materializes the whole token stream, EOF included.
func (lx *Lexer) Tokenize() ([]token.Token, error) {
	toks := make([]token.Token, 0, len(lx.file.Content)/2+1)
	for tok, err := range lx.All() {
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

func (lx *Lexer) report(err error) {
	if lx.opts.Reporter == nil {
		return
	}
	if le, ok := err.(*Error); ok {
		le.Diagnostic().Emit(lx.opts.Reporter)
	}
}

// next возвращает следующий токен; после EOF выставляет done.
func (s *scanner) next() (token.Token, error) {
	s.skipSpace()

	if s.cursor.EOF() {
		s.done = true
		return token.New(token.EOF, source.At(s.cursor.File.ID, s.cursor.Len())), nil
	}

	start := s.cursor.Mark()
	switch {
	case s.cursor.Peek() == '"':
		return s.scanString()
	case s.cursor.Eat('('):
		return token.New(token.LParen, s.cursor.SpanFrom(start)), nil
	case s.cursor.Eat(')'):
		return token.New(token.RParen, s.cursor.SpanFrom(start)), nil
	default:
		return s.scanAtom()
	}
}

func (s *scanner) skipSpace() {
	for {
		r, sz := s.cursor.PeekRune()
		if sz == 0 || !isSpace(r) {
			return
		}
		s.cursor.BumpRune()
	}
}

func (s *scanner) scanAtom() (token.Token, error) {
	start := s.cursor.Mark()
	for {
		r, sz := s.cursor.PeekRune()
		if sz == 0 || !isAtomRune(r) {
			break
		}
		s.cursor.BumpRune()
	}
	sp := s.cursor.SpanFrom(start)
	if err := s.checkLength(sp); err != nil {
		return token.New(token.Invalid, sp), err
	}
	return token.WithValue(token.Atom, sp, s.cursor.Slice(sp.Start, sp.End)), nil
}

// scanString читает "..." без интерпретации escape-последовательностей:
// '\' и следующий символ попадают в значение как есть.
func (s *scanner) scanString() (token.Token, error) {
	start := s.cursor.Mark()
	s.cursor.Bump() // opening '"'
	for {
		if s.cursor.EOF() {
			sp := s.cursor.SpanFrom(start)
			return token.New(token.Invalid, sp), s.fail(diag.LexUnterminatedString, sp,
				"tried to consume past end of input, expected '\"'")
		}
		switch s.cursor.Peek() {
		case '"':
			s.cursor.Bump()
			sp := s.cursor.SpanFrom(start)
			if err := s.checkLength(sp); err != nil {
				return token.New(token.Invalid, sp), err
			}
			return token.WithValue(token.StringLit, sp, s.cursor.Slice(sp.Start+1, sp.End-1)), nil
		case '\\':
			s.cursor.Bump()
			if s.cursor.EOF() {
				sp := s.cursor.SpanFrom(start)
				return token.New(token.Invalid, sp), s.fail(diag.LexUnterminatedEscape, sp,
					"unterminated escape sequence, expected '\"'")
			}
			s.cursor.BumpRune()
		default:
			s.cursor.BumpRune()
		}
	}
}

func (s *scanner) checkLength(sp source.Span) error {
	limit := s.opts.MaxTokenLength
	if limit <= 0 || int(sp.Len()) <= limit {
		return nil
	}
	return s.fail(diag.LexTokenTooLong, sp, fmt.Sprintf("token too long (%d bytes, limit %d)", sp.Len(), limit))
}

func (s *scanner) fail(code diag.Code, sp source.Span, msg string) *Error {
	s.done = true
	return &Error{Code: code, Span: sp, Msg: msg}
}
