package lexer

import "parens/internal/diag"

// DefaultMaxTokenLength bounds a single atom or string literal, in bytes.
const DefaultMaxTokenLength = 4096

type Options struct {
	// Reporter получает каждую ошибку лексера как диагностику; может быть nil.
	Reporter diag.Reporter

	// MaxTokenLength ограничивает длину атома или строки в байтах (0 — без ограничения).
	MaxTokenLength int
}
