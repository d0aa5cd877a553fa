// Package token defines the lexical vocabulary shared by the lexer and the parser.
// Invariants:
//   - Token.Span is a byte range into the source; Start <= End.
//   - Atom and StringLit tokens carry a Value (HasValue is true); the other kinds do not.
//   - A StringLit value is the raw text between the quotes, backslashes included.
//   - Every token stream ends with exactly one EOF token, which is zero-width.
package token
