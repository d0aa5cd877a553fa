// Package diag defines the diagnostic model shared by the lexer, parser and
// evaluator.
//
// Every error produced by a pipeline phase can be expressed as a Diagnostic:
//
//   - Severity – Info, Warning or Error.
//   - Code – compact numeric identifier with a stable string form
//     (LEX1002, SYN2302, VM3001, ...).
//   - Message – human oriented text.
//   - Primary – the source.Span the finding is anchored to.
//   - Notes – optional secondary spans ("list opened here").
//   - Fixes – optional suggested edits, applied by internal/fix.
//
// Phases emit through a Reporter so they do not depend on storage. BagReporter
// collects into a Bag, which supports limits, sorting and merging. The package
// does no formatting beyond the single-line short form; rendering lives in
// internal/diagfmt.
package diag
