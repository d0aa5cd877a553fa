package lexer

import "unicode"

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

// isAtomRune reports whether r may continue an atom.
func isAtomRune(r rune) bool {
	return r != '(' && r != ')' && !isSpace(r)
}
