package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Atom is any run of characters that is neither whitespace nor a paren.
	Atom
	// StringLit is a double-quoted string literal.
	StringLit
	LParen // (
	RParen // )
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Atom:      "Atom",
	StringLit: "String",
	LParen:    "LeftParen",
	RParen:    "RightParen",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Invalid"
}

// HasValue reports whether tokens of this kind carry a literal value.
func (k Kind) HasValue() bool {
	return k == Atom || k == StringLit
}
