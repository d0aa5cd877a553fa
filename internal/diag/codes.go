package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnterminatedString Code = 1002
	LexTokenTooLong       Code = 1005
	LexUnterminatedEscape Code = 1006
	LexPastEndOfInput     Code = 1007

	// Парсерные
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynUnclosedParen    Code = 2006
	SynExpectExpression Code = 2203
	SynMalformedToken   Code = 2301
	SynBadInteger       Code = 2302
	SynNestingTooDeep   Code = 2303
	SynTrailingTokens   Code = 2304

	// Времени исполнения
	VMInfo              Code = 3000
	VMUnboundIdentifier Code = 3001
	VMNotCallable       Code = 3002
	VMEmptyList         Code = 3003
	VMTypeMismatch      Code = 3004
	VMUnsupportedExpr   Code = 3005
	VMIntegerOverflow   Code = 3006
	VMArity             Code = 3007
	VMNestingTooDeep    Code = 3008

	// Ошибки I/O
	IOLoadFileError Code = 4001

	// Кэш
	ObsCacheError Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnterminatedString: "Unterminated string",
	LexTokenTooLong:       "Token too long",
	LexUnterminatedEscape: "Unterminated escape sequence",
	LexPastEndOfInput:     "Unexpected end of input",
	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynUnclosedParen:      "Unclosed parenthesis",
	SynExpectExpression:   "Expect expression",
	SynMalformedToken:     "Malformed token",
	SynBadInteger:         "Invalid integer literal",
	SynNestingTooDeep:     "Nesting too deep",
	SynTrailingTokens:     "Trailing tokens after expression",
	VMInfo:                "Runtime information",
	VMUnboundIdentifier:   "Unbound identifier",
	VMNotCallable:         "Value is not callable",
	VMEmptyList:           "Empty list invocation",
	VMTypeMismatch:        "Type mismatch",
	VMUnsupportedExpr:     "Expression cannot be executed",
	VMIntegerOverflow:     "Integer overflow",
	VMArity:               "Wrong number of arguments",
	VMNestingTooDeep:      "Evaluation nested too deep",
	IOLoadFileError:       "Failed to load file",
	ObsCacheError:         "Result cache failure",
}

// ID returns the stable short identifier, e.g. "SYN2302".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("VM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
