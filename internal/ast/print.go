package ast

import (
	"strconv"
	"strings"
)

// String renders the list back in S-expression form.
func (e *ListExpr) String() string {
	var sb strings.Builder
	writeExpr(&sb, e)
	return sb.String()
}

// String renders the literal with its quotes; escapes are already raw.
func (e *StringAtom) String() string { return `"` + e.Literal + `"` }

func (e *IntegerAtom) String() string { return strconv.FormatInt(int64(e.Literal), 10) }

func (e *IdentAtom) String() string { return e.Name }

func writeExpr(sb *strings.Builder, e Expr) {
	list, ok := e.(*ListExpr)
	if !ok {
		sb.WriteString(e.String())
		return
	}
	sb.WriteByte('(')
	for i, arg := range list.Args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		writeExpr(sb, arg)
	}
	sb.WriteByte(')')
}
