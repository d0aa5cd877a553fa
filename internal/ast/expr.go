package ast

import (
	"parens/internal/source"
)

type ExprKind uint8

const (
	ExprList ExprKind = iota
	ExprString
	ExprInteger
	ExprIdent
)

var exprKindNames = [...]string{
	ExprList:    "List",
	ExprString:  "String",
	ExprInteger: "Integer",
	ExprIdent:   "Identifier",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Unknown"
}

// Expr is one of *ListExpr, *StringAtom, *IntegerAtom or *IdentAtom.
// Nodes are never mutated after the parser builds them.
type Expr interface {
	Kind() ExprKind
	Span() source.Span
	String() string
	exprNode()
}

// Loc is embedded by every node to carry its source span.
type Loc struct {
	Src source.Span
}

func (l Loc) Span() source.Span { return l.Src }

// ListExpr is a parenthesized list; Args keep source order.
type ListExpr struct {
	Loc
	Args []Expr
}

// StringAtom holds the raw text between the quotes, escapes not interpreted.
type StringAtom struct {
	Loc
	Literal string
}

type IntegerAtom struct {
	Loc
	Literal int32
}

type IdentAtom struct {
	Loc
	Name string
}

func (*ListExpr) Kind() ExprKind { return ExprList }
func (*StringAtom) Kind() ExprKind { return ExprString }
func (*IntegerAtom) Kind() ExprKind { return ExprInteger }
func (*IdentAtom) Kind() ExprKind { return ExprIdent }

func (*ListExpr) exprNode() {}
func (*StringAtom) exprNode() {}
func (*IntegerAtom) exprNode() {}
func (*IdentAtom) exprNode() {}

// Constructors for tests and builtins; the span is left empty.

func List(args ...Expr) *ListExpr { return &ListExpr{Args: args} }
func Str(lit string) *StringAtom { return &StringAtom{Literal: lit} }
func Int(n int32) *IntegerAtom { return &IntegerAtom{Literal: n} }
func Ident(name string) *IdentAtom { return &IdentAtom{Name: name} }
