package testkit

import (
	"strings"
	"testing"

	"parens/internal/ast"
	"parens/internal/lexer"
	"parens/internal/parser"
	"parens/internal/source"
)

func parse(t *testing.T, src string) (ast.Expr, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.lisp", []byte(src)))
	toks, err := lexer.New(file, lexer.Options{}).Tokenize()
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	expr, err := parser.Parse(toks, parser.Options{})
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return expr, file
}

func TestCheckSpanInvariantsAcceptsParsedTrees(t *testing.T) {
	for _, src := range []string{
		"42",
		`"hello"`,
		"(+ 1 (* 2 3))",
		"  ( first  (list 1 (+ 2 3) 9) )  ",
		"(((((x)))))",
	} {
		expr, file := parse(t, src)
		if err := CheckSpanInvariants(expr, file); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}

func TestCheckSpanInvariantsRejectsBrokenSpans(t *testing.T) {
	_, file := parse(t, "(+ 1 2)")
	at := func(s, e uint32) ast.Loc { return ast.Loc{Src: source.Span{File: file.ID, Start: s, End: e}} }

	tests := []struct {
		name string
		expr ast.Expr
		want string
	}{
		{"empty", &ast.IdentAtom{Loc: at(3, 3), Name: "x"}, "empty span"},
		{"beyond content", &ast.IntegerAtom{Loc: at(0, 20), Literal: 1}, "beyond content"},
		{"wrong file", &ast.IdentAtom{Loc: ast.Loc{Src: source.Span{File: file.ID + 1, Start: 0, End: 1}}, Name: "+"}, "file mismatch"},
		{"overlapping siblings", &ast.ListExpr{Loc: at(0, 7), Args: []ast.Expr{
			&ast.IdentAtom{Loc: at(1, 4), Name: "+"},
			&ast.IntegerAtom{Loc: at(3, 4), Literal: 1},
		}}, "overlaps"},
		{"child on paren", &ast.ListExpr{Loc: at(0, 7), Args: []ast.Expr{
			&ast.IdentAtom{Loc: at(0, 2), Name: "+"},
		}}, "outside"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSpanInvariants(tt.expr, file)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}
