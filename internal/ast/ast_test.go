package ast_test

import (
	"testing"

	"parens/internal/ast"
	"parens/internal/source"
)

func TestString(t *testing.T) {
	tests := []struct {
		expr ast.Expr
		want string
	}{
		{ast.Int(1), "1"},
		{ast.Int(-42), "-42"},
		{ast.Ident("+"), "+"},
		{ast.Str(`a \" b`), `"a \" b"`},
		{ast.List(), "()"},
		{ast.List(ast.Ident("+"), ast.Int(2), ast.Int(3)), "(+ 2 3)"},
		{
			ast.List(ast.Ident("first"), ast.List(ast.Ident("list"), ast.Int(1), ast.List(ast.Ident("+"), ast.Int(2), ast.Int(3)), ast.Int(9))),
			"(first (list 1 (+ 2 3) 9))",
		},
	}
	for _, tt := range tests {
		if got := tt.expr.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEqualIgnoresSpans(t *testing.T) {
	a := &ast.ListExpr{
		Loc:  ast.Loc{Src: source.Span{Start: 0, End: 7}},
		Args: []ast.Expr{&ast.IdentAtom{Loc: ast.Loc{Src: source.Span{Start: 1, End: 2}}, Name: "+"}},
	}
	b := ast.List(ast.Ident("+"))
	if !ast.Equal(a, b) {
		t.Fatal("expected trees to be equal regardless of spans")
	}
}

func TestEqualDistinguishesVariants(t *testing.T) {
	tests := []struct {
		name string
		a, b ast.Expr
	}{
		{"int vs ident", ast.Int(1), ast.Ident("1")},
		{"string vs ident", ast.Str("x"), ast.Ident("x")},
		{"different ints", ast.Int(1), ast.Int(2)},
		{"arity", ast.List(ast.Int(1)), ast.List(ast.Int(1), ast.Int(1))},
		{"nested", ast.List(ast.List(ast.Int(1))), ast.List(ast.List(ast.Int(2)))},
		{"nil vs node", nil, ast.Int(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ast.Equal(tt.a, tt.b) || ast.Equal(tt.b, tt.a) {
				t.Fatalf("%v and %v must differ", tt.a, tt.b)
			}
		})
	}
	if !ast.Equal(nil, nil) {
		t.Fatal("nil trees are equal")
	}
}

func TestWalkDepthCount(t *testing.T) {
	tree := ast.List(ast.Ident("first"), ast.List(ast.Ident("list"), ast.Int(1), ast.List(ast.Ident("+"), ast.Int(2), ast.Int(3)), ast.Int(9)))

	var order []string
	ast.Walk(tree, func(e ast.Expr, _ int) bool {
		if e.Kind() != ast.ExprList {
			order = append(order, e.String())
		}
		return true
	})
	want := []string{"first", "list", "1", "+", "2", "3", "9"}
	if len(order) != len(want) {
		t.Fatalf("walk order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("walk order = %v, want %v", order, want)
		}
	}

	if d := ast.Depth(tree); d != 3 {
		t.Fatalf("Depth = %d, want 3", d)
	}
	if d := ast.Depth(ast.Int(5)); d != 0 {
		t.Fatalf("Depth(atom) = %d, want 0", d)
	}
	if n := ast.Count(tree); n != 10 {
		t.Fatalf("Count = %d, want 10", n)
	}

	skipped := 0
	ast.Walk(tree, func(e ast.Expr, depth int) bool {
		skipped++
		return depth == 0
	})
	if skipped != 3 {
		t.Fatalf("pruned walk visited %d nodes, want 3", skipped)
	}
}

func TestExprKindString(t *testing.T) {
	if ast.ExprIdent.String() != "Identifier" || ast.ExprKind(99).String() != "Unknown" {
		t.Fatal("unexpected ExprKind names")
	}
}
