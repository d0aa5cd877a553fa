package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"parens/internal/ast"
	"parens/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Span     source.Span     `json:"span"`
	Value    any             `json:"value,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatASTPretty prints the expression as an indented outline with spans.
func FormatASTPretty(w io.Writer, expr ast.Expr, fs *source.FileSet) error {
	if expr == nil {
		return fmt.Errorf("nil expression")
	}
	return formatExprPretty(w, expr, fs, "")
}

func formatExprPretty(w io.Writer, expr ast.Expr, fs *source.FileSet, prefix string) error {
	if _, err := fmt.Fprintf(w, "%s (span: %s)\n", exprLabel(expr), formatSpan(expr.Span(), fs)); err != nil {
		return err
	}
	list, ok := expr.(*ast.ListExpr)
	if !ok {
		return nil
	}
	for i, arg := range list.Args {
		branch, childPrefix := "├─ ", "│  "
		if i == len(list.Args)-1 {
			branch, childPrefix = "└─ ", "   "
		}
		fmt.Fprint(w, prefix+branch)
		if err := formatExprPretty(w, arg, fs, prefix+childPrefix); err != nil {
			return err
		}
	}
	return nil
}

func exprLabel(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.ListExpr:
		return fmt.Sprintf("List[%d]", len(e.Args))
	case *ast.StringAtom:
		return fmt.Sprintf("String %q", e.Literal)
	case *ast.IntegerAtom:
		return fmt.Sprintf("Integer %d", e.Literal)
	case *ast.IdentAtom:
		return "Identifier " + e.Name
	default:
		panic(fmt.Sprintf("diagfmt: unexpected expression %T", expr))
	}
}

// FormatASTJSON writes the expression tree as indented JSON.
func FormatASTJSON(w io.Writer, expr ast.Expr) error {
	if expr == nil {
		return fmt.Errorf("nil expression")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildASTNode(expr))
}

func buildASTNode(expr ast.Expr) ASTNodeOutput {
	node := ASTNodeOutput{Type: expr.Kind().String(), Span: expr.Span()}
	switch e := expr.(type) {
	case *ast.ListExpr:
		node.Children = make([]ASTNodeOutput, 0, len(e.Args))
		for _, arg := range e.Args {
			node.Children = append(node.Children, buildASTNode(arg))
		}
	case *ast.StringAtom:
		node.Value = e.Literal
	case *ast.IntegerAtom:
		node.Value = e.Literal
	case *ast.IdentAtom:
		node.Value = e.Name
	}
	return node
}

// FormatASTSexpr prints the expression back in S-expression form.
func FormatASTSexpr(w io.Writer, expr ast.Expr) error {
	if expr == nil {
		return fmt.Errorf("nil expression")
	}
	_, err := fmt.Fprintln(w, expr.String())
	return err
}
