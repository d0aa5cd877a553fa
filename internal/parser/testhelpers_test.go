package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"parens/internal/ast"
	"parens/internal/diag"
	"parens/internal/lexer"
	"parens/internal/parser"
	"parens/internal/source"
)

func parseSource(t *testing.T, src string, opts parser.Options) (ast.Expr, error) {
	t.Helper()
	fs := source.NewFileSetWithBase("")
	fileID := fs.AddVirtual("test.lisp", []byte(src))
	toks, err := lexer.New(fs.Get(fileID), lexer.Options{}).Tokenize()
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	return parser.Parse(toks, opts)
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}
