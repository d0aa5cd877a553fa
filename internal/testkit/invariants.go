package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"parens/internal/ast"
	"parens/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed tree:
// 1) every node span is non-empty, belongs to sf and ends within its content
// 2) every child span lies inside its parent list span
// 3) siblings appear in source order and do not overlap
func CheckSpanInvariants(root ast.Expr, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil expression or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	return checkNode(root, sf.ID, lenContent)
}

func checkNode(e ast.Expr, file source.FileID, limit uint32) error {
	sp := e.Span()
	if sp.End <= sp.Start {
		return fmt.Errorf("empty span %v for %s", sp, e)
	}
	if sp.File != file {
		return fmt.Errorf("span file mismatch for %s: got=%d want=%d", e, sp.File, file)
	}
	if sp.End > limit {
		return fmt.Errorf("span %v of %s ends beyond content (%d bytes)", sp, e, limit)
	}

	list, ok := e.(*ast.ListExpr)
	if !ok {
		return nil
	}
	// дети строго внутри скобок: '(' слева и ')' справа
	prevEnd := sp.Start + 1
	for _, arg := range list.Args {
		child := arg.Span()
		if child.Start < prevEnd || child.End > sp.End-1 {
			return fmt.Errorf("child span %v is outside %v or overlaps its left sibling", child, sp)
		}
		if err := checkNode(arg, file, limit); err != nil {
			return err
		}
		prevEnd = child.End
	}
	return nil
}
