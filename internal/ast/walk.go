package ast

// Walk visits e and its descendants in pre-order. Returning false from fn
// skips the children of the current node.
func Walk(e Expr, fn func(e Expr, depth int) bool) {
	walk(e, 0, fn)
}

func walk(e Expr, depth int, fn func(Expr, int) bool) {
	if e == nil || !fn(e, depth) {
		return
	}
	if list, ok := e.(*ListExpr); ok {
		for _, arg := range list.Args {
			walk(arg, depth+1, fn)
		}
	}
}

// Depth returns the list nesting depth; atoms have depth 0.
func Depth(e Expr) int {
	maxDepth := 0
	Walk(e, func(n Expr, d int) bool {
		if _, ok := n.(*ListExpr); ok && d+1 > maxDepth {
			maxDepth = d + 1
		}
		return true
	})
	return maxDepth
}

// Count returns the number of nodes in the tree.
func Count(e Expr) int {
	n := 0
	Walk(e, func(Expr, int) bool {
		n++
		return true
	})
	return n
}
