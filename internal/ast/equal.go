package ast

// Equal reports structural equality; spans are ignored.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *ListExpr:
		y, ok := b.(*ListExpr)
		if !ok || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *StringAtom:
		y, ok := b.(*StringAtom)
		return ok && x.Literal == y.Literal
	case *IntegerAtom:
		y, ok := b.(*IntegerAtom)
		return ok && x.Literal == y.Literal
	case *IdentAtom:
		y, ok := b.(*IdentAtom)
		return ok && x.Name == y.Name
	default:
		panic("ast: unknown expression type")
	}
}
