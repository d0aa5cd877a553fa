package vm

import (
	"parens/internal/ast"
	"parens/internal/diag"
)

// BuiltinFunc receives its operands unevaluated and decides itself how
// and whether to evaluate them through c.
type BuiltinFunc func(c *Call, args []ast.Expr) (Value, error)

// Builtin is a named callable from the evaluator's table.
type Builtin struct {
	Name string
	Doc  string
	Fn   BuiltinFunc
}

func defaultBuiltins() []*Builtin {
	return []*Builtin{
		{Name: "+", Doc: "(+ n...) sum of the operands; 0 without operands", Fn: builtinAdd},
		{Name: "-", Doc: "(- n m...) subtracts the rest from n; (- n) negates", Fn: builtinSub},
		{Name: "*", Doc: "(* n...) product of the operands; 1 without operands", Fn: builtinMul},
	}
}

func builtinAdd(c *Call, args []ast.Expr) (Value, error) {
	return fold(c, args, 0, addInt32Checked, "+")
}

func builtinMul(c *Call, args []ast.Expr) (Value, error) {
	return fold(c, args, 1, mulInt32Checked, "*")
}

func builtinSub(c *Call, args []ast.Expr) (Value, error) {
	if len(args) == 0 {
		return Value{}, c.Errorf(diag.VMArity, c.Span(), "'%s' expects at least 1 argument, got 0", c.Name())
	}
	first, err := c.EvalInt(args[0])
	if err != nil {
		return Value{}, err
	}
	if len(args) == 1 {
		n, ok := negInt32Checked(first)
		if !ok {
			return Value{}, c.Errorf(diag.VMIntegerOverflow, c.Span(), "integer overflow: -(%d)", first)
		}
		return IntValue(n), nil
	}
	return fold(c, args[1:], first, subInt32Checked, "-")
}

// fold evaluates operands left to right and combines them with op.
func fold(c *Call, args []ast.Expr, acc int32, op func(a, b int32) (int32, bool), sym string) (Value, error) {
	for _, arg := range args {
		n, err := c.EvalInt(arg)
		if err != nil {
			return Value{}, err
		}
		next, ok := op(acc, n)
		if !ok {
			return Value{}, c.Errorf(diag.VMIntegerOverflow, c.Span(), "integer overflow: %d %s %d", acc, sym, n)
		}
		acc = next
	}
	return IntValue(acc), nil
}
