// Package vm implements a tree-walking evaluator over parsed expressions.
package vm

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"parens/internal/ast"
	"parens/internal/diag"
	"parens/internal/source"
	"parens/internal/trace"
)

// DefaultMaxDepth bounds list nesting during evaluation.
const DefaultMaxDepth = 512

type Options struct {
	// Reporter получает ошибку выполнения как диагностику; может быть nil.
	Reporter diag.Reporter
	// MaxDepth ограничивает вложенность вызовов (0 — без ограничения).
	MaxDepth int
	// Builtins are added to the default table; an entry with the same name
	// replaces the default.
	Builtins []*Builtin
}

// Evaluator holds the builtin table. The table is never written after New,
// so one Evaluator may serve concurrent Eval calls.
type Evaluator struct {
	builtins map[string]*Builtin
	opts     Options
}

func New(opts Options) *Evaluator {
	table := make(map[string]*Builtin)
	for _, b := range slices.Concat(defaultBuiltins(), opts.Builtins) {
		if b != nil && b.Name != "" {
			table[b.Name] = b
		}
	}
	opts.Builtins = nil
	return &Evaluator{builtins: table, opts: opts}
}

// Lookup returns the builtin bound to name.
func (ev *Evaluator) Lookup(name string) (*Builtin, bool) {
	b, ok := ev.builtins[name]
	return b, ok
}

// Names returns the bound identifiers in sorted order.
func (ev *Evaluator) Names() []string {
	return slices.Sorted(maps.Keys(ev.builtins))
}

// Eval evaluates expr to a value.
func (ev *Evaluator) Eval(expr ast.Expr) (Value, error) {
	return ev.EvalContext(context.Background(), expr)
}

// EvalContext is Eval with the tracer and parent span taken from ctx.
// Builtin calls are traced as ScopeNode points.
func (ev *Evaluator) EvalContext(ctx context.Context, expr ast.Expr) (Value, error) {
	run := &run{
		ev:     ev,
		tracer: trace.FromContext(ctx),
		parent: trace.ParentID(ctx),
	}
	v, err := run.eval(nil, expr, 0)
	if err != nil {
		if ev.opts.Reporter != nil {
			err.Diagnostic().Emit(ev.opts.Reporter)
		}
		return Value{}, err
	}
	return v, nil
}

// run — состояние одного вызова Eval.
type run struct {
	ev     *Evaluator
	tracer trace.Tracer
	parent uint64
}

func (r *run) eval(caller *Call, e ast.Expr, depth int) (Value, *Error) {
	switch x := e.(type) {
	case *ast.IntegerAtom:
		return IntValue(x.Literal), nil

	case *ast.IdentAtom:
		b, ok := r.ev.builtins[x.Name]
		if !ok {
			return Value{}, newError(caller, diag.VMUnboundIdentifier, x.Span(), "unbound identifier '%s'", x.Name)
		}
		return BuiltinValue(b), nil

	case *ast.StringAtom:
		return Value{}, newError(caller, diag.VMUnsupportedExpr, x.Span(),
			"failed to execute expression: string literal has no runtime value")

	case *ast.ListExpr:
		return r.evalList(caller, x, depth+1)

	default:
		panic(fmt.Sprintf("vm: unexpected expression %T", e))
	}
}

func (r *run) evalList(caller *Call, list *ast.ListExpr, depth int) (Value, *Error) {
	if limit := r.ev.opts.MaxDepth; limit > 0 && depth > limit {
		return Value{}, newError(caller, diag.VMNestingTooDeep, list.Span(), "evaluation nesting exceeds limit of %d", limit)
	}
	if len(list.Args) == 0 {
		return Value{}, newError(caller, diag.VMEmptyList, list.Span(), "failed to execute list expression: empty list")
	}

	head, err := r.eval(caller, list.Args[0], depth)
	if err != nil {
		return Value{}, err
	}
	if !head.IsCallable() {
		return Value{}, newError(caller, diag.VMNotCallable, list.Args[0].Span(),
			"failed to execute list expression: %s is not callable", head.Kind)
	}

	call := &Call{run: r, caller: caller, builtin: head.Builtin, span: list.Span(), depth: depth}
	operands := list.Args[1:]
	if r.tracer.Enabled() {
		trace.Point(r.tracer, trace.ScopeNode, "call:"+call.Name(), r.parent, fmt.Sprintf("%d operands at %s", len(operands), call.span.Offsets()))
	}

	v, callErr := head.Builtin.Fn(call, operands)
	if callErr != nil {
		var verr *Error
		if errors.As(callErr, &verr) {
			return Value{}, verr
		}
		// Builtins outside this package may return plain errors.
		return Value{}, newError(call, diag.VMUnsupportedExpr, call.span, "%s", callErr.Error())
	}
	return v, nil
}

// Call is handed to a builtin for one invocation.
type Call struct {
	run     *run
	caller  *Call
	builtin *Builtin
	span    source.Span
	depth   int
}

// Name returns the name the builtin is bound to.
func (c *Call) Name() string { return c.builtin.Name }

// Span covers the whole list expression being invoked.
func (c *Call) Span() source.Span { return c.span }

// Eval evaluates one operand.
func (c *Call) Eval(e ast.Expr) (Value, error) {
	v, err := c.run.eval(c, e, c.depth)
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

// EvalInt evaluates an operand that must produce an integer.
func (c *Call) EvalInt(e ast.Expr) (int32, error) {
	v, err := c.Eval(e)
	if err != nil {
		return 0, err
	}
	if v.Kind != VKInt {
		return 0, c.Errorf(diag.VMTypeMismatch, e.Span(),
			"type mismatch: '%s' expects integer operands, got %s", c.Name(), v.Kind)
	}
	return v.Int, nil
}

// Errorf builds a runtime error whose backtrace starts at this call.
func (c *Call) Errorf(code diag.Code, sp source.Span, format string, args ...any) error {
	return newError(c, code, sp, format, args...)
}

func newError(c *Call, code diag.Code, sp source.Span, format string, args ...any) *Error {
	err := &Error{Code: code, Span: sp, Msg: fmt.Sprintf(format, args...)}
	for ; c != nil; c = c.caller {
		err.Backtrace = append(err.Backtrace, Frame{Name: c.Name(), Span: c.span})
	}
	return err
}
