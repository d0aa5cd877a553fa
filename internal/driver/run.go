package driver

import (
	"context"
	"errors"
	"fmt"

	"parens/internal/ast"
	"parens/internal/diag"
	"parens/internal/lexer"
	"parens/internal/observ"
	"parens/internal/parser"
	"parens/internal/source"
	"parens/internal/token"
	"parens/internal/trace"
	"parens/internal/vm"
)

// Result is everything one run produced. On a cache hit Tokens and Expr are nil.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Expr    ast.Expr
	Value   vm.Value
	Bag     *diag.Bag
	Timing  observ.Report
	Cached  bool

	// Err is the first failure of the pipeline: *lexer.Error, *parser.Error,
	// *vm.Error, a replayed cached error or a context error.
	Err error
}

func (r *Result) OK() bool { return r.Err == nil }

// diagnoser is implemented by the typed errors of every pipeline layer.
type diagnoser interface {
	error
	Diagnostic() diag.Diagnostic
}

// RunSource evaluates an in-memory program registered under name.
func RunSource(ctx context.Context, name string, src []byte, opts Options) *Result {
	fs := source.NewFileSet()
	return Run(ctx, fs, fs.AddVirtual(name, src), opts)
}

// RunFile loads path from disk and evaluates it.
func RunFile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return Run(ctx, fs, id, opts), nil
}

// Run tokenizes, parses and evaluates one file of fs. Every failure is also
// recorded in Result.Bag.
func Run(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) *Result {
	file := fs.Get(id)
	bag := diag.NewBag(opts.MaxDiagnostics)
	reporter := diag.NewDedupReporter(&diag.BagReporter{Bag: bag})
	res := &Result{FileSet: fs, File: file, Bag: bag}

	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "run")
	span.WithExtra("file", file.Path)
	timer := observ.NewTimer()
	defer func() {
		res.Timing = timer.Report()
		status := "ok"
		switch {
		case res.Err != nil:
			status = "error"
		case res.Cached:
			status = "cached"
		}
		span.End(status)
	}()

	ev := vm.New(vm.Options{Reporter: reporter, MaxDepth: opts.MaxDepth, Builtins: opts.Builtins})

	if opts.Until != "" && opts.Until != StageEval {
		opts.Cache = nil
	}
	key := cacheKey(file, opts, ev)
	if opts.Cache != nil {
		hit, err := opts.Cache.replay(key, res, ev)
		if err != nil {
			span.Fail(err)
			diag.New(diag.SevWarning, diag.ObsCacheError, source.At(id, 0), "cache: "+err.Error()).Emit(reporter)
		}
		if hit {
			res.Cached = true
			emit(opts.Progress, Event{File: file.Path, Stage: StageEval, Status: StatusCached})
			return res
		}
	}

	res.Err = runPipeline(ctx, res, ev, reporter, timer, opts)
	if res.Err != nil {
		var d diagnoser
		if errors.As(res.Err, &d) {
			d.Diagnostic().Emit(reporter)
		}
	}

	if opts.Cache != nil && !errors.Is(res.Err, context.Canceled) && !errors.Is(res.Err, context.DeadlineExceeded) {
		if err := opts.Cache.store(key, res); err != nil {
			span.Fail(err)
		}
	}
	return res
}

func runPipeline(ctx context.Context, res *Result, ev *vm.Evaluator, reporter diag.Reporter, timer *observ.Timer, opts Options) error {
	path := res.File.Path

	err := phase(ctx, timer, opts.Progress, path, StageTokenize, func(context.Context) error {
		lx := lexer.New(res.File, lexer.Options{Reporter: reporter, MaxTokenLength: opts.MaxTokenLength})
		for tok, err := range lx.All() {
			if err != nil {
				return err
			}
			res.Tokens = append(res.Tokens, tok)
		}
		return nil
	})
	if err != nil || opts.Until == StageTokenize {
		return err
	}

	err = phase(ctx, timer, opts.Progress, path, StageParse, func(ctx context.Context) error {
		expr, err := parser.Parse(res.Tokens, parser.Options{Reporter: reporter, MaxDepth: opts.MaxDepth})
		res.Expr = expr
		if t := trace.FromContext(ctx); err == nil && t.Level().ShouldEmit(trace.ScopePass) {
			trace.Point(t, trace.ScopePass, "tree", trace.ParentID(ctx),
				fmt.Sprintf("%d nodes, depth %d", ast.Count(expr), ast.Depth(expr)))
		}
		return err
	})
	if err != nil || opts.Until == StageParse {
		return err
	}

	return phase(ctx, timer, opts.Progress, path, StageEval, func(ctx context.Context) error {
		v, err := ev.EvalContext(ctx, res.Expr)
		res.Value = v
		return err
	})
}

// phase runs fn as one timed, traced stage.
func phase(ctx context.Context, timer *observ.Timer, sink ProgressSink, path string, stage Stage, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	span, ctx := trace.StartSpan(ctx, trace.ScopePass, string(stage))
	emit(sink, Event{File: path, Stage: stage, Status: StatusWorking})

	err := timer.Measure(string(stage), func() error { return fn(ctx) })
	phases := timer.Phases()
	elapsed := phases[len(phases)-1].Dur
	if err != nil {
		span.Fail(err)
		span.End("error")
		emit(sink, Event{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: elapsed})
		return err
	}
	span.End("ok")
	if stage == StageEval {
		emit(sink, Event{File: path, Stage: stage, Status: StatusDone, Elapsed: elapsed})
	}
	return nil
}
