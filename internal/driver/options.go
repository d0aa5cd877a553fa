package driver

import (
	"parens/internal/lexer"
	"parens/internal/parser"
	"parens/internal/vm"
)

// DefaultMaxDiagnostics caps the Bag of a single run.
const DefaultMaxDiagnostics = 100

type Options struct {
	MaxDiagnostics int
	MaxTokenLength int
	Builtins       []*vm.Builtin

	// MaxDepth bounds both parser and evaluator nesting (0 — без ограничения).
	MaxDepth int

	// Cache, when set, short-circuits runs whose source and limits were seen before.
	Cache    *DiskCache
	Progress ProgressSink

	// Jobs limits RunDir parallelism; <= 0 means GOMAXPROCS.
	Jobs int

	// Until stops the pipeline after the named stage; empty runs every stage.
	// Partial runs bypass the cache.
	Until Stage
}

func DefaultOptions() Options {
	return Options{
		MaxDiagnostics: DefaultMaxDiagnostics,
		MaxDepth:       parser.DefaultMaxDepth,
		MaxTokenLength: lexer.DefaultMaxTokenLength,
	}
}
