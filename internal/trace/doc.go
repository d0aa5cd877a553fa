// Package trace records what the tokenize, parse and eval phases did and
// how long they took, so a slow input or a hung batch run can be located.
//
//	parens eval --trace=- --trace-level=phase prog.lisp
//	parens eval --trace=run.ndjson --trace-level=detail --trace-heartbeat=1s dir/
//
// Sinks: StreamTracer writes each event as it arrives, RingTracer keeps the
// newest N in memory (the REPL's :trace shows them), MultiTracer fans out to
// both. Heartbeat wraps any of them and periodically names the files whose
// spans are still open. Nop is what callers get when nothing is configured.
//
// Spans nest through the context:
//
//	span, ctx := trace.StartSpan(ctx, trace.ScopePass, "parse")
//	defer span.End("ok")
//
// Levels filter by scope: phase keeps driver and pass spans, detail adds
// per-file spans, debug adds one point per builtin call. Failures pass every
// level except off.
package trace
