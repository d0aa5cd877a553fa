package trace

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 { return spanCounter.Add(1) }

var goroutinePrefix = []byte("goroutine ")

// goid parses the current goroutine number out of the runtime.Stack header
// ("goroutine 17 [running]:"). 0 when the header looks unfamiliar.
func goid() uint64 {
	var buf [64]byte
	head := buf[:runtime.Stack(buf[:], false)]
	rest, ok := bytes.CutPrefix(head, goroutinePrefix)
	if !ok {
		return 0
	}
	digits, _, ok := bytes.Cut(rest, []byte{' '})
	if !ok {
		return 0
	}
	id, err := strconv.ParseUint(string(digits), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// record stamps and emits a single event; every helper below funnels here.
func record(t Tracer, kind Kind, scope Scope, span, parent uint64, name, detail string, extra map[string]string) {
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     kind,
		Scope:    scope,
		SpanID:   span,
		ParentID: parent,
		GID:      goid(),
		Name:     name,
		Detail:   detail,
		Extra:    extra,
	})
}

func wants(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}

// Span is an open begin/end pair. The zero value and nil are inert, so
// callers never check whether tracing is on.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin opens a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !wants(t, scope) {
		return &Span{}
	}
	s := &Span{
		tracer:  t,
		id:      NextSpanID(),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	record(t, KindSpanBegin, scope, s.id, parent, name, "", nil)
	return s
}

// StartSpan opens a span on the tracer carried by ctx, parented to the span
// already in ctx, and returns a context in which the new span is the parent.
func StartSpan(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	s := Begin(FromContext(ctx), scope, name, ParentID(ctx))
	return s, WithSpan(ctx, s)
}

func (s *Span) live() bool { return s != nil && s.tracer != nil }

// End closes the span with a short status and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	dur := time.Since(s.started)
	record(s.tracer, KindSpanEnd, s.scope, s.id, s.parent, s.name, detail, s.extra)
	return dur
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = map[string]string{}
	}
	s.extra[key] = value
	return s
}

// Fail records err as a failure inside the span.
func (s *Span) Fail(err error) {
	if !s.live() {
		return
	}
	Fail(s.tracer, s.scope, s.name, s.id, err)
}

// ID returns the span ID, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name string, parent uint64, detail string) {
	if wants(t, scope) {
		record(t, KindPoint, scope, 0, parent, name, detail, nil)
	}
}

// Fail records a failure; it reaches the sink at every level except off.
func Fail(t Tracer, scope Scope, name string, parent uint64, err error) {
	if t != nil && t.Enabled() && err != nil {
		record(t, KindFailure, scope, 0, parent, name, err.Error(), nil)
	}
}
