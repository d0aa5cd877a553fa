package trace

import "context"

type (
	tracerKey struct{}
	parentKey struct{}
)

// FromContext returns the tracer installed by WithTracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithTracer installs t; nil installs Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, orNop(t))
}

func orNop(t Tracer) Tracer {
	if t == nil {
		return Nop
	}
	return t
}

// ParentID is the ID of the innermost span in ctx, 0 at the root.
func ParentID(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(parentKey{}).(uint64)
	return id
}

// WithSpan makes s the parent of spans started from the returned context.
// Inert spans leave ctx unchanged.
func WithSpan(ctx context.Context, s *Span) context.Context {
	if s.ID() == 0 {
		return ctx
	}
	return context.WithValue(ctx, parentKey{}, s.ID())
}
