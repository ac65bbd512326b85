package trace

import "context"

type ctxKey struct{}

// FromContext returns the tracer stored in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx. A nil t stores Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

type spanKey struct{}

// ParentFrom returns the id of the span stored by WithParent, or 0.
func ParentFrom(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}

// WithParent makes s the parent of spans begun from the returned context.
func WithParent(ctx context.Context, s *Span) context.Context {
	return context.WithValue(ctx, spanKey{}, s.ID())
}

// BeginCtx starts a span under the tracer and parent carried by ctx and
// returns a context whose parent is the new span.
func BeginCtx(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	s := Begin(FromContext(ctx), scope, name, ParentFrom(ctx))
	if s.ID() == 0 {
		return ctx, s
	}
	return WithParent(ctx, s), s
}
