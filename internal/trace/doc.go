// Package trace records what the seqdiag driver is doing.
//
// Tracing is enabled from the command line:
//
//	seqdiag render --trace=- --trace-level=phase diagrams/
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: ring buffer only, dumped when a command fails
//   - LevelPhase: driver operations and passes (load, parse, layout, render)
//   - LevelDetail: per-file events inside a directory render
//   - LevelDebug: everything
//
// # Scopes
//
//   - ScopeDriver: one CLI operation
//   - ScopePass: a pass over one diagram
//   - ScopeFile: per-file bookkeeping (cache hits, writes)
//
// The tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer span.End("")
package trace
