// Package combi is a small backtracking parser-combinator engine.
//
// A Parser[T] is a pure function from an immutable Context (input text plus a
// byte offset) to a Result[T]. Results come in exactly three shapes:
//
//   - Success[T] carries the next Context and the parsed value.
//   - *Error is a recoverable mismatch. Alternation, optional and repetition
//     combinators use it to backtrack and try something else.
//   - *Failure is terminal. Once produced it unwinds to the caller unchanged;
//     no combinator turns a Failure back into an Error.
//
// Expect is the commitment boundary: it promotes an Error into a Failure when
// the grammar has ruled out every other interpretation. Label adds a
// description frame on top of an existing problem without changing its kind,
// which builds the cause chain reported to users.
//
// Any reports the furthest recoverable error when every branch fails, so
// diagnostics point at the most plausible location rather than at the first
// alternative that was tried.
//
// Problems cross value types through Err: Err[T](p) is the Result[T] that
// carries p, and Unpack, AsError and AsFailure take it apart again. The value
// type is part of Result's method set, so returning a Result[string] from a
// Parser[int] does not compile.
//
// Repetition stops after the first match that consumes nothing.
package combi
