package combi

import (
	"strings"
)

// Result is the outcome of running a parser: a Success[T], or a Problem
// (*Error or *Failure) carried by Err. The value type is part of the method
// set, so a Result[string] is not a Result[int].
type Result[T any] interface {
	// Position is the next context for a success and the location of the
	// mismatch for an error or failure.
	Position() Context
	unpack() (T, Context, Problem)
}

// Parser consumes input starting at a context. Parsers hold no state between
// calls: the same context always yields the same result.
type Parser[T any] func(ctx Context) Result[T]

// Unit is the value of parsers whose output is discarded.
type Unit struct{}

// Success carries a parsed value and the context following it.
type Success[T any] struct {
	Next  Context
	Value T
}

func (s Success[T]) Position() Context { return s.Next }

func (s Success[T]) unpack() (T, Context, Problem) { return s.Value, s.Next, nil }

// Ok builds a successful result.
func Ok[T any](next Context, value T) Result[T] {
	return Success[T]{Next: next, Value: value}
}

// Problem is implemented by *Error and *Failure. Err turns a Problem into a
// Result of any value type, so problems propagate across parsers unchanged.
type Problem interface {
	error
	Position() Context
	Message() string
	Fatal() bool
	Unwrap() error
	isProblem()
}

// problemResult carries a Problem as a Result[T].
type problemResult[T any] struct {
	problem Problem
}

func (r problemResult[T]) Position() Context { return r.problem.Position() }

func (r problemResult[T]) unpack() (value T, next Context, problem Problem) {
	return value, r.problem.Position(), r.problem
}

// Err returns p as a Result of value type T. A nil problem panics: a result
// without a value needs a cause.
func Err[T any](p Problem) Result[T] {
	if p == nil {
		panic("combi: Err with nil problem")
	}
	return problemResult[T]{problem: p}
}

// Error is a recoverable mismatch. Cause optionally points to an earlier
// error that explains it.
type Error struct {
	At          Context
	Description string
	Cause       *Error
}

// NewError builds a recoverable error.
func NewError(at Context, description string, cause *Error) *Error {
	return &Error{At: at, Description: description, Cause: cause}
}

func (e *Error) Position() Context { return e.At }
func (e *Error) Message() string   { return e.Description }
func (e *Error) Fatal() bool       { return false }
func (e *Error) Error() string     { return render(e) }
func (*Error) isProblem()          {}

func (e *Error) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// Failure is a terminal parse problem. Its cause may be an *Error or another
// *Failure.
type Failure struct {
	At          Context
	Description string
	Cause       Problem
}

// NewFailure builds a terminal failure.
func NewFailure(at Context, description string, cause Problem) *Failure {
	switch v := cause.(type) {
	case *Error:
		if v == nil {
			cause = nil
		}
	case *Failure:
		if v == nil {
			cause = nil
		}
	}
	return &Failure{At: at, Description: description, Cause: cause}
}

// Fail promotes a recoverable error into a failure at the same location.
// An empty message keeps the error's description.
func Fail(e *Error, message string) *Failure {
	if message == "" {
		message = e.Description
	}
	return NewFailure(e.At, message, e)
}

func (f *Failure) Position() Context { return f.At }
func (f *Failure) Message() string   { return f.Description }
func (f *Failure) Fatal() bool       { return true }
func (f *Failure) Error() string     { return render(f) }
func (*Failure) isProblem()          {}

func (f *Failure) Unwrap() error {
	if f.Cause == nil {
		return nil
	}
	return f.Cause
}

// Offset is the byte offset at which the failure was detected.
func (f *Failure) Offset() int { return f.At.Index }

// Wrap adds a description frame on top of p without changing its kind.
func Wrap(p Problem, description string) Problem {
	switch v := p.(type) {
	case *Error:
		return NewError(v.At, description, v)
	case *Failure:
		return NewFailure(v.At, description, v)
	}
	return p
}

// CauseOf returns the problem directly below p, or nil.
func CauseOf(p Problem) Problem {
	switch v := p.(type) {
	case *Error:
		if v.Cause != nil {
			return v.Cause
		}
	case *Failure:
		return v.Cause
	}
	return nil
}

// Chain lists p and all of its causes, oldest (deepest) first.
func Chain(p Problem) []Problem {
	var out []Problem
	for cur := p; cur != nil; cur = CauseOf(cur) {
		out = append(out, cur)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Unpack splits a result into value, next context and problem. The problem is
// nil for a success.
func Unpack[T any](r Result[T]) (value T, next Context, problem Problem) {
	return r.unpack()
}

// AsError reports whether r is a recoverable error.
func AsError[T any](r Result[T]) (*Error, bool) {
	_, _, p := r.unpack()
	e, ok := p.(*Error)
	return e, ok
}

// AsFailure reports whether r is a terminal failure.
func AsFailure[T any](r Result[T]) (*Failure, bool) {
	_, _, p := r.unpack()
	f, ok := p.(*Failure)
	return f, ok
}

// render prints the chain outermost first, Go error style.
func render(p Problem) string {
	var b strings.Builder
	for cur := p; cur != nil; cur = CauseOf(cur) {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(cur.Message())
	}
	return b.String()
}
