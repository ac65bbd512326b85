package combi

// Tuple2 holds the values of Pair.
type Tuple2[A, B any] struct {
	First  A
	Second B
}

// Tuple3 holds the values of Triple.
type Tuple3[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Sequence runs parsers in order and collects their values. The first
// non-success is returned verbatim.
func Sequence[T any](parsers ...Parser[T]) Parser[[]T] {
	return func(ctx Context) Result[[]T] {
		values := make([]T, 0, len(parsers))
		next := ctx
		for _, p := range parsers {
			v, n, problem := Unpack(p(next))
			if problem != nil {
				return Err[[]T](problem)
			}
			values = append(values, v)
			next = n
		}
		return Ok(next, values)
	}
}

// Pair runs a then b.
func Pair[A, B any](a Parser[A], b Parser[B]) Parser[Tuple2[A, B]] {
	return func(ctx Context) Result[Tuple2[A, B]] {
		va, next, problem := Unpack(a(ctx))
		if problem != nil {
			return Err[Tuple2[A, B]](problem)
		}
		vb, next, problem := Unpack(b(next))
		if problem != nil {
			return Err[Tuple2[A, B]](problem)
		}
		return Ok(next, Tuple2[A, B]{First: va, Second: vb})
	}
}

// Triple runs a, b and c in order.
func Triple[A, B, C any](a Parser[A], b Parser[B], c Parser[C]) Parser[Tuple3[A, B, C]] {
	return func(ctx Context) Result[Tuple3[A, B, C]] {
		va, next, problem := Unpack(a(ctx))
		if problem != nil {
			return Err[Tuple3[A, B, C]](problem)
		}
		vb, next, problem := Unpack(b(next))
		if problem != nil {
			return Err[Tuple3[A, B, C]](problem)
		}
		vc, next, problem := Unpack(c(next))
		if problem != nil {
			return Err[Tuple3[A, B, C]](problem)
		}
		return Ok(next, Tuple3[A, B, C]{First: va, Second: vb, Third: vc})
	}
}

// Any tries each parser from the same context. The first success or failure
// wins. When every branch errors, the error that got furthest into the input
// is returned (first one on ties). Any with no parsers always fails.
func Any[T any](parsers ...Parser[T]) Parser[T] {
	return func(ctx Context) Result[T] {
		if len(parsers) == 0 {
			return Err[T](NewFailure(ctx, "failure to pass at least one parser to any", nil))
		}
		var furthest *Error
		for _, p := range parsers {
			res := p(ctx)
			e, ok := AsError(res)
			if !ok {
				return res
			}
			if furthest == nil || furthest.At.Index < e.At.Index {
				furthest = e
			}
		}
		return Err[T](furthest)
	}
}

// Optional applies p zero or one times. A recoverable error yields nil at the
// original context.
func Optional[T any](p Parser[T]) Parser[*T] {
	return func(ctx Context) Result[*T] {
		v, next, problem := Unpack(p(ctx))
		switch problem.(type) {
		case nil:
			return Ok(next, &v)
		case *Error:
			return Ok[*T](ctx, nil)
		}
		return Err[*T](problem)
	}
}

// OptionalDefault is Optional with a substitute value.
func OptionalDefault[T any](p Parser[T], def T) Parser[T] {
	return func(ctx Context) Result[T] {
		res := p(ctx)
		if _, ok := AsError(res); ok {
			return Ok(ctx, def)
		}
		return res
	}
}

// ZeroOrMore applies p until it errors or stops consuming input. It only
// fails when p fails.
func ZeroOrMore[T any](p Parser[T]) Parser[[]T] {
	return func(ctx Context) Result[[]T] {
		values, next, problem := repeat(p, ctx)
		if problem != nil {
			return Err[[]T](problem)
		}
		return Ok(next, values)
	}
}

// OneOrMore is ZeroOrMore requiring at least one value.
func OneOrMore[T any](p Parser[T]) Parser[[]T] {
	return func(ctx Context) Result[[]T] {
		values, next, problem := repeat(p, ctx)
		if problem != nil {
			return Err[[]T](problem)
		}
		if len(values) == 0 {
			cause, _ := AsError(p(ctx))
			return Err[[]T](NewError(next, "failure to match at least one", cause))
		}
		return Ok(next, values)
	}
}

func repeat[T any](p Parser[T], ctx Context) ([]T, Context, *Failure) {
	values := make([]T, 0)
	next := ctx
	for {
		v, n, problem := Unpack(p(next))
		switch problem := problem.(type) {
		case nil:
			values = append(values, v)
			if n.Index == next.Index {
				// пустое совпадение: дальше цикл не продвинется
				return values, n, nil
			}
			next = n
		case *Failure:
			return nil, next, problem
		default:
			return values, next, nil
		}
	}
}

// Preceded runs skip then p, keeping p's value.
func Preceded[S, T any](skip Parser[S], p Parser[T]) Parser[T] {
	return func(ctx Context) Result[T] {
		_, next, problem := Unpack(skip(ctx))
		if problem != nil {
			return Err[T](problem)
		}
		return p(next)
	}
}

// Terminated runs p then skip, keeping p's value.
func Terminated[T, S any](p Parser[T], skip Parser[S]) Parser[T] {
	return func(ctx Context) Result[T] {
		v, next, problem := Unpack(p(ctx))
		if problem != nil {
			return Err[T](problem)
		}
		_, next, problem = Unpack(skip(next))
		if problem != nil {
			return Err[T](problem)
		}
		return Ok(next, v)
	}
}

// Delimited runs open, p and close, keeping p's value.
func Delimited[O, T, C any](open Parser[O], p Parser[T], closing Parser[C]) Parser[T] {
	return Preceded(open, Terminated(p, closing))
}

// Map transforms the value of a success.
func Map[A, B any](p Parser[A], fn func(A) B) Parser[B] {
	return func(ctx Context) Result[B] {
		v, next, problem := Unpack(p(ctx))
		if problem != nil {
			return Err[B](problem)
		}
		return Ok(next, fn(v))
	}
}

// Discard runs p and drops its value.
func Discard[T any](p Parser[T]) Parser[Unit] {
	return Map(p, func(T) Unit { return Unit{} })
}

// Filter keeps the entries of a list value for which keep returns true.
func Filter[T any](p Parser[[]T], keep func(T) bool) Parser[[]T] {
	return Map(p, func(values []T) []T {
		out := make([]T, 0, len(values))
		for _, v := range values {
			if keep(v) {
				out = append(out, v)
			}
		}
		return out
	})
}

// DropNulls removes nil entries from a list value.
func DropNulls[T any](p Parser[[]*T]) Parser[[]*T] {
	return Filter(p, func(v *T) bool { return v != nil })
}

// DropNullish removes zero-valued entries from a list value.
func DropNullish[T comparable](p Parser[[]T]) Parser[[]T] {
	var zero T
	return Filter(p, func(v T) bool { return v != zero })
}

// Label wraps any problem produced by p with description, keeping its kind.
func Label[T any](p Parser[T], description string) Parser[T] {
	return func(ctx Context) Result[T] {
		res := p(ctx)
		if _, _, problem := Unpack(res); problem != nil {
			return Err[T](Wrap(problem, description))
		}
		return res
	}
}

// Expect commits to p: a recoverable error becomes a failure described as
// "expected <what>". Failures pass through unchanged.
func Expect[T any](p Parser[T], what string) Parser[T] {
	return func(ctx Context) Result[T] {
		res := p(ctx)
		if e, ok := AsError(res); ok {
			return Err[T](Fail(e, "expected "+what))
		}
		return res
	}
}
