package combi

import (
	"fmt"
	"regexp"
)

// Literal matches s exactly.
func Literal(s string) Parser[string] {
	return func(ctx Context) Result[string] {
		end := ctx.Index + len(s)
		if end > len(ctx.Input) {
			return Err[string](NewError(ctx, fmt.Sprintf("failure to match %q, too short", s), nil))
		}
		if ctx.Input[ctx.Index:end] == s {
			return Ok(ctx.WithIndex(end), s)
		}
		return Err[string](NewError(ctx, fmt.Sprintf("failure to match %q", s), nil))
	}
}

// Pattern matches the regular expression expr anchored at the cursor. The
// expression is compiled once; an invalid expression panics at construction.
func Pattern(expr, label string) Parser[string] {
	return Regexp(regexp.MustCompile(`\A(?:`+expr+`)`), label)
}

// Regexp matches re at the cursor. Matches that start later in the input are
// rejected, so re does not need to be anchored, but anchored expressions avoid
// scanning the rest of the input.
func Regexp(re *regexp.Regexp, label string) Parser[string] {
	return func(ctx Context) Result[string] {
		loc := re.FindStringIndex(ctx.Rest())
		if loc == nil || loc[0] != 0 {
			return Err[string](NewError(ctx, "failure to match "+label, nil))
		}
		return Ok(ctx.Advance(loc[1]), ctx.Rest()[:loc[1]])
	}
}

// EndOfInput succeeds only when nothing is left to consume.
func EndOfInput() Parser[Unit] {
	return func(ctx Context) Result[Unit] {
		if ctx.AtEnd() {
			return Ok(ctx, Unit{})
		}
		return Err[Unit](NewError(ctx, "failure to match end of input", nil))
	}
}

// Run applies p to the start of input.
func Run[T any](p Parser[T], input string) Result[T] {
	return p(NewContext(input))
}
