package combi

// Context is the parser position: the complete input and a byte offset into it.
// It is a value type; parsers rewind by holding on to an older Context.
type Context struct {
	Input string
	Index int
}

// NewContext returns a context positioned at the start of input.
func NewContext(input string) Context {
	return Context{Input: input}
}

// WithIndex returns a copy of ctx positioned at index.
func (ctx Context) WithIndex(index int) Context {
	return Context{Input: ctx.Input, Index: index}
}

// Advance returns a copy of ctx moved n bytes forward.
func (ctx Context) Advance(n int) Context {
	return ctx.WithIndex(ctx.Index + n)
}

// Rest returns the unconsumed part of the input.
func (ctx Context) Rest() string {
	if ctx.Index >= len(ctx.Input) {
		return ""
	}
	return ctx.Input[ctx.Index:]
}

// AtEnd reports whether the whole input has been consumed.
func (ctx Context) AtEnd() bool {
	return ctx.Index >= len(ctx.Input)
}
