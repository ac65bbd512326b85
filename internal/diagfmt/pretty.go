package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"seqdiag/internal/diag"
	"seqdiag/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид, в порядке
// bag.Items() (ожидается bag.Sort() заранее):
//
//	<path>:<line>:<col>: ERROR SYN2001: <message>
//	   2 | B -> C D
//	     |        ^
//	  note: <path>:<line>:<col>: <message>
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if err := prettyOne(w, &d, fs, opts, p); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) error {
	var sb strings.Builder
	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(&sb, "%s:%d:%d: %s %s: %s\n",
		displayPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col,
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message)

	writeSnippet(&sb, fs, d.Primary, opts.Context, p)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(&sb, "  %s %s:%d:%d: %s\n",
				p.note.Sprint("note:"),
				displayPath(fs, n.Span.File, opts.PathMode), ns.Line, ns.Col, n.Msg)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// writeSnippet prints the source line of span with a caret underline. Tabs
// become single spaces so the caret lines up.
func writeSnippet(sb *strings.Builder, fs *source.FileSet, span source.Span, context int, p palette) {
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(span)

	first := uint32(1)
	if context > 0 && start.Line > uint32(context) { // #nosec G115 -- context > 0
		first = start.Line - uint32(context) // #nosec G115
	}
	width := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(sb, "%s %s\n",
			p.gutter.Sprintf("%*d |", width, ln),
			strings.ReplaceAll(f.Line(ln), "\t", " "))
	}

	line := strings.ReplaceAll(f.Line(start.Line), "\t", " ")
	col := min(max(int(start.Col)-1, 0), len(line))
	pad := runewidth.StringWidth(line[:col])

	underline := 1
	if end.Line == start.Line && end.Col > start.Col {
		stop := min(int(end.Col)-1, len(line))
		underline = max(1, runewidth.StringWidth(line[col:stop]))
	}
	fmt.Fprintf(sb, "%s %s%s\n",
		p.gutter.Sprintf("%*s |", width, ""),
		strings.Repeat(" ", pad),
		p.caret.Sprint("^"+strings.Repeat("~", underline-1)))
}
