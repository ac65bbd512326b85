package parser

import (
	"strings"
	"unicode"

	"fortio.org/safecast"

	"seqdiag/internal/combi"
	"seqdiag/internal/diag"
	"seqdiag/internal/source"
)

// Report turns a parse failure into one diagnostic. The primary span covers
// the offending token, up to the next whitespace. Frames of the cause chain
// that point elsewhere become notes.
func Report(f *combi.Failure, file source.FileID, r diag.Reporter) {
	if f == nil || r == nil {
		return
	}
	primary := tokenSpan(file, f.At)
	b := diag.ReportError(r, codeFor(f), primary, f.Error())
	for _, p := range combi.Chain(f) {
		at := tokenSpan(file, p.Position())
		if at.Start == primary.Start {
			continue
		}
		b.WithNote(at, p.Message())
	}
	b.Emit()
}

func codeFor(f *combi.Failure) diag.Code {
	for _, p := range combi.Chain(f) {
		if p.Message() == "expected "+expectEnd {
			return diag.SynTrailingInput
		}
	}
	return diag.SynExpected
}

// tokenSpan skips blanks at the cursor and covers the next word.
func tokenSpan(file source.FileID, at combi.Context) source.Span {
	rest := at.Rest()
	lead := len(rest) - len(strings.TrimLeft(rest, " \t"))
	n := strings.IndexFunc(rest[lead:], unicode.IsSpace)
	if n < 0 {
		n = len(rest) - lead
	}
	start, err := safecast.Conv[uint32](at.Index + lead)
	if err != nil {
		return source.Span{File: file}
	}
	end, err := safecast.Conv[uint32](at.Index + lead + n)
	if err != nil {
		end = start
	}
	return source.Span{File: file, Start: start, End: end}
}
