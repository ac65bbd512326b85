package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"seqdiag/internal/source"
)

type shortDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShortDiagnostics renders diagnostics one per line as
// `severity CODE path:line:col message`, sorted by location. Used by the CLI
// short format and by golden tests.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]shortDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = appendDiagnostic(rendered, &diags[i], fs, includeNotes)
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		return di.Column < dj.Column
	})

	var b strings.Builder
	for i, d := range rendered {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
	}
	return b.String()
}

func appendDiagnostic(out []shortDiagnostic, d *Diagnostic, fs *source.FileSet, includeNotes bool) []shortDiagnostic {
	path, start := locate(fs, d.Primary)
	out = append(out, shortDiagnostic{
		Severity: d.Severity.Label(),
		Code:     d.Code.ID(),
		Path:     path,
		Line:     start.Line,
		Column:   start.Col,
		Message:  sanitizeMessage(d.Message),
	})
	if !includeNotes {
		return out
	}
	for _, note := range d.Notes {
		npath, nstart := locate(fs, note.Span)
		out = append(out, shortDiagnostic{
			Severity: "note",
			Code:     d.Code.ID(),
			Path:     npath,
			Line:     nstart.Line,
			Column:   nstart.Col,
			Message:  sanitizeMessage(note.Msg),
		})
	}
	return out
}

func locate(fs *source.FileSet, span source.Span) (string, source.LineCol) {
	if int(span.File) >= fs.Len() {
		return "<unknown>", source.LineCol{Line: 1, Col: 1}
	}
	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	path := filepath.ToSlash(file.FormatPath("relative", fs.BaseDir()))
	return strings.TrimPrefix(path, "./"), start
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
