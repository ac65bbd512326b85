package driver

import (
	"context"
	"time"

	"seqdiag/internal/diag"
	"seqdiag/internal/parser"
	"seqdiag/internal/source"
	"seqdiag/internal/trace"
)

// ParseResult holds one parsed diagram. Diagram is nil when parsing failed;
// the failure is then in Bag.
type ParseResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Bag     *diag.Bag
	Diagram *parser.ParsedDiagram
	Elapsed time.Duration
}

// ParseFile loads path and parses it. Only I/O problems are returned as an
// error.
func ParseFile(ctx context.Context, path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	id, err := loadFile(ctx, fs, path)
	if err != nil {
		return nil, err
	}
	return parseLoaded(ctx, fs, id, maxDiagnostics), nil
}

// ParseSource parses in-memory content, e.g. stdin.
func ParseSource(ctx context.Context, name string, content []byte, maxDiagnostics int) *ParseResult {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, content)
	return parseLoaded(ctx, fs, id, maxDiagnostics)
}

func loadFile(ctx context.Context, fs *source.FileSet, path string) (source.FileID, error) {
	_, span := trace.BeginCtx(ctx, trace.ScopePass, "load")
	id, err := fs.Load(path)
	if err != nil {
		span.End(err.Error())
		return 0, err
	}
	span.WithExtra("path", path).End("")
	return id, nil
}

func parseLoaded(ctx context.Context, fs *source.FileSet, id source.FileID, maxDiagnostics int) *ParseResult {
	_, span := trace.BeginCtx(ctx, trace.ScopePass, "parse")
	start := time.Now()

	file := fs.Get(id)
	bag := diag.NewBag(maxDiagnostics)
	parsed, failure := parser.ParseDiagram(string(file.Content))
	res := &ParseResult{FileSet: fs, FileID: id, Bag: bag, Elapsed: time.Since(start)}
	if failure != nil {
		parser.Report(failure, id, diag.BagReporter{Bag: bag})
		span.End("failed")
		return res
	}
	res.Diagram = parsed
	span.WithExtra("messages", itoa(len(parsed.Messages))).End("")
	return res
}
