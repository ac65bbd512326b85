package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"seqdiag/internal/layout"
	"seqdiag/internal/project"
	"seqdiag/internal/trace"
)

// LayoutResult is a parse followed by layout. Layout is nil when parsing
// failed.
type LayoutResult struct {
	*ParseResult
	Layout   *layout.Diagram
	CacheHit bool
}

// LayoutFile parses path and lays it out, consulting opts.Cache first.
func LayoutFile(ctx context.Context, path string, opts Options) (*LayoutResult, error) {
	pr, err := ParseFile(ctx, path, opts.MaxDiagnostics)
	if err != nil {
		return nil, err
	}
	opts.Timer.Add(string(StageParse), pr.Elapsed)
	return layoutParsed(ctx, pr, opts)
}

// LayoutSource is LayoutFile for in-memory content.
func LayoutSource(ctx context.Context, name string, content []byte, opts Options) (*LayoutResult, error) {
	pr := ParseSource(ctx, name, content, opts.MaxDiagnostics)
	opts.Timer.Add(string(StageParse), pr.Elapsed)
	return layoutParsed(ctx, pr, opts)
}

func layoutParsed(ctx context.Context, pr *ParseResult, opts Options) (*LayoutResult, error) {
	res := &LayoutResult{ParseResult: pr}
	if pr.Diagram == nil {
		return res, nil
	}

	st := opts.style()
	m, mname := opts.measurer()
	file := pr.FileSet.Get(pr.FileID)
	key := CacheKey(file.Hash, st.Fingerprint(), mname)

	if opts.Cache != nil {
		_, span := trace.BeginCtx(ctx, trace.ScopeFile, "cache")
		d, ok, err := opts.Cache.GetLayout(key)
		switch {
		case err != nil:
			// битая запись в кэше не мешает пересчитать
			span.End(err.Error())
		case ok:
			span.End("hit")
			res.Layout, res.CacheHit = d, true
			return res, nil
		default:
			span.End("miss")
		}
	}

	_, span := trace.BeginCtx(ctx, trace.ScopePass, "layout")
	start := time.Now()
	res.Layout = layout.Layout(pr.Diagram, m, st)
	opts.Timer.Add(string(StageLayout), time.Since(start))
	span.WithExtra("lifelines", itoa(len(res.Layout.Lifelines))).End("")

	if opts.Cache != nil {
		if err := opts.Cache.PutLayout(key, res.Layout); err != nil {
			return res, fmt.Errorf("cache write: %w", err)
		}
	}
	return res, nil
}

// CacheKey derives the layout cache key from the normalized source hash, the
// style fingerprint and the measurer.
func CacheKey(sourceHash [32]byte, styleFingerprint, measurer string) project.Digest {
	return project.Combine(project.Digest(sourceHash),
		project.DigestOf(styleFingerprint),
		project.DigestOf(measurer),
		project.DigestOf("schema:"+strconv.Itoa(int(diskCacheSchemaVersion))),
	)
}

func itoa(n int) string { return strconv.Itoa(n) }
