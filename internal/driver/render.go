package driver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"seqdiag/internal/diag"
	"seqdiag/internal/render"
	"seqdiag/internal/source"
	"seqdiag/internal/trace"
)

// Ext is the extension RenderDir looks for.
const Ext = ".seq"

// RenderSVG writes the SVG of a laid out result to w.
func RenderSVG(ctx context.Context, res *LayoutResult, w io.Writer, opts Options) error {
	if res == nil || res.Layout == nil {
		return fmt.Errorf("nothing to render")
	}
	_, span := trace.BeginCtx(ctx, trace.ScopePass, "render")
	start := time.Now()
	err := render.SVG(w, res.Layout, opts.style())
	opts.Timer.Add(string(StageRender), time.Since(start))
	if err != nil {
		span.End(err.Error())
		return err
	}
	span.End("")
	return nil
}

// RenderDirResult is the outcome for one file of RenderDir.
type RenderDirResult struct {
	Path     string // путь к исходнику
	OutPath  string // "" если SVG не записан
	FileID   source.FileID
	Bag      *diag.Bag
	CacheHit bool
}

// listSeqFiles возвращает отсортированный список всех *.seq файлов.
func listSeqFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ListFiles returns the diagram sources under dir, sorted.
func ListFiles(dir string) ([]string, error) { return listSeqFiles(dir) }

// OutputPath maps a source under dir to its SVG path. With an empty outDir
// the SVG goes next to the source.
func OutputPath(dir, outDir, path string) string {
	svg := strings.TrimSuffix(path, Ext) + ".svg"
	if outDir == "" {
		return svg
	}
	rel, err := filepath.Rel(dir, svg)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(svg)
	}
	return filepath.Join(outDir, rel)
}

// RenderDir renders every *.seq file under dir to SVG in parallel. Files are
// loaded into one FileSet first; workers then only read it. Problems in one
// file are reported in its Bag and do not stop the others. The returned
// error is for cancellation and directory walk failures only.
func RenderDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []RenderDirResult, error) {
	ctx, root := trace.BeginCtx(ctx, trace.ScopeDriver, "render-dir")
	defer root.End("")

	files, err := listSeqFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// загрузка последовательно: FileSet не потокобезопасен на запись
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error)
	loadIdx := opts.Timer.Begin(string(StageLoad))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}
	opts.Timer.End(loadIdx, fmt.Sprintf("%d files", len(files)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]RenderDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = renderOne(gctx, fileSet, dir, path, fileIDs[path], loadErrors[path], opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}

	root.WithExtra("files", itoa(len(files)))
	emit(opts.Progress, Event{Stage: StageWrite, Status: StatusDone})
	return fileSet, results, nil
}

func renderOne(ctx context.Context, fileSet *source.FileSet, dir, path string, id source.FileID, loadErr error, opts Options) RenderDirResult {
	ctx, span := trace.BeginCtx(ctx, trace.ScopeFile, "file:"+path)
	start := time.Now()
	res := RenderDirResult{Path: path, FileID: id, Bag: diag.NewBag(opts.MaxDiagnostics)}

	fail := func(stage Stage, err error) RenderDirResult {
		emit(opts.Progress, Event{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		span.End(string(stage) + " failed")
		return res
	}

	if loadErr != nil {
		res.FileID = 0
		// для I/O ошибок нет файла и позиции
		res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load "+path+": "+loadErr.Error()))
		return fail(StageLoad, loadErr)
	}

	emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})
	pr := parseLoaded(ctx, fileSet, id, opts.MaxDiagnostics)
	opts.Timer.Add(string(StageParse), pr.Elapsed)
	res.Bag = pr.Bag
	if pr.Diagram == nil {
		return fail(StageParse, fmt.Errorf("%s: parse failed", path))
	}

	emit(opts.Progress, Event{File: path, Stage: StageLayout, Status: StatusWorking})
	lr, err := layoutParsed(ctx, pr, opts)
	if err != nil {
		res.Bag.Add(diag.New(diag.SevWarning, diag.IOWriteFileError, source.Span{File: id}, err.Error()))
	}
	res.CacheHit = lr.CacheHit
	if lr.CacheHit {
		emit(opts.Progress, Event{File: path, Stage: StageLayout, Status: StatusCached})
	}

	emit(opts.Progress, Event{File: path, Stage: StageRender, Status: StatusWorking})
	var buf bytes.Buffer
	if err := RenderSVG(ctx, lr, &buf, opts); err != nil {
		res.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{File: id}, "render: "+err.Error()))
		return fail(StageRender, err)
	}

	out := OutputPath(dir, opts.OutDir, path)
	emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusWorking})
	if err := writeFileAtomic(out, buf.Bytes()); err != nil {
		res.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{File: id}, "failed to write "+out+": "+err.Error()))
		return fail(StageWrite, err)
	}
	res.OutPath = out

	emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusDone, Elapsed: time.Since(start)})
	span.WithExtra("out", out).End("")
	return res
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".seqdiag-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_ = f.Chmod(0o644)
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// WriteSVGFile renders res into path atomically.
func WriteSVGFile(ctx context.Context, res *LayoutResult, path string, opts Options) error {
	var buf bytes.Buffer
	if err := RenderSVG(ctx, res, &buf, opts); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}
