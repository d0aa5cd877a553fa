package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"parens/internal/diag"
	"parens/internal/source"
	"parens/internal/trace"
)

// SourceExt is the extension RunDir picks up.
const SourceExt = ".lisp"

// DirResult is the outcome for one file of a directory run.
type DirResult struct {
	Path string
	*Result
}

// ListSources возвращает отсортированный список всех *.lisp файлов в директории
func ListSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// RunDir evaluates every *.lisp file under dir with at most opts.Jobs
// workers. Results come back in path order regardless of completion order.
// The error is non-nil only when listing fails or ctx is cancelled; per-file
// failures live in each Result.
func RunDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []DirResult, error) {
	files, err := ListSources(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// Загружаем все файлы заранее: FileSet не потокобезопасен на запись
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make([]error, len(files))
	for i, path := range files {
		fileIDs[i], loadErrors[i] = fileSet.Load(path)
		emit(opts.Progress, Event{File: path, Stage: StageTokenize, Status: StatusQueued})
	}

	dirSpan, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "run-dir")
	dirSpan.WithExtra("files", strconv.Itoa(len(files)))
	defer dirSpan.End(dir)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]DirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if loadErr := loadErrors[i]; loadErr != nil {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: source.NoFile}, "failed to load file: "+loadErr.Error()))
				results[i] = DirResult{Path: path, Result: &Result{FileSet: fileSet, Bag: bag, Err: loadErr}}
				emit(opts.Progress, Event{File: path, Stage: StageTokenize, Status: StatusError, Err: loadErr})
				return nil
			}
			fileSpan, fctx := trace.StartSpan(gctx, trace.ScopeFile, "file:"+path)
			res := Run(fctx, fileSet, fileIDs[i], opts)
			results[i] = DirResult{Path: path, Result: res}
			if res.Err != nil {
				fileSpan.End("error")
			} else {
				fileSpan.End("ok")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, nil, err
	}
	return fileSet, results, nil
}
