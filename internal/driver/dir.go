package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"scad/internal/diag"
	"scad/internal/project"
	"scad/internal/source"
)

// DirResult is the outcome of checking a directory tree. Files follows
// the sorted path order regardless of which worker finished first, and
// every file shares the one FileSet.
type DirResult struct {
	Dir     string
	FileSet *source.FileSet
	Files   []*FileResult
}

// ErrorCount sums ERROR-and-above diagnostics across all files.
func (r *DirResult) ErrorCount() int {
	n := 0
	for _, f := range r.Files {
		n += f.ErrorCount()
	}
	return n
}

// WarningCount sums WARNING diagnostics across all files.
func (r *DirResult) WarningCount() int {
	n := 0
	for _, f := range r.Files {
		n += f.WarningCount()
	}
	return n
}

// CachedCount counts files served from the cache.
func (r *DirResult) CachedCount() int {
	n := 0
	for _, f := range r.Files {
		if f.Cached {
			n++
		}
	}
	return n
}

// ListFiles returns the sorted *.scad files under dir that pass the
// include patterns. CheckDir checks exactly this list; the progress UI
// uses it to seed its rows.
func ListFiles(dir string, include []string) ([]string, error) {
	filter := project.CheckConfig{Include: include}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".scad") {
			return nil
		}
		rel, rerr := filepath.Rel(dir, path)
		if rerr != nil {
			rel = path
		}
		if !filter.IncludeMatch(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every matching file under dir, fanning the per-file
// sessions out across an errgroup. The FileSet is fully loaded before
// the fan-out and read-only afterward, so sessions share nothing
// mutable. Unreadable files become results carrying an INT900
// diagnostic instead of failing the whole run.
func CheckDir(ctx context.Context, dir string, opts Options) (*DirResult, error) {
	files, err := ListFiles(dir, opts.Include)
	if err != nil {
		return nil, err
	}

	res := &DirResult{Dir: dir, FileSet: source.NewFileSetWithBase(dir)}
	if len(files) == 0 {
		return res, nil
	}

	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		id, err := res.FileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Per-index slots; no worker writes another worker's index, so the
	// slice needs no mutex.
	results := make([]*FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if opts.Progress != nil {
				opts.Progress(ProgressEvent{Path: path, Index: i, Total: len(files), Status: ProgressStart})
			}

			var fr *FileResult
			if loadErr, failed := loadErrors[path]; failed {
				fr = loadFailure(path, loadErr)
			} else {
				fr = checkLoaded(res.FileSet, fileIDs[path], path, opts)
			}
			results[i] = fr

			if opts.Progress != nil {
				opts.Progress(ProgressEvent{
					Path:   path,
					Index:  i,
					Total:  len(files),
					Status: ProgressDone,
					Errors: fr.ErrorCount(),
					Cached: fr.Cached,
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return res, err
	}

	res.Files = results
	return res, nil
}

// loadFailure wraps an unreadable file as a result with one ERROR-level
// diagnostic, so directory runs report it alongside syntax issues.
func loadFailure(path string, loadErr error) *FileResult {
	e := diag.New(diag.SevError, diag.InternalError, "failed to load file: "+loadErr.Error(), nil)
	return &FileResult{Path: path, Errors: []*diag.Error{e}}
}
