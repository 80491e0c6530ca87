package driver

import (
	"context"
	"fmt"

	"scad/internal/ast"
	"scad/internal/astbuild"
	"scad/internal/diag"
	"scad/internal/grammar"
	"scad/internal/observ"
	"scad/internal/recovery"
	"scad/internal/source"
)

// Options configures a check run. The zero value checks with parser
// defaults: unlimited diagnostics, no recovery, no cache, no timings.
type Options struct {
	// MaxErrors caps the diagnostics reported per file; 0 means
	// unlimited. Parsing continues past the cap, reports are dropped.
	MaxErrors uint
	// NoWarnings drops diagnostics below ERROR from the result.
	NoWarnings bool
	// WarningsAsErrors promotes WARNING diagnostics to ERROR before
	// NoWarnings filtering, so both flags together keep the promoted
	// ones.
	WarningsAsErrors bool
	// Recover asks the registry for a corrected source per file. The
	// candidate is carried on the result; the file is never rewritten.
	Recover bool
	// Suggest attaches the registry's hint to diagnostics that carry no
	// suggestion of their own.
	Suggest bool
	// Timings collects per-phase durations on the result.
	Timings bool
	// Jobs limits CheckDir parallelism; <=0 means GOMAXPROCS.
	Jobs int
	// Include filters CheckDir file names; empty admits every *.scad.
	// Bare patterns match the base name, patterns with a slash match the
	// path relative to the checked directory.
	Include []string
	// Cache short-circuits re-parsing of unchanged clean files. nil
	// disables caching.
	Cache *Cache
	// Logger receives every reported diagnostic. nil silences them.
	Logger diag.Logger
	// Registry supplies recovery strategies for Recover and Suggest.
	Registry *recovery.Registry
	// Progress receives per-file events from CheckDir. Called from
	// worker goroutines.
	Progress ProgressFunc
}

// Stats summarizes the AST built for one file.
type Stats struct {
	Nodes          int
	Statements     int
	Definitions    int
	Instantiations int
}

// FileResult is the outcome of checking one file. Errors is sorted for
// display; on a cache hit Stmts is nil and Stats comes from the cached
// payload.
type FileResult struct {
	Path      string
	FileID    source.FileID
	FileSet   *source.FileSet
	Errors    []*diag.Error
	Stmts     []ast.Stmt
	Stats     Stats
	Recovered string
	Cached    bool
	Timing    observ.Report
}

// Clean reports whether the check produced no diagnostics at all.
func (r *FileResult) Clean() bool { return len(r.Errors) == 0 }

// ErrorCount counts diagnostics at ERROR or above.
func (r *FileResult) ErrorCount() int {
	n := 0
	for _, e := range r.Errors {
		if e.Severity >= diag.SevError {
			n++
		}
	}
	return n
}

// WarningCount counts WARNING diagnostics.
func (r *FileResult) WarningCount() int {
	n := 0
	for _, e := range r.Errors {
		if e.Severity == diag.SevWarning {
			n++
		}
	}
	return n
}

// CheckFile loads and checks a single file with its own FileSet. The
// returned error covers infrastructure failures only (unreadable file,
// cancelled context); diagnostics live on the result.
func CheckFile(ctx context.Context, path string, opts Options) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return checkLoaded(fs, id, path, opts), nil
}

// checkLoaded runs the per-file pipeline on an already loaded file:
// parse, report through a session handler, build, stats, advisory
// recovery. Both CheckFile and CheckDir funnel through here.
func checkLoaded(fs *source.FileSet, id source.FileID, path string, opts Options) *FileResult {
	res := &FileResult{Path: path, FileID: id, FileSet: fs}
	file := fs.Get(id)
	if file == nil {
		return res
	}

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}
	begin := func(name string) int {
		if timer == nil {
			return -1
		}
		return timer.Begin(name)
	}
	end := func(idx int, note string) {
		if timer != nil {
			timer.End(idx, note)
		}
	}

	// A cache hit stands in for the parse only when the same bytes
	// previously produced zero diagnostics; dirty files are re-parsed so
	// their diagnostics can be rendered in full.
	if opts.Cache != nil {
		var payload CachePayload
		if ok, err := opts.Cache.Get(file.Hash, &payload); err == nil && ok && payload.Clean {
			res.Cached = true
			res.Stats = payload.Stats
			if timer != nil {
				res.Timing = timer.Report()
			}
			return res
		}
	}

	var rec diag.Recoverer
	if opts.Registry != nil {
		rec = opts.Registry
	}
	handler := diag.NewHandler(diag.HandlerOptions{
		MinSeverity:     diag.SevInfo,
		IncludeSource:   true,
		AttemptRecovery: opts.Recover && rec != nil,
		Dedup:           true,
	}, opts.Logger, rec)

	pt := begin("parse")
	tree, perrs := grammar.Parse(file, grammar.Options{MaxErrors: opts.MaxErrors})
	for _, e := range perrs {
		_ = handler.Report(e)
	}
	end(pt, fmt.Sprintf("diags=%d", len(perrs)))

	bt := begin("build")
	res.Stmts = astbuild.Build(tree)
	res.Stats = collectStats(res.Stmts)
	end(bt, fmt.Sprintf("stmts=%d", len(res.Stmts)))

	clean := len(handler.Errors()) == 0 && handler.Dropped() == 0

	if opts.Recover && rec != nil && !clean {
		rt := begin("recover")
		src := string(file.Content)
		for _, e := range handler.Errors() {
			if fixed := handler.AttemptRecovery(e, src); fixed != "" {
				res.Recovered = fixed
				break
			}
		}
		note := "none"
		if res.Recovered != "" {
			note = "candidate"
		}
		end(rt, note)
	}

	if opts.Suggest && rec != nil {
		for _, e := range handler.Errors() {
			if e.Context != nil && (e.Context.Suggestion != "" || len(e.Context.Suggestions) > 0) {
				continue
			}
			hints := handler.RecoverySuggestions(e)
			if len(hints) == 0 {
				continue
			}
			if e.Context == nil {
				e.Context = &diag.Context{}
			}
			e.Context.Suggestion = hints[0]
		}
	}

	errs := applyPolicy(append([]*diag.Error(nil), handler.Errors()...), opts)
	diag.SortErrors(errs)
	res.Errors = errs

	if opts.Cache != nil && clean {
		payload := CachePayload{
			Schema: cacheSchema,
			Path:   path,
			Stats:  res.Stats,
			Clean:  true,
		}
		if err := opts.Cache.Put(file.Hash, &payload); err != nil && opts.Logger != nil {
			opts.Logger.Log(diag.SevDebug, fmt.Sprintf("cache write for %s failed: %v", path, err))
		}
	}

	if timer != nil {
		res.Timing = timer.Report()
	}
	return res
}

// applyPolicy applies the severity flags to a session's collected
// diagnostics. Promotion runs before filtering, so WarningsAsErrors
// plus NoWarnings keeps the promoted ones.
func applyPolicy(errs []*diag.Error, opts Options) []*diag.Error {
	if opts.WarningsAsErrors {
		for _, e := range errs {
			if e.Severity == diag.SevWarning {
				e.Severity = diag.SevError
			}
		}
	}
	if opts.NoWarnings {
		kept := errs[:0]
		for _, e := range errs {
			if e.Severity >= diag.SevError {
				kept = append(kept, e)
			}
		}
		errs = kept
	}
	return errs
}

// collectStats walks the statements and tallies node counts.
func collectStats(stmts []ast.Stmt) Stats {
	var st Stats
	for _, s := range stmts {
		ast.Walk(s, func(n ast.Node) bool {
			st.Nodes++
			if _, ok := n.(ast.Stmt); ok {
				st.Statements++
			}
			switch n.(type) {
			case *ast.ModuleDefinition, *ast.FunctionDefinition:
				st.Definitions++
			case *ast.ModuleInstantiation:
				st.Instantiations++
			}
			return true
		})
	}
	return st
}
