package driver

import (
	"context"
	"errors"
	"fmt"

	"scad/internal/diag"
	"scad/internal/grammar"
	"scad/internal/recovery"
	"scad/internal/source"
)

// ErrNoFixes is returned when the file has diagnostics but no strategy
// could produce a correction.
var ErrNoFixes = errors.New("no applicable fixes found")

// DefaultMaxPasses bounds the fix loop when FixOptions leaves it unset.
// One pass corrects one diagnostic, so this is also the most
// diagnostics a single run will repair.
const DefaultMaxPasses = 5

// FixOptions configures FixFile.
type FixOptions struct {
	// MaxPasses bounds the correct/re-parse loop; <=0 means
	// DefaultMaxPasses.
	MaxPasses int
	// MaxErrors caps per-pass diagnostics; 0 means unlimited.
	MaxErrors uint
	// Registry supplies the strategies; nil uses the default chain.
	Registry *recovery.Registry
}

// FixResult carries the final candidate source and the trail of applied
// corrections. Source equals Original when nothing applied.
type FixResult struct {
	Path      string
	Original  string
	Source    string
	Passes    int
	Applied   []string
	Remaining []*diag.Error
	Clean     bool
}

// FixFile iteratively repairs path: parse, hand the first fixable
// diagnostic to the registry, re-parse the candidate, repeat until the
// source is clean, nothing more applies, or MaxPasses is reached. The
// candidate is re-parsed after every pass so one correction cannot
// smuggle in new syntax errors unnoticed. The file on disk is never
// touched; callers decide what to do with Source.
func FixFile(ctx context.Context, path string, opts FixOptions) (*FixResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	registry := opts.Registry
	if registry == nil {
		registry = recovery.NewRegistry()
	}
	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	file := fs.Get(id)
	res := &FixResult{Path: path, Original: string(file.Content)}
	src := res.Original

	for {
		_, errs := grammar.Parse(file, grammar.Options{MaxErrors: opts.MaxErrors})
		diag.SortErrors(errs)
		res.Remaining = errs
		if len(errs) == 0 {
			res.Clean = true
			break
		}
		if res.Passes >= maxPasses {
			break
		}

		var fixed string
		var target *diag.Error
		for _, e := range errs {
			if out := registry.AttemptRecovery(e, src); out != "" {
				fixed = out
				target = e
				break
			}
		}
		if fixed == "" {
			break
		}

		res.Passes++
		res.Applied = append(res.Applied, target.Code.ID()+": "+target.Message)
		src = fixed
		file = fs.Get(fs.AddVirtual(path, []byte(fixed)))
	}

	res.Source = src
	if !res.Clean && len(res.Applied) == 0 {
		return res, ErrNoFixes
	}
	return res, nil
}
