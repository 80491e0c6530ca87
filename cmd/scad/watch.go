package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"scad/internal/driver"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <file.scad|directory>",
	Short: "Re-check scad sources whenever they change",
	Long: `Watch checks the target, then re-checks it on every file change.
Changes are debounced so an editor save burst triggers a single run.
Results render in the pretty format; the check cache keeps unchanged
files fast across runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Int("max-diagnostics", 0, "maximum diagnostics per file (0=unlimited, overrides manifest)")
	watchCmd.Flags().Int("jobs", 0, "max parallel workers for directory checks (0=auto)")
	watchCmd.Flags().Bool("no-warnings", false, "drop warnings from the results")
	watchCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	watchCmd.Flags().Bool("suggest", false, "attach recovery suggestions to diagnostics")
	watchCmd.Flags().Bool("timings", false, "show per-phase timings after every run")
	watchCmd.Flags().Bool("no-cache", false, "disable the incremental check cache")
	watchCmd.Flags().Duration("debounce", 200*time.Millisecond, "quiet period before a change triggers a run")
}

func runWatch(cmd *cobra.Command, args []string) error {
	target := args[0]

	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	if debounce <= 0 {
		return fmt.Errorf("debounce must be positive")
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	isDir := st.IsDir()

	man, err := loadManifest(cmd, target)
	if err != nil {
		return err
	}
	opts, err := buildCheckOptions(cmd, man)
	if err != nil {
		return err
	}
	opts.Cache, err = openCheckCache(cmd)
	if err != nil {
		return err
	}

	quiet, err := quietFlag(cmd)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if isDir {
		if err := watchTree(watcher, target); err != nil {
			return err
		}
	} else {
		// Watching the parent survives editors that replace the file on
		// save instead of writing it in place.
		if err := watcher.Add(filepath.Dir(target)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", target, err)
		}
	}

	runOnce := func() {
		results, checkErr := watchCheck(cmd.Context(), target, isDir, opts)
		if checkErr != nil {
			fmt.Fprintf(os.Stderr, "check failed: %v\n", checkErr)
			return
		}
		if renderErr := renderResults(cmd, "pretty", results); renderErr != nil {
			fmt.Fprintf(os.Stderr, "render failed: %v\n", renderErr)
		}
	}

	if !quiet {
		fmt.Fprintf(os.Stdout, "watching %s (debounce %s)\n", target, debounce)
	}
	runOnce()

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false
	ctx := cmd.Context()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watch events channel closed")
			}
			if isDir && ev.Op.Has(fsnotify.Create) {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					// New directories need their own watches.
					_ = watchTree(watcher, ev.Name)
				}
			}
			if !relevantEvent(ev, target, isDir) {
				continue
			}
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			pending = true
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watch errors channel closed")
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", watchErr)
		case <-timer.C:
			pending = false
			if !quiet {
				fmt.Fprintf(os.Stdout, "\n-- %s\n", time.Now().Format("15:04:05"))
			}
			runOnce()
		}
	}
}

func watchCheck(ctx context.Context, target string, isDir bool, opts driver.Options) ([]*driver.FileResult, error) {
	if isDir {
		res, err := driver.CheckDir(ctx, target, opts)
		if err != nil {
			return nil, err
		}
		return res.Files, nil
	}
	fr, err := driver.CheckFile(ctx, target, opts)
	if err != nil {
		return nil, err
	}
	return []*driver.FileResult{fr}, nil
}

// watchTree registers dir and every subdirectory; fsnotify watches are
// not recursive.
func watchTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			return fs.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		return nil
	})
}

// relevantEvent filters noise: chmod-only events never trigger a run,
// and only changes to the watched file or to *.scad files count.
func relevantEvent(ev fsnotify.Event, target string, isDir bool) bool {
	if ev.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	if !isDir {
		return filepath.Clean(ev.Name) == filepath.Clean(target)
	}
	return strings.HasSuffix(ev.Name, ".scad")
}
