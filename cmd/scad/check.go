package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"scad/internal/diag"
	"scad/internal/diagfmt"
	"scad/internal/driver"
	"scad/internal/project"
	"scad/internal/recovery"
	"scad/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <path>...",
	Short: "Check scad source files or directories for problems",
	Long: `Check parses every target and reports its diagnostics. Directories are
scanned for *.scad files and checked in parallel; unchanged clean files
are served from the cache. The exit status is 1 when errors were found
and 2 when the command itself failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	checkCmd.Flags().Int("max-diagnostics", 0, "maximum diagnostics per file (0=unlimited, overrides manifest)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory checks (0=auto)")
	checkCmd.Flags().Bool("no-warnings", false, "drop warnings from the results")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	checkCmd.Flags().Bool("suggest", false, "attach recovery suggestions to diagnostics")
	checkCmd.Flags().Bool("timings", false, "show per-phase timings")
	checkCmd.Flags().Bool("progress", false, "show a live progress display for directory checks")
	checkCmd.Flags().Bool("no-cache", false, "disable the incremental check cache")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	showProgress, err := cmd.Flags().GetBool("progress")
	if err != nil {
		return fmt.Errorf("failed to get progress flag: %w", err)
	}

	man, err := loadManifest(cmd, args[0])
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

	if showProgress {
		if format != "pretty" {
			return fmt.Errorf("progress display requires the pretty format")
		}
		if len(args) != 1 {
			return fmt.Errorf("progress display supports a single directory")
		}
		st, statErr := os.Stat(args[0])
		if statErr != nil {
			return fmt.Errorf("failed to stat path: %w", statErr)
		}
		if !st.IsDir() {
			return fmt.Errorf("progress display supports a single directory")
		}
	}

	var results []*driver.FileResult
	for _, target := range args {
		st, statErr := os.Stat(target)
		if statErr != nil {
			return fmt.Errorf("failed to stat path: %w", statErr)
		}
		if st.IsDir() {
			var res *driver.DirResult
			if showProgress {
				res, err = runCheckDirWithUI(cmd.Context(), "checking "+target, target, opts)
			} else {
				res, err = driver.CheckDir(cmd.Context(), target, opts)
			}
			if err != nil {
				return fmt.Errorf("check failed: %w", err)
			}
			results = append(results, res.Files...)
		} else {
			var fr *driver.FileResult
			fr, err = driver.CheckFile(cmd.Context(), target, opts)
			if err != nil {
				return fmt.Errorf("check failed: %w", err)
			}
			results = append(results, fr)
		}
	}

	if err := renderResults(cmd, format, results); err != nil {
		return err
	}

	for _, r := range results {
		if r.ErrorCount() > 0 {
			// Diagnostics already went out; suppress cobra so the exit
			// status is the only remaining signal.
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return fmt.Errorf("")
		}
	}
	return nil
}

// buildCheckOptions resolves driver options from command flags over the
// manifest defaults. Flags win where both specify a value.
func buildCheckOptions(cmd *cobra.Command, man *project.Manifest) (driver.Options, error) {
	var opts driver.Options

	maxDiag, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	limit := man.Config.Parser.MaxErrors
	if cmd.Flags().Changed("max-diagnostics") {
		limit = maxDiag
	}
	if limit < 0 {
		return opts, fmt.Errorf("max-diagnostics must not be negative")
	}
	opts.MaxErrors, err = safecast.Conv[uint](limit)
	if err != nil {
		return opts, err
	}

	opts.Jobs, err = cmd.Flags().GetInt("jobs")
	if err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}

	opts.NoWarnings, err = cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return opts, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	opts.WarningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return opts, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if opts.NoWarnings && opts.WarningsAsErrors {
		return opts, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}

	opts.Suggest, err = cmd.Flags().GetBool("suggest")
	if err != nil {
		return opts, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	opts.Timings, err = cmd.Flags().GetBool("timings")
	if err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}

	opts.Recover = man.Config.Parser.Recover
	opts.Include = man.Config.Check.Include
	if opts.Recover || opts.Suggest {
		opts.Registry = recovery.NewRegistry()
	}

	logger, err := sessionLogger(cmd, man)
	if err != nil {
		return opts, err
	}
	opts.Logger = logger
	return opts, nil
}

// openCheckCache opens the shared result cache unless --no-cache asked
// to skip it. Cache trouble degrades to an uncached run.
func openCheckCache(cmd *cobra.Command) (*driver.Cache, error) {
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if noCache {
		return nil, nil
	}
	cache, err := driver.OpenCache("scad")
	if err != nil {
		if quiet, qErr := quietFlag(cmd); qErr == nil && !quiet {
			fmt.Fprintf(os.Stderr, "warning: check cache unavailable: %v\n", err)
		}
		return nil, nil
	}
	return cache, nil
}

func renderResults(cmd *cobra.Command, format string, results []*driver.FileResult) error {
	quiet, err := quietFlag(cmd)
	if err != nil {
		return err
	}

	switch format {
	case "pretty":
		useColor, colorErr := colorEnabled(cmd, os.Stdout)
		if colorErr != nil {
			return colorErr
		}
		popts := diagfmt.PrettyOptions{Color: useColor}
		printed := false
		for _, r := range results {
			if len(r.Errors) == 0 {
				continue
			}
			if printed {
				if _, err := fmt.Fprintln(os.Stdout); err != nil {
					return err
				}
			}
			if err := diagfmt.Pretty(os.Stdout, r.Path, r.Errors, popts); err != nil {
				return err
			}
			printed = true
		}
		showTimings, timErr := cmd.Flags().GetBool("timings")
		if timErr != nil {
			return fmt.Errorf("failed to get timings flag: %w", timErr)
		}
		if showTimings {
			for _, r := range results {
				printTimings(os.Stdout, r)
			}
		}
		if !quiet {
			printSummary(os.Stdout, results)
		}
	case "short":
		for _, r := range results {
			if err := diagfmt.Short(os.Stdout, r.Path, r.Errors); err != nil {
				return err
			}
		}
	case "json":
		out := make(map[string][]*diag.Error, len(results))
		for _, r := range results {
			errs := r.Errors
			if errs == nil {
				errs = []*diag.Error{}
			}
			out[r.Path] = errs
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to encode diagnostics: %w", err)
		}
	case "sarif":
		files := make([]diagfmt.FileErrors, 0, len(results))
		for _, r := range results {
			files = append(files, diagfmt.FileErrors{Path: r.Path, Errors: r.Errors})
		}
		meta := diagfmt.SarifRunMeta{
			ToolName:       "scad",
			ToolVersion:    version.Number,
			InvocationArgs: os.Args,
		}
		if err := diagfmt.Sarif(os.Stdout, files, meta); err != nil {
			return fmt.Errorf("failed to encode SARIF: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}

func printTimings(w io.Writer, r *driver.FileResult) {
	if len(r.Timing.Phases) == 0 {
		return
	}
	fmt.Fprintf(w, "timings for %s:\n", r.Path)
	for _, p := range r.Timing.Phases {
		fmt.Fprintf(w, "  %-12s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			fmt.Fprintf(w, "  // %s", p.Note)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "  %-12s %7.2f ms\n", "total", r.Timing.TotalMS)
}

func printSummary(w io.Writer, results []*driver.FileResult) {
	var errs, warns, cached int
	for _, r := range results {
		errs += r.ErrorCount()
		warns += r.WarningCount()
		if r.Cached {
			cached++
		}
	}
	line := fmt.Sprintf("checked %d file(s): %d error(s), %d warning(s)", len(results), errs, warns)
	if cached > 0 {
		line += fmt.Sprintf(", %d cached", cached)
	}
	fmt.Fprintln(w, line)
}
