package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"scad/internal/driver"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.scad>",
	Short: "Apply recovery fixes to a scad source file",
	Long: `Fix runs the parser, applies the first applicable recovery per pass,
and re-parses until the file is clean or the pass budget runs out. The
fixed source goes to stdout unless --write or --diff says otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("write", false, "write the fixed source back to the file")
	fixCmd.Flags().Bool("diff", false, "show a line diff instead of the fixed source")
	fixCmd.Flags().Int("max-passes", driver.DefaultMaxPasses, "maximum fix passes before giving up")
	fixCmd.Flags().Int("max-diagnostics", 0, "maximum diagnostics per pass (0=unlimited, overrides manifest)")
}

func runFix(cmd *cobra.Command, args []string) error {
	path := args[0]

	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}
	showDiff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return fmt.Errorf("failed to get diff flag: %w", err)
	}
	if write && showDiff {
		return fmt.Errorf("write and diff flags cannot be used together")
	}

	maxPasses, err := cmd.Flags().GetInt("max-passes")
	if err != nil {
		return fmt.Errorf("failed to get max-passes flag: %w", err)
	}
	if maxPasses < 1 {
		return fmt.Errorf("max-passes must be at least 1")
	}

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if st.IsDir() {
		return fmt.Errorf("fix works on a single file, not a directory")
	}

	man, err := loadManifest(cmd, path)
	if err != nil {
		return err
	}
	limit := man.Config.Parser.MaxErrors
	if cmd.Flags().Changed("max-diagnostics") {
		limit, err = cmd.Flags().GetInt("max-diagnostics")
		if err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if limit < 0 {
		return fmt.Errorf("max-diagnostics must not be negative")
	}
	maxErrors, err := safecast.Conv[uint](limit)
	if err != nil {
		return err
	}

	quiet, err := quietFlag(cmd)
	if err != nil {
		return err
	}

	res, err := driver.FixFile(cmd.Context(), path, driver.FixOptions{
		MaxPasses: maxPasses,
		MaxErrors: maxErrors,
	})
	if err != nil && !errors.Is(err, driver.ErrNoFixes) {
		return fmt.Errorf("fix failed: %w", err)
	}

	// The result stays valid when no strategy applied; Source equals
	// Original then.
	switch {
	case showDiff:
		printLineDiff(os.Stdout, path, res.Original, res.Source)
	case write:
		if res.Source != res.Original {
			if err := os.WriteFile(path, []byte(res.Source), st.Mode().Perm()); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
	default:
		if _, err := io.WriteString(os.Stdout, res.Source); err != nil {
			return err
		}
	}

	if !quiet {
		reportFixes(os.Stderr, res)
	}
	return nil
}

// reportFixes narrates what the passes did. It goes to stderr so the
// fixed source on stdout stays pipeable.
func reportFixes(w io.Writer, res *driver.FixResult) {
	switch {
	case res.Passes == 0 && res.Clean:
		fmt.Fprintf(w, "%s: already clean\n", res.Path)
	case res.Passes == 0:
		fmt.Fprintf(w, "%s: no applicable fixes, %d diagnostic(s) remain\n", res.Path, len(res.Remaining))
	default:
		fmt.Fprintf(w, "%s: applied %d fix(es) in %d pass(es)\n", res.Path, len(res.Applied), res.Passes)
		for _, a := range res.Applied {
			fmt.Fprintf(w, "  %s\n", a)
		}
		if !res.Clean {
			fmt.Fprintf(w, "%s: %d diagnostic(s) remain\n", res.Path, len(res.Remaining))
		}
	}
}

// printLineDiff writes a minimal line diff: unchanged lines prefixed
// with two spaces, removals with "- ", additions with "+ ".
func printLineDiff(w io.Writer, path, before, after string) {
	fmt.Fprintf(w, "--- %s\n+++ %s (fixed)\n", path, path)
	for _, line := range diffLines(splitLines(before), splitLines(after)) {
		fmt.Fprintln(w, line)
	}
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// diffLines aligns the two line slices on their longest common
// subsequence and emits the edit script.
func diffLines(a, b []string) []string {
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			switch {
			case a[i] == b[j]:
				lcs[i][j] = lcs[i+1][j+1] + 1
			case lcs[i+1][j] >= lcs[i][j+1]:
				lcs[i][j] = lcs[i+1][j]
			default:
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var out []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, "  "+a[i])
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			out = append(out, "- "+a[i])
			i++
		default:
			out = append(out, "+ "+b[j])
			j++
		}
	}
	for ; i < len(a); i++ {
		out = append(out, "- "+a[i])
	}
	for ; j < len(b); j++ {
		out = append(out, "+ "+b[j])
	}
	return out
}
