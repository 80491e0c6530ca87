package main

import (
	"fmt"
	"os"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"scad/internal/diagfmt"
	"scad/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.scad>",
	Short: "Parse a scad source file and dump its syntax tree",
	Long: `Parse builds the syntax tree for one scad source file and prints it.
Parsing is resilient: diagnostics go to stderr and the tree still covers
whatever could be read.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json)")
	parseCmd.Flags().Bool("with-spans", false, "annotate nodes with byte spans")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "tree", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	withSpans, err := cmd.Flags().GetBool("with-spans")
	if err != nil {
		return fmt.Errorf("failed to get with-spans flag: %w", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if st.IsDir() {
		return fmt.Errorf("parse works on a single file; use check for directories")
	}

	man, err := loadManifest(cmd, path)
	if err != nil {
		return err
	}
	logger, err := sessionLogger(cmd, man)
	if err != nil {
		return err
	}
	maxErrors, err := safecast.Conv[uint](man.Config.Parser.MaxErrors)
	if err != nil {
		return err
	}

	result, err := driver.CheckFile(cmd.Context(), path, driver.Options{
		MaxErrors: maxErrors,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if len(result.Errors) > 0 {
		useColor, colorErr := colorEnabled(cmd, os.Stderr)
		if colorErr != nil {
			return colorErr
		}
		if err := diagfmt.Pretty(os.Stderr, path, result.Errors, diagfmt.PrettyOptions{Color: useColor}); err != nil {
			return err
		}
	}

	opts := diagfmt.ASTOptions{WithSpans: withSpans, FileSet: result.FileSet}
	switch format {
	case "tree":
		return diagfmt.ASTTree(os.Stdout, result.Stmts, opts)
	case "json":
		return diagfmt.ASTJSON(os.Stdout, result.Stmts, opts)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
