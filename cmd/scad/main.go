package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scad/internal/diag"
	"scad/internal/diagfmt"
	"scad/internal/logging"
	"scad/internal/project"
	"scad/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "scad",
	Short: "Toolkit for the scad solid modeling language",
	Long: `scad parses, checks and repairs scad source files. The parser keeps
going after errors, so every command works on broken files too.`,
}

func main() {
	rootCmd.Version = version.Number

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|always|never)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("log-level", "off", "session log on stderr (off|on|debug|info|warning|error|fatal); on uses the manifest level")
	rootCmd.PersistentFlags().String("config", "", "path to scad.toml, skipping discovery")

	if err := rootCmd.Execute(); err != nil {
		// Commands that already printed diagnostics return an empty error
		// so the process exits 1 without extra noise. Everything else is
		// a usage or infrastructure failure.
		if err.Error() == "" {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

// colorEnabled resolves the persistent color flag against a sink.
func colorEnabled(cmd *cobra.Command, f *os.File) (bool, error) {
	raw, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := diagfmt.ParseColorMode(raw)
	if err != nil {
		return false, err
	}
	return mode.Enabled(f), nil
}

func quietFlag(cmd *cobra.Command) (bool, error) {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return false, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	return quiet, nil
}

// loadManifest resolves project configuration for a target path. The
// --config flag wins; otherwise discovery walks up from the target.
func loadManifest(cmd *cobra.Command, target string) (*project.Manifest, error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	var man *project.Manifest
	if cfgPath != "" {
		man, err = project.Load(cfgPath)
	} else {
		start := target
		if st, statErr := os.Stat(target); statErr == nil && !st.IsDir() {
			start = filepath.Dir(target)
		}
		man, err = project.Discover(start)
	}
	if err != nil {
		return nil, err
	}

	if quiet, qErr := quietFlag(cmd); qErr == nil && !quiet {
		for _, key := range man.Unknown {
			fmt.Fprintf(os.Stderr, "warning: %s: unknown manifest key %q\n", man.Path, key)
		}
	}
	return man, nil
}

// sessionLogger builds the per-invocation logger from --log-level and
// the manifest [logging] section. "off" returns a no-op logger.
func sessionLogger(cmd *cobra.Command, man *project.Manifest) (*logging.Logger, error) {
	raw, err := cmd.Root().PersistentFlags().GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	switch raw {
	case "", "off":
		return logging.NewNop(), nil
	}

	name := raw
	if raw == "on" {
		name = man.Config.Logging.Level
		if name == "" {
			name = "info"
		}
	}
	level, err := diag.ParseSeverity(name)
	if err != nil {
		return nil, fmt.Errorf("bad log-level flag: %w", err)
	}
	return logging.New(logging.Options{
		Enabled:    true,
		Level:      level,
		Timestamps: man.Config.Logging.Timestamps,
		Tags:       true,
	})
}
