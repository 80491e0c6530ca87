package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scad/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache [flags]",
	Short: "Inspect or clear the check result cache",
	Long: `Cache shows where cached check results live and how much space they
take. --clear removes every entry; checks rebuild them on demand.`,
	Args: cobra.NoArgs,
	RunE: runCache,
}

func init() {
	cacheCmd.Flags().Bool("clear", false, "remove every cached entry")
	cacheCmd.Flags().Bool("stats", false, "show cache location and size (default)")
}

func runCache(cmd *cobra.Command, _ []string) error {
	doClear, err := cmd.Flags().GetBool("clear")
	if err != nil {
		return fmt.Errorf("failed to get clear flag: %w", err)
	}
	showStats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return fmt.Errorf("failed to get stats flag: %w", err)
	}
	if doClear && showStats {
		return fmt.Errorf("clear and stats flags cannot be used together")
	}

	cache, err := driver.OpenCache("scad")
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}

	if doClear {
		if err := cache.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		quiet, qErr := quietFlag(cmd)
		if qErr != nil {
			return qErr
		}
		if !quiet {
			fmt.Fprintln(os.Stdout, "check cache cleared")
		}
		return nil
	}

	info, err := cache.Info()
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}
	fmt.Fprintf(os.Stdout, "directory: %s\n", info.Dir)
	fmt.Fprintf(os.Stdout, "entries:   %d\n", info.Entries)
	fmt.Fprintf(os.Stdout, "size:      %s\n", humanSize(info.Bytes))
	return nil
}

// humanSize renders a byte count with a binary unit.
func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
