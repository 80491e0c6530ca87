package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the walk-up discovery looks for.
const ManifestName = "scad.toml"

// Config mirrors scad.toml. Absent keys keep the defaults they are
// decoded over, so zero values here mean "whatever DefaultConfig says".
type Config struct {
	Package PackageConfig `toml:"package"`
	Parser  ParserConfig  `toml:"parser"`
	Check   CheckConfig   `toml:"check"`
	Logging LoggingConfig `toml:"logging"`
}

// PackageConfig is the [package] section.
type PackageConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// ParserConfig is the [parser] section.
type ParserConfig struct {
	// MaxErrors caps collected diagnostics per file; 0 means no cap.
	MaxErrors int `toml:"max_errors"`
	// Recover enables advisory recovery attempts during checks.
	Recover bool `toml:"recover"`
}

// CheckConfig is the [check] section.
type CheckConfig struct {
	// Include filters directory checks. Patterns use filepath.Match
	// syntax; a pattern with a '/' matches the slash-separated path
	// relative to the checked directory, a bare pattern matches the
	// file name.
	Include []string `toml:"include"`
}

// LoggingConfig is the [logging] section.
type LoggingConfig struct {
	Level      string `toml:"level"`
	Timestamps bool   `toml:"timestamps"`
}

// Manifest is a loaded scad.toml plus where it came from.
type Manifest struct {
	// Path is the manifest file, Root its directory. Both are empty for
	// the synthetic default manifest.
	Path   string
	Root   string
	Config Config

	// Unknown lists manifest keys the decoder had no field for, in
	// file order. They are reported, not fatal: a newer scad may know
	// keys this one does not.
	Unknown []string
}

// DefaultConfig returns the settings used when no manifest exists.
func DefaultConfig() Config {
	return Config{
		Check:   CheckConfig{Include: []string{"*.scad"}},
		Logging: LoggingConfig{Level: "info"},
	}
}

// DefaultManifest wraps DefaultConfig for callers that found no
// scad.toml.
func DefaultManifest() *Manifest {
	return &Manifest{Config: DefaultConfig()}
}

// Find walks up from startDir to locate scad.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses the manifest at path over the defaults.
func Load(path string) (*Manifest, error) {
	var cfg = DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	m := &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}
	for _, key := range meta.Undecoded() {
		m.Unknown = append(m.Unknown, key.String())
	}
	if err := validate(path, m.Config); err != nil {
		return nil, err
	}
	return m, nil
}

// Discover walks up from startDir and loads the nearest manifest,
// falling back to DefaultManifest when none exists.
func Discover(startDir string) (*Manifest, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return DefaultManifest(), nil
	}
	return Load(path)
}

func validate(path string, cfg Config) error {
	if cfg.Parser.MaxErrors < 0 {
		return fmt.Errorf("%s: [parser].max_errors must not be negative", path)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "", "debug", "info", "warning", "warn", "error", "fatal":
	default:
		return fmt.Errorf("%s: unknown [logging].level %q", path, cfg.Logging.Level)
	}
	for _, pattern := range cfg.Check.Include {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return fmt.Errorf("%s: bad [check].include pattern %q: %w", path, pattern, err)
		}
	}
	return nil
}

// IncludeMatch reports whether relPath (slash-separated, relative to
// the checked directory) passes the include patterns. An empty pattern
// list admits everything.
func (c CheckConfig) IncludeMatch(relPath string) bool {
	if len(c.Include) == 0 {
		return true
	}
	base := filepath.Base(relPath)
	for _, pattern := range c.Include {
		target := base
		if strings.Contains(pattern, "/") {
			target = filepath.ToSlash(relPath)
		}
		if ok, err := filepath.Match(pattern, target); err == nil && ok {
			return true
		}
	}
	return false
}
