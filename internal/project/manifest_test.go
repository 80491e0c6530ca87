package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestLoadFullManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[package]
name = "gearbox"
version = "0.2.0"

[parser]
max_errors = 25
recover = true

[check]
include = ["*.scad", "parts/*.scad"]

[logging]
level = "debug"
timestamps = true
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if m.Path != path || m.Root != filepath.Dir(path) {
		t.Errorf("manifest origin = %q %q", m.Path, m.Root)
	}
	cfg := m.Config
	if cfg.Package.Name != "gearbox" || cfg.Package.Version != "0.2.0" {
		t.Errorf("[package] = %+v", cfg.Package)
	}
	if cfg.Parser.MaxErrors != 25 || !cfg.Parser.Recover {
		t.Errorf("[parser] = %+v", cfg.Parser)
	}
	if len(cfg.Check.Include) != 2 || cfg.Check.Include[1] != "parts/*.scad" {
		t.Errorf("[check] = %+v", cfg.Check)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Timestamps {
		t.Errorf("[logging] = %+v", cfg.Logging)
	}
	if len(m.Unknown) != 0 {
		t.Errorf("unexpected unknown keys: %v", m.Unknown)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[package]
name = "gearbox"
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := DefaultConfig()
	cfg := m.Config
	if cfg.Parser != want.Parser {
		t.Errorf("[parser] should keep defaults, got %+v", cfg.Parser)
	}
	if len(cfg.Check.Include) != 1 || cfg.Check.Include[0] != "*.scad" {
		t.Errorf("[check] should keep defaults, got %+v", cfg.Check)
	}
	if cfg.Logging != want.Logging {
		t.Errorf("[logging] should keep defaults, got %+v", cfg.Logging)
	}
}

func TestLoadReportsUnknownKeys(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[package]
name = "gearbox"
flavor = "metric"

[parser]
tolerance = 3

[render]
backend = "manifold"
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("unknown keys must not be fatal: %v", err)
	}
	joined := strings.Join(m.Unknown, ",")
	for _, key := range []string{"package.flavor", "parser.tolerance", "render"} {
		if !strings.Contains(joined, key) {
			t.Errorf("unknown keys %v should mention %q", m.Unknown, key)
		}
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			"negative max_errors",
			"[parser]\nmax_errors = -1\n",
			"max_errors",
		},
		{
			"unknown level",
			"[logging]\nlevel = \"loud\"\n",
			"level",
		},
		{
			"bad include pattern",
			"[check]\ninclude = [\"[\"]\n",
			"include",
		},
		{
			"malformed toml",
			"[package\nname=\n",
			"TOML",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tc.content)
			if _, err := Load(path); err == nil {
				t.Fatalf("Load() expected error")
			} else if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("Load() error = %v, want mention of %q", err, tc.wantMsg)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"gearbox\"\n")
	nested := filepath.Join(root, "parts", "gears")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatalf("failed to create nested dirs: %v", err)
	}

	path, ok, err := Find(nested)
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if !ok {
		t.Fatal("Find() should locate the manifest above the start directory")
	}
	if path != filepath.Join(root, ManifestName) {
		t.Errorf("Find() = %q", path)
	}
}

func TestFindMisses(t *testing.T) {
	_, ok, err := Find(t.TempDir())
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if ok {
		t.Error("Find() should report no manifest in an empty tree")
	}
}

func TestDiscoverFallsBack(t *testing.T) {
	m, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if m.Path != "" || m.Root != "" {
		t.Errorf("default manifest should carry no origin, got %q %q", m.Path, m.Root)
	}
	if len(m.Config.Check.Include) != 1 || m.Config.Check.Include[0] != "*.scad" {
		t.Errorf("default config = %+v", m.Config.Check)
	}
}

func TestDiscoverLoads(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"gearbox\"\n")

	m, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if m.Config.Package.Name != "gearbox" {
		t.Errorf("Discover() config = %+v", m.Config.Package)
	}
	if m.Root != root {
		t.Errorf("Discover() root = %q, want %q", m.Root, root)
	}
}

func TestIncludeMatch(t *testing.T) {
	cases := []struct {
		name     string
		patterns []string
		rel      string
		want     bool
	}{
		{"empty list admits all", nil, "parts/box.scad", true},
		{"base name match", []string{"*.scad"}, "parts/box.scad", true},
		{"base name miss", []string{"box_*.scad"}, "parts/lid.scad", false},
		{"path pattern match", []string{"parts/*.scad"}, "parts/box.scad", true},
		{"path pattern miss", []string{"parts/*.scad"}, "misc/box.scad", false},
		{"second pattern wins", []string{"lib/*.scad", "*.scad"}, "misc/box.scad", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := CheckConfig{Include: tc.patterns}
			if got := cfg.IncludeMatch(tc.rel); got != tc.want {
				t.Errorf("IncludeMatch(%q) = %v, want %v", tc.rel, got, tc.want)
			}
		})
	}
}
