package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/ffbuild/internal/errors"
)

//go:embed manifest.yaml
var defaultManifest []byte

// StaticLibrary maps a logical library name to its archive path relative to
// the staged root.
type StaticLibrary struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// ShimConfig names the adapter sources compiled into one extra archive.
type ShimConfig struct {
	Name    string   `yaml:"name"`
	Sources []string `yaml:"sources"`
}

// ObjectName returns the object file name for src. It is derived from the
// whole cleaned relative path, so sources sharing a basename in different
// directories get distinct objects.
func (s ShimConfig) ObjectName(src string) string {
	clean := filepath.ToSlash(filepath.Clean(src))
	clean = strings.TrimSuffix(clean, filepath.Ext(clean))
	return strings.ReplaceAll(clean, "/", "_") + ".o"
}

// Manifest is the static, ordered description of the build's outputs. It is
// read-only once loaded.
type Manifest struct {
	StaticLibs    []StaticLibrary `yaml:"static_libs"`
	SearchPaths   []string        `yaml:"search_paths"`
	IgnoredMacros []string        `yaml:"ignored_macros"`
	Shim          ShimConfig      `yaml:"shim"`
}

// DefaultManifest returns the embedded manifest.
func DefaultManifest() (*Manifest, error) {
	return ParseManifest(defaultManifest)
}

// LoadManifest reads a manifest from path, or the embedded default when path is empty.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return DefaultManifest()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.Wrap(err, ferrors.CategoryConfiguration, "read manifest").WithContext("path", path)
	}
	return ParseManifest(data)
}

// ParseManifest decodes and validates a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, ferrors.Wrap(err, ferrors.CategoryConfiguration, "parse manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest invariants.
func (m *Manifest) Validate() error {
	if len(m.StaticLibs) == 0 {
		return ferrors.InvalidManifest("no static libraries declared")
	}
	seen := make(map[string]struct{}, len(m.StaticLibs))
	for i, lib := range m.StaticLibs {
		if strings.TrimSpace(lib.Name) == "" || strings.TrimSpace(lib.Path) == "" {
			return ferrors.InvalidManifest(fmt.Sprintf("static library %d has an empty name or path", i))
		}
		if _, dup := seen[lib.Name]; dup {
			return ferrors.InvalidManifest(fmt.Sprintf("duplicate static library %q", lib.Name))
		}
		seen[lib.Name] = struct{}{}
	}
	for i, p := range m.SearchPaths {
		if strings.TrimSpace(p) == "" {
			return ferrors.InvalidManifest(fmt.Sprintf("search path %d is empty", i))
		}
	}
	if len(m.Shim.Sources) > 0 && strings.TrimSpace(m.Shim.Name) == "" {
		return ferrors.InvalidManifest("shim sources declared without an archive name")
	}
	objects := make(map[string]string, len(m.Shim.Sources))
	for i, src := range m.Shim.Sources {
		if strings.TrimSpace(src) == "" {
			return ferrors.InvalidManifest(fmt.Sprintf("shim source %d is empty", i))
		}
		obj := m.Shim.ObjectName(src)
		if prev, dup := objects[obj]; dup {
			return ferrors.InvalidManifest(fmt.Sprintf("shim sources %q and %q both compile to %s", prev, src, obj))
		}
		objects[obj] = src
	}
	return nil
}

// IgnoredMacroSet returns the ignored macros as a lookup set.
func (m *Manifest) IgnoredMacroSet() map[string]struct{} {
	set := make(map[string]struct{}, len(m.IgnoredMacros))
	for _, name := range m.IgnoredMacros {
		set[name] = struct{}{}
	}
	return set
}
