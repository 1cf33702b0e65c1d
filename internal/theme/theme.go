package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/gray-logic-daylight/internal/schedule"
)

// ManifestFiles are the accepted manifest names, in lookup order.
var ManifestFiles = []string{"theme.json", "theme.yaml", "theme.yml"}

// Manifest is the typed content of a theme manifest.
type Manifest struct {
	Title            string           `yaml:"title" json:"title"`
	Credits          string           `yaml:"credits" json:"credits,omitempty"`
	Description      string           `yaml:"description" json:"description,omitempty"`
	Filename         string           `yaml:"filename" json:"filename"`
	FileList         FileList         `yaml:"file_list" json:"file_list"`
	OptionalSettings OptionalSettings `yaml:"optional_settings" json:"optional_settings"`
}

// FileList holds the per-phase entries substituted into Filename.
type FileList struct {
	Sunrise []AssetRef `yaml:"sunrise" json:"sunrise"`
	Noon    []AssetRef `yaml:"noon" json:"noon"`
	Day     []AssetRef `yaml:"day" json:"day"`
	Sunset  []AssetRef `yaml:"sunset" json:"sunset"`
	Night   []AssetRef `yaml:"night" json:"night"`
}

// byPhase returns the lists in phase order.
func (f FileList) byPhase() [schedule.PhaseCount][]AssetRef {
	return [schedule.PhaseCount][]AssetRef{f.Sunrise, f.Noon, f.Day, f.Sunset, f.Night}
}

// OptionalSettings are per-theme overrides.
type OptionalSettings struct {
	// TransitionDuration in seconds replaces the configured default.
	TransitionDuration *int `yaml:"transition_duration" json:"transition_duration,omitempty"`
}

// AssetRef is one file_list entry. Manifests use both 1 and "01".
type AssetRef string

// UnmarshalYAML accepts any scalar.
func (a *AssetRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: file_list entries must be scalars", node.Line)
	}
	*a = AssetRef(node.Value)
	return nil
}

// Theme is a loaded, validated theme.
type Theme struct {
	Name     string   `json:"name"`
	Dir      string   `json:"dir"`
	Manifest Manifest `json:"manifest"`
}

// Load reads and validates the theme in dir.
func Load(dir string) (*Theme, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving theme dir: %w", err)
	}

	path, err := findManifest(abs)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// JSON is a subset of YAML, so one decoder serves both.
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidManifest, path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Theme{Name: filepath.Base(abs), Dir: abs, Manifest: m}, nil
}

// Open loads the theme called name from themesDir.
func Open(themesDir, name string) (*Theme, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: invalid theme name %q", ErrNotFound, name)
	}
	return Load(filepath.Join(themesDir, name))
}

// Validate checks the keys a schedule cannot be built without.
func (m Manifest) Validate() error {
	var missing []string
	if strings.TrimSpace(m.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(m.Filename) == "" {
		missing = append(missing, "filename")
	}
	if len(m.FileList.Day) == 0 {
		missing = append(missing, "file_list.day")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidManifest, strings.Join(missing, ", "))
	}
	if d := m.OptionalSettings.TransitionDuration; d != nil && *d < 0 {
		return fmt.Errorf("%w: optional_settings.transition_duration is negative", ErrInvalidManifest)
	}
	return nil
}

// Assets expands the file lists into absolute image paths per phase.
func (t *Theme) Assets() schedule.Assets {
	var out schedule.Assets
	for p, refs := range t.Manifest.FileList.byPhase() {
		for _, ref := range refs {
			name := strings.ReplaceAll(t.Manifest.Filename, "*", string(ref))
			out[p] = append(out[p], filepath.Join(t.Dir, name))
		}
	}
	return out
}

// TransitionDuration returns the theme's override, or def.
func (t *Theme) TransitionDuration(def int) int {
	if d := t.Manifest.OptionalSettings.TransitionDuration; d != nil {
		return *d
	}
	return def
}

// List returns the sorted names of the valid themes in themesDir.
// Directories with a missing or invalid manifest are skipped.
func List(themesDir string) ([]string, error) {
	entries, err := os.ReadDir(themesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, themesDir)
		}
		return nil, fmt.Errorf("reading themes dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := Load(filepath.Join(themesDir, e.Name())); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func findManifest(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, dir)
	}
	for _, name := range ManifestFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no manifest in %s", ErrNotFound, dir)
}
