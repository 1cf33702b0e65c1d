package desktop

import (
	"os"
	"path/filepath"
	"slices"
)

const (
	indexTheme = "index.theme"
	shellDir   = "gnome-shell"
	cursorDir  = "cursors"
)

// Installed lists theme names found on the host. Names are sorted and unique.
type Installed struct {
	GTK    []string `json:"gtk"`
	Shell  []string `json:"shell"`
	Cursor []string `json:"cursor"`
}

// SearchPaths are the directories scanned by ListInstalled.
type SearchPaths struct {
	Themes []string
	Icons  []string
}

// DefaultSearchPaths returns the system and per-user theme directories.
func DefaultSearchPaths() SearchPaths {
	p := SearchPaths{
		Themes: []string{"/usr/share/themes"},
		Icons:  []string{"/usr/share/icons"},
	}
	if home, err := os.UserHomeDir(); err == nil {
		p.Themes = append(p.Themes, filepath.Join(home, ".themes"))
		p.Icons = append(p.Icons, filepath.Join(home, ".icons"))
	}
	return p
}

// ListInstalled scans p. Unreadable directories are skipped.
//
// A theme is a directory containing index.theme; it is a shell theme when it
// also has a gnome-shell directory, and a cursor theme when an icon theme has
// a cursors directory.
func ListInstalled(p SearchPaths) Installed {
	var out Installed
	for _, dir := range p.Themes {
		for _, name := range themeDirs(dir) {
			out.GTK = append(out.GTK, name)
			if isDir(filepath.Join(dir, name, shellDir)) {
				out.Shell = append(out.Shell, name)
			}
		}
	}
	for _, dir := range p.Icons {
		for _, name := range themeDirs(dir) {
			if isDir(filepath.Join(dir, name, cursorDir)) {
				out.Cursor = append(out.Cursor, name)
			}
		}
	}

	for _, s := range []*[]string{&out.GTK, &out.Shell, &out.Cursor} {
		slices.Sort(*s)
		*s = slices.Compact(*s)
	}
	return out
}

func themeDirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, e.Name(), indexTheme)); err == nil {
			names = append(names, e.Name())
		}
	}
	return names
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
