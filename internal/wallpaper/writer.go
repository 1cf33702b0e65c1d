package wallpaper

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-daylight/internal/schedule"
)

// Writer stores rendered slideshows in a directory, keeping only the latest.
// The file name changes on every write so the desktop reloads it.
type Writer struct {
	Dir    string
	Name   string
	Header Header

	// Now is used for the file name timestamp; defaults to time.Now.
	Now func() time.Time
}

// Write renders s, removes older .xml files in Dir and writes the new one.
//
// Returns:
//   - string: absolute path of the written file
//   - error: if rendering, clearing or writing fails
func (w *Writer) Write(s *schedule.Schedule) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, s, w.Header); err != nil {
		return "", err
	}

	dir, err := filepath.Abs(w.Dir)
	if err != nil {
		return "", fmt.Errorf("resolving output dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	if err := Clear(dir); err != nil {
		return "", err
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	path := filepath.Join(dir, FileName(w.Name, now().Unix()))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // Read by the desktop session
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Clear removes every .xml file directly inside dir.
func Clear(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading output dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", e.Name(), err)
		}
	}
	return nil
}

// URI returns the file:// URI for a written slideshow path.
func URI(path string) string {
	return "file://" + filepath.ToSlash(path)
}
