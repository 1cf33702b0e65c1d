package theme

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce merges bursts of events (an image copy, an editor save).
const DefaultDebounce = 500 * time.Millisecond

// Logger is the logging interface used by the watcher.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Watcher reports changes to the themes directory and its theme folders.
// fsnotify is not recursive, so each theme directory is added explicitly
// and new ones are picked up as they appear.
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	debounce time.Duration
	logger   Logger
}

// NewWatcher starts watching themesDir and its immediate subdirectories.
func NewWatcher(themesDir string, logger Logger) (*Watcher, error) {
	if logger == nil {
		logger = noopLogger{}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{fs: fw, root: themesDir, debounce: DefaultDebounce, logger: logger}
	if err := fw.Add(themesDir); err != nil {
		fw.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("watching %s: %w", themesDir, err)
	}

	entries, err := os.ReadDir(themesDir)
	if err != nil {
		fw.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("reading themes dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			w.add(filepath.Join(themesDir, e.Name()))
		}
	}
	return w, nil
}

// SetDebounce changes the quiet period before a change is reported.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run blocks until ctx is cancelled, calling onChange with the affected
// theme name (the first path element below the themes directory) once per
// burst of events.
func (w *Watcher) Run(ctx context.Context, onChange func(theme string)) error {
	defer w.fs.Close() //nolint:errcheck // Shutdown path

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.add(ev.Name)
				}
			}
			if name := w.themeOf(ev.Name); name != "" {
				pending[name] = struct{}{}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("theme watcher error", "error", err)

		case <-timer.C:
			for name := range pending {
				w.logger.Debug("theme changed", "theme", name)
				onChange(name)
			}
			clear(pending)
		}
	}
}

func (w *Watcher) add(dir string) {
	if err := w.fs.Add(dir); err != nil {
		w.logger.Warn("cannot watch theme directory", "dir", dir, "error", err)
	}
}

// themeOf maps an event path to the theme directory name it belongs to.
func (w *Watcher) themeOf(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	first, _, _ := strings.Cut(rel, string(filepath.Separator))
	return first
}
