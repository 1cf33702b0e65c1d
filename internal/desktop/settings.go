package desktop

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultBinary is the gsettings executable looked up on PATH.
const DefaultBinary = "gsettings"

// Schema keys written by Settings.
const (
	schemaInterface  = "org.gnome.desktop.interface"
	schemaBackground = "org.gnome.desktop.background"
	schemaUserTheme  = "org.gnome.shell.extensions.user-theme"

	keyGTKTheme    = "gtk-theme"
	keyCursorTheme = "cursor-theme"
	keyShellTheme  = "name"
	keyPictureURI  = "picture-uri"
)

// Appearance is a set of desktop themes applied together.
// Empty fields are left unchanged.
type Appearance struct {
	GTKTheme    string `json:"gtk_theme,omitempty"`
	ShellTheme  string `json:"shell_theme,omitempty"`
	CursorTheme string `json:"cursor_theme,omitempty"`
}

// Settings reads and writes GNOME settings via gsettings.
type Settings struct {
	binary string
	runner Runner
}

// NewSettings creates Settings using binary (DefaultBinary when empty).
// A nil runner uses ExecRunner.
func NewSettings(binary string, runner Runner) *Settings {
	if binary == "" {
		binary = DefaultBinary
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Settings{binary: binary, runner: runner}
}

// Apply sets the GTK, cursor and shell themes in that order.
// Every key is attempted; failures are joined.
func (s *Settings) Apply(ctx context.Context, a Appearance) error {
	var errs []error
	set := func(schema, key, value string) {
		if value == "" {
			return
		}
		if err := s.set(ctx, schema, key, value); err != nil {
			errs = append(errs, err)
		}
	}

	set(schemaInterface, keyGTKTheme, a.GTKTheme)
	set(schemaInterface, keyCursorTheme, a.CursorTheme)
	set(schemaUserTheme, keyShellTheme, a.ShellTheme)

	return errors.Join(errs...)
}

// Current reads the applied appearance. Keys whose schema is missing
// (no user-theme extension, for example) are returned empty.
func (s *Settings) Current(ctx context.Context) (Appearance, error) {
	gtk, err := s.get(ctx, schemaInterface, keyGTKTheme)
	if err != nil {
		return Appearance{}, err
	}
	cursor, err := s.get(ctx, schemaInterface, keyCursorTheme)
	if err != nil {
		return Appearance{}, err
	}
	shell, _ := s.get(ctx, schemaUserTheme, keyShellTheme) //nolint:errcheck // Extension is optional
	return Appearance{GTKTheme: gtk, ShellTheme: shell, CursorTheme: cursor}, nil
}

// SetWallpaper points the desktop background at uri.
func (s *Settings) SetWallpaper(ctx context.Context, uri string) error {
	return s.set(ctx, schemaBackground, keyPictureURI, uri)
}

// Wallpaper returns the current background URI.
func (s *Settings) Wallpaper(ctx context.Context) (string, error) {
	return s.get(ctx, schemaBackground, keyPictureURI)
}

func (s *Settings) set(ctx context.Context, schema, key, value string) error {
	if _, err := s.runner.Run(ctx, s.binary, "set", schema, key, value); err != nil {
		return fmt.Errorf("setting %s %s: %w", schema, key, err)
	}
	return nil
}

func (s *Settings) get(ctx context.Context, schema, key string) (string, error) {
	out, err := s.runner.Run(ctx, s.binary, "get", schema, key)
	if err != nil {
		return "", fmt.Errorf("reading %s %s: %w", schema, key, err)
	}
	return unquote(out), nil
}

// unquote strips the GVariant string quoting gsettings prints ('Pop-dark').
func unquote(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && (v[0] == '\'' || v[0] == '"') && v[len(v)-1] == v[0] {
		v = v[1 : len(v)-1]
	}
	return v
}
