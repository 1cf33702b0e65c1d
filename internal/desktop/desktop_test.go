package desktop

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// fakeRunner records calls and answers "get" from a key/value store.
type fakeRunner struct {
	calls  []string
	values map[string]string
	fail   map[string]bool
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{values: map[string]string{}, fail: map[string]bool{}}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	if len(args) < 3 {
		return "", errors.New("bad usage")
	}
	key := args[1] + " " + args[2]
	if f.fail[key] {
		return "", errors.New("No such schema")
	}
	switch args[0] {
	case "set":
		f.values[key] = args[3]
		return "", nil
	case "get":
		return "'" + f.values[key] + "'\n", nil
	}
	return "", errors.New("unknown command")
}

func TestSettings_Apply(t *testing.T) {
	r := newFakeRunner()
	s := NewSettings("", r)

	err := s.Apply(context.Background(), Appearance{GTKTheme: "Pop-dark", ShellTheme: "Pop-dark", CursorTheme: "xcursor-breeze"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := []string{
		"gsettings set org.gnome.desktop.interface gtk-theme Pop-dark",
		"gsettings set org.gnome.desktop.interface cursor-theme xcursor-breeze",
		"gsettings set org.gnome.shell.extensions.user-theme name Pop-dark",
	}
	if !reflect.DeepEqual(r.calls, want) {
		t.Errorf("calls = %v, want %v", r.calls, want)
	}
}

func TestSettings_ApplySkipsEmpty(t *testing.T) {
	r := newFakeRunner()
	if err := NewSettings("/usr/bin/gsettings", r).Apply(context.Background(), Appearance{GTKTheme: "Pop"}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(r.calls) != 1 || !strings.HasPrefix(r.calls[0], "/usr/bin/gsettings set") {
		t.Errorf("calls = %v, want a single gtk-theme set", r.calls)
	}
}

func TestSettings_ApplyContinuesAfterFailure(t *testing.T) {
	r := newFakeRunner()
	r.fail["org.gnome.shell.extensions.user-theme name"] = true

	err := NewSettings("", r).Apply(context.Background(), Appearance{GTKTheme: "Pop", ShellTheme: "Pop", CursorTheme: "snow"})
	if err == nil {
		t.Fatal("Apply() expected error for missing shell schema")
	}
	if r.values["org.gnome.desktop.interface gtk-theme"] != "Pop" || r.values["org.gnome.desktop.interface cursor-theme"] != "snow" {
		t.Errorf("other keys should still be written, got %v", r.values)
	}
}

func TestSettings_Current(t *testing.T) {
	r := newFakeRunner()
	s := NewSettings("", r)
	ctx := context.Background()

	applied := Appearance{GTKTheme: "Pop", ShellTheme: "Pop", CursorTheme: "xcursor-breeze-snow"}
	if err := s.Apply(ctx, applied); err != nil {
		t.Fatal(err)
	}
	got, err := s.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if got != applied {
		t.Errorf("Current() = %+v, want %+v", got, applied)
	}

	r.fail["org.gnome.shell.extensions.user-theme name"] = true
	got, err = s.Current(ctx)
	if err != nil {
		t.Fatalf("Current() without shell extension error = %v", err)
	}
	if got.ShellTheme != "" || got.GTKTheme != "Pop" {
		t.Errorf("Current() = %+v, want empty shell theme", got)
	}
}

func TestSettings_Wallpaper(t *testing.T) {
	r := newFakeRunner()
	s := NewSettings("", r)
	ctx := context.Background()

	uri := "file:///home/me/.local/share/daylight/lakeside-1700000000.xml"
	if err := s.SetWallpaper(ctx, uri); err != nil {
		t.Fatalf("SetWallpaper() error = %v", err)
	}
	got, err := s.Wallpaper(ctx)
	if err != nil || got != uri {
		t.Errorf("Wallpaper() = %q, %v; want %q", got, err, uri)
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct{ in, want string }{
		{"'Pop-dark'\n", "Pop-dark"},
		{`"Adwaita"`, "Adwaita"},
		{"plain", "plain"},
		{"'", "'"},
		{"''", ""},
	}
	for _, tt := range tests {
		if got := unquote(tt.in); got != tt.want {
			t.Errorf("unquote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExecRunner_Failure(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), filepath.Join(t.TempDir(), "missing-binary"))
	if err == nil {
		t.Error("Run() expected error for missing binary")
	}
}

func mkTheme(t *testing.T, root, name string, subdirs ...string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, indexTheme), []byte("[Icon Theme]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, sd := range subdirs {
		if err := os.MkdirAll(filepath.Join(dir, sd), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestListInstalled(t *testing.T) {
	sys := t.TempDir()
	user := t.TempDir()
	icons := t.TempDir()

	mkTheme(t, sys, "Pop", shellDir)
	mkTheme(t, sys, "Adwaita")
	mkTheme(t, user, "Pop", shellDir)
	mkTheme(t, icons, "xcursor-breeze", cursorDir)
	mkTheme(t, icons, "hicolor", "scalable")
	if err := os.MkdirAll(filepath.Join(sys, "no-index"), 0o755); err != nil {
		t.Fatal(err)
	}

	got := ListInstalled(SearchPaths{
		Themes: []string{sys, user, filepath.Join(sys, "absent")},
		Icons:  []string{icons},
	})

	want := Installed{
		GTK:    []string{"Adwaita", "Pop"},
		Shell:  []string{"Pop"},
		Cursor: []string{"xcursor-breeze"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListInstalled() = %+v, want %+v", got, want)
	}
}
