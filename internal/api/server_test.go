package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-daylight/internal/daemon"
	"github.com/nerrad567/gray-logic-daylight/internal/desktop"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/metrics"
	"github.com/nerrad567/gray-logic-daylight/internal/schedule"
	"github.com/nerrad567/gray-logic-daylight/internal/solar"
	"github.com/nerrad567/gray-logic-daylight/internal/theme"
	_ "github.com/nerrad567/gray-logic-daylight/migrations"
)

var testInstants = solar.Instants{Sunrise: 21660, SolarNoon: 43260, Sunset: 64860, CivilTwilightEnd: 66300}

// fakeDaemon is an in-memory Daemon.
type fakeDaemon struct {
	mu          sync.Mutex
	sched       *schedule.Schedule
	run         *schedule.Run
	nightMode   bool
	theme       string
	themes      []string
	regenErr    error
	regenerated []daemon.Trigger
}

func (f *fakeDaemon) Snapshot() daemon.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	var last *schedule.Run
	if f.run != nil {
		r := *f.run
		r.Schedule = nil
		last = &r
	}
	return daemon.Snapshot{
		Theme:      f.theme,
		Location:   schedule.Location{Latitude: 0, Longitude: 0},
		NightMode:  f.nightMode,
		Appearance: daemon.AppearanceLight,
		LastRun:    last,
	}
}

func (f *fakeDaemon) Schedule() (*schedule.Schedule, *schedule.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sched == nil {
		return nil, nil, daemon.ErrNoSchedule
	}
	return f.sched, f.run, nil
}

func (f *fakeDaemon) Regenerate(_ context.Context, trigger daemon.Trigger) (*schedule.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regenerated = append(f.regenerated, trigger)
	if f.regenErr != nil {
		return &schedule.Run{ID: "failed", Status: schedule.RunStatusFailed}, f.regenErr
	}
	return f.run, nil
}

func (f *fakeDaemon) SetNightMode(on bool) {
	f.mu.Lock()
	f.nightMode = on
	f.mu.Unlock()
}

func (f *fakeDaemon) NightMode() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nightMode
}

func (f *fakeDaemon) CurrentWallpaper(t time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sched == nil {
		return "", daemon.ErrNoSchedule
	}
	return f.sched.WallpaperAt(t.Hour()*3600 + t.Minute()*60 + t.Second()), nil
}

func (f *fakeDaemon) Themes() ([]string, error) { return f.themes, nil }

func (f *fakeDaemon) SetTheme(name string) error {
	for _, t := range f.themes {
		if t == name {
			f.mu.Lock()
			f.theme = name
			f.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", theme.ErrNotFound, name)
}

type failingCheck struct{}

func (failingCheck) HealthCheck(context.Context) error { return errors.New("broker unreachable") }

type okCheck struct{}

func (okCheck) HealthCheck(context.Context) error { return nil }

func testSchedule(t *testing.T) *schedule.Schedule {
	t.Helper()
	var assets schedule.Assets
	for _, p := range schedule.Phases {
		assets[p] = []string{fmt.Sprintf("/themes/lake/%s.jpg", p)}
	}
	s, err := schedule.Build(testInstants, assets, schedule.DefaultOptions())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return s
}

func newTestRepo(t *testing.T) *schedule.SQLiteRepository {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Path: database.MemoryPath})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return schedule.NewSQLiteRepository(db.DB)
}

// testServer returns a server backed by a fake daemon with one stored run.
func testServer(t *testing.T) (*Server, *fakeDaemon, *schedule.SQLiteRepository) {
	t.Helper()

	sched := testSchedule(t)
	run := &schedule.Run{
		ID:        "run-1",
		CreatedAt: time.Date(2021, 6, 21, 5, 0, 0, 0, time.UTC),
		Trigger:   string(daemon.TriggerStartup),
		Theme:     "lake",
		Instants:  testInstants,
		Status:    schedule.RunStatusOK,
		Schedule:  sched,
	}
	repo := newTestRepo(t)
	if err := repo.SaveRun(context.Background(), run); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	fd := &fakeDaemon{sched: sched, run: run, theme: "lake", themes: []string{"lake", "mountains"}}
	srv, err := New(Deps{
		Config:  config.APIConfig{Host: "127.0.0.1", Port: 0},
		Logger:  logging.Discard(),
		Daemon:  fd,
		Runs:    repo,
		Metrics: metrics.New(),
		Checks:  map[string]HealthChecker{"database": okCheck{}},
		InstalledThemes: func() (desktop.Installed, error) {
			return desktop.Installed{GTK: []string{"Pop", "Pop-dark"}}, nil
		},
		Now:     func() time.Time { return time.Date(2021, 6, 21, 12, 0, 0, 0, time.UTC) },
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv, fd, repo
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func TestNew_RequiredDeps(t *testing.T) {
	tests := []struct {
		name string
		deps Deps
	}{
		{name: "no logger", deps: Deps{Daemon: &fakeDaemon{}, Runs: newTestRepo(t)}},
		{name: "no daemon", deps: Deps{Logger: logging.Discard(), Runs: newTestRepo(t)}},
		{name: "no runs", deps: Deps{Logger: logging.Discard(), Daemon: &fakeDaemon{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.deps); err == nil {
				t.Error("New() expected error")
			}
		})
	}
}

func TestHealth(t *testing.T) {
	srv, _, _ := testServer(t)

	rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decode[HealthResponse](t, rec)
	if resp.Status != "ok" || resp.Version != "test" || resp.Checks["database"] != "ok" {
		t.Errorf("health = %+v", resp)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}

	srv.checks["mqtt"] = failingCheck{}
	rec = do(t, srv.Handler(), http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	resp = decode[HealthResponse](t, rec)
	if resp.Status != "degraded" || resp.Checks["mqtt"] != "broker unreachable" {
		t.Errorf("health = %+v", resp)
	}
}

func TestState(t *testing.T) {
	srv, _, _ := testServer(t)

	rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decode[StateResponse](t, rec)
	if resp.Theme != "lake" || resp.Appearance != daemon.AppearanceLight {
		t.Errorf("state = %+v", resp)
	}
	// Sunrise runs from 06:01 to solar noon at 12:01.
	if resp.Wallpaper != "/themes/lake/sunrise.jpg" {
		t.Errorf("wallpaper = %q", resp.Wallpaper)
	}
}

func TestSchedule(t *testing.T) {
	srv, fd, _ := testServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/api/v1/schedule", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decode[ScheduleResponse](t, rec)
	if resp.StartTime != "06:01" || resp.Run.ID != "run-1" || resp.Run.Schedule != nil {
		t.Errorf("schedule response = %+v", resp)
	}
	if resp.Schedule.Timeline.Total() != schedule.DayLength {
		t.Errorf("Timeline.Total() = %d", resp.Schedule.Timeline.Total())
	}

	rec = do(t, h, http.MethodGet, "/api/v1/schedule/slides", "")
	slides := decode[SlidesResponse](t, rec)
	if len(slides.Slides) != schedule.PhaseCount {
		t.Fatalf("slides = %d, want %d", len(slides.Slides), schedule.PhaseCount)
	}
	if last := slides.Slides[len(slides.Slides)-1]; last.Next != "/themes/lake/sunrise.jpg" {
		t.Errorf("last slide next = %q, want wrap to sunrise", last.Next)
	}

	fd.sched = nil
	rec = do(t, h, http.MethodGet, "/api/v1/schedule", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status without schedule = %d, want 404", rec.Code)
	}
	if e := decode[Error](t, rec); e.Code != ErrCodeNoSchedule {
		t.Errorf("error code = %q, want %q", e.Code, ErrCodeNoSchedule)
	}
	rec = do(t, h, http.MethodGet, "/api/v1/wallpaper/current", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("wallpaper status without schedule = %d, want 404", rec.Code)
	}
}

func TestRegenerate(t *testing.T) {
	srv, fd, _ := testServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/schedule/regenerate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(fd.regenerated) != 1 || fd.regenerated[0] != daemon.TriggerAPI {
		t.Errorf("regenerated = %v, want [api]", fd.regenerated)
	}

	fd.regenErr = daemon.ErrThemeLoad
	rec = do(t, h, http.MethodPost, "/api/v1/schedule/regenerate", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status on failure = %d, want 422", rec.Code)
	}
}

func TestNightMode(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantOn     bool
	}{
		{name: "json on", body: `{"enabled": true}`, wantStatus: http.StatusOK, wantOn: true},
		{name: "json off", body: `{"enabled": false}`, wantStatus: http.StatusOK, wantOn: false},
		{name: "bare on", body: "on", wantStatus: http.StatusOK, wantOn: true},
		{name: "missing field", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "garbage", body: "sometimes", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, fd, _ := testServer(t)
			rec := do(t, srv.Handler(), http.MethodPut, "/api/v1/nightmode", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && fd.NightMode() != tt.wantOn {
				t.Errorf("night-mode = %v, want %v", fd.NightMode(), tt.wantOn)
			}
		})
	}

	srv, fd, _ := testServer(t)
	fd.SetNightMode(true)
	rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/nightmode", "")
	if resp := decode[NightModeResponse](t, rec); !resp.Enabled {
		t.Error("GET nightmode = false, want true")
	}
}

func TestSolar(t *testing.T) {
	srv, _, _ := testServer(t)
	h := srv.Handler()

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantMode   string
	}{
		{name: "null island", query: "lat=0&lon=0&tz=0&date=2021-06-21", wantStatus: http.StatusOK, wantMode: "legacy"},
		{name: "standard mode", query: "lat=52.5&lon=13.4&tz=2&date=2021-06-21&mode=standard", wantStatus: http.StatusOK, wantMode: "standard"},
		{name: "daemon location and today", query: "tz=0", wantStatus: http.StatusOK, wantMode: "legacy"},
		{name: "bad latitude", query: "lat=91", wantStatus: http.StatusBadRequest},
		{name: "bad longitude", query: "lon=east", wantStatus: http.StatusBadRequest},
		{name: "bad tz", query: "tz=20", wantStatus: http.StatusBadRequest},
		{name: "bad date", query: "date=21/06/2021", wantStatus: http.StatusBadRequest},
		{name: "bad mode", query: "mode=exact", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/v1/solar?"+tt.query, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			resp := decode[SolarResponse](t, rec)
			if resp.Mode != tt.wantMode {
				t.Errorf("mode = %q, want %q", resp.Mode, tt.wantMode)
			}
			if !resp.Ordered {
				t.Errorf("instants not ordered: %+v", resp.Instants)
			}
			if resp.Deviation == nil || resp.Deviation.Max() > 30*60 {
				t.Errorf("deviation from reference = %+v", resp.Deviation)
			}
		})
	}
}

func TestSolar_DateOnTZClock(t *testing.T) {
	srv, fd, _ := testServer(t)
	h := srv.Handler()
	calc := solar.Calculator{}

	tests := []struct {
		name     string
		query    string
		wantTZ   float64
		wantDate string
		want     solar.Instants
	}{
		{
			name:     "explicit date at noon",
			query:    "lat=0&lon=0&tz=2&date=2021-03-20",
			wantTZ:   2,
			wantDate: "2021-03-20",
			want:     calc.Compute(0, 0, 2, time.Date(2021, 3, 20, 12, 0, 0, 0, solar.Zone(2))),
		},
		{
			name:     "date kept west of UTC",
			query:    "lat=0&lon=0&tz=-10&date=2021-03-20",
			wantTZ:   -10,
			wantDate: "2021-03-20",
			want:     calc.Compute(0, 0, -10, time.Date(2021, 3, 20, 12, 0, 0, 0, solar.Zone(-10))),
		},
		{
			name:     "offset of the last run",
			query:    "lat=0&lon=0",
			wantTZ:   5.5,
			wantDate: "2021-06-21",
			want:     calc.Compute(0, 0, 5.5, time.Date(2021, 6, 21, 17, 30, 0, 0, solar.Zone(5.5))),
		},
	}

	fd.mu.Lock()
	fd.run.Location.TZOffset = 5.5
	fd.mu.Unlock()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/v1/solar?"+tt.query, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
			}
			resp := decode[SolarResponse](t, rec)
			if resp.TZOffset != tt.wantTZ {
				t.Errorf("tz = %v, want %v", resp.TZOffset, tt.wantTZ)
			}
			if resp.Date != tt.wantDate {
				t.Errorf("date = %q, want %q", resp.Date, tt.wantDate)
			}
			if resp.Instants != tt.want {
				t.Errorf("instants = %+v, want %+v", resp.Instants, tt.want)
			}
		})
	}
}

func TestRuns(t *testing.T) {
	srv, _, _ := testServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/api/v1/runs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	runs := decode[RunsResponse](t, rec)
	if runs.Count != 1 || runs.Runs[0].ID != "run-1" || runs.Runs[0].Schedule != nil {
		t.Errorf("runs = %+v", runs)
	}

	if rec := do(t, h, http.MethodGet, "/api/v1/runs?limit=0", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("limit=0 status = %d, want 400", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/runs/run-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get run status = %d, want 200", rec.Code)
	}
	if run := decode[schedule.Run](t, rec); run.Schedule == nil || run.Theme != "lake" {
		t.Errorf("run = %+v", run)
	}

	if rec := do(t, h, http.MethodGet, "/api/v1/runs/missing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing run status = %d, want 404", rec.Code)
	}
}

func TestThemes(t *testing.T) {
	srv, fd, _ := testServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/api/v1/themes", "")
	resp := decode[ThemesResponse](t, rec)
	if resp.Active != "lake" || len(resp.Themes) != 2 {
		t.Errorf("themes = %+v", resp)
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "known theme", body: `{"name": "mountains"}`, wantStatus: http.StatusAccepted},
		{name: "unknown theme", body: `{"name": "desert"}`, wantStatus: http.StatusNotFound},
		{name: "missing name", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "invalid json", body: `{`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, h, http.MethodPut, "/api/v1/theme", tt.body); rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
	if fd.Snapshot().Theme != "mountains" {
		t.Errorf("active theme = %q, want mountains", fd.Snapshot().Theme)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/desktop/themes", "")
	if installed := decode[desktop.Installed](t, rec); len(installed.GTK) != 2 {
		t.Errorf("installed = %+v", installed)
	}

	srv.installedThemes = nil
	if rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/desktop/themes", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status without desktop = %d, want 503", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, _ := testServer(t)
	h := srv.Handler()

	do(t, h, http.MethodGet, "/api/v1/health", "")
	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `daylight_http_requests_total{method="GET",route="/api/v1/health",status="200"} 1`) {
		t.Errorf("metrics missing health request counter:\n%s", body)
	}
}

func TestStartClose(t *testing.T) {
	srv, _, _ := testServer(t)

	if err := srv.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() before Start expected error")
	}
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer srv.Close() //nolint:errcheck // Test cleanup

	resp, err := http.Get("http://" + srv.Addr() + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if err := srv.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}
