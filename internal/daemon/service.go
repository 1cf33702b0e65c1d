package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-daylight/internal/desktop"
	"github.com/nerrad567/gray-logic-daylight/internal/geo"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-daylight/internal/schedule"
	"github.com/nerrad567/gray-logic-daylight/internal/theme"
	"github.com/nerrad567/gray-logic-daylight/internal/wallpaper"
)

// Trigger names what started a scheduling pass.
type Trigger string

const (
	TriggerStartup     Trigger = "startup"
	TriggerDateChange  Trigger = "date_change"
	TriggerThemeChange Trigger = "theme_change"
	TriggerThemeSelect Trigger = "theme_select"
	TriggerNightMode   Trigger = "night_mode"
	TriggerAPI         Trigger = "api"
	TriggerMQTT        Trigger = "mqtt"
)

// maxPassDuration bounds one scheduling pass including desktop and storage calls.
const maxPassDuration = 30 * time.Second

// Config holds the settings a Service needs.
type Config struct {
	SiteID    string
	ThemesDir string
	Theme     string

	TransitionDuration int
	TransitionsEnabled bool
	NoonDuration       int

	// TZOffset overrides the host UTC offset when set.
	TZOffset *float64

	PollInterval time.Duration
	LightOffset  time.Duration

	Light desktop.Appearance
	Dark  desktop.Appearance
}

// ConfigFrom extracts the daemon settings from the application config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		SiteID:             cfg.Site.ID,
		ThemesDir:          cfg.Wallpaper.ThemesDir,
		Theme:              cfg.Wallpaper.Theme,
		TransitionDuration: cfg.Wallpaper.TransitionDuration,
		TransitionsEnabled: cfg.Wallpaper.TransitionsEnabled,
		NoonDuration:       cfg.Wallpaper.NoonDuration,
		TZOffset:           cfg.Site.TimezoneOffset,
		PollInterval:       cfg.Daemon.PollInterval,
		LightOffset:        cfg.Daemon.LightOffset,
		Light:              desktop.Appearance(cfg.Daemon.Light),
		Dark:               desktop.Appearance(cfg.Daemon.Dark),
	}
}

// Deps are the collaborators of a Service. Planner, Repository and Writer
// are required; the rest may be nil.
type Deps struct {
	Planner    *schedule.Planner
	Repository schedule.Repository
	Writer     *wallpaper.Writer
	Desktop    Desktop
	Publisher  Publisher
	Telemetry  Telemetry
	Recorder   Recorder
	Logger     Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// ScheduleState is published on daylight/state/schedule after each pass.
type ScheduleState struct {
	RunID       string             `json:"run_id"`
	Theme       string             `json:"theme"`
	GeneratedAt time.Time          `json:"generated_at"`
	Location    schedule.Location  `json:"location"`
	NightMode   bool               `json:"night_mode"`
	Durations   schedule.Durations `json:"durations"`
	Clamped     []schedule.Phase   `json:"clamped,omitempty"`
	OutputPath  string             `json:"output_path"`
	Sunrise     int                `json:"sunrise"`
	SolarNoon   int                `json:"solar_noon"`
	Sunset      int                `json:"sunset"`
}

// AppearanceState is published on daylight/state/appearance.
type AppearanceState struct {
	Appearance Appearance         `json:"appearance"`
	NightMode  bool               `json:"night_mode"`
	Themes     desktop.Appearance `json:"themes"`
	ChangedAt  time.Time          `json:"changed_at"`
}

// NightModeState is published on daylight/state/nightmode.
type NightModeState struct {
	Enabled bool `json:"enabled"`
}

// Service owns the current schedule and appearance.
type Service struct {
	cfg  Config
	deps Deps

	planner  *schedule.Planner
	repo     schedule.Repository
	writer   *wallpaper.Writer
	logger   Logger
	recorder Recorder
	now      func() time.Time

	state state

	// passMu serializes scheduling passes.
	passMu sync.Mutex

	triggers chan Trigger

	// Owned by the Run goroutine.
	day dayKey
}

// New creates a Service located at loc.
func New(cfg Config, loc geo.Coordinates, deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = noopLogger{}
	}
	if deps.Recorder == nil {
		deps.Recorder = noopRecorder{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := &Service{
		cfg:      cfg,
		deps:     deps,
		planner:  deps.Planner,
		repo:     deps.Repository,
		writer:   deps.Writer,
		logger:   deps.Logger,
		recorder: deps.Recorder,
		now:      deps.Now,
		triggers: make(chan Trigger, 1),
	}
	s.state.theme = cfg.Theme
	s.state.location = schedule.Location{Latitude: loc.Latitude, Longitude: loc.Longitude}
	return s
}

// Restore loads the latest successful run so the API has a schedule before
// the first pass completes. The stored night-mode flag is restored too.
func (s *Service) Restore(ctx context.Context) error {
	run, err := s.repo.LatestSuccessful(ctx)
	if errors.Is(err, schedule.ErrRunNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading latest run: %w", err)
	}
	if run.Schedule == nil {
		return nil
	}

	s.state.mu.Lock()
	s.state.schedule = run.Schedule
	s.state.run = run
	s.state.nightMode = run.NightMode
	s.state.mu.Unlock()
	s.recorder.SetNightMode(run.NightMode)

	s.logger.Info("restored previous schedule",
		"run_id", run.ID,
		"theme", run.Theme,
		"created_at", run.CreatedAt,
	)
	return nil
}

// Trigger requests an asynchronous pass. A pending request absorbs new ones.
func (s *Service) Trigger(t Trigger) {
	select {
	case s.triggers <- t:
	default:
		s.logger.Debug("scheduling pass already pending", "trigger", string(t))
	}
}

// Regenerate runs a scheduling pass now.
//
// Returns:
//   - *schedule.Run: the stored run (status ok or failed)
//   - error: the pass failure; the previous schedule stays active
func (s *Service) Regenerate(ctx context.Context, trigger Trigger) (*schedule.Run, error) {
	s.passMu.Lock()
	defer s.passMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, maxPassDuration)
	defer cancel()

	now := s.localNow()
	s.state.mu.RLock()
	themeName := s.state.theme
	loc := s.state.location
	nightMode := s.state.nightMode
	s.state.mu.RUnlock()
	loc.TZOffset = geo.OffsetOr(s.cfg.TZOffset, now)

	run := &schedule.Run{
		ID:        uuid.NewString(),
		CreatedAt: now.UTC(),
		Trigger:   string(trigger),
		Theme:     themeName,
		Location:  loc,
		NightMode: nightMode,
		Status:    schedule.RunStatusOK,
	}

	sched, err := s.pass(ctx, run, now)
	if err != nil {
		run.Status = schedule.RunStatusFailed
		run.Error = err.Error()
		s.saveRun(ctx, run)
		s.logger.Error("scheduling pass failed, keeping previous schedule",
			"trigger", string(trigger),
			"theme", themeName,
			"error", err,
		)
		return run, err
	}

	run.Schedule = sched
	s.state.setSchedule(sched, run)
	s.saveRun(ctx, run)

	s.publish(mqtt.Topics{}.StateSchedule(), ScheduleState{
		RunID:       run.ID,
		Theme:       run.Theme,
		GeneratedAt: run.CreatedAt,
		Location:    run.Location,
		NightMode:   run.NightMode,
		Durations:   sched.Durations,
		Clamped:     sched.Clamped,
		OutputPath:  run.OutputPath,
		Sunrise:     sched.Instants.Sunrise,
		SolarNoon:   sched.Instants.SolarNoon,
		Sunset:      sched.Instants.Sunset,
	})
	if s.deps.Telemetry != nil {
		s.deps.Telemetry.WriteSchedule(s.cfg.SiteID, run.Theme, sched, run.Location.TZOffset)
	}

	s.logger.Info("schedule generated",
		"run_id", run.ID,
		"trigger", string(trigger),
		"theme", run.Theme,
		"night_mode", run.NightMode,
		"output", run.OutputPath,
	)
	return run, nil
}

// pass builds and installs a schedule, filling run as it goes.
func (s *Service) pass(ctx context.Context, run *schedule.Run, now time.Time) (*schedule.Schedule, error) {
	th, err := theme.Open(s.cfg.ThemesDir, run.Theme)
	if err != nil {
		s.recorder.PassFailed("theme")
		return nil, fmt.Errorf("%w %q: %w", ErrThemeLoad, run.Theme, err)
	}

	opts := schedule.Options{
		TransitionSeconds:  th.TransitionDuration(s.cfg.TransitionDuration),
		TransitionsEnabled: s.cfg.TransitionsEnabled,
		NoonDuration:       s.cfg.NoonDuration,
		NightMode:          run.NightMode,
	}
	run.Instants = s.planner.Instants(run.Location, now)

	sched, err := s.planner.Plan(schedule.Request{
		Location: run.Location,
		Date:     now,
		Assets:   th.Assets(),
		Options:  opts,
	})
	if err != nil {
		return nil, err
	}

	path, err := s.writer.Write(sched)
	if err != nil {
		s.recorder.PassFailed("write")
		return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	run.OutputPath = path

	if s.deps.Desktop != nil {
		if err := s.deps.Desktop.SetWallpaper(ctx, wallpaper.URI(path)); err != nil {
			s.logger.Warn("setting desktop wallpaper failed", "path", path, "error", err)
		}
	}
	return sched, nil
}

func (s *Service) saveRun(ctx context.Context, run *schedule.Run) {
	if err := s.repo.SaveRun(ctx, run); err != nil {
		s.logger.Error("storing run failed", "run_id", run.ID, "error", err)
	}
}

func (s *Service) publish(topic string, v any) {
	if s.deps.Publisher == nil {
		return
	}
	if err := s.deps.Publisher.PublishJSON(topic, v); err != nil {
		s.logger.Warn("publishing state failed", "topic", topic, "error", err)
	}
}

// Run executes startup, the appearance loop and triggered passes until ctx
// is cancelled.
func (s *Service) Run(ctx context.Context) error {
	interval := s.cfg.PollInterval
	if interval <= 0 {
		interval = time.Second
	}

	s.regenerate(ctx, TriggerStartup)
	s.tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-s.triggers:
			s.regenerate(ctx, t)
			s.tick(ctx)
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Service) regenerate(ctx context.Context, t Trigger) {
	_, _ = s.Regenerate(ctx, t) //nolint:errcheck // Logged and stored by Regenerate
}

// tick refreshes the light timeframe on day change and applies the
// appearance when it differs.
func (s *Service) tick(ctx context.Context) {
	now := s.localNow()

	if d := dayOf(now); d != s.day {
		first := s.day == (dayKey{})
		s.day = d
		s.refreshTimeframe(now)
		if !first {
			s.regenerate(ctx, TriggerDateChange)
		}
	}

	s.state.mu.RLock()
	tf := s.state.light
	current := s.state.appearance
	nightMode := s.state.nightMode
	s.state.mu.RUnlock()

	if want, change := decide(now, tf, current, nightMode); change {
		s.applyAppearance(ctx, want, nightMode)
	}
}

func (s *Service) refreshTimeframe(now time.Time) {
	s.state.mu.RLock()
	loc := s.state.location
	s.state.mu.RUnlock()
	loc.TZOffset = geo.OffsetOr(s.cfg.TZOffset, now)

	tf := LightTimeframe(s.planner.Instants(loc, now), now, s.cfg.LightOffset)
	if tf.Empty() {
		s.logger.Warn("no light timeframe today, using dark appearance",
			"latitude", loc.Latitude,
			"longitude", loc.Longitude,
		)
	} else {
		s.logger.Info("light timeframe updated", "start", tf.Start, "end", tf.End)
	}

	s.state.mu.Lock()
	s.state.light = tf
	s.state.mu.Unlock()
}

func (s *Service) applyAppearance(ctx context.Context, a Appearance, nightMode bool) {
	themes := s.cfg.Light
	if a == AppearanceDark {
		themes = s.cfg.Dark
	}

	if s.deps.Desktop != nil {
		if err := s.deps.Desktop.Apply(ctx, themes); err != nil {
			s.logger.Warn("applying appearance failed", "appearance", string(a), "error", err)
		}
	}

	s.state.mu.Lock()
	s.state.appearance = a
	s.state.mu.Unlock()

	s.recorder.AppearanceSwitched(string(a))
	s.publish(mqtt.Topics{}.StateAppearance(), AppearanceState{
		Appearance: a,
		NightMode:  nightMode,
		Themes:     themes,
		ChangedAt:  s.now().UTC(),
	})
	if s.deps.Telemetry != nil {
		s.deps.Telemetry.WriteAppearance(s.cfg.SiteID, string(a), nightMode)
	}
	s.logger.Info("appearance applied",
		"appearance", string(a),
		"gtk_theme", themes.GTKTheme,
		"night_mode", nightMode,
	)
}

// SetNightMode toggles night-mode and schedules a pass when it changed.
// The appearance loop enforces dark on its next tick.
func (s *Service) SetNightMode(on bool) {
	s.state.mu.Lock()
	changed := s.state.nightMode != on
	s.state.nightMode = on
	s.state.mu.Unlock()

	s.recorder.SetNightMode(on)
	s.publish(mqtt.Topics{}.StateNightMode(), NightModeState{Enabled: on})

	if changed {
		s.logger.Info("night-mode changed", "enabled", on)
		s.Trigger(TriggerNightMode)
	}
}

// NightMode reports the night-mode flag.
func (s *Service) NightMode() bool {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	return s.state.nightMode
}

// SetTheme validates name and schedules a pass with it.
func (s *Service) SetTheme(name string) error {
	if _, err := theme.Open(s.cfg.ThemesDir, name); err != nil {
		return err
	}
	s.state.mu.Lock()
	s.state.theme = name
	s.state.mu.Unlock()

	s.logger.Info("theme selected", "theme", name)
	s.Trigger(TriggerThemeSelect)
	return nil
}

// Themes lists the valid themes in the themes directory.
func (s *Service) Themes() ([]string, error) {
	return theme.List(s.cfg.ThemesDir)
}

// ThemeChanged is the theme watcher callback; changes to other themes are ignored.
func (s *Service) ThemeChanged(name string) {
	s.state.mu.RLock()
	active := s.state.theme
	s.state.mu.RUnlock()

	if name != active {
		return
	}
	s.logger.Info("theme files changed", "theme", name)
	s.Trigger(TriggerThemeChange)
}

// HandleNightModeCommand is the MQTT handler for daylight/command/nightmode.
func (s *Service) HandleNightModeCommand(_ string, payload []byte) error {
	on, err := mqtt.DecodeNightMode(payload)
	if err != nil {
		return err
	}
	s.SetNightMode(on)
	return nil
}

// HandleRegenerateCommand is the MQTT handler for daylight/command/regenerate.
func (s *Service) HandleRegenerateCommand(string, []byte) error {
	s.Trigger(TriggerMQTT)
	return nil
}

// Snapshot returns the current state.
func (s *Service) Snapshot() Snapshot {
	return s.state.snapshot()
}

// Schedule returns the active schedule and the run that produced it.
func (s *Service) Schedule() (*schedule.Schedule, *schedule.Run, error) {
	sched, run := s.state.current()
	if sched == nil {
		return nil, nil, ErrNoSchedule
	}
	return sched, run, nil
}

// CurrentWallpaper returns the asset on screen at t.
func (s *Service) CurrentWallpaper(t time.Time) (string, error) {
	sched, _ := s.state.current()
	if sched == nil {
		return "", ErrNoSchedule
	}
	return sched.WallpaperAt(secondsOfDay(geo.LocalTime(s.cfg.TZOffset, t))), nil
}

// localNow returns the current time in the zone the instants use.
func (s *Service) localNow() time.Time {
	return geo.LocalTime(s.cfg.TZOffset, s.now())
}
