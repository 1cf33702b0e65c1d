package daemon

import (
	"context"

	"github.com/nerrad567/gray-logic-daylight/internal/desktop"
	"github.com/nerrad567/gray-logic-daylight/internal/schedule"
)

// Desktop applies appearance and wallpaper changes.
type Desktop interface {
	Apply(ctx context.Context, a desktop.Appearance) error
	SetWallpaper(ctx context.Context, uri string) error
}

// Publisher publishes retained state, typically the MQTT client.
type Publisher interface {
	PublishJSON(topic string, v any) error
}

// Telemetry records time-series points, typically the InfluxDB client.
type Telemetry interface {
	WriteSchedule(siteID, theme string, s *schedule.Schedule, tzOffset float64)
	WriteAppearance(siteID, appearance string, nightMode bool)
}

// Recorder receives daemon events, typically Prometheus collectors.
type Recorder interface {
	schedule.Recorder
	AppearanceSwitched(appearance string)
	SetNightMode(on bool)
}

// Logger is the logging interface used by the daemon.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type noopRecorder struct{}

func (noopRecorder) PassSucceeded([]schedule.Phase) {}
func (noopRecorder) PassFailed(string)              {}
func (noopRecorder) AppearanceSwitched(string)      {}
func (noopRecorder) SetNightMode(bool)              {}
