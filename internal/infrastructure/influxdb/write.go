package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/gray-logic-daylight/internal/schedule"
	"github.com/nerrad567/gray-logic-daylight/internal/solar"
)

// Measurement names.
const (
	MeasurementSolar      = "solar_instants"
	MeasurementPhases     = "phase_durations"
	MeasurementAppearance = "appearance"
)

// SolarPoint describes one scheduling pass: the solar instants in seconds
// since local midnight, tagged by site and theme.
func SolarPoint(siteID, theme string, in solar.Instants, tzOffset float64, at time.Time) *write.Point {
	return write.NewPoint(
		MeasurementSolar,
		map[string]string{
			"site":  siteID,
			"theme": theme,
		},
		map[string]interface{}{
			"sunrise":            int64(in.Sunrise),
			"solar_noon":         int64(in.SolarNoon),
			"sunset":             int64(in.Sunset),
			"civil_twilight_end": int64(in.CivilTwilightEnd),
			"tz_offset":          tzOffset,
		},
		at,
	)
}

// PhasePoint records the allocated seconds per phase.
func PhasePoint(siteID string, d schedule.Durations, nightMode bool, at time.Time) *write.Point {
	fields := make(map[string]interface{}, schedule.PhaseCount+1)
	for _, p := range schedule.Phases {
		fields[p.String()] = int64(d[p])
	}
	fields["night_mode"] = nightMode
	return write.NewPoint(MeasurementPhases, map[string]string{"site": siteID}, fields, at)
}

// AppearancePoint records a light/dark switch.
func AppearancePoint(siteID, appearance string, nightMode bool, at time.Time) *write.Point {
	return write.NewPoint(
		MeasurementAppearance,
		map[string]string{
			"site":       siteID,
			"appearance": appearance,
		},
		map[string]interface{}{
			"dark":       appearance == "dark",
			"night_mode": nightMode,
		},
		at,
	)
}

// WriteSchedule writes the solar and phase points of a successful pass.
// Non-blocking; failures surface through SetOnError.
func (c *Client) WriteSchedule(siteID, theme string, s *schedule.Schedule, tzOffset float64) {
	if s == nil {
		return
	}
	now := time.Now()
	c.write(
		SolarPoint(siteID, theme, s.Instants, tzOffset, now),
		PhasePoint(siteID, s.Durations, s.Options.NightMode, now),
	)
}

// WriteAppearance writes an appearance switch.
func (c *Client) WriteAppearance(siteID, appearance string, nightMode bool) {
	c.write(AppearancePoint(siteID, appearance, nightMode, time.Now()))
}
