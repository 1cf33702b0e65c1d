package daemon

import (
	"time"

	"github.com/nerrad567/gray-logic-daylight/internal/solar"
)

// Appearance is the desktop colour scheme.
type Appearance string

const (
	AppearanceUnknown Appearance = ""
	AppearanceLight   Appearance = "light"
	AppearanceDark    Appearance = "dark"
)

// Timeframe is the half-open light window [Start, End).
// A zero Timeframe is empty.
type Timeframe struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// LightTimeframe returns [sunrise+offset, sunset-offset) on date's calendar day.
// The window is empty when the instants are not in day order or the offset
// leaves no light time.
func LightTimeframe(in solar.Instants, date time.Time, offset time.Duration) Timeframe {
	if !in.Ordered() {
		return Timeframe{}
	}
	start := solar.At(date, in.Sunrise).Add(offset)
	end := solar.At(date, in.Sunset).Add(-offset)
	if !start.Before(end) {
		return Timeframe{}
	}
	return Timeframe{Start: start, End: end}
}

// Empty reports whether the window contains no instant.
func (tf Timeframe) Empty() bool {
	return !tf.Start.Before(tf.End)
}

// Contains reports whether start <= t < end.
func (tf Timeframe) Contains(t time.Time) bool {
	return !tf.Empty() && !t.Before(tf.Start) && t.Before(tf.End)
}

// decide returns the appearance to apply at now, and false when current
// already matches.
func decide(now time.Time, tf Timeframe, current Appearance, nightMode bool) (Appearance, bool) {
	want := AppearanceDark
	if !nightMode && tf.Contains(now) {
		want = AppearanceLight
	}
	return want, want != current
}

// dayKey identifies a calendar day in now's location.
type dayKey struct {
	year, yday int
}

func dayOf(t time.Time) dayKey {
	return dayKey{year: t.Year(), yday: t.YearDay()}
}

func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
