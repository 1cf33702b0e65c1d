package schedule

import (
	"encoding/json"
	"fmt"

	"github.com/nerrad567/gray-logic-daylight/internal/solar"
)

// Timeline holds each phase's intervals in asset order. Phases without
// assets have no intervals.
type Timeline [PhaseCount][]Interval

// Total returns the sum of every interval in every phase.
func (t Timeline) Total() int {
	sum := 0
	for _, ivs := range t {
		for _, iv := range ivs {
			sum += iv.Total()
		}
	}
	return sum
}

// Assets holds each phase's ordered asset identifiers (file paths).
type Assets [PhaseCount][]string

// Counts returns the number of assets per phase.
func (a Assets) Counts() AssetCounts {
	var c AssetCounts
	for p, list := range a {
		c[p] = len(list)
	}
	return c
}

// NightMode returns the assets shown while night-mode is on: the first night
// asset as the only day asset. Themes without night imagery fall back to
// their first day asset.
func (a Assets) NightMode() Assets {
	var out Assets
	switch {
	case len(a[PhaseNight]) > 0:
		out[PhaseDay] = []string{a[PhaseNight][0]}
	case len(a[PhaseDay]) > 0:
		out[PhaseDay] = []string{a[PhaseDay][0]}
	}
	return out
}

// Options control schedule generation.
type Options struct {
	TransitionSeconds  int  `json:"transition_seconds"`
	TransitionsEnabled bool `json:"transitions_enabled"`
	NoonDuration       int  `json:"noon_duration"`
	NightMode          bool `json:"night_mode"`
}

// DefaultOptions returns 600s transitions and a 1800s noon.
func DefaultOptions() Options {
	return Options{
		TransitionSeconds:  DefaultTransitionDuration,
		TransitionsEnabled: true,
		NoonDuration:       DefaultNoonDuration,
	}
}

// Schedule is a validated wallpaper day. Assets are the ones actually shown
// (after night-mode substitution), aligned with Timeline.
type Schedule struct {
	Instants  solar.Instants `json:"instants"`
	Options   Options        `json:"options"`
	Assets    Assets         `json:"assets"`
	Durations Durations      `json:"durations"`
	Timeline  Timeline       `json:"timeline"`

	// Clamped lists phases whose transition was shortened to fit.
	Clamped []Phase `json:"clamped,omitempty"`
}

// Build allocates phase durations, partitions each non-empty phase into
// intervals and validates the result.
//
// Returns:
//   - *Schedule: the validated schedule
//   - error: ErrNoDayAssets, ErrNegativeDuration or *InexactTotalError
func Build(in solar.Instants, assets Assets, opts Options) (*Schedule, error) {
	if opts.NightMode {
		assets = assets.NightMode()
	}
	if len(assets[PhaseDay]) == 0 {
		return nil, ErrNoDayAssets
	}

	counts := assets.Counts()
	s := &Schedule{
		Instants:  in,
		Options:   opts,
		Assets:    assets,
		Durations: AllocateDurations(in, counts, opts.NoonDuration, opts.NightMode),
	}

	for _, p := range Phases {
		if counts[p] == 0 {
			continue
		}
		if s.Durations[p] < 0 {
			return nil, fmt.Errorf("%w: phase %s is %ds", ErrNegativeDuration, p, s.Durations[p])
		}
		ivs, clamped := BuildIntervals(s.Durations[p], counts[p], opts.TransitionSeconds, opts.TransitionsEnabled)
		s.Timeline[p] = ivs
		if clamped {
			s.Clamped = append(s.Clamped, p)
		}
	}

	if err := Validate(s.Timeline); err != nil {
		return nil, err
	}
	return s, nil
}

// JSON encodes per-phase arrays as objects keyed by phase name.

func (t Timeline) MarshalJSON() ([]byte, error) { return marshalPhases([PhaseCount][]Interval(t)) }
func (t *Timeline) UnmarshalJSON(b []byte) error {
	return unmarshalPhases(b, (*[PhaseCount][]Interval)(t))
}

func (a Assets) MarshalJSON() ([]byte, error) { return marshalPhases([PhaseCount][]string(a)) }
func (a *Assets) UnmarshalJSON(b []byte) error {
	return unmarshalPhases(b, (*[PhaseCount][]string)(a))
}

func (d Durations) MarshalJSON() ([]byte, error) { return marshalPhases([PhaseCount]int(d)) }
func (d *Durations) UnmarshalJSON(b []byte) error {
	return unmarshalPhases(b, (*[PhaseCount]int)(d))
}

func marshalPhases[T any](arr [PhaseCount]T) ([]byte, error) {
	m := make(map[Phase]T, PhaseCount)
	for _, p := range Phases {
		m[p] = arr[p]
	}
	return json.Marshal(m)
}

func unmarshalPhases[T any](b []byte, arr *[PhaseCount]T) error {
	var m map[Phase]T
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*arr = [PhaseCount]T{}
	for p, v := range m {
		arr[p] = v
	}
	return nil
}
