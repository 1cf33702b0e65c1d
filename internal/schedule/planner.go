package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-daylight/internal/solar"
)

// Location is where, and in which UTC offset, a schedule is computed.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	TZOffset  float64 `json:"tz_offset"`
}

// Request is the input to one scheduling pass.
type Request struct {
	Location Location
	Date     time.Time
	Assets   Assets
	Options  Options
}

// Recorder receives pass outcomes, typically Prometheus counters.
type Recorder interface {
	PassSucceeded(clamped []Phase)
	PassFailed(reason string)
}

type noopRecorder struct{}

func (noopRecorder) PassSucceeded([]Phase) {}
func (noopRecorder) PassFailed(string)     {}

// Planner computes solar instants and builds a Schedule from them.
type Planner struct {
	calc     solar.Calculator
	logger   Logger
	recorder Recorder
}

// NewPlanner creates a planner. A nil logger discards output.
func NewPlanner(calc solar.Calculator, logger Logger) *Planner {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Planner{calc: calc, logger: logger, recorder: noopRecorder{}}
}

// SetRecorder installs a pass outcome recorder.
func (p *Planner) SetRecorder(r Recorder) {
	if r == nil {
		r = noopRecorder{}
	}
	p.recorder = r
}

// Calculator returns the solar calculator the planner uses.
func (p *Planner) Calculator() solar.Calculator {
	return p.calc
}

// Instants computes the solar instants for a request without building.
func (p *Planner) Instants(loc Location, date time.Time) solar.Instants {
	return p.calc.Compute(loc.Latitude, loc.Longitude, loc.TZOffset, date)
}

// Plan runs one scheduling pass.
//
// Returns:
//   - *Schedule: validated schedule
//   - error: wrapping solar.ErrNumericSingularity when the instants are not
//     in day order, or any Build error
func (p *Planner) Plan(req Request) (*Schedule, error) {
	in := p.Instants(req.Location, req.Date)
	if err := in.Check(); err != nil {
		p.recorder.PassFailed(failureReason(err))
		return nil, fmt.Errorf("computing solar instants: %w", err)
	}

	s, err := Build(in, req.Assets, req.Options)
	if err != nil {
		p.recorder.PassFailed(failureReason(err))
		return nil, fmt.Errorf("building schedule: %w", err)
	}

	for _, phase := range s.Clamped {
		n := len(s.Timeline[phase])
		p.logger.Warn("transitions exceed phase duration, clamping",
			"phase", phase.String(),
			"assets", n,
			"duration", s.Durations[phase],
			"requested", req.Options.TransitionSeconds,
			"effective", s.Timeline[phase][0].Transition,
		)
	}
	p.recorder.PassSucceeded(s.Clamped)

	p.logger.Debug("schedule built",
		"sunrise", in.Sunrise,
		"solar_noon", in.SolarNoon,
		"sunset", in.Sunset,
		"civil_twilight_end", in.CivilTwilightEnd,
		"night_mode", req.Options.NightMode,
	)
	return s, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, solar.ErrNumericSingularity):
		return "singularity"
	case errors.Is(err, ErrInexactTotal):
		return "inexact_total"
	case errors.Is(err, ErrNegativeDuration):
		return "negative_duration"
	case errors.Is(err, ErrNoDayAssets):
		return "no_day_assets"
	default:
		return "other"
	}
}
