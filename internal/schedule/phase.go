package schedule

import (
	"fmt"
	"strings"
)

// Phase is one of the five segments of a wallpaper day, in display order.
type Phase int

const (
	PhaseSunrise Phase = iota
	PhaseNoon
	PhaseDay
	PhaseSunset
	PhaseNight
)

// PhaseCount is the number of phases in a day.
const PhaseCount = 5

// Phases lists every phase in display order.
var Phases = [PhaseCount]Phase{PhaseSunrise, PhaseNoon, PhaseDay, PhaseSunset, PhaseNight}

var phaseNames = [PhaseCount]string{"sunrise", "noon", "day", "sunset", "night"}

func (p Phase) String() string {
	if p < 0 || int(p) >= PhaseCount {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Next returns the following phase; night wraps to sunrise.
func (p Phase) Next() Phase {
	return Phase((int(p) + 1) % PhaseCount)
}

// ParsePhase converts a phase name to a Phase.
func ParsePhase(s string) (Phase, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPhase, s)
}

// MarshalText lets Phase act as a JSON object key.
func (p Phase) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= PhaseCount {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPhase, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText parses a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	parsed, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
