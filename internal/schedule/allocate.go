package schedule

import "github.com/nerrad567/gray-logic-daylight/internal/solar"

const (
	// DayLength is the exact total of every schedule, in seconds.
	DayLength = solar.DayLength

	// DefaultNoonDuration is the fixed noon phase length in seconds.
	DefaultNoonDuration = 1800

	// DefaultTransitionDuration is the cross-fade length used when neither
	// the configuration nor the theme sets one.
	DefaultTransitionDuration = 600
)

// Durations holds one length in seconds per phase.
type Durations [PhaseCount]int

// Total returns the sum of all phase durations.
func (d Durations) Total() int {
	sum := 0
	for _, v := range d {
		sum += v
	}
	return sum
}

// AssetCounts holds the number of assets per phase.
type AssetCounts [PhaseCount]int

// AllocateDurations sizes the five phases from the solar instants.
//
// Before collapsing:
//
//	sunrise = noon − sunrise
//	noon    = noonDuration
//	day     = ⌊(sunset − noon − noonDuration) · 2/3⌋
//	sunset  = (sunset − noon − noonDuration) − day + (civil twilight − sunset)
//	night   = DayLength − the other four
//
// Then sunrise, noon, sunset and night are folded into day, in that order,
// when they have no assets or night-mode is on. The result always sums to
// DayLength.
func AllocateDurations(in solar.Instants, counts AssetCounts, noonDuration int, nightMode bool) Durations {
	afternoon := in.Sunset - in.SolarNoon - noonDuration

	var d Durations
	d[PhaseSunrise] = in.SolarNoon - in.Sunrise
	d[PhaseNoon] = noonDuration
	d[PhaseDay] = floorDiv(afternoon*2, 3)
	d[PhaseSunset] = afternoon - d[PhaseDay] + (in.CivilTwilightEnd - in.Sunset)
	d[PhaseNight] = DayLength - d[PhaseSunrise] - d[PhaseNoon] - d[PhaseDay] - d[PhaseSunset]

	for _, p := range []Phase{PhaseSunrise, PhaseNoon, PhaseSunset, PhaseNight} {
		if nightMode || counts[p] == 0 {
			d[PhaseDay] += d[p]
			d[p] = 0
		}
	}
	return d
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
