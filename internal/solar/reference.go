package solar

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// Reference computes sunrise, solar noon and sunset with go-sunrise, an
// independent implementation used to check the hour-angle modes.
// CivilTwilightEnd is left zero; go-sunrise only reports the 90.833° horizon.
type Reference struct{}

// Compute returns reference instants for date's calendar day, expressed as
// seconds since midnight in a fixed zone tzOffset hours from UTC.
// ok is false when the sun does not rise or set that day.
func (Reference) Compute(lat, lon, tzOffset float64, date time.Time) (in Instants, ok bool) {
	y, m, d := date.Date()
	rise, set := sunrise.SunriseSunset(lat, lon, y, m, d)
	if rise.IsZero() || set.IsZero() {
		return Instants{}, false
	}

	midnight := time.Date(y, m, d, 0, 0, 0, 0, Zone(tzOffset))
	noon := rise.Add(set.Sub(rise) / 2)

	return Instants{
		Sunrise:   int(rise.Sub(midnight) / time.Second),
		SolarNoon: int(noon.Sub(midnight) / time.Second),
		Sunset:    int(set.Sub(midnight) / time.Second),
	}, true
}

// Deviation is the signed difference, in seconds, between computed and
// reference instants.
type Deviation struct {
	Sunrise   int `json:"sunrise"`
	SolarNoon int `json:"solar_noon"`
	Sunset    int `json:"sunset"`
}

// Compare returns got minus ref for sunrise, noon and sunset.
func Compare(got, ref Instants) Deviation {
	return Deviation{
		Sunrise:   got.Sunrise - ref.Sunrise,
		SolarNoon: got.SolarNoon - ref.SolarNoon,
		Sunset:    got.Sunset - ref.Sunset,
	}
}

// Max returns the largest absolute deviation in seconds.
func (d Deviation) Max() int {
	m := 0
	for _, v := range []int{d.Sunrise, d.SolarNoon, d.Sunset} {
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}
