package solar

import (
	"fmt"
	"math"
	"time"
)

const (
	// DayLength is the number of seconds in a schedule day.
	DayLength = 86400

	// ZenithSunrise is the zenith angle of the sun at sunrise and sunset.
	ZenithSunrise = 90.0

	// ZenithCivilTwilight is the zenith angle at the end of civil twilight.
	ZenithCivilTwilight = 96.0
)

// Mode selects the hour-angle formula.
type Mode int

const (
	ModeLegacy Mode = iota
	ModeStandard
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeLegacy:
		return "legacy"
	case ModeStandard:
		return "standard"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts "legacy" or "standard" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "legacy", "":
		return ModeLegacy, nil
	case "standard":
		return ModeStandard, nil
	default:
		return ModeLegacy, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Instants are seconds since local midnight.
type Instants struct {
	Sunrise          int `json:"sunrise"`
	SolarNoon        int `json:"solar_noon"`
	Sunset           int `json:"sunset"`
	CivilTwilightEnd int `json:"civil_twilight_end"`
}

// Ordered reports whether every instant is computable and
// sunrise < noon < sunset <= civil twilight end. Sunrise may fall before
// local midnight when the offset is far from the longitude's solar time.
func (in Instants) Ordered() bool {
	return in.Sunrise != math.MinInt &&
		in.SolarNoon != math.MinInt &&
		in.Sunrise < in.SolarNoon &&
		in.SolarNoon < in.Sunset &&
		in.Sunset <= in.CivilTwilightEnd
}

// Check returns ErrNumericSingularity when the instants are not Ordered.
func (in Instants) Check() error {
	if !in.Ordered() {
		return fmt.Errorf("%w: sunrise=%d noon=%d sunset=%d civil=%d",
			ErrNumericSingularity, in.Sunrise, in.SolarNoon, in.Sunset, in.CivilTwilightEnd)
	}
	return nil
}

// At returns the wall-clock time of a seconds-of-day value on date's calendar
// day, in date's location.
func At(date time.Time, seconds int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location()).Add(time.Duration(seconds) * time.Second)
}

// Calculator computes solar instants with the configured hour-angle formula.
// The zero value uses ModeLegacy.
type Calculator struct {
	Mode Mode
}

// Compute returns the solar instants for the calendar day of date.
//
// Parameters:
//   - lat, lon: degrees, north and east positive
//   - tzOffset: hours from UTC applied to the results (fractional allowed)
//   - date: day-of-year and hour feed the fractional year; minutes are ignored
//
// Returns:
//   - Instants: seconds since local midnight, unchecked (see Instants.Ordered)
func (c Calculator) Compute(lat, lon, tzOffset float64, date time.Time) Instants {
	fy := FractionalYear(date)
	eqt := EquationOfTime(fy)
	decl := Declination(fy)

	ha90 := c.HourAngle(lat, decl, ZenithSunrise)
	ha96 := c.HourAngle(lat, decl, ZenithCivilTwilight)

	return Instants{
		Sunrise:          minutesToSeconds(720 - 4*(lon+ha90) - eqt + 60*tzOffset),
		SolarNoon:        minutesToSeconds(720 - 4*lon - eqt + 60*tzOffset),
		Sunset:           minutesToSeconds(720 - 4*(lon-ha90) - eqt + 60*tzOffset),
		CivilTwilightEnd: minutesToSeconds(720 - 4*(lon-ha96) - eqt + 60*tzOffset),
	}
}

// HourAngle returns the hour angle in degrees for the given zenith.
// decl is the solar declination in radians.
func (c Calculator) HourAngle(lat, decl, zenith float64) float64 {
	if c.Mode == ModeStandard {
		latR := radians(lat)
		return degrees(math.Acos(cosDeg(zenith)/(math.Cos(latR)*math.Cos(decl)) - math.Tan(latR)*math.Tan(decl)))
	}
	return degrees(math.Acos(cosDeg(zenith)/(cosDeg(lat)*cosDeg(decl)) - tanDeg(lat*math.Tan(decl))))
}

// FractionalYear returns the year angle in radians for date's day-of-year
// and hour.
func FractionalYear(date time.Time) float64 {
	return 2 * math.Pi / 365 * (float64(date.YearDay()-1) + float64(date.Hour()-12)/24)
}

// EquationOfTime returns the equation of time in minutes.
func EquationOfTime(fy float64) float64 {
	return 229.18 * (0.000075 +
		0.001868*math.Cos(fy) -
		0.032077*math.Sin(fy) -
		0.014615*math.Cos(2*fy) -
		0.040849*math.Sin(2*fy))
}

// Declination returns the solar declination in radians.
func Declination(fy float64) float64 {
	return 0.006918 -
		0.399912*math.Cos(fy) +
		0.070257*math.Sin(fy) -
		0.006758*math.Cos(2*fy) +
		0.000907*math.Sin(2*fy) -
		0.002697*math.Cos(3*fy) +
		0.00148*math.Sin(3*fy)
}

// NoonOf returns 12:00 on t's calendar day in t's location.
func NoonOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}

// Zone returns a fixed zone offset tzOffset hours from UTC.
func Zone(tzOffset float64) *time.Location {
	return time.FixedZone("", int(math.Round(tzOffset*3600)))
}

// LocalOffsetHours returns t's UTC offset in fractional hours.
func LocalOffsetHours(t time.Time) float64 {
	_, offset := t.Zone()
	return float64(offset) / 3600
}

// minutesToSeconds rounds half to even, then converts to seconds.
// NaN maps to math.MinInt so Ordered rejects it.
func minutesToSeconds(minutes float64) int {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return math.MinInt
	}
	return int(math.RoundToEven(minutes)) * 60
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
func cosDeg(deg float64) float64  { return math.Cos(radians(deg)) }
func tanDeg(deg float64) float64  { return math.Tan(radians(deg)) }
