// Package solar computes the solar instants that anchor a day's wallpaper
// schedule: sunrise, solar noon, sunset and the end of civil twilight.
//
// The calculation follows the NOAA general solar position approximation
// (https://gml.noaa.gov/grad/solcalc/solareqns.PDF): a fractional year from
// the date's day-of-year and hour, a four-harmonic equation of time and
// solar declination, and an hour angle per zenith (90° for sunrise/sunset,
// 96° for civil twilight).
//
// # Hour-angle modes
//
// ModeLegacy reproduces the formula Daylight has always shipped:
//
//	acos( cos(zenith) / (cos(lat) · cosDeg(decl)) − tanDeg(lat · tan(decl)) )
//
// where decl is in radians but passed through the degree helpers. ModeStandard
// uses the textbook form with tan(lat)·tan(decl). Reference wraps
// github.com/nathan-osman/go-sunrise so either mode can be compared against
// an independent ephemeris.
//
// # Limitations
//
// Nothing is trapped. Near the poles the acos argument leaves [-1, 1] and the
// result is NaN; Instants.Ordered reports such days so callers can reject them.
//
// # Usage
//
//	calc := solar.Calculator{Mode: solar.ModeLegacy}
//	in := calc.Compute(52.52, 13.40, 1, time.Date(2021, 6, 21, 12, 0, 0, 0, time.Local))
//	fmt.Println(in.Sunrise, in.SolarNoon, in.Sunset, in.CivilTwilightEnd)
package solar
