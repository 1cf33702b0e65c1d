package solar

import "testing"

// Berlin midsummer in UTC: the standard formula tracks an independent
// ephemeris to within the refraction allowance, the legacy one does not.
func TestReference_HourAngleModes(t *testing.T) {
	const lat, lon, tz = 52.0, 13.0, 0.0

	ref, ok := Reference{}.Compute(lat, lon, tz, midsummer)
	if !ok {
		t.Fatal("Reference.Compute() reported no sunrise for Berlin in June")
	}
	if !(ref.Sunrise < ref.SolarNoon && ref.SolarNoon < ref.Sunset) {
		t.Fatalf("reference instants out of order: %+v", ref)
	}

	standard := Compare(Calculator{Mode: ModeStandard}.Compute(lat, lon, tz, midsummer), ref)
	if standard.Max() > 15*60 {
		t.Errorf("standard deviation %+v exceeds 15 minutes", standard)
	}

	legacy := Compare(Calculator{Mode: ModeLegacy}.Compute(lat, lon, tz, midsummer), ref)
	if legacy.Sunrise < 20*60 {
		t.Errorf("legacy sunrise deviation %ds, expected the legacy formula to rise late by over 20 minutes", legacy.Sunrise)
	}
	if legacy.Sunset > -20*60 {
		t.Errorf("legacy sunset deviation %ds, expected the legacy formula to set early by over 20 minutes", legacy.Sunset)
	}
}

func TestDeviation_Max(t *testing.T) {
	d := Deviation{Sunrise: 120, SolarNoon: -30, Sunset: -600}
	if got := d.Max(); got != 600 {
		t.Errorf("Max() = %d, want 600", got)
	}
}
