package solar

import "errors"

var (
	// ErrNumericSingularity is returned when computed instants are not finite
	// or not in day order (polar day/night, latitude at ±90°).
	ErrNumericSingularity = errors.New("solar instants are not computable for this location and date")

	// ErrUnknownMode is returned by ParseMode for an unrecognised name.
	ErrUnknownMode = errors.New("unknown hour-angle mode")
)
