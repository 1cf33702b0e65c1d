package daemon

import "errors"

var (
	// ErrNoSchedule is returned when no pass has succeeded yet.
	ErrNoSchedule = errors.New("daemon: no schedule generated yet")

	// ErrThemeLoad wraps theme loading failures in a pass.
	ErrThemeLoad = errors.New("daemon: loading theme")

	// ErrWriteFailed wraps slideshow write failures in a pass.
	ErrWriteFailed = errors.New("daemon: writing slideshow")
)
