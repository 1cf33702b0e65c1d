package schedule

import (
	"errors"
	"fmt"
)

// Domain errors for the schedule package.
//
//	if errors.Is(err, schedule.ErrInexactTotal) {
//	    // keep the previous schedule
//	}
var (
	// ErrInexactTotal is matched by *InexactTotalError.
	ErrInexactTotal = errors.New("schedule: total does not equal day length")

	// ErrNegativeDuration is returned when a phase or interval is negative.
	ErrNegativeDuration = errors.New("schedule: negative duration")

	// ErrNoDayAssets is returned when the day phase has no assets.
	ErrNoDayAssets = errors.New("schedule: day phase has no assets")

	// ErrUnknownPhase is returned when parsing an unknown phase name.
	ErrUnknownPhase = errors.New("schedule: unknown phase")

	// ErrRunNotFound is returned when no matching run is stored.
	ErrRunNotFound = errors.New("schedule: run not found")
)

// InexactTotalError reports a timeline whose intervals do not add up to the
// expected day length.
type InexactTotalError struct {
	Got  int
	Want int
}

func (e *InexactTotalError) Error() string {
	return fmt.Sprintf("schedule: total animation length is %ds, want %ds", e.Got, e.Want)
}

// Is makes errors.Is(err, ErrInexactTotal) true.
func (e *InexactTotalError) Is(target error) bool {
	return target == ErrInexactTotal
}
