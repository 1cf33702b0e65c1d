package schedule

import "fmt"

// Validate checks that no interval is negative and that all intervals add
// up to exactly DayLength. A timeline that fails must not be serialized.
func Validate(t Timeline) error {
	for _, p := range Phases {
		for i, iv := range t[p] {
			if iv.Static < 0 || iv.Transition < 0 {
				return fmt.Errorf("%w: %s[%d] static=%d transition=%d",
					ErrNegativeDuration, p, i, iv.Static, iv.Transition)
			}
		}
	}

	if total := t.Total(); total != DayLength {
		return &InexactTotalError{Got: total, Want: DayLength}
	}
	return nil
}
