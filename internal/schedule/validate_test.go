package schedule

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	var exact Timeline
	exact[PhaseDay] = []Interval{{85800, 600}}

	var short Timeline
	short[PhaseDay] = []Interval{{85000, 600}}

	var negative Timeline
	negative[PhaseDay] = []Interval{{86500, 600}}
	negative[PhaseNight] = []Interval{{-700, 0}}

	if err := Validate(exact); err != nil {
		t.Errorf("Validate(exact) = %v, want nil", err)
	}

	err := Validate(short)
	if !errors.Is(err, ErrInexactTotal) {
		t.Fatalf("Validate(short) = %v, want ErrInexactTotal", err)
	}
	var inexact *InexactTotalError
	if !errors.As(err, &inexact) {
		t.Fatalf("Validate(short) = %T, want *InexactTotalError", err)
	}
	if inexact.Got != 85600 || inexact.Want != DayLength {
		t.Errorf("InexactTotalError = %+v, want Got=85600 Want=%d", inexact, DayLength)
	}

	if err := Validate(negative); !errors.Is(err, ErrNegativeDuration) {
		t.Errorf("Validate(negative) = %v, want ErrNegativeDuration", err)
	}

	if err := Validate(Timeline{}); !errors.Is(err, ErrInexactTotal) {
		t.Errorf("Validate(empty) = %v, want ErrInexactTotal", err)
	}
}
