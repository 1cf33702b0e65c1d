package schedule

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestPhase(t *testing.T) {
	if PhaseNight.Next() != PhaseSunrise {
		t.Errorf("PhaseNight.Next() = %v, want sunrise", PhaseNight.Next())
	}
	if PhaseNoon.Next() != PhaseDay {
		t.Errorf("PhaseNoon.Next() = %v, want day", PhaseNoon.Next())
	}

	for _, p := range Phases {
		parsed, err := ParsePhase(p.String())
		if err != nil || parsed != p {
			t.Errorf("ParsePhase(%q) = %v, %v", p.String(), parsed, err)
		}
	}

	if _, err := ParsePhase("dusk"); !errors.Is(err, ErrUnknownPhase) {
		t.Errorf("ParsePhase(dusk) error = %v, want ErrUnknownPhase", err)
	}
	if got := Phase(9).String(); got != "Phase(9)" {
		t.Errorf("Phase(9).String() = %q", got)
	}
}

func TestPhase_JSONKeys(t *testing.T) {
	b, err := json.Marshal(map[Phase]int{PhaseSunset: 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `{"sunset":3}` {
		t.Errorf("Marshal = %s, want {\"sunset\":3}", b)
	}
}
