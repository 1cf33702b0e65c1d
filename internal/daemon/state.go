package daemon

import (
	"sync"

	"github.com/nerrad567/gray-logic-daylight/internal/schedule"
)

// Snapshot is a consistent copy of the daemon state.
type Snapshot struct {
	Theme      string            `json:"theme"`
	Location   schedule.Location `json:"location"`
	NightMode  bool              `json:"night_mode"`
	Appearance Appearance        `json:"appearance"`
	Light      *Timeframe        `json:"light_timeframe,omitempty"`
	LastRun    *schedule.Run     `json:"last_run,omitempty"`
}

// state is guarded by mu; the schedule pointer is replaced, never mutated.
type state struct {
	mu         sync.RWMutex
	theme      string
	location   schedule.Location
	nightMode  bool
	appearance Appearance
	light      Timeframe
	schedule   *schedule.Schedule
	run        *schedule.Run
}

func (s *state) snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Theme:      s.theme,
		Location:   s.location,
		NightMode:  s.nightMode,
		Appearance: s.appearance,
	}
	if !s.light.Empty() {
		tf := s.light
		snap.Light = &tf
	}
	if s.run != nil {
		run := *s.run
		run.Schedule = nil
		snap.LastRun = &run
	}
	return snap
}

func (s *state) current() (*schedule.Schedule, *schedule.Run) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule, s.run
}

func (s *state) setSchedule(sched *schedule.Schedule, run *schedule.Run) {
	s.mu.Lock()
	s.schedule = sched
	s.run = run
	s.mu.Unlock()
}
