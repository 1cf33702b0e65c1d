// Package schedule turns solar instants and a theme's asset lists into an
// exact 24-hour wallpaper timeline.
//
// A day is split into five phases (sunrise, noon, day, sunset, night).
// AllocateDurations sizes each phase from the solar instants and folds
// phases without imagery into "day". BuildIntervals partitions a phase into
// one static display and one transition per asset. Validate is the gate
// every timeline passes before use: the grand total must be exactly
// DayLength seconds and no interval may be negative.
//
// # Pipeline
//
//	solar.Instants ─► AllocateDurations ─► BuildIntervals (per phase) ─► Validate
//
// Build runs the whole pipeline and returns an immutable Schedule.
// Planner adds the solar calculation, diagnostics and metrics around Build.
//
// # Night-mode
//
// With night-mode on, the first night asset becomes the only asset and all
// 86400 seconds belong to "day".
//
// # Persistence
//
// SQLiteRepository records every scheduling pass in the schedule_runs table
// so the last valid schedule can be restored after a restart.
//
// # Thread Safety
//
// All functions are pure. A Schedule is never mutated after Build returns it
// and may be shared between goroutines.
package schedule
