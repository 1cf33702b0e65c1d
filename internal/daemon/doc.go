// Package daemon runs the Daylight scheduling passes and the light/dark
// appearance loop.
//
// A scheduling pass loads the selected theme, computes the solar schedule,
// writes the slideshow XML, points the desktop background at it, stores a
// run record and publishes state. A failed pass keeps the previous schedule.
//
// Passes are triggered at startup, when the calendar day changes, when the
// theme directory changes, when night-mode is toggled and on request (HTTP
// or MQTT). Triggers arriving while a pass is pending are coalesced.
//
// The appearance loop polls every daemon.poll_interval. Inside the light
// timeframe [sunrise+offset, sunset-offset) the light appearance is applied,
// outside it the dark one. Night-mode forces dark.
//
// # Thread Safety
//
// Service methods are safe for concurrent use. Passes are serialized.
package daemon
