// Package api implements the local HTTP API of the daylight daemon.
//
// This package provides:
//   - State inspection: appearance, night-mode, light timeframe, active run
//   - Schedule access: the active timeline and its flattened slides
//   - Control: night-mode toggle, theme selection, on-demand regeneration
//   - Diagnostics: stored runs, solar instants with a reference comparison,
//     installed desktop themes, Prometheus /metrics
//
// # Architecture
//
// The server depends on the daemon through the narrow Daemon interface, so
// handlers can be tested against a fake. Writes never touch the desktop
// directly; they change daemon state and let the scheduling loop act.
//
// The server binds to localhost by default and has no authentication.
package api
