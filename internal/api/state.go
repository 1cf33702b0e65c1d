package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/nerrad567/gray-logic-daylight/internal/daemon"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/mqtt"
)

// healthCheckTimeout bounds each dependency check on /health.
const healthCheckTimeout = 2 * time.Second

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// StateResponse is returned by GET /api/v1/state.
type StateResponse struct {
	daemon.Snapshot
	Wallpaper string `json:"wallpaper,omitempty"`
}

// NightModeResponse is returned by the night-mode endpoints.
type NightModeResponse struct {
	Enabled bool `json:"enabled"`
}

// WallpaperResponse is returned by GET /api/v1/wallpaper/current.
type WallpaperResponse struct {
	File string    `json:"file"`
	At   time.Time `json:"at"`
}

// handleHealth reports the server and every registered dependency.
// Any failing check turns the response into 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Version: s.version}
	if len(s.checks) > 0 {
		resp.Checks = make(map[string]string, len(s.checks))
	}

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := s.checks[name].HealthCheck(ctx)
		cancel()
		if err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			continue
		}
		resp.Checks[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	resp := StateResponse{Snapshot: s.daemon.Snapshot()}
	if file, err := s.daemon.CurrentWallpaper(s.now()); err == nil {
		resp.Wallpaper = file
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetNightMode(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, NightModeResponse{Enabled: s.daemon.NightMode()})
}

// handleSetNightMode accepts the same payloads as the MQTT command topic:
// {"enabled":true} or a bare on/off.
func (s *Server) handleSetNightMode(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "reading request body: "+err.Error())
		return
	}
	on, err := mqtt.DecodeNightMode(body)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	s.daemon.SetNightMode(on)
	writeJSON(w, http.StatusOK, NightModeResponse{Enabled: on})
}

func (s *Server) handleCurrentWallpaper(w http.ResponseWriter, _ *http.Request) {
	now := s.now()
	file, err := s.daemon.CurrentWallpaper(now)
	if errors.Is(err, daemon.ErrNoSchedule) {
		writeError(w, http.StatusNotFound, ErrCodeNoSchedule, err.Error())
		return
	}
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, WallpaperResponse{File: file, At: now})
}
