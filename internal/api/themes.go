package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/gray-logic-daylight/internal/theme"
)

// ThemesResponse is returned by GET /api/v1/themes.
type ThemesResponse struct {
	Active string   `json:"active"`
	Themes []string `json:"themes"`
}

// SetThemeRequest is the body of PUT /api/v1/theme.
type SetThemeRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListThemes(w http.ResponseWriter, _ *http.Request) {
	names, err := s.daemon.Themes()
	if err != nil {
		if errors.Is(err, theme.ErrNotFound) {
			writeNotFound(w, err.Error())
			return
		}
		s.logger.Error("listing themes failed", "error", err)
		writeInternalError(w, "listing themes failed")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, ThemesResponse{Active: s.daemon.Snapshot().Theme, Themes: names})
}

// handleSetTheme validates the theme and queues a pass using it.
func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req SetThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	if err := s.daemon.SetTheme(req.Name); err != nil {
		switch {
		case errors.Is(err, theme.ErrNotFound):
			writeNotFound(w, err.Error())
		case errors.Is(err, theme.ErrInvalidManifest):
			writeBadRequest(w, err.Error())
		default:
			writeInternalError(w, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"theme": req.Name, "status": "scheduled"})
}

// handleDesktopThemes lists the GTK, shell and cursor themes installed on the host.
func (s *Server) handleDesktopThemes(w http.ResponseWriter, _ *http.Request) {
	if s.installedThemes == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "desktop integration disabled")
		return
	}
	installed, err := s.installedThemes()
	if err != nil {
		s.logger.Error("listing installed desktop themes failed", "error", err)
		writeInternalError(w, "listing installed desktop themes failed")
		return
	}
	writeJSON(w, http.StatusOK, installed)
}
