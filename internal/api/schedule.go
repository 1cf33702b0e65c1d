package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-daylight/internal/daemon"
	"github.com/nerrad567/gray-logic-daylight/internal/schedule"
)

const (
	defaultRunLimit = 50
	maxRunLimit     = 500
)

// ScheduleResponse is returned by GET /api/v1/schedule.
type ScheduleResponse struct {
	Run       *schedule.Run      `json:"run"`
	StartTime string             `json:"start_time"`
	Schedule  *schedule.Schedule `json:"schedule"`
}

// SlidesResponse is returned by GET /api/v1/schedule/slides.
type SlidesResponse struct {
	RunID     string           `json:"run_id"`
	StartTime string           `json:"start_time"`
	Slides    []schedule.Slide `json:"slides"`
}

// RunsResponse is returned by GET /api/v1/runs.
type RunsResponse struct {
	Runs  []schedule.Run `json:"runs"`
	Count int            `json:"count"`
}

func startTime(s *schedule.Schedule) string {
	h, m := s.StartTime()
	return fmt.Sprintf("%02d:%02d", h, m)
}

// withoutSchedule copies run dropping the embedded schedule.
func withoutSchedule(run *schedule.Run) *schedule.Run {
	if run == nil {
		return nil
	}
	c := *run
	c.Schedule = nil
	return &c
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, _ *http.Request) {
	sched, run, err := s.daemon.Schedule()
	if err != nil {
		writeError(w, http.StatusNotFound, ErrCodeNoSchedule, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ScheduleResponse{
		Run:       withoutSchedule(run),
		StartTime: startTime(sched),
		Schedule:  sched,
	})
}

func (s *Server) handleGetSlides(w http.ResponseWriter, _ *http.Request) {
	sched, run, err := s.daemon.Schedule()
	if err != nil {
		writeError(w, http.StatusNotFound, ErrCodeNoSchedule, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SlidesResponse{
		RunID:     run.ID,
		StartTime: startTime(sched),
		Slides:    sched.Slides(),
	})
}

// handleRegenerate runs a pass synchronously. A failed pass is still stored
// and the previous schedule stays active.
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	run, err := s.daemon.Regenerate(r.Context(), daemon.TriggerAPI)
	if err != nil {
		s.logger.Warn("regeneration via API failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, ErrCodePassFailed, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, withoutSchedule(run))
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing runs failed", "error", err)
		writeInternalError(w, "listing runs failed")
		return
	}
	for i := range runs {
		runs[i].Schedule = nil
	}
	if runs == nil {
		runs = []schedule.Run{}
	}
	writeJSON(w, http.StatusOK, RunsResponse{Runs: runs, Count: len(runs)})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.runs.GetRun(r.Context(), id)
	if errors.Is(err, schedule.ErrRunNotFound) {
		writeNotFound(w, "run not found")
		return
	}
	if err != nil {
		s.logger.Error("loading run failed", "id", id, "error", err)
		writeInternalError(w, "loading run failed")
		return
	}
	writeJSON(w, http.StatusOK, run)
}
