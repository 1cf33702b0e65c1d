package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/state", s.handleState)

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", s.handleGetSchedule)
			r.Get("/slides", s.handleGetSlides)
			r.Post("/regenerate", s.handleRegenerate)
		})

		r.Get("/nightmode", s.handleGetNightMode)
		r.Put("/nightmode", s.handleSetNightMode)

		r.Get("/wallpaper/current", s.handleCurrentWallpaper)
		r.Get("/solar", s.handleSolar)

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", s.handleListRuns)
			r.Get("/{id}", s.handleGetRun)
		})

		r.Get("/themes", s.handleListThemes)
		r.Put("/theme", s.handleSetTheme)
		r.Get("/desktop/themes", s.handleDesktopThemes)
	})

	return r
}
