package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/fitlog/internal/notify"
	"github.com/claude/fitlog/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  *store.Store
	center *notify.Center
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(st *store.Store, center *notify.Center, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:  st,
		center: center,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/workouts", s.handleAddWorkout)
		r.Put("/api/v1/workouts/{id}", s.handleUpdateWorkout)
		r.Delete("/api/v1/workouts/{id}", s.handleDeleteWorkout)
		r.Post("/api/v1/sync", s.handleTriggerSync)
		r.Post("/api/v1/templates", s.handleAddTemplate)
		r.Post("/api/v1/templates/{id}/import", s.handleImportTemplate)
		r.Delete("/api/v1/templates/{id}", s.handleDeleteTemplate)
	})

	// Read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/workouts", s.handleListWorkouts)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
	s.router.Get("/api/v1/sync", s.handleSyncStatus)
	s.router.Get("/api/v1/stats/weekly", s.handleWeeklyStats)
	s.router.Get("/api/v1/stats/streak", s.handleStreak)
	s.router.Get("/api/v1/machines", s.handleMachines)
	s.router.Get("/api/v1/machines/suggestions", s.handleMachineSuggestions)
	s.router.Get("/api/v1/machines/frequent", s.handleFrequentMachines)
	s.router.Get("/api/v1/machines/recent", s.handleRecentMachines)
	s.router.Get("/api/v1/machines/history", s.handleMachineHistory)
	s.router.Get("/api/v1/machines/record", s.handleMachineRecord)
	s.router.Get("/api/v1/machines/last", s.handleLastExercise)
	s.router.Get("/api/v1/presets", s.handlePresets)
	s.router.Get("/api/v1/templates", s.handleListTemplates)
	s.router.Get("/api/v1/notifications", s.handleNotifications)
	s.router.Delete("/api/v1/notifications/{id}", s.handleDismissNotification)
}

// SetMCP mounts the Model Context Protocol endpoint.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
	s.router.Handle("/mcp/*", h)
}
