package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/fitlog/internal/models"
	"github.com/claude/fitlog/internal/notify"
	"github.com/claude/fitlog/internal/preset"
)

func (s *Server) handleAddWorkout(w http.ResponseWriter, r *http.Request) {
	var session models.WorkoutSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := validateSession(session); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// PRs must be computed against history that does not yet contain the
	// new weights.
	prs := s.store.CheckForPRs(session.Exercises)
	s.store.Add(session)

	writeJSON(w, http.StatusCreated, map[string]any{
		"session":         session,
		"personalRecords": prs,
	})
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.SessionByID(id); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}

	var session models.WorkoutSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	session.ID = id
	if err := validateSession(session); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.store.Update(session)
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.store.Delete(id)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	sessions := s.store.Sessions()
	if limit := parseLimit(r); limit > 0 && limit < len(sessions) {
		sessions = sessions[:limit]
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	session, ok := s.store.SessionByID(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// handleTriggerSync kicks off a reconciliation pass in the background.
// The store's single-flight guard makes repeated triggers harmless.
func (s *Server) handleTriggerSync(w http.ResponseWriter, r *http.Request) {
	go s.store.Reconcile(context.Background())
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "reconciling"})
}

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"loading":   s.store.Loading(),
		"lastError": s.store.LastError(),
		"pending":   s.store.PendingIDs(),
	})
}

func (s *Server) handleWeeklyStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.WeeklyStats())
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Streak())
}

func (s *Server) handleMachines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Machines())
}

func (s *Server) handleMachineSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, s.store.MachineSuggestions(query))
}

func (s *Server) handleFrequentMachines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.FrequentMachines())
}

func (s *Server) handleRecentMachines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.RecentMachines())
}

func (s *Server) handleMachineHistory(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name parameter required"})
		return
	}
	writeJSON(w, http.StatusOK, s.store.MachineHistory(name))
}

func (s *Server) handleMachineRecord(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name parameter required"})
		return
	}
	record, ok := s.store.PersonalRecordFor(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no record for machine"})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleLastExercise(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name parameter required"})
		return
	}
	ex, ok := s.store.LastExercise(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "machine never logged"})
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"machines":   preset.Machines,
		"commonReps": preset.CommonReps,
		"commonSets": preset.CommonSets,
	})
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Templates())
}

func (s *Server) handleAddTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string                    `json:"name"`
		Exercises []models.TemplateExercise `json:"exercises"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	tpl := s.store.AddTemplate(req.Name, req.Exercises)
	writeJSON(w, http.StatusCreated, tpl)
}

func (s *Server) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	session, ok := s.store.ImportTemplate(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.store.DeleteTemplate(id)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	active := s.center.Active()
	if active == nil {
		active = []notify.Notification{}
	}
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.center.Dismiss(id)
	writeJSON(w, http.StatusOK, map[string]string{"dismissed": id})
}

func validateSession(session models.WorkoutSession) error {
	if _, err := time.Parse(models.DateLayout, session.Date); err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", session.Date)
	}
	for i, ex := range session.Exercises {
		if ex.Machine == "" {
			return fmt.Errorf("exercise %d: machine is required", i)
		}
		if !ex.Category.Valid() {
			return fmt.Errorf("exercise %d: unknown category %q", i, ex.Category)
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseLimit(r *http.Request) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0
	}
	var limit int
	if _, err := fmt.Sscanf(v, "%d", &limit); err != nil {
		return 0
	}
	return limit
}
