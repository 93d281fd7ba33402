package store

import (
	"github.com/google/uuid"

	"github.com/claude/fitlog/internal/models"
)

// Templates live only in the local cache. They never touch the remote
// store and never enter the pending-sync set.

// Templates returns a copy of the template list, newest first.
func (s *Store) Templates() []models.WorkoutTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WorkoutTemplate, len(s.templates))
	copy(out, s.templates)
	return out
}

// TemplateByID returns the template with the given id.
func (s *Store) TemplateByID(id string) (models.WorkoutTemplate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tpl := range s.templates {
		if tpl.ID == id {
			return tpl, true
		}
	}
	return models.WorkoutTemplate{}, false
}

// AddTemplate stores a new named template and returns it with its
// generated id and creation time filled in.
func (s *Store) AddTemplate(name string, exercises []models.TemplateExercise) models.WorkoutTemplate {
	tpl := models.WorkoutTemplate{
		ID:        uuid.NewString(),
		Name:      name,
		Exercises: exercises,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.templates = append([]models.WorkoutTemplate{tpl}, s.templates...)
	s.persistTemplatesLocked()
	s.mu.Unlock()
	return tpl
}

// DeleteTemplate removes the template with the given id. Unknown ids are
// a no-op.
func (s *Store) DeleteTemplate(id string) {
	s.mu.Lock()
	kept := s.templates[:0]
	for _, tpl := range s.templates {
		if tpl.ID != id {
			kept = append(kept, tpl)
		}
	}
	s.templates = kept
	s.persistTemplatesLocked()
	s.mu.Unlock()
}

// ImportTemplate expands a template into a fresh session dated today,
// prefilling each exercise with the template defaults. The session is
// NOT added to the store; the caller edits it first and then calls Add.
func (s *Store) ImportTemplate(id string) (models.WorkoutSession, bool) {
	tpl, ok := s.TemplateByID(id)
	if !ok {
		return models.WorkoutSession{}, false
	}

	exercises := make([]models.Exercise, 0, len(tpl.Exercises))
	for _, te := range tpl.Exercises {
		exercises = append(exercises, models.Exercise{
			ID:       uuid.NewString(),
			Machine:  te.Machine,
			Category: te.Category,
			Weight:   te.DefaultWeight,
			Sets:     te.DefaultSets,
			Reps:     te.DefaultReps,
			Feeling:  models.FeelingJustRight,
		})
	}
	return models.WorkoutSession{
		ID:        uuid.NewString(),
		Date:      s.now().Format(models.DateLayout),
		Exercises: exercises,
	}, true
}

func (s *Store) persistTemplatesLocked() {
	if err := s.cache.SaveTemplates(s.templates); err != nil {
		s.log.Error("persisting templates", "error", err)
	}
}
