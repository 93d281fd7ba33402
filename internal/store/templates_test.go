package store

import (
	"testing"
	"time"

	"github.com/claude/fitlog/internal/localcache"
	"github.com/claude/fitlog/internal/models"
)

func legDayTemplate() []models.TemplateExercise {
	return []models.TemplateExercise{
		{Machine: "Leg Press", Category: models.CategoryLegs, DefaultWeight: 100, DefaultSets: 3, DefaultReps: 10},
		{Machine: "Leg Curl", Category: models.CategoryLegs, DefaultWeight: 45, DefaultSets: 3, DefaultReps: 12},
	}
}

func TestAddAndDeleteTemplate(t *testing.T) {
	s := newTestStore(t, nil, nil)

	tpl := s.AddTemplate("Leg Day", legDayTemplate())
	if tpl.ID == "" {
		t.Fatal("template id not generated")
	}
	if got := s.Templates(); len(got) != 1 || got[0].Name != "Leg Day" {
		t.Fatalf("templates = %v, want one Leg Day", got)
	}

	s.DeleteTemplate(tpl.ID)
	if got := s.Templates(); len(got) != 0 {
		t.Errorf("templates = %v, want empty after delete", got)
	}

	s.DeleteTemplate("ghost") // unknown id is a no-op
}

func TestTemplatesPersistAcrossInstances(t *testing.T) {
	cache, err := localcache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	defer cache.Close()

	s1, err := New(Options{Cache: cache})
	if err != nil {
		t.Fatalf("building store: %v", err)
	}
	tpl := s1.AddTemplate("Push Day", legDayTemplate())
	s1.Close()

	s2, err := New(Options{Cache: cache})
	if err != nil {
		t.Fatalf("building second store: %v", err)
	}
	defer s2.Close()

	got, ok := s2.TemplateByID(tpl.ID)
	if !ok {
		t.Fatal("template not reloaded")
	}
	if got.Name != "Push Day" || len(got.Exercises) != 2 {
		t.Errorf("template = %+v, want Push Day with 2 exercises", got)
	}
}

func TestImportTemplate(t *testing.T) {
	s := newTestStore(t, nil, nil)
	s.now = func() time.Time { return testNow }

	tpl := s.AddTemplate("Leg Day", legDayTemplate())
	sess, ok := s.ImportTemplate(tpl.ID)
	if !ok {
		t.Fatal("import failed")
	}
	if sess.Date != testNow.Format(models.DateLayout) {
		t.Errorf("date = %s, want today", sess.Date)
	}
	if len(sess.Exercises) != 2 {
		t.Fatalf("exercises = %d, want 2", len(sess.Exercises))
	}
	ex := sess.Exercises[0]
	if ex.Machine != "Leg Press" || ex.Weight != 100 || ex.Sets != 3 || ex.Reps != 10 {
		t.Errorf("exercise = %+v, want Leg Press defaults", ex)
	}
	if ex.ID == "" || ex.ID == sess.Exercises[1].ID {
		t.Error("exercise ids not generated uniquely")
	}

	// The imported session is a draft only.
	if got := s.Sessions(); len(got) != 0 {
		t.Errorf("sessions = %v, want empty until Add", got)
	}

	if _, ok := s.ImportTemplate("ghost"); ok {
		t.Error("import of unknown template succeeded")
	}
}
