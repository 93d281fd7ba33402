// Package seed generates a plausible workout history for demos and
// local development. The generated log follows a Monday/Wednesday/Friday
// routine with an occasional Saturday, rotating through four workout
// splits, with weights that creep upward as the weeks pass.
package seed

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/claude/fitlog/internal/models"
)

type seedMachine struct {
	name        string
	category    models.Category
	startWeight float64
}

var machines = []seedMachine{
	{"Leg Press", models.CategoryLegs, 60},
	{"Leg Curl", models.CategoryLegs, 25},
	{"Leg Extension", models.CategoryLegs, 30},
	{"Lat Pulldown", models.CategoryBack, 35},
	{"Seated Row", models.CategoryBack, 40},
	{"Chest Press", models.CategoryChest, 30},
	{"Pec Fly", models.CategoryChest, 25},
	{"Shoulder Press", models.CategoryShoulders, 20},
	{"Lateral Raise", models.CategoryShoulders, 8},
	{"Bicep Curl", models.CategoryArms, 10},
	{"Tricep Pushdown", models.CategoryArms, 20},
	{"Cable Crunch", models.CategoryCore, 30},
}

type split struct {
	name     string
	machines []string
}

var splits = []split{
	{"legs", []string{"Leg Press", "Leg Curl", "Leg Extension"}},
	{"push", []string{"Chest Press", "Pec Fly", "Shoulder Press", "Tricep Pushdown"}},
	{"pull", []string{"Lat Pulldown", "Seated Row", "Bicep Curl"}},
	{"upper", []string{"Chest Press", "Lat Pulldown", "Shoulder Press", "Bicep Curl", "Tricep Pushdown"}},
}

// Generator produces mock history. Seeding the random source makes the
// output reproducible.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// New returns a Generator with the given random seed.
func New(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// randomFeeling skews harder early in the history and easier late, so
// the progression reads like someone adapting to their program.
func (g *Generator) randomFeeling(progress float64) models.Feeling {
	r := g.rng.Float64()
	switch {
	case progress < 0.3:
		if r < 0.3 {
			return models.FeelingTooHard
		} else if r < 0.7 {
			return models.FeelingJustRight
		}
		return models.FeelingTooEasy
	case progress < 0.7:
		if r < 0.15 {
			return models.FeelingTooHard
		} else if r < 0.75 {
			return models.FeelingJustRight
		}
		return models.FeelingTooEasy
	default:
		if r < 0.1 {
			return models.FeelingTooHard
		} else if r < 0.5 {
			return models.FeelingJustRight
		}
		return models.FeelingTooEasy
	}
}

// Generate builds the given number of months of history ending today,
// sorted date descending.
func (g *Generator) Generate(months int) []models.WorkoutSession {
	today := g.now()
	start := today.AddDate(0, -months, 0)
	span := today.Sub(start)

	weights := make(map[string]float64, len(machines))
	byName := make(map[string]seedMachine, len(machines))
	for _, m := range machines {
		weights[m.name] = m.startWeight
		byName[m.name] = m
	}

	var sessions []models.WorkoutSession
	workoutIndex := 0
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		switch day.Weekday() {
		case time.Monday, time.Wednesday, time.Friday:
		case time.Saturday:
			if g.rng.Float64() <= 0.5 {
				continue
			}
		default:
			continue
		}

		sp := splits[workoutIndex%len(splits)]
		workoutIndex++
		progress := float64(day.Sub(start)) / float64(span)

		var exercises []models.Exercise
		for _, name := range sp.machines {
			info := byName[name]
			weight := weights[name]
			feeling := g.randomFeeling(progress)

			sets := 3
			if g.rng.Float64() <= 0.3 {
				sets = 4
			}
			reps := []int{8, 10, 12}[g.rng.Intn(3)]

			exercises = append(exercises, models.Exercise{
				ID:       uuid.NewString(),
				Machine:  name,
				Category: info.category,
				Weight:   weight,
				Sets:     sets,
				Reps:     reps,
				Feeling:  feeling,
			})

			// Progressive overload: bump after easy days, back off a
			// little after some hard ones, never below the start weight.
			if feeling == models.FeelingTooEasy && g.rng.Float64() > 0.3 {
				step := 2.5
				if weight >= 50 {
					step = 5
				}
				weights[name] = weight + step
			} else if feeling == models.FeelingTooHard && g.rng.Float64() > 0.7 {
				weights[name] = max(info.startWeight, weight-2.5)
			}
		}

		// Some days finish with core work.
		if g.rng.Float64() > 0.6 {
			exercises = append(exercises, models.Exercise{
				ID:       uuid.NewString(),
				Machine:  "Cable Crunch",
				Category: models.CategoryCore,
				Weight:   weights["Cable Crunch"],
				Sets:     3,
				Reps:     15,
				Feeling:  g.randomFeeling(progress),
			})
		}

		sessions = append(sessions, models.WorkoutSession{
			ID:        uuid.NewString(),
			Date:      day.Format(models.DateLayout),
			Exercises: exercises,
		})
	}

	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}
	return sessions
}

// Stats summarizes a generated history for CLI output.
type Stats struct {
	TotalWorkouts  int
	TotalExercises int
	From           string
	To             string
}

// Summarize computes Stats over a date-descending session list.
func Summarize(sessions []models.WorkoutSession) Stats {
	s := Stats{TotalWorkouts: len(sessions)}
	for _, sess := range sessions {
		s.TotalExercises += len(sess.Exercises)
	}
	if len(sessions) > 0 {
		s.From = sessions[len(sessions)-1].Date
		s.To = sessions[0].Date
	}
	return s
}
