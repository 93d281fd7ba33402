package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for session dates.
// Sessions carry no time component.
const DateLayout = "2006-01-02"

// Category classifies an exercise by muscle group or activity type.
type Category string

const (
	CategoryLegs      Category = "legs"
	CategoryBack      Category = "back"
	CategoryChest     Category = "chest"
	CategoryShoulders Category = "shoulders"
	CategoryArms      Category = "arms"
	CategoryCore      Category = "core"
	CategoryCardio    Category = "cardio"
	CategorySports    Category = "sports"
)

// Categories lists all valid categories in display order.
var Categories = []Category{
	CategoryLegs, CategoryBack, CategoryChest, CategoryShoulders,
	CategoryArms, CategoryCore, CategoryCardio, CategorySports,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// CountsForVolume reports whether exercises in this category contribute
// weight×sets×reps to training volume. Cardio and sports use the weight
// field for other meanings (speed level, handicap) and are excluded.
func (c Category) CountsForVolume() bool {
	return c != CategoryCardio && c != CategorySports
}

// Feeling is the subjective difficulty the user logged for an exercise.
type Feeling string

const (
	FeelingTooEasy   Feeling = "too_easy"
	FeelingJustRight Feeling = "just_right"
	FeelingTooHard   Feeling = "too_hard"
)

// CardioDetail holds the extra fields logged for cardio exercises.
type CardioDetail struct {
	Minutes  float64 `json:"minutes"`
	Speed    float64 `json:"speed"`
	Incline  float64 `json:"incline"`
	Calories float64 `json:"calories"`
}

// Exercise is one logged machine or movement within a session.
// Machine names are free text: casing is preserved as entered but all
// lookups compare case-insensitively.
type Exercise struct {
	ID       string        `json:"id"`
	Machine  string        `json:"machine"`
	Category Category      `json:"category"`
	Weight   float64       `json:"weight"`
	Sets     int           `json:"sets"`
	Reps     int           `json:"reps"`
	Feeling  Feeling       `json:"feeling"`
	Notes    string        `json:"notes,omitempty"`
	Cardio   *CardioDetail `json:"cardio,omitempty"`
}

// MatchesMachine reports whether the exercise was logged on the named
// machine, compared case-insensitively.
func (e Exercise) MatchesMachine(name string) bool {
	return strings.EqualFold(e.Machine, name)
}

// WorkoutSession is one logged workout: a dated, ordered list of exercises.
// Exercise order is insertion order and is preserved.
type WorkoutSession struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`
	Exercises []Exercise `json:"exercises"`
	Duration  *int       `json:"duration,omitempty"` // minutes
}

// Day parses the session date. The zero time is returned for malformed
// dates so aggregations can skip them without branching on errors.
func (s WorkoutSession) Day() time.Time {
	t, err := time.Parse(DateLayout, s.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// TemplateExercise is one entry of a reusable workout template, carrying
// the defaults to prefill when the template is applied.
type TemplateExercise struct {
	Machine       string   `json:"machine"`
	Category      Category `json:"category"`
	DefaultWeight float64  `json:"defaultWeight"`
	DefaultSets   int      `json:"defaultSets"`
	DefaultReps   int      `json:"defaultReps"`
}

// WorkoutTemplate is a named, reusable exercise list. Templates live only
// in the local cache and are never synced to the remote store.
type WorkoutTemplate struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Exercises []TemplateExercise `json:"exercises"`
	CreatedAt time.Time          `json:"createdAt"`
}

// MachineRecord is the best weight ever logged for a machine.
type MachineRecord struct {
	Machine  string   `json:"machine"`
	Category Category `json:"category"`
	Weight   float64  `json:"weight"`
	Date     string   `json:"date"`
}

// PersonalRecord is a newly logged weight recognized as a meaningful
// improvement. Derived, never persisted.
type PersonalRecord struct {
	Machine        string   `json:"machine"`
	Category       Category `json:"category"`
	Weight         float64  `json:"weight"`
	Date           string   `json:"date"`
	PreviousWeight *float64 `json:"previousWeight"`
}

// WeeklyStats aggregates the current ISO week (Monday-start) and compares
// its volume against the previous week.
type WeeklyStats struct {
	Volume         float64 `json:"volume"`
	TotalSets      int     `json:"totalSets"`
	TotalReps      int     `json:"totalReps"`
	ExerciseCount  int     `json:"exerciseCount"`
	WorkoutCount   int     `json:"workoutCount"`
	PreviousVolume float64 `json:"previousVolume"`
	Delta          float64 `json:"delta"`
}

// StreakInfo reports how many consecutive ISO weeks met the weekly
// session goal.
type StreakInfo struct {
	CurrentWeeks  int `json:"currentWeeks"`
	LongestWeeks  int `json:"longestWeeks"`
	WeeklyGoal    int `json:"weeklyGoal"`
	ThisWeekCount int `json:"thisWeekCount"`
}

// MachineSuggestion is an autocomplete candidate with the most recently
// logged category and weight for the machine.
type MachineSuggestion struct {
	Machine  string   `json:"machine"`
	Category Category `json:"category"`
	Weight   float64  `json:"weight"`
}

// HistoryEntry is one occurrence of a machine in the log.
type HistoryEntry struct {
	Date     string   `json:"date"`
	Exercise Exercise `json:"exercise"`
}

// MachineCount ranks a machine by how often it was logged.
type MachineCount struct {
	Machine string `json:"machine"`
	Count   int    `json:"count"`
}

// WeekStart returns the Monday 00:00 of t's ISO week, in t's location.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekKey returns a stable identity for t's ISO week (Thursday-anchored
// per ISO 8601), e.g. "2026-W35".
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
