package store

import (
	"sort"
	"strings"
	"time"

	"github.com/claude/fitlog/internal/models"
)

// Thresholds for the plateau-or-big-jump personal record rule. A new
// best only counts as a PR when the old record is stale or the jump is
// large, so trivial micro-increments stay quiet.
const (
	prStaleDays = 14
	prBigJump   = 5.0
)

// recentWindow bounds the RecentMachines scan.
const recentWindow = 14 * 24 * time.Hour

// Machines returns every distinct machine name ever logged, sorted.
// Names are deduplicated case-insensitively, keeping the casing of the
// most recent occurrence.
func (s *Store) Machines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	var names []string
	for _, sess := range s.sessions {
		for _, ex := range sess.Exercises {
			key := strings.ToLower(ex.Machine)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			names = append(names, ex.Machine)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// LastExercise returns the most recently logged exercise on the named
// machine. The session list is date descending, so the first match wins.
func (s *Store) LastExercise(name string) (models.Exercise, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions {
		for _, ex := range sess.Exercises {
			if ex.MatchesMachine(name) {
				return ex, true
			}
		}
	}
	return models.Exercise{}, false
}

// MachineSuggestions returns up to 5 distinct machines whose name
// contains query, each with its most recently seen category and weight,
// ordered by first occurrence scanning from the most recent session.
func (s *Store) MachineSuggestions(query string) []models.MachineSuggestion {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	seen := make(map[string]struct{})
	var out []models.MachineSuggestion
	for _, sess := range s.sessions {
		for _, ex := range sess.Exercises {
			key := strings.ToLower(ex.Machine)
			if !strings.Contains(key, q) {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, models.MachineSuggestion{
				Machine:  ex.Machine,
				Category: ex.Category,
				Weight:   ex.Weight,
			})
			if len(out) == 5 {
				return out
			}
		}
	}
	return out
}

// MachineHistory returns every logged occurrence of a machine in
// chronological ascending order, oldest first.
func (s *Store) MachineHistory(name string) []models.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []models.HistoryEntry
	for _, sess := range s.sessions {
		for _, ex := range sess.Exercises {
			if ex.MatchesMachine(name) {
				entries = append(entries, models.HistoryEntry{Date: sess.Date, Exercise: ex})
			}
		}
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}

// PersonalRecordFor returns the heaviest weight ever logged on a
// machine. Only a strictly greater weight replaces the running best, so
// on ties the most recent occurrence wins (the scan is date descending).
func (s *Store) PersonalRecordFor(name string) (models.MachineRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.personalRecordLocked(name)
}

func (s *Store) personalRecordLocked(name string) (models.MachineRecord, bool) {
	var best models.MachineRecord
	found := false
	for _, sess := range s.sessions {
		for _, ex := range sess.Exercises {
			if !ex.MatchesMachine(name) {
				continue
			}
			if !found || ex.Weight > best.Weight {
				best = models.MachineRecord{
					Machine:  ex.Machine,
					Category: ex.Category,
					Weight:   ex.Weight,
					Date:     sess.Date,
				}
				found = true
			}
		}
	}
	return best, found
}

// CheckForPRs compares freshly logged exercises against the historical
// record for each machine and returns the ones that qualify as personal
// records. Cardio and sports entries never qualify, nor do non-positive
// weights. A first-ever record always qualifies; an improvement only
// qualifies when the old record is more than prStaleDays old or the
// jump is at least prBigJump weight units.
//
// Call this BEFORE adding the new session, or the new weights will
// already be the record they are compared against.
func (s *Store) CheckForPRs(newExercises []models.Exercise) []models.PersonalRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	today := now.Format(models.DateLayout)

	var prs []models.PersonalRecord
	for _, ex := range newExercises {
		if !ex.Category.CountsForVolume() || ex.Weight <= 0 {
			continue
		}
		prior, ok := s.personalRecordLocked(ex.Machine)
		if !ok {
			prs = append(prs, models.PersonalRecord{
				Machine:  ex.Machine,
				Category: ex.Category,
				Weight:   ex.Weight,
				Date:     today,
			})
			continue
		}
		if ex.Weight <= prior.Weight {
			continue
		}
		priorDay, err := time.Parse(models.DateLayout, prior.Date)
		stale := err == nil && now.Sub(priorDay) > prStaleDays*24*time.Hour
		bigJump := ex.Weight-prior.Weight >= prBigJump
		if stale || bigJump {
			prev := prior.Weight
			prs = append(prs, models.PersonalRecord{
				Machine:        ex.Machine,
				Category:       ex.Category,
				Weight:         ex.Weight,
				Date:           today,
				PreviousWeight: &prev,
			})
		}
	}
	return prs
}

// WeeklyStats aggregates the current ISO week (Monday start) and
// compares its training volume against the previous week. Volume is
// weight by sets by reps over strength exercises; cardio and sports
// still count toward sets, reps, and the exercise count.
func (s *Store) WeeklyStats() models.WeeklyStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	weekStart := models.WeekStart(s.now())
	weekEnd := weekStart.AddDate(0, 0, 7)
	prevStart := weekStart.AddDate(0, 0, -7)

	var stats models.WeeklyStats
	for _, sess := range s.sessions {
		day := sess.Day()
		if day.IsZero() {
			continue
		}
		switch {
		case !day.Before(weekStart) && day.Before(weekEnd):
			stats.WorkoutCount++
			for _, ex := range sess.Exercises {
				stats.ExerciseCount++
				stats.TotalSets += ex.Sets
				stats.TotalReps += ex.Sets * ex.Reps // total rep count across all sets
				if ex.Category.CountsForVolume() {
					stats.Volume += ex.Weight * float64(ex.Sets) * float64(ex.Reps)
				}
			}
		case !day.Before(prevStart) && day.Before(weekStart):
			for _, ex := range sess.Exercises {
				if ex.Category.CountsForVolume() {
					stats.PreviousVolume += ex.Weight * float64(ex.Sets) * float64(ex.Reps)
				}
			}
		}
	}
	stats.Delta = stats.Volume - stats.PreviousVolume
	return stats
}

// Streak reports consecutive ISO weeks meeting the weekly session goal.
// The current week anchors the streak if it already meets the goal;
// otherwise the previous week anchors it if that one met the goal, a
// grace period for the week still in progress.
func (s *Store) Streak() models.StreakInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	counts := make(map[string]int)
	var oldest time.Time
	for _, sess := range s.sessions {
		day := sess.Day()
		if day.IsZero() {
			continue
		}
		counts[models.WeekKey(day)]++
		if oldest.IsZero() || day.Before(oldest) {
			oldest = day
		}
	}

	info := models.StreakInfo{
		WeeklyGoal:    WeeklyGoal,
		ThisWeekCount: counts[models.WeekKey(now)],
	}
	if len(counts) == 0 {
		return info
	}

	anchor := models.WeekStart(now)
	if counts[models.WeekKey(anchor)] < WeeklyGoal {
		anchor = anchor.AddDate(0, 0, -7)
	}
	for counts[models.WeekKey(anchor)] >= WeeklyGoal {
		info.CurrentWeeks++
		anchor = anchor.AddDate(0, 0, -7)
	}

	run := 0
	for cursor, end := models.WeekStart(oldest), models.WeekStart(now); !cursor.After(end); cursor = cursor.AddDate(0, 0, 7) {
		if counts[models.WeekKey(cursor)] >= WeeklyGoal {
			run++
			if run > info.LongestWeeks {
				info.LongestWeeks = run
			}
		} else {
			run = 0
		}
	}
	return info
}

// FrequentMachines ranks distinct machines by total occurrence count,
// descending, top 10. Ties keep most-recent-first scan order.
func (s *Store) FrequentMachines() []models.MachineCount {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	var order []string
	casing := make(map[string]string)
	for _, sess := range s.sessions {
		for _, ex := range sess.Exercises {
			key := strings.ToLower(ex.Machine)
			if counts[key] == 0 {
				order = append(order, key)
				casing[key] = ex.Machine
			}
			counts[key]++
		}
	}

	out := make([]models.MachineCount, 0, len(order))
	for _, key := range order {
		out = append(out, models.MachineCount{Machine: casing[key], Count: counts[key]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// RecentMachines returns distinct machines logged within the last 14
// days, most recent first, top 8. The scan stops at the first session
// older than the cutoff, relying on the descending sort invariant.
func (s *Store) RecentMachines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-recentWindow)
	seen := make(map[string]struct{})
	var out []string
	for _, sess := range s.sessions {
		day := sess.Day()
		if day.Before(cutoff) {
			break
		}
		for _, ex := range sess.Exercises {
			key := strings.ToLower(ex.Machine)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, ex.Machine)
			if len(out) == 8 {
				return out
			}
		}
	}
	return out
}
