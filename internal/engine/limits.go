package engine

import (
	"math"

	"github.com/AdamLt-GH/Fit-Logger/internal/types/challenge"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/exercise"
)

// MaxDurationDays caps how long any challenge window may run.
const MaxDurationDays = 365

// CheckHabitLimits rejects habit configurations whose total planned sessions
// could never fit the exercise's per-day cap.
func CheckHabitLimits(ex *exercise.Exercise, d challenge.HabitDetails) error {
	if d.FrequencyPerWeek < 1 || d.FrequencyPerWeek > 7 {
		return invalidInput("frequency_per_week must be between 1 and 7, got %d", d.FrequencyPerWeek)
	}
	if d.DurationWeeks < 1 {
		return invalidInput("duration_weeks must be at least 1, got %d", d.DurationWeeks)
	}
	if d.DurationWeeks*7 > MaxDurationDays {
		return invalidInput("duration_weeks must be at most %d weeks", MaxDurationDays/7)
	}
	totalSessions := d.FrequencyPerWeek * d.DurationWeeks
	maxAllowed := ex.MaxSessionsPerDay * 7 * d.DurationWeeks
	if totalSessions > maxAllowed {
		return invalidInput("total sessions (%d) exceed the maximum allowed (%d) for %s",
			totalSessions, maxAllowed, ex.Name)
	}
	return nil
}

// CheckTargetLimits rejects target configurations that are physically
// unreachable under the exercise's rate cap, or whose per-day average exceeds
// the session cap.
func CheckTargetLimits(ex *exercise.Exercise, d challenge.TargetDetails) error {
	if d.TargetValue < 1 {
		return invalidInput("target_value must be at least 1, got %d", d.TargetValue)
	}
	if d.DurationDays < 1 || d.DurationDays > MaxDurationDays {
		return invalidInput("duration_days must be between 1 and %d, got %d", MaxDurationDays, d.DurationDays)
	}
	avgPerDay := int(math.Ceil(float64(d.TargetValue) / float64(d.DurationDays)))
	if avgPerDay > ex.MaxSessionsPerDay {
		return invalidInput("target per day (%d) exceeds max per day (%d) for %s",
			avgPerDay, ex.MaxSessionsPerDay, ex.Name)
	}
	maxTotal := int(ex.MaxRatePerMinute * 24 * 60 * float64(d.DurationDays))
	if d.TargetValue > maxTotal {
		return invalidInput("target value (%d) exceeds the allowed maximum (%d) for %s",
			d.TargetValue, maxTotal, ex.Name)
	}
	return nil
}

// Summary condenses a new challenge proposal for duplicate and similarity
// checks against the existing catalog.
type Summary struct {
	Type        challenge.Type
	Category    exercise.Category
	ExerciseID  int64
	Frequency   int
	WeeksOrDays int
	TargetValue int
}

// Summarize builds the comparison summary for a create request. exCategory is
// the category of the referenced exercise.
func Summarize(req *challenge.CreateChallengeRequest, exCategory exercise.Category, exerciseID int64) Summary {
	s := Summary{Type: req.Type, Category: exCategory, ExerciseID: exerciseID}
	if req.Habit != nil {
		s.Frequency = req.Habit.FrequencyPerWeek
		s.WeeksOrDays = req.Habit.DurationWeeks
	}
	if req.Target != nil {
		s.TargetValue = req.Target.TargetValue
		s.WeeksOrDays = req.Target.DurationDays
	}
	return s
}

// SimilarityScore rates an existing challenge against a proposal; 0 means not
// comparable, higher means more alike.
func SimilarityScore(s Summary, existing *challenge.Challenge, existingCategory exercise.Category) int {
	if existing.Type != s.Type {
		return 0
	}
	score := 0
	if s.Category != "" && s.Category == existingCategory {
		score++
	}
	switch s.Type {
	case challenge.TypeHabit:
		if existing.Habit == nil {
			return 0
		}
		if abs(s.Frequency-existing.Habit.FrequencyPerWeek) <= 2 {
			score++
		}
		if abs(s.WeeksOrDays-existing.Habit.DurationWeeks) <= 5 {
			score++
		}
	case challenge.TypeTarget:
		if existing.Target == nil {
			return 0
		}
		if existing.Target.TargetValue > 0 {
			pctDiff := int(math.Round(math.Abs(float64(s.TargetValue-existing.Target.TargetValue)) /
				float64(existing.Target.TargetValue) * 100))
			if pctDiff <= 5 {
				score++
			}
		}
		if abs(s.WeeksOrDays-existing.Target.DurationDays) <= 5 {
			score++
		}
	}
	return score
}

// IsExactDuplicate reports whether an existing challenge has the exact same
// exercise and parameters as the proposal.
func IsExactDuplicate(s Summary, existing *challenge.Challenge) bool {
	if existing.Type != s.Type || existing.ExerciseID() != s.ExerciseID {
		return false
	}
	switch s.Type {
	case challenge.TypeHabit:
		return existing.Habit != nil &&
			existing.Habit.DurationWeeks == s.WeeksOrDays &&
			existing.Habit.FrequencyPerWeek == s.Frequency
	case challenge.TypeTarget:
		return existing.Target != nil &&
			existing.Target.DurationDays == s.WeeksOrDays &&
			existing.Target.TargetValue == s.TargetValue
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
