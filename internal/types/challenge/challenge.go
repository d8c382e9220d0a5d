package challenge

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AdamLt-GH/Fit-Logger/internal/types/exercise"
)

type Type string

const (
	TypeHabit  Type = "habit"
	TypeTarget Type = "target"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusCompleted Status = "completed"
	StatusDeleted   Status = "deleted"
)

// HabitDetails describes a weekly-frequency commitment over a number of weeks.
type HabitDetails struct {
	ExerciseID       int64 `json:"exercise_id" db:"exercise_id"`
	DurationWeeks    int   `json:"duration_weeks" db:"duration_weeks"`
	FrequencyPerWeek int   `json:"frequency_per_week" db:"frequency_per_week"`
}

// TargetDetails describes a cumulative volume goal over a number of days.
type TargetDetails struct {
	ExerciseID   int64 `json:"exercise_id" db:"exercise_id"`
	DurationDays int   `json:"duration_days" db:"duration_days"`
	TargetValue  int   `json:"target_value" db:"target_value"`
}

// Challenge is a discriminated record: exactly one of Habit or Target is set,
// matching Type. Construct through NewHabit/NewTarget, which enforce the
// variant invariant.
type Challenge struct {
	ID                     uuid.UUID      `json:"id" db:"id"`
	CreatorID              uuid.UUID      `json:"creator_id" db:"creator_id"`
	Title                  string         `json:"title" db:"title"`
	Description            string         `json:"description" db:"description"`
	Type                   Type           `json:"challenge_type" db:"challenge_type"`
	Status                 Status         `json:"status" db:"status"`
	ThresholdPercentage    int            `json:"threshold_percentage" db:"threshold_percentage"`
	TrendingScore          int            `json:"trending_score" db:"trending_score"`
	ActiveParticipantCount int            `json:"active_participant_count" db:"active_participant_count"`
	CreatedAt              time.Time      `json:"created_at" db:"created_at"`
	Habit                  *HabitDetails  `json:"habit_details,omitempty"`
	Target                 *TargetDetails `json:"target_details,omitempty"`
}

func NewHabit(creatorID uuid.UUID, title, description string, threshold int, details HabitDetails) (*Challenge, error) {
	c := &Challenge{
		ID:                  uuid.New(),
		CreatorID:           creatorID,
		Title:               title,
		Description:         description,
		Type:                TypeHabit,
		Status:              StatusPublished,
		ThresholdPercentage: threshold,
		CreatedAt:           time.Now(),
		Habit:               &details,
	}
	return c, c.CheckVariant()
}

func NewTarget(creatorID uuid.UUID, title, description string, threshold int, details TargetDetails) (*Challenge, error) {
	c := &Challenge{
		ID:                  uuid.New(),
		CreatorID:           creatorID,
		Title:               title,
		Description:         description,
		Type:                TypeTarget,
		Status:              StatusPublished,
		ThresholdPercentage: threshold,
		CreatedAt:           time.Now(),
		Target:              &details,
	}
	return c, c.CheckVariant()
}

// CheckVariant enforces that the populated detail record matches Type and the
// other one is absent.
func (c *Challenge) CheckVariant() error {
	switch c.Type {
	case TypeHabit:
		if c.Habit == nil || c.Target != nil {
			return fmt.Errorf("habit challenge %s must carry habit details only", c.ID)
		}
	case TypeTarget:
		if c.Target == nil || c.Habit != nil {
			return fmt.Errorf("target challenge %s must carry target details only", c.ID)
		}
	default:
		return fmt.Errorf("unknown challenge type %q", c.Type)
	}
	return nil
}

// ExerciseID returns the exercise referenced by whichever detail variant is set.
func (c *Challenge) ExerciseID() int64 {
	if c.Habit != nil {
		return c.Habit.ExerciseID
	}
	if c.Target != nil {
		return c.Target.ExerciseID
	}
	return 0
}

// DurationDays is the length of the challenge window in days, weeks converted
// for habit challenges.
func (c *Challenge) DurationDays() int {
	if c.Habit != nil {
		return c.Habit.DurationWeeks * 7
	}
	if c.Target != nil {
		return c.Target.DurationDays
	}
	return 0
}

// EndsAt is created_at plus the challenge duration.
func (c *Challenge) EndsAt() time.Time {
	return c.CreatedAt.AddDate(0, 0, c.DurationDays())
}

type CreateChallengeRequest struct {
	Title               string         `json:"title"`
	Description         string         `json:"description"`
	Type                Type           `json:"challenge_type"`
	ThresholdPercentage int            `json:"threshold_percentage"`
	ForceCreate         bool           `json:"force_create"`
	Habit               *HabitDetails  `json:"habit_details,omitempty"`
	Target              *TargetDetails `json:"target_details,omitempty"`
}

type UpdateChallengeRequest struct {
	Title               *string        `json:"title,omitempty"`
	Description         *string        `json:"description,omitempty"`
	ThresholdPercentage *int           `json:"threshold_percentage,omitempty"`
	Habit               *HabitDetails  `json:"habit_details,omitempty"`
	Target              *TargetDetails `json:"target_details,omitempty"`
}

// ListFilter narrows the published challenge listing.
type ListFilter struct {
	Category      exercise.Category
	MinDuration   int
	MaxDuration   int
	ExcludeUserID uuid.UUID // skip challenges this user actively participates in
}

// SimilarMatch is returned when a new challenge closely resembles an existing one.
type SimilarMatch struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Score int       `json:"score"`
}
