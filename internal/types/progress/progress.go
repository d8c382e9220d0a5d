package progress

import (
	"time"

	"github.com/google/uuid"

	"github.com/AdamLt-GH/Fit-Logger/internal/types/participant"
)

// Entry is one logged progress record. Entries are append-only: never mutated
// or deleted by normal flow.
type Entry struct {
	ID              int64     `json:"id" db:"id"`
	ParticipantID   uuid.UUID `json:"participant_id" db:"participant_id"`
	ChallengeID     uuid.UUID `json:"challenge_id" db:"challenge_id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	ProgressValue   int       `json:"progress_value" db:"progress_value"`
	DurationMinutes float64   `json:"duration_minutes" db:"duration_minutes"`
	Notes           string    `json:"notes,omitempty" db:"notes"`
	LoggedAt        time.Time `json:"logged_at" db:"logged_at"`
}

type LogEntryRequest struct {
	ChallengeID     uuid.UUID `json:"challenge_id"`
	ProgressValue   int       `json:"progress_value"`
	DurationMinutes float64   `json:"duration_minutes"`
	Notes           string    `json:"notes,omitempty"`
}

// ParticipantProgress is the derived, never-stored progress view for one
// participant.
type ParticipantProgress struct {
	ParticipantID      uuid.UUID         `json:"participant_id"`
	TotalProgress      int               `json:"total_progress"`
	ProgressPercentage float64           `json:"progress_percentage"`
	State              participant.State `json:"state"`
	Succeeded          bool              `json:"succeeded"`
}

// ChallengeProgress is the challenge-level view: the representative percentage
// is how far through the challenge window we are.
type ChallengeProgress struct {
	ChallengeID        uuid.UUID             `json:"challenge_id"`
	ProgressPercentage float64               `json:"progress_percentage"`
	DaysRemaining      int                   `json:"days_remaining"`
	Participants       []participant.Summary `json:"participants"`
}
