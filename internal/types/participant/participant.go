package participant

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOwner       Role = "owner"
	RoleParticipant Role = "participant"
)

type State string

const (
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateLeft      State = "left"
)

// Participant ties a user to a challenge. One row per (challenge, user); a row
// outlives a leave so progress history stays queryable.
type Participant struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ChallengeID uuid.UUID `json:"challenge_id" db:"challenge_id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Role        Role      `json:"role" db:"role"`
	State       State     `json:"state" db:"state"`
	JoinedAt    time.Time `json:"joined_at" db:"joined_at"`
}

// Summary is the per-participant figure shown on a challenge detail view.
type Summary struct {
	UserID             uuid.UUID `json:"user_id"`
	Role               Role      `json:"role"`
	State              State     `json:"state"`
	JoinedAt           time.Time `json:"joined_at"`
	TotalProgress      int       `json:"total_progress"`
	ProgressPercentage float64   `json:"progress_percentage"`
	Succeeded          bool      `json:"succeeded"`
}

// LeaveResult reports whether leaving tore the challenge down. When
// ChallengeDeleted is true the caller must not read the challenge again.
type LeaveResult struct {
	ChallengeDeleted bool `json:"challenge_deleted"`
}
