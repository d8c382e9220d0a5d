package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AdamLt-GH/Fit-Logger/internal/types/progress"
)

// ProgressRepository is the append-only progress ledger. Entries are never
// updated or deleted; the owning challenge's soft delete is the only thing
// that hides them.
type ProgressRepository struct {
	db DBTX
}

func NewProgressRepository(db DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Append stores an accepted entry and fills in its id and server timestamp.
func (r *ProgressRepository) Append(ctx context.Context, e *progress.Entry) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO progress_entries (participant_id, challenge_id, user_id, progress_value, duration_minutes, notes, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, logged_at`,
		e.ParticipantID, e.ChallengeID, e.UserID, e.ProgressValue, e.DurationMinutes, e.Notes,
	).Scan(&e.ID, &e.LoggedAt)
}

// CountOnDay counts accepted entries for a participant whose logged_at falls
// on the same calendar day as ref, in the server's time zone. Call it inside
// the same critical section as Append.
func (r *ProgressRepository) CountOnDay(ctx context.Context, participantID uuid.UUID, ref time.Time) (int, error) {
	dayStart := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM progress_entries
		WHERE participant_id = $1 AND logged_at >= $2 AND logged_at < $3`,
		participantID, dayStart, dayEnd,
	).Scan(&count)
	return count, err
}

// History returns a participant's entries newest first, insertion order as the
// stable tiebreak. The query can be re-issued any number of times.
func (r *ProgressRepository) History(ctx context.Context, participantID uuid.UUID) ([]progress.Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, participant_id, challenge_id, user_id, progress_value, duration_minutes, notes, logged_at
		FROM progress_entries
		WHERE participant_id = $1
		ORDER BY logged_at DESC, id ASC`,
		participantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []progress.Entry
	for rows.Next() {
		var e progress.Entry
		if err := rows.Scan(&e.ID, &e.ParticipantID, &e.ChallengeID, &e.UserID,
			&e.ProgressValue, &e.DurationMinutes, &e.Notes, &e.LoggedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ProgressRepository) TotalForParticipant(ctx context.Context, participantID uuid.UUID) (int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(progress_value), 0) FROM progress_entries WHERE participant_id = $1`,
		participantID,
	).Scan(&total)
	return total, err
}

func (r *ProgressRepository) TotalForChallenge(ctx context.Context, challengeID uuid.UUID) (int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(progress_value), 0) FROM progress_entries WHERE challenge_id = $1`,
		challengeID,
	).Scan(&total)
	return total, err
}
