package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AdamLt-GH/Fit-Logger/internal/engine"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/participant"
)

type ParticipantRepository struct {
	db DBTX
}

func NewParticipantRepository(db DBTX) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

const participantColumns = `id, challenge_id, user_id, role, state, joined_at`

func (r *ParticipantRepository) Create(ctx context.Context, p *participant.Participant) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO participants (id, challenge_id, user_id, role, state, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.ChallengeID, p.UserID, p.Role, p.State, p.JoinedAt,
	)
	return err
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id uuid.UUID) (*participant.Participant, error) {
	return r.getOne(ctx, `SELECT `+participantColumns+` FROM participants WHERE id = $1`, id)
}

func (r *ParticipantRepository) GetByChallengeAndUser(ctx context.Context, challengeID, userID uuid.UUID) (*participant.Participant, error) {
	return r.getOne(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE challenge_id = $1 AND user_id = $2`,
		challengeID, userID,
	)
}

func (r *ParticipantRepository) getOne(ctx context.Context, query string, args ...any) (*participant.Participant, error) {
	var p participant.Participant
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.ChallengeID, &p.UserID, &p.Role, &p.State, &p.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, engine.ErrParticipantNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ParticipantRepository) UpdateState(ctx context.Context, id uuid.UUID, state participant.State) error {
	tag, err := r.db.Exec(ctx, `UPDATE participants SET state = $2 WHERE id = $1`, id, state)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return engine.ErrParticipantNotFound
	}
	return nil
}

// Reactivate flips a left participant back to active with a fresh joined_at.
func (r *ParticipantRepository) Reactivate(ctx context.Context, id uuid.UUID, joinedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE participants SET state = $2, joined_at = $3 WHERE id = $1`,
		id, participant.StateActive, joinedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return engine.ErrParticipantNotFound
	}
	return nil
}

func (r *ParticipantRepository) CountActive(ctx context.Context, challengeID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM participants WHERE challenge_id = $1 AND state = 'active'`,
		challengeID,
	).Scan(&count)
	return count, err
}

func (r *ParticipantRepository) ListByChallenge(ctx context.Context, challengeID uuid.UUID) ([]participant.Participant, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE challenge_id = $1 ORDER BY joined_at, id`,
		challengeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []participant.Participant
	for rows.Next() {
		var p participant.Participant
		if err := rows.Scan(&p.ID, &p.ChallengeID, &p.UserID, &p.Role, &p.State, &p.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
