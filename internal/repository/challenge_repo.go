package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AdamLt-GH/Fit-Logger/internal/engine"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/challenge"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/participant"
)

type ChallengeRepository struct {
	pool *pgxpool.Pool
}

func NewChallengeRepository(pool *pgxpool.Pool) *ChallengeRepository {
	return &ChallengeRepository{pool: pool}
}

const challengeSelect = `
	SELECT c.id, c.creator_id, c.title, c.description, c.challenge_type, c.status,
	       c.threshold_percentage, c.trending_score, c.active_participant_count, c.created_at,
	       h.exercise_id, h.duration_weeks, h.frequency_per_week,
	       t.exercise_id, t.duration_days, t.target_value
	FROM challenges c
	LEFT JOIN habit_challenges h ON h.challenge_id = c.id
	LEFT JOIN target_challenges t ON t.challenge_id = c.id
`

func scanChallenge(row pgx.Row) (*challenge.Challenge, error) {
	var c challenge.Challenge
	var (
		habitExercise, habitWeeks, habitFreq    *int64
		targetExercise, targetDays, targetValue *int64
	)
	err := row.Scan(
		&c.ID, &c.CreatorID, &c.Title, &c.Description, &c.Type, &c.Status,
		&c.ThresholdPercentage, &c.TrendingScore, &c.ActiveParticipantCount, &c.CreatedAt,
		&habitExercise, &habitWeeks, &habitFreq,
		&targetExercise, &targetDays, &targetValue,
	)
	if err != nil {
		return nil, err
	}

	if habitExercise != nil {
		c.Habit = &challenge.HabitDetails{
			ExerciseID:       *habitExercise,
			DurationWeeks:    int(*habitWeeks),
			FrequencyPerWeek: int(*habitFreq),
		}
	}
	if targetExercise != nil {
		c.Target = &challenge.TargetDetails{
			ExerciseID:   *targetExercise,
			DurationDays: int(*targetDays),
			TargetValue:  int(*targetValue),
		}
	}
	if err := c.CheckVariant(); err != nil {
		return nil, fmt.Errorf("inconsistent challenge row: %w", err)
	}
	return &c, nil
}

// Create inserts the challenge, its detail variant and the creator's owner
// participant row in one transaction.
func (r *ChallengeRepository) Create(ctx context.Context, c *challenge.Challenge) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create challenge: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO challenges (id, creator_id, title, description, challenge_type, status,
		                        threshold_percentage, trending_score, active_participant_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.CreatorID, c.Title, c.Description, c.Type, c.Status,
		c.ThresholdPercentage, c.TrendingScore, 1, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert challenge: %w", err)
	}

	switch {
	case c.Habit != nil:
		_, err = tx.Exec(ctx, `
			INSERT INTO habit_challenges (challenge_id, exercise_id, duration_weeks, frequency_per_week)
			VALUES ($1, $2, $3, $4)`,
			c.ID, c.Habit.ExerciseID, c.Habit.DurationWeeks, c.Habit.FrequencyPerWeek,
		)
	case c.Target != nil:
		_, err = tx.Exec(ctx, `
			INSERT INTO target_challenges (challenge_id, exercise_id, duration_days, target_value)
			VALUES ($1, $2, $3, $4)`,
			c.ID, c.Target.ExerciseID, c.Target.DurationDays, c.Target.TargetValue,
		)
	}
	if err != nil {
		return fmt.Errorf("insert challenge details: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO participants (id, challenge_id, user_id, role, state, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), c.ID, c.CreatorID, participant.RoleOwner, participant.StateActive, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert owner participant: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *ChallengeRepository) GetByID(ctx context.Context, id uuid.UUID) (*challenge.Challenge, error) {
	c, err := scanChallenge(r.pool.QueryRow(ctx, challengeSelect+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, engine.ErrChallengeNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListPublished returns published, non-deleted challenges, oldest first, with
// optional category/duration filters and active-participation exclusion.
func (r *ChallengeRepository) ListPublished(ctx context.Context, f challenge.ListFilter) ([]challenge.Challenge, error) {
	query := challengeSelect + `
		LEFT JOIN exercises he ON he.id = h.exercise_id
		LEFT JOIN exercises te ON te.id = t.exercise_id
		WHERE c.status = 'published'`
	args := []any{}

	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(` AND (he.category = $%d OR te.category = $%d)`, len(args), len(args))
	}
	if f.MinDuration > 0 {
		args = append(args, f.MinDuration)
		query += fmt.Sprintf(` AND (h.duration_weeks >= $%d OR t.duration_days >= $%d)`, len(args), len(args))
	}
	if f.MaxDuration > 0 {
		args = append(args, f.MaxDuration)
		query += fmt.Sprintf(` AND (h.duration_weeks <= $%d OR t.duration_days <= $%d)`, len(args), len(args))
	}
	if f.ExcludeUserID != uuid.Nil {
		args = append(args, f.ExcludeUserID)
		query += fmt.Sprintf(` AND NOT EXISTS (
			SELECT 1 FROM participants p
			WHERE p.challenge_id = c.id AND p.user_id = $%d AND p.state = 'active')`, len(args))
	}
	query += ` ORDER BY c.created_at, c.id`

	return r.queryMany(ctx, query, args...)
}

// ListByType returns every non-deleted challenge of one type, used for
// duplicate and similarity scoring at creation time.
func (r *ChallengeRepository) ListByType(ctx context.Context, t challenge.Type) ([]challenge.Challenge, error) {
	query := challengeSelect + ` WHERE c.status <> 'deleted' AND c.challenge_type = $1 ORDER BY c.created_at, c.id`
	return r.queryMany(ctx, query, t)
}

// ListForUser returns challenges the user has a participant row in, optionally
// filtered by participation state.
func (r *ChallengeRepository) ListForUser(ctx context.Context, userID uuid.UUID, state participant.State) ([]challenge.Challenge, error) {
	query := challengeSelect + `
		JOIN participants p ON p.challenge_id = c.id
		WHERE p.user_id = $1 AND c.status <> 'deleted'`
	args := []any{userID}
	if state != "" {
		args = append(args, state)
		query += ` AND p.state = $2`
	}
	query += ` ORDER BY c.created_at, c.id`
	return r.queryMany(ctx, query, args...)
}

func (r *ChallengeRepository) queryMany(ctx context.Context, query string, args ...any) ([]challenge.Challenge, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []challenge.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *ChallengeRepository) Update(ctx context.Context, c *challenge.Challenge) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update challenge: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE challenges
		SET title = $2, description = $3, threshold_percentage = $4
		WHERE id = $1 AND status <> 'deleted'`,
		c.ID, c.Title, c.Description, c.ThresholdPercentage,
	)
	if err != nil {
		return fmt.Errorf("update challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return engine.ErrChallengeNotFound
	}

	switch {
	case c.Habit != nil:
		_, err = tx.Exec(ctx, `
			UPDATE habit_challenges
			SET exercise_id = $2, duration_weeks = $3, frequency_per_week = $4
			WHERE challenge_id = $1`,
			c.ID, c.Habit.ExerciseID, c.Habit.DurationWeeks, c.Habit.FrequencyPerWeek,
		)
	case c.Target != nil:
		_, err = tx.Exec(ctx, `
			UPDATE target_challenges
			SET exercise_id = $2, duration_days = $3, target_value = $4
			WHERE challenge_id = $1`,
			c.ID, c.Target.ExerciseID, c.Target.DurationDays, c.Target.TargetValue,
		)
	}
	if err != nil {
		return fmt.Errorf("update challenge details: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *ChallengeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status challenge.Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE challenges SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return engine.ErrChallengeNotFound
	}
	return nil
}

// SoftDelete marks the challenge deleted. Participant and progress rows stay
// behind for audit but become unreachable through the API.
func (r *ChallengeRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.UpdateStatus(ctx, id, challenge.StatusDeleted)
}

func (r *ChallengeRepository) UpdateTrendingScore(ctx context.Context, id uuid.UUID, score, activeCount int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE challenges SET trending_score = $2, active_participant_count = $3 WHERE id = $1`,
		id, score, activeCount,
	)
	return err
}
