package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/AdamLt-GH/Fit-Logger/internal/engine"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/exercise"
)

type ExerciseRepository struct {
	db DBTX
}

func NewExerciseRepository(db DBTX) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

const exerciseColumns = `id, name, max_sessions_per_day, max_rate_per_minute, unit_type, category`

func (r *ExerciseRepository) Create(ctx context.Context, req *exercise.UpsertExerciseRequest) (*exercise.Exercise, error) {
	query := `
		INSERT INTO exercises (name, max_sessions_per_day, max_rate_per_minute, unit_type, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + exerciseColumns

	var ex exercise.Exercise
	err := r.db.QueryRow(ctx, query,
		req.Name, req.MaxSessionsPerDay, req.MaxRatePerMinute, req.UnitType, req.Category,
	).Scan(&ex.ID, &ex.Name, &ex.MaxSessionsPerDay, &ex.MaxRatePerMinute, &ex.UnitType, &ex.Category)
	if err != nil {
		return nil, err
	}
	return &ex, nil
}

func (r *ExerciseRepository) GetByID(ctx context.Context, id int64) (*exercise.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE id = $1`

	var ex exercise.Exercise
	err := r.db.QueryRow(ctx, query, id).Scan(
		&ex.ID, &ex.Name, &ex.MaxSessionsPerDay, &ex.MaxRatePerMinute, &ex.UnitType, &ex.Category,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, engine.ErrExerciseNotFound
		}
		return nil, err
	}
	return &ex, nil
}

func (r *ExerciseRepository) List(ctx context.Context) ([]exercise.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []exercise.Exercise
	for rows.Next() {
		var ex exercise.Exercise
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.MaxSessionsPerDay, &ex.MaxRatePerMinute, &ex.UnitType, &ex.Category); err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

func (r *ExerciseRepository) Update(ctx context.Context, id int64, req *exercise.UpsertExerciseRequest) (*exercise.Exercise, error) {
	query := `
		UPDATE exercises
		SET name = $2, max_sessions_per_day = $3, max_rate_per_minute = $4, unit_type = $5, category = $6
		WHERE id = $1
		RETURNING ` + exerciseColumns

	var ex exercise.Exercise
	err := r.db.QueryRow(ctx, query,
		id, req.Name, req.MaxSessionsPerDay, req.MaxRatePerMinute, req.UnitType, req.Category,
	).Scan(&ex.ID, &ex.Name, &ex.MaxSessionsPerDay, &ex.MaxRatePerMinute, &ex.UnitType, &ex.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, engine.ErrExerciseNotFound
		}
		return nil, err
	}
	return &ex, nil
}

func (r *ExerciseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return engine.ErrExerciseNotFound
	}
	return nil
}
