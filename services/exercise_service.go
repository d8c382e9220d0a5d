package services

import (
	"context"
	"fmt"

	"github.com/AdamLt-GH/Fit-Logger/internal/engine"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/exercise"
)

// ExerciseService manages the catalog. Admin gating happens in the handler;
// this layer only validates the data.
type ExerciseService struct {
	exercises exerciseStore
}

func NewExerciseService(exercises exerciseStore) *ExerciseService {
	return &ExerciseService{exercises: exercises}
}

func (s *ExerciseService) Create(ctx context.Context, req *exercise.UpsertExerciseRequest) (*exercise.Exercise, error) {
	if msg := req.Validate(); msg != "" {
		return nil, engine.InvalidInput("%s", msg)
	}
	ex, err := s.exercises.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}
	return ex, nil
}

func (s *ExerciseService) Get(ctx context.Context, id int64) (*exercise.Exercise, error) {
	return s.exercises.GetByID(ctx, id)
}

func (s *ExerciseService) List(ctx context.Context) ([]exercise.Exercise, error) {
	return s.exercises.List(ctx)
}

func (s *ExerciseService) Update(ctx context.Context, id int64, req *exercise.UpsertExerciseRequest) (*exercise.Exercise, error) {
	if msg := req.Validate(); msg != "" {
		return nil, engine.InvalidInput("%s", msg)
	}
	ex, err := s.exercises.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	return ex, nil
}

func (s *ExerciseService) Delete(ctx context.Context, id int64) error {
	return s.exercises.Delete(ctx, id)
}
