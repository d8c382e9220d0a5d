package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/AdamLt-GH/Fit-Logger/internal/engine"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/challenge"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/exercise"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/participant"
)

// ErrNotCreator rejects update/delete attempts by anyone but the creator.
var ErrNotCreator = errors.New("only the creator may perform this action")

// topSimilarLimit caps how many similar challenges a duplicate alert reports.
const topSimilarLimit = 3

// DuplicateError rejects a creation that matches existing challenges. Matches
// is empty for an exact duplicate and carries scored candidates otherwise.
type DuplicateError struct {
	Message string                   `json:"message"`
	Matches []challenge.SimilarMatch `json:"matches,omitempty"`
}

func (e *DuplicateError) Error() string { return e.Message }

// ChallengeService owns the challenge and participant lifecycle: creation with
// limit and duplicate validation, join, leave and the cascade delete.
type ChallengeService struct {
	challenges   challengeStore
	participants participantStore
	progress     progressStore
	exercises    exerciseStore
	locks        *ChallengeLocks
}

func NewChallengeService(
	challenges challengeStore,
	participants participantStore,
	progress progressStore,
	exercises exerciseStore,
	locks *ChallengeLocks,
) *ChallengeService {
	return &ChallengeService{
		challenges:   challenges,
		participants: participants,
		progress:     progress,
		exercises:    exercises,
		locks:        locks,
	}
}

func (s *ChallengeService) Create(ctx context.Context, creatorID uuid.UUID, req *challenge.CreateChallengeRequest) (*challenge.Challenge, error) {
	if req.Title == "" {
		return nil, engine.InvalidInput("title is required")
	}
	if req.ThresholdPercentage < 1 || req.ThresholdPercentage > 100 {
		return nil, engine.InvalidInput("threshold_percentage must be between 1 and 100")
	}

	ex, err := s.exerciseFor(ctx, req)
	if err != nil {
		return nil, err
	}

	switch req.Type {
	case challenge.TypeHabit:
		if err := engine.CheckHabitLimits(ex, *req.Habit); err != nil {
			return nil, err
		}
	case challenge.TypeTarget:
		if err := engine.CheckTargetLimits(ex, *req.Target); err != nil {
			return nil, err
		}
	}

	if !req.ForceCreate {
		if err := s.checkDuplicates(ctx, req, ex); err != nil {
			return nil, err
		}
	}

	var c *challenge.Challenge
	if req.Type == challenge.TypeHabit {
		c, err = challenge.NewHabit(creatorID, req.Title, req.Description, req.ThresholdPercentage, *req.Habit)
	} else {
		c, err = challenge.NewTarget(creatorID, req.Title, req.Description, req.ThresholdPercentage, *req.Target)
	}
	if err != nil {
		return nil, err
	}
	c.TrendingScore = engine.TrendingScore(1, 0)
	c.ActiveParticipantCount = 1

	if err := s.challenges.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}
	log.Printf("Challenge created: %s (%s)", c.Title, c.ID)
	return c, nil
}

// exerciseFor checks that the detail variant matches the declared type and
// resolves its exercise.
func (s *ChallengeService) exerciseFor(ctx context.Context, req *challenge.CreateChallengeRequest) (*exercise.Exercise, error) {
	switch req.Type {
	case challenge.TypeHabit:
		if req.Habit == nil || req.Target != nil {
			return nil, engine.InvalidInput("habit challenge requires habit_details and no target_details")
		}
		return s.exercises.GetByID(ctx, req.Habit.ExerciseID)
	case challenge.TypeTarget:
		if req.Target == nil || req.Habit != nil {
			return nil, engine.InvalidInput("target challenge requires target_details and no habit_details")
		}
		return s.exercises.GetByID(ctx, req.Target.ExerciseID)
	default:
		return nil, engine.InvalidInput("challenge_type must be 'habit' or 'target'")
	}
}

func (s *ChallengeService) checkDuplicates(ctx context.Context, req *challenge.CreateChallengeRequest, ex *exercise.Exercise) error {
	existing, err := s.challenges.ListByType(ctx, req.Type)
	if err != nil {
		return fmt.Errorf("failed to list challenges for duplicate check: %w", err)
	}

	summary := engine.Summarize(req, ex.Category, ex.ID)
	var matches []challenge.SimilarMatch
	for i := range existing {
		c := &existing[i]
		if engine.IsExactDuplicate(summary, c) {
			return &DuplicateError{Message: fmt.Sprintf("an identical challenge already exists: %s", c.Title)}
		}
		otherCategory, err := s.categoryOf(ctx, c)
		if err != nil {
			return err
		}
		if score := engine.SimilarityScore(summary, c, otherCategory); score > 0 {
			matches = append(matches, challenge.SimilarMatch{ID: c.ID, Title: c.Title, Score: score})
		}
	}
	if len(matches) > 0 {
		sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
		if len(matches) > topSimilarLimit {
			matches = matches[:topSimilarLimit]
		}
		return &DuplicateError{Message: "similar challenge exists", Matches: matches}
	}
	return nil
}

func (s *ChallengeService) categoryOf(ctx context.Context, c *challenge.Challenge) (exercise.Category, error) {
	ex, err := s.exercises.GetByID(ctx, c.ExerciseID())
	if err != nil {
		if errors.Is(err, engine.ErrExerciseNotFound) {
			return "", nil
		}
		return "", err
	}
	return ex.Category, nil
}

func (s *ChallengeService) Get(ctx context.Context, id uuid.UUID) (*challenge.Challenge, error) {
	c, err := s.challenges.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == challenge.StatusDeleted {
		return nil, engine.ErrChallengeNotFound
	}
	return c, nil
}

func (s *ChallengeService) ListPublished(ctx context.Context, f challenge.ListFilter) ([]challenge.Challenge, error) {
	return s.challenges.ListPublished(ctx, f)
}

func (s *ChallengeService) ListForUser(ctx context.Context, userID uuid.UUID, state participant.State) ([]challenge.Challenge, error) {
	return s.challenges.ListForUser(ctx, userID, state)
}

// Update applies creator-only edits. The challenge type can never change, so
// a detail record of the other variant is rejected.
func (s *ChallengeService) Update(ctx context.Context, userID, id uuid.UUID, req *challenge.UpdateChallengeRequest) (*challenge.Challenge, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if req.Habit != nil && c.Type != challenge.TypeHabit {
		return nil, engine.InvalidInput("cannot change a target challenge into a habit challenge")
	}
	if req.Target != nil && c.Type != challenge.TypeTarget {
		return nil, engine.InvalidInput("cannot change a habit challenge into a target challenge")
	}

	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.ThresholdPercentage != nil {
		if *req.ThresholdPercentage < 1 || *req.ThresholdPercentage > 100 {
			return nil, engine.InvalidInput("threshold_percentage must be between 1 and 100")
		}
		c.ThresholdPercentage = *req.ThresholdPercentage
	}

	if req.Habit != nil {
		ex, err := s.exercises.GetByID(ctx, req.Habit.ExerciseID)
		if err != nil {
			return nil, err
		}
		if err := engine.CheckHabitLimits(ex, *req.Habit); err != nil {
			return nil, err
		}
		c.Habit = req.Habit
	}
	if req.Target != nil {
		ex, err := s.exercises.GetByID(ctx, req.Target.ExerciseID)
		if err != nil {
			return nil, err
		}
		if err := engine.CheckTargetLimits(ex, *req.Target); err != nil {
			return nil, err
		}
		c.Target = req.Target
	}

	if err := s.challenges.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}
	return c, nil
}

// Delete is the creator's direct teardown, distinct from the leave cascade.
func (s *ChallengeService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.CreatorID != userID {
		return ErrNotCreator
	}
	return s.challenges.SoftDelete(ctx, id)
}

// Join adds a user to a published challenge, reactivating a previously left
// participant row rather than creating a second one.
func (s *ChallengeService) Join(ctx context.Context, challengeID, userID uuid.UUID) (*participant.Participant, error) {
	unlock := s.locks.Lock(challengeID)
	defer unlock()

	c, err := s.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if c.Status != challenge.StatusPublished {
		return nil, engine.ErrChallengeNotJoinable
	}

	now := time.Now()
	p, err := s.participants.GetByChallengeAndUser(ctx, challengeID, userID)
	switch {
	case errors.Is(err, engine.ErrParticipantNotFound):
		p = &participant.Participant{
			ID:          uuid.New(),
			ChallengeID: challengeID,
			UserID:      userID,
			Role:        participant.RoleParticipant,
			State:       participant.StateActive,
			JoinedAt:    now,
		}
		if err := s.participants.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to create participant: %w", err)
		}
	case err != nil:
		return nil, err
	case p.State == participant.StateLeft:
		if err := s.participants.Reactivate(ctx, p.ID, now); err != nil {
			return nil, fmt.Errorf("failed to reactivate participant: %w", err)
		}
		p.State = participant.StateActive
		p.JoinedAt = now
	default:
		// Active and Completed rows both mean the user is already in.
		return nil, engine.ErrAlreadyParticipating
	}

	s.refreshTrending(ctx, challengeID)
	return p, nil
}

// Leave removes the caller from a challenge. Leaving twice fails with
// ErrNotParticipating. When the owner is the last active participant the
// whole challenge is torn down and the result says so; the caller must not
// read the challenge afterwards.
func (s *ChallengeService) Leave(ctx context.Context, challengeID, userID uuid.UUID) (participant.LeaveResult, error) {
	unlock := s.locks.Lock(challengeID)
	defer unlock()

	var res participant.LeaveResult

	c, err := s.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return res, err
	}
	if c.Status == challenge.StatusDeleted {
		return res, engine.ErrChallengeNotFound
	}

	p, err := s.participants.GetByChallengeAndUser(ctx, challengeID, userID)
	if err != nil {
		if errors.Is(err, engine.ErrParticipantNotFound) {
			return res, engine.ErrNotParticipating
		}
		return res, err
	}
	if p.State != participant.StateActive {
		return res, engine.ErrNotParticipating
	}

	if p.Role == participant.RoleOwner {
		active, err := s.participants.CountActive(ctx, challengeID)
		if err != nil {
			return res, err
		}
		if active > 1 {
			return res, engine.ErrOwnerCannotLeave
		}
		if err := s.challenges.SoftDelete(ctx, challengeID); err != nil {
			return res, fmt.Errorf("failed to delete challenge: %w", err)
		}
		log.Printf("Challenge %s deleted: owner %s left with no other participants", challengeID, userID)
		res.ChallengeDeleted = true
		return res, nil
	}

	if err := s.participants.UpdateState(ctx, p.ID, participant.StateLeft); err != nil {
		return res, fmt.Errorf("failed to leave challenge: %w", err)
	}
	s.refreshTrending(ctx, challengeID)
	return res, nil
}

// refreshTrending recomputes the stored trending score. Failures only log;
// the score is advisory and never worth failing the user's request over.
func (s *ChallengeService) refreshTrending(ctx context.Context, challengeID uuid.UUID) {
	active, err := s.participants.CountActive(ctx, challengeID)
	if err != nil {
		log.Printf("refreshTrending: failed to count participants for %s: %v", challengeID, err)
		return
	}
	total, err := s.progress.TotalForChallenge(ctx, challengeID)
	if err != nil {
		log.Printf("refreshTrending: failed to sum progress for %s: %v", challengeID, err)
		return
	}
	score := engine.TrendingScore(active, total)
	if err := s.challenges.UpdateTrendingScore(ctx, challengeID, score, active); err != nil {
		log.Printf("refreshTrending: failed to store score for %s: %v", challengeID, err)
	}
}
