package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AdamLt-GH/Fit-Logger/internal/engine"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/challenge"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/participant"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/progress"
)

// ProgressService orchestrates the validate -> append -> recompute pipeline
// around the pure engine.
type ProgressService struct {
	challenges   challengeStore
	participants participantStore
	progress     progressStore
	exercises    exerciseStore
	locks        *ChallengeLocks

	// now is swappable in tests.
	now func() time.Time
}

func NewProgressService(
	challenges challengeStore,
	participants participantStore,
	progress progressStore,
	exercises exerciseStore,
	locks *ChallengeLocks,
) *ProgressService {
	return &ProgressService{
		challenges:   challenges,
		participants: participants,
		progress:     progress,
		exercises:    exercises,
		locks:        locks,
		now:          time.Now,
	}
}

// ValidateAndLogProgress checks one submission against the exercise caps and,
// on success, appends it to the ledger and recomputes the participant's
// completion. The per-challenge lock keeps the session-day count and the
// append atomic with respect to concurrent submissions.
func (s *ProgressService) ValidateAndLogProgress(ctx context.Context, userID uuid.UUID, req *progress.LogEntryRequest) (*progress.Entry, error) {
	unlock := s.locks.Lock(req.ChallengeID)
	defer unlock()

	c, err := s.challenges.GetByID(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}
	if c.Status == challenge.StatusDeleted {
		return nil, engine.ErrChallengeNotFound
	}

	p, err := s.participants.GetByChallengeAndUser(ctx, req.ChallengeID, userID)
	if err != nil {
		if errors.Is(err, engine.ErrParticipantNotFound) {
			return nil, engine.ErrNotParticipating
		}
		return nil, err
	}
	if p.State != participant.StateActive {
		return nil, engine.ErrNotParticipating
	}

	ex, err := s.exercises.GetByID(ctx, c.ExerciseID())
	if err != nil {
		return nil, err
	}

	now := s.now()
	todayCount, err := s.progress.CountOnDay(ctx, p.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's sessions: %w", err)
	}
	if err := engine.ValidateEntry(ex, req.ProgressValue, req.DurationMinutes, todayCount); err != nil {
		return nil, err
	}

	entry := &progress.Entry{
		ParticipantID:   p.ID,
		ChallengeID:     c.ID,
		UserID:          userID,
		ProgressValue:   req.ProgressValue,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	}
	if err := s.progress.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append progress entry: %w", err)
	}

	// Completion is evaluated on every accepted append, not on a timer.
	if c.Type == challenge.TypeTarget {
		total, err := s.progress.TotalForParticipant(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to total progress: %w", err)
		}
		if engine.TargetReached(c, total) {
			if err := s.participants.UpdateState(ctx, p.ID, participant.StateCompleted); err != nil {
				return nil, fmt.Errorf("failed to mark participant completed: %w", err)
			}
		}
	}

	return entry, nil
}

// GetParticipantProgress derives the live progress view for one participant.
func (s *ProgressService) GetParticipantProgress(ctx context.Context, participantID uuid.UUID) (*progress.ParticipantProgress, error) {
	p, err := s.participants.GetByID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	c, err := s.challenges.GetByID(ctx, p.ChallengeID)
	if err != nil {
		return nil, err
	}
	if c.Status == challenge.StatusDeleted {
		return nil, engine.ErrChallengeNotFound
	}

	total, err := s.progress.TotalForParticipant(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to total progress: %w", err)
	}

	pct := engine.ParticipantPercentage(c, total, s.now())
	return &progress.ParticipantProgress{
		ParticipantID:      p.ID,
		TotalProgress:      total,
		ProgressPercentage: pct,
		State:              p.State,
		Succeeded:          engine.Succeeded(c, pct),
	}, nil
}

// GetChallengeProgress returns the challenge-level view: the elapsed-window
// percentage plus a summary for every participant, left ones included.
func (s *ProgressService) GetChallengeProgress(ctx context.Context, challengeID uuid.UUID) (*progress.ChallengeProgress, error) {
	c, err := s.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if c.Status == challenge.StatusDeleted {
		return nil, engine.ErrChallengeNotFound
	}

	parts, err := s.participants.ListByChallenge(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	now := s.now()
	summaries := make([]participant.Summary, 0, len(parts))
	for _, p := range parts {
		total, err := s.progress.TotalForParticipant(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to total progress for %s: %w", p.ID, err)
		}
		pct := engine.ParticipantPercentage(c, total, now)
		summaries = append(summaries, participant.Summary{
			UserID:             p.UserID,
			Role:               p.Role,
			State:              p.State,
			JoinedAt:           p.JoinedAt,
			TotalProgress:      total,
			ProgressPercentage: pct,
			Succeeded:          engine.Succeeded(c, pct),
		})
	}

	return &progress.ChallengeProgress{
		ChallengeID:        c.ID,
		ProgressPercentage: engine.ChallengePercentage(c, now),
		DaysRemaining:      engine.DaysRemaining(c, now),
		Participants:       summaries,
	}, nil
}

// History returns the caller's entries for a challenge, newest first. A left
// participant's history stays readable.
func (s *ProgressService) History(ctx context.Context, challengeID, userID uuid.UUID) ([]progress.Entry, error) {
	p, err := s.participants.GetByChallengeAndUser(ctx, challengeID, userID)
	if err != nil {
		if errors.Is(err, engine.ErrParticipantNotFound) {
			return nil, engine.ErrNotParticipating
		}
		return nil, err
	}
	return s.progress.History(ctx, p.ID)
}
