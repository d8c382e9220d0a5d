package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AdamLt-GH/Fit-Logger/internal/types/challenge"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/exercise"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/participant"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/progress"
)

// Narrow store interfaces so services can be exercised with stubs. The pgx
// repositories in internal/repository are the production implementations.

type challengeStore interface {
	Create(ctx context.Context, c *challenge.Challenge) error
	GetByID(ctx context.Context, id uuid.UUID) (*challenge.Challenge, error)
	ListPublished(ctx context.Context, f challenge.ListFilter) ([]challenge.Challenge, error)
	ListByType(ctx context.Context, t challenge.Type) ([]challenge.Challenge, error)
	ListForUser(ctx context.Context, userID uuid.UUID, state participant.State) ([]challenge.Challenge, error)
	Update(ctx context.Context, c *challenge.Challenge) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	UpdateTrendingScore(ctx context.Context, id uuid.UUID, score, activeCount int) error
}

type participantStore interface {
	Create(ctx context.Context, p *participant.Participant) error
	GetByID(ctx context.Context, id uuid.UUID) (*participant.Participant, error)
	GetByChallengeAndUser(ctx context.Context, challengeID, userID uuid.UUID) (*participant.Participant, error)
	UpdateState(ctx context.Context, id uuid.UUID, state participant.State) error
	Reactivate(ctx context.Context, id uuid.UUID, joinedAt time.Time) error
	CountActive(ctx context.Context, challengeID uuid.UUID) (int, error)
	ListByChallenge(ctx context.Context, challengeID uuid.UUID) ([]participant.Participant, error)
}

type progressStore interface {
	Append(ctx context.Context, e *progress.Entry) error
	CountOnDay(ctx context.Context, participantID uuid.UUID, ref time.Time) (int, error)
	History(ctx context.Context, participantID uuid.UUID) ([]progress.Entry, error)
	TotalForParticipant(ctx context.Context, participantID uuid.UUID) (int, error)
	TotalForChallenge(ctx context.Context, challengeID uuid.UUID) (int, error)
}

type exerciseStore interface {
	Create(ctx context.Context, req *exercise.UpsertExerciseRequest) (*exercise.Exercise, error)
	GetByID(ctx context.Context, id int64) (*exercise.Exercise, error)
	List(ctx context.Context) ([]exercise.Exercise, error)
	Update(ctx context.Context, id int64, req *exercise.UpsertExerciseRequest) (*exercise.Exercise, error)
	Delete(ctx context.Context, id int64) error
}

// ChallengeLocks serializes all state-changing work on one challenge
// aggregate: join, leave with its cascade, and count-then-append progress
// logging. One table is shared by ChallengeService and ProgressService.
type ChallengeLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewChallengeLocks() *ChallengeLocks {
	return &ChallengeLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Lock acquires the mutex for one challenge and returns its unlock func.
// Entries are never evicted; the table is bounded by the number of live
// challenges in the process lifetime.
func (l *ChallengeLocks) Lock(id uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
