package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/AdamLt-GH/Fit-Logger/internal/engine"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/challenge"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/exercise"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/participant"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/progress"
)

// memStore implements every store interface in memory so service tests run
// without a database. It mirrors the pgx repository contracts, including the
// owner participant row created alongside a challenge.
type memStore struct {
	challenges   map[uuid.UUID]*challenge.Challenge
	participants map[uuid.UUID]*participant.Participant
	entries      []progress.Entry
	exercises    map[int64]*exercise.Exercise
	nextEntryID  int64
	nextExID     int64
	now          time.Time
}

func newMemStore() *memStore {
	return &memStore{
		challenges:   make(map[uuid.UUID]*challenge.Challenge),
		participants: make(map[uuid.UUID]*participant.Participant),
		exercises:    make(map[int64]*exercise.Exercise),
		now:          time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) Create(ctx context.Context, c *challenge.Challenge) error {
	cp := *c
	m.challenges[c.ID] = &cp
	p := &participant.Participant{
		ID:          uuid.New(),
		ChallengeID: c.ID,
		UserID:      c.CreatorID,
		Role:        participant.RoleOwner,
		State:       participant.StateActive,
		JoinedAt:    c.CreatedAt,
	}
	m.participants[p.ID] = p
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*challenge.Challenge, error) {
	c, ok := m.challenges[id]
	if !ok {
		return nil, engine.ErrChallengeNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) ListPublished(ctx context.Context, f challenge.ListFilter) ([]challenge.Challenge, error) {
	var out []challenge.Challenge
	for _, c := range m.sortedChallenges() {
		if c.Status != challenge.StatusPublished {
			continue
		}
		if f.ExcludeUserID != uuid.Nil && m.activeRow(c.ID, f.ExcludeUserID) != nil {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *memStore) ListByType(ctx context.Context, t challenge.Type) ([]challenge.Challenge, error) {
	var out []challenge.Challenge
	for _, c := range m.sortedChallenges() {
		if c.Type == t && c.Status != challenge.StatusDeleted {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) ListForUser(ctx context.Context, userID uuid.UUID, state participant.State) ([]challenge.Challenge, error) {
	var out []challenge.Challenge
	for _, c := range m.sortedChallenges() {
		if c.Status == challenge.StatusDeleted {
			continue
		}
		for _, p := range m.participants {
			if p.ChallengeID == c.ID && p.UserID == userID && (state == "" || p.State == state) {
				out = append(out, *c)
				break
			}
		}
	}
	return out, nil
}

func (m *memStore) Update(ctx context.Context, c *challenge.Challenge) error {
	if _, ok := m.challenges[c.ID]; !ok {
		return engine.ErrChallengeNotFound
	}
	cp := *c
	m.challenges[c.ID] = &cp
	return nil
}

func (m *memStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	c, ok := m.challenges[id]
	if !ok {
		return engine.ErrChallengeNotFound
	}
	c.Status = challenge.StatusDeleted
	return nil
}

func (m *memStore) UpdateTrendingScore(ctx context.Context, id uuid.UUID, score, activeCount int) error {
	c, ok := m.challenges[id]
	if !ok {
		return engine.ErrChallengeNotFound
	}
	c.TrendingScore = score
	c.ActiveParticipantCount = activeCount
	return nil
}

func (m *memStore) sortedChallenges() []*challenge.Challenge {
	out := make([]*challenge.Challenge, 0, len(m.challenges))
	for _, c := range m.challenges {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// participantStore

func (m *memStore) CreateParticipant(p *participant.Participant) {
	cp := *p
	m.participants[p.ID] = &cp
}

func (m *memStore) GetParticipantByID(ctx context.Context, id uuid.UUID) (*participant.Participant, error) {
	p, ok := m.participants[id]
	if !ok {
		return nil, engine.ErrParticipantNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) GetByChallengeAndUser(ctx context.Context, challengeID, userID uuid.UUID) (*participant.Participant, error) {
	for _, p := range m.participants {
		if p.ChallengeID == challengeID && p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, engine.ErrParticipantNotFound
}

func (m *memStore) UpdateState(ctx context.Context, id uuid.UUID, state participant.State) error {
	p, ok := m.participants[id]
	if !ok {
		return engine.ErrParticipantNotFound
	}
	p.State = state
	return nil
}

func (m *memStore) Reactivate(ctx context.Context, id uuid.UUID, joinedAt time.Time) error {
	p, ok := m.participants[id]
	if !ok {
		return engine.ErrParticipantNotFound
	}
	p.State = participant.StateActive
	p.JoinedAt = joinedAt
	return nil
}

func (m *memStore) CountActive(ctx context.Context, challengeID uuid.UUID) (int, error) {
	count := 0
	for _, p := range m.participants {
		if p.ChallengeID == challengeID && p.State == participant.StateActive {
			count++
		}
	}
	return count, nil
}

func (m *memStore) ListByChallenge(ctx context.Context, challengeID uuid.UUID) ([]participant.Participant, error) {
	var out []participant.Participant
	for _, p := range m.participants {
		if p.ChallengeID == challengeID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (m *memStore) activeRow(challengeID, userID uuid.UUID) *participant.Participant {
	for _, p := range m.participants {
		if p.ChallengeID == challengeID && p.UserID == userID && p.State == participant.StateActive {
			return p
		}
	}
	return nil
}

// progressStore

func (m *memStore) Append(ctx context.Context, e *progress.Entry) error {
	m.nextEntryID++
	e.ID = m.nextEntryID
	e.LoggedAt = m.now
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memStore) CountOnDay(ctx context.Context, participantID uuid.UUID, ref time.Time) (int, error) {
	count := 0
	for _, e := range m.entries {
		if e.ParticipantID == participantID &&
			e.LoggedAt.Year() == ref.Year() && e.LoggedAt.YearDay() == ref.YearDay() {
			count++
		}
	}
	return count, nil
}

func (m *memStore) History(ctx context.Context, participantID uuid.UUID) ([]progress.Entry, error) {
	var out []progress.Entry
	for _, e := range m.entries {
		if e.ParticipantID == participantID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LoggedAt.Equal(out[j].LoggedAt) {
			return out[i].LoggedAt.After(out[j].LoggedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) TotalForParticipant(ctx context.Context, participantID uuid.UUID) (int, error) {
	total := 0
	for _, e := range m.entries {
		if e.ParticipantID == participantID {
			total += e.ProgressValue
		}
	}
	return total, nil
}

func (m *memStore) TotalForChallenge(ctx context.Context, challengeID uuid.UUID) (int, error) {
	total := 0
	for _, e := range m.entries {
		if e.ChallengeID == challengeID {
			total += e.ProgressValue
		}
	}
	return total, nil
}

// exerciseStore

func (m *memStore) CreateExercise(ctx context.Context, req *exercise.UpsertExerciseRequest) (*exercise.Exercise, error) {
	m.nextExID++
	ex := &exercise.Exercise{
		ID:                m.nextExID,
		Name:              req.Name,
		MaxSessionsPerDay: req.MaxSessionsPerDay,
		MaxRatePerMinute:  req.MaxRatePerMinute,
		UnitType:          req.UnitType,
		Category:          req.Category,
	}
	m.exercises[ex.ID] = ex
	return ex, nil
}

func (m *memStore) GetExerciseByID(ctx context.Context, id int64) (*exercise.Exercise, error) {
	ex, ok := m.exercises[id]
	if !ok {
		return nil, engine.ErrExerciseNotFound
	}
	cp := *ex
	return &cp, nil
}

func (m *memStore) ListExercises(ctx context.Context) ([]exercise.Exercise, error) {
	var out []exercise.Exercise
	for _, ex := range m.exercises {
		out = append(out, *ex)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateExercise(ctx context.Context, id int64, req *exercise.UpsertExerciseRequest) (*exercise.Exercise, error) {
	if _, ok := m.exercises[id]; !ok {
		return nil, engine.ErrExerciseNotFound
	}
	ex := &exercise.Exercise{
		ID:                id,
		Name:              req.Name,
		MaxSessionsPerDay: req.MaxSessionsPerDay,
		MaxRatePerMinute:  req.MaxRatePerMinute,
		UnitType:          req.UnitType,
		Category:          req.Category,
	}
	m.exercises[id] = ex
	cp := *ex
	return &cp, nil
}

func (m *memStore) DeleteExercise(ctx context.Context, id int64) error {
	if _, ok := m.exercises[id]; !ok {
		return engine.ErrExerciseNotFound
	}
	delete(m.exercises, id)
	return nil
}

// Adapters over memStore where interface method names collide.

type memParticipants struct{ *memStore }

func (m memParticipants) Create(ctx context.Context, p *participant.Participant) error {
	m.CreateParticipant(p)
	return nil
}

func (m memParticipants) GetByID(ctx context.Context, id uuid.UUID) (*participant.Participant, error) {
	return m.GetParticipantByID(ctx, id)
}

type memExercises struct{ *memStore }

func (m memExercises) Create(ctx context.Context, req *exercise.UpsertExerciseRequest) (*exercise.Exercise, error) {
	return m.CreateExercise(ctx, req)
}

func (m memExercises) GetByID(ctx context.Context, id int64) (*exercise.Exercise, error) {
	return m.GetExerciseByID(ctx, id)
}

func (m memExercises) List(ctx context.Context) ([]exercise.Exercise, error) {
	return m.ListExercises(ctx)
}

func (m memExercises) Update(ctx context.Context, id int64, req *exercise.UpsertExerciseRequest) (*exercise.Exercise, error) {
	return m.UpdateExercise(ctx, id, req)
}

func (m memExercises) Delete(ctx context.Context, id int64) error {
	return m.DeleteExercise(ctx, id)
}

// fixture wires both services over one memStore.
type fixture struct {
	store       *memStore
	challenges  *ChallengeService
	progressSvc *ProgressService
}

func newFixture() *fixture {
	store := newMemStore()
	locks := NewChallengeLocks()
	parts := memParticipants{store}
	exs := memExercises{store}
	f := &fixture{
		store:       store,
		challenges:  NewChallengeService(store, parts, store, exs, locks),
		progressSvc: NewProgressService(store, parts, store, exs, locks),
	}
	f.progressSvc.now = func() time.Time { return store.now }
	return f
}
