package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdamLt-GH/Fit-Logger/internal/engine"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/challenge"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/participant"
	"github.com/AdamLt-GH/Fit-Logger/internal/types/progress"
)

func TestLogProgressRejectsRateViolation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	creator := uuid.New()
	c := seedTargetChallenge(t, f, creator, 100)

	// 50 reps in 4 minutes is 12.5/min against a 10/min cap.
	_, err := f.progressSvc.ValidateAndLogProgress(ctx, creator, &progress.LogEntryRequest{
		ChallengeID:     c.ID,
		ProgressValue:   50,
		DurationMinutes: 4,
	})
	ve, ok := engine.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, engine.KindRateExceeded, ve.Kind)
	assert.InDelta(t, 12.5, ve.Rate, 0.001)
	assert.InDelta(t, 10, ve.MaxRate, 0.001)

	// 40 in 4 minutes is exactly on the cap and passes.
	entry, err := f.progressSvc.ValidateAndLogProgress(ctx, creator, &progress.LogEntryRequest{
		ChallengeID:     c.ID,
		ProgressValue:   40,
		DurationMinutes: 4,
	})
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
}

func TestLogProgressSessionCap(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	creator := uuid.New()
	c := seedTargetChallenge(t, f, creator, 100)

	req := &progress.LogEntryRequest{ChallengeID: c.ID, ProgressValue: 1, DurationMinutes: 1}
	for i := 0; i < 2; i++ {
		_, err := f.progressSvc.ValidateAndLogProgress(ctx, creator, req)
		require.NoError(t, err)
	}

	_, err := f.progressSvc.ValidateAndLogProgress(ctx, creator, req)
	ve, ok := engine.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, engine.KindSessionCapExceeded, ve.Kind)
	assert.Equal(t, 2, ve.SessionsToday)
	assert.Equal(t, 2, ve.MaxSessions)

	// The cap is per calendar day.
	f.store.now = f.store.now.Add(24 * time.Hour)
	_, err = f.progressSvc.ValidateAndLogProgress(ctx, creator, req)
	assert.NoError(t, err)
}

func TestRejectedEntriesDoNotCountTowardCap(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	creator := uuid.New()
	c := seedTargetChallenge(t, f, creator, 100)

	bad := &progress.LogEntryRequest{ChallengeID: c.ID, ProgressValue: 50, DurationMinutes: 1}
	for i := 0; i < 3; i++ {
		_, err := f.progressSvc.ValidateAndLogProgress(ctx, creator, bad)
		require.Error(t, err)
	}

	// Three rejections left the day's budget untouched.
	good := &progress.LogEntryRequest{ChallengeID: c.ID, ProgressValue: 5, DurationMinutes: 1}
	_, err := f.progressSvc.ValidateAndLogProgress(ctx, creator, good)
	assert.NoError(t, err)
}

func TestLogProgressInvalidInput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	creator := uuid.New()
	c := seedTargetChallenge(t, f, creator, 100)

	cases := []struct {
		name     string
		value    int
		duration float64
	}{
		{"zero value", 0, 5},
		{"negative value", -3, 5},
		{"zero duration", 10, 0},
		{"negative duration", 10, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.progressSvc.ValidateAndLogProgress(ctx, creator, &progress.LogEntryRequest{
				ChallengeID:     c.ID,
				ProgressValue:   tc.value,
				DurationMinutes: tc.duration,
			})
			ve, ok := engine.AsValidation(err)
			require.True(t, ok)
			assert.Equal(t, engine.KindInvalidInput, ve.Kind)
		})
	}
}

func TestLogProgressRequiresActiveParticipant(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := seedTargetChallenge(t, f, uuid.New(), 100)

	req := &progress.LogEntryRequest{ChallengeID: c.ID, ProgressValue: 5, DurationMinutes: 1}

	stranger := uuid.New()
	_, err := f.progressSvc.ValidateAndLogProgress(ctx, stranger, req)
	assert.ErrorIs(t, err, engine.ErrNotParticipating)

	// Joining and then leaving closes the door again.
	_, err = f.challenges.Join(ctx, c.ID, stranger)
	require.NoError(t, err)
	_, err = f.challenges.Leave(ctx, c.ID, stranger)
	require.NoError(t, err)
	_, err = f.progressSvc.ValidateAndLogProgress(ctx, stranger, req)
	assert.ErrorIs(t, err, engine.ErrNotParticipating)

	_, err = f.progressSvc.ValidateAndLogProgress(ctx, stranger, &progress.LogEntryRequest{
		ChallengeID: uuid.New(), ProgressValue: 5, DurationMinutes: 1,
	})
	assert.ErrorIs(t, err, engine.ErrChallengeNotFound)
}

func TestTargetCompletionTransition(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	creator := uuid.New()
	c := seedTargetChallenge(t, f, creator, 100)

	_, err := f.progressSvc.ValidateAndLogProgress(ctx, creator, &progress.LogEntryRequest{
		ChallengeID:     c.ID,
		ProgressValue:   60,
		DurationMinutes: 10,
	})
	require.NoError(t, err)

	p, err := f.store.GetByChallengeAndUser(ctx, c.ID, creator)
	require.NoError(t, err)

	view, err := f.progressSvc.GetParticipantProgress(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, view.TotalProgress)
	assert.Equal(t, 60.0, view.ProgressPercentage)
	assert.Equal(t, participant.StateActive, view.State)

	// Overshooting the target caps the percentage and completes the
	// participant.
	_, err = f.progressSvc.ValidateAndLogProgress(ctx, creator, &progress.LogEntryRequest{
		ChallengeID:     c.ID,
		ProgressValue:   45,
		DurationMinutes: 10,
	})
	require.NoError(t, err)

	view, err = f.progressSvc.GetParticipantProgress(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 105, view.TotalProgress)
	assert.Equal(t, 100.0, view.ProgressPercentage)
	assert.Equal(t, participant.StateCompleted, view.State)
	assert.True(t, view.Succeeded)

	// A completed participant cannot keep logging.
	_, err = f.progressSvc.ValidateAndLogProgress(ctx, creator, &progress.LogEntryRequest{
		ChallengeID:     c.ID,
		ProgressValue:   5,
		DurationMinutes: 1,
	})
	assert.ErrorIs(t, err, engine.ErrNotParticipating)
}

func seedHabitChallenge(t *testing.T, f *fixture, creatorID uuid.UUID) *challenge.Challenge {
	t.Helper()
	ex := seedExercise(t, f)
	c, err := f.challenges.Create(context.Background(), creatorID, &challenge.CreateChallengeRequest{
		Title:               "daily movement",
		Type:                challenge.TypeHabit,
		ThresholdPercentage: 80,
		Habit: &challenge.HabitDetails{
			ExerciseID:       ex.ID,
			DurationWeeks:    4,
			FrequencyPerWeek: 3,
		},
	})
	require.NoError(t, err)
	return c
}

func TestHabitPercentageIsTimeBased(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	creator := uuid.New()
	c := seedHabitChallenge(t, f, creator)

	// Pin the window to start 14 days ago: halfway through 4 weeks.
	f.store.challenges[c.ID].CreatedAt = f.store.now.Add(-14 * 24 * time.Hour)

	p, err := f.store.GetByChallengeAndUser(ctx, c.ID, creator)
	require.NoError(t, err)

	view, err := f.progressSvc.GetParticipantProgress(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, view.ProgressPercentage)

	// Logging entries does not move a habit percentage; only time does.
	_, err = f.progressSvc.ValidateAndLogProgress(ctx, creator, &progress.LogEntryRequest{
		ChallengeID:     c.ID,
		ProgressValue:   10,
		DurationMinutes: 5,
	})
	require.NoError(t, err)

	view, err = f.progressSvc.GetParticipantProgress(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, view.ProgressPercentage)
	assert.Equal(t, 10, view.TotalProgress)
}

func TestGetChallengeProgress(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	creator, joiner := uuid.New(), uuid.New()
	c := seedTargetChallenge(t, f, creator, 100)
	f.store.challenges[c.ID].CreatedAt = f.store.now.Add(-15 * 24 * time.Hour)

	_, err := f.challenges.Join(ctx, c.ID, joiner)
	require.NoError(t, err)

	_, err = f.progressSvc.ValidateAndLogProgress(ctx, creator, &progress.LogEntryRequest{
		ChallengeID: c.ID, ProgressValue: 30, DurationMinutes: 5,
	})
	require.NoError(t, err)

	_, err = f.challenges.Leave(ctx, c.ID, joiner)
	require.NoError(t, err)

	view, err := f.progressSvc.GetChallengeProgress(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, view.ChallengeID)
	// 15 of 60 days elapsed.
	assert.Equal(t, 25.0, view.ProgressPercentage)
	assert.Equal(t, 45, view.DaysRemaining)
	require.Len(t, view.Participants, 2, "left participants stay in the roster")

	byUser := map[uuid.UUID]participant.Summary{}
	for _, s := range view.Participants {
		byUser[s.UserID] = s
	}
	assert.Equal(t, 30, byUser[creator].TotalProgress)
	assert.Equal(t, participant.StateLeft, byUser[joiner].State)
}

func TestHistoryNewestFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	creator := uuid.New()
	c := seedTargetChallenge(t, f, creator, 100)

	_, err := f.progressSvc.ValidateAndLogProgress(ctx, creator, &progress.LogEntryRequest{
		ChallengeID: c.ID, ProgressValue: 10, DurationMinutes: 2,
	})
	require.NoError(t, err)

	f.store.now = f.store.now.Add(24 * time.Hour)
	_, err = f.progressSvc.ValidateAndLogProgress(ctx, creator, &progress.LogEntryRequest{
		ChallengeID: c.ID, ProgressValue: 20, DurationMinutes: 2,
	})
	require.NoError(t, err)

	entries, err := f.progressSvc.History(ctx, c.ID, creator)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 20, entries[0].ProgressValue)
	assert.Equal(t, 10, entries[1].ProgressValue)
}

func TestHistoryTieBreakKeepsAppendOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	creator := uuid.New()
	c := seedTargetChallenge(t, f, creator, 100)

	// One entry on the first day, then two logged at the same instant the
	// next day. Among equal timestamps the earlier append comes first.
	_, err := f.progressSvc.ValidateAndLogProgress(ctx, creator, &progress.LogEntryRequest{
		ChallengeID: c.ID, ProgressValue: 5, DurationMinutes: 2,
	})
	require.NoError(t, err)

	f.store.now = f.store.now.Add(24 * time.Hour)
	for _, v := range []int{10, 20} {
		_, err = f.progressSvc.ValidateAndLogProgress(ctx, creator, &progress.LogEntryRequest{
			ChallengeID: c.ID, ProgressValue: v, DurationMinutes: 2,
		})
		require.NoError(t, err)
	}

	entries, err := f.progressSvc.History(ctx, c.ID, creator)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 10, entries[0].ProgressValue)
	assert.Equal(t, 20, entries[1].ProgressValue)
	assert.Equal(t, 5, entries[2].ProgressValue)
}

func TestHistoryReadableAfterLeaving(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := uuid.New()
	c := seedTargetChallenge(t, f, uuid.New(), 100)

	_, err := f.challenges.Join(ctx, c.ID, user)
	require.NoError(t, err)
	_, err = f.progressSvc.ValidateAndLogProgress(ctx, user, &progress.LogEntryRequest{
		ChallengeID: c.ID, ProgressValue: 10, DurationMinutes: 2,
	})
	require.NoError(t, err)

	_, err = f.challenges.Leave(ctx, c.ID, user)
	require.NoError(t, err)

	entries, err := f.progressSvc.History(ctx, c.ID, user)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = f.progressSvc.History(ctx, c.ID, uuid.New())
	assert.ErrorIs(t, err, engine.ErrNotParticipating)
}
