package engine

import (
	"math"
	"time"

	"github.com/AdamLt-GH/Fit-Logger/internal/types/challenge"
)

// ParticipantPercentage derives the completion percentage for one participant.
//
// Target challenges measure cumulative volume against the target value. Habit
// challenges measure elapsed time through the commitment window: the figure is
// well-defined and monotonic regardless of how entries cluster, and the
// pass/fail frequency judgment happens at window end, not live.
func ParticipantPercentage(c *challenge.Challenge, totalProgress int, now time.Time) float64 {
	switch c.Type {
	case challenge.TypeTarget:
		if c.Target == nil || c.Target.TargetValue <= 0 {
			return 0
		}
		pct := 100 * float64(totalProgress) / float64(c.Target.TargetValue)
		return round2(math.Min(100, pct))
	case challenge.TypeHabit:
		return math.Round(100 * elapsedFraction(c, now))
	}
	return 0
}

// ChallengePercentage is the single representative figure for a challenge:
// how far through its window it is, clamped to 0..100.
func ChallengePercentage(c *challenge.Challenge, now time.Time) float64 {
	return round2(100 * elapsedFraction(c, now))
}

// DaysRemaining never goes negative once the window has closed.
func DaysRemaining(c *challenge.Challenge, now time.Time) int {
	remaining := int(c.EndsAt().Sub(now).Hours() / 24)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TargetReached reports whether a target participant has hit the goal and
// should transition Active -> Completed. Evaluated on every accepted append.
func TargetReached(c *challenge.Challenge, totalProgress int) bool {
	return c.Type == challenge.TypeTarget && c.Target != nil && totalProgress >= c.Target.TargetValue
}

// Succeeded reports whether a percentage clears the challenge threshold. This
// gates badges/acknowledgement and is independent of the Active/Completed
// state flag.
func Succeeded(c *challenge.Challenge, percentage float64) bool {
	return percentage >= float64(c.ThresholdPercentage)
}

// TrendingScore weights live participation over raw volume.
func TrendingScore(activeParticipants, totalProgress int) int {
	return activeParticipants*10 + totalProgress
}

func elapsedFraction(c *challenge.Challenge, now time.Time) float64 {
	total := c.EndsAt().Sub(c.CreatedAt).Seconds()
	if total <= 0 {
		return 0
	}
	f := now.Sub(c.CreatedAt).Seconds() / total
	return math.Min(1, math.Max(0, f))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
