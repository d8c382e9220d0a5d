// Package engine holds the challenge progress and completion core: pure
// computations over snapshots handed in by the service layer. Nothing here
// touches storage or reads the clock on its own.
package engine

import (
	"fmt"

	"github.com/AdamLt-GH/Fit-Logger/internal/types/exercise"
)

// ValidateEntry checks one submitted progress entry against the exercise caps.
// todaySessionCount is the number of already-accepted entries for the same
// participant on the same calendar day; the caller must obtain it inside the
// same critical section that appends the entry, or two racing submissions can
// both pass the cap.
func ValidateEntry(ex *exercise.Exercise, progressValue int, durationMinutes float64, todaySessionCount int) error {
	if progressValue <= 0 {
		return invalidInput("progress_value must be greater than 0, got %d", progressValue)
	}
	// Checked before the division below.
	if durationMinutes <= 0 {
		return invalidInput("duration_minutes must be greater than 0, got %g", durationMinutes)
	}

	rate := float64(progressValue) / durationMinutes
	// Strictly greater-than: a rate exactly at the cap is accepted.
	if rate > ex.MaxRatePerMinute {
		return &ValidationError{
			Kind: KindRateExceeded,
			Message: fmt.Sprintf("rate too high: maximum %g %s per minute allowed, your rate: %.2f",
				ex.MaxRatePerMinute, ex.UnitType, rate),
			Rate:    rate,
			MaxRate: ex.MaxRatePerMinute,
		}
	}

	if todaySessionCount+1 > ex.MaxSessionsPerDay {
		return &ValidationError{
			Kind: KindSessionCapExceeded,
			Message: fmt.Sprintf("session limit reached: %d of %d sessions already logged today",
				todaySessionCount, ex.MaxSessionsPerDay),
			SessionsToday: todaySessionCount,
			MaxSessions:   ex.MaxSessionsPerDay,
		}
	}

	return nil
}
