package engine

import (
	"errors"
	"fmt"
)

// ValidationKind discriminates user-correctable progress entry rejections.
type ValidationKind string

const (
	KindInvalidInput       ValidationKind = "invalid_input"
	KindRateExceeded       ValidationKind = "rate_exceeded"
	KindSessionCapExceeded ValidationKind = "session_cap_exceeded"
)

// ValidationError carries the offending numbers so the caller can surface them
// verbatim and the user can adjust. It maps to a 422-class response, never a
// server fault.
type ValidationError struct {
	Kind    ValidationKind
	Message string

	// Set for KindRateExceeded.
	Rate    float64
	MaxRate float64

	// Set for KindSessionCapExceeded.
	SessionsToday int
	MaxSessions   int
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidInput(format string, args ...any) *ValidationError {
	return &ValidationError{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// InvalidInput builds a user-correctable rejection for callers outside the
// engine, such as challenge creation payload checks.
func InvalidInput(format string, args ...any) *ValidationError {
	return invalidInput(format, args...)
}

// AsValidation unwraps err into a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// State errors: rejected operations, no retry implied.
var (
	ErrAlreadyParticipating = errors.New("already participating in this challenge")
	ErrNotParticipating     = errors.New("not participating in this challenge")
	ErrChallengeNotJoinable = errors.New("challenge is not open for joining")
	ErrOwnerCannotLeave     = errors.New("owner cannot leave while other participants are active")
)

// Not-found errors: 404-equivalents.
var (
	ErrChallengeNotFound   = errors.New("challenge not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrExerciseNotFound    = errors.New("exercise not found")
)
