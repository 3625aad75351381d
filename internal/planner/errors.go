package planner

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"GO2GETHER_PLANNER/internal/generator"
	"GO2GETHER_PLANNER/internal/store"
)

var (
	// ErrUnauthorized is returned before any store or network call when the
	// session may not perform the operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMissingPrerequisite blocks the workflow. The concrete error is a
	// *WaitingError describing what is missing.
	ErrMissingPrerequisite = errors.New("missing prerequisite")
	// ErrGenerationFailed is the generator's sentinel so that its errors
	// match without rewrapping.
	ErrGenerationFailed     = generator.ErrGenerationFailed
	ErrPersistence          = errors.New("persistence failure")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrInvalidInput         = errors.New("invalid input")
	ErrGenerationInProgress = errors.New("generation already in progress")
)

// Reasons carried by WaitingError.
const (
	ReasonWaitingOnTravelers = "waiting_on_travelers"
	ReasonMissingDailyWindow = "missing_daily_window"
)

// WaitingError reports why generation cannot proceed yet.
type WaitingError struct {
	Reason    string
	Readiness Readiness
}

func (e *WaitingError) Error() string {
	switch e.Reason {
	case ReasonMissingDailyWindow:
		return "missing prerequisite: no traveler gave a preferred daily start and end time"
	default:
		return fmt.Sprintf("missing prerequisite: waiting on %d of %d travelers",
			len(e.Readiness.Missing), e.Readiness.Expected)
	}
}

func (e *WaitingError) Unwrap() error { return ErrMissingPrerequisite }

func unauthorized(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, fmt.Sprintf(format, args...))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// fromStore maps store errors onto the planner taxonomy.
func fromStore(op string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	case errors.Is(err, store.ErrConflict):
		return fmt.Errorf("%w: %s: itinerary was changed by someone else", ErrConflict, op)
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%w: %s: already exists", ErrConflict, op)
	default:
		return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
	}
}

// Session identifies the caller of every workflow operation. There is no
// process-wide current user.
type Session struct {
	UserID uuid.UUID
}

func (s Session) check() error {
	if s.UserID == uuid.Nil {
		return unauthorized("no authenticated user")
	}
	return nil
}
