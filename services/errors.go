package services

import (
	"errors"
	"fmt"

	"github.com/kayceelyoDev/RoomManagement-sub001/models"
)

// Core error kinds. Callers classify failures with errors.Is; controllers
// translate them to HTTP statuses at the edge.
var (
	// ErrNotFound: unknown reservation, room, category or catalog entry id.
	ErrNotFound = errors.New("not_found")

	// ErrOverlapConflict: the room is not free for the requested interval.
	ErrOverlapConflict = errors.New("overlap_conflict")

	// ErrValidation: malformed input (bad dates, non-positive guest count,
	// empty remarks or payment method, ...).
	ErrValidation = errors.New("validation_failed")

	// ErrInvalidTransition: an illegal state-machine edge was attempted.
	// When this results from a race (e.g. sweeper vs. staff cancel) the
	// caller treats it as already-satisfied rather than surfacing it.
	ErrInvalidTransition = errors.New("invalid_transition")

	// ErrConflict: a delete or update cannot proceed because of dependent
	// records (room with live reservations, category still in use).
	ErrConflict = errors.New("conflict")
)

// TransitionError names the current state and the attempted target of an
// illegal transition. It unwraps to ErrInvalidTransition.
type TransitionError struct {
	From models.ReservationStatus
	To   models.ReservationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

func validationErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
