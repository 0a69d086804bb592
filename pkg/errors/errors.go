package errors

import "errors"

// ── Error taxonomy ──
//
// Module-level errors wrap one of these with %w so callers can branch on the kind
// without knowing the module.

var (
	// ErrValidation payload failed shape or enum checks. Nothing was mutated.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized actor's role does not grant the action.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotOwner role grants the action only on the actor's own records.
	ErrNotOwner = errors.New("not owner")
	// ErrInvalidTransition requested status change is not an edge from the current status.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrConflict concurrent change won the race, or the entity is already in a final state.
	ErrConflict = errors.New("conflict")
	// ErrNotificationDelivery a channel failed to deliver. Never returned from a transition.
	ErrNotificationDelivery = errors.New("notification delivery failed")
)

// ErrOptimisticLock row was changed by someone else since it was read.
var ErrOptimisticLock = errors.New("record was modified by another operation, reload and retry")

// IsConflict reports conflicts including lost optimistic-lock races.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrOptimisticLock)
}

// Error a message that reads well on its own and still matches its kind with errors.Is.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// New returns an error of kind with msg as its full text.
func New(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}
