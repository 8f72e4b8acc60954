// Package domainerrors holds the sentinel errors shared by the
// repositories and application services. Callers classify failures with
// errors.Is and decide whether a retry makes sense.
package domainerrors

import "errors"

var (
	// ErrConflict means a transition supplied a stale expected status.
	// Safe to retry after a refetch; never retried automatically.
	ErrConflict = errors.New("conflicting concurrent update")

	// ErrInvalidTransition means the requested transition violates the
	// state machine or a structural invariant. Never retried.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDispatchPartial means one or more recipient pushes failed after
	// every notification row was durably written. The rows guarantee
	// eventual visibility via pull, so this is logged, not propagated.
	ErrDispatchPartial = errors.New("partial notification dispatch")

	// ErrPersistenceFailure means the entity store write itself failed;
	// the triggering transition must not be reported as successful.
	ErrPersistenceFailure = errors.New("persistence failure")
)
