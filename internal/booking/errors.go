// Package booking implements the room reservation core: time intervals,
// the per-room schedule ledger, the request state machine and the conflict
// resolution rules that decide whether a candidate reservation may be
// created, accepted or cancelled.  The package depends only on the store
// interfaces declared in store.go, so its correctness does not depend on
// how rooms and bookings are persisted.
package booking

import "errors"

// Sentinel errors returned by the booking core.  These represent expected
// business outcomes, not faults: handlers translate each of them into a
// specific HTTP status and message.  Storage failures are returned as-is
// and must be treated as infrastructure errors by callers.
var (
	// ErrInvalidInterval is returned when a candidate interval has a
	// malformed date or clock value, or its end is not after its start.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrRoomNotFound is returned when the referenced room does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomInactive is returned when the room exists but is not bookable.
	ErrRoomInactive = errors.New("room inactive")

	// ErrBookingNotFound is returned when the referenced booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrScheduleConflict is returned when a candidate interval overlaps a
	// confirmed entry on the room's schedule ledger.
	ErrScheduleConflict = errors.New("schedule conflict")

	// ErrPendingConflict is returned when a candidate interval overlaps
	// another PENDING or ACCEPTED request that has not reached the ledger
	// yet.  Callers surface it exactly like ErrScheduleConflict ("time
	// unavailable") but the two are logged distinctly.
	ErrPendingConflict = errors.New("pending request conflict")

	// ErrInvalidState is returned when a decision is attempted on a booking
	// that is no longer PENDING.
	ErrInvalidState = errors.New("booking is not pending")

	// ErrForbidden is returned when the actor is neither the requester of a
	// booking nor an admin.
	ErrForbidden = errors.New("forbidden")
)

// IsConflict reports whether err is one of the two conflict outcomes.  It
// lets callers answer "is this slot unavailable" without caring whether the
// collision came from the confirmed ledger or from an undecided request.
func IsConflict(err error) bool {
	return errors.Is(err, ErrScheduleConflict) || errors.Is(err, ErrPendingConflict)
}
