package booking

import "fmt"

// Resolver holds the pure admissibility rules: whether a candidate
// interval may join a room's schedule given the confirmed ledger and the
// outstanding PENDING/ACCEPTED requests.  It performs no storage access
// and no locking; Service invokes it inside the unit of work that holds
// the room.
type Resolver struct{}

// CheckLedger fails with ErrScheduleConflict when the candidate overlaps a
// confirmed entry on the room's ledger.
func (Resolver) CheckLedger(room *Room, candidate Interval) error {
	if hit, ok := room.Ledger.FirstConflict(candidate); ok {
		return fmt.Errorf("%w: overlaps confirmed reservation %s", ErrScheduleConflict, hit.Interval)
	}
	return nil
}

// CheckRequests fails with ErrPendingConflict when the candidate overlaps
// any other PENDING or ACCEPTED request.  A request with excludeID is
// skipped so a booking never conflicts with itself during re-validation.
// PENDING requests are checked even though they are not on the ledger yet:
// admitting an overlapping pair would let a later admin accept both.
func (Resolver) CheckRequests(candidate Interval, others []Request, excludeID uint64) error {
	for _, o := range others {
		if o.ID == excludeID {
			continue
		}
		if o.Status != StatusPending && o.Status != StatusAccepted {
			continue
		}
		if o.Interval.Overlaps(candidate) {
			return fmt.Errorf("%w: overlaps request %s (%s)", ErrPendingConflict, o.Code, o.Interval)
		}
	}
	return nil
}

// Admissible combines both checks in ledger-first order, matching the
// precedence callers expect: a collision with a confirmed reservation is
// reported as ErrScheduleConflict even if a pending request overlaps too.
func (r Resolver) Admissible(room *Room, others []Request, candidate Interval) error {
	if err := r.CheckLedger(room, candidate); err != nil {
		return err
	}
	return r.CheckRequests(candidate, others, 0)
}

// RoomIsAvailable reports whether the room can take the candidate interval
// given only its confirmed ledger.  It is a pure function: the storage
// layer may translate the same question into a native query for listing,
// but correctness never depends on that translation.
func RoomIsAvailable(room *Room, candidate Interval) bool {
	return room.Active && !room.Ledger.Conflicts(candidate)
}
