package booking

// Entry is a confirmed reservation materialized on a room's ledger.  An
// entry exists only while the ACCEPTED booking that produced it is alive;
// the pairing is enforced by Service, which mutates status and ledger
// inside one unit of work.
//
// Fields:
//  Interval – the reserved half-open time range.
//  HolderID – user holding the reservation.
//  Note     – free-text note carried over from the booking request.
type Entry struct {
	Interval Interval
	HolderID uint64
	Note     string
}

// Ledger is the authoritative, ordered set of confirmed reservations for
// one room.  Its invariant: no two entries overlap on the same date.  All
// mutation goes through Add and Remove; callers never splice the entry
// slice directly, so the invariant has a single choke point.
type Ledger struct {
	entries []Entry
}

// NewLedger builds a ledger from already-confirmed entries, e.g. rows
// loaded from storage.  The entries are trusted to be non-overlapping
// because they were admitted through Add before being persisted.
func NewLedger(entries []Entry) Ledger {
	return Ledger{entries: entries}
}

// Conflicts reports whether the candidate interval overlaps any entry on
// the ledger.  Same-date comparison and the half-open boundary rule are
// handled by Interval.Overlaps.
func (l *Ledger) Conflicts(candidate Interval) bool {
	_, ok := l.FirstConflict(candidate)
	return ok
}

// FirstConflict returns the first entry overlapping the candidate, if any.
// Handlers use it to include the colliding reservation in conflict logs.
func (l *Ledger) FirstConflict(candidate Interval) (Entry, bool) {
	for _, e := range l.entries {
		if e.Interval.Overlaps(candidate) {
			return e, true
		}
	}
	return Entry{}, false
}

// Add appends an entry, preserving the no-overlap invariant.  It fails
// with ErrScheduleConflict when the entry's interval collides with an
// existing one at call time.
func (l *Ledger) Add(e Entry) error {
	if l.Conflicts(e.Interval) {
		return ErrScheduleConflict
	}
	l.entries = append(l.entries, e)
	return nil
}

// Remove deletes the first entry matching all four fields: date, start,
// end and holder.  It reports whether an entry was removed; a miss is not
// an error, mirroring idempotent cancellation.
func (l *Ledger) Remove(date, start, end string, holderID uint64) bool {
	for idx, e := range l.entries {
		if e.Interval.Date == date && e.Interval.Start() == start && e.Interval.End() == end && e.HolderID == holderID {
			l.entries = append(l.entries[:idx], l.entries[idx+1:]...)
			return true
		}
	}
	return false
}

// Entries returns a copy of the ledger's entries so callers cannot bypass
// Add/Remove.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of confirmed entries.
func (l *Ledger) Len() int { return len(l.entries) }
