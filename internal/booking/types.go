package booking

import "time"

// Booking request statuses.  PENDING is the only mutable state: a request
// leaves it exactly once, either through an admin decision or through
// deletion.  Cancellation is modeled as removal from the system rather
// than a stored state.
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

// Actor roles as carried in JWT claims.  Only RoleAdmin may decide
// bookings or cancel on behalf of other users.
const (
	RoleAdmin   = "ADMIN"
	RoleStaff   = "STAFF"
	RoleStudent = "STUDENT"
)

// Room is a bookable resource together with its schedule ledger.  The room
// exclusively owns its ledger entries; they are only ever written through
// the transactional accept/cancel paths in Service.
//
// Fields:
//  ID       – storage identifier.
//  Code     – human-assigned unique room code (e.g. "A101").
//  Name     – display name.
//  Capacity – how many people the room holds, informational for the core.
//  Active   – whether the room accepts new bookings.
//  Ledger   – confirmed, non-overlapping reservations.
type Room struct {
	ID       uint64
	Code     string
	Name     string
	Capacity uint32
	Active   bool
	Ledger   Ledger
}

// Request is a user's proposal to reserve a room for an interval.  It
// references its room and requester weakly by id; the core looks them up,
// it does not own them.
//
// Fields:
//  ID          – storage identifier.
//  Code        – generated booking code ("BK" + 5-digit sequence).
//  RequesterID – user who filed the request.
//  RoomID      – room the request targets.
//  Interval    – candidate time range.
//  Note        – requester's free-text note.
//  Status      – PENDING, ACCEPTED or REJECTED.
//  AdminNote   – note appended by the deciding admin.
//  CreatedAt   – creation timestamp, UTC.
type Request struct {
	ID          uint64
	Code        string
	RequesterID uint64
	RoomID      uint64
	Interval    Interval
	Note        string
	Status      string
	AdminNote   string
	CreatedAt   time.Time
}

// Entry converts an accepted request into the ledger entry it backs.
func (r *Request) Entry() Entry {
	return Entry{Interval: r.Interval, HolderID: r.RequesterID, Note: r.Note}
}

// CanCancel reports whether the actor may cancel this request: the
// original requester always can, and so can an admin.
func (r *Request) CanCancel(actorID uint64, actorRole string) bool {
	return actorID == r.RequesterID || actorRole == RoleAdmin
}
