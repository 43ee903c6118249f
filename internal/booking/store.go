package booking

import "context"

// Tx is an opaque transaction handle threaded through store calls.  The
// SQL implementation passes a *sql.Tx, the in-memory test stores ignore
// it.  A nil handle means "outside any transaction" and is valid for
// reads.
type Tx any

// UnitOfWork runs a function inside one atomic unit scoped to a single
// room: the room's ledger and any booking rows touched by fn become
// visible together or not at all.  Implementations must also serialize
// concurrent units targeting the same room, so a check-then-mutate inside
// fn cannot race another accept or cancel of the same room.  When fn
// returns an error the unit is rolled back and the error is returned
// unchanged.
type UnitOfWork interface {
	WithinRoom(ctx context.Context, roomID uint64, fn func(tx Tx) error) error
}

// RoomStore provides the room lookups and ledger mutations the core needs.
// FindByID and FindByCode return the room with its ledger fully loaded.
// Both return ErrRoomNotFound when the room does not exist.  The ledger
// mutations must only be called inside a unit of work for the same room.
type RoomStore interface {
	FindByID(ctx context.Context, tx Tx, id uint64) (*Room, error)
	FindByCode(ctx context.Context, tx Tx, code string) (*Room, error)
	AppendScheduleEntry(ctx context.Context, tx Tx, roomID uint64, e Entry) error
	RemoveScheduleEntry(ctx context.Context, tx Tx, roomID uint64, date, start, end string, holderID uint64) error
}

// BookingStore persists booking requests.  FindByCode returns
// ErrBookingNotFound for unknown codes.  ListActiveByRoom returns every
// PENDING and ACCEPTED request for the room on the given date; the
// resolver uses it for the cross-request conflict check.  NextCode
// allocates the next sequential booking code and must be called inside a
// transaction so concurrent creates cannot collide.
type BookingStore interface {
	FindByCode(ctx context.Context, tx Tx, code string) (*Request, error)
	ListActiveByRoom(ctx context.Context, tx Tx, roomID uint64, date string) ([]Request, error)
	Create(ctx context.Context, tx Tx, req *Request) error
	UpdateDecision(ctx context.Context, tx Tx, id uint64, status, adminNote string) error
	Delete(ctx context.Context, tx Tx, id uint64) error
	NextCode(ctx context.Context, tx Tx) (string, error)
}
