package booking

// In-memory implementations of RoomStore, BookingStore and UnitOfWork used
// by the service tests.  WithinRoom holds a store-wide mutex for the
// duration of the unit and restores a snapshot of the state when the unit
// fails, so the tests exercise real all-or-nothing and serialization
// semantics without a database.

import (
	"context"
	"sync"
)

type memTx struct{}

// memState is the shared backing state.  memRooms, memBookings and the
// unit of work are thin views over it, mirroring how the SQL stores share
// one database.
type memState struct {
	mu       sync.Mutex
	rooms    map[uint64]*Room
	bookings map[uint64]*Request
	nextID   uint64
}

func newMemState() *memState {
	return &memState{
		rooms:    make(map[uint64]*Room),
		bookings: make(map[uint64]*Request),
	}
}

func (m *memState) addRoom(r Room) {
	m.rooms[r.ID] = &r
}

// seedRequest inserts a request directly, bypassing the admissibility
// checks.  Tests use it to stage states the public API would refuse, such
// as two overlapping PENDING requests for the race test.
func (m *memState) seedRequest(r Request) {
	m.nextID++
	r.ID = m.nextID
	m.bookings[r.ID] = &r
}

// lockIfOutside takes the state mutex when the call is not already inside
// a unit of work.  WithinRoom passes memTx{} and holds the mutex itself.
func (m *memState) lockIfOutside(tx Tx) func() {
	if tx != nil {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *memState) snapshot() (map[uint64]*Room, map[uint64]*Request) {
	rooms := make(map[uint64]*Room, len(m.rooms))
	for id, r := range m.rooms {
		cp := *r
		cp.Ledger = NewLedger(r.Ledger.Entries())
		rooms[id] = &cp
	}
	bookings := make(map[uint64]*Request, len(m.bookings))
	for id, b := range m.bookings {
		cp := *b
		bookings[id] = &cp
	}
	return rooms, bookings
}

func (m *memState) roomCopy(r *Room) *Room {
	cp := *r
	cp.Ledger = NewLedger(r.Ledger.Entries())
	return &cp
}

// memUOW serializes units per store (coarser than per room, which is fine
// for tests) and rolls the whole state back when the unit fails.
type memUOW struct{ s *memState }

func (u memUOW) WithinRoom(ctx context.Context, roomID uint64, fn func(tx Tx) error) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if _, ok := u.s.rooms[roomID]; !ok {
		return ErrRoomNotFound
	}
	snapRooms, snapBookings := u.s.snapshot()
	if err := fn(memTx{}); err != nil {
		u.s.rooms, u.s.bookings = snapRooms, snapBookings
		return err
	}
	return nil
}

// memRooms implements RoomStore.
type memRooms struct{ s *memState }

func (r memRooms) FindByID(ctx context.Context, tx Tx, id uint64) (*Room, error) {
	defer r.s.lockIfOutside(tx)()
	room, ok := r.s.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r.s.roomCopy(room), nil
}

func (r memRooms) FindByCode(ctx context.Context, tx Tx, code string) (*Room, error) {
	defer r.s.lockIfOutside(tx)()
	for _, room := range r.s.rooms {
		if room.Code == code {
			return r.s.roomCopy(room), nil
		}
	}
	return nil, ErrRoomNotFound
}

func (r memRooms) AppendScheduleEntry(ctx context.Context, tx Tx, roomID uint64, e Entry) error {
	defer r.s.lockIfOutside(tx)()
	room, ok := r.s.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	return room.Ledger.Add(e)
}

func (r memRooms) RemoveScheduleEntry(ctx context.Context, tx Tx, roomID uint64, date, start, end string, holderID uint64) error {
	defer r.s.lockIfOutside(tx)()
	room, ok := r.s.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	room.Ledger.Remove(date, start, end, holderID)
	return nil
}

// memBookings implements BookingStore.
type memBookings struct{ s *memState }

func (b memBookings) FindByCode(ctx context.Context, tx Tx, code string) (*Request, error) {
	defer b.s.lockIfOutside(tx)()
	for _, req := range b.s.bookings {
		if req.Code == code {
			cp := *req
			return &cp, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (b memBookings) ListActiveByRoom(ctx context.Context, tx Tx, roomID uint64, date string) ([]Request, error) {
	defer b.s.lockIfOutside(tx)()
	var out []Request
	for _, req := range b.s.bookings {
		if req.RoomID == roomID && req.Interval.Date == date &&
			(req.Status == StatusPending || req.Status == StatusAccepted) {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (b memBookings) Create(ctx context.Context, tx Tx, req *Request) error {
	defer b.s.lockIfOutside(tx)()
	b.s.nextID++
	req.ID = b.s.nextID
	cp := *req
	b.s.bookings[req.ID] = &cp
	return nil
}

func (b memBookings) UpdateDecision(ctx context.Context, tx Tx, id uint64, status, adminNote string) error {
	defer b.s.lockIfOutside(tx)()
	req, ok := b.s.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	req.Status = status
	req.AdminNote = adminNote
	return nil
}

func (b memBookings) Delete(ctx context.Context, tx Tx, id uint64) error {
	defer b.s.lockIfOutside(tx)()
	delete(b.s.bookings, id)
	return nil
}

func (b memBookings) NextCode(ctx context.Context, tx Tx) (string, error) {
	defer b.s.lockIfOutside(tx)()
	var max uint64
	for _, req := range b.s.bookings {
		if seq, ok := ParseCode(req.Code); ok && seq > max {
			max = seq
		}
	}
	return FormatCode(max + 1), nil
}
