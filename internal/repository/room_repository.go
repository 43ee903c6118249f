package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/room-booking-service/internal/booking"
)

// Room mirrors the schema of the rooms table.  It is the persistence view
// used by admin CRUD handlers; the booking core works with booking.Room,
// which additionally carries the loaded schedule ledger.
type Room struct {
	ID        uint64    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Capacity  uint32    `json:"capacity"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomRepo provides room persistence.  A room embeds its schedule ledger:
// schedule_entries rows belong to exactly one room and are only written
// through AppendScheduleEntry/RemoveScheduleEntry inside a unit of work,
// which keeps the no-overlap invariant enforceable at one choke point.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// Create inserts a new room and re-reads the row so defaults and
// timestamps are populated.  The room code must be unique; a duplicate
// yields ErrRoomCodeExists.
func (r *RoomRepo) Create(ctx context.Context, room *Room) error {
	const qInsert = `INSERT INTO rooms (code, name, capacity, is_active) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, room.Code, room.Name, room.Capacity, room.IsActive)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrRoomCodeExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	const qSelect = `SELECT id, code, name, capacity, is_active, created_at, updated_at FROM rooms WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, room.ID).
		Scan(&room.ID, &room.Code, &room.Name, &room.Capacity, &room.IsActive, &room.CreatedAt, &room.UpdatedAt)
}

// ErrRoomCodeExists is returned when creating a room with a code that is
// already taken.
var ErrRoomCodeExists = errors.New("room code already exists")

// GetByID retrieves a room row by its ID.  It returns
// booking.ErrRoomNotFound when no row is found.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*Room, error) {
	const q = `SELECT id, code, name, capacity, is_active, created_at, updated_at FROM rooms WHERE id = ?`
	return r.scanRoom(r.db.QueryRowContext(ctx, q, id))
}

// GetByCode retrieves a room row by its human-assigned code.
func (r *RoomRepo) GetByCode(ctx context.Context, code string) (*Room, error) {
	const q = `SELECT id, code, name, capacity, is_active, created_at, updated_at FROM rooms WHERE code = ?`
	return r.scanRoom(r.db.QueryRowContext(ctx, q, code))
}

func (r *RoomRepo) scanRoom(row *sql.Row) (*Room, error) {
	var room Room
	err := row.Scan(&room.ID, &room.Code, &room.Name, &room.Capacity, &room.IsActive, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// List returns all rooms ordered by code.  When activeOnly is true,
// deactivated rooms are filtered out.
func (r *RoomRepo) List(ctx context.Context, activeOnly bool) ([]Room, error) {
	q := `SELECT id, code, name, capacity, is_active, created_at, updated_at FROM rooms`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY code`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Room, 0)
	for rows.Next() {
		var room Room
		if err := rows.Scan(&room.ID, &room.Code, &room.Name, &room.Capacity, &room.IsActive, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update modifies a room's name, capacity and active flag.  Returns
// booking.ErrRoomNotFound when the room does not exist.
func (r *RoomRepo) Update(ctx context.Context, room *Room) error {
	const q = `UPDATE rooms SET name = ?, capacity = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, room.Name, room.Capacity, room.IsActive, room.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is zero both for a missing row and a no-op update;
		// distinguish with a lookup.
		if _, err := r.GetByID(ctx, room.ID); err != nil {
			return err
		}
	}
	return nil
}

// --- booking.RoomStore ---

// FindByID loads a room together with its full schedule ledger.  Inside a
// unit of work the room's row lock is already held, so the ledger read is
// consistent with any concurrent accept or cancel.
func (r *RoomRepo) FindByID(ctx context.Context, tx booking.Tx, id uint64) (*booking.Room, error) {
	const q = `SELECT id, code, name, capacity, is_active FROM rooms WHERE id = ?`
	return r.findDomain(ctx, pick(r.db, tx), q, id)
}

// FindByCode is FindByID keyed by the room code.
func (r *RoomRepo) FindByCode(ctx context.Context, tx booking.Tx, code string) (*booking.Room, error) {
	const q = `SELECT id, code, name, capacity, is_active FROM rooms WHERE code = ?`
	return r.findDomain(ctx, pick(r.db, tx), q, code)
}

func (r *RoomRepo) findDomain(ctx context.Context, h dbtx, q string, key any) (*booking.Room, error) {
	var room booking.Room
	err := h.QueryRowContext(ctx, q, key).Scan(&room.ID, &room.Code, &room.Name, &room.Capacity, &room.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrRoomNotFound
		}
		return nil, err
	}
	entries, err := r.loadLedger(ctx, h, room.ID)
	if err != nil {
		return nil, err
	}
	room.Ledger = booking.NewLedger(entries)
	return &room, nil
}

func (r *RoomRepo) loadLedger(ctx context.Context, h dbtx, roomID uint64) ([]booking.Entry, error) {
	const q = `SELECT DATE_FORMAT(entry_date, '%Y-%m-%d'), start_time, end_time, holder_user_id, note
               FROM schedule_entries
               WHERE room_id = ?
               ORDER BY entry_date, start_time`
	rows, err := h.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []booking.Entry
	for rows.Next() {
		var date, start, end, note string
		var holder uint64
		if err := rows.Scan(&date, &start, &end, &holder, &note); err != nil {
			return nil, err
		}
		iv, err := booking.NewInterval(date, start, end)
		if err != nil {
			return nil, err
		}
		entries = append(entries, booking.Entry{Interval: iv, HolderID: holder, Note: note})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// AppendScheduleEntry inserts a confirmed ledger entry for the room.  The
// booking core has already re-checked the ledger under the room lock, so
// the insert itself cannot introduce an overlap.
func (r *RoomRepo) AppendScheduleEntry(ctx context.Context, tx booking.Tx, roomID uint64, e booking.Entry) error {
	const q = `INSERT INTO schedule_entries (room_id, entry_date, start_time, end_time, holder_user_id, note)
               VALUES (?, ?, ?, ?, ?, ?)`
	_, err := pick(r.db, tx).ExecContext(ctx, q,
		roomID, e.Interval.Date, e.Interval.Start(), e.Interval.End(), e.HolderID, e.Note)
	return err
}

// RemoveScheduleEntry deletes the ledger entry matching all four fields.
// A miss is not an error, mirroring idempotent cancellation.
func (r *RoomRepo) RemoveScheduleEntry(ctx context.Context, tx booking.Tx, roomID uint64, date, start, end string, holderID uint64) error {
	const q = `DELETE FROM schedule_entries
               WHERE room_id = ? AND entry_date = ? AND start_time = ? AND end_time = ? AND holder_user_id = ?
               LIMIT 1`
	_, err := pick(r.db, tx).ExecContext(ctx, q, roomID, date, start, end, holderID)
	return err
}
