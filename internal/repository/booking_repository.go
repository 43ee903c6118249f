package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/room-booking-service/internal/booking"
)

// BookingRepo provides persistence for booking requests.  Bookings are an
// independent collection with weak references to room and user ids: the
// room's ledger lives in its own embedded table (see RoomRepo), and the
// pairing of a status change with a ledger change is the booking core's
// job, not this repository's.  All timestamp fields are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// --- booking.BookingStore ---

// FindByCode returns the booking with the given code, or
// booking.ErrBookingNotFound.  Inside a unit of work the read observes
// rows written earlier in the same transaction.
func (r *BookingRepo) FindByCode(ctx context.Context, tx booking.Tx, code string) (*booking.Request, error) {
	const q = `SELECT id, booking_code, requester_id, room_id,
                      DATE_FORMAT(booking_date, '%Y-%m-%d'), start_time, end_time,
                      note, status, admin_note, created_at
               FROM bookings WHERE booking_code = ?`
	return r.scanRequest(pick(r.db, tx).QueryRowContext(ctx, q, code))
}

func (r *BookingRepo) scanRequest(row *sql.Row) (*booking.Request, error) {
	var (
		req              booking.Request
		date, start, end string
		adminNote        sql.NullString
	)
	err := row.Scan(&req.ID, &req.Code, &req.RequesterID, &req.RoomID,
		&date, &start, &end, &req.Note, &req.Status, &adminNote, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, err
	}
	iv, err := booking.NewInterval(date, start, end)
	if err != nil {
		return nil, err
	}
	req.Interval = iv
	if adminNote.Valid {
		req.AdminNote = adminNote.String
	}
	return &req, nil
}

// ListActiveByRoom returns every PENDING and ACCEPTED booking for the
// room on the given date.  The resolver runs its cross-request conflict
// check against this set.
func (r *BookingRepo) ListActiveByRoom(ctx context.Context, tx booking.Tx, roomID uint64, date string) ([]booking.Request, error) {
	const q = `SELECT id, booking_code, requester_id, room_id,
                      DATE_FORMAT(booking_date, '%Y-%m-%d'), start_time, end_time,
                      note, status, admin_note, created_at
               FROM bookings
               WHERE room_id = ? AND booking_date = ? AND status IN ('PENDING', 'ACCEPTED')
               ORDER BY id`
	rows, err := pick(r.db, tx).QueryContext(ctx, q, roomID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []booking.Request
	for rows.Next() {
		var (
			req           booking.Request
			d, start, end string
			adminNote     sql.NullString
		)
		if err := rows.Scan(&req.ID, &req.Code, &req.RequesterID, &req.RoomID,
			&d, &start, &end, &req.Note, &req.Status, &adminNote, &req.CreatedAt); err != nil {
			return nil, err
		}
		iv, err := booking.NewInterval(d, start, end)
		if err != nil {
			return nil, err
		}
		req.Interval = iv
		if adminNote.Valid {
			req.AdminNote = adminNote.String
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new PENDING booking and populates the generated ID.
// It must run inside the unit of work that allocated the booking code.
func (r *BookingRepo) Create(ctx context.Context, tx booking.Tx, req *booking.Request) error {
	const q = `INSERT INTO bookings (booking_code, requester_id, room_id, booking_date, start_time, end_time, note, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := pick(r.db, tx).ExecContext(ctx, q,
		req.Code, req.RequesterID, req.RoomID,
		req.Interval.Date, req.Interval.Start(), req.Interval.End(),
		req.Note, req.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	req.ID = uint64(id)
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	return nil
}

// UpdateDecision writes the admin's verdict and note.
func (r *BookingRepo) UpdateDecision(ctx context.Context, tx booking.Tx, id uint64, status, adminNote string) error {
	const q = `UPDATE bookings SET status = ?, admin_note = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := pick(r.db, tx).ExecContext(ctx, q, status, adminNote, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

// Delete removes the booking row.  Cancellation semantics (ledger
// rollback for ACCEPTED bookings) are handled by the caller inside the
// same unit of work.
func (r *BookingRepo) Delete(ctx context.Context, tx booking.Tx, id uint64) error {
	_, err := pick(r.db, tx).ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	return err
}

// NextCode allocates the next sequential booking code.  It reads the
// highest live sequence with a locking read, so it must run inside a
// transaction: two concurrent creates serialize on the lock instead of
// both deriving the same number from a shared count, which is the race
// the old count-based scheme suffered from.
func (r *BookingRepo) NextCode(ctx context.Context, tx booking.Tx) (string, error) {
	const q = `SELECT COALESCE(MAX(CAST(SUBSTRING(booking_code, 3) AS UNSIGNED)), 0)
               FROM bookings FOR UPDATE`
	var max uint64
	if err := pick(r.db, tx).QueryRowContext(ctx, q).Scan(&max); err != nil {
		return "", err
	}
	return booking.FormatCode(max + 1), nil
}

// --- listing queries for handlers ---

// BookingDetail joins a booking with its room for display.  It is the
// response shape of the my-bookings and admin listing endpoints.
type BookingDetail struct {
	Code        string    `json:"booking_code"`
	RequesterID uint64    `json:"requester_id"`
	RoomCode    string    `json:"room_code"`
	RoomName    string    `json:"room_name"`
	Date        string    `json:"date"`
	Start       string    `json:"start_time"`
	End         string    `json:"end_time"`
	Note        string    `json:"note"`
	Status      string    `json:"status"`
	AdminNote   string    `json:"admin_note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

const detailSelect = `SELECT b.booking_code, b.requester_id, r.code, r.name,
                             DATE_FORMAT(b.booking_date, '%Y-%m-%d'), b.start_time, b.end_time,
                             b.note, b.status, b.admin_note, b.created_at
                      FROM bookings b
                      JOIN rooms r ON r.id = b.room_id`

// ListByRequester returns all bookings filed by the given user, newest
// first.  An empty slice is returned when none exist.
func (r *BookingRepo) ListByRequester(ctx context.Context, requesterID uint64) ([]BookingDetail, error) {
	q := detailSelect + ` WHERE b.requester_id = ? ORDER BY b.created_at DESC, b.id DESC`
	return r.queryDetails(ctx, q, requesterID)
}

// ListByStatus returns all bookings in the given status, oldest first so
// admins work through the queue in filing order.
func (r *BookingRepo) ListByStatus(ctx context.Context, status string) ([]BookingDetail, error) {
	q := detailSelect + ` WHERE b.status = ? ORDER BY b.id`
	return r.queryDetails(ctx, q, status)
}

func (r *BookingRepo) queryDetails(ctx context.Context, q string, args ...any) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var (
			d         BookingDetail
			adminNote sql.NullString
		)
		if err := rows.Scan(&d.Code, &d.RequesterID, &d.RoomCode, &d.RoomName,
			&d.Date, &d.Start, &d.End, &d.Note, &d.Status, &adminNote, &d.CreatedAt); err != nil {
			return nil, err
		}
		if adminNote.Valid {
			d.AdminNote = adminNote.String
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// DetailByCode returns the joined detail row for one booking, or
// booking.ErrBookingNotFound.
func (r *BookingRepo) DetailByCode(ctx context.Context, code string) (*BookingDetail, error) {
	q := detailSelect + ` WHERE b.booking_code = ?`
	details, err := r.queryDetails(ctx, q, code)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, booking.ErrBookingNotFound
	}
	return &details[0], nil
}
