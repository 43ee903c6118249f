package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/room-booking-service/internal/booking"
)

// UnitOfWork implements booking.UnitOfWork on MySQL.  WithinRoom opens a
// transaction and takes a row lock on the room (SELECT ... FOR UPDATE)
// before running fn, so every check-then-mutate sequence against one
// room's ledger is serialized: a concurrent unit for the same room blocks
// until this one commits or rolls back and then observes its outcome.
type UnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork returns a UnitOfWork bound to the given database.
func NewUnitOfWork(db *sql.DB) *UnitOfWork { return &UnitOfWork{db: db} }

// WithinRoom runs fn inside a transaction holding the room's row lock.
// The *sql.Tx is handed to fn as the opaque booking.Tx; repositories
// unwrap it via the dbtx helper.  fn's error aborts the transaction and
// is returned unchanged, so business errors like ErrScheduleConflict
// survive the rollback intact.
func (u *UnitOfWork) WithinRoom(ctx context.Context, roomID uint64, fn func(tx booking.Tx) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var id uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = ? FOR UPDATE`, roomID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking.ErrRoomNotFound
		}
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// dbtx is the subset of *sql.DB and *sql.Tx the repositories need.  It
// lets every query run either inside a unit of work or in autocommit
// mode, depending on the handle passed down from the booking core.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// pick returns the transaction when one is present and falls back to the
// plain database handle otherwise.
func pick(db *sql.DB, tx booking.Tx) dbtx {
	if t, ok := tx.(*sql.Tx); ok && t != nil {
		return t
	}
	return db
}
