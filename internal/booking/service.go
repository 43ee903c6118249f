package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Service is the booking request state machine together with the
// transactional commit protocol.  Every operation that pairs a booking
// status change with a ledger change runs inside UnitOfWork.WithinRoom, so
// a confirmed reservation and its ledger entry are always consistent with
// each other: either both mutations commit or neither does.
type Service struct {
	rooms    RoomStore
	bookings BookingStore
	uow      UnitOfWork
	resolver Resolver
	log      zerolog.Logger
}

// NewService wires the booking core to its collaborators.  All
// dependencies must be non-nil.
func NewService(rooms RoomStore, bookings BookingStore, uow UnitOfWork, log zerolog.Logger) *Service {
	if rooms == nil || bookings == nil || uow == nil {
		panic("nil dependency passed to booking.NewService")
	}
	return &Service{rooms: rooms, bookings: bookings, uow: uow, log: log}
}

// CreateInput carries the fields of a new booking request.  Date and the
// clock values are strings straight from the caller; validation happens in
// NewInterval.
type CreateInput struct {
	RoomCode    string
	RequesterID uint64
	Date        string
	Start       string
	End         string
	Note        string
}

// CreateRequest validates a candidate booking and stores it as PENDING.
// The admissibility checks and the insert run inside one unit of work on
// the room, so two concurrent creates for overlapping slots cannot both
// pass: the second observes the first's row and fails.
//
// Failure modes: ErrInvalidInterval, ErrRoomNotFound, ErrRoomInactive,
// ErrScheduleConflict (confirmed schedule) or ErrPendingConflict (another
// undecided request).  The two conflict kinds are logged distinctly here;
// callers may fold them together via IsConflict.
func (s *Service) CreateRequest(ctx context.Context, in CreateInput) (*Request, error) {
	candidate, err := NewInterval(in.Date, in.Start, in.End)
	if err != nil {
		return nil, err
	}
	room, err := s.rooms.FindByCode(ctx, nil, in.RoomCode)
	if err != nil {
		return nil, err
	}
	if !room.Active {
		return nil, ErrRoomInactive
	}

	var created *Request
	err = s.uow.WithinRoom(ctx, room.ID, func(tx Tx) error {
		// Reload under the room lock: the ledger may have grown since the
		// unlocked lookup above.
		locked, err := s.rooms.FindByID(ctx, tx, room.ID)
		if err != nil {
			return err
		}
		if !locked.Active {
			return ErrRoomInactive
		}
		others, err := s.bookings.ListActiveByRoom(ctx, tx, room.ID, candidate.Date)
		if err != nil {
			return err
		}
		if err := s.resolver.Admissible(locked, others, candidate); err != nil {
			s.logConflict("create rejected", room.Code, candidate, err)
			return err
		}
		code, err := s.bookings.NextCode(ctx, tx)
		if err != nil {
			return err
		}
		req := &Request{
			Code:        code,
			RequesterID: in.RequesterID,
			RoomID:      room.ID,
			Interval:    candidate,
			Note:        in.Note,
			Status:      StatusPending,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.bookings.Create(ctx, tx, req); err != nil {
			return err
		}
		created = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("booking", created.Code).
		Str("room", room.Code).
		Stringer("interval", created.Interval).
		Uint64("requester", in.RequesterID).
		Msg("booking request created")
	return created, nil
}

// Decide resolves a PENDING booking.  decision must be StatusAccepted or
// StatusRejected; anything else is rejected up front.  REJECTED only
// mutates the status and appends the admin note.  ACCEPTED re-checks the
// room's ledger inside the unit of work, guarding against reservations
// confirmed since the request was filed, and then writes the status
// change and the ledger entry atomically.  A conflict found at this point
// aborts the unit, leaving the booking PENDING, and returns
// ErrScheduleConflict.
func (s *Service) Decide(ctx context.Context, code, decision, adminNote string) (*Request, error) {
	if decision != StatusAccepted && decision != StatusRejected {
		return nil, fmt.Errorf("%w: decision must be %s or %s", ErrInvalidState, StatusAccepted, StatusRejected)
	}
	req, err := s.bookings.FindByCode(ctx, nil, code)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinRoom(ctx, req.RoomID, func(tx Tx) error {
		// Re-read under the lock: a concurrent decide or cancel may have
		// moved the booking since the unlocked lookup.
		current, err := s.bookings.FindByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if current.Status != StatusPending {
			return fmt.Errorf("%w: status is %s", ErrInvalidState, current.Status)
		}
		if decision == StatusRejected {
			if err := s.bookings.UpdateDecision(ctx, tx, current.ID, StatusRejected, adminNote); err != nil {
				return err
			}
			req = current
			req.Status = StatusRejected
			req.AdminNote = adminNote
			return nil
		}
		room, err := s.rooms.FindByID(ctx, tx, current.RoomID)
		if err != nil {
			return err
		}
		if err := s.resolver.CheckLedger(room, current.Interval); err != nil {
			s.logConflict("accept rejected", room.Code, current.Interval, err)
			return err
		}
		if err := s.bookings.UpdateDecision(ctx, tx, current.ID, StatusAccepted, adminNote); err != nil {
			return err
		}
		if err := s.rooms.AppendScheduleEntry(ctx, tx, room.ID, current.Entry()); err != nil {
			return err
		}
		req = current
		req.Status = StatusAccepted
		req.AdminNote = adminNote
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("booking", req.Code).
		Str("decision", req.Status).
		Stringer("interval", req.Interval).
		Msg("booking decided")
	return req, nil
}

// Cancel removes a booking.  The actor must be the original requester or
// an admin.  An ACCEPTED booking has its ledger entry retracted in the
// same unit of work that deletes the record; PENDING and REJECTED bookings
// are simply deleted.  Cancelling an unknown or already-deleted code
// returns ErrBookingNotFound and never touches the ledger.
func (s *Service) Cancel(ctx context.Context, code string, actorID uint64, actorRole string) error {
	req, err := s.bookings.FindByCode(ctx, nil, code)
	if err != nil {
		return err
	}
	if !req.CanCancel(actorID, actorRole) {
		return ErrForbidden
	}

	err = s.uow.WithinRoom(ctx, req.RoomID, func(tx Tx) error {
		current, err := s.bookings.FindByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if !current.CanCancel(actorID, actorRole) {
			return ErrForbidden
		}
		if current.Status == StatusAccepted {
			iv := current.Interval
			if err := s.rooms.RemoveScheduleEntry(ctx, tx, current.RoomID, iv.Date, iv.Start(), iv.End(), current.RequesterID); err != nil {
				return err
			}
		}
		return s.bookings.Delete(ctx, tx, current.ID)
	})
	if err != nil {
		return err
	}
	s.log.Info().
		Str("booking", code).
		Uint64("actor", actorID).
		Str("status_was", req.Status).
		Msg("booking cancelled")
	return nil
}

// ListSchedules returns the room's confirmed ledger entries within
// [from, to] (calendar dates, inclusive).  Zero-value bounds disable the
// respective cut.
func (s *Service) ListSchedules(ctx context.Context, roomCode, from, to string) ([]Entry, error) {
	room, err := s.rooms.FindByCode(ctx, nil, roomCode)
	if err != nil {
		return nil, err
	}
	entries := room.Ledger.Entries()
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if from != "" && e.Interval.Date < from {
			continue
		}
		if to != "" && e.Interval.Date > to {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// RoomAvailable reports whether the room identified by roomCode can take
// the candidate interval, considering only its confirmed ledger.
func (s *Service) RoomAvailable(ctx context.Context, roomCode string, candidate Interval) (bool, error) {
	room, err := s.rooms.FindByCode(ctx, nil, roomCode)
	if err != nil {
		return false, err
	}
	return RoomIsAvailable(room, candidate), nil
}

// logConflict writes the two conflict kinds under distinct messages so
// contention against the confirmed schedule can be told apart from
// contention between undecided requests.
func (s *Service) logConflict(op, roomCode string, candidate Interval, err error) {
	ev := s.log.Warn().Str("room", roomCode).Stringer("candidate", candidate).Err(err)
	if errors.Is(err, ErrPendingConflict) {
		ev.Msg(op + ": conflicts with pending/accepted request")
		return
	}
	ev.Msg(op + ": conflicts with confirmed schedule")
}
