package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking-service/internal/booking"
	"github.com/iliyamo/room-booking-service/internal/queue"
	"github.com/iliyamo/room-booking-service/internal/repository"
	queue_publisher "github.com/iliyamo/room-booking-service/internal/service"
)

// AdminBookingHandler exposes the decision endpoints: listing the pending
// queue and accepting or rejecting a request. Decisions are one-shot; a
// booking that has left PENDING cannot be decided again.
type AdminBookingHandler struct {
	Svc      *booking.Service
	Bookings *repository.BookingRepo
	Rooms    *repository.RoomRepo
}

// NewAdminBookingHandler constructs an AdminBookingHandler. All
// dependencies must be non-nil.
func NewAdminBookingHandler(svc *booking.Service, bookings *repository.BookingRepo, rooms *repository.RoomRepo) *AdminBookingHandler {
	if svc == nil || bookings == nil || rooms == nil {
		panic("nil dependency passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{Svc: svc, Bookings: bookings, Rooms: rooms}
}

type decideReq struct {
	Decision  string `json:"decision"` // ACCEPTED | REJECTED
	AdminNote string `json:"admin_note"`
}

// ListPending handles GET /v1/admin/bookings/pending, oldest first.
func (h *AdminBookingHandler) ListPending(c echo.Context) error {
	details, err := h.Bookings.ListByStatus(c.Request().Context(), booking.StatusPending)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// Decide handles PUT /v1/bookings/:code. Accepting re-checks the room's
// confirmed schedule and commits the status change together with the new
// ledger entry; a clash leaves the booking PENDING and returns 409.
// Rejection never touches the schedule. Either outcome is published to
// the booking.decided queue on a best-effort basis.
func (h *AdminBookingHandler) Decide(c echo.Context) error {
	code := c.Param("code")
	var req decideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	decision := strings.ToUpper(strings.TrimSpace(req.Decision))

	decided, err := h.Svc.Decide(c.Request().Context(), code, decision, req.AdminNote)
	if err != nil {
		return bookingError(c, err)
	}

	ev := queue.BookingDecidedEvent{
		BookingCode: decided.Code,
		RequesterID: decided.RequesterID,
		RoomID:      decided.RoomID,
		Date:        decided.Interval.Date,
		StartTime:   decided.Interval.Start(),
		EndTime:     decided.Interval.End(),
		Status:      decided.Status,
		AdminNote:   decided.AdminNote,
		DecidedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if room, err := h.Rooms.GetByID(c.Request().Context(), decided.RoomID); err == nil {
		ev.RoomCode = room.Code
		ev.RoomName = room.Name
	}
	// Publish outside the request lifecycle; a broker outage must not fail
	// the decision that already committed.
	go func(ev queue.BookingDecidedEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishBookingDecided(ctx, ev)
	}(ev)

	return c.JSON(http.StatusOK, toBookingResp(decided))
}
