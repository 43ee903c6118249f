package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking-service/internal/booking"
	"github.com/iliyamo/room-booking-service/internal/repository"
)

// BookingHandler exposes the requester-facing booking endpoints: filing a
// request, listing own bookings, viewing one and cancelling. All methods
// assume JWT authentication has run; role checks happen in the router.
type BookingHandler struct {
	Svc      *booking.Service
	Bookings *repository.BookingRepo
}

// NewBookingHandler constructs a BookingHandler. Both dependencies must be
// non-nil.
func NewBookingHandler(svc *booking.Service, bookings *repository.BookingRepo) *BookingHandler {
	if svc == nil || bookings == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc, Bookings: bookings}
}

type createBookingReq struct {
	RoomCode string `json:"room_code"`
	Date     string `json:"date"`       // YYYY-MM-DD
	Start    string `json:"start_time"` // HH:MM
	End      string `json:"end_time"`   // HH:MM
	Note     string `json:"note"`
}

type bookingResp struct {
	BookingCode string `json:"booking_code"`
	RoomID      uint64 `json:"room_id"`
	Date        string `json:"date"`
	Start       string `json:"start_time"`
	End         string `json:"end_time"`
	Note        string `json:"note,omitempty"`
	Status      string `json:"status"`
	AdminNote   string `json:"admin_note,omitempty"`
}

func toBookingResp(r *booking.Request) bookingResp {
	return bookingResp{
		BookingCode: r.Code,
		RoomID:      r.RoomID,
		Date:        r.Interval.Date,
		Start:       r.Interval.Start(),
		End:         r.Interval.End(),
		Note:        r.Note,
		Status:      r.Status,
		AdminNote:   r.AdminNote,
	}
}

// Create handles POST /v1/bookings. The new request always starts as
// PENDING; conflicts against the confirmed schedule or other undecided
// requests are reported as 409.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.RoomCode = strings.TrimSpace(req.RoomCode)
	if req.RoomCode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_code required"})
	}

	created, err := h.Svc.CreateRequest(c.Request().Context(), booking.CreateInput{
		RoomCode:    req.RoomCode,
		RequesterID: userID,
		Date:        req.Date,
		Start:       req.Start,
		End:         req.End,
		Note:        req.Note,
	})
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(created))
}

// ListMine handles GET /v1/my-bookings and returns every booking filed by
// the authenticated user, including rejected ones.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Bookings.ListByRequester(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// Get handles GET /v1/bookings/:code. Requesters may only view their own
// bookings; admins may view any.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	code := c.Param("code")
	detail, err := h.Bookings.DetailByCode(c.Request().Context(), code)
	if err != nil {
		return bookingError(c, err)
	}
	if detail.RequesterID != userID && getRole(c) != booking.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, detail)
}

// Cancel handles DELETE /v1/bookings/:code. Cancelling an accepted booking
// frees its slot; the ledger rollback and the delete commit together.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	code := c.Param("code")
	if err := h.Svc.Cancel(c.Request().Context(), code, userID, getRole(c)); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
