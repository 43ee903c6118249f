package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking-service/internal/booking"
	"github.com/iliyamo/room-booking-service/internal/repository"
)

// BrowseHandler serves the read-only room endpoints available to any
// authenticated user: the active room list, a room's confirmed schedule
// and a slot availability search.
type BrowseHandler struct {
	Svc   *booking.Service
	Rooms *repository.RoomRepo
}

// NewBrowseHandler constructs a BrowseHandler. Both dependencies must be
// non-nil.
func NewBrowseHandler(svc *booking.Service, rooms *repository.RoomRepo) *BrowseHandler {
	if svc == nil || rooms == nil {
		panic("nil dependency passed to NewBrowseHandler")
	}
	return &BrowseHandler{Svc: svc, Rooms: rooms}
}

// ListRooms handles GET /v1/rooms and returns active rooms only.
func (h *BrowseHandler) ListRooms(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context(), true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

type scheduleEntryResp struct {
	Date     string `json:"date"`
	Start    string `json:"start_time"`
	End      string `json:"end_time"`
	HolderID uint64 `json:"holder_user_id"`
	Note     string `json:"note,omitempty"`
}

// Schedule handles GET /v1/rooms/:id/schedule?from=&to=. Both bounds are
// optional inclusive calendar dates; omitting them returns the full
// confirmed ledger of the room.
func (h *BrowseHandler) Schedule(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx := c.Request().Context()
	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	entries, err := h.Svc.ListSchedules(ctx, room.Code, c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]scheduleEntryResp, 0, len(entries))
	for _, e := range entries {
		out = append(out, scheduleEntryResp{
			Date:     e.Interval.Date,
			Start:    e.Interval.Start(),
			End:      e.Interval.End(),
			HolderID: e.HolderID,
			Note:     e.Note,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id":  room.ID,
		"code":     room.Code,
		"schedule": out,
	})
}

// Available handles GET /v1/rooms/available?date=&start_time=&end_time=.
// It returns the active rooms whose confirmed schedule leaves the whole
// candidate slot free. Pending requests do not block availability here;
// they only surface when a booking is actually filed.
func (h *BrowseHandler) Available(c echo.Context) error {
	candidate, err := booking.NewInterval(
		c.QueryParam("date"), c.QueryParam("start_time"), c.QueryParam("end_time"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	rooms, err := h.Rooms.List(ctx, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	available := make([]repository.Room, 0, len(rooms))
	for _, room := range rooms {
		ok, err := h.Svc.RoomAvailable(ctx, room.Code, candidate)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if ok {
			available = append(available, room)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":       candidate.Date,
		"start_time": candidate.Start(),
		"end_time":   candidate.End(),
		"rooms":      available,
	})
}
