package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking-service/internal/booking"
	"github.com/iliyamo/room-booking-service/internal/repository"
)

// AdminRoomHandler bundles the room administration endpoints. Only admins
// reach these; the router enforces the role.
type AdminRoomHandler struct {
	Rooms *repository.RoomRepo
}

// NewAdminRoomHandler constructs an AdminRoomHandler and panics if the
// repository is nil.
func NewAdminRoomHandler(rooms *repository.RoomRepo) *AdminRoomHandler {
	if rooms == nil {
		panic("nil repository passed to NewAdminRoomHandler")
	}
	return &AdminRoomHandler{Rooms: rooms}
}

type roomReq struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Capacity uint32 `json:"capacity"`
	IsActive *bool  `json:"is_active"`
}

// Create handles POST /v1/rooms. New rooms default to active unless
// is_active is explicitly false.
func (h *AdminRoomHandler) Create(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Name = strings.TrimSpace(req.Name)
	if req.Code == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code and name required"})
	}
	if req.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	room := &repository.Room{Code: req.Code, Name: req.Name, Capacity: req.Capacity, IsActive: active}
	if err := h.Rooms.Create(c.Request().Context(), room); err != nil {
		if err == repository.ErrRoomCodeExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, room)
}

// Get handles GET /v1/rooms/:id and returns the room regardless of its
// active flag.
func (h *AdminRoomHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == booking.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, room)
}

// List handles GET /v1/admin/rooms. Unlike the public listing this one
// includes deactivated rooms.
func (h *AdminRoomHandler) List(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context(), false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// Update handles PUT /v1/rooms/:id. The room code is immutable; name,
// capacity and the active flag can change. Deactivating a room stops new
// bookings but leaves existing ledger entries untouched.
func (h *AdminRoomHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if err == booking.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		room.Name = name
	}
	if req.Capacity > 0 {
		room.Capacity = req.Capacity
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}
	if err := h.Rooms.Update(ctx, room); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update room failed"})
	}
	return c.JSON(http.StatusOK, room)
}
