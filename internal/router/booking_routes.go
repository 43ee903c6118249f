package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking-service/internal/handler"
	"github.com/iliyamo/room-booking-service/internal/middleware"
)

// RegisterBooking registers the requester-facing endpoints under /v1.  All
// routes require a valid JWT; any of the three roles may browse rooms and
// file booking requests.  Students and staff see and cancel their own
// bookings; admins may view or cancel anyone's.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, br *handler.BrowseHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "STAFF", "STUDENT"),
	)
	// Room browsing.  The available search must be registered before the
	// :id routes so "available" is not captured as a room id.
	g.GET("/rooms", br.ListRooms)
	g.GET("/rooms/available", br.Available)
	g.GET("/rooms/:id/schedule", br.Schedule)

	// Booking lifecycle.
	g.POST("/bookings", b.Create)
	g.GET("/my-bookings", b.ListMine)
	g.GET("/bookings/:code", b.Get)
	g.DELETE("/bookings/:code", b.Cancel)
}

// RegisterAdmin registers room administration and booking decision
// endpoints.  Every route requires the ADMIN role.
func RegisterAdmin(e *echo.Echo, r *handler.AdminRoomHandler, ab *handler.AdminBookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	// Room management.
	g.POST("/rooms", r.Create)
	g.GET("/admin/rooms", r.List)
	g.GET("/rooms/:id", r.Get)
	g.PUT("/rooms/:id", r.Update)

	// Decision queue.  PUT on a booking code accepts or rejects it.
	g.GET("/admin/bookings/pending", ab.ListPending)
	g.PUT("/bookings/:code", ab.Decide)
}
