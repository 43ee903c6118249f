package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking-service/internal/handler"
	"github.com/iliyamo/room-booking-service/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this endpoint to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login
	// and the two refresh flavors.  Each handler generates or exchanges
	// tokens on its own.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a JSON body with a refresh_token, or a Bearer token
	// to revoke all sessions; it does not require the JWT middleware.
	g.POST("/logout", a.Logout)

	// Routes below require a valid access token.  Every role the service
	// issues may call /v1/me.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "STAFF", "STUDENT"))
	auth.GET("/me", a.Me)

	// Alias outside the auth group so clients can log out with just a
	// refresh token in the body.
	e.POST("/v1/logout", a.Logout)
}
