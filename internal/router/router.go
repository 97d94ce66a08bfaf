// Package router wires the HTTP surface: which handler answers which
// path, and which middleware guards it.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-registration/internal/handler"
	"github.com/iliyamo/event-registration/internal/middleware"
)

// RegisterRoutes registers the routes that carry no authentication and
// no tenant scope. Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints. Token issuance and
// logout live under /v1/auth without middleware; /v1/me sits behind the
// JWT so clients can probe whether their token still works.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(handler.RoleOrganizer),
	)
	auth.GET("/me", a.Me)

	// Logout works with just a refresh token in the body, so it is also
	// reachable without a bearer token.
	e.POST("/v1/logout", a.Logout)
}
