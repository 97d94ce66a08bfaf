package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-registration/internal/handler"
	"github.com/iliyamo/event-registration/internal/middleware"
)

// RegisterOrganizer registers the ORGANIZER-scoped endpoints under /v1.
// Every route requires a valid JWT with the organizer role; the tenant
// scope comes from the token, never from the path.
func RegisterOrganizer(e *echo.Echo, o *handler.OrganizerHandler, r *handler.OrganizerRegistrationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(handler.RoleOrganizer),
	)

	// ---- Events ----
	g.POST("/events", o.CreateEvent)
	g.GET("/events", o.ListEvents)
	g.GET("/events/:id", o.GetEvent)
	g.GET("/events/:id/qr", o.EventQR)

	// ---- Registrations ----
	g.GET("/events/:id/registrations", r.ListRegistrations)
	g.GET("/events/:id/registrations/export", r.ExportRegistrations)
	g.DELETE("/events/:id/registrations", r.DeleteRegistrations)
	g.POST("/events/:id/checkin", r.CheckIn)
}
