package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-registration/internal/handler"
)

// RegisterGuest registers the public registration endpoints. Link and
// event resolution sit behind the response cache, both submission
// routes behind the rate limiter; with Redis absent both middlewares
// are pass-throughs.
func RegisterGuest(e *echo.Echo, g *handler.GuestHandler, cache, limit echo.MiddlewareFunc) {
	e.GET("/v1/links/:code", g.ResolveLink, cache)
	e.POST("/v1/links/:code/registrations", g.RegisterViaLink, limit)
	e.GET("/v1/tenants/:tenant/events/:event", g.ResolveEvent, cache)
	e.POST("/v1/tenants/:tenant/events/:event/registrations", g.Register, limit)
}
