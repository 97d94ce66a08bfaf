// Package handler defines the HTTP handlers behind the API routes.
// Handlers bundle the repositories they touch, bind and validate the
// request, and translate repository errors into JSON responses.
package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// organizerID extracts the organizer ID the JWT middleware stored in the
// context. JWT numeric claims decode as float64, so several shapes are
// accepted.
func organizerID(c echo.Context) (uint64, error) {
	switch t := c.Get("organizer_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid organizer_id in context")
}

// tenantID extracts the sanitized tenant identifier from the context.
// It is set by the JWT middleware from the token's tenant claim and is
// the only tenant value scoped handlers may use.
func tenantID(c echo.Context) (string, error) {
	if s, ok := c.Get("tenant_id").(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("invalid tenant_id in context")
}

// opCtx bounds a handler's database work to a short deadline.
func opCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
