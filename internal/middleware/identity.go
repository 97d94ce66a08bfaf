package middleware

// identity.go holds the caller-identity helper shared by the cache and
// rate-limit key builders.  Both run on public routes where most
// callers are anonymous guests; authenticated organizers are keyed by
// their account ID instead so one busy organizer never consumes a
// shared anonymous budget.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// callerIdentity returns a stable string for the current caller: the
// organizer ID from the JWT claims when authenticated, "guest"
// otherwise.
func callerIdentity(c echo.Context) string {
	v := c.Get("organizer_id")
	if v == nil {
		return "guest"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		// MapClaims decode numbers as float64.
		return fmt.Sprintf("%.0f", t)
	case uint64:
		return fmt.Sprintf("%d", t)
	case int64:
		return fmt.Sprintf("%d", t)
	}
	return "guest"
}
