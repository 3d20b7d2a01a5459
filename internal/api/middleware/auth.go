package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/udagram/image-filter/internal/api/metrics"
	"github.com/udagram/image-filter/internal/core/domain"
	"github.com/udagram/image-filter/internal/core/ports"
)

// IdentityKey is the echo.Context key holding the verified identity.
const IdentityKey = "identity"

var denyMessages = map[domain.DenyReason]string{
	domain.DenyMissingHeader:         "no authorization headers",
	domain.DenyMalformedHeader:       "malformed token",
	domain.DenyInvalidOrExpiredToken: "failed to authenticate",
}

// Auth runs the gate before next and injects the identity into context.
// Every non-allowed result becomes a 401.
func Auth(gate ports.AuthGate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := gate.Authorize(c.Request().Header.Get(echo.HeaderAuthorization))
			if !res.Allowed() {
				reason := res.Reason
				if reason == domain.DenyNone {
					reason = domain.DenyInvalidOrExpiredToken
				}
				metrics.AuthDenialsTotal.WithLabelValues(reason.String()).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, denyMessages[reason])
			}

			c.Set(IdentityKey, res.Identity)
			return next(c)
		}
	}
}
